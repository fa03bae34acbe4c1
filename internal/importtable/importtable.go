/*
Copyright © 2025 The qoptimizer Authors

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package importtable implements three layered responsibilities:
// recording import declarations, renaming "$"-suffixed marker imports to
// their "Qrl"-suffixed form, and synthesizing/cleaning up the imports a
// compilation ends up needing.
//
// A semantic analyzer keying recorded imports by symbol id is out of scope
// here, so this package keys by local binding name instead — sufficient
// within one module's top-level scope, which is the only place import
// bindings live.
package importtable

import "strings"

// Record is one (source, imported name, local name) import binding.
type Record struct {
	Source       string
	ImportedName string // "" for a default import, "*" for a namespace import
	LocalName    string
	IsType       bool
}

// Table is the per-file import tracker the driver seeds at enter_program
// and consumes through exit_program.
type Table struct {
	bySource map[string][]Record
	byLocal  map[string]Record

	frames []frame

	// skipTransformNames holds aliased "$"-marker imports: when a marker is
	// imported under an alias, the alias is added here so calls through it
	// are never mistaken for a fresh, unrenamed marker.
	SkipTransformNames map[string]bool

	needsWrapProp    bool
	needsFnSignal    bool
	needsVal         bool
	needsChk         bool
	needsInlinedQrl  bool
	needsRestProps   bool
	needsQrl         bool
	usedReferences   map[string]bool
}

type frame struct {
	records []Record
}

func NewTable() *Table {
	return &Table{
		bySource:           make(map[string][]Record),
		byLocal:            make(map[string]Record),
		SkipTransformNames: make(map[string]bool),
		usedReferences:     make(map[string]bool),
	}
}

// RecordImportDeclaration registers every specifier of one ImportDeclaration.
func (t *Table) RecordImportDeclaration(source string, specifiers []Record) {
	for _, spec := range specifiers {
		spec.Source = source
		t.bySource[source] = append(t.bySource[source], spec)
		t.byLocal[spec.LocalName] = spec
	}
}

// Lookup reports whether localName is bound by an import, and its record.
func (t *Table) Lookup(localName string) (Record, bool) {
	r, ok := t.byLocal[localName]
	return r, ok
}

// RenameMarkerSpecifier renames a marker specifier in place: a
// specifier whose local or imported name ends in "$" is rewritten in place
// to the "…Qrl"-suffixed form while the binding stays resolvable under its
// new local name. If the marker was imported under an alias (its original
// local name differs from its imported name), the alias is recorded in
// SkipTransformNames so the driver never tries to re-extract calls to it as
// if it were a fresh marker.
func (t *Table) RenameMarkerSpecifier(r Record) Record {
	renamed := r
	if strings.HasSuffix(r.LocalName, "$") {
		renamed.LocalName = strings.TrimSuffix(r.LocalName, "$") + "Qrl"
	}
	if strings.HasSuffix(r.ImportedName, "$") {
		renamed.ImportedName = strings.TrimSuffix(r.ImportedName, "$") + "Qrl"
	}
	if r.ImportedName != "" && r.LocalName != r.ImportedName && strings.HasSuffix(r.ImportedName, "$") {
		t.SkipTransformNames[r.LocalName] = true
	}
	return renamed
}

// PushFrame opens a new import-collection frame: the driver pushes one
// fresh frame on entering each marker call.
func (t *Table) PushFrame() { t.frames = append(t.frames, frame{}) }

// PopFrame closes the innermost frame and returns the imports it
// collected — the segment's own carried imports.
func (t *Table) PopFrame() []Record {
	if len(t.frames) == 0 {
		return nil
	}
	top := t.frames[len(t.frames)-1]
	t.frames = t.frames[:len(t.frames)-1]
	return top.records
}

// AddReference is called on every identifier reference: if name
// resolves to an imported binding, add that import to the current (and any
// still-open outer) import frame, and mark the binding as used for later
// cleanup.
func (t *Table) AddReference(name string) {
	t.usedReferences[name] = true
	rec, ok := t.byLocal[name]
	if !ok {
		return
	}
	for i := range t.frames {
		if !containsLocal(t.frames[i].records, rec.LocalName) {
			t.frames[i].records = append(t.frames[i].records, rec)
		}
	}
}

func containsLocal(records []Record, local string) bool {
	for _, r := range records {
		if r.LocalName == local {
			return true
		}
	}
	return false
}

// --- Synthesis flags ---

func (t *Table) NeedWrapProp()   { t.needsWrapProp = true }
func (t *Table) NeedFnSignal()   { t.needsFnSignal = true }
func (t *Table) NeedVal()        { t.needsVal = true }
func (t *Table) NeedChk()        { t.needsChk = true }
func (t *Table) NeedInlinedQrl() { t.needsInlinedQrl = true }
func (t *Table) NeedRestProps()  { t.needsRestProps = true }
func (t *Table) NeedQrl()        { t.needsQrl = true }

// Synthesize renders the ImportDeclaration statements injected
// at program exit for every flag a pass set, merged into a single import
// from coreModule.
func (t *Table) Synthesize(coreModule string) []string {
	var names []string
	add := func(needed bool, name string) {
		if needed {
			names = append(names, name)
		}
	}
	add(t.needsQrl, "qrl")
	add(t.needsWrapProp, "_wrapProp")
	add(t.needsFnSignal, "_fnSignal")
	add(t.needsVal, "_val")
	add(t.needsChk, "_chk")
	add(t.needsInlinedQrl, "inlinedQrl")
	add(t.needsRestProps, "_restProps")
	if len(names) == 0 {
		return nil
	}
	return []string{renderImport(names, coreModule)}
}

func renderImport(names []string, source string) string {
	return "import { " + strings.Join(names, ", ") + " } from \"" + source + "\";"
}

// Used reports whether localName was referenced anywhere in the file, for
// cleanup passes that drop declarations with zero remaining references.
func (t *Table) Used(localName string) bool { return t.usedReferences[localName] }

// legacySources maps legacy import specifiers to their modern equivalents.
var legacySources = []struct {
	from, to string
}{
	{"@builder.io/qwik-city", "@qwik.dev/router"},
	{"@builder.io/qwik-react", "@qwik.dev/react"},
	{"@builder.io/qwik", "@qwik.dev/core"},
}

// RewriteLegacySource rewrites an import source string carrying one of the
// legacy prefixes, preserving any path remainder after the prefix.
func RewriteLegacySource(source string) string {
	for _, m := range legacySources {
		if source == m.from || strings.HasPrefix(source, m.from+"/") {
			return m.to + strings.TrimPrefix(source, m.from)
		}
	}
	return source
}
