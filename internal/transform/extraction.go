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

package transform

import (
	"sort"
	"strings"

	"bennypowers.dev/qoptimizer/internal/emitter"
	"bennypowers.dev/qoptimizer/internal/entrystrategy"
	"bennypowers.dev/qoptimizer/internal/identset"
	"bennypowers.dev/qoptimizer/internal/importtable"
	"bennypowers.dev/qoptimizer/internal/qrl"
	"bennypowers.dev/qoptimizer/internal/scope"
	"bennypowers.dev/qoptimizer/internal/tsutil"
)

// extractionInput bundles what extractQrl needs from the driver about the
// call site it is rewriting.
type extractionInput struct {
	CalleeName    string
	Arg           *tsutil.Node
	CallStart     uint
	CallEnd       uint
	HasBlockBody  bool // true if Arg is an arrow/function with a `{ ... }` body
	ParamsSource  string
	BodySource    string // Arg's body text (rendered with edits already applied within its range)
	ImportedLocal map[string]bool

	// IsJSXAttribute marks an extraction whose marker appeared as a
	// `foo$={...}` JSX attribute value rather than a `foo$(...)` call, so
	// it always renders as plain qrl() — there is no `<prefix>Qrl` runtime
	// export for an attribute name.
	IsJSXAttribute bool
}

// extractQrl, given a marker call's first argument and the driver's current
// stacks, produces the Component to emit and the Edit that rewrites the
// call site in place.
func (s *State) extractQrl(in extractionInput) (Component, tsutil.Edit, bool) {
	result := identset.Collect(in.Arg, s.Source)

	flat := s.scopeTracker.Flatten()
	valid := make(map[string]scope.Entry)
	for _, e := range flat {
		if _, seen := valid[e.Name]; !seen {
			valid[e.Name] = e
		}
	}

	var scopedSet []string
	isConst := true
	for _, name := range result.Idents {
		entry, ok := valid[name]
		if !ok {
			continue // global or import; handled separately below
		}
		switch entry.Type {
		case scope.Fn, scope.Class:
			kind := "function"
			if entry.Type == scope.Class {
				kind = "class"
			}
			if s.removedSymbols[name] {
				s.Diagnostics.IllegalReference(s.Options.RelPath, s.Options.Scope, name, kind)
			}
		case scope.Var:
			scopedSet = append(scopedSet, name)
			if !entry.IsConst {
				isConst = false
			}
		}
	}

	// Step 4: pop the import frame this call pushed at enter_call_expression;
	// subtract imported local names from scoped_idents.
	frameImports := s.imports.PopFrame()
	importedLocals := make(map[string]bool, len(frameImports))
	for _, rec := range frameImports {
		importedLocals[rec.LocalName] = true
	}
	scopedIdents := scopedSet[:0:0]
	for _, name := range scopedSet {
		if !importedLocals[name] {
			scopedIdents = append(scopedIdents, name)
		}
	}
	sort.Strings(scopedIdents)
	scopedIdents = uniqueSorted(scopedIdents)

	// Step 5: for every identifier that is neither a local Var capture nor
	// an import, check the module's own export table and carry it along if
	// this file exports a binding under that name — e.g. a reference to a
	// sibling `export function`/`export class` declared elsewhere in the
	// same module.
	var referencedExports []string
	for _, name := range result.Idents {
		if importedLocals[name] {
			continue
		}
		if entry, ok := valid[name]; ok && entry.Type == scope.Var {
			continue
		}
		if s.exportedNames[name] {
			referencedExports = append(referencedExports, name)
		}
	}

	// Step 6: split iteration params from lexical captures when in a loop.
	var iterationParams []string
	if s.loopDepth > 0 {
		iterSet := make(map[string]bool)
		for _, v := range s.currentIterationVars() {
			iterSet[v] = true
		}
		lexical := scopedIdents[:0:0]
		for _, name := range scopedIdents {
			if iterSet[name] {
				iterationParams = append(iterationParams, name)
			} else {
				lexical = append(lexical, name)
			}
		}
		scopedIdents = lexical
	}

	displayName := s.displayName()
	id := qrl.NewId(s.Options.RelPath, displayName, s.Options.Scope, s.Options.Target)

	var qrlType qrl.Type
	if in.IsJSXAttribute {
		qrlType = qrl.PlainType()
	} else {
		qrlType = s.currentQrlType(in.CalleeName)
	}

	data := entrystrategy.SegmentData{
		Origin:     strings.TrimSuffix(s.Options.RelPath, fileExt(s.Options.RelPath)),
		HasContext: len(s.contextStack) > 0,
	}
	if len(s.contextStack) > 0 {
		data.FirstContext = s.contextStack[0]
	}
	entry, _ := entrystrategy.GetEntryForSym(s.Options.EntryStrategy, s.contextStack, data)

	descriptor := qrl.Descriptor{
		Id:                id,
		RelPath:           "./" + id.LocalFileName,
		DisplayName:       displayName,
		Type:              qrlType,
		ScopedIdents:      scopedIdents,
		ReferencedExports: referencedExports,
		IterationParams:   iterationParams,
		IsConst:           isConst,
	}

	importLines := renderImportLines(frameImports)
	body := emitter.InjectLexicalScope(in.ParamsSource, in.BodySource, in.HasBlockBody, scopedIdents)
	module := emitter.Render(id, importLines, body)

	s.imports.NeedQrl()
	callText := descriptor.Render()

	comp := Component{
		Id:       id,
		Language: languageOf(s.Options.RelPath),
		Code:     module.Code,
		Qrl:      descriptor,
		Entry:    entry,
	}
	edit := tsutil.Edit{Start: in.CallStart, End: in.CallEnd, Text: callText}
	return comp, edit, true
}

func (s *State) currentQrlType(calleeName string) qrl.Type {
	stripped, ok := strings.CutSuffix(calleeName, "$")
	if !ok {
		return qrl.PlainType()
	}
	if stripped == "" {
		// Find this call's own segment element, pushed at enter_call_expression.
		if len(s.segmentStack) > 0 {
			top := s.segmentStack[len(s.segmentStack)-1]
			if top.Index > 0 {
				return qrl.IndexedType(top.Index)
			}
		}
		return qrl.PlainType()
	}
	return qrl.PrefixedType(stripped)
}

func renderImportLines(records []importtable.Record) []string {
	bySource := make(map[string][]importtable.Record)
	var order []string
	for _, r := range records {
		if _, ok := bySource[r.Source]; !ok {
			order = append(order, r.Source)
		}
		bySource[r.Source] = append(bySource[r.Source], r)
	}
	lines := make([]string, 0, len(order))
	for _, src := range order {
		var names []string
		for _, r := range bySource[src] {
			if r.ImportedName == "" || r.ImportedName == r.LocalName {
				names = append(names, r.LocalName)
			} else {
				names = append(names, r.ImportedName+" as "+r.LocalName)
			}
		}
		lines = append(lines, "import { "+strings.Join(names, ", ")+" } from \""+src+"\";")
	}
	return lines
}

func uniqueSorted(in []string) []string {
	if len(in) == 0 {
		return in
	}
	out := in[:1]
	for _, v := range in[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

func fileExt(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i:]
	}
	return ""
}

func languageOf(path string) string {
	if strings.HasSuffix(path, ".ts") || strings.HasSuffix(path, ".tsx") || strings.HasSuffix(path, ".mts") {
		return "TS"
	}
	return "JS"
}
