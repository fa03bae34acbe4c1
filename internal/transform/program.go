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
	"fmt"
	"path"
	"sort"
	"strings"

	"bennypowers.dev/qoptimizer/internal/constreplace"
	"bennypowers.dev/qoptimizer/internal/diagnostics"
	"bennypowers.dev/qoptimizer/internal/tsutil"
)

// Output is one file's transform result, the single-file slice of the
// host-facing TransformOutput.
type Output struct {
	Code         string
	Components   []Component
	Diagnostics  []diagnostics.Diagnostic
	IsJSX        bool
	IsTypeScript bool
}

// Transform runs the full single-module pipeline: Parse → const-replace
// pre-pass → driver traversal → statement cleanup → import
// synthesis/cleanup → final splice.
func Transform(source []byte, opts Options) (Output, error) {
	dialect := tsutil.DialectTSX
	isJSX := strings.HasSuffix(opts.RelPath, "x")
	isTS := strings.Contains(opts.RelPath, ".ts")

	tree, err := tsutil.Parse(source, dialect)
	if err != nil {
		return Output{}, fmt.Errorf("transform: %s: %w", opts.RelPath, err)
	}
	defer tree.Close()
	root := tree.RootNode()

	stem := strings.TrimSuffix(path.Base(opts.RelPath), path.Ext(opts.RelPath))
	s := NewState(source, stem, opts)

	constEdits, strippedSources := runConstReplacePrePass(root, source, opts)
	s.edits = append(s.edits, constEdits...)

	v := newVisitor(s)
	tsutil.Walk(root, v)

	s.runStatementCleanupPass(root)

	// exit_program: synthesize imports, prepend hoisted _hfN declarations.
	synthesized := s.imports.Synthesize(opts.coreModule())
	hoisted := s.hoister.Declarations()

	var preamble strings.Builder
	for _, line := range synthesized {
		preamble.WriteString(line)
		preamble.WriteString("\n")
	}
	for _, line := range hoisted {
		preamble.WriteString(line)
		preamble.WriteString("\n")
	}

	rewritten := tsutil.ApplyEdits(source, s.edits)
	finalCode := preamble.String() + stripUnusedLegacyImports(string(rewritten), strippedSources)

	sort.SliceStable(s.Components, func(i, j int) bool {
		return s.Components[i].Id.SortOrder < s.Components[j].Id.SortOrder
	})

	return Output{
		Code:         finalCode,
		Components:   s.Components,
		Diagnostics:  s.Diagnostics.All(),
		IsJSX:        isJSX,
		IsTypeScript: isTS,
	}, nil
}

// runConstReplacePrePass folds isServer/isBrowser/isDev references to
// boolean literals before the main traversal runs, and reports the import
// sources whose specifiers become entirely unreferenced as a result (so
// the final import cleanup can drop them).
func runConstReplacePrePass(root *tsutil.Node, source []byte, opts Options) ([]tsutil.Edit, []string) {
	bindings := collectConstReplaceBindings(root, source)
	targets := constreplace.Targets(bindings, constreplace.Options{IsServer: opts.IsServer}, opts.Target)
	if len(targets) == 0 {
		return nil, nil
	}

	var edits []tsutil.Edit
	var strip []string
	collectFoldEdits(root, source, targets, &edits)

	partial := make(map[string]bool)
	for _, b := range bindings {
		if _, folded := targets[b.LocalName]; !folded {
			partial[b.Source] = true
		}
	}
	for _, b := range bindings {
		if _, folded := targets[b.LocalName]; folded && !partial[b.Source] {
			strip = append(strip, b.Source+"::"+b.ImportedName)
		}
	}
	return edits, strip
}

func collectConstReplaceBindings(root *tsutil.Node, source []byte) []constreplace.Binding {
	var out []constreplace.Binding
	var walk func(n *tsutil.Node)
	walk = func(n *tsutil.Node) {
		if n.Kind() == tsutil.KindImportStatement {
			src := importSourceOf(n, source)
			clause := tsutil.Find(n, tsutil.KindImportClause)
			for _, spec := range importSpecifiers(clause, source) {
				out = append(out, constreplace.Binding{ImportedName: spec.imported, LocalName: spec.local, Source: src})
			}
		}
		for _, c := range tsutil.NamedChildren(n) {
			walk(c)
		}
	}
	walk(root)
	return out
}

func collectFoldEdits(n *tsutil.Node, source []byte, targets map[string]string, out *[]tsutil.Edit) {
	if n.Kind() == tsutil.KindIdentifier {
		parent := n.Parent()
		parentKind := ""
		if parent != nil {
			parentKind = parent.Kind()
		}
		if constreplace.IsFoldableReference(parentKind) {
			name := tsutil.Text(n, source)
			if lit, ok := targets[name]; ok {
				*out = append(*out, tsutil.Edit{Start: n.StartByte(), End: n.EndByte(), Text: lit})
			}
		}
		return
	}
	if n.Kind() == tsutil.KindImportStatement {
		return // handled by the import-manager cleanup pass, not folded itself
	}
	for _, c := range tsutil.NamedChildren(n) {
		collectFoldEdits(c, source, targets, out)
	}
}

// stripUnusedLegacyImports removes an import specifier's entire source line
// once every identifier it bound has been const-folded away (e.g. the
// isServer import, once isServer itself is folded to a literal). This is a line-oriented
// best-effort pass: import declarations are always single-line in the
// const-replacer's sources (@qwik.dev/core[/build]).
func stripUnusedLegacyImports(code string, strippedBindings []string) string {
	if len(strippedBindings) == 0 {
		return code
	}
	stripSources := make(map[string]bool)
	for _, s := range strippedBindings {
		parts := strings.SplitN(s, "::", 2)
		stripSources[parts[0]] = true
	}
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		drop := false
		for src := range stripSources {
			if strings.HasPrefix(trimmed, "import") && (strings.Contains(trimmed, "'"+src+"'") || strings.Contains(trimmed, "\""+src+"\"")) {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
