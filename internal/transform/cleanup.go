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

import "bennypowers.dev/qoptimizer/internal/tsutil"

// runStatementCleanupPass walks the parsed tree once the main traversal has
// finished (so every reference has already been counted) and rewrites two
// kinds of statement the main pass leaves behind:
//
//   - a statement whose body is empty in the parsed source (an empty try
//     block, a function with no statements, a class with no members) is
//     dropped entirely; emptiness is judged on the tree as parsed, not on
//     the text left after other edits;
//   - a single-declarator `const h = qrl(...)` produced by an extraction
//     whose name is never referenced again, and which is not itself
//     exported, is unwrapped to a bare `qrl(...);` expression statement.
func (s *State) runStatementCleanupPass(root *tsutil.Node) {
	var walk func(n *tsutil.Node)
	walk = func(n *tsutil.Node) {
		if n.Kind() == tsutil.KindStatementBlock || n.Kind() == tsutil.KindProgram {
			for _, stmt := range tsutil.NamedChildren(n) {
				s.cleanupStatement(stmt)
			}
		}
		for _, c := range tsutil.NamedChildren(n) {
			walk(c)
		}
	}
	walk(root)
}

func (s *State) cleanupStatement(stmt *tsutil.Node) {
	// A statement nested inside a range some earlier extraction already
	// replaced wholesale (e.g. a component$ call's own body) has nothing
	// left to clean up here — touching it would add an edit that overlaps
	// the enclosing one.
	if s.isInsideExistingEdit(stmt.StartByte(), stmt.EndByte()) {
		return
	}
	if isDeadStatement(stmt) {
		s.removeEditsWithin(stmt.StartByte(), stmt.EndByte())
		s.edits = append(s.edits, tsutil.Edit{Start: stmt.StartByte(), End: stmt.EndByte(), Text: ""})
		return
	}
	if stmt.Kind() == tsutil.KindLexicalDeclaration || stmt.Kind() == tsutil.KindVariableDeclaration {
		s.maybeUnwrapUnusedQrlDeclaration(stmt)
	}
}

// isDeadStatement mirrors the narrow set of dead-code shapes the original
// optimizer's DeadCode trait recognizes: an empty try block, a function
// declaration whose body has no statements, and a class declaration whose
// body has no members.
func isDeadStatement(stmt *tsutil.Node) bool {
	switch stmt.Kind() {
	case tsutil.KindTryStatement:
		body := stmt.ChildByFieldName("body")
		return body != nil && len(tsutil.NamedChildren(body)) == 0
	case tsutil.KindFunctionDeclaration, tsutil.KindGeneratorFunctionDeclaration:
		body := stmt.ChildByFieldName("body")
		return body != nil && len(tsutil.NamedChildren(body)) == 0
	case tsutil.KindClassDeclaration:
		body := stmt.ChildByFieldName("body")
		return body != nil && len(tsutil.NamedChildren(body)) == 0
	default:
		return false
	}
}

// maybeUnwrapUnusedQrlDeclaration drops the `const <name> =` wrapper around
// an extracted call when <name> turned out to have no remaining reference
// and isn't itself exported — the extraction still happened (the segment
// module was emitted), but nothing in this file needs the local binding.
func (s *State) maybeUnwrapUnusedQrlDeclaration(decl *tsutil.Node) {
	declarators := tsutil.NamedChildren(decl)
	if len(declarators) != 1 || declarators[0].Kind() != tsutil.KindVariableDeclarator {
		return
	}
	declarator := declarators[0]
	nameNode := declarator.ChildByFieldName("name")
	initNode := declarator.ChildByFieldName("value")
	if nameNode == nil || nameNode.Kind() != tsutil.KindIdentifier || initNode == nil {
		return
	}
	if initNode.Kind() != tsutil.KindCallExpression {
		return
	}
	rewritten, ok := s.findEditText(initNode.StartByte(), initNode.EndByte())
	if !ok {
		return
	}
	name := tsutil.Text(nameNode, s.Source)
	if s.imports.Used(name) {
		return
	}
	if isDirectlyExported(decl) {
		return
	}
	s.removeEditsWithin(decl.StartByte(), decl.EndByte())
	s.edits = append(s.edits, tsutil.Edit{Start: decl.StartByte(), End: decl.EndByte(), Text: rewritten + ";"})
}

// findEditText returns the Text of the single edit already recorded for the
// exact byte range [start, end), if one exists.
func (s *State) findEditText(start, end uint) (string, bool) {
	for _, e := range s.edits {
		if e.Start == start && e.End == end {
			return e.Text, true
		}
	}
	return "", false
}

// isInsideExistingEdit reports whether some recorded edit strictly encloses
// [start, end) — i.e. an ancestor node was already replaced wholesale.
func (s *State) isInsideExistingEdit(start, end uint) bool {
	for _, e := range s.edits {
		if e.Start <= start && end <= e.End && !(e.Start == start && e.End == end) {
			return true
		}
	}
	return false
}

// removeEditsWithin drops every recorded edit nested inside [start, end) —
// it is about to be superseded by one edit spanning the whole range, and
// ApplyEdits requires its edits to be non-overlapping.
func (s *State) removeEditsWithin(start, end uint) {
	kept := s.edits[:0]
	for _, e := range s.edits {
		if e.Start >= start && e.End <= end {
			continue
		}
		kept = append(kept, e)
	}
	s.edits = kept
}
