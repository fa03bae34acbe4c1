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
	"strings"

	"bennypowers.dev/qoptimizer/internal/importtable"
	"bennypowers.dev/qoptimizer/internal/propsdestructure"
	"bennypowers.dev/qoptimizer/internal/scope"
	"bennypowers.dev/qoptimizer/internal/tsutil"
)

// visitor adapts State to tsutil.Visitor, implementing the main traversal's
// enter/exit dispatch table.
type visitor struct {
	s *State

	// pendingMarkers remembers, per active marker call (keyed by node
	// id), the data extractQrl needs once its argument subtree has been
	// fully walked (so nested edits/imports are already recorded).
	pendingMarkers map[uintptr]*markerCall
}

type markerCall struct {
	calleeName string
	arg        *tsutil.Node
	isMapCall  bool
	isComponentProps bool
}

func newVisitor(s *State) *visitor {
	return &visitor{s: s, pendingMarkers: make(map[uintptr]*markerCall)}
}

func (v *visitor) Enter(n *tsutil.Node) bool {
	s := v.s
	switch n.Kind() {
	case tsutil.KindImportStatement:
		s.enterImportStatement(n)
	case tsutil.KindExportStatement:
		s.enterExportStatement(n)
	case tsutil.KindCallExpression:
		s.enterCallExpression(n, v)
	case tsutil.KindVariableDeclarator:
		s.enterVariableDeclarator(n)
	case tsutil.KindArrowFunction, tsutil.KindFunctionDeclaration, tsutil.KindFunctionExpression,
		tsutil.KindGeneratorFunctionDeclaration, tsutil.KindMethodDefinition:
		s.enterFunctionLike(n)
	case tsutil.KindClassDeclaration, tsutil.KindClass:
		s.enterClassLike(n)
	case tsutil.KindStatementBlock:
		s.scopeTracker.Push()
	case tsutil.KindIdentifier:
		s.observeIdentifierReference(n)
	case tsutil.KindJSXElement, tsutil.KindJSXSelfClosingElement, tsutil.KindJSXFragment:
		s.pushJSXMark()
	case tsutil.KindJSXAttribute:
		s.enterJSXAttributeMarker(n, v)
	}
	return true
}

func (v *visitor) Exit(n *tsutil.Node) {
	s := v.s
	switch n.Kind() {
	case tsutil.KindCallExpression:
		s.exitCallExpression(n, v)
	case tsutil.KindVariableDeclarator:
		s.exitVariableDeclarator(n)
	case tsutil.KindArrowFunction, tsutil.KindFunctionDeclaration, tsutil.KindFunctionExpression,
		tsutil.KindGeneratorFunctionDeclaration, tsutil.KindMethodDefinition:
		s.exitFunctionLike(n)
	case tsutil.KindClassDeclaration, tsutil.KindClass:
		s.scopeTracker.Pop()
		s.popContext()
	case tsutil.KindStatementBlock:
		s.scopeTracker.Pop()
	case tsutil.KindJSXElement, tsutil.KindJSXSelfClosingElement, tsutil.KindJSXFragment:
		s.exitJSXElement(n)
	case tsutil.KindJSXAttribute:
		s.exitJSXAttributeMarker(n, v)
	}
}

// --- import_statement ---

func (s *State) enterImportStatement(n *tsutil.Node) {
	source := importSourceOf(n, s.Source)
	rewritten := importtable.RewriteLegacySource(source)
	if rewritten != source {
		if src := tsutil.Find(n, tsutil.KindString); src != nil {
			s.edits = append(s.edits, tsutil.Edit{Start: src.StartByte(), End: src.EndByte(), Text: strconvQuote(rewritten)})
		}
	}

	clause := tsutil.Find(n, tsutil.KindImportClause)
	var records []importtable.Record
	for _, spec := range importSpecifiers(clause, s.Source) {
		rec := importtable.Record{Source: rewritten, ImportedName: spec.imported, LocalName: spec.local}
		renamed := s.imports.RenameMarkerSpecifier(rec)
		if renamed != rec {
			s.edits = append(s.edits, tsutil.Edit{Start: spec.node.StartByte(), End: spec.node.EndByte(), Text: renderSpecifier(renamed)})
		}
		records = append(records, renamed)
	}
	s.imports.RecordImportDeclaration(rewritten, records)
}

type specifier struct {
	node     *tsutil.Node
	imported string
	local    string
}

func importSourceOf(n *tsutil.Node, source []byte) string {
	str := tsutil.Find(n, tsutil.KindString)
	if str == nil {
		return ""
	}
	return strings.Trim(tsutil.Text(str, source), `"'`)
}

func importSpecifiers(clause *tsutil.Node, source []byte) []specifier {
	if clause == nil {
		return nil
	}
	var out []specifier
	for _, c := range tsutil.NamedChildren(clause) {
		switch c.Kind() {
		case tsutil.KindIdentifier:
			// Default import: `import Foo from "..."`.
			out = append(out, specifier{node: c, imported: "", local: tsutil.Text(c, source)})
		case tsutil.KindNamespaceImport:
			named := tsutil.NamedChildren(c)
			if len(named) > 0 {
				out = append(out, specifier{node: c, imported: "*", local: tsutil.Text(named[0], source)})
			}
		case tsutil.KindNamedImports:
			for _, spec := range tsutil.NamedChildren(c) {
				if spec.Kind() != tsutil.KindImportSpecifier {
					continue
				}
				name := spec.ChildByFieldName("name")
				alias := spec.ChildByFieldName("alias")
				imported := tsutil.Text(name, source)
				local := imported
				if alias != nil {
					local = tsutil.Text(alias, source)
				}
				out = append(out, specifier{node: spec, imported: imported, local: local})
			}
		}
	}
	return out
}

func renderSpecifier(r importtable.Record) string {
	if r.ImportedName == "" || r.ImportedName == r.LocalName {
		return r.LocalName
	}
	return r.ImportedName + " as " + r.LocalName
}

// --- export_statement ---

// enterExportStatement handles the `export { a, b as c }` specifier form
// of the export table: the declaration form (`export const`, `export
// function`, `export class`) is instead recorded where those declarations
// are entered, since at that point the driver already has the declared
// name in hand.
func (s *State) enterExportStatement(n *tsutil.Node) {
	clause := tsutil.Find(n, tsutil.KindExportClause)
	if clause == nil {
		return
	}
	for _, spec := range tsutil.NamedChildren(clause) {
		if spec.Kind() != tsutil.KindExportSpecifier {
			continue
		}
		nameNode := spec.ChildByFieldName("name")
		if nameNode != nil {
			s.recordExport(tsutil.Text(nameNode, s.Source))
		}
	}
}

// isDirectlyExported reports whether n (a lexical_declaration, variable_declaration,
// function_declaration, or class_declaration) is the immediate declaration of a
// non-default export_statement, i.e. `export const/function/class ...`.
func isDirectlyExported(n *tsutil.Node) bool {
	parent := n.Parent()
	if parent == nil || parent.Kind() != tsutil.KindExportStatement {
		return false
	}
	for i := uint(0); i < parent.ChildCount(); i++ {
		if c := parent.Child(i); c != nil && c.Kind() == "default" {
			return false
		}
	}
	return true
}

// --- call_expression ---

func (s *State) enterCallExpression(n *tsutil.Node, v *visitor) {
	callee := n.ChildByFieldName("function")
	calleeName := calleeText(callee, s.Source)

	el := s.segBuilder.NewSegment(calleeName, s.segmentStack)
	s.pushSegment(el)

	isMarker := strings.HasSuffix(calleeName, "$") && !s.skipTransformNames[calleeName]
	if isMarker {
		s.imports.PushFrame()
		s.pushContext(calleeName)
		s.markerDepth++
	}

	isMapCall := isMapCallExpr(callee, s.Source)
	if isMapCall {
		s.loopDepth++
		s.iterVarStack = append(s.iterVarStack, loopFrame{vars: mapCallbackParams(n, s.Source)})
	}

	args := n.ChildByFieldName("arguments")
	var firstArg *tsutil.Node
	if args != nil {
		named := tsutil.NamedChildren(args)
		if len(named) > 0 {
			firstArg = named[0]
		}
	}

	mc := &markerCall{calleeName: calleeName, arg: firstArg, isMapCall: isMapCall}
	if calleeName == "component$" && firstArg != nil && firstArg.Kind() == tsutil.KindArrowFunction {
		if plan, ok := componentPropsPlan(firstArg, s.Source); ok {
			mc.isComponentProps = true
			s.propsPlanStack = append(s.propsPlanStack, &plan)
		}
	}
	v.pendingMarkers[n.Id()] = mc
}

func calleeText(n *tsutil.Node, source []byte) string {
	if n == nil {
		return ""
	}
	if n.Kind() == tsutil.KindMemberExpression {
		prop := n.ChildByFieldName("property")
		return tsutil.Text(prop, source)
	}
	return tsutil.Text(n, source)
}

func isMapCallExpr(callee *tsutil.Node, source []byte) bool {
	return callee != nil && callee.Kind() == tsutil.KindMemberExpression && calleeText(callee, source) == "map"
}

func mapCallbackParams(call *tsutil.Node, source []byte) []string {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	named := tsutil.NamedChildren(args)
	if len(named) == 0 || named[0].Kind() != tsutil.KindArrowFunction {
		return nil
	}
	params := named[0].ChildByFieldName("parameters")
	var out []string
	for _, p := range tsutil.NamedChildren(params) {
		out = append(out, paramNames(p, source)...)
	}
	return out
}

// componentPropsPlan analyzes a component$ arrow's first object-pattern
// parameter into the (binding → key) map and
// rest-element local name propsdestructure.Analyze needs.
func componentPropsPlan(arrow *tsutil.Node, source []byte) (propsdestructure.Plan, bool) {
	params := arrow.ChildByFieldName("parameters")
	named := tsutil.NamedChildren(params)
	if len(named) == 0 {
		return propsdestructure.Plan{}, false
	}
	pattern := named[0]
	if pattern.Kind() == tsutil.KindRequiredParameter {
		if inner := pattern.ChildByFieldName("pattern"); inner != nil {
			pattern = inner
		}
	}
	if pattern.Kind() != tsutil.KindObjectPattern {
		return propsdestructure.Plan{}, false
	}

	var props []propsdestructure.Property
	restLocal := ""
	for _, c := range tsutil.NamedChildren(pattern) {
		switch c.Kind() {
		case tsutil.KindShorthandPropertyIdentifierPattern:
			name := tsutil.Text(c, source)
			props = append(props, propsdestructure.Property{Key: name, Binding: name})
		case tsutil.KindPairPattern:
			key := c.ChildByFieldName("key")
			value := c.ChildByFieldName("value")
			if key != nil && value != nil && value.Kind() == tsutil.KindIdentifier {
				props = append(props, propsdestructure.Property{
					Key:     tsutil.Text(key, source),
					Binding: tsutil.Text(value, source),
				})
			}
		case tsutil.KindRestPattern:
			r := tsutil.NamedChildren(c)
			if len(r) > 0 {
				restLocal = tsutil.Text(r[0], source)
			}
		}
	}
	return propsdestructure.Analyze(props, restLocal)
}

// --- jsx_attribute (`onClick$={...}` is a marker too) ---

// enterJSXAttributeMarker detects a `$`-suffixed JSX attribute (onClick$,
// onInput$, ...) whose value is a function-like expression and opens the
// same segment/import-frame/context bookkeeping enterCallExpression opens
// for a call-syntax marker, so the value is extracted the way a
// component$(...) argument would be. Unlike a call-syntax marker, the
// extracted handler always renders as plain qrl() — there is no
// "onClickQrl" runtime export, so the attribute name's prefix never
// becomes a QRL type.
func (s *State) enterJSXAttributeMarker(n *tsutil.Node, v *visitor) {
	name, inner := jsxAttributeNameAndValue(n, s.Source)
	if !strings.HasSuffix(name, "$") || inner == nil {
		return
	}
	if inner.Kind() != tsutil.KindArrowFunction && inner.Kind() != tsutil.KindFunctionExpression {
		return // a non-function marker argument passes through untouched
	}
	el := s.segBuilder.NewSegment(name, s.segmentStack)
	s.pushSegment(el)
	s.imports.PushFrame()
	s.pushContext(name)
	s.markerDepth++
	v.pendingMarkers[n.Id()] = &markerCall{calleeName: name, arg: inner}
}

func (s *State) exitJSXAttributeMarker(n *tsutil.Node, v *visitor) {
	mc := v.pendingMarkers[n.Id()]
	if mc == nil {
		return
	}
	delete(v.pendingMarkers, n.Id())

	paramsSource, bodySource, hasBlock := renderArrowPieces(mc.arg, s.Source, s.edits)
	comp, edit, ok := s.extractQrl(extractionInput{
		CalleeName:     mc.calleeName,
		Arg:            mc.arg,
		CallStart:      mc.arg.StartByte(),
		CallEnd:        mc.arg.EndByte(),
		HasBlockBody:   hasBlock,
		ParamsSource:   paramsSource,
		BodySource:     bodySource,
		IsJSXAttribute: true,
	})
	if ok {
		s.Components = append(s.Components, comp)
		s.edits = append(s.edits, edit)
	}
	s.popContext()
	s.markerDepth--
	s.popSegment()
}

func jsxAttributeNameAndValue(attr *tsutil.Node, source []byte) (string, *tsutil.Node) {
	nameNode := attr.ChildByFieldName("name")
	if nameNode == nil {
		nameNode = tsutil.Find(attr, tsutil.KindJSXAttributeName, tsutil.KindPropertyIdentifier)
	}
	name := tsutil.Text(nameNode, source)

	valueNode := attr.ChildByFieldName("value")
	if valueNode == nil {
		if named := tsutil.NamedChildren(attr); len(named) > 1 {
			valueNode = named[len(named)-1]
		}
	}
	if valueNode == nil {
		return name, nil
	}
	inner := valueNode
	if inner.Kind() == tsutil.KindJSXExpression {
		children := tsutil.NamedChildren(inner)
		if len(children) > 0 {
			inner = children[0]
		}
	}
	return name, inner
}

func (s *State) exitCallExpression(n *tsutil.Node, v *visitor) {
	mc := v.pendingMarkers[n.Id()]
	delete(v.pendingMarkers, n.Id())

	isMarker := mc != nil && strings.HasSuffix(mc.calleeName, "$") && !s.skipTransformNames[mc.calleeName]
	if isMarker {
		if mc.arg != nil {
			paramsSource, bodySource, hasBlock := renderArrowPieces(mc.arg, s.Source, s.edits)
			comp, edit, ok := s.extractQrl(extractionInput{
				CalleeName:   mc.calleeName,
				Arg:          mc.arg,
				CallStart:    n.StartByte(),
				CallEnd:      n.EndByte(),
				HasBlockBody: hasBlock,
				ParamsSource: paramsSource,
				BodySource:   bodySource,
			})
			if ok {
				s.Components = append(s.Components, comp)
				s.edits = append(s.edits, edit)
			}
		} else {
			s.imports.PopFrame()
		}
		s.popContext()
		s.markerDepth--
		if mc.isComponentProps && len(s.propsPlanStack) > 0 {
			s.propsPlanStack = s.propsPlanStack[:len(s.propsPlanStack)-1]
		}
	}

	if mc != nil && mc.isMapCall {
		s.loopDepth--
		if len(s.iterVarStack) > 0 {
			s.iterVarStack = s.iterVarStack[:len(s.iterVarStack)-1]
		}
	}
	s.popSegment()
}

// renderArrowPieces splits a function-like node's already-edited source into
// its parameter list + arrow token, and its body text, reporting whether
// the body is a `{ ... }` block.
func renderArrowPieces(fn *tsutil.Node, source []byte, edits []tsutil.Edit) (paramsAndArrow, body string, hasBlock bool) {
	if fn.Kind() != tsutil.KindArrowFunction && fn.Kind() != tsutil.KindFunctionExpression {
		// Non-function first argument ($ called with a plain expression):
		// treat the whole thing as the body with no parameter list.
		return "() =>", tsutil.RenderRange(source, fn.StartByte(), fn.EndByte(), edits), false
	}
	params := fn.ChildByFieldName("parameters")
	bodyNode := fn.ChildByFieldName("body")
	paramsText := "()"
	if params != nil {
		paramsText = tsutil.RenderRange(source, params.StartByte(), params.EndByte(), edits)
	}
	paramsAndArrow = paramsText + " =>"
	if bodyNode == nil {
		return paramsAndArrow, "{}", true
	}
	hasBlock = bodyNode.Kind() == tsutil.KindStatementBlock
	if hasBlock {
		inner := strings.TrimSuffix(strings.TrimPrefix(tsutil.RenderRange(source, bodyNode.StartByte(), bodyNode.EndByte(), edits), "{"), "}")
		return paramsAndArrow, inner, true
	}
	return paramsAndArrow, tsutil.RenderRange(source, bodyNode.StartByte(), bodyNode.EndByte(), edits), false
}

// --- variable_declarator / function-like / class-like scope bookkeeping ---

func (s *State) enterVariableDeclarator(n *tsutil.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil || nameNode.Kind() != tsutil.KindIdentifier {
		s.declPushed = append(s.declPushed, false)
		return
	}
	name := tsutil.Text(nameNode, s.Source)
	s.pushSegment(s.segBuilder.NewSegment(name, s.segmentStack))
	s.pushContext(name)
	s.declPushed = append(s.declPushed, true)

	isConst := declarationKindIsConst(n)
	s.scopeTracker.Declare(scope.Entry{Name: name, Type: scope.Var, IsConst: isConst})

	if parent := n.Parent(); parent != nil && isDirectlyExported(parent) {
		s.recordExport(name)
	}
}

// declarationKindIsConst reports whether declarator's enclosing
// lexical_declaration leads with a "const" keyword token (an anonymous
// child, so compared by Kind() rather than a named field — tree-sitter
// gives keyword tokens a Kind() equal to their literal spelling).
func declarationKindIsConst(declarator *tsutil.Node) bool {
	parent := declarator.Parent()
	if parent == nil || parent.Kind() != tsutil.KindLexicalDeclaration {
		return false
	}
	if parent.ChildCount() == 0 {
		return false
	}
	return parent.Child(0).Kind() == "const"
}

func (s *State) enterFunctionLike(n *tsutil.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode != nil {
		name := tsutil.Text(nameNode, s.Source)
		s.scopeTracker.DeclareInParent(scope.Entry{Name: name, Type: scope.Fn})
		s.pushContext(name)
		if s.markerDepth > 0 && n.Kind() == tsutil.KindFunctionDeclaration {
			s.stripIllegalDeclaration(n, name)
		}
		if n.Kind() == tsutil.KindFunctionDeclaration && isDirectlyExported(n) {
			s.recordExport(name)
		}
	} else {
		s.pushContext("")
	}
	s.scopeTracker.Push()
	params := n.ChildByFieldName("parameters")
	for _, p := range tsutil.NamedChildren(params) {
		for _, name := range paramNames(p, s.Source) {
			s.scopeTracker.Declare(scope.Entry{Name: name, Type: scope.Var, IsConst: false})
		}
	}
}

func paramNames(p *tsutil.Node, source []byte) []string {
	switch p.Kind() {
	case tsutil.KindIdentifier:
		return []string{tsutil.Text(p, source)}
	case tsutil.KindRequiredParameter, tsutil.KindOptionalParameter, tsutil.KindAssignmentPattern:
		var out []string
		for _, c := range tsutil.NamedChildren(p) {
			out = append(out, paramNames(c, source)...)
		}
		return out
	case tsutil.KindObjectPattern, tsutil.KindArrayPattern:
		var out []string
		for _, c := range tsutil.NamedChildren(p) {
			out = append(out, paramNames(c, source)...)
		}
		return out
	case tsutil.KindRestPattern, tsutil.KindPairPattern:
		var out []string
		for _, c := range tsutil.NamedChildren(p) {
			out = append(out, paramNames(c, source)...)
		}
		return out
	default:
		return nil
	}
}

func (s *State) exitFunctionLike(n *tsutil.Node) {
	s.scopeTracker.Pop()
	s.popContext()
}

func (s *State) enterClassLike(n *tsutil.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode != nil {
		name := tsutil.Text(nameNode, s.Source)
		s.scopeTracker.DeclareInParent(scope.Entry{Name: name, Type: scope.Class})
		s.pushContext(name)
		if s.markerDepth > 0 && n.Kind() == tsutil.KindClassDeclaration {
			s.stripIllegalDeclaration(n, name)
		}
		if n.Kind() == tsutil.KindClassDeclaration && isDirectlyExported(n) {
			s.recordExport(name)
		}
	} else {
		s.pushContext("")
	}
	s.scopeTracker.Push()
}

// stripIllegalDeclaration: a top-level function or class declaration found
// inside an actively-recording QRL segment is
// illegal, recorded in the "removed" set, and stripped from the segment
// body. Diagnostics are reported at reference time (observeIdentifierReference,
// and extraction.go for a removed symbol still in scope when a marker is
// extracted), not here.
func (s *State) stripIllegalDeclaration(n *tsutil.Node, name string) {
	s.removedSymbols[name] = true
	s.edits = append(s.edits, tsutil.Edit{Start: n.StartByte(), End: n.EndByte(), Text: ""})
}

func (s *State) exitVariableDeclarator(n *tsutil.Node) {
	if len(s.declPushed) == 0 {
		return
	}
	pushed := s.declPushed[len(s.declPushed)-1]
	s.declPushed = s.declPushed[:len(s.declPushed)-1]
	if pushed {
		s.popSegment()
		s.popContext()
	}
}

// observeIdentifierReference adds imported bindings to the current import
// frame so the eventual segment carries them, and flags illegal references
// to removed top-level function/class declarations.
func (s *State) observeIdentifierReference(n *tsutil.Node) {
	parent := n.Parent()
	if parent != nil {
		switch parent.Kind() {
		case tsutil.KindPropertyIdentifier, tsutil.KindJSXAttributeName:
			return
		}
		if declName := parent.ChildByFieldName("name"); parent.Kind() == tsutil.KindVariableDeclarator && declName != nil && declName.Id() == n.Id() {
			return
		}
	}
	name := tsutil.Text(n, s.Source)
	s.imports.AddReference(name)
	if s.removedSymbols[name] && (parent == nil || parent.Kind() != tsutil.KindFunctionDeclaration) {
		kind := "function"
		if e, ok := scope.Lookup(s.scopeTracker.Flatten(), name); ok && e.Type == scope.Class {
			kind = "class"
		}
		s.Diagnostics.IllegalReference(s.Options.RelPath, s.Options.Scope, name, kind)
	}
}
