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

	"bennypowers.dev/qoptimizer/internal/hashid"
	"bennypowers.dev/qoptimizer/internal/jsxtransform"
	"bennypowers.dev/qoptimizer/internal/scope"
	"bennypowers.dev/qoptimizer/internal/tsutil"
)

// exitJSXElement handles jsx_element / jsx_self_closing_element /
// jsx_fragment nodes: by the time Exit fires, every descendant JSX node
// already has its own replacement Edit recorded, so children are rendered
// via tsutil.RenderRange over their own byte span.
func (s *State) exitJSXElement(n *tsutil.Node) {
	mark := s.popJSXMark()
	switch n.Kind() {
	case tsutil.KindJSXFragment:
		el := jsxtransform.NewElement(jsxtransform.FragmentType)
		s.collectJSXChildren(n, el)
		s.applyIterationParams(el, mark)
		s.recordElementEdit(n, el)
	case tsutil.KindJSXSelfClosingElement:
		el := s.buildElementFromAttrs(n, openingName(n))
		s.applyIterationParams(el, mark)
		s.recordElementEdit(n, el)
	case tsutil.KindJSXElement:
		opening := openingTagOf(n)
		el := s.buildElementFromAttrs(opening, openingName(opening))
		s.collectJSXChildren(n, el)
		s.applyIterationParams(el, mark)
		s.recordElementEdit(n, el)
	}
}

// applyIterationParams handles a JSX element whose attributes or children
// extracted a marker call capturing enclosing
// .map(fn) iteration variables gains a `"q:ps": [<params>]` prop so the
// runtime can rebind them without a stale closure.
func (s *State) applyIterationParams(el *jsxtransform.Element, mark int) {
	if mark > len(s.Components) {
		return
	}
	seen := make(map[string]bool)
	var params []string
	for _, c := range s.Components[mark:] {
		for _, p := range c.Qrl.IterationParams {
			if !seen[p] {
				seen[p] = true
				params = append(params, p)
			}
		}
	}
	if len(params) == 0 {
		return
	}
	el.AddProp(jsxtransform.Prop{Key: "q:ps", Value: "[" + strings.Join(params, ", ") + "]", IsConst: true})
}

func (s *State) recordElementEdit(n *tsutil.Node, el *jsxtransform.Element) {
	s.assignStableKey(el)
	s.edits = append(s.edits, tsutil.Edit{Start: n.StartByte(), End: n.EndByte(), Text: el.Render()})
}

// assignStableKey synthesizes a stable key for an element with no explicit
// key while at least one naming context is open: jsxtransform.StableKey over
// the hash of the innermost context name (a variable, function, class or
// marker name, or "" for an anonymous function) and a counter kept per
// context name. It does not check that the context is a component.
func (s *State) assignStableKey(el *jsxtransform.Element) {
	if el.Key != "" || len(s.contextStack) == 0 {
		return
	}
	component := s.contextStack[len(s.contextStack)-1]
	counter := s.componentHashCounter[component]
	s.componentHashCounter[component] = counter + 1
	_, encoded := hashid.EncodedSum(s.Options.Scope, s.Options.RelPath, component)
	el.Key = jsxtransform.StableKey(encoded, counter)
}

// openingTagOf mirrors identset's tolerant lookup of a jsx_element's
// opening tag, since the exact grammar field name is not guaranteed across
// tree-sitter-typescript versions.
func openingTagOf(n *tsutil.Node) *tsutil.Node {
	if open := n.ChildByFieldName("open_tag"); open != nil {
		return open
	}
	return tsutil.Find(n, tsutil.KindJSXOpeningElement)
}

func openingName(opening *tsutil.Node) *tsutil.Node {
	if opening == nil {
		return nil
	}
	if name := opening.ChildByFieldName("name"); name != nil {
		return name
	}
	return tsutil.Find(opening, tsutil.KindIdentifier, tsutil.KindMemberExpression, tsutil.KindJSXNamespaceName)
}

func (s *State) buildElementFromAttrs(opening *tsutil.Node, nameNode *tsutil.Node) *jsxtransform.Element {
	tagName := ""
	if nameNode != nil {
		tagName = tsutil.Text(nameNode, s.Source)
	}
	isNative := jsxtransform.IsNativeTag(tagName)

	typeExpr := tagName
	if !isNative {
		// Component reference: bare identifier/member expression, not a
		// quoted tag name.
	} else {
		typeExpr = `"` + tagName + `"`
	}
	el := jsxtransform.NewElement(typeExpr)

	var pendingOnInput *jsxtransform.Prop
	for _, attr := range tsutil.NamedChildren(opening) {
		switch attr.Kind() {
		case tsutil.KindJSXSpreadAttribute:
			expr := tsutil.NamedChildren(attr)
			val := ""
			if len(expr) > 0 {
				val = s.renderSubExprWithWrap(expr[0])
			}
			el.AddProp(jsxtransform.Prop{Value: val, IsSpread: true})
			s.imports.NeedRestProps()
		case tsutil.KindJSXAttribute:
			s.addJSXAttribute(el, attr, isNative, &pendingOnInput)
		}
	}
	if pendingOnInput != nil {
		el.AddProp(*pendingOnInput)
	}
	return el
}

func (s *State) addJSXAttribute(el *jsxtransform.Element, attr *tsutil.Node, isNative bool, pendingOnInput **jsxtransform.Prop) {
	nameNode := attr.ChildByFieldName("name")
	if nameNode == nil {
		nameNode = tsutil.Find(attr, tsutil.KindJSXAttributeName, tsutil.KindPropertyIdentifier)
	}
	attrName := tsutil.Text(nameNode, s.Source)
	valueNode := attr.ChildByFieldName("value")
	if valueNode == nil {
		if named := tsutil.NamedChildren(attr); len(named) > 1 {
			valueNode = named[len(named)-1]
		}
	}

	valueSource := ""
	hasCall, hasMember, identsResolved := false, false, true
	if valueNode != nil {
		inner := valueNode
		if inner.Kind() == tsutil.KindJSXExpression {
			children := tsutil.NamedChildren(inner)
			if len(children) > 0 {
				inner = children[0]
			}
		}
		valueSource = s.renderSubExprWithWrap(inner)
		hasCall, hasMember, identsResolved = s.classifyExprShape(inner)
	}

	// bind:value / bind:checked directives (native elements only).
	if isNative {
		if directive, ok := jsxtransform.ResolveBindDirective(attrName); ok {
			el.AddProp(jsxtransform.Prop{Key: directive.PropName, Value: valueSource, IsConst: false})
			handler := directive.InlinedHandler(valueSource)
			if directive.HelperName == "_val" {
				s.imports.NeedVal()
			} else {
				s.imports.NeedChk()
			}
			s.imports.NeedInlinedQrl()
			if *pendingOnInput != nil {
				merged := jsxtransform.MergeOnInput((*pendingOnInput).Value, handler)
				(*pendingOnInput).Value = merged
			} else {
				*pendingOnInput = &jsxtransform.Prop{Key: "on:input", Value: handler}
			}
			return
		}
		if attrName == "on:input" {
			if *pendingOnInput != nil {
				merged := jsxtransform.MergeOnInput(valueSource, (*pendingOnInput).Value)
				(*pendingOnInput).Value = merged
			} else {
				*pendingOnInput = &jsxtransform.Prop{Key: "on:input", Value: valueSource}
			}
			return
		}
		if canonical, ok := jsxtransform.CanonicalizeEventName(attrName); ok {
			el.AddProp(jsxtransform.Prop{Key: canonical, Value: valueSource, IsConst: false})
			return
		}
	}

	isConst := jsxtransform.ClassifyConst(hasCall, hasMember, identsResolved)
	if attrName == "key" {
		el.Key = strings.Trim(valueSource, `"'`)
		return
	}
	el.AddProp(jsxtransform.Prop{Key: attrName, Value: valueSource, IsConst: isConst})
}

// classifyExprShape reports, for an attribute/child expression, whether it
// contains a call or member-access, and whether every free identifier in it
// resolves to an import or a const in scope — the const/var partitioning
// predicate's inputs.
func (s *State) classifyExprShape(n *tsutil.Node) (hasCall, hasMember, allResolved bool) {
	allResolved = true
	var walk func(node *tsutil.Node)
	flat := s.scopeTracker.Flatten()
	walk = func(node *tsutil.Node) {
		if node == nil {
			return
		}
		switch node.Kind() {
		case tsutil.KindCallExpression:
			hasCall = true
		case tsutil.KindMemberExpression, tsutil.KindSubscriptExpression:
			hasMember = true
		case tsutil.KindIdentifier:
			name := tsutil.Text(node, s.Source)
			if _, isImport := s.imports.Lookup(name); isImport {
				return
			}
			if entry, ok := scope.Lookup(flat, name); ok {
				if !(entry.Type == scope.Var && entry.IsConst) {
					allResolved = false
				}
				return
			}
			allResolved = false
			return
		}
		for _, c := range tsutil.NamedChildren(node) {
			walk(c)
		}
	}
	walk(n)
	return
}

// renderSubExprWithWrap renders an expression node applying prop-wrapping
// when it is a registered destructured local or a `.value` member access,
// and incorporating any edits already recorded
// for nested marker calls/JSX within its span.
func (s *State) renderSubExprWithWrap(n *tsutil.Node) string {
	if n == nil {
		return "null"
	}
	if n.Kind() == tsutil.KindIdentifier {
		name := tsutil.Text(n, s.Source)
		if plan := s.currentPropsPlan(); plan != nil {
			if wrapped, ok := plan.WrapPropExpr(name); ok {
				s.imports.NeedWrapProp()
				return wrapped
			}
		}
	}
	if n.Kind() == tsutil.KindMemberExpression {
		prop := n.ChildByFieldName("property")
		if prop != nil && tsutil.Text(prop, s.Source) == "value" {
			obj := n.ChildByFieldName("object")
			objText := tsutil.RenderRange(s.Source, obj.StartByte(), obj.EndByte(), s.edits)
			s.imports.NeedWrapProp()
			return "_wrapProp(" + objText + ")"
		}
	}
	return tsutil.RenderRange(s.Source, n.StartByte(), n.EndByte(), s.edits)
}

func (s *State) currentPropsPlan() *propsPlanFrame {
	if len(s.propsPlanStack) == 0 {
		return nil
	}
	return s.propsPlanStack[len(s.propsPlanStack)-1]
}

func (s *State) collectJSXChildren(n *tsutil.Node, el *jsxtransform.Element) {
	opening := openingTagOf(n)
	for _, child := range tsutil.NamedChildren(n) {
		if child == opening || child.Kind() == tsutil.KindJSXClosingElement {
			continue
		}
		switch child.Kind() {
		case tsutil.KindJSXText:
			text := strings.TrimSpace(tsutil.Text(child, s.Source))
			if text == "" {
				continue
			}
			el.AddChild(strconvQuote(text), false)
		case tsutil.KindJSXExpression:
			exprChildren := tsutil.NamedChildren(child)
			if len(exprChildren) == 0 {
				continue
			}
			rendered := s.renderSubExprWithWrap(exprChildren[0])
			el.AddChild(rendered, true)
		case tsutil.KindJSXElement, tsutil.KindJSXSelfClosingElement, tsutil.KindJSXFragment:
			rendered := tsutil.RenderRange(s.Source, child.StartByte(), child.EndByte(), s.edits)
			el.AddChild(rendered, true)
		}
	}
}

func strconvQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

