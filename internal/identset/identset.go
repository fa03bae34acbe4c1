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

// Package identset implements an identifier collector: it visits an
// expression subtree and returns the sorted, unique set of free
// identifiers referenced in expression position, excluding member-access
// property names, object-property keys, JSX attribute names, JSX lowercase
// (HTML) element names, and the built-ins {undefined, NaN, Infinity, null}.
package identset

import (
	"sort"
	"strings"
	"unicode"

	"bennypowers.dev/qoptimizer/internal/tsutil"
)

var builtins = map[string]bool{
	"undefined": true,
	"NaN":       true,
	"Infinity":  true,
	"null":      true,
}

// Result is the outcome of one Collect call.
type Result struct {
	// Idents is the sorted, unique set of free identifiers.
	Idents []string
	// UseH reports whether any JSX element or self-closing element was
	// encountered in the subtree.
	UseH bool
	// UseFragment reports whether a JSX fragment was encountered.
	UseFragment bool
}

// Collect runs the identifier collector over expr. source is the full file
// buffer expr's byte offsets index into.
func Collect(expr *tsutil.Node, source []byte) Result {
	c := &collector{source: source, seen: make(map[string]bool)}
	c.walk(expr)
	idents := make([]string, 0, len(c.seen))
	for name := range c.seen {
		idents = append(idents, name)
	}
	sort.Strings(idents)
	return Result{Idents: idents, UseH: c.useH, UseFragment: c.useFragment}
}

type collector struct {
	source      []byte
	seen        map[string]bool
	useH        bool
	useFragment bool
}

func (c *collector) add(name string) {
	if name == "" || builtins[name] {
		return
	}
	c.seen[name] = true
}

func (c *collector) text(n *tsutil.Node) string {
	return tsutil.Text(n, c.source)
}

// walk descends expr, dispatching the handful of node kinds whose children
// need non-default treatment (JSX tag names, JSX attributes, object keys,
// shorthand properties, type positions). Every other kind falls through to
// a generic recursive walk of its named children.
func (c *collector) walk(n *tsutil.Node) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case tsutil.KindIdentifier:
		c.add(c.text(n))
		return

	case "shorthand_property_identifier":
		// `{foo}` references the value bound to `foo` (rule: object
		// property *keys* are excluded, but a shorthand value is both key
		// and reference).
		c.add(c.text(n))
		return

	case tsutil.KindPropertyIdentifier, tsutil.KindJSXAttributeName,
		tsutil.KindShorthandPropertyIdentifierPattern:
		// Member-access / object-key property names and JSX attribute
		// names are never free identifiers.
		return

	case "type_annotation", "type_arguments", "type_parameters", "type_alias_declaration",
		"interface_declaration", "predefined_type", "type_identifier":
		// Type positions are not "expression position" (rule a); captures
		// only ever need runtime values.
		return

	case tsutil.KindPair:
		// Skip the key, walk the value (and a computed key's expression).
		if key := n.ChildByFieldName("key"); key != nil && key.Kind() == "computed_property_name" {
			c.walk(key.NamedChild(0))
		}
		c.walk(n.ChildByFieldName("value"))
		return

	case tsutil.KindMemberExpression, tsutil.KindSubscriptExpression:
		c.walk(n.ChildByFieldName("object"))
		if n.Kind() == tsutil.KindSubscriptExpression {
			c.walk(n.ChildByFieldName("index"))
		}
		// the "property" field is a property_identifier; nothing to do.
		return

	case tsutil.KindJSXAttribute:
		// name field excluded by rule (d); walk only the value.
		c.walk(n.ChildByFieldName("value"))
		return

	case tsutil.KindJSXFragment:
		c.useFragment = true
		for _, child := range tsutil.NamedChildren(n) {
			c.walk(child)
		}
		return

	case tsutil.KindJSXElement, tsutil.KindJSXSelfClosingElement:
		c.useH = true
		c.walkJSXElement(n)
		return
	}
	for _, child := range tsutil.NamedChildren(n) {
		c.walk(child)
	}
}

// walkJSXElement handles the opening/self-closing tag name specially: a
// lowercase leading identifier is a native HTML tag and excluded (rule e);
// an uppercase identifier, a namespaced name, or a member expression is a
// component reference and is collected.
func (c *collector) walkJSXElement(n *tsutil.Node) {
	opening := n
	if n.Kind() == tsutil.KindJSXElement {
		opening = n.ChildByFieldName("open_tag")
		if opening == nil {
			opening = tsutil.Find(n, tsutil.KindJSXOpeningElement)
		}
	}
	if opening != nil {
		if name := opening.ChildByFieldName("name"); name != nil {
			c.walkJSXTagName(name)
		}
		for _, attr := range tsutil.NamedChildren(opening) {
			if attr.Kind() == tsutil.KindJSXAttribute || attr.Kind() == tsutil.KindSpreadElement {
				c.walk(attr)
			}
		}
	}
	for _, child := range tsutil.NamedChildren(n) {
		if child == opening {
			continue
		}
		if child.Kind() == tsutil.KindJSXClosingElement {
			continue
		}
		c.walk(child)
	}
}

func (c *collector) walkJSXTagName(name *tsutil.Node) {
	switch name.Kind() {
	case tsutil.KindIdentifier:
		text := c.text(name)
		if isNativeTag(text) {
			return
		}
		c.add(text)
	case tsutil.KindMemberExpression:
		c.walk(name.ChildByFieldName("object"))
	case tsutil.KindJSXNamespaceName:
		// bare HTML namespace, e.g. svg:path — not a value reference.
	default:
		c.walk(name)
	}
}

// isNativeTag reports whether a JSX tag name denotes a native HTML element
// (lowercase first character or containing a "-", per the JSX convention:
// an element whose tag is a lowercase identifier is a native DOM element,
// not a component reference).
func isNativeTag(name string) bool {
	if name == "" {
		return true
	}
	r := []rune(name)[0]
	return unicode.IsLower(r) || strings.Contains(name, "-")
}
