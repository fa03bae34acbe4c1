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

// Package jsxtransform implements the JSX transform: rewriting JSX elements into
// _jsxSorted/_jsxSplit factory calls, with event-name canonicalization,
// const/var prop partitioning, stable-key synthesis, prop-wrapping, and
// bind-directive expansion. The driver resolves identifiers against its
// scope tracker and import table and feeds the booleans this package needs
// to classify each attribute; this package itself stays AST-agnostic so it
// can be exercised directly in tests.
package jsxtransform

import (
	"sort"
	"strconv"
	"strings"
)

// Flag bits for the factory call's flags argument.
const (
	FlagStaticListeners = 1 << 0
	FlagStaticSubtree   = 1 << 1
)

// IsNativeTag reports whether a JSX tag name denotes a native (HTML/SVG)
// element rather than a component: lowercase first rune, or containing a
// hyphen (custom elements).
func IsNativeTag(name string) bool {
	if name == "" {
		return false
	}
	if strings.Contains(name, "-") {
		return true
	}
	first := rune(name[0])
	return first >= 'a' && first <= 'z'
}

// CanonicalizeEventName canonicalizes a "$"-suffixed attribute name on a
// native element into its "on:"/"on-window:"/"on-document:" form.
// ok is false when name is not an event-marker attribute at all.
func CanonicalizeEventName(name string) (canonical string, ok bool) {
	if !strings.HasSuffix(name, "$") {
		return "", false
	}
	trimmed := strings.TrimSuffix(name, "$")

	var scope, rest string
	switch {
	case strings.HasPrefix(trimmed, "window:on"):
		scope, rest = "on-window:", trimmed[len("window:on"):]
	case strings.HasPrefix(trimmed, "document:on"):
		scope, rest = "on-document:", trimmed[len("document:on"):]
	case strings.HasPrefix(trimmed, "on"):
		scope, rest = "on:", trimmed[len("on"):]
	default:
		return "", false
	}
	if rest == "" {
		return "", false
	}

	var suffix string
	if strings.HasPrefix(rest, "-") {
		suffix = kebabize(rest[1:])
	} else {
		suffix = strings.ToLower(rest)
	}
	return scope + suffix, true
}

// kebabize lowercases each uppercase rune, inserting a '-' before it (unless
// it is the first rune), e.g. "on-cLick$" → "on:c-lick".
func kebabize(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r - 'A' + 'a')
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ClassifyConst is the const/var prop partitioning predicate.
// hasCall/hasMemberAccess are observed while walking the attribute value
// expression; allIdentsImportOrConst reports whether every identifier
// reference in it resolves to an import or a const-declared in-scope
// variable (the driver checks this against its scope.Tracker).
func ClassifyConst(hasCall, hasMemberAccess, allIdentsImportOrConst bool) bool {
	return !hasCall && !hasMemberAccess && allIdentsImportOrConst
}

// StableKey synthesizes a key for an element with no explicit key that
// sits inside a component: the first two characters of the enclosing
// component's hash, plus a per-component counter.
func StableKey(componentHashEncoded string, counter int) string {
	prefix := componentHashEncoded
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	return prefix + "_" + strconv.Itoa(counter)
}

// BindDirective describes the native-element expansion of a bind:value /
// bind:checked attribute.
type BindDirective struct {
	PropName   string // "value" | "checked"
	HelperName string // "_val" | "_chk"
}

// bindDirectives maps the two supported bind: attribute names.
var bindDirectives = map[string]BindDirective{
	"bind:value":   {PropName: "value", HelperName: "_val"},
	"bind:checked": {PropName: "checked", HelperName: "_chk"},
}

// ResolveBindDirective reports the directive a bind:* attribute name maps
// to, if any.
func ResolveBindDirective(attrName string) (BindDirective, bool) {
	d, ok := bindDirectives[attrName]
	return d, ok
}

// InlinedHandler renders the on:input handler emitted for a bind directive:
// inlinedQrl(_val|_chk, "_val|_chk", [signal]).
func (d BindDirective) InlinedHandler(signalExpr string) string {
	return "inlinedQrl(" + d.HelperName + ", \"" + d.HelperName + "\", [" + signalExpr + "])"
}

// MergeOnInput combines a bind-directive's synthesized on:input handler
// with a pre-existing on:input attribute value: if another on:input
// attribute is present, merge by wrapping both handlers in an array (or
// appending if already an array).
func MergeOnInput(existing, synthesized string) string {
	trimmed := strings.TrimSpace(existing)
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, "["), "]")
		return "[" + inner + ", " + synthesized + "]"
	}
	return "[" + existing + ", " + synthesized + "]"
}

// Prop is one attribute destined for either the const-props or var-props
// bucket of the rendered factory call.
type Prop struct {
	Key      string
	Value    string // rendered expression source, already wrap/fnSignal-rewritten
	IsConst  bool
	IsSpread bool
}

// SortVarProps sorts var-props by stringified key, stable lexicographic
// order — the caller skips this entirely when should_runtime_sort is set.
func SortVarProps(props []Prop) []Prop {
	sorted := make([]Prop, len(props))
	copy(sorted, props)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
	return sorted
}

// Element is the accumulated state of one JSX element/fragment being
// rewritten, built up by the driver as it walks an element's attributes
// and children.
type Element struct {
	Type             string // quoted tag expression, or "_Fragment"
	ConstProps       []Prop
	VarProps         []Prop
	Children         []string // rendered child expressions, in order
	Key              string   // "" if none
	ShouldRuntimeSort bool
	flags            int
}

// NewElement starts a fresh element with both flag bits set true.
func NewElement(typeExpr string) *Element {
	return &Element{Type: typeExpr, flags: FlagStaticListeners | FlagStaticSubtree}
}

// ObserveSpread clears both flags: "Presence of a spread attribute clears
// both."
func (e *Element) ObserveSpread() {
	e.flags = 0
	e.ShouldRuntimeSort = true
}

// ObserveVarProp clears static_listeners and static_subtree on any var
// attribute observation.
func (e *Element) ObserveVarProp() {
	e.flags &^= FlagStaticListeners
	e.flags &^= FlagStaticSubtree
}

// ObserveDynamicChild clears static_subtree on a dynamic child.
func (e *Element) ObserveDynamicChild() {
	e.flags &^= FlagStaticSubtree
}

func (e *Element) Flags() int { return e.flags }

// AddProp files a classified attribute into the const or var bucket,
// updating flags as needed.
func (e *Element) AddProp(p Prop) {
	if p.IsSpread {
		e.ObserveSpread()
	}
	if p.IsConst && !p.IsSpread {
		e.ConstProps = append(e.ConstProps, p)
		return
	}
	e.VarProps = append(e.VarProps, p)
	if !p.IsSpread {
		e.ObserveVarProp()
	}
}

// AddChild appends a rendered child expression. isDynamic marks a child
// that is an expression or element rather than static text.
func (e *Element) AddChild(rendered string, isDynamic bool) {
	e.Children = append(e.Children, rendered)
	if isDynamic {
		e.ObserveDynamicChild()
	}
}

func renderPropsObject(props []Prop, runtimeSort bool) string {
	if len(props) == 0 {
		return "null"
	}
	parts := make([]string, 0, len(props))
	for _, p := range props {
		if p.IsSpread {
			parts = append(parts, "..."+p.Value)
			continue
		}
		parts = append(parts, propKeyLiteral(p.Key)+": "+p.Value)
	}
	fn := ""
	if runtimeSort {
		fn = "" // runtime sort still renders a plain object; _jsxSplit performs the split at runtime
	}
	_ = fn
	return "{ " + strings.Join(parts, ", ") + " }"
}

// propKeyLiteral quotes a prop key when it isn't a valid bare JS identifier
// (event-name canonicalization and "q:ps" both produce keys containing ":").
func propKeyLiteral(key string) string {
	if isIdentifier(key) {
		return key
	}
	return strconv.Quote(key)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func renderChildren(children []string) string {
	switch len(children) {
	case 0:
		return "null"
	case 1:
		return children[0]
	default:
		return "[" + strings.Join(children, ", ") + "]"
	}
}

// Render produces the factory call text: _jsxSorted(type, varProps,
// constProps, children, flags, key), or _jsxSplit(...) when a runtime
// spread forced runtime sorting. Every call carries a leading /*#__PURE__*/
// annotation so bundlers can tree-shake an unused element.
func (e *Element) Render() string {
	varProps := e.VarProps
	if !e.ShouldRuntimeSort {
		varProps = SortVarProps(varProps)
	}
	factory := "_jsxSorted"
	if e.ShouldRuntimeSort {
		factory = "_jsxSplit"
	}
	key := "null"
	if e.Key != "" {
		key = strconv.Quote(e.Key)
	}
	args := strings.Join([]string{
		e.Type,
		renderPropsObject(varProps, e.ShouldRuntimeSort),
		renderPropsObject(e.ConstProps, false),
		renderChildren(e.Children),
		strconv.Itoa(e.flags),
		key,
	}, ", ")
	return "/*#__PURE__*/ " + factory + "(" + args + ")"
}

// FragmentType is the factory call's type argument for JSX fragments.
const FragmentType = "_Fragment"
