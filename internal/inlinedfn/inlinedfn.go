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

// Package inlinedfn implements _fnSignal hoisting: loop-body JSX
// attribute expressions over an iteration variable get hoisted into
// top-level, content-addressed `_hfN` arrows plus their source-text
// `_hfN_str` siblings, and the call site becomes `_fnSignal(_hfN, [...],
// _hfN_str)`.
package inlinedfn

import (
	"strconv"
	"strings"
)

// MaxInlineBytes is the "rendered source ≤ 150 bytes" hoisting threshold.
const MaxInlineBytes = 150

// Hoisted is one hoisted arrow, ready for top-level emission.
type Hoisted struct {
	Name      string // "_hf0", "_hf1", ...
	StrName   string // "_hf0_str", ...
	Params    []string
	Body      string
	SourceStr string // original expression source, pre-rename
}

// Hoister mints _hfN names in insertion order, content-addressed by
// insertion order.
type Hoister struct {
	items []Hoisted
}

func NewHoister() *Hoister { return &Hoister{} }

// Eligible reports whether an attribute expression qualifies for hoisting:
// it must be inside a loop, its rendered source must be within
// MaxInlineBytes, and usesIterationVar/hasCall/hasArrow describe what the
// driver observed while walking the expression: whether it uses an
// iteration variable as an object of member access (no calls, no arrow).
func Eligible(inLoop bool, usesIterationVar bool, hasCall bool, hasArrow bool, renderedSource string) bool {
	if !inLoop || !usesIterationVar || hasCall || hasArrow {
		return false
	}
	return len(renderedSource) <= MaxInlineBytes
}

// Hoist registers one hoisted arrow and returns the _fnSignal(...) call
// expression to splice in at the original attribute-value site.
// iterationVars is the ordered list of iteration variables the expression
// references; body is the expression source with each iterationVars[i]
// already renamed to "p"+i by the caller (renaming requires identifier-level
// rewriting the driver performs using its own Edit list, since this package
// only renders text).
func (h *Hoister) Hoist(body string, iterationVars []string, captures []string, sourceStr string) (call string, hoisted Hoisted) {
	idx := len(h.items)
	name := "_hf" + strconv.Itoa(idx)
	strName := name + "_str"
	params := make([]string, len(iterationVars))
	for i := range iterationVars {
		params[i] = "p" + strconv.Itoa(i)
	}
	hoisted = Hoisted{Name: name, StrName: strName, Params: params, Body: body, SourceStr: sourceStr}
	h.items = append(h.items, hoisted)

	call = "_fnSignal(" + name + ", [" + strings.Join(captures, ", ") + "], " + strName + ")"
	return call, hoisted
}

// Declarations renders the `const _hfN = (p0, ...) => <body>;` and
// `const _hfN_str = "<source>";` top-level statement pairs, in insertion
// order, for every hoisted arrow.
func (h *Hoister) Declarations() []string {
	out := make([]string, 0, len(h.items)*2)
	for _, item := range h.items {
		out = append(out, "const "+item.Name+" = ("+strings.Join(item.Params, ", ")+") => "+item.Body+";")
		out = append(out, "const "+item.StrName+" = "+strconv.Quote(item.SourceStr)+";")
	}
	return out
}

// Len reports how many arrows have been hoisted so far.
func (h *Hoister) Len() int { return len(h.items) }
