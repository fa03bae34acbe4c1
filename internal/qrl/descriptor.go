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

package qrl

import "strings"

// TypeKind discriminates the three QRL call shapes.
type TypeKind int

const (
	// Plain emits qrl(...).
	Plain TypeKind = iota
	// Prefixed emits prefixQrl(qrl(...)), e.g. componentQrl(qrl(...)).
	Prefixed
	// Indexed is a bare, unnamed $(...) occurrence; it renders identically
	// to Plain but carries its occurrence index for diagnostics/entry keys.
	Indexed
)

// Type is the qrl_type field of a QRL descriptor.
type Type struct {
	Kind   TypeKind
	Prefix string // set when Kind == Prefixed, e.g. "component"
	Index  int    // set when Kind == Indexed
}

func PlainType() Type                { return Type{Kind: Plain} }
func PrefixedType(prefix string) Type { return Type{Kind: Prefixed, Prefix: prefix} }
func IndexedType(index int) Type      { return Type{Kind: Indexed, Index: index} }

// Descriptor is the QRL descriptor.
type Descriptor struct {
	Id                Id
	RelPath           string // import specifier, no extension (bundler resolves it)
	DisplayName       string
	Type              Type
	ScopedIdents      []string // sorted unique captures
	ReferencedExports []string
	IterationParams   []string
	IsConst           bool
}

// Render produces the call-expression text:
//
//	qrl(() => import("<rel>"), "<symbol_name>", [<captures>])
//
// wrapped in prefixQrl(...) for Type.Kind == Prefixed. The captures array
// is omitted entirely when empty.
func (d Descriptor) Render() string {
	var sb strings.Builder
	sb.WriteString(`qrl(() => import("`)
	sb.WriteString(d.RelPath)
	sb.WriteString(`"), "`)
	sb.WriteString(d.Id.SymbolName)
	sb.WriteString(`"`)
	if len(d.ScopedIdents) > 0 {
		sb.WriteString(`, [`)
		sb.WriteString(strings.Join(d.ScopedIdents, ", "))
		sb.WriteString(`]`)
	}
	sb.WriteString(`)`)

	inner := sb.String()
	if d.Type.Kind == Prefixed {
		return d.Type.Prefix + "Qrl(" + inner + ")"
	}
	return inner
}
