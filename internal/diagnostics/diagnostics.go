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

// Package diagnostics implements the diagnostic model: non-fatal,
// structured records collected during a compilation and
// returned alongside the optimized app.
package diagnostics

// Category classifies a diagnostic's severity.
type Category string

const (
	CategoryError   Category = "error"
	CategoryWarning Category = "warning"
)

// Code is the stable diagnostic code registry.
type Code string

const (
	// CodeIllegalReference is C02: "Reference to identifier '<id>' can not
	// be used inside a Qrl($) scope because it's a <function|class>".
	CodeIllegalReference Code = "C02"
)

// Highlight is a source span a diagnostic points at.
type Highlight struct {
	File        string
	StartLine   uint32
	StartColumn uint32
	EndLine     uint32
	EndColumn   uint32
}

// Diagnostic is the structured record carried on
// TransformOutput.diagnostics.
type Diagnostic struct {
	Category    Category
	Code        Code
	File        string
	Message     string
	Highlights  []Highlight
	Suggestions []string
	Scope       string
}

// Collector accumulates diagnostics for one compilation. It is never
// shared across goroutines: each compilation unit runs single-threaded.
type Collector struct {
	items []Diagnostic
}

func NewCollector() *Collector { return &Collector{} }

func (c *Collector) Add(d Diagnostic) { c.items = append(c.items, d) }

// IllegalReference records a C02 diagnostic for a reference to a removed
// function or class declaration.
func (c *Collector) IllegalReference(file, scope, name string, kind string) {
	c.Add(Diagnostic{
		Category: CategoryError,
		Code:     CodeIllegalReference,
		File:     file,
		Scope:    scope,
		Message:  "Reference to identifier '" + name + "' can not be used inside a Qrl($) scope because it's a " + kind,
	})
}

// All returns every diagnostic collected so far, in emission order.
func (c *Collector) All() []Diagnostic { return c.items }

// HasErrors reports whether any Category == CategoryError diagnostic was
// collected.
func (c *Collector) HasErrors() bool {
	for _, d := range c.items {
		if d.Category == CategoryError {
			return true
		}
	}
	return false
}
