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
package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSegmentNonMarkerIsNamed(t *testing.T) {
	b := NewBuilder()
	e := b.NewSegment("items", nil)
	assert.Equal(t, Named, e.Kind)
	assert.Equal(t, "items", e.String())
}

func TestNewSegmentMarkerCountsOccurrences(t *testing.T) {
	b := NewBuilder()
	stack := []Element{NamedElement("App")}

	first := b.NewSegment("onClick$", stack)
	second := b.NewSegment("onClick$", stack)

	assert.Equal(t, NamedQrl, first.Kind)
	assert.Equal(t, "onClick", first.String())
	assert.Equal(t, "onClick_1", second.String())
}

func TestNewSegmentBareMarkerIsIndexQrl(t *testing.T) {
	b := NewBuilder()
	stack := []Element{NamedElement("App")}

	first := b.NewSegment("$", stack)
	second := b.NewSegment("$", stack)

	assert.Equal(t, IndexQrl, first.Kind)
	assert.Equal(t, "", first.String())
	assert.Equal(t, "1", second.String())
}

func TestNewSegmentCountsAreQualifiedByStack(t *testing.T) {
	b := NewBuilder()
	a := b.NewSegment("h$", []Element{NamedElement("App")})
	c := b.NewSegment("h$", []Element{NamedElement("Other")})
	assert.Equal(t, "h", a.String())
	assert.Equal(t, "h", c.String())
}

func TestRenderJoinsWithSlash(t *testing.T) {
	stack := []Element{NamedElement("App"), NamedElement("render")}
	assert.Equal(t, "App/render", Render(stack))
}

func TestDisplayNameSanitizesAndPrefixesDigit(t *testing.T) {
	stack := []Element{NamedElement("3App"), NamedElement("on click")}
	dn := DisplayName(stack)
	assert.Equal(t, "_3App_on_click", dn)
}

func TestDisplayNameCollapsesRunsOfPunctuation(t *testing.T) {
	stack := []Element{NamedElement("a--b")}
	assert.Equal(t, "a_b", DisplayName(stack))
}
