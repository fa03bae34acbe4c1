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

package jsxtransform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNativeTag(t *testing.T) {
	assert.True(t, IsNativeTag("div"))
	assert.True(t, IsNativeTag("my-element"))
	assert.False(t, IsNativeTag("MyComponent"))
	assert.False(t, IsNativeTag(""))
}

func TestCanonicalizeEventName(t *testing.T) {
	cases := []struct {
		in       string
		expected string
		ok       bool
	}{
		{"onClick$", "on:click", true},
		{"on-cLick$", "on:c-lick", true},
		{"window:onScroll$", "on-window:scroll", true},
		{"document:onVisibilityChange$", "on-document:visibilitychange", true},
		{"class", "", false},
		{"q:slot", "", false},
	}
	for _, c := range cases {
		got, ok := CanonicalizeEventName(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		if c.ok {
			assert.Equal(t, c.expected, got, c.in)
		}
	}
}

func TestClassifyConst(t *testing.T) {
	assert.True(t, ClassifyConst(false, false, true))
	assert.False(t, ClassifyConst(true, false, true))
	assert.False(t, ClassifyConst(false, true, true))
	assert.False(t, ClassifyConst(false, false, false))
}

func TestElementRenderBasicDiv(t *testing.T) {
	el := NewElement(`"div"`)
	el.AddProp(Prop{Key: "id", Value: `"app"`, IsConst: true})
	el.AddChild(`"hi"`, false)
	got := el.Render()
	assert.Contains(t, got, "_jsxSorted(")
	assert.Contains(t, got, `"div"`)
	assert.Contains(t, got, `id: "app"`)
}

func TestElementSpreadForcesRuntimeSort(t *testing.T) {
	el := NewElement(`"div"`)
	el.AddProp(Prop{Value: "rest", IsSpread: true})
	assert.True(t, el.ShouldRuntimeSort)
	assert.Equal(t, 0, el.Flags())
	assert.Contains(t, el.Render(), "_jsxSplit(")
}

func TestQPsPropKeyIsQuoted(t *testing.T) {
	el := NewElement(`"button"`)
	el.AddProp(Prop{Key: "q:ps", Value: "[v]", IsConst: true})
	assert.Contains(t, el.Render(), `"q:ps": [v]`)
}

func TestStableKey(t *testing.T) {
	assert.Equal(t, "ab_0", StableKey("abcdef", 0))
	assert.Equal(t, "a_3", StableKey("a", 3))
}

func TestBindDirectiveInlinedHandler(t *testing.T) {
	d, ok := ResolveBindDirective("bind:value")
	assert.True(t, ok)
	assert.Equal(t, `inlinedQrl(_val, "_val", [sig])`, d.InlinedHandler("sig"))
}

func TestMergeOnInput(t *testing.T) {
	assert.Equal(t, "[a, b]", MergeOnInput("a", "b"))
	assert.Equal(t, "[a, b, c]", MergeOnInput("[a, b]", "c"))
}
