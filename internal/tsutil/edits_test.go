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
package tsutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyEditsSingleReplacement(t *testing.T) {
	src := []byte("const x = 1;")
	out := ApplyEdits(src, []Edit{{Start: 10, End: 11, Text: "42"}})
	assert.Equal(t, "const x = 42;", string(out))
}

func TestApplyEditsMultipleNonOverlappingAppliedRightToLeft(t *testing.T) {
	src := []byte("aaa bbb ccc")
	out := ApplyEdits(src, []Edit{
		{Start: 0, End: 3, Text: "XXX"},
		{Start: 8, End: 11, Text: "ZZZ"},
	})
	assert.Equal(t, "XXX bbb ZZZ", string(out))
}

func TestApplyEditsNoEditsReturnsSourceUnchanged(t *testing.T) {
	src := []byte("unchanged")
	out := ApplyEdits(src, nil)
	assert.Equal(t, "unchanged", string(out))
}

func TestApplyEditsSkipsOutOfRangeEdit(t *testing.T) {
	src := []byte("short")
	out := ApplyEdits(src, []Edit{{Start: 100, End: 200, Text: "x"}})
	assert.Equal(t, "short", string(out))
}

func TestRenderRangeRebasesOffsetsOntoSubslice(t *testing.T) {
	prefix := "const h = "
	sub := "() => { return count; }"
	src := []byte(prefix + sub + ";")

	start := uint(len(prefix))
	end := start + uint(len(sub))

	countOffset := uint(strings.Index(sub, "count"))
	edits := []Edit{{Start: start + countOffset, End: start + countOffset + uint(len("count")), Text: "p0"}}

	got := RenderRange(src, start, end, edits)
	assert.Equal(t, "() => { return p0; }", got)
}

func TestRenderRangeIgnoresEditsOutsideRange(t *testing.T) {
	src := []byte("const a = 1; const b = 2;")
	edits := []Edit{{Start: 10, End: 11, Text: "X"}}
	got := RenderRange(src, 13, 26, edits)
	assert.Equal(t, "const b = 2;", got)
}
