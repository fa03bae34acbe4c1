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

import "sort"

// Edit replaces the byte range [Start, End) of a source buffer with Text.
// The driver collects Edits during traversal (one per rewritten call
// expression, JSX element, import declaration, ...) and applies them all at
// once at program exit, the same "collect then splice back-to-front"
// approach keeps earlier byte offsets valid while later ones are rewritten.
type Edit struct {
	Start uint
	End   uint
	Text  string
}

// RenderRange returns the text of source[start:end] with every edit whose
// range falls within [start, end) applied, offsets rebased onto the
// sub-slice. Used when a segment is extracted mid-traversal: the emitted
// module body must reflect JSX/props-destructure/inlined-fn rewrites
// already recorded for that subtree, even though the full-document edit
// list is not applied until exit_program.
func RenderRange(source []byte, start, end uint, edits []Edit) string {
	local := make([]Edit, 0, len(edits))
	for _, e := range edits {
		if e.Start >= start && e.End <= end {
			local = append(local, Edit{Start: e.Start - start, End: e.End - start, Text: e.Text})
		}
	}
	return string(ApplyEdits(source[start:end], local))
}

// ApplyEdits applies a set of Edits to source, processing them in
// descending Start order so earlier offsets stay valid. An edit whose range
// lies inside another edit's range is skipped, since the enclosing edit's
// Text already replaces that span; of two edits over the same range, the one
// later in edits wins.
func ApplyEdits(source []byte, edits []Edit) []byte {
	if len(edits) == 0 {
		return source
	}
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start > sorted[j].Start })

	out := make([]byte, len(source))
	copy(out, source)
	for i, e := range sorted {
		if e.Start > uint(len(out)) || e.End > uint(len(out)) || e.Start > e.End {
			continue
		}
		nested := false
		for j, o := range sorted {
			if j != i && o.Start <= e.Start && e.End <= o.End && (o.Start != e.Start || o.End != e.End || j > i) {
				nested = true
				break
			}
		}
		if nested {
			continue
		}
		var buf []byte
		buf = append(buf, out[:e.Start]...)
		buf = append(buf, []byte(e.Text)...)
		buf = append(buf, out[e.End:]...)
		out = buf
	}
	return out
}
