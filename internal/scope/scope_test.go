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
package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeclareAndLookupInnermostWins(t *testing.T) {
	tr := NewTracker()
	tr.Declare(Entry{Name: "x", Type: Var, IsConst: true})
	tr.Push()
	tr.Declare(Entry{Name: "x", Type: Fn})

	flat := tr.Flatten()
	e, ok := Lookup(flat, "x")
	assert.True(t, ok)
	assert.Equal(t, Fn, e.Type)

	tr.Pop()
	flat = tr.Flatten()
	e, ok = Lookup(flat, "x")
	assert.True(t, ok)
	assert.Equal(t, Var, e.Type)
	assert.True(t, e.IsConst)
}

func TestLookupMissingName(t *testing.T) {
	tr := NewTracker()
	_, ok := Lookup(tr.Flatten(), "nope")
	assert.False(t, ok)
}

func TestDeclareInParent(t *testing.T) {
	tr := NewTracker()
	tr.Push() // enter function body scope
	tr.DeclareInParent(Entry{Name: "fn", Type: Fn})

	// visible one level out: pop the body scope, should still be there.
	tr.Pop()
	_, ok := Lookup(tr.Flatten(), "fn")
	assert.True(t, ok)
}

func TestDepthTracksPushPop(t *testing.T) {
	tr := NewTracker()
	base := tr.Depth()
	tr.Push()
	tr.Push()
	assert.Equal(t, base+2, tr.Depth())
	tr.Pop()
	assert.Equal(t, base+1, tr.Depth())
}
