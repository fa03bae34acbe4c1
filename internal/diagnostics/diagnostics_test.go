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
package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectorAccumulatesInOrder(t *testing.T) {
	c := NewCollector()
	assert.False(t, c.HasErrors())

	c.Add(Diagnostic{Category: CategoryWarning, Code: "W01", Message: "first"})
	c.IllegalReference("app.tsx", "App_component_abc1234d", "helper", "function")

	all := c.All()
	assert.Len(t, all, 2)
	assert.Equal(t, "first", all[0].Message)
	assert.Equal(t, CodeIllegalReference, all[1].Code)
	assert.Contains(t, all[1].Message, "helper")
	assert.Contains(t, all[1].Message, "function")
	assert.True(t, c.HasErrors())
}

func TestHasErrorsFalseWhenOnlyWarnings(t *testing.T) {
	c := NewCollector()
	c.Add(Diagnostic{Category: CategoryWarning})
	assert.False(t, c.HasErrors())
}
