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
package entrystrategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, Hoist, ParsePolicy("hoist"))
	assert.Equal(t, Single, ParsePolicy("single"))
	assert.Equal(t, Hook, ParsePolicy("hook"))
	assert.Equal(t, Segment, ParsePolicy("segment"))
	assert.Equal(t, Component, ParsePolicy("component"))
	assert.Equal(t, Smart, ParsePolicy("smart"))
	assert.Equal(t, Inline, ParsePolicy("bogus"))
}

func TestGetEntryForSymInlineAndSingle(t *testing.T) {
	key, grouped := GetEntryForSym(Inline, nil, SegmentData{})
	assert.True(t, grouped)
	assert.Equal(t, "entry_segments", key)

	key, grouped = GetEntryForSym(Single, []string{"App"}, SegmentData{})
	assert.True(t, grouped)
	assert.Equal(t, "entry_segments", key)
}

func TestGetEntryForSymSegmentAndHookStandAlone(t *testing.T) {
	_, grouped := GetEntryForSym(Segment, []string{"App"}, SegmentData{})
	assert.False(t, grouped)

	_, grouped = GetEntryForSym(Hook, nil, SegmentData{})
	assert.False(t, grouped)
}

func TestGetEntryForSymComponentUsesFirstContext(t *testing.T) {
	key, grouped := GetEntryForSym(Component, []string{"App", "Inner"}, SegmentData{Origin: "app"})
	assert.True(t, grouped)
	assert.Equal(t, "app_entry_App", key)

	key, grouped = GetEntryForSym(Component, nil, SegmentData{Origin: "app", FirstContext: "Header"})
	assert.True(t, grouped)
	assert.Equal(t, "app_entry_Header", key)
}

func TestGetEntryForSymSmartOnlyGroupsWithContext(t *testing.T) {
	_, grouped := GetEntryForSym(Smart, nil, SegmentData{})
	assert.False(t, grouped)

	key, grouped := GetEntryForSym(Smart, []string{"App"}, SegmentData{Origin: "app"})
	assert.True(t, grouped)
	assert.Equal(t, "app_entry_App", key)
}

func TestGetEntryForSymHoistTreatedAsInline(t *testing.T) {
	key, grouped := GetEntryForSym(Hoist, []string{"App"}, SegmentData{})
	assert.True(t, grouped)
	assert.Equal(t, "entry_segments", key)
}
