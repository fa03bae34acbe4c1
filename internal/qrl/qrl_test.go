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

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTarget(t *testing.T) {
	assert.Equal(t, TargetTest, ParseTarget("TEST"))
	assert.Equal(t, TargetProd, ParseTarget("production"))
	assert.Equal(t, TargetLib, ParseTarget("library"))
	assert.Equal(t, TargetDev, ParseTarget("whatever"))
}

func TestNewIdDevSymbolNameIncludesDisplayName(t *testing.T) {
	id := NewId("./app.tsx", "App_component", "", TargetDev)
	assert.True(t, strings.HasPrefix(id.SymbolName, "App_component_"))
	assert.Equal(t, "app.tsx_"+id.SymbolName, id.LocalFileName)
}

func TestNewIdProdSymbolNameIsOpaque(t *testing.T) {
	id := NewId("./app.tsx", "App_component", "", TargetProd)
	assert.True(t, strings.HasPrefix(id.SymbolName, "s_"))
	assert.NotContains(t, id.SymbolName, "App_component")
}

func TestNewIdStripsLeadingDotSlash(t *testing.T) {
	id := NewId("./nested/app.tsx", "h", "", TargetDev)
	assert.True(t, strings.HasPrefix(id.LocalFileName, "nested/app.tsx_"))
}

func TestDescriptorRenderPlainNoCaptures(t *testing.T) {
	d := Descriptor{
		Id:      NewId("./app.tsx", "h", "", TargetDev),
		RelPath: "./app.tsx_h_abc",
		Type:    PlainType(),
	}
	got := d.Render()
	assert.True(t, strings.HasPrefix(got, `qrl(() => import("./app.tsx_h_abc"), "`))
	assert.False(t, strings.Contains(got, "["))
}

func TestDescriptorRenderWithCaptures(t *testing.T) {
	d := Descriptor{
		Id:           NewId("./app.tsx", "h", "", TargetDev),
		RelPath:      "./app.tsx_h_abc",
		Type:         PlainType(),
		ScopedIdents: []string{"count", "label"},
	}
	assert.Contains(t, d.Render(), ", [count, label])")
}

func TestDescriptorRenderPrefixed(t *testing.T) {
	d := Descriptor{
		Id:      NewId("./app.tsx", "App_component", "", TargetDev),
		RelPath: "./app.tsx_App_component_abc",
		Type:    PrefixedType("component"),
	}
	got := d.Render()
	assert.True(t, strings.HasPrefix(got, "componentQrl(qrl("))
	assert.True(t, strings.HasSuffix(got, "))"))
}
