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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/qoptimizer/internal/entrystrategy"
	"bennypowers.dev/qoptimizer/internal/qrl"
)

func TestLoadDefaults(t *testing.T) {
	v := New(t.TempDir())
	opts, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "dev", opts.Mode)
	assert.Equal(t, "segment", opts.EntryStrategy)
	assert.True(t, opts.TranspileTS)
	assert.True(t, opts.TranspileJSX)
	assert.Equal(t, "@qwik.dev/core", opts.CoreModule)
}

func TestTargetAndPolicyParsing(t *testing.T) {
	opts := TransformModulesOptions{Mode: "Production", EntryStrategy: "Hook"}
	assert.Equal(t, qrl.TargetProd, opts.Target())
	assert.Equal(t, entrystrategy.Hook, opts.Policy())
}

func TestValidateRequiresSrcDirWithoutInlineInput(t *testing.T) {
	err := TransformModulesOptions{}.Validate()
	assert.Error(t, err)

	err = TransformModulesOptions{SrcDir: "src"}.Validate()
	assert.NoError(t, err)

	err = TransformModulesOptions{Input: []InputModule{{Path: "a.tsx", Code: "const a = 1;"}}}.Validate()
	assert.NoError(t, err)
}

func TestResolvedIsServerDefaultsFalse(t *testing.T) {
	opts := TransformModulesOptions{}
	assert.False(t, opts.ResolvedIsServer())

	truthy := true
	opts.IsServer = &truthy
	assert.True(t, opts.ResolvedIsServer())
}

func TestCloneIsIndependent(t *testing.T) {
	original := &TransformModulesOptions{VendorRoots: []string{"vendor"}}
	clone := original.Clone()
	clone.VendorRoots[0] = "other"
	assert.Equal(t, "vendor", original.VendorRoots[0])
}
