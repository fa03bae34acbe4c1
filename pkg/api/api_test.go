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

package api

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/qoptimizer/internal/config"
	"bennypowers.dev/qoptimizer/internal/platform"
)

func TestTransformModulesBasicExtraction(t *testing.T) {
	src := `import { $ } from "@qwik.dev/core";
const greet = $(() => console.log("hi"));
`
	opts := config.TransformModulesOptions{
		Input: []config.InputModule{{Path: "test.tsx", Code: src}},
	}
	out, err := TransformModules(opts)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(out.Modules), 2)

	entry := out.Modules[0]
	assert.True(t, entry.IsEntry)
	assert.Contains(t, entry.Code, "qrl(")

	segment := out.Modules[1]
	assert.False(t, segment.IsEntry)
	assert.Contains(t, segment.Code, "export const")
	require.NotNil(t, segment.Segment)
}

// moduleShape is the subset of ModuleOutput worth diffing structurally:
// Code varies with hashes and whitespace, but the entry/segment shape of
// the module list is exactly what a host needs to get right.
type moduleShape struct {
	Path    string
	IsEntry bool
	Order   uint64
}

func TestTransformModulesEntryModuleShape(t *testing.T) {
	src := `import { $ } from "@qwik.dev/core";
const greet = $(() => console.log("hi"));
`
	opts := config.TransformModulesOptions{
		Input: []config.InputModule{{Path: "test.tsx", Code: src}},
	}
	out, err := TransformModules(opts)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(out.Modules), 2)

	got := moduleShape{
		Path:    out.Modules[0].Path,
		IsEntry: out.Modules[0].IsEntry,
		Order:   out.Modules[0].Order,
	}
	want := moduleShape{Path: "test.tsx", IsEntry: true, Order: 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entry module shape mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, out.Modules[1].IsEntry)
}

func TestTransformFSWalksSrcDir(t *testing.T) {
	fsys := platform.NewMapFS(map[string]string{
		"src/app.tsx": `import { component$ } from "@qwik.dev/core";
export const App = component$(() => {
  return null;
});
`,
	})
	opts := config.TransformModulesOptions{SrcDir: "src"}
	out, err := TransformFS(fsys, opts)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Modules)
}

func TestTransformFSRequiresSrcDirOrInput(t *testing.T) {
	fsys := platform.NewMapFS(map[string]string{})
	_, err := TransformFS(fsys, config.TransformModulesOptions{})
	assert.Error(t, err)
}
