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

package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/qoptimizer/internal/diagnostics"
	"bennypowers.dev/qoptimizer/internal/entrystrategy"
	"bennypowers.dev/qoptimizer/internal/qrl"
)

func hasErrorDiagnostic(ds []diagnostics.Diagnostic) bool {
	for _, d := range ds {
		if d.Category == diagnostics.CategoryError {
			return true
		}
	}
	return false
}

func devOptions() Options {
	return Options{
		RelPath:       "test.tsx",
		EntryStrategy: entrystrategy.Segment,
	}
}

// Basic arrow extraction.
func TestBasicArrowExtraction(t *testing.T) {
	src := `export const h = $(() => 42);`
	out, err := Transform([]byte(src), devOptions())
	require.NoError(t, err)
	require.Len(t, out.Components, 1)

	comp := out.Components[0]
	assert.Contains(t, out.Code, `qrl(() => import("`)
	assert.Contains(t, out.Code, comp.Id.SymbolName)
	assert.NotContains(t, out.Code, "$(() => 42)")
	assert.Contains(t, comp.Code, "export const "+comp.Id.SymbolName+" = () => 42;")
}

// Captured variable threaded through useLexicalScope.
func TestCapturedVariableUsesLexicalScope(t *testing.T) {
	src := `const count = 0; export const h = $(() => count);`
	out, err := Transform([]byte(src), devOptions())
	require.NoError(t, err)
	require.Len(t, out.Components, 1)

	comp := out.Components[0]
	assert.Contains(t, out.Code, ", [count])")
	assert.Contains(t, comp.Code, "const [count] = useLexicalScope();")
	assert.Contains(t, comp.Code, "return count;")
}

// Component with destructured props rewrites to _wrapProp.
func TestComponentDestructuredPropsWrapProp(t *testing.T) {
	src := `export const C = component$(({ name }) => <div>{name}</div>);`
	out, err := Transform([]byte(src), devOptions())
	require.NoError(t, err)
	require.Len(t, out.Components, 1)

	comp := out.Components[0]
	assert.Contains(t, out.Code, "componentQrl(qrl(")
	assert.Contains(t, comp.Code, "_rawProps")
	assert.Contains(t, comp.Code, `_wrapProp(_rawProps, "name")`)
	assert.Contains(t, out.Code, `_wrapProp`)
}

// Event handler inside .map carries iteration params, not
// captures, and the enclosing JSX element gains a "q:ps" prop.
func TestEventHandlerInsideMapUsesIterationParams(t *testing.T) {
	src := `export const L = component$(() => items.map((v, i) =>
  <button onClick$={() => use(v)}>{v}</button>));`
	out, err := Transform([]byte(src), devOptions())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(out.Components), 2)

	var handler, component *Component
	for i := range out.Components {
		if out.Components[i].Qrl.Type.Kind == qrl.Plain {
			handler = &out.Components[i]
		} else {
			component = &out.Components[i]
		}
	}
	require.NotNil(t, handler, "expected a plain-qrl() event handler segment among: %+v", out.Components)
	require.NotNil(t, component, "expected the component$ segment among: %+v", out.Components)
	assert.Contains(t, handler.Qrl.IterationParams, "v")
	assert.NotContains(t, handler.Qrl.ScopedIdents, "v")
	assert.Contains(t, component.Code, `"q:ps": [v]`)
}

// isServer const-folds to a boolean literal and the now-unused
// import is stripped.
func TestIsServerConstFold(t *testing.T) {
	src := `import {isServer} from '@qwik.dev/core/build';
if (isServer) serverOnly();`
	opts := devOptions()
	opts.IsServer = true
	out, err := Transform([]byte(src), opts)
	require.NoError(t, err)
	assert.Contains(t, out.Code, "if (true) serverOnly();")
	assert.NotContains(t, out.Code, "@qwik.dev/core/build")
}

// Legacy source rename.
func TestLegacySourceRename(t *testing.T) {
	src := `import { x } from '@builder.io/qwik-city';`
	out, err := Transform([]byte(src), devOptions())
	require.NoError(t, err)
	assert.Contains(t, out.Code, `"@qwik.dev/router"`)
	assert.NotContains(t, out.Code, "@builder.io/qwik-city")
}

// A marker referencing a sibling top-level export is carried as a
// referenced export, not silently dropped.
func TestMarkerReferencingSiblingExportIsRecorded(t *testing.T) {
	src := `export function helper() { return 1; }
export const h = $(() => helper());`
	out, err := Transform([]byte(src), devOptions())
	require.NoError(t, err)
	require.Len(t, out.Components, 1)
	assert.Contains(t, out.Components[0].Qrl.ReferencedExports, "helper")
}

// An extracted marker bound to a local const that is never read again is
// unwrapped to a bare expression statement; the const wrapper serves no
// purpose once nothing references its name.
func TestUnusedLocalQrlDeclarationUnwrapsToBareExpression(t *testing.T) {
	src := `const h = $(() => 1);
console.log("side effect");`
	out, err := Transform([]byte(src), devOptions())
	require.NoError(t, err)
	require.Len(t, out.Components, 1)
	assert.NotContains(t, out.Code, "const h")
	assert.Contains(t, out.Code, "qrl(() => import(")
}

// Boundary: empty input yields empty output, no components, no diagnostics.
func TestEmptyInputProducesEmptyOutput(t *testing.T) {
	out, err := Transform([]byte(""), devOptions())
	require.NoError(t, err)
	assert.Empty(t, out.Components)
	assert.Empty(t, out.Diagnostics)
}

// Boundary: free identifiers not present in any scope are treated as
// globals, not captures, and draw no diagnostic.
func TestFreeGlobalIdentifiersAreNotCaptured(t *testing.T) {
	src := `export const h = $(() => x + y);`
	out, err := Transform([]byte(src), devOptions())
	require.NoError(t, err)
	require.Len(t, out.Components, 1)
	assert.Empty(t, out.Components[0].Qrl.ScopedIdents)
	assert.False(t, hasErrorDiagnostic(out.Diagnostics))
	assert.Contains(t, out.Code, ", \"test_h_")
	assert.NotContains(t, out.Code, ", [x")
}

// Boundary: a class declared inside a marker is stripped from the segment
// and any reference to it draws a C02 diagnostic.
func TestClassInsideMarkerStrippedWithDiagnostic(t *testing.T) {
	src := `export const h = $(() => { class Foo {} return new Foo(); });`
	out, err := Transform([]byte(src), devOptions())
	require.NoError(t, err)
	require.Len(t, out.Components, 1)

	comp := out.Components[0]
	assert.NotContains(t, comp.Code, "class Foo")
	assert.True(t, hasErrorDiagnostic(out.Diagnostics))
}
