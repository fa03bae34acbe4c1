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
package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bennypowers.dev/qoptimizer/internal/qrl"
)

func TestRenderWithoutImports(t *testing.T) {
	id := qrl.NewId("./app.tsx", "h", "", qrl.TargetDev)
	mod := Render(id, nil, "() => 42")
	assert.Equal(t, id.LocalFileName, mod.Path)
	assert.Equal(t, "export const "+id.SymbolName+" = () => 42;\n", mod.Code)
}

func TestRenderWithImports(t *testing.T) {
	id := qrl.NewId("./app.tsx", "h", "", qrl.TargetDev)
	mod := Render(id, []string{`import { count } from "./state";`}, "() => count")
	assert.Contains(t, mod.Code, `import { count } from "./state";`+"\n\n")
	assert.Contains(t, mod.Code, "export const "+id.SymbolName+" = () => count;")
}

func TestInjectLexicalScopeNoCaptures(t *testing.T) {
	got := InjectLexicalScope("() =>", "42", false, nil)
	assert.Equal(t, "() => 42", got)
}

func TestInjectLexicalScopeConciseBodyWithCaptures(t *testing.T) {
	got := InjectLexicalScope("() =>", "count", false, []string{"count"})
	assert.Contains(t, got, "const [count] = useLexicalScope();")
	assert.Contains(t, got, "return count;")
}

func TestInjectLexicalScopeBlockBodyWithCaptures(t *testing.T) {
	got := InjectLexicalScope("() =>", "\n  return count;\n", true, []string{"count"})
	assert.Contains(t, got, "const [count] = useLexicalScope();")
	assert.Contains(t, got, "return count;")
}
