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
package identset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/qoptimizer/internal/tsutil"
)

func parseExpr(t *testing.T, src string) (*tsutil.Node, []byte) {
	t.Helper()
	full := []byte("const _ = " + src + ";")
	tree, err := tsutil.Parse(full, tsutil.DialectTSX)
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	decl := tsutil.Find(tree.RootNode(), tsutil.KindLexicalDeclaration)
	require.NotNil(t, decl)
	declarator := tsutil.Find(decl, tsutil.KindVariableDeclarator)
	require.NotNil(t, declarator)
	value := declarator.ChildByFieldName("value")
	require.NotNil(t, value)
	return value, full
}

func TestCollectFindsFreeIdentifiers(t *testing.T) {
	expr, src := parseExpr(t, "() => count + label")
	res := Collect(expr, src)
	assert.Equal(t, []string{"count", "label"}, res.Idents)
}

func TestCollectExcludesBuiltins(t *testing.T) {
	expr, src := parseExpr(t, "() => x ?? undefined")
	res := Collect(expr, src)
	assert.Equal(t, []string{"x"}, res.Idents)
}

func TestCollectExcludesMemberAndPropertyNames(t *testing.T) {
	expr, src := parseExpr(t, "() => obj.prop")
	res := Collect(expr, src)
	assert.Equal(t, []string{"obj"}, res.Idents)
}

func TestCollectExcludesObjectKeysIncludesShorthandValue(t *testing.T) {
	expr, src := parseExpr(t, "() => ({ key: value, shorthand })")
	res := Collect(expr, src)
	assert.Equal(t, []string{"shorthand", "value"}, res.Idents)
}

func TestCollectJSXExcludesNativeTagButIncludesComponent(t *testing.T) {
	expr, src := parseExpr(t, "() => <div><MyComponent prop={x} /></div>")
	res := Collect(expr, src)
	assert.True(t, res.UseH)
	assert.Contains(t, res.Idents, "MyComponent")
	assert.Contains(t, res.Idents, "x")
	assert.NotContains(t, res.Idents, "div")
}

func TestCollectJSXAttributeNameExcluded(t *testing.T) {
	expr, src := parseExpr(t, `() => <div id={id} />`)
	res := Collect(expr, src)
	assert.Equal(t, []string{"id"}, res.Idents)
}

func TestCollectDetectsFragment(t *testing.T) {
	expr, src := parseExpr(t, "() => <>{x}</>")
	res := Collect(expr, src)
	assert.True(t, res.UseFragment)
	assert.Contains(t, res.Idents, "x")
}

func TestCollectSortsAndDedupes(t *testing.T) {
	expr, src := parseExpr(t, "() => b + a + b + a")
	res := Collect(expr, src)
	assert.Equal(t, []string{"a", "b"}, res.Idents)
}
