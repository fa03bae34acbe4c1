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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingVisitor struct {
	entered []string
	exited  []string
}

func (c *countingVisitor) Enter(n *Node) bool {
	c.entered = append(c.entered, n.Kind())
	return true
}

func (c *countingVisitor) Exit(n *Node) {
	c.exited = append(c.exited, n.Kind())
}

func TestParseAndWalkVisitsEveryNode(t *testing.T) {
	src := []byte("const x = 1;")
	tree, err := Parse(src, DialectTypeScript)
	require.NoError(t, err)
	defer tree.Close()

	v := &countingVisitor{}
	Walk(tree.RootNode(), v)

	assert.Equal(t, KindProgram, v.entered[0])
	assert.Equal(t, len(v.entered), len(v.exited))
	assert.Contains(t, v.entered, KindLexicalDeclaration)
	assert.Contains(t, v.entered, KindVariableDeclarator)
	assert.Contains(t, v.entered, KindIdentifier)
	assert.Contains(t, v.entered, KindNumber)
}

func TestFindLocatesNamedChildByKind(t *testing.T) {
	src := []byte("const x = 1;")
	tree, err := Parse(src, DialectTypeScript)
	require.NoError(t, err)
	defer tree.Close()

	decl := Find(tree.RootNode(), KindLexicalDeclaration)
	require.NotNil(t, decl)

	declarator := Find(decl, KindVariableDeclarator)
	require.NotNil(t, declarator)
	assert.True(t, IsAny(declarator, KindVariableDeclarator, KindAssignmentPattern))
	assert.False(t, IsAny(declarator, KindClassDeclaration))
}

func TestTextReturnsSourceSpan(t *testing.T) {
	src := []byte("const count = 1;")
	tree, err := Parse(src, DialectTypeScript)
	require.NoError(t, err)
	defer tree.Close()

	declarator := Find(tree.RootNode(), KindLexicalDeclaration)
	declarator = Find(declarator, KindVariableDeclarator)
	require.NotNil(t, declarator)

	nameNode := declarator.ChildByFieldName("name")
	require.NotNil(t, nameNode)
	assert.Equal(t, "count", Text(nameNode, src))
}

func TestNamedChildrenSkipsAnonymousTokens(t *testing.T) {
	src := []byte("const x = 1;")
	tree, err := Parse(src, DialectTypeScript)
	require.NoError(t, err)
	defer tree.Close()

	decl := Find(tree.RootNode(), KindLexicalDeclaration)
	require.NotNil(t, decl)
	children := NamedChildren(decl)
	require.Len(t, children, 1)
	assert.Equal(t, KindVariableDeclarator, children[0].Kind())
}

func TestParseTSXDialectHandlesJSX(t *testing.T) {
	src := []byte("const el = <div>hi</div>;")
	tree, err := Parse(src, DialectTSX)
	require.NoError(t, err)
	defer tree.Close()

	el := Find(tree.RootNode(), KindLexicalDeclaration)
	require.NotNil(t, el)
	assert.NotNil(t, Find(el, KindVariableDeclarator))
}

func TestEnterFalseSkipsDescendingButStillExits(t *testing.T) {
	src := []byte("const x = 1;")
	tree, err := Parse(src, DialectTypeScript)
	require.NoError(t, err)
	defer tree.Close()

	v := &skipVisitor{skipKind: KindLexicalDeclaration}
	Walk(tree.RootNode(), v)
	assert.True(t, v.exitedSkipped)
	assert.False(t, v.sawInnerChild)
}

type skipVisitor struct {
	skipKind      string
	exitedSkipped bool
	sawInnerChild bool
}

func (v *skipVisitor) Enter(n *Node) bool {
	if n.Kind() == KindVariableDeclarator {
		v.sawInnerChild = true
	}
	return n.Kind() != v.skipKind
}

func (v *skipVisitor) Exit(n *Node) {
	if n.Kind() == v.skipKind {
		v.exitedSkipped = true
	}
}
