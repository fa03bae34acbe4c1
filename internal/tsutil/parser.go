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

// Package tsutil wraps github.com/tree-sitter/go-tree-sitter to stand in
// for the host AST toolkit an external collaborator would supply:
// the parser, the arena that owns its nodes, and the generic cursor-walk
// the traversal driver (internal/transform) runs over it. Grounded on the
// teacher's queries/queries.go parser-pooling pattern, trimmed to the two
// grammars this optimizer actually needs (TypeScript and TSX); other
// dialects such as CSS, HTML, or JSDoc have no component here.
package tsutil

import (
	"fmt"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsTypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Node is an alias for the tree-sitter node type borrowed by every package
// in this module; keeping it as a type alias (not a wrapper struct) keeps
// faith with AST ownership: references into the AST borrow from
// the arena, they are never copied into an owned representation.
type Node = ts.Node

// Tree is the parsed arena-owned syntax tree for one source file.
type Tree = ts.Tree

var languages = struct {
	typescript *ts.Language
	tsx        *ts.Language
}{
	typescript: ts.NewLanguage(tsTypescript.LanguageTypescript()),
	tsx:        ts.NewLanguage(tsTypescript.LanguageTSX()),
}

var typescriptParserPool = sync.Pool{
	New: func() any {
		parser := ts.NewParser()
		if err := parser.SetLanguage(languages.typescript); err != nil {
			panic(fmt.Sprintf("tsutil: failed to set TypeScript language: %v", err))
		}
		return parser
	},
}

var tsxParserPool = sync.Pool{
	New: func() any {
		parser := ts.NewParser()
		if err := parser.SetLanguage(languages.tsx); err != nil {
			panic(fmt.Sprintf("tsutil: failed to set TSX language: %v", err))
		}
		return parser
	},
}

// Dialect selects which grammar a source file parses under. Every Qwik
// source file is parsed as TSX: plain .ts/.js files contain no JSX but the
// TSX grammar is a superset, and parsing everything under one grammar keeps
// the driver's node-kind switch uniform (the traversal never needs to
// know which concrete dialect produced a node).
type Dialect int

const (
	DialectTSX Dialect = iota
	DialectTypeScript
)

// GetParser returns a pooled parser for the given dialect. Always call
// PutParser when done.
func GetParser(d Dialect) *ts.Parser {
	switch d {
	case DialectTypeScript:
		return typescriptParserPool.Get().(*ts.Parser)
	default:
		return tsxParserPool.Get().(*ts.Parser)
	}
}

// PutParser returns a parser to its pool.
func PutParser(d Dialect, p *ts.Parser) {
	p.Reset()
	switch d {
	case DialectTypeScript:
		typescriptParserPool.Put(p)
	default:
		tsxParserPool.Put(p)
	}
}

// Parse parses source under the given dialect and returns the owning tree.
// The caller must call tree.Close() when the arena is no longer needed:
// drop it once the program exits, and every borrowed reference dies
// with it.
func Parse(source []byte, d Dialect) (*Tree, error) {
	parser := GetParser(d)
	defer PutParser(d, parser)
	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tsutil: parse failed")
	}
	return tree, nil
}
