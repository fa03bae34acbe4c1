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

// Package emitter wraps an extracted expression into a standalone segment
// module:
//
//	<imports>
//	export const <symbol_name> = <extracted_expression>;
package emitter

import (
	"strings"

	"bennypowers.dev/qoptimizer/internal/qrl"
)

// Module is a rendered segment file ready to be written to LocalFileName
// (plus the source language's extension).
type Module struct {
	Path string
	Code string
}

// Render builds the segment module text. importLines are fully-rendered
// ImportDeclaration statements (the segment's own captured imports, plus
// useLexicalScope/referenced-exports imports synthesized by the caller).
// body is the extracted expression's source text, already including any
// lexical-scope destructuring injected by InjectLexicalScope.
func Render(id qrl.Id, importLines []string, body string) Module {
	var sb strings.Builder
	for _, line := range importLines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if len(importLines) > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString("export const ")
	sb.WriteString(id.SymbolName)
	sb.WriteString(" = ")
	sb.WriteString(body)
	sb.WriteString(";\n")
	return Module{Path: id.LocalFileName, Code: sb.String()}
}

// InjectLexicalScope handles the case where an extracted function-like
// expression has non-empty captures: its body gains a
// leading `const [a, b] = useLexicalScope();` statement. bodyText is the
// source text of the function's body (without the enclosing braces);
// hasBlockBody reports whether the original body was already `{ ... }`
// (false for a concise arrow body like `() => count`, which this function
// must first wrap in `{ return ...; }`).
func InjectLexicalScope(paramsAndArrow string, bodyText string, hasBlockBody bool, scopedIdents []string) string {
	if len(scopedIdents) == 0 {
		if hasBlockBody {
			return paramsAndArrow + " {" + bodyText + "}"
		}
		return paramsAndArrow + " " + bodyText
	}
	destructure := "const [" + strings.Join(scopedIdents, ", ") + "] = useLexicalScope();"
	if hasBlockBody {
		return paramsAndArrow + " {\n  " + destructure + bodyText + "\n}"
	}
	trimmed := strings.TrimSpace(bodyText)
	return paramsAndArrow + " {\n  " + destructure + "\n  return " + trimmed + ";\n}"
}
