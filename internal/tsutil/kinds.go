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

// Node-kind constants for the grammar nodes the traversal driver dispatches
// on. These are tree-sitter-typescript's published grammar node names
// (https://github.com/tree-sitter/tree-sitter-typescript); collecting them
// here keeps internal/transform's switch statements free of string
// literals scattered across call sites, instead centralizing the
// comparison set for maintainability.
const (
	KindProgram    = "program"
	KindComment    = "comment"

	KindImportStatement  = "import_statement"
	KindImportClause     = "import_clause"
	KindNamedImports     = "named_imports"
	KindImportSpecifier  = "import_specifier"
	KindNamespaceImport  = "namespace_import"
	KindString           = "string"
	KindStringFragment   = "string_fragment"

	KindExportStatement  = "export_statement"
	KindExportClause     = "export_clause"
	KindExportSpecifier  = "export_specifier"

	KindCallExpression = "call_expression"
	KindArguments      = "arguments"
	KindNewExpression  = "new_expression"

	KindIdentifier         = "identifier"
	KindPropertyIdentifier = "property_identifier"
	KindShorthandPropertyIdentifierPattern = "shorthand_property_identifier_pattern"
	KindMemberExpression   = "member_expression"
	KindSubscriptExpression = "subscript_expression"

	KindArrowFunction      = "arrow_function"
	KindFunctionDeclaration = "function_declaration"
	KindFunctionExpression  = "function_expression"
	KindGeneratorFunctionDeclaration = "generator_function_declaration"
	KindMethodDefinition    = "method_definition"

	KindClassDeclaration = "class_declaration"
	KindClass            = "class"

	KindVariableDeclaration = "variable_declaration"
	KindLexicalDeclaration  = "lexical_declaration"
	KindVariableDeclarator  = "variable_declarator"

	KindStatementBlock     = "statement_block"
	KindReturnStatement    = "return_statement"
	KindExpressionStatement = "expression_statement"
	KindIfStatement        = "if_statement"
	KindParenthesizedExpression = "parenthesized_expression"
	KindTryStatement       = "try_statement"
	KindClassBody          = "class_body"

	KindObjectPattern = "object_pattern"
	KindArrayPattern  = "array_pattern"
	KindRestPattern   = "rest_pattern"
	KindPairPattern   = "pair_pattern"
	KindAssignmentPattern = "assignment_pattern"

	KindFormalParameters  = "formal_parameters"
	KindRequiredParameter = "required_parameter"
	KindOptionalParameter = "optional_parameter"

	KindObject       = "object"
	KindPair         = "pair"
	KindArray        = "array"
	KindSpreadElement = "spread_element"

	KindTemplateString = "template_string"
	KindNumber         = "number"
	KindTrue           = "true"
	KindFalse          = "false"
	KindNull           = "null"
	KindUndefined      = "undefined"

	KindTypeAnnotation = "type_annotation"
	KindAsExpression   = "as_expression"

	KindJSXElement           = "jsx_element"
	KindJSXSelfClosingElement = "jsx_self_closing_element"
	KindJSXOpeningElement    = "jsx_opening_element"
	KindJSXClosingElement    = "jsx_closing_element"
	KindJSXFragment          = "jsx_fragment"
	KindJSXAttribute         = "jsx_attribute"
	KindJSXExpression        = "jsx_expression"
	KindJSXText              = "jsx_text"
	KindJSXNamespaceName     = "jsx_namespace_name"
	KindJSXAttributeName     = "jsx_attribute_name"
	KindJSXSpreadAttribute   = "jsx_spread_attribute"

	KindObjectAssignmentPattern = "object_assignment_pattern"
)
