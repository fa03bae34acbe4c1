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

// Package propsdestructure implements the props-destructuring transform:
// when a component$ call's first-argument arrow destructures its first
// parameter, the
// destructured locals are replaced by _rawProps/_wrapProp accesses and any
// rest element becomes a _restProps(...) call.
package propsdestructure

import "strings"

// Property is one destructured binding: `{key: binding}` or the shorthand
// `{key}` (binding == key).
type Property struct {
	Key     string
	Binding string
}

// Plan is the result of analyzing a component$ arrow's first parameter.
type Plan struct {
	// Identifiers maps each destructured local name to the prop key it
	// stands for.
	Identifiers map[string]string
	// OmitKeys lists the prop keys consumed by destructuring, in
	// declaration order, for the _restProps(...) omit-list.
	OmitKeys []string
	// RestID is the rest element's local binding name, or "" if none.
	RestID string
}

// Analyze builds a Plan from the first parameter's object-pattern
// properties and optional rest element local name. Returns ok=false if
// there is nothing to destructure (props list empty and no rest).
func Analyze(props []Property, restLocal string) (Plan, bool) {
	if len(props) == 0 && restLocal == "" {
		return Plan{}, false
	}
	plan := Plan{Identifiers: make(map[string]string, len(props)), RestID: restLocal}
	for _, p := range props {
		plan.Identifiers[p.Binding] = p.Key
		plan.OmitKeys = append(plan.OmitKeys, p.Key)
	}
	return plan, true
}

// RestStatement renders the `const <rest_id> = _restProps(_rawProps, [...]);`
// statement prepended to the function body when a rest element is present,
// registering the need for the _restProps import (the caller does the
// registration via importtable; this function is pure text rendering).
func (p Plan) RestStatement() string {
	if p.RestID == "" {
		return ""
	}
	quoted := make([]string, len(p.OmitKeys))
	for i, k := range p.OmitKeys {
		quoted[i] = `"` + k + `"`
	}
	return "const " + p.RestID + " = _restProps(_rawProps, [" + strings.Join(quoted, ", ") + "]);"
}

// WrapPropExpr renders the _wrapProp(...) replacement for a JSX attribute
// value that references a registered destructured local.
func (p Plan) WrapPropExpr(localName string) (string, bool) {
	key, ok := p.Identifiers[localName]
	if !ok {
		return "", false
	}
	return `_wrapProp(_rawProps, "` + key + `")`, true
}

// WrapPropObjectExpr renders the _wrapProp(...) replacement for a `.value`
// member access on any expression, independent of whether the object is a
// registered destructured local.
func WrapPropObjectExpr(objectSource string) string {
	return "_wrapProp(" + objectSource + ")"
}

// InjectBody turns a concise-or-block arrow body into the block body
// required once a rest statement must be prepended, converting an
// expression body into a block-with-return as needed.
func InjectBody(restStatement string, bodyText string, hasBlockBody bool) string {
	if restStatement == "" {
		if hasBlockBody {
			return "{" + bodyText + "}"
		}
		return bodyText
	}
	if hasBlockBody {
		return "{\n  " + restStatement + bodyText + "\n}"
	}
	return "{\n  " + restStatement + "\n  return " + strings.TrimSpace(bodyText) + ";\n}"
}
