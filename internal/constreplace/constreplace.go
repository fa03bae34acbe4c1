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

// Package constreplace implements the const replacer: a pre-traversal
// pass that folds references to isServer/isBrowser/isDev
// imported from @qwik.dev/core (or @qwik.dev/core/build) into boolean
// literals, leaving the bundler's dead-code elimination to remove the
// unreachable branch.
package constreplace

import (
	"strings"

	"bennypowers.dev/qoptimizer/internal/qrl"
	"bennypowers.dev/qoptimizer/internal/tsutil"
)

const (
	coreModule      = "@qwik.dev/core"
	coreBuildModule = "@qwik.dev/core/build"

	identIsServer  = "isServer"
	identIsBrowser = "isBrowser"
	identIsDev     = "isDev"
)

// Options carries the values each folded identifier resolves to.
type Options struct {
	IsServer bool
	Target   qrl.Target
}

// Binding is one import specifier the driver should check against Targets,
// gathered the same way identset/importtable collect import specifiers:
// (imported name, local name, source).
type Binding struct {
	ImportedName string
	LocalName    string
	Source       string
}

// Targets returns, for the fold-eligible bindings of source, the local name
// to fold and the literal text to fold it to. Bindings from sources other
// than @qwik.dev/core / @qwik.dev/core/build are ignored: folding only
// applies to imports "from @qwik.dev/core or @qwik.dev/core/build".
func Targets(bindings []Binding, opts Options, target qrl.Target) map[string]string {
	out := make(map[string]string)
	if target == qrl.TargetTest {
		// Skipped entirely when target is Test (preserves source for snapshots).
		return out
	}
	for _, b := range bindings {
		if b.Source != coreModule && b.Source != coreBuildModule {
			continue
		}
		switch b.ImportedName {
		case identIsServer:
			out[b.LocalName] = boolLit(opts.IsServer)
		case identIsBrowser:
			out[b.LocalName] = boolLit(!opts.IsServer)
		case identIsDev:
			out[b.LocalName] = boolLit(target == qrl.TargetDev || target == qrl.TargetTest)
		}
	}
	return out
}

func boolLit(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// IsFoldableReference reports whether an identifier whose parent node has
// kind parentKind is a reference (not a property name, declarator name, or
// JSX attribute name) eligible for folding. Folding never touches property names, declarators, or shadowed
// locals; shadowing itself is the driver's concern: it must only
// call Targets/rewrite a reference whose resolved binding (via its scope
// tracker) is the import, not a local shadow of the same name.
func IsFoldableReference(parentKind string) bool {
	switch parentKind {
	case tsutil.KindPropertyIdentifier,
		tsutil.KindVariableDeclarator,
		tsutil.KindJSXAttributeName,
		tsutil.KindShorthandPropertyIdentifierPattern:
		return false
	default:
		return true
	}
}

// StripImportSpecifier reports whether a specifier imported from the core or
// core/build module should be
// dropped from its ImportDeclaration once every reference to it has been
// folded to a literal.
func StripImportSpecifier(source, importedName string) bool {
	if source != coreModule && source != coreBuildModule {
		return false
	}
	switch importedName {
	case identIsServer, identIsBrowser, identIsDev:
		return true
	default:
		return false
	}
}

// stripNameSet is a convenience set for driver lookups.
var stripNameSet = map[string]bool{
	identIsServer:  true,
	identIsBrowser: true,
	identIsDev:     true,
}

// IsConstName reports whether name is one of the three foldable identifiers
// by spelling alone (used before the driver has resolved import bindings,
// e.g. to decide whether a property-name guard even applies).
func IsConstName(name string) bool {
	return stripNameSet[name]
}

// NormalizeSource strips a trailing slash a hand-written config source
// might carry, so comparisons against coreModule/coreBuildModule are exact
// string matches rather than prefix matches.
func NormalizeSource(source string) string {
	return strings.TrimSuffix(source, "/")
}
