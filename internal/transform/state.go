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

// Package transform is the main traversal driver: a single depth-first
// pass over one module's AST that owns the segment stack,
// scope stack, JSX stack, import table, hoisted-fn table, component list
// and diagnostic collector, and orchestrates every other internal package.
package transform

import (
	"strings"

	"bennypowers.dev/qoptimizer/internal/diagnostics"
	"bennypowers.dev/qoptimizer/internal/entrystrategy"
	"bennypowers.dev/qoptimizer/internal/importtable"
	"bennypowers.dev/qoptimizer/internal/inlinedfn"
	"bennypowers.dev/qoptimizer/internal/propsdestructure"
	"bennypowers.dev/qoptimizer/internal/qrl"
	"bennypowers.dev/qoptimizer/internal/scope"
	"bennypowers.dev/qoptimizer/internal/segment"
	"bennypowers.dev/qoptimizer/internal/tsutil"
)

// propsPlanFrame is a propsdestructure.Plan pushed while the driver is
// inside a component$'s destructured-prop arrow body, so JSX attribute
// values referencing a destructured local can be rewritten to
// _wrapProp(_rawProps, "<key>").
type propsPlanFrame = propsdestructure.Plan

// Options mirrors the subset of TransformModulesOptions a single-file
// traversal consults.
type Options struct {
	RelPath            string
	Scope              string
	CoreModule         string // defaults to "@qwik.dev/core"
	Target             qrl.Target
	EntryStrategy      entrystrategy.Policy
	IsServer           bool
	StripEventHandlers bool
	ExplicitExtensions bool
	PreserveFilenames  bool
}

func (o Options) coreModule() string {
	if o.CoreModule != "" {
		return o.CoreModule
	}
	return "@qwik.dev/core"
}

// Component is an emitted segment module plus its originating descriptor.
type Component struct {
	Id       qrl.Id
	Language string
	Code     string
	Qrl      qrl.Descriptor
	Entry    string
}

// loopFrame tracks one active .map(fn) callback's iteration variables.
type loopFrame struct {
	vars []string
}

// State is the traversal driver's owned mutable state.
type State struct {
	Source  []byte
	Options Options
	Stem    string // file name without extension, for display_name prefixing

	segmentStack []segment.Element
	segBuilder   *segment.Builder

	scopeTracker *scope.Tracker

	imports *importtable.Table
	hoister *inlinedfn.Hoister

	Components  []Component
	Diagnostics *diagnostics.Collector

	contextStack []string

	loopDepth     int
	iterVarStack  []loopFrame

	// markerDepth counts actively-recording QRL segments the traversal is
	// currently inside — illegal-code detection only strips function/class
	// declarations found inside a QRL scope.
	markerDepth int

	skipTransformNames map[string]bool

	// removedSymbols is the "removed illegal code" set: top-level
	// function/class declarations stripped from an actively recording QRL
	// segment.
	removedSymbols map[string]bool

	// exportedNames is this module's export table: every local binding name
	// it exports, whether via `export const`/`export function`/`export
	// class` or a bare `export { name }` specifier.
	exportedNames map[string]bool

	edits []tsutil.Edit

	componentHashCounter map[string]int // keyed by innermost context name, for StableKey

	propsPlanStack []*propsPlanFrame

	declPushed []bool

	// jsxMark tracks, per open JSX element/fragment, the Components length
	// at entry, so exitJSXElement can tell which extractions happened
	// inside its own attributes/children, for the "q:ps" prop.
	jsxMark []int
}

func NewState(source []byte, stem string, opts Options) *State {
	imports := importtable.NewTable()
	return &State{
		Source:               source,
		Options:              opts,
		Stem:                 stem,
		segBuilder:           segment.NewBuilder(),
		scopeTracker:         scope.NewTracker(),
		imports:              imports,
		hoister:              inlinedfn.NewHoister(),
		Diagnostics:          diagnostics.NewCollector(),
		skipTransformNames:   imports.SkipTransformNames,
		removedSymbols:       make(map[string]bool),
		exportedNames:        make(map[string]bool),
		componentHashCounter: make(map[string]int),
	}
}

func (s *State) recordExport(name string) { s.exportedNames[name] = true }

func (s *State) pushSegment(e segment.Element) { s.segmentStack = append(s.segmentStack, e) }
func (s *State) popSegment() {
	if len(s.segmentStack) > 0 {
		s.segmentStack = s.segmentStack[:len(s.segmentStack)-1]
	}
}

func (s *State) displayName() string {
	return s.Stem + "_" + strings.TrimPrefix(segment.DisplayName(s.segmentStack), "_")
}

func (s *State) pushContext(name string) { s.contextStack = append(s.contextStack, name) }
func (s *State) popContext() {
	if len(s.contextStack) > 0 {
		s.contextStack = s.contextStack[:len(s.contextStack)-1]
	}
}

func (s *State) pushJSXMark() { s.jsxMark = append(s.jsxMark, len(s.Components)) }
func (s *State) popJSXMark() int {
	if len(s.jsxMark) == 0 {
		return len(s.Components)
	}
	m := s.jsxMark[len(s.jsxMark)-1]
	s.jsxMark = s.jsxMark[:len(s.jsxMark)-1]
	return m
}

func (s *State) currentIterationVars() []string {
	if len(s.iterVarStack) == 0 {
		return nil
	}
	return s.iterVarStack[len(s.iterVarStack)-1].vars
}
