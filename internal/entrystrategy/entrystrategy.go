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

// Package entrystrategy implements the pure get_entry_for_sym policy
// dispatch, which computes bundler grouping hints. It does not bundle
// anything itself — that remains the bundler's job.
package entrystrategy

import "strings"

// Policy is the closed set of entry-strategy variants a transform run
// picks from (the entry_strategy config field).
type Policy int

const (
	Inline Policy = iota
	Hoist
	Single
	Hook
	Segment
	Component
	Smart
)

// ParsePolicy is case-insensitive and ignores surrounding whitespace,
// matching the entry_strategy config values; any other value selects Inline.
func ParsePolicy(s string) Policy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hoist":
		return Hoist
	case "single":
		return Single
	case "hook":
		return Hook
	case "component":
		return Component
	case "smart":
		return Smart
	case "segment":
		return Segment
	default:
		return Inline
	}
}

// SegmentData is the minimal slice of a QrlComponent's data get_entry_for_sym
// needs: where it was extracted from, and whether it carries enclosing
// context (e.g. a component$'s displayName chain beyond the file origin).
type SegmentData struct {
	Origin       string // relative path the segment was extracted from, no extension
	HasContext   bool
	FirstContext string // first element of context_stack, used by Component/Smart
}

// GetEntryForSym is get_entry_for_sym: a pure function from (policy,
// context stack, segment data) to an optional
// grouping key. An empty returned string means "no grouping: stands alone".
func GetEntryForSym(policy Policy, contextStack []string, data SegmentData) (string, bool) {
	switch policy {
	case Inline, Single:
		return "entry_segments", true
	case Segment, Hook:
		return "", false
	case Hoist:
		// Hoist is treated as Inline for grouping purposes.
		return "entry_segments", true
	case Component:
		return componentEntry(contextStack, data), true
	case Smart:
		if data.HasContext || len(contextStack) > 0 {
			return componentEntry(contextStack, data), true
		}
		return "", false
	default:
		return "", false
	}
}

func componentEntry(contextStack []string, data SegmentData) string {
	first := data.FirstContext
	if first == "" && len(contextStack) > 0 {
		first = contextStack[0]
	}
	return data.Origin + "_entry_" + first
}
