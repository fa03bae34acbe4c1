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

// Visitor receives enter/exit callbacks for every node in a depth-first
// walk, matching the enter/exit-hook shape the main traversal driver
// expects. Enter returns false to skip descending into the
// node's children (exit is still called for that node).
type Visitor interface {
	Enter(n *Node) bool
	Exit(n *Node)
}

// Walk performs a single depth-first traversal: synchronous,
// single-threaded, with a child's modifications
// visible by the time the parent's exit hook runs.
func Walk(n *Node, v Visitor) {
	if n == nil {
		return
	}
	descend := v.Enter(n)
	if descend {
		cursor := n.Walk()
		defer cursor.Close()
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			child := n.Child(i)
			if child != nil {
				Walk(child, v)
			}
		}
	}
	v.Exit(n)
}

// NamedChildren returns every named child of n, skipping anonymous tokens
// (punctuation, keywords) the way the identifier collector and scope
// tracker need to (they only ever care about named grammar productions).
func NamedChildren(n *Node) []*Node {
	if n == nil {
		return nil
	}
	count := n.NamedChildCount()
	out := make([]*Node, 0, count)
	for i := uint(0); i < count; i++ {
		child := n.NamedChild(i)
		if child != nil {
			out = append(out, child)
		}
	}
	return out
}

// Text returns the source text spanned by n.
func Text(n *Node, source []byte) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(source)
}

// Find returns the first named child whose Kind matches any of kinds.
func Find(n *Node, kinds ...string) *Node {
	for _, c := range NamedChildren(n) {
		for _, k := range kinds {
			if c.Kind() == k {
				return c
			}
		}
	}
	return nil
}

// IsAny reports whether n's Kind is one of kinds.
func IsAny(n *Node, kinds ...string) bool {
	if n == nil {
		return false
	}
	k := n.Kind()
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}
