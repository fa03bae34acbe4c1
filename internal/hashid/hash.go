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

// Package hashid computes a stable, cross-platform symbol hash: a 64-bit
// hash over (scope, normalized rel_path, display_name), encoded as an
// 11-character identifier-safe suffix.
//
// hash/fnv's FNV-1a-64 is used rather than a language-default hasher (Go's
// maphash is explicitly randomized per-process and unsuitable here). No
// third-party hashing library appears anywhere in the example pack, so this
// is the one place the ambient stack falls back to the standard library —
// see DESIGN.md.
package hashid

import (
	"encoding/base64"
	"hash/fnv"
	"strings"
)

// Sum computes the raw 64-bit hash. scope may be empty. A single leading
// "./" on relPath is stripped before hashing.
func Sum(scope, relPath, displayName string) uint64 {
	h := fnv.New64a()
	if scope != "" {
		h.Write([]byte(scope))
	}
	h.Write([]byte(normalizeRelPath(relPath)))
	h.Write([]byte(displayName))
	return h.Sum64()
}

// normalizeRelPath strips a single leading "./".
func normalizeRelPath(relPath string) string {
	return strings.TrimPrefix(relPath, "./")
}

// Encode renders a raw 64-bit hash as a URL-safe base64, identifier-safe
// 11-character suffix: URL-safe base64 of the 8 hash bytes (11 chars, no
// padding) with '-' and '_' replaced by '0'.
func Encode(raw uint64) string {
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(raw >> (56 - 8*i))
	}
	enc := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(buf)
	return strings.NewReplacer("-", "0", "_", "0").Replace(enc)
}

// EncodedSum is the common case: compute and encode in one call.
func EncodedSum(scope, relPath, displayName string) (raw uint64, encoded string) {
	raw = Sum(scope, relPath, displayName)
	return raw, Encode(raw)
}
