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

// Package discovery implements transform_fs's input discovery: walking
// src_dir and vendor_roots, selecting files by extension, the way the
// teacher's workspace package walks a project with doublestar globs.
package discovery

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	DS "github.com/bmatcuk/doublestar"

	"bennypowers.dev/qoptimizer/internal/platform"
)

// defaultExcludePatterns excludes test/declaration files a real transform
// run never wants to touch.
var defaultExcludePatterns = []string{
	"**/*.d.ts",
	"**/*.test.ts",
	"**/*.test.tsx",
	"**/node_modules/**",
}

// Discovered is one file found by Walk, relative to its root.
type Discovered struct {
	// Root is the root directory (src_dir or a vendor_roots entry) this file
	// was discovered under.
	Root string
	// RelPath is the file path relative to Root, forward-slash separated.
	RelPath string
}

// matchesAnyPattern is doublestar.PathMatch tolerant of pattern errors
// (treated as no match).
func matchesAnyPattern(file string, patterns []string) bool {
	for _, pattern := range patterns {
		if match, err := DS.PathMatch(pattern, file); err == nil && match {
			return true
		}
	}
	return false
}

func hasRecognizedExtension(relPath string, extensions []string) bool {
	ext := strings.TrimPrefix(filepath.Ext(relPath), ".")
	for _, want := range extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// Walk discovers every file under srcDir and each of vendorRoots whose
// extension is in extensions and which is not excluded by exclude or the
// default exclude patterns, in deterministic (root, then path) order.
func Walk(fsys platform.FileSystem, srcDir string, vendorRoots []string, extensions []string, exclude []string) ([]Discovered, error) {
	if len(extensions) == 0 {
		extensions = []string{"ts", "tsx", "js", "jsx", "mjs", "mts"}
	}
	patterns := append(append([]string{}, defaultExcludePatterns...), exclude...)

	roots := append([]string{srcDir}, vendorRoots...)
	var out []Discovered
	for _, root := range roots {
		if root == "" {
			continue
		}
		found, err := walkRoot(fsys, root, extensions, patterns)
		if err != nil {
			return nil, fmt.Errorf("discovery: walk %s: %w", root, err)
		}
		out = append(out, found...)
	}
	return out, nil
}

func walkRoot(fsys platform.FileSystem, root string, extensions []string, patterns []string) ([]Discovered, error) {
	var out []Discovered
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			rel, err := filepath.Rel(root, full)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if entry.IsDir() {
				if matchesAnyPattern(rel+"/", patterns) {
					continue
				}
				if err := walk(full); err != nil {
					return err
				}
				continue
			}
			if matchesAnyPattern(rel, patterns) {
				continue
			}
			if !hasRecognizedExtension(rel, extensions) {
				continue
			}
			out = append(out, Discovered{Root: root, RelPath: rel})
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Root != out[j].Root {
			return out[i].Root < out[j].Root
		}
		return out[i].RelPath < out[j].RelPath
	})
	return out, nil
}
