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

// Package watch implements incremental re-transformation on source change:
// an fsnotify watcher
// over the discovered source tree, debounced, re-running transform_fs and
// reporting the modules whose hash actually changed.
package watch

import (
	"crypto/sha256"
	"sync"
	"time"

	"bennypowers.dev/qoptimizer/internal/config"
	"bennypowers.dev/qoptimizer/internal/discovery"
	"bennypowers.dev/qoptimizer/internal/logging"
	"bennypowers.dev/qoptimizer/internal/platform"
)

// debounceWindow debounces rapid
// successive writes to the same file (editors often save twice) collapse
// into a single re-transform.
const debounceWindow = 150 * time.Millisecond

// RunFunc re-runs transform_fs (or transform_modules) and reports per-module
// content hashes, keyed by output path.
type RunFunc func() (map[string][32]byte, error)

// Watcher implements platform.TransformWatcher over an fsnotify-backed
// platform.FileWatcher, debouncing bursts of filesystem events into a
// single Run call per settled burst.
type Watcher struct {
	fw    platform.FileWatcher
	roots []string
	run   RunFunc

	mu        sync.Mutex
	lastHash  map[string][32]byte
	done      chan struct{}
	running   bool
	debounce  *time.Timer
	debounceC chan struct{}
}

// New builds a Watcher over the given roots (src_dir plus vendor_roots),
// invoking run after each debounced burst of changes.
func New(fw platform.FileWatcher, roots []string, run RunFunc) *Watcher {
	return &Watcher{
		fw:        fw,
		roots:     roots,
		run:       run,
		lastHash:  make(map[string][32]byte),
		done:      make(chan struct{}),
		debounceC: make(chan struct{}, 1),
	}
}

// Start implements platform.TransformWatcher: runs an initial transform,
// watches every root directory, and re-transforms on each debounced burst
// of file events until Stop is called.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	for _, root := range w.roots {
		if err := w.fw.Add(root); err != nil {
			logging.Warning("watch: failed to watch %s: %v", root, err)
		}
	}

	if err := w.runOnce("initial"); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop implements platform.TransformWatcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()
	close(w.done)
	return w.fw.Close()
}

// IsRunning implements platform.TransformWatcher.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) loop() {
	var timer *time.Timer
	for {
		select {
		case <-w.done:
			return
		case _, ok := <-w.fw.Events():
			if !ok {
				return
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, func() {
				if err := w.runOnce("change"); err != nil {
					logging.Error("watch: re-transform failed: %v", err)
				}
			})
		case err, ok := <-w.fw.Errors():
			if !ok {
				return
			}
			logging.Warning("watch: file watcher error: %v", err)
		}
	}
}

func (w *Watcher) runOnce(reason string) error {
	hashes, err := w.run()
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	changed := 0
	for path, h := range hashes {
		if prev, ok := w.lastHash[path]; !ok || prev != h {
			changed++
		}
	}
	w.lastHash = hashes
	if reason == "initial" {
		logging.Success("Generated %d module(s)", len(hashes))
	} else if changed > 0 {
		logging.Info("Re-transformed: %d module(s) changed", changed)
	}
	return nil
}

// HashModules is a small helper a RunFunc can use to turn a path→code map
// into the hash map Watcher diffs against.
func HashModules(codeByPath map[string]string) map[string][32]byte {
	out := make(map[string][32]byte, len(codeByPath))
	for path, code := range codeByPath {
		out[path] = sha256.Sum256([]byte(code))
	}
	return out
}

// DiscoverRoots resolves the directories a Watcher should add to its
// fsnotify watch set: src_dir plus every configured vendor root.
func DiscoverRoots(opts config.TransformModulesOptions) []string {
	roots := []string{opts.SrcDir}
	roots = append(roots, opts.VendorRoots...)
	return roots
}

// EnsureDiscovered is a guard used by cmd/watch.go before starting a
// Watcher: a src_dir with no matching files is almost certainly a
// misconfiguration, not an empty project.
func EnsureDiscovered(fsys platform.FileSystem, opts config.TransformModulesOptions) (int, error) {
	found, err := discovery.Walk(fsys, opts.SrcDir, opts.VendorRoots, config.DefaultExtensions, nil)
	if err != nil {
		return 0, err
	}
	return len(found), nil
}
