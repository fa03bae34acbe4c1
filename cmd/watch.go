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

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bennypowers.dev/qoptimizer/internal/logging"
	"bennypowers.dev/qoptimizer/internal/platform"
	"bennypowers.dev/qoptimizer/internal/watch"
	"bennypowers.dev/qoptimizer/pkg/api"
)

var watchOutDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch src-dir and re-run the transform on every change",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		fsys := platform.NewOSFileSystem()
		if n, err := watch.EnsureDiscovered(fsys, opts); err != nil {
			return fmt.Errorf("discover src-dir: %w", err)
		} else if n == 0 {
			logging.Warning("no source files found under %s", opts.SrcDir)
		}

		fw, err := platform.NewFSNotifyFileWatcher()
		if err != nil {
			return fmt.Errorf("start file watcher: %w", err)
		}

		run := func() (map[string][32]byte, error) {
			out, err := api.TransformFS(fsys, opts)
			if err != nil {
				return nil, err
			}
			for _, d := range out.Diagnostics {
				if d.Category == "error" {
					logging.Error("%s: %s [%s]", d.File, d.Message, d.Code)
				} else {
					logging.Warning("%s: %s [%s]", d.File, d.Message, d.Code)
				}
			}
			if watchOutDir != "" {
				if err := writeModules(fsys, watchOutDir, out.Modules); err != nil {
					return nil, err
				}
			}
			byPath := make(map[string]string, len(out.Modules))
			for _, m := range out.Modules {
				byPath[m.Path] = m.Code
			}
			return watch.HashModules(byPath), nil
		}

		w := watch.New(fw, watch.DiscoverRoots(opts), run)
		if err := w.Start(); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer w.Stop()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logging.Info("stopping watch")
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchOutDir, "out-dir", "", "write transformed modules to this directory on every re-transform")
	rootCmd.AddCommand(watchCmd)
}
