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
	"path/filepath"

	"github.com/spf13/cobra"

	"bennypowers.dev/qoptimizer/internal/logging"
	"bennypowers.dev/qoptimizer/internal/platform"
	"bennypowers.dev/qoptimizer/pkg/api"
)

var transformOutDir string

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Run transform_fs over src-dir and write the rewritten modules",
	RunE: func(cmd *cobra.Command, args []string) error {
		clock := platform.NewRealTimeProvider()
		start := clock.Now()
		opts, err := loadOptions()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		fsys := platform.NewOSFileSystem()
		out, err := api.TransformFS(fsys, opts)
		if err != nil {
			logging.Error("transform_fs encountered errors: %v", err)
		}

		for _, d := range out.Diagnostics {
			if d.Category == "error" {
				logging.Error("%s: %s [%s]", d.File, d.Message, d.Code)
			} else {
				logging.Warning("%s: %s [%s]", d.File, d.Message, d.Code)
			}
		}

		if transformOutDir != "" {
			if err := writeModules(fsys, transformOutDir, out.Modules); err != nil {
				return err
			}
		}

		elapsed := clock.Now().Sub(start)
		logging.Success("Transformed %d module(s) in %s", len(out.Modules), elapsed)
		return err
	},
}

func writeModules(fsys platform.FileSystem, outDir string, modules []api.ModuleOutput) error {
	for _, m := range modules {
		dest := filepath.Join(outDir, m.Path)
		if err := fsys.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", filepath.Dir(dest), err)
		}
		if err := fsys.WriteFile(dest, []byte(m.Code), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dest, err)
		}
	}
	return nil
}

func init() {
	transformCmd.Flags().StringVar(&transformOutDir, "out-dir", "", "write transformed modules to this directory instead of only reporting diagnostics")
	rootCmd.AddCommand(transformCmd)
}
