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

package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// New builds a *viper.Viper with qoptimizer's defaults and config-file search
// path: a ".config/qoptimizer.yaml"
// searched from projectDir, overridable via --config, with AutomaticEnv on
// top so QOPTIMIZER_* environment variables win over the file.
func New(projectDir string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("qoptimizer")
	v.AddConfigPath(filepath.Join(projectDir, ".config"))
	v.AddConfigPath(projectDir)
	v.SetEnvPrefix("QOPTIMIZER")
	v.AutomaticEnv()

	v.SetDefault("mode", "dev")
	v.SetDefault("entryStrategy", "segment")
	v.SetDefault("minify", "none")
	v.SetDefault("transpileTs", true)
	v.SetDefault("transpileJsx", true)
	v.SetDefault("coreModule", "@qwik.dev/core")
	return v
}

// Load reads the config file (if present, ignored if absent — see the
// teacher's `if err := viper.ReadInConfig(); err == nil` tolerance) and
// unmarshals the merged result into a TransformModulesOptions, the way
// cmd/list.go does `viper.Unmarshal(&cfg)`.
func Load(v *viper.Viper) (TransformModulesOptions, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return TransformModulesOptions{}, fmt.Errorf("config: %w", err)
		}
	}
	var opts TransformModulesOptions
	if err := v.Unmarshal(&opts); err != nil {
		return TransformModulesOptions{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return opts, nil
}

// Validate enforces that src_dir is set for transform_fs invocations;
// transform_modules callers that supply Input directly are exempt, since
// they never touch the filesystem.
func (o TransformModulesOptions) Validate() error {
	if len(o.Input) == 0 && o.SrcDir == "" {
		return errors.New("config: srcDir is required when no inline input modules are supplied")
	}
	return nil
}
