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

// Package cmd is the cobra CLI driver: an external host, out of scope for
// this module itself, calling into pkg/api for everything else.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/qoptimizer/internal/config"
	"bennypowers.dev/qoptimizer/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "qoptimizer",
	Short: "Extract Qwik marker closures into lazily-loadable segment modules",
	Long: `qoptimizer walks your project's JS/TS sources and rewrites $()-suffixed
marker closures (component$, onClick$, useTask$, ...) into lazily-importable
segment modules, the way the Qwik optimizer does as part of a build.`,
}

var cfgV *viper.Viper

// Execute adds all child commands to the root command. Called once by
// main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().String("config", "", "config file (default: .config/qoptimizer.yaml)")
	rootCmd.PersistentFlags().String("src-dir", "", "directory to walk for source files")
	rootCmd.PersistentFlags().StringSlice("vendor-roots", nil, "additional roots to walk alongside src-dir")
	rootCmd.PersistentFlags().String("mode", "", "prod|lib|dev|test")
	rootCmd.PersistentFlags().String("entry-strategy", "", "inline|hoist|single|hook|segment|component|smart")
	rootCmd.PersistentFlags().String("scope", "", "optional hash scope")
	rootCmd.PersistentFlags().String("core-module", "", "module specifier segments import qrl()/_wrapProp/etc from")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging output")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress info-level logging output")

	cfgV = config.New(".")
	cfgV.BindPFlag("srcDir", rootCmd.PersistentFlags().Lookup("src-dir"))
	cfgV.BindPFlag("vendorRoots", rootCmd.PersistentFlags().Lookup("vendor-roots"))
	cfgV.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode"))
	cfgV.BindPFlag("entryStrategy", rootCmd.PersistentFlags().Lookup("entry-strategy"))
	cfgV.BindPFlag("scope", rootCmd.PersistentFlags().Lookup("scope"))
	cfgV.BindPFlag("coreModule", rootCmd.PersistentFlags().Lookup("core-module"))
	cfgV.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	cfgV.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		cfgV.SetConfigFile(cfgFile)
	}
	logging.SetDebugEnabled(cfgV.GetBool("verbose"))
	logging.SetQuietEnabled(cfgV.GetBool("quiet"))
}

// loadOptions decodes the merged config-file+flag+env TransformModulesOptions.
func loadOptions() (config.TransformModulesOptions, error) {
	return config.Load(cfgV)
}
