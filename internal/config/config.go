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

// Package config decodes TransformModulesOptions the way a layered CLI
// config loader does: viper merges a project config file over
// defaults, cobra flags are bound on top via viper.BindPFlag, and the
// merged result is unmarshaled into a plain struct.
package config

import (
	"strings"

	"bennypowers.dev/qoptimizer/internal/entrystrategy"
	"bennypowers.dev/qoptimizer/internal/qrl"
)

// InputModule is one in-memory source supplied directly to transform_modules.
type InputModule struct {
	Path    string `mapstructure:"path" yaml:"path"`
	DevPath string `mapstructure:"devPath" yaml:"devPath"`
	Code    string `mapstructure:"code" yaml:"code"`
}

// Minify selects the output-minification mode.
type Minify int

const (
	MinifyNone Minify = iota
	MinifySimplify
)

// ParseMinify is case-insensitive, matching the other enum fields' parsing
// style (qrl.ParseTarget, entrystrategy.ParsePolicy): "simplify" selects
// MinifySimplify and any other value MinifyNone.
func ParseMinify(s string) Minify {
	if strings.EqualFold(strings.TrimSpace(s), "simplify") {
		return MinifySimplify
	}
	return MinifyNone
}

// TransformModulesOptions is decoded from a project config file plus CLI
// flags plus environment variables.
type TransformModulesOptions struct {
	SrcDir  string `mapstructure:"srcDir" yaml:"srcDir"`
	RootDir string `mapstructure:"rootDir" yaml:"rootDir"`

	// VendorRoots are additional roots transform_fs walks alongside SrcDir.
	VendorRoots []string `mapstructure:"vendorRoots" yaml:"vendorRoots"`

	Input []InputModule `mapstructure:"input" yaml:"input"`

	SourceMaps bool `mapstructure:"sourceMaps" yaml:"sourceMaps"`

	Minify string `mapstructure:"minify" yaml:"minify"`

	TranspileTS        bool `mapstructure:"transpileTs" yaml:"transpileTs"`
	TranspileJSX        bool `mapstructure:"transpileJsx" yaml:"transpileJsx"`
	PreserveFilenames  bool `mapstructure:"preserveFilenames" yaml:"preserveFilenames"`
	ExplicitExtensions bool `mapstructure:"explicitExtensions" yaml:"explicitExtensions"`

	EntryStrategy string `mapstructure:"entryStrategy" yaml:"entryStrategy"`
	Mode          string `mapstructure:"mode" yaml:"mode"`

	Scope      string `mapstructure:"scope" yaml:"scope"`
	CoreModule string `mapstructure:"coreModule" yaml:"coreModule"`

	StripExports       []string `mapstructure:"stripExports" yaml:"stripExports"`
	StripCtxName       []string `mapstructure:"stripCtxName" yaml:"stripCtxName"`
	StripEventHandlers bool     `mapstructure:"stripEventHandlers" yaml:"stripEventHandlers"`
	RegCtxName         []string `mapstructure:"regCtxName" yaml:"regCtxName"`

	IsServer *bool `mapstructure:"isServer" yaml:"isServer"`

	// Verbose enables debug-level logging (ambient, a root-level flag).
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`
}

// Clone deep-copies the slice/pointer fields so callers can mutate a
// copy without aliasing the original config.
func (o *TransformModulesOptions) Clone() *TransformModulesOptions {
	if o == nil {
		return nil
	}
	clone := *o
	clone.VendorRoots = append([]string(nil), o.VendorRoots...)
	clone.Input = append([]InputModule(nil), o.Input...)
	clone.StripExports = append([]string(nil), o.StripExports...)
	clone.StripCtxName = append([]string(nil), o.StripCtxName...)
	clone.RegCtxName = append([]string(nil), o.RegCtxName...)
	if o.IsServer != nil {
		v := *o.IsServer
		clone.IsServer = &v
	}
	return &clone
}

// Target parses Mode into the internal/qrl Target enum.
func (o TransformModulesOptions) Target() qrl.Target {
	return qrl.ParseTarget(o.Mode)
}

// Policy parses EntryStrategy into the internal/entrystrategy Policy enum.
func (o TransformModulesOptions) Policy() entrystrategy.Policy {
	return entrystrategy.ParsePolicy(o.EntryStrategy)
}

// MinifyMode parses Minify into the Minify enum.
func (o TransformModulesOptions) MinifyMode() Minify {
	return ParseMinify(o.Minify)
}

// ResolvedIsServer reports the effective is_server flag: the explicit value
// when set, otherwise false. Mode plays no part in it.
func (o TransformModulesOptions) ResolvedIsServer() bool {
	if o.IsServer != nil {
		return *o.IsServer
	}
	return false
}

// DefaultExtensions is transform_fs's default file-extension filter.
var DefaultExtensions = []string{"ts", "tsx", "js", "jsx", "mjs", "mts"}
