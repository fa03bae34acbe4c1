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

// Package api implements the external interfaces: transform_modules
// and transform_fs, the only entry points a host (CLI, native-binding shim,
// or test) calls into this module through.
package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"bennypowers.dev/qoptimizer/internal/config"
	"bennypowers.dev/qoptimizer/internal/discovery"
	"bennypowers.dev/qoptimizer/internal/platform"
	"bennypowers.dev/qoptimizer/internal/transform"
)

// SegmentAnalysis is the SegmentAnalysis record, surfaced per
// emitted segment module.
type SegmentAnalysis struct {
	Origin            string
	Name              string
	Entry             string
	DisplayName       string
	Hash              uint64
	CanonicalFilename string
	Path              string
	Extension         string
	Parent            string
	CtxKind           string
	CtxName           string
	Captures          bool
	Loc               [2]uint32
}

// ModuleOutput is one emitted module record of
// TransformOutput.modules.
type ModuleOutput struct {
	Path    string
	Code    string
	Map     *string
	Segment *SegmentAnalysis
	IsEntry bool
	Order   uint64
}

// DiagnosticOutput is the TransformOutput.diagnostics shape.
type DiagnosticOutput struct {
	Category    string
	Code        string
	File        string
	Message     string
	Highlights  []string
	Suggestions []string
	Scope       string
}

// TransformOutput is the value both
// TransformModules and TransformFS return.
type TransformOutput struct {
	Modules      []ModuleOutput
	Diagnostics  []DiagnosticOutput
	IsTypeScript bool
	IsJSX        bool
}

// TransformModules is transform_modules(config): run
// the single-file pipeline over every config.Input entry and assemble the
// combined host-facing output (the original source file plus every segment
// module it produced).
func TransformModules(opts config.TransformModulesOptions) (TransformOutput, error) {
	if len(opts.Input) == 0 {
		return TransformOutput{}, errors.New("api: transform_modules requires at least one input module")
	}
	var out TransformOutput
	var errs error
	for order, in := range opts.Input {
		result, err := transformOne(opts, in.Path, []byte(in.Code), uint64(order))
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		out.Modules = append(out.Modules, result.Modules...)
		out.Diagnostics = append(out.Diagnostics, result.Diagnostics...)
		out.IsTypeScript = out.IsTypeScript || result.IsTypeScript
		out.IsJSX = out.IsJSX || result.IsJSX
	}
	sortModules(out.Modules)
	return out, errs
}

// TransformFS is transform_fs(config): discover inputs
// by walking src_dir and vendor_roots (internal/discovery), read each file,
// and run the same per-file pipeline as TransformModules.
func TransformFS(fsys platform.FileSystem, opts config.TransformModulesOptions) (TransformOutput, error) {
	if err := opts.Validate(); err != nil {
		return TransformOutput{}, err
	}
	found, err := discovery.Walk(fsys, opts.SrcDir, opts.VendorRoots, config.DefaultExtensions, nil)
	if err != nil {
		return TransformOutput{}, fmt.Errorf("api: transform_fs: %w", err)
	}

	var out TransformOutput
	var errs error
	for order, d := range found {
		full := d.Root + "/" + d.RelPath
		code, err := fsys.ReadFile(full)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("api: read %s: %w", full, err))
			continue
		}
		result, err := transformOne(opts, d.RelPath, code, uint64(order))
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		out.Modules = append(out.Modules, result.Modules...)
		out.Diagnostics = append(out.Diagnostics, result.Diagnostics...)
		out.IsTypeScript = out.IsTypeScript || result.IsTypeScript
		out.IsJSX = out.IsJSX || result.IsJSX
	}
	sortModules(out.Modules)
	return out, errs
}

func transformOne(opts config.TransformModulesOptions, relPath string, code []byte, order uint64) (TransformOutput, error) {
	transformOpts := transform.Options{
		RelPath:            relPath,
		Scope:              opts.Scope,
		CoreModule:         opts.CoreModule,
		Target:             opts.Target(),
		EntryStrategy:      opts.Policy(),
		IsServer:           opts.ResolvedIsServer(),
		StripEventHandlers: opts.StripEventHandlers,
		ExplicitExtensions: opts.ExplicitExtensions,
		PreserveFilenames:  opts.PreserveFilenames,
	}

	result, err := transform.Transform(code, transformOpts)
	if err != nil {
		return TransformOutput{}, err
	}

	var out TransformOutput
	out.IsTypeScript = result.IsTypeScript
	out.IsJSX = result.IsJSX

	out.Modules = append(out.Modules, ModuleOutput{
		Path:    relPath,
		Code:    result.Code,
		IsEntry: true,
		Order:   order,
	})

	for _, comp := range result.Components {
		out.Modules = append(out.Modules, ModuleOutput{
			Path: segmentFilename(comp, opts),
			Code: comp.Code,
			Segment: &SegmentAnalysis{
				Origin:            strings.TrimSuffix(relPath, fileExt(relPath)),
				Name:              comp.Id.SymbolName,
				Entry:             comp.Entry,
				DisplayName:       comp.Id.DisplayName,
				Hash:              comp.Id.Hash,
				CanonicalFilename: comp.Id.LocalFileName,
				Path:              segmentFilename(comp, opts),
				Extension:         segmentExtension(comp),
				CtxKind:           ctxKindOf(comp),
				Captures:          len(comp.Qrl.ScopedIdents) > 0,
			},
			Order: comp.Id.SortOrder,
		})
	}

	for _, d := range result.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, DiagnosticOutput{
			Category:    string(d.Category),
			Code:        string(d.Code),
			File:        d.File,
			Message:     d.Message,
			Suggestions: d.Suggestions,
			Scope:       d.Scope,
		})
	}

	return out, nil
}

func segmentExtension(comp transform.Component) string {
	if comp.Language == "TS" {
		return ".ts"
	}
	return ".js"
}

func segmentFilename(comp transform.Component, opts config.TransformModulesOptions) string {
	if opts.ExplicitExtensions {
		return comp.Id.LocalFileName + segmentExtension(comp)
	}
	return comp.Id.LocalFileName
}

// ctxKindOf classifies a segment's context kind, one of
// {function, eventHandler, jsxProp}. Event-handler and
// jsxProp classification happens during the JSX attribute walk
// (internal/jsxtransform); this single-file driver does not yet thread
// that classification back onto Component, so every segment currently
// reports "function" unless its display name carries an "on"-prefixed
// event-handler marker.
func ctxKindOf(comp transform.Component) string {
	if strings.Contains(comp.Id.DisplayName, "_on") {
		return "eventHandler"
	}
	return "function"
}

func fileExt(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i:]
	}
	return ""
}

func sortModules(modules []ModuleOutput) {
	sort.SliceStable(modules, func(i, j int) bool {
		if modules[i].IsEntry != modules[j].IsEntry {
			return modules[i].IsEntry
		}
		return modules[i].Order < modules[j].Order
	})
}
