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

// Package qrl implements the Id and QRL-descriptor data model and the
// QRL call-expression rendering.
package qrl

import (
	"strings"

	"bennypowers.dev/qoptimizer/internal/hashid"
)

// Target selects Dev/Test/Prod/Lib symbol-naming behavior.
type Target int

const (
	TargetDev Target = iota
	TargetTest
	TargetProd
	TargetLib
)

// ParseTarget is alias-tolerant and case-insensitive.
func ParseTarget(s string) Target {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "test":
		return TargetTest
	case "prod", "production":
		return TargetProd
	case "lib", "library":
		return TargetLib
	default:
		return TargetDev
	}
}

// Id is the per-extraction identity record.
type Id struct {
	DisplayName   string
	SymbolName    string
	LocalFileName string
	Hash          uint64
	SortOrder     uint64
	Scope         string
}

// NewId computes an Id: symbol_name is
// display_name + "_" + hash in Dev/Test, "s_" + hash in Prod/Lib;
// local_file_name is normalized_rel_path + "_" + symbol_name; sort_order is
// the raw 64-bit hash before encoding.
func NewId(relPath, displayName, scope string, target Target) Id {
	raw, encoded := hashid.EncodedSum(scope, relPath, displayName)

	var symbolName string
	switch target {
	case TargetProd, TargetLib:
		symbolName = "s_" + encoded
	default:
		symbolName = displayName + "_" + encoded
	}

	normalized := strings.TrimPrefix(relPath, "./")
	localFileName := normalized + "_" + symbolName

	return Id{
		DisplayName:   displayName,
		SymbolName:    symbolName,
		LocalFileName: localFileName,
		Hash:          raw,
		SortOrder:     raw,
		Scope:         scope,
	}
}
