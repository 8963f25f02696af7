// Copyright 2025 The Nuq Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package engine implements the engine-state core: append-only identity
// tables for files, variables, declarations, and blocks; scope frames with
// use/hide visibility; a committed PermanentState; and a transactional
// StateWorkingSet/StateDelta used by the parser to accumulate new
// declarations and scope edits that are either merged into PermanentState
// or discarded.
package engine

// FileId, VarId, DeclId and BlockId are dense, non-negative, append-only
// identifiers: each equals the index of its payload in the corresponding
// identity table. They are disjoint per kind (a FileId and a VarId with the
// same numeric value refer to unrelated entries) and are never reused or
// renumbered within a session.
type (
	FileId  int
	VarId   int
	DeclId  int
	BlockId int
)

// Reserved VarIds for the four well-known variables of the surrounding
// shell, matching NU_VARIABLE_ID..CONFIG_VARIABLE_ID in the original
// engine-state implementation this spec was distilled from.
const (
	NuVarID     VarId = 0
	ScopeVarID  VarId = 1
	InVarID     VarId = 2
	ConfigVarID VarId = 3
)

// numReservedVars is how many VarIds New pre-seeds.
const numReservedVars = 4
