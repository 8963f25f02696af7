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

// Package command defines the declaration capability set: the polymorphic
// interface every command object (built-in or user-defined block) must
// satisfy to be stored in a declaration identity table. No dynamic dispatch
// beyond a plain Go interface is required at this layer (spec.md §9).
package command

import "github.com/nuq-lang/nuq/signature"

// Command is a named, invocable entity: a built-in or a user-defined block.
type Command interface {
	// Name is the declaration's bare name, with no sigil or path prefix.
	Name() []byte
	// Signature describes the command's call surface.
	Signature() signature.Signature
	// Usage is the one-line human summary.
	Usage() string
	// ExtraUsage is the longer, optional description.
	ExtraUsage() string
	// Examples lists usage examples for documentation and help text.
	Examples() []signature.Example
	// BlockID reports the BlockId backing this declaration if it is a
	// user-defined block, or (0, false) for a built-in. The BlockId type
	// lives in package engine to avoid a dependency cycle (declarations are
	// stored in the engine's identity tables, which need to call BlockID).
	BlockID() (id int, ok bool)
}

// Builtin is a minimal Command implementation for built-in declarations
// that are not backed by any block: BlockID always reports false.
type Builtin struct {
	CmdName        string
	Sig            signature.Signature
	UsageText      string
	ExtraUsageText string
	ExampleList    []signature.Example
}

func (b *Builtin) Name() []byte                   { return []byte(b.CmdName) }
func (b *Builtin) Signature() signature.Signature { return b.Sig }
func (b *Builtin) Usage() string                  { return b.UsageText }
func (b *Builtin) ExtraUsage() string             { return b.ExtraUsageText }
func (b *Builtin) Examples() []signature.Example  { return b.ExampleList }
func (b *Builtin) BlockID() (int, bool)           { return 0, false }

// BlockDecl is a Command implementation for a user-defined block (e.g. a
// function body the parser compiled).
type BlockDecl struct {
	CmdName   string
	Sig       signature.Signature
	UsageText string
	Block     int
}

func (d *BlockDecl) Name() []byte                   { return []byte(d.CmdName) }
func (d *BlockDecl) Signature() signature.Signature { return d.Sig }
func (d *BlockDecl) Usage() string                  { return d.UsageText }
func (d *BlockDecl) ExtraUsage() string             { return "" }
func (d *BlockDecl) Examples() []signature.Example  { return nil }
func (d *BlockDecl) BlockID() (int, bool)           { return d.Block, true }
