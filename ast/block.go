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

// Package ast holds Block, the parsed code body referenced by BlockId. Its
// contents are explicitly out of scope for the engine-state core (spec.md
// §1 Non-goals), so Block is kept deliberately opaque: just enough shape
// for it to be worth storing and to carry its own source position for
// diagnostics.
package ast

import "github.com/nuq-lang/nuq/token"

// Block is a parsed, compiled code body: a block's own extent in the source
// stream plus whatever statements the parser recorded for it. Stmts is a
// stand-in for the real AST node a full parser would produce.
type Block struct {
	Span  token.Span
	Stmts []string
}

// Pos returns the start of the block's source span.
func (b *Block) Pos() int { return b.Span.Start }

// End returns the end of the block's source span.
func (b *Block) End() int { return b.Span.End }
