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

// Package errors defines the contract-violation kinds the engine core can
// raise. A contract violation (an out-of-range ID, a span outside every
// registered file, an unbalanced scope at merge time, or an attempt to
// mutate permanent state) is fatal to the current parse or eval frame: it
// is raised as a panic carrying a *Corruption, which a caller at a frame
// boundary can recover and turn back into a plain error with Recover.
//
// NameNotFound is explicitly not part of this package: a resolver that
// finds no binding returns a zero value and false, never an error.
package errors

import "fmt"

// Kind identifies which invariant was violated.
type Kind int

const (
	// MissingID: a get-by-ID lookup was given an ID outside the table.
	MissingID Kind = iota
	// SpanOutOfRange: a span was not contained in any registered file's range.
	SpanOutOfRange
	// UnbalancedScope: a delta being merged had a scope stack depth other than 1.
	UnbalancedScope
	// MutatePermanent: a mutation targeted an ID that belongs to permanent state.
	MutatePermanent
)

func (k Kind) String() string {
	switch k {
	case MissingID:
		return "missing id"
	case SpanOutOfRange:
		return "span out of range"
	case UnbalancedScope:
		return "unbalanced scope"
	case MutatePermanent:
		return "mutate permanent"
	default:
		return "unknown"
	}
}

// Corruption is a contract violation: the engine state has been asked to do
// something its invariants say cannot happen. It is always raised via
// panic, never returned as an ordinary error.
type Corruption struct {
	Kind Kind
	// What names the table or operation the violation occurred in (e.g.
	// "decl", "block", "var"), for MissingID and MutatePermanent.
	What string
	// ID is the offending identifier, for MissingID and MutatePermanent.
	ID int
	// Span is the offending span, for SpanOutOfRange.
	Span fmt.Stringer
}

func (c *Corruption) Error() string {
	switch c.Kind {
	case MissingID:
		return fmt.Sprintf("internal error: missing %s id %d", c.What, c.ID)
	case SpanOutOfRange:
		return fmt.Sprintf("internal error: span %v missing in file contents cache", c.Span)
	case UnbalancedScope:
		return "internal error: delta has an unbalanced scope stack"
	case MutatePermanent:
		return fmt.Sprintf("internal error: attempted to mutate permanent %s id %d from working set", c.What, c.ID)
	default:
		return "internal error: corrupted engine state"
	}
}

// Panic raises a Corruption of the given kind. It is the sole construction
// path for Corruption values, keeping every contract-violation site in the
// engine package uniform (mirrors the original Rust's repeated
// `.expect("internal error: ...")` and the teacher's own
// `panic("internal error: ...")` sites).
func Panic(c *Corruption) {
	panic(c)
}

// MissingIDf panics with a MissingID corruption for the given table/id.
func MissingIDf(what string, id int) {
	Panic(&Corruption{Kind: MissingID, What: what, ID: id})
}

// SpanOutOfRangef panics with a SpanOutOfRange corruption for the given span.
func SpanOutOfRangef(span fmt.Stringer) {
	Panic(&Corruption{Kind: SpanOutOfRange, Span: span})
}

// UnbalancedScopef panics with an UnbalancedScope corruption.
func UnbalancedScopef() {
	Panic(&Corruption{Kind: UnbalancedScope})
}

// MutatePermanentf panics with a MutatePermanent corruption for the given
// table/id.
func MutatePermanentf(what string, id int) {
	Panic(&Corruption{Kind: MutatePermanent, What: what, ID: id})
}

// Recover turns a Corruption panic into an error, for callers at a
// parse/eval frame boundary who want to report the failure rather than
// crash the process. It re-panics anything that isn't a *Corruption, since
// this package only ever promises to contain contract violations, not
// arbitrary panics.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if c, ok := r.(*Corruption); ok {
		*errp = c
		return
	}
	panic(r)
}
