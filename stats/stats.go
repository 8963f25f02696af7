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

// Package stats is an experimental package for getting statistics on engine
// registration and scope operations, and for carrying the shared
// cancellation flag. This is a trimmed sibling of cue/stats: the events
// counted are registration/scope/merge operations rather than unification.
package stats

import "sync/atomic"

// Counts holds counters for key events during a parsing session. The
// methods below update each field atomically; read the fields concurrently
// with those updates through Snapshot.
type Counts struct {
	FilesAdded     int64
	DeclsAdded     int64
	PredeclsAdded  int64
	PredeclsMerged int64
	VarsAdded      int64
	BlocksAdded    int64
	ScopesEntered  int64
	ScopesExited   int64
	DeltasMerged   int64
	DeclsHidden    int64
}

func (c *Counts) AddFile()      { atomic.AddInt64(&c.FilesAdded, 1) }
func (c *Counts) AddDecl()      { atomic.AddInt64(&c.DeclsAdded, 1) }
func (c *Counts) AddPredecl()   { atomic.AddInt64(&c.PredeclsAdded, 1) }
func (c *Counts) MergePredecl() { atomic.AddInt64(&c.PredeclsMerged, 1) }
func (c *Counts) AddVar()       { atomic.AddInt64(&c.VarsAdded, 1) }
func (c *Counts) AddBlock()     { atomic.AddInt64(&c.BlocksAdded, 1) }
func (c *Counts) EnterScope()   { atomic.AddInt64(&c.ScopesEntered, 1) }
func (c *Counts) ExitScope()    { atomic.AddInt64(&c.ScopesExited, 1) }
func (c *Counts) MergeDelta()   { atomic.AddInt64(&c.DeltasMerged, 1) }
func (c *Counts) HideDecl()     { atomic.AddInt64(&c.DeclsHidden, 1) }

// Snapshot returns a copy of c's current values, safe to read without
// racing further Add* calls (each field is read with an atomic load).
func (c *Counts) Snapshot() Counts {
	return Counts{
		FilesAdded:     atomic.LoadInt64(&c.FilesAdded),
		DeclsAdded:     atomic.LoadInt64(&c.DeclsAdded),
		PredeclsAdded:  atomic.LoadInt64(&c.PredeclsAdded),
		PredeclsMerged: atomic.LoadInt64(&c.PredeclsMerged),
		VarsAdded:      atomic.LoadInt64(&c.VarsAdded),
		BlocksAdded:    atomic.LoadInt64(&c.BlocksAdded),
		ScopesEntered:  atomic.LoadInt64(&c.ScopesEntered),
		ScopesExited:   atomic.LoadInt64(&c.ScopesExited),
		DeltasMerged:   atomic.LoadInt64(&c.DeltasMerged),
		DeclsHidden:    atomic.LoadInt64(&c.DeclsHidden),
	}
}

// CancelFlag is the shared cancellation flag named in spec.md §5: an
// idempotent, cross-cutting signal held on permanent state and shared with
// pipeline data consumers (e.g. an I/O-pump thread reading from a
// subprocess). PermanentState clones share it by pointer, as they share
// their Counts.
type CancelFlag struct {
	flag atomic.Bool
}

// Set marks the flag as cancelled. Idempotent.
func (c *CancelFlag) Set() { c.flag.Store(true) }

// IsSet reports whether the flag has been set.
func (c *CancelFlag) IsSet() bool { return c.flag.Load() }
