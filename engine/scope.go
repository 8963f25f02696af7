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

package engine

import "github.com/nuq-lang/nuq/token"

// visibility is a per-frame overlay of DeclId -> visible/hidden. Absence
// means "visible by default".
type visibility struct {
	ids map[DeclId]bool
}

func newVisibility() visibility {
	return visibility{ids: map[DeclId]bool{}}
}

func (v visibility) isVisible(id DeclId) bool {
	vis, ok := v.ids[id]
	if !ok {
		return true
	}
	return vis
}

func (v visibility) hide(id DeclId) { v.ids[id] = false }
func (v visibility) use(id DeclId)  { v.ids[id] = true }

// mergeWith overwrites v's entries with other's (used when folding a
// committed delta frame's overlay into the permanent frame: delta wins).
func (v visibility) mergeWith(other visibility) {
	for id, vis := range other.ids {
		v.ids[id] = vis
	}
}

// appendFrom adds entries from other that v does not already have (used
// while walking frames outward: the innermost frame's decision for an id
// always wins, so an outer frame's entry is only recorded the first time).
func (v visibility) appendFrom(other visibility) {
	for id, vis := range other.ids {
		if _, ok := v.ids[id]; !ok {
			v.ids[id] = vis
		}
	}
}

func (v visibility) clone() visibility {
	ids := make(map[DeclId]bool, len(v.ids))
	for k, val := range v.ids {
		ids[k] = val
	}
	return visibility{ids: ids}
}

// ScopeFrame is one lexical scope's name bindings plus its visibility
// overlay, per spec.md §3.
type ScopeFrame struct {
	Vars     map[string]VarId
	Predecls map[string]DeclId
	Decls    map[string]DeclId
	Aliases  map[string][]token.Span
	Modules  map[string]BlockId
	vis      visibility
}

// NewScopeFrame returns an empty scope frame.
func NewScopeFrame() *ScopeFrame {
	return &ScopeFrame{
		Vars:     map[string]VarId{},
		Predecls: map[string]DeclId{},
		Decls:    map[string]DeclId{},
		Aliases:  map[string][]token.Span{},
		Modules:  map[string]BlockId{},
		vis:      newVisibility(),
	}
}

// clone deep-copies f so mutating the clone never affects f. Scope frames
// are small and short-lived relative to the identity tables, so a plain map
// copy (rather than a pvec.Vector of frames) is the right tool here; the
// expensive-to-clone state is the identity tables, not the frame maps.
func (f *ScopeFrame) clone() *ScopeFrame {
	c := &ScopeFrame{
		Vars:     make(map[string]VarId, len(f.Vars)),
		Predecls: make(map[string]DeclId, len(f.Predecls)),
		Decls:    make(map[string]DeclId, len(f.Decls)),
		Aliases:  make(map[string][]token.Span, len(f.Aliases)),
		Modules:  make(map[string]BlockId, len(f.Modules)),
		vis:      f.vis.clone(),
	}
	for k, v := range f.Vars {
		c.Vars[k] = v
	}
	for k, v := range f.Predecls {
		c.Predecls[k] = v
	}
	for k, v := range f.Decls {
		c.Decls[k] = v
	}
	for k, v := range f.Aliases {
		c.Aliases[k] = v
	}
	for k, v := range f.Modules {
		c.Modules[k] = v
	}
	return c
}
