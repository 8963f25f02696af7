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

import (
	"sort"

	"github.com/mpvl/unique"
	digest "github.com/opencontainers/go-digest"

	"github.com/nuq-lang/nuq/ast"
	"github.com/nuq-lang/nuq/command"
	eerrors "github.com/nuq-lang/nuq/errors"
	"github.com/nuq-lang/nuq/internal/pvec"
	"github.com/nuq-lang/nuq/token"
	"github.com/nuq-lang/nuq/types"
)

// StateDelta is everything a StateWorkingSet accumulated: new identity-table
// entries plus the stack of scope frames it opened. It is only ever
// produced by StateWorkingSet.Render, and only ever consumed by
// PermanentState.MergeDelta or discarded outright.
type StateDelta struct {
	files  pvec.Vector[fileInfo]
	decls  pvec.Vector[command.Command]
	vars   pvec.Vector[types.Type]
	blocks pvec.Vector[*ast.Block]
	scopes pvec.Vector[*ScopeFrame]
}

// StateWorkingSet is a transactional overlay over an immutably-borrowed
// PermanentState: every mutation lands in the delta, never in the borrowed
// snapshot, so the parse that owns it can be discarded without a trace.
type StateWorkingSet struct {
	permanent *PermanentState
	delta     *StateDelta
}

// NewWorkingSet borrows permanent and starts a delta seeded with one empty
// scope frame (spec.md §4.2).
func NewWorkingSet(permanent *PermanentState) *StateWorkingSet {
	return &StateWorkingSet{
		permanent: permanent,
		delta: &StateDelta{
			scopes: pvec.Of(NewScopeFrame()),
		},
	}
}

// Render consumes w and yields its delta, ready for PermanentState.MergeDelta
// or to be dropped. Calling any other method on w after Render is a
// programming error (w's owner is expected to discard it).
func (w *StateWorkingSet) Render() *StateDelta {
	return w.delta
}

func (w *StateWorkingSet) topFrame() *ScopeFrame {
	top, _ := w.delta.scopes.Get(w.delta.scopes.Len() - 1)
	return top
}

func (w *StateWorkingSet) setTopFrame(f *ScopeFrame) {
	w.delta.scopes = w.delta.scopes.Set(w.delta.scopes.Len()-1, f)
}

// EnterScope pushes a fresh empty frame onto the delta's scope stack.
func (w *StateWorkingSet) EnterScope() {
	w.delta.scopes = w.delta.scopes.Append(NewScopeFrame())
	w.permanent.Counts.EnterScope()
}

// ExitScope pops the top delta frame. It panics with an
// *errors.Corruption (UnbalancedScope) if the delta stack is already empty.
func (w *StateWorkingSet) ExitScope() {
	if w.delta.scopes.Len() == 0 {
		eerrors.UnbalancedScopef()
	}
	w.delta.scopes = pvec.Of(w.delta.scopes.Slice()[:w.delta.scopes.Len()-1]...)
	w.permanent.Counts.ExitScope()
}

// AddDecl appends cmd to the delta's decl table, binds its name in the top
// delta frame, and marks it visible.
func (w *StateWorkingSet) AddDecl(cmd command.Command) DeclId {
	w.delta.decls = w.delta.decls.Append(cmd)
	id := DeclId(w.NumDecls() - 1)
	top := w.topFrame()
	top.Decls[string(cmd.Name())] = id
	top.vis.use(id)
	w.permanent.Counts.AddDecl()
	return id
}

// AddPredecl appends cmd to the delta's decl table and reserves its id
// under predecls in the top frame, returning the previously pre-declared id
// for that name, if any.
func (w *StateWorkingSet) AddPredecl(cmd command.Command) (DeclId, bool) {
	w.delta.decls = w.delta.decls.Append(cmd)
	id := DeclId(w.NumDecls() - 1)
	top := w.topFrame()
	prev, had := top.Predecls[string(cmd.Name())]
	top.Predecls[string(cmd.Name())] = id
	w.permanent.Counts.AddPredecl()
	return prev, had
}

// MergePredecl promotes name's predecl binding in the top frame to decls and
// marks it visible, returning the promoted id.
func (w *StateWorkingSet) MergePredecl(name string) (DeclId, bool) {
	top := w.topFrame()
	id, ok := top.Predecls[name]
	if !ok {
		return 0, false
	}
	delete(top.Predecls, name)
	top.Decls[name] = id
	top.vis.use(id)
	w.permanent.Counts.MergePredecl()
	return id, true
}

// HideDecl removes name's binding from the innermost delta frame that holds
// it, or, failing that, flips visibility for a still-visible permanent
// binding by recording the flip in the top delta frame. Returns the id
// hidden, or false if name resolves nowhere.
func (w *StateWorkingSet) HideDecl(name string) (DeclId, bool) {
	deltaFrames := w.delta.scopes.Slice()
	for i := len(deltaFrames) - 1; i >= 0; i-- {
		if id, ok := deltaFrames[i].Decls[name]; ok {
			delete(deltaFrames[i].Decls, name)
			w.permanent.Counts.HideDecl()
			return id, true
		}
	}

	vis := newVisibility()
	permFrames := w.permanent.scopes.Slice()
	for i := len(permFrames) - 1; i >= 0; i-- {
		frame := permFrames[i]
		vis.appendFrom(frame.vis)
		if id, ok := frame.Decls[name]; ok && vis.isVisible(id) {
			w.topFrame().vis.hide(id)
			w.permanent.Counts.HideDecl()
			return id, true
		}
	}
	return 0, false
}

// FindDecl walks delta frames innermost-first (predecls checked before
// decls and exempt from visibility), then permanent frames with visibility
// accumulation as in PermanentState.FindDecl.
func (w *StateWorkingSet) FindDecl(name string) (DeclId, bool) {
	deltaFrames := w.delta.scopes.Slice()
	vis := newVisibility()
	for i := len(deltaFrames) - 1; i >= 0; i-- {
		frame := deltaFrames[i]
		if id, ok := frame.Predecls[name]; ok {
			return id, true
		}
		vis.appendFrom(frame.vis)
		if id, ok := frame.Decls[name]; ok && vis.isVisible(id) {
			return id, true
		}
	}

	permFrames := w.permanent.scopes.Slice()
	for i := len(permFrames) - 1; i >= 0; i-- {
		frame := permFrames[i]
		vis.appendFrom(frame.vis)
		if id, ok := frame.Decls[name]; ok && vis.isVisible(id) {
			return id, true
		}
	}
	return 0, false
}

// FindModule walks delta then permanent frames innermost-first with bare
// shadowing (no visibility filtering).
func (w *StateWorkingSet) FindModule(name string) (BlockId, bool) {
	if id, ok := findBareDelta(w.delta.scopes.Slice(), func(f *ScopeFrame) (BlockId, bool) {
		id, ok := f.Modules[name]
		return id, ok
	}); ok {
		return id, true
	}
	return findBareDelta(w.permanent.scopes.Slice(), func(f *ScopeFrame) (BlockId, bool) {
		id, ok := f.Modules[name]
		return id, ok
	})
}

// FindVariable walks delta then permanent frames innermost-first with bare
// shadowing.
func (w *StateWorkingSet) FindVariable(name string) (VarId, bool) {
	if id, ok := findBareDelta(w.delta.scopes.Slice(), func(f *ScopeFrame) (VarId, bool) {
		id, ok := f.Vars[name]
		return id, ok
	}); ok {
		return id, true
	}
	return findBareDelta(w.permanent.scopes.Slice(), func(f *ScopeFrame) (VarId, bool) {
		id, ok := f.Vars[name]
		return id, ok
	})
}

// FindAlias walks delta then permanent frames innermost-first with bare
// shadowing, returning the alias's replacement token spans.
func (w *StateWorkingSet) FindAlias(name string) ([]token.Span, bool) {
	if spans, ok := findBareDelta(w.delta.scopes.Slice(), func(f *ScopeFrame) ([]token.Span, bool) {
		spans, ok := f.Aliases[name]
		return spans, ok
	}); ok {
		return spans, true
	}
	return findBareDelta(w.permanent.scopes.Slice(), func(f *ScopeFrame) ([]token.Span, bool) {
		spans, ok := f.Aliases[name]
		return spans, ok
	})
}

// findBareDelta walks frames innermost-first looking for the first hit from
// get, with no visibility check: the shared shape behind FindModule,
// FindVariable and FindAlias.
func findBareDelta[T any](frames []*ScopeFrame, get func(*ScopeFrame) (T, bool)) (T, bool) {
	for i := len(frames) - 1; i >= 0; i-- {
		if v, ok := get(frames[i]); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// ContainsDeclPartialMatch reports whether any delta or permanent frame
// holds a decl whose name starts with prefix.
func (w *StateWorkingSet) ContainsDeclPartialMatch(prefix string) bool {
	hasPrefix := func(frames []*ScopeFrame) bool {
		for _, frame := range frames {
			for name := range frame.Decls {
				if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
					return true
				}
			}
		}
		return false
	}
	return hasPrefix(w.delta.scopes.Slice()) || hasPrefix(w.permanent.scopes.Slice())
}

// FindCommandsByPrefix unions delta and permanent decl names starting with
// prefix, returned sorted and deduplicated.
func (w *StateWorkingSet) FindCommandsByPrefix(prefix string) []string {
	var out []string
	collect := func(frames []*ScopeFrame) {
		for i := len(frames) - 1; i >= 0; i-- {
			for name := range frames[i].Decls {
				if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
					out = append(out, name)
				}
			}
		}
	}
	collect(w.delta.scopes.Slice())
	collect(w.permanent.scopes.Slice())
	sort.Strings(out)
	unique.Strings(&out)
	return out
}

// AddVariable ensures name begins with the variable sigil, appends typ to
// delta.vars, and binds the new id in the top delta frame.
func (w *StateWorkingSet) AddVariable(name string, typ types.Type) VarId {
	if len(name) == 0 || name[0] != '$' {
		name = "$" + name
	}
	w.delta.vars = w.delta.vars.Append(typ)
	id := VarId(w.NumVars() - 1)
	w.topFrame().Vars[name] = id
	w.permanent.Counts.AddVar()
	return id
}

// SetVariableType mutates delta.vars at id. It panics with an
// *errors.Corruption (MutatePermanent) if id refers to a permanent var.
func (w *StateWorkingSet) SetVariableType(id VarId, typ types.Type) {
	permCount := w.permanent.NumVars()
	if int(id) < permCount {
		eerrors.MutatePermanentf("var", int(id))
	}
	local := int(id) - permCount
	w.delta.vars = w.delta.vars.Set(local, typ)
}

// AddAlias binds name in the top delta frame's alias table.
func (w *StateWorkingSet) AddAlias(name string, spans []token.Span) {
	w.topFrame().Aliases[name] = spans
}

// AddBlock appends block to delta.blocks.
func (w *StateWorkingSet) AddBlock(block *ast.Block) BlockId {
	w.delta.blocks = w.delta.blocks.Append(block)
	w.permanent.Counts.AddBlock()
	return BlockId(w.NumBlocks() - 1)
}

// AddModule appends block to delta.blocks and binds name to its id in the
// top delta frame's module table.
func (w *StateWorkingSet) AddModule(name string, block *ast.Block) BlockId {
	id := w.AddBlock(block)
	w.topFrame().Modules[name] = id
	return id
}

// AddFile registers a new file in the delta, advancing the shared span
// cursor (the max of permanent's and delta's own cursors).
func (w *StateWorkingSet) AddFile(name string, contents []byte) FileId {
	f := token.NewFile(name, w.nextSpanStart(), contents)
	w.delta.files = w.delta.files.Append(fileInfo{file: f, digest: digest.FromBytes(contents)})
	w.permanent.Counts.AddFile()
	return FileId(w.NumFiles() - 1)
}

// ActivateOverlay binds every (name, DeclId) pair in bindings into the top
// delta frame's decl table, marking each visible, pulling a subset of a
// module's exports into the current scope.
func (w *StateWorkingSet) ActivateOverlay(bindings map[string]DeclId) {
	top := w.topFrame()
	for name, id := range bindings {
		top.Decls[name] = id
		top.vis.use(id)
	}
}

// NumFiles, NumDecls, NumVars and NumBlocks report permanent.len(K) +
// delta.len(K), the next id that would be assigned for table K.
func (w *StateWorkingSet) NumFiles() int  { return w.permanent.NumFiles() + w.delta.files.Len() }
func (w *StateWorkingSet) NumDecls() int  { return w.permanent.NumDecls() + w.delta.decls.Len() }
func (w *StateWorkingSet) NumVars() int   { return w.permanent.NumVars() + w.delta.vars.Len() }
func (w *StateWorkingSet) NumBlocks() int { return w.permanent.NumBlocks() + w.delta.blocks.Len() }

func (w *StateWorkingSet) nextSpanStart() int {
	permCursor := w.permanent.nextSpanStart()
	if w.delta.files.Len() == 0 {
		return permCursor
	}
	last, _ := w.delta.files.Get(w.delta.files.Len() - 1)
	deltaCursor := last.file.Span().End
	if deltaCursor > permCursor {
		return deltaCursor
	}
	return permCursor
}

func (w *StateWorkingSet) fileList() []*token.File {
	fs := w.permanent.fileList()
	for _, fi := range w.delta.files.Slice() {
		fs = append(fs, fi.file)
	}
	return fs
}

// GetFilename returns the name of file id across permanent and delta
// tables, or "<unknown>" if id is out of range.
func (w *StateWorkingSet) GetFilename(id FileId) string {
	if int(id) < w.permanent.NumFiles() {
		return w.permanent.GetFilename(id)
	}
	fi, ok := w.delta.files.Get(int(id) - w.permanent.NumFiles())
	if !ok {
		return "<unknown>"
	}
	return fi.file.Name()
}

// GetFileSource returns the full source of file id across permanent and
// delta tables, or "<unknown>" if id is out of range.
func (w *StateWorkingSet) GetFileSource(id FileId) string {
	if int(id) < w.permanent.NumFiles() {
		return w.permanent.GetFileSource(id)
	}
	fi, ok := w.delta.files.Get(int(id) - w.permanent.NumFiles())
	if !ok {
		return "<unknown>"
	}
	return string(fi.file.Content())
}

// GetFileSpan returns file id's range in the global byte stream, taking it
// from permanent files for ids below their count and from delta files
// otherwise. It panics with an
// *errors.Corruption (MissingID) if id is out of range.
func (w *StateWorkingSet) GetFileSpan(id FileId) token.Span {
	if int(id) < w.permanent.NumFiles() {
		return w.permanent.GetFileSpan(id)
	}
	fi, ok := w.delta.files.Get(int(id) - w.permanent.NumFiles())
	if !ok {
		eerrors.MissingIDf("file", int(id))
	}
	return fi.file.Span()
}

// GetSpanContents returns the bytes of span, searching permanent files and
// then delta files. It panics with an *errors.Corruption (SpanOutOfRange) if
// no file in either table contains span.
func (w *StateWorkingSet) GetSpanContents(span token.Span) []byte {
	info, ok := token.Decode(w.fileList(), span)
	if !ok {
		eerrors.SpanOutOfRangef(spanStringer(span))
	}
	return info.Content
}

// GetVariable returns the type of var id across permanent and delta tables.
// It panics with an *errors.Corruption (MissingID) if id is out of range.
func (w *StateWorkingSet) GetVariable(id VarId) types.Type {
	if int(id) < w.permanent.NumVars() {
		return w.permanent.GetVar(id)
	}
	v, ok := w.delta.vars.Get(int(id) - w.permanent.NumVars())
	if !ok {
		eerrors.MissingIDf("var", int(id))
	}
	return v
}

// GetDecl returns the declaration for id across permanent and delta tables.
// It panics with an *errors.Corruption (MissingID) if id is out of range.
func (w *StateWorkingSet) GetDecl(id DeclId) command.Command {
	if int(id) < w.permanent.NumDecls() {
		return w.permanent.GetDecl(id)
	}
	d, ok := w.delta.decls.Get(int(id) - w.permanent.NumDecls())
	if !ok {
		eerrors.MissingIDf("decl", int(id))
	}
	return d
}

// GetBlock returns the block for id across permanent and delta tables. It
// panics with an *errors.Corruption (MissingID) if id is out of range.
func (w *StateWorkingSet) GetBlock(id BlockId) *ast.Block {
	if int(id) < w.permanent.NumBlocks() {
		return w.permanent.GetBlock(id)
	}
	b, ok := w.delta.blocks.Get(int(id) - w.permanent.NumBlocks())
	if !ok {
		eerrors.MissingIDf("block", int(id))
	}
	return b
}
