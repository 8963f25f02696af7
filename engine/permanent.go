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
	"fmt"
	"sort"

	"github.com/mpvl/unique"
	digest "github.com/opencontainers/go-digest"

	"github.com/nuq-lang/nuq/ast"
	"github.com/nuq-lang/nuq/command"
	eerrors "github.com/nuq-lang/nuq/errors"
	"github.com/nuq-lang/nuq/internal/pvec"
	"github.com/nuq-lang/nuq/signature"
	"github.com/nuq-lang/nuq/stats"
	"github.com/nuq-lang/nuq/token"
	"github.com/nuq-lang/nuq/types"
)

// fileInfo is a file entry plus the content digest computed when it was
// registered (SPEC_FULL.md §3); kept alongside the file table rather than
// inside token.File so package token stays free of this spec-specific
// addition.
type fileInfo struct {
	file   *token.File
	digest digest.Digest
}

// PermanentState is the committed engine state: the identity tables plus a
// stack of scope frames, cheaply clonable and safe to share across reader
// threads (spec.md §4.1, §5). Every identity table is a pvec.Vector so that
// Clone is O(1) and a mutation on one clone's tables is never observed by
// another's. The zero value is not usable; use New.
type PermanentState struct {
	files  pvec.Vector[fileInfo]
	decls  pvec.Vector[command.Command]
	vars   pvec.Vector[types.Type]
	blocks pvec.Vector[*ast.Block]
	scopes pvec.Vector[*ScopeFrame]

	Counts *stats.Counts
	Cancel *stats.CancelFlag
}

// New returns a fresh PermanentState with one empty root scope frame and
// the four reserved, pre-seeded variable IDs.
func New() *PermanentState {
	return &PermanentState{
		vars:   pvec.Of(types.Of(types.Unknown), types.Of(types.Unknown), types.Of(types.Unknown), types.Of(types.Unknown)),
		scopes: pvec.Of(NewScopeFrame()),
		Counts: &stats.Counts{},
		Cancel: &stats.CancelFlag{},
	}
}

// Clone returns an independent snapshot of p: subsequent mutations on the
// original (via MergeDelta or AddFile) are never observed through the
// clone, and vice versa. This is a plain struct copy: every field is either
// a pvec.Vector (O(1) to clone by construction) or a pointer p intends to
// share (Counts, Cancel — spec.md §5 names the cancellation flag as "the
// only cross-cutting side effect" clones share).
func (p *PermanentState) Clone() *PermanentState {
	c := *p
	return &c
}

// NumFiles, NumDecls, NumVars and NumBlocks report the size of each
// identity table.
func (p *PermanentState) NumFiles() int  { return p.files.Len() }
func (p *PermanentState) NumDecls() int  { return p.decls.Len() }
func (p *PermanentState) NumVars() int   { return p.vars.Len() }
func (p *PermanentState) NumBlocks() int { return p.blocks.Len() }

// nextSpanStart is the global cursor: the end of the last registered file,
// or 0 if none have been registered, matching the original's
// next_span_start derivation rather than tracking a separate counter.
func (p *PermanentState) nextSpanStart() int {
	if p.files.Len() == 0 {
		return 0
	}
	last, _ := p.files.Get(p.files.Len() - 1)
	return last.file.Span().End
}

// AddFile registers a new file, advancing the global span cursor by
// len(contents). It is the only PermanentState mutator callable outside of
// merging a delta.
func (p *PermanentState) AddFile(name string, contents []byte) FileId {
	f := token.NewFile(name, p.nextSpanStart(), contents)
	p.files = p.files.Append(fileInfo{file: f, digest: digest.FromBytes(contents)})
	p.Counts.AddFile()
	return FileId(p.files.Len() - 1)
}

// GetFilename returns the name of the given file, or "<unknown>" if id is
// out of range (per spec.md §4.1, unknown IDs return the sentinel rather
// than failing).
func (p *PermanentState) GetFilename(id FileId) string {
	fi, ok := p.files.Get(int(id))
	if !ok {
		return "<unknown>"
	}
	return fi.file.Name()
}

// GetFileSource returns the full source of the given file, or "<unknown>"
// if id is out of range.
func (p *PermanentState) GetFileSource(id FileId) string {
	fi, ok := p.files.Get(int(id))
	if !ok {
		return "<unknown>"
	}
	return string(fi.file.Content())
}

// GetFileDigest returns the content digest of the given file and whether id
// was in range.
func (p *PermanentState) GetFileDigest(id FileId) (digest.Digest, bool) {
	fi, ok := p.files.Get(int(id))
	if !ok {
		return "", false
	}
	return fi.digest, true
}

// GetFileSpan returns the given file's range in the global byte stream. It
// panics with a *errors.Corruption (MissingID) if id is out of range.
func (p *PermanentState) GetFileSpan(id FileId) token.Span {
	fi, ok := p.files.Get(int(id))
	if !ok {
		eerrors.MissingIDf("file", int(id))
	}
	return fi.file.Span()
}

func (p *PermanentState) fileList() []*token.File {
	slice := p.files.Slice()
	fs := make([]*token.File, len(slice))
	for i, fi := range slice {
		fs[i] = fi.file
	}
	return fs
}

// GetSpanContents returns the bytes of the given span. It panics with a
// *errors.Corruption (SpanOutOfRange) if no registered file contains span.
func (p *PermanentState) GetSpanContents(span token.Span) []byte {
	info, ok := token.Decode(p.fileList(), span)
	if !ok {
		eerrors.SpanOutOfRangef(spanStringer(span))
	}
	return info.Content
}

// GetVar returns the variable entry for id. It panics with a
// *errors.Corruption (MissingID) if id is out of range.
func (p *PermanentState) GetVar(id VarId) types.Type {
	v, ok := p.vars.Get(int(id))
	if !ok {
		eerrors.MissingIDf("var", int(id))
	}
	return v
}

// GetDecl returns the declaration entry for id. It panics with a
// *errors.Corruption (MissingID) if id is out of range.
func (p *PermanentState) GetDecl(id DeclId) command.Command {
	d, ok := p.decls.Get(int(id))
	if !ok {
		eerrors.MissingIDf("decl", int(id))
	}
	return d
}

// GetBlock returns the block entry for id. It panics with a
// *errors.Corruption (MissingID) if id is out of range.
func (p *PermanentState) GetBlock(id BlockId) *ast.Block {
	b, ok := p.blocks.Get(int(id))
	if !ok {
		eerrors.MissingIDf("block", int(id))
	}
	return b
}

// FindDecl walks the scope stack innermost-first, accumulating visibility
// as it goes, and returns the first visible DeclId bound to name.
func (p *PermanentState) FindDecl(name string) (DeclId, bool) {
	vis := newVisibility()
	scopes := p.scopes.Slice()
	for i := len(scopes) - 1; i >= 0; i-- {
		scope := scopes[i]
		vis.appendFrom(scope.vis)
		if id, ok := scope.Decls[name]; ok && vis.isVisible(id) {
			return id, true
		}
	}
	return 0, false
}

// FindCommandsByPrefix returns every declaration name across all frames
// that starts with prefix, sorted and deduplicated.
func (p *PermanentState) FindCommandsByPrefix(prefix string) []string {
	var out []string
	scopes := p.scopes.Slice()
	for i := len(scopes) - 1; i >= 0; i-- {
		for name := range scopes[i].Decls {
			if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	unique.Strings(&out)
	return out
}

// GetSignatures returns the signature of every declaration that is not
// backed by a block (i.e. every built-in), with Usage/ExtraUsage filled in.
func (p *PermanentState) GetSignatures() []signature.Signature {
	var out []signature.Signature
	for _, d := range p.decls.Slice() {
		if _, ok := d.BlockID(); ok {
			continue
		}
		sig := d.Signature()
		sig.Usage = d.Usage()
		sig.ExtraUsage = d.ExtraUsage()
		out = append(out, sig)
	}
	return out
}

// SignatureExample pairs a built-in's signature with its examples.
type SignatureExample struct {
	Signature signature.Signature
	Examples  []signature.Example
}

// GetSignaturesWithExamples is GetSignatures plus each declaration's
// examples.
func (p *PermanentState) GetSignaturesWithExamples() []SignatureExample {
	var out []SignatureExample
	for _, d := range p.decls.Slice() {
		if _, ok := d.BlockID(); ok {
			continue
		}
		sig := d.Signature()
		sig.Usage = d.Usage()
		sig.ExtraUsage = d.ExtraUsage()
		out = append(out, SignatureExample{Signature: sig, Examples: d.Examples()})
	}
	return out
}

// MergeDelta appends delta's new table entries onto p's identity tables and
// folds delta's single scope frame into p's current top scope frame, with
// delta winning on every binding and visibility conflict. It panics with a
// *errors.Corruption (UnbalancedScope) unless delta's scope stack holds
// exactly one frame.
func (p *PermanentState) MergeDelta(delta *StateDelta) {
	if delta.scopes.Len() != 1 {
		eerrors.UnbalancedScopef()
	}

	p.files = p.files.Append(delta.files.Slice()...)
	p.decls = p.decls.Append(delta.decls.Slice()...)
	p.vars = p.vars.Append(delta.vars.Slice()...)
	p.blocks = p.blocks.Append(delta.blocks.Slice()...)

	if p.scopes.Len() > 0 {
		top := p.scopes.Len() - 1
		base, _ := p.scopes.Get(top)
		incoming, _ := delta.scopes.Get(0)
		p.scopes = p.scopes.Set(top, foldFrame(base, incoming))
	}

	p.Counts.MergeDelta()
}

// foldFrame returns a clone of base with every binding in incoming
// inserted, incoming winning on conflicts (spec.md §4.1 "delta wins on
// conflict").
func foldFrame(base, incoming *ScopeFrame) *ScopeFrame {
	folded := base.clone()
	for k, v := range incoming.Vars {
		folded.Vars[k] = v
	}
	for k, v := range incoming.Decls {
		folded.Decls[k] = v
	}
	for k, v := range incoming.Aliases {
		folded.Aliases[k] = v
	}
	for k, v := range incoming.Modules {
		folded.Modules[k] = v
	}
	folded.vis.mergeWith(incoming.vis)
	return folded
}

// PrintVars writes every variable entry to stdout, one per line, matching
// the original's print_vars debug helper.
func (p *PermanentState) PrintVars() {
	for i, v := range p.vars.Slice() {
		fmt.Printf("var%d: %v\n", i, v)
	}
}

// PrintDecls writes every declaration's signature to stdout, one per line,
// matching the original's print_decls debug helper.
func (p *PermanentState) PrintDecls() {
	for i, d := range p.decls.Slice() {
		fmt.Printf("decl%d: %v\n", i, d.Signature())
	}
}

// PrintBlocks writes every block entry to stdout, one per line, matching
// the original's print_blocks debug helper.
func (p *PermanentState) PrintBlocks() {
	for i, b := range p.blocks.Slice() {
		fmt.Printf("block%d: %v\n", i, b)
	}
}

// PrintContents writes the full source of every registered file to stdout,
// matching the original's print_contents debug helper.
func (p *PermanentState) PrintContents() {
	for _, fi := range p.files.Slice() {
		fmt.Println(string(fi.file.Content()))
	}
}

type spanStringer token.Span

func (s spanStringer) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}
