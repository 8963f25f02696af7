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
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/nuq-lang/nuq/command"
	eerrors "github.com/nuq-lang/nuq/errors"
	"github.com/nuq-lang/nuq/signature"
	"github.com/nuq-lang/nuq/token"
	"github.com/nuq-lang/nuq/types"
)

func cmd(name string) command.Command {
	return &command.Builtin{CmdName: name, Sig: signature.Signature{Name: name}}
}

func mustCorruption(t *testing.T, kind eerrors.Kind, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with kind %v, got none", kind)
		}
		c, ok := r.(*eerrors.Corruption)
		if !ok {
			t.Fatalf("expected *errors.Corruption, got %T: %v", r, r)
		}
		if c.Kind != kind {
			t.Fatalf("expected kind %v, got %v", kind, c.Kind)
		}
	}()
	fn()
}

// Scenario 1: a fresh engine registering one empty file.
func TestScenarioAddFirstFile(t *testing.T) {
	e := New()
	id := e.AddFile("test.nu", nil)
	qt.Assert(t, qt.Equals(id, FileId(0)))
	qt.Assert(t, qt.Equals(e.NumFiles(), 1))
}

// Scenario 2: a working set adds a file on top of one already in permanent
// state.
func TestScenarioWorkingSetAddsSecondFile(t *testing.T) {
	e := New()
	e.AddFile("a.nu", nil)
	w := NewWorkingSet(e)
	id := w.AddFile("b.nu", nil)
	qt.Assert(t, qt.Equals(id, FileId(1)))
	qt.Assert(t, qt.Equals(w.NumFiles(), 2))
}

// Scenario 3: a rendered delta, once merged, makes the new file visible on
// the permanent engine with the original registration order preserved.
func TestScenarioMergeAddsFile(t *testing.T) {
	e := New()
	e.AddFile("test.nu", nil)
	w := NewWorkingSet(e)
	w.AddFile("child.nu", nil)
	delta := w.Render()
	e.MergeDelta(delta)

	qt.Assert(t, qt.Equals(e.NumFiles(), 2))
	qt.Assert(t, qt.Equals(e.GetFilename(0), "test.nu"))
	qt.Assert(t, qt.Equals(e.GetFilename(1), "child.nu"))
}

// Scenario 4: a pre-declared name resolves to its reserved id even before
// promotion, continues to resolve to the same id after promotion, and
// survives a commit.
func TestScenarioPredeclPromotion(t *testing.T) {
	e := New()
	w := NewWorkingSet(e)

	id, hadPrev := w.AddPredecl(cmd("foo"))
	qt.Assert(t, qt.IsFalse(hadPrev))

	found, ok := w.FindDecl("foo")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(found, id))

	promoted, ok := w.MergePredecl("foo")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(promoted, id))

	found, ok = w.FindDecl("foo")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(found, id))

	e.MergeDelta(w.Render())
	found, ok = e.FindDecl("foo")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(found, id))
}

// Scenario 5: hiding a permanent declaration is an overlay, not a removal;
// it takes effect for the current working set, survives commit, and a
// freshly added declaration of the same name in a later scope resolves to a
// new id.
func TestScenarioHideThenRebind(t *testing.T) {
	e := New()
	seed := NewWorkingSet(e)
	fooID, _ := seed.AddPredecl(cmd("foo"))
	seed.MergePredecl("foo")
	e.MergeDelta(seed.Render())

	found, ok := e.FindDecl("foo")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(found, fooID))

	w := NewWorkingSet(e)
	hidden, ok := w.HideDecl("foo")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(hidden, fooID))

	_, ok = w.FindDecl("foo")
	qt.Assert(t, qt.IsFalse(ok))

	e.MergeDelta(w.Render())
	_, ok = e.FindDecl("foo")
	qt.Assert(t, qt.IsFalse(ok))

	w2 := NewWorkingSet(e)
	w2.EnterScope()
	newID := w2.AddDecl(cmd("foo"))
	qt.Assert(t, qt.Not(qt.Equals(newID, fooID)))
	found, ok = w2.FindDecl("foo")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(found, newID))
}

// Scenario 6: a span fully inside one file's range resolves; a span
// crossing a file boundary is a contract violation.
func TestScenarioSpanBoundary(t *testing.T) {
	e := New()
	e.AddFile("a.nu", []byte("abc"))
	e.AddFile("b.nu", []byte("defgh"))

	contents := e.GetSpanContents(token.Span{Start: 3, End: 8})
	qt.Assert(t, qt.Equals(string(contents), "defgh"))

	mustCorruption(t, eerrors.SpanOutOfRange, func() {
		e.GetSpanContents(token.Span{Start: 2, End: 6})
	})
}

// Invariant 1: ID stability across commit.
func TestInvariantIDStability(t *testing.T) {
	e := New()
	w := NewWorkingSet(e)
	id := w.AddDecl(cmd("bar"))
	delta := w.Render()
	e.MergeDelta(delta)

	got := e.GetDecl(id)
	qt.Assert(t, qt.Equals(string(got.Name()), "bar"))
}

// Invariant 2: span coverage is contiguous from 0 and each file's span
// length matches its content length.
func TestInvariantSpanCoverage(t *testing.T) {
	e := New()
	f1 := e.AddFile("a.nu", []byte("abc"))
	f2 := e.AddFile("b.nu", []byte("defgh"))

	c1 := e.GetSpanContents(token.Span{Start: 0, End: 3})
	qt.Assert(t, qt.Equals(len(c1), 3))
	c2 := e.GetSpanContents(token.Span{Start: 3, End: 8})
	qt.Assert(t, qt.Equals(len(c2), 5))
	_ = f1
	_ = f2
}

// Invariant 3: name shadowing in a nested scope, restored on exit.
func TestInvariantShadowing(t *testing.T) {
	e := New()
	w := NewWorkingSet(e)
	outer := w.AddDecl(cmd("shadowed"))
	w.EnterScope()
	inner := w.AddDecl(cmd("shadowed"))

	found, ok := w.FindDecl("shadowed")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(found, inner))

	w.ExitScope()
	found, ok = w.FindDecl("shadowed")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(found, outer))
}

// Invariant 4: visibility monotonicity across hide/use. The decl is committed
// first, so hiding it records a visibility overlay that use can flip back.
func TestInvariantVisibilityMonotonicity(t *testing.T) {
	e := New()
	seed := NewWorkingSet(e)
	id := seed.AddDecl(cmd("toggle"))
	e.MergeDelta(seed.Render())
	w := NewWorkingSet(e)

	_, ok := w.HideDecl("toggle")
	qt.Assert(t, qt.IsTrue(ok))
	_, ok = w.FindDecl("toggle")
	qt.Assert(t, qt.IsFalse(ok))

	w.topFrame().vis.use(id)
	found, ok := w.FindDecl("toggle")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(found, id))
}

// Invariant 5: add_predecl of the same name twice replaces the binding and
// reports the previous id.
func TestInvariantPredeclReplace(t *testing.T) {
	e := New()
	w := NewWorkingSet(e)
	first, hadPrev := w.AddPredecl(cmd("dup"))
	qt.Assert(t, qt.IsFalse(hadPrev))

	second, hadPrev := w.AddPredecl(cmd("dup"))
	qt.Assert(t, qt.IsTrue(hadPrev))
	qt.Assert(t, qt.Equals(second, first))

	promoted, ok := w.MergePredecl("dup")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Not(qt.Equals(promoted, first)))
}

// Round-trip: every registered file's name and source are returned as-is.
func TestRoundTripFileRegistration(t *testing.T) {
	e := New()
	cases := []struct {
		name string
		data []byte
	}{
		{"one.nu", []byte("hello")},
		{"two.nu", []byte("world!!")},
		{"empty.nu", nil},
	}
	for _, c := range cases {
		id := e.AddFile(c.name, c.data)
		qt.Assert(t, qt.Equals(e.GetFilename(id), c.name))
		qt.Assert(t, qt.Equals(e.GetFileSource(id), string(c.data)))
	}
}

// Boundary: find_decl on an empty engine returns nothing; get_decl(0) on an
// empty engine is a contract violation.
func TestBoundaryEmptyEngine(t *testing.T) {
	e := New()
	_, ok := e.FindDecl("anything")
	qt.Assert(t, qt.IsFalse(ok))

	mustCorruption(t, eerrors.MissingID, func() {
		e.GetDecl(0)
	})
}

// UnbalancedScope: merging a delta with more than one open scope frame is a
// contract violation.
func TestMergeUnbalancedScope(t *testing.T) {
	e := New()
	w := NewWorkingSet(e)
	w.EnterScope()

	mustCorruption(t, eerrors.UnbalancedScope, func() {
		e.MergeDelta(w.Render())
	})
}

// MutatePermanent: SetVariableType on a reserved permanent var id panics.
func TestSetVariableTypeOnPermanentIsCorruption(t *testing.T) {
	e := New()
	w := NewWorkingSet(e)
	mustCorruption(t, eerrors.MutatePermanent, func() {
		w.SetVariableType(NuVarID, types.Of(types.Int))
	})
}

func TestCloneIndependence(t *testing.T) {
	e := New()
	e.AddFile("base.nu", nil)
	clone := e.Clone()

	w := NewWorkingSet(e)
	w.AddFile("extra.nu", nil)
	e.MergeDelta(w.Render())

	qt.Assert(t, qt.Equals(e.NumFiles(), 2))
	qt.Assert(t, qt.Equals(clone.NumFiles(), 1))
}
