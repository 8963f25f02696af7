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

package token

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFilePositionFor(t *testing.T) {
	f := NewFile("a.nu", 0, []byte("abc\ndef\nghi"))

	testCases := []struct {
		offset int
		want   Position
	}{
		{0, Position{Filename: "a.nu", Offset: 0, Line: 1, Column: 1}},
		{3, Position{Filename: "a.nu", Offset: 3, Line: 1, Column: 4}},
		{4, Position{Filename: "a.nu", Offset: 4, Line: 2, Column: 1}},
		{7, Position{Filename: "a.nu", Offset: 7, Line: 2, Column: 4}},
		{8, Position{Filename: "a.nu", Offset: 8, Line: 3, Column: 1}},
		{10, Position{Filename: "a.nu", Offset: 10, Line: 3, Column: 3}},
	}
	for _, tc := range testCases {
		got := f.PositionFor(tc.offset)
		if !cmp.Equal(got, tc.want) {
			t.Errorf("PositionFor(%d): %s", tc.offset, cmp.Diff(tc.want, got))
		}
	}
}

func TestLookupAndDecode(t *testing.T) {
	fileA := NewFile("a.nu", 0, []byte("abc"))   // [0,3)
	fileB := NewFile("b.nu", 3, []byte("defgh")) // [3,8)
	files := []*File{fileA, fileB}

	info, ok := Decode(files, Span{Start: 3, End: 8})
	if !ok {
		t.Fatalf("Decode: expected ok")
	}
	if string(info.Content) != "defgh" || info.Filename != "b.nu" {
		t.Errorf("Decode = %+v", info)
	}

	if _, ok := Decode(files, Span{Start: 2, End: 6}); ok {
		t.Errorf("Decode: span crossing file boundary should fail")
	}
}
