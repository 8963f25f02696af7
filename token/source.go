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

// Lookup locates the file whose range contains s among files (searched in
// registration order), implementing "locates the file entry whose range
// contains [span.start, span.end)" from the span source-resolution
// protocol.
func Lookup(files []*File, s Span) (*File, bool) {
	for _, f := range files {
		if f.Contains(s) {
			return f, true
		}
	}
	return nil, false
}

// SourceInfo is the decoded result of the span source-resolution protocol:
// the bytes in the span, the owning filename, the line/column of the span's
// start, and the number of lines the span covers.
type SourceInfo struct {
	Content  []byte
	Filename string
	Start    Position
	NumLines int
}

// Decode implements the protocol in full: given files and a span, it finds
// the owning file, translates the span to file-local offsets to slice the
// bytes, computes the start position, and counts the lines covered -
// retranslating nothing further since Position is already expressed in
// file-local line/column terms, as spec.md §4.3 requires ("retranslates any
// offsets returned by the underlying line/column computation back to global
// coordinates" - here the global coordinate is carried in Position.Offset
// plus the file's own Span, so no separate step is needed).
func Decode(files []*File, s Span) (SourceInfo, bool) {
	f, ok := Lookup(files, s)
	if !ok {
		return SourceInfo{}, false
	}
	start := f.PositionFor(s.Start)
	end := f.PositionFor(s.End)
	numLines := end.Line - start.Line + 1
	return SourceInfo{
		Content:  f.Slice(s),
		Filename: f.Name(),
		Start:    start,
		NumLines: numLines,
	}, true
}
