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

// Package types holds the variable type descriptor named in the data model:
// "A type descriptor (semantic type tag, opaque to this layer)". Kind is
// that opaque tag; Type additionally lets numeric kinds carry an
// arbitrary-precision literal.
package types

import "github.com/cockroachdb/apd/v3"

// Kind is the semantic type tag of a variable. It is a bitset, in the style
// of cue/kind.go, though this layer never unifies or combines kinds: the
// bitset is retained purely so a caller can express "int or float" etc. as
// a single value if it needs to.
type Kind uint16

const (
	Unknown Kind = 1 << iota
	Null
	Bool
	Int
	Float
	String
	Bytes
	Duration
	List
	Record
	Block
	Any
)

// IsNumeric reports whether k includes Int or Float.
func (k Kind) IsNumeric() bool {
	return k&(Int|Float) != 0
}

func (k Kind) String() string {
	names := []struct {
		bit  Kind
		name string
	}{
		{Null, "null"}, {Bool, "bool"}, {Int, "int"}, {Float, "float"},
		{String, "string"}, {Bytes, "bytes"}, {Duration, "duration"},
		{List, "list"}, {Record, "record"}, {Block, "block"}, {Any, "any"},
	}
	s := ""
	for _, n := range names {
		if k&n.bit != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "unknown"
	}
	return s
}

// Type is a variable's full type descriptor: a Kind, plus, for numeric
// kinds, an optional arbitrary-precision constant (e.g. a declared
// variable's literal default). Decimal is nil unless the declaration
// carried a concrete numeric literal.
type Type struct {
	Kind    Kind
	Decimal *apd.Decimal
}

// Of returns a Type with no literal, the common case for inferred (not
// defaulted) variables.
func Of(k Kind) Type {
	return Type{Kind: k}
}

// WithDecimal returns a copy of t carrying the given decimal literal. It
// panics if t's Kind is not numeric, since a non-numeric variable has no
// business carrying a decimal constant.
func (t Type) WithDecimal(d *apd.Decimal) Type {
	if !t.Kind.IsNumeric() {
		panic("types: WithDecimal on a non-numeric Type")
	}
	t.Decimal = d
	return t
}

func (t Type) String() string {
	if t.Decimal != nil {
		return t.Kind.String() + "(" + t.Decimal.String() + ")"
	}
	return t.Kind.String()
}
