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

// Package signature describes the shape of a declaration's call surface,
// independent of how that declaration is implemented (built-in or
// user-defined block).
package signature

// Param describes one positional parameter.
type Param struct {
	Name  string
	Shape string // syntax-shape tag, opaque to this layer
	Help  string
}

// Flag describes one named flag.
type Flag struct {
	Long     string
	Short    rune // 0 if there is no short form
	TakesArg bool
	Help     string
}

// Example is one usage example attached to a declaration.
type Example struct {
	Description string
	Example     string
	Result      string
}

// Signature is the call surface of a declaration: its name, positional
// parameters, named flags, an optional rest parameter, and human-facing
// usage text filled in from the owning declaration.
type Signature struct {
	Name       string
	Positional []Param
	Flags      []Flag
	Rest       *Param
	Usage      string
	ExtraUsage string
}
