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

package types

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
)

func TestWithDecimalRequiresNumeric(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-numeric WithDecimal")
		}
	}()
	Of(String).WithDecimal(apd.New(1, 0))
}

func TestTypeString(t *testing.T) {
	ty := Of(Int).WithDecimal(apd.New(42, 0))
	if got, want := ty.String(), "int(42)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
