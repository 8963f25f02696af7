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

package errors

import (
	"strings"
	"testing"
)

func TestRecoverCatchesCorruption(t *testing.T) {
	var err error
	func() {
		defer Recover(&err)
		MissingIDf("decl", 7)
	}()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "decl") || !strings.Contains(err.Error(), "7") {
		t.Errorf("unexpected message: %v", err)
	}
	c, ok := err.(*Corruption)
	if !ok || c.Kind != MissingID {
		t.Errorf("expected MissingID corruption, got %#v", err)
	}
}

func TestRecoverRepanicsOtherValues(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a re-panic")
		}
		if s, ok := r.(string); !ok || s != "boom" {
			t.Errorf("unexpected repanic value: %v", r)
		}
	}()

	var err error
	defer Recover(&err)
	panic("boom")
}
