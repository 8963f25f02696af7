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

package main

import (
	"fmt"
	"strings"

	"github.com/nuq-lang/nuq/command"
	"github.com/nuq-lang/nuq/engine"
	"github.com/nuq-lang/nuq/signature"
	"github.com/nuq-lang/nuq/token"
)

// runLine interprets one line of the line-oriented mini-grammar against w:
//
//	decl NAME          add a built-in declaration named NAME, visible
//	hide NAME          hide NAME's current binding
//	alias NAME = TEXT  bind NAME to a one-token-span alias of TEXT
//
// It returns a one-line human report of what happened, or an error if the
// line didn't parse. Blank lines and lines starting with "#" are no-ops.
func runLine(w *engine.StateWorkingSet, fields []string, raw string) (string, error) {
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return "", nil
	}

	switch fields[0] {
	case "decl":
		if len(fields) != 2 {
			return "", fmt.Errorf("decl: want 1 argument, got %d", len(fields)-1)
		}
		name := fields[1]
		id := w.AddDecl(&command.Builtin{
			CmdName: name,
			Sig:     signature.Signature{Name: name},
		})
		return fmt.Sprintf("declared %q as decl %d", name, id), nil

	case "hide":
		if len(fields) != 2 {
			return "", fmt.Errorf("hide: want 1 argument, got %d", len(fields)-1)
		}
		id, ok := w.HideDecl(fields[1])
		if !ok {
			return fmt.Sprintf("%q does not resolve; nothing to hide", fields[1]), nil
		}
		return fmt.Sprintf("hid %q (was decl %d)", fields[1], id), nil

	case "alias":
		rest := strings.TrimPrefix(raw, "alias")
		name, text, ok := strings.Cut(strings.TrimSpace(rest), "=")
		if !ok {
			return "", fmt.Errorf("alias: want NAME = TEXT")
		}
		name = strings.TrimSpace(name)
		text = strings.TrimSpace(text)
		fileID := w.AddFile(fmt.Sprintf("<alias %s>", name), []byte(text))
		w.AddAlias(name, []token.Span{w.GetFileSpan(fileID)})
		return fmt.Sprintf("aliased %q to %q", name, text), nil

	default:
		return "", fmt.Errorf("unknown keyword %q", fields[0])
	}
}
