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
	"bufio"
	"fmt"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/nuq-lang/nuq/engine"
	eerrors "github.com/nuq-lang/nuq/errors"
)

// newReplCmd reads lines from stdin, tokenizing each with shlex (the same
// tokenizer the teacher's own script-driven tests use for command lines)
// and interpreting it against the current working set. Lines accumulate in
// that working set until a line that is exactly "commit" merges it into the
// permanent engine and starts a new one; whatever was not committed when
// input ends is discarded.
func newReplCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "repl",
		Short:         "interpret mini-grammar lines from stdin against a live session",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer eerrors.Recover(&err)
			logSession(cmd, "repl")

			perm := engine.New()
			w := engine.NewWorkingSet(perm)

			in := bufio.NewScanner(cmd.InOrStdin())
			out := cmd.OutOrStdout()
			for in.Scan() {
				line := in.Text()
				if line == "commit" {
					perm.MergeDelta(w.Render())
					fmt.Fprintf(out, "committed; %s now known\n", countNoun(perm.NumDecls(), "declaration"))
					w = engine.NewWorkingSet(perm)
					continue
				}

				fields, splitErr := shlex.Split(line)
				if splitErr != nil {
					fmt.Fprintf(out, "error: %v\n", splitErr)
					continue
				}
				report, lineErr := runLine(w, fields, line)
				if lineErr != nil {
					fmt.Fprintf(out, "error: %v\n", lineErr)
					continue
				}
				if report != "" {
					fmt.Fprintln(out, report)
				}
			}
			return in.Err()
		},
	}
	return cmd
}
