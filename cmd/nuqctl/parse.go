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
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nuq-lang/nuq/engine"
	eerrors "github.com/nuq-lang/nuq/errors"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "parse <files...>",
		Short:         "register files and commit one working set's worth of declarations",
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer eerrors.Recover(&err)
			logSession(cmd, "parse")

			perm := engine.New()
			w := engine.NewWorkingSet(perm)

			for _, path := range args {
				data, readErr := os.ReadFile(path)
				if readErr != nil {
					return readErr
				}
				id := w.AddFile(path, data)
				fmt.Fprintf(cmd.OutOrStdout(), "registered %s as file %d\n", path, id)

				sc := bufio.NewScanner(bytes.NewReader(data))
				for sc.Scan() {
					line := sc.Text()
					fields := strings.Fields(line)
					report, lineErr := runLine(w, fields, line)
					if lineErr != nil {
						return fmt.Errorf("%s: %w", path, lineErr)
					}
					if report != "" {
						fmt.Fprintln(cmd.OutOrStdout(), report)
					}
				}
				if sc.Err() != nil {
					return sc.Err()
				}
			}

			delta := w.Render()
			perm.MergeDelta(delta)

			fmt.Fprintf(cmd.OutOrStdout(), "%s registered, %s declared\n",
				countNoun(perm.NumFiles(), "file"), countNoun(perm.NumDecls(), "declaration"))
			return nil
		},
	}
	return cmd
}
