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
	"strings"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nuq-lang/nuq/engine"
	eerrors "github.com/nuq-lang/nuq/errors"
)

// newDumpCmd builds a session from mini-grammar lines on stdin and prints
// its resulting built-in signature table, either as YAML (the default, for
// a companion tool to consume) or, with --pretty, in the human-oriented
// form a person debugging a session would want. --vars, --decls, --blocks
// and --contents instead run the matching PermanentState introspection
// method directly to stdout, for raw debugging of the committed tables.
func newDumpCmd() *cobra.Command {
	var prettyOut, showVars, showDecls, showBlocks, showContents bool

	cmd := &cobra.Command{
		Use:           "dump",
		Short:         "print the signature table built from mini-grammar lines on stdin",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer eerrors.Recover(&err)
			logSession(cmd, "dump")

			perm := engine.New()
			w := engine.NewWorkingSet(perm)

			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				line := sc.Text()
				if _, lineErr := runLine(w, strings.Fields(line), line); lineErr != nil {
					return lineErr
				}
			}
			if sc.Err() != nil {
				return sc.Err()
			}

			perm.MergeDelta(w.Render())

			switch {
			case showVars:
				perm.PrintVars()
				return nil
			case showDecls:
				perm.PrintDecls()
				return nil
			case showBlocks:
				perm.PrintBlocks()
				return nil
			case showContents:
				perm.PrintContents()
				return nil
			}

			sigs := perm.GetSignaturesWithExamples()
			out := cmd.OutOrStdout()
			if prettyOut {
				fmt.Fprintf(out, "%# v\n", pretty.Formatter(sigs))
				return nil
			}
			enc := yaml.NewEncoder(out)
			defer enc.Close()
			return enc.Encode(sigs)
		},
	}
	cmd.Flags().BoolVar(&prettyOut, "pretty", false, "print with github.com/kr/pretty instead of YAML")
	cmd.Flags().BoolVar(&showVars, "vars", false, "print the variable table via PermanentState.PrintVars")
	cmd.Flags().BoolVar(&showDecls, "decls", false, "print the declaration table via PermanentState.PrintDecls")
	cmd.Flags().BoolVar(&showBlocks, "blocks", false, "print the block table via PermanentState.PrintBlocks")
	cmd.Flags().BoolVar(&showContents, "contents", false, "print every registered file's source via PermanentState.PrintContents")
	return cmd
}
