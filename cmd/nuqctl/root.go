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

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// sessionID identifies this process's nuqctl invocation in its log lines,
// stable for the process's lifetime.
var sessionID = uuid.New()

// printer renders count-sensitive status lines, mirroring the teacher CLI's
// own use of x/text/message for pluralized output.
var printer = message.NewPrinter(language.English)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nuqctl",
		Short: "drive the engine-state core from the command line",

		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().Bool("verbose", false, "log the session id on every subcommand")

	for _, sub := range []*cobra.Command{
		newParseCmd(),
		newReplCmd(),
		newDumpCmd(),
	} {
		cmd.AddCommand(sub)
	}
	return cmd
}

func logSession(cmd *cobra.Command, label string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "nuqctl[%s]: %s\n", sessionID, label)
}

// countNoun pluralizes noun for n using printer, matching the teacher's
// count-sensitive phrasing convention ("1 declaration" vs "3 declarations").
func countNoun(n int, noun string) string {
	if n == 1 {
		return printer.Sprintf("%d %s", n, noun)
	}
	return printer.Sprintf("%d %ss", n, noun)
}
