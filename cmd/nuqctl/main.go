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

// Command nuqctl drives the engine-state core from the command line: it
// parses files or REPL input against a session built on top of
// engine.PermanentState, and dumps the registered command signature table.
package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(Main())
}

// Main runs the nuqctl command tree and returns a process exit code. It is
// exposed separately from main so script_test.go can register it as a
// testscript command.
func Main() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
