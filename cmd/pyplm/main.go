// This file is part of pyplm.
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

// Command pyplm compiles a PL/M source file into Intel 8080 assembly
// source, in a single pass, for a separate external assembler to turn into
// a loadable image.
//
// Usage:
//
//	pyplm [flags] <infile> <outfile>
//
//	-s, --start string     entry procedure; reached via RET instead of
//	                        falling through to the trailer
//	-o, --optimize          enable the peephole optimizer
//	-e, --external file     assembly file to inline before the trailer
//	-i, --initialize        zero-initialise declared but uninitialised data
//	-t, --trailer string    exit handler at __ENDCOM: one of hlt, ret, mon
//	                        (default "ret")
//
// Warnings are printed to stderr in yellow as they are discovered during
// compilation; the first fatal diagnostic, if any, is printed in red and
// pyplm exits with a non-zero status.
package main

import (
	"os"

	"github.com/fatih/color"
)

// atExit reports err in red, the same terminal-facing error convention the
// teacher's cmd/retro/main.go uses (there plain fmt.Fprintf to stderr; here
// colourized, per the diagnostics surface the rest of the pack's CLI tools
// use fatih/color for).
func atExit(err error) {
	if err == nil {
		return
	}
	color.New(color.FgRed).Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		atExit(err)
	}
}
