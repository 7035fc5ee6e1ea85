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

package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/DMAW-3000/pyplm/compiler"
	"github.com/DMAW-3000/pyplm/lang/plm"
)

var (
	startProc string
	optimize  bool
	external  string
	initData  bool
	trailer   = trailerFlag{v: compiler.TrailerRET}
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pyplm <infile> <outfile>",
		Short:         "Compile a PL/M source file to Intel 8080 assembly",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return compile(args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&startProc, "start", "s", "", "entry procedure; reached via RET instead of falling through to the trailer")
	flags.BoolVarP(&optimize, "optimize", "o", false, "enable the peephole optimizer")
	flags.StringVarP(&external, "external", "e", "", "assembly `file` to inline before the trailer")
	flags.BoolVarP(&initData, "initialize", "i", false, "zero-initialise declared but uninitialised data")
	flags.VarP(&trailer, "trailer", "t", "exit handler at __ENDCOM: one of hlt, ret, mon")

	return cmd
}

// compile reads infile, runs it through the compiler and lang/plm parser,
// and writes the resulting assembly listing to outfile. Mirrors pyplm.py's
// main(): read source, parse, fixup, output — with every step's error
// returned instead of main() calling sys.exit directly.
func compile(infile, outfile string) error {
	src, err := os.ReadFile(infile)
	if err != nil {
		return errors.Wrapf(err, "reading %s", infile)
	}

	c := compiler.New(optimize, initData, startProc)
	p := plm.NewParser(c, string(src))
	if err := p.Parse(); err != nil {
		return err
	}
	if !c.Ok() {
		return errors.Errorf("%v", c.Errs())
	}

	c.Fixup()

	out, err := os.Create(outfile)
	if err != nil {
		return errors.Wrapf(err, "creating %s", outfile)
	}
	defer out.Close()

	if err := c.Output(out, external, readExternalFile, trailer.v); err != nil {
		return errors.Wrap(err, "writing output")
	}
	return nil
}

// readExternalFile adapts os.ReadFile to the string-returning signature
// compiler.Output expects for inlining an external assembly file.
func readExternalFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
