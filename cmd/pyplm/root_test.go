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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DMAW-3000/pyplm/compiler"
)

func TestCompileWritesAssembly(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prog.plm")
	out := filepath.Join(dir, "prog.asm")

	require.NoError(t, os.WriteFile(in, []byte("DECLARE X BYTE;\nX = 1;\n"), 0o644))

	startProc, optimize, external, initData = "", false, "", false
	trailer = trailerFlag{v: compiler.TrailerRET}

	require.NoError(t, compile(in, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ORG 0100H")
	assert.Contains(t, string(data), "__ENDCOM:")
}

func TestCompileMissingInputFile(t *testing.T) {
	dir := t.TempDir()
	err := compile(filepath.Join(dir, "missing.plm"), filepath.Join(dir, "out.asm"))
	assert.Error(t, err)
}

func TestCompileSyntaxErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.plm")
	out := filepath.Join(dir, "bad.asm")
	require.NoError(t, os.WriteFile(in, []byte("X = 1;\n"), 0o644))

	startProc, optimize, external, initData = "", false, "", false
	trailer = trailerFlag{v: compiler.TrailerRET}

	err := compile(in, out)
	assert.Error(t, err)
}

func TestTrailerFlagValidation(t *testing.T) {
	var f trailerFlag
	assert.NoError(t, f.Set("hlt"))
	assert.Equal(t, compiler.TrailerHLT, f.v)
	assert.Error(t, f.Set("bogus"))
	assert.Equal(t, "trailer", f.Type())
}

func TestRootCmdRequiresTwoArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"one-arg-only.plm"})
	cmd.SetOut(os.Stderr)
	err := cmd.Execute()
	assert.Error(t, err)
}
