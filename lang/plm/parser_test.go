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

package plm_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DMAW-3000/pyplm/compiler"
	"github.com/DMAW-3000/pyplm/lang/plm"
)

// compileSrc runs src through a fresh Parser/Compiler and returns the
// rendered assembly text, failing the test on any parse or compile error.
func compileSrc(t *testing.T, src string, entry string) string {
	t.Helper()
	c := compiler.New(false, false, entry)
	p := plm.NewParser(c, src)
	require.NoError(t, p.Parse())
	require.True(t, c.Ok(), "compiler errors: %v", c.Errs())
	c.Fixup()

	var buf strings.Builder
	require.NoError(t, c.Output(&buf, "", nil, compiler.TrailerRET))
	return buf.String()
}

func TestProcedureCallAndReturn(t *testing.T) {
	src := `
DECLARE RESULT BYTE;
ADD: PROCEDURE (A, B) BYTE;
  DECLARE A BYTE;
  DECLARE B BYTE;
  RETURN A + B;
END ADD;

START: PROCEDURE;
  RESULT = ADD(1, 2);
END START;
`
	out := compileSrc(t, src, "START")
	assert.Contains(t, out, "ADD:")
	assert.Contains(t, out, "START:")
	assert.Contains(t, out, "__ENDCOM:")
	assert.Contains(t, out, "RET")
}

func TestIfThenElseWithBareDo(t *testing.T) {
	src := `
DECLARE X BYTE;
DECLARE Y BYTE;
IF X = 1 THEN DO;
  Y = 2;
END;
ELSE DO;
  Y = 3;
END;
`
	out := compileSrc(t, src, "")
	assert.Contains(t, out, "JZ")
	assert.Contains(t, out, "JMP")
}

func TestDoWhileAndDoTo(t *testing.T) {
	src := `
DECLARE X BYTE;
DECLARE I BYTE;
DO WHILE X <> 0;
  X = X - 1;
END;
DO I = 0 TO 9;
END;
`
	out := compileSrc(t, src, "")
	assert.Contains(t, out, "JZ")
}

func TestDoCase(t *testing.T) {
	src := `
DECLARE X BYTE;
DECLARE Y BYTE;
DO CASE X;
  Y = 1;
  Y = 2;
END;
`
	out := compileSrc(t, src, "")
	assert.Contains(t, out, "PCHL")
	assert.Contains(t, out, "DW")
}

func TestLiterallyAndArrayString(t *testing.T) {
	src := `
DECLARE WIDTH LITERALLY '8';
DECLARE MSG(*) BYTE DATA('HI');
DECLARE N BYTE DATA(WIDTH);
`
	out := compileSrc(t, src, "")
	assert.Contains(t, out, "MSG")
	assert.Contains(t, out, "N\tDB")
}

func TestGotoAndLabel(t *testing.T) {
	src := `
L1: DECLARE X BYTE;
GO TO L1;
`
	out := compileSrc(t, src, "")
	assert.Contains(t, out, "L1:")
	assert.Contains(t, out, "JMP L1")
}

func TestUnknownIdentifierProducesErrorList(t *testing.T) {
	c := compiler.New(false, false, "")
	p := plm.NewParser(c, "X = 1;\n")
	err := p.Parse()
	require.Error(t, err)
	var list plm.ErrorList
	require.ErrorAs(t, err, &list)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].Line)
	assert.Contains(t, list[0].Msg, "unknown identifier")
}

func TestUnclosedDoReportsCheckClosedError(t *testing.T) {
	c := compiler.New(false, false, "")
	p := plm.NewParser(c, "DECLARE X BYTE;\nDO WHILE X <> 0;\nX = X - 1;\n")
	err := p.Parse()
	require.Error(t, err)
}
