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

package plm

import (
	"fmt"
	"strings"
)

// Diagnostic is one positioned parse/semantic failure.
type Diagnostic struct {
	Line int
	Msg  string
}

// ErrorList collects every Diagnostic raised while parsing a source file,
// mirroring the teacher's asm.ErrAsm ([]struct{Pos; Msg} implementing
// error). Parse bails out of the grammar on the first Diagnostic (pyplm is
// single-pass, spec.md §5: no suspension or resumable parse state), so in
// practice ErrorList holds exactly one entry, but it keeps the same shape
// callers would get from a parser that accumulated several.
type ErrorList []Diagnostic

func (e ErrorList) Error() string {
	l := make([]string, 0, len(e))
	for _, d := range e {
		l = append(l, fmt.Sprintf("line %d: %s", d.Line, d.Msg))
	}
	return strings.Join(l, "\n")
}
