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
	"github.com/pkg/errors"

	"github.com/DMAW-3000/pyplm/compiler"
)

// trailerFlag adapts compiler.Trailer to pflag.Value, the same
// validated-custom-flag-type idiom the teacher uses for cellSizeBits in
// cmd/retro/main.go (Set rejects anything outside the fixed choice set
// instead of silently accepting garbage).
type trailerFlag struct {
	v compiler.Trailer
}

func (t *trailerFlag) String() string {
	if t.v == "" {
		return string(compiler.TrailerRET)
	}
	return string(t.v)
}

func (t *trailerFlag) Set(s string) error {
	switch compiler.Trailer(s) {
	case compiler.TrailerHLT, compiler.TrailerRET, compiler.TrailerMon:
		t.v = compiler.Trailer(s)
		return nil
	default:
		return errors.Errorf("%q is not one of hlt, ret, mon", s)
	}
}

func (t *trailerFlag) Type() string { return "trailer" }
