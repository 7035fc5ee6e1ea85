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

// Package asmwriter wraps an io.Writer so that assembly emission code can
// write without checking every call; the first error is sticky and
// retrievable once at the end.
package asmwriter

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// W is a simple error-tracking wrapper around an io.Writer. Once Err is
// set, every subsequent WriteString/Printf is a no-op that keeps returning
// it.
type W struct {
	w   io.Writer
	Err error
}

// New returns a W writing to w.
func New(w io.Writer) *W {
	return &W{w: w}
}

// WriteString appends s, tracking the first write error encountered.
func (w *W) WriteString(s string) {
	if w.Err != nil {
		return
	}
	if _, err := io.WriteString(w.w, s); err != nil {
		w.Err = errors.Wrap(err, "asmwriter: write failed")
	}
}

// Printf formats and appends, tracking the first write error encountered.
func (w *W) Printf(format string, args ...interface{}) {
	w.WriteString(fmt.Sprintf(format, args...))
}
