package compiler

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var warnColor = color.New(color.FgYellow)

// warnf prints a non-fatal diagnostic to stderr (spec.md §7 "Warnings").
// Unlike fail, it never aborts compilation.
func warnf(format string, args ...interface{}) {
	warnColor.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}
