package compiler_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/DMAW-3000/pyplm/compiler"
)

func TestCheckClosedDetectsUnmatchedDo(t *testing.T) {
	c := compiler.New(false, false, "")
	c.DoStatement()
	if err := c.CheckClosed(); err == nil {
		t.Fatal("expected CheckClosed to report the still-open DO")
	}
}

func TestCheckClosedOkWhenBalanced(t *testing.T) {
	c := compiler.New(false, false, "")
	c.DoStatement()
	if err := c.EndStatement(); err != nil {
		t.Fatalf("EndStatement: %v", err)
	}
	if err := c.CheckClosed(); err != nil {
		t.Fatalf("expected balanced DO/END to close cleanly: %v", err)
	}
}

func TestLookupAndInProcedure(t *testing.T) {
	c := compiler.New(false, false, "")
	if c.Lookup("X") != nil {
		t.Fatal("expected unknown identifier to resolve to nil")
	}
	if _, err := c.DeclareProcedure("P", nil, 0, false); err != nil {
		t.Fatalf("DeclareProcedure: %v", err)
	}
	if !c.InProcedure() {
		t.Fatal("expected InProcedure true while P's body is open")
	}
	if err := c.BeginCodeStatement(); err != nil {
		t.Fatalf("BeginCodeStatement: %v", err)
	}
	if err := c.EndProcedure("P"); err != nil {
		t.Fatalf("EndProcedure: %v", err)
	}
	if c.InProcedure() {
		t.Fatal("expected InProcedure false once P is closed")
	}
}

func TestWrapCondWrapsBareIdentButNotRelational(t *testing.T) {
	c := compiler.New(false, false, "")
	if err := c.DeclareVariable("X", compiler.Byte); err != nil {
		t.Fatalf("DeclareVariable: %v", err)
	}
	sym := c.Lookup("X")
	if sym == nil {
		t.Fatal("expected X to resolve")
	}

	// A bare identifier used as a condition must go through Truthify
	// (compiler.WrapCond's element_expr branch); an already-relational
	// node must not be re-wrapped.
	bare := compiler.WrapCond(compiler.Ident("X", sym))
	rel := compiler.WrapCond(compiler.Eq(compiler.Ident("X", sym), compiler.Lit(1)))

	if err := c.DoWhileStatement(bare); err != nil {
		t.Fatalf("DoWhileStatement(bare): %v", err)
	}
	if err := c.EndStatement(); err != nil {
		t.Fatalf("EndStatement: %v", err)
	}
	if err := c.DoWhileStatement(rel); err != nil {
		t.Fatalf("DoWhileStatement(rel): %v", err)
	}
	if err := c.EndStatement(); err != nil {
		t.Fatalf("EndStatement: %v", err)
	}

	c.Fixup()
	var buf strings.Builder
	if err := c.Output(&buf, "", nil, compiler.TrailerHLT); err != nil {
		t.Fatalf("Output: %v", err)
	}
	if !c.Ok() {
		t.Fatalf("compiler errors: %v", c.Errs())
	}
	out := buf.String()
	if got := strings.Count(out, "; bool"); got != 1 {
		t.Fatalf("expected exactly one BoolOp (the bare identifier), got %d", got)
	}
	if !strings.Contains(out, "HLT") {
		t.Fatal("expected the HLT trailer to be selected")
	}
}

func TestOutputFailsExternalReadPropagates(t *testing.T) {
	c := compiler.New(false, false, "")
	c.Fixup()
	var buf strings.Builder
	wantErr := errors.New("boom")
	readErr := func(string) (string, error) { return "", wantErr }
	err := c.Output(&buf, "extern.asm", readErr, compiler.TrailerRET)
	if err != wantErr {
		t.Fatalf("expected Output to propagate readExternal's error, got %v", err)
	}
}
