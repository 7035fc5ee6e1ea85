package compiler

import (
	"fmt"
	"io"

	"github.com/DMAW-3000/pyplm/internal/asmwriter"
)

// Fixup emits the final jump from the top-level code into the exit handler:
// an unconditional JMP __ENDCOM when no ENTRY procedure was named (so the
// image falls through into the trailer naturally), or a bare RET when one
// was (the named procedure's own prologue already arranged to return to
// __ENDCOM via the pushed exit address). Mirrors pyplm.py fixup(), and must
// be called exactly once, after the last top-level statement.
func (c *Compiler) Fixup() {
	if c.entry == "" {
		c.em.emit("JMP __ENDCOM  ; program end", 3)
	} else {
		c.em.emit("RET  ; program end", 1)
	}
	c.em.commit(c.optimize)
}

// Trailer selects the exit-handler instruction emitted at __ENDCOM.
type Trailer string

const (
	TrailerHLT Trailer = "hlt"
	TrailerRET Trailer = "ret"
	TrailerMon Trailer = "mon"
)

// Output serialises the compiled program as 8080 assembly text, in the
// same section order as pyplm.py's output(): header, located symbols
// (labels/arrays/variables/code in declaration order), CASE jump tables,
// anonymous `.( )` byte arrays, an optional inlined external-assembly file,
// the exit trailer, uninitialised (unlocated) symbols, and a closing
// MEMORY label marking the rest of user RAM.
func (c *Compiler) Output(w io.Writer, externPath string, readExternal func(string) (string, error), trailer Trailer) error {
	out := asmwriter.New(w)

	outputHeader(out)

	for _, sym := range c.sym.located[c.sym.pseudoCount:] {
		switch sym.Kind {
		case KindLabel:
			out.Printf("%s:     ; %04x\n", sym.Name, sym.Addr)
		case KindArray, KindAtArray, KindBasedArray:
			outputArray(out, sym, c.dataInit)
		case KindVariable, KindAtVariable, KindBasedVariable:
			outputVariable(out, sym, c.dataInit)
		case KindCodeBlock:
			outputCode(out, sym.Code)
		}
	}

	for _, cf := range c.caseTables {
		out.Printf("%s:\tDW  ", cf.tableLabel)
		entries := cf.caseLabels[1:]
		for n, l := range entries {
			out.WriteString(l)
			if n != len(entries)-1 {
				out.WriteString(", ")
			}
		}
		out.WriteString("\n")
	}

	for _, sym := range c.sym.anon {
		sym.Addr = c.em.pc
		c.em.pc += sym.Size
		outputArray(out, sym, c.dataInit)
	}

	if externPath != "" {
		text, err := readExternal(externPath)
		if err != nil {
			return err
		}
		out.WriteString("\n")
		out.WriteString(text)
		out.WriteString("\n")
	}

	outputTrailer(out, trailer)

	for _, sym := range c.sym.unlocated {
		switch sym.Kind {
		case KindArray:
			outputArray(out, sym, c.dataInit)
		case KindVariable:
			outputVariable(out, sym, c.dataInit)
		}
	}

	out.WriteString("MEMORY:\n")
	return out.Err
}

func outputHeader(out *asmwriter.W) {
	out.WriteString(";\n")
	out.WriteString("; File generated by pyplm compiler\n")
	out.WriteString(";\n")
	out.WriteString("\n\tORG 0100H\n\n")
}

func outputCode(out *asmwriter.W, lines []string) {
	for _, line := range lines {
		out.Printf("\t%s\n", line)
	}
}

// outputArray writes a located or unlocated array's storage directive.
// BasedArray/AtArray symbols reference another symbol's address and carry
// no storage of their own, so they are skipped entirely.
func outputArray(out *asmwriter.W, sym *Symbol, dataInit bool) {
	if sym.Kind == KindBasedArray || sym.Kind == KindAtArray {
		return
	}
	values := sym.Value
	if dataInit && values == nil {
		values = make([]InitValue, sym.Size/int(sym.ElemSize))
	}
	if n := sym.NumElements(); values != nil && len(values) < n {
		values = append(append([]InitValue(nil), values...), make([]InitValue, n-len(values))...)
	}
	var line string
	if sym.ElemSize == Byte {
		line = sym.Name + "\tDB  "
		if values == nil {
			line += fmt.Sprintf("%d  DUP(?)", sym.Size)
		} else {
			for n, v := range values {
				line += formatByte(v.Num)
				if n != len(values)-1 {
					line += ","
				}
			}
		}
	} else {
		line = sym.Name + "\tDW  "
		if values == nil {
			line += fmt.Sprintf("%d  DUP(?)", sym.Size>>1)
		} else {
			for n, v := range values {
				if v.IsRef {
					line += v.Ref
				} else {
					line += formatWord(v.Num)
				}
				if n != len(values)-1 {
					line += ","
				}
			}
		}
	}
	line += fmt.Sprintf("    ; %04x\n", sym.Addr)
	out.WriteString(line)
}

// outputVariable writes a located or unlocated scalar's storage directive.
// BasedVariable/BasedStruct/AtVariable symbols reference another symbol's
// address and carry no storage of their own, so they are skipped entirely.
func outputVariable(out *asmwriter.W, sym *Symbol, dataInit bool) {
	if sym.Kind == KindBasedVariable || sym.Kind == KindBasedStruct || sym.Kind == KindAtVariable {
		return
	}
	var value *InitValue
	if len(sym.Value) == 1 {
		value = &sym.Value[0]
	}
	if dataInit && value == nil {
		value = &InitValue{}
	}
	var line string
	if value == nil {
		if sym.Size == 1 {
			line = sym.Name + "\tDS  1"
		} else {
			line = sym.Name + "\tDS  2"
		}
	} else if sym.Size == 1 {
		line = fmt.Sprintf("%s\tDB  %s", sym.Name, formatByte(value.Num))
	} else {
		line = sym.Name + "\tDW  "
		if value.IsRef {
			line += value.Ref
		} else {
			line += formatWord(value.Num)
		}
	}
	line += fmt.Sprintf("    ; %04x\n", sym.Addr)
	out.WriteString(line)
}

func outputTrailer(out *asmwriter.W, trailer Trailer) {
	out.WriteString("__ENDCOM:\n")
	switch trailer {
	case TrailerMon:
		out.WriteString("\tRST 001H  ; go to MON80 debug trap\n")
	case TrailerHLT:
		out.WriteString("\tHLT  ; halt\n")
	default:
		out.WriteString("\tRET  ; return to caller (CP/M ...)\n")
	}
}
