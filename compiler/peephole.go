package compiler

import (
	"strconv"
	"strings"
)

// peephole runs the three local rewrite-rule families on a pending
// instruction block to exhaustion, each family before the next (spec.md
// §4.7). It mutates code in place and decrements pc by whatever bytes the
// rewrites save. Mirrors pyplm.py opt0/opt1/opt2/optimize.
func peephole(code *[]string, pc *int) {
	for pairCancelFuse(code, pc) {
	}
	for immediateCoalesce(code, pc) {
	}
	for tailCallConvert(code, pc) {
	}
}

// stripComment removes a trailing "  ; ..." comment and surrounding space.
func stripComment(line string) string {
	if i := strings.Index(line, ";"); i > 0 {
		return strings.TrimRight(line[:i], " \t")
	}
	return strings.TrimRight(line, " \t")
}

// splitArgs splits an instruction line (sans comment) into its mnemonic
// and raw operand text, e.g. "MVI E,001H" -> ("MVI E", "001H").
func splitArgs(line string) (instrArg1, arg2 string) {
	s := stripComment(line)
	if i := strings.LastIndex(s, ","); i > 0 {
		return strings.TrimRight(s[:i], " "), strings.TrimSpace(s[i+1:])
	}
	return strings.TrimRight(s, " "), ""
}

func firstToken(line string) string {
	s := stripComment(line)
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func removeAt(code *[]string, idx, n int) {
	*code = append((*code)[:idx], (*code)[idx+n:]...)
}

func replaceAt(code *[]string, idx, n int, line string) {
	rest := append([]string{line}, (*code)[idx+n:]...)
	*code = append((*code)[:idx], rest...)
}

// pairCancelFuse implements: "XCHG;XCHG;" -> removed, and
// "MOV C,M;MOV A,C;" -> "MOV A,M;".
func pairCancelFuse(code *[]string, pc *int) bool {
	c := *code
	for n := 0; n < len(c)-1; n++ {
		this, next := stripComment(c[n]), stripComment(c[n+1])
		switch {
		case this == "XCHG" && next == "XCHG":
			removeAt(code, n, 2)
			*pc -= 2
			return true
		case this == "MOV C,M" && next == "MOV A,C":
			replaceAt(code, n, 2, "MOV A,M  ; OPT MOVMCA")
			*pc -= 1
			return true
		}
	}
	return false
}

// immediateCoalesce implements: "MVI E,lo;MVI D,hi;" -> "LXI D,hihilo;",
// "MVI C,lo;MVI B,hi;" -> "LXI B,hihilo;", and "MVI C,v;MOV A,C;" ->
// "MVI A,v;".
func immediateCoalesce(code *[]string, pc *int) bool {
	c := *code
	for n := 0; n < len(c)-1; n++ {
		thisInstr, thisArg2 := splitArgs(c[n])
		nextInstr, nextArg2 := splitArgs(c[n+1])
		switch {
		case thisInstr == "MVI E" && nextInstr == "MVI D":
			low, lerr := parseHex(thisArg2)
			high, herr := parseHex(nextArg2)
			if lerr != nil || herr != nil {
				continue
			}
			replaceAt(code, n, 2, "LXI D,"+formatWord((high<<8)+low)+"  ; OPT MVIED")
			*pc -= 1
			return true
		case thisInstr == "MVI C" && nextInstr == "MVI B":
			low, lerr := parseHex(thisArg2)
			high, herr := parseHex(nextArg2)
			if lerr != nil || herr != nil {
				continue
			}
			replaceAt(code, n, 2, "LXI B,"+formatWord((high<<8)+low)+"  ; OPT MVICB")
			*pc -= 1
			return true
		case thisInstr == "MVI C" && nextInstr == "MOV A" && nextArg2 == "C":
			val, err := parseHex(thisArg2)
			if err != nil {
				continue
			}
			replaceAt(code, n, 2, "MVI A,"+formatByte(val)+"  ; OPT MVICA")
			*pc -= 1
			return true
		}
	}
	return false
}

// tailCallConvert implements: "CALL f;RET;" -> "JMP f;".
func tailCallConvert(code *[]string, pc *int) bool {
	c := *code
	for n := 0; n < len(c)-1; n++ {
		if firstToken(c[n]) == "CALL" && firstToken(c[n+1]) == "RET" {
			instr, _ := splitArgs(c[n])
			target := strings.TrimSpace(strings.TrimPrefix(instr, "CALL"))
			replaceAt(code, n, 2, "JMP "+target+"  ; OPT CALLRET")
			*pc -= 1
			return true
		}
	}
	return false
}

// parseHex parses an assembler-format hex literal like "005H" or "01234H".
func parseHex(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "H")
	n, err := strconv.ParseInt(s, 16, 32)
	return int(n), err
}
