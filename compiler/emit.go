package compiler

// emitter tracks the program counter and the pending instruction buffer
// between statement boundaries (C3 §4.3). It owns the synthetic label
// counter too, since labels are always relative to "the next free address".
type emitter struct {
	pc      int
	pcSave  int
	code    []string
	labelN  int
	symbols *symtab

	stateCount int  // lines/symbols appended since the last mark, for popStatement
	execState  bool // false while still inside declarations
}

// entryPC is the load address assumed by the 8080 CP/M-style program image.
const entryPC = 0x0100

func newEmitter(t *symtab) *emitter {
	return &emitter{pc: entryPC, pcSave: entryPC, symbols: t}
}

// emit appends an instruction line and advances the PC by its encoded size.
func (e *emitter) emit(line string, size int) {
	e.code = append(e.code, line)
	e.pc += size
}

// newLabel returns a unique synthetic label of the shape __L00000 (spec.md
// §6).
func (e *emitter) newLabel() string {
	n := e.labelN
	e.labelN++
	return formatLabel(n)
}

func formatLabel(n int) string {
	const digits = "0123456789"
	buf := [5]byte{'0', '0', '0', '0', '0'}
	for i := 4; i >= 0 && n > 0; i-- {
		buf[i] = digits[n%10]
		n /= 10
	}
	return "__L" + string(buf[:])
}

// commit seals the pending instruction buffer: runs the peephole pass, then
// attaches a CodeBlock symbol for it (if non-empty) and resets pcSave to the
// current PC. Mirrors pyplm.py emit_code.
func (e *emitter) commit(opt bool) {
	if len(e.code) > 0 {
		if opt {
			peephole(&e.code, &e.pc)
		}
		cdata := append([]string(nil), e.code...)
		e.symbols.located = append(e.symbols.located, &Symbol{
			Kind: KindCodeBlock,
			Addr: e.pcSave,
			Size: e.pc - e.pcSave,
			Code: cdata,
		})
		e.code = e.code[:0]
		e.stateCount++
	}
	e.pcSave = e.pc
}

// emitLabel seals the pending block and appends a Label symbol at the
// current PC. Mirrors pyplm.py emit_label.
func (e *emitter) emitLabel(name string, opt bool) {
	e.commit(opt)
	e.symbols.located = append(e.symbols.located, &Symbol{
		Kind: KindLabel,
		Name: name,
		Addr: e.pc,
	})
	e.stateCount++
}

// markStatement commits the pending block and resets the per-statement
// symbol counter used by popStatement. Mirrors pyplm.py mark_statement.
func (e *emitter) markStatement(opt bool) {
	e.commit(opt)
	e.stateCount = 0
}

// popStatement removes the symbols appended since the last mark, in
// declaration order, rolling the PC back by the size of any CodeBlocks
// popped. Mirrors pyplm.py pop_statement; used by the procedure prologue
// splice (C6).
func (e *emitter) popStatement(opt bool) []*Symbol {
	e.commit(opt)
	var popped []*Symbol
	for i := 0; i < e.stateCount; i++ {
		n := len(e.symbols.located) - 1
		sym := e.symbols.located[n]
		e.symbols.located = e.symbols.located[:n]
		if sym.Kind == KindCodeBlock {
			e.pc -= sym.Size
		}
		popped = append(popped, sym)
	}
	// reverse to restore original order
	for i, j := 0, len(popped)-1; i < j; i, j = i+1, j-1 {
		popped[i], popped[j] = popped[j], popped[i]
	}
	return popped
}
