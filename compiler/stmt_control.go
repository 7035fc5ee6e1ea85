package compiler

// DoStatement opens a plain `DO; ... END;` block with no loop-back label.
// Mirrors pyplm.py p_do_statement.
func (c *Compiler) DoStatement() {
	c.em.markStatement(c.optimize)
	c.ctrl.pushPlain()
}

// DoWhileStatement opens `DO WHILE cond; ... END;`. cond is evaluated at
// the loop top; when it is false control jumps straight to the exit label
// the matching END will emit. Mirrors pyplm.py p_do_while_statement.
func (c *Compiler) DoWhileStatement(cond *Node) error {
	c.em.markStatement(c.optimize)
	top := c.em.newLabel()
	exit := c.em.newLabel()
	c.em.emitLabel(top, c.optimize)
	if _, err := collapseLeft(c, cond); err != nil {
		return err
	}
	c.em.emit("XRA A  ; A = 0", 1)
	c.em.emit("CMP E  ; rel result", 1)
	c.em.emit("JZ "+exit+"  ; skip while", 3)
	c.ctrl.pushLoop(exit, top)
	return nil
}

// DoCaseStatement opens `DO CASE expr; ...END;`, emitting the indexed
// jump-table dispatch. Mirrors pyplm.py p_do_case_statement.
func (c *Compiler) DoCaseStatement(expr *Node) error {
	c.em.markStatement(c.optimize)
	table := c.em.newLabel()
	exit := c.em.newLabel()
	width, err := collapseLeft(c, expr)
	if err != nil {
		return err
	}
	if width == 1 {
		c.em.emit("MVI D,000H  ; zero pad CASE MSB", 2)
	}
	c.em.emit("LXI H,"+table+"  ; CASE table", 3)
	c.em.emit("XCHG", 1)
	c.em.emit("DAD H  ; index << 1", 1)
	c.em.emit("DAD D  ; CASE table offset", 1)
	c.em.emit("MOV E,M", 1)
	c.em.emit("INX H", 1)
	c.em.emit("MOV D,M", 1)
	c.em.emit("XCHG", 1)
	c.em.emit("PCHL  ; go to CASE", 1)
	cf := &caseFrame{tableLabel: table, firstChild: true, caseLabels: []string{exit}}
	c.ctrl.pushCase(exit, cf)
	c.caseTables = append(c.caseTables, cf)
	return nil
}

// DoToStatement opens a counted `DO ident = a TO b [BY c]; ... END;` loop.
// Mirrors pyplm.py p_do_to_statement.
func (c *Compiler) DoToStatement(sym *Symbol, from, to, by *Node) error {
	if sym == nil || !sym.IsVariable() {
		return errorf("DO variable must be scalar")
	}
	c.em.markStatement(c.optimize)
	top := c.em.newLabel()
	exit := c.em.newLabel()
	testEntry := c.em.newLabel()

	fromWidth, err := collapseLeft(c, from)
	if err != nil {
		return err
	}
	if fromWidth > sym.Size {
		return errorf("DO variable %s overflow", sym.Name)
	}
	if sym.Size == 1 {
		c.em.emit("MOV A,E", 1)
	} else {
		if fromWidth == 1 {
			c.em.emit("MVI D,000H  ; zero pad MSB", 2)
		}
		c.em.emit("XCHG     ; from D,E", 1)
	}
	c.em.emit("JMP "+testEntry+"  ; DO first iter", 3)
	c.em.emitLabel(top, c.optimize)

	toWidth, err := collapseLeft(c, to)
	if err != nil {
		return err
	}
	if toWidth > sym.Size {
		return errorf("DO variable %s overflow", sym.Name)
	}

	byLiteral := -1
	byWidth := 0
	if by != nil {
		if by.op == opLiteral {
			byLiteral = by.lit
		} else {
			save := by.op >= opAdd
			if save {
				c.em.emit("PUSH D  ; save left DO", 1)
			}
			byWidth, err = collapseRight(c, by)
			if err != nil {
				return err
			}
			if byWidth > sym.Size {
				return errorf("DO variable %s overflow", sym.Name)
			}
			if save {
				c.em.emit("POP D  ; restore left DO", 1)
			}
		}
	}

	if sym.Size == 1 {
		c.em.emit("LDA "+sym.Name+"  ; DO load", 3)
		switch {
		case by == nil:
			c.em.emit("INR A   ; DO update", 1)
		case byLiteral >= 0:
			c.em.emit("ADI "+formatByte(byLiteral)+"  ; DO update", 2)
		default:
			c.em.emit("ADD C  ; DO update", 1)
		}
		c.em.emit("CMP E   ; DO <=", 1)
		c.em.emit("JZ "+testEntry+"   ; = ", 3)
		c.em.emit("JNC "+exit+"  ; > DO complete", 3)
	} else {
		highEq := c.em.newLabel()
		if by != nil && byLiteral < 0 && byWidth == 1 {
			c.em.emit("MVI B,000H  ; zero pad MSB", 2)
		}
		if toWidth == 1 {
			c.em.emit("MVI D,000H  ; zero pad MSB", 2)
		}
		c.em.emit("LHLD "+sym.Name+"  ; DO load", 3)
		switch {
		case by == nil:
			c.em.emit("INX H    ; DO update", 1)
		case byLiteral >= 0:
			c.em.emit("LXI B,"+formatWord(byLiteral), 3)
			c.em.emit("DAD B  ; DO update", 1)
		default:
			c.em.emit("DAD B  ; DO update", 1)
		}
		c.em.emit("MOV A,H", 1)
		c.em.emit("CMP D   ; DO <=", 1)
		c.em.emit("JZ "+highEq+"   ; =", 3)
		c.em.emit("JNC "+exit+"  ; > DO complete", 3)
		c.em.emit("JMP "+testEntry+"  ; <", 3)
		c.em.emitLabel(highEq, c.optimize)
		c.em.emit("MOV A,L", 1)
		c.em.emit("CMP E   ; DO <=", 1)
		c.em.emit("JZ "+testEntry+"   ; =", 3)
		c.em.emit("JNC "+exit+"  ; > DO complete", 3)
	}
	c.em.emitLabel(testEntry, c.optimize)
	if sym.Size == 1 {
		c.em.emit("STA "+sym.Name+"  ; DO assign", 3)
	} else {
		c.em.emit("SHLD "+sym.Name+"  ; DO assign", 3)
	}
	c.ctrl.pushLoop(exit, top)
	return nil
}

// EndStatement closes the innermost DO frame: if a loop-back label is set,
// a JMP to it is emitted before the exit label(s). Mirrors pyplm.py
// p_end_statement.
func (c *Compiler) EndStatement() error {
	f, _, err := c.ctrl.pop()
	if err != nil {
		return err
	}
	c.em.markStatement(c.optimize)
	if f.loopLabel != "" {
		c.em.emit("JMP "+f.loopLabel+"  ; END", 3)
	}
	for _, l := range f.exitLabels {
		c.em.emitLabel(l, c.optimize)
	}
	return nil
}

// GotoStatement emits an unconditional jump to a label resolved later by
// the external assembler.
func (c *Compiler) GotoStatement(label string) {
	c.em.markStatement(c.optimize)
	c.em.emit("JMP "+label+"  ; GO TO", 3)
}

// IfThen implements `IF cond THEN stmt`. The THEN body must already have
// been generated (and left as the single most-recent statement) by the
// time this is called; it is popped, the condition test is spliced in
// front of it, and it is replayed with its addresses shifted. If the THEN
// body itself opened a DO (hadDo), the skip label is folded into that DO's
// exit label set instead of being emitted directly — matching
// pyplm.py's p_if_then_statement p[4] handling.
func (c *Compiler) IfThen(cond *Node, hadDo bool) error {
	popped := c.em.popStatement(c.optimize)
	oldPC := c.em.pc
	c.em.markStatement(c.optimize)
	if _, err := collapseLeft(c, cond); err != nil {
		return err
	}
	skip := c.em.newLabel()
	c.em.emit("XRA A  ; A = 0", 1)
	c.em.emit("CMP E  ; rel result", 1)
	c.em.emit("JZ "+skip+"  ; skip if", 3)
	c.em.commit(c.optimize)
	size := c.em.pc - oldPC
	replay(c, popped, size)
	if hadDo {
		f, _, err := c.ctrl.pop()
		if err != nil {
			return err
		}
		f.exitLabels = []string{skip}
		c.ctrl.frames = append(c.ctrl.frames, f)
		c.ctrl.cases = append(c.ctrl.cases, nil)
	} else {
		c.em.emitLabel(skip, c.optimize)
	}
	return nil
}

// Else implements the `ELSE stmt` suffix of an IF/THEN. hadDo mirrors the
// same convention as IfThen's. Mirrors pyplm.py p_else_statement.
func (c *Compiler) Else(hadDo bool) error {
	popped := c.em.popStatement(c.optimize)
	skipElse := c.em.newLabel()

	// The label most recently appended by IfThen is the skip-if target;
	// pop it back off so we can splice a JMP before it instead of after.
	n := len(c.sym.located) - 1
	thenSkip := c.sym.located[n]
	c.sym.located = c.sym.located[:n]

	c.em.emit("JMP "+skipElse+"  ; skip else", 3)
	c.em.emitLabel(thenSkip.Name, c.optimize)
	c.em.markStatement(c.optimize)
	replay(c, popped, 3)

	if hadDo {
		f, _, err := c.ctrl.pop()
		if err != nil {
			return err
		}
		f.exitLabels = []string{skipElse}
		c.ctrl.frames = append(c.ctrl.frames, f)
		c.ctrl.cases = append(c.ctrl.cases, nil)
	} else {
		c.em.emitLabel(skipElse, c.optimize)
	}
	return nil
}

// replay re-appends symbols popped by popStatement, shifting their
// addresses by shift (the byte size of whatever was spliced in front of
// them) and restoring the PC for any CodeBlocks among them.
func replay(c *Compiler, popped []*Symbol, shift int) {
	for _, sym := range popped {
		if sym.Kind == KindCodeBlock {
			c.em.pc += sym.Size
		}
		sym.Addr += shift
		c.sym.located = append(c.sym.located, sym)
		c.em.stateCount++
	}
}
