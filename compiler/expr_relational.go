package compiler

// relEpilogue emits the shared true/false tail every relational operator
// ends with: true-value assignment, jump past the false branch, false
// label, false-value assignment, done label. lFalse/lDone must already be
// allocated by the caller. Grounded on the `if left: MVI E,001H ...`
// tail repeated in every pyplm.py relational _collapse_common.
func relEpilogue(c *Compiler, left bool, lFalse, lDone string) {
	if left {
		c.em.emit("MVI E,001H  ; rel true left", 2)
	} else {
		c.em.emit("MVI C,001H  ; rel true right", 2)
	}
	c.em.emit("JMP "+lDone, 3)
	c.em.emitLabel(lFalse, c.optimize)
	if left {
		c.em.emit("MVI E,000H  ; rel false left", 2)
	} else {
		c.em.emit("MVI C,000H  ; rel false right", 2)
	}
	c.em.emitLabel(lDone, c.optimize)
}

func collapseRelational(c *Compiler, n *Node, left bool) (int, error) {
	leftWidth, rightWidth, err := collapseArgs(c, n)
	if err != nil {
		return 0, err
	}
	maxWidth := leftWidth
	if rightWidth > maxWidth {
		maxWidth = rightWidth
	}
	lFalse := c.em.newLabel()
	lDone := c.em.newLabel()

	switch n.op {
	case opEq:
		if maxWidth == 1 {
			c.em.emit("MOV A,C", 1)
			c.em.emit("CMP E ; =", 1)
			c.em.emit("JNZ "+lFalse+" ; !=", 3)
		} else {
			zeroPadArgs(c, leftWidth, rightWidth)
			c.em.emit("MOV A,C", 1)
			c.em.emit("CMP E  ; =", 1)
			c.em.emit("JNZ "+lFalse+" ; !=", 3)
			c.em.emit("MOV A,B", 1)
			c.em.emit("CMP D  ; =", 1)
			c.em.emit("JNZ "+lFalse+" ; !=", 3)
		}

	case opNe:
		if maxWidth == 1 {
			c.em.emit("MOV A,C", 1)
			c.em.emit("CMP E ; <>", 1)
			c.em.emit("JZ "+lFalse+" ; =", 3)
		} else {
			lHigh := c.em.newLabel()
			lDiffer := c.em.newLabel()
			zeroPadArgs(c, leftWidth, rightWidth)
			c.em.emit("MOV A,C", 1)
			c.em.emit("CMP E  ; <>", 1)
			c.em.emit("JZ "+lHigh+"  ; =", 3)
			c.em.emit("JMP "+lDiffer+" ; !=", 3)
			c.em.emitLabel(lHigh, c.optimize)
			c.em.emit("MOV A,B", 1)
			c.em.emit("CMP D  ; <>", 1)
			c.em.emit("JZ "+lFalse+" ; =", 3)
			c.em.emitLabel(lDiffer, c.optimize)
		}

	case opLt:
		if maxWidth == 1 {
			c.em.emit("MOV A,C", 1)
			c.em.emit("CMP E  ; < ", 1)
			c.em.emit("JC "+lFalse, 3)
			c.em.emit("JZ "+lFalse, 3)
		} else {
			lEq := c.em.newLabel()
			lLt := c.em.newLabel()
			zeroPadArgs(c, leftWidth, rightWidth)
			c.em.emit("MOV A,D", 1)
			c.em.emit("CMP B  ; <", 1)
			c.em.emit("JZ "+lEq+"   ; =", 3)
			c.em.emit("JNC "+lFalse+"  ; >", 3)
			c.em.emit("JMP "+lLt+"  ; <", 3)
			c.em.emitLabel(lEq, c.optimize)
			c.em.emit("MOV A,E", 1)
			c.em.emit("CMP C  ; <", 1)
			c.em.emit("JNC "+lFalse+" ; >=", 3)
			c.em.emitLabel(lLt, c.optimize)
		}

	case opGt:
		if maxWidth == 1 {
			c.em.emit("MOV A,C", 1)
			c.em.emit("CMP E  ; > ", 1)
			c.em.emit("JNC "+lFalse, 3)
		} else {
			lEq := c.em.newLabel()
			lGt := c.em.newLabel()
			zeroPadArgs(c, leftWidth, rightWidth)
			c.em.emit("MOV A,D", 1)
			c.em.emit("CMP B   ; >", 1)
			c.em.emit("JC "+lFalse+"   ; <", 3)
			c.em.emit("JZ "+lEq+"   ; =", 3)
			c.em.emit("JMP "+lGt+"  ; >", 3)
			c.em.emitLabel(lEq, c.optimize)
			c.em.emit("MOV A,E", 1)
			c.em.emit("CMP C  ; >", 1)
			c.em.emit("JC "+lFalse+"  ; <", 3)
			c.em.emit("JZ "+lFalse+"  ; =", 3)
			c.em.emitLabel(lGt, c.optimize)
		}

	case opLe:
		if maxWidth == 1 {
			c.em.emit("MOV A,C", 1)
			c.em.emit("CMP E   ; <=", 1)
			c.em.emit("JC "+lFalse, 3)
		} else {
			lEq := c.em.newLabel()
			lLe := c.em.newLabel()
			zeroPadArgs(c, leftWidth, rightWidth)
			c.em.emit("MOV A,D", 1)
			c.em.emit("CMP B  ; <=", 1)
			c.em.emit("JZ "+lEq+" ; =", 3)
			c.em.emit("JNC "+lFalse+"  ; >", 3)
			c.em.emit("JMP "+lLe+"  ; <", 3)
			c.em.emitLabel(lEq, c.optimize)
			c.em.emit("MOV A,E", 1)
			c.em.emit("CMP C  ; <=", 1)
			c.em.emit("JZ "+lLe+"  ; =", 3)
			c.em.emit("JNC "+lFalse+"  ; >", 3)
			c.em.emitLabel(lLe, c.optimize)
		}

	case opGe:
		// The CMP-E/CMP-C register shape is identical to the width-1 LE case
		// above, inverted: equal or carry-set both mean left>=right (true),
		// and the remaining case (no carry, not zero) means left<right and
		// jumps to false. A Ltrue label is introduced before the true-branch
		// assignment so both the JZ and the carry fallthrough land on it (resolves spec.md §9 Open
		// Question 1 — the width-1 case here referenced an undefined label
		// in the distillation source).
		if maxWidth == 1 {
			lTrue := c.em.newLabel()
			c.em.emit("MOV A,C", 1)
			c.em.emit("CMP E  ; >= ", 1)
			c.em.emit("JZ "+lTrue+"   ; = ", 3)
			c.em.emit("JNC "+lFalse, 3)
			c.em.emitLabel(lTrue, c.optimize)
		} else {
			lEq := c.em.newLabel()
			lGe := c.em.newLabel()
			zeroPadArgs(c, leftWidth, rightWidth)
			c.em.emit("MOV A,D", 1)
			c.em.emit("CMP B  ; >=", 1)
			c.em.emit("JZ "+lEq+"  ; =", 3)
			c.em.emit("JC "+lFalse+"  ; <", 3)
			c.em.emit("JMP "+lGe+" ; >", 3)
			c.em.emitLabel(lEq, c.optimize)
			c.em.emit("MOV A,E", 1)
			c.em.emit("CMP C  ; >=", 1)
			c.em.emit("JC "+lFalse+"  ; <", 3)
			c.em.emitLabel(lGe, c.optimize)
		}
	}

	relEpilogue(c, left, lFalse, lDone)
	return 1, nil
}
