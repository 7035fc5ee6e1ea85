package compiler

func zeroPadArgs(c *Compiler, leftWidth, rightWidth int) {
	if rightWidth == 1 && leftWidth == 2 {
		c.em.emit("MVI B,000H  ; zero pad MSB", 2)
	} else if leftWidth == 1 && rightWidth == 2 {
		c.em.emit("MVI D,000H  ; zero pad MSB", 2)
	}
}

func collapseAddSub(c *Compiler, n *Node, left bool) (int, error) {
	leftWidth, rightWidth, err := collapseArgs(c, n)
	if err != nil {
		return 0, err
	}
	maxWidth := leftWidth
	if rightWidth > maxWidth {
		maxWidth = rightWidth
	}
	tag, instr := "+", "ADD"
	if n.op == opSub {
		tag, instr = "-", "SUB"
	}
	if maxWidth == 1 {
		c.em.emit("MOV A,E", 1)
		c.em.emit(instr+" C    ; "+tag+" "+side(left), 1)
		if left {
			c.em.emit("MOV E,A  ; result to E", 1)
		} else {
			c.em.emit("MOV C,A  ; result to C", 1)
		}
		return 1, nil
	}
	zeroPadArgs(c, leftWidth, rightWidth)
	if n.op == opAdd {
		c.em.emit("XCHG   ; from D,E", 1)
		c.em.emit("DAD B  ; + "+side(left), 1)
		if left {
			c.em.emit("XCHG   ; result to D,E", 1)
		} else {
			c.em.emit("MOV C,L  ; result to B,C", 1)
			c.em.emit("MOV B,H", 1)
		}
		return 2, nil
	}
	c.em.emit("MOV A,E", 1)
	c.em.emit("SUB C    ; - "+side(left), 1)
	if left {
		c.em.emit("MOV E,A", 1)
	} else {
		c.em.emit("MOV C,A", 1)
	}
	c.em.emit("MOV A,D", 1)
	c.em.emit("SBB B", 1)
	if left {
		c.em.emit("MOV D,A  ; result to D,E", 1)
	} else {
		c.em.emit("MOV B,A  ; result to B,C", 1)
	}
	return 2, nil
}

func collapseBitwise(c *Compiler, n *Node, left bool) (int, error) {
	leftWidth, rightWidth, err := collapseArgs(c, n)
	if err != nil {
		return 0, err
	}
	maxWidth := leftWidth
	if rightWidth > maxWidth {
		maxWidth = rightWidth
	}
	tag, instr := "&", "ANA"
	if n.op == opOr {
		tag, instr = "|", "ORA"
	}
	c.em.emit("MOV A,C", 1)
	c.em.emit(instr+" E    ; "+tag+" "+side(left), 1)
	if maxWidth == 1 {
		if left {
			c.em.emit("MOV E,A  ; result to E", 1)
		} else {
			c.em.emit("MOV C,A  ; result to C", 1)
		}
		return 1, nil
	}
	zeroPadArgs(c, leftWidth, rightWidth)
	if left {
		c.em.emit("MOV E,A", 1)
	} else {
		c.em.emit("MOV C,A", 1)
	}
	c.em.emit("MOV A,B", 1)
	c.em.emit(instr+" D", 1)
	if left {
		c.em.emit("MOV D,A  ; result to D,E", 1)
	} else {
		c.em.emit("MOV B,A  ; result to B,C", 1)
	}
	return 2, nil
}

func collapseMul(c *Compiler, n *Node, left bool) (int, error) {
	leftWidth, rightWidth, err := collapseArgs(c, n)
	if err != nil {
		return 0, err
	}
	if leftWidth == 1 {
		c.em.emit("MVI D,000H  ; zero pad MSB", 2)
	}
	l1 := c.em.newLabel()
	l2 := c.em.newLabel()
	if rightWidth == 1 {
		c.em.emit("MVI B,008H  ; * count", 2)
	} else {
		c.em.emit("MVI A,010H  ; * count", 2)
	}
	c.em.emit("LXI H,00000H  ; * init", 3)
	c.em.emitLabel(l1, c.optimize)
	if rightWidth == 2 {
		c.em.emit("PUSH PSW  ; * save count", 1)
		c.em.emit("MOV A,B", 1)
		c.em.emit("RAR", 1)
		c.em.emit("MOV B,A", 1)
	}
	c.em.emit("MOV A,C", 1)
	c.em.emit("RAR", 1)
	c.em.emit("MOV C,A", 1)
	c.em.emit("JNC "+l2+"  ; * check bits of right arg", 3)
	c.em.emit("DAD D", 1)
	c.em.emitLabel(l2, c.optimize)
	c.em.emit("XCHG", 1)
	c.em.emit("DAD H", 1)
	c.em.emit("XCHG", 1)
	if rightWidth == 1 {
		c.em.emit("DCR B  ; check count", 1)
	} else {
		c.em.emit("POP PSW ;  * check count", 1)
		c.em.emit("DCR A", 1)
	}
	c.em.emit("JNZ "+l1+" ;  * more bits", 3)
	if left {
		c.em.emit("XCHG  ; * result to D,E", 1)
	} else {
		c.em.emit("MOV C,L  ; * result to B,C", 1)
		c.em.emit("MOV B,H", 1)
	}
	return 2, nil
}

func collapseDiv(c *Compiler, n *Node, left bool) (int, error) {
	leftWidth, rightWidth, err := collapseArgs(c, n)
	if err != nil {
		return 0, err
	}
	if rightWidth == 1 {
		c.em.emit("MVI B,000H  ; zero pad MSB", 2)
	}
	if leftWidth == 1 {
		c.em.emit("MVI D,000H  ; zero pad MSB", 2)
	}
	l1 := c.em.newLabel()
	l2 := c.em.newLabel()
	c.em.emit("LXI H,00000H  ; / init", 3)
	c.em.emitLabel(l1, c.optimize)
	c.em.emit("MOV A,E", 1)
	c.em.emit("SUB C", 1)
	c.em.emit("MOV E,A", 1)
	c.em.emit("MOV A,D", 1)
	c.em.emit("SBB B", 1)
	c.em.emit("JC "+l2+"  ; / complete", 3)
	c.em.emit("MOV D,A", 1)
	c.em.emit("INX H", 1)
	c.em.emit("JMP "+l1+"  ; more /", 3)
	c.em.emitLabel(l2, c.optimize)
	if left {
		c.em.emit("XCHG  ; / result to D,E", 1)
	} else {
		c.em.emit("MOV C,L  ; / result to B,C", 1)
		c.em.emit("MOV B,H", 1)
	}
	return 2, nil
}

func collapseModOp(c *Compiler, n *Node, left bool) (int, error) {
	leftWidth, rightWidth, err := collapseArgs(c, n)
	if err != nil {
		return 0, err
	}
	if leftWidth == 1 {
		c.em.emit("MVI D,000H  ; zero pad MSB", 2)
	}
	if rightWidth == 1 {
		c.em.emit("MVI B,000H  ; zero pad MSB", 2)
	}
	l1 := c.em.newLabel()
	c.em.emitLabel(l1, c.optimize)
	c.em.emit("MOV A,E", 1)
	c.em.emit("SUB C", 1)
	c.em.emit("MOV E,A", 1)
	c.em.emit("MOV A,D", 1)
	c.em.emit("SBB B", 1)
	c.em.emit("MOV D,A", 1)
	c.em.emit("JNC "+l1+"  ; more MOD", 3)
	c.em.emit("XCHG", 1)
	c.em.emit("DAD B", 1)
	if left {
		c.em.emit("XCHG  ; MOD left to D,E", 1)
	} else {
		c.em.emit("MOV C,L", 1)
		c.em.emit("MOV B,H  ; MOD right to B,C", 1)
	}
	return 2, nil
}
