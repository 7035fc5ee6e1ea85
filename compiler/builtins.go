package compiler

// BuiltinHandler generates code for a builtin procedure call. node is the
// call-site Call expression (its Args hold the already-parsed argument
// subtrees); left selects which bank (E/DE vs C/BC) the result belongs in.
// It returns the produced width. Grounded on pyplm.py builtin_*/
// BuiltinProcedure.handler.
type BuiltinHandler func(c *Compiler, node *Call, left bool) (int, error)

// initBuiltins registers the nine compile-time intrinsics as
// KindBuiltinProcedure symbols (C9, spec.md §4.9).
func initBuiltins(t *symtab) {
	reg := func(name string, numArgs int, h BuiltinHandler) {
		t.procs = append(t.procs, &Symbol{
			Kind:    KindBuiltinProcedure,
			Name:    name,
			NumArgs: numArgs,
			Builtin: h,
		})
	}
	reg("LENGTH", 1, builtinLength)
	reg("LAST", 1, builtinLast)
	reg("LOW", 1, builtinLow)
	reg("HIGH", 1, builtinHigh)
	reg("DOUBLE", 1, builtinDouble)
	reg("SHR", 2, builtinShr)
	reg("SHL", 2, builtinShl)
	reg("ROR", 2, builtinRor)
	reg("ROL", 2, builtinRol)
}

// initPseudos pre-registers the pseudo-variables every program gets for
// free: STACKPTR, the four CPU-flag pseudo-variables, and the MEMORY
// pseudo-array marking free memory at output time. Mirrors pyplm.py
// init_pseudos.
func initPseudos(t *symtab) {
	t.located = append(t.located,
		&Symbol{Kind: KindVariable, Name: "STACKPTR", Size: 2},
		&Symbol{Kind: KindVariable, Name: "ZERO", Size: 1},
		&Symbol{Kind: KindVariable, Name: "CARRY", Size: 1},
		&Symbol{Kind: KindVariable, Name: "SIGN", Size: 1},
		&Symbol{Kind: KindVariable, Name: "PARITY", Size: 1},
		&Symbol{Kind: KindArray, Name: "MEMORY", Size: 0, ElemSize: 1},
	)
	t.pseudoCount = len(t.located)
}

func builtinLength(c *Compiler, node *Call, left bool) (int, error) {
	sym := node.Args[0].sym
	if sym == nil || !sym.IsArray() {
		return 0, errorf("LENGTH argument not an array")
	}
	n := sym.NumElements()
	return emitCountLiteral(c, n, left, "LENGTH"), nil
}

func builtinLast(c *Compiler, node *Call, left bool) (int, error) {
	sym := node.Args[0].sym
	if sym == nil || !sym.IsArray() {
		return 0, errorf("LAST argument not an array")
	}
	if sym.Size == 0 {
		return 0, errorf("LAST argument array %s is zero size", sym.Name)
	}
	n := sym.NumElements() - 1
	return emitCountLiteral(c, n, left, "LAST"), nil
}

// emitCountLiteral folds LENGTH/LAST to a constant of whichever width the
// value needs, in the requested bank.
func emitCountLiteral(c *Compiler, n int, left bool, tag string) int {
	if n > 0xFF {
		if left {
			c.em.emit("LXI D,"+formatWord(n)+"  ; "+tag+" high left", 3)
		} else {
			c.em.emit("LXI B,"+formatWord(n)+"  ; "+tag+" high right", 3)
		}
		return 2
	}
	if left {
		c.em.emit("MVI E,"+formatByte(n)+"  ; "+tag+" low left", 2)
	} else {
		c.em.emit("MVI C,"+formatByte(n)+"  ; "+tag+" low right", 2)
	}
	return 1
}

func builtinLow(c *Compiler, node *Call, left bool) (int, error) {
	width, err := collapseLeft(c, node.Args[0])
	if err != nil {
		return 0, err
	}
	if width != 2 {
		return 0, errorf("LOW argument not ADDRESS")
	}
	if !left {
		c.em.emit("MOV C,E  ; LOW right", 1)
	}
	return 1, nil
}

func builtinHigh(c *Compiler, node *Call, left bool) (int, error) {
	width, err := collapseLeft(c, node.Args[0])
	if err != nil {
		return 0, err
	}
	if width != 2 {
		return 0, errorf("HIGH argument not ADDRESS")
	}
	if left {
		c.em.emit("MOV E,D  ; HIGH left", 1)
	} else {
		c.em.emit("MOV C,D  ; HIGH right", 1)
	}
	return 1, nil
}

func builtinDouble(c *Compiler, node *Call, left bool) (int, error) {
	width, err := collapseLeft(c, node.Args[0])
	if err != nil {
		return 0, err
	}
	if width != 1 {
		return 0, errorf("DOUBLE argument not BYTE")
	}
	if left {
		c.em.emit("MVI D,000H  ; DOUBLE left", 2)
	} else {
		c.em.emit("MOV C,E", 1)
		c.em.emit("MVI B,000H  ; DOUBLE right", 2)
	}
	return 2, nil
}

// shiftLoop is the common shape behind SHR/SHL/ROR/ROL: a count-down loop
// of `body` over the left-collapsed value, count in C from the
// right-collapsed argument. With requireByte set, both arguments must be
// BYTE.
func shiftLoop(c *Compiler, node *Call, left bool, tag string, requireByte bool, body func(leftWidth int)) (int, error) {
	leftWidth, rightWidth, err := collapseArgs(c, node)
	if err != nil {
		return 0, err
	}
	if requireByte && (leftWidth != 1 || rightWidth != 1) {
		return 0, errorf("%s arg overflow", tag)
	}
	label := c.em.newLabel()
	c.em.emitLabel(label, c.optimize)
	body(leftWidth)
	c.em.emit("DCR C", 1)
	c.em.emit("JNZ "+label+"  ; more "+tag, 3)
	if !left {
		c.em.emit("MOV C,E  ; "+tag+" right", 1)
		if leftWidth == 2 {
			c.em.emit("MOV B,D", 1)
		}
	}
	return leftWidth, nil
}

func builtinShr(c *Compiler, node *Call, left bool) (int, error) {
	return shiftLoop(c, node, left, "SHR", false, func(leftWidth int) {
		c.em.emit("ORA A  ; clear carry", 1)
		if leftWidth == 2 {
			c.em.emit("MOV A,D", 1)
			c.em.emit("RAR", 1)
			c.em.emit("MOV D,A", 1)
		}
		c.em.emit("MOV A,E", 1)
		c.em.emit("RAR  ; SHR", 1)
		c.em.emit("MOV E,A", 1)
	})
}

func builtinShl(c *Compiler, node *Call, left bool) (int, error) {
	return shiftLoop(c, node, left, "SHL", false, func(leftWidth int) {
		c.em.emit("ORA A  ; clear carry", 1)
		c.em.emit("MOV A,E", 1)
		c.em.emit("RAL  ; SHL", 1)
		c.em.emit("MOV E,A", 1)
		if leftWidth == 2 {
			c.em.emit("MOV A,D", 1)
			c.em.emit("RAL", 1)
			c.em.emit("MOV D,A", 1)
		}
	})
}

func builtinRor(c *Compiler, node *Call, left bool) (int, error) {
	return shiftLoop(c, node, left, "ROR", true, func(int) {
		c.em.emit("MOV A,E", 1)
		c.em.emit("RRC  ; ROR", 1)
		c.em.emit("MOV E,A", 1)
	})
}

func builtinRol(c *Compiler, node *Call, left bool) (int, error) {
	return shiftLoop(c, node, left, "ROL", true, func(int) {
		c.em.emit("MOV A,E", 1)
		c.em.emit("RLC  ; ROL", 1)
		c.em.emit("MOV E,A", 1)
	})
}
