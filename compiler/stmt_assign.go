package compiler

// AssignTarget is one left-hand-side element of an assignment statement: a
// bare scalar/pseudo-variable, or an array element with its index
// subtree.
type AssignTarget struct {
	Sym   *Symbol
	Index *Node // nil for scalar targets
}

// AssignStatement emits `v1[, v2, ...] = expr;` (spec.md §4.5): the
// expression is evaluated once into the left bank, then each target gets
// its own store, left to right, sharing a single zero-pad flag so the
// MSB-zeroing MVI is only emitted once across targets that need it.
// Mirrors pyplm.py p_assign_statement/assign_scalar/assign_array.
func (c *Compiler) AssignStatement(targets []AssignTarget, expr *Node) error {
	c.em.markStatement(c.optimize)
	width, err := collapseLeft(c, expr)
	if err != nil {
		return err
	}
	pad := false
	for i, t := range targets {
		last := i == len(targets)-1
		if t.Index != nil {
			pad, err = assignArray(c, t.Sym, t.Index, width, pad)
		} else {
			pad, err = assignScalar2(c, t.Sym, width, last, pad)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// assignScalar is the single-target entry point used by InplaceAssign. It
// stores as a non-last chain element, so the assigned value is still in
// D,E afterwards for the enclosing expression to use.
func assignScalar(c *Compiler, sym *Symbol, width int) error {
	_, err := assignScalar2(c, sym, width, false, false)
	return err
}

func assignScalar2(c *Compiler, sym *Symbol, width int, last, pad bool) (bool, error) {
	name := aliasName(sym)
	if sym.Kind == KindBasedVariable {
		name = sym.PtrName
	}
	if sym.Size == 1 {
		if width != 1 {
			warnf("BYTE variable overflow %s", sym.Name)
		}
		if sym.Kind == KindBasedVariable {
			c.em.emit("LHLD "+name+"  ; assign based", 3)
		} else {
			c.em.emit("LXI H,"+name+"   ; assign", 3)
		}
		c.em.emit("MOV M,E    ; from E", 1)
		return pad, nil
	}
	if width == 1 && !pad {
		pad = true
		c.em.emit("MVI D,000H  ; zero pad MSB", 2)
	}
	if sym.Kind == KindBasedVariable {
		c.em.emit("LHLD "+name+"  ; assign based", 3)
		c.em.emit("MOV M,E", 1)
		c.em.emit("INX H", 1)
		c.em.emit("MOV M,D  ; from D,E", 1)
		return pad, nil
	}
	c.em.emit("XCHG    ; from D,E", 1)
	if sym.Name == "STACKPTR" {
		c.em.emit("SPHL  ; assign STACKPTR", 1)
	} else {
		c.em.emit("SHLD "+name+" ; assign", 3)
		if !last {
			c.em.emit("XCHG    ; restore D,E", 1)
		}
	}
	return pad, nil
}

func assignArray(c *Compiler, sym *Symbol, index *Node, assignWidth int, pad bool) (bool, error) {
	elemWidth := int(sym.ElemSize)
	if index.op == opLiteral {
		numElem := sym.NumElements()
		if numElem != 0 && index.lit > numElem-1 {
			warnf("array %s index %d overflow", sym.Name, index.lit)
		}
	}
	if elemWidth < assignWidth {
		warnf("BYTE array element overflow %s", sym.Name)
	}
	if elemWidth > assignWidth && !pad {
		pad = true
		c.em.emit("MVI D,000H  ; zero pad elem MSB", 2)
	}
	c.em.emit("PUSH D  ; save left array", 1)
	indexWidth, err := collapseLeft(c, index)
	if err != nil {
		return pad, err
	}
	if indexWidth == 1 {
		c.em.emit("MVI D,000H  ; zero pad index MSB", 2)
	}
	name := aliasName(sym)
	if sym.Kind == KindBasedArray {
		c.em.emit("LHLD "+sym.PtrName+"  ; store arr based", 3)
	} else {
		c.em.emit("LXI H,"+name+"  ; store arr", 3)
	}
	if elemWidth == 2 {
		c.em.emit("XCHG", 1)
		c.em.emit("DAD H  ; index << 1", 1)
	}
	c.em.emit("DAD D  ; arr offset", 1)
	c.em.emit("POP D  ; arr restore left", 1)
	c.em.emit("MOV M,E  ; arr assign from (D),E", 1)
	if elemWidth == 2 {
		c.em.emit("INX H", 1)
		c.em.emit("MOV M,D", 1)
	}
	return pad, nil
}
