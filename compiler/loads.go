package compiler

// aliasName returns the text the emitter should use for an AtVariable's or
// AtArray's backing location: a bare hex address or the aliased symbol's
// name, plus the constant offset when non-zero. Mirrors the repeated
// "isinstance(node, AtVariable): ..." block in pyplm.py's collapse_variable_*.
func aliasName(sym *Symbol) string {
	name := sym.Name
	if sym.Kind == KindAtVariable || sym.Kind == KindAtArray {
		if sym.AddrIsNum {
			name = formatWord(sym.AddrNum)
		} else {
			name = sym.AddrName
		}
		if sym.Offset > 0 {
			name += " + " + formatWord(sym.Offset)
		}
	}
	return name
}

func collapseIdent(c *Compiler, n *Node, left bool) (int, error) {
	sym := n.sym
	if sym == nil {
		return 0, errorf("undefined identifier %s", n.name)
	}
	if sym.Name == "STACKPTR" {
		return collapseStackptr(c, left)
	}
	if isFlagName(sym.Name) {
		return collapseFlag(c, n, left)
	}

	width := sym.Size
	name := aliasName(sym)
	if sym.Kind == KindBasedVariable {
		name = sym.PtrName
	}

	if width == 1 {
		if sym.Kind == KindBasedVariable {
			c.em.emit("LHLD "+name+"  ; load based "+side(left), 3)
		} else {
			c.em.emit("LXI H,"+name+"  ; load var "+side(left), 3)
		}
		if left {
			c.em.emit("MOV E,M   ; to E", 1)
		} else {
			c.em.emit("MOV C,M   ; to C", 1)
		}
		return 1, nil
	}

	if sym.Kind == KindBasedVariable {
		c.em.emit("LHLD "+name+"  ; load based "+side(left), 3)
		if left {
			c.em.emit("MOV E,M", 1)
			c.em.emit("INX H", 1)
			c.em.emit("MOV D,M  ; to D,E", 1)
		} else {
			c.em.emit("MOV C,M", 1)
			c.em.emit("INX H", 1)
			c.em.emit("MOV B,M  ; to B,C", 1)
		}
		return 2, nil
	}
	c.em.emit("LHLD "+name+" ; load var "+side(left), 3)
	if left {
		c.em.emit("XCHG    ; to D,E", 1)
	} else {
		c.em.emit("MOV C,L", 1)
		c.em.emit("MOV B,H ; to B,C", 1)
	}
	return 2, nil
}

func side(left bool) string {
	if left {
		return "left"
	}
	return "right"
}

func collapseStackptr(c *Compiler, left bool) (int, error) {
	if left {
		c.em.emit("LXI H,00000H  ; load STACKPTR left", 3)
		c.em.emit("DAD SP", 1)
		c.em.emit("XCHG  ; to D,E", 1)
	} else {
		c.em.emit("LXI H,00000H  ; load STACKPTR", 3)
		c.em.emit("DAD SP", 1)
		c.em.emit("MOV C,L", 1)
		c.em.emit("MOV B,H ; to B,C", 1)
	}
	return 2, nil
}

var flagNames = map[string]string{
	"ZERO":   "JNZ",
	"CARRY":  "JNC",
	"PARITY": "JPO",
	"SIGN":   "JP",
}

func isFlagName(name string) bool {
	_, ok := flagNames[name]
	return ok
}

func collapseFlag(c *Compiler, n *Node, left bool) (int, error) {
	jmp, ok := flagNames[n.name]
	if !ok {
		return 0, errorf("flag %s not supported", n.name)
	}
	lFalse := c.em.newLabel()
	lDone := c.em.newLabel()
	c.em.emit(jmp+" "+lFalse+"  ; "+n.name, 3)
	if left {
		c.em.emit("MVI E,001H  ; flags true left", 2)
	} else {
		c.em.emit("MVI C,001H  ; flags true right", 2)
	}
	c.em.emit("JMP "+lDone, 3)
	c.em.emitLabel(lFalse, c.optimize)
	if left {
		c.em.emit("MVI E,000H  ; flags false left", 2)
	} else {
		c.em.emit("MVI C,000H  ; flags false right", 2)
	}
	c.em.emitLabel(lDone, c.optimize)
	return 1, nil
}

func collapseArray(c *Compiler, n *Node, left bool) (int, error) {
	sym := n.sym
	if sym == nil || !sym.IsArray() {
		return 0, errorf("%s is not an array", n.name)
	}
	elemWidth := int(sym.ElemSize)
	if lit := n.index; lit != nil && lit.op == opLiteral {
		numElem := sym.NumElements()
		if numElem != 0 && lit.lit > numElem-1 {
			warnf("array %s index %d overflow", sym.Name, lit.lit)
		}
	}

	if !left {
		c.em.emit("PUSH D  ; save left array", 1)
	}
	indexWidth, err := collapseLeft(c, n.index)
	if err != nil {
		return 0, err
	}
	if indexWidth == 1 {
		c.em.emit("MVI D,000H  ; zero pad index MSB", 2)
	}
	name := aliasName(sym)
	tag := "arr"
	if sym.Kind == KindBasedArray {
		c.em.emit("LHLD "+sym.PtrName+"  ; load "+tag+" based "+side(left), 3)
	} else {
		c.em.emit("LXI H,"+name+"  ; load "+tag+" "+side(left), 3)
	}
	if elemWidth == 2 {
		c.em.emit("XCHG", 1)
		c.em.emit("DAD H  ; index << 1", 1)
	}
	c.em.emit("DAD D    ; arr offset", 1)
	if left {
		c.em.emit("MOV E,M  ; arr element to (D),E", 1)
	} else {
		c.em.emit("MOV C,M  ; arr element to (B),C", 1)
	}
	if elemWidth == 2 {
		c.em.emit("INX H", 1)
		if left {
			c.em.emit("MOV D,M", 1)
		} else {
			c.em.emit("MOV B,M", 1)
		}
	}
	if !left {
		c.em.emit("POP D  ; restore left array", 1)
	}
	return elemWidth, nil
}

// collapseReference loads a `.NAME` or `.NAME(index)` address literal.
func collapseReference(c *Compiler, n *Node, left bool) (int, error) {
	sym := n.sym
	name := n.name
	if sym != nil && (sym.Kind == KindAtArray || sym.Kind == KindAtVariable) {
		name = aliasName(sym)
	}
	if n.index == nil {
		if sym != nil && sym.Kind == KindBasedArray {
			c.em.emit("LHLD "+sym.PtrName+"  ; load ref "+side(left), 3)
			if left {
				c.em.emit("XCHG     ; to D,E", 1)
			} else {
				c.em.emit("MOV C,L  ; to B,C", 1)
				c.em.emit("MOV B,H", 1)
			}
		} else if left {
			c.em.emit("LXI D,"+name+"  ; load ref left", 3)
		} else {
			c.em.emit("LXI B,"+name+"  ; load ref right", 3)
		}
		return 2, nil
	}

	elemWidth := 1
	if sym != nil {
		elemWidth = int(sym.ElemSize)
	}
	if !left {
		c.em.emit("PUSH D  ; save left ref", 1)
	}
	indexWidth, err := collapseLeft(c, n.index)
	if err != nil {
		return 0, err
	}
	if indexWidth == 1 {
		c.em.emit("MVI D,000H  ; zero pad MSB", 2)
	}
	if sym != nil && sym.Kind == KindBasedArray {
		c.em.emit("LHLD "+sym.PtrName+"  ; load ref "+side(left), 3)
	} else {
		c.em.emit("LXI H,"+name+"  ; load ref "+side(left), 3)
	}
	if elemWidth == 2 {
		c.em.emit("XCHG", 1)
		c.em.emit("DAD H  ; index << 1", 1)
	}
	c.em.emit("DAD D    ; ref offset", 1)
	if left {
		c.em.emit("XCHG     ; to D,E", 1)
	} else {
		c.em.emit("MOV C,L  ; to B,C", 1)
		c.em.emit("MOV B,H", 1)
		c.em.emit("POP D  ; restore left ref", 1)
	}
	return 2, nil
}

// collapseInlineBytes materialises an inline `.( ... )` literal as an
// anonymous array symbol the first time it is seen, then loads its address
// exactly like a Reference.
func collapseInlineBytes(c *Compiler, n *Node, left bool) (int, error) {
	name := internAnon(c, n.bytes)
	ref := &Node{op: opReference, name: name}
	return collapseReference(c, ref, left)
}

func internAnon(c *Compiler, values []int) string {
	name := c.sym.qualify("__ANON" + formatIndex(len(c.sym.anon)))
	vals := make([]InitValue, len(values))
	for i, v := range values {
		vals[i] = InitValue{Num: v}
	}
	c.sym.anon = append(c.sym.anon, &Symbol{
		Kind:     KindArray,
		Name:     name,
		Size:     len(values),
		ElemSize: Byte,
		Value:    vals,
	})
	return name
}

func formatIndex(n int) string {
	return formatLabel(n)[3:]
}

func collapseStructField(c *Compiler, n *Node, left bool) (int, error) {
	sym := n.sym
	if sym == nil {
		return 0, errorf("undefined struct %s", n.name)
	}
	var desc *Field
	for i := range sym.Fields {
		if sym.Fields[i].Name == n.field {
			desc = &sym.Fields[i]
			break
		}
	}
	if desc == nil {
		return 0, errorf("struct %s has no field %s", sym.Name, n.field)
	}
	if left {
		c.em.emit("LHLD "+sym.PtrName+"  ; load struct based left", 3)
		c.em.emit("LXI D,"+formatWord(desc.Offset), 3)
		c.em.emit("DAD D     ; struct offset", 1)
		c.em.emit("MOV E,M   ; to (D),E", 1)
		if desc.Width == Address {
			c.em.emit("INX H", 1)
			c.em.emit("MOV D,M", 1)
		}
	} else {
		c.em.emit("LHLD "+sym.PtrName+"  ; load struct based right", 3)
		c.em.emit("LXI B,"+formatWord(desc.Offset), 3)
		c.em.emit("DAD B     ; struct offset", 1)
		c.em.emit("MOV C,M   ; to (B),C", 1)
		if desc.Width == Address {
			c.em.emit("INX H", 1)
			c.em.emit("MOV B,M", 1)
		}
	}
	return int(desc.Width), nil
}
