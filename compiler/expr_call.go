package compiler

// collapseCall dispatches a call-site node to its builtin handler, or to
// one of the fixed-arity code shapes for user/external procedures (0, 1, 2
// args directly in DE/BC, 3+ pushed on the stack ahead of the CALL).
// Grounded on pyplm.py ProcCall0/1/2/Ext.
func collapseCall(c *Compiler, n *Node, left bool) (int, error) {
	proc := n.proc
	if proc == nil {
		return 0, errorf("unknown procedure")
	}
	if len(n.Args) != proc.NumArgs {
		return 0, errorf("procedure %s takes %d arguments", proc.Name, proc.NumArgs)
	}
	if proc.Kind == KindBuiltinProcedure {
		if proc.Builtin == nil {
			return 0, errorf("builtin %s has no handler", proc.Name)
		}
		return proc.Builtin(c, n, left)
	}

	switch len(n.Args) {
	case 0:
		return callCommon(c, proc, left)
	case 1:
		return call1(c, proc, n.Args[0], left)
	case 2:
		return call2(c, proc, n.Args[0], n.Args[1], left)
	default:
		return callExt(c, proc, n.Args, left)
	}
}

// callCommon emits the bare CALL + return-value relocation shared by every
// arity once arguments are already in their banks.
func callCommon(c *Compiler, proc *Symbol, left bool) (int, error) {
	c.em.emit("CALL "+proc.Name+"  ; proc call", 3)
	if !left && proc.RetSize > 0 {
		c.em.emit("MOV C,E  ; proc ret right to (B),C", 1)
		if proc.RetSize == 2 {
			c.em.emit("MOV B,D", 1)
		}
	}
	return proc.RetSize, nil
}

func widenArg(c *Compiler, argWidth int, declWidth Width, padReg string) error {
	if argWidth > int(declWidth) {
		return errorf("argument overflow")
	}
	if argWidth < int(declWidth) {
		c.em.emit("MVI "+padReg+",000H  ; zero pad MSB", 2)
	}
	return nil
}

func call1(c *Compiler, proc *Symbol, arg1 *Node, left bool) (int, error) {
	argWidth, err := collapseUnaryArg(c, arg1, left)
	if err != nil {
		return 0, err
	}
	if err := widenArg(c, argWidth, proc.ArgWidths[0], "D"); err != nil {
		return 0, errorf("argument overflow for procedure %s arg 1", proc.Name)
	}
	return callCommon(c, proc, left)
}

func call2(c *Compiler, proc *Symbol, arg1, arg2 *Node, left bool) (int, error) {
	leftWidth, err := collapseLeft(c, arg1)
	if err != nil {
		return 0, err
	}
	save := arg2.op >= opAdd && arg2.op < opInplaceAssign
	if save {
		c.em.emit("PUSH D ; save left binary", 1)
	}
	rightWidth, err := collapseRight(c, arg2)
	if err != nil {
		return 0, err
	}
	if save {
		c.em.emit("POP D  ; restore left binary", 1)
	}
	if int(proc.ArgWidths[0]) < leftWidth {
		return 0, errorf("argument overflow for procedure %s arg 1", proc.Name)
	}
	if int(proc.ArgWidths[1]) < rightWidth {
		return 0, errorf("argument overflow for procedure %s arg 2", proc.Name)
	}
	if leftWidth < int(proc.ArgWidths[0]) {
		c.em.emit("MVI D,000H  ; zero pad MSB", 2)
	}
	if rightWidth < int(proc.ArgWidths[1]) {
		c.em.emit("MVI B,000H  ; zero pad MSB", 2)
	}
	return callCommon(c, proc, left)
}

// callExt handles 3+ argument calls: the first two go in DE/BC exactly
// like call2, the rest are evaluated left-to-right and pushed, then popped
// (discarded) again once the CALL returns. Grounded on pyplm.py
// ProcCallExt.
func callExt(c *Compiler, proc *Symbol, args []*Node, left bool) (int, error) {
	extra := args[2:]
	for i, arg := range extra {
		argWidth, err := collapseLeft(c, arg)
		if err != nil {
			return 0, err
		}
		if err := widenArg(c, argWidth, proc.ArgWidths[i+2], "D"); err != nil {
			return 0, errorf("argument overflow for procedure %s arg", proc.Name)
		}
		c.em.emit("PUSH D  ; proc ext arg", 1)
	}
	width, err := call2(c, proc, args[0], args[1], left)
	if err != nil {
		return 0, err
	}
	for range extra {
		c.em.emit("POP H  ; proc ext arg discard", 1)
	}
	return width, nil
}

// collapseCallAddr emits an indirect call through a 2-byte scalar variable
// (CALL var;, where var holds a procedure address). Grounded on pyplm.py
// ProcCallAddr.
func collapseCallAddr(c *Compiler, sym *Symbol) {
	label := c.em.newLabel()
	c.em.emit("LXI H,"+label+" ; proc ret", 3)
	c.em.emit("PUSH H", 1)
	c.em.emit("LHLD "+sym.Name+"  ; proc address", 3)
	c.em.emit("PCHL     ; proc call", 1)
	c.em.emitLabel(label, c.optimize)
}
