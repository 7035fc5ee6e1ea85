package compiler

// DeclareProcedure creates a User or External procedure, pushes its name
// onto the open-procedure stack, and registers it so forward CALLs inside
// its own body (direct recursion) resolve. argWidths is patched in place
// as the matching DECLARE for each argument is seen in the body (checkArgWidth).
func (c *Compiler) DeclareProcedure(name string, argNames []string, retSize int, external bool) (*Symbol, error) {
	if err := c.sym.checkRedeclared(name); err != nil {
		return nil, err
	}
	kind := KindUserProcedure
	if external {
		kind = KindExternalProcedure
	}
	widths := make([]Width, len(argNames))
	for i := range widths {
		widths[i] = Byte
	}
	sym := &Symbol{
		Kind:      kind,
		Name:      name,
		NumArgs:   len(argNames),
		ArgNames:  argNames,
		ArgWidths: widths,
		RetSize:   retSize,
	}
	c.sym.procs = append(c.sym.procs, sym)
	c.sym.procStack = append(c.sym.procStack, name)
	c.em.execState = false
	return sym, nil
}

// BeginCodeStatement must be called by the statement driver before
// generating every control/exec statement's code. It synthesises the
// procedure prologue the first time it is called inside an open
// procedure body, and — when a DO CASE is active — joins the previous
// case body to the table and emits the per-case `JMP exit`. Mirrors
// pyplm.py p_code_statement's entry hook.
func (c *Compiler) BeginCodeStatement() error {
	if !c.em.execState {
		c.em.execState = true
		if len(c.sym.procStack) > 0 {
			if err := c.emitProcPrologue(); err != nil {
				return err
			}
		}
	}
	_, cf := c.ctrl.top()
	if cf != nil {
		if cf.firstChild {
			cf.firstChild = false
		} else {
			label := c.em.newLabel()
			popped := c.em.popStatement(c.optimize)
			cf.caseLabels = append(cf.caseLabels, label)
			c.em.emitLabel(label, c.optimize)
			replay(c, popped, 0)
			c.em.emit("JMP "+cf.caseLabels[0]+"  ; end CASE", 3)
		}
	}
	return nil
}

// emitProcPrologue splices the procedure entry label, optional
// __ENDCOM return-address push, and argument-binding code in front of the
// already-generated first body statement. Mirrors pyplm.py emit_proc.
func (c *Compiler) emitProcPrologue() error {
	procName := c.sym.currentProc()
	proc := c.sym.procByName(procName)
	if proc == nil {
		return errorf("internal: procedure %s not registered", procName)
	}

	popped := c.em.popStatement(c.optimize)
	c.em.emitLabel(procName, c.optimize)
	oldPC := c.em.pc

	if procName == c.entry {
		c.em.emit("LXI H,__ENDCOM  ; exit address", 3)
		c.em.emit("PUSH H", 1)
	}

	if proc.NumArgs > 0 {
		arg := c.sym.lookup(c.sym.qualify(proc.ArgNames[0]))
		if arg == nil {
			arg = c.sym.lookup(proc.ArgNames[0])
		}
		if arg == nil {
			return errorf("cannot find argument %s for procedure %s", proc.ArgNames[0], procName)
		}
		if arg.Size == 1 {
			c.em.emit("LXI H,"+arg.Name+"  ; store proc arg 1", 3)
			c.em.emit("MOV M,E", 1)
		} else {
			c.em.emit("XCHG", 1)
			c.em.emit("SHLD "+arg.Name+"  ; store proc arg 1", 3)
		}

		if proc.NumArgs >= 2 {
			arg2 := c.sym.lookup(c.sym.qualify(proc.ArgNames[1]))
			if arg2 == nil {
				arg2 = c.sym.lookup(proc.ArgNames[1])
			}
			if arg2 == nil {
				return errorf("cannot find argument %s for procedure %s", proc.ArgNames[1], procName)
			}
			if arg2.Size == 1 {
				c.em.emit("LXI H,"+arg2.Name+"  ; store proc arg 2", 3)
				c.em.emit("MOV M,C", 1)
			} else {
				c.em.emit("MOV L,C", 1)
				c.em.emit("MOV H,B", 1)
				c.em.emit("SHLD "+arg2.Name+"  ; store proc arg 2", 3)
			}
		}

		if proc.NumArgs > 2 {
			c.em.emit("LXI H,00002H  ; get ext args on stack", 3)
			c.em.emit("DAD SP", 1)
			names := append([]string(nil), proc.ArgNames[2:]...)
			for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
				names[i], names[j] = names[j], names[i]
			}
			for i, name := range names {
				arg := c.sym.lookup(c.sym.qualify(name))
				if arg == nil {
					arg = c.sym.lookup(name)
				}
				if arg == nil {
					return errorf("cannot find argument %s for procedure %s", name, procName)
				}
				c.em.emit("MOV A,M  ; proc ext arg load", 1)
				c.em.emit("STA "+arg.Name+"  ; assign LSB", 3)
				if arg.Size == 1 {
					if i != len(names)-1 {
						c.em.emit("INX H", 1)
						c.em.emit("INX H  ; skip to next arg", 1)
					}
				} else {
					c.em.emit("INX H", 1)
					c.em.emit("MOV A,M", 1)
					c.em.emit("STA "+arg.Name+"+1  ; assign MSB", 3)
					if i != len(names)-1 {
						c.em.emit("INX H  ; skip to next arg", 1)
					}
				}
			}
		}
	}
	c.em.commit(c.optimize)
	size := c.em.pc - oldPC
	c.em.markStatement(c.optimize)
	replay(c, popped, size)
	return nil
}

// EndProcedure closes `END <name>;`: pops the procedure stack (fatal if the
// name doesn't match the innermost open procedure), and auto-appends RET
// for a non-external procedure whose last emitted instruction isn't
// already one. Mirrors pyplm.py p_end_procedure.
func (c *Compiler) EndProcedure(name string) error {
	if len(c.sym.procStack) == 0 {
		return errorf("unmatched END %s", name)
	}
	n := len(c.sym.procStack) - 1
	top := c.sym.procStack[n]
	c.sym.procStack = c.sym.procStack[:n]
	if top != name {
		return errorf("unmatched END %s", name)
	}
	proc := c.sym.procByName(top)
	if proc == nil {
		return errorf("internal: procedure %s not registered", top)
	}
	if proc.Kind != KindExternalProcedure {
		if !c.sawReturn && proc.RetSize != 0 {
			return errorf("proc %s missing RETURN", top)
		}
		last := ""
		if n := len(c.em.code); n > 0 {
			last = c.em.code[n-1]
		} else if n := len(c.sym.located); n > 0 && c.sym.located[n-1].Kind == KindCodeBlock {
			if code := c.sym.located[n-1].Code; len(code) > 0 {
				last = code[len(code)-1]
			}
		}
		if firstToken(last) != "RET" {
			c.em.emit("RET  ; proc return", 1)
		}
	}
	c.sawReturn = false
	c.em.commit(c.optimize)
	c.em.execState = false
	return nil
}

// CallStatement emits `CALL proc;`, `CALL proc(a);`, `CALL proc(a,b);`,
// `CALL proc(a,b,c);`, or — when proc names a 2-byte scalar rather than a
// Procedure — an indirect call through that variable. Mirrors pyplm.py
// p_call_statement.
func (c *Compiler) CallStatement(proc *Symbol, args []*Node) error {
	c.em.markStatement(c.optimize)
	if !proc.IsProcedure() {
		if proc.Size != 2 {
			return errorf("called variable %s must be address", proc.Name)
		}
		if len(args) != 0 {
			return errorf("indirect call %s takes no arguments", proc.Name)
		}
		collapseCallAddr(c, proc)
		return nil
	}
	if len(args) != proc.NumArgs {
		return errorf("proc %s requires %d args", proc.Name, proc.NumArgs)
	}
	_, err := collapseCall(c, CallNode(proc, args), true)
	return err
}

// ReturnStatement emits `RETURN;` or `RETURN expr;`. Mirrors pyplm.py
// p_return_statement.
func (c *Compiler) ReturnStatement(expr *Node) error {
	if len(c.sym.procStack) == 0 {
		return errorf("return not allowed outside proc")
	}
	c.em.markStatement(c.optimize)
	c.sawReturn = true
	proc := c.sym.procByName(c.sym.currentProc())
	if expr != nil {
		width, err := collapseLeft(c, expr)
		if err != nil {
			return err
		}
		if width == 0 {
			return errorf("procedure %s does not return a value", proc.Name)
		}
		if width > proc.RetSize {
			return errorf("return overflow")
		} else if width < proc.RetSize {
			c.em.emit("MVI D,000H  ; zero pad MSB", 2)
		}
	}
	c.em.emit("RET  ; proc return", 1)
	return nil
}
