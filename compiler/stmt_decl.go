package compiler

// DeclareStatementDone closes out a `DECLARE ...;` statement: it resets the
// statement-boundary bookkeeping and drops back into "declaration phase" so
// that the next code_statement re-triggers procedure-prologue synthesis.
// Mirrors pyplm.py p_declare_statement's action, which fires for every
// declare_list, declare_procedure and end_procedure reduction alike.
func (c *Compiler) DeclareStatementDone() {
	c.em.execState = false
	c.em.markStatement(c.optimize)
}

// qualifiedName mangles name for the currently-open procedure, exactly as
// every p_declare_* handler does via "_%s_%s" % (proc, name).
func (c *Compiler) qualifiedName(name string) string {
	return c.sym.qualify(name)
}

// DeclareLiterally records a `NAME LITERALLY 'text';` text-constant
// substitution (spec.md §3 "LITERALLY constants"). Substitution itself
// happens in the lexer/parser; the symbol table only remembers the
// mapping so later lookups of NAME can be expanded at token time.
func (c *Compiler) DeclareLiterally(name, text string) error {
	if _, ok := c.sym.literals[name]; ok {
		return errorf("name %s already defined", name)
	}
	c.sym.literals[name] = text
	return nil
}

// Literally resolves a LITERALLY name, returning its substitution text and
// whether it is defined.
func (c *Compiler) Literally(name string) (string, bool) {
	t, ok := c.sym.literals[name]
	return t, ok
}

// DeclareVariable declares a plain uninitialised scalar: `NAME BYTE;` or
// `NAME ADDRESS;`. It lands in the unlocated pool; an EXTERNAL procedure
// body's variables are dropped entirely, matching pyplm.py's early return
// for declarations inside an ExternalProcedure.
func (c *Compiler) DeclareVariable(name string, w Width) error {
	if p := c.sym.currentProc(); p != "" {
		c.sym.checkArgWidth(name, w)
		if proc := c.sym.procByName(p); proc != nil && proc.Kind == KindExternalProcedure {
			return nil
		}
	}
	qname := c.qualifiedName(name)
	if err := c.sym.checkRedeclared(qname); err != nil {
		return err
	}
	c.sym.unlocated = append(c.sym.unlocated, &Symbol{Kind: KindVariable, Name: qname, Size: int(w)})
	return nil
}

// DeclareVariableList declares `(A, B, C) BYTE;` — the same plain
// uninitialised-scalar shape, repeated for each name.
func (c *Compiler) DeclareVariableList(names []string, w Width) error {
	for _, n := range names {
		if err := c.DeclareVariable(n, w); err != nil {
			return err
		}
	}
	return nil
}

// DeclareVariableInit declares `NAME BYTE DATA(5);` / `NAME ADDRESS
// DATA(.OTHER);` — a located, initialised scalar. BYTE variables may not
// initialise from a reference.
func (c *Compiler) DeclareVariableInit(name string, w Width, init InitValue) error {
	qname := c.qualifiedName(name)
	if err := c.sym.checkRedeclared(qname); err != nil {
		return err
	}
	if w == Byte && init.IsRef {
		return errorf("BYTE variables cannot initialize with references")
	}
	c.sym.located = append(c.sym.located, &Symbol{
		Kind: KindVariable, Name: qname, Addr: c.em.pc, Size: int(w), Value: []InitValue{init},
	})
	c.em.pc += int(w)
	return nil
}

// DeclareVariableAtNumber declares `NAME BYTE AT(5);` — an AtVariable
// aliasing a fixed numeric address.
func (c *Compiler) DeclareVariableAtNumber(name string, w Width, addr int) error {
	qname := c.qualifiedName(name)
	if err := c.sym.checkRedeclared(qname); err != nil {
		return err
	}
	c.sym.located = append(c.sym.located, &Symbol{
		Kind: KindAtVariable, Name: qname, Size: int(w), AddrIsNum: true, AddrNum: addr,
	})
	return nil
}

// DeclareVariableAtRef declares `NAME BYTE AT(.OTHER);` — an AtVariable
// aliasing another symbol's address.
func (c *Compiler) DeclareVariableAtRef(name string, w Width, ref string) error {
	qname := c.qualifiedName(name)
	if err := c.sym.checkRedeclared(qname); err != nil {
		return err
	}
	c.sym.located = append(c.sym.located, &Symbol{
		Kind: KindAtVariable, Name: qname, Size: int(w), AddrName: ref,
	})
	return nil
}

// DeclareVariableAtArray declares `NAME BYTE AT(.ARR(3));` — an AtVariable
// aliasing an element inside a previously-declared array, warning when the
// new variable's width does not match the array's element width.
func (c *Compiler) DeclareVariableAtArray(name string, w Width, arrName string, index int) error {
	qname := c.qualifiedName(name)
	if err := c.sym.checkRedeclared(qname); err != nil {
		return err
	}
	arr := c.sym.lookup(arrName)
	if arr == nil || !arr.IsArray() {
		return errorf("AT target %s not an array", arrName)
	}
	if w != arr.ElemSize {
		warnf("AT target %s width different than variable", arrName)
	}
	c.sym.located = append(c.sym.located, &Symbol{
		Kind: KindAtVariable, Name: qname, Size: int(w),
		AddrName: arr.Name, Offset: index * int(arr.ElemSize),
	})
	return nil
}

// DeclareVariableBased declares `NAME BASED PTR BYTE;` — ptr must already
// be a plain ADDRESS-sized scalar.
func (c *Compiler) DeclareVariableBased(name, ptr string, w Width) error {
	qname := c.qualifiedName(name)
	if err := c.sym.checkRedeclared(qname); err != nil {
		return err
	}
	c.sym.checkArgWidth(name, w)
	base := c.sym.lookup(ptr)
	if base == nil {
		return errorf("target variable %s does not exist", ptr)
	}
	if !base.IsVariable() || base.Size != int(Address) {
		return errorf("target variable %s not ADDRESS", ptr)
	}
	c.sym.located = append(c.sym.located, &Symbol{
		Kind: KindBasedVariable, Name: qname, Size: int(w), PtrName: base.Name,
	})
	return nil
}

// DeclareVariableExternal declares `NAME BYTE EXTERNAL;` — a scalar whose
// storage lives in another compilation unit; the generated code references
// NAME directly and the external assembler resolves it.
func (c *Compiler) DeclareVariableExternal(name string, w Width) error {
	if err := c.sym.checkRedeclared(name); err != nil {
		return err
	}
	c.sym.located = append(c.sym.located, &Symbol{
		Kind: KindAtVariable, Name: name, Size: int(w), AddrName: name,
	})
	return nil
}

// DeclareArray declares `NAME(10) BYTE;` — an uninitialised array, up to
// 0xFFFF total bytes.
func (c *Compiler) DeclareArray(name string, numElements int, w Width) error {
	if p := c.sym.currentProc(); p != "" {
		if proc := c.sym.procByName(p); proc != nil && proc.Kind == KindExternalProcedure {
			return nil
		}
	}
	qname := c.qualifiedName(name)
	if err := c.sym.checkRedeclared(qname); err != nil {
		return err
	}
	size := numElements * int(w)
	if size > 0xFFFF {
		return errorf("array %s size too large", name)
	}
	c.sym.unlocated = append(c.sym.unlocated, &Symbol{
		Kind: KindArray, Name: qname, Size: size, ElemSize: w,
	})
	return nil
}

// DeclareArrayInit declares `NAME(1,2,3) BYTE;` — a located array sized by
// the initialiser list; BYTE arrays may not initialise any element with a
// reference.
func (c *Compiler) DeclareArrayInit(name string, values []InitValue, w Width) error {
	qname := c.qualifiedName(name)
	if err := c.sym.checkRedeclared(qname); err != nil {
		return err
	}
	if w == Byte {
		for _, v := range values {
			if v.IsRef {
				return errorf("BYTE variables cannot initialize with references")
			}
		}
	}
	size := len(values) * int(w)
	c.sym.located = append(c.sym.located, &Symbol{
		Kind: KindArray, Name: qname, Addr: c.em.pc, Size: size, ElemSize: w, Value: values,
	})
	c.em.pc += size
	return nil
}

// DeclareArrayInitSized declares `NAME(10) BYTE DATA(1,2,3);` — a located
// array whose declared element count may exceed its initialiser list (the
// remainder is implicitly zero at output time).
func (c *Compiler) DeclareArrayInitSized(name string, numElements int, w Width, values []InitValue) error {
	qname := c.qualifiedName(name)
	if err := c.sym.checkRedeclared(qname); err != nil {
		return err
	}
	if w == Byte {
		for _, v := range values {
			if v.IsRef {
				return errorf("BYTE variables cannot initialize with references")
			}
		}
	}
	size := numElements * int(w)
	c.sym.located = append(c.sym.located, &Symbol{
		Kind: KindArray, Name: qname, Addr: c.em.pc, Size: size, ElemSize: w, Value: values,
	})
	c.em.pc += size
	return nil
}

// DeclareString declares `NAME(*) BYTE DATA('hello');` or the mixed
// `DATA(1,'ab',3)` form: string literal elements are exploded into one
// InitValue per character (each consuming elemSize regardless of char
// width, matching pyplm.py's byte-per-char expansion).
func (c *Compiler) DeclareString(name string, w Width, text string, mixed []interface{}) error {
	qname := c.qualifiedName(name)
	if err := c.sym.checkRedeclared(qname); err != nil {
		return err
	}
	var data []InitValue
	if mixed == nil {
		for _, ch := range text {
			data = append(data, InitValue{Num: int(ch)})
		}
	} else {
		for _, item := range mixed {
			switch v := item.(type) {
			case string:
				for _, ch := range v {
					data = append(data, InitValue{Num: int(ch)})
				}
			case InitValue:
				data = append(data, v)
			case int:
				data = append(data, InitValue{Num: v})
			}
		}
	}
	size := len(data) * int(w)
	c.sym.located = append(c.sym.located, &Symbol{
		Kind: KindArray, Name: qname, Addr: c.em.pc, Size: size, ElemSize: w, Value: data,
	})
	c.em.pc += size
	return nil
}

// DeclareArrayAt declares `NAME(10) BYTE AT(target);` — an AtArray aliasing
// a fixed address or another symbol.
func (c *Compiler) DeclareArrayAt(name string, numElements int, w Width, target InitValue) error {
	qname := c.qualifiedName(name)
	if err := c.sym.checkRedeclared(qname); err != nil {
		return err
	}
	size := numElements * int(w)
	sym := &Symbol{Kind: KindAtArray, Name: qname, Size: size, ElemSize: w}
	if target.IsRef {
		sym.AddrName = target.Ref
	} else {
		sym.AddrIsNum = true
		sym.AddrNum = target.Num
	}
	c.sym.located = append(c.sym.located, sym)
	return nil
}

// DeclareArrayBased declares `NAME BASED PTR(10) BYTE;` — ptr must already
// be a plain ADDRESS-sized scalar.
func (c *Compiler) DeclareArrayBased(name, ptr string, numElements int, w Width) error {
	qname := c.qualifiedName(name)
	if err := c.sym.checkRedeclared(qname); err != nil {
		return err
	}
	base := c.sym.lookup(ptr)
	if base == nil {
		return errorf("target variable %s does not exist", ptr)
	}
	if !base.IsVariable() || base.Size != int(Address) {
		return errorf("target variable %s not ADDRESS", ptr)
	}
	size := numElements * int(w)
	c.sym.located = append(c.sym.located, &Symbol{
		Kind: KindBasedArray, Name: qname, Size: size, ElemSize: w, PtrName: base.Name,
	})
	return nil
}

// DeclareArrayExternal declares `NAME(10) BYTE EXTERNAL;` — storage lives
// elsewhere; NAME is referenced directly in the generated assembly.
func (c *Compiler) DeclareArrayExternal(name string, numElements int, w Width) error {
	if err := c.sym.checkRedeclared(name); err != nil {
		return err
	}
	size := numElements * int(w)
	c.sym.located = append(c.sym.located, &Symbol{
		Kind: KindAtArray, Name: name, Size: size, ElemSize: w, AddrName: name,
	})
	return nil
}

// DeclareStructBased declares `NAME BASED PTR STRUCTURE(F1 BYTE, F2
// ADDRESS);` — a named view over memory addressed by ptr, laid out in
// declaration order with no padding.
func (c *Compiler) DeclareStructBased(name, ptr string, fields []Field) error {
	qname := c.qualifiedName(name)
	if err := c.sym.checkRedeclared(qname); err != nil {
		return err
	}
	offset := 0
	laid := make([]Field, len(fields))
	for i, f := range fields {
		laid[i] = Field{Name: f.Name, Offset: offset, Width: f.Width}
		offset += int(f.Width)
	}
	c.sym.located = append(c.sym.located, &Symbol{
		Kind: KindBasedStruct, Name: qname, Size: offset, PtrName: ptr, Fields: laid,
	})
	return nil
}

// DeclareLabelStatement emits `NAME:` — a plain jump target. Unlike
// DECLARE statements this does not flip execState; a label_statement is
// itself a standalone grammar rule, not a declare_statement, matching
// pyplm.py p_label_statement.
func (c *Compiler) DeclareLabelStatement(name string) error {
	qname := c.qualifiedName(name)
	if err := c.sym.checkRedeclared(qname); err != nil {
		return err
	}
	c.em.emitLabel(qname, c.optimize)
	return nil
}
