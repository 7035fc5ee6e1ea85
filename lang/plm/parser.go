// This file is part of pyplm.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package plm

import (
	"fmt"

	"github.com/DMAW-3000/pyplm/compiler"
)

// parseError is recovered at Parse's top level, the same bail-out pattern
// go/parser and text/template/parse use for single-pass recursive descent:
// every parse*/expect helper panics on the first syntax error instead of
// threading an error return through every call in the grammar.
type parseError struct{ diag Diagnostic }

// Parser drives compiler.Compiler one PL/M statement at a time, in the
// one-pass style of the original grammar: there is no AST handed back to a
// separate codegen phase, every statement emits as it is recognised.
type Parser struct {
	c   *compiler.Compiler
	lex []*lexer
	buf []token
}

// NewParser returns a Parser that will feed src to c statement by
// statement when Parse is called.
func NewParser(c *compiler.Compiler, src string) *Parser {
	return &Parser{c: c, lex: []*lexer{newLexer(src)}}
}

// Parse consumes the entire token stream, driving c. It returns the first
// syntax or semantic error encountered as an ErrorList, or the result of
// c.CheckClosed if every statement parsed cleanly but a DO/procedure was
// left open.
func (p *Parser) Parse() (err error) {
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(parseError)
			if !ok {
				panic(r)
			}
			err = ErrorList{pe.diag}
		}
	}()
	for p.cur().kind != tokEOF {
		p.parseStatement()
	}
	if err := p.c.CheckClosed(); err != nil {
		return ErrorList{{Line: p.cur().line, Msg: err.Error()}}
	}
	return nil
}

func (p *Parser) errorf(format string, args ...interface{}) {
	panic(parseError{Diagnostic{Line: p.cur().line, Msg: fmt.Sprintf(format, args...)}})
}

func (p *Parser) checkErr(err error) {
	if err != nil {
		panic(parseError{Diagnostic{Line: p.cur().line, Msg: err.Error()}})
	}
}

// rawNext pulls the next token from the active lexer, transparently
// substituting LITERALLY names: an identifier that resolves via
// c.Literally pushes a sub-lexer over its substitution text, and that
// sub-lexer's own EOF pops back to whatever was lexing before it. Only the
// bottom-most (original source) lexer's EOF is true end of input.
func (p *Parser) rawNext() (token, error) {
	for {
		top := p.lex[len(p.lex)-1]
		t, err := top.next()
		if err != nil {
			return token{}, err
		}
		if t.kind == tokEOF {
			if len(p.lex) == 1 {
				return t, nil
			}
			p.lex = p.lex[:len(p.lex)-1]
			continue
		}
		if t.kind == tokIdent {
			if text, ok := p.c.Literally(t.str); ok {
				p.lex = append(p.lex, newLexer(text))
				continue
			}
		}
		return t, nil
	}
}

func (p *Parser) fill(n int) {
	for len(p.buf) < n {
		t, err := p.rawNext()
		if err != nil {
			p.errorf("%s", err)
		}
		p.buf = append(p.buf, t)
	}
}

func (p *Parser) cur() token {
	p.fill(1)
	return p.buf[0]
}

func (p *Parser) peek(n int) token {
	p.fill(n + 1)
	return p.buf[n]
}

func (p *Parser) advance() token {
	p.fill(1)
	t := p.buf[0]
	p.buf = p.buf[1:]
	return t
}

func (p *Parser) expect(kind tokKind, desc string) token {
	t := p.cur()
	if t.kind != kind {
		p.errorf("expected %s", desc)
	}
	return p.advance()
}

func (p *Parser) expectIdent() string {
	return p.expect(tokIdent, "identifier").str
}

func (p *Parser) expectString() string {
	return p.expect(tokString, "string literal").str
}

func (p *Parser) expectNumber() int {
	t := p.cur()
	switch t.kind {
	case tokDecNumber, tokHexNumber, tokBinNumber:
		p.advance()
		return t.num
	}
	p.errorf("expected number")
	return 0
}

func (p *Parser) lookup(name string) *compiler.Symbol {
	sym := p.c.Lookup(name)
	if sym == nil {
		p.errorf("unknown identifier %s", name)
	}
	return sym
}

// ---- statement dispatch ----------------------------------------------

// parseStatement implements pyplm.py's `statement : declare_statement |
// label_statement | code_statement`. A label_statement (IDENT COLON) and a
// procedure declaration (IDENT COLON PROCEDURE ...) share the same prefix,
// so both are routed through parseLabelOrProcedure. END NAME; (closing a
// procedure) and bare END; (closing a DO) share the END keyword but take
// very different paths — only the latter is a code_statement.
func (p *Parser) parseStatement() {
	switch p.cur().kind {
	case tokDeclare:
		p.parseDeclareStatement()
	case tokEnd:
		if p.peek(1).kind == tokIdent {
			p.parseEndProcedure()
		} else {
			p.parseCodeStatement()
		}
	case tokIdent:
		if p.peek(1).kind == tokColon {
			p.parseLabelOrProcedure()
		} else {
			p.parseCodeStatement()
		}
	default:
		p.parseCodeStatement()
	}
}

func (p *Parser) parseLabelOrProcedure() {
	name := p.advance().str
	p.advance() // COLON
	if p.cur().kind == tokProcedure {
		p.parseProcedureDecl(name)
		return
	}
	p.checkErr(p.c.DeclareLabelStatement(name))
}

func (p *Parser) parseEndProcedure() {
	p.advance() // END
	name := p.advance().str
	p.expect(tokSemicolon, "';'")
	p.checkErr(p.c.EndProcedure(name))
	p.c.DeclareStatementDone()
}

// parseCodeStatement wraps every control_statement/exec_statement variant
// with the BeginCodeStatement hook pyplm.py's p_code_statement fires on
// every such reduction: procedure-prologue synthesis the first time
// g_exec_state flips true inside a procedure body, and CASE-body joining
// when a DO CASE is open. IF/THEN/ELSE parse their own nested code_statement
// recursively (each such call applies the hook to the inner statement by
// itself) before this outer call applies it once more to the combined
// construct — exactly mirroring the grammar's separate if_then_statement /
// else_statement reductions.
func (p *Parser) parseCodeStatement() {
	p.parseCodeStatementBody()
	p.checkErr(p.c.BeginCodeStatement())
}

func (p *Parser) parseCodeStatementBody() {
	switch p.cur().kind {
	case tokEnd:
		p.advance()
		p.expect(tokSemicolon, "';'")
		p.checkErr(p.c.EndStatement())
	case tokIf:
		p.parseIfThenElse()
	case tokElse:
		p.advance()
		hadDo := p.parseNestedCodeStatement()
		p.checkErr(p.c.Else(hadDo))
	case tokDo:
		p.parseDoOpen()
	case tokGo:
		p.parseGoto()
	case tokCall:
		p.parseCallStatement()
	case tokReturn:
		p.parseReturnStatement()
	default:
		p.parseAssignStatement()
	}
}

// parseNestedCodeStatement parses the single code_statement that follows
// THEN or ELSE, returning whether it was exactly a bare `DO;` — the one
// case pyplm.py's do_statement flags via its own production value, needed
// because a bare DO pushes an empty-exit-label frame that IfThen/Else must
// fold their own skip label into (see stmt_control.go's IfThen).
func (p *Parser) parseNestedCodeStatement() bool {
	bareDo := p.cur().kind == tokDo && p.peek(1).kind == tokSemicolon
	p.parseCodeStatement()
	return bareDo
}

func (p *Parser) parseIfThenElse() {
	p.advance() // IF
	cond := compiler.WrapCond(p.parseExpr())
	p.expect(tokThen, "THEN")
	hadDo := p.parseNestedCodeStatement()
	p.checkErr(p.c.IfThen(cond, hadDo))
	if p.cur().kind == tokElse {
		p.advance()
		hadDo2 := p.parseNestedCodeStatement()
		p.checkErr(p.c.Else(hadDo2))
	}
}

func (p *Parser) parseDoOpen() {
	p.advance() // DO
	switch p.cur().kind {
	case tokSemicolon:
		p.advance()
		p.c.DoStatement()
	case tokWhile:
		p.advance()
		cond := compiler.WrapCond(p.parseExpr())
		p.expect(tokSemicolon, "';'")
		p.checkErr(p.c.DoWhileStatement(cond))
	case tokCase:
		p.advance()
		expr := p.parseExpr()
		p.expect(tokSemicolon, "';'")
		p.checkErr(p.c.DoCaseStatement(expr))
	default:
		name := p.expectIdent()
		sym := p.lookup(name)
		p.expect(tokEqual, "'='")
		from := p.parseExpr()
		p.expect(tokTo, "TO")
		to := p.parseExpr()
		var by *compiler.Node
		if p.cur().kind == tokBy {
			p.advance()
			by = p.parseExpr()
		}
		p.expect(tokSemicolon, "';'")
		p.checkErr(p.c.DoToStatement(sym, from, to, by))
	}
}

func (p *Parser) parseGoto() {
	p.advance() // GO
	p.expect(tokTo, "TO")
	name := p.expectIdent()
	p.expect(tokSemicolon, "';'")
	p.c.GotoStatement(name)
}

func (p *Parser) parseCallStatement() {
	p.advance() // CALL
	name := p.expectIdent()
	var args []*compiler.Node
	if p.cur().kind == tokLParen {
		p.advance()
		args = append(args, p.parseExpr())
		for p.cur().kind == tokComma {
			p.advance()
			args = append(args, p.parseExpr())
		}
		p.expect(tokRParen, "')'")
	}
	p.expect(tokSemicolon, "';'")
	sym := p.lookup(name)
	p.checkErr(p.c.CallStatement(sym, args))
}

func (p *Parser) parseReturnStatement() {
	p.advance() // RETURN
	var expr *compiler.Node
	if p.cur().kind != tokSemicolon {
		expr = p.parseExpr()
	}
	p.expect(tokSemicolon, "';'")
	p.checkErr(p.c.ReturnStatement(expr))
}

func (p *Parser) parseAssignStatement() {
	var targets []compiler.AssignTarget
	targets = append(targets, p.parseAssignVar())
	for p.cur().kind == tokComma {
		p.advance()
		targets = append(targets, p.parseAssignVar())
	}
	p.expect(tokEqual, "'='")
	expr := p.parseExpr()
	p.expect(tokSemicolon, "';'")
	p.checkErr(p.c.AssignStatement(targets, expr))
}

func (p *Parser) parseAssignVar() compiler.AssignTarget {
	name := p.expectIdent()
	sym := p.lookup(name)
	if p.cur().kind == tokLParen {
		p.advance()
		idx := p.parseExpr()
		p.expect(tokRParen, "')'")
		return compiler.AssignTarget{Sym: sym, Index: idx}
	}
	return compiler.AssignTarget{Sym: sym}
}

// ---- procedure declarations -------------------------------------------

// parseProcedureDecl implements every procedure_arg{0,1,2,3}[_ext] variant
// of pyplm.py's declare_procedure (lines 708-818). The original grammar
// only allows EXTERNAL on the two-argument form; that restriction looks
// like an artifact of the grammar having been grown one arity at a time
// rather than a deliberate rule, so EXTERNAL is accepted here after any
// arity (0-3) — see DESIGN.md.
func (p *Parser) parseProcedureDecl(name string) {
	p.advance() // PROCEDURE
	var args []string
	if p.cur().kind == tokLParen {
		p.advance()
		args = append(args, p.expectIdent())
		for p.cur().kind == tokComma {
			p.advance()
			args = append(args, p.expectIdent())
		}
		p.expect(tokRParen, "')'")
	}
	retSize := 0
	switch p.cur().kind {
	case tokByte:
		p.advance()
		retSize = int(compiler.Byte)
	case tokAddress:
		p.advance()
		retSize = int(compiler.Address)
	}
	external := false
	if p.cur().kind == tokExternal {
		p.advance()
		external = true
	}
	p.expect(tokSemicolon, "';'")
	_, err := p.c.DeclareProcedure(name, args, retSize, external)
	p.checkErr(err)
	p.c.DeclareStatementDone()
}

// ---- DECLARE ------------------------------------------------------------

func (p *Parser) parseDeclareStatement() {
	p.advance() // DECLARE
	for {
		p.parseDeclareName()
		if p.cur().kind != tokComma {
			break
		}
		p.advance()
	}
	p.expect(tokSemicolon, "';'")
	p.c.DeclareStatementDone()
}

func (p *Parser) parseWidthKeyword() compiler.Width {
	switch p.cur().kind {
	case tokByte:
		p.advance()
		return compiler.Byte
	case tokAddress:
		p.advance()
		return compiler.Address
	}
	p.errorf("expected BYTE or ADDRESS")
	return compiler.Byte
}

// parseDeclareName implements one declare_name production (pyplm.py lines
// 300-719): a LITERALLY text constant, a parenthesised name list sharing
// one type, a BASED scalar/array/struct, a plain or initialised scalar, or
// an array in any of its AT/DATA/EXTERNAL/BASED forms.
func (p *Parser) parseDeclareName() {
	if p.cur().kind == tokLParen {
		p.advance()
		names := []string{p.expectIdent()}
		for p.cur().kind == tokComma {
			p.advance()
			names = append(names, p.expectIdent())
		}
		p.expect(tokRParen, "')'")
		w := p.parseWidthKeyword()
		p.checkErr(p.c.DeclareVariableList(names, w))
		return
	}

	name := p.expectIdent()

	if p.cur().kind == tokLiterally {
		p.advance()
		var text string
		if t := p.cur(); t.kind == tokDecNumber && t.str != "" {
			// a one-character string lexes as its character code
			p.advance()
			text = t.str
		} else {
			text = p.expectString()
		}
		p.checkErr(p.c.DeclareLiterally(name, text))
		return
	}

	if p.cur().kind == tokBased {
		p.advance()
		ptr := p.expectIdent()
		switch p.cur().kind {
		case tokLParen:
			p.advance()
			n := p.expectNumber()
			p.expect(tokRParen, "')'")
			w := p.parseWidthKeyword()
			p.checkErr(p.c.DeclareArrayBased(name, ptr, n, w))
		case tokStructure:
			p.advance()
			fields := p.parseStructFieldList()
			p.checkErr(p.c.DeclareStructBased(name, ptr, fields))
		default:
			w := p.parseWidthKeyword()
			p.checkErr(p.c.DeclareVariableBased(name, ptr, w))
		}
		return
	}

	if p.cur().kind == tokLParen {
		p.parseDeclareArrayTail(name)
		return
	}

	w := p.parseWidthKeyword()
	p.parseScalarTail(name, w)
}

func (p *Parser) parseStructFieldList() []compiler.Field {
	p.expect(tokLParen, "'('")
	var fields []compiler.Field
	for {
		fname := p.expectIdent()
		w := p.parseWidthKeyword()
		fields = append(fields, compiler.Field{Name: fname, Width: w})
		if p.cur().kind != tokComma {
			break
		}
		p.advance()
	}
	p.expect(tokRParen, "')'")
	return fields
}

func (p *Parser) parseScalarTail(name string, w compiler.Width) {
	switch p.cur().kind {
	case tokData:
		p.advance()
		p.expect(tokLParen, "'('")
		init := p.parseInitValue()
		p.expect(tokRParen, "')'")
		p.checkErr(p.c.DeclareVariableInit(name, w, init))
	case tokAt:
		p.advance()
		p.expect(tokLParen, "'('")
		p.parseScalarAtTail(name, w)
		p.expect(tokRParen, "')'")
	case tokExternal:
		p.advance()
		p.checkErr(p.c.DeclareVariableExternal(name, w))
	default:
		p.checkErr(p.c.DeclareVariable(name, w))
	}
}

func (p *Parser) parseScalarAtTail(name string, w compiler.Width) {
	if p.cur().kind == tokPeriod {
		p.advance()
		ref := p.expectIdent()
		if p.cur().kind == tokLParen {
			p.advance()
			idx := p.expectNumber()
			p.expect(tokRParen, "')'")
			p.checkErr(p.c.DeclareVariableAtArray(name, w, ref, idx))
			return
		}
		p.checkErr(p.c.DeclareVariableAtRef(name, w, ref))
		return
	}
	n := p.expectNumber()
	p.checkErr(p.c.DeclareVariableAtNumber(name, w, n))
}

func (p *Parser) parseInitValue() compiler.InitValue {
	if p.cur().kind == tokPeriod {
		p.advance()
		ref := p.expectIdent()
		return compiler.InitValue{IsRef: true, Ref: ref}
	}
	return compiler.InitValue{Num: p.expectNumber()}
}

func (p *Parser) parseAtTarget() compiler.InitValue {
	if p.cur().kind == tokPeriod {
		p.advance()
		ref := p.expectIdent()
		return compiler.InitValue{IsRef: true, Ref: ref}
	}
	return compiler.InitValue{Num: p.expectNumber()}
}

// parseArrayParenItem reads one element of a parenthesised array literal
// or initialiser list: a string explodes into one byte per character at
// DeclareString time, a `.NAME` reference carries through as an
// InitValue, anything else is a constant (optionally negated) number.
func (p *Parser) parseArrayParenItem() interface{} {
	switch p.cur().kind {
	case tokString:
		return p.advance().str
	case tokPeriod:
		p.advance()
		ref := p.expectIdent()
		return compiler.InitValue{IsRef: true, Ref: ref}
	case tokMinus:
		p.advance()
		return -p.expectNumber()
	}
	return p.expectNumber()
}

func (p *Parser) parseArrayParenItems() []interface{} {
	items := []interface{}{p.parseArrayParenItem()}
	for p.cur().kind == tokComma {
		p.advance()
		items = append(items, p.parseArrayParenItem())
	}
	return items
}

func itemsHaveString(items []interface{}) bool {
	for _, it := range items {
		if _, ok := it.(string); ok {
			return true
		}
	}
	return false
}

func itemsToValues(items []interface{}) []compiler.InitValue {
	values := make([]compiler.InitValue, len(items))
	for i, it := range items {
		switch v := it.(type) {
		case int:
			values[i] = compiler.InitValue{Num: v}
		case compiler.InitValue:
			values[i] = v
		}
	}
	return values
}

// parseDeclareArrayTail implements every `IDENT LPARENS ... RPARENS
// variable_type ...` production: a bare `*` defers sizing to a mandatory
// trailing DATA(...), a single bare number in parens is the array's
// element count (pyplm.py's grammar has no separate keyword to tell this
// apart from a one-element initialiser list, so the size reading is taken
// as the far more common real-world usage), and anything else — multiple
// items, or any STRING item — is an inline initialiser list sized by the
// list itself.
func (p *Parser) parseDeclareArrayTail(name string) {
	p.advance() // '('
	star := p.cur().kind == tokAsterisk
	var items []interface{}
	if star {
		p.advance()
	} else {
		items = p.parseArrayParenItems()
	}
	p.expect(tokRParen, "')'")
	w := p.parseWidthKeyword()

	if star {
		p.expect(tokData, "DATA")
		p.expect(tokLParen, "'('")
		data := p.parseArrayParenItems()
		p.expect(tokRParen, "')'")
		p.finishArrayInit(name, w, data)
		return
	}

	if len(items) == 1 {
		if n, ok := items[0].(int); ok {
			p.parseArrayAfterSize(name, n, w)
			return
		}
	}
	p.finishArrayInit(name, w, items)
}

func (p *Parser) finishArrayInit(name string, w compiler.Width, items []interface{}) {
	if itemsHaveString(items) {
		if len(items) == 1 {
			p.checkErr(p.c.DeclareString(name, w, items[0].(string), nil))
			return
		}
		p.checkErr(p.c.DeclareString(name, w, "", items))
		return
	}
	p.checkErr(p.c.DeclareArrayInit(name, itemsToValues(items), w))
}

func (p *Parser) parseArrayAfterSize(name string, n int, w compiler.Width) {
	switch p.cur().kind {
	case tokData:
		p.advance()
		p.expect(tokLParen, "'('")
		data := p.parseArrayParenItems()
		p.expect(tokRParen, "')'")
		if itemsHaveString(data) {
			if len(data) == 1 {
				p.checkErr(p.c.DeclareString(name, w, data[0].(string), nil))
				return
			}
			p.checkErr(p.c.DeclareString(name, w, "", data))
			return
		}
		p.checkErr(p.c.DeclareArrayInitSized(name, n, w, itemsToValues(data)))
	case tokAt:
		p.advance()
		p.expect(tokLParen, "'('")
		target := p.parseAtTarget()
		p.expect(tokRParen, "')'")
		p.checkErr(p.c.DeclareArrayAt(name, n, w, target))
	case tokExternal:
		p.advance()
		p.checkErr(p.c.DeclareArrayExternal(name, n, w))
	default:
		p.checkErr(p.c.DeclareArray(name, n, w))
	}
}

// ---- expressions ---------------------------------------------------------
//
// Precedence climbs OR > AND > NOT > relational > add/sub > mul/div/mod,
// exactly the table at the bottom of pyplm.py (lines 1579-1593); ASSIGN
// binds even looser but only ever appears inside the parenthesised/bare
// inplace_assign production, handled directly in parsePrimary rather than
// as a precedence level of its own.

func (p *Parser) parseExpr() *compiler.Node { return p.parseOr() }

func (p *Parser) parseOr() *compiler.Node {
	left := p.parseAnd()
	for p.cur().kind == tokOr {
		p.advance()
		left = compiler.BitOr(left, p.parseAnd())
	}
	return left
}

func (p *Parser) parseAnd() *compiler.Node {
	left := p.parseNot()
	for p.cur().kind == tokAnd {
		p.advance()
		left = compiler.BitAnd(left, p.parseNot())
	}
	return left
}

func (p *Parser) parseNot() *compiler.Node {
	if p.cur().kind == tokNot {
		p.advance()
		return compiler.LogicalNot(p.parseNot())
	}
	return p.parseRel()
}

func (p *Parser) parseRel() *compiler.Node {
	left := p.parseAddSub()
	switch p.cur().kind {
	case tokEqual:
		p.advance()
		return compiler.Eq(left, p.parseAddSub())
	case tokNotEqual:
		p.advance()
		return compiler.Ne(left, p.parseAddSub())
	case tokLess:
		p.advance()
		return compiler.Lt(left, p.parseAddSub())
	case tokGreater:
		p.advance()
		return compiler.Gt(left, p.parseAddSub())
	case tokLessEqual:
		p.advance()
		return compiler.Le(left, p.parseAddSub())
	case tokGreaterEqual:
		p.advance()
		return compiler.Ge(left, p.parseAddSub())
	}
	return left
}

func (p *Parser) parseAddSub() *compiler.Node {
	left := p.parseMulDiv()
	for {
		switch p.cur().kind {
		case tokPlus:
			p.advance()
			left = compiler.Add(left, p.parseMulDiv())
		case tokMinus:
			p.advance()
			left = compiler.Sub(left, p.parseMulDiv())
		default:
			return left
		}
	}
}

func (p *Parser) parseMulDiv() *compiler.Node {
	left := p.parsePrimary()
	for {
		switch p.cur().kind {
		case tokAsterisk:
			p.advance()
			left = compiler.Mul(left, p.parsePrimary())
		case tokSlash:
			p.advance()
			left = compiler.Div(left, p.parsePrimary())
		case tokMod:
			p.advance()
			left = compiler.Mod(left, p.parsePrimary())
		default:
			return left
		}
	}
}

// parsePrimary implements element_expr plus the bare `LPARENS expr
// RPARENS` production of pyplm.py's `expr` rule: a number, a `.`-led
// reference, a parenthesised sub-expression or inplace-assign, or an
// identifier-led form resolved by parseIdentExpr.
func (p *Parser) parsePrimary() *compiler.Node {
	t := p.cur()
	switch t.kind {
	case tokDecNumber, tokHexNumber, tokBinNumber:
		p.advance()
		return compiler.Lit(t.num)
	case tokPeriod:
		return p.parseReference()
	case tokLParen:
		p.advance()
		if p.cur().kind == tokIdent && p.peek(1).kind == tokAssign {
			name := p.advance().str
			p.advance() // :=
			expr := p.parseExpr()
			p.expect(tokRParen, "')'")
			return p.buildInplaceAssign(name, expr)
		}
		inner := p.parseExpr()
		p.expect(tokRParen, "')'")
		return inner
	case tokIdent:
		return p.parseIdentExpr()
	}
	p.errorf("unexpected token in expression")
	return nil
}

func (p *Parser) parseReference() *compiler.Node {
	p.advance() // '.'
	if p.cur().kind == tokLParen {
		p.advance()
		items := p.parseArrayParenItems()
		p.expect(tokRParen, "')'")
		var values []int
		for _, it := range items {
			switch v := it.(type) {
			case int:
				values = append(values, v)
			case string:
				for _, ch := range v {
					values = append(values, int(ch))
				}
			}
		}
		return compiler.InlineBytes(values)
	}
	name := p.expectIdent()
	return compiler.Ref(name, p.c.Lookup(name))
}

// parseIdentExpr resolves every `element_expr` production led by an
// identifier: inplace_assign (NAME := expr), struct_item (NAME.FIELD), a
// bare scalar/procedure-call-0 load, or the NAME(...) form shared by array
// indexing and 1/2/3-arg procedure calls (pyplm.py disambiguates these by
// the resolved symbol's kind, not by separate grammar productions).
func (p *Parser) parseIdentExpr() *compiler.Node {
	name := p.advance().str

	if p.cur().kind == tokAssign {
		p.advance()
		return p.buildInplaceAssign(name, p.parseExpr())
	}

	if p.cur().kind == tokPeriod {
		p.advance()
		field := p.expectIdent()
		return compiler.StructField(p.lookup(name), field)
	}

	if p.cur().kind != tokLParen {
		sym := p.lookup(name)
		if sym.IsProcedure() {
			return compiler.CallNode(sym, nil)
		}
		return compiler.Ident(name, sym)
	}

	p.advance() // '('
	args := []*compiler.Node{p.parseExpr()}
	for p.cur().kind == tokComma {
		p.advance()
		args = append(args, p.parseExpr())
	}
	p.expect(tokRParen, "')'")

	sym := p.lookup(name)
	switch {
	case len(args) == 1 && sym.IsArray():
		return compiler.Index(sym, name, args[0])
	case sym.IsProcedure():
		return compiler.CallNode(sym, args)
	}
	p.errorf("%s is not an array or procedure", name)
	return nil
}

func (p *Parser) buildInplaceAssign(name string, expr *compiler.Node) *compiler.Node {
	sym := p.lookup(name)
	if !sym.IsVariable() {
		p.errorf("inplace assign %s must be a scalar", name)
	}
	return compiler.Assign(compiler.Ident(name, sym), expr)
}
