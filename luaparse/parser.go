// Package luaparse is a small hand-written Lua lexer and recursive-
// descent parser. It exists to give the analyzer something concrete to
// walk in tests and in the cmd/luasema demonstration host. The
// analyzer's core entry point, analyzer.Analyze, takes an already-parsed
// tree; only its analyzer.AnalyzeSource convenience wrapper calls into
// this package — per spec.md §1, the syntactic parser is an external
// collaborator, not part of the analyzer's scope.
package luaparse

import (
	"fmt"
	"strconv"

	"github.com/lua-tools/luasema/luaast"
	"github.com/lua-tools/luasema/pos"
)

// ParseError reports a syntax error with its byte offset.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("lua syntax error at %d: %s", e.Pos, e.Msg)
}

// Parse scans and parses a full Lua chunk.
func Parse(src []byte) (*luaast.Chunk, error) {
	p := &parser{lex: newLexer(src), srcLen: len(src)}
	p.advance()
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseAbort); ok {
				return
			}
			panic(r)
		}
	}()
	var chunk *luaast.Chunk
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				if pa, ok := r.(parseAbort); ok {
					err = pa.err
					return
				}
				panic(r)
			}
		}()
		body := p.parseBlock()
		if p.cur.kind != tkEOF {
			p.fail("expected end of input")
		}
		chunk = &luaast.Chunk{Span: luaast.NewSpan(pos.New(0, p.srcLen)), Body: body}
	}()
	return chunk, err
}

// parseAbort is used to unwind the recursive descent on a syntax
// error without threading an error return through every production.
type parseAbort struct{ err error }

type parser struct {
	lex    *lexer
	cur    token
	srcLen int
}

func (p *parser) advance() {
	p.cur = p.lex.next()
}

func (p *parser) fail(msg string) {
	panic(parseAbort{&ParseError{Pos: p.cur.lo, Msg: msg}})
}

func (p *parser) expect(k tokenKind, what string) token {
	if p.cur.kind != k {
		p.fail("expected " + what)
	}
	t := p.cur
	p.advance()
	return t
}

func blockEnd(k tokenKind) bool {
	switch k {
	case tkEOF, tkEnd, tkElse, tkElseif, tkUntil:
		return true
	}
	return false
}

func (p *parser) parseBlock() []luaast.Node {
	var body []luaast.Node
	for !blockEnd(p.cur.kind) {
		if p.cur.kind == tkSemi {
			p.advance()
			continue
		}
		if p.cur.kind == tkReturn {
			body = append(body, p.parseReturn())
			break // return must be the last statement in a block
		}
		body = append(body, p.parseStatement())
	}
	return body
}

func (p *parser) parseReturn() luaast.Node {
	lo := p.cur.lo
	p.advance()
	var args []luaast.Node
	if !blockEnd(p.cur.kind) && p.cur.kind != tkSemi {
		args = p.parseExprList()
	}
	if p.cur.kind == tkSemi {
		p.advance()
	}
	return &luaast.ReturnStatement{Span: luaast.NewSpan(pos.New(lo, p.cur.lo)), Arguments: args}
}

func (p *parser) parseStatement() luaast.Node {
	switch p.cur.kind {
	case tkLocal:
		return p.parseLocal()
	case tkFunction:
		return p.parseFunctionStatement()
	case tkIf:
		return p.parseIf()
	case tkWhile:
		return p.parseWhile()
	case tkRepeat:
		return p.parseRepeat()
	case tkDo:
		return p.parseDo()
	case tkFor:
		return p.parseFor()
	case tkBreak:
		lo := p.cur.lo
		p.advance()
		return &luaast.BreakStatement{Span: luaast.NewSpan(pos.New(lo, p.cur.lo))}
	default:
		return p.parseExprStatement()
	}
}

func (p *parser) parseLocal() luaast.Node {
	lo := p.cur.lo
	p.advance()
	if p.cur.kind == tkFunction {
		// local function f(...) ... end  desugars to a LocalStatement
		// whose sole init is the function declaration.
		p.advance()
		nameTok := p.expect(tkName, "function name")
		ident := &luaast.Identifier{Span: luaast.NewSpan(pos.New(nameTok.lo, nameTok.hi)), Name: nameTok.text}
		fn := p.parseFunctionBody(lo, ident, false, true)
		return &luaast.LocalStatement{
			Span:      luaast.NewSpan(pos.New(lo, fn.Range().Hi)),
			Variables: []*luaast.Identifier{ident},
			Init:      []luaast.Node{fn},
		}
	}
	var names []*luaast.Identifier
	names = append(names, p.parseIdentifier())
	for p.cur.kind == tkComma {
		p.advance()
		names = append(names, p.parseIdentifier())
	}
	var init []luaast.Node
	hi := p.cur.lo
	if p.cur.kind == tkAssign {
		p.advance()
		init = p.parseExprList()
	}
	if len(init) > 0 {
		hi = init[len(init)-1].Range().Hi
	} else if len(names) > 0 {
		hi = names[len(names)-1].Range().Hi
	}
	return &luaast.LocalStatement{Span: luaast.NewSpan(pos.New(lo, hi)), Variables: names, Init: init}
}

func (p *parser) parseIdentifier() *luaast.Identifier {
	t := p.expect(tkName, "identifier")
	return &luaast.Identifier{Span: luaast.NewSpan(pos.New(t.lo, t.hi)), Name: t.text}
}

// parseFunctionStatement handles "function name(...) end" and the
// dotted/colon forms "function a.b.c:m(...) end".
func (p *parser) parseFunctionStatement() luaast.Node {
	lo := p.cur.lo
	p.advance()
	var target luaast.Node = p.parseIdentifier()
	isMethod := false
	for p.cur.kind == tkDot || p.cur.kind == tkColon {
		indexer := "."
		if p.cur.kind == tkColon {
			indexer = ":"
		}
		p.advance()
		name := p.parseIdentifier()
		target = &luaast.MemberExpression{
			Span:       luaast.NewSpan(pos.New(target.Range().Lo, name.Range().Hi)),
			Base:       target,
			Indexer:    indexer,
			Identifier: name,
		}
		if indexer == ":" {
			isMethod = true
			break // ':' only appears once, immediately before the method name
		}
	}
	return p.parseFunctionBody(lo, target, isMethod, false)
}

// parseFunctionBody parses "(params) block end" given the already-
// parsed name/target.
func (p *parser) parseFunctionBody(lo int, target luaast.Node, isMethod, isLocal bool) *luaast.FunctionDeclaration {
	p.expect(tkLParen, "(")
	var params []*luaast.Identifier
	vararg := false
	if p.cur.kind != tkRParen {
		for {
			if p.cur.kind == tkEllipsis {
				vararg = true
				p.advance()
				break
			}
			params = append(params, p.parseIdentifier())
			if p.cur.kind != tkComma {
				break
			}
			p.advance()
		}
	}
	p.expect(tkRParen, ")")
	body := p.parseBlock()
	endTok := p.expect(tkEnd, "end")
	return &luaast.FunctionDeclaration{
		Span:       luaast.NewSpan(pos.New(lo, endTok.hi)),
		Identifier: target,
		IsLocal:    isLocal,
		IsMethod:   isMethod,
		Parameters: params,
		HasVararg:  vararg,
		Body:       body,
	}
}

// parseAnonymousFunction parses "function(...) ... end" in expression
// position; target is nil.
func (p *parser) parseAnonymousFunction() *luaast.FunctionDeclaration {
	lo := p.cur.lo
	p.advance() // 'function'
	return p.parseFunctionBody(lo, nil, false, false)
}

func (p *parser) parseIf() luaast.Node {
	lo := p.cur.lo
	var clauses []luaast.Node

	clauseLo := p.cur.lo
	p.advance() // 'if'
	cond := p.parseExpr(0)
	p.expect(tkThen, "then")
	body := p.parseBlock()
	clauses = append(clauses, &luaast.IfClause{
		Span:      luaast.NewSpan(pos.New(clauseLo, p.cur.lo)),
		Condition: cond,
		Body:      body,
	})

	for p.cur.kind == tkElseif {
		clauseLo = p.cur.lo
		p.advance()
		cond := p.parseExpr(0)
		p.expect(tkThen, "then")
		body := p.parseBlock()
		clauses = append(clauses, &luaast.ElseifClause{
			Span:      luaast.NewSpan(pos.New(clauseLo, p.cur.lo)),
			Condition: cond,
			Body:      body,
		})
	}

	if p.cur.kind == tkElse {
		clauseLo = p.cur.lo
		p.advance()
		body := p.parseBlock()
		clauses = append(clauses, &luaast.ElseClause{
			Span: luaast.NewSpan(pos.New(clauseLo, p.cur.lo)),
			Body: body,
		})
	}

	endTok := p.expect(tkEnd, "end")
	return &luaast.IfStatement{Span: luaast.NewSpan(pos.New(lo, endTok.hi)), Clauses: clauses}
}

func (p *parser) parseWhile() luaast.Node {
	lo := p.cur.lo
	p.advance()
	cond := p.parseExpr(0)
	p.expect(tkDo, "do")
	body := p.parseBlock()
	endTok := p.expect(tkEnd, "end")
	return &luaast.WhileStatement{Span: luaast.NewSpan(pos.New(lo, endTok.hi)), Condition: cond, Body: body}
}

func (p *parser) parseRepeat() luaast.Node {
	lo := p.cur.lo
	p.advance()
	body := p.parseBlock()
	p.expect(tkUntil, "until")
	cond := p.parseExpr(0)
	return &luaast.RepeatStatement{Span: luaast.NewSpan(pos.New(lo, cond.Range().Hi)), Condition: cond, Body: body}
}

func (p *parser) parseDo() luaast.Node {
	lo := p.cur.lo
	p.advance()
	body := p.parseBlock()
	endTok := p.expect(tkEnd, "end")
	return &luaast.DoStatement{Span: luaast.NewSpan(pos.New(lo, endTok.hi)), Body: body}
}

func (p *parser) parseFor() luaast.Node {
	lo := p.cur.lo
	p.advance()
	first := p.parseIdentifier()
	if p.cur.kind == tkAssign {
		p.advance()
		start := p.parseExpr(0)
		p.expect(tkComma, ",")
		end := p.parseExpr(0)
		var step luaast.Node
		if p.cur.kind == tkComma {
			p.advance()
			step = p.parseExpr(0)
		}
		p.expect(tkDo, "do")
		body := p.parseBlock()
		endTok := p.expect(tkEnd, "end")
		return &luaast.ForNumericStatement{
			Span:     luaast.NewSpan(pos.New(lo, endTok.hi)),
			Variable: first,
			Start:    start,
			End:      end,
			Step:     step,
			Body:     body,
		}
	}

	vars := []*luaast.Identifier{first}
	for p.cur.kind == tkComma {
		p.advance()
		vars = append(vars, p.parseIdentifier())
	}
	p.expect(tkIn, "in")
	iters := p.parseExprList()
	p.expect(tkDo, "do")
	body := p.parseBlock()
	endTok := p.expect(tkEnd, "end")
	return &luaast.ForGenericStatement{
		Span:      luaast.NewSpan(pos.New(lo, endTok.hi)),
		Variables: vars,
		Iterators: iters,
		Body:      body,
	}
}

// parseExprStatement parses either an AssignmentStatement or a
// CallStatement, both of which start with a prefixexp.
func (p *parser) parseExprStatement() luaast.Node {
	lo := p.cur.lo
	first := p.parseSuffixedExpr()

	if p.cur.kind == tkAssign || p.cur.kind == tkComma {
		targets := []luaast.Node{first}
		for p.cur.kind == tkComma {
			p.advance()
			targets = append(targets, p.parseSuffixedExpr())
		}
		p.expect(tkAssign, "=")
		init := p.parseExprList()
		hi := p.cur.lo
		if len(init) > 0 {
			hi = init[len(init)-1].Range().Hi
		}
		return &luaast.AssignmentStatement{Span: luaast.NewSpan(pos.New(lo, hi)), Variables: targets, Init: init}
	}

	return &luaast.CallStatement{Span: luaast.NewSpan(pos.New(lo, first.Range().Hi)), Expression: first}
}

func (p *parser) parseExprList() []luaast.Node {
	var list []luaast.Node
	list = append(list, p.parseExpr(0))
	for p.cur.kind == tkComma {
		p.advance()
		list = append(list, p.parseExpr(0))
	}
	return list
}

// binaryPrec maps an operator token to its (left, right) binding
// powers; right < left means the operator is right-associative.
func binaryPrec(k tokenKind) (left, right int, ok bool) {
	switch k {
	case tkOr:
		return 1, 1, true
	case tkAnd:
		return 2, 2, true
	case tkLt, tkGt, tkLe, tkGe, tkNe, tkEq:
		return 3, 3, true
	case tkConcat:
		return 5, 4, true // right-associative
	case tkPlus, tkMinus:
		return 6, 6, true
	case tkStar, tkSlash, tkPercent:
		return 7, 7, true
	case tkCaret:
		return 10, 9, true // right-associative
	}
	return 0, 0, false
}

const unaryPrec = 8

func (p *parser) parseExpr(minPrec int) luaast.Node {
	left := p.parseUnary()
	for {
		left2, right, ok := binaryPrec(p.cur.kind)
		if !ok || left2 < minPrec {
			return left
		}
		opTok := p.cur
		p.advance()
		right2 := p.parseExpr(right + 1)
		lo := left.Range().Lo
		hi := right2.Range().Hi
		if opTok.kind == tkAnd || opTok.kind == tkOr {
			left = &luaast.LogicalExpression{Span: luaast.NewSpan(pos.New(lo, hi)), Operator: opTok.text, Left: left, Right: right2}
		} else {
			left = &luaast.BinaryExpression{Span: luaast.NewSpan(pos.New(lo, hi)), Operator: opTok.text, Left: left, Right: right2}
		}
	}
}

func (p *parser) parseUnary() luaast.Node {
	switch p.cur.kind {
	case tkNot, tkMinus, tkHash:
		opTok := p.cur
		p.advance()
		arg := p.parseExpr(unaryPrec)
		return &luaast.UnaryExpression{Span: luaast.NewSpan(pos.New(opTok.lo, arg.Range().Hi)), Operator: opTok.text, Argument: arg}
	}
	return p.parseSimpleExpr()
}

func (p *parser) parseSimpleExpr() luaast.Node {
	t := p.cur
	switch t.kind {
	case tkNumber:
		p.advance()
		val, _ := strconv.ParseFloat(t.text, 64)
		return &luaast.NumericLiteral{Span: luaast.NewSpan(pos.New(t.lo, t.hi)), Value: val}
	case tkString:
		p.advance()
		return &luaast.StringLiteral{Span: luaast.NewSpan(pos.New(t.lo, t.hi)), Value: t.text, Raw: t.text}
	case tkNil:
		p.advance()
		return &luaast.NilLiteral{Span: luaast.NewSpan(pos.New(t.lo, t.hi))}
	case tkTrue:
		p.advance()
		return &luaast.BooleanLiteral{Span: luaast.NewSpan(pos.New(t.lo, t.hi)), Value: true}
	case tkFalse:
		p.advance()
		return &luaast.BooleanLiteral{Span: luaast.NewSpan(pos.New(t.lo, t.hi)), Value: false}
	case tkEllipsis:
		p.advance()
		return &luaast.VarargLiteral{Span: luaast.NewSpan(pos.New(t.lo, t.hi))}
	case tkLBrace:
		return p.parseTableConstructor()
	case tkFunction:
		return p.parseAnonymousFunction()
	default:
		return p.parseSuffixedExpr()
	}
}

// parsePrimaryExpr parses a Name or a parenthesized expression, the
// base of a prefixexp.
func (p *parser) parsePrimaryExpr() luaast.Node {
	switch p.cur.kind {
	case tkName:
		return p.parseIdentifier()
	case tkLParen:
		p.advance()
		e := p.parseExpr(0)
		p.expect(tkRParen, ")")
		return e
	default:
		p.fail("unexpected token in expression")
		return nil
	}
}

// parseSuffixedExpr parses a prefixexp with any chain of member/index/
// call suffixes: a.b:c(x)[1]"y"{z}
func (p *parser) parseSuffixedExpr() luaast.Node {
	expr := p.parsePrimaryExpr()
	for {
		switch p.cur.kind {
		case tkDot:
			p.advance()
			name := p.parseIdentifier()
			expr = &luaast.MemberExpression{Span: luaast.NewSpan(pos.New(expr.Range().Lo, name.Range().Hi)), Base: expr, Indexer: ".", Identifier: name}
		case tkColon:
			p.advance()
			name := p.parseIdentifier()
			method := &luaast.MemberExpression{Span: luaast.NewSpan(pos.New(expr.Range().Lo, name.Range().Hi)), Base: expr, Indexer: ":", Identifier: name}
			expr = p.parseCallArgs(method)
		case tkLBracket:
			p.advance()
			idx := p.parseExpr(0)
			endTok := p.expect(tkRBracket, "]")
			expr = &luaast.IndexExpression{Span: luaast.NewSpan(pos.New(expr.Range().Lo, endTok.hi)), Base: expr, Index: idx}
		case tkLParen, tkString, tkLBrace:
			expr = p.parseCallArgs(expr)
		default:
			return expr
		}
	}
}

// parseCallArgs parses the arguments of a call whose callee (or, for a
// method call, whose bound MemberExpression) is base.
func (p *parser) parseCallArgs(base luaast.Node) luaast.Node {
	switch p.cur.kind {
	case tkLParen:
		p.advance()
		var args []luaast.Node
		if p.cur.kind != tkRParen {
			args = p.parseExprList()
		}
		endTok := p.expect(tkRParen, ")")
		return &luaast.CallExpression{Span: luaast.NewSpan(pos.New(base.Range().Lo, endTok.hi)), Base: base, Arguments: args}
	case tkString:
		t := p.cur
		p.advance()
		arg := &luaast.StringLiteral{Span: luaast.NewSpan(pos.New(t.lo, t.hi)), Value: t.text, Raw: t.text}
		return &luaast.StringCallExpression{Span: luaast.NewSpan(pos.New(base.Range().Lo, t.hi)), Base: base, Argument: arg}
	case tkLBrace:
		tbl := p.parseTableConstructor()
		return &luaast.TableCallExpression{Span: luaast.NewSpan(pos.New(base.Range().Lo, tbl.Range().Hi)), Base: base, Argument: tbl}
	default:
		p.fail("expected call arguments")
		return nil
	}
}

func (p *parser) parseTableConstructor() *luaast.TableConstructorExpression {
	lo := p.cur.lo
	p.expect(tkLBrace, "{")
	var fields []luaast.Node
	for p.cur.kind != tkRBrace {
		fields = append(fields, p.parseTableField())
		if p.cur.kind == tkComma || p.cur.kind == tkSemi {
			p.advance()
		} else {
			break
		}
	}
	endTok := p.expect(tkRBrace, "}")
	return &luaast.TableConstructorExpression{Span: luaast.NewSpan(pos.New(lo, endTok.hi)), Fields: fields}
}

func (p *parser) parseTableField() luaast.Node {
	lo := p.cur.lo
	if p.cur.kind == tkLBracket {
		p.advance()
		key := p.parseExpr(0)
		p.expect(tkRBracket, "]")
		p.expect(tkAssign, "=")
		val := p.parseExpr(0)
		return &luaast.TableKey{Span: luaast.NewSpan(pos.New(lo, val.Range().Hi)), KeyNode: key, Value: val}
	}
	if p.cur.kind == tkName {
		// Disambiguate "name = value" from a bare expression starting
		// with a name (e.g. a function call used as a positional value).
		save := *p.lex
		saveCur := p.cur
		name := p.parseIdentifier()
		if p.cur.kind == tkAssign {
			p.advance()
			val := p.parseExpr(0)
			return &luaast.TableKeyString{Span: luaast.NewSpan(pos.New(lo, val.Range().Hi)), KeyIdent: name, Value: val}
		}
		*p.lex = save
		p.cur = saveCur
	}
	val := p.parseExpr(0)
	return &luaast.TableValue{Span: luaast.NewSpan(pos.New(lo, val.Range().Hi)), Value: val}
}
