// Copyright 2026 The DUC Authors.
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
//
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"strconv"
	"strings"

	"chainscope.dev/duc/ast"
	"chainscope.dev/duc/lex"
)

// parseExprList parses a single expression, or a bare comma-separated list
// forming an implicit Tuple ("a, b = 1, 2", "return a, b").
func (p *parser) parseExprList() ast.Expr {
	first := p.parseExpr()
	if !p.at(lex.Comma) {
		return first
	}

	elts := []ast.Expr{first}

	for {
		if _, ok := p.match(lex.Comma); !ok {
			break
		}

		if p.atExprListEnd() {
			break
		}

		elts = append(elts, p.parseExpr())
	}

	return &ast.Tuple{Position: first.Pos(), Elts: elts, Ctx: ast.Load}
}

func (p *parser) atExprListEnd() bool {
	switch p.cur().Kind {
	case lex.Semi, lex.RParen, lex.RBrace, lex.RBracket, lex.Colon, lex.EOF,
		lex.KwFrom, lex.KwIn:
		return true
	default:
		return false
	}
}

// parseExpr is the entry point for a single expression, the walrus
// assignment-expression level.
func (p *parser) parseExpr() ast.Expr {
	if p.at(lex.Ident) && p.peekKind(1) == lex.Walrus {
		pos := p.cur().Pos
		name := &ast.Name{Position: pos, Id: p.advance().Lit, Ctx: ast.Store}
		p.expect(lex.Walrus, "':='")
		val := p.parseExpr()

		return &ast.NamedExpr{Position: pos, Target: name, Value: val}
	}

	return p.parseTernary()
}

func (p *parser) peekKind(n int) lex.Kind {
	if p.pos+n >= len(p.toks) {
		return lex.EOF
	}

	return p.toks[p.pos+n].Kind
}

func (p *parser) parseTernary() ast.Expr {
	body := p.parseOr()

	if _, ok := p.match(lex.KwIf); !ok {
		return body
	}

	test := p.parseOr()
	p.expect(lex.KwElse, "'else'")
	orelse := p.parseExpr()

	return &ast.IfExp{Position: body.Pos(), Test: test, Body: body, Orelse: orelse}
}

func (p *parser) parseOr() ast.Expr {
	first := p.parseAnd()
	if !p.at(lex.KwOr) {
		return first
	}

	values := []ast.Expr{first}
	for {
		if _, ok := p.match(lex.KwOr); !ok {
			break
		}

		values = append(values, p.parseAnd())
	}

	return &ast.BoolOp{Position: first.Pos(), Op: "or", Values: values}
}

func (p *parser) parseAnd() ast.Expr {
	first := p.parseNot()
	if !p.at(lex.KwAnd) {
		return first
	}

	values := []ast.Expr{first}
	for {
		if _, ok := p.match(lex.KwAnd); !ok {
			break
		}

		values = append(values, p.parseNot())
	}

	return &ast.BoolOp{Position: first.Pos(), Op: "and", Values: values}
}

func (p *parser) parseNot() ast.Expr {
	if tok, ok := p.match(lex.KwNot); ok {
		operand := p.parseNot()

		return &ast.UnaryOp{Position: tok.Pos, Op: "not", Operand: operand}
	}

	return p.parseComparison()
}

func (p *parser) parseComparison() ast.Expr {
	left := p.parseAdd()

	for {
		op, ok := p.matchCompareOp()
		if !ok {
			break
		}

		right := p.parseAdd()
		left = &ast.BinOp{Position: left.Pos(), Left: left, Op: op, Right: right}
	}

	return left
}

func (p *parser) matchCompareOp() (string, bool) {
	switch p.cur().Kind {
	case lex.Eq:
		p.advance()

		return "==", true
	case lex.Ne:
		p.advance()

		return "!=", true
	case lex.Lt:
		p.advance()

		return "<", true
	case lex.Le:
		p.advance()

		return "<=", true
	case lex.Gt:
		p.advance()

		return ">", true
	case lex.Ge:
		p.advance()

		return ">=", true
	case lex.KwIn:
		p.advance()

		return "in", true
	case lex.KwIs:
		p.advance()

		if _, ok := p.match(lex.KwNot); ok {
			return "is not", true
		}

		return "is", true
	case lex.KwNot:
		if p.peekKind(1) == lex.KwIn {
			p.advance()
			p.advance()

			return "not in", true
		}

		return "", false
	default:
		return "", false
	}
}

func (p *parser) parseAdd() ast.Expr {
	left := p.parseTerm()

	for p.at(lex.Plus) || p.at(lex.Minus) {
		op := "+"
		if p.at(lex.Minus) {
			op = "-"
		}

		p.advance()

		right := p.parseTerm()
		left = &ast.BinOp{Position: left.Pos(), Left: left, Op: op, Right: right}
	}

	return left
}

func (p *parser) parseTerm() ast.Expr {
	left := p.parseUnary()

	for {
		var op string

		switch p.cur().Kind {
		case lex.Star:
			op = "*"
		case lex.Slash:
			op = "/"
		case lex.DoubleSlash:
			op = "//"
		case lex.Percent:
			op = "%"
		default:
			return left
		}

		p.advance()

		right := p.parseUnary()
		left = &ast.BinOp{Position: left.Pos(), Left: left, Op: op, Right: right}
	}
}

func (p *parser) parseUnary() ast.Expr {
	switch p.cur().Kind {
	case lex.Minus:
		tok := p.advance()

		return &ast.UnaryOp{Position: tok.Pos, Op: "-", Operand: p.parseUnary()}
	case lex.Plus:
		tok := p.advance()

		return &ast.UnaryOp{Position: tok.Pos, Op: "+", Operand: p.parseUnary()}
	case lex.KwAwait:
		tok := p.advance()

		return &ast.Await{Position: tok.Pos, Value: p.parseUnary()}
	default:
		return p.parsePower()
	}
}

func (p *parser) parsePower() ast.Expr {
	left := p.parsePostfix()

	if _, ok := p.match(lex.DoubleStar); ok {
		right := p.parseUnary()

		return &ast.BinOp{Position: left.Pos(), Left: left, Op: "**", Right: right}
	}

	return left
}

func (p *parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()

	for {
		switch {
		case p.at(lex.Dot):
			p.advance()
			attr := p.parseNameIdent()
			x = &ast.Attribute{Position: x.Pos(), Value: x, Attr: attr, Ctx: ast.Load}

		case p.at(lex.LParen):
			x = p.parseCall(x)

		case p.at(lex.LBracket):
			x = p.parseSubscript(x)

		default:
			return x
		}
	}
}

func (p *parser) parseCall(fn ast.Expr) ast.Expr {
	p.expect(lex.LParen, "'('")

	call := &ast.Call{Position: fn.Pos(), Func: fn}

	for !p.at(lex.RParen) {
		switch {
		case p.at(lex.Star):
			p.advance()

			v := p.parseExpr()
			call.Args = append(call.Args, &ast.Starred{Position: v.Pos(), Value: v, Ctx: ast.Load})

		case p.at(lex.DoubleStar):
			p.advance()

			v := p.parseExpr()
			call.Keywords = append(call.Keywords, &ast.Keyword{Position: v.Pos(), Value: v})

		case p.at(lex.Ident) && p.peekKind(1) == lex.Assign:
			name := p.parseNameIdent()
			p.expect(lex.Assign, "'='")

			v := p.parseExpr()
			call.Keywords = append(call.Keywords, &ast.Keyword{Position: v.Pos(), Name: name, Value: v})

		default:
			call.Args = append(call.Args, p.parseExpr())
		}

		if _, ok := p.match(lex.Comma); !ok {
			break
		}
	}

	p.expect(lex.RParen, "')'")

	return call
}

func (p *parser) parseSubscript(x ast.Expr) ast.Expr {
	p.expect(lex.LBracket, "'['")
	slice := p.parseSliceOrExpr()
	p.expect(lex.RBracket, "']'")

	return &ast.Subscript{Position: x.Pos(), Value: x, Slice: slice, Ctx: ast.Load}
}

func (p *parser) parseSliceOrExpr() ast.Expr {
	pos := p.cur().Pos

	var lower, upper, step ast.Expr

	if !p.at(lex.Colon) && !p.at(lex.RBracket) {
		lower = p.parseExpr()
	}

	if _, ok := p.match(lex.Colon); !ok {
		return lower
	}

	if !p.at(lex.Colon) && !p.at(lex.RBracket) {
		upper = p.parseExpr()
	}

	if _, ok := p.match(lex.Colon); ok {
		if !p.at(lex.RBracket) {
			step = p.parseExpr()
		}
	}

	return &ast.Slice{Position: pos, Lower: lower, Upper: upper, Step: step}
}

//nolint:gocyclo // one branch per literal/primary form, unavoidable.
func (p *parser) parsePrimary() ast.Expr {
	tok := p.cur()

	switch tok.Kind {
	case lex.Number:
		p.advance()

		return &ast.Constant{Position: tok.Pos, Value: parseNumber(tok.Lit)}

	case lex.String:
		p.advance()

		return &ast.Constant{Position: tok.Pos, Value: tok.Lit}

	case lex.KwTrue:
		p.advance()

		return &ast.Constant{Position: tok.Pos, Value: true}

	case lex.KwFalse:
		p.advance()

		return &ast.Constant{Position: tok.Pos, Value: false}

	case lex.KwNone:
		p.advance()

		return &ast.Constant{Position: tok.Pos, Value: nil}

	case lex.Ident:
		p.advance()

		return &ast.Name{Position: tok.Pos, Id: tok.Lit, Ctx: ast.Load}

	case lex.KwYield:
		return p.parseYield()

	case lex.KwLambda:
		return p.parseLambda()

	case lex.Star:
		p.advance()

		v := p.parseOr()

		return &ast.Starred{Position: tok.Pos, Value: v, Ctx: ast.Load}

	case lex.LParen:
		return p.parseParenOrTuple()

	case lex.LBracket:
		return p.parseListOrListComp()

	case lex.LBrace:
		return p.parseBraceExpr()

	default:
		p.fail("expected expression, found " + tokenDesc(tok))

		return nil
	}
}

func tokenDesc(tok lex.Token) string {
	if tok.Kind == lex.EOF {
		return "end of input"
	}

	return strconv.Quote(tok.Lit)
}

func parseNumber(lit string) any {
	if strings.Contains(lit, ".") {
		f, _ := strconv.ParseFloat(lit, 64)

		return f
	}

	i, _ := strconv.ParseInt(lit, 10, 64)

	return i
}

func (p *parser) parseYield() ast.Expr {
	pos := p.expect(lex.KwYield, "'yield'").Pos

	if _, ok := p.match(lex.KwFrom); ok {
		return &ast.YieldFrom{Position: pos, Value: p.parseExpr()}
	}

	var val ast.Expr
	if !p.atExprListEnd() {
		val = p.parseExprList()
	}

	return &ast.Yield{Position: pos, Value: val}
}

func (p *parser) parseLambda() ast.Expr {
	pos := p.expect(lex.KwLambda, "'lambda'").Pos

	args := p.parseLambdaParams()
	p.expect(lex.Colon, "':'")
	body := p.parseExpr()

	return &ast.Lambda{Position: pos, Args: args, Body: body}
}

func (p *parser) parseLambdaParams() *ast.Arguments {
	args := &ast.Arguments{}

	if p.at(lex.Colon) {
		return args
	}

	for {
		switch p.cur().Kind {
		case lex.DoubleStar:
			p.advance()
			args.KwArg = &ast.Arg{Position: p.cur().Pos, Name: p.parseNameIdent()}

		case lex.Star:
			p.advance()

			if p.at(lex.Ident) {
				args.VarArg = &ast.Arg{Position: p.cur().Pos, Name: p.parseNameIdent()}
			}

		default:
			pos := p.cur().Pos
			a := &ast.Arg{Position: pos, Name: p.parseNameIdent()}
			args.Args = append(args.Args, a)

			if _, ok := p.match(lex.Assign); ok {
				args.Defaults = append(args.Defaults, p.parseExpr())
			}
		}

		if _, ok := p.match(lex.Comma); !ok {
			break
		}

		if p.at(lex.Colon) {
			break
		}
	}

	return args
}

func (p *parser) parseParenOrTuple() ast.Expr {
	pos := p.expect(lex.LParen, "'('").Pos

	if _, ok := p.match(lex.RParen); ok {
		return &ast.Tuple{Position: pos, Ctx: ast.Load}
	}

	first := p.parseExpr()

	switch {
	case p.at(lex.KwFor) || p.at(lex.KwAsync):
		gens := p.parseComprehensionClauses()
		p.expect(lex.RParen, "')'")

		return &ast.GeneratorExp{Position: pos, Elt: first, Generators: gens}

	case p.at(lex.Comma):
		elts := []ast.Expr{first}

		for {
			if _, ok := p.match(lex.Comma); !ok {
				break
			}

			if p.at(lex.RParen) {
				break
			}

			elts = append(elts, p.parseExpr())
		}

		p.expect(lex.RParen, "')'")

		return &ast.Tuple{Position: pos, Elts: elts, Ctx: ast.Load}

	default:
		p.expect(lex.RParen, "')'")

		return first
	}
}

func (p *parser) parseListOrListComp() ast.Expr {
	pos := p.expect(lex.LBracket, "'['").Pos

	if _, ok := p.match(lex.RBracket); ok {
		return &ast.List{Position: pos, Ctx: ast.Load}
	}

	first := p.parseExpr()

	if p.at(lex.KwFor) || p.at(lex.KwAsync) {
		gens := p.parseComprehensionClauses()
		p.expect(lex.RBracket, "']'")

		return &ast.ListComp{Position: pos, Elt: first, Generators: gens}
	}

	elts := []ast.Expr{first}

	for {
		if _, ok := p.match(lex.Comma); !ok {
			break
		}

		if p.at(lex.RBracket) {
			break
		}

		elts = append(elts, p.parseExpr())
	}

	p.expect(lex.RBracket, "']'")

	return &ast.List{Position: pos, Elts: elts, Ctx: ast.Load}
}

//nolint:gocyclo // dict/set/dictcomp/setcomp disambiguation, one switch.
func (p *parser) parseBraceExpr() ast.Expr {
	pos := p.expect(lex.LBrace, "'{'").Pos

	if _, ok := p.match(lex.RBrace); ok {
		return &ast.Dict{Position: pos}
	}

	if _, ok := p.match(lex.DoubleStar); ok {
		val := p.parseOr()
		keys := []ast.Expr{nil}
		values := []ast.Expr{val}

		return p.finishDict(pos, keys, values)
	}

	first := p.parseExpr()

	if _, ok := p.match(lex.Colon); ok {
		val := p.parseExpr()

		if p.at(lex.KwFor) || p.at(lex.KwAsync) {
			gens := p.parseComprehensionClauses()
			p.expect(lex.RBrace, "'}'")

			return &ast.DictComp{Position: pos, Key: first, Value: val, Generators: gens}
		}

		return p.finishDict(pos, []ast.Expr{first}, []ast.Expr{val})
	}

	if p.at(lex.KwFor) || p.at(lex.KwAsync) {
		gens := p.parseComprehensionClauses()
		p.expect(lex.RBrace, "'}'")

		return &ast.SetComp{Position: pos, Elt: first, Generators: gens}
	}

	elts := []ast.Expr{first}

	for {
		if _, ok := p.match(lex.Comma); !ok {
			break
		}

		if p.at(lex.RBrace) {
			break
		}

		elts = append(elts, p.parseExpr())
	}

	p.expect(lex.RBrace, "'}'")

	return &ast.Set{Position: pos, Elts: elts}
}

func (p *parser) finishDict(pos ast.Position, keys, values []ast.Expr) ast.Expr {
	for {
		if _, ok := p.match(lex.Comma); !ok {
			break
		}

		if p.at(lex.RBrace) {
			break
		}

		if _, ok := p.match(lex.DoubleStar); ok {
			keys = append(keys, nil)
			values = append(values, p.parseOr())

			continue
		}

		k := p.parseExpr()
		p.expect(lex.Colon, "':'")
		v := p.parseExpr()
		keys = append(keys, k)
		values = append(values, v)
	}

	p.expect(lex.RBrace, "'}'")

	return &ast.Dict{Position: pos, Keys: keys, Values: values}
}

// parseComprehensionClauses parses the `for target in iter if cond ...`
// clause chain shared by list/set/dict comprehensions and generator
// expressions.
func (p *parser) parseComprehensionClauses() []*ast.Comprehension {
	var gens []*ast.Comprehension

	for p.at(lex.KwFor) || p.at(lex.KwAsync) {
		isAsync := false
		if _, ok := p.match(lex.KwAsync); ok {
			isAsync = true
		}

		pos := p.expect(lex.KwFor, "'for'").Pos
		target := p.parseTargetList()
		p.expect(lex.KwIn, "'in'")
		iter := p.parseOr()

		var ifs []ast.Expr
		for {
			if _, ok := p.match(lex.KwIf); !ok {
				break
			}

			ifs = append(ifs, p.parseOr())
		}

		gens = append(gens, &ast.Comprehension{
			Position: pos, Target: target, Iter: iter, Ifs: ifs, IsAsync: isAsync,
		})
	}

	return gens
}
