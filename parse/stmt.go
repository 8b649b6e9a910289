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
	"chainscope.dev/duc/ast"
	"chainscope.dev/duc/lex"
)

func (p *parser) parseStmt() ast.Stmt {
	switch p.cur().Kind {
	case lex.KwIf:
		return p.parseIf()
	case lex.KwFor:
		return p.parseFor()
	case lex.KwWhile:
		return p.parseWhile()
	case lex.KwTry:
		return p.parseTry()
	case lex.KwWith:
		return p.parseWith()
	case lex.KwDef, lex.KwAsync:
		return p.parseFunctionDef()
	case lex.At:
		return p.parseDecorated()
	case lex.KwClass:
		return p.parseClassDef()
	default:
		s := p.parseSimpleStmt()
		p.expectStmtEnd()

		return s
	}
}

// expectStmtEnd consumes the ';' that terminates a simple statement. It is
// tolerated but not required immediately before a block's closing '}' or
// end of module, matching the teacher's leniency for trailing separators.
func (p *parser) expectStmtEnd() {
	if _, ok := p.match(lex.Semi); ok {
		return
	}

	if p.at(lex.RBrace) || p.at(lex.EOF) {
		return
	}

	p.fail("expected ';'")
}

func (p *parser) parseDecorated() ast.Stmt {
	var decorators []ast.Expr

	for {
		if _, ok := p.match(lex.At); !ok {
			break
		}

		decorators = append(decorators, p.parseExpr())
		p.expect(lex.Semi, "';'")
	}

	switch p.cur().Kind {
	case lex.KwDef, lex.KwAsync:
		fn := p.parseFunctionDef().(*ast.FunctionDef)
		fn.Decorators = decorators

		return fn
	case lex.KwClass:
		cd := p.parseClassDef().(*ast.ClassDef)
		cd.Decorators = decorators

		return cd
	default:
		p.fail("expected 'def' or 'class' after decorator")

		return nil
	}
}

func (p *parser) parseSimpleStmt() ast.Stmt {
	pos := p.cur().Pos

	switch p.cur().Kind {
	case lex.KwPass:
		p.advance()

		return &ast.Pass{Position: pos}

	case lex.KwBreak:
		p.advance()

		return &ast.Break{Position: pos}

	case lex.KwContinue:
		p.advance()

		return &ast.Continue{Position: pos}

	case lex.KwReturn:
		p.advance()

		var val ast.Expr
		if !p.at(lex.Semi) && !p.at(lex.RBrace) && !p.at(lex.EOF) {
			val = p.parseExprList()
		}

		return &ast.Return{Position: pos, Value: val}

	case lex.KwRaise:
		p.advance()

		var exc, cause ast.Expr
		if !p.at(lex.Semi) && !p.at(lex.RBrace) && !p.at(lex.EOF) {
			exc = p.parseExpr()
			if _, ok := p.match(lex.KwFrom); ok {
				cause = p.parseExpr()
			}
		}

		return &ast.Raise{Position: pos, Exc: exc, Cause: cause}

	case lex.KwDel:
		p.advance()

		targets := []ast.Expr{p.parseExpr()}
		for {
			if _, ok := p.match(lex.Comma); !ok {
				break
			}

			targets = append(targets, p.parseExpr())
		}

		markCtx(targets, ast.Del)

		return &ast.Delete{Position: pos, Targets: targets}

	case lex.KwGlobal:
		p.advance()

		return &ast.Global{Position: pos, Names: p.parseNameList()}

	case lex.KwNonlocal:
		p.advance()

		return &ast.Nonlocal{Position: pos, Names: p.parseNameList()}

	case lex.KwImport:
		return p.parseImport(pos)

	case lex.KwFrom:
		return p.parseImportFrom(pos)

	case lex.KwExec:
		return p.parseExec(pos)

	default:
		return p.parseExprOrAssignStmt(pos)
	}
}

func (p *parser) parseNameList() []string {
	names := []string{p.parseNameIdent()}
	for {
		if _, ok := p.match(lex.Comma); !ok {
			return names
		}

		names = append(names, p.parseNameIdent())
	}
}

func (p *parser) parseImport(pos ast.Position) ast.Stmt {
	p.expect(lex.KwImport, "'import'")

	var names []*ast.Alias
	for {
		name := p.parseDottedName()
		as := ""

		if _, ok := p.match(lex.KwAs); ok {
			as = p.parseNameIdent()
		}

		names = append(names, &ast.Alias{Name: name, AsName: as})

		if _, ok := p.match(lex.Comma); !ok {
			break
		}
	}

	return &ast.Import{Position: pos, Names: names}
}

func (p *parser) parseDottedName() string {
	name := p.parseNameIdent()
	for {
		if _, ok := p.match(lex.Dot); !ok {
			return name
		}

		name += "." + p.parseNameIdent()
	}
}

func (p *parser) parseImportFrom(pos ast.Position) ast.Stmt {
	p.expect(lex.KwFrom, "'from'")

	level := 0
	for {
		if _, ok := p.match(lex.Dot); ok {
			level++

			continue
		}

		break
	}

	module := ""
	if !p.at(lex.KwImport) {
		module = p.parseDottedName()
	}

	p.expect(lex.KwImport, "'import'")

	var names []*ast.Alias

	if _, ok := p.match(lex.Star); ok {
		names = append(names, &ast.Alias{IsStar: true})
	} else {
		grouped := false
		if _, ok := p.match(lex.LParen); ok {
			grouped = true
		}

		for {
			nm := p.parseNameIdent()
			as := ""

			if _, ok := p.match(lex.KwAs); ok {
				as = p.parseNameIdent()
			}

			names = append(names, &ast.Alias{Name: nm, AsName: as})

			if _, ok := p.match(lex.Comma); !ok {
				break
			}
		}

		if grouped {
			p.expect(lex.RParen, "')'")
		}
	}

	return &ast.ImportFrom{Position: pos, Module: module, Names: names, Level: level}
}

func (p *parser) parseExec(pos ast.Position) ast.Stmt {
	p.expect(lex.KwExec, "'exec'")

	body := p.parseExpr()

	var globals, locals ast.Expr
	if _, ok := p.match(lex.KwIn); ok {
		globals = p.parseExpr()

		if _, ok := p.match(lex.Comma); ok {
			locals = p.parseExpr()
		}
	}

	return &ast.Exec{Position: pos, Body: body, Globals: globals, Locals: locals}
}

// parseExprOrAssignStmt handles plain expression statements plus every
// assignment form: plain, chained ("a = b = 1"), annotated, and augmented.
func (p *parser) parseExprOrAssignStmt(pos ast.Position) ast.Stmt {
	first := p.parseExprList()

	switch p.cur().Kind {
	case lex.Colon:
		p.advance()

		ann := p.parseExpr()

		var val ast.Expr
		if _, ok := p.match(lex.Assign); ok {
			val = p.parseExprList()
		}

		markCtx([]ast.Expr{first}, ast.Store)

		return &ast.AnnAssign{Position: pos, Target: first, Annotation: ann, Value: val}

	case lex.Assign:
		targets := []ast.Expr{first}

		var value ast.Expr
		for {
			p.advance()
			value = p.parseExprList()

			if !p.at(lex.Assign) {
				break
			}

			targets = append(targets, value)
		}

		markCtx(targets, ast.Store)

		return &ast.Assign{Position: pos, Targets: targets, Value: value}

	case lex.PlusEq, lex.MinusEq, lex.StarEq, lex.SlashEq, lex.DoubleSlashEq,
		lex.PercentEq, lex.DoubleStarEq:
		op := augOpText(p.advance().Kind)
		value := p.parseExprList()

		markCtx([]ast.Expr{first}, ast.Store)

		return &ast.AugAssign{Position: pos, Target: first, Op: op, Value: value}

	default:
		return &ast.ExprStmt{Position: pos, X: first}
	}
}

func augOpText(k lex.Kind) string {
	switch k {
	case lex.PlusEq:
		return "+"
	case lex.MinusEq:
		return "-"
	case lex.StarEq:
		return "*"
	case lex.SlashEq:
		return "/"
	case lex.DoubleSlashEq:
		return "//"
	case lex.PercentEq:
		return "%"
	case lex.DoubleStarEq:
		return "**"
	default:
		return "?"
	}
}

func (p *parser) parseIf() ast.Stmt {
	pos := p.expect(lex.KwIf, "'if'").Pos

	test := p.parseParenExpr()
	body := p.parseBlock()

	var orelse []ast.Stmt

	switch p.cur().Kind {
	case lex.KwElif:
		elifPos := p.cur().Pos
		p.toks[p.pos].Kind = lex.KwIf // re-dispatch 'elif' as a nested 'if'
		elif := p.parseIf()
		elif.(*ast.If).Position = elifPos
		orelse = []ast.Stmt{elif}
	case lex.KwElse:
		p.advance()
		orelse = p.parseBlock()
	}

	return &ast.If{Position: pos, Test: test, Body: body, Orelse: orelse}
}

func (p *parser) parseParenExpr() ast.Expr {
	p.expect(lex.LParen, "'('")
	e := p.parseExprList()
	p.expect(lex.RParen, "')'")

	return e
}

func (p *parser) parseFor() ast.Stmt {
	pos := p.expect(lex.KwFor, "'for'").Pos
	p.expect(lex.LParen, "'('")

	target := p.parseTargetList()
	p.expect(lex.KwIn, "'in'")
	iter := p.parseExprList()
	p.expect(lex.RParen, "')'")

	body := p.parseBlock()

	var orelse []ast.Stmt
	if _, ok := p.match(lex.KwElse); ok {
		orelse = p.parseBlock()
	}

	return &ast.For{Position: pos, Target: target, Iter: iter, Body: body, Orelse: orelse}
}

// parseTargetList parses a for-target or with-target: a single expression,
// or a bare comma-separated list forming an implicit Tuple. Targets are
// parsed below the comparison level so the following `in` is left for
// the caller.
func (p *parser) parseTargetList() ast.Expr {
	first := p.parseAdd()
	if !p.at(lex.Comma) {
		markCtx([]ast.Expr{first}, ast.Store)

		return first
	}

	elts := []ast.Expr{first}
	for {
		if _, ok := p.match(lex.Comma); !ok {
			break
		}

		if p.at(lex.KwIn) || p.at(lex.RParen) || p.at(lex.Colon) {
			break
		}

		elts = append(elts, p.parseAdd())
	}

	markCtx(elts, ast.Store)

	return &ast.Tuple{Position: first.Pos(), Elts: elts, Ctx: ast.Store}
}

func (p *parser) parseWhile() ast.Stmt {
	pos := p.expect(lex.KwWhile, "'while'").Pos

	test := p.parseParenExpr()
	body := p.parseBlock()

	var orelse []ast.Stmt
	if _, ok := p.match(lex.KwElse); ok {
		orelse = p.parseBlock()
	}

	return &ast.While{Position: pos, Test: test, Body: body, Orelse: orelse}
}

func (p *parser) parseTry() ast.Stmt {
	pos := p.expect(lex.KwTry, "'try'").Pos
	body := p.parseBlock()

	var handlers []*ast.ExceptHandler
	for p.at(lex.KwExcept) {
		hpos := p.advance().Pos

		var typ ast.Expr

		name := ""
		namePos := ast.Position{}

		if !p.at(lex.LBrace) {
			typ = p.parseExpr()

			if _, ok := p.match(lex.KwAs); ok {
				namePos = p.cur().Pos
				name = p.parseNameIdent()
			}
		}

		hbody := p.parseBlock()
		handlers = append(handlers, &ast.ExceptHandler{
			Position: hpos, Type: typ, Name: name, NamePos: namePos, Body: hbody,
		})
	}

	var orelse, finalbody []ast.Stmt

	if _, ok := p.match(lex.KwElse); ok {
		orelse = p.parseBlock()
	}

	if _, ok := p.match(lex.KwFinally); ok {
		finalbody = p.parseBlock()
	}

	return &ast.Try{Position: pos, Body: body, Handlers: handlers, Orelse: orelse, Finalbody: finalbody}
}

func (p *parser) parseWith() ast.Stmt {
	pos := p.expect(lex.KwWith, "'with'").Pos
	p.expect(lex.LParen, "'('")

	var items []*ast.WithItem

	for {
		ctxExpr := p.parseExpr()

		var vars ast.Expr
		if _, ok := p.match(lex.KwAs); ok {
			vars = p.parseTargetList()
		}

		items = append(items, &ast.WithItem{Position: ctxExpr.Pos(), ContextExpr: ctxExpr, OptionalVars: vars})

		if _, ok := p.match(lex.Comma); !ok {
			break
		}
	}

	p.expect(lex.RParen, "')'")
	body := p.parseBlock()

	return &ast.With{Position: pos, Items: items, Body: body}
}

func (p *parser) parseFunctionDef() ast.Stmt {
	pos := p.cur().Pos

	isAsync := false
	if _, ok := p.match(lex.KwAsync); ok {
		isAsync = true
	}

	p.expect(lex.KwDef, "'def'")
	name := p.parseNameIdent()
	args := p.parseParameters()

	var returns ast.Expr
	if _, ok := p.match(lex.Arrow); ok {
		returns = p.parseExpr()
	}

	body := p.parseBlock()

	return &ast.FunctionDef{
		Position: pos, Name: name, Args: args, Body: body, Returns: returns, IsAsync: isAsync,
	}
}

func (p *parser) parseParameters() *ast.Arguments {
	p.expect(lex.LParen, "'('")

	args := &ast.Arguments{}

	if p.at(lex.RParen) {
		p.advance()

		return args
	}

	for {
		switch p.cur().Kind {
		case lex.DoubleStar:
			p.advance()
			args.KwArg = p.parseArg()
		case lex.Star:
			p.advance()

			if p.at(lex.Ident) {
				args.VarArg = p.parseArg()
			}
		default:
			a := p.parseArg()
			args.Args = append(args.Args, a)

			if _, ok := p.match(lex.Assign); ok {
				args.Defaults = append(args.Defaults, p.parseExpr())
			}
		}

		if _, ok := p.match(lex.Comma); !ok {
			break
		}

		if p.at(lex.RParen) {
			break
		}
	}

	p.expect(lex.RParen, "')'")

	return args
}

func (p *parser) parseArg() *ast.Arg {
	pos := p.cur().Pos
	name := p.parseNameIdent()

	var ann ast.Expr
	if _, ok := p.match(lex.Colon); ok {
		ann = p.parseExpr()
	}

	return &ast.Arg{Position: pos, Name: name, Annotation: ann}
}

func (p *parser) parseClassDef() ast.Stmt {
	pos := p.expect(lex.KwClass, "'class'").Pos
	name := p.parseNameIdent()

	var bases []ast.Expr

	var keywords []*ast.Keyword

	if _, ok := p.match(lex.LParen); ok {
		for !p.at(lex.RParen) {
			if p.at(lex.Ident) && p.peekIsKeywordArg() {
				kwPos := p.cur().Pos
				kwName := p.parseNameIdent()
				p.expect(lex.Assign, "'='")
				keywords = append(keywords, &ast.Keyword{Position: kwPos, Name: kwName, Value: p.parseExpr()})
			} else {
				bases = append(bases, p.parseExpr())
			}

			if _, ok := p.match(lex.Comma); !ok {
				break
			}
		}

		p.expect(lex.RParen, "')'")
	}

	body := p.parseBlock()

	return &ast.ClassDef{Position: pos, Name: name, Bases: bases, Keywords: keywords, Body: body}
}

// peekIsKeywordArg reports whether the upcoming identifier is immediately
// followed by '=', i.e. is a `name=value` class keyword argument rather
// than the start of a base-class expression.
func (p *parser) peekIsKeywordArg() bool {
	return p.pos+1 < len(p.toks) && p.toks[p.pos+1].Kind == lex.Assign
}

// markCtx sets the Store/Del context on every Name (and recursively, every
// element of List/Tuple) in targets, mirroring the reference implementation
// marking assignment targets' ctx before the analyzer ever sees them.
func markCtx(targets []ast.Expr, ctx ast.Ctx) {
	for _, t := range targets {
		setCtx(t, ctx)
	}
}

func setCtx(e ast.Expr, ctx ast.Ctx) {
	switch e := e.(type) {
	case *ast.Name:
		e.Ctx = ctx
	case *ast.List:
		e.Ctx = ctx
		for _, el := range e.Elts {
			setCtx(el, ctx)
		}
	case *ast.Tuple:
		e.Ctx = ctx
		for _, el := range e.Elts {
			setCtx(el, ctx)
		}
	case *ast.Starred:
		e.Ctx = ctx
		setCtx(e.Value, ctx)
	case *ast.Attribute:
		e.Ctx = ctx
	case *ast.Subscript:
		e.Ctx = ctx
	}
}
