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
	"fmt"

	"chainscope.dev/duc/ast"
	"chainscope.dev/duc/lex"
)

type parser struct {
	toks []lex.Token
	pos  int
}

// Parse scans and parses src, returning the root Module node.
func Parse(src string) (mod *ast.Module, err error) {
	p := &parser{toks: scanAll(src)}

	defer func() {
		if r := recover(); r != nil {
			abort, ok := r.(parseAbort)
			if !ok {
				panic(r)
			}

			err = abort.err
		}
	}()

	return p.parseModule(), nil
}

func scanAll(src string) []lex.Token {
	s := lex.New(src)

	var toks []lex.Token
	for {
		tok := s.Next()
		toks = append(toks, tok)

		if tok.Kind == lex.EOF {
			return toks
		}
	}
}

func (p *parser) cur() lex.Token { return p.toks[p.pos] }

func (p *parser) at(k lex.Kind) bool { return p.cur().Kind == k }

func (p *parser) advance() lex.Token {
	tok := p.toks[p.pos]
	if tok.Kind != lex.EOF {
		p.pos++
	}

	return tok
}

func (p *parser) match(k lex.Kind) (lex.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}

	return lex.Token{}, false
}

func (p *parser) expect(k lex.Kind, what string) lex.Token {
	if p.cur().Kind == lex.Error {
		p.fail(p.cur().Lit)
	}

	tok, ok := p.match(k)
	if !ok {
		p.fail(fmt.Sprintf("expected %s, found %q", what, p.cur().Lit))
	}

	return tok
}

func (p *parser) fail(msg string) {
	panic(parseAbort{err: &Error{Pos: p.cur().Pos, Msg: msg}})
}

func (p *parser) parseModule() *ast.Module {
	mod := &ast.Module{}

	for !p.at(lex.EOF) {
		mod.Body = append(mod.Body, p.parseStmt())
	}

	return mod
}

// parseBlock parses `{ stmt* }`.
func (p *parser) parseBlock() []ast.Stmt {
	p.expect(lex.LBrace, "'{'")

	var body []ast.Stmt
	for !p.at(lex.RBrace) && !p.at(lex.EOF) {
		body = append(body, p.parseStmt())
	}

	p.expect(lex.RBrace, "'}'")

	return body
}

func (p *parser) parseNameIdent() string {
	tok := p.expect(lex.Ident, "identifier")

	return tok.Lit
}
