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

package duc

import (
	"chainscope.dev/duc/ast"
	"chainscope.dev/duc/internal/chain"
	"chainscope.dev/duc/internal/locals"
	"chainscope.dev/duc/internal/resolve"
)

// visitFunctionDef implements spec.md §4.4's FunctionDef rule: decorators,
// parameter annotations/defaults, and the return annotation all evaluate
// eagerly in the enclosing scope, exactly where they appear lexically;
// the body itself is deferred (spec.md §5) so forward references and
// mutual recursion resolve against the enclosing scope's final state.
func (a *Analyzer) visitFunctionDef(s *ast.FunctionDef) {
	for _, d := range s.Decorators {
		a.visitExpr(d)
	}

	a.visitArgAnnotationsAndDefaults(s.Args)

	if s.Returns != nil {
		a.visitExpr(s.Returns)
	}

	def := a.tables.GetOrCreate(s)
	a.tables.AddLocal(a.currentScope(), def)
	a.storeName(s.Name, def)

	localNames := locals.Collect(s.Body, a.modernComprehensions())
	addParamNames(localNames, s.Args)

	a.deferred = append(a.deferred, deferredBody{
		scope:      s,
		params:     s.Args,
		stmts:      s.Body,
		snapshot:   a.stack.Snapshot(),
		localNames: localNames,
	})
}

// visitLambda is visitFunctionDef's expression-position counterpart: a
// lambda has no name of its own, so only its Def (not a binding) is
// returned to the caller, which links it into an assignment, call
// argument, or whatever other expression it sits inside of.
func (a *Analyzer) visitLambda(e *ast.Lambda) *chain.Def {
	a.visitArgAnnotationsAndDefaults(e.Args)

	def := a.tables.GetOrCreate(e)

	localNames := locals.Collect([]ast.Stmt{&ast.ExprStmt{X: e.Body}}, a.modernComprehensions())
	addParamNames(localNames, e.Args)

	a.deferred = append(a.deferred, deferredBody{
		scope:      e,
		params:     e.Args,
		expr:       e.Body,
		snapshot:   a.stack.Snapshot(),
		localNames: localNames,
	})

	return def
}

// bindParams binds every parameter of a deferred function/lambda body in
// the now-entered scope. Annotations and defaults were already visited
// in the enclosing scope at declaration time; this only introduces the
// parameter names themselves as locals.
func (a *Analyzer) bindParams(args *ast.Arguments) {
	if args == nil {
		return
	}

	for _, arg := range allArgs(args) {
		def := a.tables.GetOrCreate(arg)
		a.tables.AddLocal(a.currentScope(), def)
		a.storeName(arg.Name, def)
	}
}

func (a *Analyzer) visitArgAnnotationsAndDefaults(args *ast.Arguments) {
	if args == nil {
		return
	}

	for _, arg := range allArgs(args) {
		if arg.Annotation != nil {
			a.visitExpr(arg.Annotation)
		}
	}

	for _, d := range args.Defaults {
		a.visitExpr(d)
	}

	for _, d := range args.KwDefaults {
		if d != nil {
			a.visitExpr(d)
		}
	}
}

func allArgs(args *ast.Arguments) []*ast.Arg {
	out := make([]*ast.Arg, 0, len(args.PosOnlyArgs)+len(args.Args)+len(args.KwOnlyArgs)+2)
	out = append(out, args.PosOnlyArgs...)
	out = append(out, args.Args...)

	if args.VarArg != nil {
		out = append(out, args.VarArg)
	}

	out = append(out, args.KwOnlyArgs...)

	if args.KwArg != nil {
		out = append(out, args.KwArg)
	}

	return out
}

func addParamNames(names map[string]bool, args *ast.Arguments) {
	if args == nil {
		return
	}

	for _, arg := range allArgs(args) {
		names[arg.Name] = true
	}
}

// visitClassDef implements spec.md §4.4's ClassDef rule: bases, keyword
// arguments, and decorators evaluate in the enclosing scope; the body
// runs eagerly (never deferred — a class body executes immediately,
// unlike a function body) in a fresh class-scope frame seeded with a
// synthetic __class__ cell; the class name is bound in the enclosing
// scope only once the body has finished.
func (a *Analyzer) visitClassDef(s *ast.ClassDef) {
	for _, b := range s.Bases {
		a.visitExpr(b)
	}

	for _, kw := range s.Keywords {
		a.visitExpr(kw.Value)
	}

	for _, d := range s.Decorators {
		a.visitExpr(d)
	}

	def := a.tables.GetOrCreate(s)
	a.tables.AddLocal(a.currentScope(), def)

	classLocals := locals.Collect(s.Body, a.modernComprehensions())

	frame := a.enterScope(s, true, classLocals)

	classCell := chain.NewSynthetic("__class__")
	frame.SetDefinition("__class__", []*chain.Def{classCell})
	a.tables.AddLocal(s, classCell)

	a.visitBody(s.Body)
	a.exitScope()

	a.storeName(s.Name, def)
}

// visitImport implements spec.md §4.4's Import rule: one fresh Def per
// alias, bound under its as-name or (for a plain "import a.b.c") under
// the leading dotted segment.
func (a *Analyzer) visitImport(s *ast.Import) {
	for _, alias := range s.Names {
		def := a.tables.GetOrCreate(alias)
		a.tables.AddLocal(a.currentScope(), def)
		a.storeName(importBindName(alias), def)
	}
}

// visitImportFrom implements spec.md §4.4's ImportFrom rule, including
// "from m import *": the star's own Def is a local like any other alias
// (so it surfaces in dump_chains, matching beniget's literal treatment
// of "*" as an ordinary bound name), and is additionally installed under
// resolve.WildcardName so later lookups in this scope can fall back to
// it composing additively rather than shadowing explicit bindings.
func (a *Analyzer) visitImportFrom(s *ast.ImportFrom) {
	for _, alias := range s.Names {
		def := a.tables.GetOrCreate(alias)
		a.tables.AddLocal(a.currentScope(), def)

		if alias.IsStar {
			a.stack.Top().ExtendDefinition(resolve.WildcardName, []*chain.Def{def})

			continue
		}

		name := alias.AsName
		if name == "" {
			name = alias.Name
		}

		a.storeName(name, def)
	}
}

func importBindName(alias *ast.Alias) string {
	if alias.AsName != "" {
		return alias.AsName
	}

	for i, r := range alias.Name {
		if r == '.' {
			return alias.Name[:i]
		}
	}

	return alias.Name
}

// visitExec implements spec.md's legacy-dialect Exec construct: when
// invoked without an explicit globals/locals mapping, it can both read
// and write anything currently visible in the enclosing scopes, which is
// modeled the same way a wildcard import is — every currently visible
// definition becomes a possible producer, and a '*' wildcard definition
// is installed so later lookups in this scope also see it. Only active
// under [config.LegacyExec]; under the modern dialect this statement
// does not exist in the grammar at all.
func (a *Analyzer) visitExec(s *ast.Exec) {
	bodyDef := a.visitExpr(s.Body)

	if s.Globals != nil {
		a.visitExpr(s.Globals)
	}

	if s.Locals != nil {
		a.visitExpr(s.Locals)
	}

	if !a.legacyExec() || s.Globals != nil || s.Locals != nil {
		return
	}

	wildcard := chain.NewSynthetic("*exec*")
	if bodyDef != nil {
		bodyDef.AddUser(wildcard)
	}

	a.stack.Top().ExtendDefinition(resolve.WildcardName, []*chain.Def{wildcard})
}
