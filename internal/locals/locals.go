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

// Package locals implements the analyzer's local-name pre-pass: for a
// scope's statement list, statically collect every name bound somewhere
// in it, without descending into nested scopes. The name resolver uses
// the result for its read-before-assign check.
//
// This intentionally does not reuse ast.Children, which performs the full
// structural walk (it descends into nested function/class/lambda bodies
// and comprehensions) — the pre-pass must stop exactly at scope
// boundaries, so it implements its own statement/expression walk.
package locals

import "chainscope.dev/duc/ast"

// Collect returns the set of names bound somewhere in body — the direct
// scope introduced by body, not any nested scope. modernComprehensions
// selects dialect semantics: in the legacy dialect comprehensions do not
// introduce their own scope, so their for-targets leak into the result;
// in the modern dialect a comprehension is fully opaque here.
func Collect(body []ast.Stmt, modernComprehensions bool) map[string]bool {
	c := &collector{modern: modernComprehensions, names: map[string]bool{}, excluded: map[string]bool{}}
	c.stmts(body)

	for name := range c.excluded {
		delete(c.names, name)
	}

	return c.names
}

type collector struct {
	modern   bool
	names    map[string]bool
	excluded map[string]bool
}

func (c *collector) bind(name string) {
	if name != "" {
		c.names[name] = true
	}
}

func (c *collector) stmts(ss []ast.Stmt) {
	for _, s := range ss {
		c.stmt(s)
	}
}

//nolint:gocyclo // one branch per statement kind, mirrors CollectLocals.
func (c *collector) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Assign:
		c.expr(s.Value)

		for _, t := range s.Targets {
			c.target(t)
		}

	case *ast.AugAssign:
		c.target(s.Target)
		c.expr(s.Value)

	case *ast.AnnAssign:
		c.target(s.Target)
		c.expr(s.Annotation)
		c.expr(s.Value)

	case *ast.ExprStmt:
		c.expr(s.X)

	case *ast.If:
		c.expr(s.Test)
		c.stmts(s.Body)
		c.stmts(s.Orelse)

	case *ast.For:
		c.expr(s.Iter)
		c.target(s.Target)
		c.stmts(s.Body)
		c.stmts(s.Orelse)

	case *ast.While:
		c.expr(s.Test)
		c.stmts(s.Body)
		c.stmts(s.Orelse)

	case *ast.Return:
		c.expr(s.Value)

	case *ast.Raise:
		c.expr(s.Exc)
		c.expr(s.Cause)

	case *ast.Delete:
		for _, t := range s.Targets {
			c.expr(t)
		}

	case *ast.FunctionDef:
		c.bind(s.Name)

		for _, d := range s.Decorators {
			c.expr(d)
		}

		c.expr(s.Returns)
		c.argDefaults(s.Args)
		// Body is a nested scope: not descended.

	case *ast.ClassDef:
		c.bind(s.Name)

		for _, d := range s.Decorators {
			c.expr(d)
		}

		for _, b := range s.Bases {
			c.expr(b)
		}

		for _, kw := range s.Keywords {
			c.expr(kw.Value)
		}
		// Body is a nested scope: not descended.

	case *ast.Try:
		c.stmts(s.Body)

		for _, h := range s.Handlers {
			c.expr(h.Type)

			if h.Name != "" {
				c.bind(h.Name)
			}

			c.stmts(h.Body)
		}

		c.stmts(s.Orelse)
		c.stmts(s.Finalbody)

	case *ast.With:
		for _, item := range s.Items {
			c.expr(item.ContextExpr)

			if item.OptionalVars != nil {
				c.target(item.OptionalVars)
			}
		}

		c.stmts(s.Body)

	case *ast.Import:
		for _, a := range s.Names {
			c.bind(importBindName(a))
		}

	case *ast.ImportFrom:
		for _, a := range s.Names {
			if a.IsStar {
				continue
			}

			c.bind(importBindName(a))
		}

	case *ast.Global:
		for _, name := range s.Names {
			c.excluded[name] = true
		}

	case *ast.Nonlocal:
		for _, name := range s.Names {
			c.excluded[name] = true
		}

	case *ast.Exec:
		c.expr(s.Body)
		c.expr(s.Globals)
		c.expr(s.Locals)

	case *ast.Break, *ast.Continue, *ast.Pass:
		// no bindings

	default:
		// Break/Continue/Pass and anything else introduce no bindings.
	}
}

// importBindName mirrors spec.md §4.1: the root segment of a dotted
// import, or the `as`-name if present.
func importBindName(a *ast.Alias) string {
	if a.AsName != "" {
		return a.AsName
	}

	for i, r := range a.Name {
		if r == '.' {
			return a.Name[:i]
		}
	}

	return a.Name
}

// target records the names bound by an assignment-like target, which may
// be a bare Name, or a List/Tuple destructuring pattern, or a Starred
// wrapper within one.
func (c *collector) target(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Name:
		c.bind(e.Id)
	case *ast.List:
		for _, el := range e.Elts {
			c.target(el)
		}
	case *ast.Tuple:
		for _, el := range e.Elts {
			c.target(el)
		}
	case *ast.Starred:
		c.target(e.Value)
	case *ast.Attribute, *ast.Subscript:
		// attribute/subscript targets bind no new local name.
	}
}

func (c *collector) argDefaults(args *ast.Arguments) {
	if args == nil {
		return
	}

	for _, v := range args.Defaults {
		c.expr(v)
	}

	for _, v := range args.KwDefaults {
		c.expr(v)
	}
}

//nolint:gocyclo // one branch per expression kind, unavoidable.
func (c *collector) expr(e ast.Expr) {
	if e == nil {
		return
	}

	switch e := e.(type) {
	case *ast.NamedExpr:
		// The walrus target always binds in the nearest enclosing
		// non-comprehension scope; since comprehension bodies are
		// opaque below, reaching this case means we are directly in
		// the owning scope (or in a legacy, scope-less comprehension).
		c.bind(e.Target.Id)
		c.expr(e.Value)

	case *ast.Lambda:
		// Lambda bodies and parameter scopes are their own scope.

	case *ast.ListComp:
		c.comprehension(e.Generators, e.Elt, nil, nil)
	case *ast.SetComp:
		c.comprehension(e.Generators, e.Elt, nil, nil)
	case *ast.GeneratorExp:
		c.comprehension(e.Generators, e.Elt, nil, nil)
	case *ast.DictComp:
		c.comprehension(e.Generators, nil, e.Key, e.Value)

	case *ast.BoolOp:
		for _, v := range e.Values {
			c.expr(v)
		}
	case *ast.BinOp:
		c.expr(e.Left)
		c.expr(e.Right)
	case *ast.UnaryOp:
		c.expr(e.Operand)
	case *ast.IfExp:
		c.expr(e.Test)
		c.expr(e.Body)
		c.expr(e.Orelse)
	case *ast.Dict:
		for _, v := range e.Values {
			c.expr(v)
		}

		for _, k := range e.Keys {
			c.expr(k)
		}
	case *ast.Set:
		for _, v := range e.Elts {
			c.expr(v)
		}
	case *ast.List:
		for _, v := range e.Elts {
			c.expr(v)
		}
	case *ast.Tuple:
		for _, v := range e.Elts {
			c.expr(v)
		}
	case *ast.Starred:
		c.expr(e.Value)
	case *ast.Call:
		c.expr(e.Func)

		for _, a := range e.Args {
			c.expr(a)
		}

		for _, kw := range e.Keywords {
			c.expr(kw.Value)
		}
	case *ast.Attribute:
		c.expr(e.Value)
	case *ast.Subscript:
		c.expr(e.Value)
		c.expr(e.Slice)
	case *ast.Slice:
		c.expr(e.Lower)
		c.expr(e.Upper)
		c.expr(e.Step)
	case *ast.Await:
		c.expr(e.Value)
	case *ast.Yield:
		c.expr(e.Value)
	case *ast.YieldFrom:
		c.expr(e.Value)
	}
}

func (c *collector) comprehension(gens []*ast.Comprehension, elt, key, value ast.Expr) {
	if c.modern {
		return
	}

	for _, g := range gens {
		c.expr(g.Iter)
		c.target(g.Target)

		for _, cond := range g.Ifs {
			c.expr(cond)
		}
	}

	c.expr(elt)
	c.expr(key)
	c.expr(value)
}
