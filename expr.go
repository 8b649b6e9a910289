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
)

//nolint:gocyclo // one branch per expression kind, matches spec.md §4.4.
func (a *Analyzer) visitExpr(e ast.Expr) *chain.Def {
	switch e := e.(type) {
	case nil:
		return nil
	case *ast.Name:
		switch e.Ctx {
		case ast.Store:
			return a.assignName(e)
		case ast.Del:
			return a.delName(e)
		default:
			return a.loadName(e)
		}
	case *ast.Constant:
		return nil
	case *ast.BoolOp:
		dnode := a.tables.GetOrCreate(e)
		for _, v := range e.Values {
			link(a.visitExpr(v), dnode)
		}

		return dnode
	case *ast.BinOp:
		dnode := a.tables.GetOrCreate(e)
		link(a.visitExpr(e.Left), dnode)
		link(a.visitExpr(e.Right), dnode)

		return dnode
	case *ast.UnaryOp:
		dnode := a.tables.GetOrCreate(e)
		link(a.visitExpr(e.Operand), dnode)

		return dnode
	case *ast.IfExp:
		dnode := a.tables.GetOrCreate(e)
		link(a.visitExpr(e.Test), dnode)
		link(a.visitExpr(e.Body), dnode)
		link(a.visitExpr(e.Orelse), dnode)

		return dnode
	case *ast.NamedExpr:
		return a.visitNamedExpr(e)
	case *ast.Dict:
		dnode := a.tables.GetOrCreate(e)
		for _, k := range e.Keys {
			link(a.visitExpr(k), dnode)
		}

		for _, v := range e.Values {
			link(a.visitExpr(v), dnode)
		}

		return dnode
	case *ast.Set:
		dnode := a.tables.GetOrCreate(e)
		for _, el := range e.Elts {
			link(a.visitExpr(el), dnode)
		}

		return dnode
	case *ast.List:
		dnode := a.tables.GetOrCreate(e)
		for _, el := range e.Elts {
			link(a.visitExpr(el), dnode)
		}

		return dnode
	case *ast.Tuple:
		dnode := a.tables.GetOrCreate(e)
		for _, el := range e.Elts {
			link(a.visitExpr(el), dnode)
		}

		return dnode
	case *ast.Starred:
		dnode := a.tables.GetOrCreate(e)
		link(a.visitExpr(e.Value), dnode)

		return dnode
	case *ast.ListComp:
		return a.visitListComp(e)
	case *ast.SetComp:
		return a.visitSetComp(e)
	case *ast.GeneratorExp:
		return a.visitGeneratorExp(e)
	case *ast.DictComp:
		return a.visitDictComp(e)
	case *ast.Call:
		dnode := a.tables.GetOrCreate(e)
		link(a.visitExpr(e.Func), dnode)

		for _, arg := range e.Args {
			link(a.visitExpr(arg), dnode)
		}

		for _, kw := range e.Keywords {
			link(a.visitExpr(kw.Value), dnode)
		}

		return dnode
	case *ast.Attribute:
		dnode := a.tables.GetOrCreate(e)
		link(a.visitExpr(e.Value), dnode)

		return dnode
	case *ast.Subscript:
		dnode := a.tables.GetOrCreate(e)
		link(a.visitExpr(e.Value), dnode)
		link(a.visitExpr(e.Slice), dnode)

		return dnode
	case *ast.Slice:
		dnode := a.tables.GetOrCreate(e)
		link(a.visitExpr(e.Lower), dnode)
		link(a.visitExpr(e.Upper), dnode)
		link(a.visitExpr(e.Step), dnode)

		return dnode
	case *ast.Await:
		dnode := a.tables.GetOrCreate(e)
		link(a.visitExpr(e.Value), dnode)

		return dnode
	case *ast.Yield:
		dnode := a.tables.GetOrCreate(e)
		if e.Value != nil {
			link(a.visitExpr(e.Value), dnode)
		}

		return dnode
	case *ast.YieldFrom:
		dnode := a.tables.GetOrCreate(e)
		link(a.visitExpr(e.Value), dnode)

		return dnode
	case *ast.Lambda:
		return a.visitLambda(e)
	default:
		return a.tables.GetOrCreate(e)
	}
}

// link registers dnode as a user of producer, tolerating a nil producer
// (an omitted optional sub-expression, or a Constant/Del use with no
// Def of its own) — every compound expression's own Def is reached by
// its sub-expressions' Defs, matching beniget's pervasive
// "self.visit(sub).add_user(dnode)" pattern.
func link(producer, dnode *chain.Def) {
	if producer != nil {
		producer.AddUser(dnode)
	}
}

// visitNamedExpr implements spec.md §4.4's walrus rule: a NamedExpr binds
// in whatever scope is currently on top when the walrus is reached. A
// modern-dialect comprehension's generators/ifs/elt are analyzed inside
// the comprehension's own pushed scope, so a walrus there binds in the
// comprehension's scope, not in the nearest enclosing function (or
// module) scope as CPython does; package locals' precomputed_locals
// makes the same simplification. The expression has its own Def, distinct from
// the bound name's store Def: value feeds the expression's Def, and the
// target is bound as an ordinary store with no incoming link of its own
// (spec.md scenario 7: "the walrus-introduced a has no users" describes
// the store, not the expression result).
func (a *Analyzer) visitNamedExpr(e *ast.NamedExpr) *chain.Def {
	dnode := a.tables.GetOrCreate(e)
	link(a.visitExpr(e.Value), dnode)
	a.assignName(e.Target)

	return dnode
}
