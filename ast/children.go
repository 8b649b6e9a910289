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

package ast

import "iter"

// Children yields the immediate child nodes of n, in a fixed per-kind
// order that is not always source order (an assignment's value comes
// before its targets, a comprehension's generators before its element,
// a dict's keys before its values), descending into every field including nested scopes (nested function and
// class bodies, lambda bodies, comprehensions). It is the full structural
// walk used by generic tooling such as the ancestor tracker; the core
// analyzer's local-name pre-pass does its own scope-boundary-aware walk
// instead (see internal/locals), since it must stop at nested scopes.
func Children(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if !childrenInto(n, yield) {
			return
		}
	}
}

// childrenInto appends n's children to yield, returning false if the
// caller should stop (yield returned false).
//
//nolint:gocyclo // mirrors one type switch per AST node kind, unavoidable.
func childrenInto(n Node, yield func(Node) bool) bool {
	put := func(c Node) bool {
		if c == nil {
			return true
		}

		return yield(c)
	}
	putAll := func(cs []Node) bool {
		for _, c := range cs {
			if !put(c) {
				return false
			}
		}

		return true
	}

	switch n := n.(type) {
	case *Module:
		return putAll(stmts(n.Body))

	case *Assign:
		if !put(n.Value) {
			return false
		}

		return putAll(exprs(n.Targets))

	case *AugAssign:
		return put(n.Target) && put(n.Value)

	case *AnnAssign:
		return put(n.Target) && put(n.Annotation) && put(n.Value)

	case *ExprStmt:
		return put(n.X)

	case *If:
		return put(n.Test) && putAll(stmts(n.Body)) && putAll(stmts(n.Orelse))

	case *For:
		return put(n.Target) && put(n.Iter) && putAll(stmts(n.Body)) && putAll(stmts(n.Orelse))

	case *While:
		return put(n.Test) && putAll(stmts(n.Body)) && putAll(stmts(n.Orelse))

	case *Return:
		return put(n.Value)

	case *Raise:
		return put(n.Exc) && put(n.Cause)

	case *Delete:
		return putAll(exprs(n.Targets))

	case *FunctionDef:
		if !putAll(exprs(n.Decorators)) || !put(n.Args) || !put(n.Returns) {
			return false
		}

		return putAll(stmts(n.Body))

	case *ClassDef:
		if !putAll(exprs(n.Decorators)) || !putAll(exprs(n.Bases)) {
			return false
		}

		for _, kw := range n.Keywords {
			if !put(kw) {
				return false
			}
		}

		return putAll(stmts(n.Body))

	case *Try:
		if !putAll(stmts(n.Body)) {
			return false
		}

		for _, h := range n.Handlers {
			if !put(h) {
				return false
			}
		}

		return putAll(stmts(n.Orelse)) && putAll(stmts(n.Finalbody))

	case *ExceptHandler:
		return put(n.Type) && putAll(stmts(n.Body))

	case *With:
		for _, item := range n.Items {
			if !put(item) {
				return false
			}
		}

		return putAll(stmts(n.Body))

	case *WithItem:
		return put(n.ContextExpr) && put(n.OptionalVars)

	case *Import:
		for _, a := range n.Names {
			if !put(a) {
				return false
			}
		}

		return true

	case *ImportFrom:
		for _, a := range n.Names {
			if !put(a) {
				return false
			}
		}

		return true

	case *Exec:
		return put(n.Body) && put(n.Globals) && put(n.Locals)

	case *Name:
		return put(n.Annotation)

	case *BoolOp:
		return putAll(exprs(n.Values))

	case *BinOp:
		return put(n.Left) && put(n.Right)

	case *UnaryOp:
		return put(n.Operand)

	case *IfExp:
		return put(n.Test) && put(n.Body) && put(n.Orelse)

	case *NamedExpr:
		return put(n.Value) && put(n.Target)

	case *Dict:
		if !putAll(exprs(n.Keys)) {
			return false
		}

		return putAll(exprs(n.Values))

	case *Set:
		return putAll(exprs(n.Elts))

	case *List:
		return putAll(exprs(n.Elts))

	case *Tuple:
		return putAll(exprs(n.Elts))

	case *Starred:
		return put(n.Value)

	case *Comprehension:
		return put(n.Iter) && put(n.Target) && putAll(exprs(n.Ifs))

	case *ListComp:
		return putGenerators(n.Generators, put) && put(n.Elt)

	case *SetComp:
		return putGenerators(n.Generators, put) && put(n.Elt)

	case *GeneratorExp:
		return putGenerators(n.Generators, put) && put(n.Elt)

	case *DictComp:
		return putGenerators(n.Generators, put) && put(n.Key) && put(n.Value)

	case *Call:
		if !put(n.Func) || !putAll(exprs(n.Args)) {
			return false
		}

		for _, kw := range n.Keywords {
			if !put(kw) {
				return false
			}
		}

		return true

	case *Keyword:
		return put(n.Value)

	case *Attribute:
		return put(n.Value)

	case *Subscript:
		return put(n.Value) && put(n.Slice)

	case *Slice:
		return put(n.Lower) && put(n.Upper) && put(n.Step)

	case *Await:
		return put(n.Value)

	case *Yield:
		return put(n.Value)

	case *YieldFrom:
		return put(n.Value)

	case *Lambda:
		return put(n.Args) && put(n.Body)

	case *Arguments:
		for _, group := range [][]*Arg{n.PosOnlyArgs, n.Args, n.KwOnlyArgs} {
			for _, a := range group {
				if !put(a) {
					return false
				}
			}
		}

		if n.VarArg != nil && !put(n.VarArg) {
			return false
		}

		if n.KwArg != nil && !put(n.KwArg) {
			return false
		}

		return putAll(exprs(n.Defaults)) && putAll(exprs(n.KwDefaults))

	case *Arg:
		return put(n.Annotation)

	default:
		return true
	}
}

func putGenerators(gens []*Comprehension, put func(Node) bool) bool {
	for _, g := range gens {
		if !put(g) {
			return false
		}
	}

	return true
}

func stmts(ss []Stmt) []Node {
	out := make([]Node, len(ss))
	for i, s := range ss {
		out[i] = s
	}

	return out
}

func exprs(es []Expr) []Node {
	out := make([]Node, len(es))
	for i, e := range es {
		out[i] = e
	}

	return out
}
