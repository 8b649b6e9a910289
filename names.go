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
	"chainscope.dev/duc/internal/diag"
	"chainscope.dev/duc/internal/resolve"
)

// resolveName implements spec.md §4.3 end to end for one Load-context
// use of name at node: it always creates (or reuses) node's own Def,
// links every reaching definition as a producer of it, and on failure
// either registers a pending undef (inside an active loop body) or
// reports an unbound-identifier diagnostic. It returns the use-site's
// own Def and whatever wildcard set was seen along the way.
func (a *Analyzer) resolveName(name string, node ast.Node) (useDef *chain.Def, stars []*chain.Def) {
	useDef = a.tables.GetOrCreate(node)

	res := resolve.Lookup(a.stack, name)
	if res.Found {
		for _, d := range res.Defs {
			d.AddUser(useDef)
		}

		return useDef, res.Stars
	}

	if top := a.undefs.Top(); top != nil && !res.ReadBeforeAssign {
		top.Register(name, useDef, node, res.Stars)

		return useDef, res.Stars
	}

	a.report(node, diag.UnboundIdentifier(name))

	return useDef, res.Stars
}

// loadName resolves a Name used in Load context.
func (a *Analyzer) loadName(n *ast.Name) *chain.Def {
	def, _ := a.resolveName(n.Id, n)

	return def
}

// storeName writes def under name in the current scope: an ordinary
// set_definition, or extend_global when name was declared global in the
// current frame (spec.md §4.2's "a name declared global ... never
// resolves to a local layer of that function").
func (a *Analyzer) storeName(name string, def *chain.Def) {
	frame := a.stack.Top()
	if frame.IsGlobal(name) {
		a.stack.Module().ExtendBase(name, []*chain.Def{def})

		return
	}

	frame.SetDefinition(name, []*chain.Def{def})
}

// assignName handles a Name in Store context: a fresh Def, registered as
// a local of the current scope and bound under its identifier.
func (a *Analyzer) assignName(n *ast.Name) *chain.Def {
	def := a.tables.GetOrCreate(n)
	a.tables.AddLocal(a.currentScope(), def)
	a.storeName(n.Id, def)

	return def
}

// delName handles a Name in Del context: beniget's visit_Name currently
// ignores the effect of a del (the Del branch is handled identically to
// Load, with no mutation of the definitions dict), so this just resolves
// the name as a use and leaves the binding reaching afterward.
func (a *Analyzer) delName(n *ast.Name) *chain.Def {
	def, _ := a.resolveName(n.Id, n)

	return def
}

// assignTarget dispatches an assignment-like target (Assign, for-target,
// with-optional-vars) to assignName for each leaf Name, recursing through
// List/Tuple destructuring and Starred unpacking, and treating Attribute/
// Subscript targets as reads of their object/slice (no new local name).
func (a *Analyzer) assignTarget(target ast.Expr) {
	switch t := target.(type) {
	case *ast.Name:
		a.assignName(t)
	case *ast.List:
		for _, el := range t.Elts {
			a.assignTarget(el)
		}
	case *ast.Tuple:
		for _, el := range t.Elts {
			a.assignTarget(el)
		}
	case *ast.Starred:
		a.assignTarget(t.Value)
	case *ast.Attribute:
		a.visitExpr(t.Value)
	case *ast.Subscript:
		a.visitExpr(t.Value)
		a.visitExpr(t.Slice)
	}
}

