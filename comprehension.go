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

func (a *Analyzer) visitListComp(e *ast.ListComp) *chain.Def {
	def := a.tables.GetOrCreate(e)
	a.visitComprehension(e, e.Generators, func() { a.visitExpr(e.Elt) })

	return def
}

func (a *Analyzer) visitSetComp(e *ast.SetComp) *chain.Def {
	def := a.tables.GetOrCreate(e)
	a.visitComprehension(e, e.Generators, func() { a.visitExpr(e.Elt) })

	return def
}

func (a *Analyzer) visitGeneratorExp(e *ast.GeneratorExp) *chain.Def {
	def := a.tables.GetOrCreate(e)
	a.visitComprehension(e, e.Generators, func() { a.visitExpr(e.Elt) })

	return def
}

func (a *Analyzer) visitDictComp(e *ast.DictComp) *chain.Def {
	def := a.tables.GetOrCreate(e)
	a.visitComprehension(e, e.Generators, func() {
		a.visitExpr(e.Key)
		a.visitExpr(e.Value)
	})

	return def
}

// visitComprehension implements spec.md's dialect-gated comprehension
// scoping (Design Notes §9, mirroring package locals' own modern/legacy
// split): under the modern dialect a comprehension gets its own scope —
// except that the OUTERMOST generator's iterable is evaluated in the
// enclosing scope, matching CPython's actual binding time for it — while
// under the legacy dialect a comprehension has no scope of its own at
// all, and every generator target leaks into the enclosing scope exactly
// as package locals already precomputes.
func (a *Analyzer) visitComprehension(node ast.Node, generators []*ast.Comprehension, body func()) {
	if len(generators) == 0 {
		body()

		return
	}

	if !a.modernComprehensions() {
		for _, gen := range generators {
			a.visitExpr(gen.Iter)
			a.assignTarget(gen.Target)

			for _, cond := range gen.Ifs {
				a.visitExpr(cond)
			}
		}

		body()

		return
	}

	a.visitExpr(generators[0].Iter)

	a.enterScope(node, false, compTargetNames(generators))

	for i, gen := range generators {
		if i > 0 {
			a.visitExpr(gen.Iter)
		}

		a.assignTarget(gen.Target)

		for _, cond := range gen.Ifs {
			a.visitExpr(cond)
		}
	}

	body()

	a.exitScope()
}

func compTargetNames(generators []*ast.Comprehension) map[string]bool {
	out := make(map[string]bool)
	for _, gen := range generators {
		collectTargetNames(gen.Target, out)
	}

	return out
}

func collectTargetNames(e ast.Expr, out map[string]bool) {
	switch t := e.(type) {
	case *ast.Name:
		out[t.Id] = true
	case *ast.List:
		for _, el := range t.Elts {
			collectTargetNames(el, out)
		}
	case *ast.Tuple:
		for _, el := range t.Elts {
			collectTargetNames(el, out)
		}
	case *ast.Starred:
		collectTargetNames(t.Value, out)
	}
}
