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

// visitTry implements spec.md §4.4's Try rule: an exception may interrupt
// the body at any point, so body+else run together in one branch layer
// (a possible reaching state if nothing raised), each handler runs in
// its own branch layer (a possible reaching state if that handler's
// exception fired), and all of these are merged additively into the
// outer layer; finally always runs, so it executes directly against the
// outer layer after the merge.
func (a *Analyzer) visitTry(s *ast.Try) {
	frame := a.stack.Top()
	savedDead := frame.Deadcode

	bodyLayer := frame.PushCopy()
	a.visitBody(s.Body)
	a.visitBody(s.Orelse)
	frame.Pop()
	frame.Deadcode = savedDead

	extendAll(frame, bodyLayer)

	for _, h := range s.Handlers {
		handlerLayer := frame.PushCopy()
		a.visitExceptHandler(h)
		frame.Pop()
		frame.Deadcode = savedDead

		extendAll(frame, handlerLayer)
	}

	a.visitBody(s.Finalbody)
}

func (a *Analyzer) visitExceptHandler(h *ast.ExceptHandler) {
	typeDef := a.visitExpr(h.Type)

	if h.Name != "" {
		def := chain.NewSynthetic(h.Name)
		a.tables.AddLocal(a.currentScope(), def)

		if typeDef != nil {
			typeDef.AddUser(def)
		}

		a.storeName(h.Name, def)
	}

	a.visitBody(h.Body)
}

// visitWith implements spec.md §4.4's With rule, matching beniget's
// visit_withitem: each item gets its own Def, fed by its context
// expression; the optional target is then bound as a plain store with no
// link back to the item's Def (the binding is implicit through ctx, the
// same as a plain Assign). The body then runs directly in the current
// layer — no branch handling, since a with-block's body either fully
// executes or the exception propagates out of the enclosing construct.
func (a *Analyzer) visitWith(s *ast.With) {
	for _, item := range s.Items {
		itemDef := a.tables.GetOrCreate(item)
		link(a.visitExpr(item.ContextExpr), itemDef)

		if item.OptionalVars != nil {
			a.assignTarget(item.OptionalVars)
		}
	}

	a.visitBody(s.Body)
}
