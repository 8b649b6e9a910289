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
	"sort"

	"chainscope.dev/duc/ast"
	"chainscope.dev/duc/internal/chain"
	"chainscope.dev/duc/internal/diag"
	"chainscope.dev/duc/internal/resolve"
)

// visitFor implements spec.md §4.4's For loop rule: target and body run
// twice in the same branch layer to reach a fixed point (so a name bound
// anywhere in the body is visible to a use earlier in the body, as a
// second iteration would see it), with break/continue carriers and an
// undef frame collecting uses that could not yet be resolved on the
// first pass.
func (a *Analyzer) visitFor(s *ast.For) {
	a.visitExpr(s.Iter)

	frame := a.stack.Top()
	savedDead := frame.Deadcode

	loopState := a.loops.Push()
	undefFrame := a.undefs.Push()

	frame.PushCopy()

	a.assignTarget(s.Target)
	a.visitBody(s.Body)

	a.resolveUndefs(undefFrame)
	loopState.DrainContinue(frame)

	frame.Deadcode = savedDead
	a.assignTarget(s.Target)
	a.visitBody(s.Body)

	bodyFinal := frame.Pop()
	frame.Deadcode = savedDead

	orelseLayer := frame.PushCopy()
	a.visitBody(s.Orelse)
	frame.Pop()
	frame.Deadcode = savedDead

	a.undefs.Pop()
	a.loops.Pop()

	mergeLoop(frame, bodyFinal, orelseLayer, loopState)
}

// visitWhile is analogous to visitFor (spec.md §4.4): the orelse clause
// is additionally probed once up front in a throwaway branch, since a
// while's orelse can be reached on a loop that never executes its body.
func (a *Analyzer) visitWhile(s *ast.While) {
	frame := a.stack.Top()
	savedDead := frame.Deadcode

	frame.PushEmpty()
	a.visitExpr(s.Test)
	a.visitBody(s.Orelse)
	frame.Pop()
	frame.Deadcode = savedDead

	loopState := a.loops.Push()
	undefFrame := a.undefs.Push()

	frame.PushCopy()

	a.visitExpr(s.Test)
	a.visitBody(s.Body)

	a.resolveUndefs(undefFrame)
	loopState.DrainContinue(frame)

	frame.Deadcode = savedDead
	a.visitExpr(s.Test)
	a.visitBody(s.Body)

	bodyFinal := frame.Pop()
	frame.Deadcode = savedDead

	orelseLayer := frame.PushCopy()
	a.visitBody(s.Orelse)
	frame.Pop()
	frame.Deadcode = savedDead

	a.undefs.Pop()
	a.loops.Pop()

	mergeLoop(frame, bodyFinal, orelseLayer, loopState)
}

// mergeLoop folds the loop body's final layer, the orelse layer, and the
// break/continue carriers into the outer layer via extend_definition
// (spec.md §4.4 step 4): every one of these is merely a POSSIBLE reaching
// state (the loop may run zero, one, or many times, and may exit via any
// break), so each is additive rather than replacing the outer entry.
func mergeLoop(frame *resolve.Frame, body, orelse resolve.Layer, loopState *resolve.LoopState) {
	if frame.Dead() {
		return
	}

	extendAll(frame, body)
	extendAll(frame, orelse)
	extendAll(frame, loopState.Breaks)
	extendAll(frame, loopState.Continues)
}

func extendAll(frame *resolve.Frame, layer resolve.Layer) {
	for name, defs := range layer {
		frame.ExtendDefinition(name, defs)
	}
}

// resolveUndefs processes one loop body's pending undef registrations
// after the first pass over target+body (spec.md §4.4 step 3): a name
// now resolvable checks only the loop's own top layer (the branch layer
// pushed for the loop body), not a full outward stack walk — beniget's
// process_undefs looks up name against self._definitions[-1] alone
// (beniget.py:412-423), since what the second pass needs to know is
// whether the loop body itself now binds the name, not whether some
// enclosing frame happens to. A name now resolvable has its placeholder
// Def added as a user of each real reaching definition; otherwise it is
// reported unbound.
func (a *Analyzer) resolveUndefs(undefs *resolve.UndefFrame) {
	names := make([]string, 0, len(undefs.Pending))
	for name := range undefs.Pending {
		names = append(names, name)
	}

	sort.Strings(names)

	top := a.stack.Top().Top()

	for _, name := range names {
		pendings := undefs.Pending[name]

		found, defs, stars := resolve.SearchLayer(top, name)
		if found || len(stars) > 0 {
			result := chain.DedupAppend(append([]*chain.Def{}, stars...), defs)

			for _, p := range pendings {
				for _, d := range result {
					d.AddUser(p.Def)
				}
			}

			continue
		}

		for _, p := range pendings {
			a.report(p.Node, diag.UnboundIdentifier(name))
		}
	}
}
