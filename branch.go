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
	"chainscope.dev/duc/internal/resolve"
)

// visitIf implements spec.md §4.4's If rule: test is visited in the
// current layer, then body and orelse each run in their own branch copy
// so they can diverge without affecting one another, and the two arms
// are merged back into the outer layer once both have run.
func (a *Analyzer) visitIf(s *ast.If) {
	a.visitExpr(s.Test)

	frame := a.stack.Top()
	savedDead := frame.Deadcode

	bodyLayer := frame.PushCopy()
	a.visitBody(s.Body)
	frame.Pop()
	frame.Deadcode = savedDead

	orelseLayer := frame.PushCopy()
	a.visitBody(s.Orelse)
	frame.Pop()
	frame.Deadcode = savedDead

	mergeBranches(frame, bodyLayer, orelseLayer)
}

// mergeBranches folds two mutually-exclusive branch layers back into
// frame's current top layer: a name present in both arms has its outer
// entry replaced by the union of the two (a reassignment in either arm
// is a possible reaching value); a name present in only one arm has its
// outer entry extended by that arm alone — harmless for a name already
// carried into both copies unmodified, and correct for a name newly
// bound inside just one arm.
func mergeBranches(frame *resolve.Frame, body, orelse resolve.Layer) {
	if frame.Dead() {
		return
	}

	outer := frame.Top()

	seen := make(map[string]bool, len(body)+len(orelse))
	for name := range body {
		seen[name] = true
	}

	for name := range orelse {
		seen[name] = true
	}

	for name := range seen {
		bd, inBody := body[name]
		od, inOrelse := orelse[name]

		switch {
		case inBody && inOrelse:
			outer[name] = chain.DedupAppend(append([]*chain.Def{}, bd...), od)
		case inBody:
			outer[name] = chain.DedupAppend(append([]*chain.Def{}, outer[name]...), bd)
		case inOrelse:
			outer[name] = chain.DedupAppend(append([]*chain.Def{}, outer[name]...), od)
		}
	}
}
