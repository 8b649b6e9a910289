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

package resolve

import "chainscope.dev/duc/internal/chain"

// LoopState is one loop nesting level's break/continue carriers
// (spec.md §4.2, §4.4): definitions live at the point of a break or
// continue statement are drained out of the frame's top layer into the
// matching carrier, to be merged into the loop's outer layer once the
// loop is fully walked.
type LoopState struct {
	Breaks    Layer
	Continues Layer
}

func newLoopState() *LoopState {
	return &LoopState{Breaks: newLayer(), Continues: newLayer()}
}

// DrainBreak extends Breaks with f's current top layer, then clears that
// layer so dead code following the break sees nothing stale.
func (ls *LoopState) DrainBreak(f *Frame) { ls.drain(ls.Breaks, f) }

// DrainContinue extends Continues with f's current top layer and clears it.
func (ls *LoopState) DrainContinue(f *Frame) { ls.drain(ls.Continues, f) }

func (ls *LoopState) drain(into Layer, f *Frame) {
	top := f.Top()

	for name, defs := range top {
		into[name] = chain.DedupAppend(into[name], defs)
	}

	for name := range top {
		delete(top, name)
	}
}

// LoopStack tracks the active LoopState per nested loop currently being
// walked, so a break/continue statement drains into the innermost loop.
type LoopStack struct {
	states []*LoopState
}

// Push enters a new loop, returning its fresh LoopState.
func (s *LoopStack) Push() *LoopState {
	ls := newLoopState()
	s.states = append(s.states, ls)

	return ls
}

// Pop exits the innermost loop.
func (s *LoopStack) Pop() *LoopState {
	n := len(s.states) - 1
	ls := s.states[n]
	s.states = s.states[:n]

	return ls
}

// Top returns the innermost active LoopState, or nil outside any loop.
func (s *LoopStack) Top() *LoopState {
	if len(s.states) == 0 {
		return nil
	}

	return s.states[len(s.states)-1]
}
