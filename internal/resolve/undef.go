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

import (
	"chainscope.dev/duc/ast"
	"chainscope.dev/duc/internal/chain"
)

// PendingUndef is one use-site resolved as a fresh, still-unbound Def
// while a loop body was the active undef frame. If the loop body ends up
// binding the name, the walker retroactively adds the fresh Def as a
// user of each real binding's Def; otherwise it reports unbound.
type PendingUndef struct {
	Def   *chain.Def
	Node  ast.Node
	Stars []*chain.Def
}

// UndefFrame is the per-loop registry named in spec.md's glossary: names
// that resolved to a fresh synthetic Def during one pass over a loop
// body, awaiting fix-up once the body's own definitions are known.
type UndefFrame struct {
	Pending map[string][]*PendingUndef
}

func newUndefFrame() *UndefFrame {
	return &UndefFrame{Pending: make(map[string][]*PendingUndef)}
}

// Register records that name resolved to a fresh Def within this undef
// frame, along with whatever wildcard set had accumulated by that point.
func (u *UndefFrame) Register(name string, def *chain.Def, node ast.Node, stars []*chain.Def) {
	u.Pending[name] = append(u.Pending[name], &PendingUndef{Def: def, Node: node, Stars: stars})
}

// UndefStack is the stack of active UndefFrames, one pushed per loop
// nesting level currently being walked.
type UndefStack struct {
	frames []*UndefFrame
}

// Push enters a new loop body, returning its fresh UndefFrame.
func (s *UndefStack) Push() *UndefFrame {
	f := newUndefFrame()
	s.frames = append(s.frames, f)

	return f
}

// Pop exits the innermost loop body's undef frame.
func (s *UndefStack) Pop() *UndefFrame {
	n := len(s.frames) - 1
	f := s.frames[n]
	s.frames = s.frames[:n]

	return f
}

// Top returns the active undef frame, or nil if no loop body is
// currently being walked.
func (s *UndefStack) Top() *UndefFrame {
	if len(s.frames) == 0 {
		return nil
	}

	return s.frames[len(s.frames)-1]
}
