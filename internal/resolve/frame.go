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

// Package resolve holds the scope/definition stack machine and the name
// resolver built on top of it (spec.md §4.2, §4.3). The layered-map-stack
// design — a Frame carrying a stack of definition Layers, pushed on scope
// entry and on every branch arm — plays the same role the teacher's
// scope.Index/scope.UsageScope pair plays for guard-variable tracking: a
// mutable, explicitly-pushed/popped model of "what's visible right now."
package resolve

import (
	"chainscope.dev/duc/ast"
	"chainscope.dev/duc/internal/chain"
)

// Layer is one level of a Frame's definition-map stack: name to the
// ordered set of Defs currently reaching under that name.
type Layer map[string][]*chain.Def

func newLayer() Layer { return make(Layer) }

func cloneLayer(l Layer) Layer {
	out := make(Layer, len(l))

	for name, defs := range l {
		cp := make([]*chain.Def, len(defs))
		copy(cp, defs)
		out[name] = cp
	}

	return out
}

// Frame is one lexical scope's resolution state: module, function, class,
// lambda, or comprehension.
type Frame struct {
	Scope    ast.Node
	IsClass  bool
	Layers   []Layer
	Globals  map[string]bool
	Locals   map[string]bool // precomputed_locals(scope), from package locals
	Deadcode int
}

// NewFrame returns a freshly entered Frame with one empty base layer, per
// enter_scope in spec.md §4.2.
func NewFrame(scope ast.Node, isClass bool, precomputedLocals map[string]bool) *Frame {
	return &Frame{
		Scope:   scope,
		IsClass: isClass,
		Layers:  []Layer{newLayer()},
		Globals: make(map[string]bool),
		Locals:  precomputedLocals,
	}
}

// Push pushes l as the new top layer.
func (f *Frame) Push(l Layer) { f.Layers = append(f.Layers, l) }

// PushCopy pushes a copy of the current top layer, for branch_context
// where outer definitions should be visible and mutable independently
// inside the branch (if-arms, loop bodies, try blocks).
func (f *Frame) PushCopy() Layer {
	l := cloneLayer(f.Top())
	f.Push(l)

	return l
}

// PushEmpty pushes a fresh empty layer, for contexts that should start
// with nothing visible from the current layer (e.g. a throwaway probe).
func (f *Frame) PushEmpty() Layer {
	l := newLayer()
	f.Push(l)

	return l
}

// Pop removes and returns the top layer.
func (f *Frame) Pop() Layer {
	n := len(f.Layers) - 1
	l := f.Layers[n]
	f.Layers = f.Layers[:n]

	return l
}

// Top returns the current top layer.
func (f *Frame) Top() Layer { return f.Layers[len(f.Layers)-1] }

// Base returns the frame's bottommost (scope-entry) layer — for the
// module frame, this is where builtins and extend_global writes live.
func (f *Frame) Base() Layer { return f.Layers[0] }

// DeclareGlobal records that name is declared global in this frame.
func (f *Frame) DeclareGlobal(name string) { f.Globals[name] = true }

// IsGlobal reports whether name was declared global in this frame.
func (f *Frame) IsGlobal(name string) bool { return f.Globals[name] }

// Dead reports whether this frame is currently inside dead code (after an
// unconditional break/continue/raise at the same block level).
func (f *Frame) Dead() bool { return f.Deadcode > 0 }

// EnterDeadcode increments the dead-code depth counter.
func (f *Frame) EnterDeadcode() { f.Deadcode++ }

// ExitDeadcode decrements the dead-code depth counter, restored on block
// exit regardless of how it was entered.
func (f *Frame) ExitDeadcode() {
	if f.Deadcode > 0 {
		f.Deadcode--
	}
}

// SetDefinition overwrites the top layer's entry for name — a no-op
// while in dead code.
func (f *Frame) SetDefinition(name string, defs []*chain.Def) {
	if f.Dead() {
		return
	}

	cp := make([]*chain.Def, len(defs))
	copy(cp, defs)
	f.Top()[name] = cp
}

// ExtendDefinition union-adds defs into the top layer's entry for name.
func (f *Frame) ExtendDefinition(name string, defs []*chain.Def) {
	if f.Dead() || len(defs) == 0 {
		return
	}

	top := f.Top()
	top[name] = chain.DedupAppend(top[name], defs)
}

// ExtendBase union-adds defs into the frame's base layer, used by
// extend_global to write through to the module scope regardless of how
// many branch layers are currently pushed there.
func (f *Frame) ExtendBase(name string, defs []*chain.Def) {
	if f.Dead() || len(defs) == 0 {
		return
	}

	base := f.Base()
	base[name] = chain.DedupAppend(base[name], defs)
}
