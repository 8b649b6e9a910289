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

// Stack is the scope stack: one Frame per lexically enclosing scope, the
// module frame always at index 0.
type Stack struct {
	frames []*Frame
}

// NewStack returns an empty Stack.
func NewStack() *Stack { return &Stack{} }

// Push enters a new innermost scope.
func (s *Stack) Push(f *Frame) { s.frames = append(s.frames, f) }

// Pop exits the innermost scope and returns it.
func (s *Stack) Pop() *Frame {
	n := len(s.frames) - 1
	f := s.frames[n]
	s.frames = s.frames[:n]

	return f
}

// Top returns the innermost frame.
func (s *Stack) Top() *Frame { return s.frames[len(s.frames)-1] }

// Module returns the outermost (module) frame.
func (s *Stack) Module() *Frame { return s.frames[0] }

// Len returns the number of frames currently on the stack.
func (s *Stack) Len() int { return len(s.frames) }

// Frame returns the frame at depth i, 0 being the module frame.
func (s *Stack) Frame(i int) *Frame { return s.frames[i] }

// Empty reports whether the stack has no frames — checked by the post-
// analysis invariant in spec.md §3 ("after analysis ... stacks are empty").
func (s *Stack) Empty() bool { return len(s.frames) == 0 }

// FrameSnapshot pairs a frame with the layer stack it had at the moment a
// function or lambda was declared, frozen independently of whatever the
// live frame's layer stack becomes afterward. A branch arm pushes a copy
// of the current layer and merges it back into the layer below on exit
// (see branch.go); a function declared inside that arm closes over the
// layer stack as it stood mid-branch, not over the post-merge shape —
// mirroring beniget's DefUseChains snapshotting list(self._definitions)
// (a list of dict references) rather than just which scopes are active.
// The Layer maps within are still shared by reference, so mutations the
// enclosing scope undergoes after declaration (a later top-level
// assignment, say) remain visible — only the layer-stack shape is
// pinned.
type FrameSnapshot struct {
	frame  *Frame
	layers []Layer
}

// Snapshot captures, for every frame currently on the stack, its Frame
// pointer and a frozen copy of its current Layers slice.
func (s *Stack) Snapshot() []FrameSnapshot {
	cp := make([]FrameSnapshot, len(s.frames))
	for i, f := range s.frames {
		cp[i] = FrameSnapshot{frame: f, layers: append([]Layer(nil), f.Layers...)}
	}

	return cp
}

// Restore re-enters a previously captured snapshot: every frame's Layers
// field is temporarily pinned to its frozen value so lookups during the
// deferred pass see the layer stack as it stood at declaration time. The
// returned func restores each frame's live Layers field and must be
// called once the deferred body has been fully visited.
func (s *Stack) Restore(snap []FrameSnapshot) func() {
	frames := make([]*Frame, len(snap))
	saved := make([][]Layer, len(snap))

	for i, fs := range snap {
		frames[i] = fs.frame
		saved[i] = fs.frame.Layers
		fs.frame.Layers = fs.layers
	}

	s.frames = frames

	return func() {
		for i, fs := range snap {
			fs.frame.Layers = saved[i]
		}
	}
}
