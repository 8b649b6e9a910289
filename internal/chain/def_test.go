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

package chain_test

import (
	"testing"

	"chainscope.dev/duc/internal/chain"
)

// TestDefStringDiamondNotCycle covers the case a shared leaf Def is
// reached via two distinct, non-ancestor branches (root -> a -> leaf and
// root -> b -> leaf): the second occurrence must be fully re-expanded,
// not collapsed into a "(#N)" back-reference, since only a true
// ancestor-path revisit is a cycle.
func TestDefStringDiamondNotCycle(t *testing.T) {
	t.Parallel()

	root := chain.NewSynthetic("root")
	a := chain.NewSynthetic("a")
	b := chain.NewSynthetic("b")
	shared := chain.NewSynthetic("shared")

	root.AddUser(a)
	root.AddUser(b)
	a.AddUser(shared)
	b.AddUser(shared)

	const want = "root -> (a -> (shared -> ()), b -> (shared -> ()))"
	if got := root.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

// TestDefStringCycleBackReference covers a genuine cycle (a loop-carried
// "a = a + 1" style back-edge): the second visit along the same
// ancestor path must render as a back-reference, not recurse forever.
func TestDefStringCycleBackReference(t *testing.T) {
	t.Parallel()

	a := chain.NewSynthetic("a")
	b := chain.NewSynthetic("b")

	a.AddUser(b)
	b.AddUser(a)

	const want = "a -> (b -> ((#0)))"
	if got := a.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
