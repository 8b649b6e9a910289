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

// Package usedef builds the inverse of the core's def-use chains
// (spec.md §4.5, §6's build_use_defs), the way beniget.UseDefChains
// parallels beniget.DefUseChains: instead of "who reads this value",
// it answers "what could this use have read." It is a standalone
// consumer of duc.Analyzer's output, never called by the core itself.
package usedef

import (
	"chainscope.dev/duc/ast"
	"chainscope.dev/duc/internal/chain"
)

// Chains maps a use-site node to the ordered, deduplicated list of Defs
// that may reach it — the reverse of chain.Def.Users.
type Chains struct {
	chains map[ast.Node][]*chain.Def
}

// Build walks every Def in defUse (a duc.Analyzer's Chains result) and,
// for each of its users, appends the Def to that user's entry here. A
// node that is some Def's own use-site but records no users of its own
// still appears in the result, with an empty list, matching spec.md
// §8's round-trip property: every (d, u) pair with u a user of d must
// have d appear in the inverse chain for u's node.
func Build(defUse map[ast.Node]*chain.Def) *Chains {
	c := &Chains{chains: make(map[ast.Node][]*chain.Def, len(defUse))}

	for node := range defUse {
		c.chains[node] = nil
	}

	for _, d := range defUse {
		for _, u := range d.Users() {
			node := u.Node()
			if node == nil {
				continue
			}

			c.chains[node] = chain.DedupAppend(c.chains[node], []*chain.Def{d})
		}
	}

	return c
}

// Defs returns the Defs that may reach node's use, or nil if node was
// never a use-site.
func (c *Chains) Defs(node ast.Node) []*chain.Def { return c.chains[node] }

// Len returns the number of use-sites recorded.
func (c *Chains) Len() int { return len(c.chains) }
