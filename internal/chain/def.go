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

// Package chain holds the analyzer's universal data entity (Def) and the
// chain/locals tables it is collected into. Def graphs may be cyclic (a
// loop-carried "a = a + 1" links a's store Def back to its own later use);
// since Go pointers are traced by the garbage collector, cycles need no
// special ownership handling here, only a visited-set when printing.
package chain

import (
	"fmt"
	"strings"

	"chainscope.dev/duc/ast"
)

// Def is a definition record: either a binding site (assignment target,
// parameter, import alias, function/class name, comprehension result) or
// a synthetic value with no backing AST node (a builtin, a star-import
// wildcard, the `__class__` cell).
type Def struct {
	node    ast.Node
	synth   string // display name for a synthetic Def; "" for a node-backed Def
	users   []*Def
	userSet map[*Def]bool
}

// New creates a Def for an AST node.
func New(node ast.Node) *Def {
	return &Def{node: node}
}

// NewSynthetic creates a Def with no backing node, named name — used for
// builtins, the `*` star-import wildcard, and the synthetic `__class__`
// cell installed in every class scope.
func NewSynthetic(name string) *Def {
	return &Def{synth: name}
}

// Node returns the Def's backing AST node, or nil for a synthetic Def.
func (d *Def) Node() ast.Node { return d.node }

// Name derives the Def's display name: the identifier text for Name-like
// nodes, the synthetic label if any, or else the node's Kind as a
// fallback tag.
func (d *Def) Name() string {
	if d.synth != "" {
		return d.synth
	}

	switch n := d.node.(type) {
	case *ast.Name:
		return n.Id
	case *ast.Alias:
		if n.IsStar {
			return "*"
		}

		if n.AsName != "" {
			return n.AsName
		}

		return n.Name
	case *ast.FunctionDef:
		return n.Name
	case *ast.ClassDef:
		return n.Name
	case *ast.Arg:
		return n.Name
	case nil:
		return "?"
	default:
		return d.node.Kind().String()
	}
}

// AddUser links u as a consumer of d's value, deduplicated and
// insertion-ordered.
func (d *Def) AddUser(u *Def) {
	if u == nil || d == u {
		return
	}

	if d.userSet == nil {
		d.userSet = make(map[*Def]bool)
	}

	if d.userSet[u] {
		return
	}

	d.userSet[u] = true
	d.users = append(d.users, u)
}

// Users returns d's users in insertion order.
func (d *Def) Users() []*Def { return d.users }

// String renders d the way dump_chains does: "name -> (user1, user2, ...)",
// recursively, with a "(#N)" back-reference the second time a Def already
// on the current ancestor path is encountered. A Def reached again via a
// sibling, non-ancestor branch (a diamond) is not a cycle and is fully
// re-expanded, matching beniget's _str(self, nodes): each user is visited
// with nodes.copy(), so the id set only ever grows along one path, never
// across siblings.
func (d *Def) String() string {
	return formatDef(d, map[*Def]int{})
}

// formatDef mirrors beniget's Def._str(self, nodes) exactly: ids is
// keyed by insertion order (id assigned is len(ids) at that point), and
// each user is recursed into with its own copy of ids so a diamond —
// the same Def reached again via a different, non-ancestor branch — is
// fully re-expanded rather than collapsed into a back-reference.
func formatDef(d *Def, ids map[*Def]int) string {
	if id, ok := ids[d]; ok {
		return fmt.Sprintf("(#%d)", id)
	}

	ids[d] = len(ids)

	parts := make([]string, len(d.users))
	for i, u := range d.users {
		parts[i] = formatDef(u, copyIDs(ids))
	}

	return fmt.Sprintf("%s -> (%s)", d.Name(), strings.Join(parts, ", "))
}

func copyIDs(ids map[*Def]int) map[*Def]int {
	cp := make(map[*Def]int, len(ids))
	for d, id := range ids {
		cp[d] = id
	}

	return cp
}

// DedupAppend returns existing with every Def in add appended that is not
// already present, preserving existing's order and add's relative order.
func DedupAppend(existing []*Def, add []*Def) []*Def {
	if len(add) == 0 {
		return existing
	}

	seen := make(map[*Def]bool, len(existing)+len(add))
	for _, d := range existing {
		seen[d] = true
	}

	out := existing
	for _, d := range add {
		if seen[d] {
			continue
		}

		seen[d] = true
		out = append(out, d)
	}

	return out
}
