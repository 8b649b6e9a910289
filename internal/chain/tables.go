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

package chain

import (
	"sort"

	"chainscope.dev/duc/ast"
)

// Tables holds the two global maps produced by a completed analysis, plus
// the fixed builtins table seeded into the module scope before traversal.
type Tables struct {
	Chains   map[ast.Node]*Def
	Locals   map[ast.Node][]*Def
	Builtins map[string]*Def

	localSeen map[ast.Node]map[*Def]bool
}

// NewTables returns an empty Tables with builtins seeded from names.
func NewTables(builtinNames []string) *Tables {
	t := &Tables{
		Chains:    make(map[ast.Node]*Def),
		Locals:    make(map[ast.Node][]*Def),
		Builtins:  make(map[string]*Def, len(builtinNames)),
		localSeen: make(map[ast.Node]map[*Def]bool),
	}

	for _, name := range builtinNames {
		t.Builtins[name] = NewSynthetic(name)
	}

	return t
}

// GetOrCreate returns the Def chains has for node, creating and
// registering one on first visit. Every value-producing node receives
// exactly one Def for the lifetime of the analysis.
func (t *Tables) GetOrCreate(node ast.Node) *Def {
	if d, ok := t.Chains[node]; ok {
		return d
	}

	d := New(node)
	t.Chains[node] = d

	return d
}

// AddLocal appends def to scope's local list, deduplicated by pointer
// identity; order reflects first appearance during traversal.
func (t *Tables) AddLocal(scope ast.Node, def *Def) {
	seen := t.localSeen[scope]
	if seen == nil {
		seen = make(map[*Def]bool)
		t.localSeen[scope] = seen
	}

	if seen[def] {
		return
	}

	seen[def] = true
	t.Locals[scope] = append(t.Locals[scope], def)
}

// DumpDefinitions returns the sorted list of local names in scope, for
// use in tests; when ignoreBuiltins is set, any Def whose name is a
// builtin name is skipped (builtin Defs themselves never appear in
// Locals, but a class scope's synthetic __class__ Def does, and
// __class__ is a builtin name).
func (t *Tables) DumpDefinitions(scope ast.Node, ignoreBuiltins bool) []string {
	names := make([]string, 0, len(t.Locals[scope]))

	for _, d := range t.Locals[scope] {
		if ignoreBuiltins {
			if _, isBuiltin := t.Builtins[d.Name()]; isBuiltin {
				continue
			}
		}

		names = append(names, d.Name())
	}

	sort.Strings(names)

	return names
}

// DumpChains returns one human-readable chain string per local Def in
// scope, in first-appearance order.
func (t *Tables) DumpChains(scope ast.Node) []string {
	out := make([]string, len(t.Locals[scope]))
	for i, d := range t.Locals[scope] {
		out[i] = d.String()
	}

	return out
}
