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

// Package ancestor builds the ancestor tree for a parsed module —
// every node mapped to the path of nodes visited from the root down to
// it — grounded directly on beniget.Ancestors. It is an external
// collaborator: the core analyzer never imports it, and it never
// imports the core; it is used by the CLI driver's unused-name linter
// to find which statement/function/class a Def's node sits under.
package ancestor

import (
	"fmt"

	"chainscope.dev/duc/ast"
)

// Ancestors maps every node reachable from a Visit call to its path from
// the root, root first, node itself excluded.
type Ancestors struct {
	parents map[ast.Node][]ast.Node
}

// Visit walks root's full structural tree (every field, including nested
// scopes) via ast.Children and records each node's ancestor path.
func Visit(root ast.Node) *Ancestors {
	a := &Ancestors{parents: make(map[ast.Node][]ast.Node)}
	a.walk(root, nil)

	return a
}

func (a *Ancestors) walk(n ast.Node, path []ast.Node) {
	a.parents[n] = path

	next := append(append([]ast.Node(nil), path...), n)
	for c := range ast.Children(n) {
		a.walk(c, next)
	}
}

// Parent returns node's immediate parent. It panics if node was not seen
// during Visit or is the root (matching beniget's parent(), which
// indexes the last element of an empty list).
func (a *Ancestors) Parent(node ast.Node) ast.Node {
	path, ok := a.parents[node]
	if !ok || len(path) == 0 {
		panic(fmt.Sprintf("ancestor: %v has no parent", node))
	}

	return path[len(path)-1]
}

// Parents returns node's full ancestor path, root first, nil if node is
// the root itself or was never visited.
func (a *Ancestors) Parents(node ast.Node) []ast.Node { return a.parents[node] }

// Nodes returns every node visited, including the root, in no
// particular order. Used by generic tooling (the CLI driver's
// unused-name linter) that needs to enumerate every scope in a module
// without re-walking the tree itself.
func (a *Ancestors) Nodes() []ast.Node {
	out := make([]ast.Node, 0, len(a.parents))
	for n := range a.parents {
		out = append(out, n)
	}

	return out
}

// ParentOfKind returns the nearest ancestor of node for which match
// reports true, searching from the immediate parent outward to the
// root. It is the Go generalization of beniget's parentInstance
// (specialized there as parentFunction/parentStmt via isinstance over a
// tuple of types; Go has no such tuple-isinstance, hence the predicate).
// The second result is false if no ancestor matches.
func (a *Ancestors) ParentOfKind(node ast.Node, match func(ast.Node) bool) (ast.Node, bool) {
	path := a.parents[node]

	for i := len(path) - 1; i >= 0; i-- {
		if match(path[i]) {
			return path[i], true
		}
	}

	return nil, false
}
