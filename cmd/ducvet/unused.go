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

package main

import (
	"fmt"
	"sort"

	"chainscope.dev/duc"
	"chainscope.dev/duc/ancestor"
	"chainscope.dev/duc/ast"
	"chainscope.dev/duc/internal/config"
)

// unusedLocals mirrors the reference beniget.Beniget.check_unused driver
// function (kept out of the core on purpose, spec.md §1): every scope's
// locals with no recorded users are defined-but-unused, except for
// names the skip-set exempts and names belonging to a scope that
// contains a `from m import *` — their apparent non-use may just be the
// wildcard obscuring a real external reference.
func unusedLocals(mod *ast.Module, analyzer *duc.Analyzer, skip config.LintSkip) []string {
	ancestors := ancestor.Visit(mod)

	var out []string

	for _, scope := range scopeNodes(mod, ancestors) {
		if hasStarImport(scope) {
			continue
		}

		for _, def := range analyzer.Locals(scope) {
			name := def.Name()
			if skip.Skips(name) {
				continue
			}

			if alias, ok := def.Node().(*ast.Alias); ok {
				module := alias.Name
				if from, ok := ancestors.Parent(alias).(*ast.ImportFrom); ok {
					module = from.Module
				}

				if skip.SkipsImport(module) {
					continue
				}
			}

			if len(def.Users()) > 0 {
				continue
			}

			out = append(out, fmt.Sprintf("W: local %q is never used", name))
		}
	}

	sort.Strings(out)

	return out
}

// scopeNodes returns every node the analyzer may have installed a
// locals entry under: the module itself, plus every function, class,
// lambda, and comprehension reachable anywhere in the tree.
func scopeNodes(mod *ast.Module, ancestors *ancestor.Ancestors) []ast.Node {
	scopes := []ast.Node{mod}

	for _, n := range ancestors.Nodes() {
		switch n.(type) {
		case *ast.FunctionDef, *ast.ClassDef, *ast.Lambda,
			*ast.ListComp, *ast.SetComp, *ast.DictComp, *ast.GeneratorExp:
			scopes = append(scopes, n)
		}
	}

	return scopes
}

// hasStarImport reports whether scope's own statement list (not
// descending into nested scopes) contains a `from m import *`, mirroring
// package locals' scope-boundary-aware walk.
func hasStarImport(scope ast.Node) bool {
	var body []ast.Stmt

	switch s := scope.(type) {
	case *ast.Module:
		body = s.Body
	case *ast.FunctionDef:
		body = s.Body
	case *ast.ClassDef:
		body = s.Body
	default:
		return false
	}

	for _, stmt := range body {
		imp, ok := stmt.(*ast.ImportFrom)
		if !ok {
			continue
		}

		for _, alias := range imp.Names {
			if alias.IsStar {
				return true
			}
		}
	}

	return false
}
