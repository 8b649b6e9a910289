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

package usedef_test

import (
	"testing"

	"chainscope.dev/duc"
	"chainscope.dev/duc/ast"
	"chainscope.dev/duc/parse"
	"chainscope.dev/duc/usedef"
)

func TestBuildRoundTrip(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse("a = 1;\nb = a + 1;\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	a := duc.New()
	if err := a.Visit(mod); err != nil {
		t.Fatalf("Visit() error = %v", err)
	}

	inverse := usedef.Build(a.Chains())

	// Find the use-site Name node for "a" on the right-hand side of "b = a + 1".
	assign, ok := mod.Body[1].(*ast.Assign)
	if !ok {
		t.Fatalf("statement 1 is %T, want *ast.Assign", mod.Body[1])
	}

	binop, ok := assign.Value.(*ast.BinOp)
	if !ok {
		t.Fatalf("rhs is %T, want *ast.BinOp", assign.Value)
	}

	useNode, ok := binop.Left.(*ast.Name)
	if !ok {
		t.Fatalf("lhs of binop is %T, want *ast.Name", binop.Left)
	}

	defs := inverse.Defs(useNode)
	if len(defs) != 1 {
		t.Fatalf("Defs(a-use) = %d entries, want 1", len(defs))
	}

	if defs[0].Name() != "a" {
		t.Errorf("Defs(a-use)[0].Name() = %q, want %q", defs[0].Name(), "a")
	}
}

func TestBuildIncludesUnusedUseSites(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse("print(1)\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	a := duc.New()
	if err := a.Visit(mod); err != nil {
		t.Fatalf("Visit() error = %v", err)
	}

	inverse := usedef.Build(a.Chains())
	if inverse.Len() != len(a.Chains()) {
		t.Fatalf("Len() = %d, want %d", inverse.Len(), len(a.Chains()))
	}
}
