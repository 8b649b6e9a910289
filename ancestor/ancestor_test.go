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

package ancestor_test

import (
	"testing"

	"chainscope.dev/duc/ancestor"
	"chainscope.dev/duc/ast"
	"chainscope.dev/duc/parse"
)

func TestParentsWalksFromModuleToNode(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse("def foo(x) { return x + 1; }\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	fn, ok := mod.Body[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.FunctionDef", mod.Body[0])
	}

	ret, ok := fn.Body[0].(*ast.Return)
	if !ok {
		t.Fatalf("function body 0 is %T, want *ast.Return", fn.Body[0])
	}

	binop, ok := ret.Value.(*ast.BinOp)
	if !ok {
		t.Fatalf("return value is %T, want *ast.BinOp", ret.Value)
	}

	ancestors := ancestor.Visit(mod)

	got := ancestors.Parents(binop)
	if len(got) != 3 {
		t.Fatalf("Parents(binop) = %d entries, want 3", len(got))
	}

	if got[0] != ast.Node(mod) || got[1] != ast.Node(fn) || got[2] != ast.Node(ret) {
		t.Errorf("Parents(binop) = %v, want [module, foo, return]", got)
	}

	if ancestors.Parent(binop) != ast.Node(ret) {
		t.Errorf("Parent(binop) = %v, want the Return statement", ancestors.Parent(binop))
	}
}

func TestParentOfKindFindsEnclosingFunction(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse("def foo(x) { return x + 1; }\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	fn, ok := mod.Body[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.FunctionDef", mod.Body[0])
	}

	ret := fn.Body[0].(*ast.Return)
	binop := ret.Value.(*ast.BinOp)

	ancestors := ancestor.Visit(mod)

	isFunctionDef := func(n ast.Node) bool {
		_, ok := n.(*ast.FunctionDef)

		return ok
	}

	got, ok := ancestors.ParentOfKind(binop, isFunctionDef)
	if !ok {
		t.Fatal("ParentOfKind() found no enclosing function")
	}

	if got != ast.Node(fn) {
		t.Errorf("ParentOfKind() = %v, want foo", got)
	}
}

func TestParentOfKindNotFound(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse("x = 1\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	assign := mod.Body[0].(*ast.Assign)

	ancestors := ancestor.Visit(mod)

	_, ok := ancestors.ParentOfKind(assign, func(n ast.Node) bool {
		_, ok := n.(*ast.ClassDef)

		return ok
	})
	if ok {
		t.Error("ParentOfKind() unexpectedly found a ClassDef ancestor")
	}
}
