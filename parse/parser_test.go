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

package parse_test

import (
	"testing"

	"chainscope.dev/duc/ast"
	"chainscope.dev/duc/parse"
)

func TestParseAssignment(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse("a = 1; a = a + 2;")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(mod.Body) != 2 {
		t.Fatalf("got %d statements, want 2", len(mod.Body))
	}

	first, ok := mod.Body[0].(*ast.Assign)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.Assign", mod.Body[0])
	}

	name, ok := first.Targets[0].(*ast.Name)
	if !ok || name.Id != "a" || name.Ctx != ast.Store {
		t.Errorf("target = %#v, want Store Name %q", first.Targets[0], "a")
	}
}

func TestParseFunctionDef(t *testing.T) {
	t.Parallel()

	src := `
def f(x, y=1, *args, **kwargs) {
	return x + y;
}
`

	mod, err := parse.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	fn, ok := mod.Body[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.FunctionDef", mod.Body[0])
	}

	if fn.Name != "f" {
		t.Errorf("Name = %q, want f", fn.Name)
	}

	if len(fn.Args.Args) != 2 || fn.Args.VarArg == nil || fn.Args.KwArg == nil {
		t.Errorf("Args = %#v, want 2 positional + *args + **kwargs", fn.Args)
	}
}

func TestParseIfElif(t *testing.T) {
	t.Parallel()

	src := `
if (x) {
	pass;
} elif (y) {
	pass;
} else {
	pass;
}
`

	mod, err := parse.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	top, ok := mod.Body[0].(*ast.If)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.If", mod.Body[0])
	}

	if len(top.Orelse) != 1 {
		t.Fatalf("Orelse has %d statements, want 1 (nested elif)", len(top.Orelse))
	}

	if _, ok := top.Orelse[0].(*ast.If); !ok {
		t.Errorf("Orelse[0] = %T, want *ast.If", top.Orelse[0])
	}
}

func TestParseComprehension(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse("ys = [x for x in xs if x];")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	assign := mod.Body[0].(*ast.Assign)

	comp, ok := assign.Value.(*ast.ListComp)
	if !ok {
		t.Fatalf("value is %T, want *ast.ListComp", assign.Value)
	}

	if len(comp.Generators) != 1 {
		t.Fatalf("got %d generators, want 1", len(comp.Generators))
	}

	if len(comp.Generators[0].Ifs) != 1 {
		t.Errorf("got %d ifs, want 1", len(comp.Generators[0].Ifs))
	}
}

func TestParseWalrus(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse("while (chunk := read()) { use(chunk); }")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	wh, ok := mod.Body[0].(*ast.While)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.While", mod.Body[0])
	}

	ne, ok := wh.Test.(*ast.NamedExpr)
	if !ok {
		t.Fatalf("Test is %T, want *ast.NamedExpr", wh.Test)
	}

	if ne.Target.Id != "chunk" {
		t.Errorf("Target.Id = %q, want chunk", ne.Target.Id)
	}
}

func TestParseImportFromStar(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse("from pkg import *;")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	imp, ok := mod.Body[0].(*ast.ImportFrom)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.ImportFrom", mod.Body[0])
	}

	if len(imp.Names) != 1 || !imp.Names[0].IsStar {
		t.Errorf("Names = %#v, want one IsStar alias", imp.Names)
	}
}

func TestParseErrorReportsPosition(t *testing.T) {
	t.Parallel()

	_, err := parse.Parse("a = ;")
	if err == nil {
		t.Fatal("Parse() error = nil, want a syntax error")
	}
}
