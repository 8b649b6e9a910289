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

package duc_test

import (
	"strings"
	"testing"

	"chainscope.dev/duc"
	"chainscope.dev/duc/ast"
	"chainscope.dev/duc/internal/diag"
	"chainscope.dev/duc/parse"
)

// TestClassScopeReadBeforeAssign covers scenario 6: a class body that
// reads a name it also assigns does not see the enclosing function's
// binding — a class scope may fall through only to module globals, and
// the module does not bind x, so the read is a genuine unbound read.
func TestClassScopeReadBeforeAssign(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse("def A() {\n x = 1;\n class B {\n  x = x;\n }\n}\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	sink := &diag.SliceSink{}

	a := duc.New(duc.WithSink(sink))
	if err := a.Visit(mod); err != nil {
		t.Fatalf("Visit() error = %v", err)
	}

	if len(sink.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %d, want 1: %+v", len(sink.Diagnostics), sink.Diagnostics)
	}

	got := sink.Diagnostics[0]
	if !strings.Contains(got.Message, `'x'`) {
		t.Errorf("Message = %q, want it to name x", got.Message)
	}

	if got.Pos.Line != 4 {
		t.Errorf("Pos.Line = %d, want 4", got.Pos.Line)
	}
}

// TestNamedExprUsers covers scenario 7: the walrus expression's value
// flows into its own Def, not the bound name's; the name read twice on
// the right of "a := a + a" both become users of the original binding,
// while the walrus-introduced binding itself has no users.
func TestNamedExprUsers(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse("a = 1;\nif (a := a + a) {\n pass;\n}\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	a := duc.New()
	if err := a.Visit(mod); err != nil {
		t.Fatalf("Visit() error = %v", err)
	}

	assign, ok := mod.Body[0].(*ast.Assign)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.Assign", mod.Body[0])
	}

	target, ok := assign.Targets[0].(*ast.Name)
	if !ok {
		t.Fatalf("assign target is %T, want *ast.Name", assign.Targets[0])
	}

	chains := a.Chains()

	original, ok := chains[target]
	if !ok {
		t.Fatalf("no Def recorded for the initial binding of a")
	}

	if len(original.Users()) != 2 {
		t.Fatalf("original a's Users() = %d, want 2 (both sides of a + a): %v", len(original.Users()), original.Users())
	}

	ifStmt, ok := mod.Body[1].(*ast.If)
	if !ok {
		t.Fatalf("statement 1 is %T, want *ast.If", mod.Body[1])
	}

	walrus, ok := ifStmt.Test.(*ast.NamedExpr)
	if !ok {
		t.Fatalf("if test is %T, want *ast.NamedExpr", ifStmt.Test)
	}

	walrusTarget := walrus.Target
	if walrusTarget == nil {
		t.Fatalf("walrus target is nil, want *ast.Name")
	}

	storeDef, ok := chains[walrusTarget]
	if !ok {
		t.Fatalf("no Def recorded for the walrus-introduced a")
	}

	if len(storeDef.Users()) != 0 {
		t.Errorf("walrus-introduced a's Users() = %d, want 0: %v", len(storeDef.Users()), storeDef.Users())
	}
}

// TestDelIsPlainRead covers beniget's documented behavior for Del
// context: a "del x" consumes the reaching definition like any other
// use, but has no effect on what still reaches afterward — a later read
// of the same name resolves to the same binding, not to an unbound
// identifier.
func TestDelIsPlainRead(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse("a = 1;\ndel a;\na;\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	sink := &diag.SliceSink{}

	a := duc.New(duc.WithSink(sink))
	if err := a.Visit(mod); err != nil {
		t.Fatalf("Visit() error = %v", err)
	}

	if len(sink.Diagnostics) != 0 {
		t.Fatalf("Diagnostics = %d, want 0: %+v", len(sink.Diagnostics), sink.Diagnostics)
	}

	assign, ok := mod.Body[0].(*ast.Assign)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.Assign", mod.Body[0])
	}

	target, ok := assign.Targets[0].(*ast.Name)
	if !ok {
		t.Fatalf("assign target is %T, want *ast.Name", assign.Targets[0])
	}

	chains := a.Chains()

	binding, ok := chains[target]
	if !ok {
		t.Fatalf("no Def recorded for the initial binding of a")
	}

	if len(binding.Users()) != 2 {
		t.Fatalf("binding's Users() = %d, want 2 (the del and the final read): %v", len(binding.Users()), binding.Users())
	}
}

// TestLoopUndefCheckIsTopLayerOnly covers the exact case that separates
// a full stack-wide resolve.Lookup from beniget's process_undefs, which
// checks only self._definitions[-1]: a "global x" write executed later
// in the same first pass lands in the module's base layer, not in the
// loop's own branch layer, so a read of x earlier in that same pass must
// still be reported unbound — the write reaching the module frame by
// the time the loop's pending reads are resolved must not count.
func TestLoopUndefCheckIsTopLayerOnly(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse("def f() {\n global x;\n for (i in [1]) {\n  print(x);\n  x = 2;\n }\n}\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	sink := &diag.SliceSink{}

	a := duc.New(duc.WithSink(sink))
	if err := a.Visit(mod); err != nil {
		t.Fatalf("Visit() error = %v", err)
	}

	if len(sink.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %d, want 1: %+v", len(sink.Diagnostics), sink.Diagnostics)
	}

	if !strings.Contains(sink.Diagnostics[0].Message, `'x'`) {
		t.Errorf("Message = %q, want it to name x", sink.Diagnostics[0].Message)
	}
}
