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

package resolve_test

import (
	"testing"

	"chainscope.dev/duc/ast"
	"chainscope.dev/duc/internal/chain"
	"chainscope.dev/duc/internal/resolve"
)

func TestLookupInnermostBinding(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{}
	stack := resolve.NewStack()
	stack.Push(resolve.NewFrame(mod, false, nil))

	def := chain.New(&ast.Name{Id: "a"})
	stack.Top().SetDefinition("a", []*chain.Def{def})

	res := resolve.Lookup(stack, "a")
	if !res.Found || len(res.Defs) != 1 || res.Defs[0] != def {
		t.Fatalf("Lookup() = %+v, want a single match on def", res)
	}
}

func TestLookupClassScopeSkippedWhenOuter(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{}
	classNode := &ast.ClassDef{Name: "C"}
	fnNode := &ast.FunctionDef{Name: "method"}

	stack := resolve.NewStack()
	stack.Push(resolve.NewFrame(mod, false, nil))

	classFrame := resolve.NewFrame(classNode, true, nil)
	classFrame.SetDefinition("x", []*chain.Def{chain.New(&ast.Name{Id: "x"})})
	stack.Push(classFrame)

	stack.Push(resolve.NewFrame(fnNode, false, map[string]bool{}))

	res := resolve.Lookup(stack, "x")
	if res.Found {
		t.Errorf("Lookup() found %+v, want unbound: class scope must be invisible to a nested function", res)
	}
}

func TestLookupClassScopeVisibleWhenInnermost(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{}
	classNode := &ast.ClassDef{Name: "C"}

	stack := resolve.NewStack()
	stack.Push(resolve.NewFrame(mod, false, nil))

	classFrame := resolve.NewFrame(classNode, true, map[string]bool{"x": true})
	def := chain.New(&ast.Name{Id: "x"})
	classFrame.SetDefinition("x", []*chain.Def{def})
	stack.Push(classFrame)

	res := resolve.Lookup(stack, "x")
	if !res.Found || res.Defs[0] != def {
		t.Fatalf("Lookup() = %+v, want the class's own binding", res)
	}
}

func TestLookupClassScopeFallsThroughToModule(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{}
	classNode := &ast.ClassDef{Name: "C"}

	stack := resolve.NewStack()
	moduleFrame := resolve.NewFrame(mod, false, nil)
	moduleDef := chain.New(&ast.Name{Id: "x"})
	moduleFrame.SetDefinition("x", []*chain.Def{moduleDef})
	stack.Push(moduleFrame)

	// x is a precomputed local of the class body (it is assigned later),
	// but has not yet been bound when looked up — module globals must
	// still be reachable at class scope, unlike a function scope.
	classFrame := resolve.NewFrame(classNode, true, map[string]bool{"x": true})
	stack.Push(classFrame)

	res := resolve.Lookup(stack, "x")
	if !res.Found || !res.FoundOuter || res.Defs[0] != moduleDef {
		t.Fatalf("Lookup() = %+v, want fallthrough to the module binding", res)
	}
}

func TestLookupReadBeforeAssignInFunction(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{}
	fnNode := &ast.FunctionDef{Name: "f"}

	stack := resolve.NewStack()
	moduleFrame := resolve.NewFrame(mod, false, nil)
	moduleFrame.SetDefinition("x", []*chain.Def{chain.New(&ast.Name{Id: "x"})})
	stack.Push(moduleFrame)

	// x is module-global, but f has its own (not-yet-reached) local x, so
	// the read must fail rather than silently falling back to the module.
	stack.Push(resolve.NewFrame(fnNode, false, map[string]bool{"x": true}))

	res := resolve.Lookup(stack, "x")
	if res.Found || !res.ReadBeforeAssign {
		t.Fatalf("Lookup() = %+v, want ReadBeforeAssign, not a module fallback", res)
	}
}

func TestLookupGlobalDeclarationRestrictsToModuleBase(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{}
	fnNode := &ast.FunctionDef{Name: "f"}

	stack := resolve.NewStack()
	moduleFrame := resolve.NewFrame(mod, false, nil)
	moduleDef := chain.New(&ast.Name{Id: "counter"})
	moduleFrame.Base()["counter"] = []*chain.Def{moduleDef}
	stack.Push(moduleFrame)

	fnFrame := resolve.NewFrame(fnNode, false, map[string]bool{})
	fnFrame.DeclareGlobal("counter")
	// A stale same-named local layer entry must be ignored once declared global.
	fnFrame.SetDefinition("counter", []*chain.Def{chain.New(&ast.Name{Id: "counter"})})
	stack.Push(fnFrame)

	res := resolve.Lookup(stack, "counter")
	if !res.Found || res.Defs[0] != moduleDef {
		t.Fatalf("Lookup() = %+v, want the module base binding only", res)
	}
}

func TestLookupGlobalDeclarationInEnclosingFrameRestrictsNestedLookup(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{}
	outerFn := &ast.FunctionDef{Name: "outer"}
	innerFn := &ast.FunctionDef{Name: "inner"}

	stack := resolve.NewStack()
	moduleFrame := resolve.NewFrame(mod, false, nil)
	moduleDef := chain.New(&ast.Name{Id: "counter"})
	moduleFrame.Base()["counter"] = []*chain.Def{moduleDef}
	stack.Push(moduleFrame)

	// outer declares counter global but does not itself read or bind it.
	outerFrame := resolve.NewFrame(outerFn, false, map[string]bool{})
	outerFrame.DeclareGlobal("counter")
	stack.Push(outerFrame)

	// inner never declares counter global itself, and has its own
	// same-named local layer entry that must still be ignored: beniget's
	// defs() checks any(name in _globals for _globals in self._globals)
	// across every active frame, not just the innermost one.
	innerFrame := resolve.NewFrame(innerFn, false, map[string]bool{})
	innerFrame.SetDefinition("counter", []*chain.Def{chain.New(&ast.Name{Id: "counter"})})
	stack.Push(innerFrame)

	res := resolve.Lookup(stack, "counter")
	if !res.Found || res.Defs[0] != moduleDef {
		t.Fatalf("Lookup() = %+v, want the module base binding via the outer frame's global declaration", res)
	}
}

func TestLookupWildcardComposesAdditively(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{}
	stack := resolve.NewStack()
	frame := resolve.NewFrame(mod, false, nil)

	// The wildcard sits in a layer nested inside the one that binds cos;
	// a wildcard in the binding's own layer would not compose.
	def := chain.New(&ast.Name{Id: "cos"})
	frame.SetDefinition("cos", []*chain.Def{def})

	frame.PushEmpty()

	star := chain.NewSynthetic("*")
	frame.SetDefinition(resolve.WildcardName, []*chain.Def{star})
	stack.Push(frame)

	res := resolve.Lookup(stack, "cos")
	if !res.Found || len(res.Defs) != 2 || res.Defs[0] != star || res.Defs[1] != def {
		t.Fatalf("Lookup() = %+v, want [star, explicit] with the explicit binding still winning", res)
	}
}

func TestLookupUnboundReturnsNotFound(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{}
	stack := resolve.NewStack()
	stack.Push(resolve.NewFrame(mod, false, nil))

	res := resolve.Lookup(stack, "nope")
	if res.Found || res.ReadBeforeAssign {
		t.Fatalf("Lookup() = %+v, want plain unbound", res)
	}
}

func TestFrameDeadcodeSuppressesWrites(t *testing.T) {
	t.Parallel()

	f := resolve.NewFrame(&ast.Module{}, false, nil)
	f.EnterDeadcode()
	f.SetDefinition("a", []*chain.Def{chain.New(&ast.Name{Id: "a"})})

	if _, ok := f.Top()["a"]; ok {
		t.Error("SetDefinition wrote through dead code, want suppressed")
	}

	f.ExitDeadcode()
	f.SetDefinition("a", []*chain.Def{chain.New(&ast.Name{Id: "a"})})

	if _, ok := f.Top()["a"]; !ok {
		t.Error("SetDefinition after ExitDeadcode was suppressed, want written")
	}
}

func TestStackSnapshotSharesFramePointers(t *testing.T) {
	t.Parallel()

	stack := resolve.NewStack()
	moduleFrame := resolve.NewFrame(&ast.Module{}, false, nil)
	stack.Push(moduleFrame)

	snap := stack.Snapshot()

	// Mutate the live frame after the snapshot was taken.
	def := chain.New(&ast.Name{Id: "late"})
	moduleFrame.SetDefinition("late", []*chain.Def{def})

	other := resolve.NewStack()
	other.Restore(snap)

	res := resolve.Lookup(other, "late")
	if !res.Found || res.Defs[0] != def {
		t.Fatalf("restored snapshot did not observe the post-snapshot mutation: %+v", res)
	}
}
