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

package locals_test

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chainscope.dev/duc/ast"
	"chainscope.dev/duc/internal/locals"
	"chainscope.dev/duc/parse"
)

func names(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for n := range m {
		out = append(out, n)
	}

	sort.Strings(out)

	return out
}

func TestCollectSimple(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse(`
a = 1;
def f() { pass; }
class C { pass; }
import os.path as p, sys;
from pkg import x as y, z;
`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := names(locals.Collect(mod.Body, true))
	want := []string{"a", "f", "C", "p", "sys", "y", "z"}
	sort.Strings(want)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Collect() mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectGlobalExcluded(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse(`
def f() {
	global counter;
	counter = counter + 1;
	local = 1;
}
`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	fn := mod.Body[0].(*ast.FunctionDef)

	got := names(locals.Collect(fn.Body, true))
	want := []string{"local"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Collect() mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectFunctionBodyNotDescended(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse(`
def outer() {
	x = 1;
	def inner() {
		y = 2;
	}
}
`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	outer := mod.Body[0].(*ast.FunctionDef)

	got := names(locals.Collect(outer.Body, true))
	want := []string{"inner", "x"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Collect() mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectWalrusAlwaysBinds(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse("while (chunk := read()) { use(chunk); }")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := locals.Collect(mod.Body, true)
	if !got["chunk"] {
		t.Errorf("Collect() = %v, want chunk bound via walrus", names(got))
	}
}

func TestCollectLegacyComprehensionLeaks(t *testing.T) {
	t.Parallel()

	mod, err := parse.Parse("ys = [x for x in xs];")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	legacy := locals.Collect(mod.Body, false)
	if !legacy["x"] {
		t.Errorf("legacy Collect() = %v, want x leaked from comprehension", names(legacy))
	}

	modern := locals.Collect(mod.Body, true)
	if modern["x"] {
		t.Errorf("modern Collect() = %v, want x NOT leaked from comprehension", names(modern))
	}
}
