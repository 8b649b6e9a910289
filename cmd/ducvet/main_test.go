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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunReportsUnboundIdentifier(t *testing.T) {
	t.Parallel()

	path := writeTempSource(t, "print(missing)\n")

	var out bytes.Buffer
	if err := run(&out, []string{path}, "", false, false); err != nil {
		t.Fatalf("run() error = %v, want nil (unbound without --strict is not a failure)", err)
	}

	if !strings.Contains(out.String(), "unbound identifier") {
		t.Errorf("output = %q, want it to mention the unbound identifier", out.String())
	}
}

func TestRunStrictFailsOnUnbound(t *testing.T) {
	t.Parallel()

	path := writeTempSource(t, "print(missing)\n")

	var out bytes.Buffer
	if err := run(&out, []string{path}, "", true, false); err == nil {
		t.Fatal("run() error = nil, want non-nil under --strict")
	}
}

func TestRunReportsUnusedLocal(t *testing.T) {
	t.Parallel()

	path := writeTempSource(t, "def foo() { x = 1; return 2; }\n")

	var out bytes.Buffer
	if err := run(&out, []string{path}, "", false, false); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if !strings.Contains(out.String(), `local "x" is never used`) {
		t.Errorf("output = %q, want it to flag x as unused", out.String())
	}
}

func TestRunSkipsUnderscorePrefixedLocals(t *testing.T) {
	t.Parallel()

	path := writeTempSource(t, "def foo() { _x = 1; return 2; }\n")

	var out bytes.Buffer
	if err := run(&out, []string{path}, "", false, false); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if strings.Contains(out.String(), "_x") {
		t.Errorf("output = %q, want _-prefixed local to be skipped", out.String())
	}
}

func writeTempSource(t *testing.T, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "src.py")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	return path
}
