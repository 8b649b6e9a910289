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

package diag_test

import (
	"strings"
	"testing"

	"chainscope.dev/duc/internal/diag"
)

func TestDiagnosticString(t *testing.T) {
	t.Parallel()

	d := diag.Diagnostic{
		Message:  diag.UnboundIdentifier("x"),
		Filename: "mod.duc",
		Pos:      diag.Position{Line: 3, Column: 0},
	}

	got := d.String()
	want := `W: unbound identifier 'x' at mod.duc:3:0`

	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDiagnosticStringUnknownFilename(t *testing.T) {
	t.Parallel()

	d := diag.Diagnostic{Message: diag.UnboundIdentifier("x")}

	if !strings.Contains(d.String(), "<unknown>") {
		t.Errorf("String() = %q, want <unknown> filename", d.String())
	}
}

func TestStrictSinkFailsOnFirst(t *testing.T) {
	t.Parallel()

	s := &diag.StrictSink{}
	s.Report(diag.Diagnostic{Message: diag.UnboundIdentifier("a")})
	s.Report(diag.Diagnostic{Message: diag.UnboundIdentifier("b")})

	if s.Err == nil {
		t.Fatal("Err = nil, want set after first Report")
	}

	if len(s.Diagnostics) != 2 {
		t.Errorf("len(Diagnostics) = %d, want 2 (both still recorded)", len(s.Diagnostics))
	}

	if !strings.Contains(s.Err.Error(), "a") {
		t.Errorf("Err = %v, want to reference the first diagnostic", s.Err)
	}
}

func TestSliceSinkAccumulates(t *testing.T) {
	t.Parallel()

	s := &diag.SliceSink{}
	s.Report(diag.Diagnostic{Message: "one"})
	s.Report(diag.Diagnostic{Message: "two"})

	if len(s.Diagnostics) != 2 {
		t.Errorf("len(Diagnostics) = %d, want 2", len(s.Diagnostics))
	}
}
