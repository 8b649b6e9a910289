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

// Package diag defines the analyzer's pluggable diagnostic sink
// (spec.md §4.6, §6, §7). The core never decides how a diagnostic is
// surfaced — it only ever calls Sink.Report — so the CLI driver can wire
// a log/slog-backed sink while tests wire a strict sink that turns the
// first diagnostic into a returned error.
package diag

import (
	"fmt"
	"log/slog"
)

// Position is the minimal source-location shape a Diagnostic needs;
// satisfied by ast.Position without importing package ast here.
type Position struct {
	Line   int
	Column int
}

// Diagnostic is one analyzer-detected, recoverable error (spec.md §7):
// unbound identifier, invalid local read, or missing nonlocal target.
type Diagnostic struct {
	Message  string
	Filename string
	Pos      Position
}

// String renders d in the wire format from spec.md §6:
// "W: unbound identifier '<name>' at <filename>:<line>:<col>".
func (d Diagnostic) String() string {
	filename := d.Filename
	if filename == "" {
		filename = "<unknown>"
	}

	return fmt.Sprintf("%s at %s:%d:%d", d.Message, filename, d.Pos.Line, d.Pos.Column)
}

// UnboundIdentifier formats the message half of a Diagnostic for an
// unresolved Load-context name use.
func UnboundIdentifier(name string) string {
	return fmt.Sprintf("W: unbound identifier '%s'", name)
}

// NonlocalTargetMissing formats the message for a nonlocal statement
// whose name has no binding in any enclosing scope.
func NonlocalTargetMissing(name string) string {
	return fmt.Sprintf("W: no binding for nonlocal %q", name)
}

// Sink receives diagnostics as the walker produces them, in source order
// within a top-level statement (spec.md §4.6 does not mandate a strict
// global order across statements).
type Sink interface {
	Report(Diagnostic)
}

// SliceSink accumulates every reported Diagnostic in order — the
// Analyzer's default sink, and the sink for tests that want to inspect
// the full set rather than fail on the first.
type SliceSink struct {
	Diagnostics []Diagnostic
}

// Report appends d.
func (s *SliceSink) Report(d Diagnostic) { s.Diagnostics = append(s.Diagnostics, d) }

// StrictSink turns the first reported Diagnostic into Err, matching
// spec.md §6's "overridable hook ... implementations may raise to fail
// strictly (used in tests)." Subsequent diagnostics after the first are
// still accumulated in Diagnostics for inspection.
type StrictSink struct {
	Err         error
	Diagnostics []Diagnostic
}

// Report records d and, if this is the first Diagnostic seen, sets Err.
func (s *StrictSink) Report(d Diagnostic) {
	s.Diagnostics = append(s.Diagnostics, d)

	if s.Err == nil {
		s.Err = fmt.Errorf("%s", d.String())
	}
}

// LogSink writes each Diagnostic to a *slog.Logger at warn level, the
// sink that duc.WithLogger installs. TraceID, when non-empty, is attached to every
// record so concurrent per-file analyses can be correlated in logs.
type LogSink struct {
	Logger  *slog.Logger
	TraceID string
}

// Report logs d.
func (s *LogSink) Report(d Diagnostic) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := []any{
		slog.String("filename", orUnknown(d.Filename)),
		slog.Int("line", d.Pos.Line),
		slog.Int("column", d.Pos.Column),
	}

	if s.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", s.TraceID))
	}

	logger.Warn(d.Message, attrs...)
}

func orUnknown(filename string) string {
	if filename == "" {
		return "<unknown>"
	}

	return filename
}
