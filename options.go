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

package duc

import (
	"log/slog"

	"chainscope.dev/duc/internal/config"
	"chainscope.dev/duc/internal/diag"
)

// settings holds the resolved configuration an [Option] list produces.
type settings struct {
	filename   string
	dialect    config.Dialect
	sink       diag.Sink
	strictSink *diag.StrictSink
	logger     *slog.Logger
	traceID    string
}

func defaultSettings() *settings {
	return &settings{
		dialect: config.Default,
		sink:    &diag.SliceSink{},
	}
}

// Option configures a [New] Analyzer.
type Option interface {
	apply(s *settings)
	logAttr() slog.Attr
}

// Options is a list of [Option] values that itself satisfies [Option], so
// a caller can pass around and log a bundle of options as one unit.
type Options []Option

// LogValue implements [slog.LogValuer], following the teacher's
// analyzer.Options pattern of threading configuration into structured
// log records rather than stringifying it ad hoc.
func (o Options) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(o))
	for _, opt := range o {
		attrs = append(attrs, opt.logAttr())
	}

	return slog.GroupValue(attrs...)
}

func (o Options) apply(s *settings) {
	for _, opt := range o {
		opt.apply(s)
	}
}

func (o Options) logAttr() slog.Attr {
	return slog.Any("options", o)
}

// WithFilename sets the filename reported in diagnostics; defaults to
// "<unknown>".
func WithFilename(name string) Option { return filenameOption{name} }

type filenameOption struct{ name string }

func (o filenameOption) apply(s *settings)  { s.filename = o.name }
func (o filenameOption) logAttr() slog.Attr { return slog.String("filename", o.name) }

// WithDialect selects the dialect-version-sensitive behaviors from
// spec.md's Design Notes (comprehension scoping, legacy exec).
func WithDialect(d config.Dialect) Option { return dialectOption{d} }

type dialectOption struct{ dialect config.Dialect }

func (o dialectOption) apply(s *settings)  { s.dialect = o.dialect }
func (o dialectOption) logAttr() slog.Attr { return slog.Any("dialect", o.dialect) }

// WithSink overrides the default accumulating [diag.SliceSink].
func WithSink(sink diag.Sink) Option { return sinkOption{sink} }

type sinkOption struct{ sink diag.Sink }

func (o sinkOption) apply(s *settings)  { s.sink = o.sink }
func (o sinkOption) logAttr() slog.Attr { return slog.String("sink", "custom") }

// WithStrictUnbound makes the first reported diagnostic retrievable as an
// error via [Analyzer.Err], matching spec.md §6's "overridable hook ...
// implementations may raise to fail strictly (used in tests)."
func WithStrictUnbound() Option { return strictOption{} }

type strictOption struct{}

func (strictOption) apply(s *settings) {
	strict := &diag.StrictSink{}
	s.strictSink = strict
	s.sink = strict
}

func (strictOption) logAttr() slog.Attr { return slog.Bool("strictUnbound", true) }

// WithLogger attaches a structured logger and replaces the configured
// Sink with a [diag.LogSink] built from it, so diagnostics are logged
// through this logger; a sink set by an earlier option is discarded.
func WithLogger(logger *slog.Logger) Option { return loggerOption{logger} }

type loggerOption struct{ logger *slog.Logger }

func (o loggerOption) apply(s *settings) {
	s.logger = o.logger
	s.sink = &diag.LogSink{Logger: o.logger, TraceID: s.traceID}
}

func (o loggerOption) logAttr() slog.Attr { return slog.Bool("logger", o.logger != nil) }

// WithTraceID attaches a correlation ID (the CLI driver generates one per
// run with github.com/google/uuid) to every diagnostic emitted through a
// [diag.LogSink].
func WithTraceID(id string) Option { return traceIDOption{id} }

type traceIDOption struct{ id string }

func (o traceIDOption) apply(s *settings) {
	s.traceID = o.id

	if ls, ok := s.sink.(*diag.LogSink); ok {
		ls.TraceID = o.id
	}
}

func (o traceIDOption) logAttr() slog.Attr { return slog.String("traceID", o.id) }
