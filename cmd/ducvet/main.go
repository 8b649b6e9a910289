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

// Command ducvet is the CLI driver for package duc (spec.md §6's "CLI
// surface"): it parses one or more source files, runs the analyzer over
// each, and reports unbound-identifier diagnostics from the core plus
// defined-but-unused locals computed by this driver — an external
// collaborator, never part of the core itself.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"chainscope.dev/duc"
	"chainscope.dev/duc/internal/config"
	"chainscope.dev/duc/parse"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		strict     bool
		legacy     bool
	)

	cmd := &cobra.Command{
		Use:   "ducvet [files...]",
		Short: "Report unbound identifiers and unused locals",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), args, configPath, strict, legacy)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to a YAML skip-list config")
	flags.BoolVar(&strict, "strict", false, "exit non-zero if any unbound identifier is reported")
	flags.BoolVar(&legacy, "legacy", false, "analyze under the legacy dialect (leaking comprehension targets)")

	return cmd
}

// fileResult is one file's complete analysis output, kept together so
// results can be printed in argument order regardless of which
// goroutine finished first (spec.md's ambient CLI: "results are printed
// in argument order regardless of completion order").
type fileResult struct {
	path        string
	diagnostics []string
	unused      []string
	err         error
}

func run(out io.Writer, paths []string, configPath string, strict, legacy bool) error {
	skip, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("ducvet: %w", err)
	}

	dialect := config.Default
	if legacy {
		dialect &^= config.ModernComprehensions
	}

	results := make([]fileResult, len(paths))

	var group errgroup.Group
	for i, path := range paths {
		group.Go(func() error {
			results[i] = analyzeFile(path, dialect, skip)

			return nil
		})
	}

	_ = group.Wait() // analyzeFile never returns an error through the group itself

	diagnosed := false
	failed := false

	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(out, "%s: %v\n", r.path, r.err)

			failed = true

			continue
		}

		for _, d := range r.diagnostics {
			fmt.Fprintf(out, "%s: %s\n", r.path, d)

			diagnosed = true
		}

		for _, u := range r.unused {
			fmt.Fprintf(out, "%s: %s\n", r.path, u)
		}
	}

	if failed || (strict && diagnosed) {
		return fmt.Errorf("ducvet: analysis reported failures")
	}

	return nil
}

// analyzeFile parses and analyzes one file, tagging the run with a fresh
// trace ID (github.com/google/uuid) for log correlation across the
// concurrent fan-out (golang.org/x/sync/errgroup), per SPEC_FULL.md's
// restoration of the reference __main__ block's multi-file behavior.
func analyzeFile(path string, dialect config.Dialect, skip config.LintSkip) fileResult {
	traceID := uuid.NewString()
	slog.Default().With("trace_id", traceID, "file", path).Debug("analyzing")

	src, err := os.ReadFile(path)
	if err != nil {
		return fileResult{path: path, err: err}
	}

	mod, err := parse.Parse(string(src))
	if err != nil {
		return fileResult{path: path, err: err}
	}

	sink := &collectingSink{}

	analyzer := duc.New(
		duc.WithFilename(path),
		duc.WithDialect(dialect),
		duc.WithTraceID(traceID),
		duc.WithSink(sink),
	)

	if err := analyzer.Visit(mod); err != nil {
		return fileResult{path: path, err: err}
	}

	return fileResult{
		path:        path,
		diagnostics: sink.messages,
		unused:      unusedLocals(mod, analyzer, skip),
	}
}
