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

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dialect selects the source-dialect-version-sensitive behaviors named
// in spec.md's Design Notes: whether comprehensions introduce their own
// scope, and whether the legacy bare exec construct is recognized.
type Dialect uint8

const (
	// ModernComprehensions gives list/set/dict/generator comprehensions
	// their own scope (v3 semantics); unset, comprehension targets leak
	// into the enclosing scope, matching the legacy dialect.
	ModernComprehensions Dialect = 1 << iota

	// LegacyExec recognizes the bare `exec` statement and installs a
	// wildcard definition for it, per spec.md §4.4.
	LegacyExec
)

// Default is the dialect this module's CLI analyzes by default: modern
// comprehension scoping, legacy exec retained for compatibility with
// older sources.
const Default = ModernComprehensions | LegacyExec

// LintSkip holds the unused-name linter's configurable skip rules,
// loaded from an optional YAML file alongside the CLI flags (spec.md §6's
// CLI surface: "skipping names beginning with `_`, `__future__` imports,
// and types passed via an optional skip-set").
type LintSkip struct {
	// Names lists identifiers never flagged as unused, regardless of
	// convention (e.g. names required by a plugin ABI).
	Names []string `yaml:"names"`
	// ImportPrefixes lists module path prefixes whose imports are never
	// flagged as unused (e.g. packages imported solely for side effects).
	ImportPrefixes []string `yaml:"import_prefixes"`
}

// Load reads a LintSkip from a YAML file at path. A missing file is not
// an error — callers get a zero-value LintSkip, equivalent to no
// additional skips configured.
func Load(path string) (LintSkip, error) {
	var skip LintSkip

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return skip, nil
		}

		return skip, fmt.Errorf("read lint config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &skip); err != nil {
		return skip, fmt.Errorf("parse lint config %s: %w", path, err)
	}

	return skip, nil
}

// Skips reports whether name should be exempted from the unused-name
// linter under the built-in conventions plus this LintSkip's additions.
func (s LintSkip) Skips(name string) bool {
	if name == "" || name == "_" || (len(name) > 0 && name[0] == '_') {
		return true
	}

	for _, n := range s.Names {
		if n == name {
			return true
		}
	}

	return false
}

// SkipsImport reports whether modulePath should be exempted from the
// unused-import linter, either because it is the dialect's `__future__`
// pseudo-module or because it matches a configured prefix.
func (s LintSkip) SkipsImport(modulePath string) bool {
	if modulePath == "__future__" {
		return true
	}

	for _, prefix := range s.ImportPrefixes {
		if len(modulePath) >= len(prefix) && modulePath[:len(prefix)] == prefix {
			return true
		}
	}

	return false
}
