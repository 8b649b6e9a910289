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

// Package parse implements a recursive-descent parser for the brace-and-
// semicolon concrete syntax accepted as input to the def-use analyzer. It
// is a front end, not part of the core analyzer: Analyzer.Visit accepts
// any ast.Node, however it was built.
package parse

import (
	"fmt"

	"chainscope.dev/duc/ast"
)

// Error is a single parse failure with its source position.
type Error struct {
	Pos ast.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// parseAbort is the panic value used to unwind the recursive-descent call
// stack back to Parse on the first syntax error, the same technique
// go/parser and text/template use internally to avoid threading an error
// return through every production.
type parseAbort struct{ err *Error }
