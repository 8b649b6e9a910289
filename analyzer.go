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

// Package duc computes def-use and use-def chains for a parsed module of
// the dialect defined in package ast: a flow-sensitive name resolver with
// scope-stack management, reaching-definition propagation across
// branches/loops/try/with, deferred closure-body analysis, and
// diagnostics for statically detectable unbound names.
package duc

import (
	"fmt"

	"chainscope.dev/duc/ast"
	"chainscope.dev/duc/internal/chain"
	"chainscope.dev/duc/internal/config"
	"chainscope.dev/duc/internal/diag"
	"chainscope.dev/duc/internal/locals"
	"chainscope.dev/duc/internal/resolve"
)

// builtinNames seeds the module scope's base layer before analysis,
// matching spec.md §3's "builtins: fixed map from built-in name to
// synthetic Def."
var builtinNames = []string{
	"None", "True", "False", "NotImplemented", "Ellipsis",
	"print", "len", "range", "enumerate", "zip", "map", "filter", "sorted", "reversed",
	"int", "float", "bool", "str", "bytes", "list", "dict", "set", "frozenset", "tuple",
	"type", "isinstance", "issubclass", "super", "object", "property", "staticmethod", "classmethod",
	"iter", "next", "getattr", "setattr", "hasattr", "delattr",
	"open", "input", "repr", "format", "hash", "id", "vars", "dir",
	"min", "max", "sum", "abs", "round", "divmod", "pow",
	"Exception", "BaseException", "StopIteration", "ValueError", "TypeError", "KeyError",
	"IndexError", "AttributeError", "RuntimeError", "NotImplementedError", "StopAsyncIteration",
	"__name__", "__file__", "__doc__", "__class__", "__import__",
}

// Analyzer holds one module's accumulated analysis state. It is not safe
// for concurrent use on distinct modules (spec.md §5); build a separate
// Analyzer per module.
type Analyzer struct {
	*settings

	tables   *chain.Tables
	stack    *resolve.Stack
	undefs   resolve.UndefStack
	loops    resolve.LoopStack
	deferred []deferredBody
}

// deferredBody is one entry in the deferred-function queue (spec.md §3
// Lifecycle, §4.4 FunctionDef/Lambda): the body runs after module
// analysis against a snapshot of the stack taken at declaration time.
// The snapshot keeps the declaration-time frame and layer shape but
// shares the layer maps themselves, so bindings written into those
// layers after the declaration are visible, and forward references and
// mutual recursion resolve against them.
type deferredBody struct {
	scope      ast.Node
	params     *ast.Arguments
	stmts      []ast.Stmt // function body; nil for a lambda
	expr       ast.Expr   // lambda body; nil for a function
	snapshot   []resolve.FrameSnapshot
	localNames map[string]bool
}

// New returns an Analyzer configured by opts.
func New(opts ...Option) *Analyzer {
	s := defaultSettings()
	Options(opts).apply(s)

	return &Analyzer{
		settings: s,
		tables:   chain.NewTables(builtinNames),
	}
}

// Err returns the first diagnostic as an error when [WithStrictUnbound]
// was given; nil otherwise (or if no diagnostic has fired yet).
func (a *Analyzer) Err() error {
	if a.strictSink == nil {
		return nil
	}

	return a.strictSink.Err
}

// Chains returns the map from AST node to its Def, populated by Visit.
func (a *Analyzer) Chains() map[ast.Node]*chain.Def { return a.tables.Chains }

// Locals returns the ordered list of Defs introduced locally in scope.
func (a *Analyzer) Locals(scope ast.Node) []*chain.Def { return a.tables.Locals[scope] }

// DumpDefinitions returns the sorted list of local names in scope.
func (a *Analyzer) DumpDefinitions(scope ast.Node, ignoreBuiltins bool) []string {
	return a.tables.DumpDefinitions(scope, ignoreBuiltins)
}

// DumpChains returns one human-readable chain string per local Def in
// scope, in first-appearance order.
func (a *Analyzer) DumpChains(scope ast.Node) []string {
	return a.tables.DumpChains(scope)
}

// Visit analyzes mod, the sole entry point into the core (spec.md §6).
// Side effects only: inspect the result via Chains/Locals/DumpChains or
// by building an inverse chain with package usedef. The returned error
// is non-nil only for an internal invariant violation (spec.md §7); it
// is never returned for ordinary unbound-identifier diagnostics, which
// go to the configured Sink instead.
func (a *Analyzer) Visit(mod *ast.Module) error {
	a.stack = resolve.NewStack()
	a.deferred = nil

	modernComprehensions := a.dialect&config.ModernComprehensions != 0
	moduleLocals := locals.Collect(mod.Body, modernComprehensions)

	a.enterScope(mod, false, moduleLocals)
	a.seedBuiltins()
	a.visitBody(mod.Body)
	a.drainDeferred()
	a.exitScope()

	if !a.stack.Empty() {
		return fmt.Errorf("internal invariant violation: scope stack not empty after Visit")
	}

	return nil
}

func (a *Analyzer) seedBuiltins() {
	base := a.stack.Module().Base()
	for name, def := range a.tables.Builtins {
		base[name] = []*chain.Def{def}
	}
}

func (a *Analyzer) enterScope(scope ast.Node, isClass bool, precomputedLocals map[string]bool) *resolve.Frame {
	f := resolve.NewFrame(scope, isClass, precomputedLocals)
	a.stack.Push(f)

	return f
}

func (a *Analyzer) exitScope() *resolve.Frame { return a.stack.Pop() }

func (a *Analyzer) currentScope() ast.Node { return a.stack.Top().Scope }

func (a *Analyzer) modernComprehensions() bool {
	return a.dialect&config.ModernComprehensions != 0
}

func (a *Analyzer) legacyExec() bool {
	return a.dialect&config.LegacyExec != 0
}

func (a *Analyzer) report(node ast.Node, msg string) {
	pos := node.Pos()
	a.sink.Report(diag.Diagnostic{
		Message:  msg,
		Filename: a.filename,
		Pos:      diag.Position{Line: pos.Line, Column: pos.Column},
	})
}

// drainDeferred processes deferred function/lambda bodies in FIFO order,
// including ones appended while draining (nested function declarations
// inside an already-deferred body), per spec.md §5.
func (a *Analyzer) drainDeferred() {
	for i := 0; i < len(a.deferred); i++ {
		d := a.deferred[i]

		saved := a.stack
		a.stack = resolve.NewStack()
		undo := a.stack.Restore(d.snapshot)

		a.enterScope(d.scope, false, d.localNames)
		a.bindParams(d.params)

		if d.stmts != nil {
			a.visitBody(d.stmts)
		} else {
			a.visitExpr(d.expr)
		}

		a.exitScope()
		undo()
		a.stack = saved
	}
}
