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
	"chainscope.dev/duc/ast"
	"chainscope.dev/duc/internal/chain"
	"chainscope.dev/duc/internal/diag"
)

func (a *Analyzer) visitBody(stmts []ast.Stmt) {
	for _, s := range stmts {
		a.visitStmt(s)
	}
}

//nolint:gocyclo // one branch per statement kind, matches spec.md §4.4.
func (a *Analyzer) visitStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Assign:
		a.visitAssign(s)
	case *ast.AugAssign:
		a.visitAugAssign(s)
	case *ast.AnnAssign:
		a.visitAnnAssign(s)
	case *ast.ExprStmt:
		a.visitExpr(s.X)
	case *ast.If:
		a.visitIf(s)
	case *ast.For:
		a.visitFor(s)
	case *ast.While:
		a.visitWhile(s)
	case *ast.Break:
		a.visitBreak(s)
	case *ast.Continue:
		a.visitContinue(s)
	case *ast.Pass:
		// no-op
	case *ast.Return:
		a.visitExpr(s.Value)
	case *ast.Raise:
		a.visitExpr(s.Exc)
		a.visitExpr(s.Cause)
		a.stack.Top().EnterDeadcode()
	case *ast.Delete:
		for _, t := range s.Targets {
			a.visitExpr(t)
		}
	case *ast.FunctionDef:
		a.visitFunctionDef(s)
	case *ast.ClassDef:
		a.visitClassDef(s)
	case *ast.Try:
		a.visitTry(s)
	case *ast.With:
		a.visitWith(s)
	case *ast.Import:
		a.visitImport(s)
	case *ast.ImportFrom:
		a.visitImportFrom(s)
	case *ast.Global:
		a.visitGlobal(s)
	case *ast.Nonlocal:
		a.visitNonlocal(s)
	case *ast.Exec:
		a.visitExec(s)
	}
}

// visitAssign matches beniget's visit_Assign: the link from value to
// target is implicit through evaluation order, not an explicit Def edge
// — only NamedExpr, AnnAssign, and AugAssign record one.
func (a *Analyzer) visitAssign(s *ast.Assign) {
	a.visitExpr(s.Value)

	for _, t := range s.Targets {
		a.assignTarget(t)
	}
}

// visitAugAssign implements spec.md §4.4's AugAssign rule, including the
// documented Name-vs-attribute/subscript asymmetry (Design Notes §9):
// for a Name target, the target AST node's own Def does double duty as
// both the implicit pre-read of the prior value (resolveName already
// links every reaching Def as its producer) and the new store — there
// is no separate store Def, matching the original's single dtarget
// object reused for both roles. For an attribute or subscript target
// there is no read-then-store at all — the target expression's own Def
// is simply linked as a consumer of the RHS value.
func (a *Analyzer) visitAugAssign(s *ast.AugAssign) {
	valueDef := a.visitExpr(s.Value)

	name, ok := s.Target.(*ast.Name)
	if !ok {
		targetDef := a.visitExpr(s.Target)
		link(valueDef, targetDef)

		return
	}

	dtarget, stars := a.resolveName(name.Id, name)
	link(valueDef, dtarget)
	a.storeName(name.Id, dtarget)

	if len(stars) > 0 {
		// No prior explicit binding existed for this name (only a
		// wildcard did): the augmented-assign store becomes the
		// canonical local definition, per spec.md §4.4.
		a.tables.AddLocal(a.currentScope(), dtarget)
	}
}

// visitAnnAssign matches beniget's visit_AnnAssign: value (if any) and
// annotation are evaluated before the target is bound; the target is
// linked as a user of the annotation, and the value as a producer of
// the target — reversed from the target-of-annotation direction.
func (a *Analyzer) visitAnnAssign(s *ast.AnnAssign) {
	var valueDef *chain.Def
	if s.Value != nil {
		valueDef = a.visitExpr(s.Value)
	}

	annDef := a.visitExpr(s.Annotation)
	targetDef := a.visitExpr(s.Target)

	link(targetDef, annDef)
	link(valueDef, targetDef)
}

func (a *Analyzer) visitBreak(s *ast.Break) {
	top := a.stack.Top()
	if carrier := a.loops.Top(); carrier != nil {
		carrier.DrainBreak(top)
	}

	top.EnterDeadcode()
}

func (a *Analyzer) visitContinue(s *ast.Continue) {
	top := a.stack.Top()
	if carrier := a.loops.Top(); carrier != nil {
		carrier.DrainContinue(top)
	}

	top.EnterDeadcode()
}

func (a *Analyzer) visitGlobal(s *ast.Global) {
	for _, name := range s.Names {
		a.stack.Top().DeclareGlobal(name)
	}
}

// visitNonlocal scans enclosing frames outward for an existing binding
// and aliases it into the current top layer; if none is found, reports
// unbound (spec.md §4.4, §7's "Nonlocal target missing").
func (a *Analyzer) visitNonlocal(s *ast.Nonlocal) {
	for _, name := range s.Names {
		found := false

		for i := a.stack.Len() - 2; i >= 0; i-- {
			frame := a.stack.Frame(i)
			if frame.IsClass {
				continue
			}

			for li := len(frame.Layers) - 1; li >= 0; li-- {
				if defs, ok := frame.Layers[li][name]; ok {
					a.stack.Top().SetDefinition(name, defs)
					found = true

					break
				}
			}

			if found {
				break
			}
		}

		if !found {
			a.report(s, diag.NonlocalTargetMissing(name))
		}
	}
}
