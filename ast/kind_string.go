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

package ast

var kindNames = [...]string{
	// keep-sorted start newline_separated=yes
	KindInvalid: "Invalid",

	KindModule: "Module",

	KindAssign: "Assign",

	KindAugAssign: "AugAssign",

	KindAnnAssign: "AnnAssign",

	KindExprStmt: "ExprStmt",

	KindIf: "If",

	KindFor: "For",

	KindWhile: "While",

	KindBreak: "Break",

	KindContinue: "Continue",

	KindPass: "Pass",

	KindReturn: "Return",

	KindRaise: "Raise",

	KindDelete: "Delete",

	KindFunctionDef: "FunctionDef",

	KindClassDef: "ClassDef",

	KindTry: "Try",

	KindExceptHandler: "ExceptHandler",

	KindWith: "With",

	KindWithItem: "WithItem",

	KindImport: "Import",

	KindImportFrom: "ImportFrom",

	KindAlias: "alias",

	KindGlobal: "Global",

	KindNonlocal: "Nonlocal",

	KindExec: "Exec",

	KindName: "Name",

	KindConstant: "Constant",

	KindBoolOp: "BoolOp",

	KindBinOp: "BinOp",

	KindUnaryOp: "UnaryOp",

	KindIfExp: "IfExp",

	KindNamedExpr: "NamedExpr",

	KindDict: "Dict",

	KindSet: "Set",

	KindList: "List",

	KindTuple: "Tuple",

	KindStarred: "Starred",

	KindListComp: "ListComp",

	KindSetComp: "SetComp",

	KindDictComp: "DictComp",

	KindGeneratorExp: "GeneratorExp",

	KindComprehension: "comprehension",

	KindCall: "Call",

	KindKeyword: "keyword",

	KindAttribute: "Attribute",

	KindSubscript: "Subscript",

	KindSlice: "Slice",

	KindAwait: "Await",

	KindYield: "Yield",

	KindYieldFrom: "YieldFrom",

	KindLambda: "Lambda",

	KindArguments: "arguments",

	KindArg: "arg",
	// keep-sorted end
}

// String returns the reference implementation's node type name, used as the
// fallback display name for Defs without an identifier (Def.Name in the
// duc package).
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		if name := kindNames[k]; name != "" {
			return name
		}
	}

	return "Unknown"
}
