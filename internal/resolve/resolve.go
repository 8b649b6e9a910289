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

package resolve

import "chainscope.dev/duc/internal/chain"

// WildcardName is the synthetic key under which star-imports and
// unrestricted exec install their "may have defined anything" binding.
const WildcardName = "*"

// Resolution is the outcome of a Lookup.
type Resolution struct {
	// Defs is the reaching set: any accumulated wildcard Defs followed by
	// the explicit binding's Defs, if Found.
	Defs []*chain.Def
	// Stars is the wildcard set accumulated along the walk, whether or
	// not an explicit binding was ultimately found.
	Stars []*chain.Def
	// Found reports whether a binding (explicit or wildcard-only) was
	// located.
	Found bool
	// ReadBeforeAssign reports the spec.md §4.3 step-3 failure: the name
	// is a precomputed local of a non-class innermost scope but is not
	// yet bound and no wildcard covers it. Distinguished from a plain
	// unbound lookup only for diagnostic wording.
	ReadBeforeAssign bool
	// FoundOuter reports whether the binding was found in an enclosing
	// frame rather than the innermost one — this is the "isglobal" flag
	// spec.md's class-scope rule asks the resolver to record.
	FoundOuter bool
}

// Lookup resolves name as used in Load context against stack, per the
// five-step algorithm in spec.md §4.3.
func Lookup(stack *Stack, name string) Resolution {
	// Step 1: a global declaration at any enclosing scope frame restricts
	// the search to the module scope's base layer only — not just a
	// declaration in the innermost frame. beniget's defs() checks
	// any(name in _globals for _globals in self._globals) across every
	// active frame (beniget.py:349): a name declared global in an outer
	// enclosing function is still restricted this way for a nested
	// function that never declares it global itself.
	for i := stack.Len() - 1; i >= 0; i-- {
		if stack.Frame(i).IsGlobal(name) {
			if defs, ok := stack.Module().Base()[name]; ok {
				return Resolution{Defs: defs, Found: true, FoundOuter: true}
			}

			return Resolution{}
		}
	}

	var stars []*chain.Def

	for i := stack.Len() - 1; i >= 0; i-- {
		frame := stack.Frame(i)
		isInnermost := i == stack.Len()-1

		// Step 2: class scopes are invisible to nested lookups, but not
		// when the class scope is itself the innermost frame.
		if !isInnermost && frame.IsClass {
			continue
		}

		found, defs, frameStars := searchFrame(frame, name)
		stars = chain.DedupAppend(stars, frameStars)

		if found {
			result := chain.DedupAppend(append([]*chain.Def{}, stars...), defs)

			return Resolution{Defs: result, Stars: stars, Found: true, FoundOuter: !isInnermost}
		}

		// Step 3: read-before-assign. Only the innermost frame's own
		// precomputed locals trigger this, and only when no wildcard
		// reached so far could be covering the name. A non-class frame
		// fails outright. A class-scope innermost frame gets the
		// documented escape hatch instead: it is permitted to fall
		// through to module globals specifically — not to whatever
		// enclosing function happens to bind the name — so it only
		// fails if the module frame itself neither binds name nor
		// carries a wildcard.
		if isInnermost && frame.Locals[name] && len(stars) == 0 {
			if !frame.IsClass {
				return Resolution{Stars: stars, ReadBeforeAssign: true}
			}

			if mfound, _, mstars := searchFrame(stack.Module(), name); !mfound && len(mstars) == 0 {
				return Resolution{Stars: stars, ReadBeforeAssign: true}
			}
		}
	}

	if len(stars) > 0 {
		return Resolution{Defs: stars, Stars: stars, Found: true}
	}

	return Resolution{}
}

// searchFrame walks f's layers from innermost (top) outward. A layer
// that itself binds name wins outright, without folding that same
// layer's own wildcard into stars — only wildcards from layers visited
// before name was found (i.e. layers nested inside the one that bound
// it) compose with the explicit binding. This matches beniget's defs():
// "if name in defs: return ...; if '*' in defs: stars.extend(...)" are
// mutually exclusive for a single dict.
func searchFrame(f *Frame, name string) (found bool, defs []*chain.Def, stars []*chain.Def) {
	for i := len(f.Layers) - 1; i >= 0; i-- {
		layerFound, layerDefs, layerStar := SearchLayer(f.Layers[i], name)
		if layerFound {
			return true, layerDefs, stars
		}

		stars = chain.DedupAppend(stars, layerStar)
	}

	return false, nil, stars
}

// SearchLayer checks a single layer for name, per the same name-before-
// wildcard mutual exclusivity searchFrame applies across a whole frame's
// layer stack. Exported for process_undefs-style single-layer checks
// (beniget.py:412-423's self._definitions[-1] lookup) that must not walk
// outward past the one layer in question.
func SearchLayer(layer Layer, name string) (found bool, defs []*chain.Def, stars []*chain.Def) {
	if d, ok := layer[name]; ok {
		return true, d, nil
	}

	if sw, ok := layer[WildcardName]; ok {
		return false, nil, sw
	}

	return false, nil, nil
}
