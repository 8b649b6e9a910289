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

package main

import "chainscope.dev/duc/internal/diag"

// collectingSink accumulates formatted diagnostic strings so the caller
// can attach the owning file's path before printing, since Diagnostic's
// own Filename field is set once per Analyzer rather than per message.
type collectingSink struct {
	messages []string
}

func (s *collectingSink) Report(d diag.Diagnostic) {
	s.messages = append(s.messages, d.String())
}
