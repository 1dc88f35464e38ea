// This file is part of stationeers-mips - https://github.com/mutantbob/stationeers-mips-unittest
//
// Copyright 2020 Robert Forsman <thoth@purplefrog.com>
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

// Package vm interprets compiled Stationeers IC programs.
//
// A Machine holds the mutable CPU state: an instruction pointer, a
// fixed bank of float64 registers (18 by default, the last being the
// return-address register ra), alias and define tables, and a row of
// device slots (6 by default) plus the special device db. Device state
// is an opaque string-to-number field map installed from outside with
// AttachDevice; the machine never simulates the devices themselves.
//
// Programs come from the companion asm package. Operands stay symbolic
// until execution: an identifier may be an alias (to a register or a
// device), a define, or a label, and since aliases are themselves
// installed by running alias instructions, the binding can only be
// decided when the instruction executes.
//
// Run is the cooperative stepping boundary. A yield instruction sets a
// flag on the machine; Run reads and clears it between steps and stops
// once the requested number of yields has elapsed, at end of program,
// or when the per-invocation step budget (an anti-runaway rail, 99 by
// default) is spent. An external harness alternates Run with register
// and device inspection.
package vm
