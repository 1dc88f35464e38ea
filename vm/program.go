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

package vm

// Program is a compiled instruction sequence plus its label table.
// Programs are immutable once assembled; any number of Machines may
// execute the same Program.
type Program struct {
	code   []Instruction
	labels map[string]int
}

// NewProgram builds a Program from an instruction sequence and a
// label table mapping label name to instruction index.
func NewProgram(code []Instruction, labels map[string]int) *Program {
	if labels == nil {
		labels = make(map[string]int)
	}
	return &Program{code: code, labels: labels}
}

// Len returns the number of instructions.
func (p *Program) Len() int { return len(p.code) }

// Labels returns a copy of the label table.
func (p *Program) Labels() map[string]int {
	labels := make(map[string]int, len(p.labels))
	for name, ip := range p.labels {
		labels[name] = ip
	}
	return labels
}
