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

import "testing"

func mustOp(t *testing.T, opcode string, args ...string) Instruction {
	t.Helper()
	inst, err := NewOp(opcode, args)
	if err != nil {
		t.Fatal(err)
	}
	return inst
}

func TestStepBudget(t *testing.T) {
	// j 0 loops forever; the budget must stop it without an error
	code := []Instruction{mustOp(t, "j", "0")}
	steps := 0
	m, err := New(NewProgram(code, nil),
		StepBudget(7),
		Observer(func(*Machine) { steps++ }))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Run(1); err != nil {
		t.Fatal(err)
	}
	if steps != 7 {
		t.Errorf("executed %d steps, want 7", steps)
	}
}

func TestYieldThreshold(t *testing.T) {
	code := []Instruction{
		yield{}, yield{}, yield{}, yield{}, yield{},
	}
	m, err := New(NewProgram(code, nil))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Run(2); err != nil {
		t.Fatal(err)
	}
	if m.IP() != 2 {
		t.Errorf("IP = %d after 2 yields, want 2", m.IP())
	}
	// the flag was cleared; a further run counts fresh yields
	if err := m.Run(1); err != nil {
		t.Fatal(err)
	}
	if m.IP() != 3 {
		t.Errorf("IP = %d after 1 more yield, want 3", m.IP())
	}
}

func TestRunToEnd(t *testing.T) {
	code := []Instruction{Nop, Nop, Nop}
	m, err := New(NewProgram(code, nil))
	if err != nil {
		t.Fatal(err)
	}
	// no yield ever happens; end of program is a normal stop
	if err := m.Run(1); err != nil {
		t.Fatal(err)
	}
	if m.IP() != 3 {
		t.Errorf("IP = %d, want 3", m.IP())
	}
	// running a finished program is a no-op
	if err := m.Run(1); err != nil {
		t.Fatal(err)
	}
	if m.IP() != 3 {
		t.Errorf("IP = %d, want 3", m.IP())
	}
}

// straight-line instructions advance the IP by exactly one each
func TestStraightLineIPMonotonic(t *testing.T) {
	code := []Instruction{
		mustOp(t, "move", "r0", "1"),
		mustOp(t, "add", "r1", "r0", "2"),
		mustOp(t, "abs", "r2", "r1"),
		mustOp(t, "select", "r3", "r0", "r1", "r2"),
		mustOp(t, "define", "x", "5"),
		mustOp(t, "alias", "y", "r4"),
		Nop,
	}
	var ips []int
	m, err := New(NewProgram(code, nil), Observer(func(m *Machine) {
		ips = append(ips, m.IP())
	}))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Run(1); err != nil {
		t.Fatal(err)
	}
	for i, ip := range ips {
		if ip != i+1 {
			t.Fatalf("after step %d IP = %d, want %d", i, ip, i+1)
		}
	}
	if len(ips) != len(code) {
		t.Errorf("observed %d steps, want %d", len(ips), len(code))
	}
}

func TestRunErrorLeavesIP(t *testing.T) {
	code := []Instruction{
		Nop,
		mustOp(t, "move", "r200", "1"),
	}
	m, err := New(NewProgram(code, nil))
	if err != nil {
		t.Fatal(err)
	}
	err = m.Run(1)
	if err == nil {
		t.Fatal("expected an execution error for r200")
	}
	if m.IP() != 1 {
		t.Errorf("IP = %d after fault, want 1 (the faulting instruction)", m.IP())
	}
}

func TestAndLinkUntakenLeavesRA(t *testing.T) {
	code := []Instruction{
		mustOp(t, "move", "r0", "1"),
		mustOp(t, "beqal", "r0", "2", "0"),
	}
	m, err := New(NewProgram(code, nil))
	if err != nil {
		t.Fatal(err)
	}
	m.registers[len(m.registers)-1] = 77
	if err := m.Run(1); err != nil {
		t.Fatal(err)
	}
	if m.RA() != 77 {
		t.Errorf("ra = %v, untaken and-link branch must not touch it", m.RA())
	}
}
