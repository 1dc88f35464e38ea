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

import "github.com/pkg/errors"

// Run advances the machine until minYields yield instructions have
// executed, the instruction pointer runs past the end of the program,
// or the per-invocation step budget is exhausted. Running past the end
// and running out of budget are both normal returns; only a faulting
// instruction produces an error, with the machine left as the partial
// step left it.
//
// The yield flag is read and cleared here, between steps: the
// instruction marks the suspension point, the executor decides whether
// to stop.
func (m *Machine) Run(minYields int) error {
	yields := 0
	for steps := 0; steps < m.stepBudget; steps++ {
		if m.ip >= m.prog.Len() {
			return nil
		}
		inst := m.prog.code[m.ip]
		if err := inst.Execute(m); err != nil {
			return errors.Wrapf(err, "ip=%d", m.ip)
		}
		if m.observer != nil {
			m.observer(m)
		}
		if m.resetYield() {
			yields++
			if yields >= minYields {
				return nil
			}
		}
	}
	return nil
}
