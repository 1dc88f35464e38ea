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

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/pkg/errors"
)

// DeviceState is the field map of one attached device.
type DeviceState map[string]float64

const (
	defaultRegisters  = 18
	defaultDevices    = 6
	defaultStepBudget = 99
)

// Option configures a Machine during New.
type Option func(*Machine) error

// RegisterCount sets the number of register slots. The last slot is
// always the return-address register ra.
func RegisterCount(n int) Option {
	return func(m *Machine) error {
		if n < 1 {
			return errors.Errorf("register count %d too small", n)
		}
		m.registers = nanSlice(n)
		return nil
	}
}

// DeviceCount sets the number of regular device slots. The special
// device db is not counted.
func DeviceCount(n int) Option {
	return func(m *Machine) error {
		if n < 0 {
			return errors.Errorf("bad device count %d", n)
		}
		m.devices = make([]DeviceState, n)
		return nil
	}
}

// Alias pre-installs a name binding, as if an alias instruction had
// already run.
func Alias(name string, target RegisterOrDevice) Option {
	return func(m *Machine) error {
		m.aliases[name] = target
		return nil
	}
}

// StepBudget caps the number of instructions executed per Run
// invocation. This is a safety rail against runaway programs, not part
// of the language semantics.
func StepBudget(n int) Option {
	return func(m *Machine) error {
		if n < 1 {
			return errors.Errorf("step budget %d too small", n)
		}
		m.stepBudget = n
		return nil
	}
}

// Observer registers a callback invoked after every executed
// instruction.
func Observer(fn func(*Machine)) Option {
	return func(m *Machine) error {
		m.observer = fn
		return nil
	}
}

// Machine is the mutable CPU state a compiled program executes
// against: instruction pointer, registers, name bindings and device
// slots.
type Machine struct {
	prog       *Program
	ip         int
	registers  []float64
	aliases    map[string]RegisterOrDevice
	defines    map[string]float64
	devices    []DeviceState
	deviceB    DeviceState
	sawYield   bool
	stepBudget int
	observer   func(*Machine)
}

// New creates a Machine for the given program. Registers start out
// holding NaN; device slots start out empty.
func New(p *Program, opts ...Option) (*Machine, error) {
	m := &Machine{
		prog:       p,
		aliases:    make(map[string]RegisterOrDevice),
		defines:    make(map[string]float64),
		deviceB:    make(DeviceState),
		stepBudget: defaultStepBudget,
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	if m.registers == nil {
		m.registers = nanSlice(defaultRegisters)
	}
	if m.devices == nil {
		m.devices = make([]DeviceState, defaultDevices)
	}
	return m, nil
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// IP returns the instruction pointer.
func (m *Machine) IP() int { return m.ip }

// RA returns the value of the return-address register, the last
// register slot.
func (m *Machine) RA() float64 {
	return m.registers[len(m.registers)-1]
}

// Dump writes a human readable description of the machine state.
func (m *Machine) Dump(w io.Writer) {
	fmt.Fprintf(w, "IP = %d\n", m.ip)
	fmt.Fprintf(w, "registers =")
	for _, v := range m.registers {
		fmt.Fprintf(w, " %g", v)
	}
	fmt.Fprintln(w)
	for _, name := range sortedKeys(m.aliases) {
		fmt.Fprintf(w, "alias %s = %s\n", name, m.aliases[name])
	}
	for _, name := range sortedKeys(m.defines) {
		fmt.Fprintf(w, "define %s = %g\n", name, m.defines[name])
	}
	for i, dev := range m.devices {
		if dev == nil {
			continue
		}
		dumpDevice(w, Device(i).String(), dev)
	}
	dumpDevice(w, DeviceB.String(), m.deviceB)
}

func dumpDevice(w io.Writer, name string, dev DeviceState) {
	fmt.Fprintf(w, "%s = {", name)
	for i, field := range sortedKeys(dev) {
		if i > 0 {
			fmt.Fprint(w, ", ")
		}
		fmt.Fprintf(w, "%s: %g", field, dev[field])
	}
	fmt.Fprintln(w, "}")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
