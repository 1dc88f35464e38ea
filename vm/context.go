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

// lookup resolves a branch target to an instruction index. Label
// resolution happens here, at execution time, never during assembly.
func (m *Machine) lookup(target LineNumber) (int, error) {
	if !target.isLabel {
		return target.num, nil
	}
	ip, ok := m.prog.labels[target.label]
	if !ok {
		return 0, errors.Errorf("no label '%s'", target.label)
	}
	return ip, nil
}

// resolveDevice resolves a device operand. A name must be bound to a
// device alias; a register alias in device position is an error.
func (m *Machine) resolveDevice(ref DeviceRef) (Device, error) {
	if ref.direct {
		return ref.dev, nil
	}
	target, ok := m.aliases[ref.name]
	if !ok {
		return 0, errors.Errorf("unable to resolve alias %s", ref.name)
	}
	if !target.IsDevice {
		return 0, errors.Errorf("%s is a register (%s) when I need a device", ref.name, target.Reg)
	}
	return target.Dev, nil
}

// resolveRValue produces the numeric value of a value operand. Names
// check aliases first (a register alias reads the register, a device
// alias is an error), then defines.
func (m *Machine) resolveRValue(v RValue) (float64, error) {
	switch v.kind {
	case rvNumber:
		return v.num, nil
	case rvRegister:
		return m.register(v.reg)
	default:
		if target, ok := m.aliases[v.name]; ok {
			if target.IsDevice {
				return 0, errors.Errorf("device alias %s=%s can not be an rvalue", v.name, target.Dev)
			}
			return m.register(target.Reg)
		}
		if val, ok := m.defines[v.name]; ok {
			return val, nil
		}
		return 0, errors.Errorf("unable to evaluate %s", v.name)
	}
}

// resolveLValue produces the destination register of a store operand.
// Only register aliases are acceptable; a device alias or an unbound
// name is an error.
func (m *Machine) resolveLValue(v LValue) (Register, error) {
	if v.isReg {
		return v.reg, nil
	}
	target, ok := m.aliases[v.name]
	if !ok {
		return 0, errors.Errorf("not a valid lvalue: %s", v.name)
	}
	if target.IsDevice {
		return 0, errors.Errorf("%s=%s is a device which is not a valid lvalue", v.name, target.Dev)
	}
	return target.Reg, nil
}

func (m *Machine) register(reg Register) (float64, error) {
	if int(reg) >= len(m.registers) {
		return 0, errors.Errorf("no register %s", reg)
	}
	return m.registers[reg], nil
}

func (m *Machine) setRegister(reg Register, v float64) error {
	if int(reg) >= len(m.registers) {
		return errors.Errorf("no register %s", reg)
	}
	m.registers[reg] = v
	return nil
}

// deviceState resolves a device to its live field map. Regular slots
// must have a device attached.
func (m *Machine) deviceState(dev Device) (DeviceState, error) {
	if dev == DeviceB {
		return m.deviceB, nil
	}
	if int(dev) >= len(m.devices) {
		return nil, errors.Errorf("no device slot %s on CPU", dev)
	}
	if m.devices[dev] == nil {
		return nil, errors.Errorf("no device attached to %s", dev)
	}
	return m.devices[dev], nil
}

// deviceAttached reports whether a device is present. db always is.
func (m *Machine) deviceAttached(dev Device) (bool, error) {
	if dev == DeviceB {
		return true, nil
	}
	if int(dev) >= len(m.devices) {
		return false, errors.Errorf("no device slot %s on CPU", dev)
	}
	return m.devices[dev] != nil, nil
}

func (m *Machine) setRA(ip int) {
	m.registers[len(m.registers)-1] = float64(ip)
}

func (m *Machine) resetYield() bool {
	saw := m.sawYield
	m.sawYield = false
	return saw
}

// AttachDevice installs a device state in a regular slot. The harness
// calls this between Run invocations, never during one.
func (m *Machine) AttachDevice(idx int, dev DeviceState) error {
	if idx < 0 || idx >= len(m.devices) {
		return errors.Errorf("no device slot d%d on CPU", idx)
	}
	m.devices[idx] = dev
	return nil
}

// Register returns the value held in register slot n.
func (m *Machine) Register(n int) (float64, error) {
	if n < 0 || n >= len(m.registers) {
		return 0, errors.Errorf("no register r%d", n)
	}
	return m.registers[n], nil
}

// SetRegister stores a value in register slot n.
func (m *Machine) SetRegister(n int, v float64) error {
	if n < 0 || n >= len(m.registers) {
		return errors.Errorf("no register r%d", n)
	}
	m.registers[n] = v
	return nil
}

// Device returns the live field map of an attached device. Writes to
// the returned map are visible to the program.
func (m *Machine) Device(dev Device) (DeviceState, error) {
	return m.deviceState(dev)
}

// DeviceField reads one field from an attached device. A field the
// device does not have reads as 0, matching the in-game simulator.
func (m *Machine) DeviceField(dev Device, field string) (float64, error) {
	state, err := m.deviceState(dev)
	if err != nil {
		return 0, err
	}
	return state[field], nil
}

// SetDeviceField writes one field of an attached device.
func (m *Machine) SetDeviceField(dev Device, field string, v float64) error {
	state, err := m.deviceState(dev)
	if err != nil {
		return err
	}
	state[field] = v
	return nil
}
