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
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Register identifies one numeric slot of the CPU by index. The last
// slot is the return-address register ra.
type Register uint8

func (r Register) String() string { return "r" + strconv.Itoa(int(r)) }

// ParseRegister parses a direct register token of the form "r<n>".
func ParseRegister(tok string) (Register, error) {
	if !strings.HasPrefix(tok, "r") {
		return 0, errors.Errorf("not a register: %s", tok)
	}
	n, err := strconv.ParseUint(tok[1:], 10, 8)
	if err != nil {
		return 0, errors.Errorf("couldn't parse register reference %s", tok)
	}
	return Register(n), nil
}

// Device identifies an external device: a numbered slot (d0, d1, ...)
// or the special device db that is always attached.
type Device int8

// DeviceB is the special device. Unlike the numbered slots it always
// exists and starts out with an empty field map.
const DeviceB Device = -1

func (d Device) String() string {
	if d == DeviceB {
		return "db"
	}
	return "d" + strconv.Itoa(int(d))
}

// ParseDevice parses a direct device token: "d<n>" or "db".
func ParseDevice(tok string) (Device, error) {
	if !strings.HasPrefix(tok, "d") {
		return 0, errors.Errorf("not a device: %s", tok)
	}
	if tok == "db" {
		return DeviceB, nil
	}
	n, err := strconv.ParseUint(tok[1:], 10, 7)
	if err != nil {
		return 0, errors.Errorf("couldn't parse device reference %s", tok)
	}
	return Device(n), nil
}

// RegisterOrDevice is the target of an alias binding.
type RegisterOrDevice struct {
	Reg      Register
	Dev      Device
	IsDevice bool
}

func (rd RegisterOrDevice) String() string {
	if rd.IsDevice {
		return rd.Dev.String()
	}
	return rd.Reg.String()
}

// ParseRegisterOrDevice parses an alias target. Device syntax is tried
// first, then register syntax.
func ParseRegisterOrDevice(tok string) (RegisterOrDevice, error) {
	if dev, err := ParseDevice(tok); err == nil {
		return RegisterOrDevice{Dev: dev, IsDevice: true}, nil
	}
	if strings.HasPrefix(tok, "r") {
		reg, err := ParseRegister(tok)
		if err != nil {
			return RegisterOrDevice{}, err
		}
		return RegisterOrDevice{Reg: reg}, nil
	}
	return RegisterOrDevice{}, errors.Errorf("was expecting a register or device reference, got %s", tok)
}

type rvalueKind uint8

const (
	rvNumber rvalueKind = iota
	rvRegister
	rvName
)

// RValue is a value operand: a numeric literal, a direct register
// reference, or a name resolved at execution time (alias first, then
// define).
type RValue struct {
	kind rvalueKind
	num  float64
	reg  Register
	name string
}

func (v RValue) String() string {
	switch v.kind {
	case rvNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case rvRegister:
		return v.reg.String()
	default:
		return v.name
	}
}

// Number makes a constant RValue.
func Number(v float64) RValue { return RValue{kind: rvNumber, num: v} }

// ParseRValue classifies a value operand token. Anything that is not a
// numeric literal or r<n> syntax is kept as a name and bound late.
func ParseRValue(tok string) RValue {
	if v, err := strconv.ParseFloat(tok, 64); err == nil {
		return RValue{kind: rvNumber, num: v}
	}
	if strings.HasPrefix(tok, "r") {
		if reg, err := ParseRegister(tok); err == nil {
			return RValue{kind: rvRegister, reg: reg}
		}
	}
	return RValue{kind: rvName, name: tok}
}

// LValue is a store destination: a direct register reference or a name
// that must resolve to a register alias at execution time.
type LValue struct {
	reg   Register
	name  string
	isReg bool
}

func (v LValue) String() string {
	if v.isReg {
		return v.reg.String()
	}
	return v.name
}

// ParseLValue classifies a destination token.
func ParseLValue(tok string) LValue {
	if strings.HasPrefix(tok, "r") {
		if reg, err := ParseRegister(tok); err == nil {
			return LValue{reg: reg, isReg: true}
		}
	}
	return LValue{name: tok}
}

// DeviceRef is a device operand: a direct device token or a name that
// must resolve to a device alias at execution time.
type DeviceRef struct {
	dev    Device
	name   string
	direct bool
}

func (d DeviceRef) String() string {
	if d.direct {
		return d.dev.String()
	}
	return d.name
}

// ParseDeviceRef classifies a device operand token.
func ParseDeviceRef(tok string) DeviceRef {
	if dev, err := ParseDevice(tok); err == nil {
		return DeviceRef{dev: dev, direct: true}
	}
	return DeviceRef{name: tok}
}

func parseNumber(tok string) (float64, error) {
	return strconv.ParseFloat(tok, 64)
}

// LineNumber is a branch target: an absolute instruction index or a
// label looked up at execution time.
type LineNumber struct {
	num     int
	label   string
	isLabel bool
}

func (l LineNumber) String() string {
	if l.isLabel {
		return l.label
	}
	return strconv.Itoa(l.num)
}

// ParseLineNumber classifies a branch target token.
func ParseLineNumber(tok string) LineNumber {
	if n, err := strconv.ParseUint(tok, 10, 16); err == nil {
		return LineNumber{num: int(n)}
	}
	return LineNumber{label: tok, isLabel: true}
}
