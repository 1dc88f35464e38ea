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
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// Instruction is one dispatchable unit of a compiled program. Execute
// either leaves the instruction pointer unchanged and returns an
// error, or updates it exactly once: the next line, a branch target,
// or an absolute jump.
type Instruction interface {
	Execute(m *Machine) error
}

// Nop is the instruction compiled for empty lines and label lines. It
// only advances the instruction pointer.
var Nop Instruction = noCode{}

type noCode struct{}

func (noCode) Execute(m *Machine) error {
	m.ip++
	return nil
}

// epsilon is the float64 machine epsilon, the gap between 1.0 and the
// next representable value.
const epsilon = 0x1p-52

// approxEqual is the bap/bapal predicate: the two values differ by
// less than max(8ε, frac·max(|a|, |b|)). Exactly equal values always
// pass.
func approxEqual(a, b, frac float64) bool {
	margin := 8 * epsilon
	if scale := frac * math.Max(math.Abs(a), math.Abs(b)); scale > margin {
		margin = scale
	}
	return math.Abs(a-b) < margin
}

func expect1(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.Errorf("expected 1 argument, got %d", len(args))
	}
	return args[0], nil
}

func expect2(args []string) (string, string, error) {
	if len(args) != 2 {
		return "", "", errors.Errorf("expected 2 arguments, got %d", len(args))
	}
	return args[0], args[1], nil
}

func expect3(args []string) (string, string, string, error) {
	if len(args) != 3 {
		return "", "", "", errors.Errorf("expected 3 arguments, got %d", len(args))
	}
	return args[0], args[1], args[2], nil
}

func expect4(args []string) (string, string, string, string, error) {
	if len(args) != 4 {
		return "", "", "", "", errors.Errorf("expected 4 arguments, got %d", len(args))
	}
	return args[0], args[1], args[2], args[3], nil
}

type jump struct {
	target LineNumber
}

func newJump(args []string) (Instruction, error) {
	tok, err := expect1(args)
	if err != nil {
		return nil, errors.New("'j' jump instruction requires 1 argument of line number or label")
	}
	return jump{target: ParseLineNumber(tok)}, nil
}

func (i jump) Execute(m *Machine) error {
	ip, err := m.lookup(i.target)
	if err != nil {
		return err
	}
	m.ip = ip
	return nil
}

type yield struct{}

func (yield) Execute(m *Machine) error {
	m.sawYield = true
	m.ip++
	return nil
}

type aliasInstr struct {
	name   string
	target RegisterOrDevice
}

func newAlias(args []string) (Instruction, error) {
	name, targetTok, err := expect2(args)
	if err != nil {
		return nil, err
	}
	target, err := ParseRegisterOrDevice(targetTok)
	if err != nil {
		return nil, err
	}
	return aliasInstr{name: name, target: target}, nil
}

func (i aliasInstr) Execute(m *Machine) error {
	m.aliases[i.name] = i.target
	m.ip++
	return nil
}

type defineInstr struct {
	name  string
	value float64
}

func newDefine(args []string) (Instruction, error) {
	name, valueTok, err := expect2(args)
	if err != nil {
		return nil, err
	}
	value, err := parseNumber(valueTok)
	if err != nil {
		return nil, errors.Errorf("failed to parse value '%s' in define", valueTok)
	}
	return defineInstr{name: name, value: value}, nil
}

func (i defineInstr) Execute(m *Machine) error {
	m.defines[i.name] = i.value
	m.ip++
	return nil
}

type setDevice struct {
	dev   DeviceRef
	field string
	src   RValue
}

func newSetDevice(args []string) (Instruction, error) {
	devTok, field, srcTok, err := expect3(args)
	if err != nil {
		return nil, err
	}
	return setDevice{
		dev:   ParseDeviceRef(devTok),
		field: field,
		src:   ParseRValue(srcTok),
	}, nil
}

func (i setDevice) Execute(m *Machine) error {
	dev, err := m.resolveDevice(i.dev)
	if err != nil {
		return err
	}
	v, err := m.resolveRValue(i.src)
	if err != nil {
		return err
	}
	state, err := m.deviceState(dev)
	if err != nil {
		return err
	}
	state[i.field] = v
	m.ip++
	return nil
}

type loadDevice struct {
	dst   LValue
	dev   DeviceRef
	field string
}

func newLoadDevice(args []string) (Instruction, error) {
	dstTok, devTok, field, err := expect3(args)
	if err != nil {
		return nil, err
	}
	return loadDevice{
		dst:   ParseLValue(dstTok),
		dev:   ParseDeviceRef(devTok),
		field: field,
	}, nil
}

func (i loadDevice) Execute(m *Machine) error {
	dst, err := m.resolveLValue(i.dst)
	if err != nil {
		return err
	}
	dev, err := m.resolveDevice(i.dev)
	if err != nil {
		return err
	}
	state, err := m.deviceState(dev)
	if err != nil {
		return err
	}
	// a field the device does not have loads 0; the in-game simulator
	// does not fault here
	if err := m.setRegister(dst, state[i.field]); err != nil {
		return err
	}
	m.ip++
	return nil
}

type move struct {
	dst LValue
	src RValue
}

func newMove(args []string) (Instruction, error) {
	dstTok, srcTok, err := expect2(args)
	if err != nil {
		return nil, err
	}
	return move{dst: ParseLValue(dstTok), src: ParseRValue(srcTok)}, nil
}

func (i move) Execute(m *Machine) error {
	v, err := m.resolveRValue(i.src)
	if err != nil {
		return err
	}
	dst, err := m.resolveLValue(i.dst)
	if err != nil {
		return err
	}
	if err := m.setRegister(dst, v); err != nil {
		return err
	}
	m.ip++
	return nil
}

// binaryOp is the shared shape of all lv <- f(a, b) instructions. The
// mathematical kernel rides along as a function value.
type binaryOp struct {
	dst LValue
	a   RValue
	b   RValue
	op  func(a, b float64) float64
}

func newBinaryOp(args []string, op func(a, b float64) float64) (Instruction, error) {
	dstTok, aTok, bTok, err := expect3(args)
	if err != nil {
		return nil, err
	}
	return binaryOp{
		dst: ParseLValue(dstTok),
		a:   ParseRValue(aTok),
		b:   ParseRValue(bTok),
		op:  op,
	}, nil
}

func (i binaryOp) Execute(m *Machine) error {
	a, err := m.resolveRValue(i.a)
	if err != nil {
		return err
	}
	b, err := m.resolveRValue(i.b)
	if err != nil {
		return err
	}
	dst, err := m.resolveLValue(i.dst)
	if err != nil {
		return err
	}
	if err := m.setRegister(dst, i.op(a, b)); err != nil {
		return err
	}
	m.ip++
	return nil
}

type unaryOp struct {
	dst LValue
	a   RValue
	op  func(a float64) float64
}

func newUnaryOp(args []string, op func(a float64) float64) (Instruction, error) {
	dstTok, aTok, err := expect2(args)
	if err != nil {
		return nil, err
	}
	return unaryOp{dst: ParseLValue(dstTok), a: ParseRValue(aTok), op: op}, nil
}

func (i unaryOp) Execute(m *Machine) error {
	a, err := m.resolveRValue(i.a)
	if err != nil {
		return err
	}
	dst, err := m.resolveLValue(i.dst)
	if err != nil {
		return err
	}
	if err := m.setRegister(dst, i.op(a)); err != nil {
		return err
	}
	m.ip++
	return nil
}

type ternaryOp struct {
	dst LValue
	a   RValue
	b   RValue
	c   RValue
	op  func(a, b, c float64) float64
}

func newTernaryOp(args []string, op func(a, b, c float64) float64) (Instruction, error) {
	dstTok, aTok, bTok, cTok, err := expect4(args)
	if err != nil {
		return nil, err
	}
	return ternaryOp{
		dst: ParseLValue(dstTok),
		a:   ParseRValue(aTok),
		b:   ParseRValue(bTok),
		c:   ParseRValue(cTok),
		op:  op,
	}, nil
}

func (i ternaryOp) Execute(m *Machine) error {
	a, err := m.resolveRValue(i.a)
	if err != nil {
		return err
	}
	b, err := m.resolveRValue(i.b)
	if err != nil {
		return err
	}
	c, err := m.resolveRValue(i.c)
	if err != nil {
		return err
	}
	dst, err := m.resolveLValue(i.dst)
	if err != nil {
		return err
	}
	if err := m.setRegister(dst, i.op(a, b, c)); err != nil {
		return err
	}
	m.ip++
	return nil
}

// branch compares two values and jumps on success. The and-link
// variants record the fall-through address in ra before jumping.
type branch struct {
	a       RValue
	b       RValue
	target  LineNumber
	test    func(a, b float64) bool
	andLink bool
}

func newBranch(args []string, test func(a, b float64) bool, andLink bool) (Instruction, error) {
	aTok, bTok, targetTok, err := expect3(args)
	if err != nil {
		return nil, err
	}
	return branch{
		a:       ParseRValue(aTok),
		b:       ParseRValue(bTok),
		target:  ParseLineNumber(targetTok),
		test:    test,
		andLink: andLink,
	}, nil
}

func (i branch) Execute(m *Machine) error {
	a, err := m.resolveRValue(i.a)
	if err != nil {
		return err
	}
	b, err := m.resolveRValue(i.b)
	if err != nil {
		return err
	}
	if !i.test(a, b) {
		m.ip++
		return nil
	}
	ip, err := m.lookup(i.target)
	if err != nil {
		return err
	}
	if i.andLink {
		m.setRA(m.ip + 1)
	}
	m.ip = ip
	return nil
}

// branchApprox is bap/bapal: branch when a and b agree within a
// fractional tolerance.
type branchApprox struct {
	a       RValue
	b       RValue
	frac    RValue
	target  LineNumber
	andLink bool
}

func newBranchApprox(args []string, andLink bool) (Instruction, error) {
	aTok, bTok, fracTok, targetTok, err := expect4(args)
	if err != nil {
		return nil, err
	}
	return branchApprox{
		a:       ParseRValue(aTok),
		b:       ParseRValue(bTok),
		frac:    ParseRValue(fracTok),
		target:  ParseLineNumber(targetTok),
		andLink: andLink,
	}, nil
}

func (i branchApprox) Execute(m *Machine) error {
	a, err := m.resolveRValue(i.a)
	if err != nil {
		return err
	}
	b, err := m.resolveRValue(i.b)
	if err != nil {
		return err
	}
	frac, err := m.resolveRValue(i.frac)
	if err != nil {
		return err
	}
	if !approxEqual(a, b, frac) {
		m.ip++
		return nil
	}
	ip, err := m.lookup(i.target)
	if err != nil {
		return err
	}
	if i.andLink {
		m.setRA(m.ip + 1)
	}
	m.ip = ip
	return nil
}

// branchDevice is the bdns/bdse family. The instruction pointer is
// logically incremented before the branch decision; the link variants
// record that incremented value and the relative variants offset from
// it minus one, i.e. from the branch's own line.
type branchDevice struct {
	dev          DeviceRef
	target       LineNumber
	wantAttached bool
	andLink      bool
	relative     bool
}

func newBranchDevice(args []string, wantAttached, andLink, relative bool) (Instruction, error) {
	devTok, targetTok, err := expect2(args)
	if err != nil {
		return nil, err
	}
	return branchDevice{
		dev:          ParseDeviceRef(devTok),
		target:       ParseLineNumber(targetTok),
		wantAttached: wantAttached,
		andLink:      andLink,
		relative:     relative,
	}, nil
}

func (i branchDevice) Execute(m *Machine) error {
	dev, err := m.resolveDevice(i.dev)
	if err != nil {
		return err
	}
	attached, err := m.deviceAttached(dev)
	if err != nil {
		return err
	}
	next := m.ip + 1
	if attached != i.wantAttached {
		m.ip = next
		return nil
	}
	target, err := m.lookup(i.target)
	if err != nil {
		return err
	}
	if i.andLink {
		m.setRA(next)
	}
	if i.relative {
		m.ip = next - 1 + target
	} else {
		m.ip = target
	}
	return nil
}

// NewOp constructs the instruction for one mnemonic and its operand
// tokens. The mnemonic set is closed; anything else is a compile
// error.
func NewOp(opcode string, args []string) (Instruction, error) {
	switch opcode {
	case "j":
		return newJump(args)
	case "yield":
		if len(args) != 0 {
			return nil, errors.Errorf("yield takes no arguments, got %d", len(args))
		}
		return yield{}, nil
	case "move":
		return newMove(args)
	case "s":
		return newSetDevice(args)
	case "l":
		return newLoadDevice(args)
	case "alias":
		return newAlias(args)
	case "define":
		return newDefine(args)

	case "add":
		return newBinaryOp(args, func(a, b float64) float64 { return a + b })
	case "sub":
		return newBinaryOp(args, func(a, b float64) float64 { return a - b })
	case "mul":
		return newBinaryOp(args, func(a, b float64) float64 { return a * b })
	case "div":
		return newBinaryOp(args, func(a, b float64) float64 { return a / b })
	case "mod":
		return newBinaryOp(args, math.Mod)
	case "max":
		return newBinaryOp(args, math.Max)
	case "min":
		return newBinaryOp(args, math.Min)
	case "slt":
		return newBinaryOp(args, func(a, b float64) float64 { return boolToFloat(a < b) })
	case "sgt":
		return newBinaryOp(args, func(a, b float64) float64 { return boolToFloat(a > b) })

	case "abs":
		return newUnaryOp(args, math.Abs)
	case "ceil":
		return newUnaryOp(args, math.Ceil)
	case "floor":
		return newUnaryOp(args, math.Floor)
	case "round":
		// ties round to even, the way the game rounds
		return newUnaryOp(args, math.RoundToEven)
	case "sqrt":
		return newUnaryOp(args, math.Sqrt)
	case "log":
		return newUnaryOp(args, math.Log)
	case "exp":
		return newUnaryOp(args, math.Exp)
	case "rand":
		return newUnaryOp(args, func(float64) float64 { return rand.Float64() })

	case "select":
		return newTernaryOp(args, func(a, b, c float64) float64 {
			if a != 0 {
				return b
			}
			return c
		})

	case "bgt":
		return newBranch(args, func(a, b float64) bool { return a > b }, false)
	case "beq":
		return newBranch(args, func(a, b float64) bool { return a == b }, false)
	case "beqal":
		return newBranch(args, func(a, b float64) bool { return a == b }, true)
	case "bap":
		return newBranchApprox(args, false)
	case "bapal":
		return newBranchApprox(args, true)

	case "bdns":
		return newBranchDevice(args, false, false, false)
	case "bdnsal":
		return newBranchDevice(args, false, true, false)
	case "bdse":
		return newBranchDevice(args, true, false, false)
	case "bdseal":
		return newBranchDevice(args, true, true, false)
	case "brdns":
		return newBranchDevice(args, false, false, true)
	case "brdse":
		return newBranchDevice(args, true, false, true)
	}
	return nil, errors.Errorf("unrecognized opcode %s", opcode)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
