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

package asm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mutantbob/stationeers-mips-unittest/vm"
)

const maxErrors = 10

// Position locates an error in the source stream.
type Position struct {
	Filename string
	Line     int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d", p.Filename, p.Line)
}

// ErrAsm encapsulates errors generated by the assembler.
type ErrAsm []struct {
	Pos Position
	Msg string
}

func (e ErrAsm) Error() string {
	l := make([]string, 0, len(e))
	for _, err := range e {
		l = append(l, fmt.Sprintf("%s: %s", err.Pos, err.Msg))
	}
	return strings.Join(l, "\n")
}

// parser provides the parsing and compiling.
type parser struct {
	name   string
	code   []vm.Instruction
	labels map[string]int
	errs   ErrAsm
}

func newParser(name string) *parser {
	return &parser{
		name:   name,
		labels: make(map[string]int),
	}
}

// helper to build ErrAsm items.
func parseError(pos Position, msg string) struct {
	Pos Position
	Msg string
} {
	return struct {
		Pos Position
		Msg string
	}{pos, msg}
}

// error appends an error to the internal error list at the given line.
func (p *parser) error(line int, msg string) {
	p.errs = append(p.errs, parseError(Position{p.name, line}, msg))
}

// abort returns true if the parser should abort due to too many errors.
func (p *parser) abort() bool { return len(p.errs) >= maxErrors }

// parseLine compiles one source line into exactly one instruction
// slot: an opcode, or a no-op for empty lines and label lines. The
// one-slot rule keeps instruction indexes equal to source line
// indexes, which the language's absolute branch targets rely on.
func (p *parser) parseLine(lineNo int, line string) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	if i := strings.IndexByte(line, ':'); i >= 0 {
		// a label declaration; anything after the colon is discarded
		label := strings.TrimSpace(line[:i])
		if label == "" {
			p.error(lineNo, "empty label name")
		} else {
			// last definition wins on duplicates
			p.labels[label] = len(p.code)
		}
		p.code = append(p.code, vm.Nop)
		return
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		p.code = append(p.code, vm.Nop)
		return
	}
	inst, err := vm.NewOp(fields[0], fields[1:])
	if err != nil {
		p.error(lineNo, err.Error())
		inst = vm.Nop
	}
	p.code = append(p.code, inst)
}

// parse compiles the whole source stream. Any accumulated error
// discards the program.
func (p *parser) parse(r io.Reader) (*vm.Program, error) {
	s := bufio.NewScanner(r)
	lineNo := 0
	for s.Scan() && !p.abort() {
		lineNo++
		p.parseLine(lineNo, s.Text())
	}
	if err := s.Err(); err != nil {
		p.error(lineNo, err.Error())
	}
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return vm.NewProgram(p.code, p.labels), nil
}
