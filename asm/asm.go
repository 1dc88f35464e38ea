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
	"io"
	"strings"

	"github.com/mutantbob/stationeers-mips-unittest/vm"
)

// Assemble compiles IC source read from the supplied io.Reader and
// returns the resulting program and error if any.
//
// The name parameter is used only in error messages to name the source
// of the error. If the io.Reader is a file, name should be the file
// name. If not nil, the returned error can safely be cast to an ErrAsm
// value that will contain up to 10 entries.
func Assemble(name string, r io.Reader) (*vm.Program, error) {
	p := newParser(name)
	return p.parse(r)
}

// AssembleString compiles IC source held in a string.
func AssembleString(name, src string) (*vm.Program, error) {
	return Assemble(name, strings.NewReader(src))
}
