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

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mutantbob/stationeers-mips-unittest/asm"
	"github.com/mutantbob/stationeers-mips-unittest/vm"
)

// deviceList collects repeated -device flags.
type deviceList []string

func (d *deviceList) String() string     { return strings.Join(*d, " ") }
func (d *deviceList) Set(s string) error { *d = append(*d, s); return nil }
func (d *deviceList) Get() interface{}   { return *d }

var debug bool

func atExit(err error) {
	if err == nil {
		return
	}
	if debug {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	os.Exit(1)
}

// attachDevices installs the -device presets. A spec looks like
// "d0:Bacon=7.5,On=1" or "db:Setting=20"; "d0:" attaches an empty
// device.
func attachDevices(m *vm.Machine, specs deviceList) error {
	for _, spec := range specs {
		name, fieldSpec, ok := strings.Cut(spec, ":")
		if !ok {
			return errors.Errorf("bad device spec %q, want d<n>:Field=value,...", spec)
		}
		dev, err := vm.ParseDevice(name)
		if err != nil {
			return err
		}
		state := vm.DeviceState{}
		if fieldSpec != "" {
			for _, kv := range strings.Split(fieldSpec, ",") {
				field, value, ok := strings.Cut(kv, "=")
				if !ok {
					return errors.Errorf("bad field %q in device spec %q", kv, spec)
				}
				v, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return errors.Wrapf(err, "device %s field %s", name, field)
				}
				state[field] = v
			}
		}
		if dev == vm.DeviceB {
			for field, v := range state {
				if err := m.SetDeviceField(vm.DeviceB, field, v); err != nil {
					return err
				}
			}
		} else if err := m.AttachDevice(int(dev), state); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	var devices deviceList

	yields := flag.Int("yields", 1, "run until this many yield instructions have executed")
	steps := flag.Int("steps", 99, "instruction budget per run, a rail against runaway loops")
	dump := flag.Bool("dump", false, "print the machine state after the run")
	flag.Var(&devices, "device", "attach a device, e.g. d0:Bacon=7.5,On=1 (can be specified multiple times)")
	flag.BoolVar(&debug, "debug", false, "enable debug diagnostics")
	flag.Parse()

	var err error
	defer func() { atExit(err) }()

	in := os.Stdin
	name := "stdin"
	if flag.NArg() > 0 {
		name = flag.Arg(0)
		f, ferr := os.Open(name)
		if ferr != nil {
			err = ferr
			return
		}
		defer f.Close()
		in = f
	}

	prog, err := asm.Assemble(name, bufio.NewReader(in))
	if err != nil {
		return
	}
	m, err := vm.New(prog, vm.StepBudget(*steps))
	if err != nil {
		return
	}
	if err = attachDevices(m, devices); err != nil {
		return
	}
	if err = m.Run(*yields); err != nil {
		return
	}
	if *dump {
		w := bufio.NewWriter(os.Stdout)
		m.Dump(w)
		err = w.Flush()
	}
}
