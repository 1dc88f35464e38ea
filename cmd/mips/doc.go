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

// Command mips assembles and runs a Stationeers IC program.
//
// Usage:
//
//	mips [options] [file]
//
// The program is read from file, or from standard input when no file
// is given. Devices are attached before execution with the repeatable
// -device flag:
//
//	mips -device d0:Bacon=7.5 -device db:Setting=20 -dump prog.mips
//
// The machine runs until the requested number of yields (-yields, 1 by
// default), the end of the program, or the step budget (-steps). With
// -dump the final registers, bindings and devices are printed to
// standard output. Compile and execution errors go to standard error
// and exit with a non-zero status; -debug adds stack traces.
package main
