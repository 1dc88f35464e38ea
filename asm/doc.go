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

// Package asm assembles the line-oriented Stationeers IC instruction
// code into programs for the vm package.
//
// Source layout:
//
// One instruction per line. A '#' starts a comment running to the end
// of the line. A line containing ':' declares the (trimmed) text
// before the colon as a label; the rest of the line is discarded.
// Every source line, including blank lines and label lines, occupies
// one instruction slot, so absolute branch targets count source lines.
// Labels resolve to the index of their own line, which executes as a
// no-op.
//
// Operand tokens:
//
//	r<n>        register reference
//	d<n>, db    device reference (db is the special device)
//	1.5, 2e3    numeric literal (anything strconv.ParseFloat accepts)
//	<name>      identifier: an alias, define or label depending on
//	            where it appears; bound at execution time
//
// Supported mnemonics (case sensitive):
//
//	opcode	operands	description
//	j	t		jump to line number or label t
//	yield			set the cooperative yield flag
//	move	l r		l <- r
//	s	d f r		store r into field f of device d
//	l	l d f		load field f of device d into l (absent field reads 0)
//	alias	n t		bind name n to register or device t
//	define	n v		bind name n to the numeric constant v
//	add	l a b		l <- a+b
//	sub	l a b		l <- a-b
//	mul	l a b		l <- a*b
//	div	l a b		l <- a/b
//	mod	l a b		l <- a remainder b
//	max	l a b		l <- max(a,b)
//	min	l a b		l <- min(a,b)
//	slt	l a b		l <- 1 if a<b else 0
//	sgt	l a b		l <- 1 if a>b else 0
//	abs	l a		l <- |a|
//	ceil	l a		l <- ceiling of a
//	floor	l a		l <- floor of a
//	round	l a		l <- a rounded, ties to even
//	sqrt	l a		l <- square root of a
//	log	l a		l <- natural log of a
//	exp	l a		l <- e**a
//	rand	l a		l <- uniform random in [0,1); a is ignored
//	select	l a b c		l <- b if a is nonzero else c
//	bgt	a b t		branch to t if a>b
//	beq	a b t		branch to t if a==b
//	beqal	a b t		beq, storing the fall-through line in ra on a taken branch
//	bap	a b tol t	branch to t if |a-b| < max(8*eps, tol*max(|a|,|b|))
//	bapal	a b tol t	bap with the and-link behavior of beqal
//	bdns	d t		branch to t if no device is attached at d
//	bdnsal	d t		bdns, storing the next line in ra on a taken branch
//	bdse	d t		branch to t if a device is attached at d
//	bdseal	d t		bdse with the and-link behavior of bdnsal
//	brdns	d t		bdns with t taken as an offset from the branch's line
//	brdse	d t		bdse with t taken as an offset from the branch's line
//
// Unknown mnemonics, wrong operand counts, non-numeric define values
// and alias targets that are not a register or device reference are
// compile errors; they are reported with file:line positions and any
// error discards the whole program. In other operand positions a token
// that does not parse as a register or device (r999, dx) is kept as an
// identifier and fails only when it is resolved at execution time.
// Identifier meaning is never checked at assembly time: whether a name
// is an alias, a define or a label is only knowable once the program
// runs.
package asm
