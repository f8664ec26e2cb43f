// seehuhn.de/go/tinyps - a tiny PostScript renderer
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package tinyps

import (
	"strconv"
	"strings"
	"unicode"
)

type opcode uint8

const (
	opNumber      opcode = iota // push num
	opName                      // push the literal name text
	opString                    // allocate a string holding text and push it
	opProc                      // push proc
	opMark                      // push a mark
	opEndArray                  // collect everything down to the mark
	opExec                      // look up text and execute it
	opSyntaxError               // raise syntaxerror
)

// instr is one step of a compiled program.
type instr struct {
	op   opcode
	num  float64
	text string
	proc *Procedure
}

type scanState uint8

const (
	stateStart scanState = iota
	stateNumber
	stateFraction
	stateOperator
	stateNameStart
	stateName
	stateProcedure
	stateString
	stateComment
)

// scanner turns program text into instructions, one character at a time.
// Once a syntax error has been emitted, the rest of the input is ignored.
type scanner struct {
	state  scanState
	cur    strings.Builder
	depth  int
	code   []instr
	failed bool
}

// compile translates program text into a sequence of instructions.
// Executing the result has the same effect as interpreting the text
// character by character: a syntax error is reported only after all
// preceding tokens have run.
func compile(src string) []instr {
	s := &scanner{}
	for _, c := range src {
		s.step(c)
		if s.failed {
			return s.code
		}
	}
	s.step(' ')
	if !s.failed && s.state != stateStart {
		s.fail()
	}
	return s.code
}

func (s *scanner) emit(in instr) {
	s.code = append(s.code, in)
}

func (s *scanner) fail() {
	s.emit(instr{op: opSyntaxError})
	s.failed = true
}

func (s *scanner) reset() {
	s.state = stateStart
	s.cur.Reset()
}

// pushNumber emits the accumulated number.  Returns false if the text
// is not a valid number, for example a lone "-" or ".".
func (s *scanner) pushNumber() bool {
	x, err := strconv.ParseFloat(s.cur.String(), 64)
	if err != nil {
		s.fail()
		return false
	}
	s.emit(instr{op: opNumber, num: x})
	return true
}

func (s *scanner) step(c rune) {
	switch s.state {
	case stateStart:
		switch {
		case isDigit(c) || c == '-' || c == '.':
			s.state = stateNumber
			s.cur.WriteRune(c)
		case isLetter(c):
			s.state = stateOperator
			s.cur.WriteRune(c)
		case c == '/':
			s.state = stateNameStart
		case c == '{':
			s.state = stateProcedure
		case c == '(':
			s.state = stateString
		case c == '[':
			s.emit(instr{op: opMark})
		case c == ']':
			s.emit(instr{op: opEndArray})
		case c == '%':
			s.state = stateComment
		case unicode.IsSpace(c):
			// pass
		default:
			s.fail()
		}

	case stateNumber, stateFraction:
		switch {
		case isDigit(c):
			s.cur.WriteRune(c)
		case c == '.' && s.state == stateNumber:
			s.state = stateFraction
			s.cur.WriteRune(c)
		case unicode.IsSpace(c):
			if s.pushNumber() {
				s.reset()
			}
		case c == ']':
			if s.pushNumber() {
				s.reset()
				s.emit(instr{op: opEndArray})
			}
		case c == '/':
			if s.pushNumber() {
				s.reset()
				s.state = stateName
			}
		default:
			s.fail()
		}

	case stateOperator:
		switch {
		case isLetter(c) || isDigit(c):
			s.cur.WriteRune(c)
		case unicode.IsSpace(c) || c == ']':
			s.emit(instr{op: opExec, text: s.cur.String()})
			s.reset()
			if c == ']' {
				s.emit(instr{op: opEndArray})
			}
		default:
			s.fail()
		}

	case stateNameStart:
		if isLetter(c) || c == '.' {
			s.state = stateName
			s.cur.WriteRune(c)
		} else {
			s.fail()
		}

	case stateName:
		switch {
		case isLetter(c) || isDigit(c) || c == '-' || c == '.':
			s.cur.WriteRune(c)
		case unicode.IsSpace(c) || c == ']':
			s.emit(instr{op: opName, text: s.cur.String()})
			s.reset()
			if c == ']' {
				s.emit(instr{op: opEndArray})
			}
		default:
			s.fail()
		}

	case stateProcedure:
		switch {
		case c == '}' && s.depth == 0:
			s.emit(instr{op: opProc, proc: NewProcedure(s.cur.String())})
			s.reset()
		case c == '}':
			s.depth--
			s.cur.WriteRune(c)
		case c == '{':
			s.depth++
			s.cur.WriteRune(c)
		default:
			s.cur.WriteRune(c)
		}

	case stateString:
		switch {
		case c == ')' && s.depth == 0:
			s.emit(instr{op: opString, text: s.cur.String()})
			s.reset()
		case c == ')':
			s.depth--
			s.cur.WriteRune(c)
		case c == '(':
			s.depth++
			s.cur.WriteRune(c)
		default:
			s.cur.WriteRune(c)
		}

	case stateComment:
		if c == '\n' {
			s.state = stateStart
		}
	}
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c rune) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
