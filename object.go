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

// Value is a PostScript value.  The set of implementations is closed:
// Number, Name, String, Array, *Dict, *Procedure, Mark and Error.
type Value interface {
	kind() Kind
}

// Kind identifies the variant of a Value.
type Kind uint8

// These are the value kinds.
const (
	KindNumber Kind = 1 << iota
	KindName
	KindString
	KindArray
	KindDict
	KindProcedure
	KindMark
	KindError

	kindAny Kind = 0xFF
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindName:
		return "name"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindDict:
		return "dictionary"
	case KindProcedure:
		return "procedure"
	case KindMark:
		return "mark"
	case KindError:
		return "error"
	case kindAny:
		return "any"
	}
	return "mixed"
}

// Number is a PostScript number.  Booleans are represented as
// the numbers 1 and 0.
type Number float64

// Name is a PostScript name.
type Name string

// String is a handle for a string stored on the heap.
type String Handle

// Array is a handle for an array stored on the heap.
type Array Handle

// Mark is pushed by "[" and consumed by "]".
type Mark struct{}

// Error is the value pushed onto the operand stack when an error
// occurs.  The value is the error name.
type Error string

// Procedure is an executable body.  The body text is compiled the first
// time the procedure runs and the instructions are cached.
type Procedure struct {
	Body string

	code     []instr
	compiled bool
}

// NewProcedure returns a procedure with the given body text.
func NewProcedure(body string) *Procedure {
	return &Procedure{Body: body}
}

func (p *Procedure) instructions() []instr {
	if !p.compiled {
		p.code = compile(p.Body)
		p.compiled = true
	}
	return p.code
}

func (Number) kind() Kind     { return KindNumber }
func (Name) kind() Kind       { return KindName }
func (String) kind() Kind     { return KindString }
func (Array) kind() Kind      { return KindArray }
func (*Dict) kind() Kind      { return KindDict }
func (*Procedure) kind() Kind { return KindProcedure }
func (Mark) kind() Kind       { return KindMark }
func (Error) kind() Kind      { return KindError }

func boolValue(b bool) Number {
	if b {
		return 1
	}
	return 0
}

type builtin func(*Context) error
