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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompile(t *testing.T) {
	in := `
	% this is a comment
	123
	-9
	1.5
	(ABC)
	ABC
	/ABC
	[ 1 ]
	{ 1 { 2 } }
	`
	code := compile(in)

	type simple struct {
		Op   opcode
		Num  float64
		Text string
	}
	var got []simple
	for _, in := range code {
		s := simple{Op: in.op, Num: in.num, Text: in.text}
		if in.proc != nil {
			s.Text = in.proc.Body
		}
		got = append(got, s)
	}
	want := []simple{
		{Op: opNumber, Num: 123},
		{Op: opNumber, Num: -9},
		{Op: opNumber, Num: 1.5},
		{Op: opString, Text: "ABC"},
		{Op: opExec, Text: "ABC"},
		{Op: opName, Text: "ABC"},
		{Op: opMark},
		{Op: opNumber, Num: 1},
		{Op: opEndArray},
		{Op: opProc, Text: " 1 { 2 } "},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}

func TestCompileErrors(t *testing.T) {
	type testCase struct {
		in string
		n  int // number of instructions before the error
	}
	cases := []testCase{
		{"1c", 0},
		{"1 2 3x", 2},
		{"1.2.3", 0},
		{"(abc", 0},
		{"{ 1 2", 0},
		{"1 /", 1},
		{"/1", 0},
		{"add$", 0},
		{"1 @", 1},
		{"1 % no newline", 1},
	}
	for _, test := range cases {
		code := compile(test.in)
		if len(code) != test.n+1 || code[test.n].op != opSyntaxError {
			t.Errorf("%q: unexpected code %v", test.in, code)
		}
	}
}

func TestNumberEndsToken(t *testing.T) {
	code := compile("[1 2]3/x")
	var ops []opcode
	for _, in := range code {
		ops = append(ops, in.op)
	}
	want := []opcode{opMark, opNumber, opNumber, opEndArray, opNumber, opName}
	if d := cmp.Diff(want, ops); d != "" {
		t.Error(d)
	}
}

func TestProcedureCache(t *testing.T) {
	p := NewProcedure("1 2 add")
	a := p.instructions()
	b := p.instructions()
	if len(a) != 3 || &a[0] != &b[0] {
		t.Error("procedure body compiled twice")
	}
}

func FuzzStrings(f *testing.F) {
	f.Add("hello world")
	f.Add("hello\nworld")
	f.Add("hello\\world")
	f.Add("hello(world)")
	f.Add("a((b)c)")
	f.Fuzz(func(t *testing.T, a string) {
		depth := 0
		for _, c := range a {
			switch c {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth < 0 {
				return
			}
		}
		if depth != 0 {
			return
		}

		ctx := NewContext(nil)
		err := ctx.Run("(" + a + ")")
		if err != nil {
			t.Fatal(err)
		}
		if len(ctx.Stack) != 1 {
			t.Fatalf("len(ctx.Stack): %d != 1", len(ctx.Stack))
		}
		s, ok := ctx.Stack[0].(String)
		if !ok || string(ctx.Heap.Runes(s)) != string([]rune(a)) {
			t.Fatalf("ctx.Stack[0]: %s != (%s)", ctx.Format(ctx.Stack[0]), a)
		}
	})
}
