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
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func runStack(code string) string {
	ctx := NewContext(nil)
	_ = ctx.Run(code)
	return ctx.StackString()
}

func TestSyntax(t *testing.T) {
	type testCase struct {
		in, out string
	}
	cases := []testCase{
		{"123", "123"},
		{"-123", "-123"},
		{"1c", "!syntaxerror"},
		{"1.", "1"},
		{"1.1", "1.1"},
		{"1.1.", "!syntaxerror"},
		{"1.1a", "!syntaxerror"},
		{"/name", "/name"},
		{"/n2", "/n2"},
		{"/n.", "/n."},
		{"[ 1 2 3 ]", "[1 2 3]"},
		{"[1 2 3]", "[1 2 3]"},
		{"{1 2 3}", "{1 2 3}"},
		{"(abc)", "(abc)"},
		{"(ab(abc)c)", "(ab(abc)c)"},
		{"(ab(abc", "!syntaxerror"},
		{"(ab(abc)", "!syntaxerror"},
		{"(ab)abc)", "(ab) !syntaxerror"},
		{"[(abc) 2 3 [4 5]]", "[(abc) 2 3 [4 5]]"},
		{"1 2 % comment", "1 2 !syntaxerror"},
		{"1 % comment\n2", "1 2"},
		{"-", "!syntaxerror"},
		{".", "!syntaxerror"},
		{"1 2 ]", "!stackunderflow"},
		{"1 nosuchop 2", "1 !syntaxerror"},
		{"{ 1 { 2 } }", "{ 1 { 2 } }"},
	}
	for _, test := range cases {
		got := runStack(test.in)
		if got != test.out {
			t.Errorf("%q: got %q, want %q", test.in, got, test.out)
		}
	}
}

func TestOperators(t *testing.T) {
	type testCase struct {
		in, out string
	}
	cases := []testCase{
		// arithmetic
		{"2 abs", "2"},
		{"-2 abs", "2"},
		{"(2) abs", "!typeerror"},
		{"abs", "!stackunderflow"},
		{"2 3 add", "5"},
		{"2 -3 add", "-1"},
		{"2 (a) add", "2 !typeerror"},
		{"(a) 2 add", "!typeerror"},
		{"2 add", "2 !stackunderflow"},
		{"2 3 div", "0.666666667"},
		{"2 0 div", "Infinity"},
		{"-2 0 div", "-Infinity"},
		{"2 -3 div", "-0.666666667"},
		{"3 2 idiv", "1"},
		{"2 0 idiv", "Infinity"},
		{"3 -2 idiv", "-1"},
		{"3 2 mod", "1"},
		{"2 0 mod", "NaN"},
		{"3 -2 mod", "1"},
		{"2 3 mul", "6"},
		{"2 -3 sub", "5"},
		{"2 neg", "-2"},
		{"0 neg", "0"},
		{"16 sqrt", "4"},
		{"2 7 min", "2"},
		{"2 7 max", "7"},
		{"2.5 round", "3"},
		{"-2.5 round", "-2"},
		{"30 sin", "0.5"},
		{"-30 sin", "-0.5"},
		{"30 cos", "0.866025404"},
		{"(a) cos", "!typeerror"},
		{"100 100 atan round", "45"},
		{"0 0 atan", "0"},
		{"0 -100 atan", "180"},
		{"-1 0 atan", "270"},
		{"100 atan", "100 !stackunderflow"},
		{"(a) 100 atan", "!typeerror"},
		{"0.00000000001", "0"},
		{"0.000000005", "5e-9"},
		{"1000000000000000000000 10 mul", "1e+22"},

		// logic and comparison
		{"2 2 and", "1"},
		{"2 0 and", "0"},
		{"2 -1 and", "1"},
		{"2 0 or", "1"},
		{"0 0 or", "0"},
		{"false not", "1"},
		{"1 not", "0"},
		{"true", "1"},
		{"false", "0"},
		{"2 2 eq", "1"},
		{"2 3 eq", "0"},
		{"2 (a) eq", "!typeerror"},
		{"(a) 2 eq", "!typeerror"},
		{"(abc) (abc) eq", "1"},
		{"(abc) (abd) lt", "1"},
		{"2 3 ne", "1"},
		{"2 2 ge", "1"},
		{"2 3 ge", "0"},
		{"2 0 gt", "1"},
		{"2 2 gt", "0"},
		{"2 3 le", "1"},
		{"2 0 le", "0"},
		{"2 3 lt", "1"},
		{"0 0 div dup eq", "0"},
		{"0 0 div dup ne", "1"},

		// stack
		{"1 dup", "1 1"},
		{"(a) dup", "(a) (a)"},
		{"[2 3] dup", "[2 3] [2 3]"},
		{"dup", "!stackunderflow"},
		{"1 2 pop", "1"},
		{"(a) pop", ""},
		{"pop", "!stackunderflow"},
		{"2 3 exch", "3 2"},
		{"2 (a) exch", "(a) 2"},
		{"2 exch", "2 !stackunderflow"},
		{"1 2 3 3 copy", "1 2 3 1 2 3"},
		{"1 2 3 0 copy", "1 2 3 !rangerror"},
		{"1 2 3 4 copy", "1 2 3 !stackunderflow"},
		{"3 4 5 0 index", "3 4 5 5"},
		{"3 4 5 2 index", "3 4 5 3"},
		{"3 4 5 3 index", "3 4 5 !limitcheck"},
		{"3 4 5 -1 index", "3 4 5 !limitcheck"},
		{"1 2 3 4 3 1 roll", "1 4 2 3"},
		{"1 2 3 4 3 -1 roll", "1 3 4 2"},
		{"1 2 3 4 3 4 roll", "1 4 2 3"},
		{"1 2 3 0 1 roll", "1 2 3"},
		{"1 2 5 1 roll", "1 2 !stackunderflow"},
		{"1 2 3 clear", ""},
		{"1 2 3 count", "1 2 3 3"},

		// control
		{"true { 2 3 add } if", "5"},
		{"false { 2 3 add } if", ""},
		{"(a) { 2 3 add } if", "!typeerror"},
		{"true if", "1 !stackunderflow"},
		{"if", "!stackunderflow"},
		{"true { 2 3 add } { 2 3 sub } ifelse", "5"},
		{"false { 2 3 add } { 2 3 sub } ifelse", "-1"},
		{"true { 2 3 add } ifelse", "1 { 2 3 add } !stackunderflow"},
		{"(a) { 2 3 add } { 2 3 sub } ifelse", "!typeerror"},
		{"0 1 1 5 { add } for", "15"},
		{"0 5 -1 1 { add } for", "15"},
		{"1 0 5 { } for", "!limitcheck"},
		{"3 2 { 4 add } repeat", "11"},
		{"3 0 { 4 add } repeat", "3"},
		{"3 -1 { 4 add } repeat", "3"},
		{"0 { 1 add dup 5 eq { exit } if } loop", "5"},
		{"0 3 { 0 { 1 add exit } loop } repeat", "0 1 1 1"},
		{"0 1 1 10 { dup 3 gt { pop exit } if add } for", "6"},
		{"exit", "!exit"},
		{"2 { 3 add } exec", "5"},
		{"{ 1 } bind exec", "1"},
		{"(nosuchfile) run", "!missingfile"},

		// dictionaries
		{"/foo 1 def 2 foo", "2 1"},
		{"/foo (abc) def 2 foo", "2 (abc)"},
		{"/foo { 72 add } def 2 foo", "74"},
		{"2 3 def", "!typeerror"},
		{"2 def", "2 !stackunderflow"},
		{"/a (abc) def /b a def /a (def) def b a", "(abc) (def)"},
		{"/foo 1 def currentdict", "{ foo: 1 }"},
		{"1 dict", "{ }"},
		{"1 dict begin /foo 1 def currentdict", "{ foo: 1 }"},
		{"/foo 1 def 1 dict begin /bar 2 def end currentdict", "{ foo: 1 }"},
		{"end", "!dictstackunderflow"},
		{"/foo 1 def currentdict /foo known", "1"},
		{"/foo 1 def 1 dict /foo known", "0"},
		{"/foo 1 def currentdict /foo get", "1"},
		{"/foo 1 def 1 dict /foo get", "!undefined"},
		{"/tri { 3 add } def 2 currentdict /tri get exec", "5"},
		{"1 dict dup /x 5 put /x get", "5"},
		{"/x 1 def /x 2 def x", "2"},

		// arrays and strings
		{"3 array", "[0 0 0]"},
		{"-3 array", "!limitcheck"},
		{"0 array", "!limitcheck"},
		{"2 string length", "2"},
		{"0 string", "!limitcheck"},
		{"(abc) 1 get", "98"},
		{"[1 2 3] 1 get", "2"},
		{"() 1 get", "!rangerror"},
		{"[1 2 3] -2 get", "!rangerror"},
		{"[1 2 3] 3 get", "!rangerror"},
		{"1 2 get", "!typeerror"},
		{"(a) get", "(a) !stackunderflow"},
		{"/a [1 2 3] def a 1 7 put a", "[1 7 3]"},
		{"/a (abc) def a 0 65 put a", "(Abc)"},
		{"[1 2 3] 3 0 put", "!rangerror"},
		{"(abc) 1 2 getinterval", "(bc)"},
		{"[1 2 3] 1 2 getinterval", "[2 3]"},
		{"(abc) 1 0 getinterval", "()"},
		{"[1 2 3] 1 0 getinterval", "[]"},
		{"() 1 2 getinterval", "!rangerror"},
		{"(abc) -2 2 getinterval", "!rangerror"},
		{"[1 2 3] 3 2 getinterval", "!rangerror"},
		{"1 2 2 getinterval", "!typeerror"},
		{"(a) 2 getinterval", "(a) 2 !stackunderflow"},
		{"/a (abc) def a 1 (ab) putinterval a", "(aab)"},
		{"/a [1 2 3] def a 1 [1 2] putinterval a", "[1 1 2]"},
		{"() 1 (a) putinterval", "!rangerror"},
		{"(abc) -2 (a) putinterval", "!rangerror"},
		{"(abc) 3 (a) putinterval", "!rangerror"},
		{"(abc) 0 [1] putinterval", "!rangerror"},
		{"1 2 2 putinterval", "1 2 !typeerror"},
		{"(a) 2 putinterval", "(a) 2 !stackunderflow"},
		{"(abc) length", "3"},
		{"[] length", "0"},
		{"1 length", "!typeerror"},
		{"(hello world) ( ) search", "(world) ( ) (hello) 1"},
		{"(hello) (x) search", "(hello) 0"},
		{"[1 2] readonly", "[1 2]"},

		// paths and the graphics state
		{"100 50 moveto", ""},
		{"100 50 moveto currentpoint", "100 50"},
		{"1 moveto", "1 !stackunderflow"},
		{"50 50 lineto", "!nocurrentpoint"},
		{"(a) 1 lineto", "!typeerror"},
		{"100 50 moveto 50 50 lineto currentpoint", "50 50"},
		{"100 50 moveto 50 150 lineto closepath currentpoint", "100 50"},
		{"50 50 closepath", "50 50 !nocurrentpoint"},
		{"100 50 moveto 100 90 50 90 50 50 curveto currentpoint", "50 50"},
		{"100 90 50 90 50 50 curveto", "!nocurrentpoint"},
		{"100 90 50 90 50 curveto", "100 90 50 90 50 !stackunderflow"},
		{"100 50 moveto 100 90 50 90 50 50 rcurveto currentpoint", "150 100"},
		{"100 90 50 90 50 50 rcurveto", "!nocurrentpoint"},
		{"100 50 moveto 50 50 rlineto currentpoint", "150 100"},
		{"50 50 rlineto", "!nocurrentpoint"},
		{"100 50 moveto 50 50 rmoveto currentpoint", "150 100"},
		{"50 50 rmoveto", "!nocurrentpoint"},
		{"0 0 moveto 10 10 20 0 qcurveto currentpoint", "20 0"},
		{"10 10 20 0 qcurveto", "!nocurrentpoint"},
		{"0 0 10 0 90 arc currentpoint", "0 10"},
		{"0 0 moveto 10 0 10 10 2 arcto", "8 0 10 2"},
		{"10 0 10 10 2 arcto", "!nocurrentpoint"},
		{"currentpoint", "!nocurrentpoint"},
		{"0 0 moveto newpath currentpoint", "!nocurrentpoint"},
		{"2 2 scale 10 10 moveto currentpoint", "10 10"},
		{"currentmatrix", "[1 0 0 1 0 0]"},
		{"2 2 scale currentmatrix", "[2 0 0 2 0 0]"},
		{"2 (a) scale currentmatrix", "2 !typeerror"},
		{"60 rotate currentmatrix", "[0.5 0.866025404 -0.866025404 0.5 0 0]"},
		{"50 100 translate currentmatrix", "[1 0 0 1 50 100]"},
		{"[1 2 3 4 5 6] setmatrix currentmatrix", "[1 2 3 4 5 6]"},
		{"[1 2 3] setmatrix", "!typeerror"},
		{"50 100 transform", "50 100"},
		{"2 2 translate 50 100 transform", "52 102"},
		{"2 2 translate 52 102 itransform", "50 100"},
		{"0 0 scale 1 1 itransform", "!undefinedresult"},
		{"50 itransform", "50 !stackunderflow"},
		{"currentgray", "0"},
		{"1 setgray currentgray", "1"},
		{"-1 setgray currentgray", "0"},
		{"3 setgray currentgray", "1"},
		{"(ab) setgray", "!typeerror"},
		{"1 0 0 setrgbcolor currentrgbcolor", "1 0 0"},
		{"0.5 setalpha currentalpha", "0.501960784"},
		{"currentlinewidth", "1"},
		{"-1 setlinewidth currentlinewidth", "0"},
		{"3 setlinewidth currentlinewidth", "3"},
		{"0.5 setgray gsave 1 setgray grestore currentgray", "0.501960784"},
		{"grestore grestore currentlinewidth", "1"},
		{"2 setlinewidth initgraphics currentlinewidth", "1"},
		{"0 0 0 0 10 10 setcachedevice", ""},

		// painting without devices
		{"fill", ""},
		{"stroke", ""},
		{"0 0 moveto 10 10 lineto stroke currentpoint", "!nocurrentpoint"},
		{"0 0 moveto 10 10 lineto clip currentpoint", "10 10"},
		{"showpage", ""},
	}
	for _, test := range cases {
		got := runStack(test.in)
		if got != test.out {
			t.Errorf("%q: got %q, want %q", test.in, got, test.out)
		}
	}
}

func TestStickyError(t *testing.T) {
	ctx := NewContext(nil)
	err := ctx.Run("1 (a) add 2 3")
	if !errors.Is(err, ErrTypeerror) {
		t.Fatalf("unexpected error %v", err)
	}
	if ctx.Err != "typeerror" {
		t.Errorf("Err = %q", ctx.Err)
	}
	if got := ctx.StackString(); got != "!typeerror" {
		t.Errorf("stack %q", got)
	}

	// Further code is ignored until the error is cleared.
	err = ctx.Run("4 5")
	if !errors.Is(err, ErrTypeerror) {
		t.Errorf("unexpected error %v", err)
	}
	if got := ctx.StackString(); got != "!typeerror" {
		t.Errorf("stack %q", got)
	}
}

func TestErrorDetail(t *testing.T) {
	ctx := NewContext(nil)
	err := ctx.Run("(a) 1 get")
	var psErr *RunError
	if !errors.As(err, &psErr) {
		t.Fatalf("unexpected error %v", err)
	}
	if psErr.Name != "rangerror" || psErr.Detail == "" {
		t.Errorf("unexpected error %#v", psErr)
	}
}

func TestRecursionLimit(t *testing.T) {
	ctx := NewContext(nil)
	err := ctx.Run("/f { f } def f")
	if !errors.Is(err, ErrExecstackoverflow) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestStepLimit(t *testing.T) {
	ctx := NewContext(nil)
	ctx.MaxSteps = 1000
	err := ctx.Run("{ } loop")
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("unexpected error %v", err)
	}
	if ctx.Steps() <= 1000 {
		t.Errorf("only %d steps", ctx.Steps())
	}
}

func TestRun(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tinyps")
	defer teardown()

	env := NewEnv(nil)
	env.Files["lib"] = "/sq { dup mul } def"
	ctx := NewContext(env)
	err := ctx.Run("(lib) run 3 sq")
	if err != nil {
		t.Fatal(err)
	}
	if got := ctx.StackString(); got != "9" {
		t.Errorf("got %q", got)
	}
}

func TestReferenceCounts(t *testing.T) {
	ctx := NewContext(nil)
	if err := ctx.Run("(a) dup"); err != nil {
		t.Fatal(err)
	}
	h := Handle(ctx.Stack[0].(String))

	for _, want := range []int{2, 1, 0} {
		if got := ctx.Heap.Refs(h); got != want {
			t.Errorf("%s: %d references, want %d", ctx.StackString(), got, want)
		}
		if want > 0 {
			if err := ctx.Run("pop"); err != nil {
				t.Fatal(err)
			}
		}
	}
	if ctx.Heap.Live() != 0 {
		t.Errorf("%d live objects", ctx.Heap.Live())
	}
}

func TestHeapOwnership(t *testing.T) {
	type testCase struct {
		in   string
		live int
	}
	cases := []testCase{
		{"(a) pop", 0},
		{"(a) dup pop pop", 0},
		{"[ (a) (b) ] pop", 0},
		{"[ (a) [ (b) ] ] dup 1 get pop pop", 0},
		{"/a [ (x) ] def", 2},
		{"/a [ (x) ] def a pop", 2},
		{"/a (x) def /a 1 def", 0},
		{"(abc) (b) search clear", 0},
		{"(abc) (x) search clear", 0},
		{"[1 2 3] 1 2 getinterval clear", 0},
		{"/a [ (x) (y) ] def a 0 [ (z) ] putinterval", 3},
		{"/a [ (x) ] def a 0 1 put", 1},
		{"(a) 1 add", 0},
		{"1 2 3 (a) (b) 5 copy clear", 0},
		{"(a) (b) (c) 3 1 roll clear", 0},
		{"(a) 0 index clear", 0},
		{"[ (a) ] 0 get", 1},
		{"(x) 3 { dup } repeat clear", 0},
	}
	for _, test := range cases {
		ctx := NewContext(nil)
		_ = ctx.Run(test.in)
		if got := ctx.Heap.Live(); got != test.live {
			t.Errorf("%q: %d live objects, want %d", test.in, got, test.live)
		}
	}
}

func TestReuseFreedSlots(t *testing.T) {
	ctx := NewContext(nil)
	_ = ctx.Run("(a) (b) (c) pop pop pop (d)")
	if got := ctx.Stack[0].(String); got != 0 {
		t.Errorf("new string uses slot %d, want 0", got)
	}
}
