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
	"math"
	"math/rand/v2"
	"strings"
)

func numeric1(f func(x float64) float64) builtin {
	return func(ctx *Context) error {
		x, err := ctx.popNumbers(1)
		if err != nil {
			return err
		}
		ctx.push(Number(f(x[0])))
		return nil
	}
}

func numeric2(f func(a, b float64) float64) builtin {
	return func(ctx *Context) error {
		x, err := ctx.popNumbers(2)
		if err != nil {
			return err
		}
		ctx.push(Number(f(x[0], x[1])))
		return nil
	}
}

var (
	bAbs  = numeric1(math.Abs)
	bNeg  = numeric1(func(x float64) float64 { return -x })
	bSqrt = numeric1(math.Sqrt)
	bSin  = numeric1(func(x float64) float64 { return math.Sin(x * math.Pi / 180) })
	bCos  = numeric1(func(x float64) float64 { return math.Cos(x * math.Pi / 180) })

	// round rounds halfway cases towards positive infinity.
	bRound = numeric1(func(x float64) float64 { return math.Floor(x + 0.5) })

	bAdd = numeric2(func(a, b float64) float64 { return a + b })
	bSub = numeric2(func(a, b float64) float64 { return a - b })
	bMul = numeric2(func(a, b float64) float64 { return a * b })
	bDiv = numeric2(func(a, b float64) float64 { return a / b })
	bMin = numeric2(math.Min)
	bMax = numeric2(math.Max)

	// idiv and mod truncate towards zero.
	bIdiv = numeric2(func(a, b float64) float64 { return math.Trunc(a / b) })
	bMod  = numeric2(math.Mod)
)

// bAtan computes the angle of the vector (den, num) in degrees, in the
// range [0, 360).
func bAtan(ctx *Context) error {
	x, err := ctx.popNumbers(2)
	if err != nil {
		return err
	}
	num, den := x[0], x[1]
	a := math.Atan2(num, den) * 180 / math.Pi
	if a < 0 {
		a += 360
	}
	ctx.push(Number(a))
	return nil
}

// bRand pushes a random number in the range [0, 2^31).
func bRand(ctx *Context) error {
	ctx.push(Number(math.Floor(rand.Float64() * (1 << 31))))
	return nil
}

func bAnd(ctx *Context) error {
	x, err := ctx.popNumbers(2)
	if err != nil {
		return err
	}
	ctx.push(boolValue(x[0] != 0 && x[1] != 0))
	return nil
}

func bOr(ctx *Context) error {
	x, err := ctx.popNumbers(2)
	if err != nil {
		return err
	}
	ctx.push(boolValue(x[0] != 0 || x[1] != 0))
	return nil
}

func bNot(ctx *Context) error {
	x, err := ctx.popNumbers(1)
	if err != nil {
		return err
	}
	ctx.push(boolValue(x[0] == 0))
	return nil
}

func bTrue(ctx *Context) error {
	ctx.push(Number(1))
	return nil
}

func bFalse(ctx *Context) error {
	ctx.push(Number(0))
	return nil
}

// compareTop pops two numbers or two strings and compares them.  The
// second result is false if the values are unordered, which happens
// when a NaN is involved.
func (ctx *Context) compareTop() (int, bool, error) {
	vals, err := ctx.pop(KindNumber|KindString, KindNumber|KindString)
	if err != nil {
		return 0, false, err
	}
	defer ctx.release(vals...)

	switch a := vals[0].(type) {
	case Number:
		b, ok := vals[1].(Number)
		if !ok {
			return 0, false, ctx.e(ErrTypeerror, "cannot compare number and string")
		}
		switch {
		case a < b:
			return -1, true, nil
		case a > b:
			return 1, true, nil
		case a == b:
			return 0, true, nil
		}
		return 0, false, nil
	default:
		b, ok := vals[1].(String)
		if !ok {
			return 0, false, ctx.e(ErrTypeerror, "cannot compare string and number")
		}
		sa := string(ctx.Heap.Runes(a.(String)))
		sb := string(ctx.Heap.Runes(b))
		return strings.Compare(sa, sb), true, nil
	}
}

func comparison(test func(c int) bool) builtin {
	return func(ctx *Context) error {
		c, ordered, err := ctx.compareTop()
		if err != nil {
			return err
		}
		ctx.push(boolValue(ordered && test(c)))
		return nil
	}
}

var (
	bEq = comparison(func(c int) bool { return c == 0 })
	bLt = comparison(func(c int) bool { return c < 0 })
	bLe = comparison(func(c int) bool { return c <= 0 })
	bGt = comparison(func(c int) bool { return c > 0 })
	bGe = comparison(func(c int) bool { return c >= 0 })
)

func bNe(ctx *Context) error {
	c, ordered, err := ctx.compareTop()
	if err != nil {
		return err
	}
	ctx.push(boolValue(!ordered || c != 0))
	return nil
}

func bDup(ctx *Context) error {
	vals, err := ctx.pop(kindAny)
	if err != nil {
		return err
	}
	ctx.Heap.Inc(vals[0])
	ctx.push(vals[0], vals[0])
	return nil
}

func bPop(ctx *Context) error {
	vals, err := ctx.pop(kindAny)
	if err != nil {
		return err
	}
	ctx.release(vals...)
	return nil
}

func bExch(ctx *Context) error {
	vals, err := ctx.pop(kindAny, kindAny)
	if err != nil {
		return err
	}
	ctx.push(vals[1], vals[0])
	return nil
}

// bCopy duplicates the top n values of the stack.
func bCopy(ctx *Context) error {
	x, err := ctx.popNumbers(1)
	if err != nil {
		return err
	}
	n := x[0]
	if !(n >= 1) {
		return ctx.e(ErrRangeerror, "invalid count %s", formatNumber(n))
	}
	if n > float64(len(ctx.Stack)) {
		return ctx.e(ErrStackunderflow, "cannot copy %s values", formatNumber(n))
	}
	top := ctx.Stack[len(ctx.Stack)-int(n):]
	for _, v := range top {
		ctx.Heap.Inc(v)
	}
	ctx.push(top...)
	return nil
}

func bIndex(ctx *Context) error {
	x, err := ctx.popNumbers(1)
	if err != nil {
		return err
	}
	i := x[0]
	if !(i >= 0 && i < float64(len(ctx.Stack))) {
		return ctx.e(ErrLimitcheck, "index %s out of range", formatNumber(i))
	}
	v := ctx.Stack[len(ctx.Stack)-1-int(i)]
	ctx.Heap.Inc(v)
	ctx.push(v)
	return nil
}

// bRoll rotates the top n values of the stack by j positions.  Positive
// values of j move values towards the top of the stack.
func bRoll(ctx *Context) error {
	x, err := ctx.popNumbers(2)
	if err != nil {
		return err
	}
	n, j := x[0], x[1]
	if !(n >= 0) || math.IsInf(j, 0) || math.IsNaN(j) {
		return ctx.e(ErrRangeerror, "invalid arguments")
	}
	if n > float64(len(ctx.Stack)) {
		return ctx.e(ErrStackunderflow, "cannot roll %s values", formatNumber(n))
	}
	size := int(n)
	if size == 0 {
		return nil
	}

	k := int(math.Mod(math.Trunc(j), n))
	if k < 0 {
		k += size
	}
	seg := ctx.Stack[len(ctx.Stack)-size:]
	rolled := make([]Value, 0, size)
	rolled = append(rolled, seg[size-k:]...)
	rolled = append(rolled, seg[:size-k]...)
	copy(seg, rolled)
	return nil
}

func bClear(ctx *Context) error {
	ctx.release(ctx.Stack...)
	ctx.Stack = ctx.Stack[:0]
	return nil
}

func bCount(ctx *Context) error {
	ctx.push(Number(len(ctx.Stack)))
	return nil
}

func bIf(ctx *Context) error {
	vals, err := ctx.pop(KindNumber, KindProcedure)
	if err != nil {
		return err
	}
	if vals[0].(Number) != 0 {
		ctx.execute(vals[1].(*Procedure).instructions())
	}
	return nil
}

func bIfelse(ctx *Context) error {
	vals, err := ctx.pop(KindNumber, KindProcedure, KindProcedure)
	if err != nil {
		return err
	}
	body := vals[2].(*Procedure)
	if vals[0].(Number) != 0 {
		body = vals[1].(*Procedure)
	}
	ctx.execute(body.instructions())
	return nil
}

// bFor runs a procedure for each value of a control variable.  The
// variable is pushed before each iteration.
func bFor(ctx *Context) error {
	vals, err := ctx.pop(KindNumber, KindNumber, KindNumber, KindProcedure)
	if err != nil {
		return err
	}
	init := float64(vals[0].(Number))
	inc := float64(vals[1].(Number))
	limit := float64(vals[2].(Number))
	body := vals[3].(*Procedure)
	if inc == 0 || math.IsNaN(inc) {
		return ctx.e(ErrLimitcheck, "invalid increment %s", formatNumber(inc))
	}

	for i := init; inc > 0 && i <= limit || inc < 0 && i >= limit; i += inc {
		ctx.push(Number(i))
		if !ctx.runLoopBody(body) {
			break
		}
	}
	return nil
}

func bRepeat(ctx *Context) error {
	vals, err := ctx.pop(KindNumber, KindProcedure)
	if err != nil {
		return err
	}
	n := float64(vals[0].(Number))
	body := vals[1].(*Procedure)
	for ; n > 0; n-- {
		if !ctx.runLoopBody(body) {
			break
		}
	}
	return nil
}

func bLoop(ctx *Context) error {
	vals, err := ctx.pop(KindProcedure)
	if err != nil {
		return err
	}
	body := vals[0].(*Procedure)
	for ctx.runLoopBody(body) {
	}
	return nil
}

func bExit(ctx *Context) error {
	return errExit
}

func bExec(ctx *Context) error {
	vals, err := ctx.pop(KindProcedure)
	if err != nil {
		return err
	}
	ctx.execute(vals[0].(*Procedure).instructions())
	return nil
}

// bBind is a no-op.  Operators are looked up when a name is executed.
func bBind(ctx *Context) error {
	return nil
}

// bRun executes a program from the file table of the environment.
func bRun(ctx *Context) error {
	vals, err := ctx.pop(KindString)
	if err != nil {
		return err
	}
	name := string(ctx.Heap.Runes(vals[0].(String)))
	ctx.release(vals...)

	code, ok := ctx.env.Files[name]
	if !ok {
		return ctx.e(ErrMissingfile, "%q not found", name)
	}
	tracer().Debugf("run %q", name)
	ctx.execute(compile(code))
	return nil
}
