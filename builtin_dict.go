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
	"slices"
	"strings"
)

func bArray(ctx *Context) error {
	x, err := ctx.popNumbers(1)
	if err != nil {
		return err
	}
	n := x[0]
	if !(n >= 1 && n <= maxOperandStackDepth) {
		return ctx.e(ErrLimitcheck, "invalid size %s", formatNumber(n))
	}
	elems := make([]Value, int(n))
	for i := range elems {
		elems[i] = Number(0)
	}
	ctx.push(ctx.Heap.NewArray(elems))
	return nil
}

func bString(ctx *Context) error {
	x, err := ctx.popNumbers(1)
	if err != nil {
		return err
	}
	n := x[0]
	if !(n >= 1 && n <= maxOperandStackDepth) {
		return ctx.e(ErrLimitcheck, "invalid size %s", formatNumber(n))
	}
	ctx.push(ctx.Heap.NewString(make([]rune, int(n))))
	return nil
}

// bDict creates a new dictionary.  The capacity argument is ignored.
func bDict(ctx *Context) error {
	_, err := ctx.popNumbers(1)
	if err != nil {
		return err
	}
	ctx.push(NewDict())
	return nil
}

func bBegin(ctx *Context) error {
	vals, err := ctx.pop(KindDict)
	if err != nil {
		return err
	}
	ctx.DictStack = append(ctx.DictStack, vals[0].(*Dict))
	return nil
}

func bEnd(ctx *Context) error {
	if len(ctx.DictStack) < 2 {
		return ctx.e(ErrDictstackunderflow, "cannot remove the user dictionary")
	}
	ctx.DictStack = ctx.DictStack[:len(ctx.DictStack)-1]
	return nil
}

func (ctx *Context) currentDict() *Dict {
	return ctx.DictStack[len(ctx.DictStack)-1]
}

func bDef(ctx *Context) error {
	vals, err := ctx.pop(KindName, kindAny)
	if err != nil {
		return err
	}
	old, replaced := ctx.currentDict().Put(vals[0].(Name), vals[1])
	if replaced {
		ctx.release(old)
	}
	return nil
}

func bKnown(ctx *Context) error {
	vals, err := ctx.pop(KindDict, KindName)
	if err != nil {
		return err
	}
	_, ok := vals[0].(*Dict).Get(vals[1].(Name))
	ctx.push(boolValue(ok))
	return nil
}

// checkIndex converts a stack value into an index for a container of
// length n.
func (ctx *Context) checkIndex(key Value, n int) (int, error) {
	x, ok := key.(Number)
	if !ok {
		return 0, ctx.e(ErrTypeerror, "index must be a number")
	}
	if !(x >= 0 && x < Number(n)) {
		return 0, ctx.e(ErrRangeerror, "index %s out of range", formatNumber(float64(x)))
	}
	return int(x), nil
}

func bGet(ctx *Context) error {
	vals, err := ctx.pop(KindArray|KindString|KindDict, KindNumber|KindName)
	if err != nil {
		return err
	}
	defer ctx.release(vals[0])

	switch obj := vals[0].(type) {
	case *Dict:
		key, ok := vals[1].(Name)
		if !ok {
			return ctx.e(ErrTypeerror, "dictionary keys must be names")
		}
		v, ok := obj.Get(key)
		if !ok {
			return ctx.e(ErrUndefined, "key /%s not found", key)
		}
		ctx.Heap.Inc(v)
		ctx.push(v)
	case Array:
		elems := ctx.Heap.Elems(obj)
		i, err := ctx.checkIndex(vals[1], len(elems))
		if err != nil {
			return err
		}
		ctx.Heap.Inc(elems[i])
		ctx.push(elems[i])
	case String:
		text := ctx.Heap.Runes(obj)
		i, err := ctx.checkIndex(vals[1], len(text))
		if err != nil {
			return err
		}
		ctx.push(Number(text[i]))
	}
	return nil
}

// bPut stores a value in an array, string or dictionary.  The reference
// held by the stack moves into the container.
func bPut(ctx *Context) error {
	vals, err := ctx.pop(KindArray|KindString|KindDict, KindNumber|KindName, kindAny)
	if err != nil {
		return err
	}
	defer ctx.release(vals[0])

	switch obj := vals[0].(type) {
	case *Dict:
		key, ok := vals[1].(Name)
		if !ok {
			ctx.release(vals[2])
			return ctx.e(ErrTypeerror, "dictionary keys must be names")
		}
		old, replaced := obj.Put(key, vals[2])
		if replaced {
			ctx.release(old)
		}
	case Array:
		elems := ctx.Heap.Elems(obj)
		i, err := ctx.checkIndex(vals[1], len(elems))
		if err != nil {
			ctx.release(vals[2])
			return err
		}
		old := elems[i]
		elems[i] = vals[2]
		ctx.release(old)
	case String:
		text := ctx.Heap.Runes(obj)
		i, err := ctx.checkIndex(vals[1], len(text))
		if err != nil {
			ctx.release(vals[2])
			return err
		}
		c, ok := vals[2].(Number)
		if !ok {
			ctx.release(vals[2])
			return ctx.e(ErrTypeerror, "string elements must be numbers")
		}
		text[i] = rune(c)
	}
	return nil
}

func bGetinterval(ctx *Context) error {
	vals, err := ctx.pop(KindArray|KindString, KindNumber, KindNumber)
	if err != nil {
		return err
	}
	defer ctx.release(vals[0])

	var n int
	switch obj := vals[0].(type) {
	case Array:
		n = len(ctx.Heap.Elems(obj))
	case String:
		n = len(ctx.Heap.Runes(obj))
	}
	start := float64(vals[1].(Number))
	count := float64(vals[2].(Number))
	if !(start >= 0 && count >= 0 && start+count <= float64(n)) {
		return ctx.e(ErrRangeerror, "interval %s+%s out of range", formatNumber(start), formatNumber(count))
	}
	a, b := int(start), int(start)+int(count)

	switch obj := vals[0].(type) {
	case Array:
		elems := slices.Clone(ctx.Heap.Elems(obj)[a:b])
		for _, v := range elems {
			ctx.Heap.Inc(v)
		}
		ctx.push(ctx.Heap.NewArray(elems))
	case String:
		ctx.push(ctx.Heap.NewString(slices.Clone(ctx.Heap.Runes(obj)[a:b])))
	}
	return nil
}

func bPutinterval(ctx *Context) error {
	vals, err := ctx.pop(KindArray|KindString, KindNumber, KindArray|KindString)
	if err != nil {
		return err
	}
	defer ctx.release(vals[0], vals[2])

	if vals[0].kind() != vals[2].kind() {
		return ctx.e(ErrRangeerror, "cannot copy %s into %s", vals[2].kind(), vals[0].kind())
	}
	start := float64(vals[1].(Number))

	switch dst := vals[0].(type) {
	case Array:
		src := slices.Clone(ctx.Heap.Elems(vals[2].(Array)))
		elems := ctx.Heap.Elems(dst)
		if !(start >= 0 && start+float64(len(src)) <= float64(len(elems))) {
			return ctx.e(ErrRangeerror, "index %s out of range", formatNumber(start))
		}
		for i, v := range src {
			ctx.Heap.Inc(v)
			old := elems[int(start)+i]
			elems[int(start)+i] = v
			ctx.release(old)
		}
	case String:
		src := ctx.Heap.Runes(vals[2].(String))
		text := ctx.Heap.Runes(dst)
		if !(start >= 0 && start+float64(len(src)) <= float64(len(text))) {
			return ctx.e(ErrRangeerror, "index %s out of range", formatNumber(start))
		}
		copy(text[int(start):], src)
	}
	return nil
}

func bLength(ctx *Context) error {
	vals, err := ctx.pop(KindArray | KindString | KindDict)
	if err != nil {
		return err
	}
	var n int
	switch obj := vals[0].(type) {
	case Array:
		n = len(ctx.Heap.Elems(obj))
	case String:
		n = len(ctx.Heap.Runes(obj))
	case *Dict:
		n = obj.Len()
	}
	ctx.release(vals[0])
	ctx.push(Number(n))
	return nil
}

// bSearch looks for seek in a string.  On success it pushes the part
// after the match, the match and the part before the match, followed by
// true.  Otherwise it pushes the original string and false.
func bSearch(ctx *Context) error {
	vals, err := ctx.pop(KindString, KindString)
	if err != nil {
		return err
	}
	source, seek := vals[0].(String), vals[1].(String)
	text := string(ctx.Heap.Runes(source))
	pre, post, found := strings.Cut(text, string(ctx.Heap.Runes(seek)))
	if !found {
		ctx.release(seek)
		ctx.push(source, Number(0))
		return nil
	}
	ctx.push(
		ctx.Heap.NewString([]rune(post)),
		seek,
		ctx.Heap.NewString([]rune(pre)),
		Number(1))
	ctx.release(source)
	return nil
}

func bCurrentdict(ctx *Context) error {
	ctx.push(ctx.currentDict())
	return nil
}

// bReadonly is a no-op.  Access restrictions are not implemented.
func bReadonly(ctx *Context) error {
	return nil
}
