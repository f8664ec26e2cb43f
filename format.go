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
	"strconv"
	"strings"
)

// maxFormatDepth limits the nesting depth of formatted values.  Arrays
// can contain themselves, so deeper levels are shown as "...".
const maxFormatDepth = 8

// Format returns the text representation of a value.
func (ctx *Context) Format(v Value) string {
	b := &strings.Builder{}
	ctx.format(b, v, 0)
	return b.String()
}

// StackString returns the text representation of the operand stack,
// bottom first.
func (ctx *Context) StackString() string {
	b := &strings.Builder{}
	for i, v := range ctx.Stack {
		if i > 0 {
			b.WriteByte(' ')
		}
		ctx.format(b, v, 0)
	}
	return b.String()
}

func (ctx *Context) format(b *strings.Builder, v Value, depth int) {
	if depth > maxFormatDepth {
		b.WriteString("...")
		return
	}

	switch v := v.(type) {
	case Number:
		b.WriteString(formatNumber(float64(v)))
	case Name:
		b.WriteString("/" + string(v))
	case String:
		b.WriteString("(" + string(ctx.Heap.Runes(v)) + ")")
	case Array:
		b.WriteByte('[')
		for i, elem := range ctx.Heap.Elems(v) {
			if i > 0 {
				b.WriteByte(' ')
			}
			ctx.format(b, elem, depth+1)
		}
		b.WriteByte(']')
	case *Dict:
		if v.Len() == 0 {
			b.WriteString("{ }")
			return
		}
		b.WriteString("{ ")
		for i, key := range v.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			val, _ := v.Get(key)
			b.WriteString(string(key) + ": ")
			ctx.format(b, val, depth+1)
		}
		b.WriteString(" }")
	case *Procedure:
		b.WriteString("{" + v.Body + "}")
	case Mark:
		b.WriteByte('[')
	case Error:
		b.WriteString("!" + string(v))
	}
}

// formatNumber formats a number the way JavaScript prints numbers, after
// rounding to nine decimal places.
func formatNumber(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	case math.Abs(x) < 1e-10:
		return "0"
	}

	if r := math.Floor(x*1e9+0.5) / 1e9; !math.IsInf(r, 0) && !math.IsNaN(r) {
		x = r
	}
	if x == 0 {
		return "0"
	}

	abs := math.Abs(x)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}

	s := strconv.FormatFloat(x, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[0]
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	return mant + "e" + string(sign) + exp
}
