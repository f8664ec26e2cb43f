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
	"image/color"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

func bGsave(ctx *Context) error {
	ctx.GStack = append(ctx.GStack, ctx.gs().Clone())
	return nil
}

// bGrestore restores the graphics state saved by the matching gsave.
// With no saved state, the current state is kept.
func bGrestore(ctx *Context) error {
	n := len(ctx.GStack)
	if n > 1 {
		ctx.GStack = ctx.GStack[:n-1]
	} else {
		ctx.GStack[0] = ctx.GStack[0].Clone()
	}
	return nil
}

func bInitgraphics(ctx *Context) error {
	ctx.initGraphics()
	return nil
}

func bTranslate(ctx *Context) error {
	x, err := ctx.popNumbers(2)
	if err != nil {
		return err
	}
	ctx.gs().Translate(x[0], x[1])
	return nil
}

func bScale(ctx *Context) error {
	x, err := ctx.popNumbers(2)
	if err != nil {
		return err
	}
	ctx.gs().Scale(x[0], x[1])
	return nil
}

func bRotate(ctx *Context) error {
	x, err := ctx.popNumbers(1)
	if err != nil {
		return err
	}
	ctx.gs().Rotate(x[0])
	return nil
}

func bSetmatrix(ctx *Context) error {
	vals, err := ctx.pop(KindArray)
	if err != nil {
		return err
	}
	a := vals[0].(Array)
	defer ctx.release(a)

	elems := ctx.Heap.Elems(a)
	if len(elems) != 6 {
		return ctx.e(ErrTypeerror, "need 6 matrix elements, got %d", len(elems))
	}
	var M matrix.Matrix
	for i, v := range elems {
		x, ok := v.(Number)
		if !ok {
			return ctx.e(ErrTypeerror, "matrix elements must be numbers")
		}
		M[i] = float64(x)
	}
	ctx.gs().CTM = M
	return nil
}

func bCurrentmatrix(ctx *Context) error {
	M := ctx.gs().CTM
	elems := make([]Value, len(M))
	for i, x := range M {
		elems[i] = Number(x)
	}
	ctx.push(ctx.Heap.NewArray(elems))
	return nil
}

func bTransform(ctx *Context) error {
	x, err := ctx.popNumbers(2)
	if err != nil {
		return err
	}
	p := ctx.gs().Transform(x[0], x[1])
	ctx.push(Number(p.X), Number(p.Y))
	return nil
}

func bItransform(ctx *Context) error {
	x, err := ctx.popNumbers(2)
	if err != nil {
		return err
	}
	ux, uy, err := ctx.gs().ITransform(vec.Vec2{X: x[0], Y: x[1]})
	if err != nil {
		return ctx.e(ErrUndefinedresult, "%v", err)
	}
	ctx.push(Number(ux), Number(uy))
	return nil
}

// colorByte converts a color component in the range [0, 1] to a byte.
// Values outside the range are clamped.
func colorByte(x float64) uint8 {
	if !(x > 0) {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(math.Floor(x*255 + 0.5))
}

func bSetrgbcolor(ctx *Context) error {
	x, err := ctx.popNumbers(3)
	if err != nil {
		return err
	}
	gs := ctx.gs()
	gs.Color = color.NRGBA{
		R: colorByte(x[0]),
		G: colorByte(x[1]),
		B: colorByte(x[2]),
		A: gs.Color.A,
	}
	return nil
}

func bCurrentrgbcolor(ctx *Context) error {
	c := ctx.gs().Color
	ctx.push(Number(float64(c.R)/255), Number(float64(c.G)/255), Number(float64(c.B)/255))
	return nil
}

func bSetgray(ctx *Context) error {
	x, err := ctx.popNumbers(1)
	if err != nil {
		return err
	}
	gs := ctx.gs()
	g := colorByte(x[0])
	gs.Color = color.NRGBA{R: g, G: g, B: g, A: gs.Color.A}
	return nil
}

func bCurrentgray(ctx *Context) error {
	ctx.push(Number(ctx.gs().Gray()))
	return nil
}

func bSetalpha(ctx *Context) error {
	x, err := ctx.popNumbers(1)
	if err != nil {
		return err
	}
	ctx.gs().Color.A = colorByte(x[0])
	return nil
}

func bCurrentalpha(ctx *Context) error {
	ctx.push(Number(float64(ctx.gs().Color.A) / 255))
	return nil
}

func bSetlinewidth(ctx *Context) error {
	x, err := ctx.popNumbers(1)
	if err != nil {
		return err
	}
	w := x[0]
	if !(w > 0) {
		w = 0
	}
	ctx.gs().LineWidth = w
	return nil
}

func bCurrentlinewidth(ctx *Context) error {
	ctx.push(Number(ctx.gs().LineWidth))
	return nil
}

// bSetcachedevice records the glyph metrics.  The values are not used
// for rendering.
func bSetcachedevice(ctx *Context) error {
	x, err := ctx.popNumbers(6)
	if err != nil {
		return err
	}
	copy(ctx.gs().CacheDevice[:], x)
	return nil
}
