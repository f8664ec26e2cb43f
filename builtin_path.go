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

	"seehuhn.de/go/geom/vec"
)

// userPoint returns the current point in user space.
func (ctx *Context) userPoint() (float64, float64, error) {
	gs := ctx.gs()
	if !gs.HasCurrent {
		return 0, 0, ctx.e(ErrNocurrentpoint, "no current point")
	}
	x, y, err := gs.ITransform(gs.Current)
	if err != nil {
		return 0, 0, ctx.e(ErrUndefinedresult, "%v", err)
	}
	return x, y, nil
}

func (ctx *Context) needCurrentPoint() error {
	if !ctx.gs().HasCurrent {
		return ctx.e(ErrNocurrentpoint, "no current point")
	}
	return nil
}

func bNewpath(ctx *Context) error {
	ctx.gs().NewPath()
	return nil
}

func bMoveto(ctx *Context) error {
	x, err := ctx.popNumbers(2)
	if err != nil {
		return err
	}
	gs := ctx.gs()
	gs.MoveTo(gs.Transform(x[0], x[1]))
	return nil
}

func bRmoveto(ctx *Context) error {
	x, err := ctx.popNumbers(2)
	if err != nil {
		return err
	}
	cx, cy, err := ctx.userPoint()
	if err != nil {
		return err
	}
	gs := ctx.gs()
	gs.MoveTo(gs.Transform(cx+x[0], cy+x[1]))
	return nil
}

func bLineto(ctx *Context) error {
	x, err := ctx.popNumbers(2)
	if err != nil {
		return err
	}
	if err := ctx.needCurrentPoint(); err != nil {
		return err
	}
	gs := ctx.gs()
	gs.LineTo(gs.Transform(x[0], x[1]))
	return nil
}

func bRlineto(ctx *Context) error {
	x, err := ctx.popNumbers(2)
	if err != nil {
		return err
	}
	cx, cy, err := ctx.userPoint()
	if err != nil {
		return err
	}
	gs := ctx.gs()
	gs.LineTo(gs.Transform(cx+x[0], cy+x[1]))
	return nil
}

func bCurveto(ctx *Context) error {
	x, err := ctx.popNumbers(6)
	if err != nil {
		return err
	}
	if err := ctx.needCurrentPoint(); err != nil {
		return err
	}
	gs := ctx.gs()
	gs.CurveTo(gs.Transform(x[0], x[1]), gs.Transform(x[2], x[3]), gs.Transform(x[4], x[5]))
	return nil
}

func bRcurveto(ctx *Context) error {
	x, err := ctx.popNumbers(6)
	if err != nil {
		return err
	}
	cx, cy, err := ctx.userPoint()
	if err != nil {
		return err
	}
	gs := ctx.gs()
	gs.CurveTo(
		gs.Transform(cx+x[0], cy+x[1]),
		gs.Transform(cx+x[2], cy+x[3]),
		gs.Transform(cx+x[4], cy+x[5]))
	return nil
}

// bQcurveto appends a quadratic Bézier curve, given by a control point
// and an end point.
func bQcurveto(ctx *Context) error {
	x, err := ctx.popNumbers(4)
	if err != nil {
		return err
	}
	if err := ctx.needCurrentPoint(); err != nil {
		return err
	}
	gs := ctx.gs()
	p0 := gs.Current
	q := gs.Transform(x[0], x[1])
	p3 := gs.Transform(x[2], x[3])
	p1 := p0.Add(q.Sub(p0).Mul(2.0 / 3))
	p2 := p3.Add(q.Sub(p3).Mul(2.0 / 3))
	gs.CurveTo(p1, p2, p3)
	return nil
}

// bArc appends a counter-clockwise circular arc.  The arc is split into
// pieces of at most 90 degrees, each approximated by a cubic Bézier
// curve.  If there is a current point, a straight line connects it to
// the start of the arc.
func bArc(ctx *Context) error {
	x, err := ctx.popNumbers(5)
	if err != nil {
		return err
	}
	cx, cy, r, a1, a2 := x[0], x[1], x[2], x[3], x[4]
	for _, v := range x {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return ctx.e(ErrRangeerror, "invalid arc parameters")
		}
	}
	if a2 <= a1 {
		d := math.Mod(a2-a1, 360)
		if d <= 0 {
			d += 360
		}
		a2 = a1 + d
	}

	gs := ctx.gs()
	onCircle := func(deg float64) (vec.Vec2, vec.Vec2) {
		sin, cos := math.Sincos(deg * math.Pi / 180)
		return vec.Vec2{X: cx + r*cos, Y: cy + r*sin}, vec.Vec2{X: -sin, Y: cos}
	}
	p, _ := onCircle(a1)
	if gs.HasCurrent {
		gs.LineTo(gs.Transform(p.X, p.Y))
	} else {
		gs.MoveTo(gs.Transform(p.X, p.Y))
	}

	for a1 < a2 {
		if !ctx.tick() {
			return nil
		}
		b := min(a1+90, a2)
		k := r * 4 / 3 * math.Tan((b-a1)*math.Pi/720)
		p1, t1 := onCircle(a1)
		p4, t4 := onCircle(b)
		c1 := p1.Add(t1.Mul(k))
		c2 := p4.Sub(t4.Mul(k))
		gs.CurveTo(gs.Transform(c1.X, c1.Y), gs.Transform(c2.X, c2.Y), gs.Transform(p4.X, p4.Y))
		a1 = b
	}
	return nil
}

// bArcto rounds the corner at (x1, y1) between the current point and
// (x2, y2) with a circular arc of radius r.  The tangent points are
// pushed onto the stack.
func bArcto(ctx *Context) error {
	x, err := ctx.popNumbers(5)
	if err != nil {
		return err
	}
	x0, y0, err := ctx.userPoint()
	if err != nil {
		return err
	}
	x1, y1, x2, y2, r := x[0], x[1], x[2], x[3], x[4]

	a1 := math.Atan2(y1-y0, x1-x0)
	a2 := math.Atan2(y2-y1, x2-x1)
	xt1 := x1 - math.Cos(a1)*r
	yt1 := y1 - math.Sin(a1)*r
	xt2 := x1 + math.Cos(a2)*r
	yt2 := y1 + math.Sin(a2)*r
	lt := math.Abs(r * 4 / 3 * (math.Sqrt2 - 1))

	gs := ctx.gs()
	gs.LineTo(gs.Transform(xt1, yt1))
	gs.CurveTo(
		gs.Transform(xt1+math.Cos(a1)*lt, yt1+math.Sin(a1)*lt),
		gs.Transform(xt2-math.Cos(a2)*lt, yt2-math.Sin(a2)*lt),
		gs.Transform(xt2, yt2))

	ctx.push(Number(xt1), Number(yt1), Number(xt2), Number(yt2))
	return nil
}

func bClosepath(ctx *Context) error {
	gs := ctx.gs()
	if !gs.HasCurrent {
		return ctx.e(ErrNocurrentpoint, "no current point")
	}
	if gs.IsEmpty() {
		return ctx.e(ErrNocurrentpath, "no current path")
	}
	gs.ClosePath()
	return nil
}

func bCurrentpoint(ctx *Context) error {
	x, y, err := ctx.userPoint()
	if err != nil {
		return err
	}
	ctx.push(Number(x), Number(y))
	return nil
}
