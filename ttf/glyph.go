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

package ttf

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// MaxComponentDepth limits the nesting of composite glyphs.  Components
// nested more deeply are ignored.
const MaxComponentDepth = 8

// Point is a point of a glyph outline, in font units.
type Point struct {
	X, Y    int16
	OnCurve bool
}

// Glyph is the outline data of one glyph.  For simple glyphs, Contours is
// set.  For composite glyphs, Components is set.
type Glyph struct {
	BBox       rect.Rect
	Contours   [][]Point
	Components []Component
}

// Component is one part of a composite glyph.
type Component struct {
	GlyphIndex uint16

	// Transform maps the coordinates of the component glyph to the
	// coordinates of the composite glyph.
	Transform matrix.Matrix
}

// flags for simple glyphs
const (
	flagOnCurve = 0x01
	flagXShort  = 0x02
	flagYShort  = 0x04
	flagRepeat  = 0x08
	flagXSame   = 0x10
	flagYSame   = 0x20
)

// flags for composite glyph components
const (
	flagArgWords     = 0x0001
	flagArgsAreXY    = 0x0002
	flagHaveScale    = 0x0008
	flagMoreComps    = 0x0020
	flagXYScale      = 0x0040
	flagTwoByTwo     = 0x0080
	flagInstructions = 0x0100
)

func readGlyph(r *reader) (*Glyph, error) {
	numContours := r.i16()
	g := &Glyph{
		BBox: rect.Rect{
			LLx: float64(r.i16()),
			LLy: float64(r.i16()),
			URx: float64(r.i16()),
			URy: float64(r.i16()),
		},
	}
	if r.err != nil {
		return nil, r.err
	}
	if numContours >= 0 {
		g.Contours = readSimple(r, int(numContours))
	} else {
		g.Components = readComposite(r)
	}
	if r.err != nil {
		return nil, r.err
	}
	return g, nil
}

func readSimple(r *reader, numContours int) [][]Point {
	endPts := make([]int, numContours)
	numPoints := 0
	for i := range endPts {
		endPts[i] = int(r.u16())
		numPoints = max(numPoints, endPts[i]+1)
	}
	r.skip(int(r.u16())) // instructions
	if r.err != nil {
		return nil
	}

	flags := make([]uint8, 0, numPoints)
	for len(flags) < numPoints && r.err == nil {
		flag := r.u8()
		flags = append(flags, flag)
		if flag&flagRepeat != 0 {
			count := int(r.u8())
			for range count {
				flags = append(flags, flag)
			}
		}
	}
	flags = flags[:min(len(flags), numPoints)]
	if r.err != nil {
		return nil
	}

	xs := readCoords(r, flags, flagXShort, flagXSame)
	ys := readCoords(r, flags, flagYShort, flagYSame)
	if r.err != nil {
		return nil
	}

	contours := make([][]Point, 0, numContours)
	start := 0
	for _, end := range endPts {
		if end < start || end >= numPoints {
			continue
		}
		contour := make([]Point, 0, end+1-start)
		for i := start; i <= end; i++ {
			contour = append(contour, Point{
				X:       xs[i],
				Y:       ys[i],
				OnCurve: flags[i]&flagOnCurve != 0,
			})
		}
		contours = append(contours, contour)
		start = end + 1
	}
	return contours
}

// readCoords reads one coordinate of every point.  The values in the font
// are deltas relative to the previous point.
func readCoords(r *reader, flags []uint8, short, same uint8) []int16 {
	res := make([]int16, len(flags))
	var v int16
	for i, flag := range flags {
		switch {
		case flag&short != 0 && flag&same != 0:
			v += int16(r.u8())
		case flag&short != 0:
			v -= int16(r.u8())
		case flag&same == 0:
			v += r.i16()
		}
		res[i] = v
	}
	return res
}

func readComposite(r *reader) []Component {
	var res []Component
	for r.err == nil {
		flags := r.u16()
		gid := r.u16()

		var a1, a2 float64
		if flags&flagArgWords != 0 {
			a1 = float64(r.i16())
			a2 = float64(r.i16())
		} else {
			a1 = float64(r.i8())
			a2 = float64(r.i8())
		}

		M := matrix.Identity
		switch {
		case flags&flagHaveScale != 0:
			s := r.f2dot14()
			M[0], M[3] = s, s
		case flags&flagXYScale != 0:
			M[0] = r.f2dot14()
			M[3] = r.f2dot14()
		case flags&flagTwoByTwo != 0:
			M[0] = r.f2dot14()
			M[1] = r.f2dot14()
			M[2] = r.f2dot14()
			M[3] = r.f2dot14()
		}
		if flags&flagArgsAreXY != 0 {
			M[4], M[5] = a1, a2
		}
		// Components aligned by matching points are placed without
		// offset.

		res = append(res, Component{GlyphIndex: gid, Transform: M})
		if flags&flagMoreComps == 0 {
			break
		}
	}
	return res
}

// Outline returns the outline of a glyph in font units.  Quadratic
// segments are converted to cubic Bézier curves.  The result is empty if
// the glyph has no outline.
func (f *Font) Outline(gid uint16) *path.Data {
	p := &path.Data{}
	f.appendOutline(p, gid, matrix.Identity, 0)
	return p
}

// GlyphBBox returns the bounding box of a glyph outline after
// transformation by M.
func (f *Font) GlyphBBox(M matrix.Matrix, gid uint16) rect.Rect {
	return f.Outline(gid).Iter().Transform(M).BBox()
}

func (f *Font) appendOutline(p *path.Data, gid uint16, M matrix.Matrix, depth int) {
	if int(gid) >= len(f.Glyphs) || depth > MaxComponentDepth {
		return
	}
	g := f.Glyphs[gid]
	if g == nil {
		return
	}
	for _, c := range g.Contours {
		appendContour(p, c, M)
	}
	for _, comp := range g.Components {
		f.appendOutline(p, comp.GlyphIndex, comp.Transform.Mul(M), depth+1)
	}
}

// appendContour converts one closed TrueType contour.  Between two
// consecutive off-curve points an on-curve point is implied at the
// midpoint.  If the contour starts off-curve, it starts at the last point
// instead, or at the midpoint of the first and last point if both are
// off-curve.
func appendContour(p *path.Data, c []Point, M matrix.Matrix) {
	n := len(c)
	if n == 0 {
		return
	}
	pt := func(i int) vec.Vec2 {
		return apply(M, c[i])
	}

	var start vec.Vec2
	first := 0
	switch {
	case c[0].OnCurve:
		start = pt(0)
		first = 1
	case c[n-1].OnCurve:
		start = pt(n - 1)
		n--
	default:
		start = midpoint(pt(0), pt(n-1))
	}

	p.MoveTo(start)
	cur := start
	var ctrl vec.Vec2
	hasCtrl := false
	for i := first; i < n; i++ {
		q := pt(i)
		if c[i].OnCurve {
			if hasCtrl {
				quadTo(p, cur, ctrl, q)
				hasCtrl = false
			} else {
				p.LineTo(q)
			}
			cur = q
			continue
		}
		if hasCtrl {
			m := midpoint(ctrl, q)
			quadTo(p, cur, ctrl, m)
			cur = m
		}
		ctrl = q
		hasCtrl = true
	}
	if hasCtrl {
		quadTo(p, cur, ctrl, start)
	}
	p.Close()
}

// quadTo appends the quadratic Bézier curve from p0 via p1 to p2, raised
// to a cubic curve.
func quadTo(p *path.Data, p0, p1, p2 vec.Vec2) {
	c1 := p0.Add(p1.Sub(p0).Mul(2.0 / 3.0))
	c2 := p2.Add(p1.Sub(p2).Mul(2.0 / 3.0))
	p.CubeTo(c1, c2, p2)
}

func midpoint(a, b vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func apply(M matrix.Matrix, p Point) vec.Vec2 {
	return M.Apply(vec.Vec2{X: float64(p.X), Y: float64(p.Y)})
}
