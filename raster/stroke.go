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

package raster

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// FillOutline returns the edges of the region enclosed by the given
// subpaths.  Open subpaths are closed implicitly.
func FillOutline(subpaths []Subpath) []Segment {
	var res []Segment
	for _, sp := range subpaths {
		if len(sp.Segs) == 0 {
			continue
		}
		res = append(res, sp.Segs...)
		first := sp.Segs[0].A
		last := sp.Segs[len(sp.Segs)-1].B
		if first != last {
			res = append(res, Segment{last, first})
		}
	}
	return res
}

// StrokeOutline returns the edges of a polygon which covers a line of the
// given width drawn along sp.  Every segment contributes a rectangle, and
// consecutive segments are connected by a patch which fills the gap on the
// outside of the corner.  The result must be filled using the nonzero
// winding rule.
//
// If the subpath ends where it started, the last segment is also joined
// to the first one.
func StrokeOutline(sp Subpath, width float64) []Segment {
	w := width / 2
	if w <= 0 || len(sp.Segs) == 0 {
		return nil
	}

	segs := sp.Segs
	if segs[0].A == segs[len(segs)-1].B {
		segs = append(segs[:len(segs):len(segs)], segs[0])
	}

	var res []Segment
	var prevA, prevB Segment
	for i, s := range segs {
		angle := math.Atan2(s.B.Y-s.A.Y, s.B.X-s.A.X)
		na := vec.Vec2{X: math.Cos(angle - math.Pi/2), Y: math.Sin(angle - math.Pi/2)}.Mul(w)
		nb := vec.Vec2{X: math.Cos(angle + math.Pi/2), Y: math.Sin(angle + math.Pi/2)}.Mul(w)
		a0, a1 := s.A.Add(na), s.B.Add(na)
		b0, b1 := s.A.Add(nb), s.B.Add(nb)

		res = append(res,
			Segment{a0, a1},
			Segment{a1, b1},
			Segment{b1, b0},
			Segment{b0, a0},
		)

		if i > 0 {
			xa, okA := intersect(prevA.A, prevA.B, a0, a1)
			xb, okB := intersect(prevB.A, prevB.B, b0, b1)
			if okA && okB {
				res = append(res,
					Segment{prevA.B, xa},
					Segment{xa, a0},
					Segment{a0, b0},
					Segment{b0, xb},
					Segment{xb, prevB.B},
					Segment{prevB.B, prevA.B},
				)
			}
		}
		prevA = Segment{a0, a1}
		prevB = Segment{b0, b1}
	}
	return res
}

// intersect returns the intersection point of the line through p1 and p2
// with the line through p3 and p4.  The second return value is false if
// the lines are parallel.
func intersect(p1, p2, p3, p4 vec.Vec2) (vec.Vec2, bool) {
	denom := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if denom == 0 {
		return vec.Vec2{}, false
	}
	n1 := p1.X*p2.Y - p1.Y*p2.X
	n2 := p3.X*p4.Y - p3.Y*p4.X
	return vec.Vec2{
		X: (n1*(p3.X-p4.X) - n2*(p1.X-p2.X)) / denom,
		Y: (n1*(p3.Y-p4.Y) - n2*(p1.Y-p2.Y)) / denom,
	}, true
}
