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

// Package raster converts paths into pixels.
//
// The package works on paths given in device coordinates, where one unit
// corresponds to one output pixel and the y-axis points upwards.  Curves
// are flattened into straight segments, strokes are converted into
// polygons, and polygons are filled one scanline at a time.
package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// MaxFlattenDepth limits the number of times a Bézier curve is
// subdivided.  A single curve never produces more than 2^MaxFlattenDepth
// line segments.
const MaxFlattenDepth = 16

// Segment is a straight line from A to B.
type Segment struct {
	A, B vec.Vec2
}

// Subpath is a flattened subpath.
type Subpath struct {
	Segs   []Segment
	Closed bool
}

// Flatten converts a path into straight line segments, one list per
// subpath.  Subpaths without segments are omitted.
func Flatten(p *path.Data) []Subpath {
	if p == nil {
		return nil
	}

	var res []Subpath
	var cur Subpath
	var start, pos vec.Vec2
	flush := func() {
		if len(cur.Segs) > 0 {
			res = append(res, cur)
		}
		cur = Subpath{}
	}

	for cmd, pts := range p.Iter() {
		switch cmd {
		case path.CmdMoveTo:
			flush()
			start = pts[0]
			pos = pts[0]
		case path.CmdLineTo:
			cur.Segs = append(cur.Segs, Segment{pos, pts[0]})
			pos = pts[0]
		case path.CmdQuadTo:
			c1 := pos.Add(pts[0].Sub(pos).Mul(2.0 / 3))
			c2 := pts[1].Add(pts[0].Sub(pts[1]).Mul(2.0 / 3))
			cur.Segs = FlattenCubic(cur.Segs, pos, c1, c2, pts[1])
			pos = pts[1]
		case path.CmdCubeTo:
			cur.Segs = FlattenCubic(cur.Segs, pos, pts[0], pts[1], pts[2])
			pos = pts[2]
		case path.CmdClose:
			cur.Segs = append(cur.Segs, Segment{pos, start})
			cur.Closed = true
			pos = start
			flush()
		}
	}
	flush()
	return res
}

// FlattenCubic appends line segments approximating the cubic Bézier
// curve with control points p0, p1, p2, p3 to dst.  Subdivision stops
// once both inner control points are within one unit of the chord.
func FlattenCubic(dst []Segment, p0, p1, p2, p3 vec.Vec2) []Segment {
	return flattenCubic(dst, p0, p1, p2, p3, MaxFlattenDepth)
}

func flattenCubic(dst []Segment, p0, p1, p2, p3 vec.Vec2, depth int) []Segment {
	d1, d2 := chordDistances(p0, p1, p2, p3)
	if d1 < 1 && d2 < 1 || depth <= 0 || math.IsNaN(d1+d2) {
		return append(dst, Segment{p0, p3})
	}

	// de Casteljau split at t = 1/2
	p01 := p0.Add(p1).Mul(0.5)
	p12 := p1.Add(p2).Mul(0.5)
	p23 := p2.Add(p3).Mul(0.5)
	p012 := p01.Add(p12).Mul(0.5)
	p123 := p12.Add(p23).Mul(0.5)
	mid := p012.Add(p123).Mul(0.5)

	dst = flattenCubic(dst, p0, p01, p012, mid, depth-1)
	return flattenCubic(dst, mid, p123, p23, p3, depth-1)
}

// chordDistances returns the distances of p1 and p2 from the line
// through p0 and p3.
func chordDistances(p0, p1, p2, p3 vec.Vec2) (float64, float64) {
	if p0.X == p3.X {
		return math.Abs(p1.X - p0.X), math.Abs(p2.X - p0.X)
	}
	m := (p3.Y - p0.Y) / (p3.X - p0.X)
	c := p0.Y - m*p0.X
	norm := math.Sqrt(1 + m*m)
	d1 := math.Abs(p1.Y-m*p1.X-c) / norm
	d2 := math.Abs(p2.Y-m*p2.X-c) / norm
	return d1, d2
}
