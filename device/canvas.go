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

package device

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/tinyps/raster"
)

// Canvas renders pages using the anti-aliasing rasterizer from
// golang.org/x/image/vector.  It is enabled by the "canvas" and
// "canvasurl" configuration keys.
//
// The vector rasterizer only implements the nonzero winding rule.  For
// even-odd fills, its coverage is masked by the even-odd region computed
// by package raster.  The oversampling factor is ignored, and the page is
// allocated on first use.
type Canvas struct {
	Pages []*image.RGBA

	// URL is a PNG "data:" URL of the last page.  It is only set if
	// "canvasurl" is enabled.
	URL string

	width, height int
	transparent   bool

	dst  *image.RGBA
	clip *image.Alpha
	ras  *vector.Rasterizer
}

// NewCanvas returns a Canvas device with a page of the given size.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Clear(width, height, 1, false)
	return c
}

// Clear implements the [Device] interface.
func (c *Canvas) Clear(width, height, oversampling int, transparent bool) {
	c.width = max(width, 0)
	c.height = max(height, 0)
	c.transparent = transparent
	c.dst = nil
	c.clip = nil
	c.ras = nil
}

// Image returns the page currently being drawn.
func (c *Canvas) Image() *image.RGBA {
	if c.dst == nil {
		c.dst = image.NewRGBA(image.Rect(0, 0, c.width, c.height))
		if !c.transparent {
			draw.Draw(c.dst, c.dst.Bounds(), image.White, image.Point{}, draw.Src)
		}
		c.ras = vector.NewRasterizer(c.width, c.height)
	}
	return c.dst
}

// Clip implements the [Device] interface.
func (c *Canvas) Clip(s *Snapshot) {
	c.clip = nil
	for _, p := range s.State.Clip {
		cov := c.coverage(func() { c.addPath(p) })
		if c.clip != nil {
			intersect(cov, c.clip)
		}
		c.clip = cov
	}
}

// Fill implements the [Device] interface.
func (c *Canvas) Fill(s *Snapshot, nonZero bool) {
	if !on(s.Config.Canvas, s.Config.CanvasURL) {
		return
	}
	c.Clip(s)
	cov := c.coverage(func() { c.addPath(s.State.Path) })
	if !nonZero {
		intersect(cov, c.evenOdd(s.State.Path))
	}
	c.paint(cov, s.State.Color)
}

// evenOdd returns the even-odd region of p as a coverage mask.
func (c *Canvas) evenOdd(p *path.Data) *image.Alpha {
	b := c.Image().Bounds()
	m := raster.NewMask(b.Dx(), b.Dy(), 1)
	m = m.Intersect(raster.FillOutline(raster.Flatten(p)), raster.EvenOdd)
	return &image.Alpha{Pix: m.Pix, Stride: m.Width, Rect: b}
}

// Stroke implements the [Device] interface.  The line is converted to
// polygons by the stroker of package raster.
func (c *Canvas) Stroke(s *Snapshot) {
	if !on(s.Config.Canvas, s.Config.CanvasURL) {
		return
	}
	c.Clip(s)
	cov := c.coverage(func() {
		for _, sp := range raster.Flatten(s.State.Path) {
			c.addEdges(raster.StrokeOutline(sp, s.State.LineWidth))
		}
	})
	c.paint(cov, s.State.Color)
}

// Show implements the [Device] interface.
func (c *Canvas) Show(text string, s *Snapshot, targetWidth, extraSpacing float64) {}

// ShowPage implements the [Device] interface.
func (c *Canvas) ShowPage(s *Snapshot) error {
	if !on(s.Config.Canvas, s.Config.CanvasURL) {
		return nil
	}
	page := c.Image()
	c.Pages = append(c.Pages, page)
	tracer().Debugf("canvas: page %d", len(c.Pages))
	if s.Config.CanvasURL != 0 {
		url, err := pngURL(page)
		if err != nil {
			return err
		}
		c.URL = url
	}
	c.Clear(c.width, c.height, 1, c.transparent)
	return nil
}

// Finalize implements the [Device] interface.
func (c *Canvas) Finalize(s *Snapshot) error {
	return nil
}

// Refresh implements the [Device] interface.
func (c *Canvas) Refresh() {}

// coverage runs build against a fresh rasterizer and returns the
// resulting coverage mask.
func (c *Canvas) coverage(build func()) *image.Alpha {
	b := c.Image().Bounds()
	c.ras.Reset(b.Dx(), b.Dy())
	c.ras.DrawOp = draw.Src
	build()
	cov := image.NewAlpha(b)
	c.ras.Draw(cov, b, image.Opaque, image.Point{})
	return cov
}

func (c *Canvas) paint(cov *image.Alpha, col color.NRGBA) {
	if c.clip != nil {
		intersect(cov, c.clip)
	}
	src := image.NewUniform(col)
	dst := c.Image()
	draw.DrawMask(dst, dst.Bounds(), src, image.Point{}, cov, image.Point{}, draw.Over)
}

// addPath adds a path in device coordinates to the rasterizer.  The
// y-axis is flipped, since image rows are stored top to bottom.
func (c *Canvas) addPath(p *path.Data) {
	h := float32(c.height)
	open := false
	for cmd, pts := range p.Iter() {
		switch cmd {
		case path.CmdMoveTo:
			if open {
				c.ras.ClosePath()
			}
			c.ras.MoveTo(float32(pts[0].X), h-float32(pts[0].Y))
			open = true
		case path.CmdLineTo:
			c.ras.LineTo(float32(pts[0].X), h-float32(pts[0].Y))
		case path.CmdQuadTo:
			c.ras.QuadTo(
				float32(pts[0].X), h-float32(pts[0].Y),
				float32(pts[1].X), h-float32(pts[1].Y))
		case path.CmdCubeTo:
			c.ras.CubeTo(
				float32(pts[0].X), h-float32(pts[0].Y),
				float32(pts[1].X), h-float32(pts[1].Y),
				float32(pts[2].X), h-float32(pts[2].Y))
		case path.CmdClose:
			c.ras.ClosePath()
			open = false
		}
	}
	if open {
		c.ras.ClosePath()
	}
}

// addEdges adds polygons given as a list of edges.  Consecutive edges
// form one polygon until an edge returns to the polygon's first point.
func (c *Canvas) addEdges(edges []raster.Segment) {
	h := float32(c.height)
	open := false
	var first raster.Segment
	for _, e := range edges {
		if !open {
			c.ras.MoveTo(float32(e.A.X), h-float32(e.A.Y))
			first = e
			open = true
		}
		c.ras.LineTo(float32(e.B.X), h-float32(e.B.Y))
		if e.B == first.A {
			c.ras.ClosePath()
			open = false
		}
	}
	if open {
		c.ras.ClosePath()
	}
}

// intersect multiplies the coverage values of dst by those of clip.
func intersect(dst, clip *image.Alpha) {
	for i, a := range dst.Pix {
		dst.Pix[i] = uint8(uint16(a) * uint16(clip.Pix[i]) / 255)
	}
}
