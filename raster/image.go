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
	"image"
	"image/color"
	"math"
	"slices"

	"golang.org/x/image/draw"
)

// FillRule selects how the inside of a self-intersecting path is determined.
type FillRule uint8

// These are the supported fill rules.
const (
	NonZero FillRule = iota
	EvenOdd
)

// Image is a pixel buffer with non-premultiplied RGBA samples.
//
// The buffer holds Oversampling×Oversampling samples for each output
// pixel.  Rows are stored top to bottom, while device coordinates have
// the y-axis pointing up.
type Image struct {
	// Width and Height give the size of the output image in pixels.
	Width, Height int

	Oversampling int

	// Pix holds the samples, four bytes per sample.
	Pix []uint8
}

// NewImage allocates a new image.  Unless transparent is set, the image is
// filled with opaque white.
func NewImage(width, height, oversampling int, transparent bool) *Image {
	width = max(width, 0)
	height = max(height, 0)
	oversampling = max(oversampling, 1)
	img := &Image{
		Width:        width,
		Height:       height,
		Oversampling: oversampling,
		Pix:          make([]uint8, width*height*oversampling*oversampling*4),
	}
	if !transparent {
		for i := range img.Pix {
			img.Pix[i] = 255
		}
	}
	return img
}

func (img *Image) sampleSize() (int, int) {
	return img.Width * img.Oversampling, img.Height * img.Oversampling
}

// Fill paints the region enclosed by edges, using the given fill rule.
// Only samples where mask is non-zero are changed.  A nil mask does not
// restrict painting.
func (img *Image) Fill(edges []Segment, rule FillRule, c color.NRGBA, mask *Mask) {
	w2, h2 := img.sampleSize()
	ca := float64(c.A) / 255
	src := [3]float64{float64(c.R), float64(c.G), float64(c.B)}
	scan(edges, w2, h2, img.Oversampling, rule, func(idx int) {
		if mask != nil && mask.Pix[idx] == 0 {
			return
		}
		p := img.Pix[4*idx : 4*idx+4 : 4*idx+4]
		da := float64(p[3]) / 255
		outA := ca + da*(1-ca)
		for k := range 3 {
			v := src[k]*ca + float64(p[k])*da*(1-ca)
			if outA != 0 {
				v /= outA
			}
			p[k] = clamp(v)
		}
		p[3] = clamp(255 * outA)
	})
}

// NRGBA returns the image at its nominal size.  If the image is
// oversampled, the samples are scaled down.
func (img *Image) NRGBA() *image.NRGBA {
	w2, h2 := img.sampleSize()
	full := &image.NRGBA{
		Pix:    slices.Clone(img.Pix),
		Stride: 4 * w2,
		Rect:   image.Rect(0, 0, w2, h2),
	}
	if img.Oversampling == 1 {
		return full
	}
	small := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	draw.CatmullRom.Scale(small, small.Bounds(), full, full.Bounds(), draw.Src, nil)
	return small
}

// Mask is a per-sample clipping mask.  Painting is allowed where the mask
// is non-zero.
type Mask struct {
	Width, Height int // in samples
	Oversampling  int
	Pix           []uint8
}

// NewMask returns a mask which allows painting everywhere.
func NewMask(width, height, oversampling int) *Mask {
	width = max(width, 0)
	height = max(height, 0)
	oversampling = max(oversampling, 1)
	m := &Mask{
		Width:        width * oversampling,
		Height:       height * oversampling,
		Oversampling: oversampling,
		Pix:          make([]uint8, width*height*oversampling*oversampling),
	}
	for i := range m.Pix {
		m.Pix[i] = 255
	}
	return m
}

// Intersect returns a new mask which allows painting only where m allows
// painting and where the region enclosed by edges, using the given fill
// rule, covers the sample.
func (m *Mask) Intersect(edges []Segment, rule FillRule) *Mask {
	res := &Mask{
		Width:        m.Width,
		Height:       m.Height,
		Oversampling: m.Oversampling,
		Pix:          make([]uint8, len(m.Pix)),
	}
	scan(edges, m.Width, m.Height, m.Oversampling, rule, func(idx int) {
		if m.Pix[idx] != 0 {
			res.Pix[idx] = 255
		}
	})
	return res
}

// scan calls paint with the sample index of every sample inside the
// region enclosed by edges.  Edge coordinates are in device space and are
// scaled by oversampling.
//
// For every edge and every sample row it crosses, the crossing position
// is rounded down to a sample boundary.  Crossings of upward edges are
// tagged by adding 1/2, so that the direction can be recovered after
// sorting.
func scan(edges []Segment, w2, h2, oversampling int, rule FillRule, paint func(idx int)) {
	if w2 <= 0 || h2 <= 0 {
		return
	}
	os := float64(oversampling)
	rows := make([][]float64, h2)
	for _, e := range edges {
		x0, y0 := e.A.X*os, e.A.Y*os
		x1, y1 := e.B.X*os, e.B.Y*os
		if !finite(x0) || !finite(y0) || !finite(x1) || !finite(y1) {
			continue
		}
		dy := y1 - y0
		if dy == 0 {
			continue
		}
		tag := 0.0
		if dy > 0 {
			tag = 0.5
		}
		if y1 < y0 {
			x0, y0, x1, y1 = x1, y1, x0, y0
		}
		ex := (x1 - x0) / (y1 - y0)
		yStart := math.Max(math.Ceil(y0), 0)
		yEnd := math.Min(y1, float64(h2))
		x := x0 + ex*(yStart-y0)
		for y := yStart; y < yEnd; y++ {
			row := int(y)
			rows[row] = append(rows[row], math.Floor(x)+tag)
			x += ex
		}
	}

	for y, xs := range rows {
		if len(xs) < 2 {
			continue
		}
		slices.Sort(xs)
		rowBase := (h2 - 1 - y) * w2
		inside := 0
		for i := 0; i < len(xs)-1; i++ {
			if rule == NonZero {
				if xs[i] != math.Floor(xs[i]) {
					inside++
				} else {
					inside--
				}
			} else {
				inside = 1 - inside
			}
			if inside == 0 {
				continue
			}
			start := clampInt(xs[i], w2)
			end := clampInt(xs[i+1], w2)
			for x := start; x < end; x++ {
				paint(rowBase + x)
			}
		}
	}
}

// clampInt rounds x down and limits the result to the range [0, n].
func clampInt(x float64, n int) int {
	x = math.Floor(x)
	if x <= 0 {
		return 0
	} else if x >= float64(n) {
		return n
	}
	return int(x)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func clamp(v float64) uint8 {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}
