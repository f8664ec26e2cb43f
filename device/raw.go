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
	"fmt"
	"image"
	"strings"

	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/tinyps/raster"
)

// Raw renders pages with the scanline rasterizer of package raster.
// It is enabled by the "raw" and "rawurl" configuration keys.
//
// The pixel buffer is allocated on first use, so that a disabled device
// costs no memory.
type Raw struct {
	// Pages holds one image per showpage call.
	Pages []*image.NRGBA

	// URL is a PNG "data:" URL of the last page.  It is only set if
	// "rawurl" is enabled.
	URL string

	width, height int
	oversampling  int
	transparent   bool

	img  *raster.Image
	mask *raster.Mask

	// clipKey identifies the clip paths used to build mask.
	clipKey string
}

// NewRaw returns a Raw device with a page of the given size.
func NewRaw(width, height int) *Raw {
	r := &Raw{}
	r.Clear(width, height, 1, false)
	return r
}

// Clear implements the [Device] interface.
func (r *Raw) Clear(width, height, oversampling int, transparent bool) {
	r.width = width
	r.height = height
	r.oversampling = oversampling
	r.transparent = transparent
	r.img = nil
	r.mask = nil
	r.clipKey = ""
	tracer().Debugf("raw: clear %dx%d, oversampling %d", width, height, oversampling)
}

// Image returns the page currently being drawn.
func (r *Raw) Image() *raster.Image {
	if r.img == nil {
		r.img = raster.NewImage(r.width, r.height, r.oversampling, r.transparent)
		r.mask = nil
		r.clipKey = ""
	}
	return r.img
}

// Clip implements the [Device] interface.  The clip mask is only rebuilt
// if the clip paths have changed since the last call.
func (r *Raw) Clip(s *Snapshot) {
	key := clipKey(s.State.Clip)
	if key == r.clipKey {
		return
	}
	img := r.Image()
	mask := raster.NewMask(img.Width, img.Height, img.Oversampling)
	for _, p := range s.State.Clip {
		mask = mask.Intersect(raster.FillOutline(raster.Flatten(p)), raster.NonZero)
	}
	r.mask = mask
	r.clipKey = key
}

// Fill implements the [Device] interface.
func (r *Raw) Fill(s *Snapshot, nonZero bool) {
	if !on(s.Config.Raw, s.Config.RawURL) {
		return
	}
	r.Clip(s)
	rule := raster.NonZero
	if !nonZero {
		rule = raster.EvenOdd
	}
	edges := raster.FillOutline(raster.Flatten(s.State.Path))
	r.Image().Fill(edges, rule, s.State.Color, r.mask)
}

// Stroke implements the [Device] interface.
func (r *Raw) Stroke(s *Snapshot) {
	if !on(s.Config.Raw, s.Config.RawURL) {
		return
	}
	r.Clip(s)
	for _, sp := range raster.Flatten(s.State.Path) {
		edges := raster.StrokeOutline(sp, s.State.LineWidth)
		r.Image().Fill(edges, raster.NonZero, s.State.Color, r.mask)
	}
}

// Show implements the [Device] interface.  Raw pages show text only
// through the glyph outlines.
func (r *Raw) Show(text string, s *Snapshot, targetWidth, extraSpacing float64) {}

// ShowPage implements the [Device] interface.
func (r *Raw) ShowPage(s *Snapshot) error {
	if !on(s.Config.Raw, s.Config.RawURL) {
		return nil
	}
	page := r.Image().NRGBA()
	r.Pages = append(r.Pages, page)
	tracer().Debugf("raw: page %d", len(r.Pages))
	if s.Config.RawURL != 0 {
		url, err := pngURL(page)
		if err != nil {
			return err
		}
		r.URL = url
	}
	r.Clear(r.width, r.height, s.Config.Factor(), s.Config.IsTransparent())
	return nil
}

// Finalize implements the [Device] interface.
func (r *Raw) Finalize(s *Snapshot) error {
	return nil
}

// Refresh implements the [Device] interface.
func (r *Raw) Refresh() {}

// clipKey returns a string which is equal for two clip lists if and only
// if the lists describe the same paths.
func clipKey(clip []*path.Data) string {
	b := &strings.Builder{}
	for _, p := range clip {
		b.WriteByte('[')
		for cmd, pts := range p.Iter() {
			fmt.Fprintf(b, "%d", cmd)
			for _, pt := range pts {
				fmt.Fprintf(b, " %g %g", pt.X, pt.Y)
			}
			b.WriteByte(';')
		}
		b.WriteByte(']')
	}
	return b.String()
}
