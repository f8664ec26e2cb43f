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

// Package ttf decodes the parts of TrueType fonts needed to draw text:
// the character map, horizontal metrics and glyph outlines.
//
// Only the (0,3) and (3,1) character maps in format 4 are supported.
// Hinting instructions are ignored.
package ttf

import (
	"time"

	"github.com/npillmayer/schuko/tracing"
	"seehuhn.de/go/geom/rect"
)

func tracer() tracing.Trace {
	return tracing.Select("tinyps.ttf")
}

const headMagic = 0x5F0F3CF5

// Font is a decoded TrueType font.
type Font struct {
	UnitsPerEm uint16

	Created  time.Time
	Modified time.Time

	// BBox is the font bounding box from the head table, in font units.
	BBox rect.Rect

	// IndexToLocFormat is 0 for short and 1 for long loca offsets.
	IndexToLocFormat int16

	NumGlyphs int

	// Glyphs holds the decoded glyphs, indexed by glyph ID.  Glyphs
	// without outline data are nil.
	Glyphs []*Glyph

	// Err is set if the font data could not be decoded.  In this case
	// all glyph queries return empty results.
	Err error

	cmap     *cmap4
	advances []uint16
}

type tableRecord struct {
	offset, length uint32
}

// Parse decodes a TrueType font.  Parse never fails: problems with the
// font data are recorded in the Err field of the result.
func Parse(data []byte) *Font {
	f := &Font{}
	err := f.parse(data)
	if err != nil {
		tracer().Errorf("font decode failed: %v", err)
		f.Err = err
		f.Glyphs = nil
		f.advances = nil
		f.cmap = nil
	}
	return f
}

func (f *Font) parse(data []byte) error {
	r := newReader(data)

	r.skip(4) // scalar type
	numTables := int(r.u16())
	r.skip(6) // searchRange, entrySelector, rangeShift
	tables := make(map[string]tableRecord)
	for range numTables {
		tag := r.tag()
		r.skip(4) // checksum
		offset := r.u32()
		length := r.u32()
		if r.err != nil {
			return r.err
		}
		tables[tag] = tableRecord{offset: offset, length: length}
	}
	tracer().Debugf("%d tables", numTables)

	head, ok := tables["head"]
	if !ok {
		return invalidSince("head table missing")
	}
	r.seek(int(head.offset))
	r.skip(4) // version
	r.fixed() // fontRevision
	r.skip(4) // checksumAdjustment
	magic := r.u32()
	r.skip(2) // flags
	f.UnitsPerEm = r.u16()
	f.Created = r.date()
	f.Modified = r.date()
	f.BBox = rect.Rect{
		LLx: float64(r.i16()),
		LLy: float64(r.i16()),
		URx: float64(r.i16()),
		URy: float64(r.i16()),
	}
	r.skip(6) // macStyle, lowestRecPPEM, fontDirectionHint
	f.IndexToLocFormat = r.i16()
	if r.err != nil {
		return r.err
	}
	if magic != headMagic {
		return errBadMagic
	}

	maxp, ok := tables["maxp"]
	if !ok {
		return errNoMaxp
	}
	r.seek(int(maxp.offset))
	r.fixed() // version
	f.NumGlyphs = int(r.u16())
	if r.err != nil {
		return r.err
	}

	for _, tag := range []string{"cmap", "hhea", "hmtx", "loca", "glyf"} {
		if _, ok := tables[tag]; !ok {
			return invalidSince("%s table missing", tag)
		}
	}

	cmap, err := readCmap(r, int(tables["cmap"].offset))
	if err != nil {
		return err
	}
	f.cmap = cmap

	r.seek(int(tables["hhea"].offset) + 34)
	numHMetrics := int(r.u16())
	r.seek(int(tables["hmtx"].offset))
	f.advances = make([]uint16, 0, numHMetrics)
	for range numHMetrics {
		f.advances = append(f.advances, r.u16())
		r.skip(2) // leftSideBearing
	}
	if r.err != nil {
		return r.err
	}

	r.seek(int(tables["loca"].offset))
	loca := make([]int, f.NumGlyphs+1)
	for i := range loca {
		if f.IndexToLocFormat != 0 {
			loca[i] = int(r.u32())
		} else {
			loca[i] = 2 * int(r.u16())
		}
	}
	if r.err != nil {
		return r.err
	}

	glyf := tables["glyf"]
	f.Glyphs = make([]*Glyph, f.NumGlyphs)
	for i := range f.NumGlyphs {
		if loca[i+1] <= loca[i] {
			continue
		}
		r.seek(int(glyf.offset) + loca[i])
		g, err := readGlyph(r)
		if err != nil {
			return err
		}
		f.Glyphs[i] = g
	}
	tracer().Debugf("decoded %d glyphs, %d units per em", f.NumGlyphs, f.UnitsPerEm)

	return nil
}

// Advance returns the advance width of a glyph in font units.  Glyphs
// beyond the end of the hmtx table use the last advance width in the
// table.
func (f *Font) Advance(gid uint16) uint16 {
	n := len(f.advances)
	switch {
	case n == 0:
		return 0
	case int(gid) < n:
		return f.advances[gid]
	default:
		return f.advances[n-1]
	}
}

// GlyphIndex returns the glyph ID for a character.  The result is 0 if the
// font has no glyph for r.
func (f *Font) GlyphIndex(r rune) uint16 {
	if f.cmap == nil {
		return 0
	}
	return f.cmap.lookup(r)
}
