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

// cmap4 is a format 4 character map subtable.
type cmap4 struct {
	start       []uint16
	end         []uint16
	delta       []int16
	rangeOffset []uint16
	glyphIDs    []uint16
}

// readCmap reads the cmap table starting at offset pos.  The first
// subtable for Unicode BMP (platform 0, encoding 3) or Windows Unicode
// (platform 3, encoding 1) is used.
func readCmap(r *reader, pos int) (*cmap4, error) {
	r.seek(pos)
	version := r.u16()
	numTables := int(r.u16())
	if r.err != nil {
		return nil, r.err
	}
	if version != 0 {
		return nil, invalidSince("unsupported cmap version %d", version)
	}

	sub := -1
	for range numTables {
		platformID := r.u16()
		encodingID := r.u16()
		offset := r.u32()
		if r.err != nil {
			return nil, r.err
		}
		if platformID == 0 && encodingID == 3 || platformID == 3 && encodingID == 1 {
			sub = int(offset)
			break
		}
	}
	if sub < 0 {
		return nil, errNoCmap
	}

	start := pos + sub
	r.seek(start)
	format := r.u16()
	if r.err != nil {
		return nil, r.err
	}
	if format != 4 {
		return nil, invalidSince("unsupported cmap format %d", format)
	}
	length := int(r.u16())
	r.skip(2) // language
	segCount := int(r.u16()) / 2
	r.skip(6) // searchRange, entrySelector, rangeShift

	c := &cmap4{
		start:       make([]uint16, segCount),
		end:         make([]uint16, segCount),
		delta:       make([]int16, segCount),
		rangeOffset: make([]uint16, segCount),
	}
	for i := range segCount {
		c.end[i] = r.u16()
	}
	r.skip(2) // reservedPad
	for i := range segCount {
		c.start[i] = r.u16()
	}
	for i := range segCount {
		c.delta[i] = r.i16()
	}
	for i := range segCount {
		c.rangeOffset[i] = r.u16()
	}
	n := (start + length - r.pos) / 2
	for range max(n, 0) {
		c.glyphIDs = append(c.glyphIDs, r.u16())
	}
	if r.err != nil {
		return nil, r.err
	}
	tracer().Debugf("cmap: %d segments, %d glyph IDs", segCount, len(c.glyphIDs))
	return c, nil
}

func (c *cmap4) lookup(r rune) uint16 {
	if r < 0 || r > 0xFFFF {
		return 0
	}
	code := uint16(r)
	segCount := len(c.end)
	for i := range segCount {
		if code < c.start[i] || code > c.end[i] {
			continue
		}
		if c.rangeOffset[i] == 0 {
			return uint16(int(code) + int(c.delta[i]))
		}
		// The offset is relative to the location of rangeOffset[i].
		idx := i + int(c.rangeOffset[i])/2 + int(code-c.start[i]) - segCount
		if idx < 0 || idx >= len(c.glyphIDs) {
			return 0
		}
		gid := c.glyphIDs[idx]
		if gid == 0 {
			return 0
		}
		return uint16(int(gid) + int(c.delta[i]))
	}
	return 0
}
