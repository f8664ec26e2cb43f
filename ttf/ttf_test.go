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
	"encoding/binary"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// testFont describes the tables of a synthetic font.
type testFont struct {
	magic     uint32
	created   uint64
	cmapVer   uint16
	cmapFmt   uint16
	omit      string
	truncate  int
	glyphs    [][]byte
	advances  []uint16
	platforms [][2]uint16
}

func newTestFont() *testFont {
	return &testFont{
		magic:   headMagic,
		created: 366 * 86400,
		cmapFmt: 4,
		glyphs: [][]byte{
			nil,
			squareGlyph(),
			compositeGlyph(),
			curveGlyph(),
			repeatGlyph(),
		},
		advances:  []uint16{500, 600, 700},
		platforms: [][2]uint16{{1, 0}, {3, 1}},
	}
}

type buf []byte

func (b buf) u8(v ...uint8) buf {
	return append(b, v...)
}

func (b buf) u16(v ...uint16) buf {
	for _, x := range v {
		b = binary.BigEndian.AppendUint16(b, x)
	}
	return b
}

func (b buf) i16(v ...int16) buf {
	for _, x := range v {
		b = binary.BigEndian.AppendUint16(b, uint16(x))
	}
	return b
}

func (b buf) u32(v ...uint32) buf {
	for _, x := range v {
		b = binary.BigEndian.AppendUint32(b, x)
	}
	return b
}

// squareGlyph is a square with corners (0,0) and (100,100).
func squareGlyph() []byte {
	var b buf
	b = b.i16(1, 0, 0, 100, 100)
	b = b.u16(3) // endPts
	b = b.u16(0) // instructions
	b = b.u8(1, 1, 1, 1)
	b = b.i16(0, 100, 0, -100)
	b = b.i16(0, 0, 100, 0)
	return b
}

// compositeGlyph places glyph 1 at offset (50, 10).
func compositeGlyph() []byte {
	var b buf
	b = b.i16(-1, 50, 10, 150, 110)
	b = b.u16(flagArgWords|flagArgsAreXY, 1)
	b = b.i16(50, 10)
	return b
}

// curveGlyph is (0,0) on, (50,100) off, (100,0) on, using short vectors.
func curveGlyph() []byte {
	var b buf
	b = b.i16(1, 0, 0, 100, 100)
	b = b.u16(2)
	b = b.u16(0)
	b = b.u8(
		flagOnCurve|flagXSame|flagYSame,
		flagXShort|flagXSame|flagYShort|flagYSame,
		flagOnCurve|flagXShort|flagXSame|flagYShort,
	)
	b = b.u8(50, 50)
	b = b.u8(100, 100)
	return b
}

// repeatGlyph is the same square as squareGlyph, but uses a repeated flag.
func repeatGlyph() []byte {
	var b buf
	b = b.i16(1, 0, 0, 100, 100)
	b = b.u16(3)
	b = b.u16(0)
	b = b.u8(flagOnCurve|flagRepeat, 3)
	b = b.i16(0, 100, 0, -100)
	b = b.i16(0, 0, 100, 0)
	return b
}

func (tf *testFont) head() []byte {
	var b buf
	b = b.u32(0x00010000, 0, 0, tf.magic)
	b = b.u16(0, 1000)
	b = b.u32(uint32(tf.created>>32), uint32(tf.created))
	b = b.u32(uint32(tf.created>>32), uint32(tf.created))
	b = b.i16(-10, -20, 1010, 900)
	b = b.u16(0, 0)
	b = b.i16(2, 0, 0) // fontDirectionHint, indexToLocFormat, glyphDataFormat
	return b
}

func (tf *testFont) maxp() []byte {
	var b buf
	b = b.u32(0x00005000)
	b = b.u16(uint16(len(tf.glyphs)))
	return b
}

// cmap maps 'A' and 'B' to glyphs 1 and 2 using idDelta, and 'a' and 'b' to
// glyphs 3 and 4 using idRangeOffset.
func (tf *testFont) cmap() []byte {
	var b buf
	b = b.u16(tf.cmapVer, uint16(len(tf.platforms)))
	offset := uint32(4 + 8*len(tf.platforms))
	for _, p := range tf.platforms {
		b = b.u16(p[0], p[1])
		b = b.u32(offset)
	}

	const segCount = 3
	length := 16 + 8*segCount + 2*2
	b = b.u16(tf.cmapFmt, uint16(length), 0, 2*segCount, 4, 1, 2)
	b = b.u16('B', 'b', 0xFFFF) // endCode
	b = b.u16(0)                // reservedPad
	b = b.u16('A', 'a', 0xFFFF) // startCode
	b = b.i16(-64, 0, 1)        // idDelta
	b = b.u16(0, 4, 0)          // idRangeOffset
	b = b.u16(3, 4)             // glyphIdArray
	return b
}

func (tf *testFont) hhea() []byte {
	var b buf
	b = b.u32(0x00010000)
	b = append(b, make([]byte, 30)...)
	b = b.u16(uint16(len(tf.advances)))
	return b
}

func (tf *testFont) hmtx() []byte {
	var b buf
	for _, a := range tf.advances {
		b = b.u16(a)
		b = b.i16(0)
	}
	for range len(tf.glyphs) - len(tf.advances) {
		b = b.i16(0)
	}
	return b
}

func (tf *testFont) locaGlyf() ([]byte, []byte) {
	var loca, glyf buf
	for _, g := range tf.glyphs {
		loca = loca.u16(uint16(len(glyf) / 2))
		glyf = append(glyf, g...)
		if len(glyf)%2 != 0 {
			glyf = append(glyf, 0)
		}
	}
	loca = loca.u16(uint16(len(glyf) / 2))
	return loca, glyf
}

func (tf *testFont) bytes() []byte {
	loca, glyf := tf.locaGlyf()
	tables := map[string][]byte{
		"head": tf.head(),
		"maxp": tf.maxp(),
		"cmap": tf.cmap(),
		"hhea": tf.hhea(),
		"hmtx": tf.hmtx(),
		"loca": loca,
		"glyf": glyf,
	}
	delete(tables, tf.omit)
	var tags []string
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var b buf
	b = b.u32(0x00010000)
	b = b.u16(uint16(len(tags)), 0, 0, 0)
	offset := 12 + 16*len(tags)
	var body buf
	for _, tag := range tags {
		data := tables[tag]
		b = append(b, tag...)
		b = b.u32(0, uint32(offset+len(body)), uint32(len(data)))
		body = append(body, data...)
		for len(body)%4 != 0 {
			body = append(body, 0)
		}
	}
	b = append(b, body...)
	if tf.truncate > 0 {
		b = b[:len(b)-tf.truncate]
	}
	return b
}

func TestParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tinyps.ttf")
	defer teardown()

	f := Parse(newTestFont().bytes())
	require.NoError(t, f.Err)
	require.Equal(t, uint16(1000), f.UnitsPerEm)
	require.Equal(t, 5, f.NumGlyphs)
	require.True(t, f.Created.Equal(time.Date(1905, time.January, 1, 0, 0, 0, 0, time.UTC)), "created %v", f.Created)
	require.Equal(t, rect.Rect{LLx: -10, LLy: -20, URx: 1010, URy: 900}, f.BBox)
	require.Nil(t, f.Glyphs[0])
	require.Len(t, f.Glyphs[1].Contours, 1)
	require.Len(t, f.Glyphs[2].Components, 1)
}

func TestGlyphIndex(t *testing.T) {
	f := Parse(newTestFont().bytes())
	require.NoError(t, f.Err)

	type testCase struct {
		r   rune
		gid uint16
	}
	cases := []testCase{
		{'A', 1},
		{'B', 2},
		{'C', 0},
		{'a', 3},
		{'b', 4},
		{'c', 0},
		{'@', 0},
		{0x1F600, 0},
	}
	for _, c := range cases {
		if gid := f.GlyphIndex(c.r); gid != c.gid {
			t.Errorf("%q: got glyph %d, expected %d", c.r, gid, c.gid)
		}
	}
}

func TestAdvance(t *testing.T) {
	f := Parse(newTestFont().bytes())
	require.NoError(t, f.Err)

	var got []uint16
	for gid := range uint16(6) {
		got = append(got, f.Advance(gid))
	}
	want := []uint16{500, 600, 700, 700, 700, 700}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatal(d)
	}
}

func square(dx, dy float64) *path.Data {
	p := &path.Data{}
	p.MoveTo(vec.Vec2{X: dx, Y: dy})
	p.LineTo(vec.Vec2{X: dx + 100, Y: dy})
	p.LineTo(vec.Vec2{X: dx + 100, Y: dy + 100})
	p.LineTo(vec.Vec2{X: dx, Y: dy + 100})
	p.Close()
	return p
}

// flatPath lists the commands and coordinates of a path, for comparison.
type flatPath struct {
	Cmds   []path.Command
	Coords []float64
}

func flatten(p *path.Data) flatPath {
	res := flatPath{Cmds: p.Cmds}
	for _, v := range p.Coords {
		res.Coords = append(res.Coords, v.X, v.Y)
	}
	return res
}

func TestOutline(t *testing.T) {
	f := Parse(newTestFont().bytes())
	require.NoError(t, f.Err)

	curve := &path.Data{}
	curve.MoveTo(vec.Vec2{X: 0, Y: 0})
	curve.CubeTo(
		vec.Vec2{X: 100.0 / 3, Y: 200.0 / 3},
		vec.Vec2{X: 200.0 / 3, Y: 200.0 / 3},
		vec.Vec2{X: 100, Y: 0},
	)
	curve.Close()

	type testCase struct {
		gid  uint16
		want *path.Data
	}
	cases := []testCase{
		{0, &path.Data{}},
		{1, square(0, 0)},
		{2, square(50, 10)},
		{3, curve},
		{4, square(0, 0)},
		{99, &path.Data{}},
	}
	for _, c := range cases {
		got := f.Outline(c.gid)
		if d := cmp.Diff(flatten(c.want), flatten(got), cmpopts.EquateApprox(0, 1e-9), cmpopts.EquateEmpty()); d != "" {
			t.Errorf("glyph %d: %s", c.gid, d)
		}
	}
}

func TestGlyphBBox(t *testing.T) {
	f := Parse(newTestFont().bytes())
	require.NoError(t, f.Err)

	bbox := f.GlyphBBox([6]float64{2, 0, 0, 2, 0, 0}, 2)
	require.Equal(t, rect.Rect{LLx: 100, LLy: 20, URx: 300, URy: 220}, bbox)
}

func TestContourStartsOffCurve(t *testing.T) {
	type testCase struct {
		pts  []Point
		want *path.Data
	}
	lastOn := &path.Data{}
	lastOn.MoveTo(vec.Vec2{X: 0, Y: 0})
	lastOn.CubeTo(vec.Vec2{X: 0, Y: 200.0 / 3}, vec.Vec2{X: 100.0 / 3, Y: 100}, vec.Vec2{X: 100, Y: 100})
	lastOn.Close()

	allOff := &path.Data{}
	allOff.MoveTo(vec.Vec2{X: 50, Y: 0})
	allOff.CubeTo(vec.Vec2{X: 50, Y: 0}, vec.Vec2{X: 50, Y: 0}, vec.Vec2{X: 50, Y: 0})
	allOff.CubeTo(vec.Vec2{X: 50, Y: 0}, vec.Vec2{X: 50, Y: 0}, vec.Vec2{X: 50, Y: 0})
	allOff.Close()

	cases := []testCase{
		{
			pts: []Point{
				{X: 0, Y: 100},
				{X: 100, Y: 100, OnCurve: true},
				{X: 0, Y: 0, OnCurve: true},
			},
			want: lastOn,
		},
		{
			pts: []Point{
				{X: 50, Y: 0},
				{X: 50, Y: 0},
			},
			want: allOff,
		},
	}
	for i, c := range cases {
		got := &path.Data{}
		appendContour(got, c.pts, [6]float64{1, 0, 0, 1, 0, 0})
		if d := cmp.Diff(flatten(c.want), flatten(got), cmpopts.EquateApprox(0, 1e-9)); d != "" {
			t.Errorf("%d: %s", i, d)
		}
	}
}

func TestCompositeDepth(t *testing.T) {
	tf := newTestFont()
	// glyph 2 refers to itself
	var b buf
	b = b.i16(-1, 0, 0, 0, 0)
	b = b.u16(flagArgWords|flagArgsAreXY|flagMoreComps, 2)
	b = b.i16(0, 0)
	b = b.u16(flagArgWords|flagArgsAreXY, 1)
	b = b.i16(1, 0)
	tf.glyphs[2] = b

	f := Parse(tf.bytes())
	require.NoError(t, f.Err)
	p := f.Outline(2)
	moves := 0
	for _, cmd := range p.Cmds {
		if cmd == path.CmdMoveTo {
			moves++
		}
	}
	require.Equal(t, MaxComponentDepth, moves)
}

func TestParseErrors(t *testing.T) {
	type testCase struct {
		name   string
		modify func(tf *testFont)
		reason string
	}
	cases := []testCase{
		{"magic", func(tf *testFont) { tf.magic = 0x12345678 }, "invalid truetype magic"},
		{"maxp", func(tf *testFont) { tf.omit = "maxp" }, "truetype error maxp missing"},
		{"glyf", func(tf *testFont) { tf.omit = "glyf" }, "glyf table missing"},
		{"version", func(tf *testFont) { tf.cmapVer = 1 }, "unsupported cmap version 1"},
		{"platform", func(tf *testFont) { tf.platforms = [][2]uint16{{1, 0}} }, "truetype unsupported encoding"},
		{"format", func(tf *testFont) { tf.cmapFmt = 6 }, "unsupported cmap format 6"},
		{"truncated", func(tf *testFont) { tf.truncate = 20 }, "unexpected end of font data"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tf := newTestFont()
			c.modify(tf)
			f := Parse(tf.bytes())

			var fontErr *InvalidFontError
			require.True(t, errors.As(f.Err, &fontErr), "error %v", f.Err)
			require.Equal(t, c.reason, fontErr.Reason)
			require.Equal(t, uint16(0), f.GlyphIndex('A'))
			require.Equal(t, uint16(0), f.Advance(1))
			require.Empty(t, f.Outline(1).Cmds)
		})
	}
}

func TestParseGarbage(t *testing.T) {
	for _, data := range [][]byte{nil, {0, 1}, make([]byte, 100)} {
		f := Parse(data)
		require.Error(t, f.Err)
	}
}

func TestGoRegular(t *testing.T) {
	f := Parse(goregular.TTF)
	require.NoError(t, f.Err)

	ref, err := sfnt.Parse(goregular.TTF)
	require.NoError(t, err)
	var sb sfnt.Buffer

	ppem := fixed.Int26_6(f.UnitsPerEm) << 6
	for r := rune(32); r < 127; r++ {
		gid := f.GlyphIndex(r)
		refGid, err := ref.GlyphIndex(&sb, r)
		require.NoError(t, err)
		require.Equal(t, uint16(refGid), gid, "glyph index for %q", r)

		adv, err := ref.GlyphAdvance(&sb, refGid, ppem, font.HintingNone)
		require.NoError(t, err)
		require.Equal(t, int(adv), 64*int(f.Advance(gid)), "advance for %q", r)
	}

	require.Equal(t, uint16(1366), f.Advance(f.GlyphIndex('A')))
	require.Empty(t, f.Outline(f.GlyphIndex(' ')).Cmds)
	require.NotEmpty(t, f.Outline(f.GlyphIndex('A')).Cmds)
}
