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
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/tinyps/device"
	"seehuhn.de/go/tinyps/graphics"
	"seehuhn.de/go/tinyps/ttf"
)

// bFindfont pushes a font dictionary.  Fonts registered with definefont
// take precedence over the fonts of the environment.
func bFindfont(ctx *Context) error {
	vals, err := ctx.pop(KindName)
	if err != nil {
		return err
	}
	name := vals[0].(Name)
	if font, ok := ctx.Fonts.Get(name); ok {
		ctx.push(font)
		return nil
	}

	_, err = ctx.env.LoadFont(string(name))
	if err != nil {
		return ctx.e(ErrInvalidfont, "/%s: %v", name, err)
	}
	font := NewDict()
	font.Put("FontName", name)
	ctx.push(font)
	return nil
}

func bDefinefont(ctx *Context) error {
	vals, err := ctx.pop(KindName, KindDict)
	if err != nil {
		return err
	}
	ctx.Fonts.Put(vals[0].(Name), vals[1])
	ctx.push(vals[1])
	return nil
}

// bScalefont pushes a copy of a font dictionary with the font size
// multiplied by a factor.
func bScalefont(ctx *Context) error {
	vals, err := ctx.pop(KindDict, KindNumber)
	if err != nil {
		return err
	}
	font := vals[0].(*Dict).Copy()
	size := vals[1].(Number)
	if old, ok := font.Get("FontSize"); ok {
		if old, ok := old.(Number); ok {
			size *= old
		}
	}
	font.Put("FontSize", size)
	ctx.push(font)
	return nil
}

func bSetfont(ctx *Context) error {
	vals, err := ctx.pop(KindDict)
	if err != nil {
		return err
	}
	font := vals[0].(*Dict)
	name, _ := font.Get("FontName")
	fontName, ok := name.(Name)
	if !ok {
		return ctx.e(ErrInvalidfont, "missing /FontName")
	}
	gs := ctx.gs()
	gs.Font = string(fontName)
	if size, ok := font.Get("FontSize"); ok {
		if size, ok := size.(Number); ok {
			gs.Size = float64(size)
		}
	}
	return nil
}

// currentFont returns the decoded current font and the scale factor from
// font units to user space units.
func (ctx *Context) currentFont() (*ttf.Font, float64, error) {
	gs := ctx.gs()
	if gs.Font == "" {
		return nil, 0, ctx.e(ErrNocurrentfont, "no current font")
	}
	font, err := ctx.env.LoadFont(gs.Font)
	if err != nil {
		return nil, 0, ctx.e(ErrInvalidfont, "/%s: %v", gs.Font, err)
	}
	if font.UnitsPerEm == 0 {
		return nil, 0, ctx.e(ErrInvalidfont, "/%s: unitsPerEm is zero", gs.Font)
	}
	return font, gs.Size / float64(font.UnitsPerEm), nil
}

// textLayout describes how a string is placed by the text operators.
type textLayout struct {
	text []rune

	// fill is set if the glyphs are painted, rather than only appended
	// to the current path.
	fill bool

	// dx and dy are added to the advance after each occurrence of char.
	dx, dy float64
	char   rune
	widen  bool
}

// showText appends the glyph outlines of a string to the current path,
// starting at the current point.  Afterwards, the current point is
// moved to the end of the string.
func (ctx *Context) showText(t *textLayout) error {
	if err := ctx.needCurrentPoint(); err != nil {
		return err
	}
	font, scale, err := ctx.currentFont()
	if err != nil {
		return err
	}

	gs := ctx.gs()

	// toDevice maps text space, with the origin at the start point, to
	// device space.
	toDevice := gs.CTM
	toDevice[4], toDevice[5] = gs.Current.X, gs.Current.Y

	if t.fill && ctx.Config.TextMode != 0 {
		var width, extra float64
		if t.widen {
			for _, r := range t.text {
				width += float64(font.Advance(font.GlyphIndex(r))) * scale
				if r == t.char {
					width += t.dx
				}
			}
			extra = t.dx
		}
		s := ctx.snapshot()
		for _, d := range ctx.Devices {
			d.Show(string(t.text), s, width, extra)
		}
	}

	var ax, ay float64
	for _, r := range t.text {
		if !ctx.tick() {
			return nil
		}
		gid := font.GlyphIndex(r)
		M := matrix.Scale(scale, scale).Mul(matrix.Translate(ax, ay)).Mul(toDevice)
		appendPath(gs, font.Outline(gid), M)
		if t.fill {
			ctx.showMode = true
			ctx.paint(func(d device.Device, s *device.Snapshot) { d.Fill(s, true) })
			ctx.showMode = false
		}

		ax += float64(font.Advance(gid)) * scale
		if t.widen && r == t.char {
			ax += t.dx
			ay += t.dy
		}
	}

	gs.MoveTo(toDevice.Apply(vec.Vec2{X: ax, Y: ay}))
	return nil
}

// appendPath appends a glyph outline, transformed by M, to the current
// path.
func appendPath(gs *graphics.State, outline *path.Data, M matrix.Matrix) {
	for cmd, pts := range outline.Iter().Transform(M) {
		switch cmd {
		case path.CmdMoveTo:
			gs.MoveTo(pts[0])
		case path.CmdLineTo:
			gs.LineTo(pts[0])
		case path.CmdCubeTo:
			gs.CurveTo(pts[0], pts[1], pts[2])
		case path.CmdClose:
			gs.ClosePath()
		}
	}
}

func (ctx *Context) popText() ([]rune, error) {
	vals, err := ctx.pop(KindString)
	if err != nil {
		return nil, err
	}
	s := vals[0].(String)
	text := ctx.Heap.Runes(s)
	res := make([]rune, len(text))
	copy(res, text)
	ctx.release(s)
	return res, nil
}

func bShow(ctx *Context) error {
	text, err := ctx.popText()
	if err != nil {
		return err
	}
	return ctx.showText(&textLayout{text: text, fill: true})
}

// bWidthshow works like show, but adds (cx, cy) to the advance after
// each occurrence of the character code char.
func bWidthshow(ctx *Context) error {
	vals, err := ctx.pop(KindNumber, KindNumber, KindNumber, KindString)
	if err != nil {
		return err
	}
	s := vals[3].(String)
	text := append([]rune(nil), ctx.Heap.Runes(s)...)
	ctx.release(s)
	return ctx.showText(&textLayout{
		text:  text,
		fill:  true,
		dx:    float64(vals[0].(Number)),
		dy:    float64(vals[1].(Number)),
		char:  rune(vals[2].(Number)),
		widen: true,
	})
}

func bCharpath(ctx *Context) error {
	text, err := ctx.popText()
	if err != nil {
		return err
	}
	return ctx.showText(&textLayout{text: text})
}

// bStringwidth pushes the advance of a string in user space.
func bStringwidth(ctx *Context) error {
	text, err := ctx.popText()
	if err != nil {
		return err
	}
	font, scale, err := ctx.currentFont()
	if err != nil {
		return err
	}
	var w float64
	for _, r := range text {
		w += float64(font.Advance(font.GlyphIndex(r))) * scale
	}
	ctx.push(Number(w), Number(0))
	return nil
}
