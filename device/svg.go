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
	"html"
	"image/color"
	"math"
	"slices"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/tinyps/fonts"
)

// SVG writes pages as SVG documents.  It is enabled by the "svg" and
// "svgurl" configuration keys.
//
// In text mode, strings are written as SVG text elements and the glyph
// outlines are not drawn.
type SVG struct {
	// Pages holds one SVG document per showpage call.
	Pages []string

	// URL is a "data:" URL of the last page.  It is only set if
	// "svgurl" is enabled.
	URL string

	// Fonts, if set, is used to embed the fonts of text elements into the
	// document.
	Fonts fonts.Source

	width, height int
	transparent   bool

	elems   []string
	fonts   []string
	clipID  string
	clipKey string
	clipped bool
	started bool
}

// NewSVG returns an SVG device with a page of the given size.
func NewSVG(width, height int) *SVG {
	s := &SVG{}
	s.Clear(width, height, 1, false)
	return s
}

// Clear implements the [Device] interface.
func (d *SVG) Clear(width, height, oversampling int, transparent bool) {
	d.width = width
	d.height = height
	d.transparent = transparent
	d.elems = d.elems[:0]
	d.clipID = ""
	d.clipKey = ""
	d.clipped = false
	d.started = true
}

func (d *SVG) start() {
	if !d.started {
		d.Clear(d.width, d.height, 1, d.transparent)
	}
}

// Clip implements the [Device] interface.
func (d *SVG) Clip(s *Snapshot) {
	d.start()
	key := clipKey(s.State.Clip)
	if d.clipped && key == d.clipKey {
		return
	}
	d.clipID = ""
	for _, p := range s.State.Clip {
		b := &strings.Builder{}
		id := "clippath" + strconv.Itoa(len(d.elems))
		b.WriteString(`<clipPath id="` + id + `"`)
		if d.clipID != "" {
			b.WriteString(` clip-path="url(#` + d.clipID + `)"`)
		}
		b.WriteString(`><path d="` + d.pathData(p, true) + `"/></clipPath>`)
		d.elems = append(d.elems, b.String())
		d.clipID = id
	}
	d.clipKey = key
	d.clipped = true
}

// Fill implements the [Device] interface.
func (d *SVG) Fill(s *Snapshot, nonZero bool) {
	if !on(s.Config.SVG, s.Config.SVGURL) {
		return
	}
	if s.Config.TextMode != 0 && s.ShowMode {
		return
	}
	d.Clip(s)
	rule := "nonzero"
	if !nonZero {
		rule = "evenodd"
	}
	col := s.State.Color
	b := &strings.Builder{}
	fmt.Fprintf(b, `<path id="fill%d" d="%s" stroke="none" fill="%s" fill-opacity="%s"`,
		len(d.elems), d.pathData(s.State.Path, true), rgb(col), opacity(col))
	d.writeClip(b)
	fmt.Fprintf(b, ` fill-rule="%s"/>`, rule)
	d.elems = append(d.elems, b.String())
}

// Stroke implements the [Device] interface.
func (d *SVG) Stroke(s *Snapshot) {
	if !on(s.Config.SVG, s.Config.SVGURL) {
		return
	}
	d.Clip(s)
	col := s.State.Color
	b := &strings.Builder{}
	fmt.Fprintf(b, `<path id="stroke%d" d="%s" fill="none" stroke-width="%s" stroke="%s" stroke-opacity="%s"`,
		len(d.elems), d.pathData(s.State.Path, false), num(s.State.LineWidth), rgb(col), opacity(col))
	d.writeClip(b)
	b.WriteString("/>")
	d.elems = append(d.elems, b.String())
}

// Show implements the [Device] interface.
func (d *SVG) Show(text string, s *Snapshot, targetWidth, extraSpacing float64) {
	if !on(s.Config.SVG, s.Config.SVGURL) {
		return
	}
	st := s.State
	if st.Font != "" && !slices.Contains(d.fonts, st.Font) {
		d.fonts = append(d.fonts, st.Font)
	}
	d.Clip(s)

	M := st.CTM
	rotation := 0.0
	if M[0] != 0 || M[1] != 0 {
		rotation = math.Atan2(M[1], M[0])
	} else if M[2] != 0 || M[3] != 0 {
		rotation = math.Atan2(-M[2], M[3])
	}
	x := st.Current.X
	y := float64(d.height) - st.Current.Y

	col := st.Color
	b := &strings.Builder{}
	fmt.Fprintf(b, `<text x="0" y="0" font-family="%s" font-size="%s" fill="%s" fill-opacity="%s"`,
		html.EscapeString(st.Font), num(st.Size), rgb(col), opacity(col))
	d.writeClip(b)
	fmt.Fprintf(b, ` text-anchor="start" transform="translate(%s %s) rotate(%s)"`,
		num(x), num(y), num(-rotation*180/math.Pi))
	if targetWidth != 0 {
		fmt.Fprintf(b, ` textLength="%s" lengthAdjust="spacing"`, num(targetWidth))
	}
	b.WriteString(">" + html.EscapeString(text) + "</text>")
	d.elems = append(d.elems, b.String())
}

// ShowPage implements the [Device] interface.
func (d *SVG) ShowPage(s *Snapshot) error {
	if !on(s.Config.SVG, s.Config.SVGURL) {
		return nil
	}
	doc, err := d.document()
	if err != nil {
		return err
	}
	d.Pages = append(d.Pages, doc)
	tracer().Debugf("svg: page %d, %d elements", len(d.Pages), len(d.elems))
	if s.Config.SVGURL != 0 {
		d.URL = DataURL("image/svg+xml", []byte(doc))
	}
	d.started = false
	return nil
}

// Finalize implements the [Device] interface.
func (d *SVG) Finalize(s *Snapshot) error {
	return nil
}

// Refresh implements the [Device] interface.
func (d *SVG) Refresh() {}

func (d *SVG) document() (string, error) {
	b := &strings.Builder{}
	b.WriteString("<?xml version='1.0' encoding='UTF-8'?>\n")
	background := "white"
	if d.transparent {
		background = "transparent"
	}
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" width="%dpx" height="%dpx" viewBox="0 0 %d %d" style="background-color: %s">`,
		d.width, d.height, d.width, d.height, background)
	b.WriteString("\n<defs>")
	if d.Fonts != nil {
		for _, name := range d.fonts {
			data, err := d.Fonts.Open(name)
			if err != nil {
				return "", fmt.Errorf("svg: embedding font %q: %w", name, err)
			}
			fmt.Fprintf(b, "<style>@font-face { font-family: '%s'; font-weight: normal; src: url('%s') format('truetype') }</style>",
				html.EscapeString(name), DataURL("font/ttf", data))
		}
	}
	b.WriteString("</defs>\n")
	for _, e := range d.elems {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	b.WriteString("</svg>\n")
	return b.String(), nil
}

func (d *SVG) writeClip(b *strings.Builder) {
	if d.clipID != "" {
		b.WriteString(` clip-path="url(#` + d.clipID + `)"`)
	}
}

// pathData converts a path into the SVG path syntax.  If closeAll is set,
// a final "Z" is appended.
func (d *SVG) pathData(p *path.Data, closeAll bool) string {
	h := float64(d.height)
	var parts []string
	for cmd, pts := range p.Iter() {
		switch cmd {
		case path.CmdMoveTo:
			parts = append(parts, "M "+num(pts[0].X)+" "+num(h-pts[0].Y))
		case path.CmdLineTo:
			parts = append(parts, "L "+num(pts[0].X)+" "+num(h-pts[0].Y))
		case path.CmdQuadTo:
			parts = append(parts, "Q "+num(pts[0].X)+" "+num(h-pts[0].Y)+
				" "+num(pts[1].X)+" "+num(h-pts[1].Y))
		case path.CmdCubeTo:
			parts = append(parts, "C "+num(pts[0].X)+" "+num(h-pts[0].Y)+
				" "+num(pts[1].X)+" "+num(h-pts[1].Y)+
				" "+num(pts[2].X)+" "+num(h-pts[2].Y))
		case path.CmdClose:
			parts = append(parts, "Z")
		}
	}
	if len(parts) == 0 {
		return ""
	}
	if closeAll {
		parts = append(parts, "Z")
	}
	return strings.Join(parts, " ")
}

func rgb(c color.NRGBA) string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

func opacity(c color.NRGBA) string {
	return num(float64(c.A) / 255)
}

func num(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
