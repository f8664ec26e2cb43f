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

// Package graphics implements the PostScript graphics state.
//
// All path coordinates are stored in device space.  The current
// transformation matrix maps user space to device space.
package graphics

import (
	"errors"
	"image/color"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// State is a snapshot of the graphics state.
type State struct {
	// Path is the current path, in device coordinates.
	Path *path.Data

	// Clip holds the clipping paths, in device coordinates.  The
	// clipping region is the intersection of all paths in the list.
	Clip []*path.Data

	// Current is the current point in device coordinates.  It is only
	// meaningful if HasCurrent is set.
	Current    vec.Vec2
	HasCurrent bool

	Color     color.NRGBA
	LineWidth float64

	// CTM is the current transformation matrix.
	CTM matrix.Matrix

	// Font is the name of the current font and Size is its size in
	// user space units.
	Font string
	Size float64

	CacheDevice [6]float64
}

// ErrSingular is returned when the CTM cannot be inverted.
var ErrSingular = errors.New("singular transformation matrix")

// New returns a graphics state with the default settings.
func New() *State {
	return &State{
		Path:      &path.Data{},
		Color:     color.NRGBA{A: 255},
		LineWidth: 1,
		CTM:       matrix.Identity,
		Size:      12,
	}
}

// Clone returns a deep copy of s.  Paths are copied, so that later
// path construction on either state does not affect the other.
func (s *State) Clone() *State {
	res := *s
	res.Path = clonePath(s.Path)
	res.Clip = make([]*path.Data, len(s.Clip))
	for i, p := range s.Clip {
		res.Clip[i] = clonePath(p)
	}
	return &res
}

func clonePath(p *path.Data) *path.Data {
	if p == nil {
		return &path.Data{}
	}
	return &path.Data{
		Cmds:   slices.Clone(p.Cmds),
		Coords: slices.Clone(p.Coords),
	}
}

// Transform maps a point from user space to device space.
func (s *State) Transform(x, y float64) vec.Vec2 {
	return s.CTM.Apply(vec.Vec2{X: x, Y: y})
}

// ITransform maps a point from device space to user space.
func (s *State) ITransform(p vec.Vec2) (float64, float64, error) {
	m := s.CTM
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 || math.IsNaN(det) {
		return 0, 0, ErrSingular
	}
	x := (p.X*m[3] - p.Y*m[2] + m[2]*m[5] - m[4]*m[3]) / det
	y := (-p.X*m[1] + p.Y*m[0] + m[4]*m[1] - m[0]*m[5]) / det
	return x, y, nil
}

// Translate moves the user space origin to (x, y).
func (s *State) Translate(x, y float64) {
	s.CTM = matrix.Translate(x, y).Mul(s.CTM)
}

// Scale scales the user space axes by sx and sy.
func (s *State) Scale(sx, sy float64) {
	s.CTM = matrix.Scale(sx, sy).Mul(s.CTM)
}

// Rotate rotates the user space axes counterclockwise by the given
// angle in degrees.
func (s *State) Rotate(deg float64) {
	s.CTM = matrix.RotateDeg(deg).Mul(s.CTM)
}

// SubpathStart returns the first point of the last subpath.
func (s *State) SubpathStart() (vec.Vec2, bool) {
	p := s.Path
	if p == nil {
		return vec.Vec2{}, false
	}
	idx := 0
	var start vec.Vec2
	found := false
	for _, cmd := range p.Cmds {
		if cmd == path.CmdMoveTo {
			start = p.Coords[idx]
			found = true
		}
		idx += cmdArgs(cmd)
	}
	return start, found
}

// MoveTo starts a new subpath at p, given in device coordinates.
func (s *State) MoveTo(p vec.Vec2) {
	s.Path.MoveTo(p)
	s.Current = p
	s.HasCurrent = true
}

// LineTo appends a straight line to p.  The caller must make sure that
// a current point exists.
func (s *State) LineTo(p vec.Vec2) {
	s.reopen()
	s.Path.LineTo(p)
	s.Current = p
}

// CurveTo appends a cubic Bézier curve.  The caller must make sure that
// a current point exists.
func (s *State) CurveTo(p1, p2, p3 vec.Vec2) {
	s.reopen()
	s.Path.CubeTo(p1, p2, p3)
	s.Current = p3
}

// ClosePath closes the current subpath and moves the current point
// back to the subpath start.
func (s *State) ClosePath() {
	start, ok := s.SubpathStart()
	s.Path.Close()
	if ok {
		s.Current = start
	}
}

// reopen starts a new subpath at the current point if the last subpath
// has been closed.
func (s *State) reopen() {
	cmds := s.Path.Cmds
	if len(cmds) > 0 && cmds[len(cmds)-1] == path.CmdClose {
		s.Path.MoveTo(s.Current)
	}
}

// AddClip intersects the clipping region with the current path.  The
// current path is left unchanged.
func (s *State) AddClip() {
	s.Clip = append(s.Clip, clonePath(s.Path))
}

// NewPath clears the current path and the current point.
func (s *State) NewPath() {
	s.Path = &path.Data{}
	s.HasCurrent = false
	s.Current = vec.Vec2{}
}

// IsEmpty reports whether the current path has no segments.
func (s *State) IsEmpty() bool {
	return s.Path == nil || len(s.Path.Cmds) == 0
}

// Gray returns the current color converted to a gray value in the
// range [0, 1].
func (s *State) Gray() float64 {
	c := s.Color
	return (0.30*float64(c.R) + 0.61*float64(c.G) + 0.09*float64(c.B)) / 255
}

func cmdArgs(cmd path.Command) int {
	switch cmd {
	case path.CmdMoveTo, path.CmdLineTo:
		return 1
	case path.CmdQuadTo:
		return 2
	case path.CmdCubeTo:
		return 3
	}
	return 0
}
