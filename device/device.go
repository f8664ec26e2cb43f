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

// Package device implements the output devices of the interpreter.
//
// The interpreter calls the painting methods of every registered device.
// Each device decides, based on the Config in the snapshot, whether it is
// enabled.  Devices work synchronously: once a method returns, the
// snapshot is no longer used.
package device

import (
	"github.com/npillmayer/schuko/tracing"

	"seehuhn.de/go/tinyps/graphics"
)

func tracer() tracing.Trace {
	return tracing.Select("tinyps.device")
}

// Device receives the drawing operations of a PostScript program.
type Device interface {
	// Clear discards the current page and sets the page geometry.
	Clear(width, height, oversampling int, transparent bool)

	// Clip updates the clipping region from s.State.Clip.
	Clip(s *Snapshot)

	// Fill paints the inside of the current path.  If nonZero is false,
	// the even-odd rule is used.
	Fill(s *Snapshot, nonZero bool)

	// Stroke paints a line along the current path.
	Stroke(s *Snapshot)

	// Show is called by the text operators in text mode.  The text
	// starts at the current point.  If targetWidth is non-zero, the text
	// should be spaced to fill this width.
	Show(text string, s *Snapshot, targetWidth, extraSpacing float64)

	// ShowPage emits the current page and starts a new one.
	ShowPage(s *Snapshot) error

	// Finalize is called once the program has finished.
	Finalize(s *Snapshot) error

	Refresh()
}

// Snapshot is the part of the interpreter state a device can see.
type Snapshot struct {
	State *graphics.State

	// Width and Height give the page size in device units.
	Width, Height int

	Config Config

	// ShowMode is set while the glyphs of a text string are filled.
	ShowMode bool
}
