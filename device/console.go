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
	"io"
)

// Console writes the text of show and widthshow calls to W, one line per
// call.  It is enabled by the "console" configuration key and only
// receives text in text mode.
type Console struct {
	W io.Writer

	// Pages counts the showpage calls.
	Pages int

	err error
}

// NewConsole returns a Console device writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{W: w}
}

// Clear implements the [Device] interface.
func (c *Console) Clear(width, height, oversampling int, transparent bool) {}

// Clip implements the [Device] interface.
func (c *Console) Clip(s *Snapshot) {}

// Fill implements the [Device] interface.
func (c *Console) Fill(s *Snapshot, nonZero bool) {}

// Stroke implements the [Device] interface.
func (c *Console) Stroke(s *Snapshot) {}

// Show implements the [Device] interface.
func (c *Console) Show(text string, s *Snapshot, targetWidth, extraSpacing float64) {
	if s.Config.Console == 0 || c.err != nil {
		return
	}
	_, c.err = fmt.Fprintln(c.W, text)
}

// ShowPage implements the [Device] interface.  Write errors from earlier
// Show calls are reported here.
func (c *Console) ShowPage(s *Snapshot) error {
	if s.Config.Console == 0 {
		return nil
	}
	c.Pages++
	return c.flushErr()
}

// Finalize implements the [Device] interface.
func (c *Console) Finalize(s *Snapshot) error {
	return c.flushErr()
}

// Refresh implements the [Device] interface.
func (c *Console) Refresh() {}

func (c *Console) flushErr() error {
	err := c.err
	c.err = nil
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}
