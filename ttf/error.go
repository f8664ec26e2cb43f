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

import "fmt"

// InvalidFontError indicates a problem with font data.
type InvalidFontError struct {
	Reason string
}

func (err *InvalidFontError) Error() string {
	return "ttf: " + err.Reason
}

func invalidSince(format string, a ...any) error {
	return &InvalidFontError{
		Reason: fmt.Sprintf(format, a...),
	}
}

var (
	errTruncated = invalidSince("unexpected end of font data")
	errBadMagic  = invalidSince("invalid truetype magic")
	errNoMaxp    = invalidSince("truetype error maxp missing")
	errNoCmap    = invalidSince("truetype unsupported encoding")
)
