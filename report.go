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
	"fmt"
	"io"
	"strings"
)

// Report writes a summary of the interpreter state to w: the operand
// stack, the error state, heap usage and the fonts in use.
func (ctx *Context) Report(w io.Writer) error {
	errText := "none"
	if err := ctx.Error(); err != nil {
		errText = err.Error()
	}
	_, err := fmt.Fprintf(w, "stack: %s\nerror: %s\nheap: %d live objects\nsteps: %d\nfonts: %s\n",
		ctx.StackString(), errText, ctx.Heap.Live(), ctx.steps,
		strings.Join(ctx.env.FontNames(), " "))
	return err
}
