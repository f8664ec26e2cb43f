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

import "fmt"

// RunError is a PostScript error.  Name is the PostScript error name,
// Detail optionally describes where the error occurred.
type RunError struct {
	Name   string
	Detail string
}

func (err *RunError) Error() string {
	if err.Detail == "" {
		return "tinyps: " + err.Name
	}
	return "tinyps: " + err.Name + ": " + err.Detail
}

// Is reports whether target is a RunError with the same name.
func (err *RunError) Is(target error) bool {
	other, ok := target.(*RunError)
	return ok && other.Name == err.Name
}

// The PostScript errors raised by the interpreter.
var (
	ErrDictstackunderflow = &RunError{Name: "dictstackunderflow"}
	ErrExecstackoverflow  = &RunError{Name: "execstackoverflow"}
	ErrInvalidfont        = &RunError{Name: "invalidfont"}
	ErrIoerror            = &RunError{Name: "ioerror"}
	ErrLimitcheck         = &RunError{Name: "limitcheck"}
	ErrMissingfile        = &RunError{Name: "missingfile"}
	ErrNocurrentfont      = &RunError{Name: "nocurrentfont"}
	ErrNocurrentpath      = &RunError{Name: "nocurrentpath"}
	ErrNocurrentpoint     = &RunError{Name: "nocurrentpoint"}
	ErrRangeerror         = &RunError{Name: "rangerror"}
	ErrStackoverflow      = &RunError{Name: "stackoverflow"}
	ErrStackunderflow     = &RunError{Name: "stackunderflow"}
	ErrSyntaxerror        = &RunError{Name: "syntaxerror"}
	ErrTimeout            = &RunError{Name: "timeout"}
	ErrTypeerror          = &RunError{Name: "typeerror"}
	ErrUndefined          = &RunError{Name: "undefined"}
	ErrUndefinedresult    = &RunError{Name: "undefinedresult"}

	// errExit is raised by the exit operator and caught by the
	// innermost enclosing loop.
	errExit = &RunError{Name: "exit"}
)

// e returns an error of the same kind as base.  The name of the running
// operator is prepended to the message.
func (ctx *Context) e(base *RunError, format string, a ...any) error {
	err := newError(base, format, a...)
	if ctx.op != "" {
		err.Detail = string(ctx.op) + ": " + err.Detail
	}
	return err
}

func newError(base *RunError, format string, a ...any) *RunError {
	return &RunError{
		Name:   base.Name,
		Detail: fmt.Sprintf(format, a...),
	}
}
