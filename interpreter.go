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

// Package tinyps implements an interpreter for a small subset of the
// PostScript language.
//
// A program is run by a [Context], which holds the operand stack, the
// dictionary stack, the graphics state stack and a reference counted
// heap for arrays and strings.  Painting operations are forwarded to the
// output devices registered with the context.
//
// Errors do not abort the Go call which triggered them.  Instead, the
// context records the error name in Context.Err, pushes an error value
// onto the operand stack and stops evaluating.  Only the loop operators
// recover, and only from the error raised by "exit".
package tinyps

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"

	"seehuhn.de/go/tinyps/device"
	"seehuhn.de/go/tinyps/graphics"
)

func tracer() tracing.Trace {
	return tracing.Select("tinyps")
}

// Default values for the page size of a new Context.
const (
	DefaultWidth  = 600
	DefaultHeight = 800
)

const maxOperandStackDepth = 100000

// Context is the state of a running PostScript program.
type Context struct {
	Stack     []Value
	DictStack []*Dict
	GStack    []*graphics.State
	Heap      *Heap

	// Fonts holds the fonts registered by definefont.
	Fonts *Dict

	Devices []device.Device
	Config  device.Config

	// Width and Height give the page size in device units.
	Width, Height int

	// Err is the name of the current error, or "" if no error has
	// occurred.  While Err is set, no further code is executed.
	Err string

	// MaxDepth limits the nesting depth of procedure calls.  MaxSteps
	// limits the total number of executed instructions and loop
	// iterations.  Zero means no limit.
	MaxDepth int
	MaxSteps int

	env      *Env
	op       Name
	lastErr  *RunError
	depth    int
	steps    int
	showMode bool
}

// NewContext returns a new context with an empty stack, one graphics
// state and a user dictionary.  If env is nil, a new environment with the
// built-in fonts is used.
func NewContext(env *Env) *Context {
	if env == nil {
		env = NewEnv(nil)
	}
	return &Context{
		DictStack: []*Dict{NewDict()},
		GStack:    []*graphics.State{graphics.New()},
		Heap:      NewHeap(),
		Fonts:     NewDict(),
		Config:    device.DefaultConfig(),
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		MaxDepth:  env.MaxDepth,
		MaxSteps:  env.MaxSteps,
		env:       env,
	}
}

// AddDevice registers an output device.  The device is cleared to the
// current page geometry.
func (ctx *Context) AddDevice(d device.Device) {
	d.Clear(ctx.Width, ctx.Height, ctx.Config.Factor(), ctx.Config.IsTransparent())
	ctx.Devices = append(ctx.Devices, d)
}

// Run executes a PostScript program and then finalizes all devices.
// If the program leaves the context in an error state, the error is
// returned as a *RunError.  Run does nothing if the context was already
// in an error state before the call.
func (ctx *Context) Run(text string) error {
	ctx.execute(compile(text))

	var firstErr error
	s := ctx.snapshot()
	for _, d := range ctx.Devices {
		err := d.Finalize(s)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if ctx.Err != "" {
		return ctx.Error()
	}
	return firstErr
}

// Error returns the current error of the context, or nil if no error
// is set.
func (ctx *Context) Error() error {
	if ctx.Err == "" {
		return nil
	}
	if ctx.lastErr != nil && ctx.lastErr.Name == ctx.Err {
		return ctx.lastErr
	}
	return &RunError{Name: ctx.Err}
}

// Steps returns the number of instructions and loop iterations executed
// so far.
func (ctx *Context) Steps() int {
	return ctx.steps
}

func (ctx *Context) execute(code []instr) {
	if ctx.MaxDepth > 0 && ctx.depth >= ctx.MaxDepth {
		ctx.raise(newError(ErrExecstackoverflow, "nesting deeper than %d", ctx.MaxDepth))
		return
	}
	ctx.depth++
	defer func() { ctx.depth-- }()

	for _, in := range code {
		if ctx.Err != "" || !ctx.tick() {
			return
		}

		switch in.op {
		case opNumber:
			ctx.push(Number(in.num))
		case opName:
			ctx.push(Name(in.text))
		case opString:
			ctx.push(ctx.Heap.NewString([]rune(in.text)))
		case opProc:
			ctx.push(in.proc)
		case opMark:
			ctx.push(Mark{})
		case opEndArray:
			ctx.endArray()
		case opExec:
			ctx.execName(Name(in.text))
		case opSyntaxError:
			ctx.raise(newError(ErrSyntaxerror, "invalid token"))
		}

		if len(ctx.Stack) > maxOperandStackDepth {
			ctx.raise(newError(ErrStackoverflow, "more than %d operands", maxOperandStackDepth))
		}
	}
}

// tick counts one execution step.  If the step budget is exhausted, a
// timeout error is raised and false is returned.
func (ctx *Context) tick() bool {
	ctx.steps++
	if ctx.MaxSteps > 0 && ctx.steps > ctx.MaxSteps {
		ctx.raise(newError(ErrTimeout, "more than %d steps", ctx.MaxSteps))
		return false
	}
	return true
}

func (ctx *Context) execName(name Name) {
	if val, ok := ctx.lookup(name); ok {
		switch val := val.(type) {
		case *Procedure:
			ctx.execute(val.instructions())
		default:
			ctx.Heap.Inc(val)
			ctx.push(val)
		}
		return
	}

	op, ok := ctx.env.ops[name]
	if !ok {
		ctx.raise(newError(ErrSyntaxerror, "unknown operator %q", name))
		return
	}
	saved := ctx.op
	ctx.op = name
	err := op(ctx)
	ctx.op = saved
	if err != nil {
		ctx.raise(err)
	}
}

// lookup searches the dictionary stack, innermost dictionary first.
func (ctx *Context) lookup(name Name) (Value, bool) {
	for i := len(ctx.DictStack) - 1; i >= 0; i-- {
		if val, ok := ctx.DictStack[i].Get(name); ok {
			return val, true
		}
	}
	return nil, false
}

// runLoopBody executes one iteration of a loop.  The result is false if
// the loop must stop, either because of an error or because the body
// called exit.  In the latter case the error state is cleared.
func (ctx *Context) runLoopBody(body *Procedure) bool {
	if !ctx.tick() {
		return false
	}
	ctx.execute(body.instructions())
	switch ctx.Err {
	case "":
		return true
	case errExit.Name:
		ctx.Err = ""
		ctx.lastErr = nil
		if n := len(ctx.Stack); n > 0 && ctx.Stack[n-1] == Error(errExit.Name) {
			ctx.Stack = ctx.Stack[:n-1]
		}
	}
	return false
}

// raise puts the context into the error state.
func (ctx *Context) raise(err error) {
	var psErr *RunError
	if !errors.As(err, &psErr) {
		psErr = &RunError{Name: ErrIoerror.Name, Detail: err.Error()}
	}
	ctx.Err = psErr.Name
	ctx.lastErr = psErr
	ctx.Stack = append(ctx.Stack, Error(psErr.Name))
	if psErr.Name != errExit.Name {
		tracer().Debugf("%s", psErr)
	}
}

func (ctx *Context) push(vals ...Value) {
	ctx.Stack = append(ctx.Stack, vals...)
}

// pop removes len(kinds) values from the operand stack.  The values are
// returned in stack order, so that the last kind describes the topmost
// value.  If the stack is too short, nothing is removed.  If a value
// has the wrong kind, this value and all values above it are discarded.
func (ctx *Context) pop(kinds ...Kind) ([]Value, error) {
	n := len(kinds)
	if len(ctx.Stack) < n {
		return nil, ctx.e(ErrStackunderflow, "need %d operands, have %d", n, len(ctx.Stack))
	}

	res := make([]Value, n)
	for i := n - 1; i >= 0; i-- {
		top := len(ctx.Stack) - 1
		val := ctx.Stack[top]
		ctx.Stack = ctx.Stack[:top]
		if val.kind()&kinds[i] == 0 {
			ctx.release(val)
			ctx.release(res[i+1:]...)
			return nil, ctx.e(ErrTypeerror, "expected %s, got %s", kinds[i], val.kind())
		}
		res[i] = val
	}
	return res, nil
}

// popNumbers removes n numbers from the operand stack.
func (ctx *Context) popNumbers(n int) ([]float64, error) {
	kinds := make([]Kind, n)
	for i := range kinds {
		kinds[i] = KindNumber
	}
	vals, err := ctx.pop(kinds...)
	if err != nil {
		return nil, err
	}
	res := make([]float64, n)
	for i, v := range vals {
		res[i] = float64(v.(Number))
	}
	return res, nil
}

// release gives up one reference to each of the values.
func (ctx *Context) release(vals ...Value) {
	for _, v := range vals {
		ctx.Heap.Dec(v)
	}
}

// endArray collects the values above the topmost mark into a new array.
func (ctx *Context) endArray() {
	for i := len(ctx.Stack) - 1; i >= 0; i-- {
		if _, isMark := ctx.Stack[i].(Mark); !isMark {
			continue
		}
		elems := make([]Value, len(ctx.Stack)-i-1)
		copy(elems, ctx.Stack[i+1:])
		ctx.Stack = ctx.Stack[:i]
		ctx.push(ctx.Heap.NewArray(elems))
		return
	}
	ctx.release(ctx.Stack...)
	ctx.Stack = ctx.Stack[:0]
	ctx.raise(newError(ErrStackunderflow, "unmatched ']'"))
}

// gs returns the current graphics state.
func (ctx *Context) gs() *graphics.State {
	return ctx.GStack[len(ctx.GStack)-1]
}

func (ctx *Context) snapshot() *device.Snapshot {
	return &device.Snapshot{
		State:    ctx.gs().Clone(),
		Width:    ctx.Width,
		Height:   ctx.Height,
		Config:   ctx.Config,
		ShowMode: ctx.showMode,
	}
}

func (ctx *Context) initGraphics() {
	ctx.GStack = []*graphics.State{graphics.New()}
}

func (ctx *Context) clearDevices() {
	tracer().Debugf("clear devices: %dx%d", ctx.Width, ctx.Height)
	for _, d := range ctx.Devices {
		d.Clear(ctx.Width, ctx.Height, ctx.Config.Factor(), ctx.Config.IsTransparent())
	}
}
