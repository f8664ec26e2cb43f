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
	"errors"

	"seehuhn.de/go/tinyps/device"
)

func (ctx *Context) paint(draw func(d device.Device, s *device.Snapshot)) {
	s := ctx.snapshot()
	for _, d := range ctx.Devices {
		draw(d, s)
	}
	ctx.gs().NewPath()
}

func bFill(ctx *Context) error {
	ctx.paint(func(d device.Device, s *device.Snapshot) { d.Fill(s, true) })
	return nil
}

func bEofill(ctx *Context) error {
	ctx.paint(func(d device.Device, s *device.Snapshot) { d.Fill(s, false) })
	return nil
}

func bStroke(ctx *Context) error {
	ctx.paint(func(d device.Device, s *device.Snapshot) { d.Stroke(s) })
	return nil
}

// bClip intersects the clipping region with the current path.  Unlike
// fill, clip does not clear the current path.
func bClip(ctx *Context) error {
	ctx.gs().AddClip()
	return nil
}

// bShowpage emits the current page on all devices and resets the
// graphics state.
func bShowpage(ctx *Context) error {
	s := ctx.snapshot()
	var errs []error
	for _, d := range ctx.Devices {
		err := d.ShowPage(s)
		if err != nil {
			errs = append(errs, err)
		}
	}
	for _, d := range ctx.Devices {
		d.Refresh()
	}
	ctx.initGraphics()
	if len(errs) > 0 {
		return ctx.e(ErrIoerror, "%v", errors.Join(errs...))
	}
	return nil
}

// bSetpagedevice updates the device configuration from a dictionary.
// Changing the page geometry clears all devices.  If the new geometry
// needs more than maxPageSamples samples, nothing is changed.
func bSetpagedevice(ctx *Context) error {
	vals, err := ctx.pop(KindDict)
	if err != nil {
		return err
	}
	d := vals[0].(*Dict)

	cfg := ctx.Config
	for _, key := range device.Keys() {
		if x, ok := d.Get(Name(key)); ok {
			if x, ok := x.(Number); ok {
				cfg.Set(key, float64(x))
			}
		}
	}
	width, height := ctx.Width, ctx.Height
	if x, ok := d.Get("width"); ok {
		if x, ok := x.(Number); ok {
			width = pageSize(x)
		}
	}
	if x, ok := d.Get("height"); ok {
		if x, ok := x.(Number); ok {
			height = pageSize(x)
		}
	}
	factor := cfg.Factor()
	if samples := width * height * factor * factor; samples > maxPageSamples {
		return ctx.e(ErrLimitcheck, "%dx%d page with oversampling %d", width, height, factor)
	}
	ctx.Config = cfg
	ctx.Width = width
	ctx.Height = height

	for _, key := range []Name{"width", "height", "oversampling", "transparent"} {
		if _, ok := d.Get(key); ok {
			ctx.clearDevices()
			break
		}
	}
	return nil
}

// Page size limits, in device units and in samples.
const (
	maxPageSize    = 1 << 14
	maxPageSamples = 1 << 27
)

// pageSize clamps a page dimension to the range [1, maxPageSize].
func pageSize(x Number) int {
	if !(x >= 1) {
		return 1
	}
	return int(min(x, maxPageSize))
}
