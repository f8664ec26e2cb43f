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
	"slices"

	"golang.org/x/exp/maps"
)

// MaxOversampling is the largest supported oversampling factor.
const MaxOversampling = 16

// Config records which outputs are enabled.  The fields hold the numbers
// given to setpagedevice; a non-zero value means "on".
type Config struct {
	Canvas    float64
	CanvasURL float64
	Console   float64
	Interval  float64
	PDF       float64
	PDFURL    float64
	Raw       float64
	RawURL    float64
	SVG       float64
	SVGURL    float64
	TextMode  float64

	Oversampling float64
	Transparent  float64
}

// DefaultConfig returns the configuration used before the first call to
// setpagedevice.
func DefaultConfig() Config {
	return Config{
		Console:      1,
		Raw:          1,
		Oversampling: 1,
	}
}

var configFields = map[string]func(c *Config) *float64{
	"canvas":       func(c *Config) *float64 { return &c.Canvas },
	"canvasurl":    func(c *Config) *float64 { return &c.CanvasURL },
	"console":      func(c *Config) *float64 { return &c.Console },
	"interval":     func(c *Config) *float64 { return &c.Interval },
	"oversampling": func(c *Config) *float64 { return &c.Oversampling },
	"pdf":          func(c *Config) *float64 { return &c.PDF },
	"pdfurl":       func(c *Config) *float64 { return &c.PDFURL },
	"raw":          func(c *Config) *float64 { return &c.Raw },
	"rawurl":       func(c *Config) *float64 { return &c.RawURL },
	"svg":          func(c *Config) *float64 { return &c.SVG },
	"svgurl":       func(c *Config) *float64 { return &c.SVGURL },
	"textmode":     func(c *Config) *float64 { return &c.TextMode },
	"transparent":  func(c *Config) *float64 { return &c.Transparent },
}

// Keys returns the names of all configuration keys, in sorted order.
func Keys() []string {
	keys := maps.Keys(configFields)
	slices.Sort(keys)
	return keys
}

// Set changes the value of a configuration key.  The oversampling factor
// is clamped to the range [1, MaxOversampling].  Set reports whether key
// is known.
func (c *Config) Set(key string, v float64) bool {
	field, ok := configFields[key]
	if !ok {
		return false
	}
	if key == "oversampling" {
		v = min(max(v, 1), MaxOversampling)
	}
	*field(c) = v
	return true
}

// Get returns the value of a configuration key.
func (c *Config) Get(key string) (float64, bool) {
	field, ok := configFields[key]
	if !ok {
		return 0, false
	}
	return *field(c), true
}

// Factor returns the oversampling factor as an integer.
func (c *Config) Factor() int {
	return min(max(int(c.Oversampling), 1), MaxOversampling)
}

// IsTransparent reports whether pages start out transparent instead of
// white.
func (c *Config) IsTransparent() bool {
	return c.Transparent != 0
}

func on(a, b float64) bool {
	return a+b >= 1
}
