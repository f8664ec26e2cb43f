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
	"slices"
	"sync"

	"golang.org/x/exp/maps"

	"seehuhn.de/go/tinyps/fonts"
	"seehuhn.de/go/tinyps/ttf"
)

// Default limits for new contexts.
const (
	DefaultMaxDepth = 200
	DefaultMaxSteps = 50_000_000
)

// Env is the runtime environment shared by contexts: the operator table,
// the font source with its cache of decoded fonts, and the program
// fragments available to the "run" operator.
//
// An Env can be used by several contexts concurrently.  The Files map
// must not be modified while a context is running.
type Env struct {
	// Fonts is used by findfont to load fonts.
	Fonts fonts.Source

	// Files maps names to PostScript code for the run operator.
	Files map[string]string

	// MaxDepth and MaxSteps are copied into new contexts.
	MaxDepth int
	MaxSteps int

	ops map[Name]builtin

	mu    sync.Mutex
	cache map[string]*ttf.Font
}

// NewEnv returns a new environment.  If src is nil, the built-in Go fonts
// are used.
func NewEnv(src fonts.Source) *Env {
	if src == nil {
		src = fonts.Builtin
	}
	return &Env{
		Fonts:    src,
		Files:    make(map[string]string),
		MaxDepth: DefaultMaxDepth,
		MaxSteps: DefaultMaxSteps,
		ops:      makeSystemDict(),
		cache:    make(map[string]*ttf.Font),
	}
}

// LoadFont returns the decoded font with the given name.  Fonts are
// decoded once and then kept in a cache.
func (env *Env) LoadFont(name string) (*ttf.Font, error) {
	env.mu.Lock()
	defer env.mu.Unlock()

	if font, ok := env.cache[name]; ok {
		return font, nil
	}

	data, err := env.Fonts.Open(name)
	if err != nil {
		return nil, err
	}
	font := ttf.Parse(data)
	if font.Err != nil {
		return nil, font.Err
	}
	tracer().Debugf("loaded font %q, %d glyphs", name, font.NumGlyphs)
	env.cache[name] = font
	return font, nil
}

// FontNames returns the names of all fonts loaded so far, in sorted
// order.
func (env *Env) FontNames() []string {
	env.mu.Lock()
	defer env.mu.Unlock()

	names := maps.Keys(env.cache)
	slices.Sort(names)
	return names
}

// Operators returns the names of all built-in operators, in sorted
// order.
func (env *Env) Operators() []string {
	names := make([]string, 0, len(env.ops))
	for name := range env.ops {
		names = append(names, string(name))
	}
	slices.Sort(names)
	return names
}
