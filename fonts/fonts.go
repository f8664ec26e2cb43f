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

// Package fonts provides the TrueType data for the fonts used by
// PostScript programs.
package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"
)

// Source looks up font data by name.
type Source interface {
	// Open returns the TrueType data of the named font.
	Open(name string) ([]byte, error)
}

// ErrNotFound is returned (wrapped) when a font source does not know a
// font.
var ErrNotFound = errors.New("font not found")

func notFound(name string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}

type builtinSource map[string][]byte

// Builtin holds the Go fonts.
var Builtin Source = builtinSource{
	"GoRegular":         goregular.TTF,
	"GoBold":            gobold.TTF,
	"GoItalic":          goitalic.TTF,
	"GoBoldItalic":      gobolditalic.TTF,
	"GoMedium":          gomedium.TTF,
	"GoMediumItalic":    gomediumitalic.TTF,
	"GoMono":            gomono.TTF,
	"GoMonoBold":        gomonobold.TTF,
	"GoMonoItalic":      gomonoitalic.TTF,
	"GoMonoBoldItalic":  gomonobolditalic.TTF,
	"GoSmallcaps":       gosmallcaps.TTF,
	"GoSmallcapsItalic": gosmallcapsitalic.TTF,
}

func (s builtinSource) Open(name string) ([]byte, error) {
	data, ok := s[name]
	if !ok {
		return nil, notFound(name)
	}
	return data, nil
}

// BuiltinNames returns the names of the built-in fonts, in sorted order.
func BuiltinNames() []string {
	names := maps.Keys(Builtin.(builtinSource))
	slices.Sort(names)
	return names
}

// Dir reads fonts from files "<name>.ttf" in a directory.
type Dir string

// Open implements the [Source] interface.
func (d Dir) Open(name string) ([]byte, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return nil, notFound(name)
	}
	data, err := os.ReadFile(filepath.Join(string(d), name+".ttf"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, notFound(name)
	} else if err != nil {
		return nil, err
	}
	return data, nil
}

// Chain tries a list of sources in order.
type Chain []Source

// Open implements the [Source] interface.  The first source which has the
// font wins.  Errors other than [ErrNotFound] stop the search.
func (c Chain) Open(name string) ([]byte, error) {
	for _, src := range c {
		data, err := src.Open(name)
		if err == nil {
			return data, nil
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, notFound(name)
}
