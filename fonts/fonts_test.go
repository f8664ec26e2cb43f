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

package fonts

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"
)

func TestBuiltin(t *testing.T) {
	names := BuiltinNames()
	if len(names) != 12 {
		t.Errorf("got %d built-in fonts, want 12", len(names))
	}
	for _, name := range names {
		data, err := Builtin.Open(name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
		} else if len(data) == 0 {
			t.Errorf("%s: no data", name)
		}
	}

	_, err := Builtin.Open("Helvetica")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	want := []byte("not really a font")
	err := os.WriteFile(filepath.Join(dir, "Test.ttf"), want, 0o644)
	if err != nil {
		t.Fatal(err)
	}

	src := Dir(dir)
	got, err := src.Open("Test")
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}

	for _, name := range []string{"", "Missing", "../Test", ".hidden", `a\b`} {
		_, err := src.Open(name)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%q: unexpected error %v", name, err)
		}
	}
}

type failingSource struct{}

var errBroken = errors.New("broken")

func (failingSource) Open(name string) ([]byte, error) {
	return nil, errBroken
}

func TestChain(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "GoRegular.ttf"), []byte("override"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	c := Chain{Dir(dir), Builtin}
	data, err := c.Open("GoRegular")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "override" {
		t.Errorf("first source did not win")
	}
	data, err = c.Open("GoBold")
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("no data for GoBold")
	}

	_, err = Chain{Builtin, failingSource{}}.Open("Nothing")
	if !errors.Is(err, errBroken) {
		t.Errorf("unexpected error %v", err)
	}
	data, err = Chain{Builtin, failingSource{}}.Open("GoRegular")
	if err != nil || !bytes.Equal(data, goregular.TTF) {
		t.Errorf("builtin font not found before failing source: %v", err)
	}
	_, err = Chain{}.Open("GoRegular")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unexpected error %v", err)
	}
}
