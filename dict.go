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

// Dict is a PostScript dictionary.  Keys are kept in insertion order,
// which is the order used when the dictionary is printed.
type Dict struct {
	keys []Name
	vals map[Name]Value
}

// NewDict returns an empty dictionary.
func NewDict() *Dict {
	return &Dict{vals: make(map[Name]Value)}
}

// Get returns the value bound to key.
func (d *Dict) Get(key Name) (Value, bool) {
	v, ok := d.vals[key]
	return v, ok
}

// Put binds key to v and returns the previous binding, if any.
func (d *Dict) Put(key Name, v Value) (Value, bool) {
	old, ok := d.vals[key]
	if !ok {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = v
	return old, ok
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []Name {
	return d.keys
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	return len(d.keys)
}

// Copy returns a shallow copy of d.  Heap references are not acquired.
func (d *Dict) Copy() *Dict {
	res := &Dict{
		keys: make([]Name, len(d.keys)),
		vals: make(map[Name]Value, len(d.vals)),
	}
	copy(res.keys, d.keys)
	for k, v := range d.vals {
		res.vals[k] = v
	}
	return res
}
