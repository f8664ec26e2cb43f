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

import (
	"time"
)

// macEpoch is the origin of the date fields in the head table.
var macEpoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

// reader reads big-endian values from a byte slice.  Reading past the end
// of the data sets err and returns zero values from then on.
type reader struct {
	data []byte
	pos  int
	err  error
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) seek(pos int) {
	if pos < 0 || pos > len(r.data) {
		r.fail()
		return
	}
	r.pos = pos
}

func (r *reader) fail() {
	if r.err == nil {
		r.err = errTruncated
	}
	r.pos = len(r.data)
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.pos+n > len(r.data) {
		r.fail()
		return nil
	}
	res := r.data[r.pos : r.pos+n]
	r.pos += n
	return res
}

func (r *reader) skip(n int) {
	r.bytes(n)
}

func (r *reader) u8() uint8 {
	b := r.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) i8() int8 {
	return int8(r.u8())
}

func (r *reader) u16() uint16 {
	b := r.bytes(2)
	if b == nil {
		return 0
	}
	return uint16(b[0])<<8 | uint16(b[1])
}

func (r *reader) i16() int16 {
	return int16(r.u16())
}

func (r *reader) u32() uint32 {
	b := r.bytes(4)
	if b == nil {
		return 0
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func (r *reader) i32() int32 {
	return int32(r.u32())
}

// f2dot14 reads a signed 2.14 fixed point number.
func (r *reader) f2dot14() float64 {
	return float64(r.i16()) / (1 << 14)
}

// fixed reads a signed 16.16 fixed point number.
func (r *reader) fixed() float64 {
	return float64(r.i32()) / (1 << 16)
}

// date reads a LONGDATETIME value, counting seconds since 1904-01-01.
func (r *reader) date() time.Time {
	hi := r.u32()
	lo := r.u32()
	secs := int64(hi)<<32 | int64(lo)
	return macEpoch.Add(time.Duration(secs) * time.Second)
}

func (r *reader) tag() string {
	return string(r.bytes(4))
}
