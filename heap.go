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
	"container/heap"
)

// Handle is the index of a heap slot.
type Handle int

// Heap stores the contents of arrays and strings.  Each slot carries a
// reference count.  When the count drops to zero the slot is freed, the
// references held by its elements are released, and the slot becomes
// available for reuse.
type Heap struct {
	slots []slot
	free  freeList
}

type slot struct {
	elems []Value
	text  []rune
	refs  int
	live  bool
}

// NewHeap returns an empty heap.
func NewHeap() *Heap {
	return &Heap{}
}

// NewArray stores elems on the heap.  The returned handle owns one
// reference.  Ownership of any composite elements passes to the array.
func (h *Heap) NewArray(elems []Value) Array {
	if elems == nil {
		elems = []Value{}
	}
	return Array(h.alloc(slot{elems: elems}))
}

// NewString stores s on the heap.  The returned handle owns one reference.
func (h *Heap) NewString(s []rune) String {
	if s == nil {
		s = []rune{}
	}
	return String(h.alloc(slot{text: s}))
}

// alloc places s in the lowest free slot, or appends a new one.
func (h *Heap) alloc(s slot) Handle {
	s.refs = 1
	s.live = true
	if h.free.Len() > 0 {
		idx := heap.Pop(&h.free).(Handle)
		h.slots[idx] = s
		return idx
	}
	h.slots = append(h.slots, s)
	return Handle(len(h.slots) - 1)
}

// Inc acquires an additional reference to v.  Values which are not
// stored on the heap are ignored.
func (h *Heap) Inc(v Value) {
	if idx, ok := handleOf(v); ok {
		h.slots[idx].refs++
	}
}

// Dec releases a reference to v.  Values which are not stored on the heap
// are ignored.
func (h *Heap) Dec(v Value) {
	if idx, ok := handleOf(v); ok {
		h.release(idx)
	}
}

func (h *Heap) release(idx Handle) {
	s := &h.slots[idx]
	if !s.live {
		return
	}
	s.refs--
	if s.refs > 0 {
		return
	}

	// Strings take the same path; they simply have no elements.
	children := s.elems
	*s = slot{}
	heap.Push(&h.free, idx)
	for _, child := range children {
		h.Dec(child)
	}
}

// Elems returns the elements of an array.  The slice is owned by the heap.
func (h *Heap) Elems(a Array) []Value {
	return h.slots[a].elems
}

// Runes returns the characters of a string.  The slice is owned by the heap.
func (h *Heap) Runes(s String) []rune {
	return h.slots[s].text
}

// Refs returns the reference count of the slot idx.  Free slots have
// count zero.
func (h *Heap) Refs(idx Handle) int {
	if int(idx) >= len(h.slots) {
		return 0
	}
	return h.slots[idx].refs
}

// Live returns the number of slots currently in use.
func (h *Heap) Live() int {
	return len(h.slots) - h.free.Len()
}

func handleOf(v Value) (Handle, bool) {
	switch v := v.(type) {
	case String:
		return Handle(v), true
	case Array:
		return Handle(v), true
	}
	return 0, false
}

// freeList is a min-heap of free slot indices, so that allocation always
// reuses the first free slot.
type freeList []Handle

func (f freeList) Len() int           { return len(f) }
func (f freeList) Less(i, j int) bool { return f[i] < f[j] }
func (f freeList) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }

func (f *freeList) Push(x any) {
	*f = append(*f, x.(Handle))
}

func (f *freeList) Pop() any {
	old := *f
	n := len(old)
	x := old[n-1]
	*f = old[:n-1]
	return x
}
