// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package mem provides a frame arena. Everything a builder produces during
// one pass is allocated from it and released at once by Reset.
package mem

import (
	"reflect"
	"unsafe"
)

const slabSize = 1024 * 1024

var zeroSized [0]byte

type Arena struct {
	// Slabs for types without pointers. These are plain bytes and the GC
	// doesn't need to scan them.
	byteSlabs []slab
	// Slabs for types with pointers, one set per type so the GC sees
	// correctly typed memory.
	typedSlabs map[reflect.Type][]slab
}

type slab struct {
	data   unsafe.Pointer
	size   int
	offset int
}

func NewArena() *Arena {
	return &Arena{
		typedSlabs: make(map[reflect.Type][]slab),
	}
}

func New[T any](a *Arena) *T {
	// TypeOf(*new(T)) doesn't work for interface types, it sees a nil
	// interface.
	var t *T
	return (*T)(a.alloc(reflect.TypeOf(t).Elem(), 1))
}

func Make[T any](a *Arena, v T) *T {
	ptr := New[T](a)
	*ptr = v
	return ptr
}

func NewSlice[S ~[]E, E any](a *Arena, len, cap int) S {
	if cap == 0 {
		return nil
	}
	var e *E
	ptr := a.alloc(reflect.TypeOf(e).Elem(), cap)
	return S(unsafe.Slice((*E)(ptr), cap)[:len])
}

func Append[S ~[]E, E any](a *Arena, s S, data ...E) S {
	s = grow(a, s, len(data))
	return append(s, data...)
}

func grow[S ~[]E, E any](a *Arena, s S, n int) S {
	const growThreshold = 256
	newLen := len(s) + n
	newCap := cap(s)
	if newLen <= newCap {
		return s
	}

	if newCap == 0 {
		newCap = max(n, 8)
	}
	for newLen > newCap {
		if newCap < growThreshold {
			newCap *= 2
		} else {
			newCap += newCap / 4
		}
	}
	s2 := NewSlice[S, E](a, len(s), newCap)
	copy(s2, s)
	return s2
}

// rtype mirrors the leading fields of the runtime's type descriptor.
type rtype struct {
	size      int
	ptrPrefix int
	_         uint32
	_         uint8
	align     uint8
}

func typeInfo(typ reflect.Type) *rtype {
	type iface struct {
		_    unsafe.Pointer
		rtyp *rtype
	}
	return (*iface)(unsafe.Pointer(&typ)).rtyp
}

func (a *Arena) alloc(typ reflect.Type, num int) unsafe.Pointer {
	rtyp := typeInfo(typ)
	if rtyp.size == 0 {
		return unsafe.Pointer(&zeroSized)
	}
	// size already includes padding
	total := num * rtyp.size
	if total > slabSize {
		// Doesn't fit any slab, let the GC deal with it.
		return reflect.MakeSlice(reflect.SliceOf(typ), num, num).UnsafePointer()
	}

	if rtyp.ptrPrefix == 0 {
		if ptr, ok := bump(a.byteSlabs, total, rtyp.align); ok {
			clear(unsafe.Slice((*byte)(ptr), total))
			return ptr
		}
		a.byteSlabs = append(a.byteSlabs, slab{
			data:   unsafe.Pointer(unsafe.SliceData(make([]byte, slabSize))),
			size:   slabSize,
			offset: total,
		})
		return a.byteSlabs[len(a.byteSlabs)-1].data
	}

	if a.typedSlabs == nil {
		a.typedSlabs = make(map[reflect.Type][]slab)
	}
	slabs := a.typedSlabs[typ]
	// Typed slabs are in units of elements, not bytes.
	if ptr, ok := bumpTyped(slabs, num, rtyp.size); ok {
		// Memory was zeroed by Reset.
		return ptr
	}
	n := max(slabSize/rtyp.size, num)
	a.typedSlabs[typ] = append(slabs, slab{
		data:   reflect.MakeSlice(reflect.SliceOf(typ), n, n).UnsafePointer(),
		size:   n,
		offset: num,
	})
	return a.typedSlabs[typ][len(a.typedSlabs[typ])-1].data
}

func bump(slabs []slab, size int, alignment uint8) (unsafe.Pointer, bool) {
	for i := range slabs {
		sl := &slabs[i]
		off := align(sl.offset, alignment)
		if sl.size-off >= size {
			sl.offset = off + size
			return unsafe.Add(sl.data, off), true
		}
	}
	return nil, false
}

func bumpTyped(slabs []slab, num int, elemSize int) (unsafe.Pointer, bool) {
	for i := range slabs {
		sl := &slabs[i]
		if sl.size-sl.offset >= num {
			ptr := unsafe.Add(sl.data, sl.offset*elemSize)
			sl.offset += num
			return ptr, true
		}
	}
	return nil, false
}

// to has to be a power of two.
func align(v int, to uint8) int {
	return v + (-v & (int(to) - 1))
}

// Reset makes all memory available again. Anything allocated before the call
// must no longer be used.
func (a *Arena) Reset() {
	for i := range a.byteSlabs {
		a.byteSlabs[i].offset = 0
	}
	for typ, slabs := range a.typedSlabs {
		size := typeInfo(typ).size
		for i := range slabs {
			sl := &slabs[i]
			// Clear memory so it doesn't keep Go pointers alive.
			clear(unsafe.Slice((*byte)(sl.data), sl.offset*size))
			sl.offset = 0
		}
	}
}

// Used returns the number of bytes currently handed out.
func (a *Arena) Used() int {
	n := 0
	for _, sl := range a.byteSlabs {
		n += sl.offset
	}
	for typ, slabs := range a.typedSlabs {
		size := typeInfo(typ).size
		for _, sl := range slabs {
			n += sl.offset * size
		}
	}
	return n
}
