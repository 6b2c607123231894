// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package binio

import (
	"encoding/binary"
	"fmt"
)

// Writer builds a binary file in memory with an explicit byte order.
// Section sizes and offsets that are only known after the body is laid
// out are written with the PatchU16/PatchU32 methods, mirroring the
// seek-back style the container formats require.
type Writer struct {
	data  []byte
	order binary.ByteOrder
}

// NewWriter creates an empty writer using the given byte order.
func NewWriter(order binary.ByteOrder) *Writer {
	return &Writer{order: order}
}

// Order returns the writer's byte order.
func (w *Writer) Order() binary.ByteOrder {
	return w.order
}

// Pos returns the current length of the written data.
func (w *Writer) Pos() int {
	return len(w.data)
}

// Data returns the accumulated bytes.
func (w *Writer) Data() []byte {
	return w.data
}

// U8 appends one byte.
func (w *Writer) U8(v uint8) {
	w.data = append(w.data, v)
}

// S8 appends one signed byte.
func (w *Writer) S8(v int8) {
	w.U8(uint8(v))
}

// U16 appends a 16-bit value in the writer's byte order.
func (w *Writer) U16(v uint16) {
	var buf [2]byte
	w.order.PutUint16(buf[:], v)
	w.data = append(w.data, buf[:]...)
}

// U32 appends a 32-bit value in the writer's byte order.
func (w *Writer) U32(v uint32) {
	var buf [4]byte
	w.order.PutUint32(buf[:], v)
	w.data = append(w.data, buf[:]...)
}

// U64 appends a 64-bit value in the writer's byte order.
func (w *Writer) U64(v uint64) {
	var buf [8]byte
	w.order.PutUint64(buf[:], v)
	w.data = append(w.data, buf[:]...)
}

// Bytes appends raw bytes.
func (w *Writer) Bytes(b []byte) {
	w.data = append(w.data, b...)
}

// Zero appends n zero bytes.
func (w *Writer) Zero(n int) {
	w.data = append(w.data, make([]byte, n)...)
}

// PadTo extends the data with pad bytes until its length is offset.
// Panics if the writer is already past offset: that indicates a layout
// bug, not an input error.
func (w *Writer) PadTo(offset int, pad byte) {
	if len(w.data) > offset {
		panic(fmt.Sprintf("binio: PadTo(0x%x) but writer is at 0x%x", offset, len(w.data)))
	}
	for len(w.data) < offset {
		w.data = append(w.data, pad)
	}
}

// Align pads with pad bytes to the next multiple of n.
func (w *Writer) Align(n int, pad byte) {
	for len(w.data)%n != 0 {
		w.data = append(w.data, pad)
	}
}

// PatchU16 overwrites a 16-bit value at an absolute offset.
func (w *Writer) PatchU16(offset int, v uint16) {
	w.order.PutUint16(w.data[offset:], v)
}

// PatchU32 overwrites a 32-bit value at an absolute offset.
func (w *Writer) PatchU32(offset int, v uint32) {
	w.order.PutUint32(w.data[offset:], v)
}
