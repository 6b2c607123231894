// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package binio

import (
	"encoding/binary"
	"fmt"
)

// Byte-order mark handling. The mark is stored as the 16-bit value
// 0xFEFF in the file's own byte order, so the on-disk bytes reveal the
// order: FF FE is little-endian, FE FF is big-endian.
const bomValue = 0xFEFF

// OrderFromBOM maps the two byte-order-mark bytes (in file position
// order) to a byte order.
func OrderFromBOM(b0, b1 byte) (binary.ByteOrder, error) {
	switch {
	case b0 == 0xFF && b1 == 0xFE:
		return binary.LittleEndian, nil
	case b0 == 0xFE && b1 == 0xFF:
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("invalid byte-order mark: 0x%02x%02x (expected 0xFFFE or 0xFEFF)", b0, b1)
	}
}

// BOM returns the byte-order-mark value to write in the file's own
// byte order.
func BOM() uint16 {
	return bomValue
}

// Reader is a bounds-checked cursor over a byte slice with an explicit
// byte order. Reads past the end latch an error and return zero values;
// callers check [Reader.Err] after each logical group of reads.
type Reader struct {
	data  []byte
	order binary.ByteOrder
	pos   int
	err   error
}

// NewReader creates a reader over data using the given byte order.
func NewReader(data []byte, order binary.ByteOrder) *Reader {
	return &Reader{data: data, order: order}
}

// Order returns the reader's byte order.
func (r *Reader) Order() binary.ByteOrder {
	return r.order
}

// Err returns the first out-of-range read error, or nil.
func (r *Reader) Err() error {
	return r.err
}

// Pos returns the current cursor offset.
func (r *Reader) Pos() int {
	return r.pos
}

// Len returns the total data length.
func (r *Reader) Len() int {
	return len(r.data)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Seek moves the cursor to an absolute offset.
func (r *Reader) Seek(offset int) {
	if offset < 0 || offset > len(r.data) {
		r.fail(offset, 0)
		return
	}
	r.pos = offset
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) {
	if !r.need(n) {
		return
	}
	r.pos += n
}

// U8 reads one byte.
func (r *Reader) U8() uint8 {
	if !r.need(1) {
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}

// S8 reads one signed byte.
func (r *Reader) S8() int8 {
	return int8(r.U8())
}

// U16 reads a 16-bit value in the reader's byte order.
func (r *Reader) U16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := r.order.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

// U32 reads a 32-bit value in the reader's byte order.
func (r *Reader) U32() uint32 {
	if !r.need(4) {
		return 0
	}
	v := r.order.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

// U64 reads a 64-bit value in the reader's byte order.
func (r *Reader) U64() uint64 {
	if !r.need(8) {
		return 0
	}
	v := r.order.Uint64(r.data[r.pos:])
	r.pos += 8
	return v
}

// Bytes reads n bytes. The returned slice aliases the reader's data.
func (r *Reader) Bytes(n int) []byte {
	if n < 0 || !r.need(n) {
		return nil
	}
	v := r.data[r.pos : r.pos+n]
	r.pos += n
	return v
}

// need checks that n bytes remain, latching an error if not.
func (r *Reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.pos+n > len(r.data) {
		r.fail(r.pos, n)
		return false
	}
	return true
}

func (r *Reader) fail(offset, n int) {
	if r.err == nil {
		r.err = fmt.Errorf("read of %d bytes at offset 0x%x exceeds data length %d", n, offset, len(r.data))
	}
}
