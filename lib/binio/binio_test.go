// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package binio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestOrderFromBOM(t *testing.T) {
	tests := []struct {
		name    string
		b0, b1  byte
		want    binary.ByteOrder
		wantErr bool
	}{
		{"little", 0xFF, 0xFE, binary.LittleEndian, false},
		{"big", 0xFE, 0xFF, binary.BigEndian, false},
		{"garbage", 0x12, 0x34, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OrderFromBOM(tt.b0, tt.b1)
			if tt.wantErr {
				if err == nil {
					t.Fatal("OrderFromBOM() = nil error, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("OrderFromBOM() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("OrderFromBOM() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBOMRoundtrip(t *testing.T) {
	// Writing the BOM value in the file's own byte order must produce
	// bytes that OrderFromBOM maps back to the same order.
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		w := NewWriter(order)
		w.U16(BOM())
		data := w.Data()

		got, err := OrderFromBOM(data[0], data[1])
		if err != nil {
			t.Fatalf("OrderFromBOM() error: %v", err)
		}
		if got != order {
			t.Errorf("round-trip order = %v, want %v", got, order)
		}
	}
}

func TestReaderValues(t *testing.T) {
	w := NewWriter(binary.BigEndian)
	w.U8(0x7F)
	w.S8(-3)
	w.U16(0x1234)
	w.U32(0xDEADBEEF)
	w.U64(0x0102030405060708)
	w.Bytes([]byte("FFNT"))

	r := NewReader(w.Data(), binary.BigEndian)
	if got := r.U8(); got != 0x7F {
		t.Errorf("U8() = 0x%x, want 0x7f", got)
	}
	if got := r.S8(); got != -3 {
		t.Errorf("S8() = %d, want -3", got)
	}
	if got := r.U16(); got != 0x1234 {
		t.Errorf("U16() = 0x%x, want 0x1234", got)
	}
	if got := r.U32(); got != 0xDEADBEEF {
		t.Errorf("U32() = 0x%x, want 0xdeadbeef", got)
	}
	if got := r.U64(); got != 0x0102030405060708 {
		t.Errorf("U64() = 0x%x, want 0x0102030405060708", got)
	}
	if got := r.Bytes(4); !bytes.Equal(got, []byte("FFNT")) {
		t.Errorf("Bytes(4) = %q, want FFNT", got)
	}
	if err := r.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", r.Remaining())
	}
}

func TestReaderStickyError(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02}, binary.LittleEndian)

	if got := r.U32(); got != 0 {
		t.Errorf("U32() past end = 0x%x, want 0", got)
	}
	if r.Err() == nil {
		t.Fatal("Err() = nil after out-of-range read")
	}

	// Later reads keep returning zero and keep the first error.
	first := r.Err()
	_ = r.U16()
	if r.Err() != first {
		t.Errorf("Err() changed after subsequent read")
	}
}

func TestReaderSeekSkip(t *testing.T) {
	r := NewReader([]byte{0, 1, 2, 3, 4, 5, 6, 7}, binary.LittleEndian)
	r.Seek(4)
	if got := r.U8(); got != 4 {
		t.Errorf("U8() after Seek(4) = %d, want 4", got)
	}
	r.Skip(2)
	if got := r.U8(); got != 7 {
		t.Errorf("U8() after Skip(2) = %d, want 7", got)
	}

	r.Seek(100)
	if r.Err() == nil {
		t.Error("Err() = nil after Seek past end")
	}
}

func TestWriterU16U32Order(t *testing.T) {
	w := NewWriter(binary.LittleEndian)
	w.U16(0x1234)
	w.U32(0xAABBCCDD)
	want := []byte{0x34, 0x12, 0xDD, 0xCC, 0xBB, 0xAA}
	if !bytes.Equal(w.Data(), want) {
		t.Errorf("Data() = % x, want % x", w.Data(), want)
	}
}

func TestWriterPatch(t *testing.T) {
	w := NewWriter(binary.LittleEndian)
	w.U32(0) // placeholder
	w.Bytes([]byte("body"))
	w.PatchU32(0, uint32(w.Pos()))

	r := NewReader(w.Data(), binary.LittleEndian)
	if got := r.U32(); got != 8 {
		t.Errorf("patched size = %d, want 8", got)
	}
}

func TestWriterAlignAndPadTo(t *testing.T) {
	w := NewWriter(binary.LittleEndian)
	w.Bytes([]byte{1, 2, 3})
	w.Align(4, 0xAB)
	if w.Pos() != 4 {
		t.Fatalf("Pos() after Align = %d, want 4", w.Pos())
	}
	if w.Data()[3] != 0xAB {
		t.Errorf("pad byte = 0x%x, want 0xab", w.Data()[3])
	}

	// Already aligned: no change.
	w.Align(4, 0xAB)
	if w.Pos() != 4 {
		t.Errorf("Pos() after second Align = %d, want 4", w.Pos())
	}

	w.PadTo(16, 0)
	if w.Pos() != 16 {
		t.Errorf("Pos() after PadTo(16) = %d, want 16", w.Pos())
	}
}

func TestWriterU64(t *testing.T) {
	w := NewWriter(binary.BigEndian)
	w.U64(0x1122334455667788)
	want := []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}
	if !bytes.Equal(w.Data(), want) {
		t.Errorf("Data() = % x, want % x", w.Data(), want)
	}
}
