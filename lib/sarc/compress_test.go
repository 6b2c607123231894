// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package sarc

import (
	"bytes"
	"testing"
)

func TestYaz0Roundtrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short literal run", []byte("abc")},
		{"repetitive", bytes.Repeat([]byte("SARC"), 200)},
		{"single byte run", bytes.Repeat([]byte{0}, 5000)},
		{"mixed", append(bytes.Repeat([]byte{0xAB}, 100), []byte("trailing unique text 12345")...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed := compressYaz0(tt.data)
			if !bytes.HasPrefix(compressed, []byte("Yaz0")) {
				t.Fatal("output missing Yaz0 magic")
			}

			decompressed, err := decompressYaz0(compressed)
			if err != nil {
				t.Fatalf("decompressYaz0: %v", err)
			}
			if !bytes.Equal(decompressed, tt.data) {
				t.Errorf("roundtrip changed data: got %d bytes, want %d", len(decompressed), len(tt.data))
			}
		})
	}
}

func TestYaz0CompressesRuns(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, 4096)
	compressed := compressYaz0(data)
	if len(compressed) >= len(data)/4 {
		t.Errorf("4096-byte run compressed to %d bytes", len(compressed))
	}
}

func TestYaz0OverlappingBackreference(t *testing.T) {
	// A run longer than its backreference distance forces an
	// overlapping copy in the decoder.
	data := []byte("ab")
	data = append(data, bytes.Repeat([]byte("ab"), 100)...)

	decompressed, err := decompressYaz0(compressYaz0(data))
	if err != nil {
		t.Fatalf("decompressYaz0: %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Error("overlapping backreference roundtrip failed")
	}
}

func TestYaz0TruncatedStream(t *testing.T) {
	compressed := compressYaz0(bytes.Repeat([]byte("data"), 50))

	for _, cut := range []int{4, yaz0HeaderSize, yaz0HeaderSize + 1} {
		if cut >= len(compressed) {
			continue
		}
		if _, err := decompressYaz0(compressed[:cut]); err == nil {
			t.Errorf("decompressYaz0 accepted stream truncated to %d bytes", cut)
		}
	}
}

func TestYaz0RejectsBadBackreference(t *testing.T) {
	// Header claims 4 bytes; first operation is a backreference with
	// distance 1 but nothing has been produced yet.
	stream := make([]byte, yaz0HeaderSize, yaz0HeaderSize+3)
	copy(stream, "Yaz0")
	stream[7] = 4
	stream = append(stream, 0x00, 0x10, 0x00)

	if _, err := decompressYaz0(stream); err == nil {
		t.Error("decompressYaz0 accepted a backreference past the stream start")
	}
}

func TestZstdRoundtrip(t *testing.T) {
	data := bytes.Repeat([]byte("zstd payload "), 100)

	compressed, err := Compress(data, CompressionZstd)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if DetectCompression(compressed) != CompressionZstd {
		t.Error("compressed output not detected as zstd")
	}

	decompressed, kind, err := Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if kind != CompressionZstd {
		t.Errorf("Decompress kind = %v, want zstd", kind)
	}
	if !bytes.Equal(decompressed, data) {
		t.Error("zstd roundtrip changed data")
	}
}

func TestDecompressPassesThroughBareArchives(t *testing.T) {
	data := []byte("SARC not really but close enough")
	out, kind, err := Decompress(data)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if kind != CompressionNone {
		t.Errorf("kind = %v, want none", kind)
	}
	if !bytes.Equal(out, data) {
		t.Error("pass-through changed data")
	}
}

func TestDetectCompression(t *testing.T) {
	if got := DetectCompression([]byte("Yaz0\x00\x00\x00\x04")); got != CompressionYaz0 {
		t.Errorf("yaz0 magic detected as %v", got)
	}
	if got := DetectCompression(append(zstdMagic, 1, 2, 3)); got != CompressionZstd {
		t.Errorf("zstd magic detected as %v", got)
	}
	if got := DetectCompression([]byte("SARC")); got != CompressionNone {
		t.Errorf("bare archive detected as %v", got)
	}
}

func TestCompressionForPath(t *testing.T) {
	tests := []struct {
		path string
		want Compression
	}{
		{"archive.szs", CompressionYaz0},
		{"Model.SZS", CompressionYaz0},
		{"pack.zs", CompressionZstd},
		{"plain.sarc", CompressionNone},
		{"noext", CompressionNone},
	}
	for _, tt := range tests {
		if got := CompressionForPath(tt.path); got != tt.want {
			t.Errorf("CompressionForPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestParseCompression(t *testing.T) {
	for _, name := range []string{"none", "yaz0", "zstd"} {
		kind, err := ParseCompression(name)
		if err != nil {
			t.Errorf("ParseCompression(%q): %v", name, err)
		}
		if kind.String() != name {
			t.Errorf("ParseCompression(%q).String() = %q", name, kind.String())
		}
	}
	if _, err := ParseCompression("lz4"); err == nil {
		t.Error("ParseCompression(lz4) should fail")
	}
}
