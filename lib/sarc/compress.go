// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package sarc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Compression identifies the outer encoding wrapped around an archive
// on disk.
type Compression uint8

const (
	// CompressionNone is a bare .sarc file.
	CompressionNone Compression = 0

	// CompressionYaz0 is the classic Nintendo run-length wrapper
	// (.szs): a 16-byte header followed by a bit-grouped LZ stream
	// with a 4 KiB window.
	CompressionYaz0 Compression = 1

	// CompressionZstd is the zstd wrapper (.zs) used by newer Switch
	// titles.
	CompressionZstd Compression = 2
)

// String returns the human-readable name of a compression kind.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionYaz0:
		return "yaz0"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a compression kind from its string
// representation.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "yaz0":
		return CompressionYaz0, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (want none, yaz0, or zstd)", name)
	}
}

// zstdMagic is the zstd frame magic, little-endian on disk.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// DetectCompression sniffs the leading magic of data.
func DetectCompression(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, []byte("Yaz0")):
		return CompressionYaz0
	case bytes.HasPrefix(data, zstdMagic):
		return CompressionZstd
	default:
		return CompressionNone
	}
}

// CompressionForPath picks the wrapper conventional for a file
// extension: .szs is Yaz0, .zs is zstd, anything else is bare.
func CompressionForPath(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".szs":
		return CompressionYaz0
	case ".zs":
		return CompressionZstd
	default:
		return CompressionNone
	}
}

// Decompress unwraps data according to its detected compression and
// returns the raw payload along with the kind found, so the caller
// can re-wrap identically.
func Decompress(data []byte) ([]byte, Compression, error) {
	kind := DetectCompression(data)
	switch kind {
	case CompressionYaz0:
		raw, err := decompressYaz0(data)
		return raw, kind, err
	case CompressionZstd:
		raw, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, kind, fmt.Errorf("zstd decompress: %w", err)
		}
		return raw, kind, nil
	default:
		return data, CompressionNone, nil
	}
}

// Compress wraps data in the given encoding.
func Compress(data []byte, kind Compression) ([]byte, error) {
	switch kind {
	case CompressionNone:
		return data, nil
	case CompressionYaz0:
		return compressYaz0(data), nil
	case CompressionZstd:
		return zstdEncoder.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("unsupported compression %d", kind)
	}
}

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead. Both are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("sarc: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("sarc: zstd decoder initialization failed: " + err.Error())
	}
}

// Yaz0 stream limits: 12-bit backreference distance, copy length up
// to 0xFF + 0x12.
const (
	yaz0HeaderSize = 16
	yaz0MaxDist    = 0x1000
	yaz0MaxLength  = 0x111
)

// decompressYaz0 expands a Yaz0 stream. The header's size field is
// authoritative; a stream that ends early is an error.
func decompressYaz0(data []byte) ([]byte, error) {
	if len(data) < yaz0HeaderSize {
		return nil, fmt.Errorf("yaz0 stream is %d bytes, smaller than the %d-byte header", len(data), yaz0HeaderSize)
	}
	size := binary.BigEndian.Uint32(data[4:8])

	out := make([]byte, 0, size)
	pos := yaz0HeaderSize
	var group byte
	var groupBits int

	for len(out) < int(size) {
		if groupBits == 0 {
			if pos >= len(data) {
				return nil, fmt.Errorf("yaz0 stream truncated at group header (offset 0x%x)", pos)
			}
			group = data[pos]
			pos++
			groupBits = 8
		}

		if group&0x80 != 0 {
			if pos >= len(data) {
				return nil, fmt.Errorf("yaz0 stream truncated at literal (offset 0x%x)", pos)
			}
			out = append(out, data[pos])
			pos++
		} else {
			if pos+2 > len(data) {
				return nil, fmt.Errorf("yaz0 stream truncated at backreference (offset 0x%x)", pos)
			}
			b1, b2 := data[pos], data[pos+1]
			pos += 2

			distance := (int(b1&0x0F)<<8 | int(b2)) + 1
			length := int(b1 >> 4)
			if length == 0 {
				if pos >= len(data) {
					return nil, fmt.Errorf("yaz0 stream truncated at long backreference (offset 0x%x)", pos)
				}
				length = int(data[pos]) + 0x12
				pos++
			} else {
				length += 2
			}

			source := len(out) - distance
			if source < 0 {
				return nil, fmt.Errorf("yaz0 backreference distance %d exceeds output position %d", distance, len(out))
			}
			// Overlapping copies are legal (distance < length), so
			// copy byte by byte.
			for i := 0; i < length; i++ {
				out = append(out, out[source+i])
			}
		}
		group <<= 1
		groupBits--
	}

	return out[:size], nil
}

// compressYaz0 produces a Yaz0 stream using a greedy longest-match
// search over the 4 KiB window. Match candidates are found through a
// per-byte position index rather than scanning the whole window.
func compressYaz0(data []byte) []byte {
	out := make([]byte, yaz0HeaderSize, yaz0HeaderSize+len(data)/2+16)
	copy(out, "Yaz0")
	binary.BigEndian.PutUint32(out[4:8], uint32(len(data)))

	// positions[b] holds recent input offsets where byte b occurred,
	// newest last. Entries older than the window are skipped during
	// search and pruned lazily.
	var positions [256][]int

	groupPos := -1
	groupBit := 0

	emitFlag := func(literal bool) {
		if groupBit == 0 {
			groupPos = len(out)
			out = append(out, 0)
			groupBit = 8
		}
		groupBit--
		if literal {
			out[groupPos] |= 1 << uint(groupBit)
		}
	}

	pos := 0
	for pos < len(data) {
		bestLength, bestDistance := 0, 0

		candidates := positions[data[pos]]
		// Newest candidates first: nearer matches are both more
		// likely to extend and cheaper to prune.
		for i := len(candidates) - 1; i >= 0; i-- {
			candidate := candidates[i]
			if pos-candidate > yaz0MaxDist {
				positions[data[pos]] = candidates[i+1:]
				break
			}
			length := matchLength(data, candidate, pos)
			if length > bestLength {
				bestLength = length
				bestDistance = pos - candidate
				if length == yaz0MaxLength {
					break
				}
			}
		}

		if bestLength >= 3 {
			emitFlag(false)
			stored := bestDistance - 1
			if bestLength >= 0x12 {
				out = append(out, byte(stored>>8), byte(stored), byte(bestLength-0x12))
			} else {
				out = append(out, byte(bestLength-2)<<4|byte(stored>>8), byte(stored))
			}
			for i := 0; i < bestLength; i++ {
				positions[data[pos+i]] = append(positions[data[pos+i]], pos+i)
			}
			pos += bestLength
		} else {
			emitFlag(true)
			out = append(out, data[pos])
			positions[data[pos]] = append(positions[data[pos]], pos)
			pos++
		}
	}

	return out
}

// matchLength returns how many bytes of data starting at candidate
// match those starting at pos, capped at the Yaz0 maximum. Reading
// past pos is allowed: overlapping matches decode correctly.
func matchLength(data []byte, candidate, pos int) int {
	limit := len(data) - pos
	if limit > yaz0MaxLength {
		limit = yaz0MaxLength
	}
	length := 0
	for length < limit && data[candidate+length] == data[pos+length] {
		length++
	}
	return length
}
