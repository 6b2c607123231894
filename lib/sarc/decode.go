// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package sarc

import (
	"fmt"

	"github.com/nwkit/nwkit/lib/binio"
)

// Decode parses a raw (already decompressed) SARC archive.
func Decode(data []byte) (*Archive, error) {
	if len(data) < sarcHeaderSize {
		return nil, fmt.Errorf("file is %d bytes, smaller than the %d-byte SARC header", len(data), sarcHeaderSize)
	}

	// The byte-order mark sits after the header length field, so it
	// is located positionally before any multi-byte field is read.
	order, err := binio.OrderFromBOM(data[6], data[7])
	if err != nil {
		return nil, err
	}
	r := binio.NewReader(data, order)

	magic := string(r.Bytes(4))
	headerSize := r.U16()
	r.Skip(2) // BOM, consumed above
	fileSize := r.U32()
	dataOffset := r.U32()
	version := r.U16()
	r.Skip(2) // reserved
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("reading SARC header: %w", err)
	}

	if magic != "SARC" {
		return nil, fmt.Errorf("invalid SARC magic %q (expected SARC)", magic)
	}
	if headerSize != sarcHeaderSize {
		return nil, fmt.Errorf("invalid SARC header size %d (expected %d)", headerSize, sarcHeaderSize)
	}
	if version != sarcVersion {
		return nil, fmt.Errorf("unknown SARC version 0x%04x (expected 0x%04x)", version, sarcVersion)
	}
	if int(fileSize) != r.Len() {
		return nil, fmt.Errorf("header file size %d does not match actual size %d", fileSize, r.Len())
	}
	if int(dataOffset) > r.Len() {
		return nil, fmt.Errorf("data offset 0x%x past end of file", dataOffset)
	}

	sfatMagic := string(r.Bytes(4))
	sfatHeader := r.U16()
	nodeCount := r.U16()
	hashKey := r.U32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("reading SFAT header: %w", err)
	}
	if sfatMagic != "SFAT" {
		return nil, fmt.Errorf("invalid SFAT magic %q (expected SFAT)", sfatMagic)
	}
	if sfatHeader != sfatHeaderSize {
		return nil, fmt.Errorf("invalid SFAT header size %d (expected %d)", sfatHeader, sfatHeaderSize)
	}

	type node struct {
		hash       uint32
		attributes uint32
		dataStart  uint32
		dataEnd    uint32
	}
	nodes := make([]node, nodeCount)
	for i := range nodes {
		nodes[i] = node{
			hash:       r.U32(),
			attributes: r.U32(),
			dataStart:  r.U32(),
			dataEnd:    r.U32(),
		}
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("reading SFAT nodes: %w", err)
	}

	sfntMagic := string(r.Bytes(4))
	r.Skip(4) // header size + reserved
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("reading SFNT header: %w", err)
	}
	if sfntMagic != "SFNT" {
		return nil, fmt.Errorf("invalid SFNT magic %q (expected SFNT)", sfntMagic)
	}
	nameBase := r.Pos()

	archive := &Archive{Order: order, HashKey: hashKey}
	for i, n := range nodes {
		if n.dataEnd < n.dataStart {
			return nil, fmt.Errorf("node %d data range end 0x%x before start 0x%x", i, n.dataEnd, n.dataStart)
		}
		start := int(dataOffset) + int(n.dataStart)
		end := int(dataOffset) + int(n.dataEnd)
		if end > r.Len() {
			return nil, fmt.Errorf("node %d data range [0x%x, 0x%x) past end of file", i, start, end)
		}

		file := File{Hash: n.hash}
		if n.attributes&nodeHasName != 0 {
			nameOffset := nameBase + int(n.attributes&0x00FFFFFF)*4
			name, err := readName(data, nameOffset)
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", i, err)
			}
			file.Name = name
			if got := NameHash(name, hashKey); got != n.hash {
				return nil, fmt.Errorf("node %d name %q hashes to 0x%08x, table records 0x%08x",
					i, name, got, n.hash)
			}
		}
		file.Data = append([]byte(nil), data[start:end]...)
		archive.Files = append(archive.Files, file)
	}

	return archive, nil
}

// readName reads a NUL-terminated name from the SFNT table.
func readName(data []byte, offset int) (string, error) {
	if offset < 0 || offset >= len(data) {
		return "", fmt.Errorf("name offset 0x%x past end of file", offset)
	}
	end := offset
	for end < len(data) && data[end] != 0 {
		end++
	}
	if end == len(data) {
		return "", fmt.Errorf("unterminated name at offset 0x%x", offset)
	}
	return string(data[offset:end]), nil
}
