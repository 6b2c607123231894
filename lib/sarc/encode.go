// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package sarc

import (
	"fmt"
	"sort"

	"github.com/nwkit/nwkit/lib/binio"
)

// Encode serializes the archive. Members are written in name hash
// order, as the console's binary search requires; member data is
// aligned per the archive's Alignment.
func (a *Archive) Encode() ([]byte, error) {
	if a.Order == nil {
		return nil, fmt.Errorf("archive byte order is not set")
	}
	if len(a.Files) > 0xFFFF {
		return nil, fmt.Errorf("archive has %d members, maximum is %d", len(a.Files), 0xFFFF)
	}
	key := a.HashKey
	if key == 0 {
		key = DefaultHashKey
	}

	// Nodes sorted by hash. Equal hashes would be indistinguishable
	// to the console's lookup, so they are an error.
	ordered := make([]*File, len(a.Files))
	for i := range a.Files {
		ordered[i] = &a.Files[i]
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].hash(key) < ordered[j].hash(key)
	})
	for i := 1; i < len(ordered); i++ {
		if ordered[i].hash(key) == ordered[i-1].hash(key) {
			return nil, fmt.Errorf("members %q and %q collide on name hash 0x%08x",
				ordered[i-1].Name, ordered[i].Name, ordered[i].hash(key))
		}
	}

	// Name table, 4-byte granular so node attributes can address it
	// in 4-byte units.
	nameOffsets := make([]int, len(ordered))
	var names []byte
	for i, file := range ordered {
		if file.Name == "" {
			nameOffsets[i] = -1
			continue
		}
		nameOffsets[i] = len(names)
		names = append(names, file.Name...)
		names = append(names, 0)
		for len(names)%4 != 0 {
			names = append(names, 0)
		}
	}

	alignment := a.alignment()
	headerEnd := sarcHeaderSize + sfatHeaderSize + sfatNodeSize*len(ordered) + sfntHeaderSize + len(names)
	dataOffset := align(headerEnd, alignment)

	// Member data offsets relative to dataOffset.
	starts := make([]int, len(ordered))
	ends := make([]int, len(ordered))
	position := 0
	for i, file := range ordered {
		position = align(position, alignment)
		starts[i] = position
		position += len(file.Data)
		ends[i] = position
	}
	fileSize := dataOffset + position

	w := binio.NewWriter(a.Order)
	w.Bytes([]byte("SARC"))
	w.U16(sarcHeaderSize)
	w.U16(binio.BOM())
	w.U32(uint32(fileSize))
	w.U32(uint32(dataOffset))
	w.U16(sarcVersion)
	w.U16(0)

	w.Bytes([]byte("SFAT"))
	w.U16(sfatHeaderSize)
	w.U16(uint16(len(ordered)))
	w.U32(key)
	for i, file := range ordered {
		w.U32(file.hash(key))
		if nameOffsets[i] >= 0 {
			w.U32(nodeHasName | uint32(nameOffsets[i]/4))
		} else {
			w.U32(0)
		}
		w.U32(uint32(starts[i]))
		w.U32(uint32(ends[i]))
	}

	w.Bytes([]byte("SFNT"))
	w.U16(sfntHeaderSize)
	w.U16(0)
	w.Bytes(names)

	w.PadTo(dataOffset, 0)
	for i, file := range ordered {
		w.PadTo(dataOffset+starts[i], 0)
		w.Bytes(file.Data)
	}

	return w.Data(), nil
}

// align rounds n up to the next multiple of to.
func align(n, to int) int {
	return (n + to - 1) / to * to
}
