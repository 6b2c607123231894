// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package msbt

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"github.com/nwkit/nwkit/lib/binio"
)

// Decode parses an MSBT file.
func Decode(data []byte) (*Document, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("file is %d bytes, smaller than the %d-byte MsgStdBn header", len(data), headerSize)
	}
	if string(data[:8]) != magic {
		return nil, fmt.Errorf("invalid magic %q (expected %s)", data[:8], magic)
	}

	order, err := binio.OrderFromBOM(data[8], data[9])
	if err != nil {
		return nil, err
	}
	r := binio.NewReader(data, order)
	r.Seek(10)
	r.Skip(2) // always zero
	encoding := Encoding(r.U8())
	fileVersion := r.U8()
	sectionCount := r.U16()
	r.Skip(2) // always zero
	fileSize := r.U32()
	r.Skip(10) // padding
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("reading MsgStdBn header: %w", err)
	}

	if encoding != EncodingUTF8 && encoding != EncodingUTF16 {
		return nil, fmt.Errorf("unknown encoding byte 0x%02x", uint8(encoding))
	}
	if fileVersion != version {
		return nil, fmt.Errorf("unknown MSBT version %d (expected %d)", fileVersion, version)
	}
	if int(fileSize) != r.Len() {
		return nil, fmt.Errorf("header file size %d does not match actual size %d", fileSize, r.Len())
	}

	document := &Document{Order: order, Encoding: encoding, AttributeSize: -1}

	var labels map[int]string
	var attributes [][]byte
	var texts [][]Part
	sawLBL1, sawTXT2 := false, false

	for section := 0; section < int(sectionCount); section++ {
		sectionMagic := string(r.Bytes(4))
		size := r.U32()
		r.Skip(8)
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("reading section %d header: %w", section, err)
		}

		body := r.Bytes(int(size))
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("reading %s section: %w", sectionMagic, err)
		}

		switch sectionMagic {
		case "LBL1":
			slots, parsed, err := parseLabels(body, order)
			if err != nil {
				return nil, fmt.Errorf("LBL1 section: %w", err)
			}
			labels = parsed
			document.Slots = slots
			sawLBL1 = true

		case "ATR1":
			parsed, recordSize, err := parseAttributes(body, order)
			if err != nil {
				return nil, fmt.Errorf("ATR1 section: %w", err)
			}
			attributes = parsed
			document.AttributeSize = recordSize

		case "TXT2":
			parsed, err := parseTexts(body, order, encoding)
			if err != nil {
				return nil, fmt.Errorf("TXT2 section: %w", err)
			}
			texts = parsed
			sawTXT2 = true

		default:
			// Unrecognized sections (TSY1, NLI1, ...) are carried as
			// raw bytes so Encode can re-emit them.
			document.Extra = append(document.Extra, RawSection{
				Magic: sectionMagic,
				Data:  append([]byte(nil), body...),
			})
		}

		// Sections are padded to 16 bytes with 0xAB; the final one may
		// omit the padding.
		for r.Pos()%16 != 0 && r.Remaining() > 0 {
			r.Skip(1)
		}
	}

	if !sawLBL1 {
		return nil, fmt.Errorf("file has no LBL1 section")
	}
	if !sawTXT2 {
		return nil, fmt.Errorf("file has no TXT2 section")
	}
	if attributes != nil && len(attributes) != len(texts) {
		return nil, fmt.Errorf("ATR1 has %d records for %d messages", len(attributes), len(texts))
	}
	if len(labels) != len(texts) {
		return nil, fmt.Errorf("LBL1 has %d labels for %d messages", len(labels), len(texts))
	}

	for i := range texts {
		label, ok := labels[i]
		if !ok {
			return nil, fmt.Errorf("message %d has no label", i)
		}
		message := Message{Label: label, Parts: texts[i]}
		if attributes != nil {
			message.Attribute = attributes[i]
		}
		document.Messages = append(document.Messages, message)
	}

	return document, nil
}

// parseLabels walks the LBL1 bucket table and returns the bucket count
// plus a message index to label map.
func parseLabels(body []byte, order binary.ByteOrder) (int, map[int]string, error) {
	r := binio.NewReader(body, order)
	slots := int(r.U32())
	if err := r.Err(); err != nil {
		return 0, nil, fmt.Errorf("reading bucket count: %w", err)
	}
	if slots < 0 || 4+slots*8 > len(body) {
		return 0, nil, fmt.Errorf("bucket table (%d buckets) exceeds section size %d", slots, len(body))
	}

	type bucket struct {
		count  uint32
		offset uint32
	}
	buckets := make([]bucket, slots)
	for i := range buckets {
		buckets[i] = bucket{count: r.U32(), offset: r.U32()}
	}
	if err := r.Err(); err != nil {
		return 0, nil, fmt.Errorf("reading bucket table: %w", err)
	}

	labels := make(map[int]string)
	for slot, b := range buckets {
		// Bucket offsets are relative to the section body start.
		r.Seek(int(b.offset))
		for entry := 0; entry < int(b.count); entry++ {
			length := int(r.U8())
			label := string(r.Bytes(length))
			index := int(r.U32())
			if err := r.Err(); err != nil {
				return 0, nil, fmt.Errorf("reading bucket %d entry %d: %w", slot, entry, err)
			}
			if got := LabelHash(label, slots); got != slot {
				return 0, nil, fmt.Errorf("label %q hashes to bucket %d but is stored in bucket %d", label, got, slot)
			}
			if previous, exists := labels[index]; exists {
				return 0, nil, fmt.Errorf("labels %q and %q both reference message %d", previous, label, index)
			}
			labels[index] = label
		}
	}

	return slots, labels, nil
}

// parseAttributes reads the ATR1 record table.
func parseAttributes(body []byte, order binary.ByteOrder) ([][]byte, int, error) {
	r := binio.NewReader(body, order)
	count := int(r.U32())
	recordSize := int(r.U32())
	if err := r.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading record table header: %w", err)
	}
	if count < 0 || recordSize < 0 || 8+count*recordSize > len(body) {
		return nil, 0, fmt.Errorf("record table (%d records of %d bytes) exceeds section size %d", count, recordSize, len(body))
	}

	records := make([][]byte, count)
	for i := range records {
		records[i] = append([]byte(nil), r.Bytes(recordSize)...)
	}
	if err := r.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading records: %w", err)
	}
	return records, recordSize, nil
}

// parseTexts reads the TXT2 offset table and splits each message into
// parts.
func parseTexts(body []byte, order binary.ByteOrder, encoding Encoding) ([][]Part, error) {
	r := binio.NewReader(body, order)
	count := int(r.U32())
	if count < 0 || 4+count*4 > len(body) {
		return nil, fmt.Errorf("offset table (%d messages) exceeds section size %d", count, len(body))
	}
	offsets := make([]int, count)
	for i := range offsets {
		offsets[i] = int(r.U32())
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("reading offset table: %w", err)
	}

	texts := make([][]Part, count)
	for i, offset := range offsets {
		if offset < 0 || offset > len(body) {
			return nil, fmt.Errorf("message %d offset 0x%x past section end", i, offset)
		}
		var parts []Part
		var err error
		if encoding == EncodingUTF16 {
			parts, err = parseUTF16Message(body[offset:], order)
		} else {
			parts, err = parseUTF8Message(body[offset:])
		}
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		texts[i] = parts
	}
	return texts, nil
}

// parseUTF16Message reads code units until the NUL terminator,
// splitting out 0x0E and 0x0F tag sequences.
func parseUTF16Message(data []byte, order binary.ByteOrder) ([]Part, error) {
	var parts []Part
	var run []uint16

	flush := func() error {
		if len(run) == 0 {
			return nil
		}
		decoded := utf16.Decode(run)
		for _, r := range decoded {
			if r == 0xFFFD {
				return fmt.Errorf("text contains an unpaired UTF-16 surrogate")
			}
		}
		parts = append(parts, Part{Text: string(decoded)})
		run = run[:0]
		return nil
	}

	r := binio.NewReader(data, order)
	for {
		unit := r.U16()
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("text is not NUL-terminated: %w", err)
		}

		switch unit {
		case 0x0000:
			if err := flush(); err != nil {
				return nil, err
			}
			return parts, nil

		case 0x000E:
			if err := flush(); err != nil {
				return nil, err
			}
			group := r.U16()
			kind := r.U16()
			size := int(r.U16())
			payload := r.Bytes(size)
			if err := r.Err(); err != nil {
				return nil, fmt.Errorf("truncated control sequence: %w", err)
			}
			parts = append(parts, Part{Control: &Control{
				Group: group,
				Type:  kind,
				Data:  append([]byte(nil), payload...),
			}})

		case 0x000F:
			if err := flush(); err != nil {
				return nil, err
			}
			group := r.U16()
			kind := r.U16()
			if err := r.Err(); err != nil {
				return nil, fmt.Errorf("truncated closing sequence: %w", err)
			}
			parts = append(parts, Part{Closing: &Closing{Group: group, Type: kind}})

		default:
			run = append(run, unit)
		}
	}
}

// parseUTF8Message reads bytes until the NUL terminator. Tag
// sequences only occur in UTF-16 documents.
func parseUTF8Message(data []byte) ([]Part, error) {
	for i, b := range data {
		switch b {
		case 0x00:
			if i == 0 {
				return nil, nil
			}
			return []Part{{Text: string(data[:i])}}, nil
		case 0x0E, 0x0F:
			return nil, fmt.Errorf("control sequences are only supported in UTF-16 documents")
		}
	}
	return nil, fmt.Errorf("text is not NUL-terminated")
}
