// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package msbt

import (
	"fmt"
	"unicode/utf16"

	"github.com/nwkit/nwkit/lib/binio"
)

// Encode serializes the document: header, LBL1, optional ATR1, TXT2,
// then any carried-through raw sections, each padded to 16 bytes with
// 0xAB.
func (d *Document) Encode() ([]byte, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	lbl1, err := d.encodeLabels()
	if err != nil {
		return nil, err
	}
	txt2, err := d.encodeTexts()
	if err != nil {
		return nil, err
	}

	sections := []RawSection{{Magic: "LBL1", Data: lbl1}}
	if d.AttributeSize >= 0 {
		sections = append(sections, RawSection{Magic: "ATR1", Data: d.encodeAttributes()})
	}
	sections = append(sections, RawSection{Magic: "TXT2", Data: txt2})
	sections = append(sections, d.Extra...)

	w := binio.NewWriter(d.Order)
	w.Bytes([]byte(magic))
	w.U16(binio.BOM())
	w.U16(0)
	w.U8(uint8(d.Encoding))
	w.U8(version)
	w.U16(uint16(len(sections)))
	w.U16(0)
	fileSizePos := w.Pos()
	w.U32(0)
	w.Zero(10)

	for _, section := range sections {
		w.Bytes([]byte(section.Magic))
		w.U32(uint32(len(section.Data)))
		w.Zero(8)
		w.Bytes(section.Data)
		w.Align(16, sectionPad)
	}

	w.PatchU32(fileSizePos, uint32(w.Pos()))
	return w.Data(), nil
}

// validate checks the invariants Encode depends on.
func (d *Document) validate() error {
	if d.Order == nil {
		return fmt.Errorf("document byte order is not set")
	}
	if d.Encoding != EncodingUTF8 && d.Encoding != EncodingUTF16 {
		return fmt.Errorf("invalid encoding %d", uint8(d.Encoding))
	}

	seen := make(map[string]bool, len(d.Messages))
	for i := range d.Messages {
		message := &d.Messages[i]
		if err := validLabel(message.Label); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
		if seen[message.Label] {
			return fmt.Errorf("duplicate message label %q", message.Label)
		}
		seen[message.Label] = true

		if d.AttributeSize >= 0 && len(message.Attribute) != d.AttributeSize {
			return fmt.Errorf("message %q attribute is %d bytes, document records are %d",
				message.Label, len(message.Attribute), d.AttributeSize)
		}
		if d.AttributeSize < 0 && message.Attribute != nil {
			return fmt.Errorf("message %q has an attribute but the document has no attribute section", message.Label)
		}
	}
	return nil
}

// encodeLabels builds the LBL1 body: bucket table plus per-bucket
// label entries in message order.
func (d *Document) encodeLabels() ([]byte, error) {
	slots := d.slots()

	type entry struct {
		label string
		index int
	}
	buckets := make([][]entry, slots)
	for i := range d.Messages {
		slot := LabelHash(d.Messages[i].Label, slots)
		buckets[slot] = append(buckets[slot], entry{label: d.Messages[i].Label, index: i})
	}

	w := binio.NewWriter(d.Order)
	w.U32(uint32(slots))

	// Bucket offsets are patched once entry positions are known.
	offsetPositions := make([]int, slots)
	for slot, bucket := range buckets {
		w.U32(uint32(len(bucket)))
		offsetPositions[slot] = w.Pos()
		w.U32(0)
	}

	for slot, bucket := range buckets {
		w.PatchU32(offsetPositions[slot], uint32(w.Pos()))
		for _, e := range bucket {
			w.U8(uint8(len(e.label)))
			w.Bytes([]byte(e.label))
			w.U32(uint32(e.index))
		}
	}

	return w.Data(), nil
}

// encodeAttributes builds the ATR1 body.
func (d *Document) encodeAttributes() []byte {
	w := binio.NewWriter(d.Order)
	w.U32(uint32(len(d.Messages)))
	w.U32(uint32(d.AttributeSize))
	for i := range d.Messages {
		w.Bytes(d.Messages[i].Attribute)
	}
	return w.Data()
}

// encodeTexts builds the TXT2 body: offset table plus the terminated
// message strings.
func (d *Document) encodeTexts() ([]byte, error) {
	w := binio.NewWriter(d.Order)
	w.U32(uint32(len(d.Messages)))

	offsetPositions := make([]int, len(d.Messages))
	for i := range d.Messages {
		offsetPositions[i] = w.Pos()
		w.U32(0)
	}

	for i := range d.Messages {
		w.PatchU32(offsetPositions[i], uint32(w.Pos()))
		if err := d.encodeMessage(w, &d.Messages[i]); err != nil {
			return nil, fmt.Errorf("message %q: %w", d.Messages[i].Label, err)
		}
	}

	return w.Data(), nil
}

// encodeMessage writes one message's parts and the terminator.
func (d *Document) encodeMessage(w *binio.Writer, message *Message) error {
	for _, part := range message.Parts {
		set := 0
		if part.Text != "" {
			set++
		}
		if part.Control != nil {
			set++
		}
		if part.Closing != nil {
			set++
		}
		if set != 1 {
			return fmt.Errorf("part must set exactly one of text, control, closing")
		}

		switch {
		case part.Control != nil:
			if d.Encoding != EncodingUTF16 {
				return fmt.Errorf("control sequences are only supported in UTF-16 documents")
			}
			if len(part.Control.Data) > 0xFFFF {
				return fmt.Errorf("control payload is %d bytes, maximum is %d", len(part.Control.Data), 0xFFFF)
			}
			w.U16(0x000E)
			w.U16(part.Control.Group)
			w.U16(part.Control.Type)
			w.U16(uint16(len(part.Control.Data)))
			w.Bytes(part.Control.Data)

		case part.Closing != nil:
			if d.Encoding != EncodingUTF16 {
				return fmt.Errorf("control sequences are only supported in UTF-16 documents")
			}
			w.U16(0x000F)
			w.U16(part.Closing.Group)
			w.U16(part.Closing.Type)

		default:
			if err := d.encodeText(w, part.Text); err != nil {
				return err
			}
		}
	}

	if d.Encoding == EncodingUTF16 {
		w.U16(0)
	} else {
		w.U8(0)
	}
	return nil
}

// encodeText writes a text run in the document encoding. Characters
// that collide with the terminator or tag markers cannot be stored as
// text.
func (d *Document) encodeText(w *binio.Writer, text string) error {
	if d.Encoding == EncodingUTF16 {
		for _, unit := range utf16.Encode([]rune(text)) {
			switch unit {
			case 0x0000, 0x000E, 0x000F:
				return fmt.Errorf("text contains reserved code unit 0x%04x", unit)
			}
			w.U16(unit)
		}
		return nil
	}

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case 0x00, 0x0E, 0x0F:
			return fmt.Errorf("text contains reserved byte 0x%02x", text[i])
		}
	}
	w.Bytes([]byte(text))
	return nil
}
