// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package msbt

import (
	"encoding/binary"
	"fmt"
)

const (
	magic = "MsgStdBn"

	headerSize        = 0x20
	sectionHeaderSize = 0x10
	sectionPad        = 0xAB

	version = 3

	// defaultSlots is the label hash table size written for documents
	// built from scratch. 101 is what the official tooling emits.
	defaultSlots = 101

	// labelHashKey is the multiplier of the LBL1 bucket hash.
	labelHashKey = 0x492

	maxLabelLength = 0xFF
)

// Encoding is the character encoding of TXT2 strings.
type Encoding uint8

const (
	// EncodingUTF8 stores messages as UTF-8 bytes. Control sequences
	// are not supported in this encoding.
	EncodingUTF8 Encoding = 0
	// EncodingUTF16 stores messages as UTF-16 code units in the
	// document byte order. This is what nearly all titles use.
	EncodingUTF16 Encoding = 1
)

// String returns the encoding name used in manifests.
func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "utf8"
	case EncodingUTF16:
		return "utf16"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(e))
	}
}

// ParseEncoding parses an encoding from its manifest name.
func ParseEncoding(name string) (Encoding, error) {
	switch name {
	case "utf8":
		return EncodingUTF8, nil
	case "utf16":
		return EncodingUTF16, nil
	default:
		return 0, fmt.Errorf("unknown message encoding %q (want utf8 or utf16)", name)
	}
}

// Control is an opened tag: 0x0E group, type, and an opaque payload
// the game interprets.
type Control struct {
	Group uint16
	Type  uint16
	Data  []byte
}

// Closing is a closed tag: 0x0F group and type, no payload.
type Closing struct {
	Group uint16
	Type  uint16
}

// Part is one structural element of a message. Exactly one field is
// set.
type Part struct {
	Text    string
	Control *Control
	Closing *Closing
}

// Message is one labeled entry.
type Message struct {
	Label string
	// Attribute is this message's ATR1 record; nil when the document
	// has no ATR1 section.
	Attribute []byte
	Parts     []Part
}

// Text concatenates the message's text parts, skipping tags.
func (m *Message) Text() string {
	var text string
	for _, part := range m.Parts {
		text += part.Text
	}
	return text
}

// Document is a decoded MSBT file.
type Document struct {
	Order    binary.ByteOrder
	Encoding Encoding

	// Slots is the LBL1 hash table bucket count. Zero means the
	// default is used when encoding.
	Slots int

	// AttributeSize is the ATR1 record size; negative when the
	// document has no ATR1 section.
	AttributeSize int

	Messages []Message

	// Extra holds sections this package does not interpret (TSY1,
	// NLI1, ...), preserved verbatim so encoding does not lose them.
	Extra []RawSection
}

// RawSection is an uninterpreted section carried through decode and
// encode unchanged.
type RawSection struct {
	Magic string
	Data  []byte
}

// New returns an empty UTF-16 document without an ATR1 section.
func New(order binary.ByteOrder) *Document {
	return &Document{
		Order:         order,
		Encoding:      EncodingUTF16,
		AttributeSize: -1,
	}
}

// Lookup returns the message with the given label.
func (d *Document) Lookup(label string) (*Message, bool) {
	for i := range d.Messages {
		if d.Messages[i].Label == label {
			return &d.Messages[i], true
		}
	}
	return nil, false
}

// slots returns the effective hash table size.
func (d *Document) slots() int {
	if d.Slots <= 0 {
		return defaultSlots
	}
	return d.Slots
}

// LabelHash computes the LBL1 bucket for a label.
func LabelHash(label string, slots int) int {
	var hash uint32
	for i := 0; i < len(label); i++ {
		hash = hash*labelHashKey + uint32(label[i])
	}
	return int(hash % uint32(slots))
}

// validLabel enforces the length and character constraints the table
// format imposes.
func validLabel(label string) error {
	if label == "" {
		return fmt.Errorf("message label is empty")
	}
	if len(label) > maxLabelLength {
		return fmt.Errorf("message label %q is %d bytes, maximum is %d", label[:16]+"…", len(label), maxLabelLength)
	}
	return nil
}
