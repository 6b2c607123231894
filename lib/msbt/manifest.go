// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package msbt

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/nwkit/nwkit/lib/manifest"
)

// Manifest is the editable JSON representation of a document produced
// by extract and consumed by create. Binary fields (attributes, tag
// payloads, uninterpreted sections) are hex strings.
type Manifest struct {
	AttributeSize *int                `json:"attributeSize,omitempty"`
	Encoding      string              `json:"encoding"`
	ExtraSections []ManifestSection   `json:"extraSections,omitempty"`
	FileType      string              `json:"fileType"`
	Integrity     *manifest.Integrity `json:"integrity,omitempty"`
	Messages      []ManifestMessage   `json:"messages"`
	Slots         int                 `json:"slots"`
}

// ManifestMessage is one labeled message.
type ManifestMessage struct {
	Attribute string         `json:"attribute,omitempty"`
	Label     string         `json:"label"`
	Parts     []ManifestPart `json:"parts"`
}

// ManifestPart mirrors Part; exactly one field is set.
type ManifestPart struct {
	Text    string           `json:"text,omitempty"`
	Control *ManifestControl `json:"control,omitempty"`
	Closing *ManifestClosing `json:"closing,omitempty"`
}

// ManifestControl is an opened tag with a hex payload.
type ManifestControl struct {
	Group uint16 `json:"group"`
	Type  uint16 `json:"type"`
	Data  string `json:"data,omitempty"`
}

// ManifestClosing is a closed tag.
type ManifestClosing struct {
	Group uint16 `json:"group"`
	Type  uint16 `json:"type"`
}

// ManifestSection is an uninterpreted section carried as hex.
type ManifestSection struct {
	Magic string `json:"magic"`
	Data  string `json:"data"`
}

// Extract converts a decoded document into its manifest.
func (d *Document) Extract() *Manifest {
	man := &Manifest{
		Encoding: d.Encoding.String(),
		FileType: "msbt",
		Slots:    d.slots(),
	}
	if d.AttributeSize >= 0 {
		size := d.AttributeSize
		man.AttributeSize = &size
	}

	for i := range d.Messages {
		message := &d.Messages[i]
		entry := ManifestMessage{Label: message.Label}
		if message.Attribute != nil {
			entry.Attribute = hex.EncodeToString(message.Attribute)
		}
		for _, part := range message.Parts {
			switch {
			case part.Control != nil:
				entry.Parts = append(entry.Parts, ManifestPart{Control: &ManifestControl{
					Group: part.Control.Group,
					Type:  part.Control.Type,
					Data:  hex.EncodeToString(part.Control.Data),
				}})
			case part.Closing != nil:
				entry.Parts = append(entry.Parts, ManifestPart{Closing: &ManifestClosing{
					Group: part.Closing.Group,
					Type:  part.Closing.Type,
				}})
			default:
				entry.Parts = append(entry.Parts, ManifestPart{Text: part.Text})
			}
		}
		man.Messages = append(man.Messages, entry)
	}

	for _, section := range d.Extra {
		man.ExtraSections = append(man.ExtraSections, ManifestSection{
			Magic: section.Magic,
			Data:  hex.EncodeToString(section.Data),
		})
	}

	return man
}

// Load builds an encodable document from a manifest. order selects the
// byte order of the eventual Encode output.
func Load(man *Manifest, order binary.ByteOrder) (*Document, error) {
	if man.FileType != "msbt" {
		return nil, fmt.Errorf("invalid manifest fileType %q (expected msbt)", man.FileType)
	}
	encoding, err := ParseEncoding(man.Encoding)
	if err != nil {
		return nil, err
	}

	document := &Document{
		Order:         order,
		Encoding:      encoding,
		Slots:         man.Slots,
		AttributeSize: -1,
	}
	if man.AttributeSize != nil {
		if *man.AttributeSize < 0 {
			return nil, fmt.Errorf("invalid attributeSize %d", *man.AttributeSize)
		}
		document.AttributeSize = *man.AttributeSize
	}

	for _, entry := range man.Messages {
		message := Message{Label: entry.Label}

		if document.AttributeSize >= 0 {
			attribute, err := hex.DecodeString(entry.Attribute)
			if err != nil {
				return nil, fmt.Errorf("message %q: decoding attribute: %w", entry.Label, err)
			}
			if attribute == nil {
				attribute = []byte{}
			}
			message.Attribute = attribute
		} else if entry.Attribute != "" {
			return nil, fmt.Errorf("message %q has an attribute but the manifest declares no attributeSize", entry.Label)
		}

		for j, part := range entry.Parts {
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
				return nil, fmt.Errorf("message %q part %d must set exactly one of text, control, closing", entry.Label, j)
			}

			switch {
			case part.Control != nil:
				payload, err := hex.DecodeString(part.Control.Data)
				if err != nil {
					return nil, fmt.Errorf("message %q part %d: decoding control payload: %w", entry.Label, j, err)
				}
				message.Parts = append(message.Parts, Part{Control: &Control{
					Group: part.Control.Group,
					Type:  part.Control.Type,
					Data:  payload,
				}})
			case part.Closing != nil:
				message.Parts = append(message.Parts, Part{Closing: &Closing{
					Group: part.Closing.Group,
					Type:  part.Closing.Type,
				}})
			default:
				message.Parts = append(message.Parts, Part{Text: part.Text})
			}
		}

		document.Messages = append(document.Messages, message)
	}

	for _, section := range man.ExtraSections {
		data, err := hex.DecodeString(section.Data)
		if err != nil {
			return nil, fmt.Errorf("section %q: decoding data: %w", section.Magic, err)
		}
		if len(section.Magic) != 4 {
			return nil, fmt.Errorf("section magic %q is not 4 bytes", section.Magic)
		}
		document.Extra = append(document.Extra, RawSection{Magic: section.Magic, Data: data})
	}

	// Surface label and attribute problems now rather than at encode
	// time.
	if err := document.validate(); err != nil {
		return nil, err
	}

	return document, nil
}
