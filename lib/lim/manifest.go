// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package lim

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/nwkit/nwkit/lib/manifest"
	"github.com/nwkit/nwkit/lib/texture"
)

// Manifest carries the BFLIM properties a PNG cannot: pixel format,
// alignment, orientation, and the container version.
type Manifest struct {
	Alignment   uint16              `json:"alignment"`
	ColorFormat string              `json:"colorFormat"`
	FileType    string              `json:"fileType"`
	Integrity   *manifest.Integrity `json:"integrity,omitempty"`
	Orientation string              `json:"orientation"`
	Version     uint32              `json:"version"`
}

// Extract converts a decoded image into its manifest plus the logical
// picture.
func (im *Image) Extract() (*Manifest, *image.NRGBA, error) {
	picture, err := im.Picture()
	if err != nil {
		return nil, nil, err
	}

	version := im.Version
	if version == 0 {
		version = defaultVersion
	}
	alignment := im.Alignment
	if alignment == 0 {
		alignment = defaultAlignment
	}

	return &Manifest{
		Alignment:   alignment,
		ColorFormat: im.Format.String(),
		FileType:    "bflim",
		Orientation: im.Orientation.String(),
		Version:     version,
	}, picture, nil
}

// Load builds an encodable image from a manifest and its picture.
// order selects the byte order of the eventual Encode output.
func Load(man *Manifest, picture *image.NRGBA, order binary.ByteOrder) (*Image, error) {
	if man.FileType != "bflim" {
		return nil, fmt.Errorf("invalid manifest fileType %q (expected bflim)", man.FileType)
	}
	format, err := texture.ParsePixelFormat(man.ColorFormat)
	if err != nil {
		return nil, err
	}
	orientation, err := ParseOrientation(man.Orientation)
	if err != nil {
		return nil, err
	}

	im := &Image{
		Order:       order,
		Version:     man.Version,
		Alignment:   man.Alignment,
		Format:      format,
		Orientation: orientation,
	}
	if err := im.SetPicture(picture); err != nil {
		return nil, err
	}
	return im, nil
}
