// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package lim

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/nwkit/nwkit/lib/binio"
	"github.com/nwkit/nwkit/lib/texture"
)

// Decode parses a BFLIM file. The footer sits at the end, so the file
// must be complete.
func Decode(data []byte) (*Image, error) {
	if len(data) < footerSize {
		return nil, fmt.Errorf("file is %d bytes, smaller than the %d-byte FLIM footer", len(data), footerSize)
	}
	footer := len(data) - footerSize

	if string(data[footer:footer+4]) != "FLIM" {
		return nil, fmt.Errorf("invalid FLIM magic %q (expected FLIM)", data[footer:footer+4])
	}
	order, err := binio.OrderFromBOM(data[footer+4], data[footer+5])
	if err != nil {
		return nil, err
	}

	r := binio.NewReader(data, order)
	r.Seek(footer + 4)
	r.Skip(2) // BOM, consumed above
	headerSize := r.U16()
	version := r.U32()
	fileSize := r.U32()
	blockCount := r.U16()
	r.Skip(2) // padding
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("reading FLIM header: %w", err)
	}

	if headerSize != flimHeaderSize {
		return nil, fmt.Errorf("invalid FLIM header size %d (expected %d)", headerSize, flimHeaderSize)
	}
	if int(fileSize) != len(data) {
		return nil, fmt.Errorf("header file size %d does not match actual size %d", fileSize, len(data))
	}
	if blockCount != 1 {
		return nil, fmt.Errorf("FLIM declares %d blocks (expected 1)", blockCount)
	}

	imagMagic := string(r.Bytes(4))
	imagSize := r.U32()
	width := r.U16()
	height := r.U16()
	alignment := r.U16()
	format := r.U8()
	orientation := Orientation(r.U8())
	dataSize := r.U32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("reading imag block: %w", err)
	}

	if imagMagic != "imag" {
		return nil, fmt.Errorf("invalid imag magic %q (expected imag)", imagMagic)
	}
	if imagSize != imagBlockSize {
		return nil, fmt.Errorf("invalid imag block size %d (expected %d)", imagSize, imagBlockSize)
	}
	pixelFormat, ok := formatCodes[format]
	if !ok {
		return nil, fmt.Errorf("unknown BFLIM format code 0x%02x", format)
	}
	if orientation != OrientationNone && orientation != OrientationRotated {
		return nil, fmt.Errorf("unsupported orientation %d (expected 0 or 4)", uint8(orientation))
	}
	if int(dataSize) != footer {
		return nil, fmt.Errorf("imag data size %d does not match %d bytes before the footer", dataSize, footer)
	}

	im := &Image{
		Order:       order,
		Version:     version,
		Width:       width,
		Height:      height,
		Alignment:   alignment,
		Format:      pixelFormat,
		Orientation: orientation,
		Data:        append([]byte(nil), data[:footer]...),
	}
	if len(im.Data) != im.DataSize() {
		return nil, fmt.Errorf("texel data is %d bytes, expected %d for %dx%d %s",
			len(im.Data), im.DataSize(), width, height, pixelFormat)
	}
	return im, nil
}

// Encode serializes the image: texel data followed by the FLIM footer.
func (im *Image) Encode() ([]byte, error) {
	if im.Order == nil {
		return nil, fmt.Errorf("image byte order is not set")
	}
	if im.Width == 0 || im.Height == 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", im.Width, im.Height)
	}
	code, err := formatCode(im.Format)
	if err != nil {
		return nil, err
	}
	if im.Orientation != OrientationNone && im.Orientation != OrientationRotated {
		return nil, fmt.Errorf("unsupported orientation %d", uint8(im.Orientation))
	}
	if len(im.Data) != im.DataSize() {
		return nil, fmt.Errorf("texel data is %d bytes, expected %d for %dx%d %s",
			len(im.Data), im.DataSize(), im.Width, im.Height, im.Format)
	}

	version := im.Version
	if version == 0 {
		version = defaultVersion
	}
	alignment := im.Alignment
	if alignment == 0 {
		alignment = defaultAlignment
	}

	w := binio.NewWriter(im.Order)
	w.Bytes(im.Data)

	w.Bytes([]byte("FLIM"))
	w.U16(binio.BOM())
	w.U16(flimHeaderSize)
	w.U32(version)
	w.U32(uint32(len(im.Data) + footerSize))
	w.U16(1)
	w.U16(0)

	w.Bytes([]byte("imag"))
	w.U32(imagBlockSize)
	w.U16(im.Width)
	w.U16(im.Height)
	w.U16(alignment)
	w.U8(code)
	w.U8(uint8(im.Orientation))
	w.U32(uint32(len(im.Data)))

	return w.Data(), nil
}

// Picture decodes the texel data into the logical image, undoing the
// stored rotation if any.
func (im *Image) Picture() (*image.NRGBA, error) {
	paddedWidth := texture.NextPowerOfTwo(int(im.Width))
	paddedHeight := texture.NextPowerOfTwo(int(im.Height))

	decoded, err := texture.DecodeSheet(im.Data, paddedWidth, paddedHeight, im.Format, im.Order)
	if err != nil {
		return nil, fmt.Errorf("decoding texel data: %w", err)
	}

	cropped := crop(decoded, int(im.Width), int(im.Height))
	if im.Orientation == OrientationRotated {
		return rotateClockwise(cropped), nil
	}
	return cropped, nil
}

// SetPicture re-tiles a logical image, applying the stored rotation
// and updating dimensions and data. ETC1 formats cannot be produced.
func (im *Image) SetPicture(picture *image.NRGBA) error {
	stored := picture
	if im.Orientation == OrientationRotated {
		stored = rotateCounterClockwise(picture)
	}

	width := stored.Bounds().Dx()
	height := stored.Bounds().Dy()
	if width == 0 || height == 0 || width > 0xFFFF || height > 0xFFFF {
		return fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}

	paddedWidth := texture.NextPowerOfTwo(width)
	paddedHeight := texture.NextPowerOfTwo(height)
	padded := image.NewNRGBA(image.Rect(0, 0, paddedWidth, paddedHeight))
	draw.Draw(padded, stored.Bounds(), stored, stored.Bounds().Min, draw.Src)

	data, err := texture.EncodeSheet(padded, paddedWidth, paddedHeight, im.Format)
	if err != nil {
		return fmt.Errorf("encoding texel data: %w", err)
	}

	im.Width = uint16(width)
	im.Height = uint16(height)
	im.Data = data
	return nil
}

// crop copies the top-left width x height region into a fresh image.
func crop(img *image.NRGBA, width, height int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), img, image.Point{}, draw.Src)
	return out
}

// rotateClockwise rotates 90° clockwise: (x, y) moves to
// (height-1-y, x).
func rotateClockwise(img *image.NRGBA) *image.NRGBA {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, height, width))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.SetNRGBA(height-1-y, x, img.NRGBAAt(x, y))
		}
	}
	return out
}

// rotateCounterClockwise is the inverse of rotateClockwise.
func rotateCounterClockwise(img *image.NRGBA) *image.NRGBA {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, height, width))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.SetNRGBA(y, width-1-x, img.NRGBAAt(x, y))
		}
	}
	return out
}
