// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package imageops wraps the pixel operations the sheet renderer needs:
// decoding source icons, the colour inversion transform and page encoding.
package imageops

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"

	// Source icons may also be webp; png, jpeg, gif, bmp and tiff are
	// registered by imaging itself.
	_ "golang.org/x/image/webp"
)

// Transform maps a decoded icon to the bitmap that is composited onto a page.
// Implementations must preserve the image dimensions.
type Transform func(image.Image) *image.NRGBA

// Invert maps every pixel (r, g, b, a) to (255-r, 255-g, 255-b, a) in
// non-premultiplied colour space. Applying it twice yields the original
// NRGBA pixels.
func Invert(img image.Image) *image.NRGBA {
	return imaging.Invert(img)
}

// Identity copies img into an NRGBA bitmap without changing any pixel.
func Identity(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// Open decodes the image file at path.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// NewCanvas allocates a fully transparent square canvas.
func NewCanvas(dim int) *image.NRGBA {
	return imaging.New(dim, dim, color.NRGBA{})
}

// Paste copies src onto dst in place with its top-left corner at pos. Pixels
// are replaced rather than blended, so transparent icon pixels stay
// transparent. imaging.Paste would clone the whole page for every icon.
func Paste(dst *image.NRGBA, src image.Image, pos image.Point) {
	b := src.Bounds()
	draw.Draw(dst, image.Rectangle{Min: pos, Max: pos.Add(b.Size())}, src, b.Min, draw.Src)
}

// SavePNG encodes img as PNG at path.
func SavePNG(img image.Image, path string) error {
	if err := imaging.Save(img, path, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// Thumbnail downscales img so its width is at most width pixels.
func Thumbnail(img image.Image, width int) *image.NRGBA {
	if img.Bounds().Dx() <= width {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}
