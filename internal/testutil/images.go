// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package testutil

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

// SolidImage returns a w x h NRGBA image filled with c.
func SolidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// WritePNG encodes img as PNG to path, creating parent directories.
func WritePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, imaging.Save(img, path))
}

// IconFixture describes one source file of a catalog tree.
type IconFixture struct {
	Category string
	Name     string
	StyleDir string
	SizeDir  string
	ScaleDir string
	Width    int
	Color    color.NRGBA
}

// Path returns the fixture's file path under root.
func (f IconFixture) Path(root string) string {
	return filepath.Join(root, f.Category, f.Name, f.StyleDir, f.SizeDir, f.ScaleDir, f.Name+".png")
}

// WriteCatalog writes every fixture under root as a solid PNG.
func WriteCatalog(t *testing.T, root string, fixtures []IconFixture) {
	t.Helper()
	for _, f := range fixtures {
		WritePNG(t, f.Path(root), SolidImage(f.Width, f.Width, f.Color))
	}
}

// ReadPNG decodes the PNG at path.
func ReadPNG(t *testing.T, path string) image.Image {
	t.Helper()
	img, err := imaging.Open(path)
	require.NoError(t, err)
	return img
}
