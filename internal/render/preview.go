// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/chai2010/webp"
	"github.com/specialistvlad/iconpack/internal/imageops"
)

// PreviewWriter writes downscaled webp copies of rendered pages.
type PreviewWriter struct {
	width   int
	quality float32
	mu      sync.Mutex
	written int
}

// NewPreviewWriter returns a writer producing previews at most width pixels wide.
func NewPreviewWriter(width int) *PreviewWriter {
	return &PreviewWriter{width: width, quality: 85}
}

// Written reports how many previews have been written.
func (p *PreviewWriter) Written() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written
}

// Write encodes a thumbnail of page to path.
func (p *PreviewWriter) Write(page image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create preview directory: %w", err)
	}
	thumb := imageops.Thumbnail(page, p.width)
	if err := webp.Save(path, thumb, &webp.Options{Quality: p.quality}); err != nil {
		return fmt.Errorf("encode preview %s: %w", path, err)
	}
	p.mu.Lock()
	p.written++
	p.mu.Unlock()
	return nil
}
