// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package render composites export groups into sprite-sheet pages.
//
// For each group the renderer allocates one transparent square canvas per
// page, pastes every transformed icon at the rectangle chosen by the layout
// package, writes the pages as PNG and records a coordinate entry per icon.
// A source image that cannot be decoded, or whose size does not match its
// group width, fails the whole group before any of its pages is written.
package render
