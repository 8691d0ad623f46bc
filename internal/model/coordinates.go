// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

// CoordinateEntry locates one icon on a rendered page.
//
// Invariant: all bounds lie in [0, canvas] and FinishX-StartX == FinishY-StartY
// equals the group width.
type CoordinateEntry struct {
	Page    string `json:"page"`
	StartX  int    `json:"start_x"`
	StartY  int    `json:"start_y"`
	FinishX int    `json:"finish_x"`
	FinishY int    `json:"finish_y"`
}

// Width is the horizontal extent of the rectangle.
func (c CoordinateEntry) Width() int { return c.FinishX - c.StartX }

// Height is the vertical extent of the rectangle.
func (c CoordinateEntry) Height() int { return c.FinishY - c.StartY }

// CoordinateMap is the per-group artifact keyed by icon name.
type CoordinateMap map[string]CoordinateEntry

// PrimaryIDs maps a page path to the asset id returned by the upload service.
type PrimaryIDs map[string]int64

// SecondaryIDs maps a primary asset id to the display id resolved in the
// sandbox. Keys are decimal strings because that is how the sandbox prints them.
type SecondaryIDs map[string]int64
