// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package layout computes the grid geometry of sprite-sheet pages.
//
// Everything here is a pure function of (icon count, icon width, canvas
// dimension). For a flattened icon index j within its group:
//
//	page   = j / iconsPerPage
//	i      = j % iconsPerPage      // index within the page
//	row    = i % iconsPerRow       // horizontal slot
//	column = i / iconsPerRow       // vertical slot
//	start  = (row*width, column*width), finish = start + width
//
// The last page may be partially filled. No icon is ever dropped.
package layout

import (
	"fmt"
	"image"

	"github.com/specialistvlad/iconpack/internal/fault"
)

const op = "layout.place"

// Grid describes how one export group is tiled across pages.
type Grid struct {
	Count        int // icons in the group
	Width        int // pixel width of each icon
	MaxDim       int // canvas side length
	IconsPerRow  int
	IconsPerPage int
	PageCount    int
}

// Placement is the computed position of one icon.
type Placement struct {
	Index  int // flattened index within the group
	Page   int
	Local  int // index within the page
	Row    int // i mod iconsPerRow
	Column int // i / iconsPerRow
	Rect   image.Rectangle
}

// NewGrid computes the grid for count icons of the given width on a square
// canvas of side maxDim. A width that cannot fit even one icon per row is a
// configuration error.
func NewGrid(count, width, maxDim int) (Grid, error) {
	if maxDim <= 0 {
		return Grid{}, fault.New(fault.Config, op, "", "canvas dimension must be positive, got %d", maxDim)
	}
	if width <= 0 || width > maxDim {
		return Grid{}, fault.New(fault.Config, op, "", "icon width %d does not fit canvas %d", width, maxDim)
	}
	if count < 0 {
		return Grid{}, fault.New(fault.Config, op, "", "icon count must not be negative, got %d", count)
	}

	perRow := maxDim / width
	perPage := perRow * perRow
	return Grid{
		Count:        count,
		Width:        width,
		MaxDim:       maxDim,
		IconsPerRow:  perRow,
		IconsPerPage: perPage,
		PageCount:    (count + perPage - 1) / perPage,
	}, nil
}

// Place computes the placement of the icon at flattened index j. The returned
// rectangle is checked against the canvas; a violation means the layout math
// or the canvas/width ratio is broken and is reported as an invariant error.
func (g Grid) Place(j int) (Placement, error) {
	if j < 0 || j >= g.Count {
		return Placement{}, fault.New(fault.Invariant, op, "", "index %d outside group of %d icons", j, g.Count)
	}

	page := j / g.IconsPerPage
	local := j % g.IconsPerPage
	row := local % g.IconsPerRow
	column := local / g.IconsPerRow

	x, y := row*g.Width, column*g.Width
	p := Placement{
		Index:  j,
		Page:   page,
		Local:  local,
		Row:    row,
		Column: column,
		Rect:   image.Rect(x, y, x+g.Width, y+g.Width),
	}
	if err := g.check(p); err != nil {
		return Placement{}, err
	}
	return p, nil
}

// Placements returns the placement of every icon in index order.
func (g Grid) Placements() ([]Placement, error) {
	out := make([]Placement, 0, g.Count)
	for j := 0; j < g.Count; j++ {
		p, err := g.Place(j)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// PageSize returns how many icons land on the given page.
func (g Grid) PageSize(page int) int {
	if page < 0 || page >= g.PageCount {
		return 0
	}
	if page < g.PageCount-1 {
		return g.IconsPerPage
	}
	return g.Count - page*g.IconsPerPage
}

func (g Grid) check(p Placement) error {
	r := p.Rect
	inBounds := func(v int) bool { return v >= 0 && v <= g.MaxDim }
	if !inBounds(r.Min.X) || !inBounds(r.Min.Y) || !inBounds(r.Max.X) || !inBounds(r.Max.Y) ||
		r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y {
		return fault.New(fault.Invariant, op, fmt.Sprintf("index %d", p.Index),
			"rectangle %v outside canvas [0,%d]", r, g.MaxDim)
	}
	if r.Dx() != g.Width || r.Dy() != g.Width {
		return fault.New(fault.Invariant, op, fmt.Sprintf("index %d", p.Index),
			"rectangle %v is not %dx%d", r, g.Width, g.Width)
	}
	if p.Page >= g.PageCount {
		return fault.New(fault.Invariant, op, fmt.Sprintf("index %d", p.Index),
			"page %d beyond page count %d", p.Page, g.PageCount)
	}
	return nil
}
