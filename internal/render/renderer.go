// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package render

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/specialistvlad/iconpack/internal/artifact"
	"github.com/specialistvlad/iconpack/internal/ctxlog"
	"github.com/specialistvlad/iconpack/internal/fault"
	"github.com/specialistvlad/iconpack/internal/imageops"
	"github.com/specialistvlad/iconpack/internal/layout"
	"github.com/specialistvlad/iconpack/internal/model"
	"golang.org/x/sync/errgroup"
)

const op = "render.group"

// Renderer turns export groups into page images and coordinate maps.
type Renderer struct {
	out       artifact.Layout
	maxDim    int
	transform imageops.Transform
	previews  *PreviewWriter
	workers   int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTransform replaces the default colour inversion.
func WithTransform(t imageops.Transform) Option {
	return func(r *Renderer) {
		if t != nil {
			r.transform = t
		}
	}
}

// WithPreviews enables webp previews of every page.
func WithPreviews(p *PreviewWriter) Option {
	return func(r *Renderer) { r.previews = p }
}

// WithWorkers sets how many groups are rendered at once.
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.workers = n
		}
	}
}

// New returns a renderer writing under out with square canvases of side maxDim.
func New(out artifact.Layout, maxDim int, opts ...Option) *Renderer {
	r := &Renderer{
		out:       out,
		maxDim:    maxDim,
		transform: imageops.Invert,
		workers:   1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is the output of a render run.
type Result struct {
	Pages []artifact.PageRef
	Maps  map[string]model.CoordinateMap
}

// Render renders every group. Pages are returned ordered by group, then page
// index, regardless of how many workers ran.
func (r *Renderer) Render(ctx context.Context, groups []*model.ExportGroup) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	type groupOutput struct {
		pages []artifact.PageRef
		m     model.CoordinateMap
	}
	outputs := make([]groupOutput, len(groups))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.workers)
	for i, g := range groups {
		eg.Go(func() error {
			m, pages, err := r.RenderGroup(egCtx, g)
			if err != nil {
				return err
			}
			outputs[i] = groupOutput{pages: pages, m: m}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Maps: make(map[string]model.CoordinateMap, len(groups))}
	for i, g := range groups {
		res.Pages = append(res.Pages, outputs[i].pages...)
		res.Maps[g.Name()] = outputs[i].m
	}
	logger.Info("Render finished.", "groups", len(groups), "pages", len(res.Pages))
	return res, nil
}

// RenderGroup renders a single group and persists its pages and map.
func (r *Renderer) RenderGroup(ctx context.Context, g *model.ExportGroup) (model.CoordinateMap, []artifact.PageRef, error) {
	name := g.Name()
	logger := ctxlog.FromContext(ctx).With("group", name)

	grid, err := layout.NewGrid(len(g.Icons), g.Key.Width(), r.maxDim)
	if err != nil {
		return nil, nil, err
	}

	canvases := make([]*image.NRGBA, grid.PageCount)
	for p := range canvases {
		canvases[p] = imageops.NewCanvas(r.maxDim)
	}

	m := make(model.CoordinateMap, len(g.Icons))
	for j, icon := range g.Icons {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		place, err := grid.Place(j)
		if err != nil {
			return nil, nil, err
		}
		bitmap, err := r.load(icon, grid.Width)
		if err != nil {
			return nil, nil, err
		}
		imageops.Paste(canvases[place.Page], bitmap, place.Rect.Min)
		m[icon.Name] = model.CoordinateEntry{
			Page:    artifact.PageKey(name, place.Page),
			StartX:  place.Rect.Min.X,
			StartY:  place.Rect.Min.Y,
			FinishX: place.Rect.Max.X,
			FinishY: place.Rect.Max.Y,
		}
	}

	if err := os.MkdirAll(r.out.GroupPagesDir(name), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create page directory for %s: %w", name, err)
	}
	pages := make([]artifact.PageRef, 0, grid.PageCount)
	for p, canvas := range canvases {
		key := artifact.PageKey(name, p)
		if err := imageops.SavePNG(canvas, r.out.Abs(key)); err != nil {
			return nil, nil, err
		}
		if r.previews != nil {
			if err := r.previews.Write(canvas, r.out.PreviewPath(name, p)); err != nil {
				return nil, nil, err
			}
		}
		pages = append(pages, artifact.PageRef{Group: name, Index: p, Key: key})
		logger.Debug("Page written.", "page", key, "icons", grid.PageSize(p))
	}

	if err := r.out.WriteCoordinateMap(name, m); err != nil {
		return nil, nil, err
	}
	logger.Info("Group rendered.", "icons", len(g.Icons), "pages", grid.PageCount, "per_page", grid.IconsPerPage)
	return m, pages, nil
}

func (r *Renderer) load(icon model.Icon, width int) (*image.NRGBA, error) {
	img, err := imageops.Open(icon.SourcePath)
	if err != nil {
		return nil, fault.Wrap(fault.Config, op, icon.SourcePath, err)
	}
	if b := img.Bounds(); b.Dx() != width || b.Dy() != width {
		return nil, fault.New(fault.Invariant, op, icon.SourcePath,
			"icon is %dx%d, group width is %d", b.Dx(), b.Dy(), width)
	}
	return r.transform(img), nil
}
