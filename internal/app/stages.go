// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"errors"

	"github.com/specialistvlad/iconpack/internal/catalog"
	"github.com/specialistvlad/iconpack/internal/ctxlog"
	"github.com/specialistvlad/iconpack/internal/emit"
	"github.com/specialistvlad/iconpack/internal/fault"
	"github.com/specialistvlad/iconpack/internal/group"
	"github.com/specialistvlad/iconpack/internal/ledger"
	"github.com/specialistvlad/iconpack/internal/render"
	"github.com/specialistvlad/iconpack/internal/resolve"
	"github.com/specialistvlad/iconpack/internal/upload"
)

// packStage scans the catalog, groups the icons and renders pages and maps.
func (a *App) packStage(ctx context.Context) error {
	icons, err := catalog.NewScanner(a.pipeline.Source).Scan(ctx)
	if err != nil {
		return err
	}
	groups := group.Assign(ctx, icons)

	if err := a.out.ResetRender(); err != nil {
		return err
	}
	opts := []render.Option{render.WithWorkers(a.appConfig.WorkerCount)}
	if a.pipeline.Output.Previews {
		opts = append(opts, render.WithPreviews(render.NewPreviewWriter(a.pipeline.Output.PreviewWidth)))
	}
	res, err := render.New(a.out, a.pipeline.Canvas.MaxDim, opts...).Render(ctx, groups)
	if err != nil {
		return err
	}
	a.progress.set(len(res.Pages), len(res.Pages))
	return nil
}

// uploadStage sends every rendered page and persists the page -> primary id map.
func (a *App) uploadStage(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	cfg := a.pipeline.Upload

	pages, err := a.out.ListPages()
	if err != nil {
		return fault.Wrap(fault.Config, "upload.pages", a.out.PagesDir(), err)
	}
	if len(pages) == 0 {
		return fault.New(fault.Config, "upload.pages", a.out.PagesDir(), "no rendered pages, run the pack stage first")
	}
	prior, err := a.out.ReadPrimaryIDsIfExists()
	if err != nil {
		return err
	}

	client := a.uploadClient
	if client == nil {
		key, err := cfg.Credential()
		if err != nil {
			return fault.Wrap(fault.Config, "upload.credential", "", err)
		}
		if cfg.CreatorGroupID == 0 && cfg.CreatorUserID == 0 {
			return fault.New(fault.Config, "upload.creator", "",
				"no creator configured: set upload creator_group_id or creator_user_id (or ICONPACK_CREATOR_GROUP_ID)")
		}
		hc := upload.NewHTTPClient(upload.HTTPOptions{
			Endpoint:       cfg.Endpoint,
			APIKey:         key,
			AssetType:      cfg.AssetType,
			Description:    cfg.Description,
			CreatorGroupID: cfg.CreatorGroupID,
			CreatorUserID:  cfg.CreatorUserID,
			Timeout:        cfg.RequestTimeout,
		})
		defer hc.Close()
		client = hc
	}

	l := a.ledger
	if l == nil {
		path := cfg.LedgerPath
		if path == "" {
			path = a.out.LedgerPath()
		}
		db, err := ledger.OpenSQLite(path)
		if err != nil {
			return err
		}
		defer db.Close()
		l = db
	}

	coord := upload.NewCoordinator(client, upload.Options{
		PollInterval:   cfg.PollInterval,
		PollTimeout:    cfg.PollTimeout,
		MaxAttempts:    cfg.MaxAttempts,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
		Concurrency:    cfg.Concurrency,
		Resume:         cfg.Resume,
	}, upload.WithLedger(l), upload.WithRunID(a.runID), upload.WithProgress(a.progress.set))

	ids, err := coord.Upload(ctx, a.out, pages, prior)
	if err != nil {
		if cfg.Resume && len(ids) > 0 {
			logger.Warn("Saving partial upload results for the next resumed run.", "pages", len(ids))
			if werr := a.out.WritePrimaryIDs(ids); werr != nil {
				return errors.Join(err, werr)
			}
		}
		return err
	}
	return a.out.WritePrimaryIDs(ids)
}

// resolveStage turns primary ids into secondary ids through the sandbox.
func (a *App) resolveStage(ctx context.Context) error {
	primary, err := a.out.ReadPrimaryIDs()
	if err != nil {
		return fault.Wrap(fault.Lookup, "resolve.load", a.out.PrimaryIDsPath(), err)
	}
	cfg := a.pipeline.Resolve
	opts := resolve.Options{
		BuildCommand: cfg.BuildCommand,
		RunCommand:   cfg.RunCommand,
		PlacePath:    cfg.PlacePath,
		ScriptPath:   cfg.ScriptPath,
	}
	if opts.PlacePath == "" {
		opts.PlacePath = a.out.PlacePath()
	}
	if opts.ScriptPath == "" {
		opts.ScriptPath = a.out.ScriptPath()
	}

	secondary, err := resolve.New(a.runner, opts).Resolve(ctx, primary)
	if err != nil {
		return err
	}
	a.progress.set(len(secondary), len(secondary))
	return a.out.WriteSecondaryIDs(secondary)
}

// emitStage joins coordinate maps with resolved ids and writes the lookup tree.
func (a *App) emitStage(ctx context.Context) error {
	maps, err := a.out.ReadCoordinateMaps()
	if err != nil {
		return fault.Wrap(fault.Lookup, "emit.load", a.out.MapsDir(), err)
	}
	primary, err := a.out.ReadPrimaryIDs()
	if err != nil {
		return fault.Wrap(fault.Lookup, "emit.load", a.out.PrimaryIDsPath(), err)
	}
	secondary, err := a.out.ReadSecondaryIDs()
	if err != nil {
		return fault.Wrap(fault.Lookup, "emit.load", a.out.SecondaryIDsPath(), err)
	}
	pageIDs, err := resolve.Join(primary, secondary)
	if err != nil {
		return err
	}

	tree, err := emit.Build(maps, pageIDs, a.pipeline.Emit.ImagePrefix)
	if err != nil {
		return err
	}
	w, err := emit.NewWriter(a.pipeline.Emit.Format)
	if err != nil {
		return fault.Wrap(fault.Config, "emit.format", a.pipeline.Emit.Format, err)
	}
	files, err := w.Write(a.pipeline.Output.LookupRoot, tree)
	if err != nil {
		return err
	}
	a.progress.set(tree.Len(), tree.Len())
	ctxlog.FromContext(ctx).Info("Lookup tree written.", "icons", tree.Len(), "files", len(files), "dir", a.pipeline.Output.LookupRoot)
	return nil
}
