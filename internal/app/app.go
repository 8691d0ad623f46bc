// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/specialistvlad/iconpack/internal/artifact"
	"github.com/specialistvlad/iconpack/internal/config"
	"github.com/specialistvlad/iconpack/internal/ctxlog"
	"github.com/specialistvlad/iconpack/internal/ledger"
	"github.com/specialistvlad/iconpack/internal/resolve"
	"github.com/specialistvlad/iconpack/internal/upload"
)

// DefaultConfigFile is loaded when no pipeline file is given and it exists.
const DefaultConfigFile = "iconpack.hcl"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	ctx       context.Context
	appConfig *Config
	pipeline  *config.Model
	out       artifact.Layout
	runID     string
	progress  *progress

	httpServer *http.Server

	// Collaborators; tests swap them for fakes.
	runner       resolve.Runner
	uploadClient upload.Client
	ledger       ledger.Ledger
}

// Option customizes an App.
type Option func(*App)

// WithRunner replaces the process runner used by the resolve stage.
func WithRunner(r resolve.Runner) Option {
	return func(a *App) { a.runner = r }
}

// WithUploadClient replaces the HTTP asset client.
func WithUploadClient(c upload.Client) Option {
	return func(a *App) { a.uploadClient = c }
}

// WithLedger replaces the upload ledger.
func WithLedger(l ledger.Ledger) Option {
	return func(a *App) { a.ledger = l }
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and the merged,
// validated pipeline configuration.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, opts ...Option) (*App, error) {
	runID := ledger.NewRunID()
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW).With("run_id", runID)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	pipeline, err := loadPipeline(ctx, appConfig.ConfigPath, loader)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(pipeline); err != nil {
		return nil, err
	}
	if appConfig.WorkerCount > 0 {
		pipeline.Upload.Concurrency = appConfig.WorkerCount
	}
	if appConfig.Resume {
		pipeline.Upload.Resume = true
	}
	if err := pipeline.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Configuration loaded and validated.", "stages", appConfig.Stages)

	a := &App{
		outW:      outW,
		logger:    logger,
		ctx:       ctx,
		appConfig: appConfig,
		pipeline:  pipeline,
		out:       artifact.NewLayout(pipeline.Output.Root),
		runID:     runID,
		progress:  newProgress(runID),
		runner:    resolve.ExecRunner{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// loadPipeline reads path, or DefaultConfigFile when path is empty and the
// file exists, or falls back to built-in defaults.
func loadPipeline(ctx context.Context, path string, loader config.Loader) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", DefaultConfigFile, err)
		}
	}
	if path == "" {
		logger.Debug("No pipeline file found, using defaults.")
		return config.Defaults(), nil
	}
	m, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// Pipeline returns the merged pipeline configuration. This is primarily for
// testing.
func (a *App) Pipeline() *config.Model {
	return a.pipeline
}

// RunID identifies this run in logs and the upload ledger.
func (a *App) RunID() string {
	return a.runID
}
