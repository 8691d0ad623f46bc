// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/iconpack/internal/ctxlog"
)

// Run executes the selected stages in order. Each stage reads only the
// artifacts the previous stage persisted, so any suffix of the pipeline can
// be re-run on its own.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.healthCheckServer(); err != nil {
		return err
	}
	defer a.closeHealthCheckServer()

	stages := map[Stage]func(context.Context) error{
		StagePack:    a.packStage,
		StageUpload:  a.uploadStage,
		StageResolve: a.resolveStage,
		StageEmit:    a.emitStage,
	}

	a.logger.Info("🚀 Pipeline starting.", "stages", a.appConfig.Stages, "output", a.out.Root)
	for _, st := range a.appConfig.Stages {
		stageCtx := ctxlog.With(ctx, "stage", st)
		start := time.Now()
		a.progress.begin(st, 0)
		ctxlog.FromContext(stageCtx).Info("Stage started.")

		err := stages[st](stageCtx)
		a.progress.finish(err)
		if err != nil {
			return fmt.Errorf("%s stage failed: %w", st, err)
		}
		ctxlog.FromContext(stageCtx).Info("Stage finished.", "elapsed", time.Since(start).Round(time.Millisecond))
	}
	a.logger.Info("🏁 Pipeline finished.")
	return nil
}
