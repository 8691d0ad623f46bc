// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package upload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/specialistvlad/iconpack/internal/artifact"
	"github.com/specialistvlad/iconpack/internal/ctxlog"
	"github.com/specialistvlad/iconpack/internal/fault"
	"github.com/specialistvlad/iconpack/internal/ledger"
	"github.com/specialistvlad/iconpack/internal/model"
	"golang.org/x/sync/errgroup"
)

// Options is the coordinator's polling and retry policy.
type Options struct {
	PollInterval   time.Duration
	PollTimeout    time.Duration // zero disables the per-attempt poll deadline
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Concurrency    int
	// Resume skips pages that already have an id in the prior artifact.
	Resume bool
}

// Coordinator uploads pages and collects their primary identifiers.
type Coordinator struct {
	client   Client
	ledger   ledger.Ledger
	opts     Options
	runID    string
	progress func(done, total int)

	// jitter is the backoff randomization factor; tests pin it to zero.
	jitter float64
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithLedger records every attempt in l.
func WithLedger(l ledger.Ledger) CoordinatorOption {
	return func(c *Coordinator) { c.ledger = l }
}

// WithRunID tags ledger entries with id instead of a fresh one.
func WithRunID(id string) CoordinatorOption {
	return func(c *Coordinator) { c.runID = id }
}

// WithProgress is called after every finished page.
func WithProgress(fn func(done, total int)) CoordinatorOption {
	return func(c *Coordinator) { c.progress = fn }
}

// NewCoordinator returns a coordinator submitting through client.
func NewCoordinator(client Client, opts Options, options ...CoordinatorOption) *Coordinator {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.MaxBackoff < opts.InitialBackoff {
		opts.MaxBackoff = opts.InitialBackoff
	}
	c := &Coordinator{
		client: client,
		opts:   opts,
		jitter: backoff.DefaultRandomizationFactor,
	}
	for _, o := range options {
		o(c)
	}
	if c.ledger == nil {
		c.ledger = ledger.NewMemory()
	}
	if c.runID == "" {
		c.runID = ledger.NewRunID()
	}
	return c
}

// RunID identifies this coordinator's ledger entries.
func (c *Coordinator) RunID() string { return c.runID }

// Upload uploads pages in order and returns the page -> primary id map. With
// Resume set, pages found in prior are kept and not sent again. On failure
// the returned map still holds every page that did succeed, so a later
// resumed run can skip them.
func (c *Coordinator) Upload(ctx context.Context, out artifact.Layout, pages []artifact.PageRef, prior model.PrimaryIDs) (model.PrimaryIDs, error) {
	logger := ctxlog.FromContext(ctx).With("run_id", c.runID)
	ctx = ctxlog.WithLogger(ctx, logger)

	ids := make(model.PrimaryIDs, len(pages))
	var todo []Page
	for _, p := range pages {
		if id, ok := prior[p.Key]; ok && c.opts.Resume {
			ids[p.Key] = id
			continue
		}
		todo = append(todo, Page{Key: p.Key, Path: out.Abs(p.Key), DisplayName: artifact.DisplayName(p.Key)})
	}
	logger.Info("Upload started.", "pages", len(pages), "skipped", len(pages)-len(todo), "workers", c.opts.Concurrency)

	var (
		mu   sync.Mutex
		done = len(pages) - len(todo)
	)
	if c.progress != nil {
		c.progress(done, len(pages))
	}

	jobs := make(chan Page)
	eg, egCtx := errgroup.WithContext(ctx)
	for w := 0; w < c.opts.Concurrency; w++ {
		eg.Go(func() error {
			wlog := logger.With("workerID", w)
			wlog.Debug("Worker started.")
			defer wlog.Debug("Worker finished.")
			for page := range jobs {
				id, err := c.uploadPage(ctxlog.WithLogger(egCtx, wlog.With("page", page.Key)), page)
				if err != nil {
					return err
				}
				mu.Lock()
				ids[page.Key] = id
				done++
				if c.progress != nil {
					c.progress(done, len(pages))
				}
				mu.Unlock()
			}
			return nil
		})
	}

	eg.Go(func() error {
		defer close(jobs)
		for _, p := range todo {
			select {
			case jobs <- p:
			case <-egCtx.Done():
				return nil
			}
		}
		return nil
	})

	err := eg.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		logger.Error("Upload failed.", "uploaded", len(ids), "error", err)
		return ids, err
	}
	logger.Info("Upload finished.", "pages", len(ids))
	return ids, nil
}

// uploadPage runs submit-and-poll with bounded retries.
func (c *Coordinator) uploadPage(ctx context.Context, page Page) (int64, error) {
	logger := ctxlog.FromContext(ctx)
	attempt := 0

	operation := func() (int64, error) {
		attempt++
		id, err := c.submitAndWait(ctx, page)
		rec := ledger.Attempt{RunID: c.runID, Page: page.Key, Number: attempt}
		if err != nil {
			rec.Outcome, rec.Error = ledger.Failed, err.Error()
		} else {
			rec.Outcome, rec.AssetID = ledger.Succeeded, id
		}
		if lerr := c.ledger.Record(ctx, rec); lerr != nil && ctx.Err() == nil {
			logger.Warn("Failed to record upload attempt.", "error", lerr)
		}
		if err != nil && !fault.Is(err, fault.Transient) {
			return 0, backoff.Permanent(err)
		}
		return id, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.opts.InitialBackoff
	bo.MaxInterval = c.opts.MaxBackoff
	bo.RandomizationFactor = c.jitter

	id, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(c.opts.MaxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			logger.Warn("Upload attempt failed, retrying.", "attempt", attempt, "backoff", wait, "error", err)
		}),
	)
	switch {
	case err == nil:
		logger.Info("Page uploaded.", "asset_id", id, "attempts", attempt)
		return id, nil
	case ctx.Err() != nil:
		return 0, ctx.Err()
	case fault.Is(err, fault.Transient):
		return 0, fault.Wrap(fault.Exhausted, "upload.page", page.Key,
			fmt.Errorf("gave up after %d attempts: %w", attempt, err))
	default:
		return 0, err
	}
}

// submitAndWait performs one full attempt: submit, then poll every
// PollInterval until the operation is done.
func (c *Coordinator) submitAndWait(ctx context.Context, page Page) (int64, error) {
	opID, err := c.client.Submit(ctx, page)
	if err != nil {
		return 0, err
	}

	pollCtx := ctx
	if c.opts.PollTimeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, c.opts.PollTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-pollCtx.Done():
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			return 0, fault.New(fault.Transient, "upload.poll", page.Key,
				"operation %s not done after %s", opID, c.opts.PollTimeout)
		case <-ticker.C:
		}

		st, err := c.client.Operation(pollCtx, opID)
		if err != nil {
			if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
				return 0, fault.Wrap(fault.Transient, "upload.poll", page.Key, err)
			}
			return 0, err
		}
		if !st.Done {
			continue
		}
		if st.AssetID <= 0 {
			return 0, fault.New(fault.Transient, "upload.poll", page.Key,
				"operation %s completed without an asset id", opID)
		}
		return st.AssetID, nil
	}
}
