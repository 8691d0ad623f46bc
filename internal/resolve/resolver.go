// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolve

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/specialistvlad/iconpack/internal/ctxlog"
	"github.com/specialistvlad/iconpack/internal/fault"
	"github.com/specialistvlad/iconpack/internal/model"
)

// Options locates the sandbox inputs and names the external commands.
type Options struct {
	BuildCommand []string // may be empty when the bundle is prebuilt
	RunCommand   []string
	PlacePath    string
	ScriptPath   string
}

// Resolver drives the sandbox lookup.
type Resolver struct {
	runner Runner
	opts   Options
}

// New returns a resolver executing commands through runner.
func New(runner Runner, opts Options) *Resolver {
	return &Resolver{runner: runner, opts: opts}
}

// Resolve maps every primary id in primary to its secondary id. The result
// covers every distinct primary id or an error is returned.
func (r *Resolver) Resolve(ctx context.Context, primary model.PrimaryIDs) (model.SecondaryIDs, error) {
	logger := ctxlog.FromContext(ctx)
	ids := PrimaryList(primary)
	if len(ids) == 0 {
		logger.Info("No primary ids to resolve.")
		return model.SecondaryIDs{}, nil
	}

	if err := WriteScript(r.opts.ScriptPath, ids); err != nil {
		return nil, err
	}
	logger.Debug("Resolve script written.", "path", r.opts.ScriptPath, "ids", len(ids))

	if len(r.opts.BuildCommand) > 0 {
		argv := expand(r.opts.BuildCommand, r.opts.PlacePath, r.opts.ScriptPath)
		logger.Info("Building sandbox bundle.", "command", argv)
		if _, err := r.runner.Run(ctx, argv); err != nil {
			return nil, classify("resolve.build", err)
		}
	}

	argv := expand(r.opts.RunCommand, r.opts.PlacePath, r.opts.ScriptPath)
	logger.Info("Running sandbox script.", "command", argv)
	out, runErr := r.runner.Run(ctx, argv)
	// A failed assertion names the offending asset, which beats the bare exit
	// status.
	if err := assertionFailure(out); err != nil {
		return nil, err
	}
	if runErr != nil {
		return nil, classify("resolve.run", runErr)
	}
	secondary, err := ParseOutput(out)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		if _, ok := secondary[strconv.FormatInt(id, 10)]; !ok {
			return nil, fault.New(fault.Invariant, "resolve.check", strconv.FormatInt(id, 10),
				"sandbox returned no secondary id")
		}
	}
	logger.Info("Identifiers resolved.", "count", len(secondary))
	return secondary, nil
}

func classify(op string, err error) error {
	if errors.Is(err, ErrCommandNotFound) {
		return fault.Wrap(fault.Config, op, "", err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fault.Wrap(fault.Invariant, op, "", err)
}

// Join composes page -> primary -> secondary into page -> secondary. A page
// whose primary id has no secondary id is a lookup error.
func Join(primary model.PrimaryIDs, secondary model.SecondaryIDs) (map[string]int64, error) {
	out := make(map[string]int64, len(primary))
	pages := make([]string, 0, len(primary))
	for page := range primary {
		pages = append(pages, page)
	}
	sort.Strings(pages)
	for _, page := range pages {
		id := primary[page]
		sec, ok := secondary[strconv.FormatInt(id, 10)]
		if !ok {
			return nil, fault.New(fault.Lookup, "resolve.join", page, "primary id %d has no secondary id", id)
		}
		out[page] = sec
	}
	return out, nil
}
