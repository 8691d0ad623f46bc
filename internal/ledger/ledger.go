// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package ledger records every upload submission attempt so operators (and
// tests) can tell how many times a page was sent and how each try ended.
package ledger

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Outcome is the result of one submission attempt.
type Outcome string

const (
	Succeeded Outcome = "succeeded"
	Failed    Outcome = "failed"
)

// Attempt is one recorded submission of a page.
type Attempt struct {
	RunID     string
	Page      string
	Number    int // 1-based attempt number within the run
	Outcome   Outcome
	AssetID   int64 // set when Outcome is Succeeded
	Error     string
	CreatedAt time.Time
}

// Ledger persists upload attempts.
type Ledger interface {
	Record(ctx context.Context, a Attempt) error
	// Attempts returns every attempt for page, oldest first.
	Attempts(ctx context.Context, page string) ([]Attempt, error)
	Close() error
}

// NewRunID returns a fresh, time-sortable run identifier.
func NewRunID() string {
	return ulid.Make().String()
}
