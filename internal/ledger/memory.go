// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package ledger

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Ledger keyed by page. Each page has its own log so
// concurrent workers uploading different pages never contend.
type Memory struct {
	pages sync.Map // page -> *pageLog
}

type pageLog struct {
	mu       sync.Mutex
	attempts []Attempt
}

// NewMemory returns an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{}
}

// Record appends an attempt.
func (m *Memory) Record(ctx context.Context, a Attempt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	v, _ := m.pages.LoadOrStore(a.Page, &pageLog{})
	log := v.(*pageLog)
	log.mu.Lock()
	log.attempts = append(log.attempts, a)
	log.mu.Unlock()
	return nil
}

// Attempts returns a copy of the attempts recorded for page.
func (m *Memory) Attempts(ctx context.Context, page string) ([]Attempt, error) {
	v, ok := m.pages.Load(page)
	if !ok {
		return nil, nil
	}
	log := v.(*pageLog)
	log.mu.Lock()
	defer log.mu.Unlock()
	return append([]Attempt(nil), log.attempts...), nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

var _ Ledger = (*Memory)(nil)
