// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"sync"
	"time"
)

// progress tracks the running stage for the /progress endpoint.
type progress struct {
	mu      sync.Mutex
	runID   string
	started time.Time
	stage   Stage
	done    int
	total   int
	failed  string
	stages  []Stage // completed
}

// Snapshot is the JSON body of /progress.
type Snapshot struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Stage     Stage     `json:"stage,omitempty"`
	Done      int       `json:"done"`
	Total     int       `json:"total"`
	Completed []Stage   `json:"completed"`
	Error     string    `json:"error,omitempty"`
}

func newProgress(runID string) *progress {
	return &progress{runID: runID, started: time.Now().UTC()}
}

func (p *progress) begin(st Stage, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stage, p.done, p.total = st, 0, total
}

func (p *progress) set(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done, p.total = done, total
}

func (p *progress) finish(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.failed = err.Error()
		return
	}
	p.stages = append(p.stages, p.stage)
	p.stage = ""
}

func (p *progress) snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		RunID:     p.runID,
		StartedAt: p.started,
		Stage:     p.stage,
		Done:      p.done,
		Total:     p.total,
		Completed: append([]Stage{}, p.stages...),
		Error:     p.failed,
	}
}
