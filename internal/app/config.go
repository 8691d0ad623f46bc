// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"fmt"
	"slices"
	"strings"
)

// Stage is one pipeline step.
type Stage string

const (
	StagePack    Stage = "pack"
	StageUpload  Stage = "upload"
	StageResolve Stage = "resolve"
	StageEmit    Stage = "emit"
)

// AllStages lists every stage in execution order.
var AllStages = []Stage{StagePack, StageUpload, StageResolve, StageEmit}

// ParseStage validates a stage name.
func ParseStage(s string) (Stage, error) {
	st := Stage(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(AllStages, st) {
		return "", fmt.Errorf("unknown stage %q: must be one of pack, upload, resolve, emit", s)
	}
	return st, nil
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // optional pipeline HCL file
	Stages     []Stage

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	// WorkerCount overrides upload concurrency and render parallelism when
	// positive.
	WorkerCount int
	// Resume forces upload resume on regardless of the pipeline file.
	Resume bool
}

// NewConfig validates cfg. An empty stage list selects every stage; stages
// always run in pipeline order and at most once.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Stages) == 0 {
		cfg.Stages = slices.Clone(AllStages)
	}
	var ordered []Stage
	for _, st := range AllStages {
		if slices.Contains(cfg.Stages, st) {
			ordered = append(ordered, st)
		}
	}
	if len(ordered) != len(dedupe(cfg.Stages)) {
		return nil, fmt.Errorf("stage list %v contains an unknown stage", cfg.Stages)
	}
	cfg.Stages = ordered
	if cfg.WorkerCount < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.WorkerCount)
	}
	return &cfg, nil
}

// Runs reports whether st is selected.
func (c *Config) Runs(st Stage) bool {
	return slices.Contains(c.Stages, st)
}

func dedupe(stages []Stage) []Stage {
	var out []Stage
	for _, st := range stages {
		if !slices.Contains(out, st) {
			out = append(out, st)
		}
	}
	return out
}
