// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import "time"

// Model is the unified, format-agnostic representation of the pipeline
// configuration.
type Model struct {
	Source  Source
	Output  Output
	Canvas  Canvas
	Upload  Upload
	Resolve Resolve
	Emit    Emit
}

// Source describes where icons are discovered and how directory names decode.
type Source struct {
	Root    string
	Exclude []string
	// Styles maps a style directory name to its canonical style name.
	Styles map[string]string
	// Sizes maps a size directory name to the nominal size in dp.
	Sizes map[string]int
	// Scales maps a scale directory name to its scale factor.
	Scales map[string]int
}

// Output describes where stage artifacts are written.
type Output struct {
	Root       string // pages, maps and id artifacts
	LookupRoot string // generated lookup modules
	Previews   bool
	// PreviewWidth is the pixel width of downscaled webp page previews.
	PreviewWidth int
}

// Canvas is the square page geometry.
type Canvas struct {
	MaxDim int
}

// Upload configures the remote asset service and its retry policy.
type Upload struct {
	Endpoint       string
	APIKey         string
	APIKeyFile     string
	AssetType      string
	Description    string
	CreatorGroupID int64
	CreatorUserID  int64
	PollInterval   time.Duration
	PollTimeout    time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Concurrency    int
	Resume         bool
	LedgerPath     string
	RequestTimeout time.Duration
}

// Resolve configures the sandbox step that turns primary ids into secondary ids.
// Commands may reference the placeholders {place} and {script}.
type Resolve struct {
	BuildCommand []string
	RunCommand   []string
	PlacePath    string
	ScriptPath   string
}

// Emit configures lookup table generation.
type Emit struct {
	Format      string // "luau" or "json"
	ImagePrefix string
}
