// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the configuration file at path, overlays it on Defaults()
	// and returns the merged model. It neither applies environment overrides
	// nor validates; callers do that once all sources are merged.
	Load(ctx context.Context, path string) (*Model, error)
}
