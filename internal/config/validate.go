// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/specialistvlad/iconpack/internal/fault"
)

// Validate checks settings every stage relies on. Upload-only settings such as
// the credential are checked by the upload stage itself.
func (m *Model) Validate() error {
	var errs []error
	if m.Canvas.MaxDim <= 0 {
		errs = append(errs, fmt.Errorf("canvas max_dim must be positive, got %d", m.Canvas.MaxDim))
	}
	if m.Source.Root == "" {
		errs = append(errs, errors.New("source root must not be empty"))
	}
	if m.Output.Root == "" {
		errs = append(errs, errors.New("output root must not be empty"))
	}
	if len(m.Source.Styles) == 0 || len(m.Source.Sizes) == 0 || len(m.Source.Scales) == 0 {
		errs = append(errs, errors.New("source must declare at least one style, size and scale"))
	}
	for _, dir := range sortedKeys(m.Source.Sizes) {
		for _, scaleDir := range sortedKeys(m.Source.Scales) {
			w := m.Source.Sizes[dir] * m.Source.Scales[scaleDir]
			if w <= 0 || w > m.Canvas.MaxDim {
				errs = append(errs, fmt.Errorf("icon width %d (%s at %s) does not fit canvas %d", w, dir, scaleDir, m.Canvas.MaxDim))
			}
		}
	}
	if m.Upload.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("upload concurrency must be at least 1, got %d", m.Upload.Concurrency))
	}
	if m.Upload.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("upload max_attempts must be at least 1, got %d", m.Upload.MaxAttempts))
	}
	if m.Upload.PollInterval <= 0 {
		errs = append(errs, errors.New("upload poll_interval must be positive"))
	}
	switch m.Emit.Format {
	case "luau", "json":
	default:
		errs = append(errs, fmt.Errorf("emit format must be 'luau' or 'json', got %q", m.Emit.Format))
	}
	if len(errs) > 0 {
		return fault.Wrap(fault.Config, "config.validate", "", errors.Join(errs...))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
