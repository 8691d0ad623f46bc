// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package config defines the format-agnostic pipeline configuration model,
// its built-in defaults, environment overrides and validation, along with the
// Loader interface implemented by format-specific packages such as hcl.
//
// The `config.Model` is the single source of truth for every pipeline stage.
package config
