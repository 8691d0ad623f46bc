// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It parses a pipeline file, decodes its blocks with gohcl and
// overlays every value it finds on the built-in defaults.
//
// Expressions are evaluated with a small function table so secrets can stay
// out of the file:
//
//	upload {
//	  api_key          = env("ICONPACK_API_KEY")
//	  creator_group_id = 4181328
//	}
package hcl
