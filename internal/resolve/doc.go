// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package resolve turns primary asset ids into secondary display ids.
//
// The lookup happens inside an external sandbox: a generated Luau script
// loads every primary asset, reads the texture reference of its decal, keeps
// only the digits and prints the results as one JSON object. This package
// writes that script, drives the external build and run commands, parses the
// captured output and joins it back to page paths. Any id the sandbox could
// not resolve is an invariant failure; nothing is retried.
package resolve
