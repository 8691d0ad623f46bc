// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the data types that flow between pipeline stages.
//
// # Core Concepts
//
//   - Icon: one source bitmap decoded from the catalog directory layout. Icons
//     are immutable once scanned.
//
//   - GroupKey: the (style, size, scale) partition an icon belongs to. Every
//     icon in a group has the same pixel width, so a group shares one grid.
//
//   - CoordinateEntry: where an icon landed, as a page path plus a pixel
//     rectangle on that page.
//
//   - PrimaryIDs / SecondaryIDs: the two identifier maps produced by the upload
//     and resolve stages.
//
// Each stage persists its output map as the sole input of the next stage, so
// these types are also the on-disk artifact schema.
package model
