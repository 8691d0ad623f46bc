// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// GroupKey identifies an export group.
type GroupKey struct {
	Style string // canonical style name, e.g. "TwoTone"
	Size  int    // nominal size in dp
	Scale int    // scale factor
}

// Width is the pixel width (and height) of every icon in the group.
func (k GroupKey) Width() int {
	return k.Size * k.Scale
}

// String renders the key as "<style>_<size>_<scale>".
func (k GroupKey) String() string {
	return fmt.Sprintf("%s_%d_%d", k.Style, k.Size, k.Scale)
}

// ParseGroupKey is the inverse of GroupKey.String.
func ParseGroupKey(name string) (GroupKey, error) {
	parts := strings.Split(name, "_")
	if len(parts) != 3 || parts[0] == "" {
		return GroupKey{}, fmt.Errorf("group name %q is not <style>_<size>_<scale>", name)
	}
	size, err := strconv.Atoi(parts[1])
	if err != nil || size <= 0 {
		return GroupKey{}, fmt.Errorf("group name %q has invalid size %q", name, parts[1])
	}
	scale, err := strconv.Atoi(parts[2])
	if err != nil || scale <= 0 {
		return GroupKey{}, fmt.Errorf("group name %q has invalid scale %q", name, parts[2])
	}
	return GroupKey{Style: parts[0], Size: size, Scale: scale}, nil
}

// Icon is a single source icon discovered by the catalog scanner.
type Icon struct {
	Name       string
	Style      string
	Size       int
	Scale      int
	Category   string
	SourcePath string
	// GroupIndex is the 0-based position of the icon inside its export group.
	// It is assigned by the group assigner and drives grid placement.
	GroupIndex int
}

// Width is the pixel width of the icon bitmap.
func (i Icon) Width() int {
	return i.Size * i.Scale
}

// Group returns the export group the icon belongs to.
func (i Icon) Group() GroupKey {
	return GroupKey{Style: i.Style, Size: i.Size, Scale: i.Scale}
}

// ExportGroup is an ordered set of icons sharing one GroupKey.
type ExportGroup struct {
	Key   GroupKey
	Icons []Icon
}

// Name returns the group key string.
func (g *ExportGroup) Name() string {
	return g.Key.String()
}
