// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package group partitions scanned icons into export groups keyed by
// (style, size, scale) and assigns every icon its position in the group.
package group

import (
	"context"
	"sort"

	"github.com/specialistvlad/iconpack/internal/ctxlog"
	"github.com/specialistvlad/iconpack/internal/model"
)

// Assign partitions icons into export groups.
//
// Icons inside a group are ordered by name, then by source path, and their
// GroupIndex is their position in that order. Icons sharing a name inside one
// group collapse to the last one in that order, matching how the coordinate
// map keys entries by name. Groups are returned sorted by key.
func Assign(ctx context.Context, icons []model.Icon) []*model.ExportGroup {
	logger := ctxlog.FromContext(ctx)

	byKey := make(map[model.GroupKey][]model.Icon)
	for _, icon := range icons {
		key := icon.Group()
		byKey[key] = append(byKey[key], icon)
	}

	groups := make([]*model.ExportGroup, 0, len(byKey))
	for key, members := range byKey {
		sort.SliceStable(members, func(i, j int) bool {
			if members[i].Name != members[j].Name {
				return members[i].Name < members[j].Name
			}
			return members[i].SourcePath < members[j].SourcePath
		})

		unique := members[:0]
		for _, icon := range members {
			if n := len(unique); n > 0 && unique[n-1].Name == icon.Name {
				logger.Warn("Duplicate icon name in group, keeping the later file.",
					"group", key.String(), "name", icon.Name,
					"dropped", unique[n-1].SourcePath, "kept", icon.SourcePath)
				unique[n-1] = icon
				continue
			}
			unique = append(unique, icon)
		}
		for i := range unique {
			unique[i].GroupIndex = i
		}
		groups = append(groups, &model.ExportGroup{Key: key, Icons: unique})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Name() < groups[j].Name()
	})

	logger.Debug("Icons assigned to export groups.", "groups", len(groups), "icons", len(icons))
	return groups
}
