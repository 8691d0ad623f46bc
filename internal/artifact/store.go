// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specialistvlad/iconpack/internal/fsutil"
	"github.com/specialistvlad/iconpack/internal/model"
)

// WriteJSON writes v as indented JSON. The file is written to a temporary
// sibling first and renamed, so readers never observe a partial map.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// ReadJSON decodes the JSON file at path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// WriteCoordinateMap persists one group's coordinate map.
func (l Layout) WriteCoordinateMap(group string, m model.CoordinateMap) error {
	return WriteJSON(l.MapPath(group), m)
}

// ReadCoordinateMaps loads every group's coordinate map, keyed by group name.
func (l Layout) ReadCoordinateMaps() (map[string]model.CoordinateMap, error) {
	files, err := fsutil.FindFilesByExtension(l.MapsDir(), ".json")
	if err != nil {
		return nil, fmt.Errorf("list coordinate maps: %w", err)
	}
	maps := make(map[string]model.CoordinateMap, len(files))
	for _, file := range files {
		var m model.CoordinateMap
		if err := ReadJSON(file, &m); err != nil {
			return nil, err
		}
		maps[strings.TrimSuffix(filepath.Base(file), ".json")] = m
	}
	return maps, nil
}

// WritePrimaryIDs persists the upload stage output.
func (l Layout) WritePrimaryIDs(ids model.PrimaryIDs) error {
	return WriteJSON(l.PrimaryIDsPath(), ids)
}

// ReadPrimaryIDs loads the upload stage output.
func (l Layout) ReadPrimaryIDs() (model.PrimaryIDs, error) {
	ids := model.PrimaryIDs{}
	if err := ReadJSON(l.PrimaryIDsPath(), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ReadPrimaryIDsIfExists is ReadPrimaryIDs but yields an empty map when no
// previous upload has run.
func (l Layout) ReadPrimaryIDsIfExists() (model.PrimaryIDs, error) {
	ids, err := l.ReadPrimaryIDs()
	if errors.Is(err, fs.ErrNotExist) {
		return model.PrimaryIDs{}, nil
	}
	return ids, err
}

// WriteSecondaryIDs persists the resolve stage output.
func (l Layout) WriteSecondaryIDs(ids model.SecondaryIDs) error {
	return WriteJSON(l.SecondaryIDsPath(), ids)
}

// ReadSecondaryIDs loads the resolve stage output.
func (l Layout) ReadSecondaryIDs() (model.SecondaryIDs, error) {
	ids := model.SecondaryIDs{}
	if err := ReadJSON(l.SecondaryIDsPath(), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListPages returns every rendered page ordered by group name, then page index.
func (l Layout) ListPages() ([]PageRef, error) {
	groups, err := fsutil.ListDirs(l.PagesDir())
	if err != nil {
		return nil, fmt.Errorf("list page groups: %w", err)
	}
	var pages []PageRef
	for _, group := range groups {
		files, err := fsutil.ListFiles(l.GroupPagesDir(group))
		if err != nil {
			return nil, fmt.Errorf("list pages of %s: %w", group, err)
		}
		var refs []PageRef
		for _, file := range files {
			ref, err := ParsePageKey(pagesDir + "/" + group + "/" + file)
			if err != nil {
				continue
			}
			refs = append(refs, ref)
		}
		sort.Slice(refs, func(i, j int) bool { return refs[i].Index < refs[j].Index })
		pages = append(pages, refs...)
	}
	return pages, nil
}

// ResetRender removes every page, preview and coordinate map so a render
// starts from an empty tree. The primary and secondary id maps go too: they
// describe the previous pages, and a resumed upload must not reuse an id for
// a page whose pixels changed. The ledger is kept.
func (l Layout) ResetRender() error {
	for _, dir := range []string{l.PagesDir(), filepath.Join(l.Root, previewDir), l.MapsDir()} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("clear %s: %w", dir, err)
		}
	}
	for _, path := range []string{l.PrimaryIDsPath(), l.SecondaryIDsPath()} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("clear %s: %w", path, err)
		}
	}
	return os.MkdirAll(l.Root, 0o755)
}
