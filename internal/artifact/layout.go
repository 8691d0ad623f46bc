// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package artifact owns the on-disk layout of stage outputs and their JSON
// encoding. Every stage reads only what the previous stage wrote here, which
// is what makes a run restartable from the last completed stage.
//
//	<root>/asset/<group>/page<N>.png   rendered pages
//	<root>/preview/<group>/page<N>.webp optional page previews
//	<root>/map/<group>.json            coordinate maps
//	<root>/asset_ids.json              page path -> primary id
//	<root>/decal_ids.json              primary id -> secondary id
//	<root>/convert.luau                sandbox resolution script
//	<root>/uploads.db                  upload attempt ledger
//
// Page paths used as map keys are relative to <root> and always use forward
// slashes, e.g. "asset/Default_24_1/page0.png".
package artifact

import (
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	pagesDir    = "asset"
	previewDir  = "preview"
	mapsDir     = "map"
	pagePrefix  = "page"
	pageExt     = ".png"
	previewExt  = ".webp"
	primaryIDs  = "asset_ids.json"
	secondaryID = "decal_ids.json"
	scriptName  = "convert.luau"
	placeName   = "decal-loader.rbxl"
	ledgerName  = "uploads.db"
)

// Layout resolves artifact locations under an output root.
type Layout struct {
	Root string
}

// NewLayout returns the layout rooted at root.
func NewLayout(root string) Layout {
	return Layout{Root: root}
}

// Abs turns a slash-separated page key into a filesystem path.
func (l Layout) Abs(key string) string {
	return filepath.Join(l.Root, filepath.FromSlash(key))
}

// PagesDir is the directory holding every group's pages.
func (l Layout) PagesDir() string { return filepath.Join(l.Root, pagesDir) }

// GroupPagesDir is the directory holding one group's pages.
func (l Layout) GroupPagesDir(group string) string { return filepath.Join(l.PagesDir(), group) }

// MapsDir is the directory holding coordinate maps.
func (l Layout) MapsDir() string { return filepath.Join(l.Root, mapsDir) }

// MapPath is the coordinate map file of a group.
func (l Layout) MapPath(group string) string { return filepath.Join(l.MapsDir(), group+".json") }

// PreviewPath is the webp preview of a page.
func (l Layout) PreviewPath(group string, page int) string {
	return filepath.Join(l.Root, previewDir, group, pagePrefix+strconv.Itoa(page)+previewExt)
}

// PrimaryIDsPath is the upload stage artifact.
func (l Layout) PrimaryIDsPath() string { return filepath.Join(l.Root, primaryIDs) }

// SecondaryIDsPath is the resolve stage artifact.
func (l Layout) SecondaryIDsPath() string { return filepath.Join(l.Root, secondaryID) }

// ScriptPath is where the sandbox script is generated.
func (l Layout) ScriptPath() string { return filepath.Join(l.Root, scriptName) }

// PlacePath is where the sandbox bundle is built.
func (l Layout) PlacePath() string { return filepath.Join(l.Root, placeName) }

// LedgerPath is the default location of the upload ledger.
func (l Layout) LedgerPath() string { return filepath.Join(l.Root, ledgerName) }

// PageKey returns the map key of a page.
func PageKey(group string, page int) string {
	return path.Join(pagesDir, group, pagePrefix+strconv.Itoa(page)+pageExt)
}

// PageRef identifies a rendered page.
type PageRef struct {
	Group string
	Index int
	Key   string
}

// ParsePageKey is the inverse of PageKey.
func ParsePageKey(key string) (PageRef, error) {
	parts := strings.Split(key, "/")
	if len(parts) != 3 || parts[0] != pagesDir {
		return PageRef{}, fmt.Errorf("page key %q is not %s/<group>/%sN%s", key, pagesDir, pagePrefix, pageExt)
	}
	name := parts[2]
	if !strings.HasPrefix(name, pagePrefix) || !strings.HasSuffix(name, pageExt) {
		return PageRef{}, fmt.Errorf("page key %q has unexpected file name", key)
	}
	idx, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, pagePrefix), pageExt))
	if err != nil || idx < 0 {
		return PageRef{}, fmt.Errorf("page key %q has invalid index", key)
	}
	return PageRef{Group: parts[1], Index: idx, Key: key}, nil
}

// DisplayName derives the remote display name of a page:
// "asset/Default_24_1/page3.png" becomes "default_24_1_p3".
func DisplayName(key string) string {
	name := strings.TrimPrefix(key, pagesDir+"/")
	name = strings.TrimSuffix(name, pageExt)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, pagePrefix, "p")
}
