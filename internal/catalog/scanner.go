// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package catalog discovers icon source files and decodes their style, size,
// scale and category from the directory structure:
//
//	<root>/<category>/<icon>/<style dir>/<size dir>/<scale dir>/<file>
//
// Directory listings are sorted by name, so a scan of the same tree always
// yields the same icon order regardless of platform.
package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/iconpack/internal/config"
	"github.com/specialistvlad/iconpack/internal/ctxlog"
	"github.com/specialistvlad/iconpack/internal/fault"
	"github.com/specialistvlad/iconpack/internal/fsutil"
	"github.com/specialistvlad/iconpack/internal/model"
)

const op = "catalog.scan"

// Scanner walks a source tree described by a config.Source.
type Scanner struct {
	src     config.Source
	exclude map[string]struct{}

	listDirs  func(string) ([]string, error)
	listFiles func(string) ([]string, error)
}

// NewScanner creates a scanner for the given source settings.
func NewScanner(src config.Source) *Scanner {
	exclude := make(map[string]struct{}, len(src.Exclude))
	for _, name := range src.Exclude {
		exclude[name] = struct{}{}
	}
	return &Scanner{src: src, exclude: exclude, listDirs: fsutil.ListDirs, listFiles: fsutil.ListFiles}
}

// dirs lists the subdirectories of path. A tree that cannot be read is a
// configuration error like any other bad source layout.
func (s *Scanner) dirs(path string) ([]string, error) {
	names, err := s.listDirs(path)
	if err != nil {
		return nil, fault.Wrap(fault.Config, op, path, fmt.Errorf("list directory: %w", err))
	}
	return names, nil
}

func (s *Scanner) files(path string) ([]string, error) {
	names, err := s.listFiles(path)
	if err != nil {
		return nil, fault.Wrap(fault.Config, op, path, fmt.Errorf("list files: %w", err))
	}
	return names, nil
}

// Scan returns every icon under the source root. An unknown style, size or
// scale directory is a configuration error and aborts the scan.
func (s *Scanner) Scan(ctx context.Context) ([]model.Icon, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Catalog scan started.", "root", s.src.Root)

	categories, err := s.dirs(s.src.Root)
	if err != nil {
		return nil, err
	}

	var icons []model.Icon
	skipped := 0
	for _, category := range categories {
		categoryPath := filepath.Join(s.src.Root, category)
		names, err := s.dirs(categoryPath)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if _, ok := s.exclude[name]; ok {
				skipped++
				continue
			}
			found, err := s.scanIcon(category, name, filepath.Join(categoryPath, name))
			if err != nil {
				return nil, err
			}
			icons = append(icons, found...)
		}
	}

	logger.Info("Catalog scan finished.", "icons", len(icons), "categories", len(categories), "excluded", skipped)
	return icons, nil
}

// scanIcon expands one icon directory into its style/size/scale variants.
func (s *Scanner) scanIcon(category, name, iconPath string) ([]model.Icon, error) {
	var icons []model.Icon

	styleDirs, err := s.dirs(iconPath)
	if err != nil {
		return nil, err
	}
	for _, styleDir := range styleDirs {
		style, ok := s.src.Styles[styleDir]
		if !ok {
			return nil, fault.New(fault.Config, op, filepath.Join(iconPath, styleDir), "unknown style directory %q", styleDir)
		}
		stylePath := filepath.Join(iconPath, styleDir)

		sizeDirs, err := s.dirs(stylePath)
		if err != nil {
			return nil, err
		}
		for _, sizeDir := range sizeDirs {
			size, ok := s.src.Sizes[sizeDir]
			if !ok {
				return nil, fault.New(fault.Config, op, filepath.Join(stylePath, sizeDir), "unknown size directory %q", sizeDir)
			}
			sizePath := filepath.Join(stylePath, sizeDir)

			scaleDirs, err := s.dirs(sizePath)
			if err != nil {
				return nil, err
			}
			for _, scaleDir := range scaleDirs {
				scale, ok := s.src.Scales[scaleDir]
				if !ok {
					return nil, fault.New(fault.Config, op, filepath.Join(sizePath, scaleDir), "unknown scale directory %q", scaleDir)
				}
				scalePath := filepath.Join(sizePath, scaleDir)

				files, err := s.files(scalePath)
				if err != nil {
					return nil, err
				}
				for _, file := range files {
					icons = append(icons, model.Icon{
						Name:       name,
						Style:      style,
						Size:       size,
						Scale:      scale,
						Category:   category,
						SourcePath: filepath.Join(scalePath, file),
					})
				}
			}
		}
	}
	return icons, nil
}
