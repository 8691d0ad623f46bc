// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package emit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Writer serializes a lookup tree under a directory.
type Writer interface {
	// Write replaces the contents of dir and returns the files it wrote.
	Write(dir string, t *Tree) ([]string, error)
}

// NewWriter returns the writer for format ("luau" or "json").
func NewWriter(format string) (Writer, error) {
	switch format {
	case "luau":
		return LuauWriter{}, nil
	case "json":
		return JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unknown emit format %q", format)
	}
}

func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clear %s: %w", dir, err)
	}
	return os.MkdirAll(dir, 0o755)
}

// LuauWriter writes one module per group plus an init.luau index that
// requires them by tree path.
type LuauWriter struct{}

const generatedNote = "-- this script is auto generated, don't manually change it please"

func (LuauWriter) Write(dir string, t *Tree) ([]string, error) {
	if err := resetDir(dir); err != nil {
		return nil, err
	}
	var files []string
	var walkErr error
	t.Walk(func(_, _, _ string, leaf *Leaf) {
		if walkErr != nil {
			return
		}
		path := filepath.Join(dir, leaf.Group+".luau")
		walkErr = os.WriteFile(path, []byte(groupModule(leaf)), 0o644)
		files = append(files, path)
	})
	if walkErr != nil {
		return nil, fmt.Errorf("write group module: %w", walkErr)
	}

	index := filepath.Join(dir, "init.luau")
	if err := os.WriteFile(index, []byte(indexModule(t)), 0o644); err != nil {
		return nil, fmt.Errorf("write index module: %w", err)
	}
	return append(files, index), nil
}

func groupModule(leaf *Leaf) string {
	var b strings.Builder
	b.WriteString("--!strict\n")
	b.WriteString(generatedNote + "\n")
	b.WriteString("return {\n")
	for _, name := range keys(leaf.Icons) {
		r := leaf.Icons[name]
		fmt.Fprintf(&b, "\t[%s] = {\n", luauString(name))
		fmt.Fprintf(&b, "\t\tImage = %s,\n", luauString(r.Image))
		fmt.Fprintf(&b, "\t\tImageRectOffset = Vector2.new(%d, %d),\n", r.OffsetX, r.OffsetY)
		fmt.Fprintf(&b, "\t\tImageRectSize = Vector2.new(%d, %d),\n", r.Width, r.Height)
		b.WriteString("\t},\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func indexModule(t *Tree) string {
	var b strings.Builder
	b.WriteString("--!strict\n")
	b.WriteString("-- search for icons here: https://fonts.google.com/icons\n")
	b.WriteString(generatedNote + "\n")
	b.WriteString("return {\n")
	for _, style := range keys(t.Styles) {
		fmt.Fprintf(&b, "\t[%s] = {\n", luauString(style))
		sizes := t.Styles[style]
		for _, size := range keys(sizes) {
			fmt.Fprintf(&b, "\t\t[%s] = {\n", luauString(size))
			scales := sizes[size]
			for _, scale := range keys(scales) {
				fmt.Fprintf(&b, "\t\t\t[%s] = require(script:WaitForChild(%s)),\n",
					luauString(scale), luauString(scales[scale].Group))
			}
			b.WriteString("\t\t},\n")
		}
		b.WriteString("\t},\n")
	}
	b.WriteString("}\n")
	return b.String()
}

var luauEscapes = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

func luauString(s string) string {
	return `"` + luauEscapes.Replace(s) + `"`
}

// JSONWriter writes the whole tree as a single lookup.json.
type JSONWriter struct{}

type jsonRecord struct {
	Image  string `json:"image"`
	Offset [2]int `json:"offset"`
	Size   [2]int `json:"size"`
}

func (JSONWriter) Write(dir string, t *Tree) ([]string, error) {
	if err := resetDir(dir); err != nil {
		return nil, err
	}
	out := map[string]map[string]map[string]map[string]jsonRecord{}
	t.Walk(func(style, size, scale string, leaf *Leaf) {
		if out[style] == nil {
			out[style] = map[string]map[string]map[string]jsonRecord{}
		}
		if out[style][size] == nil {
			out[style][size] = map[string]map[string]jsonRecord{}
		}
		icons := make(map[string]jsonRecord, len(leaf.Icons))
		for name, r := range leaf.Icons {
			icons[name] = jsonRecord{Image: r.Image, Offset: [2]int{r.OffsetX, r.OffsetY}, Size: [2]int{r.Width, r.Height}}
		}
		out[style][size][scale] = icons
	})

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode lookup tree: %w", err)
	}
	path := filepath.Join(dir, "lookup.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("write lookup tree: %w", err)
	}
	return []string{path}, nil
}
