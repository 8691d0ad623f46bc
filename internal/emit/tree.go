// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package emit builds the style -> size -> scale -> icon lookup tree from
// coordinate maps and resolved identifiers, and writes it out for the
// downstream runtime.
package emit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/specialistvlad/iconpack/internal/fault"
	"github.com/specialistvlad/iconpack/internal/model"
)

// Record is one resolved icon.
type Record struct {
	Image   string // display reference, e.g. "rbxassetid://123"
	OffsetX int
	OffsetY int
	Width   int
	Height  int
}

// Leaf holds every icon of one export group.
type Leaf struct {
	Group string
	Icons map[string]Record
}

// Tree is the lookup tree. Keys are normalized path segments:
// Styles["two_tone"]["dp_24"]["scale_2"].
type Tree struct {
	Styles map[string]Sizes
}

// Sizes is the second tree level.
type Sizes map[string]Scales

// Scales is the third tree level.
type Scales map[string]*Leaf

// StyleSegment normalizes a style name: "TwoTone" becomes "two_tone".
func StyleSegment(style string) string {
	var b strings.Builder
	runes := []rune(style)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// SizeSegment returns "dp_<size>".
func SizeSegment(size int) string { return "dp_" + strconv.Itoa(size) }

// ScaleSegment returns "scale_<scale>".
func ScaleSegment(scale int) string { return "scale_" + strconv.Itoa(scale) }

// Build joins every coordinate entry with the secondary id of its page.
// pageIDs maps a page key to its secondary id. Every icon of every map ends
// up in exactly one leaf; an entry whose page has no id is a lookup error.
func Build(maps map[string]model.CoordinateMap, pageIDs map[string]int64, imagePrefix string) (*Tree, error) {
	t := &Tree{Styles: map[string]Sizes{}}

	groups := make([]string, 0, len(maps))
	for g := range maps {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	want := 0
	for _, group := range groups {
		key, err := model.ParseGroupKey(group)
		if err != nil {
			return nil, fault.Wrap(fault.Config, "emit.build", group, err)
		}
		leaf := &Leaf{Group: group, Icons: make(map[string]Record, len(maps[group]))}
		for name, entry := range maps[group] {
			id, ok := pageIDs[entry.Page]
			if !ok {
				return nil, fault.New(fault.Lookup, "emit.build", group+"/"+name,
					"page %s has no resolved identifier", entry.Page)
			}
			leaf.Icons[name] = Record{
				Image:   imagePrefix + strconv.FormatInt(id, 10),
				OffsetX: entry.StartX,
				OffsetY: entry.StartY,
				Width:   entry.Width(),
				Height:  entry.Height(),
			}
		}
		if err := t.insert(key, leaf); err != nil {
			return nil, err
		}
		want += len(maps[group])
	}

	if got := t.Len(); got != want {
		return nil, fault.New(fault.Invariant, "emit.build", "", "tree holds %d icons, maps hold %d", got, want)
	}
	return t, nil
}

func (t *Tree) insert(key model.GroupKey, leaf *Leaf) error {
	style, size, scale := StyleSegment(key.Style), SizeSegment(key.Size), ScaleSegment(key.Scale)
	sizes, ok := t.Styles[style]
	if !ok {
		sizes = Sizes{}
		t.Styles[style] = sizes
	}
	scales, ok := sizes[size]
	if !ok {
		scales = Scales{}
		sizes[size] = scales
	}
	if prev, ok := scales[scale]; ok {
		return fault.New(fault.Invariant, "emit.build", leaf.Group,
			"groups %s and %s both map to %s/%s/%s", prev.Group, leaf.Group, style, size, scale)
	}
	scales[scale] = leaf
	return nil
}

// Len counts the icons in the tree.
func (t *Tree) Len() int {
	n := 0
	t.Walk(func(_, _, _ string, leaf *Leaf) { n += len(leaf.Icons) })
	return n
}

// Walk visits every leaf in key order.
func (t *Tree) Walk(fn func(style, size, scale string, leaf *Leaf)) {
	for _, style := range keys(t.Styles) {
		sizes := t.Styles[style]
		for _, size := range keys(sizes) {
			scales := sizes[size]
			for _, scale := range keys(scales) {
				fn(style, size, scale, scales[scale])
			}
		}
	}
}

// Lookup returns the record of one icon.
func (t *Tree) Lookup(style, size, scale, icon string) (Record, error) {
	leaf := t.Styles[style][size][scale]
	if leaf == nil {
		return Record{}, fault.New(fault.Lookup, "emit.lookup", fmt.Sprintf("%s/%s/%s", style, size, scale), "no such group")
	}
	rec, ok := leaf.Icons[icon]
	if !ok {
		return Record{}, fault.New(fault.Lookup, "emit.lookup", icon, "no such icon in %s", leaf.Group)
	}
	return rec, nil
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
