// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import "time"

// DefaultMaxDim is 1024 rounded down to a common multiple of the base sizes
// 18, 24, 36 and 48.
const DefaultMaxDim = 1008

const stylePrefix = "materialicons"

// DefaultExclude lists icon names that are never packed.
var DefaultExclude = []string{
	"smoke_free",
	"smoking_rooms",
	"vaping_rooms",
	"vape_free",
	"local_bar",
	"liquor",
	"wine_bar",
	"nightlife",
	"no_drinks",
	"sports_bar",
	"no_adult_content",
	"explicit",
	"sword_rose",
	"pill",
	"pill_off",
	"prescriptions",
	"pregnant_woman",
	"pregnancy",
}

// Defaults returns the configuration used when no file overrides a value.
func Defaults() *Model {
	return &Model{
		Source: Source{
			Root:    "png",
			Exclude: append([]string(nil), DefaultExclude...),
			Styles: map[string]string{
				stylePrefix:              "Default",
				stylePrefix + "outlined": "Outlined",
				stylePrefix + "round":    "Round",
				stylePrefix + "sharp":    "Sharp",
				stylePrefix + "twotone":  "TwoTone",
			},
			Sizes: map[string]int{
				"18dp": 18,
				"24dp": 24,
				"36dp": 36,
				"48dp": 48,
			},
			Scales: map[string]int{
				"1x": 1,
				"2x": 2,
				"3x": 3,
				"4x": 4,
			},
		},
		Output: Output{
			Root:         "out",
			LookupRoot:   "src",
			PreviewWidth: 256,
		},
		Canvas: Canvas{MaxDim: DefaultMaxDim},
		Upload: Upload{
			Endpoint:       "https://apis.roblox.com/assets/v1",
			APIKeyFile:     "scripts/auth.txt",
			AssetType:      "Decal",
			Description:    "icon spritesheet",
			PollInterval:   time.Second,
			PollTimeout:    5 * time.Minute,
			MaxAttempts:    10,
			InitialBackoff: 5 * time.Second,
			MaxBackoff:     time.Minute,
			Concurrency:    1,
			RequestTimeout: 2 * time.Minute,
		},
		Resolve: Resolve{
			BuildCommand: []string{"rojo", "build", "--output", "{place}"},
			RunCommand:   []string{"run-in-roblox", "--place", "{place}", "--script", "{script}"},
		},
		Emit: Emit{
			Format:      "luau",
			ImagePrefix: "rbxassetid://",
		},
	}
}
