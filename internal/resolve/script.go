// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolve

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/specialistvlad/iconpack/internal/model"
)

var scriptTemplate = template.Must(template.New("resolve").Parse(`local AssetIds = { {{- .IDs -}} }
local HttpService = game:GetService("HttpService")
local InsertService = game:GetService("InsertService")

local Results: { [string]: number } = {}

for _, assetId in ipairs(AssetIds) do
	local model = InsertService:LoadAsset(assetId)

	local decal = model:FindFirstChildOfClass("Decal")
	assert(decal, ` + "`bad decal for {assetId}`" + `)

	local decalId = tonumber((decal.Texture:gsub("%D", "")))
	assert(decalId, ` + "`bad decalId for {assetId}`" + `)
	Results[tostring(assetId)] = decalId
end

print(HttpService:JSONEncode(Results))
`))

// PrimaryList returns the distinct primary ids of m in ascending order.
func PrimaryList(m model.PrimaryIDs) []int64 {
	ids := make([]int64, 0, len(m))
	for _, id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Script renders the sandbox script resolving ids.
func Script(ids []int64) (string, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	var buf bytes.Buffer
	if err := scriptTemplate.Execute(&buf, struct{ IDs string }{strings.Join(parts, ", ")}); err != nil {
		return "", fmt.Errorf("render resolve script: %w", err)
	}
	return buf.String(), nil
}

// WriteScript renders the script for ids to path.
func WriteScript(path string, ids []int64) error {
	src, err := Script(ids)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create script directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		return fmt.Errorf("write resolve script: %w", err)
	}
	return nil
}
