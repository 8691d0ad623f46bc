// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hcl

// fileRoot decodes every top-level block a pipeline file may contain. All
// blocks are optional; unknown blocks or attributes are rejected by gohcl.
type fileRoot struct {
	Source  *sourceBlock  `hcl:"source,block"`
	Output  *outputBlock  `hcl:"output,block"`
	Canvas  *canvasBlock  `hcl:"canvas,block"`
	Upload  *uploadBlock  `hcl:"upload,block"`
	Resolve *resolveBlock `hcl:"resolve,block"`
	Emit    *emitBlock    `hcl:"emit,block"`
}

type sourceBlock struct {
	Root    *string       `hcl:"root,optional"`
	Exclude []string      `hcl:"exclude,optional"`
	Styles  []*styleBlock `hcl:"style,block"`
	Sizes   []*valueBlock `hcl:"size,block"`
	Scales  []*valueBlock `hcl:"scale,block"`
}

// styleBlock maps a style directory to a canonical style name:
//
//	style "materialiconsround" { name = "Round" }
type styleBlock struct {
	Dir  string `hcl:"dir,label"`
	Name string `hcl:"name"`
}

// valueBlock maps a size or scale directory to its number:
//
//	size "24dp" { value = 24 }
type valueBlock struct {
	Dir   string `hcl:"dir,label"`
	Value int    `hcl:"value"`
}

type outputBlock struct {
	Root         *string `hcl:"root,optional"`
	LookupRoot   *string `hcl:"lookup_root,optional"`
	Previews     *bool   `hcl:"previews,optional"`
	PreviewWidth *int    `hcl:"preview_width,optional"`
}

type canvasBlock struct {
	MaxDim *int `hcl:"max_dim,optional"`
}

type uploadBlock struct {
	Endpoint       *string `hcl:"endpoint,optional"`
	APIKey         *string `hcl:"api_key,optional"`
	APIKeyFile     *string `hcl:"api_key_file,optional"`
	AssetType      *string `hcl:"asset_type,optional"`
	Description    *string `hcl:"description,optional"`
	CreatorGroupID *int64  `hcl:"creator_group_id,optional"`
	CreatorUserID  *int64  `hcl:"creator_user_id,optional"`
	PollInterval   *string `hcl:"poll_interval,optional"`
	PollTimeout    *string `hcl:"poll_timeout,optional"`
	MaxAttempts    *int    `hcl:"max_attempts,optional"`
	InitialBackoff *string `hcl:"initial_backoff,optional"`
	MaxBackoff     *string `hcl:"max_backoff,optional"`
	Concurrency    *int    `hcl:"concurrency,optional"`
	Resume         *bool   `hcl:"resume,optional"`
	LedgerPath     *string `hcl:"ledger_path,optional"`
	RequestTimeout *string `hcl:"request_timeout,optional"`
}

type resolveBlock struct {
	BuildCommand []string `hcl:"build_command,optional"`
	RunCommand   []string `hcl:"run_command,optional"`
	PlacePath    *string  `hcl:"place_path,optional"`
	ScriptPath   *string  `hcl:"script_path,optional"`
}

type emitBlock struct {
	Format      *string `hcl:"format,optional"`
	ImagePrefix *string `hcl:"image_prefix,optional"`
}
