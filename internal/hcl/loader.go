// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hcl

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/iconpack/internal/config"
	"github.com/specialistvlad/iconpack/internal/ctxlog"
	"github.com/specialistvlad/iconpack/internal/fault"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the file at path and overlays it on config.Defaults().
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fault.Wrap(fault.Config, "config.load", path, fmt.Errorf("failed to parse HCL file: %w", diags))
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, newEvalContext(), &root)
	if diags.HasErrors() {
		return nil, fault.Wrap(fault.Config, "config.load", path, fmt.Errorf("failed to decode HCL file: %w", diags))
	}

	model := config.Defaults()
	if err := apply(model, &root); err != nil {
		return nil, fault.Wrap(fault.Config, "config.load", path, err)
	}

	logger.Debug("HCL loading complete.", "styles", len(model.Source.Styles), "sizes", len(model.Source.Sizes), "scales", len(model.Source.Scales))
	return model, nil
}

// apply copies every value present in root onto m.
func apply(m *config.Model, root *fileRoot) error {
	if s := root.Source; s != nil {
		setString(&m.Source.Root, s.Root)
		if s.Exclude != nil {
			m.Source.Exclude = s.Exclude
		}
		if len(s.Styles) > 0 {
			m.Source.Styles = make(map[string]string, len(s.Styles))
			for _, b := range s.Styles {
				m.Source.Styles[b.Dir] = b.Name
			}
		}
		if len(s.Sizes) > 0 {
			m.Source.Sizes = valueMap(s.Sizes)
		}
		if len(s.Scales) > 0 {
			m.Source.Scales = valueMap(s.Scales)
		}
	}

	if o := root.Output; o != nil {
		setString(&m.Output.Root, o.Root)
		setString(&m.Output.LookupRoot, o.LookupRoot)
		if o.Previews != nil {
			m.Output.Previews = *o.Previews
		}
		setInt(&m.Output.PreviewWidth, o.PreviewWidth)
	}

	if c := root.Canvas; c != nil {
		setInt(&m.Canvas.MaxDim, c.MaxDim)
	}

	if u := root.Upload; u != nil {
		setString(&m.Upload.Endpoint, u.Endpoint)
		setString(&m.Upload.APIKey, u.APIKey)
		setString(&m.Upload.APIKeyFile, u.APIKeyFile)
		setString(&m.Upload.AssetType, u.AssetType)
		setString(&m.Upload.Description, u.Description)
		setString(&m.Upload.LedgerPath, u.LedgerPath)
		setInt(&m.Upload.MaxAttempts, u.MaxAttempts)
		setInt(&m.Upload.Concurrency, u.Concurrency)
		if u.CreatorGroupID != nil {
			m.Upload.CreatorGroupID = *u.CreatorGroupID
		}
		if u.CreatorUserID != nil {
			m.Upload.CreatorUserID = *u.CreatorUserID
		}
		if u.Resume != nil {
			m.Upload.Resume = *u.Resume
		}
		durations := []struct {
			name string
			src  *string
			dst  *time.Duration
		}{
			{"poll_interval", u.PollInterval, &m.Upload.PollInterval},
			{"poll_timeout", u.PollTimeout, &m.Upload.PollTimeout},
			{"initial_backoff", u.InitialBackoff, &m.Upload.InitialBackoff},
			{"max_backoff", u.MaxBackoff, &m.Upload.MaxBackoff},
			{"request_timeout", u.RequestTimeout, &m.Upload.RequestTimeout},
		}
		for _, d := range durations {
			if d.src == nil {
				continue
			}
			parsed, err := time.ParseDuration(*d.src)
			if err != nil {
				return fmt.Errorf("upload %s: %w", d.name, err)
			}
			*d.dst = parsed
		}
	}

	if r := root.Resolve; r != nil {
		if r.BuildCommand != nil {
			m.Resolve.BuildCommand = r.BuildCommand
		}
		if r.RunCommand != nil {
			m.Resolve.RunCommand = r.RunCommand
		}
		setString(&m.Resolve.PlacePath, r.PlacePath)
		setString(&m.Resolve.ScriptPath, r.ScriptPath)
	}

	if e := root.Emit; e != nil {
		setString(&m.Emit.Format, e.Format)
		setString(&m.Emit.ImagePrefix, e.ImagePrefix)
	}
	return nil
}

func valueMap(blocks []*valueBlock) map[string]int {
	out := make(map[string]int, len(blocks))
	for _, b := range blocks {
		out[b.Dir] = b.Value
	}
	return out
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
