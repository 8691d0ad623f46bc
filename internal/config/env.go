// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// envOverrides are the settings that may come from the process environment.
// Anything set here wins over the configuration file.
type envOverrides struct {
	APIKey         string `env:"ICONPACK_API_KEY"`
	Endpoint       string `env:"ICONPACK_ENDPOINT"`
	CreatorGroupID int64  `env:"ICONPACK_CREATOR_GROUP_ID"`
	CreatorUserID  int64  `env:"ICONPACK_CREATOR_USER_ID"`
}

// ApplyEnv overlays environment overrides onto m.
func ApplyEnv(m *Model) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if o.APIKey != "" {
		m.Upload.APIKey = o.APIKey
	}
	if o.Endpoint != "" {
		m.Upload.Endpoint = o.Endpoint
	}
	if o.CreatorGroupID != 0 {
		m.Upload.CreatorGroupID = o.CreatorGroupID
	}
	if o.CreatorUserID != 0 {
		m.Upload.CreatorUserID = o.CreatorUserID
	}
	return nil
}

// Credential returns the API key, reading APIKeyFile when no key was set
// directly. The key is read once per run and handed to the upload client.
func (u Upload) Credential() (string, error) {
	if u.APIKey != "" {
		return u.APIKey, nil
	}
	if u.APIKeyFile == "" {
		return "", fmt.Errorf("no api key configured")
	}
	raw, err := os.ReadFile(u.APIKeyFile)
	if err != nil {
		return "", fmt.Errorf("read api key file: %w", err)
	}
	key := strings.TrimSpace(string(raw))
	if key == "" {
		return "", fmt.Errorf("api key file %s is empty", u.APIKeyFile)
	}
	return key, nil
}
