package cli

import (
	"bytes"
	"testing"

	"github.com/specialistvlad/iconpack/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want app.Config
	}{
		{
			name: "defaults run every stage",
			args: nil,
			want: app.Config{Stages: app.AllStages, LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "long config flag and stages",
			args: []string{"-config", "build.hcl", "emit", "pack"},
			want: app.Config{ConfigPath: "build.hcl", Stages: []app.Stage{app.StagePack, app.StageEmit}, LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "shorthand config flag",
			args: []string{"-c", "x.hcl", "upload"},
			want: app.Config{ConfigPath: "x.hcl", Stages: []app.Stage{app.StageUpload}, LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "all keyword",
			args: []string{"all"},
			want: app.Config{Stages: app.AllStages, LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "runtime flags",
			args: []string{"-log-format", "JSON", "-log-level", "debug", "-workers", "8", "-resume", "-healthcheck-port", "9090", "upload"},
			want: app.Config{
				Stages:          []app.Stage{app.StageUpload},
				LogFormat:       "json",
				LogLevel:        "debug",
				WorkerCount:     8,
				Resume:          true,
				HealthcheckPort: 9090,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, exit, err := Parse(tt.args, &bytes.Buffer{})
			require.NoError(t, err)
			require.False(t, exit)
			assert.Equal(t, tt.want, *cfg)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"unknown flag", []string{"-nope"}, "flag provided but not defined"},
		{"unknown stage", []string{"publish"}, "unknown stage"},
		{"bad log format", []string{"-log-format", "xml"}, "invalid log-format"},
		{"bad log level", []string{"-log-level", "trace"}, "invalid log-level"},
		{"negative workers", []string{"-workers", "-1"}, "workers must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.args, &bytes.Buffer{})
			require.Error(t, err)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tt.msg)
		})
	}
}

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{"-h"}, out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "iconpack [options] [STAGE ...]")
}
