package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/iconpack/internal/cli"
	"github.com/specialistvlad/iconpack/internal/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_InvalidConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "iconpack.hcl")
	require.NoError(t, os.WriteFile(path, []byte("canvas {\n  max_dim = \n"), 0o600))

	err := run(context.Background(), &bytes.Buffer{}, []string{"-c", path, "pack"})

	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.Config))
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_PackOnly(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "iconpack.hcl")
	src := filepath.Join(root, "png")
	require.NoError(t, os.MkdirAll(src, 0o755))
	hcl := `
source {
  root = "` + filepath.ToSlash(src) + `"
}
output {
  root = "` + filepath.ToSlash(filepath.Join(root, "out")) + `"
}
`
	require.NoError(t, os.WriteFile(path, []byte(hcl), 0o600))

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"-c", path, "-log-format", "json", "pack"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Pipeline finished.")
}
