// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"os"
	"testing"

	"github.com/specialistvlad/iconpack/internal/hcl"
	"github.com/specialistvlad/iconpack/internal/testutil"
	"github.com/stretchr/testify/require"
)

// SetupAppTest creates a new app instance for system testing. Logs are kept
// in the returned buffer and printed when ICONPACK_TEST_LOGS=true.
func SetupAppTest(t *testing.T, appConfig *Config, opts ...Option) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	appConfig.LogLevel = "debug"
	cfg, err := NewConfig(*appConfig)
	require.NoError(t, err)

	testApp, err := NewApp(logBuffer, cfg, hcl.NewLoader(), opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("ICONPACK_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})
	return testApp, logBuffer
}
