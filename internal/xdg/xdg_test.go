// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanternmush/lantern/pkg/errutil"
)

func TestDirs(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (string, error)
		env  string
		want string
		home string
	}{
		{name: "config env", fn: ConfigDir, env: "/custom/config", want: "/custom/config/lantern"},
		{name: "config default", fn: ConfigDir, home: "/home/testuser", want: "/home/testuser/.config/lantern"},
		{name: "data env", fn: DataDir, env: "/custom/data", want: "/custom/data/lantern"},
		{name: "data default", fn: DataDir, home: "/home/testuser", want: "/home/testuser/.local/share/lantern"},
		{name: "state env", fn: StateDir, env: "/custom/state", want: "/custom/state/lantern"},
		{name: "state default", fn: StateDir, home: "/home/testuser", want: "/home/testuser/.local/state/lantern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", tt.env)
			t.Setenv("XDG_DATA_HOME", tt.env)
			t.Setenv("XDG_STATE_HOME", tt.env)
			t.Setenv("HOME", tt.home)

			got, err := tt.fn()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirs_NoHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")

	_, err := ConfigDir()
	errutil.AssertErrorCode(t, err, "XDG_NO_HOME")
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg")

	got, err := ConfigFile()
	require.NoError(t, err)
	assert.Equal(t, "/etc/xdg/lantern/config.yaml", got)
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, EnsureDir(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

	require.NoError(t, EnsureDir(path), "existing directory is fine")
}
