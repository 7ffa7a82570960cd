// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallWorld = `start_room: hall
rooms:
  - id: hall
    name: Hall
    short: A bare hall.
    exits:
      east: yard
  - id: yard
    name: Yard
    short: A muddy yard.
    exits:
      west: hall
objects:
  - id: bucket
    name: bucket
    room: yard
`

func writeWorld(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestValidateWorld(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		wantOut string
	}{
		{
			name:    "valid",
			body:    smallWorld,
			wantOut: "valid (2 rooms, 1 objects, start room hall)",
		},
		{
			name:    "dangling exit",
			body:    "start_room: hall\nrooms:\n  - id: hall\n    name: Hall\n    short: A hall.\n    exits:\n      north: attic\n",
			wantErr: true,
		},
		{
			name:    "unknown start room",
			body:    "start_room: cellar\nrooms:\n  - id: hall\n    name: Hall\n    short: A hall.\n",
			wantErr: true,
		},
		{
			name:    "schema violation",
			body:    "start_room: hall\nrooms: []\n",
			wantErr: true,
		},
		{
			name:    "unknown field",
			body:    "start_room: hall\ncolour: blue\nrooms:\n  - id: hall\n    name: Hall\n    short: A hall.\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeWorld(t, tt.body)

			out, err := execute(t, "validate-world", path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, out, path)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestValidateWorld_MissingFile(t *testing.T) {
	_, err := execute(t, "validate-world", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateWorld_RequiresOneArg(t *testing.T) {
	_, err := execute(t, "validate-world")
	require.Error(t, err)
}
