// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package seed

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanternmush/lantern/internal/world"
	"github.com/lanternmush/lantern/pkg/errutil"
)

const minimalWorld = `
start_room: hall
rooms:
  - id: hall
    name: Hall
    short: A hall.
    exits:
      north: garden
  - id: garden
    name: Garden
    short: A garden.
    exits:
      south: hall
objects:
  - id: rake
    name: rake
    description: A wooden rake.
    room: garden
`

func TestDefault_IsValid(t *testing.T) {
	def, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "lantern-square", def.StartRoom)
	assert.NotEmpty(t, def.Rooms)
	assert.NotEmpty(t, def.Objects)

	rooms, objects, err := def.Build(Epoch)
	require.NoError(t, err)
	assert.Len(t, rooms, len(def.Rooms))
	assert.Len(t, objects, len(def.Objects))
}

func TestParse_Minimal(t *testing.T) {
	def, err := Parse([]byte(minimalWorld))
	require.NoError(t, err)

	rooms, objects, err := def.Build(Epoch)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, world.RoomID("garden"), rooms[0].Exits["north"])
	require.Len(t, objects, 1)
	require.NotNil(t, objects[0].LocationID)
	assert.Equal(t, world.RoomID("garden"), *objects[0].LocationID)
	assert.True(t, objects[0].IsPortable(), "objects without flags are portable")
	assert.Equal(t, Epoch, objects[0].CreatedAt)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "empty", yaml: "   "},
		{name: "not yaml", yaml: "rooms: [unclosed"},
		{name: "missing start room", yaml: `
rooms:
  - id: hall
    name: Hall
    short: A hall.
`},
		{name: "unknown field", yaml: `
start_room: hall
colour: blue
rooms:
  - id: hall
    name: Hall
    short: A hall.
`},
		{name: "bad room id", yaml: `
start_room: Hall
rooms:
  - id: Hall
    name: Hall
    short: A hall.
`},
		{name: "undefined start room", yaml: `
start_room: cellar
rooms:
  - id: hall
    name: Hall
    short: A hall.
`},
		{name: "dangling exit", yaml: `
start_room: hall
rooms:
  - id: hall
    name: Hall
    short: A hall.
    exits:
      north: nowhere
`},
		{name: "upper case exit label", yaml: `
start_room: hall
rooms:
  - id: hall
    name: Hall
    short: A hall.
    exits:
      North: hall
`},
		{name: "duplicate room", yaml: `
start_room: hall
rooms:
  - id: hall
    name: Hall
    short: A hall.
  - id: hall
    name: Hall again
    short: A hall.
`},
		{name: "unknown flag", yaml: `
start_room: hall
rooms:
  - id: hall
    name: Hall
    short: A hall.
objects:
  - id: rock
    name: rock
    room: hall
    flags: [sparkly]
`},
		{name: "undefined key", yaml: `
start_room: hall
rooms:
  - id: hall
    name: Hall
    short: A hall.
objects:
  - id: box
    name: box
    room: hall
    key: missing-key
`},
		{name: "object in undefined room", yaml: `
start_room: hall
rooms:
  - id: hall
    name: Hall
    short: A hall.
objects:
  - id: rock
    name: rock
    room: cellar
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, CodeInvalid)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalWorld), 0o600))

	def, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hall", def.StartRoom)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SEED_READ_FAILED")
}

func TestGenerateSchema(t *testing.T) {
	raw, err := GenerateSchema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, SchemaID, doc["$id"])
	assert.Equal(t, "Lantern World Definition", doc["title"])
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "start_room")
	assert.Contains(t, props, "rooms")
	assert.Contains(t, props, "objects")
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := world.NewMemoryRepository()
	def, err := Parse([]byte(minimalWorld))
	require.NoError(t, err)

	stats, err := Seed(ctx, repo, def)
	require.NoError(t, err)
	assert.Equal(t, Stats{Rooms: 2, Objects: 1}, stats)

	first, err := world.Load(ctx, repo)
	require.NoError(t, err)

	_, err = Seed(ctx, repo, def)
	require.NoError(t, err)
	second, err := world.Load(ctx, repo)
	require.NoError(t, err)

	assert.Equal(t, first.RoomCount(), second.RoomCount())
	assert.Len(t, second.Objects(), len(first.Objects()))
	for _, r := range first.Rooms() {
		again, ok := second.Room(r.ID)
		require.True(t, ok)
		assert.Equal(t, r.Exits, again.Exits)
		assert.Equal(t, r.CreatedAt, again.CreatedAt)
	}
	require.NoError(t, second.CheckInvariants())
}

func TestBootstrap_SeedsEmptyRepository(t *testing.T) {
	ctx := context.Background()
	repo := world.NewMemoryRepository()
	def, err := Default()
	require.NoError(t, err)

	res, err := Bootstrap(ctx, repo, def)
	require.NoError(t, err)
	assert.True(t, res.Seeded)
	assert.Equal(t, world.RoomID("lantern-square"), res.StartRoom)
	assert.Equal(t, len(def.Rooms), res.World.RoomCount())

	lamp, ok := res.World.Object("tin-lantern")
	require.True(t, ok)
	_, hasVerb := lamp.Verb("rub")
	assert.True(t, hasVerb)
}

func TestBootstrap_LoadsExistingWorld(t *testing.T) {
	ctx := context.Background()
	repo := world.NewMemoryRepository()
	def, err := Parse([]byte(minimalWorld))
	require.NoError(t, err)
	_, err = Seed(ctx, repo, def)
	require.NoError(t, err)

	// A player-built room survives a restart and is not overwritten.
	shed, err := world.NewRoomWithID("shed", "Shed", "A shed.")
	require.NoError(t, err)
	require.NoError(t, repo.UpsertRoom(ctx, shed))
	hall, err := repo.GetRoom(ctx, "hall")
	require.NoError(t, err)
	hall.Name = "Great Hall"
	require.NoError(t, repo.UpsertRoom(ctx, hall))

	res, err := Bootstrap(ctx, repo, def)
	require.NoError(t, err)
	assert.False(t, res.Seeded)
	assert.Equal(t, 3, res.World.RoomCount())
	got, ok := res.World.Room("hall")
	require.True(t, ok)
	assert.Equal(t, "Great Hall", got.Name)
}

func TestBootstrap_StartRoomMissing(t *testing.T) {
	ctx := context.Background()
	repo := world.NewMemoryRepository()
	shed, err := world.NewRoomWithID("shed", "Shed", "A shed.")
	require.NoError(t, err)
	require.NoError(t, repo.UpsertRoom(ctx, shed))

	def, err := Parse([]byte(minimalWorld))
	require.NoError(t, err)

	_, err = Bootstrap(ctx, repo, def)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "BOOTSTRAP_FAILED")
}
