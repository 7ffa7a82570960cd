// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanternmush/lantern/internal/world"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "world.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestRepository_Rooms(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	creator := "alice"
	hall, err := world.NewRoomWithID("hall", "Hall", "A hall.")
	require.NoError(t, err)
	hall.LongDescription = "A long hall."
	hall.EnterText = "%s strides in."
	hall.CreatorUsername = &creator
	hall.Exits["north"] = "garden"
	garden, err := world.NewRoomWithID("garden", "Garden", "A garden.")
	require.NoError(t, err)

	require.NoError(t, repo.UpsertRoom(ctx, hall))
	require.NoError(t, repo.UpsertRoom(ctx, garden))

	got, err := repo.GetRoom(ctx, "hall")
	require.NoError(t, err)
	assert.Equal(t, "A long hall.", got.LongDescription)
	assert.Equal(t, "%s strides in.", got.EnterText)
	require.NotNil(t, got.CreatorUsername)
	assert.Equal(t, "alice", *got.CreatorUsername)
	assert.Equal(t, map[string]world.RoomID{"north": "garden"}, got.Exits)

	rooms, err := repo.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, world.RoomID("garden"), rooms[0].ID)
	assert.Equal(t, world.RoomID("hall"), rooms[1].ID)
	assert.NotNil(t, rooms[0].Exits, "rooms without exits still get a map")

	n, err := repo.CountRooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Re-upserting replaces the exits wholesale.
	delete(hall.Exits, "north")
	require.NoError(t, repo.UpsertRoom(ctx, hall))
	got, err = repo.GetRoom(ctx, "hall")
	require.NoError(t, err)
	assert.Empty(t, got.Exits)

	_, err = repo.GetRoom(ctx, "void")
	assert.ErrorIs(t, err, world.ErrNotFound)
}

func TestRepository_Objects(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	owner, err := world.NewPlayer("bob", "hash")
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	hall := world.RoomID("hall")
	key := world.ObjectID("key")
	text := "Meet me at dawn."

	chest, err := world.NewObjectWithID("chest", "oak chest", "A chest.")
	require.NoError(t, err)
	chest.Flags = world.FlagOpenable | world.FlagLockable | world.FlagLocked
	chest.KeyID = &key
	chest.LocationID = &hall
	chest.CreatedAt = base.Add(time.Minute)

	note, err := world.NewObjectWithID("note", "note", "A note.")
	require.NoError(t, err)
	note.TextContent = &text
	note.OwnerID = &owner.ID
	note.Verbs = map[string]string{"burn": "say_room('smoke')"}
	note.CreatedAt = base

	lamp, err := world.NewObjectWithID("lamp", "lamp", "A lamp.")
	require.NoError(t, err)
	lamp.LocationID = &hall
	lamp.CreatedAt = base

	for _, o := range []*world.Object{chest, note, lamp} {
		require.NoError(t, repo.UpsertObject(ctx, o))
	}

	inRooms, err := repo.ListRoomObjects(ctx)
	require.NoError(t, err)
	require.Len(t, inRooms, 2)
	assert.Equal(t, world.ObjectID("lamp"), inRooms[0].ID, "ordered by creation time")
	assert.Equal(t, world.ObjectID("chest"), inRooms[1].ID)
	assert.True(t, inRooms[1].Flags.Has(world.FlagLocked))
	require.NotNil(t, inRooms[1].KeyID)
	assert.Equal(t, key, *inRooms[1].KeyID)

	inv, err := repo.ListInventory(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, inv, 1)
	require.NotNil(t, inv[0].TextContent)
	assert.Equal(t, text, *inv[0].TextContent)
	assert.Equal(t, "say_room('smoke')", inv[0].Verbs["burn"])
	assert.Nil(t, inv[0].LocationID)

	require.NoError(t, repo.DeleteObject(ctx, "lamp"))
	require.NoError(t, repo.DeleteObject(ctx, "lamp"), "deleting a missing object is fine")
	inRooms, err = repo.ListRoomObjects(ctx)
	require.NoError(t, err)
	assert.Len(t, inRooms, 1)
}

func TestRepository_Players(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	p, err := world.NewPlayer("Alice", "hash")
	require.NoError(t, err)
	require.NoError(t, repo.CreatePlayer(ctx, p))

	dup, err := world.NewPlayer("alice", "other")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.CreatePlayer(ctx, dup), world.ErrUsernameTaken)

	p.LastRoomID = "garden"
	p.Description = "Tall."
	require.NoError(t, repo.UpdatePlayer(ctx, p))

	got, err := repo.GetPlayerByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "Alice", got.Username)
	assert.Equal(t, world.RoomID("garden"), got.LastRoomID)
	assert.Equal(t, "Tall.", got.Description)

	_, err = repo.GetPlayerByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, world.ErrNotFound)

	assert.ErrorIs(t, repo.UpdatePlayer(ctx, dup), world.ErrNotFound)
}

func TestRepository_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "world.db")

	repo, err := Open(path)
	require.NoError(t, err)
	room, err := world.NewRoomWithID("hall", "Hall", "A hall.")
	require.NoError(t, err)
	require.NoError(t, repo.UpsertRoom(ctx, room))
	require.NoError(t, repo.Close())

	repo, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = repo.Close() }()

	w, err := world.Load(ctx, repo)
	require.NoError(t, err)
	_, ok := w.Room("hall")
	assert.True(t, ok)
}

func TestRepository_CancelledContext(t *testing.T) {
	repo := openTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListRooms(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
