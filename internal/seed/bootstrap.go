// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package seed

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/lanternmush/lantern/internal/world"
)

// Epoch is the creation time stamped on seeded entities, so re-seeding
// writes identical rows.
var Epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Stats counts what a seed wrote.
type Stats struct {
	Rooms   int
	Objects int
}

// Seed upserts every room and object in def by ID. Running it twice leaves
// the repository unchanged.
func Seed(ctx context.Context, repo world.Repository, def *Definition) (Stats, error) {
	rooms, objects, err := def.Build(Epoch)
	if err != nil {
		return Stats{}, err
	}
	for _, r := range rooms {
		if err := repo.UpsertRoom(ctx, r); err != nil {
			return Stats{}, oops.Code("SEED_FAILED").With("room_id", r.ID.String()).Wrap(err)
		}
	}
	for _, o := range objects {
		if err := repo.UpsertObject(ctx, o); err != nil {
			return Stats{}, oops.Code("SEED_FAILED").With("object_id", o.ID.String()).Wrap(err)
		}
	}
	return Stats{Rooms: len(rooms), Objects: len(objects)}, nil
}

// Result is the outcome of Bootstrap.
type Result struct {
	World     *world.World
	StartRoom world.RoomID
	// Seeded is true when the repository was empty and def was written to it.
	Seeded bool
}

// Bootstrap loads the world from repo, seeding it from def first when the
// repository holds no rooms. The start room comes from def and must exist in
// the loaded world.
func Bootstrap(ctx context.Context, repo world.Repository, def *Definition) (*Result, error) {
	n, err := repo.CountRooms(ctx)
	if err != nil {
		return nil, oops.Code("BOOTSTRAP_FAILED").With("operation", "count rooms").Wrap(err)
	}

	res := &Result{StartRoom: world.RoomID(def.StartRoom)}
	if n == 0 {
		stats, err := Seed(ctx, repo, def)
		if err != nil {
			return nil, err
		}
		res.Seeded = true
		slog.InfoContext(ctx, "seeded empty world",
			"rooms", stats.Rooms,
			"objects", stats.Objects,
			"start_room", def.StartRoom,
		)
	}

	w, err := world.Load(ctx, repo)
	if err != nil {
		return nil, oops.Code("BOOTSTRAP_FAILED").With("operation", "load world").Wrap(err)
	}
	if _, ok := w.Room(res.StartRoom); !ok {
		return nil, oops.Code("BOOTSTRAP_FAILED").
			With("start_room", def.StartRoom).
			Errorf("start room %q is not in the stored world", def.StartRoom)
	}
	res.World = w

	slog.InfoContext(ctx, "world loaded",
		"rooms", w.RoomCount(),
		"objects", len(w.Objects()),
		"seeded", res.Seeded,
	)
	return res, nil
}
