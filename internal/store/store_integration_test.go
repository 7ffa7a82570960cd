// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lanternmush/lantern/internal/store"
	"github.com/lanternmush/lantern/internal/world"
	worldpg "github.com/lanternmush/lantern/internal/world/postgres"
)

var _ = Describe("Store against PostgreSQL", Ordered, func() {
	var (
		ctx       context.Context
		container *postgres.PostgresContainer
		connStr   string
	)

	BeforeAll(func() {
		ctx = context.Background()
		var err error
		container, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("lantern_test"),
			postgres.WithUsername("lantern"),
			postgres.WithPassword("lantern"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second),
			),
		)
		Expect(err).NotTo(HaveOccurred())

		connStr, err = container.ConnectionString(ctx, "sslmode=disable")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterAll(func() {
		if container != nil {
			_ = container.Terminate(ctx)
		}
	})

	Describe("Migrator", func() {
		It("applies, reports and rolls back the embedded migrations", func() {
			m, err := store.NewMigrator(connStr)
			Expect(err).NotTo(HaveOccurred())
			defer func() { _ = m.Close() }()

			version, dirty, err := m.Version()
			Expect(err).NotTo(HaveOccurred())
			Expect(version).To(BeZero())
			Expect(dirty).To(BeFalse())

			pending, err := m.PendingMigrations()
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(Equal([]uint{1, 2, 3}))

			Expect(m.Up()).To(Succeed())
			Expect(m.Up()).To(Succeed(), "a second Up is a no-op")

			applied, err := m.AppliedMigrations()
			Expect(err).NotTo(HaveOccurred())
			Expect(applied).To(Equal([]uint{1, 2, 3}))

			Expect(m.Steps(-1)).To(Succeed())
			version, _, err = m.Version()
			Expect(err).NotTo(HaveOccurred())
			Expect(version).To(Equal(uint(2)))

			Expect(m.Up()).To(Succeed())
		})
	})

	Describe("Writer", func() {
		var (
			pool   *pgxpool.Pool
			repo   *worldpg.Repository
			writer *store.Writer
		)

		BeforeEach(func() {
			var err error
			pool, err = store.OpenPool(ctx, store.PoolConfig{URL: connStr, ConnectTimeout: 10 * time.Second})
			Expect(err).NotTo(HaveOccurred())
			repo = worldpg.New(pool)
			writer = store.NewWriter(repo, store.WriterConfig{})
			writer.Start()
		})

		AfterEach(func() {
			Expect(writer.Close(ctx)).To(Succeed())
			pool.Close()
		})

		It("stores deferred writes before a later immediate write returns", func() {
			p, err := world.NewPlayer("writer-alice", "hash")
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.CreatePlayer(ctx, p)).To(Succeed())

			room, err := world.NewRoomWithID("writer-hall", "Hall", "A hall.")
			Expect(err).NotTo(HaveOccurred())
			Expect(writer.SaveRoom(ctx, room, store.Deferred)).To(Succeed())

			lamp, err := world.NewObjectWithID("writer-lamp", "lamp", "A lamp.")
			Expect(err).NotTo(HaveOccurred())
			lamp.OwnerID = &p.ID
			Expect(writer.SaveObject(ctx, lamp, store.Deferred)).To(Succeed())

			p.LastRoomID = room.ID
			Expect(writer.SavePlayer(ctx, p, store.Immediate)).To(Succeed())

			stored, err := repo.GetRoom(ctx, "writer-hall")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Name).To(Equal("Hall"))

			inv, err := repo.ListInventory(ctx, p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(inv).To(HaveLen(1))

			loaded, err := repo.GetPlayerByUsername(ctx, "writer-alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.LastRoomID).To(Equal(world.RoomID("writer-hall")))
		})

		It("reports a constraint violation on an immediate write", func() {
			ghost, err := world.NewPlayer("writer-ghost", "hash")
			Expect(err).NotTo(HaveOccurred())

			lamp, err := world.NewObjectWithID("writer-orphan", "orphan", "No owner row.")
			Expect(err).NotTo(HaveOccurred())
			lamp.OwnerID = &ghost.ID

			err = writer.SaveObject(ctx, lamp, store.Immediate)
			Expect(err).To(HaveOccurred())
			Expect(store.IsTransient(err)).To(BeFalse())
		})
	})
})
