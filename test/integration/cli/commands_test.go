// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

//go:build integration

package cli_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

var _ = Describe("CLI against PostgreSQL", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		dropSchema(ctx, env.pool)
	})

	Describe("migrate", func() {
		It("reports pending migrations, applies them and rolls back", func() {
			out, err := lantern(ctx, "migrate", "version", "--database-url", env.connStr)
			Expect(err).NotTo(HaveOccurred(), out)
			Expect(out).To(ContainSubstring("Schema version: 0"))
			Expect(out).To(ContainSubstring("Pending migrations: 3"))

			out, err = lantern(ctx, "migrate", "up", "--database-url", env.connStr)
			Expect(err).NotTo(HaveOccurred(), out)
			Expect(out).To(ContainSubstring("Schema version: 3, 3 applied"))
			Expect(out).To(ContainSubstring("No pending migrations"))

			out, err = lantern(ctx, "migrate", "down", "--database-url", env.connStr)
			Expect(err).NotTo(HaveOccurred(), out)
			Expect(out).To(ContainSubstring("Schema version: 2"))
			Expect(out).To(ContainSubstring("000003_objects"))
		})

		It("fails without a database URL", func() {
			out, err := lantern(ctx, "migrate", "up")
			Expect(err).To(HaveOccurred())
			Expect(out).To(ContainSubstring("database URL is required"))
		})
	})

	Describe("seed", func() {
		It("migrates, seeds the built-in world and is idempotent", func() {
			for range 2 {
				out, err := lantern(ctx, "seed", "--store=postgres", "--database-url", env.connStr, "--log-level=error")
				Expect(err).NotTo(HaveOccurred(), out)
				Expect(out).To(ContainSubstring("Seeded 5 rooms and 5 objects (start room lantern-square)"))
			}

			var rooms, objects int
			Expect(env.pool.QueryRow(ctx, "SELECT COUNT(*) FROM rooms").Scan(&rooms)).To(Succeed())
			Expect(env.pool.QueryRow(ctx, "SELECT COUNT(*) FROM objects").Scan(&objects)).To(Succeed())
			Expect(rooms).To(Equal(5))
			Expect(objects).To(Equal(5))

			var name string
			Expect(env.pool.QueryRow(ctx,
				"SELECT name FROM rooms WHERE id = $1", "lantern-square",
			).Scan(&name)).To(Succeed())
			Expect(name).To(Equal("Lantern Square"))
		})
	})

	Describe("validate-world", func() {
		It("accepts the built-in world definition", func() {
			out, err := lantern(ctx, "validate-world", "../../internal/seed/default.yaml")
			Expect(err).NotTo(HaveOccurred(), out)
			Expect(out).To(ContainSubstring("valid (5 rooms, 5 objects, start room lantern-square)"))
		})
	})
})
