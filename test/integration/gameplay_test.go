// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

//go:build integration

package integration_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/lanternmush/lantern/internal/core"
)

var _ = Describe("Playing against PostgreSQL", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		truncateWorld(ctx)
	})

	It("seeds an empty database once", func() {
		first := startStack(ctx)
		Expect(first.seeded).To(BeTrue())
		first.stop()

		second := startStack(ctx)
		defer second.stop()
		Expect(second.seeded).To(BeFalse())

		var rooms int
		Expect(env.pool.QueryRow(ctx, "SELECT COUNT(*) FROM rooms").Scan(&rooms)).To(Succeed())
		Expect(rooms).To(Equal(5))
	})

	It("keeps what a player carries across a restart", func() {
		s := startStack(ctx)
		c := s.dial()
		c.send("register carol secret1")
		c.expect("Lantern Square")

		c.send("take tin lantern")
		c.expect("You take the tin lantern.")

		var owner *string
		Expect(env.pool.QueryRow(ctx,
			"SELECT owner_id FROM objects WHERE id = $1", "tin-lantern",
		).Scan(&owner)).To(Succeed())
		Expect(owner).NotTo(BeNil(), "ownership is written before the reply")

		c.send("rub lantern")
		c.expect("You rub the tin lantern.")

		c.send("quit")
		c.expect("Goodbye.")
		c.close()
		s.stop()

		s = startStack(ctx)
		defer s.stop()
		c = s.dial()
		defer c.close()
		c.send("login carol secret1")
		c.expect("Lantern Square")
		c.send("inventory")
		c.expect("tin lantern")
	})

	It("lets a dropped player resume within the grace period", func() {
		s := startStack(ctx, core.WithGracePeriod(10*time.Second))
		defer s.stop()

		watcher := s.dial()
		defer watcher.close()
		watcher.send("register erin secret1")
		watcher.expect("Lantern Square")

		dropped := s.dial()
		dropped.send("register dave secret1")
		token := dropped.token()
		watcher.expect("dave has arrived.")
		dropped.close()
		watcher.expect("dave stares blankly ahead.")

		back := s.dial()
		defer back.close()
		back.send("resume " + token)
		watcher.expect("dave has reconnected.")

		back.send("say still here")
		watcher.expect(`dave says, "still here"`)
	})

	It("ends a dropped session when the grace period runs out", func() {
		s := startStack(ctx, core.WithGracePeriod(200*time.Millisecond))
		defer s.stop()

		watcher := s.dial()
		defer watcher.close()
		watcher.send("register frank secret1")
		watcher.expect("Lantern Square")

		dropped := s.dial()
		dropped.send("register gina secret1")
		token := dropped.token()
		dropped.close()
		watcher.expect("gina stares blankly ahead.")
		watcher.expect("gina fades away.")

		var last *string
		Expect(env.pool.QueryRow(ctx,
			"SELECT last_room_id FROM players WHERE username = $1", "gina",
		).Scan(&last)).To(Succeed())
		Expect(last).To(HaveValue(Equal("lantern-square")), "the fading player was saved")

		late := s.dial()
		defer late.close()
		late.send("resume " + token)
		late.expect("Your session has expired.")
	})
})
