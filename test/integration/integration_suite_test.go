// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

//go:build integration

// Package integration_test runs the whole server stack against PostgreSQL.
package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lanternmush/lantern/internal/store"
)

func TestIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Integration Suite")
}

// testEnv holds the database shared by every spec.
type testEnv struct {
	ctx       context.Context
	pool      *pgxpool.Pool
	container testcontainers.Container
	connStr   string
}

var env *testEnv

var _ = BeforeSuite(func() {
	ctx := context.Background()
	container, err := postgres.Run(ctx,
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

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	Expect(err).NotTo(HaveOccurred())

	m, err := store.NewMigrator(connStr)
	Expect(err).NotTo(HaveOccurred())
	Expect(m.Up()).To(Succeed())
	Expect(m.Close()).To(Succeed())

	pool, err := store.OpenPool(ctx, store.PoolConfig{URL: connStr, MaxConns: 8})
	Expect(err).NotTo(HaveOccurred())

	env = &testEnv{ctx: ctx, pool: pool, container: container, connStr: connStr}
})

var _ = AfterSuite(func() {
	if env == nil {
		return
	}
	env.pool.Close()
	_ = env.container.Terminate(env.ctx)
})

// truncateWorld empties every world table so each spec seeds afresh.
func truncateWorld(ctx context.Context) {
	_, err := env.pool.Exec(ctx, "TRUNCATE rooms, room_exits, objects, players CASCADE")
	Expect(err).NotTo(HaveOccurred())
}
