// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

//go:build integration

package integration_test

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net"
	"regexp"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // gomega convention

	"github.com/lanternmush/lantern/internal/auth"
	"github.com/lanternmush/lantern/internal/core"
	"github.com/lanternmush/lantern/internal/script/lua"
	"github.com/lanternmush/lantern/internal/seed"
	"github.com/lanternmush/lantern/internal/store"
	"github.com/lanternmush/lantern/internal/telnet"
	worldpg "github.com/lanternmush/lantern/internal/world/postgres"
)

const readTimeout = 5 * time.Second

var tokenPattern = regexp.MustCompile(`token is ([0-9a-f]+)\.`)

// stack is a running engine, persistence writer and telnet server over the
// shared database.
type stack struct {
	addr   string
	seeded bool
	writer *store.Writer
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func startStack(ctx context.Context, opts ...core.Option) *stack {
	logger := slog.New(slog.DiscardHandler)
	repo := worldpg.New(env.pool)

	def, err := seed.Default()
	Expect(err).NotTo(HaveOccurred())
	boot, err := seed.Bootstrap(ctx, repo, def)
	Expect(err).NotTo(HaveOccurred())

	writer := store.NewWriter(repo, store.WriterConfig{})
	writer.Start()

	outbox := core.NewOutbox(core.DefaultOutboxBuffer)
	opts = append([]core.Option{
		core.WithStartRoom(boot.StartRoom),
		core.WithScripts(lua.New()),
	}, opts...)
	eng, err := core.NewEngine(boot.World, writer, outbox, opts...)
	Expect(err).NotTo(HaveOccurred())

	authSvc, err := auth.NewService(repo,
		auth.NewArgon2idHasherWithParams(auth.Params{Time: 1, Memory: 8, Threads: 1, SaltLen: 8, KeyLen: 16}),
		auth.WithLogger(logger))
	Expect(err).NotTo(HaveOccurred())

	srv, err := telnet.NewServer("127.0.0.1:0", telnet.Deps{
		Engine:    eng,
		Outbox:    outbox,
		Auth:      authSvc,
		Inventory: repo,
		Logger:    logger,
	})
	Expect(err).NotTo(HaveOccurred())

	runCtx, cancel := context.WithCancel(ctx)
	s := &stack{seeded: boot.Seeded, writer: writer, cancel: cancel}
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		_ = eng.Run(runCtx)
	}()
	go func() {
		defer s.wg.Done()
		_ = srv.Run(runCtx)
	}()

	Eventually(srv.Addr).WithTimeout(readTimeout).ShouldNot(BeEmpty())
	s.addr = srv.Addr()
	return s
}

// stop shuts the loop and transport down, then drains the writer.
func (s *stack) stop() {
	s.cancel()
	s.wg.Wait()
	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()
	Expect(s.writer.Close(ctx)).To(Succeed())
}

// client is one telnet connection.
type client struct {
	conn net.Conn
	r    *bufio.Reader
}

func (s *stack) dial() *client {
	conn, err := net.Dial("tcp", s.addr)
	Expect(err).NotTo(HaveOccurred())
	c := &client{conn: conn, r: bufio.NewReader(conn)}
	c.expect("Welcome to Lantern.")
	return c
}

func (c *client) send(line string) {
	_, err := io.WriteString(c.conn, line+"\r\n")
	Expect(err).NotTo(HaveOccurred())
}

// expect reads lines until one contains want and returns it.
func (c *client) expect(want string) string {
	Expect(c.conn.SetReadDeadline(time.Now().Add(readTimeout))).To(Succeed())
	var seen []string
	for {
		line, err := c.r.ReadString('\n')
		Expect(err).NotTo(HaveOccurred(), "waiting for %q, saw %q", want, seen)
		line = strings.TrimRight(line, "\r\n")
		if strings.Contains(line, want) {
			return line
		}
		seen = append(seen, line)
	}
}

func (c *client) token() string {
	m := tokenPattern.FindStringSubmatch(c.expect("session token is"))
	Expect(m).To(HaveLen(2))
	return m[1]
}

func (c *client) close() {
	_ = c.conn.Close()
}
