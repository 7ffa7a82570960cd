// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

// Package telnet is the line-oriented transport. It authenticates
// connections off the game loop and turns every other line into an Input
// item; output arrives through the engine's outbox.
package telnet

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"

	"github.com/samber/oops"

	"github.com/lanternmush/lantern/internal/core"
	"github.com/lanternmush/lantern/internal/world"
)

// Engine is the part of the game loop the transport submits to.
type Engine interface {
	Submit(ctx context.Context, item core.Item) error
	SubmitWait(ctx context.Context, item core.Item) error
}

// Authenticator registers and verifies players.
type Authenticator interface {
	Register(ctx context.Context, username, password string) (*world.Player, error)
	Authenticate(ctx context.Context, username, password string) (*world.Player, error)
}

// InventoryLoader reads a player's carried objects before login.
type InventoryLoader interface {
	ListInventory(ctx context.Context, owner world.PlayerID) ([]*world.Object, error)
}

// Deps are the collaborators every connection uses.
type Deps struct {
	Engine    Engine
	Outbox    *core.Outbox
	Auth      Authenticator
	Inventory InventoryLoader
	Logger    *slog.Logger
	// Banner is sent to every new connection. DefaultBanner when empty.
	Banner string
}

func (d Deps) validate() error {
	switch {
	case d.Engine == nil:
		return oops.Code("TELNET_INVALID_CONFIG").Errorf("engine is required")
	case d.Outbox == nil:
		return oops.Code("TELNET_INVALID_CONFIG").Errorf("outbox is required")
	case d.Auth == nil:
		return oops.Code("TELNET_INVALID_CONFIG").Errorf("authenticator is required")
	case d.Inventory == nil:
		return oops.Code("TELNET_INVALID_CONFIG").Errorf("inventory loader is required")
	}
	return nil
}

// Server is a telnet server.
type Server struct {
	addr     string
	deps     Deps
	listener net.Listener
	mu       sync.RWMutex
	conns    sync.WaitGroup
}

// NewServer creates a server that will listen on addr.
func NewServer(addr string, deps Deps) (*Server, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Banner == "" {
		deps.Banner = DefaultBanner
	}
	return &Server{addr: addr, deps: deps}, nil
}

// Addr returns the server's listen address, or "" before Run has bound it.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run accepts connections until ctx is cancelled, then waits for every
// connection handler to finish.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return oops.Code("TELNET_LISTEN_FAILED").With("addr", s.addr).Wrap(err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.deps.Logger.InfoContext(ctx, "telnet server started", "addr", listener.Addr().String())

	stop := context.AfterFunc(ctx, func() {
		if err := listener.Close(); err != nil {
			s.deps.Logger.Debug("error closing listener", "error", err)
		}
	})
	defer stop()
	defer s.conns.Wait()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.deps.Logger.InfoContext(ctx, "telnet server stopped")
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return oops.Code("TELNET_ACCEPT_FAILED").Wrap(err)
			}
			s.deps.Logger.ErrorContext(ctx, "accept failed", "error", err)
			continue
		}
		handler := NewConnectionHandler(conn, s.deps)
		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			handler.Handle(ctx)
		}()
	}
}
