// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/lanternmush/lantern/internal/auth"
	"github.com/lanternmush/lantern/internal/command"
	"github.com/lanternmush/lantern/internal/config"
	"github.com/lanternmush/lantern/internal/core"
	"github.com/lanternmush/lantern/internal/logging"
	"github.com/lanternmush/lantern/internal/observability"
	"github.com/lanternmush/lantern/internal/script/lua"
	"github.com/lanternmush/lantern/internal/seed"
	"github.com/lanternmush/lantern/internal/store"
	"github.com/lanternmush/lantern/internal/telnet"
	"github.com/lanternmush/lantern/internal/world"
	"github.com/lanternmush/lantern/pkg/errutil"
)

var _ command.Persister = (*store.Writer)(nil)

const (
	shutdownTimeout = 10 * time.Second
	// throttlePruneInterval is how often idle login-failure records are
	// dropped; records untouched for throttleIdle go.
	throttlePruneInterval = 5 * time.Minute
	throttleIdle          = time.Hour
)

// ServeDeps holds injectable dependencies for the serve command. Nil fields
// use their default implementations.
type ServeDeps struct {
	// Hasher hashes account passwords.
	// Default: auth.NewArgon2idHasher
	Hasher auth.PasswordHasher

	// Logger is passed to the transport and the auth service.
	// Default: slog.Default
	Logger *slog.Logger
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		Long: `Run the game loop, the telnet listener and the metrics endpoint.
An empty store is seeded from the world definition before the loop starts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg.Log)
			return runServe(cmd.Context(), cfg, nil)
		},
	}
}

// setupLogging installs the process logger. cfg has been validated, so the
// level always parses.
func setupLogging(cfg config.LogConfig) *slog.Logger {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.SetDefault("lantern", version, cfg.Format, level)
}

// runServe assembles the server from cfg and runs it until ctx ends.
func runServe(ctx context.Context, cfg *config.Config, deps *ServeDeps) error {
	srv, err := newServer(ctx, cfg, deps)
	if err != nil {
		errutil.LogErrorContext(ctx, slog.Default(), "server setup failed", err)
		return err
	}
	return srv.run(ctx)
}

// server is every long-running part of the process, wired together.
type server struct {
	cfg      *config.Config
	logger   *slog.Logger
	backend  *backend
	writer   *store.Writer
	engine   *core.Engine
	telnet   *telnet.Server
	throttle *auth.Throttle
	obs      *observability.Server
	ready    observability.Readiness
}

func newServer(ctx context.Context, cfg *config.Config, deps *ServeDeps) (*server, error) {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.Hasher == nil {
		deps.Hasher = auth.NewArgon2idHasher()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	be, err := openBackend(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	srv, err := assemble(ctx, cfg, deps, be)
	if err != nil {
		be.close()
		return nil, err
	}
	return srv, nil
}

func assemble(ctx context.Context, cfg *config.Config, deps *ServeDeps, be *backend) (*server, error) {
	def, err := loadDefinition(cfg.World)
	if err != nil {
		return nil, err
	}
	boot, err := seed.Bootstrap(ctx, be.repo, def)
	if err != nil {
		return nil, err
	}

	srv := &server{cfg: cfg, logger: deps.Logger, backend: be}
	srv.obs = observability.NewServer(cfg.Server.MetricsAddr, version, srv.ready.Check)
	reg := srv.obs.Registry()
	core.RegisterMetrics(reg)
	store.RegisterMetrics(reg)
	command.RegisterMetrics(reg)
	lua.RegisterMetrics(reg)
	telnet.RegisterMetrics(reg)

	srv.writer = store.NewWriter(be.repo, store.WriterConfig{
		QueueSize:    cfg.Store.QueueSize,
		MaxRetries:   uint64(cfg.Store.MaxRetries), //nolint:gosec // validated non-negative
		RetryBackoff: cfg.Store.RetryBackoff,
	})

	limiter := command.NewRateLimiter(command.RateLimiterConfig{
		BurstCapacity: cfg.RateLimit.Burst,
		SustainedRate: cfg.RateLimit.Rate,
		IdleMaxAge:    cfg.RateLimit.IdleMaxAge,
	}, reg)

	outbox := core.NewOutbox(cfg.Server.OutboxBuffer)
	srv.engine, err = core.NewEngine(boot.World, srv.writer, outbox,
		core.WithQueueSize(cfg.Engine.QueueSize),
		core.WithGracePeriod(cfg.Engine.GracePeriod),
		core.WithFollowUpLimit(cfg.Engine.FollowUpLimit),
		core.WithStartHour(cfg.Engine.StartHour),
		core.WithStartRoom(boot.StartRoom),
		core.WithRateLimiter(limiter),
		core.WithScripts(lua.New(lua.WithTimeout(cfg.Engine.ScriptTimeout))),
	)
	if err != nil {
		return nil, err
	}

	srv.throttle = auth.NewThrottle()
	authSvc, err := auth.NewService(be.repo, deps.Hasher,
		auth.WithThrottle(srv.throttle),
		auth.WithLogger(deps.Logger),
	)
	if err != nil {
		return nil, err
	}

	srv.telnet, err = telnet.NewServer(cfg.Server.TelnetAddr, telnet.Deps{
		Engine:    srv.engine,
		Outbox:    outbox,
		Auth:      authSvc,
		Inventory: flushedInventory{writer: srv.writer, repo: be.repo},
		Logger:    deps.Logger,
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "server assembled",
		"backend", be.name,
		"start_room", boot.StartRoom.String(),
		"seeded", boot.Seeded,
		"telnet_addr", cfg.Server.TelnetAddr,
	)
	return srv, nil
}

// run starts every component and blocks until ctx ends or one of them
// fails, then shuts down in dependency order: transport and loop first,
// then the persistence writer, then the store.
func (s *server) run(ctx context.Context) error {
	defer s.backend.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.writer.Start()

	if s.cfg.Server.MetricsAddr != "" {
		obsErrCh, err := s.obs.Start()
		if err != nil {
			s.closeWriter(ctx)
			return err
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
	}

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	start := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Any component stopping takes the rest down with it.
			defer cancel()
			if err := fn(ctx); err != nil {
				errutil.LogErrorContext(ctx, s.logger, name+" stopped with error", err)
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
			}
		}()
	}

	start("engine", s.engine.Run)
	start("telnet", s.telnet.Run)
	start("clock", func(ctx context.Context) error {
		s.engine.RunClock(ctx, s.cfg.Engine.TickInterval)
		return nil
	})
	start("throttle", func(ctx context.Context) error {
		s.pruneThrottle(ctx)
		return nil
	})

	s.ready.Set(true)
	slog.InfoContext(ctx, "lantern ready", "version", version)

	<-ctx.Done()
	s.ready.Set(false)
	slog.InfoContext(ctx, "shutting down")
	wg.Wait()

	s.closeWriter(ctx)

	stopCtx, stopCancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer stopCancel()
	if err := s.obs.Stop(stopCtx); err != nil {
		slog.WarnContext(stopCtx, "error stopping observability server", "error", err)
	}

	slog.InfoContext(stopCtx, "shutdown complete")
	return firstErr
}

func (s *server) closeWriter(ctx context.Context) {
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := s.writer.Close(closeCtx); err != nil {
		slog.WarnContext(closeCtx, "persistence writer did not drain", "pending", s.writer.Pending(), "error", err)
	}
}

func (s *server) pruneThrottle(ctx context.Context) {
	ticker := time.NewTicker(throttlePruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.throttle.Prune(throttleIdle); n > 0 {
				slog.DebugContext(ctx, "pruned login throttle", "records", n)
			}
		}
	}
}

// monitorServerErrors cancels ctx when a background server reports an error.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.ErrorContext(ctx, "server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}

// flushedInventory reads inventories only after queued writes have landed,
// so a player who quits and logs straight back in sees what they carried.
type flushedInventory struct {
	writer *store.Writer
	repo   world.ObjectRepository
}

func (f flushedInventory) ListInventory(ctx context.Context, owner world.PlayerID) ([]*world.Object, error) {
	if err := f.writer.Flush(ctx); err != nil {
		return nil, err
	}
	return f.repo.ListInventory(ctx, owner)
}
