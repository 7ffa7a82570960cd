// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/lanternmush/lantern/internal/world"
)

// DefaultMinPasswordLength is the shortest password Register accepts.
const DefaultMinPasswordLength = 6

// Service registers and authenticates players. It runs on the transport's
// goroutines, never on the game loop.
type Service struct {
	players        world.PlayerRepository
	hasher         PasswordHasher
	throttle       *Throttle
	logger         *slog.Logger
	minPasswordLen int
	dummyHash      string
}

// Option configures a Service.
type Option func(*Service)

// WithThrottle replaces the default login throttle.
func WithThrottle(t *Throttle) Option {
	return func(s *Service) { s.throttle = t }
}

// WithLogger sets the logger used for best-effort failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMinPasswordLength sets the shortest password Register accepts.
func WithMinPasswordLength(n int) Option {
	return func(s *Service) { s.minPasswordLen = n }
}

// NewService creates a Service.
func NewService(players world.PlayerRepository, hasher PasswordHasher, opts ...Option) (*Service, error) {
	if players == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("players repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("password hasher is required")
	}
	s := &Service{
		players:        players,
		hasher:         hasher,
		throttle:       NewThrottle(),
		logger:         slog.Default(),
		minPasswordLen: DefaultMinPasswordLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.throttle == nil || s.logger == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("throttle and logger must not be nil")
	}

	// Unknown usernames are verified against this hash so both paths cost
	// the same.
	dummy, err := hasher.Hash("lantern-unknown-user")
	if err != nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Wrap(err)
	}
	s.dummyHash = dummy
	return s, nil
}

// Register creates a player with a hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*world.Player, error) {
	if err := world.ValidateUsername(username); err != nil {
		return nil, oops.Code(CodeInvalidUsername).With("username", username).Wrap(err)
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if len(password) < s.minPasswordLen {
		return nil, oops.Code(CodeWeakPassword).
			With("min_length", s.minPasswordLen).
			Errorf("password must be at least %d characters", s.minPasswordLen)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code(CodeRegisterFailed).With("operation", "hash password").Wrap(err)
	}
	p, err := world.NewPlayer(username, hash)
	if err != nil {
		return nil, oops.Code(CodeInvalidUsername).With("username", username).Wrap(err)
	}
	if err := s.players.CreatePlayer(ctx, p); err != nil {
		if errors.Is(err, world.ErrUsernameTaken) {
			return nil, oops.Code(CodeUsernameTaken).With("username", username).Wrap(err)
		}
		return nil, oops.Code(CodeRegisterFailed).With("operation", "create player").Wrap(err)
	}
	s.logger.InfoContext(ctx, "player registered", "player_id", p.ID.String(), "username", p.Username)
	return p, nil
}

// Authenticate verifies credentials and returns the stored player. Unknown
// usernames and wrong passwords return the same error, after the same work.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*world.Player, error) {
	if v := s.throttle.Check(username); v.LockedOut {
		return nil, oops.Code(CodeAccountLocked).
			With("username", username).
			With("retry_after", v.Remaining.Round(time.Second).String()).
			Errorf("account is temporarily locked")
	}

	player, lookupErr := s.players.GetPlayerByUsername(ctx, username)
	target := s.dummyHash
	exists := false
	switch {
	case lookupErr == nil:
		target = player.PasswordHash
		exists = true
	case !errors.Is(lookupErr, world.ErrNotFound):
		return nil, oops.Code(CodeLoginFailed).With("operation", "get player by username").Wrap(lookupErr)
	}

	valid, verifyErr := s.hasher.Verify(password, target)
	if verifyErr != nil && exists {
		return nil, oops.Code(CodeLoginFailed).
			With("operation", "verify password").
			With("player_id", player.ID.String()).
			Wrap(verifyErr)
	}
	if !exists || !valid {
		v := s.throttle.RecordFailure(username)
		s.logger.WarnContext(ctx, "login failed",
			"username", username,
			"locked_out", v.LockedOut,
		)
		return nil, oops.Code(CodeInvalidCredentials).
			With("username", username).
			With("delay", v.Delay).
			Errorf("invalid username or password")
	}

	s.throttle.RecordSuccess(username)
	if s.hasher.NeedsUpgrade(player.PasswordHash) {
		s.upgradeHash(ctx, player, password)
	}
	return player, nil
}

// upgradeHash rehashes with current parameters. Failure does not fail the
// login.
func (s *Service) upgradeHash(ctx context.Context, player *world.Player, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.WarnContext(ctx, "password rehash failed", "player_id", player.ID.String(), "error", err)
		return
	}
	player.PasswordHash = hash
	if err := s.players.UpdatePlayer(ctx, player); err != nil {
		s.logger.WarnContext(ctx, "password rehash not stored", "player_id", player.ID.String(), "error", err)
	}
}
