// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lanternmush/lantern/internal/command"
	"github.com/lanternmush/lantern/internal/command/handlers"
	"github.com/lanternmush/lantern/internal/event"
	"github.com/lanternmush/lantern/internal/script"
	"github.com/lanternmush/lantern/internal/store"
	"github.com/lanternmush/lantern/internal/world"
)

var tracer = otel.Tracer("lantern/core")

// Engine defaults.
const (
	DefaultQueueSize     = 1024
	DefaultGracePeriod   = 10 * time.Second
	DefaultFollowUpLimit = 16
	DefaultStartHour     = 8

	shutdownSaveTimeout = 10 * time.Second
)

// Error codes for loop failures.
const (
	CodeLoopItemFailed = "LOOP_ITEM_FAILED"
	CodeEngineStopped  = "ENGINE_STOPPED"
	CodeEngineRunning  = "ENGINE_RUNNING"
)

// ErrEngineStopped is returned to producers once the loop has exited.
var ErrEngineStopped = oops.Code(CodeEngineStopped).Errorf("engine stopped")

// Messages sent by the loop itself rather than by a command handler.
const (
	msgSessionExpired = "Your session has expired. Please log in."
	msgSuperseded     = "You have connected from elsewhere. Closing this connection."
	msgLoginFailed    = "You could not enter the world. Please try again."
)

type envelope struct {
	item Item
	done chan error
}

// Engine is the single writer of the world. Producers submit items; one
// goroutine running Run handles them in arrival order.
type Engine struct {
	world      *world.World
	store      command.Persister
	outbox     *Outbox
	sessions   *SessionManager
	registry   *command.Registry
	parser     *command.Parser
	executor   *command.Executor
	formatters *event.Formatters
	limiter    *command.RateLimiter
	scripts    script.Runner
	scheduler  Scheduler
	now        func() time.Time

	queue         chan envelope
	stopped       chan struct{}
	running       atomic.Bool
	grace         time.Duration
	followUpLimit int
	startRoom     world.RoomID
	hour          int

	// Loop-confined.
	followUps []event.FollowUp
	logouts   []world.PlayerID

	spawnMu     sync.Mutex
	spawnTimers map[uint64]Timer
	spawnSeq    uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithQueueSize sets the capacity of the item queue.
func WithQueueSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.queue = make(chan envelope, n)
		}
	}
}

// WithGracePeriod sets how long a dropped session waits for a reconnect.
func WithGracePeriod(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.grace = d
		}
	}
}

// WithFollowUpLimit bounds the follow-up commands run after one item.
func WithFollowUpLimit(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.followUpLimit = n
		}
	}
}

// WithScheduler replaces the timer source for grace periods and spawns.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.scheduler = s }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRateLimiter sets the per-player command limiter.
func WithRateLimiter(l *command.RateLimiter) Option {
	return func(e *Engine) { e.limiter = l }
}

// WithScripts sets the scripted-verb runner.
func WithScripts(r script.Runner) Option {
	return func(e *Engine) { e.scripts = r }
}

// WithStartRoom sets where players without a valid last room appear.
func WithStartRoom(id world.RoomID) Option {
	return func(e *Engine) { e.startRoom = id }
}

// WithStartHour sets the initial hour of the world clock.
func WithStartHour(h int) Option {
	return func(e *Engine) { e.hour = ((h % 24) + 24) % 24 }
}

// NewEngine creates an engine over w. Writes go to persister and output to
// outbox.
func NewEngine(w *world.World, persister command.Persister, outbox *Outbox, opts ...Option) (*Engine, error) {
	if w == nil {
		return nil, oops.Errorf("world is required")
	}
	if persister == nil {
		return nil, oops.Errorf("persister is required")
	}
	if outbox == nil {
		return nil, oops.Errorf("outbox is required")
	}

	e := &Engine{
		world:         w,
		store:         persister,
		outbox:        outbox,
		queue:         make(chan envelope, DefaultQueueSize),
		stopped:       make(chan struct{}),
		grace:         DefaultGracePeriod,
		followUpLimit: DefaultFollowUpLimit,
		hour:          DefaultStartHour,
		now:           time.Now,
		scheduler:     realScheduler{},
		spawnTimers:   make(map[uint64]Timer),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.limiter == nil {
		e.limiter = command.NewRateLimiter(command.RateLimiterConfig{}, nil)
	}

	if e.startRoom == "" {
		return nil, oops.Errorf("start room is required")
	}
	if _, ok := w.Room(e.startRoom); !ok {
		return nil, oops.With("room_id", e.startRoom.String()).Errorf("start room does not exist")
	}

	registry, err := command.DefaultRegistry()
	if err != nil {
		return nil, oops.Wrapf(err, "build command registry")
	}
	executor := command.NewExecutor()
	if err := handlers.RegisterAll(executor); err != nil {
		return nil, oops.Wrapf(err, "register command handlers")
	}
	formatters := event.DefaultFormatters()
	if err := formatters.Verify(event.AllKinds()); err != nil {
		return nil, err
	}

	e.registry = registry
	e.parser = command.NewParser(registry)
	e.executor = executor
	e.formatters = formatters
	e.sessions = NewSessionManager(e.grace, e.scheduler, e.enqueueExpiry)
	return e, nil
}

var (
	_ command.Sessions = (*Engine)(nil)
	_ command.Spawner  = (*Engine)(nil)
)

// Submit enqueues item without waiting for it to be handled. It blocks only
// while the queue is full.
func (e *Engine) Submit(ctx context.Context, item Item) error {
	return e.enqueue(ctx, envelope{item: item})
}

// SubmitWait enqueues item and waits until the loop has handled it. The
// returned error is the item's outcome.
func (e *Engine) SubmitWait(ctx context.Context, item Item) error {
	done := make(chan error, 1)
	if err := e.enqueue(ctx, envelope{item: item, done: done}); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-e.stopped:
		select {
		case err := <-done:
			return err
		default:
			return ErrEngineStopped
		}
	}
}

// Query runs fn on the loop and waits for it to return.
func (e *Engine) Query(ctx context.Context, fn func(w *world.World)) error {
	return e.SubmitWait(ctx, Query{Fn: fn})
}

func (e *Engine) enqueue(ctx context.Context, env envelope) error {
	select {
	case <-e.stopped:
		return ErrEngineStopped
	default:
	}
	select {
	case e.queue <- env:
		loopQueueDepth.Set(float64(len(e.queue)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.stopped:
		return ErrEngineStopped
	}
}

// Run handles queued items until ctx is cancelled. On the way out it cancels
// pending timers, saves every live player and closes their connections.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return oops.Code(CodeEngineRunning).Errorf("engine is already running")
	}
	slog.InfoContext(ctx, "game loop started", "rooms", e.world.RoomCount())
	defer e.shutdown(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case env := <-e.queue:
			loopQueueDepth.Set(float64(len(e.queue)))
			e.process(ctx, env)
		}
	}
}

func (e *Engine) shutdown(ctx context.Context) {
	close(e.stopped)
	e.sessions.StopAll()

	e.spawnMu.Lock()
	for id, t := range e.spawnTimers {
		t.Stop()
		delete(e.spawnTimers, id)
	}
	e.spawnMu.Unlock()

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownSaveTimeout)
	defer cancel()
	for _, p := range e.world.Players() {
		if err := e.store.SavePlayer(saveCtx, p, store.Immediate); err != nil {
			slog.WarnContext(saveCtx, "failed to save player on shutdown",
				"player_id", p.ID.String(),
				"error", err,
			)
		}
		for _, o := range e.world.InventoryObjects(p.ID) {
			if err := e.store.SaveObject(saveCtx, o, store.Deferred); err != nil {
				slog.WarnContext(saveCtx, "failed to save inventory on shutdown",
					"object_id", o.ID.String(),
					"error", err,
				)
			}
		}
	}
	for _, s := range e.sessions.Sessions() {
		e.outbox.Close(s.ConnID)
	}
	slog.InfoContext(saveCtx, "game loop stopped", "players_saved", len(e.world.Players()))
}

func (e *Engine) process(ctx context.Context, env envelope) {
	kind := env.item.itemKind()
	start := time.Now()
	ctx, span := tracer.Start(ctx, "loop."+kind, trace.WithAttributes(attribute.String("loop.item", kind)))

	err := e.guard(ctx, kind, e.failureTarget(env.item), func() error {
		return e.handle(ctx, env.item)
	})
	e.drainFollowUps(ctx)

	status := ItemStatusOK
	if err != nil && !errors.Is(err, ErrSessionExpired) {
		status = ItemStatusFailed
		err = oops.Code(CodeLoopItemFailed).With("item", kind).Wrap(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "loop item failed", "item", kind, "error", err)
	}
	recordItem(kind, status, time.Since(start))
	span.End()

	if env.done != nil {
		env.done <- err
	}
}

// guard runs fn, turning a panic into an error and telling the affected
// player that their command failed.
func (e *Engine) guard(ctx context.Context, what string, notify func(), fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			loopPanics.Inc()
			err = oops.Code(command.CodeHandlerPanic).
				With("item", what).
				With("panic", fmt.Sprint(r)).
				With("stack", string(debug.Stack())).
				Errorf("panic while handling %s", what)
			slog.ErrorContext(ctx, "recovered panic in game loop", "item", what, "panic", r)
			// Logouts requested before the panic are abandoned with the command.
			e.logouts = nil
			if notify != nil {
				notify()
			}
		}
	}()
	return fn()
}

// failureTarget returns how to tell the source of item that it failed.
func (e *Engine) failureTarget(item Item) func() {
	var conn ulid.ULID
	switch it := item.(type) {
	case Input:
		conn = it.ConnID
	case Login:
		conn = it.ConnID
	case Resume:
		conn = it.ConnID
	default:
		return nil
	}
	return func() { e.sendConn(conn, event.CommandFailed{}) }
}

func (e *Engine) handle(ctx context.Context, item Item) error {
	switch it := item.(type) {
	case Input:
		return e.handleInput(ctx, it)
	case Login:
		return e.handleLogin(ctx, it)
	case Resume:
		return e.handleResume(ctx, it)
	case Disconnect:
		return e.handleDisconnect(ctx, it)
	case SessionExpired:
		return e.handleExpired(ctx, it)
	case Tick:
		return e.handleTick(ctx, it)
	case Spawn:
		return e.handleSpawn(ctx, it)
	case Query:
		if it.Fn != nil {
			it.Fn(e.world)
		}
		return nil
	default:
		return oops.With("item", fmt.Sprintf("%T", item)).Errorf("unknown loop item")
	}
}

func (e *Engine) handleInput(ctx context.Context, it Input) error {
	s, ok := e.sessions.ByConn(it.ConnID)
	if !ok {
		return oops.With("conn_id", it.ConnID.String()).Errorf("input from a connection with no session")
	}
	player, ok := e.world.Player(s.PlayerID)
	if !ok {
		return oops.With("player_id", s.PlayerID.String()).Errorf("session player is not in the world")
	}

	now := e.now()
	if allowed, retry := e.limiter.Allow(player.ID, now); !allowed {
		command.RecordCommandExecution("input", "core", command.StatusRateLimited)
		e.deliverEvent(player.ID, event.RateLimited{RetryAfter: retry})
		return nil
	}
	player.LastActionAt = now
	return e.runCommand(ctx, player, it.Text)
}

// runCommand parses and executes one line for player and delivers the
// result. Follow-ups are queued, not run.
func (e *Engine) runCommand(ctx context.Context, player *world.Player, input string) error {
	parsed := e.parser.Parse(e.world, player, input)
	command.RecordParse(parsed.Status)
	if parsed.Status != command.ParseSuccess {
		e.deliverEvent(player.ID, parsed.Failure)
		return nil
	}

	env := &command.Env{
		World:    e.world,
		Actor:    player,
		Store:    e.store,
		Scripts:  e.scripts,
		Sessions: e,
		Spawner:  e,
		Registry: e.registry,
		Now:      e.now,
	}
	res, err := e.executor.Execute(ctx, parsed.Command, env)
	if err != nil {
		e.logouts = nil
		if command.IsPlayerFacing(err) {
			e.deliverEvent(player.ID, event.System{Text: command.PlayerMessage(err)})
			return nil
		}
		e.deliverEvent(player.ID, event.CommandFailed{})
		return err
	}

	e.dispatch(res)
	e.followUps = append(e.followUps, res.FollowUps()...)
	return e.applyLogouts(ctx)
}

func (e *Engine) drainFollowUps(ctx context.Context) {
	ran := 0
	for len(e.followUps) > 0 {
		if ran >= e.followUpLimit {
			slog.WarnContext(ctx, "follow-up limit reached, dropping remaining commands",
				"limit", e.followUpLimit,
				"dropped", len(e.followUps),
			)
			e.followUps = nil
			return
		}
		f := e.followUps[0]
		e.followUps = e.followUps[1:]
		ran++

		player, ok := e.world.Player(f.Actor)
		if !ok {
			continue
		}
		notify := func() { e.deliverEvent(player.ID, event.CommandFailed{}) }
		if err := e.guard(ctx, "follow_up", notify, func() error {
			return e.runCommand(ctx, player, f.Input)
		}); err != nil {
			slog.ErrorContext(ctx, "follow-up command failed",
				"player_id", player.ID.String(),
				"input", f.Input,
				"error", err,
			)
		}
	}
}

// Logout implements command.Sessions. The session ends after the current
// result has been delivered.
func (e *Engine) Logout(player world.PlayerID) {
	e.logouts = append(e.logouts, player)
}

func (e *Engine) applyLogouts(ctx context.Context) error {
	pending := e.logouts
	e.logouts = nil

	var errs []error
	for _, id := range pending {
		s, ok := e.sessions.ByPlayer(id)
		if !ok {
			continue
		}
		conn := s.ConnID
		e.sessions.End(s)
		if err := e.removePlayer(ctx, id, nil); err != nil {
			errs = append(errs, err)
		}
		e.outbox.Close(conn)
	}
	return errors.Join(errs...)
}

func (e *Engine) handleLogin(ctx context.Context, it Login) error {
	if it.Player == nil {
		return oops.Errorf("login without a player")
	}
	if s, ok := e.sessions.ByPlayer(it.Player.ID); ok {
		e.rebind(s, it.ConnID)
		return nil
	}

	roomID := it.Player.LastRoomID
	if _, ok := e.world.Room(roomID); !ok {
		roomID = e.startRoom
	}
	if err := e.world.AddPlayer(it.Player, roomID, it.Inventory); err != nil {
		e.sendConn(it.ConnID, event.System{Text: msgLoginFailed})
		return oops.With("player_id", it.Player.ID.String()).Wrapf(err, "place player")
	}
	s, err := e.sessions.Open(it.Player.ID, it.ConnID)
	if err != nil {
		if _, _, rmErr := e.world.RemovePlayer(it.Player.ID); rmErr != nil {
			slog.ErrorContext(ctx, "failed to undo player placement", "error", rmErr)
		}
		e.sendConn(it.ConnID, event.System{Text: msgLoginFailed})
		return err
	}

	p := it.Player
	p.ConnectionID = it.ConnID
	p.LastActionAt = e.now()
	slog.InfoContext(ctx, "player entered the world",
		"player_id", p.ID.String(),
		"username", p.Username,
		"registered", it.Registered,
	)

	room, _ := e.world.PlayerRoom(p.ID)
	arrived := event.PlayerConnected{Name: p.Username}
	res := event.Reply(p.ID, arrived).
		Add(p.ID, event.SessionIssued{Token: s.Token}).
		Add(p.ID, event.DescribeRoom(e.world, room, p.ID)).
		Broadcast(room.Occupants(), arrived, event.Observer, p.ID)
	e.dispatch(res)

	if err := e.store.SavePlayer(ctx, p, store.Deferred); err != nil {
		slog.WarnContext(ctx, "failed to save player on login", "player_id", p.ID.String(), "error", err)
	}
	return nil
}

func (e *Engine) handleResume(_ context.Context, it Resume) error {
	s, ok := e.sessions.ByToken(it.Token)
	if !ok {
		e.sendConn(it.ConnID, event.System{Text: msgSessionExpired})
		return ErrSessionExpired
	}
	if _, live := e.world.Player(s.PlayerID); !live {
		e.sendConn(it.ConnID, event.System{Text: msgSessionExpired})
		return ErrSessionExpired
	}
	e.rebind(s, it.ConnID)
	return nil
}

// rebind moves a live session onto conn. A different previous connection is
// told it was superseded and closed.
func (e *Engine) rebind(s *Session, conn ulid.ULID) {
	previous, pending := e.sessions.Rebind(s, conn)
	if previous != (ulid.ULID{}) {
		e.sendConn(previous, event.System{Text: msgSuperseded})
		e.outbox.Close(previous)
	}

	player, _ := e.world.Player(s.PlayerID)
	player.ConnectionID = conn
	for _, line := range pending {
		e.outbox.Send(conn, line)
	}

	room, _ := e.world.PlayerRoom(player.ID)
	resumed := event.PlayerResumed{Name: player.Username}
	res := event.Reply(player.ID, resumed).
		Add(player.ID, event.SessionIssued{Token: s.Token}).
		Add(player.ID, event.DescribeRoom(e.world, room, player.ID)).
		Broadcast(room.Occupants(), resumed, event.Observer, player.ID)
	e.dispatch(res)
}

func (e *Engine) handleDisconnect(_ context.Context, it Disconnect) error {
	defer e.outbox.Close(it.ConnID)

	s, ok := e.sessions.Disconnect(it.ConnID)
	if !ok {
		return nil
	}
	player, ok := e.world.Player(s.PlayerID)
	if !ok {
		return nil
	}
	if room, ok := e.world.PlayerRoom(player.ID); ok {
		e.dispatch(event.NewResult().Broadcast(room.Occupants(),
			event.PlayerLinkless{Name: player.Username}, event.Observer, player.ID))
	}
	return nil
}

// enqueueExpiry runs on a timer goroutine.
func (e *Engine) enqueueExpiry(token string, generation uint64) {
	err := e.Submit(context.Background(), SessionExpired{Token: token, Generation: generation})
	if err != nil && !errors.Is(err, ErrEngineStopped) {
		slog.Warn("failed to enqueue session expiry", "error", err)
	}
}

func (e *Engine) handleExpired(ctx context.Context, it SessionExpired) error {
	s, ok := e.sessions.Expire(it.Token, it.Generation)
	if !ok {
		return nil
	}
	slog.InfoContext(ctx, "session expired", "player_id", s.PlayerID.String())
	return e.removePlayer(ctx, s.PlayerID, func(name string) event.Event {
		return event.PlayerFaded{Name: name}
	})
}

// removePlayer saves a player, takes them and their inventory out of the
// world and tells the room they left. announce may be nil when the room was
// already told.
func (e *Engine) removePlayer(ctx context.Context, id world.PlayerID, announce func(name string) event.Event) error {
	player, ok := e.world.Player(id)
	if !ok {
		return nil
	}
	room, inRoom := e.world.PlayerRoom(id)

	saveErr := e.store.SavePlayer(ctx, player, store.Immediate)
	if saveErr != nil {
		saveErr = oops.With("player_id", id.String()).Wrapf(saveErr, "save departing player")
	}

	_, inventory, err := e.world.RemovePlayer(id)
	if err != nil {
		return errors.Join(saveErr, err)
	}
	for _, o := range inventory {
		if err := e.store.SaveObject(ctx, o, store.Deferred); err != nil {
			slog.WarnContext(ctx, "failed to save inventory object",
				"object_id", o.ID.String(),
				"error", err,
			)
		}
	}
	e.limiter.Forget(id)

	if announce != nil && inRoom {
		e.dispatch(event.NewResult().Broadcast(room.Occupants(), announce(player.Username), event.Observer))
	}
	return saveErr
}

func (e *Engine) handleTick(ctx context.Context, it Tick) error {
	e.limiter.Sweep(it.At)

	before := PhaseOf(e.hour)
	e.hour = (e.hour + 1) % 24
	after := PhaseOf(e.hour)
	if before == after {
		return nil
	}

	slog.DebugContext(ctx, "phase of day changed", "phase", after, "hour", e.hour)
	players := e.world.Players()
	ids := make([]world.PlayerID, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	e.dispatch(event.NewResult().Broadcast(ids, event.ClockChanged{Phase: after}, event.Observer))
	return nil
}

// Hour returns the hour of the world clock. It must be called on the loop,
// for example from a Query.
func (e *Engine) Hour() int {
	return e.hour
}

// SpawnLater implements command.Spawner.
func (e *Engine) SpawnLater(delay time.Duration, room world.RoomID, obj *world.Object) {
	e.spawnMu.Lock()
	e.spawnSeq++
	id := e.spawnSeq
	e.spawnMu.Unlock()

	timer := e.scheduler.AfterFunc(delay, func() {
		e.spawnMu.Lock()
		delete(e.spawnTimers, id)
		e.spawnMu.Unlock()

		if err := e.Submit(context.Background(), Spawn{RoomID: room, Object: obj}); err != nil &&
			!errors.Is(err, ErrEngineStopped) {
			slog.Warn("failed to enqueue spawn", "room_id", room.String(), "error", err)
		}
	})

	e.spawnMu.Lock()
	e.spawnTimers[id] = timer
	e.spawnMu.Unlock()
}

func (e *Engine) handleSpawn(ctx context.Context, it Spawn) error {
	if it.Object == nil {
		return nil
	}
	if _, ok := e.world.Room(it.RoomID); !ok {
		slog.WarnContext(ctx, "spawn room no longer exists", "room_id", it.RoomID.String())
		return nil
	}
	roomID := it.RoomID
	obj := it.Object
	obj.OwnerID = nil
	obj.LocationID = &roomID
	if err := e.world.AddObject(obj); err != nil {
		return oops.With("object_id", obj.ID.String()).Wrapf(err, "place spawned object")
	}
	if err := e.store.SaveObject(ctx, obj, store.Deferred); err != nil {
		slog.WarnContext(ctx, "failed to save spawned object", "object_id", obj.ID.String(), "error", err)
	}

	occupants := e.world.OccupantsOf(roomID)
	ids := make([]world.PlayerID, 0, len(occupants))
	for _, p := range occupants {
		ids = append(ids, p.ID)
	}
	e.dispatch(event.NewResult().Broadcast(ids, event.ObjectSpawned{Item: obj.Name}, event.Observer))
	return nil
}

// dispatch renders each message for its recipient and delivers it.
func (e *Engine) dispatch(res *event.Result) {
	for _, m := range res.Messages() {
		line, ok := e.formatters.Render(m.Event, m.Audience)
		if !ok {
			continue
		}
		e.deliver(m.Recipient, line)
	}
}

func (e *Engine) deliverEvent(player world.PlayerID, ev event.Event) {
	e.dispatch(event.Reply(player, ev))
}

// deliver sends line to the player's connection, or keeps it for them while
// their session waits for a reconnect.
func (e *Engine) deliver(player world.PlayerID, line string) {
	s, ok := e.sessions.ByPlayer(player)
	if !ok {
		return
	}
	if s.State == StateDisconnecting {
		e.sessions.Buffer(s, line)
		return
	}
	e.outbox.Send(s.ConnID, line)
}

// sendConn renders ev for a connection that may have no session yet.
func (e *Engine) sendConn(conn ulid.ULID, ev event.Event) {
	line, ok := e.formatters.Render(ev, event.Actor)
	if !ok {
		return
	}
	e.outbox.Send(conn, line)
}

// Sessions exposes the session table for loop-side callers such as Query.
func (e *Engine) Sessions() *SessionManager {
	return e.sessions
}
