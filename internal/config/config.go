// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

// Package config loads server configuration. Values come from built-in
// defaults, then an optional YAML file, then command-line flags the user set.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/lanternmush/lantern/internal/logging"
	"github.com/lanternmush/lantern/internal/xdg"
)

// Storage backends.
const (
	BackendPostgres = "postgres"
	BackendBolt     = "bolt"
	BackendMemory   = "memory"
)

// CodeInvalid tags configuration validation failures.
const CodeInvalid = "CONFIG_INVALID"

// Config is the full server configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Store     StoreConfig     `koanf:"store"`
	Engine    EngineConfig    `koanf:"engine"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	World     WorldConfig     `koanf:"world"`
}

// ServerConfig holds listen addresses.
type ServerConfig struct {
	TelnetAddr   string `koanf:"telnet_addr"`
	MetricsAddr  string `koanf:"metrics_addr"`
	OutboxBuffer int    `koanf:"outbox_buffer"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// StoreConfig selects and tunes the persistence backend.
type StoreConfig struct {
	Backend        string        `koanf:"backend"`
	URL            string        `koanf:"url"`
	BoltPath       string        `koanf:"bolt_path"`
	MaxConns       int32         `koanf:"max_conns"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	AutoMigrate    bool          `koanf:"auto_migrate"`
	QueueSize      int           `koanf:"queue_size"`
	MaxRetries     int           `koanf:"max_retries"`
	RetryBackoff   time.Duration `koanf:"retry_backoff"`
}

// EngineConfig tunes the game loop.
type EngineConfig struct {
	QueueSize     int           `koanf:"queue_size"`
	GracePeriod   time.Duration `koanf:"grace_period"`
	FollowUpLimit int           `koanf:"follow_up_limit"`
	TickInterval  time.Duration `koanf:"tick_interval"`
	StartHour     int           `koanf:"start_hour"`
	ScriptTimeout time.Duration `koanf:"script_timeout"`
}

// RateLimitConfig tunes the per-player command limiter.
type RateLimitConfig struct {
	Burst      int           `koanf:"burst"`
	Rate       float64       `koanf:"rate"`
	IdleMaxAge time.Duration `koanf:"idle_max_age"`
}

// WorldConfig chooses the world definition used to seed an empty store.
type WorldConfig struct {
	// SeedFile is a YAML world definition; empty means the built-in world.
	SeedFile string `koanf:"seed_file"`
	// StartRoom overrides the definition's start room.
	StartRoom string `koanf:"start_room"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			TelnetAddr:   ":4201",
			MetricsAddr:  "127.0.0.1:9100",
			OutboxBuffer: 100,
		},
		Log: LogConfig{Level: "info", Format: logging.FormatJSON},
		Store: StoreConfig{
			Backend:        BackendBolt,
			MaxConns:       10,
			ConnectTimeout: 30 * time.Second,
			AutoMigrate:    true,
			QueueSize:      1024,
			MaxRetries:     3,
			RetryBackoff:   100 * time.Millisecond,
		},
		Engine: EngineConfig{
			QueueSize:     1024,
			GracePeriod:   10 * time.Second,
			FollowUpLimit: 16,
			TickInterval:  time.Minute,
			StartHour:     8,
			ScriptTimeout: 250 * time.Millisecond,
		},
		RateLimit: RateLimitConfig{
			Burst:      10,
			Rate:       2.0,
			IdleMaxAge: time.Hour,
		},
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"telnet-addr":     "server.telnet_addr",
	"metrics-addr":    "server.metrics_addr",
	"log-level":       "log.level",
	"log-format":      "log.format",
	"store":           "store.backend",
	"database-url":    "store.url",
	"bolt-path":       "store.bolt_path",
	"auto-migrate":    "store.auto_migrate",
	"grace-period":    "engine.grace_period",
	"tick-interval":   "engine.tick_interval",
	"start-hour":      "engine.start_hour",
	"script-timeout":  "engine.script_timeout",
	"rate-burst":      "ratelimit.burst",
	"rate-per-second": "ratelimit.rate",
	"seed-file":       "world.seed_file",
	"start-room":      "world.start_room",
}

// RegisterFlags adds the configuration flags to fs with Default values.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("telnet-addr", d.Server.TelnetAddr, "telnet listen address")
	fs.String("metrics-addr", d.Server.MetricsAddr, "metrics and health listen address (empty disables)")
	fs.String("log-level", d.Log.Level, "log level (debug, info, warn, error)")
	fs.String("log-format", d.Log.Format, "log format (json, text)")
	fs.String("store", d.Store.Backend, "storage backend (postgres, bolt, memory)")
	fs.String("database-url", d.Store.URL, "PostgreSQL connection URL")
	fs.String("bolt-path", d.Store.BoltPath, "bolt database file (default $XDG_DATA_HOME/lantern/world.db)")
	fs.Bool("auto-migrate", d.Store.AutoMigrate, "apply pending migrations on startup (postgres)")
	fs.Duration("grace-period", d.Engine.GracePeriod, "how long a dropped session waits for a reconnect")
	fs.Duration("tick-interval", d.Engine.TickInterval, "real time per in-world hour")
	fs.Int("start-hour", d.Engine.StartHour, "in-world hour at startup")
	fs.Duration("script-timeout", d.Engine.ScriptTimeout, "wall-clock limit for one verb script")
	fs.Int("rate-burst", d.RateLimit.Burst, "commands a player may issue in a burst")
	fs.Float64("rate-per-second", d.RateLimit.Rate, "sustained commands per second per player")
	fs.String("seed-file", d.World.SeedFile, "world definition used to seed an empty store (default built-in)")
	fs.String("start-room", d.World.StartRoom, "room new players start in (default from the world definition)")
}

// Load builds a Config. path names a YAML file; when empty the default
// config file is read if it exists. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		if p, err := xdg.ConfigFile(); err == nil && Exists(p) {
			path = p
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").Wrap(err)
	}

	if cfg.Store.Backend == BackendBolt && cfg.Store.BoltPath == "" {
		dir, err := xdg.DataDir()
		if err != nil {
			return nil, err
		}
		cfg.Store.BoltPath = filepath.Join(dir, "world.db")
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string
	add := func(p string) { problems = append(problems, p) }

	if c.Server.TelnetAddr == "" {
		add("server.telnet_addr is required")
	}
	if c.Server.OutboxBuffer <= 0 {
		add("server.outbox_buffer must be positive")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level must be debug, info, warn or error")
	}
	if c.Log.Format != logging.FormatJSON && c.Log.Format != logging.FormatText {
		add("log.format must be json or text")
	}

	switch c.Store.Backend {
	case BackendPostgres:
		if c.Store.URL == "" {
			add("store.url is required for the postgres backend")
		}
	case BackendBolt:
		if c.Store.BoltPath == "" {
			add("store.bolt_path is required for the bolt backend")
		}
	case BackendMemory:
	default:
		add("store.backend must be postgres, bolt or memory")
	}
	if c.Store.QueueSize <= 0 {
		add("store.queue_size must be positive")
	}
	if c.Store.MaxRetries < 0 {
		add("store.max_retries must not be negative")
	}

	if c.Engine.QueueSize <= 0 {
		add("engine.queue_size must be positive")
	}
	if c.Engine.GracePeriod <= 0 {
		add("engine.grace_period must be positive")
	}
	if c.Engine.TickInterval <= 0 {
		add("engine.tick_interval must be positive")
	}
	if c.Engine.StartHour < 0 || c.Engine.StartHour > 23 {
		add("engine.start_hour must be between 0 and 23")
	}
	if c.Engine.ScriptTimeout <= 0 {
		add("engine.script_timeout must be positive")
	}
	if c.Engine.FollowUpLimit < 0 {
		add("engine.follow_up_limit must not be negative")
	}

	if c.RateLimit.Burst <= 0 {
		add("ratelimit.burst must be positive")
	}
	if c.RateLimit.Rate <= 0 {
		add("ratelimit.rate must be positive")
	}

	if len(problems) > 0 {
		return oops.Code(CodeInvalid).
			With("problems", problems).
			Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Exists reports whether path names a readable file.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
