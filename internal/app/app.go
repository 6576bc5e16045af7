// Package app wires configuration, storage and domain services into a
// running Chunking instance.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/chunking/internal/assistant"
	"github.com/rpggio/chunking/internal/config"
	"github.com/rpggio/chunking/internal/domain/activity"
	"github.com/rpggio/chunking/internal/domain/chat"
	"github.com/rpggio/chunking/internal/domain/session"
	"github.com/rpggio/chunking/internal/domain/timer"
	"github.com/rpggio/chunking/internal/mcp"
	"github.com/rpggio/chunking/internal/sqlite"
	"github.com/rpggio/chunking/internal/transport"
)

// Version is reported to MCP clients.
var Version = "dev"

// App holds the wired components. Gateway and Relay are nil when the
// configuration cannot reach an assistant.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	DB       *sqlite.DB
	Slots    *sqlite.SlotRepository
	Activity *activity.Service
	Session  *session.Service
	Gateway  chat.Gateway
	Relay    transport.Completer
	MCP      *sdkmcp.Server
}

type options struct {
	gateway      chat.Gateway
	relay        transport.Completer
	sound        timer.Sound
	timerOptions []timer.Option
}

// Option overrides a wired component.
type Option func(*options)

// WithGateway replaces the assistant gateway built from config.
func WithGateway(gw chat.Gateway) Option {
	return func(o *options) { o.gateway = gw }
}

// WithRelay replaces the upstream client the relay forwards to.
func WithRelay(c transport.Completer) Option {
	return func(o *options) { o.relay = c }
}

// WithSound replaces the timer completion sound.
func WithSound(s timer.Sound) Option {
	return func(o *options) { o.sound = s }
}

// WithTimerOptions appends timer options, such as a test clock.
func WithTimerOptions(opts ...timer.Option) Option {
	return func(o *options) { o.timerOptions = append(o.timerOptions, opts...) }
}

// New opens the database, runs migrations and builds every service.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	db, err := OpenDB(cfg.DB.Path)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Slots:  sqlite.NewSlotRepository(db),
	}
	a.Activity = activity.NewService(sqlite.NewActivityRepository(db), logger)

	a.Gateway = o.gateway
	if a.Gateway == nil {
		a.Gateway, err = NewGateway(cfg, logger)
		if err != nil {
			logger.Warn("assistant disabled", "error", err)
			a.Gateway = nil
		}
	}

	a.Relay = o.relay
	if a.Relay == nil && cfg.OpenAI.APIKey != "" {
		a.Relay = NewRelayUpstream(cfg, logger)
	}

	sound := o.sound
	if sound == nil {
		sound = NewSound(cfg)
	}

	a.Session = session.NewService(ctx, session.Deps{
		Slots:        a.Slots,
		Gateway:      a.Gateway,
		Activity:     a.Activity,
		TimerOptions: append([]timer.Option{timer.WithSound(sound)}, o.timerOptions...),
	}, logger)

	a.MCP = mcp.NewServer(mcp.Config{
		Services: mcp.Services{Session: a.Session, Activity: a.Activity},
		Version:  Version,
		Logger:   logger,
	})

	return a, nil
}

// HTTPHandler serves the relay, MCP over streamable HTTP and /health.
func (a *App) HTTPHandler() http.Handler {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return a.MCP },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
	)
	return transport.NewServer(transport.Options{
		Relay:  a.Relay,
		MCP:    mcpHandler,
		Logger: a.Logger,
	})
}

// Close stops the session and closes the database.
func (a *App) Close() error {
	if a.Session != nil {
		a.Session.Close()
	}
	return a.DB.Close()
}

// OpenDB opens the SQLite profile at path, creating its directory, and
// applies migrations.
func OpenDB(path string) (*sqlite.DB, error) {
	if err := ensureDBDir(path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// NewGateway builds the assistant gateway selected by config.
func NewGateway(cfg config.Config, logger *slog.Logger) (chat.Gateway, error) {
	opts := assistant.Options{
		Transport:    assistant.Transport(cfg.Assistant.Transport),
		APIKey:       cfg.OpenAI.APIKey,
		BaseURL:      cfg.OpenAI.BaseURL,
		Model:        cfg.Assistant.Model,
		RelayURL:     cfg.Assistant.RelayURL,
		SystemPrompt: cfg.Assistant.SystemPrompt,
		Timeout:      cfg.Assistant.Timeout,
	}
	return assistant.New(opts, logger)
}

// NewRelayUpstream builds the client the relay forwards requests with.
func NewRelayUpstream(cfg config.Config, logger *slog.Logger) *assistant.DirectClient {
	temperature := cfg.Relay.Temperature
	return assistant.NewDirectClient(assistant.Options{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.Relay.Model,
		Temperature: &temperature,
		MaxTokens:   cfg.Relay.MaxTokens,
		Timeout:     cfg.Assistant.Timeout,
	}, logger)
}

// NewSound returns the configured player, or the terminal bell.
func NewSound(cfg config.Config) timer.Sound {
	if cfg.Sound.Command != "" {
		return timer.NewCommandSound(cfg.Sound.Command, cfg.Sound.File)
	}
	return timer.BellSound{W: os.Stderr}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" || filepath.Dir(path) == "." {
		return nil
	}
	if strings.HasPrefix(path, "file:") {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
