package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rpggio/chunking/internal/app"
	"github.com/rpggio/chunking/internal/config"
	"github.com/spf13/cobra"
)

type cli struct {
	cfg       config.Config
	logger    *slog.Logger
	logCloser io.Closer

	dbPath   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	cmd := &cobra.Command{
		Use:          "chunking",
		Short:        "Break large goals into small, manageable chunks",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Serve the chat relay and MCP over HTTP
  chunking serve

  # MCP over stdio for a local agent
  chunking mcp

  # Ask the assistant
  chunking ask --topic "Launch" "how should I start?"

  # Notes
  chunking note add "call the printer"
  chunking note list

  # A 25 minute focus block
  chunking timer 25 0
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return c.setup()
	}
	cmd.PersistentPostRunE = func(*cobra.Command, []string) error {
		if c.logCloser != nil {
			return c.logCloser.Close()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&c.dbPath, "db", "", "Path to the SQLite profile (overrides CHUNKING_DB_PATH)")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "debug|info|warn|error (overrides CHUNKING_LOG_LEVEL)")

	cmd.AddCommand(newServeCmd(c))
	cmd.AddCommand(newMCPCmd(c))
	cmd.AddCommand(newAskCmd(c))
	cmd.AddCommand(newNoteCmd(c))
	cmd.AddCommand(newTimerCmd(c))

	return cmd
}

func (c *cli) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.dbPath != "" {
		cfg.DB.Path = c.dbPath
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, closer, err := app.NewLogger(app.LogSettings{Level: cfg.Log.Level, Path: cfg.Log.Path})
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logger
	c.logCloser = closer
	return nil
}

func (c *cli) openApp(ctx context.Context, opts ...app.Option) (*app.App, error) {
	a, err := app.New(ctx, c.cfg, c.logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("open profile %s: %w", c.cfg.DB.Path, err)
	}
	return a, nil
}
