package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat relay, MCP over HTTP and /health",
		Long: `Serve POST /api/chat (the chat relay), MCP streamable HTTP on /mcp and GET /health.

With server.transport set to "stdio" (CHUNKING_TRANSPORT=stdio) this behaves like "chunking mcp".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if c.cfg.Server.Transport == "stdio" {
				return runStdio(ctx, c)
			}
			return runHTTP(ctx, c)
		},
	}
}

func newMCPCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve MCP over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runStdio(ctx, c)
		},
	}
}

func runStdio(ctx context.Context, c *cli) error {
	a, err := c.openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	c.logger.Info("starting stdio transport")

	// Run returns when stdin closes or ctx is cancelled.
	if err := a.MCP.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func runHTTP(ctx context.Context, c *cli) error {
	a, err := c.openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.Relay == nil {
		c.logger.Warn("relay disabled: OPENAI_API_KEY is not set")
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Server.Host, c.cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           a.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	c.logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
