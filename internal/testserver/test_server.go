// Package testserver starts a fully wired Chunking instance behind an
// httptest server, with the assistant and relay upstream replaced by
// in-process fakes.
package testserver

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rpggio/chunking/internal/app"
	"github.com/rpggio/chunking/internal/config"
	"github.com/rpggio/chunking/internal/domain/chat"
	"github.com/stretchr/testify/require"
)

// TestServer is a running instance. Gateway and Relay record what reached
// them.
type TestServer struct {
	Server  *httptest.Server
	App     *app.App
	Gateway *Assistant
	Relay   *Assistant
}

// Assistant is a scripted stand-in for the chat model. It answers every
// request with Reply, or fails with Err when set.
type Assistant struct {
	mu       sync.Mutex
	Reply    string
	Err      error
	requests [][]chat.Message
}

// Complete implements chat.Gateway.
func (a *Assistant) Complete(ctx context.Context, req chat.Request) (chat.Reply, error) {
	reply, err := a.Chat(ctx, req.Messages)
	if err != nil {
		return chat.Reply{}, err
	}
	return chat.Reply{Content: reply}, nil
}

// Chat implements transport.Completer.
func (a *Assistant) Chat(_ context.Context, messages []chat.Message) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.requests = append(a.requests, append([]chat.Message(nil), messages...))
	if a.Err != nil {
		return "", a.Err
	}
	return a.Reply, nil
}

// Fail makes every later request fail with err.
func (a *Assistant) Fail(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Err = err
}

// Requests returns the message lists received so far.
func (a *Assistant) Requests() [][]chat.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([][]chat.Message(nil), a.requests...)
}

// New starts a server on a fresh database in t's temp dir.
func New(t *testing.T) *TestServer {
	t.Helper()

	cfg := config.Default()
	cfg.DB.Path = filepath.Join(t.TempDir(), strings.ReplaceAll(t.Name(), "/", "_")+".db")

	gw := &Assistant{Reply: "Start with the smallest task."}
	relay := &Assistant{Reply: "Relayed reply."}

	a, err := app.New(context.Background(), cfg, nil,
		app.WithGateway(gw),
		app.WithRelay(relay),
		app.WithSound(silent{}),
	)
	require.NoError(t, err)

	server := httptest.NewServer(a.HTTPHandler())

	t.Cleanup(func() {
		server.Close()
		_ = a.Close()
	})

	return &TestServer{Server: server, App: a, Gateway: gw, Relay: relay}
}

type silent struct{}

func (silent) Unlock(context.Context) error { return nil }
func (silent) Play(context.Context) error   { return nil }
