package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/chunking/internal/assistant"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("CHUNKING_CONFIG_PATH", "")
	t.Setenv("CHUNKING_LOG_LEVEL", "error")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("NO_COLOR", "1")
	return filepath.Join(t.TempDir(), "profile.db")
}

func TestNoteCommands(t *testing.T) {
	db := isolate(t)

	out, err := run(t, "--db", db, "note", "add", "call", "the", "printer")
	require.NoError(t, err)
	first := addedID(t, out)

	out, err = run(t, "--db", db, "note", "add", "order", "toner")
	require.NoError(t, err)
	second := addedID(t, out)
	require.NotEqual(t, first, second)

	out, err = run(t, "--db", db, "note", "list")
	require.NoError(t, err)
	require.Contains(t, out, "call the printer")
	require.Contains(t, out, "order toner")

	out, err = run(t, "--db", db, "note", "edit", first, "call", "the", "landlord")
	require.NoError(t, err)
	require.Contains(t, out, "updated "+first)

	out, err = run(t, "--db", db, "note", "rm", second)
	require.NoError(t, err)
	require.Contains(t, out, "deleted "+second)

	out, err = run(t, "--db", db, "note", "list")
	require.NoError(t, err)
	require.Contains(t, out, "call the landlord")
	require.NotContains(t, out, "order toner")
	require.NotContains(t, out, "call the printer")
}

func addedID(t *testing.T, out string) string {
	t.Helper()
	id, ok := strings.CutPrefix(strings.TrimSpace(out), "added ")
	require.True(t, ok, "unexpected output %q", out)
	return id
}

func TestNoteCommandErrors(t *testing.T) {
	db := isolate(t)

	_, err := run(t, "--db", db, "note", "add", "   ")
	require.ErrorContains(t, err, "empty")

	_, err = run(t, "--db", db, "note", "rm", "7")
	require.ErrorContains(t, err, "not found")

	_, err = run(t, "--db", db, "note", "rm", "abc")
	require.ErrorContains(t, err, "invalid note id")
}

func TestAskThroughRelay(t *testing.T) {
	isolate(t)

	var got assistant.RelayRequest
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, assistant.RelayPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(assistant.RelayResponse{Reply: "Start with the smallest task."})
	}))
	defer relay.Close()

	t.Setenv("CHUNKING_ASSISTANT_TRANSPORT", "relay")
	t.Setenv("CHUNKING_RELAY_URL", relay.URL)

	out, err := run(t, "ask", "--raw", "--topic", "Launch", "how", "do", "I", "start?")
	require.NoError(t, err)
	require.Equal(t, "Start with the smallest task.", strings.TrimSpace(out))

	require.NotEmpty(t, got.Messages)
	require.Contains(t, got.Messages[0].Content, "Launch")
	last := got.Messages[len(got.Messages)-1]
	require.Equal(t, "how do I start?", last.Content)
}

func TestAskRelayDown(t *testing.T) {
	isolate(t)

	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer relay.Close()

	t.Setenv("CHUNKING_ASSISTANT_TRANSPORT", "relay")
	t.Setenv("CHUNKING_RELAY_URL", relay.URL)

	_, err := run(t, "ask", "--raw", "hello")
	require.Error(t, err)
}

func TestTimerRunsToZero(t *testing.T) {
	isolate(t)

	out, err := run(t, "timer", "0", "1")
	require.NoError(t, err)
	require.Contains(t, out, "00:01")
	require.Contains(t, out, "00:00")
	require.Contains(t, out, "\a")
}

func TestTimerRejectsZero(t *testing.T) {
	isolate(t)

	_, err := run(t, "timer", "0", "0")
	require.ErrorContains(t, err, "positive")

	_, err = run(t, "timer", "x", "5")
	require.ErrorContains(t, err, "invalid minutes")
}
