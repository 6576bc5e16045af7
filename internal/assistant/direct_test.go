package assistant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rpggio/chunking/internal/assistant"
	"github.com/rpggio/chunking/internal/domain/chat"
	"github.com/stretchr/testify/require"
)

func directOptions(baseURL string) assistant.Options {
	temp := 0.7
	return assistant.Options{
		Transport:    assistant.TransportDirect,
		APIKey:       "sk-test",
		BaseURL:      baseURL,
		Model:        "gpt-4o-mini",
		Temperature:  &temp,
		MaxTokens:    400,
		SystemPrompt: "Be brief.",
		RetryDelay:   time.Millisecond,
	}
}

func TestDirectClient_RequestShape(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"- step one"}}]}`))
	}))
	defer server.Close()

	gw, err := assistant.New(directOptions(server.URL+"/v1/"), nil)
	require.NoError(t, err)

	reply, err := gw.Complete(context.Background(), chat.Request{
		Topic:    "Launch",
		Messages: []chat.Message{{Role: chat.RoleUser, Content: "help"}},
	})
	require.NoError(t, err)
	require.Equal(t, "- step one", reply.Content)

	require.Equal(t, "gpt-4o-mini", got["model"])
	require.InDelta(t, 0.7, got["temperature"], 0.0001)
	require.EqualValues(t, 400, got["max_tokens"])
	require.Equal(t, []any{
		map[string]any{"role": "system", "content": "Be brief.\n\nThe user is working on: Launch"},
		map[string]any{"role": "user", "content": "help"},
	}, got["messages"])
}

func TestDirectClient_OmitsUnsetTuning(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	client := assistant.NewDirectClient(assistant.Options{APIKey: "k", BaseURL: server.URL}, nil)
	content, err := client.Chat(context.Background(), []chat.Message{{Role: chat.RoleUser, Content: "hi"}})
	require.NoError(t, err)
	require.Equal(t, "ok", content)

	require.Equal(t, assistant.DefaultModel, got["model"])
	require.NotContains(t, got, "temperature")
	require.NotContains(t, got, "max_tokens")
	require.Len(t, got["messages"], 1, "Chat forwards messages unchanged")
}

func TestDirectClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"slow down"}}`))
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"finally"}}]}`))
	}))
	defer server.Close()

	gw, err := assistant.New(directOptions(server.URL), nil)
	require.NoError(t, err)

	reply, err := gw.Complete(context.Background(), chat.Request{Messages: []chat.Message{{Role: chat.RoleUser, Content: "x"}}})
	require.NoError(t, err)
	require.Equal(t, "finally", reply.Content)
	require.EqualValues(t, 3, calls.Load())
}

func TestDirectClient_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	gw, err := assistant.New(directOptions(server.URL), nil)
	require.NoError(t, err)

	_, err = gw.Complete(context.Background(), chat.Request{})
	require.ErrorIs(t, err, chat.ErrAssistantUnavailable)
	require.EqualValues(t, 3, calls.Load())
}

func TestDirectClient_ClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer server.Close()

	gw, err := assistant.New(directOptions(server.URL), nil)
	require.NoError(t, err)

	_, err = gw.Complete(context.Background(), chat.Request{})
	require.ErrorIs(t, err, chat.ErrAssistantUnavailable)
	require.ErrorContains(t, err, "bad key")
	require.EqualValues(t, 1, calls.Load())
}

func TestDirectClient_MalformedAndEmptyResponses(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantEmpty bool
	}{
		{name: "malformed", body: `{"choices":`},
		{name: "no choices", body: `{"choices":[]}`, wantEmpty: true},
		{name: "empty content", body: `{"choices":[{"message":{"content":""}}]}`, wantEmpty: true},
		{name: "blank content", body: `{"choices":[{"message":{"content":"  \n"}}]}`, wantEmpty: true},
		{name: "choice without message", body: `{"choices":[{}]}`, wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			gw, err := assistant.New(directOptions(server.URL), nil)
			require.NoError(t, err)

			_, err = gw.Complete(context.Background(), chat.Request{})
			require.ErrorIs(t, err, chat.ErrAssistantUnavailable)
			if tt.wantEmpty {
				require.ErrorIs(t, err, assistant.ErrEmptyCompletion)
			}
		})
	}
}

func TestDirectClient_BadBaseURL(t *testing.T) {
	gw, err := assistant.New(directOptions("http://bad\x7fhost"), nil)
	require.NoError(t, err)

	_, err = gw.Complete(context.Background(), chat.Request{})
	require.ErrorIs(t, err, chat.ErrAssistantUnavailable)
}

func TestDirectClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	gw, err := assistant.New(directOptions(url), nil)
	require.NoError(t, err)

	_, err = gw.Complete(context.Background(), chat.Request{})
	require.ErrorIs(t, err, chat.ErrAssistantUnavailable)
}

func TestNew_Validation(t *testing.T) {
	_, err := assistant.New(assistant.Options{Transport: assistant.TransportDirect}, nil)
	require.Error(t, err)

	_, err = assistant.New(assistant.Options{Transport: assistant.TransportRelay}, nil)
	require.Error(t, err)

	_, err = assistant.New(assistant.Options{Transport: "carrier-pigeon"}, nil)
	require.Error(t, err)

	gw, err := assistant.New(assistant.Options{Transport: assistant.TransportRelay, RelayURL: "http://localhost:5000"}, nil)
	require.NoError(t, err)
	require.IsType(t, &assistant.RelayClient{}, gw)
}

func TestDirectClient_ChatPassesEmptyContentThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":""}}]}`))
	}))
	defer server.Close()

	client := assistant.NewDirectClient(assistant.Options{APIKey: "k", BaseURL: server.URL}, nil)
	content, err := client.Chat(context.Background(), []chat.Message{{Role: chat.RoleUser, Content: "hi"}})
	require.NoError(t, err)
	require.Empty(t, content)
}
