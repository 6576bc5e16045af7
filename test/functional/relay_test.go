package functional_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rpggio/chunking/internal/assistant"
	"github.com/rpggio/chunking/internal/testserver"
	"github.com/stretchr/testify/require"
)

func postRelay(t *testing.T, ts *testserver.TestServer, body string) (int, map[string]string) {
	t.Helper()

	resp, err := http.Post(ts.Server.URL+assistant.RelayPath, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestFunctional_RelayForwardsMessages(t *testing.T) {
	ts := testserver.New(t)

	status, body := postRelay(t, ts, `{"messages":[{"role":"system","content":"be brief"},{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Relayed reply.", body["reply"])

	requests := ts.Relay.Requests()
	require.Len(t, requests, 1)
	require.Len(t, requests[0], 2)
	require.Equal(t, "be brief", requests[0][0].Content)
}

func TestFunctional_RelayRejectsBadPayload(t *testing.T) {
	ts := testserver.New(t)

	for _, payload := range []string{`{}`, `{"messages":"hi"}`, `not json`} {
		status, body := postRelay(t, ts, payload)
		require.Equal(t, http.StatusBadRequest, status, payload)
		require.Equal(t, "Invalid payload", body["error"], payload)
	}
	require.Empty(t, ts.Relay.Requests())
}

func TestFunctional_RelayUpstreamFailure(t *testing.T) {
	ts := testserver.New(t)
	ts.Relay.Fail(errors.New("upstream down"))

	status, body := postRelay(t, ts, `{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "Server error", body["error"])
}

func TestFunctional_RelayEmptyCompletion(t *testing.T) {
	ts := testserver.New(t)
	ts.Relay.Fail(assistant.ErrEmptyCompletion)

	status, body := postRelay(t, ts, `{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "No response", body["reply"])
}
