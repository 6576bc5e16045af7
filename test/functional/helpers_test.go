package functional_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

const callTimeout = 10 * time.Second

func newClient() *sdkmcp.Client {
	return sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)
}

// callTool calls name and returns the text payload of a successful result.
func callTool(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) json.RawMessage {
	t.Helper()

	result := call(t, cs, name, args)
	require.False(t, result.IsError, "tool %s returned error: %s", name, textOf(t, result))
	return json.RawMessage(textOf(t, result))
}

// callToolError calls name and returns the text of its error result.
func callToolError(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) string {
	t.Helper()

	result := call(t, cs, name, args)
	require.True(t, result.IsError, "tool %s succeeded unexpectedly", name)
	return textOf(t, result)
}

func call(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()

	if args == nil {
		args = map[string]any{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	result, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	return result
}

func textOf(t *testing.T, result *sdkmcp.CallToolResult) string {
	t.Helper()
	for _, content := range result.Content {
		if text, ok := content.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	t.Fatal("result has no text content")
	return ""
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}
