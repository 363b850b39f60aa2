package mcpclient_test

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/neo4j/cypher-agent/internal/mcpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeValidator serves a syntax tool that echoes the received query back
// inside a JSON payload.
func newFakeValidator(t *testing.T) *client.Client {
	t.Helper()

	s := server.NewMCPServer("fake-cyver", "0.0.1", server.WithToolCapabilities(true))
	s.AddTool(
		mcp.NewTool("validate_cypher_syntax", mcp.WithString("query", mcp.Required())),
		func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args struct {
				Query string `json:"query"`
			}
			if err := request.BindArguments(&args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			payload, err := mcpclient.EncodeArguments(map[string]any{"is_valid": true, "echo": args.Query})
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(payload), nil
		},
	)

	c, err := client.NewInProcessClient(s)
	require.NoError(t, err)
	require.NoError(t, c.Start(t.Context()))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestAttach_UsesServerReportedName(t *testing.T) {
	conn, err := mcpclient.Attach(t.Context(), newFakeValidator(t), "")
	require.NoError(t, err)

	assert.Equal(t, "fake-cyver", conn.Name())
	assert.Equal(t, "0.0.1", conn.ServerInfo().Version)

	tools, err := conn.ListTools(t.Context())
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "validate_cypher_syntax", tools[0].Name)
}

func TestAttach_ConfiguredNameWins(t *testing.T) {
	conn, err := mcpclient.Attach(t.Context(), newFakeValidator(t), "cyver")
	require.NoError(t, err)
	assert.Equal(t, "cyver", conn.Name())
}

func TestConnection_EndToEndInvocation(t *testing.T) {
	conn, err := mcpclient.Attach(t.Context(), newFakeValidator(t), "cyver")
	require.NoError(t, err)

	invoker := mcpclient.NewInvoker(mcpclient.NewRegistry(conn))
	statement := `MATCH (n {title: "say \"hi\""}) WHERE n.path = 'C:\dir' RETURN n`

	raw, err := invoker.Invoke(t.Context(), "cyver", "validate_cypher_syntax", map[string]string{"query": statement})
	require.NoError(t, err)

	var payload struct {
		IsValid bool   `json:"is_valid"`
		Echo    string `json:"echo"`
	}
	require.NoError(t, mcpclient.UnwrapInto(raw, &payload))
	assert.True(t, payload.IsValid)
	assert.Equal(t, statement, payload.Echo)

	_, err = invoker.Invoke(t.Context(), "cyver", "schema_validator", map[string]string{"query": statement})
	assert.ErrorIs(t, err, mcpclient.ErrToolUnsupported)
}
