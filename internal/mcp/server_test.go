package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rpggio/painel/internal/domain/activity"
	"github.com/rpggio/painel/internal/feed"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, hub *feed.Hub) *sdkmcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	server := NewServer(Config{Feed: hub})
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func toolText(t *testing.T, result *sdkmcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestServer_ListTools(t *testing.T) {
	session := connect(t, startHub(t))

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, def := range buildToolCatalog() {
		require.True(t, names[def.Name], "missing tool %s", def.Name)
	}
}

func TestServer_CallTools(t *testing.T) {
	hub := startHub(t)
	seedHub(t, hub, feed.NewActivity{Activity: activity.Activity{ID: "a1", Message: "Nova coleta"}})
	session := connect(t, hub)
	ctx := context.Background()

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "ping"})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Contains(t, toolText(t, result), "pong")

	result, err = session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "list_activities"})
	require.NoError(t, err)
	var view feed.FeedView
	require.NoError(t, json.Unmarshal([]byte(toolText(t, result)), &view))
	require.Len(t, view.Items, 1)
	require.Equal(t, 1, view.UnreadCount)

	result, err = session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "mark_activity_read",
		Arguments: map[string]any{"id": "a1"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, 0, hub.Snapshot().UnreadCount)
}

func TestServer_ToolErrorResult(t *testing.T) {
	session := connect(t, startHub(t))

	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "mark_activity_read",
		Arguments: map[string]any{"id": ""},
	})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, toolText(t, result), "INVALID_INPUT")
}

func TestServer_DocsResource(t *testing.T) {
	session := connect(t, startHub(t))

	read, err := session.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "painel://docs/index"})
	require.NoError(t, err)
	require.NotEmpty(t, read.Contents)
	require.Contains(t, read.Contents[0].Text, "coleta_status_alterado")
}
