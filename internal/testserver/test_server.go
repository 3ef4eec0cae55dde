package testserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/painel/internal/dashboard"
	"github.com/rpggio/painel/internal/domain/activity"
	"github.com/rpggio/painel/internal/feed"
	"github.com/rpggio/painel/internal/mcp"
	"github.com/rpggio/painel/internal/source"
	"github.com/rpggio/painel/internal/sqlite"
	"github.com/rpggio/painel/internal/transport"
	"github.com/stretchr/testify/require"
)

// Options configures a TestServer.
type Options struct {
	Token        string
	SourceURL    string
	Capacity     int
	PersistLimit int
}

// TestServer runs the full HTTP stack over an in-memory database.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Hub      *feed.Hub
	Push     *transport.PushHub
	Source   *source.WebSocket
	Activity *activity.Service
	Poller   *dashboard.Poller
	Token    string
}

func New(t *testing.T, opts Options) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	activityRepo := sqlite.NewActivityRepository(db, opts.PersistLimit)
	stateRepo := sqlite.NewStateRepository(db)
	activitySvc := activity.NewService(activityRepo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	hub := feed.NewHub(feed.Options{Capacity: opts.Capacity, Recorder: activitySvc})
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		_ = hub.Run(ctx)
	}()

	push := transport.NewPushHub(hub.Snapshot, nil)
	events, unsubscribe := hub.Subscribe(64)
	pushDone := make(chan struct{})
	go func() {
		defer close(pushDone)
		push.Run(ctx, events)
	}()

	ts := &TestServer{
		DB:       db,
		Hub:      hub,
		Push:     push,
		Activity: activitySvc,
		Token:    opts.Token,
	}

	var status transport.ConnectionStatus
	if opts.SourceURL != "" {
		ts.Source = source.NewWebSocket(source.WebSocketConfig{
			URL:   opts.SourceURL,
			Retry: source.RetryPolicy{Attempts: 3, Delay: 20 * time.Millisecond},
		}, hub, nil)
		status = ts.Source
	}

	var resolver transport.UserResolver
	if opts.Token != "" {
		resolver = transport.StaticToken{Token: opts.Token}
	}

	// The poller reads the stub dashboard routes of this same server.
	router := http.NewServeMux()
	server := httptest.NewServer(router)
	ts.Server = server

	ts.Poller = dashboard.NewPoller(dashboard.NewClient(server.URL, server.Client(), nil), time.Hour)

	mcpServer := mcp.NewServer(mcp.Config{Feed: hub, History: activitySvc, Summary: ts.Poller})
	router.Handle("/", transport.NewServer(transport.Config{
		Feed:    hub,
		History: activitySvc,
		State:   stateRepo,
		Summary: ts.Poller,
		Source:  status,
		Push:    push,
		MCP:     mcp.NewHTTPHandler(mcpServer),
		Auth:    resolver,
	}))

	if ts.Source != nil {
		require.NoError(t, ts.Source.Connect(ctx))
	}

	t.Cleanup(func() {
		if ts.Source != nil {
			ts.Source.Disconnect()
		}
		server.Close()
		cancel()
		unsubscribe()
		<-hubDone
		<-pushDone
		_ = db.Close()
	})

	return ts
}

// Do sends an authenticated request to the server.
func (ts *TestServer) Do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if ts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.Token)
	}
	resp, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// WSURL returns the websocket URL for path, carrying the token as a query parameter.
func (ts *TestServer) WSURL(path string) string {
	url := "ws" + strings.TrimPrefix(ts.Server.URL, "http") + path
	if ts.Token != "" {
		url += "?token=" + ts.Token
	}
	return url
}
