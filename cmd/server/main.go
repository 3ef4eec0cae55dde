package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/painel/internal/config"
	"github.com/rpggio/painel/internal/dashboard"
	"github.com/rpggio/painel/internal/domain/activity"
	"github.com/rpggio/painel/internal/feed"
	"github.com/rpggio/painel/internal/mcp"
	"github.com/rpggio/painel/internal/source"
	"github.com/rpggio/painel/internal/sqlite"
	"github.com/rpggio/painel/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.MCP.Mode == config.MCPStdio {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	activityRepo := sqlite.NewActivityRepository(db, cfg.Feed.PersistLimit)
	stateRepo := sqlite.NewStateRepository(db)
	activitySvc := activity.NewService(activityRepo, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := feed.NewHub(feed.Options{
		Capacity: cfg.Feed.Capacity,
		Recorder: activitySvc,
		Logger:   logger.With("component", "feed"),
	})
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		_ = hub.Run(ctx)
	}()

	src := newSource(cfg.Source, hub, logger)
	if src != nil {
		if err := src.Connect(ctx); err != nil {
			logger.Error("failed to start event source", "error", err)
		}
		defer src.Disconnect()
	}

	dashboardURL := cfg.Dashboard.URL
	if dashboardURL == "" {
		dashboardURL = fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	}
	poller := dashboard.NewPoller(
		dashboard.NewClient(dashboardURL, nil, logger.With("component", "dashboard")),
		cfg.Dashboard.Interval,
	)

	mcpServer := mcp.NewServer(mcp.Config{
		Feed:    hub,
		History: activitySvc,
		Summary: poller,
		Logger:  logger,
	})

	if cfg.MCP.Mode == config.MCPStdio {
		go poller.Run(ctx)
		runStdioMode(ctx, logger, mcpServer)
	} else {
		var mcpHandler http.Handler
		if cfg.MCP.Mode == config.MCPHTTP {
			mcpHandler = mcp.NewHTTPHandler(mcpServer)
		}

		push := transport.NewPushHub(hub.Snapshot, logger.With("component", "push"))
		events, unsubscribe := hub.Subscribe(64)
		defer unsubscribe()
		go push.Run(ctx, events)

		var resolver transport.UserResolver
		if cfg.Auth.Token != "" {
			resolver = transport.StaticToken{Token: cfg.Auth.Token, User: cfg.Auth.User}
		}
		var status transport.ConnectionStatus
		if src != nil {
			status = src
		}

		router := transport.NewServer(transport.Config{
			Feed:      hub,
			History:   activitySvc,
			State:     stateRepo,
			Summary:   poller,
			Source:    status,
			Push:      push,
			MCP:       mcpHandler,
			Auth:      resolver,
			RateLimit: transport.RateLimitConfig{RPS: cfg.RateLimit.RPS, Burst: cfg.RateLimit.Burst},
			Logger:    logger,
		})
		runHTTPMode(ctx, logger, router, poller, cfg.Server.Host, cfg.Server.Port)
	}

	stop()
	<-hubDone
}

func newSource(cfg config.SourceConfig, sink source.Sink, logger *slog.Logger) source.Adapter {
	retry := source.RetryPolicy{Attempts: cfg.ReconnectAttempts, Delay: cfg.ReconnectDelay}
	switch cfg.Mode {
	case config.SourceWebSocket:
		return source.NewWebSocket(source.WebSocketConfig{URL: cfg.URL, Retry: retry}, sink, logger)
	case config.SourceMQTT:
		return source.NewMQTT(source.MQTTConfig{
			BrokerURL:   cfg.URL,
			ClientID:    cfg.ClientID,
			Username:    cfg.Username,
			Password:    cfg.Password,
			TopicPrefix: cfg.Topic,
			QoS:         1,
			Retry:       retry,
		}, sink, logger)
	default:
		logger.Info("no event source configured")
		return nil
	}
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or ctx is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
	}
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, handler http.Handler, poller *dashboard.Poller, host string, port int) {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()
	go poller.Run(ctx)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
