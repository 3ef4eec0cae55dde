package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rpggio/painel/internal/dashboard"
	"github.com/rpggio/painel/internal/domain/activity"
	"github.com/rpggio/painel/internal/feed"
	"github.com/rpggio/painel/internal/repository"
)

// FeedService is the live feed hub as seen by HTTP handlers.
type FeedService interface {
	Dispatch(ctx context.Context, msg feed.Message) error
	Flush(ctx context.Context) error
	Snapshot() feed.Snapshot
}

// HistoryService reads the persisted activity log.
type HistoryService interface {
	Recent(ctx context.Context, opts activity.ListOptions) ([]activity.Activity, error)
	Search(ctx context.Context, query string, opts activity.ListOptions) ([]activity.Activity, error)
}

// SummarySource returns the latest dashboard summary.
type SummarySource interface {
	Summary() dashboard.Summary
}

// ConnectionStatus reports whether the event source is connected.
type ConnectionStatus interface {
	Connected() bool
}

// Config wires HTTP handlers.
type Config struct {
	Feed      FeedService
	History   HistoryService
	State     repository.StateRepository
	Summary   SummarySource
	Source    ConnectionStatus
	Push      http.Handler
	MCP       http.Handler
	Auth      UserResolver
	RateLimit RateLimitConfig
	Logger    *slog.Logger
}

// Server holds the handler dependencies.
type Server struct {
	cfg Config
}

// NewServer creates an HTTP router with middleware.
func NewServer(cfg Config) *chi.Mux {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	srv := &Server{cfg: cfg}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(AccessLogMiddleware(cfg.Logger))

	r.Get("/health", srv.handleHealth)
	dashboard.RegisterStubRoutes(r)

	r.Group(func(r chi.Router) {
		if cfg.Auth != nil {
			r.Use(AuthMiddleware(cfg.Auth))
		}
		r.Use(RateLimitMiddleware(cfg.RateLimit))

		r.Get("/api/status", srv.handleStatus)
		r.Get("/api/activities", srv.handleListActivities)
		r.Post("/api/activities", srv.handlePublishActivity)
		r.Get("/api/activities/history", srv.handleHistory)
		r.Post("/api/activities/read-all", srv.handleMarkAllRead)
		r.Post("/api/activities/{id}/read", srv.handleMarkRead)
		r.Get("/api/notifications/bell", srv.handleBell)
		r.Get("/api/deliveries", srv.handleDeliveries)
		r.Get("/api/summary", srv.handleSummary)
		r.Get("/api/state/{key}", srv.handleLoadState)
		r.Put("/api/state/{key}", srv.handleSaveState)

		if cfg.Push != nil {
			r.Handle("/ws", cfg.Push)
		}
		if cfg.MCP != nil {
			r.Handle("/mcp", cfg.MCP)
			r.Handle("/mcp/*", cfg.MCP)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type statusResponse struct {
	SourceConnected bool `json:"sourceConnected"`
	UnreadCount     int  `json:"unreadCount"`
	Deliveries      int  `json:"deliveries"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	snap := s.cfg.Feed.Snapshot()
	resp := statusResponse{
		UnreadCount: snap.UnreadCount,
		Deliveries:  len(snap.Deliveries),
	}
	if s.cfg.Source != nil {
		resp.SourceConnected = s.cfg.Source.Connected()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	tab, ok := feed.ParseTab(r.URL.Query().Get("tab"))
	if !ok {
		writeError(w, activity.ErrInvalidInput)
		return
	}
	writeJSON(w, http.StatusOK, feed.NewFeedView(s.cfg.Feed.Snapshot(), tab))
}

func (s *Server) handlePublishActivity(w http.ResponseWriter, r *http.Request) {
	var entry activity.Activity
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil || !entry.Type.Valid() {
		writeError(w, activity.ErrInvalidInput)
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = activity.Now()
	}
	if entry.User == nil {
		if user, ok := UserFromContext(r.Context()); ok {
			entry.User = &activity.User{Name: user}
		}
	}
	entry.Read = false

	if err := s.dispatch(r.Context(), feed.NewActivity{Activity: entry}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.cfg.History == nil {
		writeJSON(w, http.StatusOK, []activity.Activity{})
		return
	}
	q := r.URL.Query()
	opts := activity.ListOptions{UnreadOnly: q.Get("unread") == "true"}
	if t := q.Get("type"); t != "" {
		typ := activity.Type(t)
		if !typ.Valid() {
			writeError(w, activity.ErrInvalidInput)
			return
		}
		opts.Type = &typ
	}
	var err error
	if opts.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, err)
		return
	}
	if opts.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, err)
		return
	}

	var entries []activity.Activity
	if query := q.Get("q"); query != "" {
		entries, err = s.cfg.History.Search(r.Context(), query, opts)
	} else {
		entries, err = s.cfg.History.Recent(r.Context(), opts)
	}
	if err != nil {
		s.cfg.Logger.Error("failed to list activity history", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type unreadResponse struct {
	UnreadCount int `json:"unreadCount"`
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.dispatch(r.Context(), feed.MarkRead{ID: id}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unreadResponse{UnreadCount: s.cfg.Feed.Snapshot().UnreadCount})
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := s.dispatch(r.Context(), feed.MarkAllRead{}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unreadResponse{UnreadCount: s.cfg.Feed.Snapshot().UnreadCount})
}

func (s *Server) handleBell(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r.URL.Query().Get("preview"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feed.NewBellView(s.cfg.Feed.Snapshot(), n))
}

func (s *Server) handleDeliveries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Feed.Snapshot().Deliveries)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	if s.cfg.Summary == nil {
		writeJSON(w, http.StatusOK, dashboard.EmptySummary())
		return
	}
	writeJSON(w, http.StatusOK, s.cfg.Summary.Summary())
}

func (s *Server) handleLoadState(w http.ResponseWriter, r *http.Request) {
	value, err := s.cfg.State.Load(r.Context(), chi.URLParam(r, "key"))
	if errors.Is(err, repository.ErrNoData) {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, value)
}

func (s *Server) handleSaveState(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 8<<20))
	if err != nil {
		writeError(w, repository.ErrInvalidInput)
		return
	}
	if err := s.cfg.State.Save(r.Context(), chi.URLParam(r, "key"), json.RawMessage(body)); err != nil {
		if !errors.Is(err, repository.ErrInvalidInput) && !errors.Is(err, repository.ErrUnknownKey) {
			s.cfg.Logger.Error("failed to save state", "key", chi.URLParam(r, "key"), "error", err)
		}
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// dispatch queues msg and waits until the hub has applied it.
func (s *Server) dispatch(ctx context.Context, msg feed.Message) error {
	if err := s.cfg.Feed.Dispatch(ctx, msg); err != nil {
		return err
	}
	return s.cfg.Feed.Flush(ctx)
}

// pathParam returns a decoded URL parameter. chi matches on RawPath when the
// request carries escapes such as %2F, leaving the parameter escaped.
func pathParam(r *http.Request, name string) (string, error) {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v, nil
	}
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return "", activity.ErrInvalidInput
	}
	return decoded, nil
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, activity.ErrInvalidInput
	}
	return n, nil
}
