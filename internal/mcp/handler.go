package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/painel/internal/dashboard"
	"github.com/rpggio/painel/internal/domain/activity"
	"github.com/rpggio/painel/internal/feed"
)

// FeedService defines live feed operations needed by MCP.
type FeedService interface {
	Dispatch(ctx context.Context, msg feed.Message) error
	Flush(ctx context.Context) error
	Snapshot() feed.Snapshot
}

// HistoryService defines persisted activity reads needed by MCP.
type HistoryService interface {
	Recent(ctx context.Context, opts activity.ListOptions) ([]activity.Activity, error)
	Search(ctx context.Context, query string, opts activity.ListOptions) ([]activity.Activity, error)
}

// SummarySource returns the latest dashboard summary.
type SummarySource interface {
	Summary() dashboard.Summary
}

// Handler dispatches MCP tool calls.
type Handler struct {
	feed    FeedService
	history HistoryService
	summary SummarySource
}

// NewHandler creates a new MCP handler. history and summary may be nil.
func NewHandler(feedSvc FeedService, history HistoryService, summary SummarySource) *Handler {
	return &Handler{
		feed:    feedSvc,
		history: history,
		summary: summary,
	}
}

// Handle dispatches a tool call by name.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "ping":
		return PingResult{Message: "pong"}, nil
	case "list_activities":
		var req ListActivitiesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		tab, ok := feed.ParseTab(req.Tab)
		if !ok {
			return nil, fmt.Errorf("%w: unknown tab %q", activity.ErrInvalidInput, req.Tab)
		}
		return feed.NewFeedView(h.feed.Snapshot(), tab), nil
	case "mark_activity_read":
		var req MarkActivityReadParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.ID == "" {
			return nil, fmt.Errorf("%w: id is required", activity.ErrInvalidInput)
		}
		return h.apply(ctx, feed.MarkRead{ID: req.ID})
	case "mark_all_activities_read":
		return h.apply(ctx, feed.MarkAllRead{})
	case "get_notification_bell":
		var req GetNotificationBellParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return feed.NewBellView(h.feed.Snapshot(), req.Preview), nil
	case "list_deliveries":
		return h.feed.Snapshot().Deliveries, nil
	case "list_activity_history":
		var req ListActivityHistoryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.listHistory(ctx, req)
	case "search_activity_history":
		var req SearchActivityHistoryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if h.history == nil {
			return []activity.Activity{}, nil
		}
		opts, err := historyOptions(req.ListActivityHistoryParams)
		if err != nil {
			return nil, err
		}
		return h.history.Search(ctx, req.Query, opts)
	case "get_dashboard_summary":
		if h.summary == nil {
			return dashboard.EmptySummary(), nil
		}
		return h.summary.Summary(), nil
	default:
		return nil, &APIError{Code: "UNKNOWN_TOOL", Message: fmt.Sprintf("unknown tool %q", method)}
	}
}

func (h *Handler) apply(ctx context.Context, msg feed.Message) (UnreadCountResult, error) {
	if err := h.feed.Dispatch(ctx, msg); err != nil {
		return UnreadCountResult{}, err
	}
	if err := h.feed.Flush(ctx); err != nil {
		return UnreadCountResult{}, err
	}
	return UnreadCountResult{UnreadCount: h.feed.Snapshot().UnreadCount}, nil
}

func (h *Handler) listHistory(ctx context.Context, req ListActivityHistoryParams) ([]activity.Activity, error) {
	if h.history == nil {
		return []activity.Activity{}, nil
	}
	opts, err := historyOptions(req)
	if err != nil {
		return nil, err
	}
	return h.history.Recent(ctx, opts)
}

func historyOptions(req ListActivityHistoryParams) (activity.ListOptions, error) {
	if req.Limit < 0 || req.Offset < 0 {
		return activity.ListOptions{}, fmt.Errorf("%w: limit and offset must not be negative", activity.ErrInvalidInput)
	}
	opts := activity.ListOptions{
		UnreadOnly: req.UnreadOnly,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}
	if req.Type != "" {
		typ := activity.Type(req.Type)
		if !typ.Valid() {
			return activity.ListOptions{}, fmt.Errorf("%w: unknown activity type %q", activity.ErrInvalidInput, req.Type)
		}
		opts.Type = &typ
	}
	return opts, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %v", activity.ErrInvalidInput, err)
	}
	return nil
}
