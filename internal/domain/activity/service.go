package activity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Service handles persisted activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, logger: logger}
}

// Record persists an entry, assigning an ID and timestamp when missing.
func (s *Service) Record(ctx context.Context, entry *Activity) error {
	if entry == nil || !entry.Type.Valid() {
		return ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = Now()
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	s.logger.Debug("activity recorded", "id", entry.ID, "type", entry.Type)
	return nil
}

// Recent lists persisted entries, newest first.
func (s *Service) Recent(ctx context.Context, opts ListOptions) ([]Activity, error) {
	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return entries, nil
}

// Search finds persisted entries whose message matches query.
func (s *Service) Search(ctx context.Context, query string, opts ListOptions) ([]Activity, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrInvalidInput)
	}
	entries, err := s.repo.Search(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("searching activity: %w", err)
	}
	return entries, nil
}

// MarkRead marks a persisted entry as read.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.MarkRead(ctx, id)
}

// MarkAllRead marks every persisted entry as read.
func (s *Service) MarkAllRead(ctx context.Context) error {
	return s.repo.MarkAllRead(ctx)
}
