package repository

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/rpggio/painel/internal/domain/activity"
)

// ActivityRepository manages persisted activity log entries
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Activity) error
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Activity, error)
	Search(ctx context.Context, query string, opts activity.ListOptions) ([]activity.Activity, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
}

// StateRepository stores back-office registries as whole JSON documents
type StateRepository interface {
	Load(ctx context.Context, key string) (json.RawMessage, error)
	Save(ctx context.Context, key string, value json.RawMessage) error
}

// StateKeys lists the registries kept in local persisted state.
var StateKeys = []string{
	"coletas",
	"pesagens",
	"motoristas",
	"caminhoes",
	"produtos",
	"fornecedores",
	"clientes",
	"user",
}

// IsStateKey reports whether key names a known registry.
func IsStateKey(key string) bool {
	return slices.Contains(StateKeys, key)
}
