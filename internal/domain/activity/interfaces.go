package activity

import "context"

// Repository provides persistence operations for the activity log.
type Repository interface {
	Log(ctx context.Context, entry *Activity) error
	List(ctx context.Context, opts ListOptions) ([]Activity, error)
	Search(ctx context.Context, query string, opts ListOptions) ([]Activity, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
}
