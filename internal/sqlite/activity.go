package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rpggio/painel/internal/domain/activity"
	"github.com/rpggio/painel/internal/repository"
)

// DefaultPersistLimit bounds the persisted activity log.
const DefaultPersistLimit = 1000

// ActivityRepository implements repository.ActivityRepository for SQLite
type ActivityRepository struct {
	db    *DB
	limit int
}

var _ repository.ActivityRepository = (*ActivityRepository)(nil)

// NewActivityRepository creates a new ActivityRepository keeping at most
// limit entries. A non-positive limit selects DefaultPersistLimit.
func NewActivityRepository(db *DB, limit int) *ActivityRepository {
	if limit <= 0 {
		limit = DefaultPersistLimit
	}
	return &ActivityRepository{db: db, limit: limit}
}

// Log inserts a new activity entry and prunes the oldest beyond the limit
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.Activity) error {
	var details sql.NullString
	if len(entry.Details) > 0 {
		details = sql.NullString{String: string(entry.Details), Valid: true}
	}
	var userName, userAvatar sql.NullString
	if entry.User != nil {
		userName = sql.NullString{String: entry.User.Name, Valid: true}
		userAvatar = sql.NullString{String: entry.User.Avatar, Valid: entry.User.Avatar != ""}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO activity_log (
			id, activity_type, message, details, timestamp, is_read, user_name, user_avatar
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.Type,
		entry.Message,
		details,
		entry.Timestamp,
		entry.Read,
		userName,
		userAvatar,
	)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM activity_log
		WHERE seq NOT IN (SELECT seq FROM activity_log ORDER BY seq DESC LIMIT ?)
	`, r.limit)
	if err != nil {
		return fmt.Errorf("failed to prune activity log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit activity: %w", err)
	}
	return nil
}

// List returns activity entries matching the given filters, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Activity, error) {
	query := `
		SELECT id, activity_type, message, details, timestamp, is_read, user_name, user_avatar
		FROM activity_log
	`

	args := []interface{}{}
	conditions := []string{}

	if opts.UnreadOnly {
		conditions = append(conditions, "is_read = 0")
	}
	if opts.Type != nil {
		conditions = append(conditions, "activity_type = ?")
		args = append(args, *opts.Type)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY seq DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		query += " LIMIT -1"
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// MarkRead marks the newest entry with the given ID as read. Unknown IDs are ignored.
func (r *ActivityRepository) MarkRead(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE activity_log SET is_read = 1
		WHERE seq = (SELECT seq FROM activity_log WHERE id = ? ORDER BY seq DESC LIMIT 1)
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark activity read: %w", err)
	}
	return nil
}

// MarkAllRead marks every persisted entry as read
func (r *ActivityRepository) MarkAllRead(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE activity_log SET is_read = 1 WHERE is_read = 0`); err != nil {
		return fmt.Errorf("failed to mark all activity read: %w", err)
	}
	return nil
}

func scanActivities(rows *sql.Rows) ([]activity.Activity, error) {
	entries := []activity.Activity{}
	for rows.Next() {
		var entry activity.Activity
		var details, userName, userAvatar sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.Type,
			&entry.Message,
			&details,
			&entry.Timestamp,
			&entry.Read,
			&userName,
			&userAvatar,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		if details.Valid {
			entry.Details = json.RawMessage(details.String)
		}
		if userName.Valid {
			entry.User = &activity.User{Name: userName.String, Avatar: userAvatar.String}
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}
