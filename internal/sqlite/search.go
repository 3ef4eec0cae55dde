package sqlite

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rpggio/painel/internal/domain/activity"
)

// Search performs a full-text search over persisted activity messages.
// Filters in opts apply as in List; results are ranked by relevance.
func (r *ActivityRepository) Search(ctx context.Context, query string, opts activity.ListOptions) ([]activity.Activity, error) {
	match := ftsQuery(query)
	if match == "" {
		return []activity.Activity{}, nil
	}

	baseQuery := `
		SELECT a.id, a.activity_type, a.message, a.details, a.timestamp, a.is_read, a.user_name, a.user_avatar
		FROM activity_log_fts
		JOIN activity_log a ON a.seq = activity_log_fts.rowid
		WHERE activity_log_fts MATCH ?
	`
	args := []interface{}{match}

	if opts.UnreadOnly {
		baseQuery += " AND a.is_read = 0"
	}
	if opts.Type != nil {
		baseQuery += " AND a.activity_type = ?"
		args = append(args, *opts.Type)
	}

	baseQuery += " ORDER BY bm25(activity_log_fts), a.seq DESC"

	if opts.Limit > 0 {
		baseQuery += " LIMIT ?"
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		baseQuery += " LIMIT -1"
	}
	if opts.Offset > 0 {
		baseQuery += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search activity: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ftsQuery turns free text into an FTS5 query of quoted prefix terms.
// Punctuation separates terms, so FTS5 operators typed by users never parse.
func ftsQuery(text string) string {
	terms := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		quoted = append(quoted, `"`+term+`"*`)
	}
	return strings.Join(quoted, " ")
}
