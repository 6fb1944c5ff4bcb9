package database

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/lysyi3m/impacto-diario/app/views"
)

type ViewStore struct {
	db *DB
}

var _ ViewRepository = (*ViewStore)(nil)

func NewViewStore(db *DB) *ViewStore {
	return &ViewStore{db: db}
}

func applyViewFilter(b sq.SelectBuilder, filter views.ViewFilter) sq.SelectBuilder {
	if filter.ArticleID != "" {
		b = b.Where(sq.Eq{"news_id": filter.ArticleID})
	}
	if filter.Since != nil {
		b = b.Where(sq.GtOrEq{"viewed_at": toMillis(*filter.Since)})
	}
	return b
}

func (r *ViewStore) AppendView(ctx context.Context, event views.ViewEvent) error {
	query, args, err := qb.Insert("news_views").
		Columns("news_id", "session_id", "viewed_at").
		Values(event.ArticleID, event.SessionID, toMillis(event.ViewedAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to append view: %w", err)
	}
	return nil
}

// CountViews honours filter.Limit as an upper bound on the count, which
// keeps existence checks cheap.
func (r *ViewStore) CountViews(ctx context.Context, filter views.ViewFilter) (int, error) {
	inner := applyViewFilter(qb.Select("1").From("news_views"), filter)
	if filter.Limit > 0 {
		inner = inner.Limit(uint64(filter.Limit))
	}

	query, args, err := qb.Select("COUNT(*)").FromSelect(inner, "v").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count views: %w", err)
	}
	return count, nil
}

func (r *ViewStore) ListViews(ctx context.Context, filter views.ViewFilter) ([]views.ViewEvent, error) {
	b := applyViewFilter(qb.Select("id", "news_id", "session_id", "viewed_at").From("news_views"), filter).
		OrderBy("viewed_at ASC", "id ASC")
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build view query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer rows.Close()

	var events []views.ViewEvent
	for rows.Next() {
		var e views.ViewEvent
		var viewedAt int64
		if err := rows.Scan(&e.ID, &e.ArticleID, &e.SessionID, &viewedAt); err != nil {
			return nil, fmt.Errorf("failed to scan view row: %w", err)
		}
		e.ViewedAt = fromMillis(viewedAt)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating view rows: %w", err)
	}

	return events, nil
}

func (r *ViewStore) CountByArticle(ctx context.Context, since *time.Time) (map[string]int, error) {
	b := applyViewFilter(qb.Select("news_id", "COUNT(*)").From("news_views"), views.ViewFilter{Since: since}).
		GroupBy("news_id")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build grouped count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count views by article: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[id] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}

	return counts, nil
}
