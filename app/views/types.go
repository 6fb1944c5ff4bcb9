package views

import (
	"context"
	"time"
)

type ViewEvent struct {
	ID        int64     `json:"id"`
	ArticleID string    `json:"news_id"`
	SessionID string    `json:"session_id"`
	ViewedAt  time.Time `json:"viewed_at"`
}

// ViewFilter narrows a view log query. Zero values mean "any".
type ViewFilter struct {
	ArticleID string
	Since     *time.Time
	Limit     int
}

// Log is the append-only store of view events.
type Log interface {
	AppendView(ctx context.Context, event ViewEvent) error
	CountViews(ctx context.Context, filter ViewFilter) (int, error)
	ListViews(ctx context.Context, filter ViewFilter) ([]ViewEvent, error)
	CountByArticle(ctx context.Context, since *time.Time) (map[string]int, error)
}

type Stats struct {
	Total          int     `json:"total"`
	Today          int     `json:"today"`
	ThisWeek       int     `json:"this_week"`
	ThisMonth      int     `json:"this_month"`
	AveragePerNews float64 `json:"average_per_news"`
}

type ArticleCount struct {
	ArticleID string `json:"news_id"`
	Views     int    `json:"views"`
}

type DayCount struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}
