package views

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Cooldown = 5 * time.Minute

	sessionSuffixLen = 9
	dateLayout       = "2006-01-02"
)

// Tracker records article views and answers aggregate questions about them.
//
// Track is a check-then-write against the log and is not atomic: two
// concurrent calls inside the same window may both record an event.
type Tracker struct {
	log      Log
	cooldown time.Duration
	now      func() time.Time
	loc      *time.Location
}

func NewTracker(log Log, loc *time.Location) *Tracker {
	if loc == nil {
		loc = time.Local
	}
	return &Tracker{
		log:      log,
		cooldown: Cooldown,
		now:      time.Now,
		loc:      loc,
	}
}

// Track appends a view event for articleID unless one was already recorded
// within the cooldown window. It reports whether an event was written.
func (t *Tracker) Track(ctx context.Context, articleID string) (bool, error) {
	if articleID == "" {
		return false, fmt.Errorf("article id is required")
	}

	now := t.now()
	windowStart := now.Add(-t.cooldown)

	recent, err := t.log.CountViews(ctx, ViewFilter{
		ArticleID: articleID,
		Since:     &windowStart,
		Limit:     1,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check recent views: %w", err)
	}

	if recent > 0 {
		slog.Debug("View suppressed", "article_id", articleID)
		return false, nil
	}

	event := ViewEvent{
		ArticleID: articleID,
		SessionID: NewSessionID(now),
		ViewedAt:  now,
	}

	if err := t.log.AppendView(ctx, event); err != nil {
		return false, fmt.Errorf("failed to record view: %w", err)
	}

	return true, nil
}

// NewSessionID returns "session_<unix-ms>_<9 chars>".
func NewSessionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:sessionSuffixLen]
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), suffix)
}

func (t *Tracker) Stats(ctx context.Context, articleCount int) (Stats, error) {
	now := t.now().In(t.loc)
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, t.loc)
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, -1, 0)

	var stats Stats
	var err error

	if stats.Total, err = t.log.CountViews(ctx, ViewFilter{}); err != nil {
		return Stats{}, fmt.Errorf("failed to count views: %w", err)
	}
	if stats.Today, err = t.log.CountViews(ctx, ViewFilter{Since: &startOfDay}); err != nil {
		return Stats{}, fmt.Errorf("failed to count today's views: %w", err)
	}
	if stats.ThisWeek, err = t.log.CountViews(ctx, ViewFilter{Since: &weekAgo}); err != nil {
		return Stats{}, fmt.Errorf("failed to count weekly views: %w", err)
	}
	if stats.ThisMonth, err = t.log.CountViews(ctx, ViewFilter{Since: &monthAgo}); err != nil {
		return Stats{}, fmt.Errorf("failed to count monthly views: %w", err)
	}

	if articleCount > 0 {
		stats.AveragePerNews = math.Round(float64(stats.Total)/float64(articleCount)*100) / 100
	}

	return stats, nil
}

func (t *Tracker) CountForArticle(ctx context.Context, articleID string) (int, error) {
	count, err := t.log.CountViews(ctx, ViewFilter{ArticleID: articleID})
	if err != nil {
		return 0, fmt.Errorf("failed to count views for %s: %w", articleID, err)
	}
	return count, nil
}

// MostViewed ranks articles by recorded views, highest first. Equal counts
// are ordered by article id so the ranking is stable.
func (t *Tracker) MostViewed(ctx context.Context, limit int) ([]ArticleCount, error) {
	counts, err := t.log.CountByArticle(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count views by article: %w", err)
	}

	ranked := make([]ArticleCount, 0, len(counts))
	for id, n := range counts {
		ranked = append(ranked, ArticleCount{ArticleID: id, Views: n})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Views != ranked[j].Views {
			return ranked[i].Views > ranked[j].Views
		}
		return ranked[i].ArticleID < ranked[j].ArticleID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked, nil
}

// Daily buckets the trailing days of views by calendar date in the tracker's
// location. Days without views are present with zero.
func (t *Tracker) Daily(ctx context.Context, days int) ([]DayCount, error) {
	if days <= 0 {
		return nil, nil
	}

	now := t.now().In(t.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, t.loc)
	first := today.AddDate(0, 0, -(days - 1))

	events, err := t.log.ListViews(ctx, ViewFilter{Since: &first})
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}

	buckets := make(map[string]int, days)
	for _, e := range events {
		buckets[e.ViewedAt.In(t.loc).Format(dateLayout)]++
	}

	result := make([]DayCount, 0, days)
	for d := first; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		result = append(result, DayCount{Date: key, Views: buckets[key]})
	}

	return result, nil
}
