package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

// TrackViewTask records a view off the request path and keeps the article's
// views counter in step with the recorded events.
type TrackViewTask struct {
	Task
	tracker  ViewTracker
	articles ViewCounter
}

func NewTrackViewTask(articleID string, tracker ViewTracker, articles ViewCounter) *TrackViewTask {
	return &TrackViewTask{
		Task:     NewTask(TaskTypeTrackView, articleID),
		tracker:  tracker,
		articles: articles,
	}
}

func (t *TrackViewTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	recorded, err := t.tracker.Track(ctx, t.Key)
	if err != nil {
		return fmt.Errorf("failed to track view: %w", err)
	}

	if recorded {
		if err := t.articles.IncrementViews(ctx, t.Key); err != nil {
			return fmt.Errorf("failed to increment article views: %w", err)
		}
	}

	slog.Debug("Task completed",
		"type", "TrackView",
		"article", t.Key,
		"duration", t.GetDuration(),
		"recorded", recorded)

	return nil
}
