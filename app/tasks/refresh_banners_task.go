package tasks

import (
	"context"
	"log/slog"
)

type RefreshBannersTask struct {
	Task
	refresher BannerRefresher
}

func NewRefreshBannersTask(refresher BannerRefresher) *RefreshBannersTask {
	return &RefreshBannersTask{
		Task:      NewTask(TaskTypeRefreshBanners, "banners"),
		refresher: refresher,
	}
}

func (t *RefreshBannersTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	positions := t.refresher.Refresh(ctx)

	slog.Debug("Task completed",
		"type", "RefreshBanners",
		"duration", t.GetDuration(),
		"positions", positions)

	return nil
}
