package tasks

import "context"

// TaskSchedulerInterface is what the HTTP layer and main see of the worker
// pool.
//
//	scheduler := NewScheduler(resolver, time.Minute, 2)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewTrackViewTask(articleID, tracker, articleRepo))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

type BannerRefresher interface {
	Refresh(ctx context.Context) int
}

type ViewTracker interface {
	Track(ctx context.Context, articleID string) (bool, error)
}

type ViewCounter interface {
	IncrementViews(ctx context.Context, id string) error
}
