package banner

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Source interface {
	ListBanners(ctx context.Context) ([]Banner, error)
}

// Select picks the winning banner of every position: live records only,
// highest priority first, earliest record on ties.
func Select(banners []Banner, now time.Time) map[Position]Banner {
	winners := make(map[Position]Banner)
	for _, b := range banners {
		if !b.Live(now) {
			continue
		}
		current, ok := winners[b.Position]
		if !ok || b.Priority > current.Priority {
			winners[b.Position] = b
		}
	}
	return winners
}

// Resolver serves the precomputed winners. The map only changes on Refresh.
type Resolver struct {
	source      Source
	now         func() time.Time
	mu          sync.RWMutex
	winners     map[Position]Banner
	refreshedAt time.Time
}

func NewResolver(source Source) *Resolver {
	return &Resolver{
		source:  source,
		now:     time.Now,
		winners: make(map[Position]Banner),
	}
}

// Refresh re-reads the catalog and recomputes the winners. A failed fetch
// leaves no banner for any position; the error is logged, not returned.
func (r *Resolver) Refresh(ctx context.Context) int {
	now := r.now()

	banners, err := r.source.ListBanners(ctx)
	if err != nil {
		slog.Error("Failed to fetch banners", "error", err)
		banners = nil
	}

	winners := Select(banners, now)

	r.mu.Lock()
	r.winners = winners
	r.refreshedAt = now
	r.mu.Unlock()

	slog.Debug("Banners refreshed", "fetched", len(banners), "positions", len(winners))

	return len(winners)
}

// GetBanner returns the winner for position or nil.
func (r *Resolver) GetBanner(position Position) *Banner {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.winners[position]
	if !ok {
		return nil
	}
	return &b
}

func (r *Resolver) Winners() map[Position]Banner {
	r.mu.RLock()
	defer r.mu.RUnlock()

	winnersCopy := make(map[Position]Banner, len(r.winners))
	for k, v := range r.winners {
		winnersCopy[k] = v
	}
	return winnersCopy
}

func (r *Resolver) RefreshedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.refreshedAt
}
