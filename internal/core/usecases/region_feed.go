package usecases

import (
	"context"
	"sync"

	"github.com/socat/omegeo/internal/core/domain"
	"github.com/socat/omegeo/internal/core/ports"
)

// RegionFeed keeps the most recently published regions in memory, newest
// last. It is fed from the event stream so every API replica sees regions
// drawn through any other.
type RegionFeed struct {
	mu    sync.RWMutex
	size  int
	items []domain.SearchRegion
}

// NewRegionFeed creates a feed holding at most size regions.
func NewRegionFeed(size int) *RegionFeed {
	if size <= 0 {
		size = 100
	}
	return &RegionFeed{size: size}
}

// Record appends a region, dropping the oldest beyond capacity.
func (f *RegionFeed) Record(_ context.Context, region *domain.SearchRegion) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, *region)
	if over := len(f.items) - f.size; over > 0 {
		f.items = append(f.items[:0:0], f.items[over:]...)
	}
	return nil
}

// Follow subscribes the feed to region events.
func (f *RegionFeed) Follow(ctx context.Context, events ports.EventSubscriber) error {
	return events.SubscribeRegions(ctx, f.Record)
}

// Recent returns up to limit regions, newest first.
func (f *RegionFeed) Recent(limit int) []domain.SearchRegion {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if limit <= 0 || limit > len(f.items) {
		limit = len(f.items)
	}
	out := make([]domain.SearchRegion, 0, limit)
	for i := len(f.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.items[i])
	}
	return out
}
