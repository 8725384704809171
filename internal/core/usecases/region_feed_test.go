package usecases_test

import (
	"context"
	"testing"

	"github.com/socat/omegeo/internal/core/domain"
	"github.com/socat/omegeo/internal/core/usecases"
)

// --- Mock EventSubscriber ---

type mockSubscriber struct {
	handler func(ctx context.Context, region *domain.SearchRegion) error
}

func (m *mockSubscriber) SubscribeRegions(ctx context.Context, handler func(ctx context.Context, region *domain.SearchRegion) error) error {
	m.handler = handler
	return nil
}

// --- Tests ---

func TestRegionFeed_RecentNewestFirst(t *testing.T) {
	feed := usecases.NewRegionFeed(3)
	for _, id := range []string{"a", "b", "c", "d"} {
		_ = feed.Record(context.Background(), &domain.SearchRegion{ID: id})
	}

	got := feed.Recent(10)
	if len(got) != 3 {
		t.Fatalf("expected capacity 3, got %d", len(got))
	}
	want := []string{"d", "c", "b"}
	for i, r := range got {
		if r.ID != want[i] {
			t.Errorf("Recent()[%d] = %s, want %s", i, r.ID, want[i])
		}
	}

	if got := feed.Recent(1); len(got) != 1 || got[0].ID != "d" {
		t.Errorf("Recent(1) = %+v", got)
	}
}

func TestRegionFeed_Empty(t *testing.T) {
	feed := usecases.NewRegionFeed(0)
	if got := feed.Recent(5); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestRegionFeed_Follow(t *testing.T) {
	feed := usecases.NewRegionFeed(10)
	sub := &mockSubscriber{}
	if err := feed.Follow(context.Background(), sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.handler == nil {
		t.Fatal("expected a handler to be registered")
	}

	_ = sub.handler(context.Background(), &domain.SearchRegion{ID: "x", Source: "map"})
	got := feed.Recent(0)
	if len(got) != 1 || got[0].Source != "map" {
		t.Errorf("expected the delivered region in the feed, got %+v", got)
	}
}
