package ranking

import (
	"context"
	"fmt"
	"time"

	"alfredoptarigan/job-matcher/internal/cache"
)

const pageCursorTTL = 24 * time.Hour

// PageTracker enforces the page reset on criteria change. It remembers, per
// user, the fingerprint of the last criteria served.
type PageTracker struct {
	store cache.Store
	ttl   time.Duration
}

func NewPageTracker(store cache.Store) *PageTracker {
	return &PageTracker{store: store, ttl: pageCursorTTL}
}

// Resolve returns the page to serve. It is requested when fingerprint equals
// the one last seen for userID, and 1 otherwise.
func (t *PageTracker) Resolve(ctx context.Context, userID, fingerprint string, requested int) (int, error) {
	key := fmt.Sprintf("cursor:%s", userID)

	var last string
	found, err := t.store.Get(ctx, key, &last)
	if err != nil {
		return 1, fmt.Errorf("load page cursor: %w", err)
	}

	if found && last == fingerprint {
		if requested < 1 {
			return 1, nil
		}
		return requested, nil
	}

	if err := t.store.Set(ctx, key, fingerprint, t.ttl); err != nil {
		return 1, fmt.Errorf("save page cursor: %w", err)
	}
	return 1, nil
}
