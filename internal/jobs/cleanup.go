package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/dukerupert/festa/internal/domain"
)

// Job type constants for cleanup jobs
const (
	JobTypeCleanupStaleCarts = "cleanup:stale_carts"
)

// CleanupResult holds the result of a cleanup operation
type CleanupResult struct {
	CartsDeleted int64 `json:"carts_deleted"`
}

// CleanupStaleCarts deletes persisted carts nobody touched within retention.
// Kit drafts live in memory and expire on their own.
func CleanupStaleCarts(ctx context.Context, carts domain.CartRepository, retention time.Duration, now time.Time) (*CleanupResult, error) {
	if retention <= 0 {
		return nil, fmt.Errorf("cart retention must be positive, got %s", retention)
	}

	n, err := carts.PurgeBefore(ctx, now.Add(-retention))
	if err != nil {
		return nil, fmt.Errorf("failed to purge stale carts: %w", err)
	}
	return &CleanupResult{CartsDeleted: n}, nil
}
