// File: internal/repository/stats/interface.go
package stats

import (
	"context"

	"github.com/axiompharma/compliance-copilot/internal/domain"
)

// StatsRepository maintains the per-user aggregate counters.
type StatsRepository interface {
	// ApplyDelta adds the signed delta atomically, clamping every counter
	// at zero. Concurrent or out-of-order deltas can never drive a counter
	// negative; correctness relies on the store's atomic upsert, not on
	// application locks.
	ApplyDelta(ctx context.Context, userID string, delta domain.StatsDelta) error
	Get(ctx context.Context, userID string) (*domain.UserStats, error)
	// Replace overwrites the row wholesale. Used only by the explicit
	// recompute endpoint.
	Replace(ctx context.Context, s *domain.UserStats) error
}
