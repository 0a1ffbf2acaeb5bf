package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event IDs a handler already consumed so
// redelivered purchase events do not produce duplicate notifications.
type IdempotencyStore interface {
	// MarkProcessed claims eventID for ttl. It returns false when the ID was
	// already claimed and the claim has not expired.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	Close() error
}

// IdempotencyConfig controls duplicate suppression for event handlers.
type IdempotencyConfig struct {
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig keeps claims for a day
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{TTL: 24 * time.Hour, Enabled: true}
}
