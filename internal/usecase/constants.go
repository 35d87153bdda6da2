package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// RecentActivityLimit is the number of matters on the dashboard activity list
	RecentActivityLimit = 5
)
