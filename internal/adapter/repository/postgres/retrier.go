package postgres

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// PostgreSQL error codes worth waiting out while the server starts.
const (
	pgErrCannotConnectNow    = "57P03"
	pgErrTooManyConnections  = "53300"
	pgErrClassConnectionFail = "08"
)

// Retrier retries connection attempts with exponential backoff. It is meant
// for startup only; ledger writes are never retried.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	logger          zerolog.Logger
}

// NewRetrier creates a Retrier that waits up to a minute for the database.
func NewRetrier(logger zerolog.Logger) *Retrier {
	return &Retrier{
		maxRetries:      10,
		initialInterval: 250 * time.Millisecond,
		maxInterval:     5 * time.Second,
		maxElapsedTime:  time.Minute,
		logger:          logger.With().Str("component", "db_retrier").Logger(),
	}
}

// Retry runs operation until it succeeds, fails with a non-transient error,
// or the retry budget runs out.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	retryCount := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		if !isRetryableError(err) {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > r.maxRetries {
			return backoff.Permanent(err)
		}

		r.logger.Warn().
			Err(err).
			Int("retry", retryCount).
			Msg("database not reachable, retrying")

		return err
	}, backoff.WithContext(b, ctx))
}

// isRetryableError reports whether err looks like a database that is not
// accepting connections yet.
func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrCannotConnectNow ||
			pgErr.Code == pgErrTooManyConnections ||
			strings.HasPrefix(pgErr.Code, pgErrClassConnectionFail)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
