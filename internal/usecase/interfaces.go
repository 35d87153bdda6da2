package usecase

import (
	"context"
	"time"

	"github.com/lexpractice/lexledger/internal/domain"
)

// MatterRepository defines data access for matters.
type MatterRepository interface {
	Create(ctx context.Context, matter *domain.Matter) error
	GetByID(ctx context.Context, id string) (*domain.Matter, error)
	// LockForTrust locks the matter row for the rest of tx. All trust
	// mutations for a matter serialize on this lock.
	LockForTrust(ctx context.Context, tx Transaction, id string) (*domain.Matter, error)
	Update(ctx context.Context, id string, update domain.MatterUpdate, updatedAt time.Time) (*domain.Matter, error)
	List(ctx context.Context, filter domain.MatterFilter) ([]*domain.Matter, int64, error)
	DashboardStats(ctx context.Context, recent int) (*domain.DashboardStats, error)
}

// TrustEntryRepository defines data access for trust ledger entries.
type TrustEntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.TrustEntry) error
	// LatestTx returns the most recently created entry inside tx, or nil.
	LatestTx(ctx context.Context, tx Transaction, matterID string) (*domain.TrustEntry, error)
	// Latest returns the most recently created entry, or nil.
	Latest(ctx context.Context, matterID string) (*domain.TrustEntry, error)
	// ListByMatter returns entries newest first.
	ListByMatter(ctx context.Context, matterID string, limit, offset int) ([]*domain.TrustEntry, error)
	// History returns every entry in creation order.
	History(ctx context.Context, matterID string) ([]*domain.TrustEntry, error)
}

// ClientRepository defines data access for clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, search string, limit, offset int) ([]*domain.Client, error)
}

// TimeEntryRepository defines data access for time entries.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *domain.TimeEntry) error
	ListByMatter(ctx context.Context, matterID string) ([]*domain.TimeEntry, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, hashedPassword string, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique, lexically sortable IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore remembers responses to requests that carried an
// Idempotency-Key header.
type IdempotencyStore interface {
	// Reserve claims key for an in-flight request. If the key is already held
	// it returns false with the stored response, which is nil while the first
	// request is still running.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, []byte, error)
	// Complete stores the final response for key.
	Complete(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a reservation so the request can be retried.
	Release(ctx context.Context, key string) error
}

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}
