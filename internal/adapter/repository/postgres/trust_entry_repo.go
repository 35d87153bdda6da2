package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/infrastructure/postgres/generated"
	"github.com/lexpractice/lexledger/internal/usecase"
)

// TrustEntryRepository implements usecase.TrustEntryRepository.
type TrustEntryRepository struct {
	queries *generated.Queries
}

// NewTrustEntryRepository creates a new TrustEntryRepository.
func NewTrustEntryRepository(db generated.DBTX) *TrustEntryRepository {
	return &TrustEntryRepository{queries: generated.New(db)}
}

// Create inserts an entry inside tx.
func (r *TrustEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.TrustEntry) error {
	queries := r.queries.WithTx(pgxTxFrom(tx))

	_, err := queries.CreateTrustEntry(ctx, generated.CreateTrustEntryParams{
		ID:              entry.ID,
		MatterID:        entry.MatterID,
		TransactionDate: timeToPgDate(entry.TransactionDate),
		EntryType:       string(entry.Type),
		Description:     entry.Description,
		ReferenceNumber: entry.ReferenceNumber,
		Amount:          decimalToNumeric(entry.Amount),
		Balance:         decimalToNumeric(entry.Balance),
		CreatedBy:       entry.CreatedBy,
		CreatedAt:       timeToPgTimestamptz(entry.CreatedAt),
	})

	return err
}

// LatestTx returns the newest entry as seen by tx, or nil.
func (r *TrustEntryRepository) LatestTx(ctx context.Context, tx usecase.Transaction, matterID string) (*domain.TrustEntry, error) {
	return latestEntry(ctx, r.queries.WithTx(pgxTxFrom(tx)), matterID)
}

// Latest returns the newest committed entry, or nil.
func (r *TrustEntryRepository) Latest(ctx context.Context, matterID string) (*domain.TrustEntry, error) {
	return latestEntry(ctx, r.queries, matterID)
}

func latestEntry(ctx context.Context, queries *generated.Queries, matterID string) (*domain.TrustEntry, error) {
	row, err := queries.GetLatestTrustEntry(ctx, matterID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return rowToTrustEntry(row), nil
}

// ListByMatter returns entries newest first.
func (r *TrustEntryRepository) ListByMatter(ctx context.Context, matterID string, limit, offset int) ([]*domain.TrustEntry, error) {
	rows, err := r.queries.ListTrustEntriesByMatter(ctx, generated.ListTrustEntriesByMatterParams{
		MatterID: matterID,
		Limit:    int32(limit),
		Offset:   int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToTrustEntries(rows), nil
}

// History returns every entry in creation order.
func (r *TrustEntryRepository) History(ctx context.Context, matterID string) ([]*domain.TrustEntry, error) {
	rows, err := r.queries.ListTrustEntryHistory(ctx, matterID)
	if err != nil {
		return nil, err
	}

	return rowsToTrustEntries(rows), nil
}

func rowsToTrustEntries(rows []generated.TrustEntry) []*domain.TrustEntry {
	entries := make([]*domain.TrustEntry, len(rows))
	for i, row := range rows {
		entries[i] = rowToTrustEntry(row)
	}
	return entries
}

func rowToTrustEntry(row generated.TrustEntry) *domain.TrustEntry {
	return &domain.TrustEntry{
		ID:              row.ID,
		MatterID:        row.MatterID,
		TransactionDate: row.TransactionDate.Time,
		Type:            domain.EntryType(row.EntryType),
		Description:     row.Description,
		ReferenceNumber: row.ReferenceNumber,
		Amount:          numericToDecimal(row.Amount),
		Balance:         numericToDecimal(row.Balance),
		CreatedBy:       row.CreatedBy,
		CreatedAt:       row.CreatedAt.Time,
	}
}
