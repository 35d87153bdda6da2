package postgres

import (
	"context"

	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/infrastructure/postgres/generated"
)

// TimeEntryRepository implements usecase.TimeEntryRepository.
type TimeEntryRepository struct {
	db generated.DBTX
}

// NewTimeEntryRepository creates a new TimeEntryRepository.
func NewTimeEntryRepository(db generated.DBTX) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

// Create inserts a time entry.
func (r *TimeEntryRepository) Create(ctx context.Context, entry *domain.TimeEntry) error {
	query := `
		INSERT INTO time_entries (id, matter_id, user_id, entry_date, hours, hourly_rate, description, is_billable, is_invoiced, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.MatterID,
		entry.UserID,
		*dateOnly(&entry.EntryDate),
		entry.Hours,
		entry.HourlyRate,
		entry.Description,
		entry.IsBillable,
		entry.IsInvoiced,
		entry.CreatedAt,
	)

	return err
}

// ListByMatter returns a matter's time entries, latest work date first.
func (r *TimeEntryRepository) ListByMatter(ctx context.Context, matterID string) ([]*domain.TimeEntry, error) {
	query := `
		SELECT t.id, t.matter_id, t.user_id, u.name, t.entry_date, t.hours, t.hourly_rate,
		       t.description, t.is_billable, t.is_invoiced, t.created_at
		FROM time_entries t
		JOIN users u ON u.id = t.user_id
		WHERE t.matter_id = $1
		ORDER BY t.entry_date DESC, t.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, matterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.TimeEntry
	for rows.Next() {
		var e domain.TimeEntry
		if err := rows.Scan(
			&e.ID,
			&e.MatterID,
			&e.UserID,
			&e.UserName,
			&e.EntryDate,
			&e.Hours,
			&e.HourlyRate,
			&e.Description,
			&e.IsBillable,
			&e.IsInvoiced,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
