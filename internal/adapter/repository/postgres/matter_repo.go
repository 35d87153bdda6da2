package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/infrastructure/postgres/generated"
	"github.com/lexpractice/lexledger/internal/usecase"
)

const matterColumns = `
	m.id, m.case_number, m.client_id, c.client_name, m.matter_name, m.matter_type, m.status,
	m.assigned_partner_id, m.assigned_associate_id, p.name, a.name,
	m.estimated_value, m.description, m.opening_date, m.closing_date, m.created_at, m.updated_at,
	COALESCE(t.entries, 0), COALESCE(t.unbilled, 0)`

const matterFrom = `
	FROM matters m
	JOIN clients c ON c.id = m.client_id
	LEFT JOIN users p ON p.id = m.assigned_partner_id
	LEFT JOIN users a ON a.id = m.assigned_associate_id
	LEFT JOIN (
		SELECT matter_id,
		       COUNT(*) AS entries,
		       SUM(CASE WHEN is_billable AND NOT is_invoiced THEN hours * hourly_rate ELSE 0 END) AS unbilled
		FROM time_entries
		GROUP BY matter_id
	) t ON t.matter_id = m.id`

// MatterRepository implements usecase.MatterRepository.
type MatterRepository struct {
	db      generated.DBTX
	queries *generated.Queries
}

// NewMatterRepository creates a new MatterRepository.
func NewMatterRepository(db generated.DBTX) *MatterRepository {
	return &MatterRepository{db: db, queries: generated.New(db)}
}

// Create inserts a matter. A reused case number yields ErrDuplicateCaseNumber.
func (r *MatterRepository) Create(ctx context.Context, matter *domain.Matter) error {
	query := `
		INSERT INTO matters (
			id, case_number, client_id, matter_name, matter_type, status,
			assigned_partner_id, assigned_associate_id, estimated_value, description,
			opening_date, closing_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		matter.ID,
		matter.CaseNumber,
		matter.ClientID,
		matter.MatterName,
		matter.MatterType,
		string(matter.Status),
		nullIfEmpty(matter.AssignedPartnerID),
		nullIfEmpty(matter.AssignedAssociateID),
		matter.EstimatedValue,
		matter.Description,
		matter.OpeningDate,
		dateOnly(matter.ClosingDate),
		matter.CreatedAt,
		matter.UpdatedAt,
	)
	if isUniqueViolation(err, "matters_case_number_key") {
		return domain.ErrDuplicateCaseNumber
	}

	return err
}

// GetByID retrieves a matter with its client and assignee names.
func (r *MatterRepository) GetByID(ctx context.Context, id string) (*domain.Matter, error) {
	query := `SELECT ` + matterColumns + matterFrom + ` WHERE m.id = $1`

	matter, err := scanMatter(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMatterNotFound
	}

	return matter, err
}

// LockForTrust takes the matter row lock for the rest of tx.
func (r *MatterRepository) LockForTrust(ctx context.Context, tx usecase.Transaction, id string) (*domain.Matter, error) {
	row, err := r.queries.WithTx(pgxTxFrom(tx)).GetMatterByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMatterNotFound
		}
		return nil, err
	}

	return rowToMatter(row), nil
}

// Update applies the non-nil fields of update and returns the stored matter.
func (r *MatterRepository) Update(ctx context.Context, id string, update domain.MatterUpdate, updatedAt time.Time) (*domain.Matter, error) {
	if update.IsEmpty() {
		return nil, domain.ErrNothingToUpdate
	}

	sets := []string{}
	args := []any{}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.MatterName != nil {
		set("matter_name", *update.MatterName)
	}
	if update.MatterType != nil {
		set("matter_type", *update.MatterType)
	}
	if update.Status != nil {
		set("status", string(*update.Status))
	}
	if update.AssignedPartnerID != nil {
		set("assigned_partner_id", nullIfEmpty(*update.AssignedPartnerID))
	}
	if update.AssignedAssociateID != nil {
		set("assigned_associate_id", nullIfEmpty(*update.AssignedAssociateID))
	}
	if update.EstimatedValue != nil {
		set("estimated_value", *update.EstimatedValue)
	}
	if update.Description != nil {
		set("description", *update.Description)
	}
	if update.ClosingDate != nil {
		set("closing_date", dateOnly(update.ClosingDate))
	}
	set("updated_at", updatedAt)

	args = append(args, id)
	query := fmt.Sprintf("UPDATE matters SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrMatterNotFound
	}

	return r.GetByID(ctx, id)
}

// List returns matters matching filter, most recently updated first, and the
// total number of matches.
func (r *MatterRepository) List(ctx context.Context, filter domain.MatterFilter) ([]*domain.Matter, int64, error) {
	where := []string{"1=1"}
	args := []any{}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("m.status = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(m.case_number ILIKE $%d OR m.matter_name ILIKE $%d OR c.client_name ILIKE $%d)", n, n, n))
	}
	clause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM matters m JOIN clients c ON c.id = m.client_id` + clause
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + matterColumns + matterFrom + clause +
		fmt.Sprintf(" ORDER BY m.updated_at DESC, m.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var matters []*domain.Matter
	for rows.Next() {
		matter, err := scanMatter(rows)
		if err != nil {
			return nil, 0, err
		}
		matters = append(matters, matter)
	}

	return matters, total, rows.Err()
}

// DashboardStats summarises matter counts, unbilled time and trust held.
func (r *MatterRepository) DashboardStats(ctx context.Context, recent int) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'Open'),
			COUNT(*) FILTER (WHERE status = 'Pending'),
			COUNT(*) FILTER (WHERE status = 'Closed'),
			COUNT(*)
		FROM matters
	`).Scan(&stats.OpenMatters, &stats.PendingMatters, &stats.ClosedMatters, &stats.TotalMatters)
	if err != nil {
		return nil, fmt.Errorf("count matters: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(hours), 0), COALESCE(SUM(hours * hourly_rate), 0)
		FROM time_entries
		WHERE is_billable AND NOT is_invoiced
	`).Scan(&stats.UnbilledHours, &stats.UnbilledValue)
	if err != nil {
		return nil, fmt.Errorf("sum unbilled time: %w", err)
	}
	stats.UnbilledValue = stats.UnbilledValue.Round(domain.MoneyPlaces)

	total, err := r.queries.SumLatestTrustBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum trust balances: %w", err)
	}
	stats.TotalTrust = numericToDecimal(total)

	rows, err := r.db.Query(ctx, `
		SELECT m.case_number, m.matter_name, m.status, c.client_name, m.updated_at
		FROM matters m
		JOIN clients c ON c.id = m.client_id
		ORDER BY m.updated_at DESC
		LIMIT $1
	`, recent)
	if err != nil {
		return nil, fmt.Errorf("recent matters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rm domain.RecentMatter
		var status string
		if err := rows.Scan(&rm.CaseNumber, &rm.MatterName, &status, &rm.ClientName, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		rm.Status = domain.MatterStatus(status)
		stats.RecentActivity = append(stats.RecentActivity, rm)
	}

	return stats, rows.Err()
}

func scanMatter(row pgx.Row) (*domain.Matter, error) {
	var (
		m                      domain.Matter
		status                 string
		partnerID, associateID *string
		partnerName, assocName *string
		unbilled               decimal.Decimal
	)

	err := row.Scan(
		&m.ID,
		&m.CaseNumber,
		&m.ClientID,
		&m.ClientName,
		&m.MatterName,
		&m.MatterType,
		&status,
		&partnerID,
		&associateID,
		&partnerName,
		&assocName,
		&m.EstimatedValue,
		&m.Description,
		&m.OpeningDate,
		&m.ClosingDate,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.TimeEntriesCount,
		&unbilled,
	)
	if err != nil {
		return nil, err
	}

	m.Status = domain.MatterStatus(status)
	m.AssignedPartnerID = derefString(partnerID)
	m.AssignedAssociateID = derefString(associateID)
	m.PartnerName = derefString(partnerName)
	m.AssociateName = derefString(assocName)
	m.UnbilledAmount = unbilled.Round(domain.MoneyPlaces)

	return &m, nil
}

func rowToMatter(row generated.Matter) *domain.Matter {
	return &domain.Matter{
		ID:                  row.ID,
		CaseNumber:          row.CaseNumber,
		ClientID:            row.ClientID,
		MatterName:          row.MatterName,
		MatterType:          row.MatterType,
		Status:              domain.MatterStatus(row.Status),
		AssignedPartnerID:   textOrEmpty(row.AssignedPartnerID),
		AssignedAssociateID: textOrEmpty(row.AssignedAssociateID),
		EstimatedValue:      numericToNullDecimal(row.EstimatedValue),
		Description:         row.Description,
		OpeningDate:         row.OpeningDate.Time,
		ClosingDate:         pgDateToTimePtr(row.ClosingDate),
		CreatedAt:           row.CreatedAt.Time,
		UpdatedAt:           row.UpdatedAt.Time,
	}
}
