package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/infrastructure/postgres/generated"
	"github.com/lexpractice/lexledger/internal/usecase"
)

const payrollColumns = `
	p.id, p.staff_id, u.name, u.email, p.pay_period_start, p.pay_period_end, p.pay_frequency,
	p.gross_pay, p.allowances, p.overtime_pay, p.total_earnings, p.swt_tax,
	p.employee_super, p.employer_super, p.other_deductions, p.total_deductions, p.net_pay,
	p.annual_income, p.annual_tax, p.effective_rate, p.take_home_pct,
	p.status, p.payment_date, p.notes, p.created_by, p.created_at`

const payrollFrom = `
	FROM payroll p
	JOIN users u ON u.id = p.staff_id`

const payrollTotalsColumns = `
	u.id, u.name, u.role, COUNT(p.id),
	COALESCE(SUM(p.total_earnings), 0), COALESCE(SUM(p.swt_tax), 0),
	COALESCE(SUM(p.employee_super), 0), COALESCE(SUM(p.employer_super), 0),
	COALESCE(SUM(p.net_pay), 0)`

// PayrollRepository implements usecase.PayrollRepository.
type PayrollRepository struct {
	db generated.DBTX
}

// NewPayrollRepository creates a new PayrollRepository.
func NewPayrollRepository(db generated.DBTX) *PayrollRepository {
	return &PayrollRepository{db: db}
}

// Create inserts a payroll record inside tx.
func (r *PayrollRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.PayrollRecord) error {
	query := `
		INSERT INTO payroll (
			id, staff_id, pay_period_start, pay_period_end, pay_frequency,
			gross_pay, allowances, overtime_pay, total_earnings, swt_tax,
			employee_super, employer_super, other_deductions, total_deductions, net_pay,
			annual_income, annual_tax, effective_rate, take_home_pct,
			status, payment_date, notes, created_by, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		)
	`

	c := record.Calculation
	_, err := pgxTxFrom(tx).Exec(ctx, query,
		record.ID,
		record.StaffID,
		*dateOnly(&record.PayPeriodStart),
		*dateOnly(&record.PayPeriodEnd),
		string(c.Frequency),
		c.GrossPay,
		c.Allowances,
		c.OvertimePay,
		c.TotalEarnings,
		c.SWTTax,
		c.EmployeeSuper,
		c.EmployerSuper,
		c.OtherDeductions,
		c.TotalDeductions,
		c.NetPay,
		c.AnnualIncome,
		c.AnnualTax,
		c.EffectiveTaxRate,
		c.TakeHomePct,
		string(record.Status),
		dateOnly(record.PaymentDate),
		record.Notes,
		nullIfEmpty(record.CreatedBy),
		record.CreatedAt,
	)

	return err
}

// GetByID retrieves a payroll record with the staff member's name.
func (r *PayrollRepository) GetByID(ctx context.Context, id string) (*domain.PayrollRecord, error) {
	query := `SELECT ` + payrollColumns + payrollFrom + ` WHERE p.id = $1`

	record, err := scanPayroll(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPayrollNotFound
	}

	return record, err
}

// UpdateStatus sets the status and payment date and returns the stored record.
func (r *PayrollRepository) UpdateStatus(ctx context.Context, id string, status domain.PayrollStatus, paymentDate *time.Time) (*domain.PayrollRecord, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE payroll SET status = $1, payment_date = $2 WHERE id = $3`,
		string(status), dateOnly(paymentDate), id,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrPayrollNotFound
	}

	return r.GetByID(ctx, id)
}

// List returns records matching filter, latest pay period first.
func (r *PayrollRepository) List(ctx context.Context, filter domain.PayrollFilter) ([]*domain.PayrollRecord, error) {
	where := []string{"1=1"}
	args := []any{}

	if filter.StaffID != "" {
		args = append(args, filter.StaffID)
		where = append(where, fmt.Sprintf("p.staff_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		where = append(where, fmt.Sprintf("EXTRACT(YEAR FROM p.pay_period_start) = $%d", len(args)))
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + payrollColumns + payrollFrom +
		` WHERE ` + strings.Join(where, " AND ") +
		fmt.Sprintf(` ORDER BY p.pay_period_start DESC, p.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.PayrollRecord
	for rows.Next() {
		record, err := scanPayroll(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Totals sums one staff member's payroll for a calendar year.
func (r *PayrollRepository) Totals(ctx context.Context, staffID string, year int) (*domain.PayrollTotals, error) {
	query := `SELECT ` + payrollTotalsColumns + `
		FROM users u
		LEFT JOIN payroll p ON p.staff_id = u.id AND EXTRACT(YEAR FROM p.pay_period_start) = $2
		WHERE u.id = $1
		GROUP BY u.id, u.name, u.role`

	totals, err := scanPayrollTotals(r.db.QueryRow(ctx, query, staffID, year))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}

	return totals, err
}

// AnnualTotals sums a calendar year of payroll for every active staff member.
func (r *PayrollRepository) AnnualTotals(ctx context.Context, year int) ([]*domain.PayrollTotals, error) {
	query := `SELECT ` + payrollTotalsColumns + `
		FROM users u
		LEFT JOIN payroll p ON p.staff_id = u.id AND EXTRACT(YEAR FROM p.pay_period_start) = $1
		WHERE u.active
		GROUP BY u.id, u.name, u.role
		ORDER BY u.name`

	rows, err := r.db.Query(ctx, query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*domain.PayrollTotals
	for rows.Next() {
		t, err := scanPayrollTotals(rows)
		if err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}

	return totals, rows.Err()
}

func scanPayroll(row pgx.Row) (*domain.PayrollRecord, error) {
	var (
		rec       domain.PayrollRecord
		frequency string
		status    string
		createdBy *string
	)
	c := &rec.Calculation

	err := row.Scan(
		&rec.ID,
		&rec.StaffID,
		&rec.StaffName,
		&rec.StaffEmail,
		&rec.PayPeriodStart,
		&rec.PayPeriodEnd,
		&frequency,
		&c.GrossPay,
		&c.Allowances,
		&c.OvertimePay,
		&c.TotalEarnings,
		&c.SWTTax,
		&c.EmployeeSuper,
		&c.EmployerSuper,
		&c.OtherDeductions,
		&c.TotalDeductions,
		&c.NetPay,
		&c.AnnualIncome,
		&c.AnnualTax,
		&c.EffectiveTaxRate,
		&c.TakeHomePct,
		&status,
		&rec.PaymentDate,
		&rec.Notes,
		&createdBy,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Frequency = domain.PayFrequency(frequency)
	rec.Status = domain.PayrollStatus(status)
	rec.CreatedBy = derefString(createdBy)

	return &rec, nil
}

func scanPayrollTotals(row pgx.Row) (*domain.PayrollTotals, error) {
	var t domain.PayrollTotals
	var role string

	err := row.Scan(
		&t.StaffID,
		&t.StaffName,
		&role,
		&t.PayPeriods,
		&t.TotalEarnings,
		&t.TotalTax,
		&t.EmployeeSuper,
		&t.EmployerSuper,
		&t.TotalNetPay,
	)
	if err != nil {
		return nil, err
	}
	t.Role = domain.Role(role)

	return &t, nil
}
