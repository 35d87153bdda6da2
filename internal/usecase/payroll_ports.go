package usecase

//go:generate mockgen -source=payroll_ports.go -destination=mocks/mock_payroll_ports.go -package=mocks

import (
	"context"
	"time"

	"github.com/lexpractice/lexledger/internal/domain"
)

// PayrollRepository defines data access for payroll records.
type PayrollRepository interface {
	Create(ctx context.Context, tx Transaction, record *domain.PayrollRecord) error
	GetByID(ctx context.Context, id string) (*domain.PayrollRecord, error)
	UpdateStatus(ctx context.Context, id string, status domain.PayrollStatus, paymentDate *time.Time) (*domain.PayrollRecord, error)
	List(ctx context.Context, filter domain.PayrollFilter) ([]*domain.PayrollRecord, error)
	// Totals aggregates one staff member's records for a calendar year.
	Totals(ctx context.Context, staffID string, year int) (*domain.PayrollTotals, error)
	// AnnualTotals aggregates every active staff member for a calendar year.
	AnnualTotals(ctx context.Context, year int) ([]*domain.PayrollTotals, error)
}

// StaffDirectory looks up the staff a payroll record is paid to.
type StaffDirectory interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
