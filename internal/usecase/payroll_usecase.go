package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/infrastructure/metrics"
)

// PayrollUseCase runs the tax calculator and manages payroll records.
type PayrollUseCase struct {
	txManager   TransactionManager
	payrollRepo PayrollRepository
	staff       StaffDirectory
	auditRepo   AuditRepository
	idGen       IDGenerator
	calculator  *domain.PayCalculator
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	now         Clock
}

// NewPayrollUseCase creates a new PayrollUseCase.
func NewPayrollUseCase(
	txManager TransactionManager,
	payrollRepo PayrollRepository,
	staff StaffDirectory,
	auditRepo AuditRepository,
	idGen IDGenerator,
	calculator *domain.PayCalculator,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *PayrollUseCase {
	return &PayrollUseCase{
		txManager:   txManager,
		payrollRepo: payrollRepo,
		staff:       staff,
		auditRepo:   auditRepo,
		idGen:       idGen,
		calculator:  calculator,
		metrics:     m,
		logger:      logger.With().Str("component", "payroll").Logger(),
		now:         systemClock,
	}
}

// WithClock replaces the time source.
func (uc *PayrollUseCase) WithClock(clock Clock) *PayrollUseCase {
	uc.now = clock
	return uc
}

// Schedule returns the tax table in use.
func (uc *PayrollUseCase) Schedule() *domain.TaxSchedule {
	return uc.calculator.Schedule()
}

// Calculate previews a pay calculation without persisting it.
func (uc *PayrollUseCase) Calculate(in domain.PayInput) (domain.PayCalculation, error) {
	if err := in.Validate(); err != nil {
		return domain.PayCalculation{}, err
	}

	if uc.metrics != nil {
		uc.metrics.PayrollCalculations.Inc()
	}

	return uc.calculator.Calculate(in), nil
}

// ProcessPayrollInput is the input for Process.
type ProcessPayrollInput struct {
	PayPeriodStart time.Time
	PayPeriodEnd   time.Time
	StaffID        string
	ActorID        string
	Notes          string
	Pay            domain.PayInput
}

func (in ProcessPayrollInput) validate() error {
	verr := &domain.ValidationError{}

	if strings.TrimSpace(in.StaffID) == "" {
		verr.Add("staffId", "is required")
	}
	verr.AddErr("payPeriodStart", domain.ValidateDate(in.PayPeriodStart))
	verr.AddErr("payPeriodEnd", domain.ValidateDate(in.PayPeriodEnd))
	if !in.PayPeriodStart.IsZero() && !in.PayPeriodEnd.IsZero() && in.PayPeriodEnd.Before(in.PayPeriodStart) {
		verr.AddErr("payPeriodEnd", domain.ErrInvalidPayPeriod)
	}

	var payErr *domain.ValidationError
	if errors.As(in.Pay.Validate(), &payErr) {
		verr.Fields = append(verr.Fields, payErr.Fields...)
	}

	return verr.Err()
}

// Process calculates pay for a staff member and stores it as a Pending record.
func (uc *PayrollUseCase) Process(ctx context.Context, input ProcessPayrollInput) (*domain.PayrollRecord, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	staff, err := uc.staff.GetByID(ctx, input.StaffID)
	if err != nil {
		return nil, err
	}

	calc := uc.calculator.Calculate(input.Pay)
	now := uc.now().UTC()

	record := &domain.PayrollRecord{
		ID:             uc.idGen.Generate(),
		StaffID:        staff.ID,
		StaffName:      staff.Name,
		StaffEmail:     staff.Email,
		PayPeriodStart: input.PayPeriodStart,
		PayPeriodEnd:   input.PayPeriodEnd,
		Calculation:    calc,
		Status:         domain.PayrollStatusPending,
		Notes:          input.Notes,
		CreatedBy:      input.ActorID,
		CreatedAt:      now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.payrollRepo.Create(txCtx, tx, record); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		auditLog := newAuditLog(ctx, input.ActorID, domain.AuditActionPayrollProcess, domain.ResourcePayroll, record.ID, nil, record, now)
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		net, _ := calc.NetPay.Float64()
		uc.metrics.PayrollCalculations.Inc()
		uc.metrics.PayrollProcessed.Inc()
		uc.metrics.PayrollNetPay.Observe(net)
	}

	uc.logger.Info().
		Str("payroll_id", record.ID).
		Str("staff_id", record.StaffID).
		Str("net_pay", calc.NetPay.StringFixed(2)).
		Msg("payroll processed")

	return record, nil
}

// List returns payroll records matching filter, newest period first.
func (uc *PayrollUseCase) List(ctx context.Context, filter domain.PayrollFilter) ([]*domain.PayrollRecord, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, filter.Status)
	}

	filter.Limit, filter.Offset, _ = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.payrollRepo.List(ctx, filter)
}

// UpdateStatus moves a record to status. The payment date is kept only for
// Paid records and defaults to today.
func (uc *PayrollUseCase) UpdateStatus(ctx context.Context, actorID, id string, status domain.PayrollStatus, paymentDate *time.Time) (*domain.PayrollRecord, error) {
	if !status.IsValid() {
		verr := &domain.ValidationError{}
		verr.Add("status", "must be Pending, Processed or Paid")
		return nil, verr
	}

	before, err := uc.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if status != domain.PayrollStatusPaid {
		paymentDate = nil
	} else if paymentDate == nil {
		today := uc.now().UTC().Truncate(24 * time.Hour)
		paymentDate = &today
	}

	record, err := uc.payrollRepo.UpdateStatus(ctx, id, status, paymentDate)
	if err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		auditLog := newAuditLog(ctx, actorID, domain.AuditActionPayrollStatus, domain.ResourcePayroll, id,
			domain.JSON{"status": before.Status}, domain.JSON{"status": record.Status}, uc.now().UTC())
		if err := uc.auditRepo.Create(ctx, auditLog); err != nil {
			return nil, err
		}
	}

	return record, nil
}

// StaffPayrollSummary is one staff member's records and year-to-date totals.
type StaffPayrollSummary struct {
	Staff   *domain.User
	Totals  *domain.PayrollTotals
	Records []*domain.PayrollRecord
	Year    int
}

// StaffSummary returns payroll for staffID. Staff may read their own; Admin
// and Partner may read anyone's.
func (uc *PayrollUseCase) StaffSummary(ctx context.Context, actor domain.Actor, staffID string, year int) (*StaffPayrollSummary, error) {
	if actor.ID != staffID && !actor.Role.CanViewPayroll() {
		return nil, domain.ErrInsufficientRole
	}

	if year == 0 {
		year = uc.now().Year()
	}

	staff, err := uc.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	staff.HashedPassword = ""

	records, err := uc.payrollRepo.List(ctx, domain.PayrollFilter{StaffID: staffID, Year: year, Limit: 100})
	if err != nil {
		return nil, err
	}

	totals, err := uc.payrollRepo.Totals(ctx, staffID, year)
	if err != nil {
		return nil, err
	}

	return &StaffPayrollSummary{Staff: staff, Totals: totals, Records: records, Year: year}, nil
}

// AnnualPayrollReport aggregates a calendar year of payroll.
type AnnualPayrollReport struct {
	Staff []*domain.PayrollTotals
	Total domain.PayrollTotals
	Year  int
}

// AnnualReport returns per-staff totals for year plus a grand total.
func (uc *PayrollUseCase) AnnualReport(ctx context.Context, year int) (*AnnualPayrollReport, error) {
	if year == 0 {
		year = uc.now().Year()
	}

	rows, err := uc.payrollRepo.AnnualTotals(ctx, year)
	if err != nil {
		return nil, err
	}

	report := &AnnualPayrollReport{
		Staff: rows,
		Year:  year,
		Total: domain.PayrollTotals{
			TotalEarnings: decimal.Zero,
			TotalTax:      decimal.Zero,
			EmployeeSuper: decimal.Zero,
			EmployerSuper: decimal.Zero,
			TotalNetPay:   decimal.Zero,
		},
	}

	for _, r := range rows {
		report.Total.PayPeriods += r.PayPeriods
		report.Total.TotalEarnings = report.Total.TotalEarnings.Add(r.TotalEarnings)
		report.Total.TotalTax = report.Total.TotalTax.Add(r.TotalTax)
		report.Total.EmployeeSuper = report.Total.EmployeeSuper.Add(r.EmployeeSuper)
		report.Total.EmployerSuper = report.Total.EmployerSuper.Add(r.EmployerSuper)
		report.Total.TotalNetPay = report.Total.TotalNetPay.Add(r.TotalNetPay)
	}

	return report, nil
}
