package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lexpractice/lexledger/internal/adapter/http/dto"
	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/usecase"
)

// PayrollService defines the behavior needed by PayrollHandler.
type PayrollService interface {
	Schedule() *domain.TaxSchedule
	Calculate(in domain.PayInput) (domain.PayCalculation, error)
	Process(ctx context.Context, input usecase.ProcessPayrollInput) (*domain.PayrollRecord, error)
	List(ctx context.Context, filter domain.PayrollFilter) ([]*domain.PayrollRecord, error)
	UpdateStatus(ctx context.Context, actorID, id string, status domain.PayrollStatus, paymentDate *time.Time) (*domain.PayrollRecord, error)
	StaffSummary(ctx context.Context, actor domain.Actor, staffID string, year int) (*usecase.StaffPayrollSummary, error)
	AnnualReport(ctx context.Context, year int) (*usecase.AnnualPayrollReport, error)
}

// PayrollHandler serves the tax calculator and payroll records.
type PayrollHandler struct {
	payrollUC PayrollService
}

// NewPayrollHandler creates a new PayrollHandler.
func NewPayrollHandler(payrollUC PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollUC: payrollUC}
}

// Calculate previews a pay period without storing it.
func (h *PayrollHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req dto.PayCalculationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	calc, err := h.payrollUC.Calculate(req.ToDomain())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.PayCalculationFromDomain(calc, h.payrollUC.Schedule()))
}

// Process calculates and stores pay for a staff member.
func (h *PayrollHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req dto.ProcessPayrollRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := h.payrollUC.Process(r.Context(), req.ToUseCaseInput(actorFrom(r).ID))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, dto.PayrollRecordFromDomain(record))
}

// List lists payroll records. Filters: staffId, status, year.
func (h *PayrollHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, err := h.payrollUC.List(r.Context(), domain.PayrollFilter{
		StaffID: q.Get("staffId"),
		Status:  domain.PayrollStatus(q.Get("status")),
		Year:    parseIntQuery(r, "year", 0),
		Limit:   parseIntQuery(r, "limit", 50),
		Offset:  parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.PayrollRecordsFromDomain(records))
}

// UpdateStatus moves a record to Processed or Paid.
func (h *PayrollHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePayrollStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := h.payrollUC.UpdateStatus(r.Context(), actorFrom(r).ID, chi.URLParam(r, "id"), req.Status, req.PaymentTime())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.PayrollRecordFromDomain(record))
}

// Staff returns one staff member's records and year-to-date totals.
func (h *PayrollHandler) Staff(w http.ResponseWriter, r *http.Request) {
	summary, err := h.payrollUC.StaffSummary(r.Context(), actorFrom(r), chi.URLParam(r, "staffId"), parseIntQuery(r, "year", 0))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.StaffPayrollFromUseCase(summary))
}

// AnnualReport returns per-staff totals for a year.
func (h *PayrollHandler) AnnualReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.payrollUC.AnnualReport(r.Context(), parseIntQuery(r, "year", 0))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.AnnualReportFromUseCase(report))
}
