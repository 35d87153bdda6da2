package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lexpractice/lexledger/internal/adapter/http/dto"
	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/usecase"
	"github.com/lexpractice/lexledger/internal/usecase/mocks"
)

var admin = domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}

func newPayrollFixture(t *testing.T) (*PayrollHandler, *mocks.MockPayrollRepository, *mocks.MockStaffDirectory) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPayrollRepository(ctrl)
	staff := mocks.NewMockStaffDirectory(ctrl)

	uc := usecase.NewPayrollUseCase(
		mocks.NewMockTransactionManager(),
		repo,
		staff,
		nil,
		mocks.NewMockIDGenerator(),
		domain.NewPayCalculator(domain.DefaultTaxSchedule()),
		nil,
		zerolog.Nop(),
	).WithClock(func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) })

	return NewPayrollHandler(uc), repo, staff
}

func TestPayrollHandler_Calculate(t *testing.T) {
	handler, _, _ := newPayrollFixture(t)

	body := map[string]any{"payFrequency": "Fortnightly", "grossPay": "3000"}
	rec := httptest.NewRecorder()
	handler.Calculate(rec, newRequest(http.MethodPost, "/api/v1/payroll/calculate", body, nil, admin))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var calc dto.PayCalculationResponse
	env := decodeEnvelope(t, rec, &calc)
	assert.True(t, env.Success)
	assert.Equal(t, "3000.00", calc.TotalEarnings)
	assert.Equal(t, "78000.00", calc.AnnualIncome)
	assert.Equal(t, "180.00", calc.EmployeeSuper)
	assert.Equal(t, "252.00", calc.EmployerSuper)
	assert.Regexp(t, `^\d+\.\d{2}%$`, calc.EffectiveTaxRate)
	assert.Equal(t, domain.DefaultTaxSchedule().Name, calc.TaxSchedule)
	assert.Len(t, calc.Breakdown, 8)
}

func TestPayrollHandler_Calculate_ValidationErrors(t *testing.T) {
	handler, _, _ := newPayrollFixture(t)

	body := map[string]any{"payFrequency": "Weekly", "grossPay": "-1"}
	rec := httptest.NewRecorder()
	handler.Calculate(rec, newRequest(http.MethodPost, "/", body, nil, admin))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec, nil)
	fields := map[string]bool{}
	for _, f := range env.Errors {
		fields[f.Field] = true
	}
	assert.True(t, fields["payFrequency"])
	assert.True(t, fields["grossPay"])
}

func TestPayrollHandler_Staff_ForbiddenForOtherStaff(t *testing.T) {
	handler, _, _ := newPayrollFixture(t)

	staff := domain.Actor{ID: "staff-1", Role: domain.RoleStaff}
	rec := httptest.NewRecorder()
	handler.Staff(rec, newRequest(http.MethodGet, "/", nil, map[string]string{"staffId": "staff-2"}, staff))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPayrollHandler_Staff_OwnRecords(t *testing.T) {
	handler, repo, staffDir := newPayrollFixture(t)

	staffDir.EXPECT().GetByID(gomock.Any(), "staff-1").Return(&domain.User{ID: "staff-1", Name: "Kila", Role: domain.RoleStaff}, nil)
	repo.EXPECT().List(gomock.Any(), domain.PayrollFilter{StaffID: "staff-1", Year: 2026, Limit: 100}).Return([]*domain.PayrollRecord{}, nil)
	repo.EXPECT().Totals(gomock.Any(), "staff-1", 2026).Return(&domain.PayrollTotals{
		StaffID:       "staff-1",
		PayPeriods:    2,
		TotalEarnings: decimal.NewFromInt(6000),
	}, nil)

	staff := domain.Actor{ID: "staff-1", Role: domain.RoleStaff}
	rec := httptest.NewRecorder()
	handler.Staff(rec, newRequest(http.MethodGet, "/", nil, map[string]string{"staffId": "staff-1"}, staff))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var summary dto.StaffPayrollResponse
	decodeEnvelope(t, rec, &summary)
	assert.Equal(t, 2026, summary.Year)
	assert.Equal(t, "6000.00", summary.Totals.TotalEarnings)
}

func TestPayrollHandler_UpdateStatus_NotFound(t *testing.T) {
	handler, repo, _ := newPayrollFixture(t)

	repo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrPayrollNotFound)

	rec := httptest.NewRecorder()
	body := map[string]any{"status": "Paid"}
	handler.UpdateStatus(rec, newRequest(http.MethodPut, "/", body, map[string]string{"id": "missing"}, admin))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPayrollHandler_List_BadStatus(t *testing.T) {
	handler, _, _ := newPayrollFixture(t)

	rec := httptest.NewRecorder()
	handler.List(rec, newRequest(http.MethodGet, "/?status=Bogus", nil, nil, admin))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayrollHandler_AnnualReport(t *testing.T) {
	handler, repo, _ := newPayrollFixture(t)

	repo.EXPECT().AnnualTotals(gomock.Any(), 2025).Return([]*domain.PayrollTotals{
		{StaffID: "a", PayPeriods: 26, TotalEarnings: decimal.NewFromInt(78000), TotalTax: decimal.NewFromInt(15000)},
		{StaffID: "b", PayPeriods: 12, TotalEarnings: decimal.NewFromInt(60000), TotalTax: decimal.NewFromInt(11000)},
	}, nil)

	rec := httptest.NewRecorder()
	handler.AnnualReport(rec, newRequest(http.MethodGet, "/?year=2025", nil, nil, admin))

	require.Equal(t, http.StatusOK, rec.Code)

	var report dto.AnnualReportResponse
	decodeEnvelope(t, rec, &report)
	assert.Equal(t, 2025, report.Year)
	assert.Len(t, report.Staff, 2)
	assert.Equal(t, "138000.00", report.Total.TotalEarnings)
	assert.Equal(t, int64(38), report.Total.PayPeriods)
}
