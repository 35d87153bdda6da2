package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/usecase"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// Date is a calendar date that accepts "2006-01-02" or an RFC 3339
// timestamp. Empty strings and null decode to the zero time.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	if t, err := time.Parse(DateLayout, s); err == nil {
		d.Time = t
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	d.Time = t.UTC()
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents a request to add a user.
type RegisterRequest struct {
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	Password     string          `json:"password"`
	Role         domain.Role     `json:"role"`
	HourlyRate   decimal.Decimal `json:"hourlyRate"`
	AnnualSalary decimal.Decimal `json:"annualSalary"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput(actorID string) usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:        r.Email,
		Name:         r.Name,
		Password:     r.Password,
		Role:         r.Role,
		HourlyRate:   r.HourlyRate,
		AnnualSalary: r.AnnualSalary,
		ActorID:      actorID,
	}
}

// ChangePasswordRequest represents a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// CreateClientRequest represents a request to add a client.
type CreateClientRequest struct {
	ClientName    string `json:"clientName"`
	ClientType    string `json:"clientType"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	TINNumber     string `json:"tinNumber"`
	ContactPerson string `json:"contactPerson"`
	Notes         string `json:"notes"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateClientRequest) ToUseCaseInput(actorID string) usecase.CreateClientInput {
	return usecase.CreateClientInput{
		ClientName:    r.ClientName,
		ClientType:    r.ClientType,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		TINNumber:     r.TINNumber,
		ContactPerson: r.ContactPerson,
		Notes:         r.Notes,
		ActorID:       actorID,
	}
}

// CreateMatterRequest represents a request to open a matter.
type CreateMatterRequest struct {
	CaseNumber          string           `json:"caseNumber"`
	ClientID            string           `json:"clientId"`
	MatterName          string           `json:"matterName"`
	MatterType          string           `json:"matterType"`
	AssignedPartnerID   string           `json:"assignedPartnerId"`
	AssignedAssociateID string           `json:"assignedAssociateId"`
	EstimatedValue      *decimal.Decimal `json:"estimatedValue"`
	Description         string           `json:"description"`
	OpeningDate         Date             `json:"openingDate"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateMatterRequest) ToUseCaseInput(actorID string) usecase.CreateMatterInput {
	return usecase.CreateMatterInput{
		OpeningDate:         r.OpeningDate.Time,
		EstimatedValue:      r.EstimatedValue,
		CaseNumber:          r.CaseNumber,
		ClientID:            r.ClientID,
		MatterName:          r.MatterName,
		MatterType:          r.MatterType,
		AssignedPartnerID:   r.AssignedPartnerID,
		AssignedAssociateID: r.AssignedAssociateID,
		Description:         r.Description,
		ActorID:             actorID,
	}
}

// UpdateMatterRequest carries the fields to change. Absent fields are kept.
type UpdateMatterRequest struct {
	MatterName          *string              `json:"matterName"`
	MatterType          *string              `json:"matterType"`
	Status              *domain.MatterStatus `json:"status"`
	AssignedPartnerID   *string              `json:"assignedPartnerId"`
	AssignedAssociateID *string              `json:"assignedAssociateId"`
	EstimatedValue      *decimal.Decimal     `json:"estimatedValue"`
	Description         *string              `json:"description"`
	ClosingDate         *Date                `json:"closingDate"`
}

// ToDomain converts to a domain update.
func (r *UpdateMatterRequest) ToDomain() domain.MatterUpdate {
	update := domain.MatterUpdate{
		MatterName:          r.MatterName,
		MatterType:          r.MatterType,
		Status:              r.Status,
		AssignedPartnerID:   r.AssignedPartnerID,
		AssignedAssociateID: r.AssignedAssociateID,
		EstimatedValue:      r.EstimatedValue,
		Description:         r.Description,
	}
	if r.ClosingDate != nil && !r.ClosingDate.IsZero() {
		closing := r.ClosingDate.Time
		update.ClosingDate = &closing
	}
	return update
}

// AddTimeEntryRequest represents time recorded against a matter.
type AddTimeEntryRequest struct {
	EntryDate   Date            `json:"entryDate"`
	Hours       decimal.Decimal `json:"hours"`
	Description string          `json:"description"`
	IsBillable  *bool           `json:"isBillable"`
}

// ToUseCaseInput converts to use case input. Time is billable unless the
// request says otherwise.
func (r *AddTimeEntryRequest) ToUseCaseInput(matterID, actorID string) usecase.AddTimeEntryInput {
	billable := true
	if r.IsBillable != nil {
		billable = *r.IsBillable
	}
	return usecase.AddTimeEntryInput{
		EntryDate:   r.EntryDate.Time,
		MatterID:    matterID,
		ActorID:     actorID,
		Description: r.Description,
		Hours:       r.Hours,
		IsBillable:  billable,
	}
}

// TrustEntryRequest is the body of a deposit or withdrawal.
type TrustEntryRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	ReferenceNumber string          `json:"referenceNumber"`
	TransactionDate Date            `json:"transactionDate"`
}

// ToUseCaseInput converts to use case input.
func (r *TrustEntryRequest) ToUseCaseInput(matterID, actorID string) usecase.RecordTrustEntryInput {
	return usecase.RecordTrustEntryInput{
		TransactionDate: r.TransactionDate.Time,
		MatterID:        matterID,
		ActorID:         actorID,
		Description:     r.Description,
		ReferenceNumber: r.ReferenceNumber,
		Amount:          r.Amount,
	}
}

// PayCalculationRequest holds the gross figures for one pay period.
type PayCalculationRequest struct {
	PayFrequency    string          `json:"payFrequency"`
	GrossPay        decimal.Decimal `json:"grossPay"`
	Allowances      decimal.Decimal `json:"allowances"`
	OvertimePay     decimal.Decimal `json:"overtimePay"`
	OtherDeductions decimal.Decimal `json:"otherDeductions"`
}

// ToDomain converts to calculator input. An unknown frequency is passed
// through unchanged for validation to report.
func (r *PayCalculationRequest) ToDomain() domain.PayInput {
	frequency, err := domain.ParsePayFrequency(r.PayFrequency)
	if err != nil {
		frequency = domain.PayFrequency(r.PayFrequency)
	}
	return domain.PayInput{
		Frequency:       frequency,
		GrossPay:        r.GrossPay,
		Allowances:      r.Allowances,
		OvertimePay:     r.OvertimePay,
		OtherDeductions: r.OtherDeductions,
	}
}

// ProcessPayrollRequest stores a calculation for a staff member.
type ProcessPayrollRequest struct {
	PayCalculationRequest

	StaffID        string `json:"staffId"`
	PayPeriodStart Date   `json:"payPeriodStart"`
	PayPeriodEnd   Date   `json:"payPeriodEnd"`
	Notes          string `json:"notes"`
}

// ToUseCaseInput converts to use case input.
func (r *ProcessPayrollRequest) ToUseCaseInput(actorID string) usecase.ProcessPayrollInput {
	return usecase.ProcessPayrollInput{
		PayPeriodStart: r.PayPeriodStart.Time,
		PayPeriodEnd:   r.PayPeriodEnd.Time,
		StaffID:        r.StaffID,
		ActorID:        actorID,
		Notes:          r.Notes,
		Pay:            r.PayCalculationRequest.ToDomain(),
	}
}

// UpdatePayrollStatusRequest moves a payroll record along.
type UpdatePayrollStatusRequest struct {
	Status      domain.PayrollStatus `json:"status"`
	PaymentDate *Date                `json:"paymentDate"`
}

// PaymentTime returns the payment date, or nil when absent.
func (r *UpdatePayrollStatusRequest) PaymentTime() *time.Time {
	if r.PaymentDate == nil || r.PaymentDate.IsZero() {
		return nil
	}
	t := r.PaymentDate.Time
	return &t
}
