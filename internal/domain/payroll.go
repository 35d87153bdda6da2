package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PayFrequency is the cadence used to annualise and de-annualise tax.
type PayFrequency string

const (
	PayFrequencyFortnightly PayFrequency = "Fortnightly"
	PayFrequencyMonthly     PayFrequency = "Monthly"
)

// PeriodsPerYear returns the number of pay periods in a year.
func (f PayFrequency) PeriodsPerYear() int64 {
	switch f {
	case PayFrequencyMonthly:
		return 12
	case PayFrequencyFortnightly:
		return 26
	default:
		return 0
	}
}

// IsValid reports whether f is a supported frequency.
func (f PayFrequency) IsValid() bool {
	return f.PeriodsPerYear() > 0
}

// ParsePayFrequency converts user input to a PayFrequency, ignoring case and
// surrounding spaces.
func ParsePayFrequency(s string) (PayFrequency, error) {
	s = strings.TrimSpace(s)
	for _, f := range []PayFrequency{PayFrequencyFortnightly, PayFrequencyMonthly} {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", ErrInvalidPayFrequency
}

// PayInput holds the gross figures for one pay period. Callers validate that
// amounts are non-negative before calculating.
type PayInput struct {
	Frequency       PayFrequency
	GrossPay        decimal.Decimal
	Allowances      decimal.Decimal
	OvertimePay     decimal.Decimal
	OtherDeductions decimal.Decimal
}

// Validate reports field-level problems with the input.
func (in PayInput) Validate() error {
	verr := &ValidationError{}
	if !in.Frequency.IsValid() {
		verr.Add("payFrequency", "must be Fortnightly or Monthly")
	}
	verr.AddErr("grossPay", ValidateNonNegative(in.GrossPay))
	verr.AddErr("allowances", ValidateNonNegative(in.Allowances))
	verr.AddErr("overtimePay", ValidateNonNegative(in.OvertimePay))
	verr.AddErr("otherDeductions", ValidateNonNegative(in.OtherDeductions))
	return verr.Err()
}

// PayCalculation is the tax and contribution breakdown for one pay period.
// Rates are percentages rounded to two places, e.g. 21.49 for 21.49%.
type PayCalculation struct {
	Frequency        PayFrequency
	GrossPay         decimal.Decimal
	Allowances       decimal.Decimal
	OvertimePay      decimal.Decimal
	TotalEarnings    decimal.Decimal
	SWTTax           decimal.Decimal
	EmployeeSuper    decimal.Decimal
	EmployerSuper    decimal.Decimal
	OtherDeductions  decimal.Decimal
	TotalDeductions  decimal.Decimal
	NetPay           decimal.Decimal
	AnnualIncome     decimal.Decimal
	AnnualTax        decimal.Decimal
	EffectiveTaxRate decimal.Decimal
	TakeHomePct      decimal.Decimal
}

// TotalCostToFirm is total earnings plus the employer's super contribution.
func (c PayCalculation) TotalCostToFirm() decimal.Decimal {
	return c.TotalEarnings.Add(c.EmployerSuper).Round(MoneyPlaces)
}

// FormatPercent renders a percentage with two places and a percent sign.
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(2) + "%"
}

// BreakdownLine is one row of the payslip shown to the user. Deductions are
// negative.
type BreakdownLine struct {
	Label  string
	Amount decimal.Decimal
	Bold   bool
}

// Breakdown returns the payslip rows in display order.
func (c PayCalculation) Breakdown(scheduleName string, employeeRate decimal.Decimal) []BreakdownLine {
	return []BreakdownLine{
		{Label: "Gross Pay", Amount: c.GrossPay},
		{Label: "Allowances", Amount: c.Allowances},
		{Label: "Overtime Pay", Amount: c.OvertimePay},
		{Label: "Total Earnings", Amount: c.TotalEarnings, Bold: true},
		{Label: "SWT Tax (" + scheduleName + ")", Amount: c.SWTTax.Neg()},
		{Label: "Employee Super (" + FormatPercent(employeeRate.Shift(2)) + ")", Amount: c.EmployeeSuper.Neg()},
		{Label: "Other Deductions", Amount: c.OtherDeductions.Neg()},
		{Label: "Net Pay", Amount: c.NetPay, Bold: true},
	}
}

// PayCalculator applies a TaxSchedule to pay inputs. It holds no mutable
// state and is safe for concurrent use.
type PayCalculator struct {
	schedule *TaxSchedule
}

// NewPayCalculator creates a calculator over schedule.
func NewPayCalculator(schedule *TaxSchedule) *PayCalculator {
	return &PayCalculator{schedule: schedule}
}

// Schedule returns the bracket table in use.
func (c *PayCalculator) Schedule() *TaxSchedule {
	return c.schedule
}

// Calculate computes the breakdown for one pay period.
func (c *PayCalculator) Calculate(in PayInput) PayCalculation {
	periods := decimal.NewFromInt(in.Frequency.PeriodsPerYear())

	totalEarnings := in.GrossPay.Add(in.Allowances).Add(in.OvertimePay)
	annualGross := totalEarnings.Mul(periods)
	annualTax := c.schedule.AnnualTax(annualGross)

	periodTax := decimal.Zero
	if periods.IsPositive() {
		periodTax = annualTax.Div(periods).Round(MoneyPlaces)
	}

	employeeSuper := totalEarnings.Mul(c.schedule.EmployeeSuperRate).Round(MoneyPlaces)
	employerSuper := totalEarnings.Mul(c.schedule.EmployerSuperRate).Round(MoneyPlaces)

	totalDeductions := periodTax.Add(employeeSuper).Add(in.OtherDeductions).Round(MoneyPlaces)
	netPay := totalEarnings.Sub(totalDeductions).Round(MoneyPlaces)

	return PayCalculation{
		Frequency:        in.Frequency,
		GrossPay:         in.GrossPay,
		Allowances:       in.Allowances,
		OvertimePay:      in.OvertimePay,
		TotalEarnings:    totalEarnings,
		SWTTax:           periodTax,
		EmployeeSuper:    employeeSuper,
		EmployerSuper:    employerSuper,
		OtherDeductions:  in.OtherDeductions,
		TotalDeductions:  totalDeductions,
		NetPay:           netPay,
		AnnualIncome:     annualGross,
		AnnualTax:        annualTax,
		EffectiveTaxRate: percentOf(periodTax, totalEarnings),
		TakeHomePct:      percentOf(netPay, totalEarnings),
	}
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Shift(2).Round(2)
}

// PayrollStatus tracks a payroll record through payment.
type PayrollStatus string

const (
	PayrollStatusPending   PayrollStatus = "Pending"
	PayrollStatusProcessed PayrollStatus = "Processed"
	PayrollStatusPaid      PayrollStatus = "Paid"
)

// IsValid reports whether s is a known status.
func (s PayrollStatus) IsValid() bool {
	switch s {
	case PayrollStatusPending, PayrollStatusProcessed, PayrollStatusPaid:
		return true
	}
	return false
}

// PayrollRecord is a persisted calculation for one staff member and period.
type PayrollRecord struct {
	ID             string
	StaffID        string
	StaffName      string
	StaffEmail     string
	PayPeriodStart time.Time
	PayPeriodEnd   time.Time
	Calculation    PayCalculation
	Status         PayrollStatus
	PaymentDate    *time.Time
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
}

// PayrollTotals aggregates records for year-to-date and annual reports.
type PayrollTotals struct {
	StaffID       string
	StaffName     string
	Role          Role
	PayPeriods    int64
	TotalEarnings decimal.Decimal
	TotalTax      decimal.Decimal
	EmployeeSuper decimal.Decimal
	EmployerSuper decimal.Decimal
	TotalNetPay   decimal.Decimal
}

// PayrollFilter narrows payroll listings.
type PayrollFilter struct {
	StaffID string
	Status  PayrollStatus
	Year    int
	Limit   int
	Offset  int
}
