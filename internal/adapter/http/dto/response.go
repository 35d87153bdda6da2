package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/usecase"
)

// Envelope wraps every API response.
type Envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// Money renders an amount with exactly two decimal places.
func Money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyPlaces)
}

func optionalMoney(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := Money(d.Decimal)
	return &s
}

func optionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// UserResponse represents a user in API responses. The password hash is
// never serialised.
type UserResponse struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Role         domain.Role `json:"role"`
	HourlyRate   string      `json:"hourlyRate"`
	AnnualSalary string      `json:"annualSalary"`
	Active       bool        `json:"isActive"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		HourlyRate:   Money(u.HourlyRate),
		AnnualSalary: Money(u.AnnualSalary),
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
	}
}

// UsersFromDomain converts domain users to responses.
func UsersFromDomain(users []*domain.User) []*UserResponse {
	result := make([]*UserResponse, len(users))
	for i, u := range users {
		result[i] = UserFromDomain(u)
	}
	return result
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresIn int64         `json:"expiresIn"`
	User      *UserResponse `json:"user"`
}

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID            string    `json:"id"`
	ClientName    string    `json:"clientName"`
	ClientType    string    `json:"clientType"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	TINNumber     string    `json:"tinNumber,omitempty"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ClientFromDomain converts a domain client to a response.
func ClientFromDomain(c *domain.Client) *ClientResponse {
	return &ClientResponse{
		ID:            c.ID,
		ClientName:    c.ClientName,
		ClientType:    c.ClientType,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		TINNumber:     c.TINNumber,
		ContactPerson: c.ContactPerson,
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
	}
}

// ClientsFromDomain converts domain clients to responses.
func ClientsFromDomain(clients []*domain.Client) []*ClientResponse {
	result := make([]*ClientResponse, len(clients))
	for i, c := range clients {
		result[i] = ClientFromDomain(c)
	}
	return result
}

// MatterResponse represents a matter in API responses.
type MatterResponse struct {
	ID                  string              `json:"id"`
	CaseNumber          string              `json:"caseNumber"`
	ClientID            string              `json:"clientId"`
	ClientName          string              `json:"clientName,omitempty"`
	MatterName          string              `json:"matterName"`
	MatterType          string              `json:"matterType"`
	Status              domain.MatterStatus `json:"status"`
	AssignedPartnerID   string              `json:"assignedPartnerId,omitempty"`
	AssignedAssociateID string              `json:"assignedAssociateId,omitempty"`
	PartnerName         string              `json:"partnerName,omitempty"`
	AssociateName       string              `json:"associateName,omitempty"`
	EstimatedValue      *string             `json:"estimatedValue"`
	Description         string              `json:"description,omitempty"`
	OpeningDate         string              `json:"openingDate"`
	ClosingDate         *string             `json:"closingDate"`
	TimeEntriesCount    int64               `json:"timeEntriesCount"`
	UnbilledAmount      string              `json:"unbilledAmount"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// MatterFromDomain converts a domain matter to a response.
func MatterFromDomain(m *domain.Matter) *MatterResponse {
	return &MatterResponse{
		ID:                  m.ID,
		CaseNumber:          m.CaseNumber,
		ClientID:            m.ClientID,
		ClientName:          m.ClientName,
		MatterName:          m.MatterName,
		MatterType:          m.MatterType,
		Status:              m.Status,
		AssignedPartnerID:   m.AssignedPartnerID,
		AssignedAssociateID: m.AssignedAssociateID,
		PartnerName:         m.PartnerName,
		AssociateName:       m.AssociateName,
		EstimatedValue:      optionalMoney(m.EstimatedValue),
		Description:         m.Description,
		OpeningDate:         m.OpeningDate.Format(DateLayout),
		ClosingDate:         optionalDate(m.ClosingDate),
		TimeEntriesCount:    m.TimeEntriesCount,
		UnbilledAmount:      Money(m.UnbilledAmount),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// MatterListResponse is one page of matters.
type MatterListResponse struct {
	Matters []*MatterResponse `json:"matters"`
	Total   int64             `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

// MattersFromDomain converts a page of domain matters to a response.
func MattersFromDomain(matters []*domain.Matter, total int64, limit, offset int) *MatterListResponse {
	result := &MatterListResponse{
		Matters: make([]*MatterResponse, len(matters)),
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}
	for i, m := range matters {
		result.Matters[i] = MatterFromDomain(m)
	}
	return result
}

// TimeEntryResponse represents recorded time in API responses.
type TimeEntryResponse struct {
	ID          string    `json:"id"`
	MatterID    string    `json:"matterId"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName,omitempty"`
	EntryDate   string    `json:"entryDate"`
	Hours       string    `json:"hours"`
	HourlyRate  string    `json:"hourlyRate"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	IsBillable  bool      `json:"isBillable"`
	IsInvoiced  bool      `json:"isInvoiced"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TimeEntryFromDomain converts a domain time entry to a response.
func TimeEntryFromDomain(t *domain.TimeEntry) *TimeEntryResponse {
	return &TimeEntryResponse{
		ID:          t.ID,
		MatterID:    t.MatterID,
		UserID:      t.UserID,
		UserName:    t.UserName,
		EntryDate:   t.EntryDate.Format(DateLayout),
		Hours:       t.Hours.StringFixed(2),
		HourlyRate:  Money(t.HourlyRate),
		Value:       Money(t.Value()),
		Description: t.Description,
		IsBillable:  t.IsBillable,
		IsInvoiced:  t.IsInvoiced,
		CreatedAt:   t.CreatedAt,
	}
}

// MatterDetailResponse is a matter with its time and trust balance.
type MatterDetailResponse struct {
	*MatterResponse

	ClientEmail  string               `json:"clientEmail,omitempty"`
	ClientPhone  string               `json:"clientPhone,omitempty"`
	TimeEntries  []*TimeEntryResponse `json:"timeEntries"`
	TrustBalance string               `json:"trustBalance"`
}

// MatterDetailFromDomain converts a domain matter detail to a response.
func MatterDetailFromDomain(d *domain.MatterDetail) *MatterDetailResponse {
	resp := &MatterDetailResponse{
		MatterResponse: MatterFromDomain(d.Matter),
		ClientEmail:    d.ClientEmail,
		ClientPhone:    d.ClientPhone,
		TimeEntries:    make([]*TimeEntryResponse, len(d.TimeEntries)),
		TrustBalance:   Money(d.TrustBalance),
	}
	for i, t := range d.TimeEntries {
		resp.TimeEntries[i] = TimeEntryFromDomain(t)
	}
	return resp
}

// RecentMatterResponse is a row of dashboard activity.
type RecentMatterResponse struct {
	CaseNumber string              `json:"caseNumber"`
	MatterName string              `json:"matterName"`
	Status     domain.MatterStatus `json:"status"`
	ClientName string              `json:"clientName"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// DashboardStatsResponse summarises the practice.
type DashboardStatsResponse struct {
	OpenMatters    int64                  `json:"openMatters"`
	PendingMatters int64                  `json:"pendingMatters"`
	ClosedMatters  int64                  `json:"closedMatters"`
	TotalMatters   int64                  `json:"totalMatters"`
	UnbilledHours  string                 `json:"unbilledHours"`
	UnbilledValue  string                 `json:"unbilledValue"`
	TotalTrust     string                 `json:"totalTrustFunds"`
	RecentActivity []RecentMatterResponse `json:"recentActivity"`
}

// DashboardStatsFromDomain converts dashboard stats to a response.
func DashboardStatsFromDomain(s *domain.DashboardStats) *DashboardStatsResponse {
	resp := &DashboardStatsResponse{
		OpenMatters:    s.OpenMatters,
		PendingMatters: s.PendingMatters,
		ClosedMatters:  s.ClosedMatters,
		TotalMatters:   s.TotalMatters,
		UnbilledHours:  s.UnbilledHours.StringFixed(2),
		UnbilledValue:  Money(s.UnbilledValue),
		TotalTrust:     Money(s.TotalTrust),
		RecentActivity: make([]RecentMatterResponse, len(s.RecentActivity)),
	}
	for i, r := range s.RecentActivity {
		resp.RecentActivity[i] = RecentMatterResponse(r)
	}
	return resp
}

// TrustEntryResponse represents a trust ledger entry in API responses.
type TrustEntryResponse struct {
	ID              string           `json:"id"`
	MatterID        string           `json:"matterId"`
	TransactionDate string           `json:"transactionDate"`
	TransactionType domain.EntryType `json:"transactionType"`
	Amount          string           `json:"amount"`
	Balance         string           `json:"balance"`
	Description     string           `json:"description"`
	ReferenceNumber string           `json:"referenceNumber,omitempty"`
	CreatedBy       string           `json:"createdBy"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// TrustEntryFromDomain converts a domain trust entry to a response.
func TrustEntryFromDomain(e *domain.TrustEntry) *TrustEntryResponse {
	return &TrustEntryResponse{
		ID:              e.ID,
		MatterID:        e.MatterID,
		TransactionDate: e.TransactionDate.Format(DateLayout),
		TransactionType: e.Type,
		Amount:          Money(e.Amount),
		Balance:         Money(e.Balance),
		Description:     e.Description,
		ReferenceNumber: e.ReferenceNumber,
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt,
	}
}

// TrustEntriesFromDomain converts domain trust entries to responses.
func TrustEntriesFromDomain(entries []*domain.TrustEntry) []*TrustEntryResponse {
	result := make([]*TrustEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = TrustEntryFromDomain(e)
	}
	return result
}

// TrustBalanceResponse is a matter's current trust position.
type TrustBalanceResponse struct {
	MatterID    string              `json:"matterId"`
	Balance     string              `json:"balance"`
	LatestEntry *TrustEntryResponse `json:"latestEntry"`
}

// TrustBalanceFromDomain converts a trust account to a response.
func TrustBalanceFromDomain(a domain.TrustAccount) *TrustBalanceResponse {
	resp := &TrustBalanceResponse{
		MatterID: a.MatterID,
		Balance:  Money(a.Balance),
	}
	if a.Latest != nil {
		resp.LatestEntry = TrustEntryFromDomain(a.Latest)
	}
	return resp
}

// ContinuityBreakResponse identifies the first inconsistent entry.
type ContinuityBreakResponse struct {
	Index    int    `json:"index"`
	EntryID  string `json:"entryId"`
	Expected string `json:"expectedBalance"`
	Recorded string `json:"recordedBalance"`
}

// ReconciliationResponse reports a ledger replay.
type ReconciliationResponse struct {
	MatterID          string                   `json:"matterId"`
	Consistent        bool                     `json:"consistent"`
	EntryCount        int                      `json:"entryCount"`
	TotalDeposits     string                   `json:"totalDeposits"`
	TotalWithdrawals  string                   `json:"totalWithdrawals"`
	CalculatedBalance string                   `json:"calculatedBalance"`
	RecordedBalance   string                   `json:"recordedBalance"`
	Break             *ContinuityBreakResponse `json:"break,omitempty"`
	CheckedAt         time.Time                `json:"checkedAt"`
}

// ReconciliationFromUseCase converts a reconciliation result to a response.
func ReconciliationFromUseCase(r *usecase.TrustReconciliation) *ReconciliationResponse {
	resp := &ReconciliationResponse{
		MatterID:          r.MatterID,
		Consistent:        r.Consistent,
		EntryCount:        r.EntryCount,
		TotalDeposits:     Money(r.TotalDeposits),
		TotalWithdrawals:  Money(r.TotalWithdrawals),
		CalculatedBalance: Money(r.CalculatedBalance),
		RecordedBalance:   Money(r.RecordedBalance),
		CheckedAt:         r.CheckedAt,
	}
	if r.Break != nil {
		resp.Break = &ContinuityBreakResponse{
			Index:    r.Break.Index,
			EntryID:  r.Break.EntryID,
			Expected: Money(r.Break.Expected),
			Recorded: Money(r.Break.Recorded),
		}
	}
	return resp
}

// BreakdownLineResponse is one payslip row.
type BreakdownLineResponse struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
	Bold   bool   `json:"bold,omitempty"`
}

// PayCalculationResponse is a pay period breakdown.
type PayCalculationResponse struct {
	PayFrequency     domain.PayFrequency     `json:"payFrequency"`
	GrossPay         string                  `json:"grossPay"`
	Allowances       string                  `json:"allowances"`
	OvertimePay      string                  `json:"overtimePay"`
	TotalEarnings    string                  `json:"totalEarnings"`
	SWTTax           string                  `json:"swtTax"`
	EmployeeSuper    string                  `json:"employeeSuper"`
	EmployerSuper    string                  `json:"employerSuper"`
	OtherDeductions  string                  `json:"otherDeductions"`
	TotalDeductions  string                  `json:"totalDeductions"`
	NetPay           string                  `json:"netPay"`
	AnnualIncome     string                  `json:"annualIncome"`
	AnnualTax        string                  `json:"annualTax"`
	EffectiveTaxRate string                  `json:"effectiveTaxRate"`
	TakeHomePct      string                  `json:"takeHomePercentage"`
	TotalCostToFirm  string                  `json:"totalCostToFirm"`
	TaxSchedule      string                  `json:"taxSchedule,omitempty"`
	Breakdown        []BreakdownLineResponse `json:"breakdown,omitempty"`
}

// PayCalculationFromDomain converts a calculation to a response. When
// schedule is non-nil the payslip breakdown is included.
func PayCalculationFromDomain(c domain.PayCalculation, schedule *domain.TaxSchedule) *PayCalculationResponse {
	resp := &PayCalculationResponse{
		PayFrequency:     c.Frequency,
		GrossPay:         Money(c.GrossPay),
		Allowances:       Money(c.Allowances),
		OvertimePay:      Money(c.OvertimePay),
		TotalEarnings:    Money(c.TotalEarnings),
		SWTTax:           Money(c.SWTTax),
		EmployeeSuper:    Money(c.EmployeeSuper),
		EmployerSuper:    Money(c.EmployerSuper),
		OtherDeductions:  Money(c.OtherDeductions),
		TotalDeductions:  Money(c.TotalDeductions),
		NetPay:           Money(c.NetPay),
		AnnualIncome:     Money(c.AnnualIncome),
		AnnualTax:        Money(c.AnnualTax),
		EffectiveTaxRate: domain.FormatPercent(c.EffectiveTaxRate),
		TakeHomePct:      domain.FormatPercent(c.TakeHomePct),
		TotalCostToFirm:  Money(c.TotalCostToFirm()),
	}

	if schedule != nil {
		resp.TaxSchedule = schedule.Name
		for _, line := range c.Breakdown(schedule.Name, schedule.EmployeeSuperRate) {
			resp.Breakdown = append(resp.Breakdown, BreakdownLineResponse{
				Label:  line.Label,
				Amount: Money(line.Amount),
				Bold:   line.Bold,
			})
		}
	}

	return resp
}

// PayrollRecordResponse represents a stored payroll record.
type PayrollRecordResponse struct {
	*PayCalculationResponse

	ID             string               `json:"id"`
	StaffID        string               `json:"staffId"`
	StaffName      string               `json:"staffName,omitempty"`
	StaffEmail     string               `json:"staffEmail,omitempty"`
	PayPeriodStart string               `json:"payPeriodStart"`
	PayPeriodEnd   string               `json:"payPeriodEnd"`
	Status         domain.PayrollStatus `json:"status"`
	PaymentDate    *string              `json:"paymentDate"`
	Notes          string               `json:"notes,omitempty"`
	CreatedBy      string               `json:"createdBy,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// PayrollRecordFromDomain converts a payroll record to a response.
func PayrollRecordFromDomain(r *domain.PayrollRecord) *PayrollRecordResponse {
	return &PayrollRecordResponse{
		PayCalculationResponse: PayCalculationFromDomain(r.Calculation, nil),
		ID:                     r.ID,
		StaffID:                r.StaffID,
		StaffName:              r.StaffName,
		StaffEmail:             r.StaffEmail,
		PayPeriodStart:         r.PayPeriodStart.Format(DateLayout),
		PayPeriodEnd:           r.PayPeriodEnd.Format(DateLayout),
		Status:                 r.Status,
		PaymentDate:            optionalDate(r.PaymentDate),
		Notes:                  r.Notes,
		CreatedBy:              r.CreatedBy,
		CreatedAt:              r.CreatedAt,
	}
}

// PayrollRecordsFromDomain converts payroll records to responses.
func PayrollRecordsFromDomain(records []*domain.PayrollRecord) []*PayrollRecordResponse {
	result := make([]*PayrollRecordResponse, len(records))
	for i, r := range records {
		result[i] = PayrollRecordFromDomain(r)
	}
	return result
}

// PayrollTotalsResponse aggregates payroll for a period.
type PayrollTotalsResponse struct {
	StaffID       string      `json:"staffId,omitempty"`
	StaffName     string      `json:"staffName,omitempty"`
	Role          domain.Role `json:"role,omitempty"`
	PayPeriods    int64       `json:"payPeriods"`
	TotalEarnings string      `json:"totalEarnings"`
	TotalTax      string      `json:"totalTax"`
	EmployeeSuper string      `json:"employeeSuper"`
	EmployerSuper string      `json:"employerSuper"`
	TotalNetPay   string      `json:"totalNetPay"`
}

// PayrollTotalsFromDomain converts totals to a response.
func PayrollTotalsFromDomain(t *domain.PayrollTotals) *PayrollTotalsResponse {
	return &PayrollTotalsResponse{
		StaffID:       t.StaffID,
		StaffName:     t.StaffName,
		Role:          t.Role,
		PayPeriods:    t.PayPeriods,
		TotalEarnings: Money(t.TotalEarnings),
		TotalTax:      Money(t.TotalTax),
		EmployeeSuper: Money(t.EmployeeSuper),
		EmployerSuper: Money(t.EmployerSuper),
		TotalNetPay:   Money(t.TotalNetPay),
	}
}

// StaffPayrollResponse is one staff member's payroll for a year.
type StaffPayrollResponse struct {
	Staff   *UserResponse            `json:"staff"`
	Year    int                      `json:"year"`
	Records []*PayrollRecordResponse `json:"records"`
	Totals  *PayrollTotalsResponse   `json:"yearToDate"`
}

// StaffPayrollFromUseCase converts a staff summary to a response.
func StaffPayrollFromUseCase(s *usecase.StaffPayrollSummary) *StaffPayrollResponse {
	return &StaffPayrollResponse{
		Staff:   UserFromDomain(s.Staff),
		Year:    s.Year,
		Records: PayrollRecordsFromDomain(s.Records),
		Totals:  PayrollTotalsFromDomain(s.Totals),
	}
}

// AnnualReportResponse is a year of payroll by staff member.
type AnnualReportResponse struct {
	Year  int                      `json:"year"`
	Staff []*PayrollTotalsResponse `json:"staff"`
	Total *PayrollTotalsResponse   `json:"total"`
}

// AnnualReportFromUseCase converts an annual report to a response.
func AnnualReportFromUseCase(r *usecase.AnnualPayrollReport) *AnnualReportResponse {
	resp := &AnnualReportResponse{
		Year:  r.Year,
		Staff: make([]*PayrollTotalsResponse, len(r.Staff)),
		Total: PayrollTotalsFromDomain(&r.Total),
	}
	for i, t := range r.Staff {
		resp.Staff[i] = PayrollTotalsFromDomain(t)
	}
	return resp
}
