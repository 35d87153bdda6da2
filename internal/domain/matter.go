package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatterStatus is the lifecycle state of a matter.
type MatterStatus string

const (
	MatterStatusOpen    MatterStatus = "Open"
	MatterStatusPending MatterStatus = "Pending"
	MatterStatusClosed  MatterStatus = "Closed"
)

// IsValid reports whether s is a known status.
func (s MatterStatus) IsValid() bool {
	switch s {
	case MatterStatusOpen, MatterStatusPending, MatterStatusClosed:
		return true
	}
	return false
}

// Client is a person or organisation the firm acts for.
type Client struct {
	ID            string
	ClientName    string
	ClientType    string
	Email         string
	Phone         string
	Address       string
	TINNumber     string
	ContactPerson string
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
}

// Matter is a legal engagement. Each matter owns one trust ledger.
type Matter struct {
	ID                  string
	CaseNumber          string
	ClientID            string
	ClientName          string
	MatterName          string
	MatterType          string
	Status              MatterStatus
	AssignedPartnerID   string
	AssignedAssociateID string
	PartnerName         string
	AssociateName       string
	EstimatedValue      decimal.NullDecimal
	Description         string
	OpeningDate         time.Time
	ClosingDate         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Populated by list queries.
	TimeEntriesCount int64
	UnbilledAmount   decimal.Decimal
}

// MatterUpdate holds the fields a partner may change on a matter. Nil fields
// are left untouched.
type MatterUpdate struct {
	MatterName          *string
	MatterType          *string
	Status              *MatterStatus
	AssignedPartnerID   *string
	AssignedAssociateID *string
	EstimatedValue      *decimal.Decimal
	Description         *string
	ClosingDate         *time.Time
}

// IsEmpty reports whether the update changes nothing.
func (u MatterUpdate) IsEmpty() bool {
	return u.MatterName == nil && u.MatterType == nil && u.Status == nil &&
		u.AssignedPartnerID == nil && u.AssignedAssociateID == nil &&
		u.EstimatedValue == nil && u.Description == nil && u.ClosingDate == nil
}

// MatterFilter narrows matter listings.
type MatterFilter struct {
	Status MatterStatus
	Search string
	Limit  int
	Offset int
}

// TimeEntry is billable or non-billable time recorded against a matter.
type TimeEntry struct {
	ID          string
	MatterID    string
	UserID      string
	UserName    string
	EntryDate   time.Time
	Hours       decimal.Decimal
	HourlyRate  decimal.Decimal
	Description string
	IsBillable  bool
	IsInvoiced  bool
	CreatedAt   time.Time
}

// Value is hours multiplied by the hourly rate.
func (t *TimeEntry) Value() decimal.Decimal {
	return t.Hours.Mul(t.HourlyRate).Round(MoneyPlaces)
}

// MatterDetail is a matter with its time entries and current trust balance.
type MatterDetail struct {
	Matter       *Matter
	ClientEmail  string
	ClientPhone  string
	TimeEntries  []*TimeEntry
	TrustBalance decimal.Decimal
}

// RecentMatter is a row in the dashboard's recent activity list.
type RecentMatter struct {
	CaseNumber string
	MatterName string
	Status     MatterStatus
	ClientName string
	UpdatedAt  time.Time
}

// DashboardStats summarises the practice for the landing page.
type DashboardStats struct {
	OpenMatters    int64
	PendingMatters int64
	ClosedMatters  int64
	TotalMatters   int64
	UnbilledHours  decimal.Decimal
	UnbilledValue  decimal.Decimal
	TotalTrust     decimal.Decimal
	RecentActivity []RecentMatter
}
