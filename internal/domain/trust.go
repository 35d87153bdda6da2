package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes amounts in user-facing trust messages (PNG kina).
const CurrencySymbol = "K"

// EntryType distinguishes money entering and leaving a trust account.
type EntryType string

const (
	EntryTypeDeposit    EntryType = "Deposit"
	EntryTypeWithdrawal EntryType = "Withdrawal"
)

// IsValid reports whether t is a known entry type.
func (t EntryType) IsValid() bool {
	return t == EntryTypeDeposit || t == EntryTypeWithdrawal
}

// TrustEntry is one immutable deposit or withdrawal against a matter's trust
// account. Balance is the running balance after the entry was applied.
type TrustEntry struct {
	CreatedAt       time.Time
	TransactionDate time.Time
	ID              string
	MatterID        string
	Type            EntryType
	Description     string
	ReferenceNumber string
	CreatedBy       string
	Amount          decimal.Decimal
	Balance         decimal.Decimal
}

// PriorBalance returns the balance the entry was applied to.
func (e *TrustEntry) PriorBalance() decimal.Decimal {
	if e.Type == EntryTypeWithdrawal {
		return e.Balance.Add(e.Amount)
	}
	return e.Balance.Sub(e.Amount)
}

// TrustAccount is the current state of a matter's trust funds. It is never
// stored; it is derived from the most recently written entry.
type TrustAccount struct {
	MatterID string
	Balance  decimal.Decimal
	Latest   *TrustEntry
}

// NewTrustAccount derives the account state from the latest entry, which may be nil.
func NewTrustAccount(matterID string, latest *TrustEntry) TrustAccount {
	if latest == nil {
		return TrustAccount{MatterID: matterID, Balance: decimal.Zero}
	}
	return TrustAccount{MatterID: matterID, Balance: latest.Balance, Latest: latest}
}

// Deposit returns the balance after depositing amount.
func (a TrustAccount) Deposit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// Withdraw returns the balance after withdrawing amount, or an
// *InsufficientFundsError when the account cannot cover it.
func (a TrustAccount) Withdraw(amount decimal.Decimal) (decimal.Decimal, error) {
	if a.Balance.LessThan(amount) {
		return a.Balance, &InsufficientFundsError{Available: a.Balance, Requested: amount}
	}
	return a.Balance.Sub(amount), nil
}

// Apply returns the balance after applying an entry of the given type.
func (a TrustAccount) Apply(entryType EntryType, amount decimal.Decimal) (decimal.Decimal, error) {
	switch entryType {
	case EntryTypeDeposit:
		return a.Deposit(amount), nil
	case EntryTypeWithdrawal:
		return a.Withdraw(amount)
	default:
		return a.Balance, ErrInvalidEntryType
	}
}

// InsufficientFundsError reports a withdrawal larger than the available balance.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient trust funds: available %s%s, requested %s%s",
		CurrencySymbol, e.Available.StringFixed(2),
		CurrencySymbol, e.Requested.StringFixed(2),
	)
}

// Is lets errors.Is match ErrInsufficientFunds.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// ContinuityBreak describes the first entry whose balance does not follow
// from its predecessor.
type ContinuityBreak struct {
	Index    int
	EntryID  string
	Expected decimal.Decimal
	Recorded decimal.Decimal
}

// VerifyContinuity walks entries in creation order and checks that every
// balance equals the previous balance plus or minus the entry amount and
// never drops below zero. The first entry starts from zero.
func VerifyContinuity(entries []*TrustEntry) *ContinuityBreak {
	prior := decimal.Zero
	for i, e := range entries {
		var expected decimal.Decimal
		switch e.Type {
		case EntryTypeDeposit:
			expected = prior.Add(e.Amount)
		case EntryTypeWithdrawal:
			expected = prior.Sub(e.Amount)
		default:
			return &ContinuityBreak{Index: i, EntryID: e.ID, Expected: prior, Recorded: e.Balance}
		}

		if !expected.Equal(e.Balance) || e.Balance.IsNegative() {
			return &ContinuityBreak{Index: i, EntryID: e.ID, Expected: expected, Recorded: e.Balance}
		}
		prior = e.Balance
	}
	return nil
}
