package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrValidation       = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooWeak  = errors.New("password does not meet requirements")
	ErrAmountTooLarge   = errors.New("amount exceeds maximum allowed")
	ErrAmountTooSmall   = errors.New("amount below minimum allowed")
	ErrAmountPrecision  = errors.New("amount has more than 2 decimal places")
	ErrInvalidPayPeriod = errors.New("pay period end precedes start")
)

// Validation constants
const (
	MaxTrustAmount       = "1000000000000" // 1 trillion
	MinTrustAmount       = "0.01"
	MaxDescriptionLength = 1000
	MinPasswordLength    = 8
	MaxPasswordLength    = 128
	MinTimeEntryHours    = "0.1"
	MoneyPlaces          = 2
)

var (
	minTrustAmount = decimal.RequireFromString(MinTrustAmount)
	maxTrustAmount = decimal.RequireFromString(MaxTrustAmount)
	minHours       = decimal.RequireFromString(MinTimeEntryHours)
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// FieldError is a validation failure on a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field-level failures. It matches ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

// Is lets errors.Is match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add records a failure for field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// AddErr records err as a failure for field when err is non-nil.
func (e *ValidationError) AddErr(field string, err error) {
	if err != nil {
		e.Add(field, err.Error())
	}
}

// Err returns nil when no failures were recorded.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ValidateTrustAmount validates a deposit or withdrawal amount.
func ValidateTrustAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.LessThan(minTrustAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinTrustAmount)
	}

	if amount.GreaterThan(maxTrustAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTrustAmount)
	}

	return ValidateMoneyPrecision(amount)
}

// ValidateMoneyPrecision rejects amounts finer than the currency minor unit.
func ValidateMoneyPrecision(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(MoneyPlaces)) {
		return ErrAmountPrecision
	}
	return nil
}

// ValidateNonNegative validates an optional money input such as allowances.
func ValidateNonNegative(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}

// ValidateDescription validates free-text descriptions on ledger entries.
func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)

	if description == "" {
		return errors.New("description cannot be empty")
	}

	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("description exceeds %d characters", MaxDescriptionLength)
	}

	return nil
}

// ValidateDate rejects the zero date.
func ValidateDate(d time.Time) error {
	if d.IsZero() {
		return errors.New("must be a valid calendar date")
	}
	return nil
}

// ValidateHours validates hours on a time entry.
func ValidateHours(hours decimal.Decimal) error {
	if hours.LessThan(minHours) {
		return fmt.Errorf("hours must be at least %s", MinTimeEntryHours)
	}
	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// ValidatePassword validates password length
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}

// ValidateTrustRequest validates the inputs shared by deposits and withdrawals.
func ValidateTrustRequest(matterID, actorID, description string, amount decimal.Decimal, transactionDate time.Time) error {
	verr := &ValidationError{}

	if strings.TrimSpace(matterID) == "" {
		verr.Add("matterId", "is required")
	}
	if strings.TrimSpace(actorID) == "" {
		verr.Add("actorId", "is required")
	}
	verr.AddErr("amount", ValidateTrustAmount(amount))
	verr.AddErr("description", ValidateDescription(description))
	verr.AddErr("transactionDate", ValidateDate(transactionDate))

	return verr.Err()
}
