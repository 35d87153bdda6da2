package domain

import "errors"

var (
	// Trust ledger errors
	ErrInsufficientFunds = errors.New("insufficient trust funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidEntryType  = errors.New("invalid trust entry type")

	// Matter errors
	ErrMatterNotFound      = errors.New("matter not found")
	ErrClientNotFound      = errors.New("client not found")
	ErrDuplicateCaseNumber = errors.New("case number already exists")
	ErrNothingToUpdate     = errors.New("nothing to update")

	// Payroll errors
	ErrPayrollNotFound     = errors.New("payroll record not found")
	ErrInvalidPayFrequency = errors.New("invalid pay frequency")
	ErrInvalidTaxSchedule  = errors.New("invalid tax schedule")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already exists")
	ErrUserInactive = errors.New("account inactive")
)
