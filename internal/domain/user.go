package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// User represents a member of the firm who can sign in
type User struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Role           Role
	HourlyRate     decimal.Decimal
	AnnualSalary   decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Active         bool
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin has full access, including payroll processing and user management
	RoleAdmin Role = "Admin"

	// RolePartner manages matters, clients and trust funds and can view payroll
	RolePartner Role = "Partner"

	// RoleAssociate works matters and records time
	RoleAssociate Role = "Associate"

	// RoleStaff can view matters and their own payroll
	RoleStaff Role = "Staff"
)

// Valid roles
var validRoles = map[Role]bool{
	RoleAdmin:     true,
	RolePartner:   true,
	RoleAssociate: true,
	RoleStaff:     true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanManageTrust checks if the role can deposit to or withdraw from trust
func (r Role) CanManageTrust() bool {
	return r == RoleAdmin || r == RolePartner
}

// CanManageMatters checks if the role can create and update matters and clients
func (r Role) CanManageMatters() bool {
	return r == RoleAdmin || r == RolePartner
}

// CanViewPayroll checks if the role can view payroll for all staff
func (r Role) CanViewPayroll() bool {
	return r == RoleAdmin || r == RolePartner
}

// CanProcessPayroll checks if the role can process payroll
func (r Role) CanProcessPayroll() bool {
	return r == RoleAdmin
}

// CanManageUsers checks if the role can register users
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}

// Actor is the authenticated user on whose behalf an operation runs.
type Actor struct {
	ID   string
	Role Role
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
