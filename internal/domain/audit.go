package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is an append-only record of a state-changing action.
type AuditLog struct {
	ID           string
	UserID       string // Who performed the action
	Action       AuditAction
	ResourceType string // trust_entry, matter, payroll, user
	ResourceID   string
	IPAddress    string
	UserAgent    string
	RequestID    string
	BeforeState  JSON
	AfterState   JSON
	Status       AuditStatus
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction names an auditable action.
type AuditAction string

const (
	AuditActionTrustDeposit    AuditAction = "trust.deposit"
	AuditActionTrustWithdrawal AuditAction = "trust.withdrawal"

	AuditActionMatterCreate AuditAction = "matter.create"
	AuditActionMatterUpdate AuditAction = "matter.update"
	AuditActionClientCreate AuditAction = "client.create"

	AuditActionPayrollProcess AuditAction = "payroll.process"
	AuditActionPayrollStatus  AuditAction = "payroll.status"

	AuditActionUserRegister AuditAction = "user.register"
	AuditActionUserLogin    AuditAction = "user.login"
)

// Resource types recorded on audit logs.
const (
	ResourceTrustEntry = "trust_entry"
	ResourceMatter     = "matter"
	ResourceClient     = "client"
	ResourcePayroll    = "payroll"
	ResourceUser       = "user"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	UserID       string
	Action       AuditAction
	ResourceType string
	ResourceID   string
	Limit        int
	Offset       int
}
