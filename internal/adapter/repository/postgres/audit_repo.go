package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/infrastructure/postgres/generated"
	"github.com/lexpractice/lexledger/internal/usecase"
)

const insertAuditLog = `
	INSERT INTO audit_logs (
		id, user_id, action, resource_type, resource_id,
		ip_address, user_agent, request_id,
		before_state, after_state, status, error_message, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

// AuditRepository implements audit log persistence
type AuditRepository struct {
	db generated.DBTX
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db generated.DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	return r.insert(ctx, r.db, log)
}

// CreateTx inserts an audit log entry inside tx, so it commits or rolls back
// with the change it describes.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return r.insert(ctx, pgxTxFrom(tx), log)
}

func (r *AuditRepository) insert(ctx context.Context, db generated.DBTX, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	beforeStateJSON, err := marshalState(log.BeforeState)
	if err != nil {
		return err
	}

	afterStateJSON, err := marshalState(log.AfterState)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, insertAuditLog,
		log.ID,
		log.UserID,
		string(log.Action),
		log.ResourceType,
		log.ResourceID,
		log.IPAddress,
		log.UserAgent,
		log.RequestID,
		beforeStateJSON,
		afterStateJSON,
		string(log.Status),
		log.ErrorMessage,
		log.CreatedAt,
	)

	return err
}

// List retrieves audit logs with filtering
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	query := `
		SELECT id, user_id, action, resource_type, resource_id,
		       ip_address, user_agent, request_id,
		       before_state, after_state, status, error_message, created_at
		FROM audit_logs
		WHERE 1=1
	`
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(" AND %s = $%d", column, len(args))
	}

	if filter.UserID != "" {
		add("user_id", filter.UserID)
	}
	if filter.Action != "" {
		add("action", string(filter.Action))
	}
	if filter.ResourceType != "" {
		add("resource_type", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		add("resource_id", filter.ResourceID)
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var log domain.AuditLog
		var action, status string
		var beforeStateJSON, afterStateJSON []byte

		err := rows.Scan(
			&log.ID,
			&log.UserID,
			&action,
			&log.ResourceType,
			&log.ResourceID,
			&log.IPAddress,
			&log.UserAgent,
			&log.RequestID,
			&beforeStateJSON,
			&afterStateJSON,
			&status,
			&log.ErrorMessage,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		log.Action = domain.AuditAction(action)
		log.Status = domain.AuditStatus(status)

		if beforeStateJSON != nil {
			if err := json.Unmarshal(beforeStateJSON, &log.BeforeState); err != nil {
				return nil, fmt.Errorf("decode before_state of %s: %w", log.ID, err)
			}
		}

		if afterStateJSON != nil {
			if err := json.Unmarshal(afterStateJSON, &log.AfterState); err != nil {
				return nil, fmt.Errorf("decode after_state of %s: %w", log.ID, err)
			}
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

func marshalState(state domain.JSON) ([]byte, error) {
	if state == nil {
		return nil, nil
	}
	return json.Marshal(state)
}
