package usecase

import (
	"context"
	"time"

	"github.com/lexpractice/lexledger/internal/domain"
)

func newAuditLog(ctx context.Context, actorID string, action domain.AuditAction, resourceType, resourceID string, before, after any, now time.Time) *domain.AuditLog {
	info := domain.RequestInfoFromContext(ctx)

	log := &domain.AuditLog{
		UserID:       actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    info.IPAddress,
		UserAgent:    info.UserAgent,
		RequestID:    info.RequestID,
		AfterState:   domain.MarshalState(after),
		Status:       domain.AuditStatusSuccess,
		CreatedAt:    now,
	}
	if before != nil {
		log.BeforeState = domain.MarshalState(before)
	}

	return log
}
