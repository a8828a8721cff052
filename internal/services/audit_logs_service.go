package services

import (
	"context"
	"log"

	"agrilink/internal/models"
	"agrilink/internal/repositories"

	"github.com/google/uuid"
)

type AuditLogService interface {
	Record(ctx context.Context, userID *uuid.UUID, action, resource string, resourceID, details, ipAddress *string)
	List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.AuditLog, error)
}

type auditLogService struct {
	auditRepo repositories.AuditLogRepository
}

func NewAuditLogService(auditRepo repositories.AuditLogRepository) AuditLogService {
	return &auditLogService{auditRepo: auditRepo}
}

// Record writes an audit entry. Failures are logged, never surfaced, an
// audit problem must not fail the request it describes.
func (s *auditLogService) Record(ctx context.Context, userID *uuid.UUID, action, resource string, resourceID, details, ipAddress *string) {
	entry := &models.AuditLog{
		ID:         uuid.New(),
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
		IPAddress:  ipAddress,
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("Failed to write audit log (%s %s): %v", action, resource, err)
	}
}

func (s *auditLogService) List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	return s.auditRepo.List(ctx, limit, offset)
}

func (s *auditLogService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	return s.auditRepo.ListByUser(ctx, userID, limit, offset)
}
