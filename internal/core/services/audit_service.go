package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
)

type auditService struct {
	auditRepo portsrepo.AuditRepository
}

// NewAuditService creates the append-only audit sink.
func NewAuditService(repos portsrepo.RepositoryProvider) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: repos.AuditRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

func (s *auditService) RecordEvent(ctx context.Context, entry domain.AuditEntry) error {
	if entry.AuditID == "" {
		entry.AuditID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.Severity == "" {
		entry.Severity = domain.AuditInfo
	}
	if entry.Status == "" {
		entry.Status = "success"
	}
	return s.auditRepo.SaveAuditEntry(ctx, entry)
}
