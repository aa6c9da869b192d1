package services

import (
	"log/slog"

	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/platform/config"
)

// NewServiceContainer wires every service with its dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cfg *config.Config, logger *slog.Logger) *portssvc.ServiceContainer {
	userSvc := NewUserService(repos)
	tokenSvc := NewTokenService(cfg, userSvc)
	currencySvc := NewCurrencyService(repos)
	notificationSvc := NewNotificationService(repos)
	auditSvc := NewAuditService(repos)
	emailOutboxSvc := NewEmailOutboxService(repos, NewLogEmailSender(logger))
	dispatcher := NewSideEffectDispatcher(notificationSvc, auditSvc, emailOutboxSvc)
	requestSvc := NewRequestService(repos)
	proposalSvc := NewProposalService(repos, requestSvc, dispatcher, cfg.ProposalValidityDays)
	reportingSvc := NewReportingService(repos)

	return &portssvc.ServiceContainer{
		Proposal:     proposalSvc,
		Request:      requestSvc,
		User:         userSvc,
		Currency:     currencySvc,
		Notification: notificationSvc,
		Audit:        auditSvc,
		EmailOutbox:  emailOutboxSvc,
		Reporting:    reportingSvc,
		TokenService: tokenSvc,
		Dispatcher:   dispatcher,
	}
}
