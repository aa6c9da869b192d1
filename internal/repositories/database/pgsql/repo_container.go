package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	proposalRepo := newPgxProposalRepository(dbPool)
	requestRepo := newPgxRequestRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	currencyRepo := newPgxCurrencyRepository(dbPool)
	notificationRepo := newPgxNotificationRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)
	emailOutboxRepo := newPgxEmailOutboxRepository(dbPool)
	reportingRepo := newPgxReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		ProposalRepo:     proposalRepo,
		RequestRepo:      requestRepo,
		UserRepo:         userRepo,
		CurrencyRepo:     currencyRepo,
		NotificationRepo: notificationRepo,
		AuditRepo:        auditRepo,
		EmailOutboxRepo:  emailOutboxRepo,
		ReportingRepo:    reportingRepo,
	}
}
