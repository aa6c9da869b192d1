package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/middleware"
)

type emailOutboxService struct {
	outboxRepo portsrepo.EmailOutboxRepository
	sender     portssvc.EmailSender
}

// NewEmailOutboxService creates the email outbox service. The sender is the
// external transport; delivery failures are recorded, never retried inline.
func NewEmailOutboxService(repos portsrepo.RepositoryProvider, sender portssvc.EmailSender) portssvc.EmailOutboxSvcFacade {
	return &emailOutboxService{
		outboxRepo: repos.EmailOutboxRepo,
		sender:     sender,
	}
}

var _ portssvc.EmailOutboxSvcFacade = (*emailOutboxService)(nil)

func (s *emailOutboxService) EnqueueProposalEmail(ctx context.Context, proposal *domain.Proposal, recipient, customMessage string, includeAttachments bool) error {
	if recipient == "" {
		return fmt.Errorf("email recipient is empty for proposal %s", proposal.ProposalID)
	}
	job := domain.EmailJob{
		EmailID:            uuid.NewString(),
		ProposalID:         proposal.ProposalID,
		Recipient:          recipient,
		Subject:            fmt.Sprintf("Travel proposal %s: %s", proposal.ProposalNumber, proposal.Title),
		CustomMessage:      customMessage,
		IncludeAttachments: includeAttachments,
		Status:             domain.EmailQueued,
		CreatedAt:          time.Now(),
	}
	return s.outboxRepo.EnqueueEmail(ctx, job)
}

// ProcessOutbox drains up to limit queued jobs through the sender. Each job is
// marked sent or failed individually; one bad job never blocks the batch.
func (s *emailOutboxService) ProcessOutbox(ctx context.Context, limit int) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	jobs, err := s.outboxRepo.ListQueuedEmails(ctx, limit)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, job := range jobs {
		if err := s.sender.Send(ctx, job); err != nil {
			logger.Warn("Email delivery failed", slog.String("email_id", job.EmailID), slog.String("error", err.Error()))
			if markErr := s.outboxRepo.MarkEmailFailed(ctx, job.EmailID, err.Error()); markErr != nil {
				logger.Error("Failed to mark email failed", slog.String("email_id", job.EmailID), slog.String("error", markErr.Error()))
			}
			continue
		}
		if err := s.outboxRepo.MarkEmailSent(ctx, job.EmailID, time.Now()); err != nil {
			logger.Error("Failed to mark email sent", slog.String("email_id", job.EmailID), slog.String("error", err.Error()))
			continue
		}
		delivered++
	}
	return delivered, nil
}

// logEmailSender is the default EmailSender: it logs the delivery instead of
// speaking SMTP. Deployments plug a real transport in its place.
type logEmailSender struct {
	logger *slog.Logger
}

// NewLogEmailSender creates an EmailSender that records deliveries in the log.
func NewLogEmailSender(logger *slog.Logger) portssvc.EmailSender {
	return &logEmailSender{logger: logger}
}

func (s *logEmailSender) Send(ctx context.Context, job domain.EmailJob) error {
	s.logger.Info("Delivering proposal email",
		slog.String("email_id", job.EmailID),
		slog.String("proposal_id", job.ProposalID),
		slog.String("recipient", job.Recipient),
		slog.String("subject", job.Subject),
		slog.Bool("include_attachments", job.IncludeAttachments),
	)
	return nil
}
