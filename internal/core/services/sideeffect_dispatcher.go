package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/middleware"
)

// EventDispatcher runs the asynchronous side effects of committed proposal
// transitions: an in-app notification for the counter-party, an audit entry,
// and (on send) an outbound email job. A side-effect failure is logged and
// never unwinds the transition that triggered it.
type EventDispatcher struct {
	notificationSvc portssvc.NotificationSvcFacade
	auditSvc        portssvc.AuditSvcFacade
	emailOutbox     portssvc.EmailOutboxSvcFacade
	timeout         time.Duration

	wg sync.WaitGroup
}

// NewSideEffectDispatcher creates the dispatcher.
func NewSideEffectDispatcher(
	notificationSvc portssvc.NotificationSvcFacade,
	auditSvc portssvc.AuditSvcFacade,
	emailOutbox portssvc.EmailOutboxSvcFacade,
) *EventDispatcher {
	return &EventDispatcher{
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		emailOutbox:     emailOutbox,
		timeout:         10 * time.Second,
	}
}

var _ portssvc.SideEffectDispatcher = (*EventDispatcher)(nil)

// Dispatch schedules the side effects of one event. It returns immediately;
// the work happens on a detached context so that the finished HTTP request
// cannot cancel it.
func (d *EventDispatcher) Dispatch(ctx context.Context, event portssvc.ProposalEvent) {
	if event.Proposal == nil {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)
	detached := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Side effect handler panicked",
					slog.String("event", string(event.Kind)),
					slog.String("proposal_id", event.Proposal.ProposalID),
					slog.Any("panic", r),
				)
			}
		}()
		runCtx, cancel := context.WithTimeout(detached, d.timeout)
		defer cancel()
		d.handle(runCtx, logger, event)
	}()
}

// Wait blocks until all scheduled side effects have finished. Used on
// shutdown and by tests.
func (d *EventDispatcher) Wait() {
	d.wg.Wait()
}

func (d *EventDispatcher) handle(ctx context.Context, logger *slog.Logger, event portssvc.ProposalEvent) {
	d.notify(ctx, logger, event)
	d.email(ctx, logger, event)
	d.audit(ctx, logger, event)
}

func (d *EventDispatcher) notify(ctx context.Context, logger *slog.Logger, event portssvc.ProposalEvent) {
	p := event.Proposal

	var (
		target  string
		nType   domain.NotificationType
		title   string
		message string
	)

	switch event.Kind {
	case portssvc.EventProposalSent:
		if event.Request == nil {
			return
		}
		target = event.Request.UserID
		nType = domain.NotifyProposalSent
		title = "New travel proposal"
		message = fmt.Sprintf("Proposal %s (%s) is ready for your review.", p.ProposalNumber, p.Title)
	case portssvc.EventProposalAccepted:
		target = p.AdminID
		nType = domain.NotifyProposalAccepted
		title = "Proposal accepted"
		message = fmt.Sprintf("Proposal %s was accepted by the customer.", p.ProposalNumber)
	case portssvc.EventProposalRejected:
		target = p.AdminID
		nType = domain.NotifyProposalRejected
		title = "Proposal rejected"
		message = fmt.Sprintf("Proposal %s was rejected: %s", p.ProposalNumber, event.Note)
	case portssvc.EventRevisionRequested:
		target = p.AdminID
		nType = domain.NotifyRevisionRequested
		title = "Revision requested"
		message = fmt.Sprintf("The customer requested changes to proposal %s.", p.ProposalNumber)
	case portssvc.EventQuestionAsked:
		target = p.AdminID
		nType = domain.NotifyQuestionAsked
		title = "Customer question"
		message = fmt.Sprintf("Question on proposal %s: %s", p.ProposalNumber, event.Note)
	case portssvc.EventParticipantsSubmitted:
		target = p.AdminID
		nType = domain.NotifyParticipantsData
		title = "Participant data received"
		message = fmt.Sprintf("All traveler data for proposal %s has been submitted.", p.ProposalNumber)
	case portssvc.EventFlightBooked:
		target = customerTarget(event)
		nType = domain.NotifyFlightBooked
		title = "Flights booked"
		message = fmt.Sprintf("Flights for proposal %s have been booked.", p.ProposalNumber)
	case portssvc.EventDocumentsUploaded:
		target = customerTarget(event)
		nType = domain.NotifyDocumentsReady
		title = "Travel documents ready"
		message = fmt.Sprintf("Contract documents for proposal %s are ready for your confirmation.", p.ProposalNumber)
	case portssvc.EventFinalConfirmation:
		target = p.AdminID
		nType = domain.NotifyFinalConfirmation
		title = "Final confirmation received"
		message = fmt.Sprintf("Proposal %s is confirmed and awaiting payment.", p.ProposalNumber)
	default:
		// Remaining events are audit-only.
		return
	}

	if target == "" {
		return
	}
	data := map[string]any{
		"proposalNumber": p.ProposalNumber,
		"status":         string(p.Status),
	}
	if err := d.notificationSvc.CreateNotification(ctx, target, nType, title, message, p.ProposalID, "proposal", data); err != nil {
		logger.Warn("Failed to create notification",
			slog.String("event", string(event.Kind)),
			slog.String("proposal_id", p.ProposalID),
			slog.String("error", err.Error()),
		)
	}
}

// customerTarget resolves the customer user to notify for fulfillment events.
func customerTarget(event portssvc.ProposalEvent) string {
	if event.Request != nil {
		return event.Request.UserID
	}
	return ""
}

func (d *EventDispatcher) email(ctx context.Context, logger *slog.Logger, event portssvc.ProposalEvent) {
	if event.Kind != portssvc.EventProposalSent || event.EmailRecipient == "" {
		return
	}
	if err := d.emailOutbox.EnqueueProposalEmail(ctx, event.Proposal, event.EmailRecipient, event.Note, event.IncludeAttachments); err != nil {
		logger.Warn("Failed to enqueue proposal email",
			slog.String("proposal_id", event.Proposal.ProposalID),
			slog.String("error", err.Error()),
		)
	}
}

func (d *EventDispatcher) audit(ctx context.Context, logger *slog.Logger, event portssvc.ProposalEvent) {
	p := event.Proposal
	metadata := map[string]any{
		"proposalNumber":    p.ProposalNumber,
		"requestID":         p.RequestID,
		"status":            string(p.Status),
		"totalPrice":        p.TotalPrice.String(),
		"currencyCode":      p.CurrencyCode,
		"negotiationRounds": p.NegotiationRounds,
	}
	if event.Note != "" {
		metadata["note"] = event.Note
	}
	entry := domain.AuditEntry{
		Event:      string(event.Kind),
		Category:   "proposal_lifecycle",
		Severity:   domain.AuditInfo,
		ActorID:    event.ActorID,
		Resource:   "proposal",
		ResourceID: p.ProposalID,
		Metadata:   metadata,
		Status:     "success",
	}
	if err := d.auditSvc.RecordEvent(ctx, entry); err != nil {
		logger.Warn("Failed to record audit entry",
			slog.String("event", string(event.Kind)),
			slog.String("proposal_id", p.ProposalID),
			slog.String("error", err.Error()),
		)
	}
}
