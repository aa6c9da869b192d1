package services

import (
	"context"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
	"github.com/voyago/travel_proposal_app/internal/dto"
)

// ProposalEventKind names the lifecycle events the dispatcher reacts to.
type ProposalEventKind string

const (
	EventProposalCreated       ProposalEventKind = "proposal.created"
	EventProposalSent          ProposalEventKind = "proposal.sent"
	EventProposalViewed        ProposalEventKind = "proposal.viewed"
	EventProposalAccepted      ProposalEventKind = "proposal.accepted"
	EventProposalRejected      ProposalEventKind = "proposal.rejected"
	EventRevisionRequested     ProposalEventKind = "proposal.revision_requested"
	EventQuestionAsked         ProposalEventKind = "proposal.question_asked"
	EventParticipantsSubmitted ProposalEventKind = "proposal.participants_submitted"
	EventFlightBookingStarted  ProposalEventKind = "proposal.flight_booking_started"
	EventFlightBooked          ProposalEventKind = "proposal.flight_booked"
	EventDocumentsUploaded     ProposalEventKind = "proposal.documents_uploaded"
	EventFinalConfirmation     ProposalEventKind = "proposal.final_confirmation"
	EventProposalApproved      ProposalEventKind = "proposal.approved"
	EventApprovalRejected      ProposalEventKind = "proposal.approval_rejected"
	EventProposalWithdrawn     ProposalEventKind = "proposal.withdrawn"
	EventProposalExpired       ProposalEventKind = "proposal.expired"
	EventProposalDuplicated    ProposalEventKind = "proposal.duplicated"
	EventProposalDeleted       ProposalEventKind = "proposal.deleted"
)

// ProposalEvent is the payload handed to the side-effect dispatcher after a
// transition commits. Proposal is the post-transition snapshot; Request may be
// nil when the parent could not be loaded.
type ProposalEvent struct {
	Kind     ProposalEventKind
	Proposal *domain.Proposal
	Request  *domain.PackageRequest
	ActorID  string

	// Note carries the event's free text: rejection reason, revision notes,
	// question text, or a custom email message, depending on Kind.
	Note string

	// Email options, used by EventProposalSent.
	EmailRecipient     string
	IncludeAttachments bool
}

// SideEffectDispatcher schedules the asynchronous side effects of a committed
// transition: in-app notification, outbound email job, and one audit entry.
// Dispatch never fails the caller; side-effect errors are logged only.
type SideEffectDispatcher interface {
	Dispatch(ctx context.Context, event ProposalEvent)
}

// NotificationSvcFacade is the in-app notification sink and reader.
type NotificationSvcFacade interface {
	// CreateNotification records a best-effort notification for a user.
	CreateNotification(ctx context.Context, userID string, nType domain.NotificationType, title, message, relatedID, relatedType string, data map[string]any) error

	// ListMyNotifications retrieves the caller's notifications, newest first.
	ListMyNotifications(ctx context.Context, userID string, params dto.ListNotificationsParams) (*dto.ListNotificationsResponse, error)

	// MarkRead marks one of the caller's notifications as read.
	MarkRead(ctx context.Context, notificationID string, userID string) error

	// MarkAllRead marks all of the caller's notifications as read.
	MarkAllRead(ctx context.Context, userID string) error
}

// AuditSvcFacade is the append-only audit sink. The engine is a producer,
// never a reader.
type AuditSvcFacade interface {
	// RecordEvent appends one audit entry.
	RecordEvent(ctx context.Context, entry domain.AuditEntry) error
}

// EmailSender is the external email transport collaborator. Implementations
// deliver a single job; the engine treats delivery as fire-and-forget.
type EmailSender interface {
	Send(ctx context.Context, job domain.EmailJob) error
}

// EmailOutboxSvcFacade queues proposal emails and drives the outbox worker.
type EmailOutboxSvcFacade interface {
	// EnqueueProposalEmail records an outbound email job for a proposal.
	EnqueueProposalEmail(ctx context.Context, proposal *domain.Proposal, recipient, customMessage string, includeAttachments bool) error

	// ProcessOutbox attempts delivery of up to limit queued jobs and returns
	// the number delivered.
	ProcessOutbox(ctx context.Context, limit int) (int, error)
}
