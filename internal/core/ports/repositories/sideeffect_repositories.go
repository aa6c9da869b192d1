package repositories

import (
	"context"
	"time"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
)

// NotificationRepository persists in-app notifications.
type NotificationRepository interface {
	// SaveNotification persists a new notification.
	SaveNotification(ctx context.Context, notification domain.Notification) error

	// ListNotificationsByUser retrieves a paginated list of a user's
	// notifications, newest first, using token-based pagination.
	ListNotificationsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Notification, *string, error)

	// MarkNotificationRead marks one notification as read; scoped to the owner.
	MarkNotificationRead(ctx context.Context, notificationID string, userID string) error

	// MarkAllNotificationsRead marks every unread notification of the user as read.
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

// AuditRepository is the append-only sink for audit entries. Never read by the engine.
type AuditRepository interface {
	// SaveAuditEntry appends one audit entry.
	SaveAuditEntry(ctx context.Context, entry domain.AuditEntry) error
}

// EmailOutboxRepository persists queued outbound email jobs.
type EmailOutboxRepository interface {
	// EnqueueEmail persists a new queued email job.
	EnqueueEmail(ctx context.Context, job domain.EmailJob) error

	// ListQueuedEmails retrieves up to limit queued jobs, oldest first.
	ListQueuedEmails(ctx context.Context, limit int) ([]domain.EmailJob, error)

	// MarkEmailSent records a successful delivery.
	MarkEmailSent(ctx context.Context, emailID string, sentAt time.Time) error

	// MarkEmailFailed records a failed delivery attempt.
	MarkEmailFailed(ctx context.Context, emailID string, lastError string) error
}
