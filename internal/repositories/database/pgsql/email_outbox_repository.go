package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voyago/travel_proposal_app/internal/apperrors"
	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
)

type PgxEmailOutboxRepository struct {
	BaseRepository
}

func newPgxEmailOutboxRepository(db *pgxpool.Pool) *PgxEmailOutboxRepository {
	return &PgxEmailOutboxRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.EmailOutboxRepository = (*PgxEmailOutboxRepository)(nil)

func (r *PgxEmailOutboxRepository) EnqueueEmail(ctx context.Context, job domain.EmailJob) error {
	query := `
		INSERT INTO email_outbox (email_id, proposal_id, recipient, subject, custom_message, include_attachments, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	_, err := r.Pool.Exec(ctx, query,
		job.EmailID, job.ProposalID, job.Recipient, job.Subject, job.CustomMessage,
		job.IncludeAttachments, job.Status, job.Attempts, job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}
	return nil
}

func (r *PgxEmailOutboxRepository) ListQueuedEmails(ctx context.Context, limit int) ([]domain.EmailJob, error) {
	if limit <= 0 {
		limit = 25
	}
	query := `
		SELECT email_id, proposal_id, recipient, subject, custom_message, include_attachments, status, attempts, last_error, created_at, sent_at
		FROM email_outbox
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2;`
	rows, err := r.Pool.Query(ctx, query, domain.EmailQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list queued emails: %w", err)
	}
	defer rows.Close()

	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.EmailJob, error) {
		var j domain.EmailJob
		err := row.Scan(&j.EmailID, &j.ProposalID, &j.Recipient, &j.Subject, &j.CustomMessage,
			&j.IncludeAttachments, &j.Status, &j.Attempts, &j.LastError, &j.CreatedAt, &j.SentAt)
		return j, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect email rows: %w", err)
	}
	return jobs, nil
}

func (r *PgxEmailOutboxRepository) MarkEmailSent(ctx context.Context, emailID string, sentAt time.Time) error {
	query := `UPDATE email_outbox SET status = $2, sent_at = $3, attempts = attempts + 1 WHERE email_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, emailID, domain.EmailSent, sentAt)
	if err != nil {
		return fmt.Errorf("failed to mark email %s sent: %w", emailID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxEmailOutboxRepository) MarkEmailFailed(ctx context.Context, emailID string, lastError string) error {
	query := `UPDATE email_outbox SET status = $2, last_error = $3, attempts = attempts + 1 WHERE email_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, emailID, domain.EmailFailed, lastError)
	if err != nil {
		return fmt.Errorf("failed to mark email %s failed: %w", emailID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
