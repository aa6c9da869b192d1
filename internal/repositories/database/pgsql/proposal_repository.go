package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voyago/travel_proposal_app/internal/apperrors"
	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
	"github.com/voyago/travel_proposal_app/internal/utils/pagination"
)

type PgxProposalRepository struct {
	BaseRepository
}

func newPgxProposalRepository(db *pgxpool.Pool) *PgxProposalRepository {
	return &PgxProposalRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.ProposalRepositoryFacade = (*PgxProposalRepository)(nil)

const proposalColumns = `
	proposal_id, proposal_number, request_id, admin_id, partner_id, organization_id,
	title, description,
	components, subtotal, taxes, fees, discount, total_price, currency_code,
	valid_until, payment_terms, cancellation_policy, inclusions, exclusions,
	status, requires_approval, approval_status, negotiation_rounds,
	customer_feedback, rejection_reason, revision_notes,
	attachments, contract_documents, participants, flight_booking,
	sent_at, viewed_at, accepted_at, rejected_at, participants_data_submitted_at,
	flight_booked_at, documents_uploaded_at, terms_accepted_at, final_confirmation_at,
	final_amount, is_active, deleted_at, deleted_by,
	created_at, created_by, last_updated_at, last_updated_by`

// scanProposal scans one full proposal row in proposalColumns order.
func scanProposal(row pgx.Row) (*domain.Proposal, error) {
	var p domain.Proposal
	err := row.Scan(
		&p.ProposalID, &p.ProposalNumber, &p.RequestID, &p.AdminID, &p.PartnerID, &p.OrganizationID,
		&p.Title, &p.Description,
		&p.Components, &p.Subtotal, &p.Taxes, &p.Fees, &p.Discount, &p.TotalPrice, &p.CurrencyCode,
		&p.ValidUntil, &p.PaymentTerms, &p.CancellationPolicy, &p.Inclusions, &p.Exclusions,
		&p.Status, &p.RequiresApproval, &p.ApprovalStatus, &p.NegotiationRounds,
		&p.CustomerFeedback, &p.RejectionReason, &p.RevisionNotes,
		&p.Attachments, &p.ContractDocuments, &p.Participants, &p.FlightBooking,
		&p.SentAt, &p.ViewedAt, &p.AcceptedAt, &p.RejectedAt, &p.ParticipantsDataSubmittedAt,
		&p.FlightBookedAt, &p.DocumentsUploadedAt, &p.TermsAcceptedAt, &p.FinalConfirmationAt,
		&p.FinalAmount, &p.IsActive, &p.DeletedAt, &p.DeletedBy,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func statusStrings(statuses []domain.ProposalStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *PgxProposalRepository) SaveProposal(ctx context.Context, proposal domain.Proposal) error {
	query := `
		INSERT INTO proposals (
			proposal_id, proposal_number, request_id, admin_id, partner_id, organization_id,
			title, description,
			components, subtotal, taxes, fees, discount, total_price, currency_code,
			valid_until, payment_terms, cancellation_policy, inclusions, exclusions,
			status, requires_approval, approval_status, negotiation_rounds,
			attachments, contract_documents, participants,
			is_active, created_at, created_by, last_updated_at, last_updated_by
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8,
			$9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20,
			$21, $22, $23, $24,
			$25, $26, $27,
			$28, $29, $30, $31, $32
		);`
	_, err := r.Pool.Exec(ctx, query,
		proposal.ProposalID, proposal.ProposalNumber, proposal.RequestID, proposal.AdminID, proposal.PartnerID, proposal.OrganizationID,
		proposal.Title, proposal.Description,
		proposal.Components, proposal.Subtotal, proposal.Taxes, proposal.Fees, proposal.Discount, proposal.TotalPrice, proposal.CurrencyCode,
		proposal.ValidUntil, proposal.PaymentTerms, proposal.CancellationPolicy, proposal.Inclusions, proposal.Exclusions,
		proposal.Status, proposal.RequiresApproval, proposal.ApprovalStatus, proposal.NegotiationRounds,
		proposal.Attachments, proposal.ContractDocuments, proposal.Participants,
		proposal.IsActive, proposal.CreatedAt, proposal.CreatedBy, proposal.LastUpdatedAt, proposal.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return apperrors.NewConflictError(fmt.Sprintf("proposal number %s already exists", proposal.ProposalNumber))
			}
		}
		return fmt.Errorf("failed to save proposal: %w", err)
	}
	return nil
}

func (r *PgxProposalRepository) FindProposalByID(ctx context.Context, proposalID string) (*domain.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE proposal_id = $1 AND is_active = TRUE;`
	p, err := scanProposal(r.Pool.QueryRow(ctx, query, proposalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find proposal by ID %s: %w", proposalID, err)
	}
	return p, nil
}

func (r *PgxProposalRepository) FindProposalByNumber(ctx context.Context, proposalNumber string) (*domain.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE proposal_number = $1 AND is_active = TRUE;`
	p, err := scanProposal(r.Pool.QueryRow(ctx, query, proposalNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find proposal by number %s: %w", proposalNumber, err)
	}
	return p, nil
}

func (r *PgxProposalRepository) ListProposalsByRequest(ctx context.Context, requestID string) ([]domain.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE request_id = $1 AND is_active = TRUE ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals for request %s: %w", requestID, err)
	}
	defer rows.Close()

	var proposals []domain.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proposal row: %w", err)
		}
		proposals = append(proposals, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating proposal rows: %w", err)
	}
	return proposals, nil
}

// ListProposals retrieves a paginated list of proposals using token-based pagination.
func (r *PgxProposalRepository) ListProposals(ctx context.Context, adminID *string, status *domain.ProposalStatus, limit int, nextToken *string) ([]domain.Proposal, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1 // Fetch one extra to detect if there are more pages

	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE is_active = TRUE`
	args := []interface{}{}
	argIdx := 1

	if adminID != nil {
		query += fmt.Sprintf(" AND admin_id = $%d", argIdx)
		args = append(args, *adminID)
		argIdx++
	}
	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *status)
		argIdx++
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += fmt.Sprintf(" AND (created_at, proposal_id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, lastCreatedAt, lastID)
		argIdx += 2
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, proposal_id DESC LIMIT $%d;", argIdx)
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer rows.Close()

	var proposals []domain.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan proposal row: %w", err)
		}
		proposals = append(proposals, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating proposal rows: %w", err)
	}

	var nextTokenVal *string
	if len(proposals) > limit {
		proposals = proposals[:limit]
		last := proposals[len(proposals)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.ProposalID)
		nextTokenVal = &token
	}
	return proposals, nextTokenVal, nil
}

func (r *PgxProposalRepository) CountProposalsByRequest(ctx context.Context, requestID string) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM proposals WHERE request_id = $1 AND is_active = TRUE;`, requestID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count proposals for request %s: %w", requestID, err)
	}
	return count, nil
}

// UpdateProposalTerms overwrites the commercial terms of a proposal, guarded on
// the stored status still being in allowedFrom.
func (r *PgxProposalRepository) UpdateProposalTerms(ctx context.Context, proposal domain.Proposal, allowedFrom []domain.ProposalStatus) error {
	query := `
		UPDATE proposals SET
			title = $1, description = $2,
			components = $3, subtotal = $4, taxes = $5, fees = $6, discount = $7,
			total_price = $8, currency_code = $9, valid_until = $10,
			payment_terms = $11, cancellation_policy = $12, inclusions = $13, exclusions = $14,
			requires_approval = $15, approval_status = $16,
			last_updated_at = $17, last_updated_by = $18
		WHERE proposal_id = $19 AND is_active = TRUE AND status = ANY($20);`
	tag, err := r.Pool.Exec(ctx, query,
		proposal.Title, proposal.Description,
		proposal.Components, proposal.Subtotal, proposal.Taxes, proposal.Fees, proposal.Discount,
		proposal.TotalPrice, proposal.CurrencyCode, proposal.ValidUntil,
		proposal.PaymentTerms, proposal.CancellationPolicy, proposal.Inclusions, proposal.Exclusions,
		proposal.RequiresApproval, proposal.ApprovalStatus,
		proposal.LastUpdatedAt, proposal.LastUpdatedBy,
		proposal.ProposalID, statusStrings(allowedFrom),
	)
	if err != nil {
		return fmt.Errorf("failed to update proposal %s: %w", proposal.ProposalID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.zeroRowsError(ctx, proposal.ProposalID)
	}
	return nil
}

// TransitionStatus atomically applies the patch iff the stored status is in
// allowedFrom, and returns the post-transition proposal. The single guarded
// UPDATE is what makes a concurrent race deterministic: exactly one caller
// matches the status predicate, the loser sees zero rows.
func (r *PgxProposalRepository) TransitionStatus(ctx context.Context, proposalID string, allowedFrom []domain.ProposalStatus, patch portsrepo.ProposalStatusPatch) (*domain.Proposal, error) {
	sets := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	// Lifecycle timestamps are stamped at most once: COALESCE keeps the
	// first value a transition ever wrote.
	addOnce := func(column string, value *time.Time) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = COALESCE(%s, $%d)", column, column, len(args)))
	}

	add("status", patch.NewStatus)
	add("last_updated_at", patch.UpdatedAt)
	add("last_updated_by", patch.UpdatedBy)

	addOnce("sent_at", patch.SentAt)
	addOnce("viewed_at", patch.ViewedAt)
	addOnce("accepted_at", patch.AcceptedAt)
	addOnce("rejected_at", patch.RejectedAt)
	addOnce("participants_data_submitted_at", patch.ParticipantsDataAt)
	addOnce("flight_booked_at", patch.FlightBookedAt)
	addOnce("documents_uploaded_at", patch.DocumentsUploadedAt)
	addOnce("terms_accepted_at", patch.TermsAcceptedAt)
	addOnce("final_confirmation_at", patch.FinalConfirmationAt)

	if patch.FreezeFinalAmount {
		sets = append(sets, "final_amount = COALESCE(final_amount, total_price)")
	}
	if patch.IncrementNegotiationRounds {
		sets = append(sets, "negotiation_rounds = negotiation_rounds + 1")
	}
	if patch.ApprovalStatus != nil {
		add("approval_status", *patch.ApprovalStatus)
	}
	if patch.CustomerFeedback != nil {
		add("customer_feedback", *patch.CustomerFeedback)
	}
	if patch.RejectionReason != nil {
		add("rejection_reason", *patch.RejectionReason)
	}
	if patch.RevisionNotes != nil {
		add("revision_notes", *patch.RevisionNotes)
	}
	if patch.Participants != nil {
		add("participants", patch.Participants)
	}
	if patch.FlightBooking != nil {
		add("flight_booking", patch.FlightBooking)
	}
	if len(patch.ContractDocuments) > 0 {
		args = append(args, patch.ContractDocuments)
		sets = append(sets, fmt.Sprintf("contract_documents = contract_documents || $%d::jsonb", len(args)))
	}

	args = append(args, proposalID)
	idArg := len(args)
	args = append(args, statusStrings(allowedFrom))
	fromArg := len(args)

	query := fmt.Sprintf(`UPDATE proposals SET %s WHERE proposal_id = $%d AND is_active = TRUE AND status = ANY($%d) RETURNING %s;`,
		strings.Join(sets, ", "), idArg, fromArg, proposalColumns)

	p, err := scanProposal(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.zeroRowsError(ctx, proposalID)
		}
		return nil, fmt.Errorf("failed to transition proposal %s to %s: %w", proposalID, patch.NewStatus, err)
	}
	return p, nil
}

// zeroRowsError disambiguates a guarded update that matched nothing: a missing
// or deleted proposal is not-found, an existing one is an illegal transition.
func (r *PgxProposalRepository) zeroRowsError(ctx context.Context, proposalID string) error {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM proposals WHERE proposal_id = $1 AND is_active = TRUE);`, proposalID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check proposal %s existence: %w", proposalID, err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrIllegalTransition
}

func (r *PgxProposalRepository) AddAttachment(ctx context.Context, proposalID string, attachment domain.Attachment, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE proposals
		SET attachments = attachments || $2::jsonb, last_updated_at = $3, last_updated_by = $4
		WHERE proposal_id = $1 AND is_active = TRUE;`
	tag, err := r.Pool.Exec(ctx, query, proposalID, []domain.Attachment{attachment}, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to add attachment to proposal %s: %w", proposalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxProposalRepository) SetApprovalStatus(ctx context.Context, proposalID string, status domain.ApprovalStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE proposals
		SET approval_status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE proposal_id = $1 AND is_active = TRUE;`
	tag, err := r.Pool.Exec(ctx, query, proposalID, status, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to set approval status on proposal %s: %w", proposalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxProposalRepository) SoftDeleteProposal(ctx context.Context, proposalID string, deletedBy string, deletedAt time.Time) error {
	query := `
		UPDATE proposals
		SET is_active = FALSE, deleted_at = $2, deleted_by = $3, last_updated_at = $2, last_updated_by = $3
		WHERE proposal_id = $1 AND is_active = TRUE;`
	tag, err := r.Pool.Exec(ctx, query, proposalID, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to soft delete proposal %s: %w", proposalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
