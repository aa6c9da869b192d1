package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
)

// ProposalStatusPatch describes the field changes applied together with a
// guarded status transition. Timestamp pointers are applied with
// at-most-once semantics: an already-set column is never overwritten.
type ProposalStatusPatch struct {
	NewStatus domain.ProposalStatus

	SentAt              *time.Time
	ViewedAt            *time.Time
	AcceptedAt          *time.Time
	RejectedAt          *time.Time
	ParticipantsDataAt  *time.Time
	FlightBookedAt      *time.Time
	DocumentsUploadedAt *time.Time
	TermsAcceptedAt     *time.Time
	FinalConfirmationAt *time.Time

	// FreezeFinalAmount copies the current total_price into final_amount.
	FreezeFinalAmount bool

	IncrementNegotiationRounds bool

	ApprovalStatus   *domain.ApprovalStatus
	CustomerFeedback *string
	RejectionReason  *string
	RevisionNotes    *string

	Participants      []domain.Participant
	FlightBooking     *domain.FlightBookingDetails
	ContractDocuments []domain.ContractDocument // appended, never replaced

	UpdatedBy string
	UpdatedAt time.Time
}

// ProposalReader defines read operations for proposal data.
type ProposalReader interface {
	// FindProposalByID retrieves a proposal by its unique identifier.
	FindProposalByID(ctx context.Context, proposalID string) (*domain.Proposal, error)

	// FindProposalByNumber retrieves a proposal by its human-readable number.
	FindProposalByNumber(ctx context.Context, proposalNumber string) (*domain.Proposal, error)

	// ListProposalsByRequest retrieves all active proposals for a package request.
	ListProposalsByRequest(ctx context.Context, requestID string) ([]domain.Proposal, error)

	// ListProposals retrieves a paginated list of proposals for an operator using
	// token-based pagination. A non-nil adminID restricts results to that creator.
	ListProposals(ctx context.Context, adminID *string, status *domain.ProposalStatus, limit int, nextToken *string) ([]domain.Proposal, *string, error)

	// CountProposalsByRequest returns the live count of proposals referencing the request.
	CountProposalsByRequest(ctx context.Context, requestID string) (int, error)
}

// ProposalWriter defines write operations for proposal data.
type ProposalWriter interface {
	// SaveProposal persists a new proposal.
	SaveProposal(ctx context.Context, proposal domain.Proposal) error

	// UpdateProposalTerms overwrites the commercial terms of a proposal. The
	// update is applied only while the stored status is in allowedFrom; zero
	// rows affected surfaces as an illegal-transition error.
	UpdateProposalTerms(ctx context.Context, proposal domain.Proposal, allowedFrom []domain.ProposalStatus) error

	// TransitionStatus atomically applies the patch iff the stored status is in
	// allowedFrom, and returns the post-transition proposal. The loser of a
	// concurrent race observes zero affected rows and receives
	// apperrors.ErrIllegalTransition.
	TransitionStatus(ctx context.Context, proposalID string, allowedFrom []domain.ProposalStatus, patch ProposalStatusPatch) (*domain.Proposal, error)

	// AddAttachment appends an attachment to the proposal's attachment list.
	AddAttachment(ctx context.Context, proposalID string, attachment domain.Attachment, updatedBy string, updatedAt time.Time) error

	// SetApprovalStatus updates only the internal-approval sub-state.
	SetApprovalStatus(ctx context.Context, proposalID string, status domain.ApprovalStatus, updatedBy string, updatedAt time.Time) error

	// SoftDeleteProposal marks the proposal inactive.
	SoftDeleteProposal(ctx context.Context, proposalID string, deletedBy string, deletedAt time.Time) error
}

// ProposalRepositoryFacade combines all proposal-related repository interfaces.
type ProposalRepositoryFacade interface {
	ProposalReader
	ProposalWriter
}

// StatusCount is one row of the proposals-by-status report.
type StatusCount struct {
	Status domain.ProposalStatus `json:"status"`
	Count  int                   `json:"count"`
}

// CurrencyTotal is one row of the accepted-amount report.
type CurrencyTotal struct {
	CurrencyCode string          `json:"currencyCode"`
	Total        decimal.Decimal `json:"total"`
	Count        int             `json:"count"`
}

// ReportingRepository defines aggregate read operations for operator dashboards.
type ReportingRepository interface {
	// CountProposalsByStatus returns the number of active proposals per status.
	// A non-nil adminID restricts the aggregation to that creator's proposals.
	CountProposalsByStatus(ctx context.Context, adminID *string) ([]StatusCount, error)

	// SumAcceptedTotals returns accepted proposal totals grouped by currency.
	SumAcceptedTotals(ctx context.Context, adminID *string) ([]CurrencyTotal, error)

	// AverageNegotiationRounds returns the mean negotiation rounds across
	// proposals that received at least one customer response.
	AverageNegotiationRounds(ctx context.Context, adminID *string) (float64, error)
}
