package services

import (
	"context"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
	"github.com/voyago/travel_proposal_app/internal/dto"
)

// ProposalReaderSvc defines read operations for proposal data.
type ProposalReaderSvc interface {
	// GetProposalByID retrieves a proposal, enforcing visibility for the requesting user.
	GetProposalByID(ctx context.Context, proposalID string, requestingUserID string) (*domain.Proposal, error)

	// GetProposalByNumber retrieves a proposal by its human-readable number.
	GetProposalByNumber(ctx context.Context, proposalNumber string, requestingUserID string) (*domain.Proposal, error)

	// ListProposalsByRequest retrieves the proposals attached to a package request.
	ListProposalsByRequest(ctx context.Context, requestID string, requestingUserID string) ([]domain.Proposal, error)

	// ListProposals retrieves a paginated operator view of proposals.
	ListProposals(ctx context.Context, requestingUserID string, params dto.ListProposalsParams) (*dto.ListProposalsResponse, error)
}

// ProposalOperatorSvc defines the operator-side transitions (employee/partner/master).
type ProposalOperatorSvc interface {
	// CreateProposal creates a new draft proposal against a package request.
	CreateProposal(ctx context.Context, req dto.CreateProposalRequest, creatorUserID string) (*domain.Proposal, error)

	// UpdateProposal edits commercial terms; legal only while the proposal is editable.
	UpdateProposal(ctx context.Context, proposalID string, req dto.UpdateProposalRequest, requestingUserID string) (*domain.Proposal, error)

	// SubmitForReview routes a draft into internal review.
	SubmitForReview(ctx context.Context, proposalID string, requestingUserID string) (*domain.Proposal, error)

	// ApproveProposal grants internal approval, unlocking send for proposals that require it.
	ApproveProposal(ctx context.Context, proposalID string, requestingUserID string) (*domain.Proposal, error)

	// RejectApproval denies internal approval.
	RejectApproval(ctx context.Context, proposalID string, reason string, requestingUserID string) (*domain.Proposal, error)

	// SendProposal delivers the proposal to the customer and stamps sentAt once.
	SendProposal(ctx context.Context, proposalID string, req dto.SendProposalRequest, requestingUserID string) (*domain.Proposal, error)

	// WithdrawProposal withdraws an outstanding proposal.
	WithdrawProposal(ctx context.Context, proposalID string, reason string, requestingUserID string) (*domain.Proposal, error)

	// MarkExpired expires an outstanding proposal whose validity deadline passed.
	MarkExpired(ctx context.Context, proposalID string, requestingUserID string) (*domain.Proposal, error)

	// DuplicateProposal creates a fresh draft copy, optionally adjusting prices.
	DuplicateProposal(ctx context.Context, proposalID string, req dto.DuplicateProposalRequest, requestingUserID string) (*domain.Proposal, error)

	// DeleteProposal soft-deletes a proposal; accepted proposals are never deletable.
	DeleteProposal(ctx context.Context, proposalID string, requestingUserID string) error
}

// ProposalCustomerSvc defines the customer-side transitions, guarded by
// ownership of the parent request (user id or email fallback).
type ProposalCustomerSvc interface {
	// MarkViewed stamps viewedAt; an idempotent no-op unless currently sent.
	MarkViewed(ctx context.Context, proposalID string, requestingUserID string) (*domain.Proposal, error)

	// AcceptProposal is the direct acceptance path: accept and supply
	// participant data in one call, landing on participants_data_completed.
	AcceptProposal(ctx context.Context, proposalID string, req dto.AcceptProposalRequest, requestingUserID string) (*domain.Proposal, error)

	// AcceptProposalInitial is the staged acceptance path: accept without
	// data, landing on awaiting_participants_data.
	AcceptProposalInitial(ctx context.Context, proposalID string, req dto.AcceptInitialRequest, requestingUserID string) (*domain.Proposal, error)

	// RejectProposal declines the proposal with a reason.
	RejectProposal(ctx context.Context, proposalID string, reason string, requestingUserID string) (*domain.Proposal, error)

	// RequestRevision sends the proposal back into negotiation with notes.
	RequestRevision(ctx context.Context, proposalID string, notes string, requestingUserID string) (*domain.Proposal, error)

	// AskQuestion records a customer question, moving the proposal into negotiation.
	AskQuestion(ctx context.Context, proposalID string, question string, requestingUserID string) (*domain.Proposal, error)

	// SubmitParticipantsData completes the staged acceptance path.
	SubmitParticipantsData(ctx context.Context, proposalID string, req dto.SubmitParticipantsRequest, requestingUserID string) (*domain.Proposal, error)

	// GiveFinalConfirmation requires an explicit terms-acceptance flag and
	// advances to payment_pending in one logical operation, freezing finalAmount.
	GiveFinalConfirmation(ctx context.Context, proposalID string, req dto.FinalConfirmationRequest, requestingUserID string) (*domain.Proposal, error)
}

// ProposalFulfillmentSvc defines the operator-side post-acceptance logistics steps.
type ProposalFulfillmentSvc interface {
	// StartFlightBooking moves a completed-data proposal into flight booking.
	StartFlightBooking(ctx context.Context, proposalID string, requestingUserID string) (*domain.Proposal, error)

	// ConfirmFlightBooked records booking details and advances to flight_booked.
	ConfirmFlightBooked(ctx context.Context, proposalID string, req dto.FlightBookingRequest, requestingUserID string) (*domain.Proposal, error)

	// UploadContractDocuments appends issued documents and advances to documents_uploaded.
	UploadContractDocuments(ctx context.Context, proposalID string, req dto.UploadDocumentsRequest, requestingUserID string) (*domain.Proposal, error)

	// AddAttachment appends an attachment without changing status.
	AddAttachment(ctx context.Context, proposalID string, req dto.AttachmentRequest, requestingUserID string) (*domain.Proposal, error)
}

// ProposalSvcFacade combines all proposal-related service interfaces.
type ProposalSvcFacade interface {
	ProposalReaderSvc
	ProposalOperatorSvc
	ProposalCustomerSvc
	ProposalFulfillmentSvc
}
