package services

import (
	"context"
	"time"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
	"github.com/voyago/travel_proposal_app/internal/dto"
)

// RequestReaderSvc defines read operations for package requests.
type RequestReaderSvc interface {
	// GetRequestByID retrieves a request, enforcing visibility for the caller.
	GetRequestByID(ctx context.Context, requestID string, requestingUserID string) (*domain.PackageRequest, error)

	// ListMyRequests retrieves the caller's own requests.
	ListMyRequests(ctx context.Context, userID string) ([]domain.PackageRequest, error)

	// ListRequests retrieves a paginated operator view of requests.
	ListRequests(ctx context.Context, requestingUserID string, params dto.ListRequestsParams) (*dto.ListRequestsResponse, error)
}

// RequestWriterSvc defines customer-facing write operations for requests.
type RequestWriterSvc interface {
	// CreateRequest persists a new package request for the calling customer.
	CreateRequest(ctx context.Context, req dto.CreateRequestRequest, creatorUserID string) (*domain.PackageRequest, error)

	// CancelRequest cancels a pending request; only the owner may cancel.
	CancelRequest(ctx context.Context, requestID string, requestingUserID string) error
}

// RequestLinkageSvc keeps the parent request in sync with proposal events.
// All methods are best-effort: a missing parent degrades gracefully and the
// proposal-level operation still succeeds.
type RequestLinkageSvc interface {
	// NoteProposalCreated recomputes proposalCount and refreshes timestamps.
	NoteProposalCreated(ctx context.Context, requestID string, at time.Time) error

	// NoteProposalSent marks the request proposal_sent and refreshes lastProposalSent.
	NoteProposalSent(ctx context.Context, requestID string, actorID string, at time.Time) error

	// NoteProposalAccepted marks the request confirmed.
	NoteProposalAccepted(ctx context.Context, requestID string, actorID string, at time.Time) error

	// NoteProposalRejected reverts proposal_sent to in_review.
	NoteProposalRejected(ctx context.Context, requestID string, actorID string, at time.Time) error

	// NoteRevisionRequested marks the request requires_revision with an admin note.
	NoteRevisionRequested(ctx context.Context, requestID string, note string, actorID string, at time.Time) error
}

// RequestSvcFacade combines all request-related service interfaces.
type RequestSvcFacade interface {
	RequestReaderSvc
	RequestWriterSvc
	RequestLinkageSvc
}
