package repositories

import (
	"context"
	"time"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
)

// RequestReader defines read operations for package request data.
type RequestReader interface {
	// FindRequestByID retrieves a package request by its unique identifier.
	FindRequestByID(ctx context.Context, requestID string) (*domain.PackageRequest, error)

	// ListRequestsByUser retrieves the requests owned by a customer.
	ListRequestsByUser(ctx context.Context, userID string) ([]domain.PackageRequest, error)

	// ListRequests retrieves a paginated list of requests for operators using
	// token-based pagination, optionally filtered by status.
	ListRequests(ctx context.Context, status *domain.RequestStatus, limit int, nextToken *string) ([]domain.PackageRequest, *string, error)
}

// RequestWriter defines write operations for package request data.
type RequestWriter interface {
	// SaveRequest persists a new package request.
	SaveRequest(ctx context.Context, request domain.PackageRequest) error

	// UpdateRequestStatus sets the request status and, when non-nil, the
	// operator-visible admin note.
	UpdateRequestStatus(ctx context.Context, requestID string, status domain.RequestStatus, adminNote *string, updatedBy string, updatedAt time.Time) error

	// RefreshProposalStats recomputes proposal_count from the live count of
	// proposals referencing the request and refreshes last_proposal_sent.
	RefreshProposalStats(ctx context.Context, requestID string, lastProposalSent *time.Time, updatedAt time.Time) error
}

// RequestRepositoryFacade combines all request-related repository interfaces.
type RequestRepositoryFacade interface {
	RequestReader
	RequestWriter
}
