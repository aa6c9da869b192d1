package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/voyago/travel_proposal_app/internal/apperrors"
	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/dto"
)

type requestService struct {
	requestRepo portsrepo.RequestRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
}

// NewRequestService creates the package request service.
func NewRequestService(repos portsrepo.RepositoryProvider) portssvc.RequestSvcFacade {
	return &requestService{
		requestRepo: repos.RequestRepo,
		userRepo:    repos.UserRepo,
	}
}

var _ portssvc.RequestSvcFacade = (*requestService)(nil)

func (s *requestService) CreateRequest(ctx context.Context, req dto.CreateRequestRequest, creatorUserID string) (*domain.PackageRequest, error) {
	user, err := s.userRepo.FindUserByID(ctx, creatorUserID)
	if err != nil {
		return nil, apperrors.NewForbiddenError("requesting user not found")
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, apperrors.NewValidationFailedError("end date cannot precede start date")
	}

	now := time.Now()
	request := domain.PackageRequest{
		RequestID:      uuid.NewString(),
		UserID:         user.UserID,
		CustomerEmail:  user.Email,
		Destination:    req.Destination,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		TravelersCount: req.TravelersCount,
		Budget:         req.Budget,
		CurrencyCode:   req.CurrencyCode,
		Notes:          req.Notes,
		Status:         domain.RequestPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     user.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: user.UserID,
		},
	}
	if err := s.requestRepo.SaveRequest(ctx, request); err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *requestService) CancelRequest(ctx context.Context, requestID string, requestingUserID string) error {
	user, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return apperrors.NewForbiddenError("requesting user not found")
	}
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if !request.OwnedBy(user.UserID, user.Email) {
		return apperrors.NewNotFoundError("request not found")
	}
	if request.Status == domain.RequestConfirmed {
		return apperrors.NewConflictError("confirmed requests cannot be cancelled")
	}
	return s.requestRepo.UpdateRequestStatus(ctx, requestID, domain.RequestCancelled, nil, user.UserID, time.Now())
}

func (s *requestService) GetRequestByID(ctx context.Context, requestID string, requestingUserID string) (*domain.PackageRequest, error) {
	user, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, apperrors.NewForbiddenError("requesting user not found")
	}
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if user.Role.IsOperator() || request.OwnedBy(user.UserID, user.Email) {
		return request, nil
	}
	return nil, apperrors.NewNotFoundError("request not found")
}

func (s *requestService) ListMyRequests(ctx context.Context, userID string) ([]domain.PackageRequest, error) {
	return s.requestRepo.ListRequestsByUser(ctx, userID)
}

func (s *requestService) ListRequests(ctx context.Context, requestingUserID string, params dto.ListRequestsParams) (*dto.ListRequestsResponse, error) {
	user, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, apperrors.NewForbiddenError("requesting user not found")
	}
	if !user.Role.IsOperator() {
		return nil, apperrors.NewForbiddenError("operator role required")
	}

	var status *domain.RequestStatus
	if params.Status != nil && *params.Status != "" {
		st := domain.RequestStatus(*params.Status)
		switch st {
		case domain.RequestPending, domain.RequestInReview, domain.RequestProposalSent,
			domain.RequestRequiresRevision, domain.RequestConfirmed, domain.RequestCancelled:
			status = &st
		default:
			return nil, apperrors.NewValidationFailedError("unknown status: " + *params.Status)
		}
	}

	requests, nextToken, err := s.requestRepo.ListRequests(ctx, status, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListRequestsResponse{
		Requests:  dto.ToRequestResponses(requests),
		NextToken: nextToken,
	}, nil
}

// Linkage methods keep the parent request in sync with proposal events. Each
// refuses to touch terminal request states and degrades gracefully when the
// parent is missing.

func (s *requestService) NoteProposalCreated(ctx context.Context, requestID string, at time.Time) error {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status == domain.RequestPending {
		if err := s.requestRepo.UpdateRequestStatus(ctx, requestID, domain.RequestInReview, nil, request.LastUpdatedBy, at); err != nil {
			return err
		}
	}
	return s.requestRepo.RefreshProposalStats(ctx, requestID, nil, at)
}

func (s *requestService) NoteProposalSent(ctx context.Context, requestID string, actorID string, at time.Time) error {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status != domain.RequestConfirmed && request.Status != domain.RequestCancelled {
		if err := s.requestRepo.UpdateRequestStatus(ctx, requestID, domain.RequestProposalSent, nil, actorID, at); err != nil {
			return err
		}
	}
	return s.requestRepo.RefreshProposalStats(ctx, requestID, &at, at)
}

func (s *requestService) NoteProposalAccepted(ctx context.Context, requestID string, actorID string, at time.Time) error {
	return s.requestRepo.UpdateRequestStatus(ctx, requestID, domain.RequestConfirmed, nil, actorID, at)
}

func (s *requestService) NoteProposalRejected(ctx context.Context, requestID string, actorID string, at time.Time) error {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	// Only unwind a proposal_sent request; a confirmed or cancelled one stays put.
	if request.Status != domain.RequestProposalSent {
		return nil
	}
	return s.requestRepo.UpdateRequestStatus(ctx, requestID, domain.RequestInReview, nil, actorID, at)
}

func (s *requestService) NoteRevisionRequested(ctx context.Context, requestID string, note string, actorID string, at time.Time) error {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status == domain.RequestConfirmed || request.Status == domain.RequestCancelled {
		return nil
	}
	return s.requestRepo.UpdateRequestStatus(ctx, requestID, domain.RequestRequiresRevision, &note, actorID, at)
}
