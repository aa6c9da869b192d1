package services

import (
	"context"

	"github.com/voyago/travel_proposal_app/internal/apperrors"
	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/dto"
)

type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
	userRepo      portsrepo.UserRepositoryFacade
}

// NewReportingService creates the operator dashboard service.
func NewReportingService(repos portsrepo.RepositoryProvider) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: repos.ReportingRepo,
		userRepo:      repos.UserRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) GetProposalReport(ctx context.Context, requestingUserID string) (*dto.ProposalReportResponse, error) {
	user, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, apperrors.NewForbiddenError("requesting user not found")
	}
	if !user.Role.IsOperator() {
		return nil, apperrors.NewForbiddenError("operator role required")
	}

	var adminID *string
	if user.Role != domain.RoleMaster {
		adminID = &user.UserID
	}

	statusCounts, err := s.reportingRepo.CountProposalsByStatus(ctx, adminID)
	if err != nil {
		return nil, err
	}
	acceptedTotals, err := s.reportingRepo.SumAcceptedTotals(ctx, adminID)
	if err != nil {
		return nil, err
	}
	avgRounds, err := s.reportingRepo.AverageNegotiationRounds(ctx, adminID)
	if err != nil {
		return nil, err
	}

	return &dto.ProposalReportResponse{
		StatusCounts:             statusCounts,
		AcceptedTotals:           acceptedTotals,
		AverageNegotiationRounds: avgRounds,
	}, nil
}
