package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/dto"
	"github.com/voyago/travel_proposal_app/internal/middleware"
)

// fetchParentRequest loads the parent request so fulfillment events can reach
// the customer. Best-effort: the transition has already committed, so a
// missing parent only costs the notification.
func (s *proposalService) fetchParentRequest(ctx context.Context, proposal *domain.Proposal) *domain.PackageRequest {
	request, err := s.requestRepo.FindRequestByID(ctx, proposal.RequestID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Parent request missing on fulfillment event",
			slog.String("proposal_id", proposal.ProposalID),
			slog.String("request_id", proposal.RequestID),
		)
		return nil
	}
	return request
}

func (s *proposalService) StartFlightBooking(ctx context.Context, proposalID string, requestingUserID string) (*domain.Proposal, error) {
	operator, err := s.fetchOperator(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	proposal, err := s.proposalRepo.FindProposalByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOperatorOn(operator, proposal); err != nil {
		return nil, err
	}
	updated, err := s.proposalRepo.TransitionStatus(ctx, proposalID, domain.AllowedSources(domain.TransitionStartFlightBooking), portsrepo.ProposalStatusPatch{
		NewStatus: domain.StatusFlightBookingInProgress,
		UpdatedBy: operator.UserID,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventFlightBookingStarted,
		Proposal: updated,
		ActorID:  operator.UserID,
	})
	return updated, nil
}

func (s *proposalService) ConfirmFlightBooked(ctx context.Context, proposalID string, req dto.FlightBookingRequest, requestingUserID string) (*domain.Proposal, error) {
	operator, err := s.fetchOperator(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	proposal, err := s.proposalRepo.FindProposalByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOperatorOn(operator, proposal); err != nil {
		return nil, err
	}

	now := time.Now()
	updated, err := s.proposalRepo.TransitionStatus(ctx, proposalID, domain.AllowedSources(domain.TransitionConfirmFlightBooked), portsrepo.ProposalStatusPatch{
		NewStatus:      domain.StatusFlightBooked,
		FlightBookedAt: &now,
		FlightBooking: &domain.FlightBookingDetails{
			PNR:        req.PNR,
			Airline:    req.Airline,
			FlightInfo: req.FlightInfo,
			Notes:      req.Notes,
		},
		UpdatedBy: operator.UserID,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventFlightBooked,
		Proposal: updated,
		Request:  s.fetchParentRequest(ctx, updated),
		ActorID:  operator.UserID,
		Note:     req.PNR,
	})
	return updated, nil
}

func (s *proposalService) UploadContractDocuments(ctx context.Context, proposalID string, req dto.UploadDocumentsRequest, requestingUserID string) (*domain.Proposal, error) {
	operator, err := s.fetchOperator(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	proposal, err := s.proposalRepo.FindProposalByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOperatorOn(operator, proposal); err != nil {
		return nil, err
	}

	now := time.Now()
	documents := make([]domain.ContractDocument, len(req.Documents))
	for i, d := range req.Documents {
		documents[i] = domain.ContractDocument{
			Name:       d.Name,
			URL:        d.URL,
			Kind:       d.Kind,
			UploadedBy: operator.UserID,
			UploadedAt: now,
		}
	}

	updated, err := s.proposalRepo.TransitionStatus(ctx, proposalID, domain.AllowedSources(domain.TransitionUploadContractDocuments), portsrepo.ProposalStatusPatch{
		NewStatus:           domain.StatusDocumentsUploaded,
		DocumentsUploadedAt: &now,
		ContractDocuments:   documents,
		UpdatedBy:           operator.UserID,
		UpdatedAt:           now,
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventDocumentsUploaded,
		Proposal: updated,
		Request:  s.fetchParentRequest(ctx, updated),
		ActorID:  operator.UserID,
	})
	return updated, nil
}

// AddAttachment appends a supporting file without changing the lifecycle status.
func (s *proposalService) AddAttachment(ctx context.Context, proposalID string, req dto.AttachmentRequest, requestingUserID string) (*domain.Proposal, error) {
	operator, err := s.fetchOperator(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	proposal, err := s.proposalRepo.FindProposalByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOperatorOn(operator, proposal); err != nil {
		return nil, err
	}

	now := time.Now()
	attachment := domain.Attachment{
		Name:       req.Name,
		URL:        req.URL,
		UploadedBy: operator.UserID,
		UploadedAt: now,
	}
	if err := s.proposalRepo.AddAttachment(ctx, proposalID, attachment, operator.UserID, now); err != nil {
		return nil, err
	}
	return s.proposalRepo.FindProposalByID(ctx, proposalID)
}
