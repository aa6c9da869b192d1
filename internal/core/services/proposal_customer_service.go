package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/voyago/travel_proposal_app/internal/apperrors"
	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/dto"
	"github.com/voyago/travel_proposal_app/internal/middleware"
)

// guardExpiry lazily expires an outstanding proposal whose validity deadline
// has passed. The caller's response then fails as a conflict instead of
// landing on a stale offer.
func (s *proposalService) guardExpiry(ctx context.Context, proposal *domain.Proposal, actorID string) error {
	if proposal.ValidUntil == nil || time.Now().Before(*proposal.ValidUntil) {
		return nil
	}
	if !domain.CanTransition(proposal.Status, domain.TransitionMarkExpired) {
		return nil
	}
	logger := middleware.GetLoggerFromCtx(ctx)
	expired, err := s.proposalRepo.TransitionStatus(ctx, proposal.ProposalID, domain.AllowedSources(domain.TransitionMarkExpired), portsrepo.ProposalStatusPatch{
		NewStatus: domain.StatusExpired,
		UpdatedBy: actorID,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		// Someone else transitioned first; the caller's own guarded update
		// will resolve the race.
		logger.Warn("Lazy expiry lost a race", slog.String("proposal_id", proposal.ProposalID))
		return nil
	}
	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventProposalExpired,
		Proposal: expired,
		ActorID:  actorID,
	})
	return apperrors.NewConflictError("proposal has expired")
}

func (s *proposalService) MarkViewed(ctx context.Context, proposalID string, requestingUserID string) (*domain.Proposal, error) {
	proposal, user, err := s.fetchOwnedProposal(ctx, proposalID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(proposal.Status, domain.TransitionMarkViewed) {
		// Already viewed or further along: viewing again is a no-op.
		return proposal, nil
	}
	now := time.Now()
	updated, err := s.proposalRepo.TransitionStatus(ctx, proposalID, domain.AllowedSources(domain.TransitionMarkViewed), portsrepo.ProposalStatusPatch{
		NewStatus: domain.StatusViewed,
		ViewedAt:  &now,
		UpdatedBy: user.UserID,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrIllegalTransition) {
			// A concurrent view won; return the current record.
			return s.proposalRepo.FindProposalByID(ctx, proposalID)
		}
		return nil, err
	}
	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventProposalViewed,
		Proposal: updated,
		ActorID:  user.UserID,
	})
	return updated, nil
}

// AcceptProposal is the direct acceptance path: the customer accepts and
// supplies participant data in one call.
func (s *proposalService) AcceptProposal(ctx context.Context, proposalID string, req dto.AcceptProposalRequest, requestingUserID string) (*domain.Proposal, error) {
	proposal, user, err := s.fetchOwnedProposal(ctx, proposalID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if err := s.guardExpiry(ctx, proposal, user.UserID); err != nil {
		return nil, err
	}
	if len(req.Participants) == 0 {
		return nil, apperrors.NewValidationFailedError("at least one participant is required")
	}

	now := time.Now()
	patch := portsrepo.ProposalStatusPatch{
		NewStatus:          domain.StatusParticipantsDataCompleted,
		AcceptedAt:         &now,
		ParticipantsDataAt: &now,
		Participants:       dto.ToDomainParticipants(req.Participants),
		UpdatedBy:          user.UserID,
		UpdatedAt:          now,
	}
	if req.Feedback != "" {
		patch.CustomerFeedback = &req.Feedback
	}
	updated, err := s.proposalRepo.TransitionStatus(ctx, proposalID, domain.AllowedSources(domain.TransitionAccept), patch)
	if err != nil {
		return nil, err
	}

	s.noteAccepted(ctx, updated, user.UserID, now)
	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventProposalAccepted,
		Proposal: updated,
		ActorID:  user.UserID,
		Note:     req.Feedback,
	})
	return updated, nil
}

// AcceptProposalInitial is the staged acceptance path: the customer accepts
// now and supplies participant data later.
func (s *proposalService) AcceptProposalInitial(ctx context.Context, proposalID string, req dto.AcceptInitialRequest, requestingUserID string) (*domain.Proposal, error) {
	proposal, user, err := s.fetchOwnedProposal(ctx, proposalID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if err := s.guardExpiry(ctx, proposal, user.UserID); err != nil {
		return nil, err
	}

	now := time.Now()
	patch := portsrepo.ProposalStatusPatch{
		NewStatus:  domain.StatusAwaitingParticipantsData,
		AcceptedAt: &now,
		UpdatedBy:  user.UserID,
		UpdatedAt:  now,
	}
	if req.Feedback != "" {
		patch.CustomerFeedback = &req.Feedback
	}
	updated, err := s.proposalRepo.TransitionStatus(ctx, proposalID, domain.AllowedSources(domain.TransitionAcceptInitial), patch)
	if err != nil {
		return nil, err
	}

	s.noteAccepted(ctx, updated, user.UserID, now)
	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventProposalAccepted,
		Proposal: updated,
		ActorID:  user.UserID,
		Note:     req.Feedback,
	})
	return updated, nil
}

func (s *proposalService) noteAccepted(ctx context.Context, proposal *domain.Proposal, actorID string, at time.Time) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.linkage.NoteProposalAccepted(ctx, proposal.RequestID, actorID, at); err != nil {
		logger.Warn("Failed to confirm parent request", slog.String("request_id", proposal.RequestID), slog.String("error", err.Error()))
	}
}

func (s *proposalService) RejectProposal(ctx context.Context, proposalID string, reason string, requestingUserID string) (*domain.Proposal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	proposal, user, err := s.fetchOwnedProposal(ctx, proposalID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, apperrors.NewValidationFailedError("a rejection reason is required")
	}
	if err := s.guardExpiry(ctx, proposal, user.UserID); err != nil {
		return nil, err
	}

	now := time.Now()
	updated, err := s.proposalRepo.TransitionStatus(ctx, proposalID, domain.AllowedSources(domain.TransitionReject), portsrepo.ProposalStatusPatch{
		NewStatus:       domain.StatusRejected,
		RejectedAt:      &now,
		RejectionReason: &reason,
		UpdatedBy:       user.UserID,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.linkage.NoteProposalRejected(ctx, updated.RequestID, user.UserID, now); err != nil {
		logger.Warn("Failed to revert parent request status", slog.String("request_id", updated.RequestID), slog.String("error", err.Error()))
	}
	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventProposalRejected,
		Proposal: updated,
		ActorID:  user.UserID,
		Note:     reason,
	})
	return updated, nil
}

func (s *proposalService) RequestRevision(ctx context.Context, proposalID string, notes string, requestingUserID string) (*domain.Proposal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	proposal, user, err := s.fetchOwnedProposal(ctx, proposalID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if notes == "" {
		return nil, apperrors.NewValidationFailedError("revision notes are required")
	}
	if err := s.guardExpiry(ctx, proposal, user.UserID); err != nil {
		return nil, err
	}

	now := time.Now()
	updated, err := s.proposalRepo.TransitionStatus(ctx, proposalID, domain.AllowedSources(domain.TransitionRequestRevision), portsrepo.ProposalStatusPatch{
		NewStatus:                  domain.StatusUnderNegotiation,
		RevisionNotes:              &notes,
		IncrementNegotiationRounds: true,
		UpdatedBy:                  user.UserID,
		UpdatedAt:                  now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.linkage.NoteRevisionRequested(ctx, updated.RequestID, notes, user.UserID, now); err != nil {
		logger.Warn("Failed to flag parent request for revision", slog.String("request_id", updated.RequestID), slog.String("error", err.Error()))
	}
	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventRevisionRequested,
		Proposal: updated,
		ActorID:  user.UserID,
		Note:     notes,
	})
	return updated, nil
}

func (s *proposalService) AskQuestion(ctx context.Context, proposalID string, question string, requestingUserID string) (*domain.Proposal, error) {
	proposal, user, err := s.fetchOwnedProposal(ctx, proposalID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if question == "" {
		return nil, apperrors.NewValidationFailedError("a question is required")
	}
	if err := s.guardExpiry(ctx, proposal, user.UserID); err != nil {
		return nil, err
	}

	now := time.Now()
	updated, err := s.proposalRepo.TransitionStatus(ctx, proposalID, domain.AllowedSources(domain.TransitionAskQuestion), portsrepo.ProposalStatusPatch{
		NewStatus:                  domain.StatusUnderNegotiation,
		CustomerFeedback:           &question,
		IncrementNegotiationRounds: true,
		UpdatedBy:                  user.UserID,
		UpdatedAt:                  now,
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventQuestionAsked,
		Proposal: updated,
		ActorID:  user.UserID,
		Note:     question,
	})
	return updated, nil
}

func (s *proposalService) SubmitParticipantsData(ctx context.Context, proposalID string, req dto.SubmitParticipantsRequest, requestingUserID string) (*domain.Proposal, error) {
	_, user, err := s.fetchOwnedProposal(ctx, proposalID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if len(req.Participants) == 0 {
		return nil, apperrors.NewValidationFailedError("at least one participant is required")
	}

	now := time.Now()
	updated, err := s.proposalRepo.TransitionStatus(ctx, proposalID, domain.AllowedSources(domain.TransitionSubmitParticipantsData), portsrepo.ProposalStatusPatch{
		NewStatus:          domain.StatusParticipantsDataCompleted,
		ParticipantsDataAt: &now,
		Participants:       dto.ToDomainParticipants(req.Participants),
		UpdatedBy:          user.UserID,
		UpdatedAt:          now,
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventParticipantsSubmitted,
		Proposal: updated,
		ActorID:  user.UserID,
	})
	return updated, nil
}

// GiveFinalConfirmation advances through the confirmation and into
// payment_pending in a single guarded update, freezing the final amount.
func (s *proposalService) GiveFinalConfirmation(ctx context.Context, proposalID string, req dto.FinalConfirmationRequest, requestingUserID string) (*domain.Proposal, error) {
	_, user, err := s.fetchOwnedProposal(ctx, proposalID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if !req.TermsAccepted {
		return nil, apperrors.NewValidationFailedError("terms must be accepted to confirm")
	}

	now := time.Now()
	updated, err := s.proposalRepo.TransitionStatus(ctx, proposalID, domain.AllowedSources(domain.TransitionGiveFinalConfirmation), portsrepo.ProposalStatusPatch{
		NewStatus:           domain.StatusPaymentPending,
		TermsAcceptedAt:     &now,
		FinalConfirmationAt: &now,
		FreezeFinalAmount:   true,
		UpdatedBy:           user.UserID,
		UpdatedAt:           now,
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventFinalConfirmation,
		Proposal: updated,
		ActorID:  user.UserID,
	})
	return updated, nil
}
