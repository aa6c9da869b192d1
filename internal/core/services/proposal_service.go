package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/voyago/travel_proposal_app/internal/apperrors"
	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/dto"
	"github.com/voyago/travel_proposal_app/internal/middleware"
	"github.com/voyago/travel_proposal_app/internal/utils"
)

type proposalService struct {
	proposalRepo portsrepo.ProposalRepositoryFacade
	requestRepo  portsrepo.RequestRepositoryFacade
	userRepo     portsrepo.UserRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
	linkage      portssvc.RequestLinkageSvc
	dispatcher   portssvc.SideEffectDispatcher
	validityDays int
}

// NewProposalService creates the proposal lifecycle service.
func NewProposalService(
	repos portsrepo.RepositoryProvider,
	linkage portssvc.RequestLinkageSvc,
	dispatcher portssvc.SideEffectDispatcher,
	validityDays int,
) portssvc.ProposalSvcFacade {
	if validityDays <= 0 {
		validityDays = 7
	}
	return &proposalService{
		proposalRepo: repos.ProposalRepo,
		requestRepo:  repos.RequestRepo,
		userRepo:     repos.UserRepo,
		currencyRepo: repos.CurrencyRepo,
		linkage:      linkage,
		dispatcher:   dispatcher,
		validityDays: validityDays,
	}
}

var _ portssvc.ProposalSvcFacade = (*proposalService)(nil)

// fetchOperator loads the requesting user and verifies they hold an operator role.
func (s *proposalService) fetchOperator(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewForbiddenError("requesting user not found")
	}
	if !user.Role.IsOperator() {
		return nil, apperrors.NewForbiddenError("operator role required")
	}
	return user, nil
}

// authorizeOperatorOn enforces ownership scoping: non-master operators act
// only on proposals they created.
func (s *proposalService) authorizeOperatorOn(user *domain.User, proposal *domain.Proposal) error {
	if user.Role == domain.RoleMaster {
		return nil
	}
	if proposal.AdminID != user.UserID {
		return apperrors.NewForbiddenError("proposal belongs to another operator")
	}
	return nil
}

// fetchOwnedProposal loads a proposal on behalf of a customer, enforcing
// ownership of the parent request and visibility (never before first send).
func (s *proposalService) fetchOwnedProposal(ctx context.Context, proposalID string, userID string) (*domain.Proposal, *domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, nil, apperrors.NewForbiddenError("requesting user not found")
	}
	proposal, err := s.proposalRepo.FindProposalByID(ctx, proposalID)
	if err != nil {
		return nil, nil, err
	}
	request, err := s.requestRepo.FindRequestByID(ctx, proposal.RequestID)
	if err != nil || !request.OwnedBy(user.UserID, user.Email) {
		return nil, nil, apperrors.NewNotFoundError("proposal not found")
	}
	if proposal.SentAt == nil {
		// Unsent proposals are invisible to customers.
		return nil, nil, apperrors.NewNotFoundError("proposal not found")
	}
	return proposal, user, nil
}

func (s *proposalService) CreateProposal(ctx context.Context, req dto.CreateProposalRequest, creatorUserID string) (*domain.Proposal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	operator, err := s.fetchOperator(ctx, creatorUserID)
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindRequestByID(ctx, req.RequestID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("package request not found")
	}
	if request.Status == domain.RequestCancelled {
		return nil, apperrors.NewConflictError("cannot create a proposal for a cancelled request")
	}

	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		return nil, apperrors.NewValidationFailedError("unsupported currency code: " + req.CurrencyCode)
	}

	components, subtotal := buildComponents(req.Components)
	total := subtotal.Add(req.Taxes).Add(req.Fees).Sub(req.Discount)
	if total.IsNegative() {
		return nil, apperrors.NewValidationFailedError("total price cannot be negative")
	}

	now := time.Now()
	proposalNumber, err := utils.GenerateProposalNumber(now)
	if err != nil {
		return nil, apperrors.NewInternalServerError("failed to generate proposal number")
	}

	validUntil := req.ValidUntil
	if validUntil == nil {
		v := now.AddDate(0, 0, s.validityDays)
		validUntil = &v
	}

	approvalStatus := domain.ApprovalNone
	if req.RequiresApproval {
		approvalStatus = domain.ApprovalPending
	}

	proposal := domain.Proposal{
		ProposalID:         uuid.NewString(),
		ProposalNumber:     proposalNumber,
		RequestID:          request.RequestID,
		AdminID:            operator.UserID,
		PartnerID:          req.PartnerID,
		OrganizationID:     req.OrganizationID,
		Title:              req.Title,
		Description:        req.Description,
		Components:         components,
		Subtotal:           subtotal,
		Taxes:              req.Taxes,
		Fees:               req.Fees,
		Discount:           req.Discount,
		TotalPrice:         total,
		CurrencyCode:       req.CurrencyCode,
		ValidUntil:         validUntil,
		PaymentTerms:       req.PaymentTerms,
		CancellationPolicy: req.CancellationPolicy,
		Inclusions:         req.Inclusions,
		Exclusions:         req.Exclusions,
		Status:             domain.StatusDraft,
		RequiresApproval:   req.RequiresApproval,
		ApprovalStatus:     approvalStatus,
		Attachments:        []domain.Attachment{},
		ContractDocuments:  []domain.ContractDocument{},
		Participants:       []domain.Participant{},
		IsActive:           true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     operator.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: operator.UserID,
		},
	}

	if err := s.proposalRepo.SaveProposal(ctx, proposal); err != nil {
		return nil, err
	}

	if err := s.linkage.NoteProposalCreated(ctx, request.RequestID, now); err != nil {
		logger.Warn("Failed to refresh request proposal stats", slog.String("request_id", request.RequestID), slog.String("error", err.Error()))
	}

	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventProposalCreated,
		Proposal: &proposal,
		Request:  request,
		ActorID:  operator.UserID,
	})

	logger.Info("Proposal created", slog.String("proposal_id", proposal.ProposalID), slog.String("proposal_number", proposal.ProposalNumber))
	return &proposal, nil
}

func (s *proposalService) UpdateProposal(ctx context.Context, proposalID string, req dto.UpdateProposalRequest, requestingUserID string) (*domain.Proposal, error) {
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
	if !domain.IsEditable(proposal.Status) {
		return nil, apperrors.ErrIllegalTransition
	}

	updated := *proposal
	if req.Title != nil {
		updated.Title = *req.Title
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Components != nil {
		updated.Components, updated.Subtotal = buildComponents(req.Components)
	}
	if req.Taxes != nil {
		updated.Taxes = *req.Taxes
	}
	if req.Fees != nil {
		updated.Fees = *req.Fees
	}
	if req.Discount != nil {
		updated.Discount = *req.Discount
	}
	if req.CurrencyCode != nil {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, *req.CurrencyCode); err != nil {
			return nil, apperrors.NewValidationFailedError("unsupported currency code: " + *req.CurrencyCode)
		}
		updated.CurrencyCode = *req.CurrencyCode
	}
	if req.ValidUntil != nil {
		updated.ValidUntil = req.ValidUntil
	}
	if req.PaymentTerms != nil {
		updated.PaymentTerms = *req.PaymentTerms
	}
	if req.CancellationPolicy != nil {
		updated.CancellationPolicy = *req.CancellationPolicy
	}
	if req.Inclusions != nil {
		updated.Inclusions = req.Inclusions
	}
	if req.Exclusions != nil {
		updated.Exclusions = req.Exclusions
	}

	updated.TotalPrice = updated.Subtotal.Add(updated.Taxes).Add(updated.Fees).Sub(updated.Discount)
	if updated.TotalPrice.IsNegative() {
		return nil, apperrors.NewValidationFailedError("total price cannot be negative")
	}

	// Any edit invalidates a previously granted approval.
	if updated.RequiresApproval && updated.ApprovalStatus == domain.ApprovalApproved {
		updated.ApprovalStatus = domain.ApprovalPending
	}

	updated.LastUpdatedAt = time.Now()
	updated.LastUpdatedBy = operator.UserID

	if err := s.proposalRepo.UpdateProposalTerms(ctx, updated, domain.AllowedSources(domain.TransitionUpdate)); err != nil {
		return nil, err
	}
	return s.proposalRepo.FindProposalByID(ctx, proposalID)
}

func (s *proposalService) SubmitForReview(ctx context.Context, proposalID string, requestingUserID string) (*domain.Proposal, error) {
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
	return s.proposalRepo.TransitionStatus(ctx, proposalID, domain.AllowedSources(domain.TransitionSubmitForReview), portsrepo.ProposalStatusPatch{
		NewStatus: domain.StatusReview,
		UpdatedBy: operator.UserID,
		UpdatedAt: time.Now(),
	})
}

func (s *proposalService) ApproveProposal(ctx context.Context, proposalID string, requestingUserID string) (*domain.Proposal, error) {
	operator, err := s.fetchOperator(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	proposal, err := s.proposalRepo.FindProposalByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if !proposal.RequiresApproval {
		return nil, apperrors.NewConflictError("proposal does not require approval")
	}
	if proposal.SentAt != nil {
		return nil, apperrors.NewConflictError("proposal has already been sent")
	}
	now := time.Now()
	if err := s.proposalRepo.SetApprovalStatus(ctx, proposalID, domain.ApprovalApproved, operator.UserID, now); err != nil {
		return nil, err
	}
	updated, err := s.proposalRepo.FindProposalByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventProposalApproved,
		Proposal: updated,
		ActorID:  operator.UserID,
	})
	return updated, nil
}

func (s *proposalService) RejectApproval(ctx context.Context, proposalID string, reason string, requestingUserID string) (*domain.Proposal, error) {
	operator, err := s.fetchOperator(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	proposal, err := s.proposalRepo.FindProposalByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if !proposal.RequiresApproval {
		return nil, apperrors.NewConflictError("proposal does not require approval")
	}
	now := time.Now()
	if err := s.proposalRepo.SetApprovalStatus(ctx, proposalID, domain.ApprovalRejected, operator.UserID, now); err != nil {
		return nil, err
	}
	updated, err := s.proposalRepo.FindProposalByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventApprovalRejected,
		Proposal: updated,
		ActorID:  operator.UserID,
		Note:     reason,
	})
	return updated, nil
}

func (s *proposalService) SendProposal(ctx context.Context, proposalID string, req dto.SendProposalRequest, requestingUserID string) (*domain.Proposal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

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
	if proposal.RequiresApproval && proposal.ApprovalStatus != domain.ApprovalApproved {
		return nil, apperrors.NewConflictError("proposal requires approval before it can be sent")
	}

	now := time.Now()
	updated, err := s.proposalRepo.TransitionStatus(ctx, proposalID, domain.AllowedSources(domain.TransitionSend), portsrepo.ProposalStatusPatch{
		NewStatus: domain.StatusSent,
		SentAt:    &now, // stamped once; a resend keeps the original
		UpdatedBy: operator.UserID,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	// Request linkage and email are best-effort: the send itself has committed.
	var request *domain.PackageRequest
	request, reqErr := s.requestRepo.FindRequestByID(ctx, updated.RequestID)
	if reqErr != nil {
		logger.Warn("Parent request missing on send", slog.String("proposal_id", proposalID), slog.String("request_id", updated.RequestID))
	} else if err := s.linkage.NoteProposalSent(ctx, request.RequestID, operator.UserID, now); err != nil {
		logger.Warn("Failed to mark request proposal_sent", slog.String("request_id", request.RequestID), slog.String("error", err.Error()))
	}

	recipient := ""
	if request != nil {
		recipient = request.CustomerEmail
	}
	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:               portssvc.EventProposalSent,
		Proposal:           updated,
		Request:            request,
		ActorID:            operator.UserID,
		Note:               req.CustomMessage,
		EmailRecipient:     recipient,
		IncludeAttachments: req.IncludeAttachments,
	})

	logger.Info("Proposal sent", slog.String("proposal_id", proposalID), slog.String("status", string(updated.Status)))
	return updated, nil
}

func (s *proposalService) WithdrawProposal(ctx context.Context, proposalID string, reason string, requestingUserID string) (*domain.Proposal, error) {
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
	updated, err := s.proposalRepo.TransitionStatus(ctx, proposalID, domain.AllowedSources(domain.TransitionWithdraw), portsrepo.ProposalStatusPatch{
		NewStatus: domain.StatusWithdrawn,
		UpdatedBy: operator.UserID,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventProposalWithdrawn,
		Proposal: updated,
		ActorID:  operator.UserID,
		Note:     reason,
	})
	return updated, nil
}

func (s *proposalService) MarkExpired(ctx context.Context, proposalID string, requestingUserID string) (*domain.Proposal, error) {
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
	if proposal.ValidUntil == nil || now.Before(*proposal.ValidUntil) {
		return nil, apperrors.NewConflictError("proposal validity deadline has not passed")
	}
	updated, err := s.proposalRepo.TransitionStatus(ctx, proposalID, domain.AllowedSources(domain.TransitionMarkExpired), portsrepo.ProposalStatusPatch{
		NewStatus: domain.StatusExpired,
		UpdatedBy: operator.UserID,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventProposalExpired,
		Proposal: updated,
		ActorID:  operator.UserID,
	})
	return updated, nil
}

func (s *proposalService) DuplicateProposal(ctx context.Context, proposalID string, req dto.DuplicateProposalRequest, requestingUserID string) (*domain.Proposal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	operator, err := s.fetchOperator(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	source, err := s.proposalRepo.FindProposalByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOperatorOn(operator, source); err != nil {
		return nil, err
	}

	factor := decimal.NewFromInt(1)
	if req.PriceAdjustmentPercent != nil {
		factor = factor.Add(req.PriceAdjustmentPercent.Div(decimal.NewFromInt(100)))
		if !factor.IsPositive() {
			return nil, apperrors.NewValidationFailedError("price adjustment would make prices non-positive")
		}
	}

	now := time.Now()
	proposalNumber, err := utils.GenerateProposalNumber(now)
	if err != nil {
		return nil, apperrors.NewInternalServerError("failed to generate proposal number")
	}

	copied := *source
	copied.ProposalID = uuid.NewString()
	copied.ProposalNumber = proposalNumber
	copied.AdminID = operator.UserID
	copied.Status = domain.StatusDraft
	copied.NegotiationRounds = 0
	copied.CustomerFeedback = ""
	copied.RejectionReason = ""
	copied.RevisionNotes = ""
	copied.Attachments = []domain.Attachment{}
	copied.ContractDocuments = []domain.ContractDocument{}
	copied.Participants = []domain.Participant{}
	copied.FlightBooking = nil
	copied.SentAt = nil
	copied.ViewedAt = nil
	copied.AcceptedAt = nil
	copied.RejectedAt = nil
	copied.ParticipantsDataSubmittedAt = nil
	copied.FlightBookedAt = nil
	copied.DocumentsUploadedAt = nil
	copied.TermsAcceptedAt = nil
	copied.FinalConfirmationAt = nil
	copied.FinalAmount = nil
	copied.IsActive = true
	copied.DeletedAt = nil
	copied.DeletedBy = nil
	copied.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     operator.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: operator.UserID,
	}

	if req.Title != nil {
		copied.Title = *req.Title
	}
	if copied.RequiresApproval {
		copied.ApprovalStatus = domain.ApprovalPending
	} else {
		copied.ApprovalStatus = domain.ApprovalNone
	}

	if req.PriceAdjustmentPercent != nil {
		components := make([]domain.ProposalComponent, len(source.Components))
		copy(components, source.Components)
		subtotal := decimal.Zero
		for i := range components {
			components[i].UnitPrice = components[i].UnitPrice.Mul(factor).Round(2)
			components[i].TotalPrice = components[i].UnitPrice.Mul(decimal.NewFromInt(int64(components[i].Quantity)))
			if !components[i].Optional {
				subtotal = subtotal.Add(components[i].TotalPrice)
			}
		}
		copied.Components = components
		copied.Subtotal = subtotal
		copied.TotalPrice = subtotal.Add(copied.Taxes).Add(copied.Fees).Sub(copied.Discount)
		if copied.TotalPrice.IsNegative() {
			return nil, apperrors.NewValidationFailedError("total price cannot be negative")
		}
	}

	validUntil := now.AddDate(0, 0, s.validityDays)
	copied.ValidUntil = &validUntil

	if err := s.proposalRepo.SaveProposal(ctx, copied); err != nil {
		return nil, err
	}

	if err := s.linkage.NoteProposalCreated(ctx, copied.RequestID, now); err != nil {
		logger.Warn("Failed to refresh request proposal stats", slog.String("request_id", copied.RequestID), slog.String("error", err.Error()))
	}

	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventProposalDuplicated,
		Proposal: &copied,
		ActorID:  operator.UserID,
		Note:     source.ProposalNumber,
	})
	return &copied, nil
}

func (s *proposalService) DeleteProposal(ctx context.Context, proposalID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	operator, err := s.fetchOperator(ctx, requestingUserID)
	if err != nil {
		return err
	}
	proposal, err := s.proposalRepo.FindProposalByID(ctx, proposalID)
	if err != nil {
		return err
	}
	if err := s.authorizeOperatorOn(operator, proposal); err != nil {
		return err
	}
	if domain.HasBeenAccepted(proposal.Status) {
		return apperrors.NewConflictError("accepted proposals cannot be deleted")
	}

	now := time.Now()
	if err := s.proposalRepo.SoftDeleteProposal(ctx, proposalID, operator.UserID, now); err != nil {
		return err
	}

	if err := s.linkage.NoteProposalCreated(ctx, proposal.RequestID, now); err != nil {
		logger.Warn("Failed to refresh request proposal stats", slog.String("request_id", proposal.RequestID), slog.String("error", err.Error()))
	}

	s.dispatcher.Dispatch(ctx, portssvc.ProposalEvent{
		Kind:     portssvc.EventProposalDeleted,
		Proposal: proposal,
		ActorID:  operator.UserID,
	})
	return nil
}

func (s *proposalService) GetProposalByID(ctx context.Context, proposalID string, requestingUserID string) (*domain.Proposal, error) {
	user, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, apperrors.NewForbiddenError("requesting user not found")
	}
	if user.Role.IsOperator() {
		proposal, err := s.proposalRepo.FindProposalByID(ctx, proposalID)
		if err != nil {
			return nil, err
		}
		if err := s.authorizeOperatorOn(user, proposal); err != nil {
			return nil, err
		}
		return proposal, nil
	}
	proposal, _, err := s.fetchOwnedProposal(ctx, proposalID, requestingUserID)
	return proposal, err
}

func (s *proposalService) GetProposalByNumber(ctx context.Context, proposalNumber string, requestingUserID string) (*domain.Proposal, error) {
	proposal, err := s.proposalRepo.FindProposalByNumber(ctx, proposalNumber)
	if err != nil {
		return nil, err
	}
	return s.GetProposalByID(ctx, proposal.ProposalID, requestingUserID)
}

func (s *proposalService) ListProposalsByRequest(ctx context.Context, requestID string, requestingUserID string) ([]domain.Proposal, error) {
	user, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, apperrors.NewForbiddenError("requesting user not found")
	}

	proposals, err := s.proposalRepo.ListProposalsByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if user.Role.IsOperator() {
		if user.Role == domain.RoleMaster {
			return proposals, nil
		}
		own := proposals[:0]
		for _, p := range proposals {
			if p.AdminID == user.UserID {
				own = append(own, p)
			}
		}
		return own, nil
	}

	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil || !request.OwnedBy(user.UserID, user.Email) {
		return nil, apperrors.NewNotFoundError("request not found")
	}
	visible := proposals[:0]
	for _, p := range proposals {
		if p.SentAt != nil {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

func (s *proposalService) ListProposals(ctx context.Context, requestingUserID string, params dto.ListProposalsParams) (*dto.ListProposalsResponse, error) {
	operator, err := s.fetchOperator(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}

	var adminID *string
	if operator.Role != domain.RoleMaster {
		adminID = &operator.UserID
	}

	var status *domain.ProposalStatus
	if params.Status != nil && *params.Status != "" {
		st := domain.ProposalStatus(*params.Status)
		if !knownProposalStatus(st) {
			return nil, apperrors.NewValidationFailedError("unknown status: " + *params.Status)
		}
		status = &st
	}

	proposals, nextToken, err := s.proposalRepo.ListProposals(ctx, adminID, status, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListProposalsResponse{
		Proposals: dto.ToProposalResponses(proposals),
		NextToken: nextToken,
	}, nil
}

func knownProposalStatus(s domain.ProposalStatus) bool {
	switch s {
	case domain.StatusDraft, domain.StatusReview, domain.StatusSent, domain.StatusViewed,
		domain.StatusUnderNegotiation, domain.StatusAccepted, domain.StatusAwaitingParticipantsData,
		domain.StatusParticipantsDataCompleted, domain.StatusFlightBookingInProgress,
		domain.StatusFlightBooked, domain.StatusDocumentsUploaded, domain.StatusAwaitingFinalConfirmation,
		domain.StatusPaymentPending, domain.StatusRejected, domain.StatusExpired, domain.StatusWithdrawn:
		return true
	}
	return false
}

// buildComponents prices each component line and returns the subtotal over
// non-optional lines.
func buildComponents(reqs []dto.ProposalComponentRequest) ([]domain.ProposalComponent, decimal.Decimal) {
	components := make([]domain.ProposalComponent, len(reqs))
	subtotal := decimal.Zero
	for i, r := range reqs {
		total := r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
		components[i] = domain.ProposalComponent{
			Name:       r.Name,
			Type:       r.Type,
			Quantity:   r.Quantity,
			UnitPrice:  r.UnitPrice,
			TotalPrice: total,
			Included:   r.Included,
			Optional:   r.Optional,
		}
		if !r.Optional {
			subtotal = subtotal.Add(total)
		}
	}
	return components, subtotal
}
