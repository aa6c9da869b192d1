package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/voyago/travel_proposal_app/internal/apperrors"
	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/core/services"
	"github.com/voyago/travel_proposal_app/internal/dto"
)

type ProposalCustomerServiceTestSuite struct {
	suite.Suite
	mockProposalRepo *MockProposalRepository
	mockRequestRepo  *MockRequestRepository
	mockUserRepo     *MockUserRepository
	mockCurrencyRepo *MockCurrencyRepository
	mockLinkage      *MockLinkage
	dispatcher       *RecordingDispatcher
	service          portssvc.ProposalSvcFacade

	traveler *domain.User
	request  *domain.PackageRequest
}

func (suite *ProposalCustomerServiceTestSuite) SetupTest() {
	suite.mockProposalRepo = new(MockProposalRepository)
	suite.mockRequestRepo = new(MockRequestRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.mockLinkage = new(MockLinkage)
	suite.dispatcher = new(RecordingDispatcher)

	repos := portsrepo.RepositoryProvider{
		ProposalRepo: suite.mockProposalRepo,
		RequestRepo:  suite.mockRequestRepo,
		UserRepo:     suite.mockUserRepo,
		CurrencyRepo: suite.mockCurrencyRepo,
	}
	suite.service = services.NewProposalService(repos, suite.mockLinkage, suite.dispatcher, 7)

	suite.traveler = &domain.User{UserID: uuid.NewString(), Name: "Customer", Email: "customer@mail.test", Role: domain.RoleTraveler}
	suite.request = &domain.PackageRequest{
		RequestID:     uuid.NewString(),
		UserID:        suite.traveler.UserID,
		CustomerEmail: suite.traveler.Email,
		Destination:   "Porto",
		Status:        domain.RequestProposalSent,
	}
}

// receivedProposal returns a proposal the traveler can respond to.
func (suite *ProposalCustomerServiceTestSuite) receivedProposal(status domain.ProposalStatus) *domain.Proposal {
	sentAt := time.Now().Add(-48 * time.Hour)
	validUntil := time.Now().Add(72 * time.Hour)
	return &domain.Proposal{
		ProposalID:     uuid.NewString(),
		ProposalNumber: "PROP-1748800001-QWERTZ",
		RequestID:      suite.request.RequestID,
		AdminID:        uuid.NewString(),
		Title:          "Porto river week",
		TotalPrice:     decimal.NewFromInt(900),
		CurrencyCode:   "EUR",
		ValidUntil:     &validUntil,
		Status:         status,
		SentAt:         &sentAt,
		IsActive:       true,
	}
}

// expectOwnedFetch wires the lookups fetching a proposal on the traveler's behalf.
func (suite *ProposalCustomerServiceTestSuite) expectOwnedFetch(ctx context.Context, proposal *domain.Proposal) {
	suite.mockUserRepo.On("FindUserByID", ctx, suite.traveler.UserID).Return(suite.traveler, nil).Once()
	suite.mockProposalRepo.On("FindProposalByID", ctx, proposal.ProposalID).Return(proposal, nil).Once()
	suite.mockRequestRepo.On("FindRequestByID", ctx, proposal.RequestID).Return(suite.request, nil).Once()
}

func (suite *ProposalCustomerServiceTestSuite) participants() []dto.ParticipantRequest {
	return []dto.ParticipantRequest{
		{FullName: "Ana Silva", BirthDate: time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC), DocumentNumber: "X123456"},
		{FullName: "Rui Silva", BirthDate: time.Date(1988, 7, 2, 0, 0, 0, 0, time.UTC), DocumentNumber: "X654321"},
	}
}

// --- MarkViewed ---

func (suite *ProposalCustomerServiceTestSuite) TestMarkViewed_Success() {
	ctx := context.Background()
	proposal := suite.receivedProposal(domain.StatusSent)
	viewed := suite.receivedProposal(domain.StatusViewed)
	viewed.ProposalID = proposal.ProposalID

	suite.expectOwnedFetch(ctx, proposal)
	suite.mockProposalRepo.On("TransitionStatus", ctx, proposal.ProposalID,
		domain.AllowedSources(domain.TransitionMarkViewed),
		mock.MatchedBy(func(patch portsrepo.ProposalStatusPatch) bool {
			return patch.NewStatus == domain.StatusViewed && patch.ViewedAt != nil
		})).Return(viewed, nil).Once()

	updated, err := suite.service.MarkViewed(ctx, proposal.ProposalID, suite.traveler.UserID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusViewed, updated.Status)
	suite.Equal([]portssvc.ProposalEventKind{portssvc.EventProposalViewed}, suite.dispatcher.kinds())
}

func (suite *ProposalCustomerServiceTestSuite) TestMarkViewed_AlreadyViewedIsNoOp() {
	ctx := context.Background()
	proposal := suite.receivedProposal(domain.StatusViewed)

	suite.expectOwnedFetch(ctx, proposal)

	updated, err := suite.service.MarkViewed(ctx, proposal.ProposalID, suite.traveler.UserID)

	suite.Require().NoError(err)
	suite.Equal(proposal, updated)
	suite.Empty(suite.dispatcher.events)
	suite.mockProposalRepo.AssertNotCalled(suite.T(), "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProposalCustomerServiceTestSuite) TestMarkViewed_ConcurrentViewReturnsCurrent() {
	ctx := context.Background()
	proposal := suite.receivedProposal(domain.StatusSent)
	viewed := suite.receivedProposal(domain.StatusViewed)
	viewed.ProposalID = proposal.ProposalID

	suite.expectOwnedFetch(ctx, proposal)
	suite.mockProposalRepo.On("TransitionStatus", ctx, proposal.ProposalID, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrIllegalTransition).Once()
	suite.mockProposalRepo.On("FindProposalByID", ctx, proposal.ProposalID).Return(viewed, nil).Once()

	updated, err := suite.service.MarkViewed(ctx, proposal.ProposalID, suite.traveler.UserID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusViewed, updated.Status)
	suite.Empty(suite.dispatcher.events)
}

// --- Accept (direct and staged) ---

func (suite *ProposalCustomerServiceTestSuite) TestAcceptProposal_Success() {
	ctx := context.Background()
	proposal := suite.receivedProposal(domain.StatusViewed)
	accepted := suite.receivedProposal(domain.StatusParticipantsDataCompleted)
	accepted.ProposalID = proposal.ProposalID

	suite.expectOwnedFetch(ctx, proposal)
	suite.mockProposalRepo.On("TransitionStatus", ctx, proposal.ProposalID,
		domain.AllowedSources(domain.TransitionAccept),
		mock.MatchedBy(func(patch portsrepo.ProposalStatusPatch) bool {
			return patch.NewStatus == domain.StatusParticipantsDataCompleted &&
				patch.AcceptedAt != nil &&
				patch.ParticipantsDataAt != nil &&
				len(patch.Participants) == 2
		})).Return(accepted, nil).Once()
	suite.mockLinkage.On("NoteProposalAccepted", ctx, suite.request.RequestID, suite.traveler.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.AcceptProposal(ctx, proposal.ProposalID, dto.AcceptProposalRequest{Participants: suite.participants()}, suite.traveler.UserID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusParticipantsDataCompleted, updated.Status)
	suite.Equal([]portssvc.ProposalEventKind{portssvc.EventProposalAccepted}, suite.dispatcher.kinds())
	suite.mockLinkage.AssertExpectations(suite.T())
}

func (suite *ProposalCustomerServiceTestSuite) TestAcceptProposal_NoParticipants() {
	ctx := context.Background()
	proposal := suite.receivedProposal(domain.StatusViewed)

	suite.expectOwnedFetch(ctx, proposal)

	updated, err := suite.service.AcceptProposal(ctx, proposal.ProposalID, dto.AcceptProposalRequest{}, suite.traveler.UserID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProposalRepo.AssertNotCalled(suite.T(), "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProposalCustomerServiceTestSuite) TestAcceptProposalInitial_AwaitsParticipants() {
	ctx := context.Background()
	proposal := suite.receivedProposal(domain.StatusSent)
	staged := suite.receivedProposal(domain.StatusAwaitingParticipantsData)
	staged.ProposalID = proposal.ProposalID

	suite.expectOwnedFetch(ctx, proposal)
	suite.mockProposalRepo.On("TransitionStatus", ctx, proposal.ProposalID,
		domain.AllowedSources(domain.TransitionAcceptInitial),
		mock.MatchedBy(func(patch portsrepo.ProposalStatusPatch) bool {
			return patch.NewStatus == domain.StatusAwaitingParticipantsData &&
				patch.AcceptedAt != nil &&
				patch.ParticipantsDataAt == nil &&
				patch.Participants == nil
		})).Return(staged, nil).Once()
	suite.mockLinkage.On("NoteProposalAccepted", ctx, suite.request.RequestID, suite.traveler.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.AcceptProposalInitial(ctx, proposal.ProposalID, dto.AcceptInitialRequest{Feedback: "can't wait"}, suite.traveler.UserID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusAwaitingParticipantsData, updated.Status)
}

func (suite *ProposalCustomerServiceTestSuite) TestAcceptProposal_ExpiredLazily() {
	ctx := context.Background()
	proposal := suite.receivedProposal(domain.StatusSent)
	stale := time.Now().Add(-time.Hour)
	proposal.ValidUntil = &stale
	expired := suite.receivedProposal(domain.StatusExpired)
	expired.ProposalID = proposal.ProposalID

	suite.expectOwnedFetch(ctx, proposal)
	suite.mockProposalRepo.On("TransitionStatus", ctx, proposal.ProposalID,
		domain.AllowedSources(domain.TransitionMarkExpired),
		mock.MatchedBy(func(patch portsrepo.ProposalStatusPatch) bool {
			return patch.NewStatus == domain.StatusExpired
		})).Return(expired, nil).Once()

	updated, err := suite.service.AcceptProposal(ctx, proposal.ProposalID, dto.AcceptProposalRequest{Participants: suite.participants()}, suite.traveler.UserID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal([]portssvc.ProposalEventKind{portssvc.EventProposalExpired}, suite.dispatcher.kinds())
}

func (suite *ProposalCustomerServiceTestSuite) TestAcceptProposal_LazyExpiryRaceFallsThrough() {
	ctx := context.Background()
	proposal := suite.receivedProposal(domain.StatusSent)
	stale := time.Now().Add(-time.Hour)
	proposal.ValidUntil = &stale

	suite.expectOwnedFetch(ctx, proposal)
	// Losing the expiry race defers to the guarded accept, which then fails.
	suite.mockProposalRepo.On("TransitionStatus", ctx, proposal.ProposalID,
		domain.AllowedSources(domain.TransitionMarkExpired), mock.Anything).
		Return(nil, apperrors.ErrIllegalTransition).Once()
	suite.mockProposalRepo.On("TransitionStatus", ctx, proposal.ProposalID,
		domain.AllowedSources(domain.TransitionAccept), mock.Anything).
		Return(nil, apperrors.ErrIllegalTransition).Once()

	updated, err := suite.service.AcceptProposal(ctx, proposal.ProposalID, dto.AcceptProposalRequest{Participants: suite.participants()}, suite.traveler.UserID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrIllegalTransition)
	suite.Empty(suite.dispatcher.events)
	suite.mockProposalRepo.AssertExpectations(suite.T())
}

// --- Reject / revision / question ---

func (suite *ProposalCustomerServiceTestSuite) TestRejectProposal_EmptyReason() {
	ctx := context.Background()
	proposal := suite.receivedProposal(domain.StatusViewed)

	suite.expectOwnedFetch(ctx, proposal)

	updated, err := suite.service.RejectProposal(ctx, proposal.ProposalID, "", suite.traveler.UserID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ProposalCustomerServiceTestSuite) TestRejectProposal_Success() {
	ctx := context.Background()
	proposal := suite.receivedProposal(domain.StatusViewed)
	rejected := suite.receivedProposal(domain.StatusRejected)
	rejected.ProposalID = proposal.ProposalID

	suite.expectOwnedFetch(ctx, proposal)
	suite.mockProposalRepo.On("TransitionStatus", ctx, proposal.ProposalID,
		domain.AllowedSources(domain.TransitionReject),
		mock.MatchedBy(func(patch portsrepo.ProposalStatusPatch) bool {
			return patch.NewStatus == domain.StatusRejected &&
				patch.RejectedAt != nil &&
				patch.RejectionReason != nil && *patch.RejectionReason == "found a better offer"
		})).Return(rejected, nil).Once()
	suite.mockLinkage.On("NoteProposalRejected", ctx, suite.request.RequestID, suite.traveler.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.RejectProposal(ctx, proposal.ProposalID, "found a better offer", suite.traveler.UserID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusRejected, updated.Status)
	suite.Equal([]portssvc.ProposalEventKind{portssvc.EventProposalRejected}, suite.dispatcher.kinds())
}

func (suite *ProposalCustomerServiceTestSuite) TestRequestRevision_IncrementsRounds() {
	ctx := context.Background()
	proposal := suite.receivedProposal(domain.StatusViewed)
	negotiating := suite.receivedProposal(domain.StatusUnderNegotiation)
	negotiating.ProposalID = proposal.ProposalID
	negotiating.NegotiationRounds = 1

	suite.expectOwnedFetch(ctx, proposal)
	suite.mockProposalRepo.On("TransitionStatus", ctx, proposal.ProposalID,
		domain.AllowedSources(domain.TransitionRequestRevision),
		mock.MatchedBy(func(patch portsrepo.ProposalStatusPatch) bool {
			return patch.NewStatus == domain.StatusUnderNegotiation &&
				patch.IncrementNegotiationRounds &&
				patch.RevisionNotes != nil && *patch.RevisionNotes == "a cheaper hotel please"
		})).Return(negotiating, nil).Once()
	suite.mockLinkage.On("NoteRevisionRequested", ctx, suite.request.RequestID, "a cheaper hotel please", suite.traveler.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.RequestRevision(ctx, proposal.ProposalID, "a cheaper hotel please", suite.traveler.UserID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusUnderNegotiation, updated.Status)
	suite.Equal([]portssvc.ProposalEventKind{portssvc.EventRevisionRequested}, suite.dispatcher.kinds())
}

func (suite *ProposalCustomerServiceTestSuite) TestAskQuestion_Success() {
	ctx := context.Background()
	proposal := suite.receivedProposal(domain.StatusSent)
	negotiating := suite.receivedProposal(domain.StatusUnderNegotiation)
	negotiating.ProposalID = proposal.ProposalID

	suite.expectOwnedFetch(ctx, proposal)
	suite.mockProposalRepo.On("TransitionStatus", ctx, proposal.ProposalID,
		domain.AllowedSources(domain.TransitionAskQuestion),
		mock.MatchedBy(func(patch portsrepo.ProposalStatusPatch) bool {
			return patch.NewStatus == domain.StatusUnderNegotiation &&
				patch.IncrementNegotiationRounds &&
				patch.CustomerFeedback != nil && *patch.CustomerFeedback == "is breakfast included?"
		})).Return(negotiating, nil).Once()

	updated, err := suite.service.AskQuestion(ctx, proposal.ProposalID, "is breakfast included?", suite.traveler.UserID)

	suite.Require().NoError(err)
	suite.Equal([]portssvc.ProposalEventKind{portssvc.EventQuestionAsked}, suite.dispatcher.kinds())
	suite.Equal(domain.StatusUnderNegotiation, updated.Status)
}

// --- Participants and final confirmation ---

func (suite *ProposalCustomerServiceTestSuite) TestSubmitParticipantsData_Success() {
	ctx := context.Background()
	proposal := suite.receivedProposal(domain.StatusAwaitingParticipantsData)
	completed := suite.receivedProposal(domain.StatusParticipantsDataCompleted)
	completed.ProposalID = proposal.ProposalID

	suite.expectOwnedFetch(ctx, proposal)
	suite.mockProposalRepo.On("TransitionStatus", ctx, proposal.ProposalID,
		domain.AllowedSources(domain.TransitionSubmitParticipantsData),
		mock.MatchedBy(func(patch portsrepo.ProposalStatusPatch) bool {
			return patch.NewStatus == domain.StatusParticipantsDataCompleted &&
				patch.ParticipantsDataAt != nil &&
				len(patch.Participants) == 2 &&
				patch.AcceptedAt == nil
		})).Return(completed, nil).Once()

	updated, err := suite.service.SubmitParticipantsData(ctx, proposal.ProposalID, dto.SubmitParticipantsRequest{Participants: suite.participants()}, suite.traveler.UserID)

	suite.Require().NoError(err)
	suite.Equal([]portssvc.ProposalEventKind{portssvc.EventParticipantsSubmitted}, suite.dispatcher.kinds())
	suite.Equal(domain.StatusParticipantsDataCompleted, updated.Status)
}

func (suite *ProposalCustomerServiceTestSuite) TestGiveFinalConfirmation_TermsGate() {
	ctx := context.Background()
	proposal := suite.receivedProposal(domain.StatusAwaitingFinalConfirmation)

	suite.expectOwnedFetch(ctx, proposal)

	updated, err := suite.service.GiveFinalConfirmation(ctx, proposal.ProposalID, dto.FinalConfirmationRequest{TermsAccepted: false}, suite.traveler.UserID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProposalRepo.AssertNotCalled(suite.T(), "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProposalCustomerServiceTestSuite) TestGiveFinalConfirmation_FreezesFinalAmount() {
	ctx := context.Background()
	proposal := suite.receivedProposal(domain.StatusDocumentsUploaded)
	pending := suite.receivedProposal(domain.StatusPaymentPending)
	pending.ProposalID = proposal.ProposalID
	frozen := pending.TotalPrice
	pending.FinalAmount = &frozen

	suite.expectOwnedFetch(ctx, proposal)
	suite.mockProposalRepo.On("TransitionStatus", ctx, proposal.ProposalID,
		domain.AllowedSources(domain.TransitionGiveFinalConfirmation),
		mock.MatchedBy(func(patch portsrepo.ProposalStatusPatch) bool {
			return patch.NewStatus == domain.StatusPaymentPending &&
				patch.TermsAcceptedAt != nil &&
				patch.FinalConfirmationAt != nil &&
				patch.FreezeFinalAmount
		})).Return(pending, nil).Once()

	updated, err := suite.service.GiveFinalConfirmation(ctx, proposal.ProposalID, dto.FinalConfirmationRequest{TermsAccepted: true}, suite.traveler.UserID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPaymentPending, updated.Status)
	suite.Require().NotNil(updated.FinalAmount)
	suite.True(updated.FinalAmount.Equal(updated.TotalPrice))
	suite.Equal([]portssvc.ProposalEventKind{portssvc.EventFinalConfirmation}, suite.dispatcher.kinds())
}

func TestProposalCustomerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProposalCustomerServiceTestSuite))
}
