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

type ProposalFulfillmentServiceTestSuite struct {
	suite.Suite
	mockProposalRepo *MockProposalRepository
	mockRequestRepo  *MockRequestRepository
	mockUserRepo     *MockUserRepository
	dispatcher       *RecordingDispatcher
	service          portssvc.ProposalSvcFacade

	operator *domain.User
	request  *domain.PackageRequest
}

func (suite *ProposalFulfillmentServiceTestSuite) SetupTest() {
	suite.mockProposalRepo = new(MockProposalRepository)
	suite.mockRequestRepo = new(MockRequestRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.dispatcher = new(RecordingDispatcher)

	repos := portsrepo.RepositoryProvider{
		ProposalRepo: suite.mockProposalRepo,
		RequestRepo:  suite.mockRequestRepo,
		UserRepo:     suite.mockUserRepo,
		CurrencyRepo: new(MockCurrencyRepository),
	}
	suite.service = services.NewProposalService(repos, new(MockLinkage), suite.dispatcher, 7)

	suite.operator = &domain.User{UserID: uuid.NewString(), Name: "Op", Email: "op@agency.test", Role: domain.RolePartner}
	suite.request = &domain.PackageRequest{
		RequestID:     uuid.NewString(),
		UserID:        uuid.NewString(),
		CustomerEmail: "customer@mail.test",
		Status:        domain.RequestConfirmed,
	}
}

func (suite *ProposalFulfillmentServiceTestSuite) fulfillingProposal(status domain.ProposalStatus) *domain.Proposal {
	sentAt := time.Now().Add(-72 * time.Hour)
	return &domain.Proposal{
		ProposalID:     uuid.NewString(),
		ProposalNumber: "PROP-1748800002-KLMNPQ",
		RequestID:      suite.request.RequestID,
		AdminID:        suite.operator.UserID,
		Title:          "Madeira hiking week",
		TotalPrice:     decimal.NewFromInt(2100),
		CurrencyCode:   "EUR",
		Status:         status,
		SentAt:         &sentAt,
		IsActive:       true,
	}
}

func (suite *ProposalFulfillmentServiceTestSuite) expectOperatorFetch(ctx context.Context, proposal *domain.Proposal) {
	suite.mockUserRepo.On("FindUserByID", ctx, suite.operator.UserID).Return(suite.operator, nil).Once()
	suite.mockProposalRepo.On("FindProposalByID", ctx, proposal.ProposalID).Return(proposal, nil).Once()
}

func (suite *ProposalFulfillmentServiceTestSuite) TestStartFlightBooking_Success() {
	ctx := context.Background()
	proposal := suite.fulfillingProposal(domain.StatusParticipantsDataCompleted)
	booking := suite.fulfillingProposal(domain.StatusFlightBookingInProgress)
	booking.ProposalID = proposal.ProposalID

	suite.expectOperatorFetch(ctx, proposal)
	suite.mockProposalRepo.On("TransitionStatus", ctx, proposal.ProposalID,
		domain.AllowedSources(domain.TransitionStartFlightBooking),
		mock.MatchedBy(func(patch portsrepo.ProposalStatusPatch) bool {
			return patch.NewStatus == domain.StatusFlightBookingInProgress && patch.FlightBooking == nil
		})).Return(booking, nil).Once()

	updated, err := suite.service.StartFlightBooking(ctx, proposal.ProposalID, suite.operator.UserID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusFlightBookingInProgress, updated.Status)
	suite.Equal([]portssvc.ProposalEventKind{portssvc.EventFlightBookingStarted}, suite.dispatcher.kinds())
}

func (suite *ProposalFulfillmentServiceTestSuite) TestConfirmFlightBooked_RecordsBookingDetails() {
	ctx := context.Background()
	proposal := suite.fulfillingProposal(domain.StatusFlightBookingInProgress)
	booked := suite.fulfillingProposal(domain.StatusFlightBooked)
	booked.ProposalID = proposal.ProposalID

	req := dto.FlightBookingRequest{PNR: "ABC123", Airline: "TAP", FlightInfo: "LIS-FNC 2026-09-12"}

	suite.expectOperatorFetch(ctx, proposal)
	suite.mockProposalRepo.On("TransitionStatus", ctx, proposal.ProposalID,
		domain.AllowedSources(domain.TransitionConfirmFlightBooked),
		mock.MatchedBy(func(patch portsrepo.ProposalStatusPatch) bool {
			return patch.NewStatus == domain.StatusFlightBooked &&
				patch.FlightBookedAt != nil &&
				patch.FlightBooking != nil &&
				patch.FlightBooking.PNR == "ABC123" &&
				patch.FlightBooking.Airline == "TAP"
		})).Return(booked, nil).Once()
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.request.RequestID).Return(suite.request, nil).Once()

	updated, err := suite.service.ConfirmFlightBooked(ctx, proposal.ProposalID, req, suite.operator.UserID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusFlightBooked, updated.Status)
	suite.Require().Len(suite.dispatcher.events, 1)
	suite.Equal(portssvc.EventFlightBooked, suite.dispatcher.events[0].Kind)
	suite.Equal("ABC123", suite.dispatcher.events[0].Note)
	suite.Require().NotNil(suite.dispatcher.events[0].Request)
	suite.Equal(suite.request.UserID, suite.dispatcher.events[0].Request.UserID)
}

func (suite *ProposalFulfillmentServiceTestSuite) TestConfirmFlightBooked_MissingParentStillCommits() {
	ctx := context.Background()
	proposal := suite.fulfillingProposal(domain.StatusFlightBookingInProgress)
	booked := suite.fulfillingProposal(domain.StatusFlightBooked)
	booked.ProposalID = proposal.ProposalID

	suite.expectOperatorFetch(ctx, proposal)
	suite.mockProposalRepo.On("TransitionStatus", ctx, proposal.ProposalID, mock.Anything, mock.Anything).
		Return(booked, nil).Once()
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.request.RequestID).Return(nil, apperrors.ErrNotFound).Once()

	updated, err := suite.service.ConfirmFlightBooked(ctx, proposal.ProposalID, dto.FlightBookingRequest{PNR: "QRS456"}, suite.operator.UserID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusFlightBooked, updated.Status)
	suite.Require().Len(suite.dispatcher.events, 1)
	suite.Nil(suite.dispatcher.events[0].Request)
}

func (suite *ProposalFulfillmentServiceTestSuite) TestConfirmFlightBooked_WrongStatus() {
	ctx := context.Background()
	proposal := suite.fulfillingProposal(domain.StatusSent)

	suite.expectOperatorFetch(ctx, proposal)
	suite.mockProposalRepo.On("TransitionStatus", ctx, proposal.ProposalID, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrIllegalTransition).Once()

	updated, err := suite.service.ConfirmFlightBooked(ctx, proposal.ProposalID, dto.FlightBookingRequest{PNR: "XYZ789"}, suite.operator.UserID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrIllegalTransition)
	suite.Empty(suite.dispatcher.events)
}

func (suite *ProposalFulfillmentServiceTestSuite) TestUploadContractDocuments_StampsUploader() {
	ctx := context.Background()
	proposal := suite.fulfillingProposal(domain.StatusFlightBooked)
	uploaded := suite.fulfillingProposal(domain.StatusDocumentsUploaded)
	uploaded.ProposalID = proposal.ProposalID

	req := dto.UploadDocumentsRequest{Documents: []dto.ContractDocumentRequest{
		{Name: "Contract", URL: "https://files.test/contract.pdf", Kind: "contract"},
		{Name: "Voucher", URL: "https://files.test/voucher.pdf", Kind: "voucher"},
	}}

	suite.expectOperatorFetch(ctx, proposal)
	suite.mockProposalRepo.On("TransitionStatus", ctx, proposal.ProposalID,
		domain.AllowedSources(domain.TransitionUploadContractDocuments),
		mock.MatchedBy(func(patch portsrepo.ProposalStatusPatch) bool {
			if patch.NewStatus != domain.StatusDocumentsUploaded || patch.DocumentsUploadedAt == nil {
				return false
			}
			if len(patch.ContractDocuments) != 2 {
				return false
			}
			for _, d := range patch.ContractDocuments {
				if d.UploadedBy != suite.operator.UserID || d.UploadedAt.IsZero() {
					return false
				}
			}
			return true
		})).Return(uploaded, nil).Once()
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.request.RequestID).Return(suite.request, nil).Once()

	updated, err := suite.service.UploadContractDocuments(ctx, proposal.ProposalID, req, suite.operator.UserID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusDocumentsUploaded, updated.Status)
	suite.Equal([]portssvc.ProposalEventKind{portssvc.EventDocumentsUploaded}, suite.dispatcher.kinds())
	suite.Require().NotNil(suite.dispatcher.events[0].Request)
	suite.Equal(suite.request.UserID, suite.dispatcher.events[0].Request.UserID)
}

func (suite *ProposalFulfillmentServiceTestSuite) TestAddAttachment_DoesNotChangeStatus() {
	ctx := context.Background()
	proposal := suite.fulfillingProposal(domain.StatusSent)
	withFile := suite.fulfillingProposal(domain.StatusSent)
	withFile.ProposalID = proposal.ProposalID
	withFile.Attachments = []domain.Attachment{{Name: "Itinerary", URL: "https://files.test/itinerary.pdf"}}

	suite.expectOperatorFetch(ctx, proposal)
	suite.mockProposalRepo.On("AddAttachment", ctx, proposal.ProposalID,
		mock.MatchedBy(func(a domain.Attachment) bool {
			return a.Name == "Itinerary" && a.UploadedBy == suite.operator.UserID
		}), suite.operator.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockProposalRepo.On("FindProposalByID", ctx, proposal.ProposalID).Return(withFile, nil).Once()

	updated, err := suite.service.AddAttachment(ctx, proposal.ProposalID, dto.AttachmentRequest{Name: "Itinerary", URL: "https://files.test/itinerary.pdf"}, suite.operator.UserID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusSent, updated.Status)
	suite.Len(updated.Attachments, 1)
	suite.Empty(suite.dispatcher.events)
	suite.mockProposalRepo.AssertExpectations(suite.T())
}

func (suite *ProposalFulfillmentServiceTestSuite) TestStartFlightBooking_OtherOperatorForbidden() {
	ctx := context.Background()
	proposal := suite.fulfillingProposal(domain.StatusParticipantsDataCompleted)
	proposal.AdminID = uuid.NewString()

	suite.expectOperatorFetch(ctx, proposal)

	updated, err := suite.service.StartFlightBooking(ctx, proposal.ProposalID, suite.operator.UserID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func TestProposalFulfillmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProposalFulfillmentServiceTestSuite))
}
