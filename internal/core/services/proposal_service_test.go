package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/voyago/travel_proposal_app/internal/apperrors"
	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/core/services"
	"github.com/voyago/travel_proposal_app/internal/dto"
)

// --- Mock ProposalRepository ---
type MockProposalRepository struct {
	mock.Mock
}

func (m *MockProposalRepository) FindProposalByID(ctx context.Context, proposalID string) (*domain.Proposal, error) {
	args := m.Called(ctx, proposalID)
	var p *domain.Proposal
	if args.Get(0) != nil {
		p = args.Get(0).(*domain.Proposal)
	}
	return p, args.Error(1)
}

func (m *MockProposalRepository) FindProposalByNumber(ctx context.Context, proposalNumber string) (*domain.Proposal, error) {
	args := m.Called(ctx, proposalNumber)
	var p *domain.Proposal
	if args.Get(0) != nil {
		p = args.Get(0).(*domain.Proposal)
	}
	return p, args.Error(1)
}

func (m *MockProposalRepository) ListProposalsByRequest(ctx context.Context, requestID string) ([]domain.Proposal, error) {
	args := m.Called(ctx, requestID)
	var proposals []domain.Proposal
	if args.Get(0) != nil {
		proposals = args.Get(0).([]domain.Proposal)
	}
	return proposals, args.Error(1)
}

func (m *MockProposalRepository) ListProposals(ctx context.Context, adminID *string, status *domain.ProposalStatus, limit int, nextToken *string) ([]domain.Proposal, *string, error) {
	args := m.Called(ctx, adminID, status, limit, nextToken)
	var proposals []domain.Proposal
	if args.Get(0) != nil {
		proposals = args.Get(0).([]domain.Proposal)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return proposals, token, args.Error(2)
}

func (m *MockProposalRepository) CountProposalsByRequest(ctx context.Context, requestID string) (int, error) {
	args := m.Called(ctx, requestID)
	return args.Int(0), args.Error(1)
}

func (m *MockProposalRepository) SaveProposal(ctx context.Context, proposal domain.Proposal) error {
	args := m.Called(ctx, proposal)
	return args.Error(0)
}

func (m *MockProposalRepository) UpdateProposalTerms(ctx context.Context, proposal domain.Proposal, allowedFrom []domain.ProposalStatus) error {
	args := m.Called(ctx, proposal, allowedFrom)
	return args.Error(0)
}

func (m *MockProposalRepository) TransitionStatus(ctx context.Context, proposalID string, allowedFrom []domain.ProposalStatus, patch portsrepo.ProposalStatusPatch) (*domain.Proposal, error) {
	args := m.Called(ctx, proposalID, allowedFrom, patch)
	var p *domain.Proposal
	if args.Get(0) != nil {
		p = args.Get(0).(*domain.Proposal)
	}
	return p, args.Error(1)
}

func (m *MockProposalRepository) AddAttachment(ctx context.Context, proposalID string, attachment domain.Attachment, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, proposalID, attachment, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockProposalRepository) SetApprovalStatus(ctx context.Context, proposalID string, status domain.ApprovalStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, proposalID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockProposalRepository) SoftDeleteProposal(ctx context.Context, proposalID string, deletedBy string, deletedAt time.Time) error {
	args := m.Called(ctx, proposalID, deletedBy, deletedAt)
	return args.Error(0)
}

// --- Mock RequestRepository ---
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.PackageRequest, error) {
	args := m.Called(ctx, requestID)
	var r *domain.PackageRequest
	if args.Get(0) != nil {
		r = args.Get(0).(*domain.PackageRequest)
	}
	return r, args.Error(1)
}

func (m *MockRequestRepository) ListRequestsByUser(ctx context.Context, userID string) ([]domain.PackageRequest, error) {
	args := m.Called(ctx, userID)
	var requests []domain.PackageRequest
	if args.Get(0) != nil {
		requests = args.Get(0).([]domain.PackageRequest)
	}
	return requests, args.Error(1)
}

func (m *MockRequestRepository) ListRequests(ctx context.Context, status *domain.RequestStatus, limit int, nextToken *string) ([]domain.PackageRequest, *string, error) {
	args := m.Called(ctx, status, limit, nextToken)
	var requests []domain.PackageRequest
	if args.Get(0) != nil {
		requests = args.Get(0).([]domain.PackageRequest)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return requests, token, args.Error(2)
}

func (m *MockRequestRepository) SaveRequest(ctx context.Context, request domain.PackageRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateRequestStatus(ctx context.Context, requestID string, status domain.RequestStatus, adminNote *string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, requestID, status, adminNote, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockRequestRepository) RefreshProposalStats(ctx context.Context, requestID string, lastProposalSent *time.Time, updatedAt time.Time) error {
	args := m.Called(ctx, requestID, lastProposalSent, updatedAt)
	return args.Error(0)
}

// --- Mock UserRepository (read side only; the proposal service never writes users) ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var u *domain.User
	if args.Get(0) != nil {
		u = args.Get(0).(*domain.User)
	}
	return u, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var u *domain.User
	if args.Get(0) != nil {
		u = args.Get(0).(*domain.User)
	}
	return u, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var u *domain.User
	if args.Get(0) != nil {
		u = args.Get(0).(*domain.User)
	}
	return u, args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiryTime *time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, expiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedBy string, deletedAt time.Time) error {
	args := m.Called(ctx, userID, deletedBy, deletedAt)
	return args.Error(0)
}

// --- Mock CurrencyRepository ---
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	var c *domain.Currency
	if args.Get(0) != nil {
		c = args.Get(0).(*domain.Currency)
	}
	return c, args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	var currencies []domain.Currency
	if args.Get(0) != nil {
		currencies = args.Get(0).([]domain.Currency)
	}
	return currencies, args.Error(1)
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

// --- Mock RequestLinkageSvc ---
type MockLinkage struct {
	mock.Mock
}

func (m *MockLinkage) NoteProposalCreated(ctx context.Context, requestID string, at time.Time) error {
	args := m.Called(ctx, requestID, at)
	return args.Error(0)
}

func (m *MockLinkage) NoteProposalSent(ctx context.Context, requestID string, actorID string, at time.Time) error {
	args := m.Called(ctx, requestID, actorID, at)
	return args.Error(0)
}

func (m *MockLinkage) NoteProposalAccepted(ctx context.Context, requestID string, actorID string, at time.Time) error {
	args := m.Called(ctx, requestID, actorID, at)
	return args.Error(0)
}

func (m *MockLinkage) NoteProposalRejected(ctx context.Context, requestID string, actorID string, at time.Time) error {
	args := m.Called(ctx, requestID, actorID, at)
	return args.Error(0)
}

func (m *MockLinkage) NoteRevisionRequested(ctx context.Context, requestID string, note string, actorID string, at time.Time) error {
	args := m.Called(ctx, requestID, note, actorID, at)
	return args.Error(0)
}

// RecordingDispatcher captures the events a transition schedules instead of
// running real side effects.
type RecordingDispatcher struct {
	events []portssvc.ProposalEvent
}

func (d *RecordingDispatcher) Dispatch(_ context.Context, event portssvc.ProposalEvent) {
	d.events = append(d.events, event)
}

func (d *RecordingDispatcher) kinds() []portssvc.ProposalEventKind {
	kinds := make([]portssvc.ProposalEventKind, 0, len(d.events))
	for _, e := range d.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// --- Test Suite ---
type ProposalServiceTestSuite struct {
	suite.Suite
	mockProposalRepo *MockProposalRepository
	mockRequestRepo  *MockRequestRepository
	mockUserRepo     *MockUserRepository
	mockCurrencyRepo *MockCurrencyRepository
	mockLinkage      *MockLinkage
	dispatcher       *RecordingDispatcher
	service          portssvc.ProposalSvcFacade

	operator *domain.User
	master   *domain.User
	traveler *domain.User
	request  *domain.PackageRequest
}

func (suite *ProposalServiceTestSuite) SetupTest() {
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

	suite.operator = &domain.User{UserID: uuid.NewString(), Name: "Op", Email: "op@agency.test", Role: domain.RoleEmployee}
	suite.master = &domain.User{UserID: uuid.NewString(), Name: "Boss", Email: "boss@agency.test", Role: domain.RoleMaster}
	suite.traveler = &domain.User{UserID: uuid.NewString(), Name: "Customer", Email: "customer@mail.test", Role: domain.RoleTraveler}
	suite.request = &domain.PackageRequest{
		RequestID:     uuid.NewString(),
		UserID:        suite.traveler.UserID,
		CustomerEmail: suite.traveler.Email,
		Destination:   "Lisbon",
		Status:        domain.RequestPending,
	}
}

func (suite *ProposalServiceTestSuite) sentProposal(status domain.ProposalStatus) *domain.Proposal {
	sentAt := time.Now().Add(-24 * time.Hour)
	validUntil := time.Now().Add(72 * time.Hour)
	return &domain.Proposal{
		ProposalID:     uuid.NewString(),
		ProposalNumber: "PROP-1748800000-ABCDEF",
		RequestID:      suite.request.RequestID,
		AdminID:        suite.operator.UserID,
		Title:          "Lisbon getaway",
		TotalPrice:     decimal.NewFromInt(1500),
		CurrencyCode:   "EUR",
		ValidUntil:     &validUntil,
		Status:         status,
		SentAt:         &sentAt,
		IsActive:       true,
	}
}

// --- CreateProposal ---

func (suite *ProposalServiceTestSuite) TestCreateProposal_Success() {
	ctx := context.Background()
	req := dto.CreateProposalRequest{
		RequestID:    suite.request.RequestID,
		Title:        "Lisbon getaway",
		CurrencyCode: "EUR",
		Taxes:        decimal.NewFromInt(50),
		Components: []dto.ProposalComponentRequest{
			{Name: "Flights", Type: "flight", Quantity: 2, UnitPrice: decimal.NewFromInt(300)},
			{Name: "Hotel", Type: "hotel", Quantity: 4, UnitPrice: decimal.NewFromInt(120)},
			{Name: "Wine tour", Type: "activity", Quantity: 1, UnitPrice: decimal.NewFromInt(80), Optional: true},
		},
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.operator.UserID).Return(suite.operator, nil).Once()
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.request.RequestID).Return(suite.request, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "EUR").Return(&domain.Currency{CurrencyCode: "EUR"}, nil).Once()
	suite.mockProposalRepo.On("SaveProposal", ctx, mock.MatchedBy(func(p domain.Proposal) bool {
		// Optional component is priced but excluded from the subtotal.
		return p.Status == domain.StatusDraft &&
			p.Subtotal.Equal(decimal.NewFromInt(1080)) &&
			p.TotalPrice.Equal(decimal.NewFromInt(1130)) &&
			p.ValidUntil != nil &&
			p.ApprovalStatus == domain.ApprovalNone &&
			p.AdminID == suite.operator.UserID
	})).Return(nil).Once()
	suite.mockLinkage.On("NoteProposalCreated", ctx, suite.request.RequestID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	proposal, err := suite.service.CreateProposal(ctx, req, suite.operator.UserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(proposal)
	suite.Regexp(`^PROP-\d+-[A-Z2-9]{6}$`, proposal.ProposalNumber)
	suite.Len(proposal.Components, 3)
	suite.Equal([]portssvc.ProposalEventKind{portssvc.EventProposalCreated}, suite.dispatcher.kinds())

	suite.mockProposalRepo.AssertExpectations(suite.T())
	suite.mockLinkage.AssertExpectations(suite.T())
}

func (suite *ProposalServiceTestSuite) TestCreateProposal_RequiresApprovalStartsPending() {
	ctx := context.Background()
	req := dto.CreateProposalRequest{
		RequestID:        suite.request.RequestID,
		Title:            "Big ticket",
		CurrencyCode:     "EUR",
		RequiresApproval: true,
		Components: []dto.ProposalComponentRequest{
			{Name: "Charter", Type: "flight", Quantity: 1, UnitPrice: decimal.NewFromInt(20000)},
		},
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.operator.UserID).Return(suite.operator, nil).Once()
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.request.RequestID).Return(suite.request, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "EUR").Return(&domain.Currency{CurrencyCode: "EUR"}, nil).Once()
	suite.mockProposalRepo.On("SaveProposal", ctx, mock.MatchedBy(func(p domain.Proposal) bool {
		return p.RequiresApproval && p.ApprovalStatus == domain.ApprovalPending
	})).Return(nil).Once()
	suite.mockLinkage.On("NoteProposalCreated", ctx, suite.request.RequestID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	proposal, err := suite.service.CreateProposal(ctx, req, suite.operator.UserID)

	suite.Require().NoError(err)
	suite.Equal(domain.ApprovalPending, proposal.ApprovalStatus)
}

func (suite *ProposalServiceTestSuite) TestCreateProposal_UnsupportedCurrency() {
	ctx := context.Background()
	req := dto.CreateProposalRequest{
		RequestID:    suite.request.RequestID,
		Title:        "Bad money",
		CurrencyCode: "XXX",
		Components: []dto.ProposalComponentRequest{
			{Name: "Hotel", Type: "hotel", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
		},
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.operator.UserID).Return(suite.operator, nil).Once()
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.request.RequestID).Return(suite.request, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	proposal, err := suite.service.CreateProposal(ctx, req, suite.operator.UserID)

	suite.Require().Error(err)
	suite.Nil(proposal)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProposalRepo.AssertNotCalled(suite.T(), "SaveProposal", mock.Anything, mock.Anything)
}

func (suite *ProposalServiceTestSuite) TestCreateProposal_TravelerForbidden() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.traveler.UserID).Return(suite.traveler, nil).Once()

	proposal, err := suite.service.CreateProposal(ctx, dto.CreateProposalRequest{RequestID: suite.request.RequestID}, suite.traveler.UserID)

	suite.Require().Error(err)
	suite.Nil(proposal)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ProposalServiceTestSuite) TestCreateProposal_LinkageFailureStillSucceeds() {
	ctx := context.Background()
	req := dto.CreateProposalRequest{
		RequestID:    suite.request.RequestID,
		Title:        "Resilient",
		CurrencyCode: "EUR",
		Components: []dto.ProposalComponentRequest{
			{Name: "Hotel", Type: "hotel", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
		},
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.operator.UserID).Return(suite.operator, nil).Once()
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.request.RequestID).Return(suite.request, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "EUR").Return(&domain.Currency{CurrencyCode: "EUR"}, nil).Once()
	suite.mockProposalRepo.On("SaveProposal", ctx, mock.AnythingOfType("domain.Proposal")).Return(nil).Once()
	suite.mockLinkage.On("NoteProposalCreated", ctx, suite.request.RequestID, mock.AnythingOfType("time.Time")).Return(assert.AnError).Once()

	proposal, err := suite.service.CreateProposal(ctx, req, suite.operator.UserID)

	// The linkage update is best-effort; its failure never fails the create.
	suite.Require().NoError(err)
	suite.Require().NotNil(proposal)
}

// --- SendProposal ---

func (suite *ProposalServiceTestSuite) TestSendProposal_Success() {
	ctx := context.Background()
	draft := suite.sentProposal(domain.StatusDraft)
	draft.SentAt = nil
	sent := suite.sentProposal(domain.StatusSent)
	sent.ProposalID = draft.ProposalID

	suite.mockUserRepo.On("FindUserByID", ctx, suite.operator.UserID).Return(suite.operator, nil).Once()
	suite.mockProposalRepo.On("FindProposalByID", ctx, draft.ProposalID).Return(draft, nil).Once()
	suite.mockProposalRepo.On("TransitionStatus", ctx, draft.ProposalID,
		domain.AllowedSources(domain.TransitionSend),
		mock.MatchedBy(func(patch portsrepo.ProposalStatusPatch) bool {
			return patch.NewStatus == domain.StatusSent && patch.SentAt != nil
		})).Return(sent, nil).Once()
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.request.RequestID).Return(suite.request, nil).Once()
	suite.mockLinkage.On("NoteProposalSent", ctx, suite.request.RequestID, suite.operator.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.SendProposal(ctx, draft.ProposalID, dto.SendProposalRequest{CustomMessage: "Enjoy!"}, suite.operator.UserID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusSent, updated.Status)
	suite.Require().Len(suite.dispatcher.events, 1)
	event := suite.dispatcher.events[0]
	suite.Equal(portssvc.EventProposalSent, event.Kind)
	suite.Equal(suite.request.CustomerEmail, event.EmailRecipient)
	suite.Equal("Enjoy!", event.Note)
	suite.mockProposalRepo.AssertExpectations(suite.T())
}

func (suite *ProposalServiceTestSuite) TestSendProposal_ApprovalGate() {
	ctx := context.Background()
	draft := suite.sentProposal(domain.StatusDraft)
	draft.SentAt = nil
	draft.RequiresApproval = true
	draft.ApprovalStatus = domain.ApprovalPending

	suite.mockUserRepo.On("FindUserByID", ctx, suite.operator.UserID).Return(suite.operator, nil).Once()
	suite.mockProposalRepo.On("FindProposalByID", ctx, draft.ProposalID).Return(draft, nil).Once()

	updated, err := suite.service.SendProposal(ctx, draft.ProposalID, dto.SendProposalRequest{}, suite.operator.UserID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockProposalRepo.AssertNotCalled(suite.T(), "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.Empty(suite.dispatcher.events)
}

func (suite *ProposalServiceTestSuite) TestSendProposal_OtherOperatorForbidden() {
	ctx := context.Background()
	draft := suite.sentProposal(domain.StatusDraft)
	other := &domain.User{UserID: uuid.NewString(), Role: domain.RoleEmployee}

	suite.mockUserRepo.On("FindUserByID", ctx, other.UserID).Return(other, nil).Once()
	suite.mockProposalRepo.On("FindProposalByID", ctx, draft.ProposalID).Return(draft, nil).Once()

	_, err := suite.service.SendProposal(ctx, draft.ProposalID, dto.SendProposalRequest{}, other.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ProposalServiceTestSuite) TestSendProposal_RaceLoserGetsIllegalTransition() {
	ctx := context.Background()
	draft := suite.sentProposal(domain.StatusDraft)
	draft.SentAt = nil

	suite.mockUserRepo.On("FindUserByID", ctx, suite.operator.UserID).Return(suite.operator, nil).Once()
	suite.mockProposalRepo.On("FindProposalByID", ctx, draft.ProposalID).Return(draft, nil).Once()
	suite.mockProposalRepo.On("TransitionStatus", ctx, draft.ProposalID, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrIllegalTransition).Once()

	updated, err := suite.service.SendProposal(ctx, draft.ProposalID, dto.SendProposalRequest{}, suite.operator.UserID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrIllegalTransition)
	suite.Empty(suite.dispatcher.events)
}

// --- Approval ---

func (suite *ProposalServiceTestSuite) TestApproveProposal_AlreadySentConflict() {
	ctx := context.Background()
	proposal := suite.sentProposal(domain.StatusSent)
	proposal.RequiresApproval = true

	suite.mockUserRepo.On("FindUserByID", ctx, suite.master.UserID).Return(suite.master, nil).Once()
	suite.mockProposalRepo.On("FindProposalByID", ctx, proposal.ProposalID).Return(proposal, nil).Once()

	_, err := suite.service.ApproveProposal(ctx, proposal.ProposalID, suite.master.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockProposalRepo.AssertNotCalled(suite.T(), "SetApprovalStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProposalServiceTestSuite) TestApproveProposal_Success() {
	ctx := context.Background()
	proposal := suite.sentProposal(domain.StatusReview)
	proposal.SentAt = nil
	proposal.RequiresApproval = true
	proposal.ApprovalStatus = domain.ApprovalPending
	approved := *proposal
	approved.ApprovalStatus = domain.ApprovalApproved

	suite.mockUserRepo.On("FindUserByID", ctx, suite.master.UserID).Return(suite.master, nil).Once()
	suite.mockProposalRepo.On("FindProposalByID", ctx, proposal.ProposalID).Return(proposal, nil).Once()
	suite.mockProposalRepo.On("SetApprovalStatus", ctx, proposal.ProposalID, domain.ApprovalApproved, suite.master.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockProposalRepo.On("FindProposalByID", ctx, proposal.ProposalID).Return(&approved, nil).Once()

	updated, err := suite.service.ApproveProposal(ctx, proposal.ProposalID, suite.master.UserID)

	suite.Require().NoError(err)
	suite.Equal(domain.ApprovalApproved, updated.ApprovalStatus)
	suite.Equal([]portssvc.ProposalEventKind{portssvc.EventProposalApproved}, suite.dispatcher.kinds())
}

// --- MarkExpired / Delete / Duplicate ---

func (suite *ProposalServiceTestSuite) TestMarkExpired_DeadlineNotPassed() {
	ctx := context.Background()
	proposal := suite.sentProposal(domain.StatusSent)

	suite.mockUserRepo.On("FindUserByID", ctx, suite.operator.UserID).Return(suite.operator, nil).Once()
	suite.mockProposalRepo.On("FindProposalByID", ctx, proposal.ProposalID).Return(proposal, nil).Once()

	_, err := suite.service.MarkExpired(ctx, proposal.ProposalID, suite.operator.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ProposalServiceTestSuite) TestDeleteProposal_AcceptedConflict() {
	ctx := context.Background()
	proposal := suite.sentProposal(domain.StatusAccepted)

	suite.mockUserRepo.On("FindUserByID", ctx, suite.operator.UserID).Return(suite.operator, nil).Once()
	suite.mockProposalRepo.On("FindProposalByID", ctx, proposal.ProposalID).Return(proposal, nil).Once()

	err := suite.service.DeleteProposal(ctx, proposal.ProposalID, suite.operator.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockProposalRepo.AssertNotCalled(suite.T(), "SoftDeleteProposal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProposalServiceTestSuite) TestDeleteProposal_Success() {
	ctx := context.Background()
	proposal := suite.sentProposal(domain.StatusRejected)

	suite.mockUserRepo.On("FindUserByID", ctx, suite.operator.UserID).Return(suite.operator, nil).Once()
	suite.mockProposalRepo.On("FindProposalByID", ctx, proposal.ProposalID).Return(proposal, nil).Once()
	suite.mockProposalRepo.On("SoftDeleteProposal", ctx, proposal.ProposalID, suite.operator.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockLinkage.On("NoteProposalCreated", ctx, proposal.RequestID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeleteProposal(ctx, proposal.ProposalID, suite.operator.UserID)

	suite.Require().NoError(err)
	suite.Equal([]portssvc.ProposalEventKind{portssvc.EventProposalDeleted}, suite.dispatcher.kinds())
}

func (suite *ProposalServiceTestSuite) TestDuplicateProposal_PriceAdjustment() {
	ctx := context.Background()
	source := suite.sentProposal(domain.StatusExpired)
	source.Components = []domain.ProposalComponent{
		{Name: "Hotel", Type: "hotel", Quantity: 2, UnitPrice: decimal.NewFromInt(100), TotalPrice: decimal.NewFromInt(200)},
	}
	source.Subtotal = decimal.NewFromInt(200)
	source.TotalPrice = decimal.NewFromInt(200)
	source.NegotiationRounds = 3
	source.CustomerFeedback = "too pricey"
	source.Attachments = []domain.Attachment{
		{Name: "old-brochure.pdf", URL: "https://files.test/old-brochure.pdf", UploadedBy: suite.operator.UserID, UploadedAt: time.Now()},
	}

	adjustment := decimal.NewFromInt(-10)

	suite.mockUserRepo.On("FindUserByID", ctx, suite.operator.UserID).Return(suite.operator, nil).Once()
	suite.mockProposalRepo.On("FindProposalByID", ctx, source.ProposalID).Return(source, nil).Once()
	suite.mockProposalRepo.On("SaveProposal", ctx, mock.MatchedBy(func(p domain.Proposal) bool {
		return p.ProposalID != source.ProposalID &&
			p.ProposalNumber != source.ProposalNumber &&
			p.Status == domain.StatusDraft &&
			p.NegotiationRounds == 0 &&
			p.CustomerFeedback == "" &&
			p.SentAt == nil &&
			len(p.Attachments) == 0 &&
			p.Components[0].UnitPrice.Equal(decimal.NewFromInt(90)) &&
			p.Subtotal.Equal(decimal.NewFromInt(180))
	})).Return(nil).Once()
	suite.mockLinkage.On("NoteProposalCreated", ctx, source.RequestID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	copied, err := suite.service.DuplicateProposal(ctx, source.ProposalID, dto.DuplicateProposalRequest{PriceAdjustmentPercent: &adjustment}, suite.operator.UserID)

	suite.Require().NoError(err)
	suite.NotEqual(source.ProposalID, copied.ProposalID)
	suite.Empty(copied.Attachments)
	suite.Equal([]portssvc.ProposalEventKind{portssvc.EventProposalDuplicated}, suite.dispatcher.kinds())
}

// --- Visibility ---

func (suite *ProposalServiceTestSuite) TestGetProposalByID_CustomerCannotSeeUnsent() {
	ctx := context.Background()
	proposal := suite.sentProposal(domain.StatusDraft)
	proposal.SentAt = nil

	suite.mockUserRepo.On("FindUserByID", ctx, suite.traveler.UserID).Return(suite.traveler, nil)
	suite.mockProposalRepo.On("FindProposalByID", ctx, proposal.ProposalID).Return(proposal, nil)
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.request.RequestID).Return(suite.request, nil)

	got, err := suite.service.GetProposalByID(ctx, proposal.ProposalID, suite.traveler.UserID)

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ProposalServiceTestSuite) TestGetProposalByID_StrangerCannotSee() {
	ctx := context.Background()
	proposal := suite.sentProposal(domain.StatusSent)
	stranger := &domain.User{UserID: uuid.NewString(), Email: "stranger@mail.test", Role: domain.RoleTraveler}

	suite.mockUserRepo.On("FindUserByID", ctx, stranger.UserID).Return(stranger, nil)
	suite.mockProposalRepo.On("FindProposalByID", ctx, proposal.ProposalID).Return(proposal, nil)
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.request.RequestID).Return(suite.request, nil)

	got, err := suite.service.GetProposalByID(ctx, proposal.ProposalID, stranger.UserID)

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestProposalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProposalServiceTestSuite))
}
