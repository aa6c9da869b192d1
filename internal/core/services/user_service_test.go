package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/voyago/travel_proposal_app/internal/apperrors"
	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/core/services"
	"github.com/voyago/travel_proposal_app/internal/dto"
	"github.com/voyago/travel_proposal_app/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(portsrepo.RepositoryProvider{UserRepo: suite.mockUserRepo})
}

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Name:     "Ana Silva",
		Username: "anasilva",
		Email:    "Ana.Silva@Mail.Test",
		Password: "correct-horse",
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "anasilva" &&
			u.Email == "ana.silva@mail.test" &&
			u.Role == domain.RoleTraveler &&
			u.AuthProvider == "local" &&
			u.PasswordHash != "" &&
			u.PasswordHash != req.Password
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.True(utils.CheckPasswordHash(req.Password, user.PasswordHash))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_ExplicitRole() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Name:     "Op",
		Username: "operator1",
		Email:    "op@agency.test",
		Password: "correct-horse",
		Role:     "EMPLOYEE",
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleEmployee
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleEmployee, user.Role)
}

func (suite *UserServiceTestSuite) TestGetUserByEmail_Lowercases() {
	ctx := context.Background()
	stored := &domain.User{UserID: uuid.NewString(), Email: "ana@mail.test"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "ana@mail.test").Return(stored, nil).Once()

	user, err := suite.service.GetUserByEmail(ctx, "ANA@Mail.Test")

	suite.Require().NoError(err)
	suite.Equal(stored, user)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestListUsers_TravelerForbidden() {
	ctx := context.Background()
	traveler := &domain.User{UserID: uuid.NewString(), Role: domain.RoleTraveler}

	suite.mockUserRepo.On("FindUserByID", ctx, traveler.UserID).Return(traveler, nil).Once()

	users, err := suite.service.ListUsers(ctx, traveler.UserID, 20, 0)

	suite.Require().Error(err)
	suite.Nil(users)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "ListUsers", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdateUser_SelfAllowed() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), Name: "Old Name", Email: "old@mail.test", Role: domain.RoleTraveler}
	newName := "New Name"

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Twice()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Name == newName && u.LastUpdatedBy == user.UserID
	})).Return(nil).Once()

	updated, err := suite.service.UpdateUser(ctx, user.UserID, dto.UpdateUserRequest{Name: &newName}, user.UserID)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
}

func (suite *UserServiceTestSuite) TestUpdateUser_OtherUserForbidden() {
	ctx := context.Background()
	requester := &domain.User{UserID: uuid.NewString(), Role: domain.RoleEmployee}
	newName := "Sneaky"

	suite.mockUserRepo.On("FindUserByID", ctx, requester.UserID).Return(requester, nil).Once()

	updated, err := suite.service.UpdateUser(ctx, uuid.NewString(), dto.UpdateUserRequest{Name: &newName}, requester.UserID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestDeleteUser_MasterCanDeleteOthers() {
	ctx := context.Background()
	master := &domain.User{UserID: uuid.NewString(), Role: domain.RoleMaster}
	targetID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, master.UserID).Return(master, nil).Once()
	suite.mockUserRepo.On("MarkUserDeleted", ctx, targetID, master.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeleteUser(ctx, targetID, master.UserID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_ExistingUser() {
	ctx := context.Background()
	existing := &domain.User{UserID: uuid.NewString(), Email: "ana@mail.test", AuthProvider: "local"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "ana@mail.test").Return(existing, nil).Once()

	user, err := suite.service.FindOrCreateGoogleUser(ctx, "Ana@Mail.Test", "Ana Silva")

	suite.Require().NoError(err)
	suite.Equal(existing, user)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_FirstSignIn() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "new@mail.test").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "new@mail.test" &&
			u.Role == domain.RoleTraveler &&
			u.AuthProvider == "google" &&
			u.PasswordHash == ""
	})).Return(nil).Once()

	user, err := suite.service.FindOrCreateGoogleUser(ctx, "New@Mail.Test", "New Person")

	suite.Require().NoError(err)
	suite.Equal("New Person", user.Name)
	suite.Equal("google", user.AuthProvider)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
