package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voyago/travel_proposal_app/internal/apperrors"
	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/dto"
	"github.com/voyago/travel_proposal_app/internal/utils"
)

type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates the user management service.
func NewUserService(repos portsrepo.RepositoryProvider) portssvc.UserSvcFacade {
	return &userService{userRepo: repos.UserRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.NewInternalServerError("failed to hash password")
	}

	role := domain.RoleTraveler
	if req.Role != "" {
		role = domain.UserRole(req.Role)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: passwordHash,
		Role:         role,
		AuthProvider: "local",
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	user.CreatedBy = user.UserID
	user.LastUpdatedBy = user.UserID

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userRepo.FindUserByUsername(ctx, username)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.FindUserByEmail(ctx, strings.ToLower(email))
}

func (s *userService) ListUsers(ctx context.Context, requestingUserID string, limit, offset int) ([]domain.User, error) {
	requester, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, apperrors.NewForbiddenError("requesting user not found")
	}
	if !requester.Role.IsOperator() {
		return nil, apperrors.NewForbiddenError("operator role required")
	}
	return s.userRepo.ListUsers(ctx, limit, offset)
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	requester, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, apperrors.NewForbiddenError("requesting user not found")
	}
	if requester.UserID != userID && requester.Role != domain.RoleMaster {
		return nil, apperrors.NewForbiddenError("cannot update another user")
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = strings.ToLower(*req.Email)
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = requester.UserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	requester, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return apperrors.NewForbiddenError("requesting user not found")
	}
	if requester.UserID != userID && requester.Role != domain.RoleMaster {
		return apperrors.NewForbiddenError("cannot delete another user")
	}
	return s.userRepo.MarkUserDeleted(ctx, userID, requestingUserID, time.Now())
}

func (s *userService) UpdateUserRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiryTime *time.Time) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, expiryTime)
}

func (s *userService) ClearUserRefreshToken(ctx context.Context, userID string) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, "", nil)
}

// FindOrCreateGoogleUser resolves a verified Google identity to a local
// traveler account, creating one on first sign-in.
func (s *userService) FindOrCreateGoogleUser(ctx context.Context, email, name string) (*domain.User, error) {
	email = strings.ToLower(email)
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	created := domain.User{
		UserID:       uuid.NewString(),
		Name:         name,
		Username:     email,
		Email:        email,
		Role:         domain.RoleTraveler,
		AuthProvider: "google",
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	created.CreatedBy = created.UserID
	created.LastUpdatedBy = created.UserID

	if err := s.userRepo.SaveUser(ctx, created); err != nil {
		return nil, err
	}
	return &created, nil
}
