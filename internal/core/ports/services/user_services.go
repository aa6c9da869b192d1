package services

import (
	"context"
	"time"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
	"github.com/voyago/travel_proposal_app/internal/dto"
)

// UserSvcFacade defines user management operations.
type UserSvcFacade interface {
	// CreateUser registers a new user with a hashed password.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers retrieves a page of users; operator only.
	ListUsers(ctx context.Context, requestingUserID string, limit, offset int) ([]domain.User, error)

	// UpdateUser updates mutable profile fields.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error)

	// DeleteUser soft-deletes a user.
	DeleteUser(ctx context.Context, userID string, requestingUserID string) error

	// UpdateUserRefreshToken stores the hashed refresh token for a user.
	UpdateUserRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiryTime *time.Time) error

	// ClearUserRefreshToken removes the stored refresh token (logout).
	ClearUserRefreshToken(ctx context.Context, userID string) error

	// FindOrCreateGoogleUser resolves a Google-authenticated traveler to a
	// local user, creating one on first sign-in.
	FindOrCreateGoogleUser(ctx context.Context, email, name string) (*domain.User, error)
}
