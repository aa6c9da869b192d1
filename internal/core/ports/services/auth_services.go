package services

import (
	"context"
	"time"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
)

// TokenSvcFacade handles JWT access tokens and refresh token rotation.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a short-lived JWT for the user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// GenerateRefreshToken creates a new opaque refresh token and its expiry.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// ValidateAndParseRefreshToken validates a refresh token against the
	// stored hash and returns the owning user.
	ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshTokenString string) (*domain.User, error)

	// ValidateGoogleIDToken verifies a Google ID token and resolves the local
	// user, creating a traveler account on first sign-in.
	ValidateGoogleIDToken(ctx context.Context, idToken string) (*domain.User, error)
}
