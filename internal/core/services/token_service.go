package services

import (
	"context"
	"time"

	"google.golang.org/api/idtoken"

	"github.com/voyago/travel_proposal_app/internal/apperrors"
	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/middleware"
	"github.com/voyago/travel_proposal_app/internal/platform/config"
	"github.com/voyago/travel_proposal_app/internal/utils"
)

type tokenService struct {
	cfg     *config.Config
	userSvc portssvc.UserSvcFacade
}

// NewTokenService creates the JWT/refresh token service.
func NewTokenService(cfg *config.Config, userSvc portssvc.UserSvcFacade) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg, userSvc: userSvc}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalServerError("failed to generate access token")
	}
	return token, expiresAt, nil
}

// GenerateRefreshToken mints a new opaque refresh token, stores only its hash,
// and returns the plaintext to be set as an HTTP-only cookie.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	refreshToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalServerError("failed to generate refresh token")
	}
	expiryTime := time.Now().Add(s.cfg.RefreshTokenExpiryDuration)
	hash := utils.HashRefreshToken(refreshToken)
	if err := s.userSvc.UpdateUserRefreshToken(ctx, user.UserID, hash, &expiryTime); err != nil {
		return "", time.Time{}, err
	}
	return refreshToken, expiryTime, nil
}

func (s *tokenService) ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshTokenString string) (*domain.User, error) {
	user, err := s.userSvc.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}
	if user.RefreshTokenHash == "" || !utils.CompareRefreshTokenHash(refreshTokenString, user.RefreshTokenHash) {
		return nil, apperrors.ErrInvalidRefreshToken
	}
	if user.RefreshTokenExpiryTime == nil || time.Now().After(*user.RefreshTokenExpiryTime) {
		return nil, apperrors.ErrRefreshTokenExpired
	}
	return user, nil
}

// ValidateGoogleIDToken verifies the ID token against the configured client ID
// and resolves (or creates) the local traveler account.
func (s *tokenService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.cfg.GoogleClientID == "" {
		return nil, apperrors.NewInternalServerError("Google sign-in is not configured")
	}
	payload, err := idtoken.Validate(ctx, idTokenString, s.cfg.GoogleClientID)
	if err != nil {
		logger.Warn("Google ID token validation failed", "error", err)
		return nil, apperrors.NewUnauthorizedError("invalid Google ID token")
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, apperrors.NewUnauthorizedError("Google ID token is missing an email claim")
	}
	name, _ := payload.Claims["name"].(string)
	if name == "" {
		name = email
	}
	return s.userSvc.FindOrCreateGoogleUser(ctx, email, name)
}
