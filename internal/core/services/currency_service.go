package services

import (
	"context"
	"strings"
	"time"

	"github.com/voyago/travel_proposal_app/internal/apperrors"
	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/dto"
)

type currencyService struct {
	currencyRepo portsrepo.CurrencyRepositoryFacade
	userRepo     portsrepo.UserRepositoryFacade
}

// NewCurrencyService creates the currency reference data service.
func NewCurrencyService(repos portsrepo.RepositoryProvider) portssvc.CurrencySvcFacade {
	return &currencyService{
		currencyRepo: repos.CurrencyRepo,
		userRepo:     repos.UserRepo,
	}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	creator, err := s.userRepo.FindUserByID(ctx, creatorUserID)
	if err != nil {
		return nil, apperrors.NewForbiddenError("requesting user not found")
	}
	if creator.Role != domain.RoleMaster {
		return nil, apperrors.NewForbiddenError("master role required")
	}

	now := time.Now()
	currency := domain.Currency{
		CurrencyCode: strings.ToUpper(req.CurrencyCode),
		Symbol:       req.Symbol,
		Name:         req.Name,
		Precision:    req.Precision,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creator.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creator.UserID,
		},
	}
	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		return nil, err
	}
	return &currency, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	return s.currencyRepo.FindCurrencyByCode(ctx, strings.ToUpper(currencyCode))
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return s.currencyRepo.ListCurrencies(ctx)
}
