package services

import (
	"context"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
	"github.com/voyago/travel_proposal_app/internal/dto"
)

// CurrencySvcFacade defines operations for currency reference data.
type CurrencySvcFacade interface {
	// CreateCurrency registers a new supported currency; master only.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)

	// GetCurrencyByCode retrieves a currency by its ISO 4217 code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all supported currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
