package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/dto"
	"github.com/voyago/travel_proposal_app/internal/middleware"
)

// CurrencyHandler handles currency reference data endpoints.
type CurrencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(cs portssvc.CurrencySvcFacade) *CurrencyHandler {
	return &CurrencyHandler{currencyService: cs}
}

// registerCurrencyRoutes sets up the currency routes under the authenticated group.
func registerCurrencyRoutes(rg *gin.RouterGroup, cs portssvc.CurrencySvcFacade) {
	h := NewCurrencyHandler(cs)

	currencies := rg.Group("/currencies")
	{
		currencies.POST("", h.CreateCurrency)
		currencies.GET("", h.ListCurrencies)
		currencies.GET("/:currencyCode", h.GetCurrency)
	}
}

// CreateCurrency godoc
// @Summary Create currency
// @Description Registers a new supported currency; master only.
// @Tags currencies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param currency body dto.CreateCurrencyRequest true "Currency"
// @Success 201 {object} dto.CurrencyResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /currencies [post]
func (h *CurrencyHandler) CreateCurrency(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	currency, err := h.currencyService.CreateCurrency(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err, "currency")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCurrencyResponse(currency))
}

// ListCurrencies godoc
// @Summary List currencies
// @Description Retrieves all supported currencies.
// @Tags currencies
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.CurrencyResponse
// @Router /currencies [get]
func (h *CurrencyHandler) ListCurrencies(c *gin.Context) {
	currencies, err := h.currencyService.ListCurrencies(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "currencies")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyResponses(currencies))
}

// GetCurrency godoc
// @Summary Get currency
// @Description Retrieves a currency by its ISO 4217 code.
// @Tags currencies
// @Produce json
// @Security BearerAuth
// @Param currencyCode path string true "Currency code"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 404 {object} ErrorResponse
// @Router /currencies/{currencyCode} [get]
func (h *CurrencyHandler) GetCurrency(c *gin.Context) {
	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), c.Param("currencyCode"))
	if err != nil {
		respondServiceError(c, err, "currency")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}
