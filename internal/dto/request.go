package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
)

// CreateRequestRequest is the payload for a customer to open a package request.
type CreateRequestRequest struct {
	Destination    string           `json:"destination" binding:"required"`
	StartDate      *time.Time       `json:"startDate,omitempty"`
	EndDate        *time.Time       `json:"endDate,omitempty"`
	TravelersCount int              `json:"travelersCount" binding:"required,gt=0"`
	Budget         *decimal.Decimal `json:"budget,omitempty"`
	CurrencyCode   string           `json:"currencyCode" binding:"omitempty,len=3"`
	Notes          string           `json:"notes"`
}

// ListRequestsParams holds the operator list query parameters.
type ListRequestsParams struct {
	Status    *string `form:"status"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// RequestResponse is the API representation of a package request.
type RequestResponse struct {
	RequestID        string               `json:"requestID"`
	UserID           string               `json:"userID"`
	CustomerEmail    string               `json:"customerEmail"`
	Destination      string               `json:"destination"`
	StartDate        *time.Time           `json:"startDate,omitempty"`
	EndDate          *time.Time           `json:"endDate,omitempty"`
	TravelersCount   int                  `json:"travelersCount"`
	Budget           *decimal.Decimal     `json:"budget,omitempty"`
	CurrencyCode     string               `json:"currencyCode,omitempty"`
	Notes            string               `json:"notes,omitempty"`
	Status           domain.RequestStatus `json:"status"`
	ProposalCount    int                  `json:"proposalCount"`
	LastProposalSent *time.Time           `json:"lastProposalSent,omitempty"`
	AdminNote        string               `json:"adminNote,omitempty"`
	CreatedAt        time.Time            `json:"createdAt"`
}

// ListRequestsResponse is the paginated operator list payload.
type ListRequestsResponse struct {
	Requests  []RequestResponse `json:"requests"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToRequestResponse converts a domain.PackageRequest to its API representation.
func ToRequestResponse(r *domain.PackageRequest) RequestResponse {
	return RequestResponse{
		RequestID:        r.RequestID,
		UserID:           r.UserID,
		CustomerEmail:    r.CustomerEmail,
		Destination:      r.Destination,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		TravelersCount:   r.TravelersCount,
		Budget:           r.Budget,
		CurrencyCode:     r.CurrencyCode,
		Notes:            r.Notes,
		Status:           r.Status,
		ProposalCount:    r.ProposalCount,
		LastProposalSent: r.LastProposalSent,
		AdminNote:        r.AdminNote,
		CreatedAt:        r.CreatedAt,
	}
}

// ToRequestResponses converts a slice of requests.
func ToRequestResponses(requests []domain.PackageRequest) []RequestResponse {
	responses := make([]RequestResponse, len(requests))
	for i := range requests {
		responses[i] = ToRequestResponse(&requests[i])
	}
	return responses
}
