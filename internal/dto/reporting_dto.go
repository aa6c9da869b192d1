package dto

import (
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
)

// ProposalReportResponse is the operator dashboard aggregate payload.
type ProposalReportResponse struct {
	StatusCounts             []portsrepo.StatusCount   `json:"statusCounts"`
	AcceptedTotals           []portsrepo.CurrencyTotal `json:"acceptedTotals"`
	AverageNegotiationRounds float64                   `json:"averageNegotiationRounds"`
}
