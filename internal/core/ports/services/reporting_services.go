package services

import (
	"context"

	"github.com/voyago/travel_proposal_app/internal/dto"
)

// ReportingSvcFacade exposes operator dashboard aggregates.
type ReportingSvcFacade interface {
	// GetProposalReport returns proposal counts by status, accepted totals per
	// currency, and the average negotiation rounds. Non-master operators see
	// only their own proposals.
	GetProposalReport(ctx context.Context, requestingUserID string) (*dto.ProposalReportResponse, error)
}
