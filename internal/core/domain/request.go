package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus is the lifecycle status of a package request. Its lifecycle is
// independent of the proposal lifecycle but partially driven by proposal events.
type RequestStatus string

const (
	RequestPending          RequestStatus = "pending"
	RequestInReview         RequestStatus = "in_review"
	RequestProposalSent     RequestStatus = "proposal_sent"
	RequestRequiresRevision RequestStatus = "requires_revision"
	RequestConfirmed        RequestStatus = "confirmed"
	RequestCancelled        RequestStatus = "cancelled"
)

// PackageRequest is the customer-originated inquiry that proposals respond to.
type PackageRequest struct {
	RequestID     string `json:"requestID"` // Primary Key (UUID)
	UserID        string `json:"userID"`    // Owning customer
	CustomerEmail string `json:"customerEmail"`

	Destination    string           `json:"destination"`
	StartDate      *time.Time       `json:"startDate,omitempty"`
	EndDate        *time.Time       `json:"endDate,omitempty"`
	TravelersCount int              `json:"travelersCount"`
	Budget         *decimal.Decimal `json:"budget,omitempty"`
	CurrencyCode   string           `json:"currencyCode"`
	Notes          string           `json:"notes"`

	Status RequestStatus `json:"status"`

	// Denormalized proposal data kept in sync by the proposal engine.
	ProposalCount    int        `json:"proposalCount"`
	LastProposalSent *time.Time `json:"lastProposalSent,omitempty"`

	// AdminNote is set when a revision is requested, visible to operators.
	AdminNote string `json:"adminNote,omitempty"`

	AuditFields
}

// OwnedBy reports whether the given user owns this request, matching by user
// id or by email fallback.
func (r *PackageRequest) OwnedBy(userID, email string) bool {
	if r.UserID != "" && r.UserID == userID {
		return true
	}
	return email != "" && r.CustomerEmail != "" && r.CustomerEmail == email
}
