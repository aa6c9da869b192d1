package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
)

// ProposalComponentRequest is one itemized line in a create/update payload.
type ProposalComponentRequest struct {
	Name      string          `json:"name" binding:"required"`
	Type      string          `json:"type" binding:"required,oneof=flight hotel transfer activity insurance other"`
	Quantity  int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"required"`
	Included  bool            `json:"included"`
	Optional  bool            `json:"optional"`
}

// CreateProposalRequest is the payload to create a new draft proposal.
type CreateProposalRequest struct {
	RequestID          string                     `json:"requestID" binding:"required,uuid"`
	Title              string                     `json:"title" binding:"required"`
	Description        string                     `json:"description"`
	Components         []ProposalComponentRequest `json:"components" binding:"required,min=1,dive"`
	Taxes              decimal.Decimal            `json:"taxes"`
	Fees               decimal.Decimal            `json:"fees"`
	Discount           decimal.Decimal            `json:"discount"`
	CurrencyCode       string                     `json:"currencyCode" binding:"required,len=3"`
	ValidUntil         *time.Time                 `json:"validUntil,omitempty"`
	PaymentTerms       string                     `json:"paymentTerms"`
	CancellationPolicy string                     `json:"cancellationPolicy"`
	Inclusions         []string                   `json:"inclusions"`
	Exclusions         []string                   `json:"exclusions"`
	RequiresApproval   bool                       `json:"requiresApproval"`
	PartnerID          *string                    `json:"partnerID,omitempty"`
	OrganizationID     *string                    `json:"organizationID,omitempty"`
}

// UpdateProposalRequest edits commercial terms. Nil fields are left unchanged.
type UpdateProposalRequest struct {
	Title              *string                    `json:"title,omitempty"`
	Description        *string                    `json:"description,omitempty"`
	Components         []ProposalComponentRequest `json:"components,omitempty" binding:"omitempty,min=1,dive"`
	Taxes              *decimal.Decimal           `json:"taxes,omitempty"`
	Fees               *decimal.Decimal           `json:"fees,omitempty"`
	Discount           *decimal.Decimal           `json:"discount,omitempty"`
	CurrencyCode       *string                    `json:"currencyCode,omitempty" binding:"omitempty,len=3"`
	ValidUntil         *time.Time                 `json:"validUntil,omitempty"`
	PaymentTerms       *string                    `json:"paymentTerms,omitempty"`
	CancellationPolicy *string                    `json:"cancellationPolicy,omitempty"`
	Inclusions         []string                   `json:"inclusions,omitempty"`
	Exclusions         []string                   `json:"exclusions,omitempty"`
}

// SendProposalRequest carries the optional email options for the send transition.
type SendProposalRequest struct {
	CustomMessage      string `json:"customMessage"`
	IncludeAttachments bool   `json:"includeAttachments"`
}

// ParticipantRequest is one traveler record supplied by the customer.
type ParticipantRequest struct {
	FullName       string    `json:"fullName" binding:"required"`
	BirthDate      time.Time `json:"birthDate" binding:"required"`
	DocumentNumber string    `json:"documentNumber" binding:"required"`
	Email          string    `json:"email" binding:"omitempty,email"`
	Phone          string    `json:"phone"`
}

// AcceptProposalRequest is the direct acceptance payload (with participant data).
type AcceptProposalRequest struct {
	Participants []ParticipantRequest `json:"participants" binding:"required,min=1,dive"`
	Feedback     string               `json:"feedback"`
}

// AcceptInitialRequest is the staged acceptance payload (no participant data yet).
type AcceptInitialRequest struct {
	Feedback string `json:"feedback"`
}

// RejectProposalRequest declines a proposal.
type RejectProposalRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RevisionRequest sends a proposal back into negotiation.
type RevisionRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// QuestionRequest records a customer question on a proposal.
type QuestionRequest struct {
	Question string `json:"question" binding:"required"`
}

// SubmitParticipantsRequest completes the staged acceptance path.
type SubmitParticipantsRequest struct {
	Participants []ParticipantRequest `json:"participants" binding:"required,min=1,dive"`
}

// FinalConfirmationRequest carries the explicit terms-acceptance flag.
type FinalConfirmationRequest struct {
	TermsAccepted bool `json:"termsAccepted"`
}

// FlightBookingRequest records the booking details for confirm-flight-booked.
type FlightBookingRequest struct {
	PNR        string `json:"pnr" binding:"required"`
	Airline    string `json:"airline"`
	FlightInfo string `json:"flightInfo"`
	Notes      string `json:"notes"`
}

// ContractDocumentRequest is one issued document reference.
type ContractDocumentRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required,url"`
	Kind string `json:"kind" binding:"required,oneof=contract voucher ticket insurance"`
}

// UploadDocumentsRequest appends issued contract documents.
type UploadDocumentsRequest struct {
	Documents []ContractDocumentRequest `json:"documents" binding:"required,min=1,dive"`
}

// AttachmentRequest appends a supporting file reference.
type AttachmentRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required,url"`
}

// DuplicateProposalRequest creates a fresh draft copy of a proposal.
type DuplicateProposalRequest struct {
	Title *string `json:"title,omitempty"`
	// PriceAdjustmentPercent scales every component price, e.g. -10 for a 10% discount.
	PriceAdjustmentPercent *decimal.Decimal `json:"priceAdjustmentPercent,omitempty"`
}

// ListProposalsParams holds the operator list query parameters.
type ListProposalsParams struct {
	Status    *string `form:"status"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ProposalResponse is the API representation of a proposal.
type ProposalResponse struct {
	ProposalID     string  `json:"proposalID"`
	ProposalNumber string  `json:"proposalNumber"`
	RequestID      string  `json:"requestID"`
	AdminID        string  `json:"adminID"`
	PartnerID      *string `json:"partnerID,omitempty"`
	OrganizationID *string `json:"organizationID,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	Components         []domain.ProposalComponent `json:"components"`
	Subtotal           decimal.Decimal            `json:"subtotal"`
	Taxes              decimal.Decimal            `json:"taxes"`
	Fees               decimal.Decimal            `json:"fees"`
	Discount           decimal.Decimal            `json:"discount"`
	TotalPrice         decimal.Decimal            `json:"totalPrice"`
	CurrencyCode       string                     `json:"currencyCode"`
	ValidUntil         *time.Time                 `json:"validUntil,omitempty"`
	PaymentTerms       string                     `json:"paymentTerms,omitempty"`
	CancellationPolicy string                     `json:"cancellationPolicy,omitempty"`
	Inclusions         []string                   `json:"inclusions,omitempty"`
	Exclusions         []string                   `json:"exclusions,omitempty"`

	Status            domain.ProposalStatus `json:"status"`
	RequiresApproval  bool                  `json:"requiresApproval"`
	ApprovalStatus    domain.ApprovalStatus `json:"approvalStatus,omitempty"`
	NegotiationRounds int                   `json:"negotiationRounds"`

	CustomerFeedback string `json:"customerFeedback,omitempty"`
	RejectionReason  string `json:"rejectionReason,omitempty"`
	RevisionNotes    string `json:"revisionNotes,omitempty"`

	Attachments       []domain.Attachment       `json:"attachments,omitempty"`
	ContractDocuments []domain.ContractDocument `json:"contractDocuments,omitempty"`
	Participants      []domain.Participant      `json:"participants,omitempty"`

	FlightBooking *domain.FlightBookingDetails `json:"flightBooking,omitempty"`

	SentAt                      *time.Time `json:"sentAt,omitempty"`
	ViewedAt                    *time.Time `json:"viewedAt,omitempty"`
	AcceptedAt                  *time.Time `json:"acceptedAt,omitempty"`
	RejectedAt                  *time.Time `json:"rejectedAt,omitempty"`
	ParticipantsDataSubmittedAt *time.Time `json:"participantsDataSubmittedAt,omitempty"`
	FlightBookedAt              *time.Time `json:"flightBookedAt,omitempty"`
	DocumentsUploadedAt         *time.Time `json:"documentsUploadedAt,omitempty"`
	TermsAcceptedAt             *time.Time `json:"termsAcceptedAt,omitempty"`
	FinalConfirmationAt         *time.Time `json:"finalConfirmationAt,omitempty"`

	FinalAmount *decimal.Decimal `json:"finalAmount,omitempty"`

	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

// TransitionResponse is the envelope returned by every transition operation.
type TransitionResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Proposal *ProposalResponse `json:"proposal,omitempty"`
}

// ListProposalsResponse is the paginated operator list payload.
type ListProposalsResponse struct {
	Proposals []ProposalResponse `json:"proposals"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToProposalResponse converts a domain.Proposal to its API representation.
func ToProposalResponse(p *domain.Proposal) ProposalResponse {
	return ProposalResponse{
		ProposalID:                  p.ProposalID,
		ProposalNumber:              p.ProposalNumber,
		RequestID:                   p.RequestID,
		AdminID:                     p.AdminID,
		PartnerID:                   p.PartnerID,
		OrganizationID:              p.OrganizationID,
		Title:                       p.Title,
		Description:                 p.Description,
		Components:                  p.Components,
		Subtotal:                    p.Subtotal,
		Taxes:                       p.Taxes,
		Fees:                        p.Fees,
		Discount:                    p.Discount,
		TotalPrice:                  p.TotalPrice,
		CurrencyCode:                p.CurrencyCode,
		ValidUntil:                  p.ValidUntil,
		PaymentTerms:                p.PaymentTerms,
		CancellationPolicy:          p.CancellationPolicy,
		Inclusions:                  p.Inclusions,
		Exclusions:                  p.Exclusions,
		Status:                      p.Status,
		RequiresApproval:            p.RequiresApproval,
		ApprovalStatus:              p.ApprovalStatus,
		NegotiationRounds:           p.NegotiationRounds,
		CustomerFeedback:            p.CustomerFeedback,
		RejectionReason:             p.RejectionReason,
		RevisionNotes:               p.RevisionNotes,
		Attachments:                 p.Attachments,
		ContractDocuments:           p.ContractDocuments,
		Participants:                p.Participants,
		FlightBooking:               p.FlightBooking,
		SentAt:                      p.SentAt,
		ViewedAt:                    p.ViewedAt,
		AcceptedAt:                  p.AcceptedAt,
		RejectedAt:                  p.RejectedAt,
		ParticipantsDataSubmittedAt: p.ParticipantsDataSubmittedAt,
		FlightBookedAt:              p.FlightBookedAt,
		DocumentsUploadedAt:         p.DocumentsUploadedAt,
		TermsAcceptedAt:             p.TermsAcceptedAt,
		FinalConfirmationAt:         p.FinalConfirmationAt,
		FinalAmount:                 p.FinalAmount,
		IsActive:                    p.IsActive,
		CreatedAt:                   p.CreatedAt,
		CreatedBy:                   p.CreatedBy,
	}
}

// ToProposalResponses converts a slice of proposals.
func ToProposalResponses(proposals []domain.Proposal) []ProposalResponse {
	responses := make([]ProposalResponse, len(proposals))
	for i := range proposals {
		responses[i] = ToProposalResponse(&proposals[i])
	}
	return responses
}

// ToDomainParticipants converts participant payloads into domain records.
func ToDomainParticipants(reqs []ParticipantRequest) []domain.Participant {
	participants := make([]domain.Participant, len(reqs))
	for i, r := range reqs {
		participants[i] = domain.Participant{
			FullName:       r.FullName,
			BirthDate:      r.BirthDate,
			DocumentNumber: r.DocumentNumber,
			Email:          r.Email,
			Phone:          r.Phone,
		}
	}
	return participants
}
