package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProposalStatus is the lifecycle status of a proposal.
type ProposalStatus string

const (
	StatusDraft                     ProposalStatus = "draft"
	StatusReview                    ProposalStatus = "review"
	StatusSent                      ProposalStatus = "sent"
	StatusViewed                    ProposalStatus = "viewed"
	StatusUnderNegotiation          ProposalStatus = "under_negotiation"
	StatusAccepted                  ProposalStatus = "accepted"
	StatusAwaitingParticipantsData  ProposalStatus = "awaiting_participants_data"
	StatusParticipantsDataCompleted ProposalStatus = "participants_data_completed"
	StatusFlightBookingInProgress   ProposalStatus = "flight_booking_in_progress"
	StatusFlightBooked              ProposalStatus = "flight_booked"
	StatusDocumentsUploaded         ProposalStatus = "documents_uploaded"
	StatusAwaitingFinalConfirmation ProposalStatus = "awaiting_final_confirmation"
	StatusPaymentPending            ProposalStatus = "payment_pending"
	StatusRejected                  ProposalStatus = "rejected"
	StatusExpired                   ProposalStatus = "expired"
	StatusWithdrawn                 ProposalStatus = "withdrawn"
)

// ApprovalStatus is the internal-approval sub-state gating the send transition.
type ApprovalStatus string

const (
	ApprovalNone     ApprovalStatus = ""
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Transition names every guarded status change a proposal supports.
type Transition string

const (
	TransitionUpdate                  Transition = "update"
	TransitionSubmitForReview         Transition = "submit_for_review"
	TransitionSend                    Transition = "send"
	TransitionMarkViewed              Transition = "mark_viewed"
	TransitionAccept                  Transition = "accept"
	TransitionAcceptInitial           Transition = "accept_initial"
	TransitionReject                  Transition = "reject"
	TransitionRequestRevision         Transition = "request_revision"
	TransitionAskQuestion             Transition = "ask_question"
	TransitionSubmitParticipantsData  Transition = "submit_participants_data"
	TransitionStartFlightBooking      Transition = "start_flight_booking"
	TransitionConfirmFlightBooked     Transition = "confirm_flight_booked"
	TransitionUploadContractDocuments Transition = "upload_contract_documents"
	TransitionGiveFinalConfirmation   Transition = "give_final_confirmation"
	TransitionMarkExpired             Transition = "mark_expired"
	TransitionWithdraw                Transition = "withdraw"
)

// customerResponseStatuses are the statuses a customer can respond from.
var customerResponseStatuses = []ProposalStatus{StatusSent, StatusViewed, StatusUnderNegotiation}

// editableStatuses are the statuses in which commercial terms may still be changed.
var editableStatuses = []ProposalStatus{StatusDraft, StatusReview, StatusUnderNegotiation, StatusRejected}

// transitionSources declares, per transition, the exact set of statuses it is
// legal from. A transition attempted from any other status must fail without
// touching the record.
var transitionSources = map[Transition][]ProposalStatus{
	TransitionUpdate:                  editableStatuses,
	TransitionSubmitForReview:         {StatusDraft},
	TransitionSend:                    {StatusDraft, StatusReview, StatusUnderNegotiation, StatusRejected},
	TransitionMarkViewed:              {StatusSent},
	TransitionAccept:                  customerResponseStatuses,
	TransitionAcceptInitial:           customerResponseStatuses,
	TransitionReject:                  customerResponseStatuses,
	TransitionRequestRevision:         customerResponseStatuses,
	TransitionAskQuestion:             customerResponseStatuses,
	TransitionSubmitParticipantsData:  {StatusAwaitingParticipantsData},
	TransitionStartFlightBooking:      {StatusParticipantsDataCompleted},
	TransitionConfirmFlightBooked:     {StatusFlightBookingInProgress},
	TransitionUploadContractDocuments: {StatusFlightBooked},
	TransitionGiveFinalConfirmation:   {StatusDocumentsUploaded, StatusAwaitingFinalConfirmation},
	TransitionMarkExpired:             customerResponseStatuses,
	TransitionWithdraw:                customerResponseStatuses,
}

// AllowedSources returns the statuses from which the given transition is legal.
func AllowedSources(t Transition) []ProposalStatus {
	return transitionSources[t]
}

// CanTransition reports whether the transition is legal from the given status.
func CanTransition(from ProposalStatus, t Transition) bool {
	for _, s := range transitionSources[t] {
		if s == from {
			return true
		}
	}
	return false
}

// IsEditable reports whether commercial terms may still be changed in this status.
func IsEditable(status ProposalStatus) bool {
	for _, s := range editableStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the negotiation branch of the lifecycle.
func IsTerminal(status ProposalStatus) bool {
	return status == StatusExpired || status == StatusWithdrawn
}

// HasBeenAccepted reports whether the status is at or past acceptance. Accepted
// proposals are never deleted.
func HasBeenAccepted(status ProposalStatus) bool {
	switch status {
	case StatusAccepted, StatusAwaitingParticipantsData, StatusParticipantsDataCompleted,
		StatusFlightBookingInProgress, StatusFlightBooked, StatusDocumentsUploaded,
		StatusAwaitingFinalConfirmation, StatusPaymentPending:
		return true
	}
	return false
}

// ProposalComponent is one itemized line of a proposal's commercial terms.
type ProposalComponent struct {
	Name       string          `json:"name"`
	Type       string          `json:"type"` // e.g. flight, hotel, transfer, activity
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Included   bool            `json:"included"`
	Optional   bool            `json:"optional"`
}

// Participant is one traveler record submitted by the customer after acceptance.
// Immutable once submitted.
type Participant struct {
	FullName       string    `json:"fullName"`
	BirthDate      time.Time `json:"birthDate"`
	DocumentNumber string    `json:"documentNumber"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
}

// Attachment is a stored reference to a supporting file. Append-only.
type Attachment struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ContractDocument is a reference to an issued contract/travel document. Append-only.
type ContractDocument struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Kind       string    `json:"kind"` // contract, voucher, ticket, insurance
	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// FlightBookingDetails holds the known keys of the flight-booking metadata
// recorded by the fulfillment sub-flow. Validated at the boundary.
type FlightBookingDetails struct {
	PNR        string `json:"pnr"`
	Airline    string `json:"airline,omitempty"`
	FlightInfo string `json:"flightInfo,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Proposal is the central entity: a priced, itemized offer sent by an operator
// to a customer in response to a package request.
type Proposal struct {
	ProposalID     string  `json:"proposalID"`     // Primary Key (UUID)
	ProposalNumber string  `json:"proposalNumber"` // PROP-<timestamp>-<random6>, assigned once
	RequestID      string  `json:"requestID"`      // Parent package request
	AdminID        string  `json:"adminID"`        // Creating operator
	PartnerID      *string `json:"partnerID,omitempty"`
	OrganizationID *string `json:"organizationID,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// Commercial terms. Editable only while status is draft/review/under_negotiation/rejected.
	Components         []ProposalComponent `json:"components"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	Taxes              decimal.Decimal     `json:"taxes"`
	Fees               decimal.Decimal     `json:"fees"`
	Discount           decimal.Decimal     `json:"discount"`
	TotalPrice         decimal.Decimal     `json:"totalPrice"`
	CurrencyCode       string              `json:"currencyCode"`
	ValidUntil         *time.Time          `json:"validUntil,omitempty"`
	PaymentTerms       string              `json:"paymentTerms"`
	CancellationPolicy string              `json:"cancellationPolicy"`
	Inclusions         []string            `json:"inclusions"`
	Exclusions         []string            `json:"exclusions"`

	Status            ProposalStatus `json:"status"`
	RequiresApproval  bool           `json:"requiresApproval"`
	ApprovalStatus    ApprovalStatus `json:"approvalStatus,omitempty"`
	NegotiationRounds int            `json:"negotiationRounds"`

	// Response-text fields, patchable after send.
	CustomerFeedback string `json:"customerFeedback,omitempty"`
	RejectionReason  string `json:"rejectionReason,omitempty"`
	RevisionNotes    string `json:"revisionNotes,omitempty"`

	Attachments       []Attachment       `json:"attachments"`
	ContractDocuments []ContractDocument `json:"contractDocuments"`
	Participants      []Participant      `json:"participants"`

	FlightBooking *FlightBookingDetails `json:"flightBooking,omitempty"`

	// Lifecycle timestamps; each set at most once.
	SentAt                      *time.Time `json:"sentAt,omitempty"`
	ViewedAt                    *time.Time `json:"viewedAt,omitempty"`
	AcceptedAt                  *time.Time `json:"acceptedAt,omitempty"`
	RejectedAt                  *time.Time `json:"rejectedAt,omitempty"`
	ParticipantsDataSubmittedAt *time.Time `json:"participantsDataSubmittedAt,omitempty"`
	FlightBookedAt              *time.Time `json:"flightBookedAt,omitempty"`
	DocumentsUploadedAt         *time.Time `json:"documentsUploadedAt,omitempty"`
	TermsAcceptedAt             *time.Time `json:"termsAcceptedAt,omitempty"`
	FinalConfirmationAt         *time.Time `json:"finalConfirmationAt,omitempty"`

	// FinalAmount is frozen from TotalPrice by the final confirmation.
	FinalAmount *decimal.Decimal `json:"finalAmount,omitempty"`

	IsActive  bool       `json:"isActive"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	DeletedBy *string    `json:"deletedBy,omitempty"`

	AuditFields
}
