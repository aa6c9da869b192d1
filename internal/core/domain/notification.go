package domain

import "time"

// NotificationType names the in-app notification kinds produced by the
// side-effect dispatcher.
type NotificationType string

const (
	NotifyProposalSent      NotificationType = "proposal_sent"
	NotifyProposalAccepted  NotificationType = "proposal_accepted"
	NotifyProposalRejected  NotificationType = "proposal_rejected"
	NotifyRevisionRequested NotificationType = "revision_requested"
	NotifyQuestionAsked     NotificationType = "question_asked"
	NotifyParticipantsData  NotificationType = "participants_submitted"
	NotifyFlightBooked      NotificationType = "flight_booked"
	NotifyDocumentsReady    NotificationType = "documents_ready"
	NotifyFinalConfirmation NotificationType = "final_confirmation"
)

// Notification is a best-effort in-app message for a counter-party.
type Notification struct {
	NotificationID string           `json:"notificationID"` // Primary Key (UUID)
	UserID         string           `json:"userID"`         // Recipient
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	RelatedID      string           `json:"relatedID"`   // e.g. proposal id
	RelatedType    string           `json:"relatedType"` // e.g. "proposal"
	Data           map[string]any   `json:"data,omitempty"`
	IsRead         bool             `json:"isRead"`
	CreatedAt      time.Time        `json:"createdAt"`
}
