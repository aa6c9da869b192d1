package domain

import "time"

// EmailJobStatus is the delivery state of an outbox email job.
type EmailJobStatus string

const (
	EmailQueued EmailJobStatus = "queued"
	EmailSent   EmailJobStatus = "sent"
	EmailFailed EmailJobStatus = "failed"
)

// EmailJob is one queued outbound proposal email. Jobs are written after a
// transition commits; actual transport is an external collaborator invoked by
// the outbox worker.
type EmailJob struct {
	EmailID            string         `json:"emailID"` // Primary Key (UUID)
	ProposalID         string         `json:"proposalID"`
	Recipient          string         `json:"recipient"`
	Subject            string         `json:"subject"`
	CustomMessage      string         `json:"customMessage,omitempty"`
	IncludeAttachments bool           `json:"includeAttachments"`
	Status             EmailJobStatus `json:"status"`
	Attempts           int            `json:"attempts"`
	LastError          string         `json:"lastError,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
	SentAt             *time.Time     `json:"sentAt,omitempty"`
}
