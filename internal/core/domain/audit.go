package domain

import "time"

// AuditSeverity classifies an audit entry.
type AuditSeverity string

const (
	AuditInfo     AuditSeverity = "info"
	AuditWarning  AuditSeverity = "warning"
	AuditCritical AuditSeverity = "critical"
)

// AuditEntry is an immutable append-only record of who did what to which
// resource. The lifecycle engine only ever writes these.
type AuditEntry struct {
	AuditID    string         `json:"auditID"` // Primary Key (UUID)
	Event      string         `json:"event"`   // e.g. "proposal.sent"
	Category   string         `json:"category"`
	Severity   AuditSeverity  `json:"severity"`
	ActorID    string         `json:"actorID"`
	Resource   string         `json:"resource"` // e.g. "proposal"
	ResourceID string         `json:"resourceID"`
	Metadata   map[string]any `json:"metadata,omitempty"` // snapshot: proposal number, amounts, counts
	Status     string         `json:"status"`             // success | failure
	CreatedAt  time.Time      `json:"createdAt"`
}
