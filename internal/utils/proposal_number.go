package utils

import (
	"crypto/rand"
	"fmt"
	"time"
)

const proposalNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateProposalNumber produces a globally unique human-readable proposal
// number of the form PROP-<unix-timestamp>-<RANDOM6>. Assigned once at
// creation and never reused; uniqueness is additionally enforced by the store.
func GenerateProposalNumber(now time.Time) (string, error) {
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to read random bytes for proposal number: %w", err)
	}
	for i, b := range suffix {
		suffix[i] = proposalNumberAlphabet[int(b)%len(proposalNumberAlphabet)]
	}
	return fmt.Sprintf("PROP-%d-%s", now.Unix(), string(suffix)), nil
}
