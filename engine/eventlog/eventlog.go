package eventlog

import (
	"encoding/json"
	"time"
)

// EventKind enumerates proposal lifecycle events the platform backend
// consumes for notifications and bookkeeping.
type EventKind string

const (
	EventProposalCreated  EventKind = "proposal_created"
	EventProposalSigned   EventKind = "proposal_signed"
	EventProposalApproved EventKind = "proposal_approved"
	EventProposalExecuted EventKind = "proposal_executed"
	EventProposalExpired  EventKind = "proposal_expired"
)

// Event is one durable lifecycle record. Data carries kind-specific fields
// (signer address, executed reference, expired count) as a raw document.
type Event struct {
	ID         string          `json:"id"`
	Kind       EventKind       `json:"kind"`
	GroupID    string          `json:"group_id"`
	ProposalID string          `json:"proposal_id"`
	Data       json.RawMessage `json:"data,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// EventLog publishes proposal lifecycle events. Publishing is best-effort
// relative to the proposal state transition: the proposal row is the source
// of truth and a failed publish never rolls a transition back.
type EventLog interface {
	Publish(events ...Event) error
	Close() error
}
