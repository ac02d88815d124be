package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ProposalStatus is the lifecycle state of a TransactionProposal.
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "PENDING"
	ProposalApproved ProposalStatus = "APPROVED"
	ProposalExecuted ProposalStatus = "EXECUTED"
	ProposalExpired  ProposalStatus = "EXPIRED"
	// ProposalRejected is reserved for an explicit veto flow; no API route
	// emits it yet.
	ProposalRejected ProposalStatus = "REJECTED"
)

func (s ProposalStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible from s.
func (s ProposalStatus) IsTerminal() bool {
	switch s {
	case ProposalExecuted, ProposalExpired, ProposalRejected:
		return true
	}
	return false
}

// OperationType enumerates the sensitive group operations a proposal may carry.
type OperationType string

const (
	OperationPayout         OperationType = "payout"
	OperationCancelGroup    OperationType = "cancel_group"
	OperationRemoveMember   OperationType = "remove_member"
	OperationChangeSettings OperationType = "change_settings"
	OperationAddSigner      OperationType = "add_signer"
	OperationRemoveSigner   OperationType = "remove_signer"
)

func (t OperationType) String() string {
	return string(t)
}

func (t OperationType) IsValid() bool {
	switch t {
	case OperationPayout, OperationCancelGroup, OperationRemoveMember,
		OperationChangeSettings, OperationAddSigner, OperationRemoveSigner:
		return true
	}
	return false
}

// Signer is one authorized identity within a group's signer set. The address
// is the hex-encoded ed25519 public key. Deactivated signers are kept so that
// historical signatures stay attributable.
type Signer struct {
	Addr    string    `json:"addr"`
	Weight  int       `json:"weight"`
	Active  bool      `json:"active"`
	AddedAt time.Time `json:"added_at"`
}

// MultiSigConfig is the per-group signing configuration. Threshold and the
// signer set are immutable after creation; signer-set changes are proposed as
// add_signer/remove_signer operations executed by the platform.
type MultiSigConfig struct {
	GroupID      string    `json:"group_id"`
	Threshold    int       `json:"threshold"`
	TotalSigners int       `json:"total_signers"`
	Signers      []Signer  `json:"signers"`
	CreatedAt    time.Time `json:"created_at"`
}

// ActiveSigner resolves addr against the active signer set.
func (c *MultiSigConfig) ActiveSigner(addr string) (*Signer, bool) {
	for i := range c.Signers {
		if c.Signers[i].Addr == addr && c.Signers[i].Active {
			return &c.Signers[i], true
		}
	}
	return nil, false
}

// ActiveWeight is the sum of weights over active signers.
func (c *MultiSigConfig) ActiveWeight() int {
	var total int
	for _, signer := range c.Signers {
		if signer.Active {
			total += signer.Weight
		}
	}
	return total
}

// ProposalSignature is one accepted signature row. Rows are append-only and
// unique per (proposal, signer).
type ProposalSignature struct {
	ProposalID string    `json:"proposal_id"`
	SignerAddr string    `json:"signer_addr"`
	Signature  []byte    `json:"signature"`
	SignedAt   time.Time `json:"signed_at"`
}

// Proposal is one proposed group operation awaiting signatures. The payload
// is an opaque ledger transaction blob; the engine hashes it for signing and
// passes it through unmodified.
type Proposal struct {
	ID           string            `json:"id"` // UUID4
	GroupID      string            `json:"group_id"`
	ProposerAddr string            `json:"proposer_addr"`
	Operation    OperationType     `json:"operation"`
	Payload      []byte            `json:"payload"`
	PayloadHash  string            `json:"payload_hash"`
	Metadata     map[string]string `json:"metadata,omitempty"`

	// RequiredSigs is the group threshold snapshotted at creation time and
	// is immune to later config changes.
	RequiredSigs int                 `json:"required_sigs"`
	CurrentSigs  int                 `json:"current_sigs"`
	Status       ProposalStatus      `json:"status"`
	Signatures   []ProposalSignature `json:"signatures"`

	CreatedAt         time.Time  `json:"created_at"`
	ExpiresAt         time.Time  `json:"expires_at"`
	ExecutedAt        *time.Time `json:"executed_at,omitempty"`
	ExecutedReference string     `json:"executed_reference,omitempty"`
}

// IsExpired reports whether the proposal deadline has passed at the given
// moment. Expiry is evaluated on every touch, not only by the sweeper.
func (p *Proposal) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// HasSigned reports whether addr already contributed an accepted signature.
func (p *Proposal) HasSigned(addr string) bool {
	for _, sig := range p.Signatures {
		if sig.SignerAddr == addr {
			return true
		}
	}
	return false
}

// PayloadDigest returns the canonical digest signers produce signatures over.
func PayloadDigest(payload []byte) []byte {
	digest := sha256.Sum256(payload)
	return digest[:]
}

// PayloadHashString is the hex form of PayloadDigest kept on the proposal row.
func PayloadHashString(payload []byte) string {
	return hex.EncodeToString(PayloadDigest(payload))
}
