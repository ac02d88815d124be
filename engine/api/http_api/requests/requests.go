package requests

// Request forms bound from HTTP bodies/query strings and validated before
// DTO conversion. Length bounds mirror the platform's group limits.

type SignerEntryForm struct {
	Addr   string `json:"addr" validate:"attr=addr,min=3,max=150"`
	Weight int    `json:"weight"`
}

type CreateConfigForm struct {
	GroupID   string            `json:"group_id" validate:"attr=group_id,min=3,max=100"`
	Threshold int               `json:"threshold"`
	Signers   []SignerEntryForm `json:"signers"`
}

type GroupIdForm struct {
	GroupID string `query:"groupID" json:"groupID" validate:"attr=groupID,min=3,max=100"`
}

type CreateProposalForm struct {
	GroupID          string            `json:"group_id" validate:"attr=group_id,min=3,max=100"`
	ProposerAddr     string            `json:"proposer_addr" validate:"attr=proposer_addr,min=3,max=150"`
	Operation        string            `json:"operation" validate:"attr=operation,min=3"`
	Payload          []byte            `json:"payload"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	ExpiresInSeconds int64             `json:"expires_in_seconds"`
}

type SignProposalForm struct {
	ProposalID string `json:"proposal_id" validate:"attr=proposal_id,min=3"`
	SignerAddr string `json:"signer_addr" validate:"attr=signer_addr,min=3,max=150"`
	Signature  []byte `json:"signature"`
}

type ProposalIdForm struct {
	ProposalID string `query:"proposalID" json:"proposalID" validate:"attr=proposalID,min=3"`
}

type GroupProposalsForm struct {
	GroupID string `query:"groupID" json:"groupID" validate:"attr=groupID,min=3,max=100"`
	Status  string `query:"status" json:"status"`
	Page    int    `query:"page" json:"page"`
	Limit   int    `query:"limit" json:"limit"`
}
