package dto

// This package contains DTO (Data Transfer Object) structures
// for providing validated and sanitized values to the service layer.

type SignerEntryDTO struct {
	Addr   string
	Weight int
}

type CreateConfigDTO struct {
	GroupID   string
	Threshold int
	Signers   []SignerEntryDTO
}

type GroupIdDTO struct {
	GroupID string
}

type CreateProposalDTO struct {
	GroupID          string
	ProposerAddr     string
	Operation        string
	Payload          []byte
	Metadata         map[string]string
	ExpiresInSeconds int64
}

type SignProposalDTO struct {
	ProposalID string
	SignerAddr string
	Signature  []byte
}

type ProposalIdDTO struct {
	ProposalID string
}

type GroupProposalsDTO struct {
	GroupID string
	Status  string
	Page    int
	Limit   int
}
