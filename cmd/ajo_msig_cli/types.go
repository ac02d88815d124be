package main

import (
	"encoding/json"

	"github.com/ajolabs/ajo-multisig/engine/types"
)

type Response struct {
	ErrorCode    string          `json:"error_code,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Result       json.RawMessage `json:"result"`
}

type ConfigResponse struct {
	ErrorMessage string                `json:"error_message,omitempty"`
	Result       *types.MultiSigConfig `json:"result"`
}

type ProposalResponse struct {
	ErrorMessage string          `json:"error_message,omitempty"`
	Result       *types.Proposal `json:"result"`
}

type ProposalsResponse struct {
	ErrorMessage string            `json:"error_message,omitempty"`
	Result       []*types.Proposal `json:"result"`
}
