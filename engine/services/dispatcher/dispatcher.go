package dispatcher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ajolabs/ajo-multisig/engine/types"
)

// Dispatcher assembles an approved proposal's payload with its accumulated
// signatures and forwards them to the ledger-submission collaborator. A
// dispatch error must leave the proposal un-executed so the caller can retry;
// the collaborator deduplicates by proposal id (the id is part of the
// submission body for exactly that reason).
type Dispatcher interface {
	Dispatch(proposalID string, payload []byte, signatures []types.ProposalSignature) (string, error)
}

type submitSignatureEntry struct {
	SignerAddr string `json:"signer_addr"`
	Signature  []byte `json:"signature"`
}

type submitRequest struct {
	ProposalID string                 `json:"proposal_id"`
	Payload    []byte                 `json:"payload"`
	Signatures []submitSignatureEntry `json:"signatures"`
}

type submitResponse struct {
	Result       *submitResult `json:"result"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

type submitResult struct {
	Reference string `json:"reference"`
}

// HTTPLedgerDispatcher submits transactions over the ledger client's REST
// endpoint.
type HTTPLedgerDispatcher struct {
	submitURL string
	client    *http.Client
}

func NewHTTPLedgerDispatcher(submitURL string, timeout time.Duration) *HTTPLedgerDispatcher {
	return &HTTPLedgerDispatcher{
		submitURL: submitURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (d *HTTPLedgerDispatcher) Dispatch(proposalID string, payload []byte, signatures []types.ProposalSignature) (string, error) {
	entries := make([]submitSignatureEntry, len(signatures))
	for i, sig := range signatures {
		entries[i] = submitSignatureEntry{
			SignerAddr: sig.SignerAddr,
			Signature:  sig.Signature,
		}
	}

	requestBz, err := json.Marshal(&submitRequest{
		ProposalID: proposalID,
		Payload:    payload,
		Signatures: entries,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal submit request: %w", err)
	}

	resp, err := d.client.Post(d.submitURL, "application/json", bytes.NewReader(requestBz))
	if err != nil {
		return "", fmt.Errorf("failed to post transaction to ledger client: %w", err)
	}
	defer resp.Body.Close()

	var response submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode ledger client response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ledger client rejected submission (status %d): %s",
			resp.StatusCode, response.ErrorMessage)
	}

	if response.Result == nil || response.Result.Reference == "" {
		return "", fmt.Errorf("ledger client returned no submission reference")
	}

	return response.Result.Reference, nil
}
