package dispatcher

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ajolabs/ajo-multisig/engine/types"
)

func testSignatures() []types.ProposalSignature {
	return []types.ProposalSignature{
		{ProposalID: "proposal_1", SignerAddr: "addr_1", Signature: []byte("sig_1"), SignedAt: time.Now()},
		{ProposalID: "proposal_1", SignerAddr: "addr_2", Signature: []byte("sig_2"), SignedAt: time.Now()},
	}
}

func TestHTTPLedgerDispatcher_Dispatch(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request submitRequest
		req.NoError(json.NewDecoder(r.Body).Decode(&request))

		// The proposal id travels with the submission so the ledger client
		// can deduplicate retries.
		req.Equal("proposal_1", request.ProposalID)
		req.Equal([]byte("payload"), request.Payload)
		req.Len(request.Signatures, 2)
		req.Equal("addr_1", request.Signatures[0].SignerAddr)

		json.NewEncoder(w).Encode(&submitResponse{
			Result: &submitResult{Reference: "ledger_ref_42"},
		})
	}))
	defer server.Close()

	d := NewHTTPLedgerDispatcher(server.URL, time.Second)
	reference, err := d.Dispatch("proposal_1", []byte("payload"), testSignatures())
	req.NoError(err)
	req.Equal("ledger_ref_42", reference)
}

func TestHTTPLedgerDispatcher_RejectedSubmission(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(&submitResponse{
			ErrorMessage: "transaction malformed",
		})
	}))
	defer server.Close()

	d := NewHTTPLedgerDispatcher(server.URL, time.Second)
	_, err := d.Dispatch("proposal_1", []byte("payload"), testSignatures())
	req.Error(err)
	req.Contains(err.Error(), "transaction malformed")
}

func TestHTTPLedgerDispatcher_MissingReference(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&submitResponse{})
	}))
	defer server.Close()

	d := NewHTTPLedgerDispatcher(server.URL, time.Second)
	_, err := d.Dispatch("proposal_1", []byte("payload"), testSignatures())
	req.Error(err)
}

func TestHTTPLedgerDispatcher_Unreachable(t *testing.T) {
	req := require.New(t)

	d := NewHTTPLedgerDispatcher("http://127.0.0.1:1/submitTransaction", 100*time.Millisecond)
	_, err := d.Dispatch("proposal_1", []byte("payload"), testSignatures())
	req.Error(err)
}
