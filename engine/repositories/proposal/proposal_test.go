package proposal

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ajolabs/ajo-multisig/engine/apierror"
	"github.com/ajolabs/ajo-multisig/engine/modules/state"
	"github.com/ajolabs/ajo-multisig/engine/types"
)

func testProposal(id, groupID string, createdAt time.Time) *types.Proposal {
	payload := []byte("payload_" + id)
	return &types.Proposal{
		ID:           id,
		GroupID:      groupID,
		ProposerAddr: "proposer_addr",
		Operation:    types.OperationPayout,
		Payload:      payload,
		PayloadHash:  types.PayloadHashString(payload),
		RequiredSigs: 2,
		Status:       types.ProposalPending,
		CreatedAt:    createdAt,
		ExpiresAt:    createdAt.Add(time.Hour),
	}
}

func TestSaveProposal(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/ajo_msig_test_SaveProposal"
	)
	defer os.RemoveAll(dbPath)

	stg, err := state.NewLevelDBState(dbPath)
	req.NoError(err)
	defer stg.Close()

	repo := NewProposalRepo(stg)

	proposal := testProposal("proposal_1", "group_1", time.Now())
	err = repo.SaveProposal(proposal)
	req.NoError(err)

	loaded, err := repo.GetProposalByID(proposal.ID)
	req.NoError(err)
	req.Equal(proposal.ID, loaded.ID)
	req.Equal(proposal.GroupID, loaded.GroupID)
	req.Equal(proposal.PayloadHash, loaded.PayloadHash)
	req.Equal(types.ProposalPending, loaded.Status)

	// A second save of the same id must be rejected.
	err = repo.SaveProposal(proposal)
	req.Error(err)
}

func TestUpdateProposal(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/ajo_msig_test_UpdateProposal"
	)
	defer os.RemoveAll(dbPath)

	stg, err := state.NewLevelDBState(dbPath)
	req.NoError(err)
	defer stg.Close()

	repo := NewProposalRepo(stg)

	proposal := testProposal("proposal_1", "group_1", time.Now())
	req.NoError(repo.SaveProposal(proposal))

	proposal.Signatures = append(proposal.Signatures, types.ProposalSignature{
		ProposalID: proposal.ID,
		SignerAddr: "signer_addr",
		Signature:  []byte("signature"),
		SignedAt:   time.Now(),
	})
	proposal.CurrentSigs = 1
	req.NoError(repo.UpdateProposal(proposal))

	loaded, err := repo.GetProposalByID(proposal.ID)
	req.NoError(err)
	req.Equal(1, loaded.CurrentSigs)
	req.Len(loaded.Signatures, 1)
	req.Equal("signer_addr", loaded.Signatures[0].SignerAddr)
}

func TestUpdateProposal_NotFound(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/ajo_msig_test_UpdateProposalNotFound"
	)
	defer os.RemoveAll(dbPath)

	stg, err := state.NewLevelDBState(dbPath)
	req.NoError(err)
	defer stg.Close()

	repo := NewProposalRepo(stg)

	err = repo.UpdateProposal(testProposal("missing", "group_1", time.Now()))
	req.Error(err)
	req.Equal(apierror.CodeProposalNotFound, apierror.CodeOf(err))
}

func TestGetProposalsByGroup(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/ajo_msig_test_GetProposalsByGroup"
	)
	defer os.RemoveAll(dbPath)

	stg, err := state.NewLevelDBState(dbPath)
	req.NoError(err)
	defer stg.Close()

	repo := NewProposalRepo(stg)

	base := time.Now()
	req.NoError(repo.SaveProposal(testProposal("proposal_old", "group_1", base.Add(-time.Hour))))
	req.NoError(repo.SaveProposal(testProposal("proposal_new", "group_1", base)))
	req.NoError(repo.SaveProposal(testProposal("proposal_other", "group_2", base)))

	proposals, err := repo.GetProposalsByGroup("group_1")
	req.NoError(err)
	req.Len(proposals, 2)

	// Newest first.
	req.Equal("proposal_new", proposals[0].ID)
	req.Equal("proposal_old", proposals[1].ID)
}

func TestGetAllProposals(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/ajo_msig_test_GetAllProposals"
	)
	defer os.RemoveAll(dbPath)

	stg, err := state.NewLevelDBState(dbPath)
	req.NoError(err)
	defer stg.Close()

	repo := NewProposalRepo(stg)

	req.NoError(repo.SaveProposal(testProposal("proposal_1", "group_1", time.Now())))
	req.NoError(repo.SaveProposal(testProposal("proposal_2", "group_2", time.Now())))

	proposals, err := repo.GetAllProposals()
	req.NoError(err)
	req.Len(proposals, 2)
}
