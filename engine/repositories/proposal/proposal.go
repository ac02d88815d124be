package proposal

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/ajolabs/ajo-multisig/engine/apierror"
	"github.com/ajolabs/ajo-multisig/engine/modules/state"
	"github.com/ajolabs/ajo-multisig/engine/types"
)

const (
	proposalsNamespace  = "proposals"
	groupIndexNamespace = "group_proposals"
)

// ProposalRepo persists TransactionProposal records with their embedded
// signature rows. Each proposal lives under its own storage key so that
// mutations of distinct proposals never touch a shared record; callers
// serialize per-proposal writes (the proposal service holds a named lock for
// the proposal id around every read-modify-write).
type ProposalRepo interface {
	SaveProposal(proposal *types.Proposal) error
	UpdateProposal(proposal *types.Proposal) error
	GetProposalByID(proposalID string) (*types.Proposal, error)
	GetProposalsByGroup(groupID string) ([]*types.Proposal, error)
	GetAllProposals() ([]*types.Proposal, error)
}

type BaseProposalRepo struct {
	indexMu sync.Mutex
	state   state.State
}

func NewProposalRepo(s state.State) *BaseProposalRepo {
	return &BaseProposalRepo{
		state: s,
	}
}

func proposalKey(proposalID string) string {
	return state.MakeCompositeKey(proposalsNamespace, proposalID)
}

func groupIndexKey(groupID string) string {
	return state.MakeCompositeKey(groupIndexNamespace, groupID)
}

// SaveProposal stores a new proposal and appends it to its group index.
func (r *BaseProposalRepo) SaveProposal(proposal *types.Proposal) error {
	existing, err := r.state.Get(proposalKey(proposal.ID))
	if err != nil {
		return fmt.Errorf("failed to check existing proposal: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("proposal %s already exists", proposal.ID)
	}

	if err := r.putProposal(proposal); err != nil {
		return err
	}

	return r.appendToGroupIndex(proposal.GroupID, proposal.ID)
}

// UpdateProposal rewrites an existing proposal record.
func (r *BaseProposalRepo) UpdateProposal(proposal *types.Proposal) error {
	existing, err := r.state.Get(proposalKey(proposal.ID))
	if err != nil {
		return fmt.Errorf("failed to check existing proposal: %w", err)
	}
	if existing == nil {
		return apierror.Newf(apierror.KindNotFound, apierror.CodeProposalNotFound,
			"no proposal found with id %s", proposal.ID)
	}

	return r.putProposal(proposal)
}

func (r *BaseProposalRepo) GetProposalByID(proposalID string) (*types.Proposal, error) {
	bz, err := r.state.Get(proposalKey(proposalID))
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	if bz == nil {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeProposalNotFound,
			"no proposal found with id %s", proposalID)
	}

	var proposal types.Proposal
	if err := json.Unmarshal(bz, &proposal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal proposal: %w", err)
	}

	return &proposal, nil
}

// GetProposalsByGroup returns the group's proposals, newest first.
func (r *BaseProposalRepo) GetProposalsByGroup(groupID string) ([]*types.Proposal, error) {
	ids, err := r.getGroupIndex(groupID)
	if err != nil {
		return nil, err
	}

	proposals := make([]*types.Proposal, 0, len(ids))
	for _, id := range ids {
		proposal, err := r.GetProposalByID(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load proposal %s from group index: %w", id, err)
		}
		proposals = append(proposals, proposal)
	}

	sort.Slice(proposals, func(i, j int) bool {
		return proposals[i].CreatedAt.After(proposals[j].CreatedAt)
	})

	return proposals, nil
}

// GetAllProposals scans the proposal namespace; the sweeper uses this to find
// pending proposals past their deadline.
func (r *BaseProposalRepo) GetAllProposals() ([]*types.Proposal, error) {
	keys, err := r.state.KeysWithPrefix(proposalsNamespace + "_")
	if err != nil {
		return nil, fmt.Errorf("failed to scan proposals: %w", err)
	}

	proposals := make([]*types.Proposal, 0, len(keys))
	for _, key := range keys {
		bz, err := r.state.Get(key)
		if err != nil {
			return nil, fmt.Errorf("failed to get proposal by key %s: %w", key, err)
		}
		if bz == nil {
			continue
		}

		var proposal types.Proposal
		if err := json.Unmarshal(bz, &proposal); err != nil {
			return nil, fmt.Errorf("failed to unmarshal proposal by key %s: %w", key, err)
		}
		proposals = append(proposals, &proposal)
	}

	return proposals, nil
}

func (r *BaseProposalRepo) putProposal(proposal *types.Proposal) error {
	proposalJSON, err := json.Marshal(proposal)
	if err != nil {
		return fmt.Errorf("failed to marshal proposal: %w", err)
	}

	if err := r.state.Set(proposalKey(proposal.ID), proposalJSON); err != nil {
		return fmt.Errorf("failed to put proposal: %w", err)
	}

	return nil
}

func (r *BaseProposalRepo) getGroupIndex(groupID string) ([]string, error) {
	bz, err := r.state.Get(groupIndexKey(groupID))
	if err != nil {
		return nil, fmt.Errorf("failed to get group index: %w", err)
	}

	if bz == nil {
		return nil, nil
	}

	var ids []string
	if err := json.Unmarshal(bz, &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group index: %w", err)
	}

	return ids, nil
}

func (r *BaseProposalRepo) appendToGroupIndex(groupID, proposalID string) error {
	r.indexMu.Lock()
	defer r.indexMu.Unlock()

	ids, err := r.getGroupIndex(groupID)
	if err != nil {
		return err
	}

	ids = append(ids, proposalID)

	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal group index: %w", err)
	}

	if err := r.state.Set(groupIndexKey(groupID), idsJSON); err != nil {
		return fmt.Errorf("failed to put group index: %w", err)
	}

	return nil
}
