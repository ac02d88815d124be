package fsm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajolabs/ajo-multisig/engine/fsm"
	"github.com/ajolabs/ajo-multisig/engine/types"
)

func TestProposalMachine_HappyPath(t *testing.T) {
	req := require.New(t)

	next, err := fsm.ProposalMachine.Next(types.ProposalPending, fsm.EventApprove)
	req.NoError(err)
	req.Equal(types.ProposalApproved, next)

	next, err = fsm.ProposalMachine.Next(next, fsm.EventExecute)
	req.NoError(err)
	req.Equal(types.ProposalExecuted, next)
}

func TestProposalMachine_Expiry(t *testing.T) {
	req := require.New(t)

	next, err := fsm.ProposalMachine.Next(types.ProposalPending, fsm.EventExpire)
	req.NoError(err)
	req.Equal(types.ProposalExpired, next)

	next, err = fsm.ProposalMachine.Next(types.ProposalApproved, fsm.EventExpire)
	req.NoError(err)
	req.Equal(types.ProposalExpired, next)
}

func TestProposalMachine_IllegalTransitions(t *testing.T) {
	req := require.New(t)

	// Execution straight from PENDING is never legal.
	_, err := fsm.ProposalMachine.Next(types.ProposalPending, fsm.EventExecute)
	req.Error(err)

	// Terminal states have no outgoing transitions.
	for _, status := range []types.ProposalStatus{
		types.ProposalExecuted,
		types.ProposalExpired,
		types.ProposalRejected,
	} {
		for _, event := range []fsm.Event{
			fsm.EventApprove,
			fsm.EventExecute,
			fsm.EventExpire,
			fsm.EventReject,
		} {
			_, err := fsm.ProposalMachine.Next(status, event)
			req.Error(err)
		}
		req.True(fsm.ProposalMachine.IsFinState(status))
	}
}

func TestMustNewMachine_InvalidTables(t *testing.T) {
	req := require.New(t)

	req.Panics(func() {
		fsm.MustNewMachine("", []fsm.EventDesc{})
	})

	req.Panics(func() {
		fsm.MustNewMachine("no_events", []fsm.EventDesc{})
	})

	req.Panics(func() {
		fsm.MustNewMachine("duplicate_transition", []fsm.EventDesc{
			{
				Name:     fsm.EventApprove,
				SrcState: []types.ProposalStatus{types.ProposalPending, types.ProposalPending},
				DstState: types.ProposalApproved,
			},
		})
	})
}
