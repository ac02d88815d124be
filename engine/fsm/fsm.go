package fsm

import (
	"fmt"
	"strings"

	"github.com/ajolabs/ajo-multisig/engine/types"
)

// Event names a proposal lifecycle transition.
type Event string

func (e Event) String() string {
	return string(e)
}

const (
	EventApprove Event = "event_proposal_approve"
	EventExecute Event = "event_proposal_execute"
	EventExpire  Event = "event_proposal_expire"
	// EventReject is wired into the machine so REJECTED is reachable, but no
	// API route emits it yet.
	EventReject Event = "event_proposal_reject"
)

// EventDesc declares one legal transition of the proposal machine.
type EventDesc struct {
	Name     Event
	SrcState []types.ProposalStatus
	DstState types.ProposalStatus
}

type trKey struct {
	source types.ProposalStatus
	event  Event
}

// Machine is a stateless transition table. Unlike a classic instance-bound
// state machine, the current state lives on the persisted proposal row, so
// the machine only answers "given this status, where does this event lead".
type Machine struct {
	name        string
	transitions map[trKey]types.ProposalStatus
	finStates   map[types.ProposalStatus]bool
}

// MustNewMachine validates the transition table at startup; wiring mistakes
// are programmer errors and panic.
func MustNewMachine(machineName string, events []EventDesc) *Machine {
	machineName = strings.TrimSpace(machineName)
	if machineName == "" {
		panic("machine name cannot be empty")
	}

	if len(events) == 0 {
		panic("cannot init machine with empty events")
	}

	m := &Machine{
		name:        machineName,
		transitions: make(map[trKey]types.ProposalStatus),
		finStates:   make(map[types.ProposalStatus]bool),
	}

	allSources := make(map[types.ProposalStatus]bool)
	allStates := make(map[types.ProposalStatus]bool)

	for _, event := range events {
		if event.Name == "" {
			panic("cannot init empty event")
		}

		if event.DstState == "" {
			panic(fmt.Sprintf("event \"%s\" has no destination state", event.Name))
		}

		if len(event.SrcState) == 0 {
			panic(fmt.Sprintf("event \"%s\" must have minimum one source state", event.Name))
		}

		allStates[event.DstState] = true

		for _, source := range event.SrcState {
			key := trKey{source, event.Name}
			if _, ok := m.transitions[key]; ok {
				panic(fmt.Sprintf("duplicate transition for pair \"%s\" + \"%s\"", source, event.Name))
			}
			m.transitions[key] = event.DstState
			allSources[source] = true
			allStates[source] = true
		}
	}

	for state := range allStates {
		if !allSources[state] {
			m.finStates[state] = true
		}
	}

	if len(m.finStates) == 0 {
		panic("cannot initialize machine without final states")
	}

	return m
}

func (m *Machine) Name() string {
	return m.name
}

// Next resolves the destination status for event from the current status, or
// an error when the transition is not part of the table.
func (m *Machine) Next(current types.ProposalStatus, event Event) (types.ProposalStatus, error) {
	dst, ok := m.transitions[trKey{current, event}]
	if !ok {
		return current, fmt.Errorf("cannot execute event \"%s\" for state \"%s\"", event, current)
	}
	return dst, nil
}

// IsFinState reports whether state has no outgoing transitions.
func (m *Machine) IsFinState(state types.ProposalStatus) bool {
	return m.finStates[state]
}

// ProposalMachine is the engine-wide proposal lifecycle table.
//
//	PENDING  -> APPROVED (quorum reached)
//	PENDING  -> EXPIRED  (deadline passed)
//	PENDING  -> REJECTED (reserved veto path)
//	APPROVED -> EXECUTED (dispatch confirmed)
//	APPROVED -> EXPIRED  (deadline passed before execution)
var ProposalMachine = MustNewMachine("transaction_proposal", []EventDesc{
	{
		Name:     EventApprove,
		SrcState: []types.ProposalStatus{types.ProposalPending},
		DstState: types.ProposalApproved,
	},
	{
		Name:     EventExecute,
		SrcState: []types.ProposalStatus{types.ProposalApproved},
		DstState: types.ProposalExecuted,
	},
	{
		Name:     EventExpire,
		SrcState: []types.ProposalStatus{types.ProposalPending, types.ProposalApproved},
		DstState: types.ProposalExpired,
	},
	{
		Name:     EventReject,
		SrcState: []types.ProposalStatus{types.ProposalPending},
		DstState: types.ProposalRejected,
	},
})
