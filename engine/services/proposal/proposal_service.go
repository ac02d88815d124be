package proposal

import (
	"encoding/json"
	"time"

	"github.com/ajolabs/ajo-multisig/engine/apierror"
	"github.com/ajolabs/ajo-multisig/engine/api/dto"
	"github.com/ajolabs/ajo-multisig/engine/eventlog"
	"github.com/ajolabs/ajo-multisig/engine/fsm"
	"github.com/ajolabs/ajo-multisig/engine/modules/logger"
	"github.com/ajolabs/ajo-multisig/engine/modules/verifier"
	"github.com/ajolabs/ajo-multisig/engine/quorum"
	proposal_repo "github.com/ajolabs/ajo-multisig/engine/repositories/proposal"
	registry_repo "github.com/ajolabs/ajo-multisig/engine/repositories/registry"
	"github.com/ajolabs/ajo-multisig/engine/types"
	"github.com/ajolabs/ajo-multisig/pkg/namedlock"

	"github.com/google/uuid"
)

const (
	// DefaultProposalLifetime applies when a create request carries no
	// explicit expiry.
	DefaultProposalLifetime = time.Hour * 24 * 7

	defaultPageLimit = 20
)

// SignProposalResult is returned to the signer after an accepted signature.
type SignProposalResult struct {
	ProposalID     string               `json:"proposal_id"`
	CurrentSigs    int                  `json:"current_sigs"`
	RequiredSigs   int                  `json:"required_sigs"`
	Status         types.ProposalStatus `json:"status"`
	ReadyToExecute bool                 `json:"ready_to_execute"`
}

// ExecuteProposalResult carries the ledger submission reference.
type ExecuteProposalResult struct {
	ProposalID        string               `json:"proposal_id"`
	Status            types.ProposalStatus `json:"status"`
	ExecutedReference string               `json:"executed_reference"`
}

// ProposalService drives the proposal state machine: creation, signature
// collection, execution and expiry. Every state-changing call for a proposal
// runs under that proposal's named lock, so concurrent signers are linearized
// per proposal while distinct proposals proceed in parallel.
type ProposalService interface {
	CreateProposal(dto *dto.CreateProposalDTO) (*types.Proposal, error)
	SignProposal(dto *dto.SignProposalDTO) (*SignProposalResult, error)
	ExecuteProposal(dto *dto.ProposalIdDTO) (*ExecuteProposalResult, error)
	GetProposal(dto *dto.ProposalIdDTO) (*types.Proposal, error)
	GetGroupProposals(dto *dto.GroupProposalsDTO) ([]*types.Proposal, error)
	SweepExpired() (int, error)
}

type Dispatcher interface {
	Dispatch(proposalID string, payload []byte, signatures []types.ProposalSignature) (string, error)
}

type BaseProposalService struct {
	proposalRepo proposal_repo.ProposalRepo
	registryRepo registry_repo.RegistryRepo
	verifier     verifier.Verifier
	dispatcher   Dispatcher
	eventLog     eventlog.EventLog
	locker       *namedlock.NamedLocker
	logger       logger.Logger
}

func NewProposalService(
	proposalRepo proposal_repo.ProposalRepo,
	registryRepo registry_repo.RegistryRepo,
	sigVerifier verifier.Verifier,
	dispatcher Dispatcher,
	eventLog eventlog.EventLog,
	log logger.Logger,
) *BaseProposalService {
	return &BaseProposalService{
		proposalRepo: proposalRepo,
		registryRepo: registryRepo,
		verifier:     sigVerifier,
		dispatcher:   dispatcher,
		eventLog:     eventLog,
		locker:       namedlock.New(),
		logger:       log,
	}
}

// CreateProposal opens a PENDING proposal, snapshotting the group threshold
// so later config changes never affect it.
func (s *BaseProposalService) CreateProposal(request *dto.CreateProposalDTO) (*types.Proposal, error) {
	config, err := s.registryRepo.GetConfig(request.GroupID)
	if err != nil {
		return nil, err
	}

	if _, ok := config.ActiveSigner(request.ProposerAddr); !ok {
		return nil, apierror.Newf(apierror.KindUnauthorized, apierror.CodeUnauthorizedSigner,
			"proposer %s is not an active signer of group %s", request.ProposerAddr, request.GroupID)
	}

	operation := types.OperationType(request.Operation)
	if !operation.IsValid() {
		return nil, apierror.Newf(apierror.KindInvalidInput, apierror.CodeInvalidOperation,
			"unknown operation type %q", request.Operation)
	}

	lifetime := DefaultProposalLifetime
	if request.ExpiresInSeconds > 0 {
		lifetime = time.Duration(request.ExpiresInSeconds) * time.Second
	}

	now := time.Now()
	proposal := &types.Proposal{
		ID:           uuid.New().String(),
		GroupID:      request.GroupID,
		ProposerAddr: request.ProposerAddr,
		Operation:    operation,
		Payload:      request.Payload,
		PayloadHash:  types.PayloadHashString(request.Payload),
		Metadata:     request.Metadata,
		RequiredSigs: config.Threshold,
		CurrentSigs:  0,
		Status:       types.ProposalPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(lifetime),
	}

	if err := s.proposalRepo.SaveProposal(proposal); err != nil {
		return nil, err
	}

	s.publishEvent(eventlog.EventProposalCreated, proposal, map[string]interface{}{
		"operation":     proposal.Operation,
		"proposer_addr": proposal.ProposerAddr,
		"required_sigs": proposal.RequiredSigs,
		"expires_at":    proposal.ExpiresAt,
	})

	s.logger.Log("proposal %s created for group %s (%s), %d signatures required",
		proposal.ID, proposal.GroupID, proposal.Operation, proposal.RequiredSigs)

	return proposal, nil
}

// SignProposal records one verified signature. The whole read-validate-write
// sequence holds the proposal's lock, so two concurrent signers can never
// both observe the same signature count and double-write it.
func (s *BaseProposalService) SignProposal(request *dto.SignProposalDTO) (*SignProposalResult, error) {
	s.locker.Lock(request.ProposalID)
	defer s.locker.Unlock(request.ProposalID)

	proposal, err := s.proposalRepo.GetProposalByID(request.ProposalID)
	if err != nil {
		return nil, err
	}

	if err := s.failIfClosed(proposal, time.Now()); err != nil {
		return nil, err
	}

	config, err := s.registryRepo.GetConfig(proposal.GroupID)
	if err != nil {
		return nil, err
	}

	if _, ok := config.ActiveSigner(request.SignerAddr); !ok {
		return nil, apierror.Newf(apierror.KindUnauthorized, apierror.CodeUnauthorizedSigner,
			"signer %s is not an active signer of group %s", request.SignerAddr, proposal.GroupID)
	}

	if proposal.HasSigned(request.SignerAddr) {
		return nil, apierror.Newf(apierror.KindConflict, apierror.CodeDuplicateSignature,
			"signer %s already signed proposal %s", request.SignerAddr, proposal.ID)
	}

	if !s.verifier.Verify(proposal.Payload, request.SignerAddr, request.Signature) {
		return nil, apierror.Newf(apierror.KindInvalidInput, apierror.CodeInvalidSignature,
			"signature from %s does not verify against the proposal payload", request.SignerAddr)
	}

	proposal.Signatures = append(proposal.Signatures, types.ProposalSignature{
		ProposalID: proposal.ID,
		SignerAddr: request.SignerAddr,
		Signature:  request.Signature,
		SignedAt:   time.Now(),
	})
	proposal.CurrentSigs = len(proposal.Signatures)

	approved := false
	if proposal.Status == types.ProposalPending && quorum.Ready(proposal.CurrentSigs, proposal.RequiredSigs) {
		next, err := fsm.ProposalMachine.Next(proposal.Status, fsm.EventApprove)
		if err != nil {
			return nil, err
		}
		proposal.Status = next
		approved = true
	}

	if err := s.proposalRepo.UpdateProposal(proposal); err != nil {
		return nil, err
	}

	s.publishEvent(eventlog.EventProposalSigned, proposal, map[string]interface{}{
		"signer_addr":  request.SignerAddr,
		"current_sigs": proposal.CurrentSigs,
	})

	if approved {
		s.publishEvent(eventlog.EventProposalApproved, proposal, map[string]interface{}{
			"current_sigs":  proposal.CurrentSigs,
			"required_sigs": proposal.RequiredSigs,
		})
		s.logger.Log("proposal %s reached quorum (%d/%d)", proposal.ID, proposal.CurrentSigs, proposal.RequiredSigs)
	}

	return &SignProposalResult{
		ProposalID:     proposal.ID,
		CurrentSigs:    proposal.CurrentSigs,
		RequiredSigs:   proposal.RequiredSigs,
		Status:         proposal.Status,
		ReadyToExecute: quorum.Ready(proposal.CurrentSigs, proposal.RequiredSigs),
	}, nil
}

// ExecuteProposal hands the payload and the collected signatures to the
// dispatcher and records the result. The EXECUTED transition is committed
// only after dispatch reports success; on a failed or ambiguous dispatch the
// proposal stays APPROVED so the call can be retried.
func (s *BaseProposalService) ExecuteProposal(request *dto.ProposalIdDTO) (*ExecuteProposalResult, error) {
	s.locker.Lock(request.ProposalID)
	defer s.locker.Unlock(request.ProposalID)

	proposal, err := s.proposalRepo.GetProposalByID(request.ProposalID)
	if err != nil {
		return nil, err
	}

	if err := s.failIfClosed(proposal, time.Now()); err != nil {
		return nil, err
	}

	if !quorum.Ready(proposal.CurrentSigs, proposal.RequiredSigs) {
		return nil, apierror.Newf(apierror.KindInsufficientQuorum, apierror.CodeInsufficientSignatures,
			"proposal %s has %d of %d required signatures", proposal.ID, proposal.CurrentSigs, proposal.RequiredSigs)
	}

	reference, err := s.dispatcher.Dispatch(proposal.ID, proposal.Payload, proposal.Signatures)
	if err != nil {
		s.logger.Log("dispatch of proposal %s failed, staying %s: %v", proposal.ID, proposal.Status, err)
		return nil, err
	}

	next, err := fsm.ProposalMachine.Next(proposal.Status, fsm.EventExecute)
	if err != nil {
		return nil, err
	}
	proposal.Status = next

	executedAt := time.Now()
	proposal.ExecutedAt = &executedAt
	proposal.ExecutedReference = reference

	if err := s.proposalRepo.UpdateProposal(proposal); err != nil {
		return nil, err
	}

	s.publishEvent(eventlog.EventProposalExecuted, proposal, map[string]interface{}{
		"executed_reference": reference,
	})

	s.logger.Log("proposal %s executed, ledger reference %s", proposal.ID, reference)

	return &ExecuteProposalResult{
		ProposalID:        proposal.ID,
		Status:            proposal.Status,
		ExecutedReference: reference,
	}, nil
}

func (s *BaseProposalService) GetProposal(request *dto.ProposalIdDTO) (*types.Proposal, error) {
	return s.proposalRepo.GetProposalByID(request.ProposalID)
}

// GetGroupProposals is a read-only projection with an optional status filter
// and 1-based pagination; it never mutates proposal rows.
func (s *BaseProposalService) GetGroupProposals(request *dto.GroupProposalsDTO) ([]*types.Proposal, error) {
	proposals, err := s.proposalRepo.GetProposalsByGroup(request.GroupID)
	if err != nil {
		return nil, err
	}

	if request.Status != "" {
		filtered := proposals[:0]
		for _, p := range proposals {
			if p.Status == types.ProposalStatus(request.Status) {
				filtered = append(filtered, p)
			}
		}
		proposals = filtered
	}

	limit := request.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	page := request.Page
	if page < 1 {
		page = 1
	}

	start := (page - 1) * limit
	if start >= len(proposals) {
		return []*types.Proposal{}, nil
	}
	end := start + limit
	if end > len(proposals) {
		end = len(proposals)
	}

	return proposals[start:end], nil
}

// SweepExpired bulk-transitions stale open proposals to EXPIRED and returns
// the count. Safe to run concurrently with signing: each expiry takes the
// proposal's lock and re-reads the row, and the lazy check in sign/execute
// never accepts work on a proposal past its deadline anyway.
func (s *BaseProposalService) SweepExpired() (int, error) {
	proposals, err := s.proposalRepo.GetAllProposals()
	if err != nil {
		return 0, err
	}

	now := time.Now()
	expired := 0
	for _, p := range proposals {
		if p.Status.IsTerminal() || !p.IsExpired(now) {
			continue
		}

		s.locker.Lock(p.ID)
		fresh, err := s.proposalRepo.GetProposalByID(p.ID)
		if err != nil {
			s.locker.Unlock(p.ID)
			return expired, err
		}

		if !fresh.Status.IsTerminal() && fresh.IsExpired(now) {
			if err := s.expireProposal(fresh); err != nil {
				s.locker.Unlock(p.ID)
				return expired, err
			}
			expired++
		}
		s.locker.Unlock(p.ID)
	}

	return expired, nil
}

// failIfClosed enforces lazy expiry and the terminal-state checks shared by
// sign and execute. Expiry is observed at call time even if the sweeper has
// not run yet.
func (s *BaseProposalService) failIfClosed(proposal *types.Proposal, now time.Time) error {
	if proposal.Status == types.ProposalExecuted {
		return apierror.Newf(apierror.KindConflict, apierror.CodeProposalExecuted,
			"proposal %s was already executed", proposal.ID)
	}

	if proposal.Status == types.ProposalExpired {
		return apierror.Newf(apierror.KindExpired, apierror.CodeProposalExpired,
			"proposal %s expired at %s", proposal.ID, proposal.ExpiresAt.Format(time.RFC3339))
	}

	if proposal.Status == types.ProposalRejected {
		return apierror.Newf(apierror.KindConflict, apierror.CodeProposalNotPending,
			"proposal %s was rejected", proposal.ID)
	}

	if proposal.IsExpired(now) {
		if err := s.expireProposal(proposal); err != nil {
			return err
		}
		return apierror.Newf(apierror.KindExpired, apierror.CodeProposalExpired,
			"proposal %s expired at %s", proposal.ID, proposal.ExpiresAt.Format(time.RFC3339))
	}

	return nil
}

func (s *BaseProposalService) expireProposal(proposal *types.Proposal) error {
	next, err := fsm.ProposalMachine.Next(proposal.Status, fsm.EventExpire)
	if err != nil {
		return err
	}
	proposal.Status = next

	if err := s.proposalRepo.UpdateProposal(proposal); err != nil {
		return err
	}

	s.publishEvent(eventlog.EventProposalExpired, proposal, map[string]interface{}{
		"expired_at":   proposal.ExpiresAt,
		"current_sigs": proposal.CurrentSigs,
	})

	s.logger.Log("proposal %s expired with %d/%d signatures", proposal.ID, proposal.CurrentSigs, proposal.RequiredSigs)

	return nil
}

// publishEvent is best-effort: the proposal row is the source of truth and a
// failed publish never rolls a transition back.
func (s *BaseProposalService) publishEvent(kind eventlog.EventKind, proposal *types.Proposal, data map[string]interface{}) {
	if s.eventLog == nil {
		return
	}

	dataBz, err := json.Marshal(data)
	if err != nil {
		s.logger.Log("failed to marshal %s event data for proposal %s: %v", kind, proposal.ID, err)
		return
	}

	event := eventlog.Event{
		ID:         uuid.New().String(),
		Kind:       kind,
		GroupID:    proposal.GroupID,
		ProposalID: proposal.ID,
		Data:       dataBz,
		CreatedAt:  time.Now(),
	}

	if err := s.eventLog.Publish(event); err != nil {
		s.logger.Log("failed to publish %s event for proposal %s: %v", kind, proposal.ID, err)
	}
}
