package registry

import (
	"time"

	"github.com/ajolabs/ajo-multisig/engine/apierror"
	"github.com/ajolabs/ajo-multisig/engine/api/dto"
	registry_repo "github.com/ajolabs/ajo-multisig/engine/repositories/registry"
	"github.com/ajolabs/ajo-multisig/engine/types"
)

// RegistryService manages per-group signing configurations and answers
// authorization checks for the proposal paths.
type RegistryService interface {
	CreateConfig(dto *dto.CreateConfigDTO) (*types.MultiSigConfig, error)
	GetConfig(dto *dto.GroupIdDTO) (*types.MultiSigConfig, error)
	IsAuthorizedSigner(groupID, signerAddr string) (bool, error)
}

type BaseRegistryService struct {
	registryRepo registry_repo.RegistryRepo
}

func NewRegistryService(registryRepo registry_repo.RegistryRepo) *BaseRegistryService {
	return &BaseRegistryService{
		registryRepo: registryRepo,
	}
}

// CreateConfig validates and persists a new group configuration. Violating
// requests are rejected, never silently clamped.
func (s *BaseRegistryService) CreateConfig(request *dto.CreateConfigDTO) (*types.MultiSigConfig, error) {
	if request.Threshold < 1 {
		return nil, apierror.Newf(apierror.KindInvalidInput, apierror.CodeInvalidThreshold,
			"threshold must be at least 1, got %d", request.Threshold)
	}

	if request.Threshold > len(request.Signers) {
		return nil, apierror.Newf(apierror.KindInvalidInput, apierror.CodeInvalidThreshold,
			"threshold %d cannot be higher than the signer count %d", request.Threshold, len(request.Signers))
	}

	now := time.Now()
	seen := make(map[string]bool, len(request.Signers))
	signers := make([]types.Signer, 0, len(request.Signers))
	for _, entry := range request.Signers {
		if seen[entry.Addr] {
			return nil, apierror.Newf(apierror.KindInvalidInput, apierror.CodeInvalidThreshold,
				"signer %s appears twice in the signer set", entry.Addr)
		}
		seen[entry.Addr] = true

		weight := entry.Weight
		if weight == 0 {
			weight = 1
		}
		if weight < 0 {
			return nil, apierror.Newf(apierror.KindInvalidInput, apierror.CodeInvalidThreshold,
				"signer %s has a non-positive weight %d", entry.Addr, entry.Weight)
		}

		signers = append(signers, types.Signer{
			Addr:    entry.Addr,
			Weight:  weight,
			Active:  true,
			AddedAt: now,
		})
	}

	config := &types.MultiSigConfig{
		GroupID:      request.GroupID,
		Threshold:    request.Threshold,
		TotalSigners: len(signers),
		Signers:      signers,
		CreatedAt:    now,
	}

	// The signer set must be able to reach the threshold at all times.
	if config.ActiveWeight() < config.Threshold {
		return nil, apierror.Newf(apierror.KindInvalidInput, apierror.CodeInvalidThreshold,
			"sum of active signer weights %d is below the threshold %d", config.ActiveWeight(), config.Threshold)
	}

	if err := s.registryRepo.SaveConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func (s *BaseRegistryService) GetConfig(request *dto.GroupIdDTO) (*types.MultiSigConfig, error) {
	return s.registryRepo.GetConfig(request.GroupID)
}

// IsAuthorizedSigner reports whether signerAddr is an active signer of the
// group. A missing config is not an error here; the caller decides whether
// that is multisig_not_found or unauthorized_signer.
func (s *BaseRegistryService) IsAuthorizedSigner(groupID, signerAddr string) (bool, error) {
	config, err := s.registryRepo.GetConfig(groupID)
	if err != nil {
		if apierror.CodeOf(err) == apierror.CodeMultiSigNotFound {
			return false, nil
		}
		return false, err
	}

	_, ok := config.ActiveSigner(signerAddr)
	return ok, nil
}
