package registry

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ajolabs/ajo-multisig/engine/apierror"
	"github.com/ajolabs/ajo-multisig/engine/modules/state"
	"github.com/ajolabs/ajo-multisig/engine/types"
)

const (
	configsNamespace = "msig_configs"
)

// RegistryRepo persists per-group MultiSigConfig records. One config per
// group; configs are immutable after creation.
type RegistryRepo interface {
	SaveConfig(config *types.MultiSigConfig) error
	GetConfig(groupID string) (*types.MultiSigConfig, error)
}

type BaseRegistryRepo struct {
	mu    sync.Mutex
	state state.State
}

func NewRegistryRepo(s state.State) *BaseRegistryRepo {
	return &BaseRegistryRepo{
		state: s,
	}
}

// SaveConfig stores a new config, rejecting a second config for the same
// group instead of silently overwriting it.
func (r *BaseRegistryRepo) SaveConfig(config *types.MultiSigConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := state.MakeCompositeKey(configsNamespace, config.GroupID)

	existing, err := r.state.Get(key)
	if err != nil {
		return fmt.Errorf("failed to check existing config: %w", err)
	}
	if existing != nil {
		return apierror.Newf(apierror.KindConflict, apierror.CodeConfigExists,
			"a multisig config already exists for group %s", config.GroupID)
	}

	configJSON, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := r.state.Set(key, configJSON); err != nil {
		return fmt.Errorf("failed to put config: %w", err)
	}

	return nil
}

func (r *BaseRegistryRepo) GetConfig(groupID string) (*types.MultiSigConfig, error) {
	bz, err := r.state.Get(state.MakeCompositeKey(configsNamespace, groupID))
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	if bz == nil {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeMultiSigNotFound,
			"no multisig config found for group %s", groupID)
	}

	var config types.MultiSigConfig
	if err := json.Unmarshal(bz, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
