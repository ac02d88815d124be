package registry

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajolabs/ajo-multisig/engine/api/dto"
	"github.com/ajolabs/ajo-multisig/engine/apierror"
	"github.com/ajolabs/ajo-multisig/engine/modules/state"
	registry_repo "github.com/ajolabs/ajo-multisig/engine/repositories/registry"
)

func setupRegistryService(t *testing.T, dbPath string) *BaseRegistryService {
	stg, err := state.NewLevelDBState(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		stg.Close()
		os.RemoveAll(dbPath)
	})

	return NewRegistryService(registry_repo.NewRegistryRepo(stg))
}

func TestCreateConfig(t *testing.T) {
	var (
		req     = require.New(t)
		service = setupRegistryService(t, "/tmp/ajo_msig_test_CreateConfig")
	)

	config, err := service.CreateConfig(&dto.CreateConfigDTO{
		GroupID:   "group_1",
		Threshold: 2,
		Signers: []dto.SignerEntryDTO{
			{Addr: "addr_1"},
			{Addr: "addr_2", Weight: 3},
			{Addr: "addr_3"},
		},
	})
	req.NoError(err)
	req.Equal("group_1", config.GroupID)
	req.Equal(2, config.Threshold)
	req.Equal(3, config.TotalSigners)

	// An omitted weight defaults to 1; explicit weights are kept.
	req.Equal(1, config.Signers[0].Weight)
	req.Equal(3, config.Signers[1].Weight)

	for _, signer := range config.Signers {
		req.True(signer.Active)
	}
}

func TestCreateConfig_InvalidThreshold(t *testing.T) {
	var (
		req     = require.New(t)
		service = setupRegistryService(t, "/tmp/ajo_msig_test_CreateConfigInvalidThreshold")
		signers = []dto.SignerEntryDTO{{Addr: "addr_1"}, {Addr: "addr_2"}}
	)

	_, err := service.CreateConfig(&dto.CreateConfigDTO{
		GroupID:   "group_1",
		Threshold: 0,
		Signers:   signers,
	})
	req.Error(err)
	req.Equal(apierror.CodeInvalidThreshold, apierror.CodeOf(err))

	_, err = service.CreateConfig(&dto.CreateConfigDTO{
		GroupID:   "group_1",
		Threshold: 3,
		Signers:   signers,
	})
	req.Error(err)
	req.Equal(apierror.CodeInvalidThreshold, apierror.CodeOf(err))
}

func TestCreateConfig_DuplicateSigner(t *testing.T) {
	var (
		req     = require.New(t)
		service = setupRegistryService(t, "/tmp/ajo_msig_test_CreateConfigDuplicateSigner")
	)

	_, err := service.CreateConfig(&dto.CreateConfigDTO{
		GroupID:   "group_1",
		Threshold: 1,
		Signers: []dto.SignerEntryDTO{
			{Addr: "addr_1"},
			{Addr: "addr_1"},
		},
	})
	req.Error(err)
}

func TestCreateConfig_DuplicateGroup(t *testing.T) {
	var (
		req     = require.New(t)
		service = setupRegistryService(t, "/tmp/ajo_msig_test_CreateConfigDuplicateGroup")
		request = &dto.CreateConfigDTO{
			GroupID:   "group_1",
			Threshold: 1,
			Signers:   []dto.SignerEntryDTO{{Addr: "addr_1"}},
		}
	)

	_, err := service.CreateConfig(request)
	req.NoError(err)

	_, err = service.CreateConfig(request)
	req.Error(err)
	req.Equal(apierror.CodeConfigExists, apierror.CodeOf(err))
}

func TestIsAuthorizedSigner(t *testing.T) {
	var (
		req     = require.New(t)
		service = setupRegistryService(t, "/tmp/ajo_msig_test_IsAuthorizedSigner")
	)

	_, err := service.CreateConfig(&dto.CreateConfigDTO{
		GroupID:   "group_1",
		Threshold: 1,
		Signers:   []dto.SignerEntryDTO{{Addr: "addr_1"}},
	})
	req.NoError(err)

	ok, err := service.IsAuthorizedSigner("group_1", "addr_1")
	req.NoError(err)
	req.True(ok)

	ok, err = service.IsAuthorizedSigner("group_1", "addr_2")
	req.NoError(err)
	req.False(ok)

	// A missing group is not an error for this check.
	ok, err = service.IsAuthorizedSigner("unknown_group", "addr_1")
	req.NoError(err)
	req.False(ok)
}
