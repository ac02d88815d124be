package registry

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ajolabs/ajo-multisig/engine/apierror"
	"github.com/ajolabs/ajo-multisig/engine/modules/state"
	"github.com/ajolabs/ajo-multisig/engine/types"
)

func testConfig(groupID string) *types.MultiSigConfig {
	now := time.Now()
	return &types.MultiSigConfig{
		GroupID:      groupID,
		Threshold:    2,
		TotalSigners: 3,
		Signers: []types.Signer{
			{Addr: "addr_1", Weight: 1, Active: true, AddedAt: now},
			{Addr: "addr_2", Weight: 1, Active: true, AddedAt: now},
			{Addr: "addr_3", Weight: 1, Active: true, AddedAt: now},
		},
		CreatedAt: now,
	}
}

func TestSaveConfig(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/ajo_msig_test_SaveConfig"
	)
	defer os.RemoveAll(dbPath)

	stg, err := state.NewLevelDBState(dbPath)
	req.NoError(err)
	defer stg.Close()

	repo := NewRegistryRepo(stg)

	config := testConfig("group_1")
	err = repo.SaveConfig(config)
	req.NoError(err)

	loaded, err := repo.GetConfig("group_1")
	req.NoError(err)
	req.Equal(config.GroupID, loaded.GroupID)
	req.Equal(config.Threshold, loaded.Threshold)
	req.Len(loaded.Signers, 3)
}

func TestSaveConfig_Duplicate(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/ajo_msig_test_SaveConfigDuplicate"
	)
	defer os.RemoveAll(dbPath)

	stg, err := state.NewLevelDBState(dbPath)
	req.NoError(err)
	defer stg.Close()

	repo := NewRegistryRepo(stg)

	err = repo.SaveConfig(testConfig("group_1"))
	req.NoError(err)

	err = repo.SaveConfig(testConfig("group_1"))
	req.Error(err)
	req.Equal(apierror.CodeConfigExists, apierror.CodeOf(err))
}

func TestGetConfig_NotFound(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/ajo_msig_test_GetConfigNotFound"
	)
	defer os.RemoveAll(dbPath)

	stg, err := state.NewLevelDBState(dbPath)
	req.NoError(err)
	defer stg.Close()

	repo := NewRegistryRepo(stg)

	_, err = repo.GetConfig("unknown_group")
	req.Error(err)
	req.Equal(apierror.CodeMultiSigNotFound, apierror.CodeOf(err))
}
