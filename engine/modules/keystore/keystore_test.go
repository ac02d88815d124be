package keystore_test

import (
	"encoding/hex"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajolabs/ajo-multisig/engine/modules/keystore"
)

func TestLevelDBKeyStore_PutAndLoadKeys(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/ajo_msig_test_keystore"
	)
	defer os.RemoveAll(dbPath)

	store, err := keystore.NewLevelDBKeyStore(dbPath)
	req.NoError(err)

	keyPair := keystore.NewKeyPair()
	err = store.PutKeys("operator", keyPair)
	req.NoError(err)

	loaded, err := store.LoadKeys("operator")
	req.NoError(err)
	req.Equal(keyPair.Pub, loaded.Pub)
	req.Equal(keyPair.Priv, loaded.Priv)
	req.Equal(keyPair.GetAddr(), loaded.GetAddr())

	_, err = store.LoadKeys("unknown_user")
	req.Error(err)
}

func TestKeyPair_GetAddr(t *testing.T) {
	req := require.New(t)

	keyPair := keystore.NewKeyPair()
	addr := keyPair.GetAddr()

	bz, err := hex.DecodeString(addr)
	req.NoError(err)
	req.Len(bz, 32)
}
