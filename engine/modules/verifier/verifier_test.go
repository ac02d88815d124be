package verifier_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajolabs/ajo-multisig/engine/modules/keystore"
	"github.com/ajolabs/ajo-multisig/engine/modules/verifier"
	"github.com/ajolabs/ajo-multisig/engine/types"
)

func TestEd25519Verifier_Verify(t *testing.T) {
	var (
		req     = require.New(t)
		payload = []byte("some ledger transaction")
	)

	keyPair := keystore.NewKeyPair()
	signature := ed25519.Sign(keyPair.Priv, types.PayloadDigest(payload))

	v := verifier.NewEd25519Verifier()
	req.True(v.Verify(payload, keyPair.GetAddr(), signature))
}

func TestEd25519Verifier_WrongSigner(t *testing.T) {
	var (
		req     = require.New(t)
		payload = []byte("some ledger transaction")
	)

	signingPair := keystore.NewKeyPair()
	otherPair := keystore.NewKeyPair()
	signature := ed25519.Sign(signingPair.Priv, types.PayloadDigest(payload))

	v := verifier.NewEd25519Verifier()
	req.False(v.Verify(payload, otherPair.GetAddr(), signature))
}

func TestEd25519Verifier_TamperedPayload(t *testing.T) {
	var (
		req     = require.New(t)
		payload = []byte("some ledger transaction")
	)

	keyPair := keystore.NewKeyPair()
	signature := ed25519.Sign(keyPair.Priv, types.PayloadDigest(payload))

	v := verifier.NewEd25519Verifier()
	req.False(v.Verify([]byte("another transaction"), keyPair.GetAddr(), signature))
}

func TestEd25519Verifier_MalformedInput(t *testing.T) {
	var (
		req     = require.New(t)
		payload = []byte("some ledger transaction")
	)

	keyPair := keystore.NewKeyPair()
	signature := ed25519.Sign(keyPair.Priv, types.PayloadDigest(payload))

	v := verifier.NewEd25519Verifier()

	// Not hex at all.
	req.False(v.Verify(payload, "not-a-hex-address", signature))
	// Hex but too short to be a public key.
	req.False(v.Verify(payload, "deadbeef", signature))
	// Truncated signature.
	req.False(v.Verify(payload, keyPair.GetAddr(), signature[:16]))
	// Empty signature.
	req.False(v.Verify(payload, keyPair.GetAddr(), nil))
}
