package verifier

import (
	"crypto/ed25519"
	"encoding/hex"

	"github.com/ajolabs/ajo-multisig/engine/types"
)

// Verifier checks that a submitted signature was produced by the claimed
// signer over a payload. The engine never trusts client-asserted validity and
// always recomputes the digest.
type Verifier interface {
	Verify(payload []byte, signerAddr string, signature []byte) bool
}

// Ed25519Verifier verifies ed25519 signatures over the sha256 digest of the
// payload. The signer address is the hex-encoded public key.
type Ed25519Verifier struct{}

func NewEd25519Verifier() *Ed25519Verifier {
	return &Ed25519Verifier{}
}

// Verify returns false on malformed addresses, keys or signatures; nothing at
// this boundary panics on attacker-controlled input.
func (v *Ed25519Verifier) Verify(payload []byte, signerAddr string, signature []byte) bool {
	pubKeyBz, err := hex.DecodeString(signerAddr)
	if err != nil {
		return false
	}

	if len(pubKeyBz) != ed25519.PublicKeySize {
		return false
	}

	if len(signature) != ed25519.SignatureSize {
		return false
	}

	return ed25519.Verify(pubKeyBz, types.PayloadDigest(payload), signature)
}
