// Package quorum holds the threshold rule in isolation so that a weighted
// variant (summing signer weights instead of counting signatures) can replace
// it without touching the proposal state machine.
package quorum

// Ready reports whether the collected signature count meets the threshold
// snapshotted at proposal creation. Signer weights are stored in the registry
// but are intentionally not consulted here; quorum counts signatures.
func Ready(currentSigs, requiredSigs int) bool {
	return currentSigs >= requiredSigs
}

// Remaining is the number of signatures still missing, never negative.
func Remaining(currentSigs, requiredSigs int) int {
	if currentSigs >= requiredSigs {
		return 0
	}
	return requiredSigs - currentSigs
}
