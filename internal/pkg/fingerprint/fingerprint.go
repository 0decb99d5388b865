package fingerprint

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Size is the number of hex characters a fingerprint carries
const Size = 16

// Of returns a short, stable, non-reversible identifier for a credential so
// it can appear in logs without leaking the bearer value.
func Of(credential string) string {
	if credential == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:])[:Size]
}
