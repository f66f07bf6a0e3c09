package app

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword computes a single SHA-256 digest over the UTF-8 bytes of the
// password and returns it as a 64-character lowercase hex string. The digest
// is deterministic and unsalted: login compares stored and recomputed
// digests directly.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
