package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HashRefreshToken computes the one-way hash stored in the token ledger. The
// pepper keeps a leaked database from being enough to forge ledger lookups.
func HashRefreshToken(raw, pepper string) string {
	sum := sha256.Sum256([]byte(raw + pepper))
	return hex.EncodeToString(sum[:])
}

// HashesEqual compares two hex digests in constant time.
func HashesEqual(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
