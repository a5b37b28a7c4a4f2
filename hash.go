package gtrans

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashText computes the SHA-256 hash of the text. Whitespace is significant
// to the endpoint, so the text is hashed as is.
func HashText(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a response cache key for a resolved request.
func CacheKey(text, src, dest string) string {
	return HashText(text) + ":" + src + ":" + dest
}
