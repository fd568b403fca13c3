package querycache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Signature is the cache key of a query: SHA-256 of the whitespace-trimmed text.
// Case is preserved so that string literals keep their meaning.
func Signature(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}

// SignatureOf keys a composite value, such as a question together with a
// context digest. Parts are joined with a NUL separator.
func SignatureOf(parts ...string) string {
	return Signature(strings.Join(parts, "\x00"))
}
