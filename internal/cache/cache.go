package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for extraction result caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from schedule text and a config fingerprint.
// The text is trimmed and lowercased first, so whitespace or casing edits
// still hit the cache. The fingerprint covers extraction-relevant config
// (model, locations, title, timezone) and invalidates entries when it
// changes.
func Key(text, fingerprint string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	hash := sha256.Sum256([]byte(normalized + "||" + fingerprint))
	return "swimcal:v1:" + hex.EncodeToString(hash[:])
}
