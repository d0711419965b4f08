package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores fetched document text and other derived artifacts keyed
// by opaque strings. Implementations must be safe for concurrent use.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a namespaced cache key. The value is hashed so URLs and
// arbitrary document text are safe to use as filenames.
func Key(namespace, value string) string {
	sum := sha256.Sum256([]byte(value))
	return "tca:v1:" + namespace + ":" + hex.EncodeToString(sum[:])
}
