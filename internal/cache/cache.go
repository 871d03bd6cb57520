// Package cache stores raw LLM completions so that an identical prompt sent
// to the same provider and model is answered without a second call.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ppiankov/caselens/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "caselens:v1:"

// Key hashes its parts into a fixed-length cache key. Parts are length
// prefixed so that ("ab", "c") and ("a", "bc") never collide.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:%s;", len(p), p)
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// New builds the cache selected by cfg. It returns nil, nil when caching is
// disabled.
func New(cfg model.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	ttl := time.Duration(cfg.TTLSeconds) * time.Second

	switch cfg.Mode {
	case "", "memory":
		return NewMemoryCache(ttl, 10*time.Minute), nil
	case "disk":
		return NewDiskCache(cfg.Dir, ttl), nil
	case "layered":
		return NewLayeredCache(ttl, cfg.Dir, ttl), nil
	default:
		return nil, fmt.Errorf("unknown cache mode %q (supported: memory, disk, layered)", cfg.Mode)
	}
}
