package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the interface the API clients cache responses through.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key for a request against a named source
// (e.g. "loc", "wikipedia"). Keys are stable across runs so the disk
// layer survives process restarts.
func Key(source, request string) string {
	hash := sha256.Sum256([]byte(source + "\x00" + request))
	return "gutensent:v1:" + source + ":" + hex.EncodeToString(hash[:])
}

// Nop is a cache that stores nothing. Used when caching is disabled.
type Nop struct{}

func (Nop) Get(string) ([]byte, bool)                  { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error    { return nil }
func (Nop) Delete(string) error                        { return nil }
func (Nop) Clear() error                               { return nil }
