// Package cache stores computed analysis results keyed by a request fingerprint.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/soltixdb/finlytics/internal/config"
)

// ErrMiss is returned by Get when the key is absent or expired
var ErrMiss = errors.New("cache miss")

// Cache is a TTL key/value store for encoded results
type Cache interface {
	// Get decodes the entry stored under key into dst
	Get(ctx context.Context, key string, dst interface{}) error

	// Set encodes value and stores it under key
	Set(ctx context.Context, key string, value interface{}) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend
	Close() error
}

// New creates a Cache based on configuration. A disabled cache never hits.
func New(cfg config.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return Nop{}, nil
	}

	switch strings.ToLower(cfg.Type) {
	case "memory", "":
		return NewMemory(cfg.MaxEntries, cfg.TTL, DefaultCodec()), nil
	case "redis":
		return NewRedis(cfg.URL, cfg.KeyPrefix, cfg.TTL, DefaultCodec())
	default:
		return nil, fmt.Errorf("unsupported cache type: %s (supported: memory, redis)", cfg.Type)
	}
}

// Key derives a stable fingerprint from a namespace and any JSON-encodable parts
func Key(namespace string, parts ...interface{}) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		if err := enc.Encode(p); err != nil {
			return "", fmt.Errorf("fingerprint %s: %w", namespace, err)
		}
	}
	return namespace + ":" + hex.EncodeToString(h.Sum(nil)), nil
}

// Nop is a Cache that stores nothing
type Nop struct{}

func (Nop) Get(context.Context, string, interface{}) error { return ErrMiss }
func (Nop) Set(context.Context, string, interface{}) error { return nil }
func (Nop) Delete(context.Context, string) error           { return nil }
func (Nop) Close() error                                   { return nil }
