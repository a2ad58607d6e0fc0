package querycache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsrag/config"
	"newsrag/types"
)

// ErrUnavailable marks cache backend failures. The orchestrator treats
// them as a miss and computes the answer without caching it.
var ErrUnavailable = errors.New("query cache unavailable")

// QueryCache stores (passages, answer) bundles keyed by normalized
// query text, expiring after a fixed TTL.
type QueryCache struct {
	kv  KV
	ttl time.Duration
}

// New creates a QueryCache with the standard TTL.
func New(kv KV) *QueryCache {
	return &QueryCache{kv: kv, ttl: config.CacheTTL}
}

// NewWithTTL creates a QueryCache with a custom TTL.
func NewWithTTL(kv KV, ttl time.Duration) *QueryCache {
	return &QueryCache{kv: kv, ttl: ttl}
}

// KeyFor derives the cache key for a query: trim, lowercase, sha256.
// Queries identical after normalization always share a key, across
// process restarts.
func KeyFor(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	sum := sha256.Sum256([]byte(normalized))
	return config.CacheKeyPrefix + hex.EncodeToString(sum[:])
}

// Lookup fetches the bundle stored under key, reporting whether one
// exists. An undecodable entry counts as a miss.
func (c *QueryCache) Lookup(ctx context.Context, key string) (*types.CacheBundle, bool, error) {
	raw, ok, err := c.kv.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !ok {
		return nil, false, nil
	}
	var bundle types.CacheBundle
	if err := json.Unmarshal([]byte(raw), &bundle); err != nil {
		return nil, false, nil
	}
	return &bundle, true, nil
}

// Store writes the bundle under key, unconditionally overwriting any
// previous entry and resetting the TTL.
func (c *QueryCache) Store(ctx context.Context, key string, bundle *types.CacheBundle) error {
	raw, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("encoding cache bundle: %w", err)
	}
	if err := c.kv.SetWithExpiry(ctx, key, string(raw), c.ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
