package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"newsrag/types"
)

// SeenFilter answers whether an article was already indexed. Used by the
// indexer to skip re-embedding articles that recur across feed pulls.
type SeenFilter interface {
	Seen(ctx context.Context, a *types.Article) (bool, error)
	Mark(ctx context.Context, a *types.Article) error
}

// BloomFilter is a RedisBloom-backed SeenFilter keyed by a normalized
// link+title fingerprint. False positives drop a fresh article at the
// configured error rate; false negatives do not occur.
type BloomFilter struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// BloomConfig configures the filter key and BF.RESERVE parameters.
type BloomConfig struct {
	Key       string
	TTL       time.Duration
	Capacity  int
	ErrorRate float64
}

// NewBloomFilter wraps an existing Redis client. When the key does not
// exist yet it reserves the filter; a failed BF.RESERVE is tolerated
// since BF.ADD auto-creates with server defaults.
func NewBloomFilter(client *redis.Client, cfg BloomConfig) *BloomFilter {
	if cfg.Key == "" {
		cfg.Key = "articles:bloom"
	}
	if cfg.TTL == 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	if cfg.Capacity == 0 {
		cfg.Capacity = 100000
	}
	if cfg.ErrorRate == 0 {
		cfg.ErrorRate = 0.001
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exists, err := client.Exists(ctx, cfg.Key).Result(); err == nil && exists == 0 {
		client.Do(ctx, "BF.RESERVE", cfg.Key, fmt.Sprintf("%f", cfg.ErrorRate), cfg.Capacity)
	}

	return &BloomFilter{client: client, key: cfg.Key, ttl: cfg.TTL}
}

// Seen reports whether the article's fingerprint is in the filter.
func (b *BloomFilter) Seen(ctx context.Context, a *types.Article) (bool, error) {
	res, err := b.client.Do(ctx, "BF.EXISTS", b.key, Fingerprint(a)).Result()
	if err != nil {
		return false, err
	}
	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case string:
		return v == "1", nil
	default:
		return false, fmt.Errorf("unexpected BF.EXISTS response type %T: %v", res, res)
	}
}

// Mark records the article's fingerprint and slides the key TTL so the
// filter stays alive for ttl past the most recent insertion.
func (b *BloomFilter) Mark(ctx context.Context, a *types.Article) error {
	if err := b.client.Do(ctx, "BF.ADD", b.key, Fingerprint(a)).Err(); err != nil {
		return err
	}
	return b.client.Expire(ctx, b.key, b.ttl).Err()
}

// Fingerprint returns sha256(normalizedLink + "|" + normalizedTitle) as hex.
func Fingerprint(a *types.Article) string {
	combined := normalizeLink(a.Link) + "|" + normalizeTitle(a.Title)
	h := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(h[:])
}

func normalizeTitle(t string) string {
	return strings.Join(strings.Fields(strings.ToLower(t)), " ")
}

// normalizeLink lowercases scheme and host, drops the fragment and
// common tracking parameters, and trims a trailing slash.
func normalizeLink(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || lk == "fbclid" || lk == "gclid" {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()

	return strings.TrimRight(u.String(), "/")
}
