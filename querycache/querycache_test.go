package querycache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"newsrag/types"
)

type fakeKV struct {
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	val, ok := f.data[key]
	return val, ok, nil
}

func (f *fakeKV) SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.data[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) Delete(ctx context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.data, key)
	return nil
}

func TestKeyForNormalization(t *testing.T) {
	base := KeyFor("what is ai?")

	cases := []struct {
		name  string
		query string
	}{
		{"upper case", "WHAT IS AI?"},
		{"mixed case", "What is AI?"},
		{"leading whitespace", "   what is ai?"},
		{"trailing whitespace", "what is ai?   \n"},
		{"both", "\t What Is AI? \t"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := KeyFor(c.query); got != base {
				t.Fatalf("KeyFor(%q) = %q; want %q", c.query, got, base)
			}
		})
	}

	if KeyFor("what is ai?") == KeyFor("what is bitcoin?") {
		t.Fatal("distinct queries produced the same key")
	}
	if !strings.HasPrefix(base, "querycache:") {
		t.Fatalf("key %q missing namespace prefix", base)
	}
}

func TestStoreLookupRoundTrip(t *testing.T) {
	kv := newFakeKV()
	cache := New(kv)
	ctx := context.Background()

	bundle := &types.CacheBundle{
		Passages: []types.Passage{
			{ID: "p1", Score: 0.91, Title: "Bitcoin Rally Continues", Link: "https://example.com/btc"},
			{ID: "p2", Score: 0.77, Title: "Markets React", Link: "https://example.com/markets"},
		},
		Answer: "Bitcoin rallied.",
	}

	key := KeyFor("what is bitcoin?")
	if err := cache.Store(ctx, key, bundle); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, hit, err := cache.Lookup(ctx, key)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if got.Answer != bundle.Answer {
		t.Errorf("answer = %q; want %q", got.Answer, bundle.Answer)
	}
	if len(got.Passages) != 2 || got.Passages[0].ID != "p1" || got.Passages[1].ID != "p2" {
		t.Errorf("passages not preserved in order: %+v", got.Passages)
	}
	if ttl := kv.ttls[key]; ttl != 3600*time.Second {
		t.Errorf("ttl = %v; want 1h", ttl)
	}
}

func TestLookupMiss(t *testing.T) {
	cache := New(newFakeKV())

	_, hit, err := cache.Lookup(context.Background(), KeyFor("never asked"))
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if hit {
		t.Fatal("expected miss on empty cache")
	}
}

func TestStoreOverwrites(t *testing.T) {
	cache := New(newFakeKV())
	ctx := context.Background()
	key := KeyFor("what is ai?")

	if err := cache.Store(ctx, key, &types.CacheBundle{Answer: "first"}); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := cache.Store(ctx, key, &types.CacheBundle{Answer: "second"}); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, hit, err := cache.Lookup(ctx, key)
	if err != nil || !hit {
		t.Fatalf("lookup: hit=%v err=%v", hit, err)
	}
	if got.Answer != "second" {
		t.Errorf("answer = %q; want the overwritten value", got.Answer)
	}
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	kv := newFakeKV()
	cache := New(kv)
	key := KeyFor("what is ai?")
	kv.data[key] = "{not json"

	_, hit, err := cache.Lookup(context.Background(), key)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if hit {
		t.Fatal("corrupt entry should count as a miss")
	}
}

func TestBackendFailureIsUnavailable(t *testing.T) {
	kv := newFakeKV()
	kv.err = errors.New("connection refused")
	cache := New(kv)
	ctx := context.Background()

	if _, _, err := cache.Lookup(ctx, KeyFor("q")); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("lookup error = %v; want ErrUnavailable", err)
	}
	if err := cache.Store(ctx, KeyFor("q"), &types.CacheBundle{}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("store error = %v; want ErrUnavailable", err)
	}
}
