package warming

import (
	"context"
	"log"
	"strings"

	"newsrag/config"
	"newsrag/orchestrator"
	"newsrag/popularity"
	"newsrag/querycache"
	"newsrag/types"
)

// TrendingMiner supplies corpus-derived candidate queries.
type TrendingMiner interface {
	Mine(ctx context.Context, sampleSize int) []types.TrendingCandidate
}

// Warmer pre-populates the query cache from two candidate sources:
// historically popular queries and trending corpus topics. Candidates
// are processed sequentially to bound load on the embedding, LLM and
// index backends.
type Warmer struct {
	tracker     popularity.Tracker
	miner       TrendingMiner
	retriever   orchestrator.Retriever
	synthesizer orchestrator.Synthesizer
	cache       *querycache.QueryCache
}

// New wires a cache warmer.
func New(tracker popularity.Tracker, miner TrendingMiner, retriever orchestrator.Retriever, synthesizer orchestrator.Synthesizer, cache *querycache.QueryCache) *Warmer {
	return &Warmer{
		tracker:     tracker,
		miner:       miner,
		retriever:   retriever,
		synthesizer: synthesizer,
		cache:       cache,
	}
}

type candidate struct {
	query string
	k     int
}

// Warm computes and caches answers for every candidate not already
// cached. A failure on one candidate does not stop the rest. Returns
// how many entries were freshly cached.
func (w *Warmer) Warm(ctx context.Context) int {
	candidates := w.candidates(ctx)
	log.Printf("Cache warming %d candidate(s)", len(candidates))

	warmed := 0
	for _, cand := range candidates {
		key := querycache.KeyFor(cand.query)
		if _, hit, err := w.cache.Lookup(ctx, key); err != nil {
			log.Printf("Warming %q: cache lookup failed: %v", cand.query, err)
			continue
		} else if hit {
			continue
		}

		passages, err := w.retriever.Retrieve(ctx, cand.query, cand.k)
		if err != nil {
			log.Printf("Warming %q: retrieval failed: %v", cand.query, err)
			continue
		}
		if len(passages) == 0 {
			continue
		}

		answer := w.synthesizer.Synthesize(ctx, cand.query, passages)
		if err := w.cache.Store(ctx, key, &types.CacheBundle{Passages: passages, Answer: answer}); err != nil {
			log.Printf("Warming %q: cache store failed: %v", cand.query, err)
			continue
		}
		warmed++
	}

	log.Printf("Cache warming complete: %d entry(ies) written", warmed)
	return warmed
}

// candidates merges popularity leaders and trending topics: popularity
// first, case-insensitive first-seen-wins dedup, capped. When both
// sources come up empty a fixed generic set is used instead.
func (w *Warmer) candidates(ctx context.Context) []candidate {
	var out []candidate
	seen := make(map[string]struct{})

	add := func(query string, k int) {
		if len(out) >= config.WarmMaxCandidates {
			return
		}
		dedup := strings.ToLower(query)
		if _, dup := seen[dedup]; dup {
			return
		}
		seen[dedup] = struct{}{}
		out = append(out, candidate{query: query, k: k})
	}

	top, err := w.tracker.TopN(ctx, config.WarmTopQueries)
	if err != nil {
		log.Printf("Popularity source unavailable for warming: %v", err)
	}
	for _, q := range top {
		add(q, config.DefaultTopK)
	}

	for _, c := range w.miner.Mine(ctx, config.TrendingSampleSize) {
		add(c.QueryText, c.NumberOfPassages)
	}

	if len(out) == 0 {
		for _, q := range config.FallbackWarmQueries {
			add(q, config.DefaultTopK)
		}
	}
	return out
}
