package orchestrator

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"newsrag/config"
	"newsrag/embeddings"
	"newsrag/popularity"
	"newsrag/querycache"
	"newsrag/types"
	"newsrag/vectorstore"
)

// ErrEmptyQuery is returned for blank query text; the HTTP layer maps it
// to a 400.
var ErrEmptyQuery = errors.New("query text is required and must be a non-empty string")

// NoResultsAnswer is served when retrieval finds nothing. It is never
// cached, so the query gets a fresh chance once the corpus grows.
const NoResultsAnswer = "No relevant information available to answer the query."

// Retriever returns ranked passages for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]types.Passage, error)
}

// Synthesizer produces an answer from a query and its passages.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, passages []types.Passage) string
}

// Result is the outcome of one handled query.
type Result struct {
	Query           string
	Passages        []types.Passage
	Answer          string
	ServedFromCache bool
	NoResults       bool
}

// Orchestrator answers queries cache-first: look up the cached bundle,
// fall back to retrieval + synthesis on a miss, write the result back.
// It is shared across concurrent requests; two simultaneous misses on
// the same key may both compute and overwrite each other, which is fine
// because computation is idempotent per query text.
type Orchestrator struct {
	retriever   Retriever
	synthesizer Synthesizer
	cache       *querycache.QueryCache
	tracker     popularity.Tracker
}

// New wires an orchestrator.
func New(retriever Retriever, synthesizer Synthesizer, cache *querycache.QueryCache, tracker popularity.Tracker) *Orchestrator {
	return &Orchestrator{
		retriever:   retriever,
		synthesizer: synthesizer,
		cache:       cache,
		tracker:     tracker,
	}
}

// Handle answers a query and appends the exchange to the caller's
// session history, returning the updated history. The caller persists
// it. Cache lookup always precedes any retrieval work.
func (o *Orchestrator) Handle(ctx context.Context, query string, k int, history []types.SessionEntry) (*Result, []types.SessionEntry, error) {
	if strings.TrimSpace(query) == "" {
		return nil, history, ErrEmptyQuery
	}
	if k < 1 {
		k = config.DefaultTopK
	}

	o.recordPopularity(ctx, query)

	key := querycache.KeyFor(query)
	cacheDown := false
	bundle, hit, err := o.cache.Lookup(ctx, key)
	if err != nil {
		// Degrade to a miss; skip the write-back below as well
		log.Printf("Cache lookup failed, computing without cache: %v", err)
		cacheDown = true
	}
	if hit {
		history = AppendHistory(history, types.SessionEntry{
			Query:     query,
			Passages:  bundle.Passages,
			Answer:    bundle.Answer,
			Timestamp: time.Now().UTC(),
		})
		return &Result{
			Query:           query,
			Passages:        bundle.Passages,
			Answer:          bundle.Answer,
			ServedFromCache: true,
		}, history, nil
	}

	passages, err := o.retriever.Retrieve(ctx, query, k)
	if err != nil {
		if errors.Is(err, embeddings.ErrEmbedding) || errors.Is(err, vectorstore.ErrIndex) {
			log.Printf("Retrieval failed for %q, treating as no results: %v", query, err)
			passages = nil
		} else {
			return nil, history, err
		}
	}

	if len(passages) == 0 {
		return &Result{
			Query:     query,
			Answer:    NoResultsAnswer,
			NoResults: true,
		}, history, nil
	}

	answer := o.synthesizer.Synthesize(ctx, query, passages)

	history = AppendHistory(history, types.SessionEntry{
		Query:     query,
		Passages:  passages,
		Answer:    answer,
		Timestamp: time.Now().UTC(),
	})

	if !cacheDown {
		if err := o.cache.Store(ctx, key, &types.CacheBundle{Passages: passages, Answer: answer}); err != nil {
			log.Printf("Cache store failed for %q: %v", query, err)
		}
	}

	return &Result{
		Query:    query,
		Passages: passages,
		Answer:   answer,
	}, history, nil
}

func (o *Orchestrator) recordPopularity(ctx context.Context, query string) {
	if o.tracker == nil {
		return
	}
	if err := o.tracker.Record(ctx, query); err != nil {
		log.Printf("Failed to record query popularity: %v", err)
	}
}

// AppendHistory appends an entry, dropping the oldest once the cap is
// reached.
func AppendHistory(history []types.SessionEntry, entry types.SessionEntry) []types.SessionEntry {
	for len(history) >= config.MaxHistory {
		history = history[1:]
	}
	return append(history, entry)
}
