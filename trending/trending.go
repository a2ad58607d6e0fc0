package trending

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strings"

	"newsrag/config"
	"newsrag/types"
	"newsrag/vectorstore"
)

// stopWords excludes boilerplate headline terms from topic counting.
var stopWords = map[string]struct{}{
	"news":   {},
	"latest": {},
	"update": {},
	"report": {},
}

var nonWordRe = regexp.MustCompile(`\W+`)

// Miner extracts frequent significant terms from recent article titles
// and turns them into candidate warm queries.
type Miner struct {
	index      vectorstore.Index
	collection string
}

// New creates a miner over the standard collection.
func New(index vectorstore.Index) *Miner {
	return &Miner{index: index, collection: config.CollectionName}
}

// Mine scans up to sampleSize recent points and returns up to five
// candidate queries built from the most frequent title terms. Ties keep
// first-encountered order. A scan failure yields an empty list.
func (m *Miner) Mine(ctx context.Context, sampleSize int) []types.TrendingCandidate {
	records, err := m.index.Scroll(ctx, m.collection, sampleSize)
	if err != nil {
		log.Printf("Error scanning corpus for trending topics: %v", err)
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		for _, token := range nonWordRe.Split(strings.ToLower(rec.Payload.Title), -1) {
			if len(token) <= 3 {
				continue
			}
			if _, skip := stopWords[token]; skip {
				continue
			}
			if counts[token] == 0 {
				order = append(order, token)
			}
			counts[token]++
		}
	}

	// Stable sort keeps first-encountered order between equal counts
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > config.TrendingMaxTopics {
		order = order[:config.TrendingMaxTopics]
	}

	candidates := make([]types.TrendingCandidate, 0, len(order))
	for _, token := range order {
		candidates = append(candidates, types.TrendingCandidate{
			QueryText:        "What is " + token + "?",
			NumberOfPassages: config.DefaultTopK,
		})
	}
	return candidates
}
