package types

import "time"

// Article represents a single news article pulled from a feed.
// Link doubles as the article's identity: the same story syndicated
// across feeds carries the same link and is deduplicated on it.
type Article struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	FullContent string    `json:"fullContent"`
	PubDate     time.Time `json:"pubDate"`
}

// Passage is a single retrieval hit: an article payload plus the
// similarity score assigned by the vector index. Passages are built
// per query and only persist as part of a cached bundle.
type Passage struct {
	ID          string    `json:"id"`
	Score       float32   `json:"score"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	FullContent string    `json:"fullContent"`
	PubDate     time.Time `json:"pubDate"`
}

// CacheBundle is the cached result for one normalized query: the
// passages that were retrieved and the answer synthesized from them.
type CacheBundle struct {
	Passages []Passage `json:"passages"`
	Answer   string    `json:"answer"`
}

// SessionEntry records one answered query in a client's session history.
type SessionEntry struct {
	Query     string    `json:"query"`
	Passages  []Passage `json:"passages"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// TrendingCandidate is a synthetic query derived from a frequent term
// in recent article titles, used to pre-warm the query cache.
type TrendingCandidate struct {
	QueryText        string `json:"query_text"`
	NumberOfPassages int    `json:"number_of_passages"`
}
