package config

import "time"

// Vector index constants
const (
	// CollectionName is the Qdrant collection holding article points
	CollectionName = "news_articles"

	// EmbeddingDim is the output size of the embedding model
	EmbeddingDim = 768

	// DefaultTopK is the number of passages retrieved per query when
	// the request doesn't specify one
	DefaultTopK = 5
)

// Query cache constants
const (
	// CacheTTL is how long a cached query bundle stays valid
	CacheTTL = 3600 * time.Second

	// CacheKeyPrefix namespaces query-cache entries in Redis
	CacheKeyPrefix = "querycache:"
)

// Session constants
const (
	// MaxHistory caps a session's stored history entries; the oldest
	// entry is dropped once the cap is reached
	MaxHistory = 50

	// SessionTTL is how long an idle session survives in Redis
	SessionTTL = 24 * time.Hour

	// SessionCookie is the cookie carrying the session ID
	SessionCookie = "session_id"
)

// Cache warming constants
const (
	// WarmTopQueries is how many historically popular queries are
	// considered per warming run
	WarmTopQueries = 10

	// WarmMaxCandidates caps the deduplicated warm set per run
	WarmMaxCandidates = 10

	// TrendingSampleSize is how many recent points the topic miner scans
	TrendingSampleSize = 50

	// TrendingMaxTopics is how many trending queries the miner emits
	TrendingMaxTopics = 5
)

// PopularityKey is the Redis sorted set tracking query frequency
const PopularityKey = "queries:popularity"

// FallbackWarmQueries is warmed when neither the popularity tracker nor
// the trending miner produces any candidates
var FallbackWarmQueries = []string{
	"What happened in the news today?",
	"What is the biggest story right now?",
	"What is happening in technology?",
}

// DefaultFeedURLs are the feeds ingested by GET /news when
// NEWS_FEED_URLS is not set
var DefaultFeedURLs = []string{
	"http://feeds.bbci.co.uk/news/rss.xml",
	"http://feeds.bbci.co.uk/news/world/rss.xml",
	"http://feeds.bbci.co.uk/news/technology/rss.xml",
}
