package config

import (
	"os"
	"strings"
)

// GetEnvOrDefault returns the value of an environment variable or a
// fallback when unset or blank.
func GetEnvOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// FeedURLs returns the feeds to ingest: NEWS_FEED_URLS as a
// comma-separated list, or the defaults.
func FeedURLs() []string {
	raw := strings.TrimSpace(os.Getenv("NEWS_FEED_URLS"))
	if raw == "" {
		return DefaultFeedURLs
	}
	var urls []string
	for _, u := range strings.Split(raw, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return DefaultFeedURLs
	}
	return urls
}
