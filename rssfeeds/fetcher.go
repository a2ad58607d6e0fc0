package rssfeeds

import (
	"fmt"
	"log"
	"time"

	"github.com/mmcdole/gofeed"

	"newsrag/types"
)

// FetchAll retrieves and parses every feed, deduplicating articles by
// link across sources. A feed that fails to parse is logged and skipped;
// an error is returned only when every feed fails.
func FetchAll(feedURLs []string) ([]*types.Article, error) {
	parser := gofeed.NewParser()
	seen := make(map[string]struct{})

	var articles []*types.Article
	var firstErr error
	failed := 0

	for _, url := range feedURLs {
		feed, err := parser.ParseURL(url)
		if err != nil {
			log.Printf("Failed to fetch feed %s: %v", url, err)
			if firstErr == nil {
				firstErr = err
			}
			failed++
			continue
		}

		for _, item := range feed.Items {
			if item.Link == "" {
				continue
			}
			if _, dup := seen[item.Link]; dup {
				continue
			}
			seen[item.Link] = struct{}{}

			var pubDate time.Time
			if item.PublishedParsed != nil {
				pubDate = *item.PublishedParsed
			} else if item.UpdatedParsed != nil {
				pubDate = *item.UpdatedParsed
			}

			// Snippet as a placeholder until full content is extracted
			snippet := item.Description
			if snippet == "" {
				snippet = item.Content
			}

			articles = append(articles, &types.Article{
				Title:       item.Title,
				Link:        item.Link,
				FullContent: snippet,
				PubDate:     pubDate,
			})
		}
	}

	if failed == len(feedURLs) && firstErr != nil {
		return nil, fmt.Errorf("all %d feeds failed: %w", failed, firstErr)
	}
	return articles, nil
}
