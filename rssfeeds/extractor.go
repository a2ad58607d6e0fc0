package rssfeeds

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"

	"newsrag/types"
)

const (
	WorkerCount      = 5
	extractorTimeout = 30 * time.Second
)

// ExtractAllContent replaces each article's feed snippet with the full
// article text, fetched and extracted concurrently. Articles whose
// extraction fails keep their snippet.
func ExtractAllContent(articles []*types.Article) {
	var wg sync.WaitGroup
	articleChan := make(chan *types.Article, len(articles))

	for i := 0; i < WorkerCount; i++ {
		go func(workerID int) {
			for article := range articleChan {
				if err := extractContent(article); err != nil {
					log.Printf("[Worker %d] Keeping snippet for %s: %v", workerID, article.Link, err)
				}
				wg.Done()
			}
		}(i)
	}

	for _, article := range articles {
		wg.Add(1)
		articleChan <- article
	}

	wg.Wait()
	close(articleChan)
}

// extractContent fetches the article page and extracts its readable text.
func extractContent(article *types.Article) error {
	if article.Link == "" {
		return fmt.Errorf("article link is empty")
	}

	extracted, err := readability.FromURL(article.Link, extractorTimeout)
	if err != nil {
		return fmt.Errorf("readability extraction failed: %w", err)
	}

	text := strings.TrimSpace(extracted.TextContent)
	if text == "" {
		return fmt.Errorf("extracted text is empty")
	}
	article.FullContent = text
	return nil
}
