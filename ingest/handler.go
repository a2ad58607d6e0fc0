package ingest

import (
	"context"
	"encoding/json"
	"log"

	"newsrag/types"
)

// ArticleHandler adapts the indexer to a Kafka message handler: each
// message is one article JSON ready to index.
type ArticleHandler struct {
	indexer *Indexer
}

// NewArticleHandler creates a handler feeding the given indexer.
func NewArticleHandler(indexer *Indexer) *ArticleHandler {
	return &ArticleHandler{indexer: indexer}
}

// HandleMessage decodes and indexes one article event. Undecodable or
// linkless payloads are logged and marked processed so they don't wedge
// the partition; indexing failures leave the message unmarked for retry.
func (h *ArticleHandler) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	var article types.Article
	if err := json.Unmarshal(message, &article); err != nil {
		log.Printf("Skipping undecodable article event: %v", err)
		return true, nil
	}
	if article.Link == "" {
		log.Printf("Skipping article event with no link: %q", article.Title)
		return true, nil
	}

	if err := h.indexer.IndexArticles(ctx, []*types.Article{&article}); err != nil {
		return false, err
	}
	return true, nil
}
