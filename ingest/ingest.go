package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"newsrag/config"
	"newsrag/embeddings"
	"newsrag/types"
	"newsrag/vectorstore"
)

// Archiver keeps a durable copy of indexed articles; optional.
type Archiver interface {
	ArchiveArticle(ctx context.Context, article types.Article) error
}

// Indexer embeds articles and writes them as points into the vector
// store, optionally archiving each one.
type Indexer struct {
	embedder   embeddings.Provider
	index      vectorstore.Index
	archive    Archiver
	seen       SeenFilter
	collection string
}

// NewIndexer wires an indexer; archive and seen may be nil.
func NewIndexer(embedder embeddings.Provider, index vectorstore.Index, archive Archiver, seen SeenFilter) *Indexer {
	return &Indexer{
		embedder:   embedder,
		index:      index,
		archive:    archive,
		seen:       seen,
		collection: config.CollectionName,
	}
}

// IndexArticles embeds title+content for each article and upserts the
// resulting points, skipping articles the seen filter already holds.
// Archive failures are logged, not fatal.
func (ix *Indexer) IndexArticles(ctx context.Context, articles []*types.Article) error {
	articles = ix.filterSeen(ctx, articles)
	if len(articles) == 0 {
		return nil
	}

	texts := make([]string, len(articles))
	for i, a := range articles {
		texts[i] = a.Title + ". " + a.FullContent
	}

	vectors, err := ix.embedder.EmbedTexts(ctx, texts, embeddings.InputDocument)
	if err != nil {
		return fmt.Errorf("embedding %d articles: %w", len(articles), err)
	}

	points := make([]vectorstore.Point, len(articles))
	for i, a := range articles {
		points[i] = vectorstore.Point{
			ID:      uuid.NewString(),
			Vector:  vectors[i],
			Payload: *a,
		}
	}
	if err := ix.index.Upsert(ctx, ix.collection, points); err != nil {
		return fmt.Errorf("storing %d article points: %w", len(points), err)
	}
	log.Printf("Indexed %d article(s)", len(points))

	for _, a := range articles {
		if ix.seen != nil {
			if err := ix.seen.Mark(ctx, a); err != nil {
				log.Printf("Seen filter mark failed for %s: %v", a.Link, err)
			}
		}
		if ix.archive != nil {
			if err := ix.archive.ArchiveArticle(ctx, *a); err != nil {
				log.Printf("Archive failed for %s: %v", a.Link, err)
			}
		}
	}
	return nil
}

// filterSeen returns the articles not already in the filter, leaving
// the input slice untouched. On filter errors the article is kept.
func (ix *Indexer) filterSeen(ctx context.Context, articles []*types.Article) []*types.Article {
	if ix.seen == nil {
		return articles
	}
	fresh := make([]*types.Article, 0, len(articles))
	for _, a := range articles {
		dup, err := ix.seen.Seen(ctx, a)
		if err != nil {
			log.Printf("Seen filter check failed for %s: %v", a.Link, err)
		} else if dup {
			continue
		}
		fresh = append(fresh, a)
	}
	return fresh
}
