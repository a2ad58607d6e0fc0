package retrieval

import (
	"context"
	"fmt"

	"newsrag/config"
	"newsrag/embeddings"
	"newsrag/types"
	"newsrag/vectorstore"
)

// Service turns a raw query into ranked passages: embed the query,
// search the vector index, map hits. Read-only.
type Service struct {
	embedder   embeddings.Provider
	index      vectorstore.Index
	collection string
}

// New creates a retrieval service over the standard collection.
func New(embedder embeddings.Provider, index vectorstore.Index) *Service {
	return &Service{embedder: embedder, index: index, collection: config.CollectionName}
}

// Retrieve returns up to k passages ranked by descending similarity.
// No re-ranking is applied beyond the index's ordering.
func (s *Service) Retrieve(ctx context.Context, query string, k int) ([]types.Passage, error) {
	if k < 1 {
		k = config.DefaultTopK
	}

	vectors, err := s.embedder.EmbedTexts(ctx, []string{query}, embeddings.InputQuery)
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("%w: empty query embedding", embeddings.ErrEmbedding)
	}

	hits, err := s.index.Search(ctx, s.collection, vectors[0], k)
	if err != nil {
		return nil, err
	}

	passages := make([]types.Passage, 0, len(hits))
	for _, hit := range hits {
		passages = append(passages, types.Passage{
			ID:          hit.ID,
			Score:       hit.Score,
			Title:       hit.Payload.Title,
			Link:        hit.Payload.Link,
			FullContent: hit.Payload.FullContent,
			PubDate:     hit.Payload.PubDate,
		})
	}
	return passages, nil
}
