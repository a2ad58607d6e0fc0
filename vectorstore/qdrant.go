package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"newsrag/config"
	"newsrag/types"
)

// ErrIndex marks failures of the vector index backend.
var ErrIndex = errors.New("vector index request failed")

// Index is the nearest-neighbor store consumed by retrieval, ingestion
// and the trending miner.
type Index interface {
	EnsureCollection(ctx context.Context, name string, dim int) error
	Upsert(ctx context.Context, name string, points []Point) error
	Search(ctx context.Context, name string, vector []float32, limit int) ([]Hit, error)
	Scroll(ctx context.Context, name string, limit int) ([]Record, error)
}

// Point is a vector plus its article payload, keyed by a UUID.
type Point struct {
	ID      string        `json:"id"`
	Vector  []float32     `json:"vector"`
	Payload types.Article `json:"payload"`
}

// Hit is one ranked search result.
type Hit struct {
	ID      string
	Score   float32
	Payload types.Article
}

// Record is one scrolled point (no score; scroll order is not ranked).
type Record struct {
	ID      string
	Payload types.Article
}

// Qdrant is a minimal REST client to Qdrant. It assumes cosine distance
// and client-supplied embeddings.
type Qdrant struct {
	url    string
	apiKey string
	client *http.Client
}

// Config holds Qdrant connection settings.
type Config struct {
	URL     string // e.g. http://localhost:6333
	APIKey  string
	Timeout time.Duration
}

// NewQdrant creates a Qdrant client.
func NewQdrant(cfg Config) *Qdrant {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Qdrant{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

// NewQdrantFromEnv creates a Qdrant client from QDRANT_URL and QDRANT_API_KEY.
func NewQdrantFromEnv() *Qdrant {
	return NewQdrant(Config{
		URL:    config.GetEnvOrDefault("QDRANT_URL", "http://localhost:6333"),
		APIKey: config.GetEnvOrDefault("QDRANT_API_KEY", ""),
	})
}

// EnsureCollection creates the collection if it does not exist yet.
// An existing collection with the same schema is left untouched.
func (q *Qdrant) EnsureCollection(ctx context.Context, name string, dim int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/collections/%s", q.url, name), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndex, err)
	}
	q.setHeaders(req)
	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndex, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		log.Printf("Using existing collection: %s", name)
		return nil
	}

	log.Printf("Creating collection: %s", name)
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dim,
			"distance": "Cosine",
		},
	}
	return q.putJSON(ctx, fmt.Sprintf("%s/collections/%s", q.url, name), body)
}

// Upsert writes points into the collection, waiting for them to be indexed.
func (q *Qdrant) Upsert(ctx context.Context, name string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	body := map[string]any{"points": points}
	return q.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", q.url, name), body)
}

// Search runs a nearest-neighbor query and returns hits in descending
// score order, payloads included.
func (q *Qdrant) Search(ctx context.Context, name string, vector []float32, limit int) ([]Hit, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	var parsed struct {
		Result []struct {
			ID      any           `json:"id"`
			Score   float32       `json:"score"`
			Payload types.Article `json:"payload"`
		} `json:"result"`
	}
	if err := q.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", q.url, name), body, &parsed); err != nil {
		return nil, err
	}
	hits := make([]Hit, 0, len(parsed.Result))
	for _, r := range parsed.Result {
		hits = append(hits, Hit{ID: fmt.Sprint(r.ID), Score: r.Score, Payload: r.Payload})
	}
	return hits, nil
}

// Scroll fetches up to limit points without ranking, payloads included.
func (q *Qdrant) Scroll(ctx context.Context, name string, limit int) ([]Record, error) {
	body := map[string]any{
		"limit":        limit,
		"with_payload": true,
	}
	var parsed struct {
		Result struct {
			Points []struct {
				ID      any           `json:"id"`
				Payload types.Article `json:"payload"`
			} `json:"points"`
		} `json:"result"`
	}
	if err := q.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/scroll", q.url, name), body, &parsed); err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(parsed.Result.Points))
	for _, p := range parsed.Result.Points {
		records = append(records, Record{ID: fmt.Sprint(p.ID), Payload: p.Payload})
	}
	return records, nil
}

func (q *Qdrant) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}
}

func (q *Qdrant) putJSON(ctx context.Context, url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndex, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndex, err)
	}
	q.setHeaders(req)
	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndex, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: PUT %s: %s: %s", ErrIndex, url, resp.Status, msg)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (q *Qdrant) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndex, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndex, err)
	}
	q.setHeaders(req)
	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndex, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: POST %s: %s: %s", ErrIndex, url, resp.Status, msg)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrIndex, err)
	}
	return nil
}
