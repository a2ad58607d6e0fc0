package embeddings

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// ErrEmbedding marks failures of the embedding backend. Callers that can
// degrade (retrieval returning no results) match on it with errors.Is.
var ErrEmbedding = errors.New("embedding request failed")

// InputType distinguishes corpus documents from search queries; the
// model embeds them differently.
type InputType string

const (
	InputDocument InputType = "search_document"
	InputQuery    InputType = "search_query"
)

// Provider abstracts a text->embedding generator.
// Implementations return one vector per input text, in input order.
type Provider interface {
	EmbedTexts(ctx context.Context, texts []string, input InputType) ([][]float32, error)
	ModelName() string
}

// CohereEmbeddings implements Provider using the Cohere Embed API (v2)
// SDK: github.com/cohere-ai/cohere-go/v2
type CohereEmbeddings struct {
	client *cohereclient.Client
	model  string
}

// NewCohereFromEnv builds a Cohere embeddings provider from COHERE_API_KEY
// and optionally EMBEDDING_MODEL.
func NewCohereFromEnv() (*CohereEmbeddings, error) {
	apiKey := os.Getenv("COHERE_API_KEY")
	if apiKey == "" {
		return nil, errors.New("COHERE_API_KEY is not set")
	}

	// Default has 768-dimension output, matching the collection schema
	const defaultModel = "embed-multilingual-v2.0"
	model := os.Getenv("EMBEDDING_MODEL")
	if model != "" && !strings.HasPrefix(model, "embed-") {
		log.Printf("EMBEDDING_MODEL %q is not an embed model, using %s", model, defaultModel)
		model = ""
	}
	if model == "" {
		model = defaultModel
	}

	// Force HTTP/1.1 to avoid HTTP/2 protocol errors against the Cohere API
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &CohereEmbeddings{client: client, model: model}, nil
}

func (c *CohereEmbeddings) ModelName() string { return c.model }

// EmbedTexts embeds a batch of texts, returning one float vector per input.
func (c *CohereEmbeddings) EmbedTexts(ctx context.Context, texts []string, input InputType) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	inputType := cohere.EmbedInputTypeSearchDocument
	if input == InputQuery {
		inputType = cohere.EmbedInputTypeSearchQuery
	}

	resp, err := c.client.V2.Embed(
		ctx,
		&cohere.V2EmbedRequest{
			Texts:          texts,
			Model:          c.model,
			InputType:      inputType,
			EmbeddingTypes: []cohere.EmbeddingType{cohere.EmbeddingTypeFloat},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	if resp == nil || resp.Embeddings == nil || resp.Embeddings.Float == nil {
		return nil, fmt.Errorf("%w: empty response", ErrEmbedding)
	}

	floats := resp.Embeddings.Float
	if len(floats) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", ErrEmbedding, len(floats), len(texts))
	}

	out := make([][]float32, len(floats))
	for i, vec := range floats {
		v := make([]float32, len(vec))
		for j, f := range vec {
			v[j] = float32(f)
		}
		out[i] = v
	}
	return out, nil
}
