package generation

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// ErrGeneration marks failures of the chat backend.
var ErrGeneration = errors.New("generation request failed")

// Answerer produces a natural-language completion for a prompt.
type Answerer interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// CohereAnswerer implements Answerer using the Cohere Chat API (v2).
type CohereAnswerer struct {
	client *cohereclient.Client
	model  string
}

// NewCohereFromEnv builds a Cohere chat client from COHERE_API_KEY and
// optionally GENERATION_MODEL.
func NewCohereFromEnv() (*CohereAnswerer, error) {
	apiKey := os.Getenv("COHERE_API_KEY")
	if apiKey == "" {
		return nil, errors.New("COHERE_API_KEY is not set")
	}

	model := os.Getenv("GENERATION_MODEL")
	if model == "" {
		model = "command-r-08-2024"
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
	return &CohereAnswerer{client: client, model: model}, nil
}

func (c *CohereAnswerer) ModelName() string { return c.model }

// userMessage wraps a prompt as a single v2 chat message.
func userMessage(prompt string) *cohere.ChatMessageV2 {
	return &cohere.ChatMessageV2{
		Role: "user",
		User: &cohere.UserMessageV2{
			Content: &cohere.UserMessageV2Content{String: prompt},
		},
	}
}

// Generate sends the prompt as a single user message and returns the
// assistant's text.
func (c *CohereAnswerer) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.V2.Chat(
		ctx,
		&cohere.V2ChatRequest{
			Model:    c.model,
			Messages: cohere.ChatMessages{userMessage(prompt)},
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if resp == nil || resp.Message == nil {
		return "", fmt.Errorf("%w: empty response", ErrGeneration)
	}

	var b strings.Builder
	for _, item := range resp.Message.Content {
		if item != nil && item.Text != nil {
			b.WriteString(item.Text.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%w: response had no text content", ErrGeneration)
	}
	return text, nil
}
