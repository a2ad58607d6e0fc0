package synthesis

import (
	"context"
	"fmt"
	"log"
	"strings"

	"newsrag/generation"
	"newsrag/types"
)

// FailedAnswer is returned when the generation backend fails; callers
// still serve it as a normal answer rather than an error.
const FailedAnswer = "Failed to generate answer"

const promptTemplate = `You are a helpful assistant. Based on the following context, provide a concise and accurate answer to the query: "%s"

Context:
%s

Answer:`

// Service formats retrieved passages into a context block and asks the
// answerer for a grounded response.
type Service struct {
	answerer generation.Answerer
}

// New creates a synthesis service.
func New(answerer generation.Answerer) *Service {
	return &Service{answerer: answerer}
}

// Synthesize produces an answer to the query from the given passages,
// preserving their order in the prompt. Generation failure is non-fatal
// and yields FailedAnswer.
func (s *Service) Synthesize(ctx context.Context, query string, passages []types.Passage) string {
	prompt := fmt.Sprintf(promptTemplate, query, BuildContext(passages))

	answer, err := s.answerer.Generate(ctx, prompt)
	if err != nil {
		log.Printf("Error generating answer: %v", err)
		return FailedAnswer
	}
	return strings.TrimSpace(answer)
}

// BuildContext renders passages as numbered blocks separated by blank
// lines. Rank is the 1-based input position, not the similarity score.
func BuildContext(passages []types.Passage) string {
	blocks := make([]string, 0, len(passages))
	for i, p := range passages {
		blocks = append(blocks, fmt.Sprintf("Passage %d: %s\n%s", i+1, p.Title, p.FullContent))
	}
	return strings.Join(blocks, "\n\n")
}
