package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/duskrunner/vibemix/internal/services"
	"github.com/duskrunner/vibemix/internal/shared"
)

// optimizerInstructions rewrites a casual music request into a search query.
const optimizerInstructions = `You are a query optimizer that takes casual, natural language music requests
and rewrites them into short, concise, search-friendly queries that work well
for finding music lists results.

Rules:
- Output only the rewritten query, no explanations.
- Make it sound like a music search query a user would type on Google.
- Keep it concise (5-10 words max).
- Include important mood, vibe, genre, or activity keywords.
- Remove polite words like "please", "can you", etc.
- If the user asks for a playlist, format the search query to not include the word "playlist".

Examples:
Input: "give me a chill playlist for study"
Output: "best songs for chill and study"

Input: "I want to hear upbeat pop for working out"
Output: "upbeat pop workout songs"

Input: "play relaxing lo-fi beats"
Output: "relaxing lo-fi beats songs"

Input: "make a 2000s throwback punk playlist"
Output: "2000s throwback punk songs"

Input: "create a hype playlist for running"
Output: "hype running songs"`

// QueryOptimizer rewrites free-form user requests into search-engine queries.
type QueryOptimizer struct {
	completer services.Completer
}

// NewQueryOptimizer creates an optimizer backed by the given completion service.
func NewQueryOptimizer(completer services.Completer) *QueryOptimizer {
	return &QueryOptimizer{completer: completer}
}

// Optimize returns the search-friendly form of rawQuery. The model's trimmed
// response is returned verbatim; only non-emptiness is validated.
func (q *QueryOptimizer) Optimize(ctx context.Context, rawQuery string) (string, error) {
	text, err := q.completer.Complete(ctx, rawQuery, optimizerInstructions)
	if err != nil {
		return "", fmt.Errorf("query optimization failed: %w", err)
	}

	optimized := strings.TrimSpace(text)
	if optimized == "" {
		return "", fmt.Errorf("%w: optimizer returned empty text", shared.ErrUpstream)
	}

	return optimized, nil
}
