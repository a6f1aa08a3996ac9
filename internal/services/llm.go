// Language model [Completer] implementation backed by llmkit's Anthropic client.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aktagon/llmkit/anthropic/agents"
	"github.com/duskrunner/vibemix/internal/shared"
)

// defaultCompletionTimeout bounds a single completion call when the caller's
// context carries no deadline of its own.
const defaultCompletionTimeout = 30 * time.Second

// LLMService implements [Completer] on top of a llmkit chat agent.
//
// Each Complete call is independent; no conversation state is kept between
// pipeline stages.
type LLMService struct {
	agent       *agents.ChatAgent
	maxTokens   int
	temperature float64
	timeout     time.Duration

	// chat is the underlying completion call, swappable in tests.
	chat func(prompt string, opts *agents.ChatOptions) (string, error)
}

// NewLLMService creates an LLMService with the given API key and request settings.
func NewLLMService(apiKey string, maxTokens int, temperature float64, timeout time.Duration) (*LLMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: anthropic api key is not set", shared.ErrMissingCredentials)
	}

	agent, err := agents.New(apiKey)
	if err != nil {
		return nil, fmt.Errorf("creating chat agent: %w", err)
	}

	if maxTokens <= 0 {
		maxTokens = 4096
	}
	if timeout <= 0 {
		timeout = defaultCompletionTimeout
	}

	s := &LLMService{
		agent:       agent,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     timeout,
	}
	s.chat = func(prompt string, opts *agents.ChatOptions) (string, error) {
		response, err := s.agent.Chat(prompt, opts)
		if err != nil {
			return "", err
		}
		return response.Text, nil
	}

	return s, nil
}

// Complete sends the prompt and returns the trimmed response text.
//
// The underlying client has no context support, so the call runs in a
// goroutine and the result is dropped if the deadline passes first. Every
// call is bounded by the service timeout even when ctx has no deadline.
func (s *LLMService) Complete(ctx context.Context, prompt, system string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrCancelled, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type chatResult struct {
		text string
		err  error
	}

	done := make(chan chatResult, 1)
	go func() {
		text, err := s.chat(prompt, &agents.ChatOptions{
			SystemPrompt: system,
			MaxTokens:    s.maxTokens,
			Temperature:  s.temperature,
		})
		done <- chatResult{text: text, err: err}
	}()

	select {
	case <-callCtx.Done():
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %v", shared.ErrCancelled, err)
		}
		return "", fmt.Errorf("%w: completion timed out after %s", shared.ErrUpstream, s.timeout)
	case result := <-done:
		if result.err != nil {
			return "", fmt.Errorf("%w: %v", shared.ErrUpstream, result.err)
		}
		text := strings.TrimSpace(result.text)
		if text == "" {
			return "", fmt.Errorf("%w: empty completion", shared.ErrUpstream)
		}
		return text, nil
	}
}
