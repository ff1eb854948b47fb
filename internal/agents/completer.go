// Package agents provides the Completer implementations that turn an
// Article into an Analysis, plus the Signal Generator and Signal Validator
// that sit downstream of the News Intelligence Core.
package agents

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	marketerrors "marketintel/internal/errors"
	"marketintel/pkg/utils"
)

// Completer is the collaborator contract for turning an article's text
// into a raw analysis payload. OpenAICompleter and MockCompleter are the
// implementations in this package.
type Completer interface {
	Provider() string
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAICompleter implements Completer against the OpenAI chat completion
// API. The provider name is only a tag; every instance talks to the
// default OpenAI endpoint.
type OpenAICompleter struct {
	client   *openai.Client
	model    string
	provider string
	retry    utils.RetryConfig
}

// NewOpenAICompleter builds an OpenAICompleter for the given API key and
// model, tagged with a provider name for logging and CompletionFailure
// reporting.
func NewOpenAICompleter(apiKey, model, provider string) *OpenAICompleter {
	if provider == "" {
		provider = "openai"
	}
	return &OpenAICompleter{
		client:   openai.NewClient(apiKey),
		model:    model,
		provider: provider,
		retry:    utils.DefaultRetryConfig(),
	}
}

// Provider returns the configured provider name.
func (c *OpenAICompleter) Provider() string { return c.provider }

// Complete sends a system+user prompt pair and returns the raw response
// text, retrying any failed call with exponential backoff (three attempts
// by default) before giving up. The orchestrator's circuit breaker wraps
// the whole agents.Analyze call, which falls back to the keyword parser
// instead of returning this error, so completion failures do not trip it.
func (c *OpenAICompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return utils.RetryWithResult(ctx, c.retry, func() (string, error) {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
		})
		if err != nil {
			return "", marketerrors.NewCompletionFailure(c.provider, err)
		}
		if len(resp.Choices) == 0 {
			return "", marketerrors.NewCompletionFailure(c.provider, fmt.Errorf("empty choice list"))
		}
		return resp.Choices[0].Message.Content, nil
	})
}

// MockCompleter is a test/offline Completer that returns a canned response.
type MockCompleter struct {
	Response string
	Err      error
}

// Provider returns "mock".
func (m *MockCompleter) Provider() string { return "mock" }

// Complete returns the canned response or error.
func (m *MockCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
