package generation

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI calls a chat-completions endpoint on any OpenAI-compatible server
// (OpenAI, Ollama, LM Studio, vLLM, etc.).
type OpenAI struct {
	client *openai.Client
	model  string
}

// Compile-time check: *OpenAI satisfies the Backend interface.
var _ Backend = (*OpenAI)(nil)

// NewOpenAI creates a backend against baseURL, e.g. "http://localhost:1234/v1".
func NewOpenAI(baseURL, apiKey, model string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (o *OpenAI) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", &GenerationError{Reason: "chat completion failed", Wrapped: err}
	}

	if len(resp.Choices) == 0 {
		return "", &GenerationError{Reason: "backend returned no choices"}
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", &GenerationError{Reason: "backend returned empty content"}
	}

	return content, nil
}
