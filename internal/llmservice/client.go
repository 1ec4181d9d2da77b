// Package llmservice is the gateway to the chat-completion model. Each call
// is stateless: the caller supplies the full prompt every time.
package llmservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"rag-assistant/internal/config"
)

// Client completes prompts against one configured model.
type Client struct {
	llm     llms.Model
	timeout time.Duration
}

func New(cfg *config.LLMConfig) (*Client, error) {
	var (
		llm llms.Model
		err error
	)
	switch cfg.Provider {
	case "ollama":
		llm, err = ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.ChatModel),
		)
	default:
		llm, err = openai.New(
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
			openai.WithModel(cfg.ChatModel),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("error initializing LLM: %w", err)
	}
	return &Client{llm: llm, timeout: time.Duration(cfg.TimeoutSecs) * time.Second}, nil
}

// Complete sends one prompt and returns the model's text. With jsonMode the
// model is constrained to emit a single JSON object.
func (c *Client) Complete(ctx context.Context, prompt string, jsonMode bool, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	opts := []llms.CallOption{llms.WithTemperature(temperature)}
	if jsonMode {
		opts = append(opts, llms.WithJSONMode())
	}
	res, err := c.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return res.Choices[0].Content, nil
}
