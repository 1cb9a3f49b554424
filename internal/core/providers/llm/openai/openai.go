// Package openai implements the chat client on the OpenAI API.
package openai

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"imagesense/internal/core/providers/llm"
	"imagesense/internal/platform/config"
	"imagesense/internal/platform/errors"
)

func init() {
	llm.Register("openai", NewClient)
}

// Client wraps the go-openai client with the configured defaults.
type Client struct {
	api          *openai.Client
	defaultModel string
}

// NewClient builds a client from provider config. The API key is
// required; base URL is optional and covers OpenAI-compatible backends.
func NewClient(cfg *config.ProviderConfig) (llm.Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.KindConfig, "openai.NewClient", "missing OpenAI API key")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:          openai.NewClientWithConfig(clientConfig),
		defaultModel: cfg.ModelName,
	}, nil
}

// Chat runs one non-streaming completion and returns the message text.
func (c *Client) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", errors.Wrap(errors.KindUpstream, "openai.Chat", "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.KindUpstream, "openai.Chat", "chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
