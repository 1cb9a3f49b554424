// Package openai implements the caption provider on the OpenAI
// vision API via multimodal chat messages.
package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"imagesense/internal/core/providers/caption"
	"imagesense/internal/platform/config"
	"imagesense/internal/platform/errors"
)

const describePrompt = "Describe this image in one concise sentence suitable as alt text. " +
	"State the main subject and setting plainly, without opinions or preamble."

func init() {
	caption.Register("openai", NewProvider)
}

// Provider describes images with an OpenAI vision model.
type Provider struct {
	api         *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewProvider builds the provider from its config.
func NewProvider(cfg *config.ProviderConfig) (caption.Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.KindConfig, "caption/openai.NewProvider", "missing OpenAI API key")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 100
	}

	return &Provider{
		api:         openai.NewClientWithConfig(clientConfig),
		model:       cfg.ModelName,
		maxTokens:   maxTokens,
		temperature: float32(cfg.Temperature),
	}, nil
}

// Describe sends the image inline as a data URL and returns the model's
// description.
func (p *Provider) Describe(ctx context.Context, data []byte, format string) (string, error) {
	if len(data) == 0 {
		return "", errors.New(errors.KindValidation, "caption.Describe", "empty image payload")
	}
	if format == "" {
		format = "png"
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	resp, err := p.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: describePrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: fmt.Sprintf("data:image/%s;base64,%s", format, encoded),
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", errors.Wrap(errors.KindUpstream, "caption.Describe", "vision completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.KindUpstream, "caption.Describe", "vision completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
