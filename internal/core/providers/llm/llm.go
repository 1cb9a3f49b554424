// Package llm defines the chat-completion client used by the text
// generation layer, plus the factory that maps configured provider
// types onto implementations.
package llm

import (
	"context"

	"imagesense/internal/platform/config"
	"imagesense/internal/platform/errors"
)

// ChatRequest is one non-streaming completion call.
type ChatRequest struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// Client runs chat completions against a model backend.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// Factory builds a Client from its provider config.
type Factory func(cfg *config.ProviderConfig) (Client, error)

var factories = make(map[string]Factory)

// Register makes a provider type available to Create.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create instantiates the client for cfg.Type.
func Create(cfg *config.ProviderConfig) (Client, error) {
	factory, ok := factories[cfg.Type]
	if !ok {
		return nil, errors.New(errors.KindConfig, "llm.Create", "unknown LLM provider: "+cfg.Type)
	}
	client, err := factory(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.KindConfig, "llm.Create", "failed to create LLM provider", err)
	}
	return client, nil
}
