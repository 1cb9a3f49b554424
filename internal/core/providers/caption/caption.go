// Package caption defines the image description provider. A caption
// provider looks at raw image bytes and produces the alt text every
// downstream enrichment builds on.
package caption

import (
	"context"

	"imagesense/internal/platform/config"
	"imagesense/internal/platform/errors"
)

// Provider describes an image as concise alt text.
type Provider interface {
	Describe(ctx context.Context, data []byte, format string) (string, error)
}

// Factory builds a Provider from its config.
type Factory func(cfg *config.ProviderConfig) (Provider, error)

var factories = make(map[string]Factory)

// Register makes a provider type available to Create.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create instantiates the provider for cfg.Type.
func Create(cfg *config.ProviderConfig) (Provider, error) {
	factory, ok := factories[cfg.Type]
	if !ok {
		return nil, errors.New(errors.KindConfig, "caption.Create", "unknown caption provider: "+cfg.Type)
	}
	provider, err := factory(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.KindConfig, "caption.Create", "failed to create caption provider", err)
	}
	return provider, nil
}
