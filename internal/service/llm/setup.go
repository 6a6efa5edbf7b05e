package llm

import (
	"fmt"
	"log/slog"

	"prdgen/internal/config"
	"prdgen/internal/service/llm/providers/anthropic"
	"prdgen/internal/service/llm/providers/lorem"
)

// SetupRegistry initializes the provider registry from config. The lorem
// mock provider is always available so keyless dev environments work with
// DEFAULT_MODEL=lorem-fast.
func SetupRegistry(cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	registry := NewRegistry()

	if cfg.AnthropicAPIKey != "" {
		provider, err := anthropic.NewProvider(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, fmt.Errorf("setup anthropic provider: %w", err)
		}
		registry.Register(provider)
		logger.Info("provider available", "name", "anthropic", "models", "claude-*")
	} else {
		logger.Warn("ANTHROPIC_API_KEY not set - Anthropic provider not available")
	}

	registry.Register(lorem.NewProvider())
	logger.Info("provider available", "name", "lorem", "models", "lorem-*")

	// Fail fast if the configured model has no provider.
	if _, err := registry.Resolve(cfg.DefaultModel); err != nil {
		return nil, fmt.Errorf("default model: %w", err)
	}

	return registry, nil
}
