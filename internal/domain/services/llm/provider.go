package llm

import (
	"context"

	"prdgen/internal/domain/models"
)

// GenerateRequest is the provider-neutral shape of one text-generation call.
type GenerateRequest struct {
	Model       string
	System      string
	Messages    []models.Message
	MaxTokens   int
	Temperature float64
}

// Provider is a text-generation backend. Implementations are synchronous
// and carry no retry or timeout logic; callers own cancellation via ctx.
type Provider interface {
	// Name returns the provider name
	Name() string

	// SupportsModel reports whether this provider serves the given model
	SupportsModel(model string) bool

	// Generate performs a single blocking completion call and returns the
	// generated text.
	Generate(ctx context.Context, req *GenerateRequest) (string, error)
}
