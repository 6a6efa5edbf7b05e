package lorem

import (
	"context"
	"fmt"
	"strings"

	loremgen "github.com/bozaro/golorem"

	domainllm "prdgen/internal/domain/services/llm"
)

// Provider is a mock text-generation provider that produces lorem ipsum.
// Used for development and tests without requiring real API keys.
type Provider struct {
	generator *loremgen.Lorem
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// SupportsModel returns true if the model name starts with "lorem-".
// Example models: "lorem-fast", "lorem-test"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

// Generate produces lorem ipsum text sized to the token budget.
func (p *Provider) Generate(ctx context.Context, req *domainllm.GenerateRequest) (string, error) {
	if !p.SupportsModel(req.Model) {
		return "", fmt.Errorf("model '%s' is not supported by lorem provider", req.Model)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	// Estimate: 1 token ≈ 4 characters
	return p.generateText(req.MaxTokens * 4), nil
}

// generateText generates lorem ipsum with approximately targetChars characters.
func (p *Provider) generateText(targetChars int) string {
	var b strings.Builder
	for b.Len() < targetChars {
		paragraph := p.generator.Paragraph(3, 5)
		b.WriteString(paragraph)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}
