package lorem

import (
	"context"
	"testing"

	domainllm "prdgen/internal/domain/services/llm"
)

func TestProvider_SupportsModel(t *testing.T) {
	p := NewProvider()

	if !p.SupportsModel("lorem-fast") {
		t.Error("lorem-fast should be supported")
	}
	if p.SupportsModel("claude-haiku-4-5-20251001") {
		t.Error("claude models should not be supported")
	}
}

func TestProvider_GenerateSizedToTokenBudget(t *testing.T) {
	p := NewProvider()

	text, err := p.Generate(context.Background(), &domainllm.GenerateRequest{
		Model:     "lorem-fast",
		MaxTokens: 100,
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(text) < 400 {
		t.Errorf("generated %d chars, want at least 4 per token", len(text))
	}
}

func TestProvider_GenerateRejectsForeignModel(t *testing.T) {
	p := NewProvider()

	_, err := p.Generate(context.Background(), &domainllm.GenerateRequest{
		Model:     "claude-haiku-4-5-20251001",
		MaxTokens: 10,
	})
	if err == nil {
		t.Fatal("Generate succeeded for a non-lorem model")
	}
}

func TestProvider_GenerateHonorsCancellation(t *testing.T) {
	p := NewProvider()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, &domainllm.GenerateRequest{
		Model:     "lorem-fast",
		MaxTokens: 10,
	})
	if err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
