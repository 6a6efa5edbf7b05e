package llm

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"prdgen/internal/config"
	"prdgen/internal/domain"
	"prdgen/internal/domain/models"
	domainllm "prdgen/internal/domain/services/llm"
)

// gateway implements the Gateway interface. It owns prompt construction and
// the provider call; it never persists anything and never retries - the
// caller decides whether to re-prompt.
type gateway struct {
	registry *Registry
	model    string
	logger   *slog.Logger
}

// NewGateway creates a generation gateway bound to the configured model.
func NewGateway(registry *Registry, model string, logger *slog.Logger) domainllm.Gateway {
	return &gateway{
		registry: registry,
		model:    model,
		logger:   logger,
	}
}

// GenerateProductPRD produces a full product-level PRD from a user brief.
func (g *gateway) GenerateProductPRD(ctx context.Context, brief string) (string, error) {
	if err := validateBrief(brief); err != nil {
		return "", fmt.Errorf("%w: brief %v", domain.ErrValidation, err)
	}

	return g.generate(ctx, "generate product prd", &domainllm.GenerateRequest{
		System: createSystemPrompt,
		Messages: []models.Message{
			{Role: models.RoleUser, Content: buildCreateUserMessage(brief)},
		},
		MaxTokens:   config.CreateMaxTokens,
		Temperature: config.CreateTemperature,
	})
}

// GenerateEpicPRD produces an epic-level PRD grounded in its parent product.
func (g *gateway) GenerateEpicPRD(ctx context.Context, brief, parentContent string, jiraKey *string) (string, error) {
	if err := validateBrief(brief); err != nil {
		return "", fmt.Errorf("%w: brief %v", domain.ErrValidation, err)
	}
	if parentContent == "" {
		return "", fmt.Errorf("%w: parent content is required for epic generation", domain.ErrValidation)
	}

	return g.generate(ctx, "generate epic prd", &domainllm.GenerateRequest{
		System: buildEpicSystemPrompt(parentContent, jiraKey),
		Messages: []models.Message{
			{Role: models.RoleUser, Content: buildCreateUserMessage(brief)},
		},
		MaxTokens:   config.CreateMaxTokens,
		Temperature: config.CreateTemperature,
	})
}

// Chat answers an iteration message against the current document content.
// Only the trailing ChatHistoryWindow transcript entries are replayed.
func (g *gateway) Chat(ctx context.Context, userMessage, currentContent string, transcript []models.Message) (string, error) {
	if err := validateBrief(userMessage); err != nil {
		return "", fmt.Errorf("%w: message %v", domain.ErrValidation, err)
	}

	window := transcript
	if len(window) > config.ChatHistoryWindow {
		window = window[len(window)-config.ChatHistoryWindow:]
	}

	messages := make([]models.Message, 0, len(window)+1)
	messages = append(messages, window...)
	messages = append(messages, models.Message{Role: models.RoleUser, Content: userMessage})

	return g.generate(ctx, "chat", &domainllm.GenerateRequest{
		System:      buildChatSystemPrompt(currentContent),
		Messages:    messages,
		MaxTokens:   config.ChatMaxTokens,
		Temperature: config.ChatTemperature,
	})
}

// SuggestImprovements compares the current content against a bounded sample
// of the approved corpus. The corpus arrives most-recently-updated first and
// is capped at MaxCorpusExamples; an empty corpus short-circuits to the
// sentinel without an upstream call.
func (g *gateway) SuggestImprovements(ctx context.Context, currentContent string, corpus []models.Document) (string, error) {
	if len(corpus) == 0 {
		return domainllm.NoApprovedCorpus, nil
	}
	if len(corpus) > config.MaxCorpusExamples {
		corpus = corpus[:config.MaxCorpusExamples]
	}

	return g.generate(ctx, "suggest improvements", &domainllm.GenerateRequest{
		System: buildSuggestSystemPrompt(corpus),
		Messages: []models.Message{
			{Role: models.RoleUser, Content: buildSuggestUserMessage(currentContent)},
		},
		MaxTokens:   config.SuggestMaxTokens,
		Temperature: config.SuggestTemperature,
	})
}

func (g *gateway) generate(ctx context.Context, op string, req *domainllm.GenerateRequest) (string, error) {
	req.Model = g.model

	provider, err := g.registry.Resolve(g.model)
	if err != nil {
		return "", &domain.GenerationError{Op: op, Reason: err.Error()}
	}

	text, err := provider.Generate(ctx, req)
	if err != nil {
		g.logger.Error("generation failed",
			"op", op,
			"provider", provider.Name(),
			"model", g.model,
			"error", err,
		)
		return "", &domain.GenerationError{Op: op, Reason: err.Error()}
	}

	return text, nil
}

func validateBrief(brief string) error {
	return validation.Validate(brief,
		validation.Required,
		validation.Length(1, config.MaxBriefLength),
	)
}
