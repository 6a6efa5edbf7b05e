package llm

import (
	"context"

	"prdgen/internal/domain/models"
)

// Gateway owns prompt construction for every generation path so grounding
// context (parent content, transcript, corpus excerpts) is assembled
// consistently regardless of which caller triggers generation. It never
// persists anything and never retries; failures surface as
// domain.GenerationError.
type Gateway interface {
	// GenerateProductPRD produces a full product-level PRD from a user brief.
	GenerateProductPRD(ctx context.Context, brief string) (string, error)

	// GenerateEpicPRD produces an epic-level PRD grounded in the full parent
	// product content. jiraKey, if given, is embedded as a cross-reference
	// annotation only and never validated.
	GenerateEpicPRD(ctx context.Context, brief, parentContent string, jiraKey *string) (string, error)

	// Chat answers an iteration message against the current document
	// content, replaying a bounded, recency-biased window of the transcript.
	Chat(ctx context.Context, userMessage, currentContent string, transcript []models.Message) (string, error)

	// SuggestImprovements compares the current content against a bounded
	// sample of the approved corpus. An empty corpus yields the
	// NoApprovedCorpus sentinel text without an upstream call.
	SuggestImprovements(ctx context.Context, currentContent string, corpus []models.Document) (string, error)
}

// NoApprovedCorpus is the informational result of SuggestImprovements when
// no approved documents exist. It is a valid reply, not an error.
const NoApprovedCorpus = "No approved PRDs available for comparison."
