package config

const (
	// MaxTitleLength is the maximum length for document titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (titles should be short and descriptive).
	MaxTitleLength = 255

	// MaxBriefLength caps the user brief fed to a creation prompt.
	MaxBriefLength = 20000

	// MaxFeedbackLength caps the free-text note attached at approval time.
	MaxFeedbackLength = 2000

	// ChatHistoryWindow is the number of trailing transcript entries
	// replayed into a chat prompt. Context-window control, recency-biased.
	ChatHistoryWindow = 10

	// MaxCorpusExamples is the number of approved documents sampled as
	// reference examples for improvement suggestions, most recently
	// updated first.
	MaxCorpusExamples = 3
)

// Output token budgets per generation path.
const (
	CreateMaxTokens  = 3000
	ChatMaxTokens    = 1500
	SuggestMaxTokens = 1000
)

// Sampling temperatures per generation path.
const (
	CreateTemperature  = 0.3
	ChatTemperature    = 0.4
	SuggestTemperature = 0.3
)
