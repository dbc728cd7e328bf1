package repositories

import "context"

// LargeLanguageModel abstracts any text generation provider
type LargeLanguageModel interface {
	// Generate takes a fully composed prompt and returns the model's reply verbatim
	Generate(ctx context.Context, prompt string) (string, error)
}
