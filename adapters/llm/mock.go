package llm

import (
	"context"
	"fmt"

	"github.com/satriahrh/agrivoice/server/domain/repositories"
)

// MockLLM is a placeholder implementation for local runs without a provider
type MockLLM struct{}

// NewMockLLM creates a new mock generator
func NewMockLLM() repositories.LargeLanguageModel {
	return &MockLLM{}
}

// Generate implements repositories.LargeLanguageModel
func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("prompt is empty")
	}
	return "Well, you know... that's a really good question. Umm... start with well-rotted manure, " +
		"plant right after the first good rain, and keep an eye on your neighbours' fields too.", nil
}
