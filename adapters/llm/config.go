package llm

import "fmt"

const (
	defaultOpenAIModel = "gpt-3.5-turbo"
	defaultGeminiModel = "gemini-2.0-flash"
	defaultMaxTokens   = 300
	defaultTemperature = 0.7
)

// Config holds the generation settings shared by every backend.
// Required fields:
// - APIKey: credential of the selected provider
// Optional fields with defaults:
// - Model: provider specific model name
// - MaxTokens: upper bound on the reply length (default: 300)
// - Temperature: sampling temperature between 0 and 2 (default: 0.7)
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
}

// ValidateConfig validates the generation settings
func ValidateConfig(config Config) error {
	if config.MaxTokens < 0 {
		return fmt.Errorf("max tokens must be positive, got %d", config.MaxTokens)
	}

	if config.Temperature < 0 || config.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %f", config.Temperature)
	}

	return nil
}

func withDefaults(config Config, model string) Config {
	if config.Model == "" {
		config.Model = model
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = defaultMaxTokens
	}
	if config.Temperature == 0 {
		config.Temperature = defaultTemperature
	}
	return config
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
