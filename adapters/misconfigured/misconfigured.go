// Package misconfigured provides stage implementations that refuse every call.
// They stand in for a backend whose credential is missing so the service can
// start and report the problem per request instead of crashing.
package misconfigured

import (
	"context"

	"github.com/satriahrh/agrivoice/server/domain"
	"github.com/satriahrh/agrivoice/server/domain/repositories"
)

// Stage fails every call with a ConfigurationError naming Setting
type Stage struct {
	Setting string
}

var (
	_ repositories.SpeechToText       = Stage{}
	_ repositories.LargeLanguageModel = Stage{}
	_ repositories.TextToSpeech       = Stage{}
	_ repositories.Preflighter        = Stage{}
)

// New returns a stage that reports setting as missing
func New(setting string) Stage {
	return Stage{Setting: setting}
}

func (s Stage) err() error {
	return &domain.ConfigurationError{Setting: s.Setting}
}

// TranscribeFile implements repositories.SpeechToText
func (s Stage) TranscribeFile(context.Context, string, string) (string, error) {
	return "", s.err()
}

// Generate implements repositories.LargeLanguageModel
func (s Stage) Generate(context.Context, string) (string, error) {
	return "", s.err()
}

// SynthesizeToFile implements repositories.TextToSpeech
func (s Stage) SynthesizeToFile(context.Context, string, string) error {
	return s.err()
}

// Preflight implements repositories.Preflighter
func (s Stage) Preflight() error {
	return s.err()
}
