package stt

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/satriahrh/agrivoice/server/domain/repositories"
)

// MockSpeechToText is a placeholder implementation for speech recognition
type MockSpeechToText struct {
	logger *zap.Logger
}

// NewMockSpeechToText creates a new mock speech-to-text service
func NewMockSpeechToText(logger *zap.Logger) repositories.SpeechToText {
	return &MockSpeechToText{
		logger: logger,
	}
}

// TranscribeFile implements repositories.SpeechToText
func (s *MockSpeechToText) TranscribeFile(ctx context.Context, path string, language string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("audio file unavailable: %w", err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("audio file is empty")
	}

	s.logger.Info("Processing speech-to-text",
		zap.Int64("audioSize", info.Size()),
		zap.String("language", language))

	// Mock transcription based on audio size
	switch {
	case info.Size() > 10000:
		return "When is the best time to plant millet before the rainy season?", nil
	case info.Size() > 1000:
		return "How do I keep my groundnut soil healthy?", nil
	default:
		return "Hello", nil
	}
}
