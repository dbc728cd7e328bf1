package tts

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/agrivoice/server/domain/repositories"
)

// MockTextToSpeech is a placeholder implementation for text-to-speech
type MockTextToSpeech struct {
	logger *zap.Logger
}

// NewMockTextToSpeech creates a new mock text-to-speech service
func NewMockTextToSpeech(logger *zap.Logger) repositories.TextToSpeech {
	return &MockTextToSpeech{
		logger: logger,
	}
}

// SynthesizeToFile implements repositories.TextToSpeech
func (t *MockTextToSpeech) SynthesizeToFile(ctx context.Context, text string, dst string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	t.logger.Info("Processing text-to-speech", zap.Int("textLength", len(text)))

	// Mock audio data - an MPEG frame header followed by a pattern sized by the text
	mockAudio := make([]byte, 4+len(text)*100)
	copy(mockAudio, []byte{0xff, 0xfb, 0x90, 0x64})
	for i := 4; i < len(mockAudio); i++ {
		mockAudio[i] = byte(i % 256)
	}

	_, err := writeAudio(dst, bytes.NewReader(mockAudio))
	return err
}
