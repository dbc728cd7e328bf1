package stt

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/satriahrh/agrivoice/server/domain/repositories"
)

const (
	defaultWhisperModel = openai.Whisper1
	defaultLanguage     = "en"
)

// WhisperConfig holds configuration for the Whisper adapter
type WhisperConfig struct {
	Model           string // Optional: transcription model (default: "whisper-1")
	DefaultLanguage string // Optional: language used when the caller passes none (default: "en")
}

// Whisper implements SpeechToText using the OpenAI transcription endpoint
type Whisper struct {
	client          *openai.Client
	store           repositories.FileStore
	model           string
	defaultLanguage string
	logger          *zap.Logger
}

var _ repositories.SpeechToText = (*Whisper)(nil)

// NewWhisper creates a Whisper adapter over a shared OpenAI client
func NewWhisper(client *openai.Client, store repositories.FileStore, config WhisperConfig, logger *zap.Logger) *Whisper {
	model := config.Model
	if model == "" {
		model = defaultWhisperModel
	}

	language := config.DefaultLanguage
	if language == "" {
		language = defaultLanguage
	}

	return &Whisper{
		client:          client,
		store:           store,
		model:           model,
		defaultLanguage: language,
		logger:          logger,
	}
}

// TranscribeFile sends a scratch copy of the audio at path to Whisper
func (w *Whisper) TranscribeFile(ctx context.Context, path string, language string) (string, error) {
	if language == "" {
		language = w.defaultLanguage
	}

	tempPath, cleanup, err := stageAudio(w.store, path)
	if err != nil {
		return "", err
	}
	defer cleanup()

	w.logger.Debug("Sending audio to Whisper",
		zap.String("path", tempPath),
		zap.String("model", w.model),
		zap.String("language", language))

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: tempPath,
		Language: language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("whisper request: %w", err)
	}

	return resp.Text, nil
}

// stageAudio checks that path holds audio and copies it into the scratch directory.
// The returned cleanup removes the copy.
func stageAudio(store repositories.FileStore, path string) (string, func(), error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("audio file unavailable: %w", err)
	}
	if info.Size() == 0 {
		return "", nil, fmt.Errorf("audio file is empty")
	}

	tempPath, err := store.StageTemp(path)
	if err != nil {
		return "", nil, err
	}

	return tempPath, func() { _ = store.Discard(tempPath) }, nil
}
