package stt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/satriahrh/agrivoice/server/domain/repositories"
)

// GoogleConfig holds configuration for the Google Cloud Speech adapter.
// Credentials are resolved through Application Default Credentials.
type GoogleConfig struct {
	DefaultLanguage string // Optional: language used when the caller passes none (default: "en")
	SampleRate      int    // Optional: sample rate in Hz, 0 lets the service read it from the header
}

// GoogleSpeechToText implements SpeechToText for Google Cloud
type GoogleSpeechToText struct {
	client          *speech.Client
	store           repositories.FileStore
	defaultLanguage string
	sampleRate      int
	logger          *zap.Logger
}

var _ repositories.SpeechToText = (*GoogleSpeechToText)(nil)

// NewGoogleSpeechToText creates the speech client once for the lifetime of the adapter
func NewGoogleSpeechToText(ctx context.Context, store repositories.FileStore, config GoogleConfig, logger *zap.Logger) (*GoogleSpeechToText, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	language := config.DefaultLanguage
	if language == "" {
		language = defaultLanguage
	}

	return &GoogleSpeechToText{
		client:          client,
		store:           store,
		defaultLanguage: language,
		sampleRate:      config.SampleRate,
		logger:          logger,
	}, nil
}

// TranscribeFile converts the audio at path to text using synchronous recognition
func (g *GoogleSpeechToText) TranscribeFile(ctx context.Context, path string, language string) (string, error) {
	if language == "" {
		language = g.defaultLanguage
	}

	tempPath, cleanup, err := stageAudio(g.store, path)
	if err != nil {
		return "", err
	}
	defer cleanup()

	audioData, err := os.ReadFile(tempPath)
	if err != nil {
		return "", fmt.Errorf("failed to read audio: %w", err)
	}

	config := &speechpb.RecognitionConfig{
		Encoding:     encodingForExtension(filepath.Ext(path)),
		LanguageCode: language,
	}
	if g.sampleRate > 0 {
		config.SampleRateHertz = int32(g.sampleRate)
	}

	resp, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: config,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioData},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to recognize speech: %w", err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			// Take the best alternative
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no speech detected in audio")
	}

	g.logger.Debug("Google recognition completed", zap.Int("results", len(parts)))
	return strings.Join(parts, " "), nil
}

// Close releases the underlying gRPC connection
func (g *GoogleSpeechToText) Close() error {
	return g.client.Close()
}

// encodingForExtension maps a file extension to the Google Speech API enum.
// Containers the v1 API cannot name are left unspecified.
func encodingForExtension(ext string) speechpb.RecognitionConfig_AudioEncoding {
	switch strings.ToLower(ext) {
	case ".wav":
		return speechpb.RecognitionConfig_LINEAR16
	case ".flac":
		return speechpb.RecognitionConfig_FLAC
	case ".ogg":
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}
