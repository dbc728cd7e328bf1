package tts

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/satriahrh/agrivoice/server/domain/repositories"
)

const (
	defaultOpenAIModel = "gpt-4o-mini-tts"
	defaultOpenAIVoice = "alloy"
)

// OpenAIConfig holds configuration for the OpenAI speech adapter
type OpenAIConfig struct {
	Model string // Optional: speech model (default: "gpt-4o-mini-tts")
	Voice string // Optional: voice name (default: "alloy")
}

// OpenAITTS implements TextToSpeech using the OpenAI speech endpoint
type OpenAITTS struct {
	client *openai.Client
	model  string
	voice  string
	logger *zap.Logger
}

var _ repositories.TextToSpeech = (*OpenAITTS)(nil)

// NewOpenAITTS creates a synthesizer over a shared OpenAI client
func NewOpenAITTS(client *openai.Client, config OpenAIConfig, logger *zap.Logger) *OpenAITTS {
	model := config.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	voice := config.Voice
	if voice == "" {
		voice = defaultOpenAIVoice
	}

	return &OpenAITTS{
		client: client,
		model:  model,
		voice:  voice,
		logger: logger,
	}
}

// SynthesizeToFile renders text as MP3 into dst
func (o *OpenAITTS) SynthesizeToFile(ctx context.Context, text string, dst string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.model),
		Input:          text,
		Voice:          openai.SpeechVoice(o.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()

	n, err := writeAudio(dst, resp)
	if err != nil {
		return err
	}

	o.logger.Debug("Speech written",
		zap.String("path", dst),
		zap.String("voice", o.voice),
		zap.Int64("bytes", n))
	return nil
}

// writeAudio streams src into dst. A failed write may leave a truncated file behind.
func writeAudio(dst string, src io.Reader) (int64, error) {
	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}

	n, err := io.Copy(out, src)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, fmt.Errorf("failed to write audio: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("no audio data received")
	}

	return n, nil
}
