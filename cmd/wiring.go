package main

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/satriahrh/agrivoice/server/adapters/llm"
	"github.com/satriahrh/agrivoice/server/adapters/misconfigured"
	"github.com/satriahrh/agrivoice/server/adapters/stt"
	"github.com/satriahrh/agrivoice/server/adapters/tts"
	"github.com/satriahrh/agrivoice/server/domain/repositories"
	"github.com/satriahrh/agrivoice/server/internal/config"
)

// stages holds the three pipeline adapters and anything that must be closed on shutdown
type stages struct {
	speechToText repositories.SpeechToText
	llm          repositories.LargeLanguageModel
	textToSpeech repositories.TextToSpeech
	closers      []func() error
}

func (s *stages) Close() {
	for _, c := range s.closers {
		c()
	}
}

// newOpenAIClient returns nil when no key is configured
func newOpenAIClient(cfg *config.Config) *openai.Client {
	if cfg.OpenAIAPIKey == "" {
		return nil
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}

// buildStages selects a backend per stage. A missing credential wires a
// misconfigured stand-in instead of failing startup.
func buildStages(ctx context.Context, cfg *config.Config, store repositories.FileStore, logger *zap.Logger) (*stages, error) {
	client := newOpenAIClient(cfg)
	s := &stages{}

	missing := func(stage, setting string) misconfigured.Stage {
		logger.Warn("Stage is not configured, requests will fail until it is set",
			zap.String("stage", stage),
			zap.String("setting", setting))
		return misconfigured.New(setting)
	}

	// Speech to Text
	switch cfg.STTBackend {
	case config.BackendMock:
		s.speechToText = stt.NewMockSpeechToText(logger)
	case config.BackendGoogle:
		google, err := stt.NewGoogleSpeechToText(ctx, store, stt.GoogleConfig{
			DefaultLanguage: cfg.DefaultLanguage,
		}, logger)
		if err != nil {
			logger.Warn("Failed to create Google speech client", zap.Error(err))
			s.speechToText = missing("transcription", "GOOGLE_APPLICATION_CREDENTIALS")
		} else {
			s.speechToText = google
			s.closers = append(s.closers, google.Close)
		}
	default:
		if client == nil {
			s.speechToText = missing("transcription", "OPENAI_API_KEY")
		} else {
			s.speechToText = stt.NewWhisper(client, store, stt.WhisperConfig{
				Model:           cfg.STTModel,
				DefaultLanguage: cfg.DefaultLanguage,
			}, logger)
		}
	}

	// Response generation
	llmConfig := llm.Config{
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	}
	switch cfg.LLMBackend {
	case config.BackendMock:
		s.llm = llm.NewMockLLM()
	case config.BackendGemini:
		if cfg.GeminiAPIKey == "" {
			s.llm = missing("generation", "GEMINI_API_KEY")
			break
		}
		llmConfig.APIKey = cfg.GeminiAPIKey
		llmConfig.Model = cfg.GeminiModel
		gemini, err := llm.NewGeminiLLM(ctx, llmConfig, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini generator: %w", err)
		}
		s.llm = gemini
	default:
		if client == nil {
			s.llm = missing("generation", "OPENAI_API_KEY")
			break
		}
		chat, err := llm.NewOpenAIChat(client, llmConfig, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI generator: %w", err)
		}
		s.llm = chat
	}

	// Text to Speech
	switch cfg.TTSBackend {
	case config.BackendMock:
		s.textToSpeech = tts.NewMockTextToSpeech(logger)
	case config.BackendElevenLabs:
		elevenLabsConfig := tts.NewElevenLabsConfigFromEnv()
		if elevenLabsConfig.APIKey == "" {
			s.textToSpeech = missing("synthesis", "ELEVEN_LABS_API_KEY")
			break
		}
		elevenLabs, err := tts.NewElevenLabsTTS(elevenLabsConfig, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Eleven Labs synthesizer: %w", err)
		}
		s.textToSpeech = elevenLabs
	default:
		if client == nil {
			s.textToSpeech = missing("synthesis", "OPENAI_API_KEY")
		} else {
			s.textToSpeech = tts.NewOpenAITTS(client, tts.OpenAIConfig{
				Model: cfg.TTSModel,
				Voice: cfg.TTSVoice,
			}, logger)
		}
	}

	return s, nil
}
