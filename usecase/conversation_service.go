package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/satriahrh/agrivoice/server/domain"
	"github.com/satriahrh/agrivoice/server/domain/entities"
	"github.com/satriahrh/agrivoice/server/domain/repositories"
)

const defaultLanguage = "en"

// Upload is an audio payload received from a client
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
	Language string
}

// ConversationService orchestrates the transcribe, generate and synthesize stages
type ConversationService struct {
	speechToText    repositories.SpeechToText
	llm             repositories.LargeLanguageModel
	textToSpeech    repositories.TextToSpeech
	store           repositories.FileStore
	defaultLanguage string
	logger          *zap.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(
	stt repositories.SpeechToText,
	llm repositories.LargeLanguageModel,
	tts repositories.TextToSpeech,
	store repositories.FileStore,
	language string,
	logger *zap.Logger,
) *ConversationService {
	if language == "" {
		language = defaultLanguage
	}

	return &ConversationService{
		speechToText:    stt,
		llm:             llm,
		textToSpeech:    tts,
		store:           store,
		defaultLanguage: language,
		logger:          logger,
	}
}

// RecommendFromAudio runs an upload through all three stages.
// Either every stage succeeds or a single classified error is returned.
func (s *ConversationService) RecommendFromAudio(ctx context.Context, upload Upload) (*entities.Request, error) {
	filename := entities.SanitizeFilename(upload.Filename)
	if err := entities.ValidateAudioFilename(filename); err != nil {
		return nil, err
	}

	if upload.Content == nil || upload.Size == 0 {
		return nil, domain.NewClientInputError("Uploaded file is empty")
	}

	if err := s.preflight(); err != nil {
		s.logger.Error("Pipeline is not configured", zap.Error(err))
		return nil, err
	}

	language := upload.Language
	if language == "" {
		language = s.defaultLanguage
	}

	req := entities.NewRequest(filename, language)
	logger := s.logger.With(zap.String("request_id", req.Token))

	uploadPath, err := s.store.SaveUpload(ctx, req.Token, filename, upload.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	req.UploadPath = uploadPath

	logger.Info("Processing audio file",
		zap.String("path", uploadPath),
		zap.String("language", language))

	// Step 1: Speech to Text
	req.Transcript, err = s.speechToText.TranscribeFile(ctx, uploadPath, language)
	if err != nil {
		return nil, s.stageFailed(logger, domain.StageTranscription, err)
	}

	logger.Info("Transcription completed", zap.String("text", req.Transcript))

	// Step 2: Generate the recommendation
	req.Reply, err = s.llm.Generate(ctx, BuildRecommendationPrompt(req.Transcript))
	if err != nil {
		return nil, s.stageFailed(logger, domain.StageGeneration, err)
	}

	logger.Info("Recommendation generated", zap.String("preview", truncate(req.Reply, 100)))

	// Step 3: Text to Speech
	req.OutputFilename = entities.OutputFilenameFor(req.Token)
	req.OutputPath = s.store.OutputPath(req.OutputFilename)

	if err := s.textToSpeech.SynthesizeToFile(ctx, req.Reply, req.OutputPath); err != nil {
		return nil, s.stageFailed(logger, domain.StageSynthesis, err)
	}

	logger.Info("Successfully processed request", zap.String("output", req.OutputFilename))
	return req, nil
}

// Release discards the upload artifact of a completed request.
// It is meant to run after the response has been written.
func (s *ConversationService) Release(req *entities.Request) {
	if req == nil || req.UploadPath == "" {
		return
	}

	if err := s.store.Discard(req.UploadPath); err != nil {
		s.logger.Warn("Failed to discard upload",
			zap.String("request_id", req.Token),
			zap.String("path", req.UploadPath),
			zap.Error(err))
	}
}

func (s *ConversationService) preflight() error {
	for _, stage := range []any{s.speechToText, s.llm, s.textToSpeech} {
		if p, ok := stage.(repositories.Preflighter); ok {
			if err := p.Preflight(); err != nil {
				return err
			}
		}
	}
	return nil
}

// stageFailed classifies a stage error; artifacts already written are left for the retention sweeper
func (s *ConversationService) stageFailed(logger *zap.Logger, stage domain.Stage, err error) error {
	logger.Error("Pipeline stage failed", zap.String("stage", string(stage)), zap.Error(err))

	var configErr *domain.ConfigurationError
	if errors.As(err, &configErr) {
		return configErr
	}
	return &domain.UpstreamCallError{Stage: stage, Err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
