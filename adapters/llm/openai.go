package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/satriahrh/agrivoice/server/domain/repositories"
)

// OpenAIChat implements LargeLanguageModel using chat completions
type OpenAIChat struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

var _ repositories.LargeLanguageModel = (*OpenAIChat)(nil)

// NewOpenAIChat creates a generator over a shared OpenAI client
func NewOpenAIChat(client *openai.Client, config Config, logger *zap.Logger) (*OpenAIChat, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}
	config = withDefaults(config, defaultOpenAIModel)

	return &OpenAIChat{
		client:      client,
		model:       config.Model,
		maxTokens:   config.MaxTokens,
		temperature: config.Temperature,
		logger:      logger,
	}, nil
}

// Generate sends prompt as a single user message
func (o *OpenAIChat) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("openai chat: empty completion")
	}

	content := resp.Choices[0].Message.Content
	o.logger.Debug("Chat completion received",
		zap.String("model", resp.Model),
		zap.Int("promptTokens", resp.Usage.PromptTokens),
		zap.Int("completionTokens", resp.Usage.CompletionTokens),
		zap.String("preview", preview(content, 50)))

	return content, nil
}
