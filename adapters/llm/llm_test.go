package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newTestClient(baseURL string) *openai.Client {
	config := openai.DefaultConfig("test-api-key")
	config.BaseURL = baseURL + "/v1"
	return openai.NewClientWithConfig(config)
}

func chatServer(t *testing.T, content string, captured *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("Failed to decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:    "chatcmpl-test",
			Model: "gpt-3.5-turbo",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		})
	}))
}

func TestOpenAIChat_Generate(t *testing.T) {
	var captured openai.ChatCompletionRequest
	server := chatServer(t, "Well... plant after the first rain.", &captured)
	defer server.Close()

	chat, err := NewOpenAIChat(newTestClient(server.URL), Config{}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create chat: %v", err)
	}

	reply, err := chat.Generate(context.Background(), "The farmer asked: 'when to plant?'")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if reply != "Well... plant after the first rain." {
		t.Errorf("Expected reply verbatim, got %q", reply)
	}
	if captured.Model != defaultOpenAIModel {
		t.Errorf("Expected model %s, got %s", defaultOpenAIModel, captured.Model)
	}
	if captured.MaxTokens != defaultMaxTokens {
		t.Errorf("Expected max tokens %d, got %d", defaultMaxTokens, captured.MaxTokens)
	}
	if captured.Temperature != float32(defaultTemperature) {
		t.Errorf("Expected temperature %v, got %v", defaultTemperature, captured.Temperature)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != openai.ChatMessageRoleUser {
		t.Errorf("Expected a single user message, got %+v", captured.Messages)
	}
}

func TestOpenAIChat_EmptyCompletion(t *testing.T) {
	server := chatServer(t, "   ", nil)
	defer server.Close()

	chat, err := NewOpenAIChat(newTestClient(server.URL), Config{}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create chat: %v", err)
	}

	if _, err := chat.Generate(context.Background(), "prompt"); err == nil {
		t.Error("Expected error for empty completion")
	}
}

func TestOpenAIChat_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	}))
	defer server.Close()

	chat, err := NewOpenAIChat(newTestClient(server.URL), Config{}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create chat: %v", err)
	}

	if _, err := chat.Generate(context.Background(), "prompt"); err == nil {
		t.Error("Expected error from failing upstream")
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(Config{MaxTokens: -1}); err == nil {
		t.Error("Expected error for negative max tokens")
	}
	if err := ValidateConfig(Config{Temperature: 3}); err == nil {
		t.Error("Expected error for temperature above 2")
	}
	if err := ValidateConfig(Config{MaxTokens: 300, Temperature: 0.7}); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestNewGeminiLLM_RequiresAPIKey(t *testing.T) {
	if _, err := NewGeminiLLM(context.Background(), Config{}, zaptest.NewLogger(t)); err == nil {
		t.Error("Expected error when API key is not set")
	}
}

func TestMockLLM(t *testing.T) {
	reply, err := NewMockLLM().Generate(context.Background(), "prompt")
	if err != nil || reply == "" {
		t.Errorf("Expected canned reply, got %q, %v", reply, err)
	}
}

// Integration test - only runs if GEMINI_API_KEY is set
func TestGeminiLLM_Integration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test - set GEMINI_API_KEY environment variable")
	}

	gemini, err := NewGeminiLLM(context.Background(), Config{APIKey: apiKey}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create Gemini LLM: %v", err)
	}

	reply, err := gemini.Generate(context.Background(), "In one sentence, when should millet be planted in Senegal?")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	t.Logf("Reply: %s", reply)
}
