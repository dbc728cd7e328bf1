package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend names accepted by the *_BACKEND variables
const (
	BackendOpenAI     = "openai"
	BackendGoogle     = "google"
	BackendGemini     = "gemini"
	BackendElevenLabs = "elevenlabs"
	BackendMock       = "mock"
)

// Config holds the server configuration
type Config struct {
	Host string
	Port string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	STTBackend string
	LLMBackend string
	TTSBackend string

	STTModel       string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float32
	TTSModel       string
	TTSVoice       string

	GeminiAPIKey string
	GeminiModel  string

	GoogleCredentials string

	UploadDir       string
	OutputDir       string
	TempDir         string
	DefaultLanguage string

	RetentionMaxAge time.Duration
	SweepInterval   time.Duration
	MaxUploadBytes  int64

	LogLevel  string
	LogFormat string
}

// Address returns the listen address
func (c *Config) Address() string {
	return c.Host + ":" + c.Port
}

// LoadDotEnv loads a .env file if one exists. A missing file is not an error.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	var present []string
	for _, name := range filenames {
		if _, err := os.Stat(name); err == nil {
			present = append(present, name)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Host:              getEnv("HOST", "127.0.0.1"),
		Port:              getEnv("PORT", "8000"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		STTBackend:        strings.ToLower(getEnv("STT_BACKEND", BackendOpenAI)),
		LLMBackend:        strings.ToLower(getEnv("LLM_BACKEND", BackendOpenAI)),
		TTSBackend:        strings.ToLower(getEnv("TTS_BACKEND", BackendOpenAI)),
		STTModel:          getEnv("STT_MODEL", "whisper-1"),
		LLMModel:          getEnv("LLM_MODEL", "gpt-3.5-turbo"),
		TTSModel:          getEnv("TTS_MODEL", "gpt-4o-mini-tts"),
		TTSVoice:          getEnv("TTS_VOICE", "alloy"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GoogleCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		OutputDir:         getEnv("OUTPUT_DIR", "outputs"),
		TempDir:           getEnv("TEMP_DIR", "temp"),
		DefaultLanguage:   getEnv("DEFAULT_LANGUAGE", "en"),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:         strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}

	var err error
	if cfg.LLMMaxTokens, err = getInt("LLM_MAX_TOKENS", 300); err != nil {
		return nil, err
	}
	if cfg.LLMTemperature, err = getFloat32("LLM_TEMPERATURE", 0.7); err != nil {
		return nil, err
	}
	if cfg.RetentionMaxAge, err = getDuration("RETENTION_MAX_AGE", time.Hour); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getDuration("SWEEP_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes, err = getInt64("MAX_UPLOAD_BYTES", 25<<20); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail later at runtime.
// Missing credentials are not checked here.
func Validate(cfg *Config) error {
	if err := oneOf("STT_BACKEND", cfg.STTBackend, BackendOpenAI, BackendGoogle, BackendMock); err != nil {
		return err
	}
	if err := oneOf("LLM_BACKEND", cfg.LLMBackend, BackendOpenAI, BackendGemini, BackendMock); err != nil {
		return err
	}
	if err := oneOf("TTS_BACKEND", cfg.TTSBackend, BackendOpenAI, BackendElevenLabs, BackendMock); err != nil {
		return err
	}
	if err := oneOf("LOG_FORMAT", cfg.LogFormat, "json", "console"); err != nil {
		return err
	}
	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if cfg.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive")
	}
	if cfg.RetentionMaxAge <= cfg.SweepInterval {
		return fmt.Errorf("RETENTION_MAX_AGE (%s) must be longer than SWEEP_INTERVAL (%s)", cfg.RetentionMaxAge, cfg.SweepInterval)
	}
	return nil
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", key, strings.Join(allowed, ", "), value)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat32(key string, fallback float32) (float32, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return float32(f), nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
