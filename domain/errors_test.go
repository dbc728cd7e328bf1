package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"client input", NewClientInputError("No file uploaded"), http.StatusBadRequest},
		{"wrapped client input", fmt.Errorf("upload: %w", NewClientInputError("bad")), http.StatusBadRequest},
		{"not found", &NotFoundError{Resource: "Audio file"}, http.StatusNotFound},
		{"configuration", &ConfigurationError{Setting: "OPENAI_API_KEY"}, http.StatusInternalServerError},
		{"upstream", &UpstreamCallError{Stage: StageGeneration, Err: errors.New("boom")}, http.StatusInternalServerError},
		{"unknown", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, got)
			}
		})
	}
}

func TestPublicMessage_ConfigurationWinsOverStage(t *testing.T) {
	err := &UpstreamCallError{
		Stage: StageTranscription,
		Err:   &ConfigurationError{Setting: "OPENAI_API_KEY"},
	}

	msg := PublicMessage(err)
	if msg != "Server misconfigured: OPENAI_API_KEY not set" {
		t.Errorf("Unexpected message: %s", msg)
	}
}

func TestPublicMessage_UpstreamNamesStage(t *testing.T) {
	err := &UpstreamCallError{Stage: StageSynthesis, Err: errors.New("voice unavailable")}

	msg := PublicMessage(err)
	if !strings.HasPrefix(msg, "Speech synthesis failed") {
		t.Errorf("Expected message to name the stage, got %s", msg)
	}
	if !strings.Contains(msg, "voice unavailable") {
		t.Errorf("Expected message to carry the cause, got %s", msg)
	}
}

func TestPublicMessage_HidesUnclassified(t *testing.T) {
	if msg := PublicMessage(errors.New("open /var/secret: permission denied")); msg != "Internal server error" {
		t.Errorf("Expected generic message, got %s", msg)
	}
}
