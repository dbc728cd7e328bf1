package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Stage identifies one of the three remote calls that make up a pipeline run
type Stage string

const (
	StageTranscription Stage = "transcription"
	StageGeneration    Stage = "generation"
	StageSynthesis     Stage = "synthesis"
)

// Label returns the human readable name used in client-facing messages
func (s Stage) Label() string {
	switch s {
	case StageTranscription:
		return "Transcription"
	case StageGeneration:
		return "Generation"
	case StageSynthesis:
		return "Speech synthesis"
	default:
		return string(s)
	}
}

// ClientInputError reports a bad or missing upload
type ClientInputError struct {
	Message string
}

func (e *ClientInputError) Error() string { return e.Message }

// ConfigurationError reports a missing credential or setting required by a stage
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("Server misconfigured: %s not set", e.Setting)
}

// UpstreamCallError reports a failed remote call and the stage it belongs to
type UpstreamCallError struct {
	Stage Stage
	Err   error
}

func (e *UpstreamCallError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage.Label(), e.Err)
}

func (e *UpstreamCallError) Unwrap() error { return e.Err }

// NotFoundError reports a missing artifact
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// HousekeepingError reports a failed deletion during a retention sweep.
// It is only ever logged.
type HousekeepingError struct {
	Path string
	Err  error
}

func (e *HousekeepingError) Error() string {
	return fmt.Sprintf("failed to remove %s: %v", e.Path, e.Err)
}

func (e *HousekeepingError) Unwrap() error { return e.Err }

// NewClientInputError creates a ClientInputError from a format string
func NewClientInputError(format string, args ...any) error {
	return &ClientInputError{Message: fmt.Sprintf(format, args...)}
}

// HTTPStatus maps an error from the pipeline to the status code returned to clients
func HTTPStatus(err error) int {
	var (
		clientErr   *ClientInputError
		notFoundErr *NotFoundError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &clientErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message that is safe to show to a client.
// Configuration problems take precedence over the stage they surfaced in.
func PublicMessage(err error) string {
	var (
		clientErr   *ClientInputError
		configErr   *ConfigurationError
		upstreamErr *UpstreamCallError
		notFoundErr *NotFoundError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &configErr):
		return configErr.Error()
	case errors.As(err, &clientErr):
		return clientErr.Error()
	case errors.As(err, &notFoundErr):
		return notFoundErr.Error()
	case errors.As(err, &upstreamErr):
		return upstreamErr.Error()
	default:
		return "Internal server error"
	}
}
