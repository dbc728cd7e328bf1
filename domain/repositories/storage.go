package repositories

import (
	"context"
	"io"
)

// FileStore manages the transient artifacts of the pipeline
type FileStore interface {
	// SaveUpload persists an uploaded payload under a token-namespaced name and returns its path
	SaveUpload(ctx context.Context, token, filename string, src io.Reader) (string, error)
	// StageTemp copies a stored file into the scratch directory under a fresh name
	StageTemp(srcPath string) (string, error)
	// OutputPath returns the path the synthesized audio for filename should be written to
	OutputPath(filename string) string
	// OpenOutput opens a synthesized audio file for reading
	OpenOutput(filename string) (io.ReadSeekCloser, error)
	// Discard removes a file; removing a missing file is not an error
	Discard(path string) error
}

// Preflighter is implemented by stages that can report a configuration
// problem without contacting their provider
type Preflighter interface {
	Preflight() error
}
