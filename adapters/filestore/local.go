package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/agrivoice/server/domain"
	"github.com/satriahrh/agrivoice/server/domain/entities"
	"github.com/satriahrh/agrivoice/server/domain/repositories"
)

// Config holds the directories managed by the store
type Config struct {
	UploadDir string
	OutputDir string
	TempDir   string
}

// LocalStore keeps pipeline artifacts on the local filesystem
type LocalStore struct {
	uploadDir string
	outputDir string
	tempDir   string
	logger    *zap.Logger
}

var _ repositories.FileStore = (*LocalStore)(nil)

// NewLocalStore creates the managed directories if needed and returns a store over them
func NewLocalStore(config Config, logger *zap.Logger) (*LocalStore, error) {
	for _, dir := range []string{config.UploadDir, config.OutputDir, config.TempDir} {
		if dir == "" {
			return nil, fmt.Errorf("storage directory must not be empty")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return &LocalStore{
		uploadDir: config.UploadDir,
		outputDir: config.OutputDir,
		tempDir:   config.TempDir,
		logger:    logger,
	}, nil
}

// Dirs returns the managed directories in sweep order
func (s *LocalStore) Dirs() []string {
	return []string{s.uploadDir, s.outputDir, s.tempDir}
}

// SaveUpload writes src to {uploadDir}/{token}_{filename}
func (s *LocalStore) SaveUpload(ctx context.Context, token, filename string, src io.Reader) (string, error) {
	name := entities.SanitizeFilename(filename)
	if token == "" || name == "" {
		return "", fmt.Errorf("token and filename are required")
	}

	dst := filepath.Join(s.uploadDir, token+"_"+name)
	n, err := writeFile(dst, src)
	if err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}

	s.logger.Debug("Upload stored", zap.String("path", dst), zap.Int64("bytes", n))
	return dst, nil
}

// StageTemp copies srcPath to {tempDir}/temp_audio_{suffix}{ext}
func (s *LocalStore) StageTemp(srcPath string) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer src.Close()

	dst := filepath.Join(s.tempDir, "temp_audio_"+entities.NewToken()+strings.ToLower(filepath.Ext(srcPath)))
	if _, err := writeFile(dst, src); err != nil {
		return "", fmt.Errorf("failed to stage temp copy: %w", err)
	}

	return dst, nil
}

// OutputPath returns {outputDir}/{filename}
func (s *LocalStore) OutputPath(filename string) string {
	return filepath.Join(s.outputDir, filename)
}

// OpenOutput opens a file from the output directory.
// Names that are not plain base names are reported as not found.
func (s *LocalStore) OpenOutput(filename string) (io.ReadSeekCloser, error) {
	if filename == "" || filename != entities.SanitizeFilename(filename) || strings.HasPrefix(filename, ".") {
		return nil, &domain.NotFoundError{Resource: "Audio file"}
	}

	f, err := os.Open(s.OutputPath(filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.NotFoundError{Resource: "Audio file"}
		}
		return nil, fmt.Errorf("failed to open output: %w", err)
	}

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		f.Close()
		return nil, &domain.NotFoundError{Resource: "Audio file"}
	}

	return f, nil
}

// Discard removes path, ignoring files that are already gone
func (s *LocalStore) Discard(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func writeFile(dst string, src io.Reader) (int64, error) {
	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, src)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return n, err
}
