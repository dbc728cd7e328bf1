package retention

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/agrivoice/server/domain"
)

// Config holds retention settings
type Config struct {
	// MaxAge is the age beyond which a file is removed (default: 1h)
	MaxAge time.Duration
	// Interval is the pause between sweeps (default: 30m)
	Interval time.Duration
}

// DefaultConfig returns the default retention settings
func DefaultConfig() Config {
	return Config{
		MaxAge:   time.Hour,
		Interval: 30 * time.Minute,
	}
}

// ValidateConfig validates the retention settings
func ValidateConfig(config Config) error {
	if config.Interval <= 0 {
		return fmt.Errorf("sweep interval must be positive")
	}
	if config.MaxAge <= config.Interval {
		return fmt.Errorf("retention max age (%s) must be longer than the sweep interval (%s)", config.MaxAge, config.Interval)
	}
	return nil
}

// SweepReport summarizes one sweep
type SweepReport struct {
	Scanned int
	Removed int
	Failed  int
}

// Sweeper periodically removes stale files from a set of directories
type Sweeper struct {
	dirs   []string
	config Config
	logger *zap.Logger
	remove func(string) error
}

// NewSweeper creates a sweeper over dirs
func NewSweeper(dirs []string, config Config, logger *zap.Logger) (*Sweeper, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid retention configuration: %w", err)
	}

	return &Sweeper{
		dirs:   dirs,
		config: config,
		logger: logger,
		remove: os.Remove,
	}, nil
}

// Run sleeps and sweeps until ctx is done
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.logger.Info("Retention sweeper started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("max_age", s.config.MaxAge))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Retention sweeper stopped")
			return nil
		case now := <-ticker.C:
			s.runCycle(now)
		}
	}
}

// runCycle keeps a panicking sweep from ending the loop
func (s *Sweeper) runCycle(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Retention sweep panicked", zap.Any("panic", r))
		}
	}()

	report := s.Sweep(now)
	s.logger.Info("Retention sweep completed",
		zap.Int("scanned", report.Scanned),
		zap.Int("removed", report.Removed),
		zap.Int("failed", report.Failed))
}

// Sweep removes every regular file older than MaxAge relative to now.
// Per-file failures are logged and counted, never returned.
func (s *Sweeper) Sweep(now time.Time) SweepReport {
	var report SweepReport

	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			s.logger.Error("Failed to list directory", zap.String("dir", dir), zap.Error(err))
			continue
		}

		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}

			info, err := entry.Info()
			if err != nil {
				// removed between listing and stat
				continue
			}
			report.Scanned++

			if now.Sub(info.ModTime()) <= s.config.MaxAge {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			if err := s.remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				report.Failed++
				s.logger.Error("Failed to clean up file", zap.Error(&domain.HousekeepingError{Path: path, Err: err}))
				continue
			}

			report.Removed++
			s.logger.Info("Cleaned up old file", zap.String("path", path))
		}
	}

	return report
}
