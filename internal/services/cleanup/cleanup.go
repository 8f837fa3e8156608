// Package cleanup removes the temporary files that interrupted stages leave in
// the cache directory.
package cleanup

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Service sweeps stale temporary files from a directory
type Service struct {
	dir             string
	maxAge          time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
	cancel          context.CancelFunc
	done            chan struct{}
}

// NewService creates a new cleanup service
func NewService(dir string, maxAge, cleanupInterval time.Duration) *Service {
	return &Service{
		dir:             dir,
		maxAge:          maxAge,
		cleanupInterval: cleanupInterval,
		now:             time.Now,
	}
}

// IsTemp reports whether name is an in-progress artifact: a hidden
// ".<name>.*.tmp" from the store, a hidden ".<stem>.*.wav" from the
// transcoder, or a ".part" download. Other dotfiles are left alone.
func IsTemp(name string) bool {
	if strings.HasSuffix(name, ".part") {
		return true
	}
	if !strings.HasPrefix(name, ".") {
		return false
	}
	// The random segment sits between the name and the extension
	parts := strings.Split(name[1:], ".")
	if len(parts) < 3 {
		return false
	}
	switch parts[len(parts)-1] {
	case "tmp", "wav":
		return true
	}
	return false
}

// Start runs one sweep and then sweeps every interval until ctx is done or
// Stop is called.
func (s *Service) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	if _, err := s.Sweep(); err != nil {
		zap.L().Warn("cleanup sweep failed", zap.String("dir", s.dir), zap.Error(err))
	}

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := s.Sweep(); err != nil {
					zap.L().Warn("cleanup sweep failed", zap.String("dir", s.dir), zap.Error(err))
				}
			case <-ctx.Done():
				zap.L().Debug("cleanup service stopped")
				return
			}
		}
	}()

	zap.L().Info("cleanup service started",
		zap.String("dir", s.dir),
		zap.Duration("interval", s.cleanupInterval),
		zap.Duration("max_age", s.maxAge))
}

// Stop stops the periodic sweep and waits for it to exit
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// Sweep removes temporary files older than the maximum age and returns the
// paths it removed. Subdirectories are not descended into.
func (s *Service) Sweep() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var removed []string
	cutoff := s.now().Add(-s.maxAge)
	for _, entry := range entries {
		if entry.IsDir() || !IsTemp(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Renamed into place since ReadDir
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			zap.L().Warn("failed to remove temp file", zap.String("path", path), zap.Error(err))
			continue
		}
		zap.L().Debug("removed stale temp file", zap.String("path", path))
		removed = append(removed, path)
	}
	return removed, nil
}
