package download

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/killallgit/herotrend/pkg/source"
	"go.uber.org/zap"
)

// YTDLOptions configures the yt-dlp/youtube-dl fetcher
type YTDLOptions struct {
	BinaryPath    string
	Format        string
	WriteInfoJSON bool
}

// YTDLFetcher downloads media by running yt-dlp (or youtube-dl)
type YTDLFetcher struct {
	options YTDLOptions
}

// NewYTDLFetcher creates a fetcher around the downloader binary
func NewYTDLFetcher(options YTDLOptions) *YTDLFetcher {
	if options.BinaryPath == "" {
		options.BinaryPath = "yt-dlp"
	}
	return &YTDLFetcher{options: options}
}

// CommandError carries the stderr of a failed external command
type CommandError struct {
	Binary string
	Err    error
	Stderr string
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %v (stderr: %s)", e.Binary, e.Err, strings.TrimSpace(e.Stderr))
	}
	return fmt.Sprintf("%s failed: %v", e.Binary, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Args returns the command line used to fetch sourceID into destPath
func (f *YTDLFetcher) Args(sourceID string, destPath string) []string {
	// The extension is left to the downloader; the selected format decides the container
	template := strings.TrimSuffix(destPath, filepath.Ext(destPath)) + ".%(ext)s"

	args := []string{"--no-playlist", "-o", template}
	if f.options.Format != "" {
		args = append(args, "-f", f.options.Format)
	}
	if f.options.WriteInfoJSON {
		args = append(args, "--write-info-json")
	}
	return append(args, source.WatchURL(sourceID))
}

// Fetch implements Fetcher
func (f *YTDLFetcher) Fetch(ctx context.Context, sourceID string, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	args := f.Args(sourceID, destPath)
	zap.L().Info("Downloading media", zap.String("source_id", sourceID), zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, f.options.BinaryPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &CommandError{Binary: f.options.BinaryPath, Err: err, Stderr: stderr.String()}
	}

	if _, err := os.Stat(destPath); err != nil {
		return fmt.Errorf("downloader finished but %s is missing (format %q may use another container): %w",
			destPath, f.options.Format, err)
	}
	return nil
}
