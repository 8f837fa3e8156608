package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestYTDLArgs(t *testing.T) {
	fetcher := NewYTDLFetcher(YTDLOptions{Format: "18", WriteInfoJSON: true})

	args := fetcher.Args("abc123", "/cache/abc123.mp4")
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-o /cache/abc123.%(ext)s",
		"-f 18",
		"--write-info-json",
		"https://www.youtube.com/watch?v=abc123",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("Expected args to contain %q, got %q", want, joined)
		}
	}

	if args[len(args)-1] != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("Expected watch URL as last argument, got %q", args[len(args)-1])
	}
}

func TestYTDLDefaultBinary(t *testing.T) {
	fetcher := NewYTDLFetcher(YTDLOptions{})
	if fetcher.options.BinaryPath != "yt-dlp" {
		t.Errorf("Expected default binary yt-dlp, got %q", fetcher.options.BinaryPath)
	}
}

// writeScript creates an executable shell script standing in for yt-dlp
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-ytdl")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}
	return path
}

func TestYTDLFetch_Success(t *testing.T) {
	// Resolve the -o template the way yt-dlp would for an mp4 download
	script := writeScript(t, `
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; shift; fi
  shift
done
file=$(echo "$out" | sed 's/%(ext)s/mp4/')
echo media > "$file"
`)
	fetcher := NewYTDLFetcher(YTDLOptions{BinaryPath: script, Format: "18"})
	dest := filepath.Join(t.TempDir(), "abc123.mp4")

	if err := fetcher.Fetch(context.Background(), "abc123", dest); err != nil {
		t.Fatalf("Expected successful fetch, got error: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("Expected %s to exist: %v", dest, err)
	}
}

func TestYTDLFetch_CommandFailure(t *testing.T) {
	script := writeScript(t, "echo 'ERROR: Video unavailable' >&2\nexit 1\n")
	fetcher := NewYTDLFetcher(YTDLOptions{BinaryPath: script})

	err := fetcher.Fetch(context.Background(), "gone", filepath.Join(t.TempDir(), "gone.mp4"))
	if err == nil {
		t.Fatal("Expected error from failing downloader, got nil")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("Expected CommandError, got %T", err)
	}
	if !strings.Contains(cmdErr.Stderr, "Video unavailable") {
		t.Errorf("Expected stderr to be captured, got %q", cmdErr.Stderr)
	}
}

func TestYTDLFetch_MissingOutput(t *testing.T) {
	script := writeScript(t, "exit 0\n")
	fetcher := NewYTDLFetcher(YTDLOptions{BinaryPath: script})

	err := fetcher.Fetch(context.Background(), "abc", filepath.Join(t.TempDir(), "abc.mp4"))
	if err == nil || !strings.Contains(err.Error(), "is missing") {
		t.Errorf("Expected missing output error, got %v", err)
	}
}
