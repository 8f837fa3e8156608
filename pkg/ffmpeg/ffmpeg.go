package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// FFmpeg wraps ffmpeg and ffprobe functionality
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	options     TranscodeOptions
}

// New creates a new FFmpeg instance
func New(ffmpegPath, ffprobePath string, options TranscodeOptions) *FFmpeg {
	return &FFmpeg{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		options:     options,
	}
}

// ValidateBinaries checks if ffmpeg and ffprobe are available
func (f *FFmpeg) ValidateBinaries() error {
	if _, err := exec.LookPath(f.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, f.ffmpegPath)
	}

	if _, err := exec.LookPath(f.ffprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFprobeNotFound, f.ffprobePath)
	}

	return nil
}

// transcodeArgs builds the loudness-normalizing PCM conversion command line
func (f *FFmpeg) transcodeArgs(inputFile, outputFile string) []string {
	args := []string{
		"-nostdin",
		"-i", inputFile,
		"-vn",
		"-af", "loudnorm",
		"-c:a", "pcm_s16le",
	}
	if f.options.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(f.options.SampleRate))
	}
	if f.options.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(f.options.Channels))
	}
	return append(args, "-f", "wav", "-y", outputFile)
}

// ToWAV converts inputFile into a loudness-normalized 16-bit PCM WAV at outputFile
// and returns the metadata of the written file. The output is produced under a
// temporary name and only renamed into place once ffprobe accepts it.
func (f *FFmpeg) ToWAV(ctx context.Context, inputFile, outputFile string) (*AudioMetadata, error) {
	dir := filepath.Dir(outputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, ffmpegError(OpTranscode, inputFile, err, "")
	}

	base := filepath.Base(outputFile)
	ext := filepath.Ext(base)
	tmp, err := os.CreateTemp(dir, "."+strings.TrimSuffix(base, ext)+".*"+ext)
	if err != nil {
		return nil, ffmpegError(OpTranscode, inputFile, fmt.Errorf("%w: %v", ErrTempFileCreation, err), "")
	}
	tmpPath := tmp.Name()
	tmp.Close()

	args := f.transcodeArgs(inputFile, tmpPath)
	zap.L().Debug("Running ffmpeg", zap.String("binary", f.ffmpegPath), zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(tmpPath)
		return nil, ffmpegError(OpTranscode, inputFile, err, tail(stderr.String(), 2048))
	}

	metadata, err := f.GetMetadata(ctx, tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return nil, err
	}
	if metadata.SampleRate <= 0 {
		os.Remove(tmpPath)
		return nil, ffprobeError(OpValidate, outputFile, ErrInvalidAudioFile, "")
	}

	if err := os.Rename(tmpPath, outputFile); err != nil {
		os.Remove(tmpPath)
		return nil, ffmpegError(OpTranscode, inputFile, err, "")
	}

	return metadata, nil
}

// tail keeps the last n bytes of s; ffmpeg puts the actual failure at the end
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
