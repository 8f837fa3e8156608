package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// ffprobeOutput represents the JSON structure returned by ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration   string `json:"duration"`
		Size       string `json:"size"`
		Bitrate    string `json:"bit_rate"`
		FormatName string `json:"format_name"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
		Duration   string `json:"duration"`
	} `json:"streams"`
}

// probeArgs asks for the container and first audio stream as JSON
func probeArgs(filePath string) []string {
	return []string{"-v", "error", "-of", "json", "-show_format", "-show_streams", "-select_streams", "a:0", filePath}
}

// GetMetadata reads the container and first audio stream of filePath
func (f *FFmpeg) GetMetadata(ctx context.Context, filePath string) (*AudioMetadata, error) {
	cmd := exec.CommandContext(ctx, f.ffprobePath, probeArgs(filePath)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, ffprobeError(OpProbe, filePath, err, tail(stderr.String(), 2048))
	}

	return parseMetadata(stdout.Bytes(), filePath)
}

// parseMetadata converts raw ffprobe JSON to AudioMetadata. Numeric fields
// ffprobe cannot determine are reported as "N/A" and left at zero.
func parseMetadata(raw []byte, filePath string) (*AudioMetadata, error) {
	var output ffprobeOutput
	if err := json.Unmarshal(raw, &output); err != nil {
		return nil, ffprobeError(OpParse, filePath, err, "")
	}

	metadata := &AudioMetadata{
		Format:   output.Format.FormatName,
		Duration: number[float64](output.Format.Duration),
		Size:     number[int64](output.Format.Size),
		Bitrate:  int(number[int64](output.Format.Bitrate)),
	}

	for _, stream := range output.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		metadata.Codec = stream.CodecName
		metadata.Channels = stream.Channels
		metadata.SampleRate = int(number[int64](stream.SampleRate))
		if metadata.Duration == 0 {
			metadata.Duration = number[float64](stream.Duration)
		}
		break
	}

	// Zero-length audio is a valid (degenerate) result, a missing audio stream is not
	if metadata.Codec == "" {
		return nil, ffprobeError(OpValidate, filePath,
			fmt.Errorf("%w: no audio stream", ErrInvalidAudioFile), "")
	}

	return metadata, nil
}

// number parses an ffprobe numeric string, returning zero when it is not a number
func number[T int64 | float64](s string) T {
	var zero T
	if s == "" {
		return zero
	}
	switch any(zero).(type) {
	case float64:
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return T(v)
		}
	default:
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return T(v)
		}
	}
	return zero
}
