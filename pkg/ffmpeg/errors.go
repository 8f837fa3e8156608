package ffmpeg

import (
	"errors"
	"fmt"
)

var (
	ErrFFmpegNotFound   = errors.New("ffmpeg binary not found")
	ErrFFprobeNotFound  = errors.New("ffprobe binary not found")
	ErrInvalidAudioFile = errors.New("invalid or unsupported audio file")
	ErrTempFileCreation = errors.New("failed to create temporary file")
)

// Operations reported by ToolError
const (
	OpTranscode = "transcode"
	OpProbe     = "probe"
	OpParse     = "parse"
	OpValidate  = "validate"
)

// ToolError reports a failed ffmpeg or ffprobe step on one file
type ToolError struct {
	Tool   string // ffmpeg or ffprobe
	Op     string
	File   string
	Err    error
	Stderr string // tail of the tool's stderr, when it ran
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s %s %s: %v", e.Tool, e.Op, e.File, e.Err)
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

func ffmpegError(op, file string, err error, stderr string) *ToolError {
	return &ToolError{Tool: "ffmpeg", Op: op, File: file, Err: err, Stderr: stderr}
}

func ffprobeError(op, file string, err error, stderr string) *ToolError {
	return &ToolError{Tool: "ffprobe", Op: op, File: file, Err: err, Stderr: stderr}
}
