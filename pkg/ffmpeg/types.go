package ffmpeg

// AudioMetadata represents metadata extracted from an audio file
type AudioMetadata struct {
	Duration   float64 `json:"duration"`    // Duration in seconds
	SampleRate int     `json:"sample_rate"` // Sample rate in Hz
	Channels   int     `json:"channels"`    // Number of audio channels
	Bitrate    int     `json:"bitrate"`     // Bitrate in bits per second
	Format     string  `json:"format"`      // Container format (wav, mp4, etc.)
	Codec      string  `json:"codec"`       // Audio codec
	Size       int64   `json:"size"`        // File size in bytes
}

// TranscodeOptions controls the PCM output of ToWAV
type TranscodeOptions struct {
	// SampleRate forces the output rate; 0 keeps whatever loudnorm produces
	SampleRate int
	// Channels forces the output channel count; 0 keeps the source layout
	Channels int
}
