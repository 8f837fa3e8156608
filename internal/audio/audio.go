// Package audio decodes PCM WAV files into raw integer samples.
package audio

import (
	"errors"
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned when a file is not a decodable PCM WAV
var ErrInvalidWAV = errors.New("invalid WAV file")

// RawAudio holds decoded samples. Multi-channel samples are interleaved frame by frame.
type RawAudio struct {
	SampleRate int
	Channels   int
	Samples    []int
}

// Frames returns the number of whole frames in the buffer
func (r *RawAudio) Frames() int {
	if r == nil || r.Channels <= 0 {
		return 0
	}
	return len(r.Samples) / r.Channels
}

// Seconds returns the number of whole seconds of audio; zero for a zero or negative rate
func (r *RawAudio) Seconds() int {
	if r == nil || r.SampleRate <= 0 {
		return 0
	}
	return r.Frames() / r.SampleRate
}

// WAVLoader reads RawAudio from WAV files
type WAVLoader struct{}

// NewWAVLoader creates a WAV loader
func NewWAVLoader() *WAVLoader {
	return &WAVLoader{}
}

// Load decodes the whole file at path
func (l *WAVLoader) Load(path string) (*RawAudio, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM buffer: %w", err)
	}

	channels := int(decoder.NumChans)
	if channels <= 0 {
		channels = 1
	}

	return &RawAudio{
		SampleRate: int(decoder.SampleRate),
		Channels:   channels,
		Samples:    buf.Data,
	}, nil
}

// WriteWAV encodes raw as a 16-bit PCM WAV file at path
func WriteWAV(path string, raw *RawAudio) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	channels := raw.Channels
	if channels <= 0 {
		channels = 1
	}

	encoder := wav.NewEncoder(file, raw.SampleRate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: raw.SampleRate},
		Data:           raw.Samples,
		SourceBitDepth: 16,
	}

	if err := encoder.Write(buf); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode WAV: %w", err)
	}
	if err := encoder.Close(); err != nil {
		file.Close()
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return file.Close()
}
