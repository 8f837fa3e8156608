package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawAudioSeconds(t *testing.T) {
	tests := []struct {
		name string
		raw  *RawAudio
		want int
	}{
		{name: "seven mono samples at 2Hz", raw: &RawAudio{SampleRate: 2, Channels: 1, Samples: make([]int, 7)}, want: 3},
		{name: "stereo frames", raw: &RawAudio{SampleRate: 2, Channels: 2, Samples: make([]int, 10)}, want: 2},
		{name: "zero rate", raw: &RawAudio{SampleRate: 0, Channels: 1, Samples: make([]int, 10)}, want: 0},
		{name: "no samples", raw: &RawAudio{SampleRate: 8000, Channels: 1}, want: 0},
		{name: "nil", raw: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.raw.Seconds())
		})
	}
}

func TestWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	want := &RawAudio{
		SampleRate: 8000,
		Channels:   2,
		Samples:    []int{0, 1, -1, 200, -32768, 32767, 5, 5},
	}

	require.NoError(t, WriteWAV(path, want))

	got, err := NewWAVLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, want.SampleRate, got.SampleRate)
	assert.Equal(t, want.Channels, got.Channels)
	assert.Equal(t, want.Samples, got.Samples)
	assert.Equal(t, 4, got.Frames())
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not RIFF"), 0644))

	_, err := NewWAVLoader().Load(path)
	assert.True(t, errors.Is(err, ErrInvalidWAV))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewWAVLoader().Load(filepath.Join(t.TempDir(), "missing.wav"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
