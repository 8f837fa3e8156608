// Package loudness reduces raw audio to one representative value per second.
//
// The default window is anchored at frame i and ends at frame i*rate+rate, so
// windows widen and overlap more as i grows. Each window is copied and sorted,
// which makes a full run roughly quadratic in the track length: an hour of
// 44.1kHz audio sorts on the order of 10^11 samples. Use WindowAligned for
// plain one-second blocks.
package loudness

import (
	"context"
	"fmt"
	"slices"

	"github.com/killallgit/herotrend/internal/audio"
)

// Window selects how the per-second window is laid over the samples
type Window string

const (
	// WindowAnchored spans frames [i, i*rate+rate)
	WindowAnchored Window = "anchored"
	// WindowAligned spans frames [i*rate, (i+1)*rate)
	WindowAligned Window = "aligned"
)

// ParseWindow validates a window name
func ParseWindow(name string) (Window, error) {
	switch Window(name) {
	case WindowAnchored, WindowAligned:
		return Window(name), nil
	case "":
		return WindowAnchored, nil
	default:
		return "", fmt.Errorf("unknown window %q", name)
	}
}

// Series holds one loudness value per whole second
type Series []float64

// Options configures Summarize
type Options struct {
	Window   Window
	Progress ProgressFunc
}

// Bounds returns the frame range [start, end) of window i
func (w Window) Bounds(i, rate int) (start, end int) {
	if w == WindowAligned {
		return i * rate, (i + 1) * rate
	}
	return i, i*rate + rate
}

// Summarize computes the per-second median series of raw. Degenerate input
// (nil, zero rate, fewer samples than one second) yields an empty series.
func Summarize(ctx context.Context, raw *audio.RawAudio, opts Options) (Series, error) {
	considered := raw.Seconds()
	series := make(Series, considered)
	if considered == 0 {
		return series, nil
	}

	window := opts.Window
	if window == "" {
		window = WindowAnchored
	}

	channels := raw.Channels
	if channels <= 0 {
		channels = 1
	}
	frames := raw.Frames()
	tracker := newProgress(considered, opts.Progress)

	var scratch []int
	for i := 0; i < considered; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tracker.step(i)

		start, end := window.Bounds(i, raw.SampleRate)
		end = min(end, frames)
		if start >= end {
			series[i] = 0
			continue
		}

		// Pool every channel sample of the frames in the window
		scratch = append(scratch[:0], raw.Samples[start*channels:end*channels]...)
		series[i] = Median(scratch)
	}
	tracker.done()

	return series, nil
}

// Median returns the arithmetic median of values, averaging the two middle
// elements for even lengths. values is sorted in place. Empty input yields 0.
func Median(values []int) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	slices.Sort(values)
	if n%2 == 1 {
		return float64(values[n/2])
	}
	return (float64(values[n/2-1]) + float64(values[n/2])) / 2
}
