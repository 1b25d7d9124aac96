// Package energy provides a local vad.Detector based on frame RMS energy.
//
// It is not a substitute for a model-based detector on noisy recordings, but
// it lets the analyzer run fully offline and is deterministic, which also
// makes it the detector of choice in tests that need real interval shapes.
package energy

import (
	"context"
	"fmt"
	"math"

	"github.com/oratorlab/cadence/pkg/audio"
	"github.com/oratorlab/cadence/pkg/provider/vad"
)

// Compile-time assertion that Detector satisfies vad.Detector.
var _ vad.Detector = (*Detector)(nil)

const (
	defaultFrameMs       = 30
	defaultThresholdDBFS = -40.0
	defaultMinSpeechSec  = 0.2
	defaultMinSilenceSec = 0.3
)

// Option is a functional option for configuring a Detector.
type Option func(*Detector)

// WithThresholdDBFS sets the frame RMS level (dBFS) above which a frame
// counts as speech. Defaults to −40 dBFS.
func WithThresholdDBFS(dbfs float64) Option {
	return func(d *Detector) { d.thresholdDBFS = dbfs }
}

// WithFrameMs sets the analysis frame length in milliseconds. Defaults to 30.
func WithFrameMs(ms int) Option {
	return func(d *Detector) { d.frameMs = ms }
}

// WithMinSpeechSec drops detected segments shorter than this. Defaults to 0.2 s.
func WithMinSpeechSec(sec float64) Option {
	return func(d *Detector) { d.minSpeechSec = sec }
}

// WithMinSilenceSec merges neighbouring segments separated by less silence
// than this. Defaults to 0.3 s.
func WithMinSilenceSec(sec float64) Option {
	return func(d *Detector) { d.minSilenceSec = sec }
}

// Detector implements vad.Detector with a frame-energy heuristic.
type Detector struct {
	frameMs       int
	thresholdDBFS float64
	minSpeechSec  float64
	minSilenceSec float64
}

// New creates a Detector with the given options applied over the defaults.
func New(opts ...Option) *Detector {
	d := &Detector{
		frameMs:       defaultFrameMs,
		thresholdDBFS: defaultThresholdDBFS,
		minSpeechSec:  defaultMinSpeechSec,
		minSilenceSec: defaultMinSilenceSec,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// DetectSegments implements vad.Detector.
func (d *Detector) DetectSegments(ctx context.Context, audioPath string) ([]vad.Interval, error) {
	wave, err := audio.Load(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("energy vad: %w", err)
	}
	return d.DetectWaveform(wave), nil
}

// DetectWaveform runs detection over an already-decoded waveform.
func (d *Detector) DetectWaveform(wave audio.Waveform) []vad.Interval {
	if len(wave.Samples) == 0 || wave.SampleRate <= 0 {
		return []vad.Interval{}
	}

	frameLen := wave.SampleRate * d.frameMs / 1000
	if frameLen <= 0 {
		frameLen = 1
	}
	frameSec := float64(frameLen) / float64(wave.SampleRate)

	var (
		raw     []vad.Interval
		open    bool
		openAt  float64
		elapsed float64
	)
	for off := 0; off < len(wave.Samples); off += frameLen {
		end := off + frameLen
		if end > len(wave.Samples) {
			end = len(wave.Samples)
		}
		speech := frameRMSdBFS(wave.Samples[off:end]) >= d.thresholdDBFS
		switch {
		case speech && !open:
			open = true
			openAt = elapsed
		case !speech && open:
			open = false
			raw = append(raw, vad.Interval{Start: openAt, End: elapsed})
		}
		elapsed += frameSec
	}
	if open {
		raw = append(raw, vad.Interval{Start: openAt, End: wave.Duration()})
	}

	return d.smooth(raw)
}

// smooth merges segments separated by short silences, then drops segments
// that are too short to be speech.
func (d *Detector) smooth(raw []vad.Interval) []vad.Interval {
	merged := make([]vad.Interval, 0, len(raw))
	for _, seg := range raw {
		if n := len(merged); n > 0 && seg.Start-merged[n-1].End < d.minSilenceSec {
			merged[n-1].End = seg.End
			continue
		}
		merged = append(merged, seg)
	}

	out := make([]vad.Interval, 0, len(merged))
	for _, seg := range merged {
		if seg.Duration() >= d.minSpeechSec {
			out = append(out, seg)
		}
	}
	return out
}

func frameRMSdBFS(samples []float32) float64 {
	if len(samples) == 0 {
		return math.Inf(-1)
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	if rms <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms)
}
