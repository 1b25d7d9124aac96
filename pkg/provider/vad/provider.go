// Package vad defines the Detector interface for voice-activity backends.
//
// The delivery analyzer runs VAD over a whole recording at once, so the
// interface is offline: one call, one sorted list of speech intervals. Frame
// level streaming detectors can be wrapped by buffering the file themselves.
//
// Implementations must be safe for concurrent use.
package vad

import "context"

// Interval is a span of detected speech, in seconds from the start of the
// recording.
type Interval struct {
	Start float64
	End   float64
}

// Duration returns the interval length in seconds.
func (i Interval) Duration() float64 { return i.End - i.Start }

// Detector is the abstraction over any voice-activity backend.
type Detector interface {
	// DetectSegments returns the speech intervals found in the audio file at
	// audioPath, sorted by start time and non-overlapping. An empty slice
	// (not an error) means no speech was detected.
	DetectSegments(ctx context.Context, audioPath string) ([]Interval, error)
}
