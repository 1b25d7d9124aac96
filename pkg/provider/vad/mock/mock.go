// Package mock provides a test double for the vad.Detector interface.
package mock

import (
	"context"
	"sync"

	"github.com/oratorlab/cadence/pkg/provider/vad"
)

// Detector is a mock implementation of vad.Detector.
type Detector struct {
	mu sync.Mutex

	// Segments is returned by DetectSegments when Err is nil.
	Segments []vad.Interval

	// Err, if non-nil, is returned as the error from DetectSegments.
	Err error

	// Calls records the audio paths passed to DetectSegments in order.
	Calls []string
}

// DetectSegments records the call and returns Segments, Err.
func (d *Detector) DetectSegments(ctx context.Context, audioPath string) ([]vad.Interval, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = append(d.Calls, audioPath)
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Segments, nil
}

// Compile-time assertion that Detector implements vad.Detector.
var _ vad.Detector = (*Detector)(nil)
