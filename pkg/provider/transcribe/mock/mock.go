// Package mock provides a test double for the transcribe.Provider interface.
//
// Use Provider to return pre-canned transcription results without a live
// backend and to verify which files and configs were submitted.
package mock

import (
	"context"
	"sync"

	"github.com/oratorlab/cadence/pkg/provider/transcribe"
)

// Call records a single invocation of Transcribe.
type Call struct {
	AudioPath string
	Config    transcribe.Config
}

// Provider is a mock implementation of transcribe.Provider.
type Provider struct {
	mu sync.Mutex

	// Result is returned by Transcribe when Err is nil.
	Result *transcribe.Result

	// Err, if non-nil, is returned as the error from Transcribe.
	Err error

	// Calls records every invocation in order.
	Calls []Call
}

// Transcribe records the call and returns Result, Err.
func (p *Provider) Transcribe(ctx context.Context, audioPath string, cfg transcribe.Config) (*transcribe.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, Call{AudioPath: audioPath, Config: cfg})
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Result != nil {
		return p.Result, nil
	}
	return &transcribe.Result{Words: []transcribe.Word{}}, nil
}

// Compile-time assertion that Provider implements transcribe.Provider.
var _ transcribe.Provider = (*Provider)(nil)
