package resilience

import (
	"context"

	"github.com/oratorlab/cadence/pkg/provider/transcribe"
)

// TranscriberFallback implements [transcribe.Provider] with automatic failover
// across multiple transcription backends. Each backend has its own circuit
// breaker, so a remote whisper server that keeps timing out is bypassed in
// favour of, say, a local model.
type TranscriberFallback struct {
	group *FallbackGroup[transcribe.Provider]
}

// Compile-time interface assertion.
var _ transcribe.Provider = (*TranscriberFallback)(nil)

// NewTranscriberFallback creates a [TranscriberFallback] with primary as the
// preferred backend.
func NewTranscriberFallback(primary transcribe.Provider, primaryName string, cfg FallbackConfig) *TranscriberFallback {
	return &TranscriberFallback{
		group: NewFallbackGroup(primary, primaryName, cfg),
	}
}

// AddFallback registers an additional transcription backend. Fallbacks are
// tried in registration order after the primary.
func (f *TranscriberFallback) AddFallback(name string, provider transcribe.Provider) {
	f.group.AddFallback(name, provider)
}

// Transcribe runs the request against the first healthy backend.
func (f *TranscriberFallback) Transcribe(ctx context.Context, audioPath string, cfg transcribe.Config) (*transcribe.Result, error) {
	return ExecuteWithResult(f.group, func(p transcribe.Provider) (*transcribe.Result, error) {
		return p.Transcribe(ctx, audioPath, cfg)
	})
}
