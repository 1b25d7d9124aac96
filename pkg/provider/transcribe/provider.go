// Package transcribe defines the Provider interface for batch speech-to-text
// backends.
//
// Unlike streaming STT, the delivery analyzer works on complete recordings,
// so a provider receives a path to an audio file and returns one Result with
// the full transcript, word-level timestamps, and the raw ASR segments. The
// analyzer degrades without word timestamps would be meaningless, so a
// provider that cannot produce them must return an error rather than a
// partial Result.
//
// Implementations must be safe for concurrent use; each Transcribe call is
// independent.
package transcribe

import "context"

// Config carries per-request recognition hints.
type Config struct {
	// Language is the language hint for recognition (e.g. "ru", "en").
	// An empty string lets the provider auto-detect, if supported.
	Language string

	// Model selects a provider-specific model (e.g. "small", "whisper-1").
	// Empty means the provider's default.
	Model string
}

// Word is a single transcribed word with its position in the recording.
type Word struct {
	// Text is the word as recognised, without surrounding whitespace.
	Text string

	// Start and End are offsets from the beginning of the recording, in
	// seconds. Words are emitted in ascending Start order.
	Start float64
	End   float64
}

// Segment is one raw ASR segment (roughly phrase-sized). Segments feed the
// spoken-text grouper; their boundaries come straight from the backend.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Result is the complete output of one transcription run.
type Result struct {
	// Text is the full transcript, segments joined by single spaces.
	Text string

	// Words holds word-level timestamps ordered by start time. May be empty
	// for a silent recording; never nil on success.
	Words []Word

	// Segments holds the raw ASR segments in order.
	Segments []Segment

	// Duration is the recording duration as reported by the backend, in
	// seconds. Zero when the backend does not report one.
	Duration float64

	// Language is the language the backend actually used or detected.
	Language string
}

// Provider is the abstraction over any batch transcription backend.
type Provider interface {
	// Transcribe decodes and transcribes the audio file at audioPath.
	// Returns an error if the backend is unreachable, rejects the audio, or
	// cannot produce word timestamps.
	Transcribe(ctx context.Context, audioPath string, cfg Config) (*Result, error)
}
