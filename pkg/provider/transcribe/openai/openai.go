// Package openai provides a transcribe.Provider backed by the OpenAI audio
// transcription API (or any compatible endpoint, e.g. a vLLM/whisper proxy
// exposing the same route).
//
// Requests use response_format=verbose_json with word and segment timestamp
// granularities, which the analyzer requires for back-projecting filler
// matches onto the timeline.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	oai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/oratorlab/cadence/pkg/provider/transcribe"
)

// DefaultModel is the default transcription model.
const DefaultModel = string(oai.AudioModelWhisper1)

// Compile-time assertion that Client satisfies transcribe.Provider.
var _ transcribe.Provider = (*Client)(nil)

// settings collects construction-time configuration for [New].
type settings struct {
	model   string
	reqOpts []option.RequestOption
}

// Option is a functional option for configuring a Client.
type Option func(*settings)

// WithBaseURL overrides the API base URL (e.g. for a compatible proxy).
func WithBaseURL(url string) Option {
	return func(s *settings) {
		s.reqOpts = append(s.reqOpts, option.WithBaseURL(url))
	}
}

// WithModel sets the transcription model. Defaults to whisper-1.
func WithModel(model string) Option {
	return func(s *settings) { s.model = model }
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.reqOpts = append(s.reqOpts, option.WithHTTPClient(&http.Client{Timeout: d}))
	}
}

// Client implements transcribe.Provider against the OpenAI transcription API.
type Client struct {
	client oai.Client
	model  string
}

// New creates a Client. apiKey must not be empty.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("openai transcribe: apiKey must not be empty")
	}
	s := settings{
		model:   DefaultModel,
		reqOpts: []option.RequestOption{option.WithAPIKey(apiKey)},
	}
	for _, o := range opts {
		o(&s)
	}
	return &Client{client: oai.NewClient(s.reqOpts...), model: s.model}, nil
}

// Transcribe implements transcribe.Provider.
func (c *Client) Transcribe(ctx context.Context, audioPath string, cfg transcribe.Config) (*transcribe.Result, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("openai transcribe: open audio: %w", err)
	}
	defer f.Close()

	model := cfg.Model
	if model == "" {
		model = c.model
	}

	params := oai.AudioTranscriptionNewParams{
		File:                   f,
		Model:                  oai.AudioModel(model),
		ResponseFormat:         oai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"word", "segment"},
	}
	if cfg.Language != "" {
		params.Language = oai.String(cfg.Language)
	}

	// The service method decodes the plain json shape; verbose_json carries
	// the word and segment timelines, so route the body into the verbose type.
	var verbose oai.TranscriptionVerbose
	if _, err := c.client.Audio.Transcriptions.New(ctx, params, option.WithResponseBodyInto(&verbose)); err != nil {
		return nil, fmt.Errorf("openai transcribe: request: %w", err)
	}

	res := &transcribe.Result{
		Text:     strings.TrimSpace(verbose.Text),
		Duration: verbose.Duration,
		Language: verbose.Language,
		Words:    make([]transcribe.Word, 0, len(verbose.Words)),
	}
	for _, w := range verbose.Words {
		word := strings.TrimSpace(w.Word)
		if word == "" {
			continue
		}
		res.Words = append(res.Words, transcribe.Word{Text: word, Start: w.Start, End: w.End})
	}
	for _, s := range verbose.Segments {
		res.Segments = append(res.Segments, transcribe.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		})
	}
	return res, nil
}
