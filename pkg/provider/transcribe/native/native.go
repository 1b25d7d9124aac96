// Package native provides a transcribe.Provider backed by the whisper.cpp
// CGO bindings, so recordings can be analysed fully offline. The whisper.cpp
// static library (libwhisper.a) and headers must be available at link time
// via LIBRARY_PATH and C_INCLUDE_PATH.
//
// The model is loaded once at construction and shared across calls; each
// Transcribe call creates its own whisper context, so concurrent calls are
// safe.
package native

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/oratorlab/cadence/pkg/audio"
	"github.com/oratorlab/cadence/pkg/provider/transcribe"
)

// Compile-time assertion that Provider satisfies transcribe.Provider.
var _ transcribe.Provider = (*Provider)(nil)

const defaultLanguage = "ru"

// Option is a functional option for configuring a Provider.
type Option func(*Provider)

// WithLanguage sets the default language code used when a request does not
// carry one. Defaults to "ru".
func WithLanguage(lang string) Option {
	return func(p *Provider) { p.language = lang }
}

// Provider implements transcribe.Provider using whisper.cpp in-process.
type Provider struct {
	model    whisperlib.Model
	language string
}

// New loads the whisper.cpp model from modelPath. The caller must call Close
// when the provider is no longer needed.
func New(modelPath string, opts ...Option) (*Provider, error) {
	if modelPath == "" {
		return nil, errors.New("whisper native: modelPath must not be empty")
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("whisper native: load model %q: %w", modelPath, err)
	}
	p := &Provider{model: model, language: defaultLanguage}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Close releases the whisper model.
func (p *Provider) Close() error {
	if p.model != nil {
		return p.model.Close()
	}
	return nil
}

// Transcribe implements transcribe.Provider. The audio file is decoded to
// 16 kHz mono float32 (whisper.cpp's native input format) before inference.
func (p *Provider) Transcribe(ctx context.Context, audioPath string, cfg transcribe.Config) (*transcribe.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("whisper native: %w", err)
	}

	wave, err := audio.Load(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("whisper native: %w", err)
	}
	samples := wave.Samples
	if wave.SampleRate != whisperlib.SampleRate {
		samples = audio.ResampleMono(samples, wave.SampleRate, whisperlib.SampleRate)
	}

	wctx, err := p.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("whisper native: create context: %w", err)
	}

	lang := cfg.Language
	if lang == "" {
		lang = p.language
	}
	if err := wctx.SetLanguage(lang); err != nil {
		slog.Warn("whisper native: failed to set language, using model default",
			"language", lang, "error", err)
	}
	wctx.SetTokenTimestamps(true)

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return nil, fmt.Errorf("whisper native: process audio: %w", err)
	}

	res := &transcribe.Result{
		Duration: wave.Duration(),
		Language: lang,
		Words:    []transcribe.Word{},
	}
	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("whisper native: read segment: %w", err)
		}

		text := strings.TrimSpace(segment.Text)
		res.Segments = append(res.Segments, transcribe.Segment{
			Start: segment.Start.Seconds(),
			End:   segment.End.Seconds(),
			Text:  text,
		})
		if text != "" {
			parts = append(parts, text)
		}

		// Token timestamps stand in for word timestamps. Sub-word tokens are
		// rare at whisper's granularity for the languages we target; special
		// tokens ("[_BEG_]" and friends) are skipped.
		for _, tok := range segment.Tokens {
			word := strings.TrimSpace(tok.Text)
			if word == "" || strings.HasPrefix(word, "[_") {
				continue
			}
			res.Words = append(res.Words, transcribe.Word{
				Text:  word,
				Start: tok.Start.Seconds(),
				End:   tok.End.Seconds(),
			})
		}
	}
	res.Text = strings.Join(parts, " ")
	return res, nil
}
