package analysis

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oratorlab/cadence/internal/observe"
	"github.com/oratorlab/cadence/pkg/audio"
	"github.com/oratorlab/cadence/pkg/provider/embeddings"
	"github.com/oratorlab/cadence/pkg/provider/transcribe"
	"github.com/oratorlab/cadence/pkg/provider/vad"
)

// Default thresholds for a run that does not override them.
const (
	DefaultPauseThreshold     = 4.0
	DefaultCoverageThreshold  = 0.65
	DefaultShortUnitTokens    = 4
	DefaultShortUnitThreshold = 0.45
	DefaultMinUnitTokens      = 3
	DefaultGroupMaxSeconds    = 12.0
	DefaultGroupMaxWords      = 60
)

// UpstreamError marks a failure of a required external capability. Callers
// receive it instead of a partial report and decide about retries themselves.
type UpstreamError struct {
	Capability string // "transcribe" or "vad"
	Err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("analysis: %s upstream failed: %v", e.Capability, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Options are the tunable thresholds of a run.
type Options struct {
	Language           string
	PauseThreshold     float64
	CoverageThreshold  float64
	ShortUnitTokens    int
	ShortUnitThreshold float64
	MinUnitTokens      int
	GroupMaxSeconds    float64
	GroupMaxWords      int
}

// DefaultOptions returns the standard thresholds with Russian as the
// catalogue language.
func DefaultOptions() Options {
	return Options{
		Language:           "ru",
		PauseThreshold:     DefaultPauseThreshold,
		CoverageThreshold:  DefaultCoverageThreshold,
		ShortUnitTokens:    DefaultShortUnitTokens,
		ShortUnitThreshold: DefaultShortUnitThreshold,
		MinUnitTokens:      DefaultMinUnitTokens,
		GroupMaxSeconds:    DefaultGroupMaxSeconds,
		GroupMaxWords:      DefaultGroupMaxWords,
	}
}

// Analyzer runs the full delivery analysis over one recording. Transcription
// and VAD are required collaborators; the embedder is optional and only
// gates script alignment.
type Analyzer struct {
	transcriber transcribe.Provider
	detector    vad.Detector
	embedder    embeddings.Provider
	metrics     *observe.Metrics
	opts        Options
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithEmbedder supplies the embeddings provider used for script alignment.
// Without one, reports carry a null script_alignment section.
func WithEmbedder(e embeddings.Provider) Option {
	return func(a *Analyzer) { a.embedder = e }
}

// WithMetrics overrides the metrics instance (tests pass an isolated one).
func WithMetrics(m *observe.Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithOptions replaces the default thresholds.
func WithOptions(opts Options) Option {
	return func(a *Analyzer) { a.opts = opts }
}

// New creates an Analyzer over the given transcription and VAD providers.
func New(transcriber transcribe.Provider, detector vad.Detector, opts ...Option) *Analyzer {
	a := &Analyzer{
		transcriber: transcriber,
		detector:    detector,
		metrics:     observe.DefaultMetrics(),
		opts:        DefaultOptions(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Request describes one analysis run. ScriptText and PlannedDuration are
// optional; leaving them empty turns the corresponding report sections
// not-applicable. Per-request fields override the Analyzer's defaults when
// set.
type Request struct {
	AudioPath       string
	ScriptText      string
	PlannedDuration *float64 // seconds
	Language        string
	PauseThreshold  float64
	Model           string
}

// Analyze produces one AnalysisReport for the request. Transcription and VAD
// failures are fatal and return an [*UpstreamError]; embedding or waveform
// failures degrade the affected sections and are recorded in Meta.Warnings.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*AnalysisReport, error) {
	ctx, span := observe.StartSpan(ctx, "analysis.Analyze")
	defer span.End()
	started := time.Now()
	log := observe.Logger(ctx).With("audio", req.AudioPath)

	language := a.opts.Language
	if req.Language != "" {
		language = req.Language
	}
	pauseThreshold := a.opts.PauseThreshold
	if req.PauseThreshold > 0 {
		pauseThreshold = req.PauseThreshold
	}

	var (
		tr   *transcribe.Result
		vseg []vad.Interval
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t0 := time.Now()
		res, err := a.transcriber.Transcribe(gctx, req.AudioPath, transcribe.Config{
			Language: language,
			Model:    req.Model,
		})
		a.metrics.TranscribeDuration.Record(gctx, time.Since(t0).Seconds())
		if err != nil {
			a.metrics.RecordProviderError(gctx, "transcribe", "stt")
			return &UpstreamError{Capability: "transcribe", Err: err}
		}
		a.metrics.RecordProviderRequest(gctx, "transcribe", "stt", "ok")
		tr = res
		return nil
	})
	g.Go(func() error {
		t0 := time.Now()
		segs, err := a.detector.DetectSegments(gctx, req.AudioPath)
		a.metrics.VADDuration.Record(gctx, time.Since(t0).Seconds())
		if err != nil {
			a.metrics.RecordProviderError(gctx, "vad", "vad")
			return &UpstreamError{Capability: "vad", Err: err}
		}
		a.metrics.RecordProviderRequest(gctx, "vad", "vad", "ok")
		vseg = segs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var warnings []string

	words := make([]TranscribedWord, 0, len(tr.Words))
	for _, w := range tr.Words {
		words = append(words, TranscribedWord{Text: w.Text, Start: w.Start, End: w.End})
	}
	segments := make([]SpeechSegment, 0, len(vseg))
	for _, s := range vseg {
		segments = append(segments, SpeechSegment{Start: round3(s.Start), End: round3(s.End)})
	}

	pauses, spokenTime, overallTime := DetectPauses(segments, pauseThreshold, tr.Duration)
	if tr.Duration > 0 && overallTime > tr.Duration*1.10 {
		warnings = append(warnings, fmt.Sprintf(
			"observed speech extends to %.1fs, over 10%% past the reported duration %.1fs", overallTime, tr.Duration))
	}
	// Word totals come from the tokenizer over the transcript text, not from
	// the ASR word entries: some backends emit punctuation-only entries that
	// would otherwise inflate the counts and both rates.
	wordsTotal := CountWords(tr.Text)
	spokenWPM, overallWPM := Rates(wordsTotal, spokenTime, overallTime)
	winStart, winEnd := SpeechWindow(words)

	catalog := CatalogFor(language)
	fillers, fillerTotal := FindPatterns(words, catalog.Fillers)
	hedges, hedgeTotal := FindPatterns(words, catalog.Hedges)

	units := SplitScriptUnits(req.ScriptText, a.opts.MinUnitTokens)
	trSegments := make([]TranscriptSegment, 0, len(tr.Segments))
	for _, s := range tr.Segments {
		trSegments = append(trSegments, TranscriptSegment{Start: s.Start, End: s.End, Text: s.Text})
	}
	segTexts := GroupSegments(trSegments, a.opts.GroupMaxSeconds, a.opts.GroupMaxWords)

	var alignment *CoverageResult
	if len(units) > 0 && a.embedder != nil {
		t0 := time.Now()
		res, err := AnalyzeCoverage(ctx, a.embedder, units, segTexts, CoverageOptions{
			Threshold:          a.opts.CoverageThreshold,
			ShortUnitTokens:    a.opts.ShortUnitTokens,
			ShortUnitThreshold: a.opts.ShortUnitThreshold,
		})
		a.metrics.EmbedDuration.Record(ctx, time.Since(t0).Seconds())
		if err != nil {
			a.metrics.RecordProviderError(ctx, "embeddings", "embed")
			log.Warn("script alignment skipped", "error", err)
			warnings = append(warnings, "script alignment unavailable: "+err.Error())
		} else {
			a.metrics.RecordProviderRequest(ctx, "embeddings", "embed", "ok")
			alignment = res
		}
	}

	var quality MicQuality
	if wave, err := audio.Load(ctx, req.AudioPath); err != nil {
		log.Warn("waveform unavailable, recording-quality fields left null", "error", err)
		warnings = append(warnings, "recording quality unavailable: "+err.Error())
	} else {
		quality = AnalyzeQuality(wave, segments)
	}

	var coverage *float64
	if alignment != nil {
		coverage = &alignment.Coverage
	}
	checklist := BuildChecklist(ChecklistInput{
		SpokenWPM:       spokenWPM,
		WordsTotal:      wordsTotal,
		Pauses:          pauses,
		SpokenTime:      spokenTime,
		OverallTime:     overallTime,
		FillerCount:     fillerTotal,
		HedgeCount:      hedgeTotal,
		Coverage:        coverage,
		PlannedDuration: req.PlannedDuration,
		SpeechWindowSec: winEnd - winStart,
		Quality:         quality,
	})

	meta := Meta{
		AudioPath:         req.AudioPath,
		Language:          language,
		Model:             req.Model,
		PauseThresholdSec: pauseThreshold,
		CoverageThreshold: a.opts.CoverageThreshold,
		GeneratedAt:       time.Now().UTC(),
		Warnings:          warnings,
	}
	if hash, err := audio.HashFile(req.AudioPath); err == nil {
		meta.AudioHash = hash
	}

	report := &AnalysisReport{
		Meta:             meta,
		TranscriptText:   tr.Text,
		DurationTotal:    round2(overallTime),
		DurationSpoken:   round2(spokenTime),
		WordsTotal:       wordsTotal,
		WPMOverall:       overallWPM,
		WPMSpoken:        spokenWPM,
		SpeechSegments:   segments,
		LongPauses:       pauses,
		FillerWords:      fillers,
		FillerCountTotal: fillerTotal,
		HedgePhrases:     hedges,
		HedgeCountTotal:  hedgeTotal,
		ScriptAlignment:  alignment,
		MicQuality:       quality,
		Checklist:        checklist,
		SegmentTexts:     segTexts,
	}

	a.metrics.AnalysisDuration.Record(ctx, time.Since(started).Seconds())
	a.metrics.RecordReport(ctx, language)
	log.Info("analysis complete",
		"words", report.WordsTotal,
		"wpm_spoken", report.WPMSpoken,
		"long_pauses", len(report.LongPauses),
		"took", time.Since(started).Round(time.Millisecond))
	return report, nil
}
