// Command cadence analyzes a recorded speech delivery: pace, pauses,
// filler/hedge usage, script coverage, and recording quality, written out as
// one JSON report.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oratorlab/cadence/internal/analysis"
	"github.com/oratorlab/cadence/internal/config"
	"github.com/oratorlab/cadence/internal/health"
	"github.com/oratorlab/cadence/internal/observe"
	"github.com/oratorlab/cadence/internal/reportstore"
	"github.com/oratorlab/cadence/internal/resilience"
	"github.com/oratorlab/cadence/pkg/provider/embeddings"
	ollamaembed "github.com/oratorlab/cadence/pkg/provider/embeddings/ollama"
	oaembed "github.com/oratorlab/cadence/pkg/provider/embeddings/openai"
	"github.com/oratorlab/cadence/pkg/provider/transcribe"
	transcribenative "github.com/oratorlab/cadence/pkg/provider/transcribe/native"
	oastt "github.com/oratorlab/cadence/pkg/provider/transcribe/openai"
	"github.com/oratorlab/cadence/pkg/provider/transcribe/whispersrv"
	"github.com/oratorlab/cadence/pkg/provider/vad"
	"github.com/oratorlab/cadence/pkg/provider/vad/energy"
	"github.com/oratorlab/cadence/pkg/provider/vad/pyannote"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	audioPath := flag.String("audio", "", "path to the recording to analyze (required)")
	scriptPath := flag.String("script", "", "path to the reference script text (optional)")
	language := flag.String("language", "", "language code override, e.g. ru or en")
	model := flag.String("model", "", "transcription model override")
	plannedMin := flag.Float64("planned-duration", 0, "planned talk duration in minutes (optional)")
	pauseThreshold := flag.Float64("pause-threshold", 0, "long-pause threshold override in seconds")
	outPath := flag.String("out", "report.json", "path of the JSON report to write")
	flag.Parse()

	if *audioPath == "" {
		fmt.Fprintln(os.Stderr, "cadence: --audio is required")
		flag.Usage()
		return 2
	}

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "cadence: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "cadence: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	slog.SetDefault(newLogger(cfg.Log.Level))

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "cadence"})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()
	if addr := cfg.Telemetry.ListenAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		health.New(health.Checker{
			Name: "ffmpeg",
			Check: func(context.Context) error {
				_, err := exec.LookPath("ffmpeg")
				return err
			},
		}).Register(mux)
		go func() {
			if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Warn("metrics endpoint error", "err", err)
			}
		}()
		slog.Info("metrics endpoint up", "addr", addr)
	}

	// ── Provider registry ─────────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinProviders(reg)

	transcriber, err := reg.CreateTranscribe(cfg.Providers.Transcribe)
	if err != nil {
		slog.Error("failed to build transcription provider", "err", err)
		return 1
	}
	if fb := cfg.Providers.TranscribeFallback; fb.Name != "" {
		fallback, err := reg.CreateTranscribe(fb)
		if err != nil {
			slog.Error("failed to build fallback transcription provider", "err", err)
			return 1
		}
		group := resilience.NewTranscriberFallback(transcriber, cfg.Providers.Transcribe.Name, resilience.FallbackConfig{})
		group.AddFallback(fb.Name, fallback)
		transcriber = group
	}
	detector, err := reg.CreateVAD(cfg.Providers.VAD)
	if err != nil {
		slog.Error("failed to build VAD provider", "err", err)
		return 1
	}
	var embedder embeddings.Provider
	if cfg.Providers.Embeddings.Name != "" {
		embedder, err = reg.CreateEmbeddings(cfg.Providers.Embeddings)
		if err != nil {
			slog.Error("failed to build embeddings provider", "err", err)
			return 1
		}
	}

	// ── Request ───────────────────────────────────────────────────────────────
	var scriptText string
	if *scriptPath != "" {
		raw, err := os.ReadFile(*scriptPath)
		if err != nil {
			slog.Error("failed to read script", "path", *scriptPath, "err", err)
			return 1
		}
		scriptText = string(raw)
	}

	req := analysis.Request{
		AudioPath:      *audioPath,
		ScriptText:     scriptText,
		Language:       *language,
		PauseThreshold: *pauseThreshold,
		Model:          *model,
	}
	if *plannedMin > 0 {
		sec := *plannedMin * 60
		req.PlannedDuration = &sec
	}

	analyzer := analysis.New(transcriber, detector,
		analysis.WithEmbedder(embedder),
		analysis.WithOptions(analysisOptions(cfg.Analysis)),
	)

	// ── Run ───────────────────────────────────────────────────────────────────
	report, err := analyzer.Analyze(ctx, req)
	if err != nil {
		var upstream *analysis.UpstreamError
		if errors.As(err, &upstream) {
			slog.Error("analysis unavailable: required upstream failed",
				"capability", upstream.Capability, "err", upstream.Unwrap())
		} else {
			slog.Error("analysis failed", "err", err)
		}
		return 1
	}

	if err := writeReport(*outPath, report); err != nil {
		slog.Error("failed to write report", "path", *outPath, "err", err)
		return 1
	}
	printSummary(report, *outPath)

	// ── Optional archive ──────────────────────────────────────────────────────
	if cfg.Storage.Backend != config.StorageNone {
		if err := archiveReport(ctx, cfg.Storage, report, embedder); err != nil {
			slog.Warn("report archiving failed", "err", err)
		}
	}
	return 0
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// registerBuiltinProviders wires all built-in provider factories into reg.
// Each factory receives a config.ProviderEntry and constructs the provider
// from the real implementation packages.
func registerBuiltinProviders(reg *config.Registry) {
	// ── Transcription ─────────────────────────────────────────────────────────
	reg.RegisterTranscribe("whisper-server", func(entry config.ProviderEntry) (transcribe.Provider, error) {
		var opts []whispersrv.Option
		if entry.Model != "" {
			opts = append(opts, whispersrv.WithModel(entry.Model))
		}
		return whispersrv.New(entry.BaseURL, opts...)
	})
	reg.RegisterTranscribe("whisper-native", func(entry config.ProviderEntry) (transcribe.Provider, error) {
		modelPath := optString(entry.Options, "model_path")
		if modelPath == "" {
			return nil, errors.New("whisper-native requires options.model_path")
		}
		return transcribenative.New(modelPath)
	})
	reg.RegisterTranscribe("openai", func(entry config.ProviderEntry) (transcribe.Provider, error) {
		var opts []oastt.Option
		if entry.BaseURL != "" {
			opts = append(opts, oastt.WithBaseURL(entry.BaseURL))
		}
		if entry.Model != "" {
			opts = append(opts, oastt.WithModel(entry.Model))
		}
		return oastt.New(entry.APIKey, opts...)
	})

	// ── VAD ───────────────────────────────────────────────────────────────────
	reg.RegisterVAD("pyannote", func(entry config.ProviderEntry) (vad.Detector, error) {
		var opts []pyannote.Option
		if entry.APIKey != "" {
			opts = append(opts, pyannote.WithToken(entry.APIKey))
		}
		return pyannote.New(entry.BaseURL, opts...)
	})
	reg.RegisterVAD("energy", func(entry config.ProviderEntry) (vad.Detector, error) {
		return energy.New(), nil
	})

	// ── Embeddings ────────────────────────────────────────────────────────────
	reg.RegisterEmbeddings("openai", func(entry config.ProviderEntry) (embeddings.Provider, error) {
		var opts []oaembed.Option
		if entry.BaseURL != "" {
			opts = append(opts, oaembed.WithBaseURL(entry.BaseURL))
		}
		return oaembed.New(entry.APIKey, entry.Model, opts...)
	})
	reg.RegisterEmbeddings("ollama", func(entry config.ProviderEntry) (embeddings.Provider, error) {
		return ollamaembed.New(entry.BaseURL, entry.Model)
	})
}

// analysisOptions maps the config block onto analyzer options, filling
// defaults for unset fields.
func analysisOptions(a config.AnalysisConfig) analysis.Options {
	opts := analysis.DefaultOptions()
	if a.Language != "" {
		opts.Language = a.Language
	}
	if a.PauseThresholdSec > 0 {
		opts.PauseThreshold = a.PauseThresholdSec
	}
	if a.CoverageThreshold > 0 {
		opts.CoverageThreshold = a.CoverageThreshold
	}
	if a.ShortUnitTokens > 0 {
		opts.ShortUnitTokens = a.ShortUnitTokens
	}
	if a.ShortUnitThreshold > 0 {
		opts.ShortUnitThreshold = a.ShortUnitThreshold
	}
	if a.MinUnitTokens > 0 {
		opts.MinUnitTokens = a.MinUnitTokens
	}
	if a.GroupMaxSeconds > 0 {
		opts.GroupMaxSeconds = a.GroupMaxSeconds
	}
	if a.GroupMaxWords > 0 {
		opts.GroupMaxWords = a.GroupMaxWords
	}
	return opts
}

// ── Output ────────────────────────────────────────────────────────────────────

func writeReport(path string, report *analysis.AnalysisReport) error {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(payload, '\n'), 0o644)
}

func printSummary(report *analysis.AnalysisReport, outPath string) {
	fmt.Printf("Report written to %s\n", outPath)
	fmt.Printf("Duration (spoken/total): %.1fs / %.1fs\n", report.DurationSpoken, report.DurationTotal)
	fmt.Printf("WPM (spoken/overall): %.1f / %.1f\n", report.WPMSpoken, report.WPMOverall)
	fmt.Printf("Fillers: %d, Hedges: %d\n", report.FillerCountTotal, report.HedgeCountTotal)
	if report.ScriptAlignment != nil {
		fmt.Printf("Coverage: %.1f%%\n", report.ScriptAlignment.Coverage)
	}

	p := analysis.Present(report.Checklist)
	fmt.Printf("\n%s\n", p.Summary)
	for _, g := range p.Groups {
		if g.Score == nil {
			continue
		}
		fmt.Printf("  %-10s %.0f\n", g.Name, *g.Score)
	}
	if len(p.Areas) > 0 {
		fmt.Printf("Work on: %v\n", p.Areas)
	}
}

// ── Archive ───────────────────────────────────────────────────────────────────

// archiveReport saves the report through the configured backend. With the
// Postgres backend and an embedder available, the grouped segment texts are
// also indexed for similar-rehearsal search.
func archiveReport(ctx context.Context, cfg config.StorageConfig, report *analysis.AnalysisReport, embedder embeddings.Provider) error {
	switch cfg.Backend {
	case config.StorageSQLite:
		store, err := reportstore.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.Save(ctx, report)
		if err != nil {
			return err
		}
		slog.Info("report archived", "backend", "sqlite", "id", id)
		return nil

	case config.StoragePostgres:
		dims := cfg.EmbeddingDimensions
		if dims <= 0 {
			dims = 1536
		}
		store, err := reportstore.NewPostgresStore(ctx, cfg.PostgresDSN, dims)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.Save(ctx, report)
		if err != nil {
			return err
		}
		slog.Info("report archived", "backend", "postgres", "id", id)

		if embedder != nil && len(report.SegmentTexts) > 0 {
			vecs, err := embedder.EmbedBatch(ctx, report.SegmentTexts)
			if err != nil {
				return fmt.Errorf("embed segments for index: %w", err)
			}
			if err := store.IndexSegments(ctx, id, report.SegmentTexts, vecs); err != nil {
				return err
			}
			slog.Info("segments indexed", "count", len(report.SegmentTexts))
		}
		return nil

	default:
		return nil
	}
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// optString extracts a string value from a provider Options map[string]any.
// Returns "" if the map is nil, the key is absent, or the value is not a string.
func optString(opts map[string]any, key string) string {
	if opts == nil {
		return ""
	}
	v, ok := opts[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
