package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known provider names per provider kind.
// Used by [Validate] to warn about unrecognised provider names.
var ValidProviderNames = map[string][]string{
	"transcribe": {"whisper-server", "whisper-native", "openai"},
	"vad":        {"pyannote", "energy"},
	"embeddings": {"openai", "ollama"},
}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader] and
// [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Log.Level != "" && !cfg.Log.Level.IsValid() {
		errs = append(errs, fmt.Errorf("log.level %q is invalid; valid values: debug, info, warn, error", cfg.Log.Level))
	}

	validateProviderName("transcribe", cfg.Providers.Transcribe.Name)
	validateProviderName("transcribe", cfg.Providers.TranscribeFallback.Name)
	validateProviderName("vad", cfg.Providers.VAD.Name)
	validateProviderName("embeddings", cfg.Providers.Embeddings.Name)

	if cfg.Providers.Transcribe.Name == "" {
		errs = append(errs, errors.New("providers.transcribe.name is required"))
	}
	if fb := cfg.Providers.TranscribeFallback.Name; fb != "" && fb == cfg.Providers.Transcribe.Name {
		slog.Warn("providers.transcribe_fallback names the same backend as the primary; failover will retry the same service",
			"name", fb)
	}
	if cfg.Providers.VAD.Name == "" {
		errs = append(errs, errors.New("providers.vad.name is required"))
	}
	if cfg.Providers.Embeddings.Name == "" {
		slog.Warn("no embeddings provider configured; reports will carry no script alignment")
	}

	a := cfg.Analysis
	if a.PauseThresholdSec < 0 {
		errs = append(errs, fmt.Errorf("analysis.pause_threshold_sec %.2f must not be negative", a.PauseThresholdSec))
	}
	if a.CoverageThreshold < 0 || a.CoverageThreshold > 1 {
		errs = append(errs, fmt.Errorf("analysis.coverage_threshold %.2f is out of range [0, 1]", a.CoverageThreshold))
	}
	if a.ShortUnitThreshold < 0 || a.ShortUnitThreshold > 1 {
		errs = append(errs, fmt.Errorf("analysis.short_unit_threshold %.2f is out of range [0, 1]", a.ShortUnitThreshold))
	}
	if a.CoverageThreshold > 0 && a.ShortUnitThreshold > a.CoverageThreshold {
		slog.Warn("analysis.short_unit_threshold exceeds coverage_threshold; short units will be matched more strictly than long ones",
			"short_unit_threshold", a.ShortUnitThreshold,
			"coverage_threshold", a.CoverageThreshold,
		)
	}
	if a.GroupMaxSeconds < 0 {
		errs = append(errs, fmt.Errorf("analysis.group_max_seconds %.2f must not be negative", a.GroupMaxSeconds))
	}
	if a.GroupMaxWords < 0 {
		errs = append(errs, fmt.Errorf("analysis.group_max_words %d must not be negative", a.GroupMaxWords))
	}

	s := cfg.Storage
	if !s.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("storage.backend %q is invalid; valid values: postgres, sqlite, or empty", s.Backend))
	}
	if s.Backend == StoragePostgres && s.PostgresDSN == "" {
		errs = append(errs, errors.New("storage.postgres_dsn is required when storage.backend is postgres"))
	}
	if s.Backend == StorageSQLite && s.SQLitePath == "" {
		errs = append(errs, errors.New("storage.sqlite_path is required when storage.backend is sqlite"))
	}
	if s.Backend == StoragePostgres && cfg.Providers.Embeddings.Name != "" && s.EmbeddingDimensions <= 0 {
		slog.Warn("storage.embedding_dimensions is not set; the segment index will default to 1536")
	}

	return errors.Join(errs...)
}

// validateProviderName logs a warning if name is non-empty and not found in
// the [ValidProviderNames] list for the given kind.
func validateProviderName(kind, name string) {
	if name == "" {
		return
	}
	known, ok := ValidProviderNames[kind]
	if !ok {
		return
	}
	if slices.Contains(known, name) {
		return
	}
	slog.Warn("unknown provider name — may be a typo or third-party provider",
		"kind", kind,
		"name", name,
		"known", known,
	)
}
