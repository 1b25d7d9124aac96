package reportstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/oratorlab/cadence/internal/analysis"
)

// Compile-time interface checks.
var (
	_ Store           = (*PostgresStore)(nil)
	_ SemanticArchive = (*PostgresStore)(nil)
)

// PostgresStore archives reports in PostgreSQL. Reports are stored as JSONB;
// grouped segment texts are indexed in a pgvector HNSW index for
// similar-rehearsal search. All operations are safe for concurrent use.
type PostgresStore struct {
	pool *pgxpool.Pool
}

const ddlReports = `
CREATE TABLE IF NOT EXISTS reports (
    id          TEXT         PRIMARY KEY,
    audio_hash  TEXT         NOT NULL DEFAULT '',
    language    TEXT         NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ  NOT NULL DEFAULT now(),
    report      JSONB        NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_audio_hash
    ON reports (audio_hash);

CREATE INDEX IF NOT EXISTS idx_reports_created_at
    ON reports (created_at);
`

// ddlSegments returns the segment-index DDL with the embedding dimension
// substituted. The vector dimension is baked into the column type at schema
// creation time.
func ddlSegments(embeddingDimensions int) string {
	return fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS report_segments (
    id         BIGSERIAL  PRIMARY KEY,
    report_id  TEXT       NOT NULL REFERENCES reports (id) ON DELETE CASCADE,
    seg_idx    INT        NOT NULL,
    content    TEXT       NOT NULL,
    embedding  vector(%d)
);

CREATE INDEX IF NOT EXISTS idx_report_segments_report_id
    ON report_segments (report_id);

CREATE INDEX IF NOT EXISTS idx_report_segments_embedding
    ON report_segments USING hnsw (embedding vector_cosine_ops);
`, embeddingDimensions)
}

// Migrate creates or ensures all required tables and extensions exist. It is
// idempotent and safe to call on every start.
//
// embeddingDimensions must match the configured embedding model (e.g., 1536
// for OpenAI text-embedding-3-small, 768 for nomic-embed-text). Changing it
// after the first migration requires a manual schema update.
func Migrate(ctx context.Context, pool *pgxpool.Pool, embeddingDimensions int) error {
	for _, stmt := range []string{ddlReports, ddlSegments(embeddingDimensions)} {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("reportstore migrate: %w", err)
		}
	}
	return nil
}

// NewPostgresStore establishes a connection pool to the database at dsn,
// registers pgvector types on every connection, and runs [Migrate].
func NewPostgresStore(ctx context.Context, dsn string, embeddingDimensions int) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("reportstore: parse dsn: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("reportstore: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("reportstore: ping: %w", err)
	}
	if err := Migrate(ctx, pool, embeddingDimensions); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

// Save implements [Store].
func (s *PostgresStore) Save(ctx context.Context, report *analysis.AnalysisReport) (string, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("reportstore: marshal report: %w", err)
	}
	id := reportID(report)

	const q = `
		INSERT INTO reports (id, audio_hash, language, created_at, report)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
		    audio_hash = EXCLUDED.audio_hash,
		    language   = EXCLUDED.language,
		    report     = EXCLUDED.report`
	_, err = s.pool.Exec(ctx, q, id, report.Meta.AudioHash, report.Meta.Language, report.Meta.GeneratedAt, payload)
	if err != nil {
		return "", fmt.Errorf("reportstore: save report: %w", err)
	}
	return id, nil
}

// Get implements [Store].
func (s *PostgresStore) Get(ctx context.Context, id string) (*StoredReport, error) {
	const q = `SELECT id, audio_hash, language, created_at, report FROM reports WHERE id = $1`

	var (
		sr      StoredReport
		payload []byte
	)
	err := s.pool.QueryRow(ctx, q, id).Scan(&sr.ID, &sr.AudioHash, &sr.Language, &sr.CreatedAt, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reportstore: get report: %w", err)
	}
	if err := json.Unmarshal(payload, &sr.Report); err != nil {
		return nil, fmt.Errorf("reportstore: unmarshal report %q: %w", id, err)
	}
	return &sr, nil
}

// List implements [Store].
func (s *PostgresStore) List(ctx context.Context, limit int) ([]StoredReport, error) {
	const q = `SELECT id, audio_hash, language, created_at, report
	           FROM reports ORDER BY created_at DESC LIMIT $1`

	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("reportstore: list reports: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (StoredReport, error) {
		var (
			sr      StoredReport
			payload []byte
		)
		if err := row.Scan(&sr.ID, &sr.AudioHash, &sr.Language, &sr.CreatedAt, &payload); err != nil {
			return StoredReport{}, err
		}
		if err := json.Unmarshal(payload, &sr.Report); err != nil {
			return StoredReport{}, err
		}
		return sr, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reportstore: scan reports: %w", err)
	}
	if out == nil {
		out = []StoredReport{}
	}
	return out, nil
}

// IndexSegments implements [SemanticArchive]. Existing segments of the same
// report are replaced.
func (s *PostgresStore) IndexSegments(ctx context.Context, reportID string, texts []string, embeddings [][]float32) error {
	if len(texts) != len(embeddings) {
		return fmt.Errorf("reportstore: %d texts but %d embeddings", len(texts), len(embeddings))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("reportstore: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM report_segments WHERE report_id = $1`, reportID); err != nil {
		return fmt.Errorf("reportstore: clear segments: %w", err)
	}
	const q = `INSERT INTO report_segments (report_id, seg_idx, content, embedding)
	           VALUES ($1, $2, $3, $4)`
	for i, text := range texts {
		if _, err := tx.Exec(ctx, q, reportID, i, text, pgvector.NewVector(embeddings[i])); err != nil {
			return fmt.Errorf("reportstore: index segment %d: %w", i, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("reportstore: commit: %w", err)
	}
	return nil
}

// SearchSimilar implements [SemanticArchive].
func (s *PostgresStore) SearchSimilar(ctx context.Context, embedding []float32, topK int) ([]SegmentMatch, error) {
	const q = `
		SELECT report_id, content, embedding <=> $1 AS distance
		FROM   report_segments
		ORDER  BY distance
		LIMIT  $2`

	rows, err := s.pool.Query(ctx, q, pgvector.NewVector(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("reportstore: search segments: %w", err)
	}
	matches, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (SegmentMatch, error) {
		var m SegmentMatch
		err := row.Scan(&m.ReportID, &m.Content, &m.Distance)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("reportstore: scan segments: %w", err)
	}
	if matches == nil {
		matches = []SegmentMatch{}
	}
	return matches, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
