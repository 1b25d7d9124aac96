package reportstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/oratorlab/cadence/internal/analysis"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore archives reports in a single SQLite file, for installs without
// a PostgreSQL instance. Reports are stored as JSON text; there is no
// semantic segment index in this backend.
type SQLiteStore struct {
	db *sql.DB
}

const ddlSQLite = `
CREATE TABLE IF NOT EXISTS reports (
    id          TEXT  PRIMARY KEY,
    audio_hash  TEXT  NOT NULL DEFAULT '',
    language    TEXT  NOT NULL DEFAULT '',
    created_at  TIMESTAMP NOT NULL,
    report      TEXT  NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_audio_hash ON reports (audio_hash);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports (created_at);
`

// NewSQLiteStore opens (or creates) the database file at path and ensures
// the schema exists.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("reportstore: open sqlite %q: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("reportstore: ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, ddlSQLite); err != nil {
		db.Close()
		return nil, fmt.Errorf("reportstore: sqlite migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save implements [Store].
func (s *SQLiteStore) Save(ctx context.Context, report *analysis.AnalysisReport) (string, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("reportstore: marshal report: %w", err)
	}
	id := reportID(report)

	const q = `
		INSERT INTO reports (id, audio_hash, language, created_at, report)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
		    audio_hash = excluded.audio_hash,
		    language   = excluded.language,
		    report     = excluded.report`
	_, err = s.db.ExecContext(ctx, q, id, report.Meta.AudioHash, report.Meta.Language, report.Meta.GeneratedAt, string(payload))
	if err != nil {
		return "", fmt.Errorf("reportstore: save report: %w", err)
	}
	return id, nil
}

// Get implements [Store].
func (s *SQLiteStore) Get(ctx context.Context, id string) (*StoredReport, error) {
	const q = `SELECT id, audio_hash, language, created_at, report FROM reports WHERE id = ?`

	var (
		sr      StoredReport
		payload string
	)
	err := s.db.QueryRowContext(ctx, q, id).Scan(&sr.ID, &sr.AudioHash, &sr.Language, &sr.CreatedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reportstore: get report: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &sr.Report); err != nil {
		return nil, fmt.Errorf("reportstore: unmarshal report %q: %w", id, err)
	}
	return &sr, nil
}

// List implements [Store].
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]StoredReport, error) {
	const q = `SELECT id, audio_hash, language, created_at, report
	           FROM reports ORDER BY created_at DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("reportstore: list reports: %w", err)
	}
	defer rows.Close()

	out := []StoredReport{}
	for rows.Next() {
		var (
			sr      StoredReport
			payload string
		)
		if err := rows.Scan(&sr.ID, &sr.AudioHash, &sr.Language, &sr.CreatedAt, &payload); err != nil {
			return nil, fmt.Errorf("reportstore: scan report: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &sr.Report); err != nil {
			return nil, fmt.Errorf("reportstore: unmarshal report %q: %w", sr.ID, err)
		}
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reportstore: iterate reports: %w", err)
	}
	return out, nil
}

// Close closes the database file.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
