// Package reportstore archives analysis reports. Two backends implement the
// same [Store] interface: PostgreSQL (with a pgvector segment index for
// similar-rehearsal search) and SQLite for single-machine installs.
package reportstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"lukechampine.com/blake3"

	"github.com/oratorlab/cadence/internal/analysis"
)

// ErrNotFound is returned by Get when no report exists under the given ID.
var ErrNotFound = errors.New("reportstore: report not found")

// StoredReport is one archived report with its storage metadata.
type StoredReport struct {
	ID        string
	AudioHash string
	Language  string
	CreatedAt time.Time
	Report    analysis.AnalysisReport
}

// Store is the report archive. Implementations are safe for concurrent use.
type Store interface {
	// Save archives the report and returns its storage ID.
	Save(ctx context.Context, report *analysis.AnalysisReport) (string, error)

	// Get retrieves one archived report by ID. Returns [ErrNotFound] when
	// no such report exists.
	Get(ctx context.Context, id string) (*StoredReport, error)

	// List returns the most recent reports, newest first.
	List(ctx context.Context, limit int) ([]StoredReport, error)

	Close() error
}

// SegmentMatch is one similar-segment hit from the semantic archive.
type SegmentMatch struct {
	ReportID string
	Content  string
	Distance float64
}

// SemanticArchive indexes grouped segment texts by embedding so past
// rehearsals can be searched by content. Only the Postgres backend
// implements it.
type SemanticArchive interface {
	// IndexSegments stores the pre-embedded segment texts of a saved report.
	// texts and embeddings must be the same length.
	IndexSegments(ctx context.Context, reportID string, texts []string, embeddings [][]float32) error

	// SearchSimilar returns the topK indexed segments closest to the query
	// embedding by cosine distance, most similar first.
	SearchSimilar(ctx context.Context, embedding []float32, topK int) ([]SegmentMatch, error)
}

// reportID derives a stable storage ID from the audio content hash and the
// generation time, so re-saving the same report is idempotent.
func reportID(report *analysis.AnalysisReport) string {
	h := blake3.New(16, nil)
	h.Write([]byte(report.Meta.AudioHash))
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(report.Meta.GeneratedAt.UnixNano()))
	h.Write(ts[:])
	return fmt.Sprintf("%x", h.Sum(nil))
}
