// Package embeddings defines the Provider interface for sentence-embedding
// backends.
//
// The coverage analyzer maps script units and spoken-segment texts to dense
// float32 vectors and compares them by cosine similarity, so all vectors
// produced by a single Provider instance must live in the same space.
//
// Implementations must be safe for concurrent use.
package embeddings

import "context"

// Provider is the abstraction over any text-embedding backend.
//
// All vectors returned by one Provider instance share the dimensionality
// reported by Dimensions. Vectors from different Provider instances must not
// be mixed in one similarity computation unless model and space are known to
// match.
type Provider interface {
	// Embed computes the embedding vector for a single text string. Returns
	// a float32 slice of length Dimensions() or an error if the request
	// fails or ctx is cancelled.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch computes vectors for a slice of texts in a single backend
	// call. The returned slice has the same length as texts and the i-th
	// element corresponds to texts[i]. On error the entire result is nil —
	// partial results are never returned.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the fixed length of every vector produced by this
	// provider.
	Dimensions() int

	// ModelID returns the backend-specific model identifier, for logging and
	// for recording which model scored a report.
	ModelID() string
}
