package driven

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// IndexStore owns the vector index and its chunk table as one unit.
// The two are only ever replaced together and are related strictly by position.
type IndexStore interface {
	// Build constructs an exact L2 index over vectors and associates chunks with it.
	// len(chunks) must equal len(vectors).
	Build(chunks []domain.Chunk, vectors [][]float32) error

	// Persist writes the index and the chunk table to disk. Requires a prior Build.
	// The built index is searchable only after Persist succeeds.
	Persist(ctx context.Context) error

	// Load reads both artifacts. Returns domain.ErrMissingIndex if either is absent.
	Load(ctx context.Context) error

	// EnsureLoaded loads the artifacts unless the resident copy is already current.
	EnsureLoaded(ctx context.Context) error

	// Exists reports whether both artifacts are present on disk.
	Exists() bool

	// Search returns up to k chunks nearest to query by ascending distance.
	Search(ctx context.Context, query []float32, k int) ([]domain.SearchHit, error)

	// Status describes the current index.
	Status(ctx context.Context) (*domain.IndexStatus, error)
}
