package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// ChunkTable persists the ordered chunk list that is position-aligned with the vector index.
type ChunkTable interface {
	// ReplaceChunks replaces every row with chunks, in order, stamped with meta.
	ReplaceChunks(ctx context.Context, meta TableMeta, chunks []domain.Chunk) error

	// Chunks returns all rows ordered by position.
	Chunks(ctx context.Context) ([]domain.Chunk, error)

	// Meta returns the stamp written by the last ReplaceChunks.
	Meta(ctx context.Context) (*TableMeta, error)

	// Close releases resources.
	Close() error
}

// TableMeta identifies the rebuild that wrote a chunk table.
type TableMeta struct {
	// Generation must match the generation stamped into the vector index.
	Generation string

	// Model is the embedding model used for the rebuild.
	Model string

	// BuiltAt is when the rebuild persisted the table.
	BuiltAt time.Time
}
