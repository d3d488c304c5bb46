package driving

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// IndexService rebuilds and describes the corpus index.
type IndexService interface {
	// Rebuild discards the current index and indexes the whole corpus again.
	// Returns domain.ErrCorpusMissing or domain.ErrNoContent on the expected failures.
	Rebuild(ctx context.Context) (*domain.RebuildSummary, error)

	// Status describes the persisted index.
	Status(ctx context.Context) (*domain.IndexStatus, error)
}
