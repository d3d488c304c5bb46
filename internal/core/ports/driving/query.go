package driving

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// QueryService answers natural-language queries against the index.
type QueryService interface {
	// Query returns the nearest chunks to text, closest first.
	// Returns domain.ErrMissingIndex if no index has been built and
	// an error wrapping domain.ErrSearchFailure if retrieval fails.
	Query(ctx context.Context, text string) ([]domain.SearchHit, error)

	// QueryN is Query with an explicit result count.
	QueryN(ctx context.Context, text string, k int) ([]domain.SearchHit, error)
}
