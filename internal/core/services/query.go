package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// maxLoadAttempts bounds retries when a concurrent rebuild tears the pair.
const maxLoadAttempts = 3

// tornRetryDelay is multiplied by the attempt number between retries.
var tornRetryDelay = 50 * time.Millisecond

// QueryService answers similarity queries against the persisted index.
type QueryService struct {
	store    driven.IndexStore
	embedder *Embedder
	topK     int
}

// NewQueryService creates a new query service.
// topK <= 0 uses domain.DefaultTopK.
func NewQueryService(store driven.IndexStore, embedder *Embedder, topK int) *QueryService {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &QueryService{
		store:    store,
		embedder: embedder,
		topK:     topK,
	}
}

// Query returns the configured number of nearest chunks.
func (s *QueryService) Query(ctx context.Context, text string) ([]domain.SearchHit, error) {
	return s.QueryN(ctx, text, s.topK)
}

// QueryN returns up to k chunks nearest to text, closest first.
//
// Returns domain.ErrMissingIndex if no index was ever built. Every other
// failure is wrapped with domain.ErrSearchFailure.
func (s *QueryService) QueryN(ctx context.Context, text string, k int) ([]domain.SearchHit, error) {
	logger.Section("Query")
	logger.Debug("Query: %q", text)

	if err := s.ensureLoaded(ctx); err != nil {
		if errors.Is(err, domain.ErrMissingIndex) {
			return nil, err
		}
		return nil, searchFailure("load index", err)
	}

	if k <= 0 {
		k = s.topK
	}

	vector, err := s.embedder.EncodeQuery(ctx, text)
	if err != nil {
		return nil, searchFailure("embed query", err)
	}

	hits, err := s.store.Search(ctx, vector, k)
	if err != nil {
		return nil, searchFailure("search", err)
	}
	logger.Debug("%d hits", len(hits))
	return hits, nil
}

// ensureLoaded retries torn reads; the rebuild that tore them renames its
// index shortly after its table.
func (s *QueryService) ensureLoaded(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= maxLoadAttempts; attempt++ {
		err = s.store.EnsureLoaded(ctx)
		if !errors.Is(err, domain.ErrTornIndex) {
			return err
		}
		logger.Debug("torn index (attempt %d/%d): %v", attempt, maxLoadAttempts, err)
		if attempt == maxLoadAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * tornRetryDelay):
		}
	}
	return err
}

func searchFailure(step string, err error) error {
	logger.Error("Search failed: %s: %v", step, err)
	return fmt.Errorf("%w: %s: %w", domain.ErrSearchFailure, step, err)
}
