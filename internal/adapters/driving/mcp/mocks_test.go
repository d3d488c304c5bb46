package mcp

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	summary   *domain.RebuildSummary
	status    *domain.IndexStatus
	err       error
	panicWith any
	rebuilds  int
}

func (m *mockIndexService) Rebuild(_ context.Context) (*domain.RebuildSummary, error) {
	m.rebuilds++
	if m.panicWith != nil {
		panic(m.panicWith)
	}
	return m.summary, m.err
}

func (m *mockIndexService) Status(_ context.Context) (*domain.IndexStatus, error) {
	return m.status, m.err
}

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	hits      []domain.SearchHit
	err       error
	panicWith any
	lastQuery string
}

func (m *mockQueryService) Query(_ context.Context, text string) ([]domain.SearchHit, error) {
	m.lastQuery = text
	if m.panicWith != nil {
		panic(m.panicWith)
	}
	return m.hits, m.err
}

func (m *mockQueryService) QueryN(ctx context.Context, text string, _ int) ([]domain.SearchHit, error) {
	return m.Query(ctx, text)
}
