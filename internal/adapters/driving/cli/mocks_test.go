package cli

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/services"
)

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	summary  *domain.RebuildSummary
	status   *domain.IndexStatus
	err      error
	rebuilds int
}

func (m *mockIndexService) Rebuild(_ context.Context) (*domain.RebuildSummary, error) {
	m.rebuilds++
	return m.summary, m.err
}

func (m *mockIndexService) Status(_ context.Context) (*domain.IndexStatus, error) {
	return m.status, m.err
}

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	hits      []domain.SearchHit
	err       error
	lastQuery string
	lastK     int
}

func (m *mockQueryService) Query(ctx context.Context, text string) ([]domain.SearchHit, error) {
	return m.QueryN(ctx, text, 0)
}

func (m *mockQueryService) QueryN(_ context.Context, text string, k int) ([]domain.SearchHit, error) {
	m.lastQuery = text
	m.lastK = k
	return m.hits, m.err
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	index    *mockIndexService
	query    *mockQueryService
	config   *memory.ConfigStore
	settings *services.SettingsService
}

// setupTestServices installs mock services and resets command flags.
// The returned function restores the previous state.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		index: &mockIndexService{
			summary: &domain.RebuildSummary{Chunks: 4, Documents: 1},
			status:  &domain.IndexStatus{},
		},
		query: &mockQueryService{hits: []domain.SearchHit{
			{Chunk: domain.Chunk{Label: "doc.pdf [Page 1]", Text: "hello world", Source: "doc.pdf", Page: 1}},
		}},
		config: memory.NewConfigStore(),
	}
	ts.settings = services.NewSettingsService(ts.config, nil)

	SetServices(&Services{
		Index:    ts.index,
		Query:    ts.query,
		Settings: ts.settings,
	})
	queryLimit, queryJSON, statusJSON = 0, false, false
	embeddingProvider, embeddingModel, embeddingAPIKey = "", "", ""

	return ts, func() {
		SetServices(nil)
		rootCmd.SetArgs(nil)
	}
}
