package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Each text embeds to a two-dimensional vector {len(text), 1}.
type mockEmbeddingService struct {
	embedErr  error
	batchErr  error
	dropLast  bool
	lastQuery string
	batches   int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.lastQuery = text
	return []float32{float32(len(text)), 1}, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batches++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, []float32{float32(len(t)), 1})
	}
	if m.dropLast && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int   { return 2 }
func (m *mockEmbeddingService) ModelName() string { return "mock-model" }

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockIndexStore implements driven.IndexStore for testing.
type mockIndexStore struct {
	mu sync.Mutex

	built      []domain.Chunk
	vectors    [][]float32
	persisted  bool
	buildErr   error
	persistErr error

	// ensureErrs is consumed one per EnsureLoaded call; nil afterwards.
	ensureErrs  []error
	ensureCalls int

	hits      []domain.SearchHit
	searchErr error
	lastK     int

	status *domain.IndexStatus
}

func (m *mockIndexStore) Build(chunks []domain.Chunk, vectors [][]float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buildErr != nil {
		return m.buildErr
	}
	m.built = chunks
	m.vectors = vectors
	return nil
}

func (m *mockIndexStore) Persist(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.persistErr != nil {
		return m.persistErr
	}
	m.persisted = true
	return nil
}

func (m *mockIndexStore) Load(_ context.Context) error {
	return nil
}

func (m *mockIndexStore) EnsureLoaded(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureCalls++
	if len(m.ensureErrs) == 0 {
		return nil
	}
	err := m.ensureErrs[0]
	m.ensureErrs = m.ensureErrs[1:]
	return err
}

func (m *mockIndexStore) Exists() bool {
	return m.persisted
}

func (m *mockIndexStore) Search(_ context.Context, _ []float32, k int) ([]domain.SearchHit, error) {
	m.lastK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k < len(m.hits) {
		return m.hits[:k], nil
	}
	return m.hits, nil
}

func (m *mockIndexStore) Status(_ context.Context) (*domain.IndexStatus, error) {
	if m.status == nil {
		return &domain.IndexStatus{}, nil
	}
	return m.status, nil
}

// mockScanner implements driven.CorpusScanner for testing.
type mockScanner struct {
	paths []string
	err   error
}

func (m *mockScanner) Scan(_ context.Context) ([]string, error) {
	return m.paths, m.err
}

func (m *mockScanner) Root() string {
	return "/corpus"
}

// mockExtractor implements driven.TextExtractor for testing.
// Pages and errors are keyed by path.
type mockExtractor struct {
	pages map[string][]domain.Page
	errs  map[string]error
	calls []string
}

func (m *mockExtractor) Extract(_ context.Context, path string) ([]domain.Page, error) {
	m.calls = append(m.calls, path)
	return m.pages[path], m.errs[path]
}

// mockPipeline implements driven.PostProcessorPipeline for testing.
// Each page becomes one chunk with its text unchanged.
type mockPipeline struct {
	err error
}

func (m *mockPipeline) Process(_ context.Context, page *domain.Page) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []domain.Chunk{{
		Label:  page.Label(),
		Text:   page.Text,
		Source: page.Source,
		Page:   page.Number,
	}}, nil
}

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	err  error
	seen *domain.EmbeddingSettings
}

func (m *mockAIValidator) ValidateEmbedding(settings *domain.EmbeddingSettings) error {
	m.seen = settings
	return m.err
}

var (
	_ driven.EmbeddingService      = (*mockEmbeddingService)(nil)
	_ driven.IndexStore            = (*mockIndexStore)(nil)
	_ driven.CorpusScanner         = (*mockScanner)(nil)
	_ driven.TextExtractor         = (*mockExtractor)(nil)
	_ driven.PostProcessorPipeline = (*mockPipeline)(nil)
	_ driven.AIConfigValidator     = (*mockAIValidator)(nil)
)

var errBoom = errors.New("boom")

func page(source string, number int, text string) domain.Page {
	return domain.Page{Source: source, Number: number, Text: text}
}
