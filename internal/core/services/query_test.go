package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func init() {
	tornRetryDelay = time.Millisecond
}

func testHits(n int) []domain.SearchHit {
	hits := make([]domain.SearchHit, n)
	for i := range hits {
		hits[i] = domain.SearchHit{
			Chunk:    domain.Chunk{Label: fmt.Sprintf("doc.pdf [Page %d]", i+1), Text: "text"},
			Position: i,
			Distance: float32(i),
		}
	}
	return hits
}

func TestNewQueryService_DefaultTopK(t *testing.T) {
	svc := NewQueryService(&mockIndexStore{}, NewEmbedder(&mockEmbeddingService{}), 0)
	assert.Equal(t, domain.DefaultTopK, svc.topK)
}

func TestQueryService_Query(t *testing.T) {
	store := &mockIndexStore{hits: testHits(8)}
	svc := NewQueryService(store, NewEmbedder(&mockEmbeddingService{}), 5)

	hits, err := svc.Query(context.Background(), "what is it")

	require.NoError(t, err)
	assert.Len(t, hits, 5)
	assert.Equal(t, 5, store.lastK)
	assert.Equal(t, "doc.pdf [Page 1]", hits[0].Chunk.Label)
}

func TestQueryService_QueryN(t *testing.T) {
	store := &mockIndexStore{hits: testHits(8)}
	svc := NewQueryService(store, NewEmbedder(&mockEmbeddingService{}), 5)

	hits, err := svc.QueryN(context.Background(), "q", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	_, err = svc.QueryN(context.Background(), "q", 0)
	require.NoError(t, err)
	assert.Equal(t, 5, store.lastK, "non-positive k falls back to the configured top k")
}

func TestQueryService_FewerHitsThanK(t *testing.T) {
	svc := NewQueryService(&mockIndexStore{hits: testHits(2)}, NewEmbedder(&mockEmbeddingService{}), 5)

	hits, err := svc.Query(context.Background(), "q")

	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestQueryService_MissingIndex(t *testing.T) {
	store := &mockIndexStore{ensureErrs: []error{domain.ErrMissingIndex}}
	svc := NewQueryService(store, NewEmbedder(&mockEmbeddingService{}), 5)

	_, err := svc.Query(context.Background(), "q")

	assert.ErrorIs(t, err, domain.ErrMissingIndex)
	assert.NotErrorIs(t, err, domain.ErrSearchFailure)
}

func TestQueryService_EmptyQueryIsEmbedded(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t"} {
		t.Run(fmt.Sprintf("%q", q), func(t *testing.T) {
			embedding := &mockEmbeddingService{}
			svc := NewQueryService(&mockIndexStore{hits: testHits(3)}, NewEmbedder(embedding), 5)

			hits, err := svc.Query(context.Background(), q)

			require.NoError(t, err)
			assert.Len(t, hits, 3, "blank text is searched like any other query")
			assert.Equal(t, q, embedding.lastQuery)
		})
	}
}

func TestQueryService_EmptyQueryStillReportsMissingIndex(t *testing.T) {
	store := &mockIndexStore{ensureErrs: []error{domain.ErrMissingIndex}}
	svc := NewQueryService(store, NewEmbedder(&mockEmbeddingService{}), 5)

	_, err := svc.Query(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrMissingIndex)
}

func TestQueryService_TornIndexRetried(t *testing.T) {
	store := &mockIndexStore{
		hits:       testHits(1),
		ensureErrs: []error{domain.ErrTornIndex, domain.ErrTornIndex},
	}
	svc := NewQueryService(store, NewEmbedder(&mockEmbeddingService{}), 5)

	hits, err := svc.Query(context.Background(), "q")

	require.NoError(t, err)
	assert.Len(t, hits, 1)
	assert.Equal(t, 3, store.ensureCalls)
}

func TestQueryService_TornIndexGivesUp(t *testing.T) {
	store := &mockIndexStore{
		ensureErrs: []error{domain.ErrTornIndex, domain.ErrTornIndex, domain.ErrTornIndex, domain.ErrTornIndex},
	}
	svc := NewQueryService(store, NewEmbedder(&mockEmbeddingService{}), 5)

	_, err := svc.Query(context.Background(), "q")

	assert.ErrorIs(t, err, domain.ErrSearchFailure)
	assert.ErrorIs(t, err, domain.ErrTornIndex)
	assert.Equal(t, maxLoadAttempts, store.ensureCalls)
}

func TestQueryService_FailuresWrapSearchFailure(t *testing.T) {
	tests := []struct {
		name     string
		store    *mockIndexStore
		embedder *mockEmbeddingService
	}{
		{
			name:     "load error",
			store:    &mockIndexStore{ensureErrs: []error{errBoom}},
			embedder: &mockEmbeddingService{},
		},
		{
			name:     "embed error",
			store:    &mockIndexStore{},
			embedder: &mockEmbeddingService{embedErr: errBoom},
		},
		{
			name:     "search error",
			store:    &mockIndexStore{searchErr: errBoom},
			embedder: &mockEmbeddingService{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewQueryService(tt.store, NewEmbedder(tt.embedder), 5)

			_, err := svc.Query(context.Background(), "q")

			assert.ErrorIs(t, err, domain.ErrSearchFailure)
			assert.ErrorIs(t, err, errBoom)
		})
	}
}
