package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Embedder turns chunk texts and queries into vectors.
type Embedder struct {
	service driven.EmbeddingService
}

// NewEmbedder creates an embedder backed by service.
func NewEmbedder(service driven.EmbeddingService) *Embedder {
	return &Embedder{service: service}
}

// ModelName returns the underlying model name.
func (e *Embedder) ModelName() string {
	return e.service.ModelName()
}

// EncodeChunks embeds all texts in a single batch call.
// The i-th vector belongs to texts[i].
func (e *Embedder) EncodeChunks(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors, err := e.service.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts",
			domain.ErrEmbeddingUnavailable, len(vectors), len(texts))
	}
	return vectors, nil
}

// EncodeQuery lower-cases the query, matching how chunks were normalised,
// and embeds it.
func (e *Embedder) EncodeQuery(ctx context.Context, query string) ([]float32, error) {
	vector, err := e.service.Embed(ctx, strings.ToLower(query))
	if err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrEmbeddingUnavailable)
	}
	return vector, nil
}
