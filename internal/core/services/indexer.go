package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService rebuilds the corpus index from the PDFs on disk.
type IndexService struct {
	scanner   driven.CorpusScanner
	extractor driven.TextExtractor
	pipeline  driven.PostProcessorPipeline
	embedder  *Embedder
	store     driven.IndexStore

	// mu serialises rebuilds; a second caller waits for the first.
	mu sync.Mutex
}

// NewIndexService creates a new index service.
func NewIndexService(
	scanner driven.CorpusScanner,
	extractor driven.TextExtractor,
	pipeline driven.PostProcessorPipeline,
	embedder *Embedder,
	store driven.IndexStore,
) *IndexService {
	return &IndexService{
		scanner:   scanner,
		extractor: extractor,
		pipeline:  pipeline,
		embedder:  embedder,
		store:     store,
	}
}

// Rebuild scans the corpus, extracts and chunks every PDF, embeds the chunks
// and replaces the persisted index.
//
// Returns domain.ErrCorpusMissing if the corpus directory is absent and
// domain.ErrNoContent if no chunk was produced; nothing is written in
// either case. Documents that fail to extract are logged and skipped.
func (s *IndexService) Rebuild(ctx context.Context) (*domain.RebuildSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Section("Rebuild Index")
	defer logger.Timed("rebuild")()

	paths, err := s.scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Found %d PDFs in %s", len(paths), s.scanner.Root())

	var chunks []domain.Chunk
	for _, path := range paths {
		docChunks, err := s.chunkDocument(ctx, path)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, docChunks...)
	}

	if len(chunks) == 0 {
		return nil, domain.ErrNoContent
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	logger.Debug("Embedding %d chunks with %s", len(texts), s.embedder.ModelName())
	vectors, err := s.embedder.EncodeChunks(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	if err := s.store.Build(chunks, vectors); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	if err := s.store.Persist(ctx); err != nil {
		return nil, fmt.Errorf("persist index: %w", err)
	}

	summary := &domain.RebuildSummary{
		Chunks:    len(chunks),
		Documents: countDocuments(chunks),
	}
	logger.Info("Indexed %d chunks from %d PDFs", summary.Chunks, summary.Documents)
	return summary, nil
}

// chunkDocument extracts one PDF and runs its pages through the pipeline.
// Extraction failures are contained: whatever pages were read are kept.
func (s *IndexService) chunkDocument(ctx context.Context, path string) ([]domain.Chunk, error) {
	logger.Debug("Extracting %s", filepath.Base(path))

	pages, err := s.extractor.Extract(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var docErr *domain.DocumentError
		if !errors.As(err, &docErr) {
			logger.Error("Error parsing %s: %v", path, err)
		}
		logger.Warn("Keeping %d pages from %s", len(pages), filepath.Base(path))
	}

	var chunks []domain.Chunk
	for i := range pages {
		pageChunks, err := s.pipeline.Process(ctx, &pages[i])
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", pages[i].Label(), err)
		}
		chunks = append(chunks, pageChunks...)
	}
	logger.Debug("%s: %d pages, %d chunks", filepath.Base(path), len(pages), len(chunks))
	return chunks, nil
}

// Status describes the persisted index.
func (s *IndexService) Status(ctx context.Context) (*domain.IndexStatus, error) {
	return s.store.Status(ctx)
}

func countDocuments(chunks []domain.Chunk) int {
	seen := make(map[string]struct{})
	for _, c := range chunks {
		seen[c.Source] = struct{}{}
	}
	return len(seen)
}
