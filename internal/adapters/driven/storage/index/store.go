// Package index keeps the vector index and the chunk table together as one unit.
//
// The two artifacts are written side by side (index.flat and chunks.db by
// default) and both carry the generation id of the rebuild that produced
// them. Writers create uniquely named temporary files and rename them into
// place, table first and index second, so a reader that sees a new index
// header always finds the matching table. A reader that catches the pair
// mid-replacement sees mismatched generations and gets domain.ErrTornIndex.
package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pdfrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Config locates the artifacts.
type Config struct {
	// Dir holds both artifacts.
	Dir string

	// IndexFile is the vector index file name (default: index.flat).
	IndexFile string

	// TableFile is the chunk table file name (default: chunks.db).
	TableFile string

	// Model is recorded with every build.
	Model string
}

// Store is the resident copy of the index plus its on-disk location.
type Store struct {
	mu sync.RWMutex

	indexPath string
	tablePath string
	model     string

	index      *flat.Index
	chunks     []domain.Chunk
	generation string
	builtModel string
	builtAt    time.Time

	// pending is the last Build, not yet on disk. It becomes resident only
	// once Persist has installed both artifacts.
	pending *staged
}

// staged is a built index waiting for Persist.
type staged struct {
	index      *flat.Index
	chunks     []domain.Chunk
	generation string
	model      string
}

// New creates a store. Nothing is read until Load or EnsureLoaded.
func New(cfg Config) *Store {
	if cfg.IndexFile == "" {
		cfg.IndexFile = domain.DefaultIndexFileName
	}
	if cfg.TableFile == "" {
		cfg.TableFile = domain.DefaultTableFileName
	}
	return &Store{
		indexPath: filepath.Join(cfg.Dir, cfg.IndexFile),
		tablePath: filepath.Join(cfg.Dir, cfg.TableFile),
		model:     cfg.Model,
	}
}

// IndexPath returns the vector index file path.
func (s *Store) IndexPath() string {
	return s.indexPath
}

// TablePath returns the chunk table file path.
func (s *Store) TablePath() string {
	return s.tablePath
}

// Build stages an exact L2 index over vectors for the next Persist.
// chunks[i] is the chunk for vectors[i]. Searches keep using the resident
// index until Persist succeeds.
func (s *Store) Build(chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) == 0 {
		return fmt.Errorf("%w: nothing to index", domain.ErrInvalidInput)
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors", domain.ErrInvalidInput, len(chunks), len(vectors))
	}

	idx, err := flat.New(vectors)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = &staged{
		index:      idx,
		chunks:     append([]domain.Chunk(nil), chunks...),
		generation: uuid.NewString(),
		model:      s.model,
	}
	return nil
}

// Persist writes the staged build to disk and then makes it resident.
// On failure the staged build is dropped and the resident index is unchanged.
func (s *Store) Persist(ctx context.Context) (err error) {
	s.mu.Lock()
	p := s.pending
	s.pending = nil
	s.mu.Unlock()

	if p == nil {
		return domain.ErrIndexNotBuilt
	}
	defer func() {
		if err != nil {
			p.index.Close()
		}
	}()

	if err := os.MkdirAll(filepath.Dir(s.indexPath), 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	gen := p.generation
	builtAt := time.Now()
	tableTmp := fmt.Sprintf("%s.%s.tmp", s.tablePath, gen)
	indexTmp := fmt.Sprintf("%s.%s.tmp", s.indexPath, gen)
	defer removeQuietly(tableTmp, tableTmp+"-journal", indexTmp)

	if err := writeTable(ctx, tableTmp, driven.TableMeta{Generation: gen, Model: p.model, BuiltAt: builtAt}, p.chunks); err != nil {
		return err
	}
	if err := p.index.WriteFile(indexTmp, gen); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Rename(tableTmp, s.tablePath); err != nil {
		return fmt.Errorf("install chunk table: %w", err)
	}
	if err := os.Rename(indexTmp, s.indexPath); err != nil {
		return fmt.Errorf("install index: %w", err)
	}
	logger.Debug("persisted generation %s to %s", gen, filepath.Dir(s.indexPath))

	s.mu.Lock()
	s.replace(p.index, p.chunks, gen, p.model, builtAt)
	s.mu.Unlock()
	return nil
}

func writeTable(ctx context.Context, path string, meta driven.TableMeta, chunks []domain.Chunk) error {
	removeQuietly(path, path+"-journal")

	table, err := sqlite.NewStore(path)
	if err != nil {
		return fmt.Errorf("create chunk table: %w", err)
	}
	if err := table.ReplaceChunks(ctx, meta, chunks); err != nil {
		table.Close()
		return fmt.Errorf("write chunk table: %w", err)
	}
	return table.Close()
}

// Load reads both artifacts and makes them resident.
func (s *Store) Load(ctx context.Context) error {
	if !s.Exists() {
		return domain.ErrMissingIndex
	}

	idx, header, err := flat.ReadFile(s.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ErrMissingIndex
		}
		return fmt.Errorf("read index: %w", err)
	}

	meta, chunks, err := readTable(ctx, s.tablePath)
	if err != nil {
		return err
	}

	if meta.Generation != header.Generation {
		return fmt.Errorf("%w: index %s, table %s", domain.ErrTornIndex, header.Generation, meta.Generation)
	}
	if len(chunks) != idx.Len() {
		logger.Warn("index has %d vectors but table has %d rows", idx.Len(), len(chunks))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(idx, chunks, header.Generation, meta.Model, meta.BuiltAt)
	logger.Debug("loaded generation %s: %d chunks", header.Generation, len(chunks))
	return nil
}

func readTable(ctx context.Context, path string) (*driven.TableMeta, []domain.Chunk, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil, domain.ErrMissingIndex
		}
		return nil, nil, fmt.Errorf("stat chunk table: %w", err)
	}

	table, err := sqlite.NewStore(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open chunk table: %w", err)
	}
	defer table.Close()

	meta, err := table.Meta(ctx)
	if err != nil {
		return nil, nil, err
	}
	chunks, err := table.Chunks(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("read chunk table: %w", err)
	}
	return meta, chunks, nil
}

// EnsureLoaded loads the artifacts unless the resident copy already matches
// the generation on disk.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	s.mu.RLock()
	resident := s.generation
	s.mu.RUnlock()

	if !s.Exists() {
		return domain.ErrMissingIndex
	}
	header, err := flat.ReadHeader(s.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ErrMissingIndex
		}
		return fmt.Errorf("read index header: %w", err)
	}
	if resident != "" && header.Generation == resident {
		return nil
	}
	return s.Load(ctx)
}

// Exists reports whether both artifacts are present on disk.
func (s *Store) Exists() bool {
	return fileExists(s.indexPath) && fileExists(s.tablePath)
}

// Search returns up to k chunks nearest to query.
// Index positions without a table row are skipped.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]domain.SearchHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index == nil {
		return nil, domain.ErrIndexNotBuilt
	}
	if k <= 0 {
		return nil, nil
	}

	vhits, err := s.index.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}

	hits := make([]domain.SearchHit, 0, len(vhits))
	for _, h := range vhits {
		if h.Position < 0 || h.Position >= len(s.chunks) {
			logger.Debug("skipping index position %d: table has %d rows", h.Position, len(s.chunks))
			continue
		}
		hits = append(hits, domain.SearchHit{
			Chunk:    s.chunks[h.Position],
			Position: h.Position,
			Distance: h.Distance,
		})
	}
	return hits, nil
}

// Status describes the resident index, loading it from disk first if needed.
// A store with no index reports Built=false rather than an error.
func (s *Store) Status(ctx context.Context) (*domain.IndexStatus, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		if errors.Is(err, domain.ErrMissingIndex) {
			return &domain.IndexStatus{}, nil
		}
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index == nil {
		return &domain.IndexStatus{}, nil
	}
	return &domain.IndexStatus{
		Built:      true,
		Chunks:     len(s.chunks),
		Documents:  countSources(s.chunks),
		Dimensions: s.index.Dimensions(),
		Model:      s.builtModel,
		Generation: s.generation,
		BuiltAt:    s.builtAt,
	}, nil
}

// Close releases the resident index.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index != nil {
		s.index.Close()
	}
	s.index = nil
	s.chunks = nil
	s.generation = ""
	if s.pending != nil {
		s.pending.index.Close()
		s.pending = nil
	}
	return nil
}

// replace swaps in a new resident copy. The previous index is left to the
// collector since a concurrent Persist may still be writing it.
// Caller must hold the write lock.
func (s *Store) replace(idx *flat.Index, chunks []domain.Chunk, gen, model string, builtAt time.Time) {
	s.index = idx
	s.chunks = chunks
	s.generation = gen
	s.builtModel = model
	s.builtAt = builtAt
}

func countSources(chunks []domain.Chunk) int {
	seen := make(map[string]struct{})
	for _, c := range chunks {
		seen[c.Source] = struct{}{}
	}
	return len(seen)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func removeQuietly(paths ...string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
