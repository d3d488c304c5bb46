package flat

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// cancelCheckEvery is how many rows are scanned between context checks.
const cancelCheckEvery = 4096

// Index is an immutable exact L2 index.
type Index struct {
	mu        sync.RWMutex
	data      []float32
	dimension int
	count     int
	closed    bool
}

// New builds an index over vectors. All vectors must share one non-zero width.
func New(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return nil, errors.New("flat: no vectors")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, errors.New("flat: vectors are empty")
	}

	data := make([]float32, 0, dim*len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, i, len(v), dim)
		}
		data = append(data, v...)
	}

	return &Index{
		data:      data,
		dimension: dim,
		count:     len(vectors),
	}, nil
}

// newFromData wraps an already flattened vector slice.
func newFromData(data []float32, dim, count int) *Index {
	return &Index{data: data, dimension: dim, count: count}
}

// Search returns up to k positions nearest to query by ascending squared
// distance. Equal distances are ordered by position. k <= 0 returns nothing.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, errors.New("flat: index is closed")
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), idx.dimension)
	}
	if k <= 0 {
		return nil, nil
	}

	hits := make([]driven.VectorHit, idx.count)
	for i := range idx.count {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row := idx.data[i*idx.dimension : (i+1)*idx.dimension]
		hits[i] = driven.VectorHit{Position: i, Distance: squaredL2(query, row)}
	}

	slices.SortFunc(hits, func(a, b driven.VectorHit) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Position, b.Position)
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Dimensions returns the vector width.
func (idx *Index) Dimensions() int {
	return idx.dimension
}

// Len returns the number of indexed vectors.
func (idx *Index) Len() int {
	return idx.count
}

// Close releases the vectors. Further searches fail.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.data = nil
	idx.closed = true
	return nil
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
