package driven

import "context"

// VectorIndex provides nearest-neighbour search over a fixed set of vectors.
// Vectors are addressed by their insertion position.
type VectorIndex interface {
	// Search finds the k nearest vectors to the query by ascending distance.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Dimensions returns the vector width.
	Dimensions() int

	// Len returns the number of indexed vectors.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Position is the index of the matched vector.
	Position int

	// Distance is the squared Euclidean distance to the query.
	Distance float32
}
