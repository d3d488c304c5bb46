package driven

import "context"

// CorpusScanner lists the documents that make up the corpus.
type CorpusScanner interface {
	// Scan returns the paths of all source documents, sorted by name.
	// Returns domain.ErrCorpusMissing if the corpus directory does not exist.
	Scan(ctx context.Context) ([]string, error)

	// Root returns the corpus directory.
	Root() string
}
