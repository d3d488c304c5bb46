package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrCorpusMissing indicates the corpus directory does not exist.
	ErrCorpusMissing = errors.New("corpus directory missing")

	// ErrNoContent indicates a rebuild produced zero chunks.
	// The previously persisted index, if any, is left untouched.
	ErrNoContent = errors.New("no extractable text")

	// ErrDocumentExtraction indicates a single document could not be processed.
	// It is contained: the document is skipped and the scan continues.
	ErrDocumentExtraction = errors.New("document extraction failed")

	// ErrMissingIndex indicates no index has been built yet.
	ErrMissingIndex = errors.New("index not found")

	// ErrSearchFailure indicates loading, embedding or searching failed at query time.
	ErrSearchFailure = errors.New("search failed")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexNotBuilt indicates Persist or Search was called before Build or Load.
	ErrIndexNotBuilt = errors.New("index not built")

	// ErrTornIndex indicates the index and chunk table on disk belong to
	// different rebuilds. Retrying the load usually succeeds.
	ErrTornIndex = errors.New("index and chunk table out of step")

	// ErrDimensionMismatch indicates a vector width differs from the index width.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrToolNotFound indicates an external program (pdftoppm, tesseract) is not installed.
	ErrToolNotFound = errors.New("external tool not found")
)

// DocumentError records why a document was abandoned part-way through extraction.
// It unwraps to both ErrDocumentExtraction and the underlying cause.
type DocumentError struct {
	// Path is the document that failed.
	Path string

	// Pages is the number of pages extracted before the failure.
	Pages int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %s after %d page(s): %v", ErrDocumentExtraction, e.Path, e.Pages, e.Err)
}

// Unwrap exposes the sentinel and the cause to errors.Is/As.
func (e *DocumentError) Unwrap() []error {
	return []error{ErrDocumentExtraction, e.Err}
}
