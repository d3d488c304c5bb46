// Package domain defines the core business entities for pdfrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Page: Text extracted from one page of a source document
//   - Chunk: The atomic retrievable unit derived from a page
//   - SearchHit: A chunk matched by a nearest-neighbour query
//   - RebuildSummary / IndexStatus: Results reported about the index
//   - AppSettings: Tunables with their defaults
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
