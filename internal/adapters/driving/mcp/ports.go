package mcp

import (
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Index rebuilds and describes the corpus index.
	Index driving.IndexService

	// Query answers similarity queries.
	Query driving.QueryService

	// MaxChars truncates each match in query results (0 uses the default).
	MaxChars int
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Index == nil {
		return ErrMissingIndexService
	}
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
