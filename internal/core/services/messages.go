package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// User-facing results shared by the MCP tools and the CLI.
const (
	MsgCorpusMissing = "Missing 'files' directory."
	MsgNoContent     = "No extractable text found."
	MsgRebuildFailed = "Rebuild failed."
	MsgIndexMissing  = "Index not found. Please run `rebuild_index()`."
	MsgSearchFailed  = "Search failed."
	MsgQueryFailed   = "Query failed."
	MsgNoResults     = "No relevant content found."

	// MatchSeparator joins formatted matches.
	MatchSeparator = "\n---\n"
)

// RebuildMessage renders the outcome of a rebuild.
func RebuildMessage(summary *domain.RebuildSummary, err error) string {
	switch {
	case errors.Is(err, domain.ErrCorpusMissing):
		return MsgCorpusMissing
	case errors.Is(err, domain.ErrNoContent):
		return MsgNoContent
	case err != nil:
		logger.Error("Rebuild failed: %v", err)
		return MsgRebuildFailed
	case summary == nil:
		return MsgRebuildFailed
	}
	return fmt.Sprintf("Indexed %d chunks from %d PDFs.", summary.Chunks, summary.Documents)
}

// QueryMessage renders query hits, or the message for err.
// Each match text is cut to maxChars characters; maxChars <= 0 uses
// domain.DefaultMaxResultChars.
func QueryMessage(hits []domain.SearchHit, err error, maxChars int) string {
	switch {
	case errors.Is(err, domain.ErrMissingIndex):
		return MsgIndexMissing
	case errors.Is(err, domain.ErrSearchFailure):
		return MsgSearchFailed
	case err != nil:
		logger.Error("Query error: %v", err)
		return MsgQueryFailed
	case len(hits) == 0:
		return MsgNoResults
	}

	if maxChars <= 0 {
		maxChars = domain.DefaultMaxResultChars
	}

	blocks := make([]string, len(hits))
	for i, h := range hits {
		blocks[i] = FormatMatch(h.Chunk, maxChars)
	}
	return strings.Join(blocks, MatchSeparator)
}

// FormatMatch renders one chunk as "Match in <label>:\n<text>".
func FormatMatch(chunk domain.Chunk, maxChars int) string {
	return fmt.Sprintf("Match in %s:\n%s", chunk.Label, truncate(strings.TrimSpace(chunk.Text), maxChars))
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
