package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfrag/internal/core/services"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// Tool names.
const (
	ToolRebuildIndex = "rebuild_index"
	ToolQueryPDFs    = "query_pdfs"
)

// RebuildInput is the (empty) input schema for the rebuild tool.
type RebuildInput struct{}

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Query string `json:"query" jsonschema:"the text to search the indexed PDFs for"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolRebuildIndex,
		Description: "Rebuild the index from PDF files in ./files.",
	}, s.handleRebuild)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolQueryPDFs,
		Description: "Search the indexed PDFs for a given query.",
	}, s.handleQuery)
}

// handleRebuild rebuilds the index and reports the outcome as text.
// Failures become status messages, never tool errors.
func (s *Server) handleRebuild(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ RebuildInput,
) (result *mcp.CallToolResult, _ any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Rebuild error: %v", r)
			result, err = textResult(services.MsgRebuildFailed), nil
		}
	}()

	summary, rebuildErr := s.ports.Index.Rebuild(ctx)
	return textResult(services.RebuildMessage(summary, rebuildErr)), nil, nil
}

// handleQuery searches the index and returns the formatted matches.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (result *mcp.CallToolResult, _ any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Query error: %v", r)
			result, err = textResult(services.MsgQueryFailed), nil
		}
	}()

	hits, queryErr := s.ports.Query.Query(ctx, input.Query)
	return textResult(services.QueryMessage(hits, queryErr, s.ports.MaxChars)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
