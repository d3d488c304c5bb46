package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for index resources.
	uriScheme = "pdfrag://"

	// IndexResourceURI describes the persisted index.
	IndexResourceURI = uriScheme + "index"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         IndexResourceURI,
		Name:        "index",
		Description: "Status of the PDF index: chunk and document counts, model, build time",
		MIMEType:    "application/json",
	}, s.handleIndexResource)
}

// handleIndexResource returns the index status as JSON.
func (s *Server) handleIndexResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status, err := s.ports.Index.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading index status: %w", err)
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling index status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
