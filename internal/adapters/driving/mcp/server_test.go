package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func TestNewServer(t *testing.T) {
	t.Run("missing ports returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{}, "test")
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingIndexService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Index: &mockIndexService{}, Query: &mockQueryService{}}, "test")
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.NotNil(t, server.Handler())
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil index service returns error", func(t *testing.T) {
		ports := &Ports{Query: &mockQueryService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingIndexService)
	})

	t.Run("nil query service returns error", func(t *testing.T) {
		ports := &Ports{Index: &mockIndexService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingQueryService)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{Index: &mockIndexService{}, Query: &mockQueryService{}}
		assert.NoError(t, ports.Validate())
	})
}

// connect starts the server on an in-memory transport and returns a client session.
func connect(t *testing.T, ports *Ports) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server, err := NewServer(ports, "test")
	require.NoError(t, err)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestServer_Session(t *testing.T) {
	ctx := context.Background()
	index := &mockIndexService{
		summary: &domain.RebuildSummary{Chunks: 4, Documents: 1},
		status:  &domain.IndexStatus{Built: true, Chunks: 4, Documents: 1, Model: "all-minilm"},
	}
	query := &mockQueryService{hits: []domain.SearchHit{
		{Chunk: domain.Chunk{Label: "doc.pdf [Page 1]", Text: "hello"}},
	}}
	session := connect(t, &Ports{Index: index, Query: query})

	t.Run("lists both tools", func(t *testing.T) {
		res, err := session.ListTools(ctx, nil)
		require.NoError(t, err)

		var names []string
		for _, tool := range res.Tools {
			names = append(names, tool.Name)
		}
		assert.ElementsMatch(t, []string{ToolRebuildIndex, ToolQueryPDFs}, names)
	})

	t.Run("rebuild_index", func(t *testing.T) {
		res, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      ToolRebuildIndex,
			Arguments: map[string]any{},
		})
		require.NoError(t, err)
		assert.False(t, res.IsError)
		assert.Equal(t, "Indexed 4 chunks from 1 PDFs.", resultText(t, res))
	})

	t.Run("query_pdfs", func(t *testing.T) {
		res, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      ToolQueryPDFs,
			Arguments: map[string]any{"query": "greeting"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Match in doc.pdf [Page 1]:\nhello", resultText(t, res))
		assert.Equal(t, "greeting", query.lastQuery)
	})

	t.Run("index resource", func(t *testing.T) {
		res, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: IndexResourceURI})
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, "application/json", res.Contents[0].MIMEType)
		assert.Contains(t, res.Contents[0].Text, `"chunks": 4`)
		assert.Contains(t, res.Contents[0].Text, `"model": "all-minilm"`)
	})
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}
