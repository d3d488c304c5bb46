package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func TestStatusCmd_NoIndex(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "No index")
}

func TestStatusCmd_Built(t *testing.T) {
	ts, restore := setupTestServices()
	defer restore()
	ts.index.status = &domain.IndexStatus{
		Built:      true,
		Chunks:     4,
		Documents:  1,
		Dimensions: 384,
		Model:      "all-minilm",
		Generation: "gen-1",
		BuiltAt:    time.Now(),
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})

	require.NoError(t, rootCmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "Chunks:     4")
	assert.Contains(t, out, "Documents:  1")
	assert.Contains(t, out, "Model:      all-minilm")
	assert.Contains(t, out, "Built:")
}

func TestStatusCmd_JSON(t *testing.T) {
	ts, restore := setupTestServices()
	defer restore()
	ts.index.status = &domain.IndexStatus{Built: true, Chunks: 2}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status", "--json"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), `"chunks": 2`)
}
