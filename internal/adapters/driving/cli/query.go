package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/services"
)

var (
	queryLimit int
	queryJSON  bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search the indexed PDFs",
	Long: `Finds the chunks most similar to the query text and prints them with
the document and page they came from. Multiple arguments are joined with
spaces.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "maximum number of results (0 = query.top_k)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

// hitOutput is the JSON shape of one match.
type hitOutput struct {
	Label    string  `json:"label"`
	Source   string  `json:"source"`
	Page     int     `json:"page"`
	Distance float32 `json:"distance"`
	Text     string  `json:"text"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	text := strings.Join(args, " ")
	hits, err := queryService.QueryN(cmd.Context(), text, queryLimit)
	if errors.Is(err, domain.ErrMissingIndex) {
		// Not a failure: the message tells the user what to do next.
		cmd.Println(services.QueryMessage(nil, err, maxResultChars))
		return nil
	}
	if err != nil {
		cmd.PrintErrln(services.QueryMessage(nil, err, maxResultChars))
		return ErrReported
	}

	if queryJSON {
		return outputQueryJSON(cmd, hits)
	}

	cmd.Println(services.QueryMessage(hits, nil, maxResultChars))
	return nil
}

func outputQueryJSON(cmd *cobra.Command, hits []domain.SearchHit) error {
	out := make([]hitOutput, len(hits))
	for i, h := range hits {
		out[i] = hitOutput{
			Label:    h.Chunk.Label,
			Source:   h.Chunk.Source,
			Page:     h.Chunk.Page,
			Distance: h.Distance,
			Text:     h.Chunk.Text,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
