package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the index contains",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	status, err := indexService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	if statusJSON {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if !status.Built {
		cmd.Println("No index. Run 'pdfrag rebuild' first.")
		return nil
	}

	cmd.Printf("Chunks:     %d\n", status.Chunks)
	cmd.Printf("Documents:  %d\n", status.Documents)
	cmd.Printf("Dimensions: %d\n", status.Dimensions)
	cmd.Printf("Model:      %s\n", status.Model)
	cmd.Printf("Generation: %s\n", status.Generation)
	if !status.BuiltAt.IsZero() {
		cmd.Printf("Built:      %s\n", status.BuiltAt.Local().Format(time.RFC1123))
	}
	return nil
}
