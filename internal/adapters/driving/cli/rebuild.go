package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/services"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the index from the PDFs in the files directory",
	Long: `Extracts the text of every PDF in the files directory, splits it into
1000 character chunks, embeds them and replaces the index on disk.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	summary, err := indexService.Rebuild(cmd.Context())
	cmd.Println(services.RebuildMessage(summary, err))
	if err != nil && !errors.Is(err, domain.ErrNoContent) {
		return ErrReported
	}
	return nil
}
