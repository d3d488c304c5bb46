package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the corpus location, OCR, query and embedding
settings stored in config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long: `Configure the embedding provider used for indexing and queries.

Available providers:
  ollama   - local Ollama server (default, model all-minilm)
  openai   - OpenAI embeddings API (requires an API key or OPENAI_API_KEY)
  hashing  - offline lexical hashing, no model or network needed

Changing the provider or model requires 'pdfrag rebuild'.`,
	RunE: runSettingsEmbedding,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the embedding provider is reachable",
	RunE:  runSettingsValidate,
}

var (
	embeddingProvider string
	embeddingModel    string
	embeddingAPIKey   string
)

func init() {
	settingsEmbeddingCmd.Flags().StringVar(&embeddingProvider, "provider", "", "embedding provider (ollama, openai, hashing)")
	settingsEmbeddingCmd.Flags().StringVar(&embeddingModel, "model", "", "model name (default depends on provider)")
	settingsEmbeddingCmd.Flags().StringVar(&embeddingAPIKey, "api-key", "", "API key for cloud providers")
	_ = settingsEmbeddingCmd.MarkFlagRequired("provider")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Corpus]")
	cmd.Printf("  Directory: %s\n", orDefault(settings.Corpus.Dir, "<executable dir>/files"))
	cmd.Printf("  Index directory: %s\n", orDefault(settings.Index.Dir, "<executable dir>"))
	if size, ok := settings.Pipeline.GetProcessorConfig("chunker")["chunk_size"].(int); ok {
		cmd.Printf("  Chunk size: %d\n", size)
	}
	cmd.Println()

	cmd.Println("[OCR]")
	if settings.OCR.Enabled {
		cmd.Printf("  Enabled: yes\n")
		cmd.Printf("  DPI: %d\n", settings.OCR.DPI)
		cmd.Printf("  Language: %s\n", settings.OCR.Language)
	} else {
		cmd.Printf("  Enabled: no\n")
	}
	cmd.Println()

	cmd.Println("[Query]")
	cmd.Printf("  Top K: %d\n", settings.Query.TopK)
	cmd.Printf("  Max chars: %d\n", settings.Query.MaxChars)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.Provider.IsLocal() && settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.Embedding.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'pdfrag settings embedding --provider <name>' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	provider := domain.AIProvider(embeddingProvider)
	if err := settingsService.SetEmbeddingProvider(provider, embeddingModel, embeddingAPIKey); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("Embedding provider set to %s (%s).\n", settings.Embedding.Provider, settings.Embedding.Model)
	cmd.Println("Run 'pdfrag rebuild' to re-embed the corpus.")
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		return fmt.Errorf("embedding provider check failed: %w", err)
	}
	cmd.Println("Embedding provider is reachable.")
	return nil
}

// maskAPIKey keeps the first and last four characters.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
