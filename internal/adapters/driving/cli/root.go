// Package cli provides the cobra command tree for pdfrag.
package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// ErrReported is returned when a command has already told the user what went
// wrong. Callers should exit non-zero without printing anything else.
var ErrReported = errors.New("command failed")

// skipBootstrap marks commands that run without services.
const skipBootstrap = "skip-bootstrap"

// Options are the persistent flags handed to the Bootstrap function.
type Options struct {
	// ConfigDir holds config.toml and an optional .env (default ~/.pdfrag).
	ConfigDir string

	// Verbose enables debug logging on stderr.
	Verbose bool
}

// Services are the driving ports the commands use.
type Services struct {
	Index    driving.IndexService
	Query    driving.QueryService
	Settings driving.SettingsService

	// MaxChars truncates each match when printing query results.
	MaxChars int
}

// Bootstrap builds the services once flags are parsed. The returned function
// releases them.
type Bootstrap func(opts Options) (*Services, func(), error)

// Package-level services, set by Bootstrap or directly by tests.
var (
	version         = "dev"
	indexService    driving.IndexService
	queryService    driving.QueryService
	settingsService driving.SettingsService
	maxResultChars  int

	bootstrap Bootstrap
	cleanup   func()
)

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "pdfrag",
	Short: "Semantic search over a folder of PDFs",
	Long: `pdfrag indexes the PDFs in a local 'files' directory and answers
natural-language queries with the most similar passages.

Pages without a text layer are OCRed with poppler (pdftoppm) and tesseract
when they are installed. The index can be queried from the command line or
by AI assistants through the MCP server.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initServices,
}

func init() {
	// cobra's Print helpers default to stderr; results belong on stdout.
	rootCmd.SetOut(os.Stdout)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.pdfrag)")
}

// Execute runs the command tree.
func Execute(ctx context.Context, v string, boot Bootstrap) error {
	if v != "" {
		version = v
	}
	bootstrap = boot
	defer func() {
		release()
		bootstrap = nil
	}()

	return rootCmd.ExecuteContext(ctx)
}

// SetServices installs the driving ports directly.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	indexService = s.Index
	queryService = s.Query
	settingsService = s.Settings
	maxResultChars = s.MaxChars
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[skipBootstrap] == "true" || bootstrap == nil {
		return nil
	}

	loadDotEnv(configDir)

	services, done, err := bootstrap(Options{ConfigDir: configDir, Verbose: verbose})
	if err != nil {
		return err
	}
	SetServices(services)
	cleanup = done
	return nil
}

func release() {
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
}

// loadDotEnv reads .env from the working directory and the config directory.
// Variables already set in the environment win.
func loadDotEnv(dir string) {
	paths := []string{".env"}
	if dir != "" {
		paths = append(paths, filepath.Join(dir, ".env"))
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Ignoring %s: %v", p, err)
		}
	}
}
