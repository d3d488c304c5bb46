package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/pdfrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/ocr/tesseract"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/render/poppler"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/storage/index"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/cli"
	"github.com/custodia-labs/pdfrag/internal/connectors/filesystem"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/services"
	"github.com/custodia-labs/pdfrag/internal/logger"
	"github.com/custodia-labs/pdfrag/internal/normalisers/pdf"
	"github.com/custodia-labs/pdfrag/internal/postprocessors"
)

// executableDir is replaced in tests.
var executableDir = func() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// bootstrap reads config.toml and assembles the services.
func bootstrap(opts cli.Options) (*cli.Services, func(), error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}

	corpusDir, indexDir, err := resolveDirs(settings)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("corpus: %s", corpusDir)
	logger.Debug("index: %s", indexDir)

	pipeline, err := buildPipeline(settings.Pipeline)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	embedding, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	store := index.New(index.Config{
		Dir:   indexDir,
		Model: embedding.ModelName(),
	})
	embedder := services.NewEmbedder(embedding)

	indexService := services.NewIndexService(
		filesystem.New(corpusDir),
		newExtractor(settings.OCR),
		pipeline,
		embedder,
		store,
	)
	queryService := services.NewQueryService(store, embedder, settings.Query.TopK)

	release := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing index: %v", err)
		}
		if err := embedding.Close(); err != nil {
			logger.Warn("closing embedding service: %v", err)
		}
	}

	return &cli.Services{
		Index:    indexService,
		Query:    queryService,
		Settings: settingsService,
		MaxChars: settings.Query.MaxChars,
	}, release, nil
}

// resolveDirs fills in the executable-relative defaults.
func resolveDirs(settings *domain.AppSettings) (corpusDir, indexDir string, err error) {
	corpusDir = settings.Corpus.Dir
	indexDir = settings.Index.Dir
	if corpusDir != "" && indexDir != "" {
		return corpusDir, indexDir, nil
	}

	base, err := executableDir()
	if err != nil {
		return "", "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if corpusDir == "" {
		corpusDir = filepath.Join(base, domain.DefaultCorpusDirName)
	}
	if indexDir == "" {
		indexDir = base
	}
	return corpusDir, indexDir, nil
}

func buildPipeline(cfg domain.PipelineConfig) (*postprocessors.Pipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	return registry.BuildPipeline(cfg)
}

// newExtractor wires the OCR fallback when enabled. Missing tools are
// reported by the extractor the first time a scanned page needs them.
func newExtractor(cfg domain.OCRSettings) *pdf.Extractor {
	if !cfg.Enabled {
		return pdf.New()
	}

	if err := poppler.CheckAvailable(); err != nil {
		logger.Debug("%s", poppler.InstallInstructions())
	}
	if err := tesseract.CheckAvailable(); err != nil {
		logger.Debug("%s", tesseract.InstallInstructions())
	}

	return pdf.New(
		pdf.WithOCR(poppler.New(), tesseract.New(tesseract.WithLanguage(cfg.Language))),
		pdf.WithDPI(cfg.DPI),
	)
}
