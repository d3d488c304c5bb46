package services

import (
	"fmt"
	"os"
	"slices"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyCorpusDir     = "corpus.dir"
	KeyIndexDir      = "index.dir"
	KeyChunkSize     = "chunker.chunk_size"
	KeyOCREnabled    = "ocr.enabled"
	KeyOCRDPI        = "ocr.dpi"
	KeyOCRLanguage   = "ocr.language"
	KeyQueryTopK     = "query.top_k"
	KeyQueryMaxChars = "query.max_chars"
	KeyEmbedProvider = "embedding.provider"
	KeyEmbedModel    = "embedding.model"
	KeyEmbedBaseURL  = "embedding.base_url"
	KeyEmbedAPIKey   = "embedding.api_key"
)

const (
	openAIKeyEnv      = "OPENAI_API_KEY"
	chunkerName       = "chunker"
	chunkSizeParam    = "chunk_size"
	defaultOllamaHost = "http://localhost:11434"
)

type setting struct {
	key   string
	value any
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// aiValidator may be nil, in which case ValidateEmbeddingConfig is a no-op.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Corpus: domain.CorpusSettings{
			Dir: s.configStore.GetString(KeyCorpusDir),
		},
		Index: domain.IndexSettings{
			Dir: s.configStore.GetString(KeyIndexDir),
		},
		Pipeline: defaults.Pipeline,
		OCR: domain.OCRSettings{
			Enabled:  s.getBool(KeyOCREnabled, defaults.OCR.Enabled),
			DPI:      s.getPositiveInt(KeyOCRDPI, defaults.OCR.DPI),
			Language: s.getString(KeyOCRLanguage, defaults.OCR.Language),
		},
		Query: domain.QuerySettings{
			TopK:     s.getPositiveInt(KeyQueryTopK, defaults.Query.TopK),
			MaxChars: s.getPositiveInt(KeyQueryMaxChars, defaults.Query.MaxChars),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(KeyEmbedProvider, defaults.Embedding.Provider),
			BaseURL:  s.configStore.GetString(KeyEmbedBaseURL), // No default - adapters pick their own
			APIKey:   s.configStore.GetString(KeyEmbedAPIKey),
		},
	}

	if size := s.configStore.GetInt(KeyChunkSize); size > 0 {
		settings.Pipeline.ProcessorConfigs[chunkerName][chunkSizeParam] = size
	}

	// The model default follows the provider.
	settings.Embedding.Model = s.getString(KeyEmbedModel,
		domain.DefaultEmbeddingModels()[settings.Embedding.Provider])

	if settings.Embedding.APIKey == "" && settings.Embedding.Provider == domain.AIProviderOpenAI {
		settings.Embedding.APIKey = s.getenv(openAIKeyEnv)
	}

	if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
		settings.Embedding.Dimensions = d
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: nil settings", domain.ErrInvalidInput)
	}

	values := []setting{
		{KeyCorpusDir, settings.Corpus.Dir},
		{KeyIndexDir, settings.Index.Dir},
		{KeyOCREnabled, settings.OCR.Enabled},
		{KeyOCRDPI, settings.OCR.DPI},
		{KeyOCRLanguage, settings.OCR.Language},
		{KeyQueryTopK, settings.Query.TopK},
		{KeyQueryMaxChars, settings.Query.MaxChars},
		{KeyEmbedProvider, settings.Embedding.Provider.String()},
		{KeyEmbedModel, settings.Embedding.Model},
		{KeyEmbedBaseURL, settings.Embedding.BaseURL},
	}
	if size, ok := settings.Pipeline.GetProcessorConfig(chunkerName)[chunkSizeParam].(int); ok {
		values = append(values, setting{KeyChunkSize, size})
	}
	// Keys that came from the environment are not written to disk.
	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != s.getenv(openAIKeyEnv) {
		values = append(values, setting{KeyEmbedAPIKey, settings.Embedding.APIKey})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return s.configStore.Save()
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" && s.getenv(openAIKeyEnv) == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	// Only ollama talks to a local server.
	if provider == domain.AIProviderOllama {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = defaultOllamaHost
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q is not configured", settings.Embedding.Provider)
	}
	if settings.OCR.Enabled && settings.OCR.Language == "" {
		return fmt.Errorf("%w: ocr.language must be set when OCR is enabled", domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
