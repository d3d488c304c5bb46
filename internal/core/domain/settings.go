package domain

const unknownDescription = "Unknown"

// Default tuning values. They match the behaviour the index format was
// designed around; changing chunk size or model requires a full rebuild.
const (
	DefaultChunkSize      = 1000
	DefaultOCRDPI         = 300
	DefaultOCRLanguage    = "eng"
	DefaultTopK           = 5
	DefaultMaxResultChars = 1000
	DefaultCorpusDirName  = "files"
	DefaultIndexFileName  = "index.flat"
	DefaultTableFileName  = "chunks.db"
)

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API (or a compatible endpoint).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderHashing is the offline feature-hashing embedder.
	// It is lexical rather than semantic and needs no external service.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs on this machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderHashing:
		return "Feature hashing (offline, lexical)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the vector width for models not in EmbeddingDimensions.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// CorpusSettings locates the source documents.
type CorpusSettings struct {
	// Dir is the corpus directory. Empty means "files" next to the executable.
	Dir string
}

// IndexSettings locates the persisted artifacts.
type IndexSettings struct {
	// Dir holds the index and chunk table files. Empty means the executable's directory.
	Dir string
}

// OCRSettings controls the fallback used for pages without a text layer.
type OCRSettings struct {
	// Enabled turns the OCR fallback on.
	Enabled bool

	// DPI is the rasterisation resolution.
	DPI int

	// Language is the tesseract language code.
	Language string
}

// QuerySettings controls retrieval and formatting.
type QuerySettings struct {
	// TopK is the number of nearest chunks returned.
	TopK int

	// MaxChars truncates each formatted match.
	MaxChars int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Corpus    CorpusSettings
	Index     IndexSettings
	Pipeline  PipelineConfig
	OCR       OCRSettings
	Query     QuerySettings
	Embedding EmbeddingSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Pipeline: DefaultPipelineConfig(),
		OCR: OCRSettings{
			Enabled:  true,
			DPI:      DefaultOCRDPI,
			Language: DefaultOCRLanguage,
		},
		Query: QuerySettings{
			TopK:     DefaultTopK,
			MaxChars: DefaultMaxResultChars,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModels()[AIProviderOllama],
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderHashing,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:  "all-minilm",
		AIProviderOpenAI:  "text-embedding-3-small",
		AIProviderHashing: "hashing-trigram",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"all-minilm":        384,
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Offline
		"hashing-trigram": 384,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default pipeline configuration:
// a single chunker producing non-overlapping 1000 character windows.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": DefaultChunkSize,
			},
		},
	}
}
