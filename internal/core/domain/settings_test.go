package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{"ollama is valid", AIProviderOllama, true},
		{"openai is valid", AIProviderOpenAI, true},
		{"hashing is valid", AIProviderHashing, true},
		{"empty string is invalid", AIProvider(""), false},
		{"anthropic is invalid", AIProvider("anthropic"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_Properties(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.False(t, AIProviderHashing.RequiresAPIKey())

	assert.True(t, AIProviderOllama.IsLocal())
	assert.True(t, AIProviderHashing.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())

	assert.Equal(t, "ollama", AIProviderOllama.String())
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		expected bool
	}{
		{"empty", EmbeddingSettings{}, false},
		{"ollama without key", EmbeddingSettings{Provider: AIProviderOllama}, true},
		{"openai without key", EmbeddingSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"}, true},
		{"hashing", EmbeddingSettings{Provider: AIProviderHashing}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, 300, s.OCR.DPI)
	assert.True(t, s.OCR.Enabled)
	assert.Equal(t, "eng", s.OCR.Language)
	assert.Equal(t, 5, s.Query.TopK)
	assert.Equal(t, 1000, s.Query.MaxChars)
	assert.Equal(t, AIProviderOllama, s.Embedding.Provider)
	assert.Equal(t, "all-minilm", s.Embedding.Model)
	assert.Empty(t, s.Corpus.Dir)
	assert.Empty(t, s.Index.Dir)

	require.Equal(t, []string{"chunker"}, s.Pipeline.Processors)
	assert.Equal(t, 1000, s.Pipeline.GetProcessorConfig("chunker")["chunk_size"])
}

func TestEmbeddingDimensions_DefaultModelsKnown(t *testing.T) {
	dims := EmbeddingDimensions()
	for provider, model := range DefaultEmbeddingModels() {
		assert.Positive(t, dims[model], "default model for %s should have known dimensions", provider)
	}
	assert.Equal(t, 384, dims["all-minilm"])
}

func TestPipelineConfig_GetProcessorConfig(t *testing.T) {
	var empty PipelineConfig
	assert.Nil(t, empty.GetProcessorConfig("chunker"))

	cfg := DefaultPipelineConfig()
	assert.NotNil(t, cfg.GetProcessorConfig("chunker"))
	assert.Nil(t, cfg.GetProcessorConfig("missing"))
}
