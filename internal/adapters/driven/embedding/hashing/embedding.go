// Package hashing provides an offline embedding service based on feature hashing.
//
// Each word and each character trigram of a word is hashed into one of
// Dimensions buckets with a hash-derived sign, and the result is L2-normalised.
// Vectors are lexical rather than semantic, but need no model or network and
// are fully deterministic.
package hashing

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "hashing-trigram"
	DefaultDimensions = 384
)

// Config holds configuration for the hashing embedder.
type Config struct {
	// Dimensions is the number of hash buckets (default: 384).
	Dimensions int
}

// EmbeddingService embeds text without any external service.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a new hashing embedder.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: cfg.Dimensions}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.vector(text), nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		embeddings[i] = s.vector(text)
	}
	return embeddings, nil
}

func (s *EmbeddingService) vector(text string) []float32 {
	vec := make([]float32, s.dimensions)

	for _, word := range strings.Fields(text) {
		s.add(vec, "w:"+word, 1)

		runes := []rune(" " + word + " ")
		for i := 0; i+3 <= len(runes); i++ {
			s.add(vec, string(runes[i:i+3]), 0.5)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}

func (s *EmbeddingService) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	bucket := int(sum % uint64(s.dimensions))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[bucket] += weight
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return DefaultModel
}

// Ping always succeeds; there is nothing to reach.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
