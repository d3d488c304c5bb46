// Package chunker provides a fixed-window text chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// Processor splits page text into consecutive, non-overlapping windows.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the window size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured window size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Normalise lower-cases s and turns every newline into a single space.
// Normalise(Normalise(s)) == Normalise(s).
func Normalise(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "\n", " ")
}

// Process splits the page text into chunks.
// Input chunks are ignored; this processor creates new chunks from the page.
// Windows are counted in characters (runes), start at offset 0 and never
// overlap. Each window is trimmed; windows that trim to nothing are dropped.
func (p *Processor) Process(_ context.Context, page *domain.Page, _ []domain.Chunk) ([]domain.Chunk, error) {
	if page == nil || page.Text == "" {
		return nil, nil
	}

	runes := []rune(Normalise(page.Text))
	label := page.Label()
	chunks := make([]domain.Chunk, 0, len(runes)/p.chunkSize+1)

	for start := 0; start < len(runes); start += p.chunkSize {
		end := min(start+p.chunkSize, len(runes))

		text := strings.TrimSpace(string(runes[start:end]))
		if text == "" {
			continue
		}

		chunks = append(chunks, domain.Chunk{
			Label:  label,
			Text:   text,
			Source: page.Source,
			Page:   page.Number,
		})
	}

	return chunks, nil
}
