// Package tesseract recognises text in page images with the tesseract CLI.
package tesseract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/pdfrag/internal/adapters/driven/command"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Binary is the tesseract executable.
const Binary = "tesseract"

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// Engine runs tesseract on a single image.
type Engine struct {
	runner   command.Runner
	language string
}

// Option configures the engine.
type Option func(*Engine)

// WithLanguage sets the tesseract language code (e.g. "eng", "deu+eng").
func WithLanguage(lang string) Option {
	return func(e *Engine) {
		if lang != "" {
			e.language = lang
		}
	}
}

// WithRunner replaces the command runner.
func WithRunner(runner command.Runner) Option {
	return func(e *Engine) {
		e.runner = runner
	}
}

// New creates an OCR engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		runner:   command.ExecRunner{},
		language: domain.DefaultOCRLanguage,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Language returns the configured language code.
func (e *Engine) Language() string {
	return e.language
}

// Recognize writes the image to a temporary file and returns tesseract's stdout.
func (e *Engine) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
	}

	dir, err := os.MkdirTemp("", "pdfrag-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create ocr dir: %w", err)
	}
	defer os.RemoveAll(dir)

	imgPath := filepath.Join(dir, "page.png")
	if err := os.WriteFile(imgPath, image, 0o600); err != nil {
		return "", fmt.Errorf("write ocr image: %w", err)
	}

	out, err := e.runner.Run(ctx, Binary, imgPath, "stdout", "-l", e.language)
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return string(out), nil
}

// CheckAvailable returns domain.ErrToolNotFound if tesseract is not installed.
func CheckAvailable() error {
	return command.CheckAvailable(Binary)
}

// InstallInstructions returns platform-specific install instructions.
func InstallInstructions() string {
	return `tesseract is required to read scanned PDF pages.

Install tesseract:
  macOS:         brew install tesseract
  Ubuntu/Debian: sudo apt install tesseract-ocr
  Fedora:        sudo dnf install tesseract`
}
