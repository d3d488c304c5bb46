// Package poppler rasterises PDF pages with the pdftoppm tool from poppler-utils.
package poppler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/custodia-labs/pdfrag/internal/adapters/driven/command"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Binary is the poppler rasteriser executable.
const Binary = "pdftoppm"

// Ensure Renderer implements the interface.
var _ driven.PageRenderer = (*Renderer)(nil)

// Renderer renders single pages to PNG.
type Renderer struct {
	runner command.Runner
}

// New creates a renderer that runs the real pdftoppm.
func New() *Renderer {
	return &Renderer{runner: command.ExecRunner{}}
}

// NewWithRunner creates a renderer with a custom command runner.
func NewWithRunner(runner command.Runner) *Renderer {
	return &Renderer{runner: runner}
}

// RenderPage renders the 1-based page of the PDF at path at the given DPI.
func (r *Renderer) RenderPage(ctx context.Context, path string, page, dpi int) ([]byte, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page %d", domain.ErrInvalidInput, page)
	}
	if dpi <= 0 {
		dpi = domain.DefaultOCRDPI
	}

	dir, err := os.MkdirTemp("", "pdfrag-render-*")
	if err != nil {
		return nil, fmt.Errorf("create render dir: %w", err)
	}
	defer os.RemoveAll(dir)

	// -singlefile writes exactly <outRoot>.png instead of a numbered series.
	outRoot := filepath.Join(dir, "page")
	n := strconv.Itoa(page)
	args := []string{
		"-r", strconv.Itoa(dpi),
		"-f", n,
		"-l", n,
		"-png",
		"-singlefile",
		path,
		outRoot,
	}

	if _, err := r.runner.Run(ctx, Binary, args...); err != nil {
		return nil, fmt.Errorf("render page %d: %w", page, err)
	}

	img, err := os.ReadFile(outRoot + ".png")
	if err != nil {
		return nil, fmt.Errorf("read rendered page %d: %w", page, err)
	}
	return img, nil
}

// CheckAvailable returns domain.ErrToolNotFound if pdftoppm is not installed.
func CheckAvailable() error {
	return command.CheckAvailable(Binary)
}

// InstallInstructions returns platform-specific install instructions.
func InstallInstructions() string {
	return `pdftoppm is required to render scanned PDF pages for OCR.

Install poppler:
  macOS:         brew install poppler
  Ubuntu/Debian: sudo apt install poppler-utils
  Fedora:        sudo dnf install poppler-utils`
}
