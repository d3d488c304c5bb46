// Package pdf extracts per-page text from PDF documents.
//
// The native text layer is read with github.com/ledongthuc/pdf. Pages whose
// text layer is empty are rasterised and passed through OCR when a renderer
// and an OCR engine are configured.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// document is an open PDF. Page numbers are 1-based.
type document interface {
	NumPage() int
	PageText(page int) (string, error)
	Close() error
}

// Extractor produces page text, falling back to OCR for image-only pages.
type Extractor struct {
	open     func(path string) (document, error)
	renderer driven.PageRenderer
	ocr      driven.OCREngine
	dpi      int

	missingToolOnce sync.Once
}

// Option configures the extractor.
type Option func(*Extractor)

// WithOCR enables the OCR fallback. Either argument may be nil to disable it.
func WithOCR(renderer driven.PageRenderer, engine driven.OCREngine) Option {
	return func(e *Extractor) {
		e.renderer = renderer
		e.ocr = engine
	}
}

// WithDPI sets the rasterisation resolution for OCR.
func WithDPI(dpi int) Option {
	return func(e *Extractor) {
		if dpi > 0 {
			e.dpi = dpi
		}
	}
}

// New creates an extractor. Without WithOCR, image-only pages yield no text.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		open: openFile,
		dpi:  domain.DefaultOCRDPI,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OCREnabled reports whether image-only pages are recognised.
func (e *Extractor) OCREnabled() bool {
	return e.renderer != nil && e.ocr != nil
}

// Extract returns the pages of the PDF at path that yield text.
//
// A failure part-way through (unreadable file, parser fault, renderer or OCR
// fault) abandons the rest of the document: the pages already extracted are
// returned together with a *domain.DocumentError. A missing OCR tool is not a
// failure; the page is treated as having no text.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	source := filepath.Base(path)

	doc, err := e.open(path)
	if err != nil {
		return nil, e.fail(path, nil, err)
	}
	defer doc.Close()

	total := doc.NumPage()
	logger.Debug("%s: %d page(s)", source, total)

	var pages []domain.Page
	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return pages, err
		}

		text, err := doc.PageText(n)
		if err != nil {
			return pages, e.fail(path, pages, fmt.Errorf("page %d: %w", n, err))
		}
		text = strings.TrimSpace(text)

		if text == "" && e.OCREnabled() {
			text, err = e.recognise(ctx, path, n)
			if err != nil {
				return pages, e.fail(path, pages, fmt.Errorf("ocr page %d: %w", n, err))
			}
		}

		if text == "" {
			logger.Debug("%s: page %d has no text", source, n)
			continue
		}

		pages = append(pages, domain.Page{
			Source: source,
			Number: n,
			Text:   text,
		})
	}

	return pages, nil
}

// recognise renders the page and runs OCR on it. A missing tool yields no text.
func (e *Extractor) recognise(ctx context.Context, path string, page int) (string, error) {
	img, err := e.renderer.RenderPage(ctx, path, page, e.dpi)
	if err == nil {
		var text string
		text, err = e.ocr.Recognize(ctx, img)
		if err == nil {
			logger.Debug("%s: page %d recognised by OCR", filepath.Base(path), page)
			return strings.TrimSpace(text), nil
		}
	}

	if errors.Is(err, domain.ErrToolNotFound) {
		e.missingToolOnce.Do(func() {
			logger.Warn("OCR unavailable, image-only pages will be skipped: %v", err)
		})
		return "", nil
	}
	return "", err
}

func (e *Extractor) fail(path string, pages []domain.Page, err error) error {
	docErr := &domain.DocumentError{
		Path:  path,
		Pages: len(pages),
		Err:   err,
	}
	logger.Error("%v", docErr)
	return docErr
}
