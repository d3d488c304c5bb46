package driven

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// TextExtractor produces the text of a document page by page.
type TextExtractor interface {
	// Extract returns the pages of the document at path that carry text, in page order.
	// On a document-level failure it returns the pages extracted so far together
	// with a *domain.DocumentError.
	Extract(ctx context.Context, path string) ([]domain.Page, error)
}

// PageRenderer rasterises a single document page.
type PageRenderer interface {
	// RenderPage renders the 1-based page of the document at path as a PNG image.
	RenderPage(ctx context.Context, path string, page, dpi int) ([]byte, error)
}

// OCREngine recognises text in an image.
type OCREngine interface {
	// Recognize returns the text found in a PNG image.
	Recognize(ctx context.Context, image []byte) (string, error)
}
