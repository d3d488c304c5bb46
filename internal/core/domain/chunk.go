package domain

import "fmt"

// Page is the text of a single page of a source document.
// Pages that yield no text are never represented.
type Page struct {
	// Source is the base name of the document (e.g. "report.pdf").
	Source string

	// Number is the 1-based page number.
	Number int

	// Text is the stripped page text, native or recognised.
	Text string
}

// Label returns the provenance label shared by every chunk of the page.
func (p Page) Label() string {
	return PageLabel(p.Source, p.Number)
}

// PageLabel formats a provenance label such as "report.pdf [Page 3]".
func PageLabel(source string, page int) string {
	return fmt.Sprintf("%s [Page %d]", source, page)
}

// Chunk is a labelled, bounded-length unit of normalised page text.
// Chunks are immutable once created and are replaced wholesale on rebuild.
type Chunk struct {
	// Label combines the document name and page number.
	Label string

	// Text is the normalised chunk text. Never empty after trimming.
	Text string

	// Source is the base name of the originating document.
	Source string

	// Page is the 1-based page number within Source.
	Page int
}
