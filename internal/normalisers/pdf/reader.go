package pdf

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// ledongthucDocument adapts github.com/ledongthuc/pdf to the document interface.
// The parser panics on some malformed input, so every call into it recovers.
type ledongthucDocument struct {
	file   *os.File
	reader *pdf.Reader
}

func openFile(path string) (doc document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("parse pdf: %v", r)
		}
		if err != nil {
			f.Close()
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat pdf: %w", err)
	}
	r, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &ledongthucDocument{file: f, reader: r}, nil
}

func (d *ledongthucDocument) NumPage() int {
	return d.reader.NumPage()
}

func (d *ledongthucDocument) PageText(n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parse page: %v", r)
		}
	}()

	p := d.reader.Page(n)
	if p.V.IsNull() {
		return "", nil
	}

	fonts := make(map[string]*pdf.Font)
	for _, name := range p.Fonts() {
		f := p.Font(name)
		fonts[name] = &f
	}
	return p.GetPlainText(fonts)
}

func (d *ledongthucDocument) Close() error {
	return d.file.Close()
}
