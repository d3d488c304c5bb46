package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure Scanner implements the interface.
var _ driven.CorpusScanner = (*Scanner)(nil)

// DocumentExt is the extension of files picked up by Scan.
const DocumentExt = ".pdf"

// Scanner lists the PDFs directly inside a corpus directory.
// Subdirectories are not descended into.
type Scanner struct {
	rootPath string
}

// New creates a scanner rooted at rootPath.
func New(rootPath string) *Scanner {
	return &Scanner{rootPath: rootPath}
}

// Root returns the corpus directory.
func (s *Scanner) Root() string {
	return s.rootPath
}

// Validate checks that the corpus directory exists and is a directory.
func (s *Scanner) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(s.rootPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s does not exist", domain.ErrCorpusMissing, s.rootPath)
		}
		return fmt.Errorf("cannot access %s: %w", s.rootPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrCorpusMissing, s.rootPath)
	}
	return nil
}

// Scan returns the paths of every *.pdf file (any case) in the corpus
// directory, sorted by file name.
func (s *Scanner) Scan(ctx context.Context) ([]string, error) {
	if err := s.Validate(ctx); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.rootPath)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if !IsDocument(entry.Name()) {
			continue
		}
		path := filepath.Join(s.rootPath, entry.Name())
		if !isRegularFile(entry, path) {
			continue
		}
		paths = append(paths, path)
	}

	sort.Slice(paths, func(i, j int) bool {
		return filepath.Base(paths[i]) < filepath.Base(paths[j])
	})
	return paths, nil
}

// IsDocument reports whether name has the PDF extension, ignoring case.
func IsDocument(name string) bool {
	return strings.EqualFold(filepath.Ext(name), DocumentExt)
}

// isRegularFile follows symlinks so linked PDFs are still indexed.
func isRegularFile(entry os.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
