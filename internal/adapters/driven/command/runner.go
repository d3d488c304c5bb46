// Package command runs external programs such as pdftoppm and tesseract.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// Runner executes a program and returns its standard output.
// It exists so adapters can be tested without the real binaries.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

// Ensure ExecRunner implements the interface.
var _ Runner = ExecRunner{}

// Run executes name with args and returns stdout.
// A missing binary is reported as domain.ErrToolNotFound; a non-zero exit
// carries the trimmed stderr in the error message.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrToolNotFound, name)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return out, nil
}

// CheckAvailable returns domain.ErrToolNotFound if name is not on PATH.
func CheckAvailable(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrToolNotFound, name)
	}
	return nil
}
