package utils

import (
	"fmt"
	"io"
	"os"

	verrors "github.com/PolarWolf314/vault-nacl/internal/errors"
)

// StdinIsPiped reports whether stdin carries data rather than a terminal.
func StdinIsPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

// ReadStdin reads all content from stdin.
// Returns ErrNoInput if stdin is a terminal (no piped data).
func ReadStdin() ([]byte, error) {
	if !StdinIsPiped() {
		return nil, fmt.Errorf("%w (hint: pass files or pipe a document to this command)", verrors.ErrNoInput)
	}
	return ReadAll(os.Stdin)
}

// ReadAll reads r to the end. Empty input is valid; an empty document
// simply holds no spans.
func ReadAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}
