package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/vault-nacl/internal/audit"
	"github.com/PolarWolf314/vault-nacl/internal/document"
	verrors "github.com/PolarWolf314/vault-nacl/internal/errors"
	"github.com/PolarWolf314/vault-nacl/internal/vault"
)

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	DocumentOptions

	Password string
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	Files []FileResult

	// Spans is the number of spans opened across all files.
	Spans int

	// Content holds the decrypted documents, in input order, unless Output
	// was set.
	Content []byte
}

// Decrypt opens every sealed span in the selected documents. The plaintext
// documents are returned as Content, or written to Output; input files are
// never modified.
//
// Returns ErrNoPassword if Password is empty.
// Returns ErrDecryptFailed (wrapped with the file and value path) on a wrong password.
func Decrypt(ctx context.Context, opts DecryptOptions) (result *DecryptResult, err error) {
	entry := audit.NewEntry("decrypt")
	defer func() { record(entry, err) }()

	if opts.Password == "" {
		return nil, fmt.Errorf("decrypt: %w", verrors.ErrNoPassword)
	}

	sources, err := opts.load()
	if err != nil {
		return nil, err
	}

	v := vault.New(opts.Password, vault.Config{})
	defer v.Clear()
	e := opts.engine(v, false)

	result = &DecryptResult{}
	var rewrites []rewrite
	for _, src := range sources {
		format, doc, err := opts.decode(src)
		if err != nil {
			return nil, err
		}

		sealed := e.Count(doc).Sealed
		out, err := e.Decrypt(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.label(), err)
		}

		data, err := document.Encode(out, format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.label(), err)
		}

		fr := FileResult{Path: src.path, Spans: sealed}
		if dest := opts.destination(src, false); dest != "" {
			rewrites = append(rewrites, rewrite{dest: dest, data: data})
			fr.Output = dest
		} else {
			result.Content = append(result.Content, data...)
		}

		opts.Logger.Infof("Opened %d span(s) in %s", sealed, src.label())
		result.Files = append(result.Files, fr)
		result.Spans += sealed
	}

	if err := writeAll(rewrites); err != nil {
		return nil, err
	}

	entry.Files = paths(result.Files)
	entry.Spans = result.Spans
	return result, nil
}
