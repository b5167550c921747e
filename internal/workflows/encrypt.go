package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/vault-nacl/internal/audit"
	"github.com/PolarWolf314/vault-nacl/internal/document"
	verrors "github.com/PolarWolf314/vault-nacl/internal/errors"
	"github.com/PolarWolf314/vault-nacl/internal/vault"
)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	DocumentOptions

	Password string

	// Vault selects the digest and iterations for new spans.
	Vault vault.Config

	// SplitLines wraps new spans at 80 columns.
	SplitLines bool
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	Files []FileResult

	// Spans is the number of spans sealed across all files.
	Spans int

	// Content holds the document read from stdin when no Output was given.
	Content []byte

	Digest     string
	Iterations uint32
}

// Encrypt seals every pending span in the selected documents.
//
// Existing sealed spans are opened first, so a password that does not
// match them fails the whole run before anything is written. Files are
// rewritten in place unless Output is set; files without pending spans are
// left untouched.
//
// Returns ErrNoPassword if Password is empty.
// Returns ErrDecryptFailed (wrapped with the file and value path) on a wrong password.
// Returns ErrNoFilesFound if no files match the specified patterns.
func Encrypt(ctx context.Context, opts EncryptOptions) (result *EncryptResult, err error) {
	entry := audit.NewEntry("encrypt")
	defer func() { record(entry, err) }()

	if opts.Password == "" {
		return nil, fmt.Errorf("encrypt: %w", verrors.ErrNoPassword)
	}
	if _, err := vault.ParseDigest(opts.Vault.Digest); err != nil {
		return nil, err
	}

	sources, err := opts.load()
	if err != nil {
		return nil, err
	}

	v := vault.New(opts.Password, opts.Vault)
	defer v.Clear()
	e := opts.engine(v, opts.SplitLines)

	result = &EncryptResult{Digest: v.Digest(), Iterations: v.Iterations()}
	entry.Digest = result.Digest
	entry.Iterations = result.Iterations

	var rewrites []rewrite

	// Every file is sealed before any is written, so a password that does
	// not open a later file leaves the earlier ones untouched.
	for _, src := range sources {
		format, doc, err := opts.decode(src)
		if err != nil {
			return nil, err
		}

		pending := e.Count(doc).Pending
		out, err := e.Encrypt(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.label(), err)
		}

		fr := FileResult{Path: src.path, Spans: pending}
		dest := opts.destination(src, true)
		if pending > 0 || dest != src.path || src.path == "" {
			data, err := document.Encode(out, format)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", src.label(), err)
			}
			if dest == "" {
				result.Content = data
			} else {
				rewrites = append(rewrites, rewrite{dest: dest, data: data})
				fr.Output = dest
			}
		}

		opts.Logger.Infof("Sealed %d span(s) in %s", pending, src.label())
		result.Files = append(result.Files, fr)
		result.Spans += pending
	}

	if err := writeAll(rewrites); err != nil {
		return nil, err
	}

	entry.Files = paths(result.Files)
	entry.Spans = result.Spans
	return result, nil
}
