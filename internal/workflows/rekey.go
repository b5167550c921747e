package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/vault-nacl/internal/audit"
	"github.com/PolarWolf314/vault-nacl/internal/document"
	verrors "github.com/PolarWolf314/vault-nacl/internal/errors"
	"github.com/PolarWolf314/vault-nacl/internal/vault"
)

// RekeyOptions configures the rekey workflow.
type RekeyOptions struct {
	DocumentOptions

	// Password opens the existing spans.
	Password string

	// NewPassword seals every span after the run.
	NewPassword string

	// NewVault selects the digest and iterations for the resealed spans.
	NewVault vault.Config

	// SplitLines wraps spans that were not wrapped before.
	SplitLines bool
}

// RekeyResult contains the outcome of a rekey operation.
type RekeyResult struct {
	Files []FileResult

	// Spans counts existing spans resealed plus pending spans sealed.
	Spans int

	// Content holds the document read from stdin when no Output was given.
	Content []byte

	Digest     string
	Iterations uint32
}

// Rekey moves every span in the selected documents to NewPassword. Existing
// spans keep their line wrapping. Files are rewritten in place unless
// Output is set.
//
// Returns ErrNoPassword if either password is empty.
// Returns ErrDecryptFailed (wrapped with the file and value path) if
// Password does not open an existing span; nothing is written in that case.
func Rekey(ctx context.Context, opts RekeyOptions) (result *RekeyResult, err error) {
	entry := audit.NewEntry("rekey")
	defer func() { record(entry, err) }()

	if opts.Password == "" {
		return nil, fmt.Errorf("rekey: current password: %w", verrors.ErrNoPassword)
	}
	if opts.NewPassword == "" {
		return nil, fmt.Errorf("rekey: new password: %w", verrors.ErrNoPassword)
	}
	if _, err := vault.ParseDigest(opts.NewVault.Digest); err != nil {
		return nil, err
	}

	sources, err := opts.load()
	if err != nil {
		return nil, err
	}

	current := vault.New(opts.Password, vault.Config{})
	defer current.Clear()
	target := vault.New(opts.NewPassword, opts.NewVault)
	defer target.Clear()
	e := opts.engine(current, opts.SplitLines)

	result = &RekeyResult{Digest: target.Digest(), Iterations: target.Iterations()}
	entry.Digest = result.Digest
	entry.Iterations = result.Iterations

	var rewrites []rewrite

	// Every file is rekeyed before any is written, so a wrong password
	// leaves all of them untouched.
	for _, src := range sources {
		format, doc, err := opts.decode(src)
		if err != nil {
			return nil, err
		}

		spans := e.Count(doc).Total()
		out, err := e.Rekey(ctx, doc, target)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.label(), err)
		}

		fr := FileResult{Path: src.path, Spans: spans}
		if spans > 0 || src.path == "" || opts.Output != "" {
			data, err := document.Encode(out, format)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", src.label(), err)
			}
			if dest := opts.destination(src, true); dest != "" {
				rewrites = append(rewrites, rewrite{dest: dest, data: data})
				fr.Output = dest
			} else {
				result.Content = data
			}
		}

		opts.Logger.Infof("Rekeyed %d span(s) in %s", spans, src.label())
		result.Files = append(result.Files, fr)
		result.Spans += spans
	}

	if err := writeAll(rewrites); err != nil {
		return nil, err
	}

	entry.Files = paths(result.Files)
	entry.Spans = result.Spans
	return result, nil
}
