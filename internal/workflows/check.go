package workflows

import (
	"context"

	"github.com/PolarWolf314/vault-nacl/internal/audit"
	"github.com/PolarWolf314/vault-nacl/internal/vault"
)

// CheckOptions configures the check workflow.
type CheckOptions struct {
	DocumentOptions

	// Quick stops counting at the first span.
	Quick bool
}

// CheckFile reports the spans found in one document.
type CheckFile struct {
	Path    string
	Sealed  int
	Pending int
}

// CheckResult contains the outcome of a check operation.
type CheckResult struct {
	Files []CheckFile

	// Found is true when any document holds a span of either kind.
	Found bool

	Sealed  int
	Pending int
}

// Check reports which documents hold spans. It needs no password and
// modifies nothing.
func Check(ctx context.Context, opts CheckOptions) (result *CheckResult, err error) {
	entry := audit.NewEntry("check")
	defer func() { record(entry, err) }()

	sources, err := opts.load()
	if err != nil {
		return nil, err
	}

	e := opts.engine(vault.New("", vault.Config{}), false)

	result = &CheckResult{}
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		_, doc, err := opts.decode(src)
		if err != nil {
			return nil, err
		}

		if opts.Quick {
			if e.Check(doc) {
				result.Found = true
				result.Files = append(result.Files, CheckFile{Path: src.path})
				break
			}
			continue
		}

		counts := e.Count(doc)
		result.Files = append(result.Files, CheckFile{
			Path:    src.path,
			Sealed:  counts.Sealed,
			Pending: counts.Pending,
		})
		result.Sealed += counts.Sealed
		result.Pending += counts.Pending
	}

	if !opts.Quick {
		result.Found = result.Sealed+result.Pending > 0
	}

	for _, f := range result.Files {
		if f.Path != "" {
			entry.Files = append(entry.Files, f.Path)
		}
	}
	entry.Spans = result.Sealed + result.Pending
	return result, nil
}
