package workflows

import (
	"fmt"
	"io"
	"os"

	"github.com/PolarWolf314/vault-nacl/internal/audit"
	"github.com/PolarWolf314/vault-nacl/internal/document"
	"github.com/PolarWolf314/vault-nacl/internal/engine"
	verrors "github.com/PolarWolf314/vault-nacl/internal/errors"
	logger "github.com/PolarWolf314/vault-nacl/internal/logging"
	"github.com/PolarWolf314/vault-nacl/internal/marker"
	"github.com/PolarWolf314/vault-nacl/internal/utils"
	"github.com/PolarWolf314/vault-nacl/internal/value"
	"github.com/PolarWolf314/vault-nacl/internal/vault"
)

// DocumentOptions selects the documents a workflow reads and where the
// results go.
type DocumentOptions struct {
	// FilePatterns lists files, directories or ** globs. If empty, the
	// document is read from Stdin.
	FilePatterns []string

	// BaseDir resolves relative patterns. Defaults to the working directory.
	BaseDir string

	// Stdin replaces os.Stdin when set.
	Stdin io.Reader

	// Output writes the result to this path. Only valid with a single input.
	Output string

	// Format of the documents. Auto picks one per file extension.
	Format document.Format

	// Marker defaults to marker.Default.
	Marker *marker.Protocol

	Logger logger.Logger
}

// FileResult describes one processed document.
type FileResult struct {
	// Path is the input file, empty for stdin.
	Path string

	// Output is the file written, empty when the result was returned as content.
	Output string

	// Spans is the number of spans the operation acted on.
	Spans int
}

type source struct {
	path string
	data []byte
}

func (s source) label() string {
	if s.path == "" {
		return "<stdin>"
	}
	return s.path
}

func (o DocumentOptions) load() ([]source, error) {
	baseDir := o.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	files, err := utils.ResolveFiles(o.FilePatterns, baseDir)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		var data []byte
		if o.Stdin != nil {
			data, err = utils.ReadAll(o.Stdin)
		} else {
			data, err = utils.ReadStdin()
		}
		if err != nil {
			return nil, err
		}
		return []source{{data: data}}, nil
	}

	if o.Output != "" && len(files) > 1 {
		return nil, verrors.ErrOutputNeedsSingleInput
	}

	sources := make([]source, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		sources = append(sources, source{path: f, data: data})
	}
	return sources, nil
}

func (o DocumentOptions) format(src source) document.Format {
	f := o.Format
	if f == "" {
		f = document.Text
	}
	if src.path == "" && f == document.Auto {
		return document.Auto.Resolve(o.Output)
	}
	return f.Resolve(src.path)
}

func (o DocumentOptions) decode(src source) (document.Format, value.Value, error) {
	f := o.format(src)
	v, err := document.Decode(src.data, f)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", src.label(), err)
	}
	return f, v, nil
}

func (o DocumentOptions) engine(v *vault.Vault, split bool) *engine.Engine {
	return engine.New(v,
		engine.WithMarker(o.Marker),
		engine.WithSplitLines(split),
		engine.WithLogger(o.Logger),
	)
}

// destination returns where the result for src is written, or "" when it
// is returned as content.
func (o DocumentOptions) destination(src source, inPlace bool) string {
	if o.Output != "" {
		return o.Output
	}
	if inPlace {
		return src.path
	}
	return ""
}

func writeDocument(path string, data []byte) error {
	return utils.WriteFileAtomic(path, data, 0600)
}

// rewrite is a document held back until every input has been processed.
type rewrite struct {
	dest string
	data []byte
}

func writeAll(rewrites []rewrite) error {
	for _, r := range rewrites {
		if err := writeDocument(r.dest, r.data); err != nil {
			return err
		}
	}
	return nil
}

func paths(files []FileResult) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if f.Path != "" {
			out = append(out, f.Path)
		}
	}
	return out
}

// record writes entry to the audit trail, noting err if the run failed.
func record(entry audit.Entry, err error) {
	if err != nil {
		entry.Error = err.Error()
	}
	audit.Log(entry)
}
