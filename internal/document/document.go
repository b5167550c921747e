package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	verrors "github.com/PolarWolf314/vault-nacl/internal/errors"
	"github.com/PolarWolf314/vault-nacl/internal/value"
)

// Format is a document encoding.
type Format string

const (
	Auto Format = "auto"
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
	CBOR Format = "cbor"
)

// Formats lists the names accepted by ParseFormat.
func Formats() []string {
	return []string{string(Auto), string(Text), string(JSON), string(YAML), string(TOML), string(CBOR)}
}

// ParseFormat maps a user supplied name to a Format. The empty name is Text.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return Text, nil
	case "yml":
		return YAML, nil
	case Auto, Text, JSON, YAML, TOML, CBOR:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", verrors.ErrUnsupportedFormat, name)
	}
}

// Detect picks a format from a file extension, falling back to Text.
func Detect(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON
	case ".yaml", ".yml":
		return YAML
	case ".toml":
		return TOML
	case ".cbor":
		return CBOR
	default:
		return Text
	}
}

// Resolve turns Auto into the format detected for path.
func (f Format) Resolve(path string) Format {
	if f == Auto {
		return Detect(path)
	}
	return f
}

// Decode parses data in format f.
func Decode(data []byte, f Format) (value.Value, error) {
	switch f {
	case Text, "":
		return value.Text(data), nil
	case JSON:
		return decodeJSON(data)
	case YAML:
		return decodeYAML(data)
	case TOML:
		return decodeTOML(data)
	case CBOR:
		return decodeCBOR(data)
	default:
		return nil, fmt.Errorf("%w: %q", verrors.ErrUnsupportedFormat, f)
	}
}

// Encode serialises v in format f.
func Encode(v value.Value, f Format) ([]byte, error) {
	switch f {
	case Text, "":
		t, ok := v.(value.Text)
		if !ok {
			return nil, fmt.Errorf("text document: %w", verrors.ErrStringExpected)
		}
		return []byte(t), nil
	case JSON:
		return encodeJSON(v)
	case YAML:
		return encodeYAML(v)
	case TOML:
		return encodeTOML(v)
	case CBOR:
		return encodeCBOR(v)
	default:
		return nil, fmt.Errorf("%w: %q", verrors.ErrUnsupportedFormat, f)
	}
}

// cycleGuard tracks the containers on the current encoding path.
type cycleGuard map[value.Value]struct{}

func (g cycleGuard) enter(v value.Value) error {
	if _, ok := g[v]; ok {
		return errCycle
	}
	g[v] = struct{}{}
	return nil
}

func (g cycleGuard) leave(v value.Value) { delete(g, v) }

var errCycle = errors.New("document contains a reference to itself")
