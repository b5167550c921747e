package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/PolarWolf314/vault-nacl/internal/value"
)

func decodeJSON(data []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readJSON(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode json: unexpected data after document")
	}
	return v, nil
}

// readJSON reads one value from the token stream, keeping object key order.
func readJSON(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := value.NewMapping()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := kt.(string)
				child, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			seq := value.NewSequence()
			for dec.More() {
				child, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				seq.Items = append(seq.Items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return seq, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return value.Text(t), nil
	default:
		return value.Scalar{V: t}, nil
	}
}

func encodeJSON(v value.Value) ([]byte, error) {
	var compact bytes.Buffer
	if err := writeJSON(&compact, v, cycleGuard{}); err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v value.Value, guard cycleGuard) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case value.Text:
		return writeJSONLeaf(buf, string(t))
	case value.Scalar:
		return writeJSONLeaf(buf, t.V)
	case *value.Sequence:
		if err := guard.enter(t); err != nil {
			return err
		}
		defer guard.leave(t)
		buf.WriteByte('[')
		for i, item := range t.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item, guard); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *value.Mapping:
		if err := guard.enter(t); err != nil {
			return err
		}
		defer guard.leave(t)
		buf.WriteByte('{')
		for i, k := range t.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONLeaf(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			child, _ := t.Get(k)
			if err := writeJSON(buf, child, guard); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeJSONLeaf(buf *bytes.Buffer, x any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(x); err != nil {
		return err
	}
	// Encoder terminates each value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
