package document

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/PolarWolf314/vault-nacl/internal/value"
)

// TOML tables come back with sorted keys; the toml decoder does not expose
// the order of nested tables.
func decodeTOML(data []byte) (value.Value, error) {
	var doc map[string]any
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode toml: %w", err)
	}
	return value.FromAny(doc), nil
}

func encodeTOML(v value.Value) ([]byte, error) {
	if _, ok := v.(*value.Mapping); !ok {
		return nil, fmt.Errorf("failed to encode toml: top level must be a table, got %T", v)
	}
	if err := checkAcyclic(v, cycleGuard{}); err != nil {
		return nil, fmt.Errorf("failed to encode toml: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(value.ToAny(v)); err != nil {
		return nil, fmt.Errorf("failed to encode toml: %w", err)
	}
	return buf.Bytes(), nil
}

// checkAcyclic rejects values that contain themselves before they reach an
// encoder that would recurse forever.
func checkAcyclic(v value.Value, guard cycleGuard) error {
	switch t := v.(type) {
	case *value.Sequence:
		if err := guard.enter(t); err != nil {
			return err
		}
		defer guard.leave(t)
		for _, item := range t.Items {
			if err := checkAcyclic(item, guard); err != nil {
				return err
			}
		}
	case *value.Mapping:
		if err := guard.enter(t); err != nil {
			return err
		}
		defer guard.leave(t)
		for _, k := range t.Keys() {
			child, _ := t.Get(k)
			if err := checkAcyclic(child, guard); err != nil {
				return err
			}
		}
	}
	return nil
}
