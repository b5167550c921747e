package document

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/PolarWolf314/vault-nacl/internal/value"
)

// encMode writes deterministic CBOR so rewritten files only change where
// spans changed.
var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

func decodeCBOR(data []byte) (value.Value, error) {
	var doc any
	if err := cbor.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode cbor: %w", err)
	}
	return value.FromAny(doc), nil
}

func encodeCBOR(v value.Value) ([]byte, error) {
	if err := checkAcyclic(v, cycleGuard{}); err != nil {
		return nil, fmt.Errorf("failed to encode cbor: %w", err)
	}
	data, err := encMode.Marshal(value.ToAny(v))
	if err != nil {
		return nil, fmt.Errorf("failed to encode cbor: %w", err)
	}
	return data, nil
}
