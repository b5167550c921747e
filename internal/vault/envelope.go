package vault

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"

	verrors "github.com/PolarWolf314/vault-nacl/internal/errors"
	"golang.org/x/crypto/nacl/secretbox"
)

// Version is the newest envelope format this package reads and the one it writes.
const Version = 1

// HeaderSize is the number of bytes in front of the secretbox output.
const HeaderSize = 1 + 1 + 4 + SaltSize

// Envelope is the decoded binary form of an encrypted secret.
type Envelope struct {
	Version    uint8
	Digest     Digest
	Iterations uint32
	Salt       [SaltSize]byte
	Box        []byte
}

// Params returns the key derivation inputs stored in the envelope.
func (e *Envelope) Params() Params {
	return Params{Digest: e.Digest, Iterations: e.Iterations, Salt: e.Salt}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (e *Envelope) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize, HeaderSize+len(e.Box))
	buf[0] = e.Version
	buf[1] = byte(e.Digest)
	binary.LittleEndian.PutUint32(buf[2:6], e.Iterations)
	copy(buf[6:HeaderSize], e.Salt[:])
	return append(buf, e.Box...), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The version is
// checked first, then the digest id, then the length, then the iteration
// count against MaxIterations.
func (e *Envelope) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return verrors.ErrDecryptFailed
	}
	if data[0] > Version {
		return fmt.Errorf("%w %d", verrors.ErrUnsupportedVersion, data[0])
	}
	if len(data) < 2 {
		return verrors.ErrDecryptFailed
	}
	digest, err := DigestFromID(data[1])
	if err != nil {
		return err
	}
	if len(data) < HeaderSize+secretbox.Overhead {
		return verrors.ErrDecryptFailed
	}

	iterations := binary.LittleEndian.Uint32(data[2:6])
	if err := CheckIterations(iterations); err != nil {
		return err
	}

	e.Version = data[0]
	e.Digest = digest
	e.Iterations = iterations
	copy(e.Salt[:], data[6:HeaderSize])
	e.Box = append([]byte(nil), data[HeaderSize:]...)
	return nil
}

// String returns the base64 text form used inside documents.
func (e *Envelope) String() string {
	b, _ := e.MarshalBinary()
	return base64.StdEncoding.EncodeToString(b)
}

// ParseEnvelope decodes the base64 text form. Missing padding is tolerated.
func ParseEnvelope(text string) (*Envelope, error) {
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(text, "="))
		if err != nil {
			return nil, verrors.ErrDecryptFailed
		}
	}

	var e Envelope
	if err := e.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return &e, nil
}
