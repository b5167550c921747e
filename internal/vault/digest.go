package vault

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	verrors "github.com/PolarWolf314/vault-nacl/internal/errors"
	"github.com/jzelinskie/whirlpool"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required for envelopes written with the ripemd digest
)

// Digest selects the PBKDF2 hash. Its numeric value is the wire digest id.
type Digest uint8

const (
	SHA256 Digest = iota
	SHA384
	SHA512
	RIPEMD
	Whirlpool
)

// DefaultDigest is used when no digest is configured.
const DefaultDigest = SHA256

var digestNames = [...]string{
	SHA256:    "sha256",
	SHA384:    "sha384",
	SHA512:    "sha512",
	RIPEMD:    "ripemd",
	Whirlpool: "whirlpool",
}

// Digests returns the supported digest names in wire id order.
func Digests() []string {
	return append([]string(nil), digestNames[:]...)
}

// ParseDigest maps a digest name to its Digest. An empty name selects DefaultDigest.
func ParseDigest(name string) (Digest, error) {
	if name == "" {
		return DefaultDigest, nil
	}
	for i, n := range digestNames {
		if n == name {
			return Digest(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", verrors.ErrUnsupportedDigest, name)
}

// DigestFromID maps a wire digest id to its Digest.
func DigestFromID(id byte) (Digest, error) {
	if int(id) >= len(digestNames) {
		return 0, fmt.Errorf("%w: id %d", verrors.ErrUnsupportedDigest, id)
	}
	return Digest(id), nil
}

func (d Digest) String() string {
	if int(d) < len(digestNames) {
		return digestNames[d]
	}
	return fmt.Sprintf("digest(%d)", uint8(d))
}

// DefaultIterations returns the PBKDF2 cost used when none is configured.
func DefaultIterations(d Digest) uint32 {
	if d == SHA512 {
		return 120000
	}
	return 310000
}

func (d Digest) hashFunc() (func() hash.Hash, error) {
	switch d {
	case SHA256:
		return sha256.New, nil
	case SHA384:
		return sha512.New384, nil
	case SHA512:
		return sha512.New, nil
	case RIPEMD:
		return ripemd160.New, nil
	case Whirlpool:
		return whirlpool.New, nil
	default:
		return nil, fmt.Errorf("%w: id %d", verrors.ErrUnsupportedDigest, uint8(d))
	}
}
