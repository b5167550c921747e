package vault

import (
	"fmt"

	verrors "github.com/PolarWolf314/vault-nacl/internal/errors"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize matches KeySize only for wire compatibility.
	SaltSize  = 32
	NonceSize = 24
	KeySize   = 32
)

// MaxIterations caps the PBKDF2 cost accepted from envelopes and configs.
const MaxIterations = 10_000_000

// CheckIterations rejects a cost above MaxIterations.
func CheckIterations(n uint32) error {
	if n > MaxIterations {
		return fmt.Errorf("%w: %d exceeds %d", verrors.ErrIterationsOutOfRange, n, MaxIterations)
	}
	return nil
}

// Params are the key derivation inputs carried by every envelope.
type Params struct {
	Digest     Digest
	Iterations uint32
	Salt       [SaltSize]byte
}

// Secret is the derived nonce and key pair.
type Secret struct {
	Nonce [NonceSize]byte
	Key   [KeySize]byte
}

// Wipe zeroes the secret.
func (s *Secret) Wipe() {
	for i := range s.Nonce {
		s.Nonce[i] = 0
	}
	for i := range s.Key {
		s.Key[i] = 0
	}
}

// DeriveSecret runs PBKDF2 and splits the output into nonce (first) and key.
func DeriveSecret(password []byte, p Params) (Secret, error) {
	h, err := p.Digest.hashFunc()
	if err != nil {
		return Secret{}, err
	}
	if err := CheckIterations(p.Iterations); err != nil {
		return Secret{}, err
	}

	dk := pbkdf2.Key(password, p.Salt[:], int(p.Iterations), NonceSize+KeySize, h)
	defer func() {
		for i := range dk {
			dk[i] = 0
		}
	}()

	var s Secret
	copy(s.Nonce[:], dk[:NonceSize])
	copy(s.Key[:], dk[NonceSize:])
	return s, nil
}
