package vault

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"sync"

	verrors "github.com/PolarWolf314/vault-nacl/internal/errors"
	"github.com/awnumar/memguard"
	"golang.org/x/crypto/nacl/secretbox"
)

// Config selects the key derivation used for new envelopes. Zero values
// select DefaultDigest and DefaultIterations.
type Config struct {
	Digest     string `toml:"digest"`
	Iterations uint32 `toml:"iterations"`
}

// Vault encrypts and decrypts envelopes under a single password.
// A Vault is safe for concurrent use.
type Vault struct {
	mu      sync.RWMutex
	enclave *memguard.Enclave

	digest     string
	iterations uint32
}

// New creates a Vault. An unsupported digest name is reported by Encrypt,
// not here. An empty password behaves like a cleared one.
func New(password string, cfg Config) *Vault {
	digest := cfg.Digest
	if digest == "" {
		digest = DefaultDigest.String()
	}

	iterations := cfg.Iterations
	if iterations == 0 {
		d, err := ParseDigest(digest)
		if err != nil {
			d = DefaultDigest
		}
		iterations = DefaultIterations(d)
	}

	v := &Vault{digest: digest, iterations: iterations}
	if password != "" {
		// NewEnclave wipes the copy it is given.
		v.enclave = memguard.NewEnclave([]byte(password))
	}
	return v
}

// Digest returns the digest name used for new envelopes.
func (v *Vault) Digest() string { return v.digest }

// Iterations returns the PBKDF2 cost used for new envelopes.
func (v *Vault) Iterations() uint32 { return v.iterations }

// String never includes the password.
func (v *Vault) String() string {
	return fmt.Sprintf("Vault(%s, %d iterations)", v.digest, v.iterations)
}

// Clear drops the vault's reference to the sealed password, after which
// Encrypt and Decrypt report ErrNoPassword. The enclave's ciphertext stays
// on the heap until it is collected; memguard.Purge wipes the key that
// decrypts it. It is safe to call more than once.
func (v *Vault) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.enclave = nil
}

// Cleared reports whether the vault can no longer derive keys.
func (v *Vault) Cleared() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.enclave == nil
}

// Encrypt seals plaintext into a new envelope, blocking during key derivation.
func (v *Vault) Encrypt(plaintext []byte) (string, error) {
	return v.seal(plaintext, v.derive)
}

// EncryptContext is Encrypt with key derivation running on its own
// goroutine; it returns ctx.Err() as soon as ctx is done.
func (v *Vault) EncryptContext(ctx context.Context, plaintext []byte) (string, error) {
	return v.seal(plaintext, func(p Params) (Secret, error) {
		return v.deriveContext(ctx, p)
	})
}

// Decrypt opens an envelope, blocking during key derivation.
func (v *Vault) Decrypt(envelope string) ([]byte, error) {
	return v.open(envelope, v.derive)
}

// DecryptContext is Decrypt with key derivation running on its own
// goroutine; it returns ctx.Err() as soon as ctx is done.
func (v *Vault) DecryptContext(ctx context.Context, envelope string) ([]byte, error) {
	return v.open(envelope, func(p Params) (Secret, error) {
		return v.deriveContext(ctx, p)
	})
}

type deriveFunc func(Params) (Secret, error)

func (v *Vault) seal(plaintext []byte, derive deriveFunc) (string, error) {
	digest, err := ParseDigest(v.digest)
	if err != nil {
		return "", err
	}
	if err := CheckIterations(v.iterations); err != nil {
		return "", err
	}

	p := Params{Digest: digest, Iterations: v.iterations}
	if _, err := io.ReadFull(rand.Reader, p.Salt[:]); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	secret, err := derive(p)
	if err != nil {
		return "", err
	}
	defer secret.Wipe()

	env := Envelope{
		Version:    Version,
		Digest:     digest,
		Iterations: p.Iterations,
		Salt:       p.Salt,
		Box:        secretbox.Seal(nil, plaintext, &secret.Nonce, &secret.Key),
	}
	return env.String(), nil
}

func (v *Vault) open(envelope string, derive deriveFunc) ([]byte, error) {
	env, err := ParseEnvelope(envelope)
	if err != nil {
		return nil, err
	}

	secret, err := derive(env.Params())
	if err != nil {
		return nil, err
	}
	defer secret.Wipe()

	plaintext, ok := secretbox.Open(nil, env.Box, &secret.Nonce, &secret.Key)
	if !ok {
		return nil, verrors.ErrDecryptFailed
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

func (v *Vault) derive(p Params) (Secret, error) {
	v.mu.RLock()
	enclave := v.enclave
	v.mu.RUnlock()

	if enclave == nil {
		return Secret{}, verrors.ErrNoPassword
	}
	if _, err := p.Digest.hashFunc(); err != nil {
		return Secret{}, err
	}

	password, err := enclave.Open()
	if err != nil {
		return Secret{}, fmt.Errorf("%w: %v", verrors.ErrNoPassword, err)
	}
	defer password.Destroy()

	return DeriveSecret(password.Bytes(), p)
}

func (v *Vault) deriveContext(ctx context.Context, p Params) (Secret, error) {
	if err := ctx.Err(); err != nil {
		return Secret{}, err
	}

	type result struct {
		secret Secret
		err    error
	}
	done := make(chan result, 1)
	go func() {
		s, err := v.derive(p)
		done <- result{s, err}
	}()

	select {
	case <-ctx.Done():
		// The derivation finishes in the background; wipe its output when it does.
		go func() {
			r := <-done
			r.secret.Wipe()
		}()
		return Secret{}, ctx.Err()
	case r := <-done:
		return r.secret, r.err
	}
}
