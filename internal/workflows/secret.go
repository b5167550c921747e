package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/PolarWolf314/vault-nacl/internal/audit"
	"github.com/PolarWolf314/vault-nacl/internal/engine"
	verrors "github.com/PolarWolf314/vault-nacl/internal/errors"
	"github.com/PolarWolf314/vault-nacl/internal/marker"
	"github.com/PolarWolf314/vault-nacl/internal/vault"
)

// EncryptSecretOptions configures the single secret workflow.
type EncryptSecretOptions struct {
	Password string
	Vault    vault.Config

	// Secret is sealed as is; it may contain any character.
	Secret string

	SplitLines bool
	Marker     *marker.Protocol
}

// EncryptSecret seals one value and returns it as a span ready to paste
// into a document.
func EncryptSecret(ctx context.Context, opts EncryptSecretOptions) (span string, err error) {
	entry := audit.NewEntry("encrypt-secret")
	defer func() { record(entry, err) }()

	if opts.Password == "" {
		return "", fmt.Errorf("encrypt: %w", verrors.ErrNoPassword)
	}
	if opts.Secret == "" {
		return "", errors.New("nothing to encrypt: the secret is empty")
	}

	v := vault.New(opts.Password, opts.Vault)
	defer v.Clear()
	entry.Digest = v.Digest()
	entry.Iterations = v.Iterations()

	e := engine.New(v, engine.WithMarker(opts.Marker))
	span, err = e.EncryptString(ctx, opts.Secret, opts.SplitLines)
	if err != nil {
		return "", err
	}

	entry.Spans = 1
	return span, nil
}
