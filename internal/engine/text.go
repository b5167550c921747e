package engine

import (
	"context"

	"github.com/PolarWolf314/vault-nacl/internal/value"
	"github.com/PolarWolf314/vault-nacl/internal/vault"
)

// DecryptText is Decrypt for a single string.
func (e *Engine) DecryptText(ctx context.Context, s string) (string, error) {
	return e.textCall(s, func(v value.Value) (value.Value, error) { return e.Decrypt(ctx, v) })
}

// EncryptText is Encrypt for a single string.
func (e *Engine) EncryptText(ctx context.Context, s string) (string, error) {
	return e.textCall(s, func(v value.Value) (value.Value, error) { return e.Encrypt(ctx, v) })
}

// RekeyText is Rekey for a single string.
func (e *Engine) RekeyText(ctx context.Context, s string, newVault *vault.Vault) (string, error) {
	return e.textCall(s, func(v value.Value) (value.Value, error) { return e.Rekey(ctx, v, newVault) })
}

// CheckText is Check for a single string.
func (e *Engine) CheckText(s string) bool {
	return e.Check(value.Text(s))
}

func (e *Engine) textCall(s string, fn func(value.Value) (value.Value, error)) (string, error) {
	out, err := fn(value.Text(s))
	if err != nil {
		return "", err
	}
	return string(out.(value.Text)), nil
}

// DecryptAny converts x with value.FromAny, decrypts it and converts back.
func (e *Engine) DecryptAny(ctx context.Context, x any) (any, error) {
	return anyCall(x, func(v value.Value) (value.Value, error) { return e.Decrypt(ctx, v) })
}

// EncryptAny is the value.FromAny form of Encrypt.
func (e *Engine) EncryptAny(ctx context.Context, x any) (any, error) {
	return anyCall(x, func(v value.Value) (value.Value, error) { return e.Encrypt(ctx, v) })
}

// RekeyAny is the value.FromAny form of Rekey.
func (e *Engine) RekeyAny(ctx context.Context, x any, newVault *vault.Vault) (any, error) {
	return anyCall(x, func(v value.Value) (value.Value, error) { return e.Rekey(ctx, v, newVault) })
}

// CheckAny is the value.FromAny form of Check.
func (e *Engine) CheckAny(x any) bool {
	return e.Check(value.FromAny(x))
}

func anyCall(x any, fn func(value.Value) (value.Value, error)) (any, error) {
	out, err := fn(value.FromAny(x))
	if err != nil {
		return nil, err
	}
	return value.ToAny(out), nil
}
