package engine

import (
	"context"
	"errors"
	"strconv"
	"strings"

	verrors "github.com/PolarWolf314/vault-nacl/internal/errors"
	logger "github.com/PolarWolf314/vault-nacl/internal/logging"
	"github.com/PolarWolf314/vault-nacl/internal/marker"
	"github.com/PolarWolf314/vault-nacl/internal/value"
	"github.com/PolarWolf314/vault-nacl/internal/vault"
)

// MetaPrefix marks mapping keys reserved for tooling; they are never walked.
const MetaPrefix = "$vault-nacl:"

// Engine walks documents and delegates every span to a vault.
type Engine struct {
	vault  *vault.Vault
	marker *marker.Protocol
	split  bool
	log    logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMarker selects the marker protocol. The default is marker.Default.
func WithMarker(p *marker.Protocol) Option {
	return func(e *Engine) {
		if p != nil {
			e.marker = p
		}
	}
}

// WithSplitLines makes newly sealed spans line wrapped.
func WithSplitLines(split bool) Option {
	return func(e *Engine) { e.split = split }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New returns an Engine using v for every span.
func New(v *vault.Vault, opts ...Option) *Engine {
	e := &Engine{vault: v, marker: marker.Default}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewWithPassword is New with a fresh vault.
func NewWithPassword(password string, cfg vault.Config, opts ...Option) *Engine {
	return New(vault.New(password, cfg), opts...)
}

// Vault returns the engine's vault.
func (e *Engine) Vault() *vault.Vault { return e.vault }

// Marker returns the engine's marker protocol.
func (e *Engine) Marker() *marker.Protocol { return e.marker }

// Clear destroys the vault password. Later calls fail with ErrNoPassword.
func (e *Engine) Clear() {
	e.vault.Clear()
}

type mode int

const (
	modeDecrypt mode = iota
	modeEncrypt
	modeRekey
	modeCheck
	modeCount
)

func (m mode) String() string {
	switch m {
	case modeDecrypt:
		return "decrypt"
	case modeEncrypt:
		return "encrypt"
	case modeRekey:
		return "rekey"
	case modeCount:
		return "count"
	default:
		return "check"
	}
}

// Decrypt replaces every encrypted span in v with its plaintext.
func (e *Engine) Decrypt(ctx context.Context, v value.Value) (value.Value, error) {
	return e.run(ctx, v, modeDecrypt, nil, e.split)
}

// Encrypt seals every pending span in v.
func (e *Engine) Encrypt(ctx context.Context, v value.Value) (value.Value, error) {
	return e.run(ctx, v, modeEncrypt, nil, e.split)
}

// EncryptSplit is Encrypt with an explicit line wrapping choice.
func (e *Engine) EncryptSplit(ctx context.Context, v value.Value, split bool) (value.Value, error) {
	return e.run(ctx, v, modeEncrypt, nil, split)
}

// Rekey moves every span in v to newVault: existing spans are reencrypted
// first, then pending spans are sealed.
func (e *Engine) Rekey(ctx context.Context, v value.Value, newVault *vault.Vault) (value.Value, error) {
	if newVault == nil {
		return nil, verrors.ErrInvalidRekeyTarget
	}
	return e.run(ctx, v, modeRekey, newVault, e.split)
}

// RekeyWithPassword is Rekey with a new vault using default settings.
func (e *Engine) RekeyWithPassword(ctx context.Context, v value.Value, password string) (value.Value, error) {
	return e.Rekey(ctx, v, vault.New(password, vault.Config{}))
}

// Check reports whether v holds any span. It performs no cryptography and
// stops at the first hit.
func (e *Engine) Check(v value.Value) bool {
	w := e.newWalk(context.Background(), modeCheck, nil, false)
	_, _ = w.walk(v)
	return w.found
}

// Counts is the number of spans of each kind in a document.
type Counts struct {
	Sealed  int
	Pending int
}

// Total returns Sealed + Pending.
func (c Counts) Total() int { return c.Sealed + c.Pending }

// Count tallies the spans in v without touching it.
func (e *Engine) Count(v value.Value) Counts {
	w := e.newWalk(context.Background(), modeCount, nil, false)
	_, _ = w.walk(v)
	return w.counts
}

// EncryptString seals s as a single span.
func (e *Engine) EncryptString(ctx context.Context, s string, split bool) (string, error) {
	env, err := e.vault.EncryptContext(ctx, []byte(s))
	if err != nil {
		return "", err
	}
	return e.marker.Wrap(env, split), nil
}

// EncryptValueString is EncryptString for a value that must be Text.
func (e *Engine) EncryptValueString(ctx context.Context, v value.Value, split bool) (string, error) {
	t, ok := v.(value.Text)
	if !ok {
		return "", verrors.ErrStringExpected
	}
	return e.EncryptString(ctx, string(t), split)
}

func (e *Engine) run(ctx context.Context, v value.Value, m mode, newVault *vault.Vault, split bool) (value.Value, error) {
	e.log.Debugf("Starting %s traversal", m)
	w := e.newWalk(ctx, m, newVault, split)
	return w.walk(v)
}

func (e *Engine) newWalk(ctx context.Context, m mode, newVault *vault.Vault, split bool) *walk {
	return &walk{
		e:        e,
		ctx:      ctx,
		mode:     m,
		newVault: newVault,
		split:    split,
		visiting: make(map[value.Value]struct{}),
	}
}

// segment is one step of the path to the value being processed.
type segment struct {
	key   string
	index int
	isKey bool
}

// walk is the state of one traversal call.
type walk struct {
	e        *Engine
	ctx      context.Context
	mode     mode
	newVault *vault.Vault
	split    bool

	path     []segment
	visiting map[value.Value]struct{}
	found    bool
	counts   Counts
}

// readOnly reports whether the walk must leave the document untouched.
func (w *walk) readOnly() bool {
	return w.mode == modeCheck || w.mode == modeCount
}

func (w *walk) walk(v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case value.Text:
		out, err := w.text(string(t))
		if err != nil {
			return nil, w.fail(err)
		}
		return value.Text(out), nil

	case *value.Mapping:
		if _, ok := w.visiting[t]; ok {
			return t, nil
		}
		w.visiting[t] = struct{}{}
		defer delete(w.visiting, t)

		for _, k := range t.Keys() {
			if reserved(k) {
				continue
			}
			child, _ := t.Get(k)
			w.path = append(w.path, segment{key: k, isKey: true})
			out, err := w.walk(child)
			w.path = w.path[:len(w.path)-1]
			if err != nil {
				return nil, err
			}
			if w.readOnly() {
				if w.found {
					return t, nil
				}
				continue
			}
			t.Set(k, out)
		}
		return t, nil

	case *value.Sequence:
		if _, ok := w.visiting[t]; ok {
			return t, nil
		}
		w.visiting[t] = struct{}{}
		defer delete(w.visiting, t)

		var items []value.Value
		if !w.readOnly() {
			items = make([]value.Value, len(t.Items))
		}
		for i, item := range t.Items {
			w.path = append(w.path, segment{index: i})
			out, err := w.walk(item)
			w.path = w.path[:len(w.path)-1]
			if err != nil {
				return nil, err
			}
			if w.readOnly() {
				if w.found {
					return t, nil
				}
				continue
			}
			items[i] = out
		}
		if w.readOnly() {
			return t, nil
		}
		return &value.Sequence{Items: items}, nil

	default:
		return v, nil
	}
}

func reserved(key string) bool {
	return key == "__proto__" || strings.HasPrefix(key, MetaPrefix)
}

func (w *walk) text(s string) (string, error) {
	if err := w.ctx.Err(); err != nil {
		return "", err
	}

	switch w.mode {
	case modeCheck:
		if w.e.marker.Contains(s) {
			w.found = true
		}
		return s, nil
	case modeCount:
		w.counts.Sealed += w.e.marker.CountDecrypt(s)
		w.counts.Pending += w.e.marker.CountEncrypt(s)
		return s, nil
	case modeDecrypt:
		return w.e.marker.ReplaceDecrypt(s, w.open)
	default:
		return w.seal(s)
	}
}

func (w *walk) open(payload string) (string, error) {
	plaintext, err := w.e.vault.DecryptContext(w.ctx, marker.StripWhitespace(payload))
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// seal handles encrypt and rekey for one string. Existing spans are all
// opened before anything is sealed; a wrapped existing span makes every
// span sealed in this string wrapped too.
func (w *walk) seal(s string) (string, error) {
	split := w.split
	target := w.e.vault
	if w.mode == modeRekey {
		target = w.newVault
	}

	var plaintexts []string
	_, err := w.e.marker.ReplaceDecrypt(s, func(payload string) (string, error) {
		if marker.HasWhitespace(payload) {
			split = true
		}
		plaintext, err := w.open(payload)
		if err != nil {
			return "", err
		}
		plaintexts = append(plaintexts, plaintext)
		return "", nil
	})
	if err != nil {
		return "", err
	}

	if w.mode == modeRekey && len(plaintexts) > 0 {
		w.e.log.Debugf("Reencrypting %d existing span(s)", len(plaintexts))
		i := 0
		s, err = w.e.marker.ReplaceDecrypt(s, func(string) (string, error) {
			env, err := target.EncryptContext(w.ctx, []byte(plaintexts[i]))
			i++
			if err != nil {
				return "", err
			}
			return w.e.marker.Wrap(env, split), nil
		})
		if err != nil {
			return "", err
		}
	}

	return w.e.marker.ReplaceEncrypt(s, func(plaintext string) (string, error) {
		env, err := target.EncryptContext(w.ctx, []byte(plaintext))
		if err != nil {
			return "", err
		}
		return w.e.marker.Wrap(env, split), nil
	})
}

// fail adds the current path to authentication failures.
func (w *walk) fail(err error) error {
	if len(w.path) == 0 || !errors.Is(err, verrors.ErrDecryptFailed) {
		return err
	}
	var pe *verrors.PathError
	if errors.As(err, &pe) {
		return err
	}
	return &verrors.PathError{Path: formatPath(w.path), Err: err}
}

func formatPath(path []segment) string {
	var b strings.Builder
	for i, seg := range path {
		if !seg.isKey {
			b.WriteString("[" + strconv.Itoa(seg.index) + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.key)
	}
	return b.String()
}
