// Package marker finds and rewrites marker delimited secret spans in text.
//
// Two span forms exist, both starting at a word boundary:
//
//	VAULT_NACL(<base64 envelope>)              already encrypted
//	VAULT_NACL(<plaintext>)VAULT_NACL          waiting to be encrypted
//
// The doubled marker of the second form is what tells them apart, so an
// encrypted span is never followed directly by the marker and a pending span
// is never followed by a stray ")".
package marker

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	verrors "github.com/PolarWolf314/vault-nacl/internal/errors"
)

// DefaultName is the marker used by documents unless configured otherwise.
const DefaultName = "VAULT_NACL"

// WrapWidth is the column at which split envelopes are broken.
const WrapWidth = 80

var validName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Span is one marker delimited region of a string.
// s[Start:End] is the whole span including markers.
type Span struct {
	Start   int
	End     int
	Payload string
}

// Protocol matches spans for one marker name. It is immutable and safe for
// concurrent use.
type Protocol struct {
	name    string
	open    string
	closing string
	decrypt *regexp.Regexp
}

// Default is the Protocol for DefaultName.
var Default = MustNew(DefaultName)

// New builds the Protocol for a marker name made of word characters.
func New(name string) (*Protocol, error) {
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", verrors.ErrInvalidMarker, name)
	}
	q := regexp.QuoteMeta(name)
	return &Protocol{
		name:    name,
		open:    name + "(",
		closing: ")" + name,
		// The envelope alphabet plus whitespace for line wrapped payloads.
		decrypt: regexp.MustCompile(q + `\(([A-Za-z0-9/+\s]{37,}[=\s]{0,5})\)`),
	}, nil
}

// MustNew is New that panics on an invalid name.
func MustNew(name string) *Protocol {
	p, err := New(name)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the marker name.
func (p *Protocol) Name() string { return p.name }

// FindDecrypt returns the first encrypted span starting at or after from.
func (p *Protocol) FindDecrypt(s string, from int) (Span, bool) {
	for from <= len(s) {
		loc := p.decrypt.FindStringSubmatchIndex(s[from:])
		if loc == nil {
			return Span{}, false
		}
		start, end := from+loc[0], from+loc[1]
		if p.atBoundary(s, start) && !strings.HasPrefix(s[end:], p.name) {
			return Span{Start: start, End: end, Payload: s[from+loc[2] : from+loc[3]]}, true
		}
		from = start + 1
	}
	return Span{}, false
}

// FindEncrypt returns the first pending span starting at or after from. The
// payload runs to the first close-paren not escaped as "\)", which must be
// followed by the marker and not by a further ")".
func (p *Protocol) FindEncrypt(s string, from int) (Span, bool) {
	for from <= len(s) {
		i := strings.Index(s[from:], p.open)
		if i < 0 {
			return Span{}, false
		}
		start := from + i
		if p.atBoundary(s, start) {
			if end, payload, ok := p.closeEncrypt(s, start+len(p.open)); ok {
				return Span{Start: start, End: end, Payload: payload}, true
			}
		}
		from = start + 1
	}
	return Span{}, false
}

func (p *Protocol) closeEncrypt(s string, body int) (end int, payload string, ok bool) {
	c := body
	for c < len(s) {
		if s[c] == '\\' && c+1 < len(s) && s[c+1] == ')' {
			c += 2
			continue
		}
		if s[c] == ')' {
			break
		}
		c++
	}
	if c == body || !strings.HasPrefix(s[c:], p.closing) {
		return 0, "", false
	}
	end = c + len(p.closing)
	if strings.HasPrefix(s[end:], ")") {
		return 0, "", false
	}
	return end, unescapeParen(s[body:c]), true
}

func unescapeParen(s string) string {
	return strings.ReplaceAll(s, `\)`, ")")
}

// atBoundary mirrors \b in front of the marker.
func (p *Protocol) atBoundary(s string, i int) bool {
	if i == 0 {
		return true
	}
	return !isWordByte(s[i-1]) || !isWordByte(p.name[0])
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// Contains reports whether s holds a span of either form.
func (p *Protocol) Contains(s string) bool {
	if _, ok := p.FindDecrypt(s, 0); ok {
		return true
	}
	_, ok := p.FindEncrypt(s, 0)
	return ok
}

// CountDecrypt returns the number of encrypted spans in s.
func (p *Protocol) CountDecrypt(s string) int {
	return count(s, p.FindDecrypt)
}

// CountEncrypt returns the number of pending spans in s.
func (p *Protocol) CountEncrypt(s string) int {
	return count(s, p.FindEncrypt)
}

func count(s string, find func(string, int) (Span, bool)) int {
	n := 0
	for pos := 0; ; n++ {
		span, ok := find(s, pos)
		if !ok {
			return n
		}
		pos = span.End
	}
}

// ReplaceFunc produces the replacement for one span payload.
type ReplaceFunc func(payload string) (string, error)

// ReplaceDecrypt replaces every encrypted span, left to right.
func (p *Protocol) ReplaceDecrypt(s string, fn ReplaceFunc) (string, error) {
	return replace(s, p.FindDecrypt, fn)
}

// ReplaceEncrypt replaces every pending span, left to right.
func (p *Protocol) ReplaceEncrypt(s string, fn ReplaceFunc) (string, error) {
	return replace(s, p.FindEncrypt, fn)
}

func replace(s string, find func(string, int) (Span, bool), fn ReplaceFunc) (string, error) {
	var b strings.Builder
	pos := 0
	for {
		span, ok := find(s, pos)
		if !ok {
			break
		}
		out, err := fn(span.Payload)
		if err != nil {
			return "", err
		}
		b.WriteString(s[pos:span.Start])
		b.WriteString(out)
		pos = span.End
	}
	if pos == 0 {
		return s, nil
	}
	b.WriteString(s[pos:])
	return b.String(), nil
}

// Wrap puts an envelope between markers. When split is set the envelope is
// broken at WrapWidth and the markers get their own lines.
func (p *Protocol) Wrap(envelope string, split bool) string {
	if split {
		return p.open + "\n" + SplitLines(envelope, WrapWidth) + "\n)"
	}
	return p.open + envelope + ")"
}

// Pending wraps plaintext as a span waiting to be encrypted, escaping any
// close-paren it contains.
func (p *Protocol) Pending(plaintext string) string {
	return p.open + strings.ReplaceAll(plaintext, ")", `\)`) + p.closing
}

// SplitLines breaks s into lines of at most width bytes.
func SplitLines(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	var b strings.Builder
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteByte('\n')
		s = s[width:]
	}
	b.WriteString(s)
	return b.String()
}

// StripWhitespace removes all whitespace, undoing SplitLines.
func StripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// HasWhitespace reports whether s contains any whitespace.
func HasWhitespace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
