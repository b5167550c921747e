package ui

import (
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFormatterWithColor(t *testing.T) {
	os.Unsetenv("NO_COLOR")
	oldNoColor := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = oldNoColor }()

	result := Code.Sprint("vault-nacl encrypt")
	if strings.Contains(result, "`") {
		t.Errorf("Code.Sprint should not contain backticks when color is enabled, got: %s", result)
	}

	if !strings.Contains(result, "\x1b[") {
		t.Errorf("Code.Sprint should contain ANSI escape codes when color is enabled, got: %s", result)
	}
}

func TestFormatterWithNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name      string
		formatter Formatter
		input     string
		want      string
	}{
		{"Code adds backticks", Code, "vault-nacl decrypt", "`vault-nacl decrypt`"},
		{"Path has no decoration", Path, "config/app.yaml", "config/app.yaml"},
		{"Flag has no decoration", Flag, "--password-file", "--password-file"},
		{"Success has no decoration", Success, "✓", "✓"},
		{"Error has no decoration", Error, "✗", "✗"},
		{"Warning has no decoration", Warning, "⚠", "⚠"},
		{"Info has no decoration", Info, "→", "→"},
		{"Highlight adds quotes", Highlight, "sha512", "'sha512'"},
		{"Secret adds angle brackets", Secret, "VAULT_NACL(AQAQ)", "<VAULT_NACL(AQAQ)>"},
		{"Muted adds parentheses", Muted, "2 spans", "(2 spans)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.formatter.Sprint(tt.input)
			if got != tt.want {
				t.Errorf("%s.Sprint(%q) = %q, want %q", tt.name, tt.input, got, tt.want)
			}
		})
	}
}

func TestSprintf(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	got := Highlight.Sprintf("%s/%d", "sha256", 310000)
	if got != "'sha256/310000'" {
		t.Errorf("Highlight.Sprintf = %q", got)
	}
}

func TestEnsureNewline(t *testing.T) {
	tests := map[string]string{
		"":       "\n",
		"a":      "a\n",
		"a\n":    "a\n",
		"a\nb\n": "a\nb\n",
	}
	for in, want := range tests {
		if got := EnsureNewline(in); got != want {
			t.Errorf("EnsureNewline(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 spans"},
		{1, "1 span"},
		{2, "2 spans"},
	}
	for _, tt := range tests {
		if got := Plural(tt.n, "span"); got != tt.want {
			t.Errorf("Plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestAbbreviate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"VAULT_NACL(AQAQJwAA)", 12, "VAULT_NACL(…"},
		{"äöüß", 3, "äö…"},
		{"abc", 1, "…"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := Abbreviate(tt.in, tt.max); got != tt.want {
			t.Errorf("Abbreviate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
