package workflows

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/vault-nacl/internal/audit"
	"github.com/PolarWolf314/vault-nacl/internal/document"
	verrors "github.com/PolarWolf314/vault-nacl/internal/errors"
	"github.com/PolarWolf314/vault-nacl/internal/marker"
	"github.com/PolarWolf314/vault-nacl/internal/vault"
)

const (
	testPassword = "pa$$w0rd"
	newPassword  = "new-password"
)

var fast = vault.Config{Iterations: 1000}

func setupDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func encryptFiles(t *testing.T, dir string, password string, patterns ...string) *EncryptResult {
	t.Helper()
	result, err := Encrypt(context.Background(), EncryptOptions{
		DocumentOptions: DocumentOptions{FilePatterns: patterns, BaseDir: dir},
		Password:        password,
		Vault:           fast,
	})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	return result
}

func TestEncryptDecryptInPlace(t *testing.T) {
	original := "DB_PASSWORD=VAULT_NACL(hunter2)VAULT_NACL\nPLAIN=value\n"
	dir := setupDir(t, map[string]string{"app.env": original})
	path := filepath.Join(dir, "app.env")

	result := encryptFiles(t, dir, testPassword, "app.env")
	if result.Spans != 1 {
		t.Errorf("expected 1 span sealed, got %d", result.Spans)
	}
	if len(result.Files) != 1 || result.Files[0].Output != path {
		t.Errorf("unexpected files %+v", result.Files)
	}
	if result.Digest != "sha256" || result.Iterations != 1000 {
		t.Errorf("unexpected kdf %s/%d", result.Digest, result.Iterations)
	}

	sealed := readFile(t, path)
	if strings.Contains(sealed, "hunter2") {
		t.Fatalf("plaintext left in file: %s", sealed)
	}
	if !strings.HasPrefix(sealed, "DB_PASSWORD=VAULT_NACL(") || !strings.HasSuffix(sealed, ")\nPLAIN=value\n") {
		t.Errorf("surrounding text changed: %q", sealed)
	}

	dec, err := Decrypt(context.Background(), DecryptOptions{
		DocumentOptions: DocumentOptions{FilePatterns: []string{"app.env"}, BaseDir: dir},
		Password:        testPassword,
	})
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(dec.Content) != "DB_PASSWORD=hunter2\nPLAIN=value\n" {
		t.Errorf("unexpected plaintext %q", dec.Content)
	}
	if dec.Spans != 1 {
		t.Errorf("expected 1 span opened, got %d", dec.Spans)
	}
	if readFile(t, path) != sealed {
		t.Error("decrypt must not modify its input")
	}
}

func TestEncryptLeavesFilesWithoutPendingSpans(t *testing.T) {
	dir := setupDir(t, map[string]string{"plain.txt": "nothing here\n"})

	result := encryptFiles(t, dir, testPassword, "plain.txt")
	if result.Spans != 0 || result.Files[0].Output != "" {
		t.Errorf("expected untouched file, got %+v", result.Files)
	}
	if readFile(t, filepath.Join(dir, "plain.txt")) != "nothing here\n" {
		t.Error("file content changed")
	}
}

func TestEncryptKeepsExistingSpans(t *testing.T) {
	dir := setupDir(t, map[string]string{"a.env": "A=VAULT_NACL(one)VAULT_NACL\n"})
	encryptFiles(t, dir, testPassword, "a.env")
	first := readFile(t, filepath.Join(dir, "a.env"))

	if err := os.WriteFile(filepath.Join(dir, "a.env"), []byte(first+"B=VAULT_NACL(two)VAULT_NACL\n"), 0600); err != nil {
		t.Fatalf("failed to append: %v", err)
	}
	result := encryptFiles(t, dir, testPassword, "a.env")
	if result.Spans != 1 {
		t.Errorf("expected only the new span to be sealed, got %d", result.Spans)
	}

	second := readFile(t, filepath.Join(dir, "a.env"))
	if !strings.HasPrefix(second, first) {
		t.Error("existing span was rewritten")
	}
}

func TestEncryptWrongPasswordWritesNothing(t *testing.T) {
	dir := setupDir(t, map[string]string{"a.env": "A=VAULT_NACL(one)VAULT_NACL\n"})
	encryptFiles(t, dir, testPassword, "a.env")

	content := readFile(t, filepath.Join(dir, "a.env")) + "B=VAULT_NACL(two)VAULT_NACL\n"
	if err := os.WriteFile(filepath.Join(dir, "a.env"), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	_, err := Encrypt(context.Background(), EncryptOptions{
		DocumentOptions: DocumentOptions{FilePatterns: []string{"a.env"}, BaseDir: dir},
		Password:        "wrong",
		Vault:           fast,
	})
	if !errors.Is(err, verrors.ErrDecryptFailed) {
		t.Fatalf("expected ErrDecryptFailed, got %v", err)
	}
	if readFile(t, filepath.Join(dir, "a.env")) != content {
		t.Error("file modified despite failure")
	}
}

func TestEncryptWrongPasswordOnLaterFileWritesNothing(t *testing.T) {
	dir := setupDir(t, map[string]string{"b.env": "B=VAULT_NACL(two)VAULT_NACL\n"})
	encryptFiles(t, dir, testPassword, "b.env")

	first := "A=VAULT_NACL(one)VAULT_NACL\n"
	second := readFile(t, filepath.Join(dir, "b.env")) + "C=VAULT_NACL(three)VAULT_NACL\n"
	for name, content := range map[string]string{"a.env": first, "b.env": second} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	_, err := Encrypt(context.Background(), EncryptOptions{
		DocumentOptions: DocumentOptions{FilePatterns: []string{"a.env", "b.env"}, BaseDir: dir},
		Password:        "wrong",
		Vault:           fast,
	})
	if !errors.Is(err, verrors.ErrDecryptFailed) {
		t.Fatalf("expected ErrDecryptFailed, got %v", err)
	}
	if got := readFile(t, filepath.Join(dir, "a.env")); got != first {
		t.Errorf("a.env rewritten although the run failed: %s", got)
	}
	if got := readFile(t, filepath.Join(dir, "b.env")); got != second {
		t.Errorf("b.env rewritten although the run failed: %s", got)
	}
}

func TestEncryptStdin(t *testing.T) {
	result, err := Encrypt(context.Background(), EncryptOptions{
		DocumentOptions: DocumentOptions{
			BaseDir: t.TempDir(),
			Stdin:   strings.NewReader("token: VAULT_NACL(abc)VAULT_NACL\n"),
		},
		Password: testPassword,
		Vault:    fast,
	})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if !strings.HasPrefix(string(result.Content), "token: VAULT_NACL(") {
		t.Errorf("unexpected content %q", result.Content)
	}

	dec, err := Decrypt(context.Background(), DecryptOptions{
		DocumentOptions: DocumentOptions{
			BaseDir: t.TempDir(),
			Stdin:   strings.NewReader(string(result.Content)),
		},
		Password: testPassword,
	})
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(dec.Content) != "token: abc\n" {
		t.Errorf("unexpected plaintext %q", dec.Content)
	}
}

func TestEncryptToOutput(t *testing.T) {
	dir := setupDir(t, map[string]string{"in.env": "A=VAULT_NACL(x)VAULT_NACL\n"})
	out := filepath.Join(dir, "out.env")

	result, err := Encrypt(context.Background(), EncryptOptions{
		DocumentOptions: DocumentOptions{FilePatterns: []string{"in.env"}, BaseDir: dir, Output: out},
		Password:        testPassword,
		Vault:           fast,
	})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if result.Files[0].Output != out {
		t.Errorf("expected output %s, got %s", out, result.Files[0].Output)
	}
	if readFile(t, filepath.Join(dir, "in.env")) != "A=VAULT_NACL(x)VAULT_NACL\n" {
		t.Error("input modified when output was set")
	}
	if strings.Contains(readFile(t, out), "(x)") {
		t.Error("output not encrypted")
	}
}

func TestOutputNeedsSingleInput(t *testing.T) {
	dir := setupDir(t, map[string]string{"a.env": "", "b.env": ""})

	_, err := Decrypt(context.Background(), DecryptOptions{
		DocumentOptions: DocumentOptions{FilePatterns: []string{"*.env"}, BaseDir: dir, Output: "out"},
		Password:        testPassword,
	})
	if !errors.Is(err, verrors.ErrOutputNeedsSingleInput) {
		t.Fatalf("expected ErrOutputNeedsSingleInput, got %v", err)
	}
}

func TestMissingPassword(t *testing.T) {
	dir := setupDir(t, map[string]string{"a.env": ""})
	opts := DocumentOptions{FilePatterns: []string{"a.env"}, BaseDir: dir}

	if _, err := Encrypt(context.Background(), EncryptOptions{DocumentOptions: opts}); !errors.Is(err, verrors.ErrNoPassword) {
		t.Errorf("Encrypt: expected ErrNoPassword, got %v", err)
	}
	if _, err := Decrypt(context.Background(), DecryptOptions{DocumentOptions: opts}); !errors.Is(err, verrors.ErrNoPassword) {
		t.Errorf("Decrypt: expected ErrNoPassword, got %v", err)
	}
	if _, err := Rekey(context.Background(), RekeyOptions{DocumentOptions: opts, Password: testPassword}); !errors.Is(err, verrors.ErrNoPassword) {
		t.Errorf("Rekey: expected ErrNoPassword, got %v", err)
	}
}

func TestUnsupportedDigest(t *testing.T) {
	dir := setupDir(t, map[string]string{"a.env": ""})

	_, err := Encrypt(context.Background(), EncryptOptions{
		DocumentOptions: DocumentOptions{FilePatterns: []string{"a.env"}, BaseDir: dir},
		Password:        testPassword,
		Vault:           vault.Config{Digest: "md5"},
	})
	if !errors.Is(err, verrors.ErrUnsupportedDigest) {
		t.Fatalf("expected ErrUnsupportedDigest, got %v", err)
	}
}

func TestDecryptWrongPasswordNamesFileAndPath(t *testing.T) {
	dir := setupDir(t, map[string]string{"config.json": `{"db":{"password":"VAULT_NACL(secret)VAULT_NACL"}}`})
	encryptFiles(t, dir, testPassword, "config.json")

	_, err := Decrypt(context.Background(), DecryptOptions{
		DocumentOptions: DocumentOptions{
			FilePatterns: []string{"config.json"},
			BaseDir:      dir,
			Format:       document.Auto,
		},
		Password: "wrong",
	})
	if !errors.Is(err, verrors.ErrDecryptFailed) {
		t.Fatalf("expected ErrDecryptFailed, got %v", err)
	}
	var pe *verrors.PathError
	if !errors.As(err, &pe) || pe.Path != "db.password" {
		t.Errorf("expected path db.password, got %v", err)
	}
	if !strings.Contains(err.Error(), "config.json") {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestStructuredDocuments(t *testing.T) {
	dir := setupDir(t, map[string]string{
		"values.yaml": "db:\n  user: app\n  password: VAULT_NACL(s3cret)VAULT_NACL\n",
	})
	path := filepath.Join(dir, "values.yaml")

	_, err := Encrypt(context.Background(), EncryptOptions{
		DocumentOptions: DocumentOptions{FilePatterns: []string{"values.yaml"}, BaseDir: dir, Format: document.Auto},
		Password:        testPassword,
		Vault:           fast,
	})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	sealed := readFile(t, path)
	if strings.Contains(sealed, "s3cret") || !strings.Contains(sealed, "user: app") {
		t.Errorf("unexpected yaml:\n%s", sealed)
	}

	dec, err := Decrypt(context.Background(), DecryptOptions{
		DocumentOptions: DocumentOptions{FilePatterns: []string{"values.yaml"}, BaseDir: dir, Format: document.Auto},
		Password:        testPassword,
	})
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !strings.Contains(string(dec.Content), "password: s3cret") {
		t.Errorf("unexpected plaintext:\n%s", dec.Content)
	}
}

func TestRekey(t *testing.T) {
	dir := setupDir(t, map[string]string{
		"a.env": "A=VAULT_NACL(alpha)VAULT_NACL\n",
		"b.env": "B=VAULT_NACL(beta)VAULT_NACL\n",
	})
	encryptFiles(t, dir, testPassword, "*.env")
	if err := os.WriteFile(filepath.Join(dir, "b.env"), []byte(readFile(t, filepath.Join(dir, "b.env"))+"C=VAULT_NACL(gamma)VAULT_NACL\n"), 0600); err != nil {
		t.Fatalf("failed to append: %v", err)
	}

	result, err := Rekey(context.Background(), RekeyOptions{
		DocumentOptions: DocumentOptions{FilePatterns: []string{"*.env"}, BaseDir: dir},
		Password:        testPassword,
		NewPassword:     newPassword,
		NewVault:        vault.Config{Digest: "sha512", Iterations: 1000},
	})
	if err != nil {
		t.Fatalf("Rekey failed: %v", err)
	}
	if result.Spans != 3 {
		t.Errorf("expected 3 spans, got %d", result.Spans)
	}
	if result.Digest != "sha512" {
		t.Errorf("expected digest sha512, got %s", result.Digest)
	}

	opts := DocumentOptions{FilePatterns: []string{"b.env"}, BaseDir: dir}
	if _, err := Decrypt(context.Background(), DecryptOptions{DocumentOptions: opts, Password: testPassword}); !errors.Is(err, verrors.ErrDecryptFailed) {
		t.Errorf("old password should fail, got %v", err)
	}
	dec, err := Decrypt(context.Background(), DecryptOptions{DocumentOptions: opts, Password: newPassword})
	if err != nil {
		t.Fatalf("Decrypt with new password failed: %v", err)
	}
	if string(dec.Content) != "B=beta\nC=gamma\n" {
		t.Errorf("unexpected plaintext %q", dec.Content)
	}
}

func TestRekeyWrongPasswordWritesNothing(t *testing.T) {
	dir := setupDir(t, map[string]string{
		"a.env": "A=VAULT_NACL(alpha)VAULT_NACL\n",
		"b.env": "B=VAULT_NACL(beta)VAULT_NACL\n",
	})
	encryptFiles(t, dir, testPassword, "a.env")
	encryptFiles(t, dir, "other", "b.env")
	a := readFile(t, filepath.Join(dir, "a.env"))
	b := readFile(t, filepath.Join(dir, "b.env"))

	_, err := Rekey(context.Background(), RekeyOptions{
		DocumentOptions: DocumentOptions{FilePatterns: []string{"a.env", "b.env"}, BaseDir: dir},
		Password:        testPassword,
		NewPassword:     newPassword,
		NewVault:        fast,
	})
	if !errors.Is(err, verrors.ErrDecryptFailed) {
		t.Fatalf("expected ErrDecryptFailed, got %v", err)
	}
	if readFile(t, filepath.Join(dir, "a.env")) != a || readFile(t, filepath.Join(dir, "b.env")) != b {
		t.Error("files modified despite failure")
	}
}

func TestCheck(t *testing.T) {
	dir := setupDir(t, map[string]string{
		"a.env":     "A=VAULT_NACL(alpha)VAULT_NACL\nB=VAULT_NACL(beta)VAULT_NACL\n",
		"plain.txt": "nothing\n",
	})
	encryptFiles(t, dir, testPassword, "a.env")
	if err := os.WriteFile(filepath.Join(dir, "b.env"), []byte("C=VAULT_NACL(gamma)VAULT_NACL\n"), 0600); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	result, err := Check(context.Background(), CheckOptions{
		DocumentOptions: DocumentOptions{FilePatterns: []string{"a.env", "b.env", "plain.txt"}, BaseDir: dir},
	})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !result.Found || result.Sealed != 2 || result.Pending != 1 {
		t.Errorf("unexpected result %+v", result)
	}
	if len(result.Files) != 3 || result.Files[2].Sealed+result.Files[2].Pending != 0 {
		t.Errorf("unexpected files %+v", result.Files)
	}

	quick, err := Check(context.Background(), CheckOptions{
		DocumentOptions: DocumentOptions{FilePatterns: []string{"plain.txt", "b.env"}, BaseDir: dir},
		Quick:           true,
	})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !quick.Found || len(quick.Files) != 1 || filepath.Base(quick.Files[0].Path) != "b.env" {
		t.Errorf("unexpected quick result %+v", quick)
	}

	none, err := Check(context.Background(), CheckOptions{
		DocumentOptions: DocumentOptions{FilePatterns: []string{"plain.txt"}, BaseDir: dir},
	})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if none.Found {
		t.Error("plain file reported spans")
	}
}

func TestEncryptSecret(t *testing.T) {
	span, err := EncryptSecret(context.Background(), EncryptSecretOptions{
		Password:   testPassword,
		Vault:      fast,
		Secret:     "a secret with ) and \n newline",
		SplitLines: true,
	})
	if err != nil {
		t.Fatalf("EncryptSecret failed: %v", err)
	}
	if !strings.HasPrefix(span, "VAULT_NACL(\n") || !strings.HasSuffix(span, "\n)") {
		t.Errorf("unexpected span %q", span)
	}

	dec, err := Decrypt(context.Background(), DecryptOptions{
		DocumentOptions: DocumentOptions{BaseDir: t.TempDir(), Stdin: strings.NewReader(span)},
		Password:        testPassword,
	})
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(dec.Content) != "a secret with ) and \n newline" {
		t.Errorf("unexpected plaintext %q", dec.Content)
	}

	if _, err := EncryptSecret(context.Background(), EncryptSecretOptions{Password: testPassword}); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestCustomMarker(t *testing.T) {
	dir := setupDir(t, map[string]string{"a.env": "A=SECRET(x)SECRET\nB=VAULT_NACL(y)VAULT_NACL\n"})
	p := marker.MustNew("SECRET")

	result, err := Encrypt(context.Background(), EncryptOptions{
		DocumentOptions: DocumentOptions{FilePatterns: []string{"a.env"}, BaseDir: dir, Marker: p},
		Password:        testPassword,
		Vault:           fast,
	})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if result.Spans != 1 {
		t.Errorf("expected only the custom marker span, got %d", result.Spans)
	}
	if !strings.Contains(readFile(t, filepath.Join(dir, "a.env")), "B=VAULT_NACL(y)VAULT_NACL") {
		t.Error("default marker span should be left alone")
	}
}

func TestAuditTrail(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	audit.Enable(logPath)
	defer audit.Disable()

	dir := setupDir(t, map[string]string{"a.env": "A=VAULT_NACL(x)VAULT_NACL\n"})
	encryptFiles(t, dir, testPassword, "a.env")
	_, _ = Decrypt(context.Background(), DecryptOptions{
		DocumentOptions: DocumentOptions{FilePatterns: []string{"a.env"}, BaseDir: dir},
		Password:        "wrong",
	})

	entries, err := audit.ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	enc := entries[0]
	if enc.Operation != "encrypt" || enc.Spans != 1 || enc.Digest != "sha256" || enc.Iterations != 1000 {
		t.Errorf("unexpected encrypt entry %+v", enc)
	}
	if len(enc.Files) != 1 || filepath.Base(enc.Files[0]) != "a.env" {
		t.Errorf("unexpected files %v", enc.Files)
	}
	if entries[1].Operation != "decrypt" || !strings.Contains(entries[1].Error, "decrypt failed") {
		t.Errorf("unexpected decrypt entry %+v", entries[1])
	}

	data := readFile(t, logPath)
	if strings.Contains(data, testPassword) || strings.Contains(data, "VAULT_NACL(x)") {
		t.Error("audit log leaked secrets")
	}
}
