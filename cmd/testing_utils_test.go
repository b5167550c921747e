package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const testPassword = "pa$$w0rd"

// syncBuffer lets the spinner goroutine and the command share a writer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// cliResult holds what one CLI run printed.
type cliResult struct {
	Stdout string
	Stderr string
	Err    error
}

// runCLI executes the root command with args against fresh global state.
// A config file in a temp dir is always passed so the user's own config
// never leaks into tests. stdin is used as piped input when non-nil.
func runCLI(t *testing.T, stdin io.Reader, args ...string) cliResult {
	t.Helper()

	ResetGlobalState()
	t.Cleanup(func() {
		ResetGlobalState()
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetIn(nil)
		RootCmd.SetArgs(nil)
	})

	var stdout, stderr syncBuffer
	RootCmd.SetOut(&stdout)
	RootCmd.SetErr(&stderr)
	RootCmd.SetIn(stdin)

	if !hasFlag(args, "--config") {
		args = append(args, "--config", filepath.Join(t.TempDir(), "config.toml"))
	}
	RootCmd.SetArgs(args)

	err := RootCmd.Execute()
	return cliResult{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag || strings.HasPrefix(a, flag+"=") {
			return true
		}
	}
	return false
}

// setupTestDir writes files into a temp dir and returns its path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}
