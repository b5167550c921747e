package utils

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	verrors "github.com/PolarWolf314/vault-nacl/internal/errors"
)

// PasswordEnv names the environment variable consulted when no password flag is set.
const PasswordEnv = "VAULT_NACL_PASSWORD"

// ReadPasswordFile returns the first non-blank line of the file at path,
// trimmed of surrounding whitespace.
func ReadPasswordFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", verrors.ErrFileNotFound, path)
		}
		return "", fmt.Errorf("failed to open password file: %w", err)
	}
	defer file.Close()

	password, err := FirstLine(file)
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, path)
	}
	return password, nil
}

// FirstLine returns the first line of r that is not blank, trimmed.
func FirstLine(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return "", verrors.ErrNoPasswordInFile
}

// PasswordFromEnv returns the password from PasswordEnv, if set.
func PasswordFromEnv() (string, bool) {
	password, ok := os.LookupEnv(PasswordEnv)
	if !ok || password == "" {
		return "", false
	}
	return password, true
}

// PromptPassword asks for a password on the terminal without echo.
func PromptPassword(prompt string) (string, error) {
	password, err := readHidden(prompt)
	if err != nil {
		return "", err
	}
	return string(password), nil
}

// PromptNewPassword asks for a password twice and fails if the answers differ.
func PromptNewPassword(prompt string) (string, error) {
	first, err := readHidden(prompt)
	if err != nil {
		return "", err
	}
	second, err := readHidden("Confirm password: ")
	if err != nil {
		return "", err
	}
	if !bytes.Equal(first, second) {
		return "", verrors.ErrPasswordMismatch
	}
	return string(first), nil
}

// readHidden prefers stdin and falls back to the controlling terminal when
// stdin carries the document.
func readHidden(prompt string) ([]byte, error) {
	if IsTerminal() {
		return ReadPassphrase(prompt)
	}
	return ReadPassphraseFromTTY(prompt)
}
