package errors

import (
	"errors"
	"fmt"
)

// Configuration errors are reported immediately and are never worth retrying.
var (
	// ErrNoPassword indicates the vault has no password, or it was cleared.
	ErrNoPassword = errors.New("no password")

	// ErrUnsupportedDigest indicates a digest name or wire id outside the known set.
	ErrUnsupportedDigest = errors.New("unsupported digest")

	// ErrIterationsOutOfRange indicates a PBKDF2 cost above the accepted ceiling.
	ErrIterationsOutOfRange = errors.New("iterations out of range")

	// ErrUnsupportedVersion indicates an envelope written by a newer format version.
	ErrUnsupportedVersion = errors.New("unsupported version")

	// ErrInvalidMarker indicates a marker name that cannot delimit spans.
	ErrInvalidMarker = errors.New("invalid marker")

	// ErrUnsupportedFormat indicates an unknown document format.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// Authentication errors.
var (
	// ErrDecryptFailed indicates the authenticated decryption step failed.
	// It deliberately does not say why.
	ErrDecryptFailed = errors.New("decrypt failed")
)

// Usage errors indicate the caller passed an argument the operation cannot use.
var (
	// ErrStringExpected indicates a string-only operation received another value.
	ErrStringExpected = errors.New("string expected")

	// ErrInvalidRekeyTarget indicates rekey was called without a usable new vault.
	ErrInvalidRekeyTarget = errors.New("rekey needs a vault")

	// ErrNoInput indicates there was nothing to read: no files and no piped stdin.
	ErrNoInput = errors.New("no input provided")

	// ErrPasswordMismatch indicates the password confirmation did not match.
	ErrPasswordMismatch = errors.New("passwords need to match")

	// ErrOutputNeedsSingleInput indicates --output was combined with several inputs.
	ErrOutputNeedsSingleInput = errors.New("output path requires exactly one input file")
)

// File errors indicate issues with file discovery or access.
var (
	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")

	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrNoPasswordInFile indicates a password file held no usable line.
	ErrNoPasswordInFile = errors.New("no password found in file")
)

// Kind is the broad category of a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindAuthentication
	KindUsage
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindAuthentication:
		return "authentication"
	case KindUsage:
		return "usage"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrDecryptFailed, KindAuthentication},
	{ErrNoPassword, KindConfiguration},
	{ErrUnsupportedDigest, KindConfiguration},
	{ErrIterationsOutOfRange, KindConfiguration},
	{ErrUnsupportedVersion, KindConfiguration},
	{ErrInvalidMarker, KindConfiguration},
	{ErrUnsupportedFormat, KindConfiguration},
	{ErrStringExpected, KindUsage},
	{ErrInvalidRekeyTarget, KindUsage},
	{ErrNoInput, KindUsage},
	{ErrPasswordMismatch, KindUsage},
	{ErrOutputNeedsSingleInput, KindUsage},
	{ErrNoFilesFound, KindFile},
	{ErrFileNotFound, KindFile},
	{ErrNoPasswordInFile, KindFile},
}

// KindOf reports the category of err by walking its wrap chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

// PathError records where in a nested document a failure happened.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%v at %q", e.Err, e.Path)
}

func (e *PathError) Unwrap() error {
	return e.Err
}
