// Package errors provides typed error values for vault-nacl.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. Library
// callers can also branch on the broad category of a failure with KindOf.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Configuration errors: unusable settings or envelopes
//     (ErrNoPassword, ErrUnsupportedDigest, ErrIterationsOutOfRange,
//     ErrUnsupportedVersion)
//   - Authentication errors: the authenticated decryption step failed
//     (ErrDecryptFailed). Wrong passwords, corrupted and truncated envelopes
//     all collapse into this one value.
//   - Usage errors: the caller passed something the operation cannot use
//     (ErrStringExpected, ErrInvalidRekeyTarget)
//   - File errors: input discovery problems (ErrNoFilesFound, ErrFileNotFound)
//
// # Usage
//
// Return errors from internal packages:
//
//	if enclave == nil {
//	    return nil, errors.ErrNoPassword
//	}
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, verrors.ErrDecryptFailed) {
//	    // Wrong password or damaged document
//	}
//
// Failures found while walking a document carry the location of the value:
//
//	var pe *verrors.PathError
//	if errors.As(err, &pe) {
//	    fmt.Println(pe.Path) // e.g. b[2].a
//	}
package errors
