// Package workflows provides high-level orchestration for vault-nacl commands.
//
// Workflows coordinate the document, engine, vault and audit packages to
// implement complete user-facing features. Each workflow handles a single
// command's business logic, independent of CLI concerns like flag parsing,
// password prompts, spinners and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Resolves the password from a flag, file, environment or prompt
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Resolving file patterns, or falling back to stdin
//   - Decoding and encoding documents
//   - Performing the core operation
//   - Recording audit trail entries
//
// # Available Workflows
//
//   - Encrypt: seals pending spans, rewriting files in place
//   - Decrypt: opens sealed spans and returns the plaintext documents
//   - Rekey: moves every span to a new password
//   - Check: counts spans without any cryptography
//   - EncryptSecret: seals a single value typed at a prompt
//
// # Error Handling
//
// Workflows return sentinel errors from the internal/errors package wrapped
// with the file they concern. Use errors.Is() to check for specific error
// conditions:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, verrors.ErrDecryptFailed) {
//	    // Wrong password, or a damaged span
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// Cancelling it aborts a running key derivation.
package workflows
