// Package engine applies a vault to every marker span inside a document.
//
// A document is a value.Value: plain text, or nested mappings and sequences
// whose strings may contain spans. The engine has four modes:
//
//   - Decrypt replaces every encrypted span with its plaintext.
//   - Encrypt seals every pending span. Existing encrypted spans in the same
//     string are opened first, so a wrong password fails the call instead of
//     producing a document sealed under two different passwords.
//   - Rekey opens existing spans with the current vault and reseals them
//     with the new one, then seals pending spans with the new vault.
//   - Check reports whether any span exists, without touching the document.
//
// Mappings are updated in place and sequences are rebuilt. Containers that
// are already being visited are returned as they are, which makes
// self-referencing documents safe to walk.
//
// Authentication failures found below the top level are wrapped in an
// errors.PathError naming the value, e.g. "b[2].a".
//
// All per-call state lives in the call, so an Engine may be used from
// several goroutines at once.
package engine
